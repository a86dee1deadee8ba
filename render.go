/*
* Entropy graph rendering module
* Copyright (C) 2025  Artem Stefankiv
*
* This program is free software: you can redistribute it and/or modify
* it under the terms of the GNU General Public License as published by
* the Free Software Foundation, either version 3 of the License, or
* (at your option) any later version.
*
* This program is distributed in the hope that it will be useful,
* but WITHOUT ANY WARRANTY; without even the implied warranty of
* MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
* GNU General Public License for more details.
*
* You should have received a copy of the GNU General Public License
* along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package main

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	curveColor    = color.RGBA{R: 70, G: 130, B: 180, A: 255} // steel blue
	lowFillColor  = color.NRGBA{G: 128, A: 50}
	lowEdgeColor  = color.NRGBA{G: 128, A: 128}
	highFillColor = color.NRGBA{R: 200, A: 50}
	highEdgeColor = color.NRGBA{R: 200, A: 128}
)

// hexTicks renders byte offsets on the x axis as hexadecimal values.
type hexTicks struct{}

func (hexTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i, tick := range ticks {
		if tick.Label == "" {
			continue
		}
		ticks[i].Label = fmt.Sprintf("0x%X", int64(tick.Value))
	}
	return ticks
}

func regionLabel(region Region) string {
	span := region.End - region.Start
	if span >= 4096 {
		return fmt.Sprintf("0x%X [%s] 0x%X", region.Start, FormatBytes(span), region.End)
	}
	return fmt.Sprintf("0x%X-0x%X", region.Start, region.End)
}

// addRegionSpan shades one region as a full-height band with its offsets and
// span annotated at labelY.
func addRegionSpan(p *plot.Plot, region Region, fill, edge color.Color, labelY float64) error {
	band, err := plotter.NewPolygon(plotter.XYs{
		{X: float64(region.Start), Y: 0},
		{X: float64(region.End), Y: 0},
		{X: float64(region.End), Y: 8},
		{X: float64(region.Start), Y: 8},
	})
	if err != nil {
		return err
	}
	band.Color = fill
	band.LineStyle.Color = edge
	p.Add(band)

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: float64(region.Start+region.End) / 2, Y: labelY}},
		Labels: []string{regionLabel(region)},
	})
	if err != nil {
		return err
	}
	p.Add(labels)
	return nil
}

// PlotEntropy renders the entropy curve with shaded low/high regions to an
// image file; the format follows the output path's extension. It consumes
// only the finished profile and region lists.
func PlotEntropy(profile *EntropyProfile, low, high []Region, title, outputPath string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Byte Offset"
	p.Y.Label.Text = "Shannon Entropy (bits)"
	p.Y.Min, p.Y.Max = 0, 8
	p.X.Min, p.X.Max = 0, float64(profile.FileSize)
	p.X.Tick.Marker = hexTicks{}
	p.Add(plotter.NewGrid())

	// Shaded bands go in before the curve so the curve stays visible.
	for _, region := range low {
		if err := addRegionSpan(p, region, lowFillColor, lowEdgeColor, 0.5); err != nil {
			return fmt.Errorf("failed to draw low entropy region: %w", err)
		}
	}
	for _, region := range high {
		if err := addRegionSpan(p, region, highFillColor, highEdgeColor, 7.5); err != nil {
			return fmt.Errorf("failed to draw high entropy region: %w", err)
		}
	}

	points := make(plotter.XYs, len(profile.Samples))
	for i, sample := range profile.Samples {
		points[i].X = float64(sample.Offset)
		points[i].Y = sample.Value
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return fmt.Errorf("failed to build entropy curve: %w", err)
	}
	line.LineStyle.Width = vg.Points(0.8)
	line.LineStyle.Color = curveColor
	p.Add(line)

	if err := p.Save(14*vg.Inch, 8*vg.Inch, outputPath); err != nil {
		return fmt.Errorf("failed to save entropy graph: %w", err)
	}
	return nil
}
