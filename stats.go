/*
* Summary statistics and distribution tests module
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
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// ProfileSummary aggregates a finished run for display. It is a pure
// function of the profile and region lists, derivable without re-scanning.
type ProfileSummary struct {
	FileSize    int64
	SampleCount int
	AvgEntropy  float64
	MinEntropy  float64
	MaxEntropy  float64
	LowRegions  int
	HighRegions int
}

// Summarize computes the summary statistics of a run. A zero-sample profile
// yields a zeroed summary rather than a division by zero.
func Summarize(profile *EntropyProfile, low, high []Region) *ProfileSummary {
	summary := &ProfileSummary{
		FileSize:    profile.FileSize,
		SampleCount: len(profile.Samples),
		LowRegions:  len(low),
		HighRegions: len(high),
	}
	if len(profile.Samples) == 0 {
		return summary
	}

	values := make([]float64, len(profile.Samples))
	for i, sample := range profile.Samples {
		values[i] = sample.Value
	}
	summary.AvgEntropy, _ = stats.Mean(values)
	summary.MinEntropy, _ = stats.Min(values)
	summary.MaxEntropy, _ = stats.Max(values)
	return summary
}

// ChiSquareTest computes the Pearson chi-square statistic of a byte
// distribution against the uniform distribution, plus the p-value under the
// chi-squared distribution with 255 degrees of freedom.
func ChiSquareTest(counts *[256]uint64, total uint64) (statistic, pValue float64) {
	if total == 0 {
		return 0, 1
	}

	expected := float64(total) / 256
	for _, count := range counts {
		diff := float64(count) - expected
		statistic += diff * diff / expected
	}

	dist := distuv.ChiSquared{K: 255}
	pValue = 1 - dist.CDF(statistic)
	return statistic, pValue
}

// KolmogorovTest computes the Kolmogorov goodness-of-fit statistic of a byte
// distribution against the uniform CDF: the maximum absolute deviation
// between the empirical and theoretical CDFs, the byte value where it
// occurs, and the critical values at significance levels 0.01 and 0.05.
func KolmogorovTest(counts *[256]uint64, total uint64) (statistic float64, maxDiffPosition int, criticalValue001, criticalValue005 float64) {
	if total == 0 {
		return 0, 0, 0, 0
	}

	var empiricalCumSum, theoreticalCumSum float64
	for i := 0; i < 256; i++ {
		empiricalCumSum += float64(counts[i]) / float64(total)
		theoreticalCumSum += 1.0 / 256
		diff := math.Abs(empiricalCumSum - theoreticalCumSum)
		if diff > statistic {
			statistic = diff
			maxDiffPosition = i
		}
	}

	criticalValue001 = 1.63 / math.Sqrt(float64(total))
	criticalValue005 = 1.36 / math.Sqrt(float64(total))
	return statistic, maxDiffPosition, criticalValue001, criticalValue005
}
