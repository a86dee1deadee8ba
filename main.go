/*
* Command-line entropy report tool
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
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const fullReportBlockSize = 1048576

var (
	outputPath   = flag.String("o", "entropy_graph.png", "output path for the entropy graph")
	configPath   = flag.String("config", "", "optional TOML configuration file")
	windowSize   = flag.Int("window", DefaultWindowSize, "sliding window size in bytes")
	stepSize     = flag.Int("step", DefaultStepSize, "window stride in bytes")
	threshold    = flag.Float64("threshold", DefaultEntropyThreshold, "entropy threshold in bits, samples strictly below are low entropy")
	minSpanBytes = flag.Int64("min-span", DefaultMinSpanBytes, "minimum region span in bytes")
	fullReport   = flag.Bool("full", false, "also run the whole-file statistics battery")
	noPlot       = flag.Bool("no-plot", false, "skip graph rendering")
	verbose      = flag.Bool("verbose", false, "enable verbose logging")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: entropy_report [flags] <filepath>\n\n")
	fmt.Fprintf(os.Stderr, "Example:\n")
	fmt.Fprintf(os.Stderr, "  entropy_report program.exe\n")
	fmt.Fprintf(os.Stderr, "  entropy_report -o entropy_plot.png data.bin\n\n")
	flag.PrintDefaults()
}

// resolveConfig starts from the defaults or a TOML file and lets explicitly
// set flags override either.
func resolveConfig() (*Config, error) {
	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "window":
			cfg.WindowSize = *windowSize
		case "step":
			cfg.StepSize = *stepSize
		case "threshold":
			cfg.EntropyThreshold = *threshold
		case "min-span":
			cfg.MinSpanBytes = *minSpanBytes
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func printSummary(w io.Writer, summary *ProfileSummary) {
	fmt.Fprintf(w, "File size: %s (%d bytes)\n", FormatBytes(summary.FileSize), summary.FileSize)
	if summary.SampleCount == 0 {
		fmt.Fprintln(w, "File is empty, nothing to analyze.")
		return
	}
	fmt.Fprintf(w, "Average entropy: %.3f bits (min %.3f, max %.3f)\n",
		summary.AvgEntropy, summary.MinEntropy, summary.MaxEntropy)
	fmt.Fprintf(w, "Found %d low entropy regions (runs/padding)\n", summary.LowRegions)
	fmt.Fprintf(w, "Found %d high entropy regions (data/code)\n", summary.HighRegions)
}

// runFullReport prints the whole-file distribution statistics. Each value is
// reported as-is; interpreting them is left to the analyst.
func runFullReport(logger *zap.Logger, filename string) error {
	counts, total, err := CountFileBytes(filename, fullReportBlockSize)
	if err != nil {
		return fmt.Errorf("byte distribution count failed: %w", err)
	}
	if total == 0 {
		return nil
	}

	chiSquare, pValue := ChiSquareTest(counts, total)
	fmt.Printf("Chi-square statistic: %.3f (p-value %.5f)\n", chiSquare, pValue)

	ksStatistic, maxDiffPosition, crit001, crit005 := KolmogorovTest(counts, total)
	fmt.Printf("Kolmogorov statistic: %.6f at byte value %d (critical values %.6f / %.6f)\n",
		ksStatistic, maxDiffPosition, crit001, crit005)

	autocorrResult, err := AutoCorrelation(filename, fullReportBlockSize)
	if err != nil {
		return fmt.Errorf("autocorrelation test failed: %w", err)
	}
	fmt.Printf("Autocorrelation spread: %.6f\n", autocorrResult)

	compressionStat, err := CompressionTest(filename)
	if err != nil {
		return fmt.Errorf("compression test failed: %w", err)
	}
	fmt.Printf("Average compression ratio: %.3f\n", compressionStat)

	signatureStat, err := SignatureAnalysis(filename, fullReportBlockSize)
	if err != nil {
		return fmt.Errorf("signature analysis failed: %w", err)
	}
	fmt.Printf("File signatures per megabyte: %.3f\n", signatureStat)

	logger.Debug("full report finished", zap.Uint64("bytes_counted", total))
	return nil
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	logger := NewLogger(*verbose)
	defer func() {
		_ = logger.Sync()
	}()

	inputFile := flag.Arg(0)
	if _, err := os.Stat(inputFile); err != nil {
		logger.Fatal("input file is not accessible", zap.String("file", inputFile), zap.Error(err))
	}

	cfg, err := resolveConfig()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	logger.Info("analyzing entropy",
		zap.String("file", inputFile),
		zap.Int("window_size", cfg.WindowSize),
		zap.Int("step_size", cfg.StepSize),
		zap.Float64("entropy_threshold", cfg.EntropyThreshold),
		zap.Int64("min_span_bytes", cfg.MinSpanBytes))

	profile, err := AnalyzeFileEntropy(inputFile, cfg.WindowSize, cfg.StepSize)
	if err != nil {
		logger.Fatal("entropy scan failed", zap.Error(err))
	}

	low, high, err := FindSignificantRegions(profile, cfg)
	if err != nil {
		logger.Fatal("region segmentation failed", zap.Error(err))
	}

	printSummary(os.Stdout, Summarize(profile, low, high))

	if *fullReport {
		if err := runFullReport(logger, inputFile); err != nil {
			logger.Fatal("full report failed", zap.Error(err))
		}
	}

	if !*noPlot && len(profile.Samples) > 0 {
		title := fmt.Sprintf("File Entropy Analysis: %s", filepath.Base(inputFile))
		if err := PlotEntropy(profile, low, high, title, *outputPath); err != nil {
			logger.Fatal("failed to render entropy graph", zap.Error(err))
		}
		logger.Info("entropy graph saved", zap.String("path", *outputPath))
	}
}
