/*
* Autocorrelation test module
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
	"io"
	"math"
	"os"

	"github.com/montanaflynn/stats"
)

// maxCorrelationLag bounds the number of lags evaluated per block.
const maxCorrelationLag = 50

func meanBytes(array []byte) float64 {
	var sum float64
	for _, value := range array {
		sum += float64(value)
	}
	return sum / float64(len(array))
}

// blockAutocorrelation is the mean absolute correlation of a mean-centered
// block against itself at lags 1..maxCorrelationLag.
func blockAutocorrelation(block []byte) (float64, error) {
	blockMean := meanBytes(block)
	centered := make([]float64, len(block))
	for i, value := range block {
		centered[i] = float64(value) - blockMean
	}

	maxLag := maxCorrelationLag
	if len(centered) < maxLag {
		maxLag = len(centered)
	}

	var lagCorrelations []float64
	for lag := 1; lag < maxLag; lag++ {
		correlation, err := stats.Correlation(centered[lag:], centered[:len(centered)-lag])
		if err != nil {
			return 0, fmt.Errorf("correlation at lag %d failed: %w", lag, err)
		}
		lagCorrelations = append(lagCorrelations, math.Abs(correlation))
	}
	if len(lagCorrelations) == 0 {
		return 0, nil
	}
	return stats.Mean(lagCorrelations)
}

// AutoCorrelation reads a file in fixed blocks and returns the standard
// deviation of the per-block mean absolute lag correlations. Encrypted or
// well-compressed data yields a small, stable value. A trailing partial
// block is skipped so every block weighs equally.
func AutoCorrelation(filename string, blockSize int) (float64, error) {
	if blockSize <= 0 {
		return 0, fmt.Errorf("block size must be positive, got %d", blockSize)
	}

	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	buffer := make([]byte, blockSize)
	var blockResults []float64
	for {
		bytesRead, err := file.Read(buffer)
		if bytesRead == 0 {
			if err == io.EOF || err == nil {
				break
			}
			return 0, err
		}
		if bytesRead < blockSize {
			break
		}

		blockResult, err := blockAutocorrelation(buffer)
		if err != nil {
			return 0, err
		}
		blockResults = append(blockResults, blockResult)
	}

	if len(blockResults) < 2 {
		return 0, nil
	}
	return stats.StandardDeviation(blockResults)
}
