/*
* Sliding-window entropy profiler module
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
)

// EntropySample is the Shannon entropy of a single window, keyed by the
// window's starting byte offset.
type EntropySample struct {
	Offset int64
	Value  float64
}

// EntropyProfile holds the ordered sample sequence of one file scan plus the
// size of the scanned file. It is read-only once produced.
type EntropyProfile struct {
	Samples  []EntropySample
	FileSize int64
}

// ShannonEntropy computes the Shannon entropy of a byte sequence in bits.
// The result lies within [0, 8]; an empty sequence has entropy 0.
func ShannonEntropy(data []byte) float64 {
	if len(data) == 0 {
		return 0.0
	}

	var counts [256]int
	for _, b := range data {
		counts[b]++
	}

	total := float64(len(data))
	var entropy float64
	for _, count := range counts {
		if count == 0 {
			continue
		}
		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// AnalyzeEntropy scans a byte source with a window of windowSize bytes
// advanced by stepSize and emits one sample per non-empty window, starting
// at offset 0. A stepSize below windowSize produces overlapping windows, one
// above it leaves unread gaps; both are legal. The final window may be
// shorter than windowSize. Memory use is bounded by windowSize regardless of
// source size.
func AnalyzeEntropy(r io.ReaderAt, size int64, windowSize, stepSize int) (*EntropyProfile, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", windowSize)
	}
	if stepSize <= 0 {
		return nil, fmt.Errorf("step size must be positive, got %d", stepSize)
	}

	profile := &EntropyProfile{FileSize: size}
	buffer := make([]byte, windowSize)

	for position := int64(0); ; position += int64(stepSize) {
		bytesRead, err := r.ReadAt(buffer, position)
		if bytesRead == 0 {
			if err == nil || err == io.EOF {
				break
			}
			return nil, err
		}
		if err != nil && err != io.EOF {
			return nil, err
		}

		profile.Samples = append(profile.Samples, EntropySample{
			Offset: position,
			Value:  ShannonEntropy(buffer[:bytesRead]),
		})
	}
	return profile, nil
}

// AnalyzeFileEntropy runs AnalyzeEntropy over a file on disk.
func AnalyzeFileEntropy(filename string, windowSize, stepSize int) (*EntropyProfile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	fileStat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	profile, err := AnalyzeEntropy(file, fileStat.Size(), windowSize, stepSize)
	if err != nil {
		return nil, fmt.Errorf("entropy scan of %s failed: %w", filename, err)
	}
	return profile, nil
}
