/*
* Entropy region segmentation tests
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
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cycleBytes produces maximally diverse data: every 256-byte window holds
// each byte value exactly once, so its entropy is exactly 8 bits.
func cycleBytes(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 256)
	}
	return data
}

func profileOf(t *testing.T, data []byte, cfg *Config) *EntropyProfile {
	t.Helper()
	profile, err := AnalyzeEntropy(bytes.NewReader(data), int64(len(data)), cfg.WindowSize, cfg.StepSize)
	require.NoError(t, err)
	return profile
}

// syntheticSegmenter builds a fold with explicit thresholds for tests that
// feed hand-crafted samples. fileSize 0 disables the relative span floor.
func syntheticSegmenter(t *testing.T, threshold float64, minSpan, fileSize int64) *Segmenter {
	t.Helper()
	cfg := DefaultConfig()
	cfg.EntropyThreshold = threshold
	cfg.MinSpanBytes = minSpan
	segmenter, err := NewSegmenter(cfg, fileSize)
	require.NoError(t, err)
	return segmenter
}

func TestSegmenterEmptyProfile(t *testing.T) {
	// Scenario: an empty file yields empty lists, not an error.
	low, high, err := FindSignificantRegions(&EntropyProfile{}, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, low)
	assert.Empty(t, high)
}

func TestSegmenterAllZeroFile(t *testing.T) {
	// Scenario: 16 KiB of zeros becomes one low region covering every sample.
	cfg := DefaultConfig()
	profile := profileOf(t, make([]byte, 16384), cfg)

	low, high, err := FindSignificantRegions(profile, cfg)
	require.NoError(t, err)

	assert.Empty(t, high)
	require.Len(t, low, 1)
	assert.Equal(t, int64(0), low[0].Start)
	// The region closes at the last sample's offset, not at end of file.
	lastOffset := profile.Samples[len(profile.Samples)-1].Offset
	assert.Equal(t, lastOffset, low[0].End)
	assert.Equal(t, int64(16256), low[0].End)
	assert.Zero(t, low[0].AvgEntropy)
	assert.Equal(t, LowEntropy, low[0].Class)
}

func TestSegmenterRandomFile(t *testing.T) {
	// Scenario: 16 KiB of (pseudo)random bytes is one high region with a
	// near-maximal average; no low region survives the span filter.
	data := make([]byte, 16384)
	_, err := rand.New(rand.NewSource(7)).Read(data)
	require.NoError(t, err)

	cfg := DefaultConfig()
	profile := profileOf(t, data, cfg)

	low, high, err := FindSignificantRegions(profile, cfg)
	require.NoError(t, err)

	assert.Empty(t, low)
	require.Len(t, high, 1)
	assert.Equal(t, int64(0), high[0].Start)
	assert.Equal(t, int64(16256), high[0].End)
	assert.Greater(t, high[0].AvgEntropy, 7.0)
	assert.LessOrEqual(t, high[0].AvgEntropy, 8.0)
	assert.Equal(t, HighEntropy, high[0].Class)
}

func TestSegmenterZeroThenRandom(t *testing.T) {
	// Scenario: 10000 zero bytes then 10000 maximally diverse bytes gives
	// exactly one region of each class, split near offset 10000.
	data := append(make([]byte, 10000), cycleBytes(10000)...)
	cfg := DefaultConfig()
	profile := profileOf(t, data, cfg)

	low, high, err := FindSignificantRegions(profile, cfg)
	require.NoError(t, err)

	require.Len(t, low, 1)
	require.Len(t, high, 1)

	assert.Equal(t, int64(0), low[0].Start)
	assert.Zero(t, low[0].AvgEntropy)
	assert.GreaterOrEqual(t, low[0].End-low[0].Start, int64(8192))
	assert.GreaterOrEqual(t, high[0].End-high[0].Start, int64(8192))

	// The class flips within one window of the data boundary; the closing
	// sample is also the opener of the high region.
	assert.Equal(t, low[0].End, high[0].Start)
	assert.InDelta(t, 10000, float64(high[0].Start), float64(cfg.WindowSize))
	assert.GreaterOrEqual(t, high[0].AvgEntropy, cfg.EntropyThreshold)
}

func TestSegmenterThresholdEqualityIsHigh(t *testing.T) {
	segmenter := syntheticSegmenter(t, 4.0, 0, 0)
	segmenter.Observe(EntropySample{Offset: 0, Value: 4.0})
	low, high := segmenter.Finish()

	assert.Empty(t, low)
	require.Len(t, high, 1)
	assert.Equal(t, 4.0, high[0].AvgEntropy)
}

func TestSegmenterClosingSampleSeedsNextRegion(t *testing.T) {
	segmenter := syntheticSegmenter(t, 4.0, 0, 0)
	segmenter.Observe(EntropySample{Offset: 0, Value: 1.0})
	segmenter.Observe(EntropySample{Offset: 10, Value: 2.0})
	segmenter.Observe(EntropySample{Offset: 20, Value: 7.0})
	low, high := segmenter.Finish()

	require.Len(t, low, 1)
	assert.Equal(t, int64(0), low[0].Start)
	assert.Equal(t, int64(20), low[0].End)
	// The closing sample's value belongs to the next region, not this one.
	assert.InDelta(t, 1.5, low[0].AvgEntropy, 1e-12)

	require.Len(t, high, 1)
	assert.Equal(t, int64(20), high[0].Start)
	assert.Equal(t, int64(20), high[0].End)
	assert.Equal(t, 7.0, high[0].AvgEntropy)
}

func TestSegmenterMinSpanFilter(t *testing.T) {
	segmenter := syntheticSegmenter(t, 4.0, 100, 0)
	segmenter.Observe(EntropySample{Offset: 0, Value: 1.0})
	segmenter.Observe(EntropySample{Offset: 50, Value: 7.0})
	segmenter.Observe(EntropySample{Offset: 60, Value: 7.0})
	segmenter.Observe(EntropySample{Offset: 200, Value: 1.0})
	low, high := segmenter.Finish()

	// The [0,50) low run and the trailing zero-span low run are both below
	// the minimum; only the 150-byte high run survives.
	assert.Empty(t, low)
	require.Len(t, high, 1)
	assert.Equal(t, int64(50), high[0].Start)
	assert.Equal(t, int64(200), high[0].End)
}

func TestSegmenterRelativeSpanFloor(t *testing.T) {
	// With a 100000-byte file, 0.5% of the size (500) dominates a zero
	// absolute minimum.
	segmenter := syntheticSegmenter(t, 4.0, 0, 100000)
	segmenter.Observe(EntropySample{Offset: 0, Value: 1.0})
	segmenter.Observe(EntropySample{Offset: 400, Value: 7.0})
	segmenter.Observe(EntropySample{Offset: 1000, Value: 1.0})
	low, high := segmenter.Finish()

	assert.Empty(t, low, "a 400-byte low run is below the relative floor")
	require.Len(t, high, 1)
	assert.Equal(t, int64(400), high[0].Start)
	assert.Equal(t, int64(1000), high[0].End)
}

func TestSegmenterOutputInvariants(t *testing.T) {
	// Noisy alternating data: whatever survives must be disjoint, sorted,
	// and above the effective minimum span per class.
	values := []float64{0.2, 0.3, 6.1, 7.2, 0.1, 0.0, 5.5, 6.6, 6.7, 0.4, 7.9, 7.8, 0.2, 0.1}
	segmenter := syntheticSegmenter(t, 4.0, 256, 0)
	for i, value := range values {
		segmenter.Observe(EntropySample{Offset: int64(i * 128), Value: value})
	}
	low, high := segmenter.Finish()

	for _, regions := range [][]Region{low, high} {
		for i, region := range regions {
			assert.Less(t, region.Start, region.End)
			assert.GreaterOrEqual(t, region.End-region.Start, int64(256))
			if i > 0 {
				assert.GreaterOrEqual(t, region.Start, regions[i-1].End)
			}
		}
	}
}

func TestSamplerSegmenterIdempotent(t *testing.T) {
	data := append(cycleBytes(20000), make([]byte, 20000)...)
	cfg := DefaultConfig()

	run := func() ([]Region, []Region) {
		profile := profileOf(t, data, cfg)
		low, high, err := FindSignificantRegions(profile, cfg)
		require.NoError(t, err)
		return low, high
	}

	low1, high1 := run()
	low2, high2 := run()
	assert.Equal(t, low1, low2)
	assert.Equal(t, high1, high2)
}

func TestNewSegmenterInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StepSize = 0
	_, err := NewSegmenter(cfg, 1024)
	assert.Error(t, err)
}

func TestRegionClassString(t *testing.T) {
	assert.Equal(t, "low", LowEntropy.String())
	assert.Equal(t, "high", HighEntropy.String())
	assert.Equal(t, "unknown", RegionClass(42).String())
}
