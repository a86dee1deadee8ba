/*
* Entropy region segmentation module
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

// RegionClass distinguishes runs of samples below the entropy threshold
// (runs/padding) from runs at or above it (data/code).
type RegionClass int

const (
	LowEntropy RegionClass = iota
	HighEntropy
)

func (c RegionClass) String() string {
	switch c {
	case LowEntropy:
		return "low"
	case HighEntropy:
		return "high"
	}
	return "unknown"
}

// Region is a maximal contiguous run of samples sharing one entropy class.
// Start is the offset of the sample that opened the run, End the offset of
// the sample that closed it (or the last sample at end of stream).
type Region struct {
	Start      int64
	End        int64
	AvgEntropy float64
	Class      RegionClass
}

// relativeSpanFloor is the fraction of the file size that, together with the
// configured absolute minimum, suppresses noise-sized regions.
const relativeSpanFloor = 0.005

// regionAccumulator tracks an open region as a running (sum, count) pair, so
// an arbitrarily long region costs constant memory.
type regionAccumulator struct {
	start int64
	sum   float64
	count int
}

func (a *regionAccumulator) add(value float64) {
	a.sum += value
	a.count++
}

func (a *regionAccumulator) close(end int64, class RegionClass) Region {
	return Region{
		Start:      a.start,
		End:        end,
		AvgEntropy: a.sum / float64(a.count),
		Class:      class,
	}
}

// Segmenter folds an ordered sample stream into low- and high-entropy region
// lists. Samples must be observed in increasing offset order, each exactly
// once; the fold never looks ahead or back. A nil open accumulator is the
// no-open-region state, otherwise openClass tags which run is accumulating.
type Segmenter struct {
	threshold  float64
	minSpan    float64
	open       *regionAccumulator
	openClass  RegionClass
	lastOffset int64
	low        []Region
	high       []Region
}

// NewSegmenter prepares a fold over the samples of one file. The effective
// minimum span max(MinSpanBytes, 0.5% of fileSize) is fixed here, once per
// run, not rederived at every region closure.
func NewSegmenter(cfg *Config, fileSize int64) (*Segmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Segmenter{
		threshold: cfg.EntropyThreshold,
		minSpan:   max(float64(cfg.MinSpanBytes), relativeSpanFloor*float64(fileSize)),
	}, nil
}

// Observe feeds the next sample through the state machine. A sample strictly
// below the threshold is low entropy, a sample at or above it is high. When
// the sample's class opposes the open region, the region is closed at this
// sample's offset and the sample seeds the next region; its value counts
// toward the new region's average, not the closed one's.
func (s *Segmenter) Observe(sample EntropySample) {
	class := HighEntropy
	if sample.Value < s.threshold {
		class = LowEntropy
	}
	s.lastOffset = sample.Offset

	if s.open != nil && s.openClass != class {
		s.commit(sample.Offset)
		s.open = nil
	}
	if s.open == nil {
		s.open = &regionAccumulator{start: sample.Offset}
		s.openClass = class
	}
	s.open.add(sample.Value)
}

// Finish closes any region still open at the offset of the last observed
// sample and returns both region lists, each disjoint and ascending by
// Start. An empty stream yields two empty lists. The fold must not be
// reused afterwards.
func (s *Segmenter) Finish() (low, high []Region) {
	if s.open != nil {
		s.commit(s.lastOffset)
		s.open = nil
	}
	return s.low, s.high
}

// commit appends the open region, closed at end, to its output list unless
// its span falls below the effective minimum. Undersized regions are dropped
// silently rather than merged into a neighbor, so the offset axis may
// contain gaps belonging to neither list.
func (s *Segmenter) commit(end int64) {
	region := s.open.close(end, s.openClass)
	if float64(region.End-region.Start) < s.minSpan {
		return
	}
	if region.Class == LowEntropy {
		s.low = append(s.low, region)
	} else {
		s.high = append(s.high, region)
	}
}

// FindSignificantRegions segments a complete profile in one call.
func FindSignificantRegions(profile *EntropyProfile, cfg *Config) (low, high []Region, err error) {
	segmenter, err := NewSegmenter(cfg, profile.FileSize)
	if err != nil {
		return nil, nil, err
	}
	for _, sample := range profile.Samples {
		segmenter.Observe(sample)
	}
	low, high = segmenter.Finish()
	return low, high, nil
}
