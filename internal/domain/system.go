package domain

import (
	"errors"
	"fmt"
)

// ErrIncomplete marks a chain entry whose derived sequences do not line up with its samples.
var ErrIncomplete = errors.New("chain entry is incomplete")

// Measurement is a catalog value with independent lower/upper uncertainty.
type Measurement struct {
	Value    float64
	ErrLower float64
	ErrUpper float64
}

// SystemProfile is one catalog row that survived ingestion.
type SystemProfile struct {
	Name string

	TransitMidtime Measurement
	Period         Measurement

	AOverRs      Measurement
	Inclination  Measurement // degrees
	Eccentricity Measurement
	Omega        Measurement // degrees
}

// PosteriorDraw is one sample of orbital elements.
type PosteriorDraw struct {
	_ struct{} `cbor:",toarray"`

	AOverRs float64
	CosI    float64
	E       float64
	Omega   float64 // degrees
}

// PosteriorSampleSet is the ordered output of the upstream sampler.
type PosteriorSampleSet []PosteriorDraw

// DerivedSampleSet holds per-draw quantities, index-aligned with the posterior set.
type DerivedSampleSet struct {
	IDeg     []float64
	BOcc     []float64
	TEclipse []float64
}

// Len reports the shared length of the derived sequences.
func (d DerivedSampleSet) Len() int {
	return len(d.BOcc)
}

// SummaryRecord is the percentile reduction of one derived quantity.
type SummaryRecord struct {
	Median    float64
	Std       float64
	P16       float64
	P84       float64
	ErrLower  float64
	ErrUpper  float64
	Quantiles []float64
}

// ResultRow is one line of the results table.
type ResultRow struct {
	Name     string
	IDeg     SummaryRecord
	BOcc     SummaryRecord
	TEclipse SummaryRecord
}

// ChainEntry is the persisted unit for one system.
type ChainEntry struct {
	Samples         PosteriorSampleSet `cbor:"samples"`
	BOccSamples     []float64          `cbor:"b_occ_samples"`
	TEclipseSamples []float64          `cbor:"t_eclipse_samples"`
}

// NewChainEntry pairs a posterior set with its derived sequences.
func NewChainEntry(samples PosteriorSampleSet, derived DerivedSampleSet) ChainEntry {
	return ChainEntry{
		Samples:         samples,
		BOccSamples:     derived.BOcc,
		TEclipseSamples: derived.TEclipse,
	}
}

// Validate checks that the derived sequences match the sample count.
func (c ChainEntry) Validate() error {
	n := len(c.Samples)
	if len(c.BOccSamples) != n || len(c.TEclipseSamples) != n {
		return fmt.Errorf("%w: %d samples, %d b_occ, %d t_eclipse",
			ErrIncomplete, n, len(c.BOccSamples), len(c.TEclipseSamples))
	}
	return nil
}

// Clone returns a deep copy so stored entries cannot be mutated through callers.
func (c ChainEntry) Clone() ChainEntry {
	return ChainEntry{
		Samples:         append(PosteriorSampleSet(nil), c.Samples...),
		BOccSamples:     append([]float64(nil), c.BOccSamples...),
		TEclipseSamples: append([]float64(nil), c.TEclipseSamples...),
	}
}

// SystemStatus enumerates the per-system batch milestones.
type SystemStatus string

const (
	StatusPending     SystemStatus = "pending"
	StatusSkipped     SystemStatus = "skipped"
	StatusSampling    SystemStatus = "sampling"
	StatusDeriving    SystemStatus = "deriving"
	StatusSummarizing SystemStatus = "summarizing"
	StatusRecorded    SystemStatus = "recorded"
	StatusFailed      SystemStatus = "failed"
)

// Terminal reports whether no further transition is possible.
func (s SystemStatus) Terminal() bool {
	switch s {
	case StatusSkipped, StatusRecorded, StatusFailed:
		return true
	default:
		return false
	}
}
