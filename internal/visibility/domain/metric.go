package domain

import (
	"errors"
	"fmt"
	"time"
)

// StatusLevel is the severity of a dimension or of the rollup
type StatusLevel string

const (
	StatusHealthy  StatusLevel = "HEALTHY"
	StatusWarning  StatusLevel = "WARNING"
	StatusCritical StatusLevel = "CRITICAL"
	// StatusUnknown is reported when nothing could be measured
	StatusUnknown StatusLevel = "UNKNOWN"
)

var ErrInvalidThreshold = errors.New("invalid threshold")

// Threshold is a (low, high) pair: below low is critical, below high is warning
type Threshold struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Validate checks 0 <= low <= high <= 100
func (t Threshold) Validate() error {
	if t.Low < 0 || t.High > 100 || t.Low > t.High {
		return fmt.Errorf("%w: low=%.2f high=%.2f", ErrInvalidThreshold, t.Low, t.High)
	}
	return nil
}

// VisibilityMetric is the canonical per-dimension measurement
type VisibilityMetric struct {
	Percentage float64     `json:"percentage"`
	Total      int         `json:"total"`
	Visible    int         `json:"visible"`
	Invisible  int         `json:"invisible"`
	Status     StatusLevel `json:"status"`
}

// DimensionState is a dimension's outcome for one collect cycle. Metric is nil
// when the dimension is absent; Error then carries the diagnostic.
type DimensionState struct {
	Dimension Dimension         `json:"dimension"`
	Available bool              `json:"available"`
	Metric    *VisibilityMetric `json:"metric,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// RollupResult summarizes the present dimensions. Overall is nil, and Status
// UNKNOWN, when no dimension is present.
type RollupResult struct {
	Overall           *float64    `json:"overall"`
	CriticalCount     int         `json:"critical_count"`
	Status            StatusLevel `json:"status"`
	DimensionsPresent int         `json:"dimensions_present"`
	AbsentDimensions  []Dimension `json:"absent_dimensions"`
}

// Overview is the result of one collect cycle
type Overview struct {
	CycleID     string           `json:"cycle_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Dimensions  []DimensionState `json:"dimensions"`
	Rollup      RollupResult     `json:"rollup"`
}

// State returns the state of a dimension, if it was collected
func (o *Overview) State(d Dimension) (DimensionState, bool) {
	for _, state := range o.Dimensions {
		if state.Dimension == d {
			return state, true
		}
	}
	return DimensionState{}, false
}
