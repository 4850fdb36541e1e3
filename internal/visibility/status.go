package visibility

import (
	"fmt"

	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
)

// Thresholds maps a dimension (or the overall rollup) to its status thresholds
type Thresholds map[domain.Dimension]domain.Threshold

// DefaultThresholds returns the built-in threshold table
func DefaultThresholds() Thresholds {
	return Thresholds{
		domain.DimensionGlobal:               {Low: 30, High: 70},
		domain.DimensionSecurityControls:     {Low: 30, High: 70},
		domain.DimensionCompliance:           {Low: 30, High: 70},
		domain.DimensionInfrastructure:       {Low: 40, High: 70},
		domain.DimensionRegional:             {Low: 40, High: 70},
		domain.DimensionBusinessUnit:         {Low: 40, High: 70},
		domain.DimensionSystemClassification: {Low: 40, High: 70},
		domain.DimensionDomain:               {Low: 40, High: 70},
		domain.DimensionOverall:              {Low: 30, High: 70},
	}
}

// Classifier maps a percentage to a StatusLevel using the threshold table
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier layers overrides onto the default table. Unknown dimension
// names and malformed thresholds are rejected.
func NewClassifier(overrides Thresholds) (*Classifier, error) {
	table := DefaultThresholds()
	for dim, t := range overrides {
		if !domain.IsValidDimension(string(dim)) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDimension, dim)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("threshold for %s: %w", dim, err)
		}
		table[dim] = t
	}
	return &Classifier{thresholds: table}, nil
}

// Threshold returns the thresholds of a dimension, falling back to the overall row
func (c *Classifier) Threshold(dim domain.Dimension) domain.Threshold {
	if t, ok := c.thresholds[dim]; ok {
		return t
	}
	return c.thresholds[domain.DimensionOverall]
}

// Classify applies the rule: below low is critical, below high is warning
func (c *Classifier) Classify(dim domain.Dimension, percentage float64) domain.StatusLevel {
	t := c.Threshold(dim)
	switch {
	case percentage < t.Low:
		return domain.StatusCritical
	case percentage < t.High:
		return domain.StatusWarning
	default:
		return domain.StatusHealthy
	}
}

// Resolve prefers a status reported by the source document, verbatim
func (c *Classifier) Resolve(dim domain.Dimension, percentage float64, reported string) domain.StatusLevel {
	if reported != "" {
		return domain.StatusLevel(reported)
	}
	return c.Classify(dim, percentage)
}
