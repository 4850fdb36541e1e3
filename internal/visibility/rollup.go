package visibility

import (
	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
)

// Rollup aggregates the present dimensions into one overall score. Absent
// dimensions are listed but never counted as zero.
func Rollup(states []domain.DimensionState, classifier *Classifier) domain.RollupResult {
	result := domain.RollupResult{
		Status:           domain.StatusUnknown,
		AbsentDimensions: []domain.Dimension{},
	}

	var sum float64
	for _, state := range states {
		if !state.Available || state.Metric == nil {
			result.AbsentDimensions = append(result.AbsentDimensions, state.Dimension)
			continue
		}
		result.DimensionsPresent++
		sum += state.Metric.Percentage
		if state.Metric.Status == domain.StatusCritical {
			result.CriticalCount++
		}
	}

	if result.DimensionsPresent == 0 {
		return result
	}

	overall := domain.Round2(sum / float64(result.DimensionsPresent))
	result.Overall = &overall
	result.Status = classifier.Classify(domain.DimensionOverall, overall)
	return result
}
