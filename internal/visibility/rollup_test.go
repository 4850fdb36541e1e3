package visibility_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility"
	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
)

func present(dim domain.Dimension, pct float64, status domain.StatusLevel) domain.DimensionState {
	return domain.DimensionState{
		Dimension: dim,
		Available: true,
		Metric:    &domain.VisibilityMetric{Percentage: pct, Status: status},
	}
}

func absent(dim domain.Dimension) domain.DimensionState {
	return domain.DimensionState{Dimension: dim, Error: "unreachable"}
}

func TestRollup(t *testing.T) {
	classifier, err := visibility.NewClassifier(nil)
	require.NoError(t, err)

	t.Run("absent dimensions are excluded from the mean", func(t *testing.T) {
		states := []domain.DimensionState{
			present(domain.DimensionGlobal, 64, domain.StatusWarning),
			present(domain.DimensionInfrastructure, 20, domain.StatusCritical),
			present(domain.DimensionRegional, 90, domain.StatusHealthy),
			absent(domain.DimensionBusinessUnit),
			present(domain.DimensionSystemClassification, 10, domain.StatusCritical),
			absent(domain.DimensionSecurityControls),
			present(domain.DimensionDomain, 50, domain.StatusWarning),
			absent(domain.DimensionCompliance),
		}

		result := visibility.Rollup(states, classifier)

		require.NotNil(t, result.Overall)
		assert.Equal(t, 46.8, *result.Overall)
		assert.Equal(t, 5, result.DimensionsPresent)
		assert.Equal(t, 2, result.CriticalCount)
		assert.Equal(t, domain.StatusWarning, result.Status)
		assert.Equal(t, []domain.Dimension{
			domain.DimensionBusinessUnit,
			domain.DimensionSecurityControls,
			domain.DimensionCompliance,
		}, result.AbsentDimensions)
	})

	t.Run("mean is rounded to two decimals", func(t *testing.T) {
		result := visibility.Rollup([]domain.DimensionState{
			present(domain.DimensionGlobal, 100, domain.StatusHealthy),
			present(domain.DimensionDomain, 0, domain.StatusCritical),
			present(domain.DimensionCompliance, 0, domain.StatusCritical),
		}, classifier)

		require.NotNil(t, result.Overall)
		assert.Equal(t, 33.33, *result.Overall)
	})

	t.Run("nothing present is unknown", func(t *testing.T) {
		result := visibility.Rollup([]domain.DimensionState{
			absent(domain.DimensionGlobal),
			absent(domain.DimensionDomain),
		}, classifier)

		assert.Nil(t, result.Overall)
		assert.Equal(t, 0, result.DimensionsPresent)
		assert.Equal(t, 0, result.CriticalCount)
		assert.Equal(t, domain.StatusUnknown, result.Status)
		assert.Len(t, result.AbsentDimensions, 2)
	})

	t.Run("empty input", func(t *testing.T) {
		result := visibility.Rollup(nil, classifier)

		assert.Nil(t, result.Overall)
		assert.Equal(t, domain.StatusUnknown, result.Status)
		assert.NotNil(t, result.AbsentDimensions)
	})
}
