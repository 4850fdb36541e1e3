package visibility_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility"
	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
)

func newNormalizer(t *testing.T) *visibility.Normalizer {
	t.Helper()
	classifier, err := visibility.NewClassifier(nil)
	require.NoError(t, err)
	return visibility.NewNormalizer(classifier)
}

func TestNormalizer_Flat(t *testing.T) {
	n := newNormalizer(t)

	metric, err := n.Normalize(domain.DimensionGlobal, domain.NewGlobalView(domain.CoverageCounts{Total: 100, LogVisible: 64}))

	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityMetric{
		Percentage: 64,
		Total:      100,
		Visible:    64,
		Invisible:  36,
		Status:     domain.StatusWarning,
	}, metric)
}

func TestNormalizer_Breakdown(t *testing.T) {
	n := newNormalizer(t)
	doc := domain.InfrastructureBreakdown{
		{InfrastructureType: "On-Premise", CoverageRow: domain.CoverageRow{VisibilityPercentage: 80}},
		{InfrastructureType: "Cloud", CoverageRow: domain.CoverageRow{VisibilityPercentage: 50}},
		{InfrastructureType: "Appliance", CoverageRow: domain.CoverageRow{VisibilityPercentage: 20}},
	}

	metric, err := n.Normalize(domain.DimensionInfrastructure, doc)

	require.NoError(t, err)
	assert.Equal(t, 50.0, metric.Percentage)
	assert.Equal(t, 3, metric.Total)
	assert.Equal(t, 2, metric.Visible, "a child at exactly 50 counts as visible")
	assert.Equal(t, 1, metric.Invisible)
	assert.Equal(t, domain.StatusWarning, metric.Status)
}

func TestNormalizer_Categories(t *testing.T) {
	n := newNormalizer(t)
	doc := domain.NewSecurityControlCoverage(domain.CoverageCounts{
		Total:               10,
		LogVisible:          10,
		EndpointProtected:   10,
		Registered:          10,
		DeviceManaged:       10,
		DLPCovered:          10,
		APMMonitored:        10,
		SecondaryLogEnabled: 3,
	})

	metric, err := n.Normalize(domain.DimensionSecurityControls, doc)

	require.NoError(t, err)
	assert.Equal(t, 90.0, metric.Percentage)
	assert.Equal(t, 7, metric.Total)
	assert.Equal(t, 6, metric.Visible)
	assert.Equal(t, domain.StatusHealthy, metric.Status)
}

func TestNormalizer_ShapeMismatch(t *testing.T) {
	n := newNormalizer(t)

	_, err := n.Normalize(domain.DimensionGlobal, domain.DomainBreakdown{})
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)

	_, err = n.Normalize(domain.DimensionRegional, "not a document")
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)

	_, err = n.Normalize(domain.DimensionSecurityControls, domain.GlobalView{TotalAssets: 1})
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestNormalizer_Empty(t *testing.T) {
	n := newNormalizer(t)

	_, err := n.Normalize(domain.DimensionGlobal, domain.GlobalView{})
	assert.ErrorIs(t, err, domain.ErrEmptyDimension)

	_, err = n.Normalize(domain.DimensionDomain, domain.DomainBreakdown{})
	assert.ErrorIs(t, err, domain.ErrEmptyDimension)

	_, err = n.Normalize(domain.DimensionCompliance, domain.NewComplianceMatrix(domain.ComplianceCounts{}))
	assert.ErrorIs(t, err, domain.ErrEmptyDimension)
}

func TestNormalizer_ReportedStatusWins(t *testing.T) {
	n := newNormalizer(t)
	doc := domain.NewGlobalView(domain.CoverageCounts{Total: 10, LogVisible: 1})
	doc.Status = "HEALTHY"

	metric, err := n.Normalize(domain.DimensionGlobal, doc)

	require.NoError(t, err)
	assert.Equal(t, 10.0, metric.Percentage)
	assert.Equal(t, domain.StatusHealthy, metric.Status)
}

func TestNormalizer_UnknownDimension(t *testing.T) {
	_, err := newNormalizer(t).Normalize(domain.DimensionOverall, domain.GlobalView{TotalAssets: 1})
	assert.ErrorIs(t, err, domain.ErrUnknownDimension)
}

func TestShapeOf(t *testing.T) {
	for _, dim := range domain.AllDimensions() {
		_, ok := visibility.ShapeOf(dim)
		assert.True(t, ok, "dimension %s has no shape", dim)
	}

	shape, _ := visibility.ShapeOf(domain.DimensionCompliance)
	assert.Equal(t, domain.ShapeFlat, shape)
	shape, _ = visibility.ShapeOf(domain.DimensionSecurityControls)
	assert.Equal(t, domain.ShapeCategories, shape)
}
