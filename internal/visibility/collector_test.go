package visibility_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility"
	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
)

func doc(v interface{}) visibility.FetchFunc {
	return func(ctx context.Context) (interface{}, error) {
		return v, nil
	}
}

func fullFetchers() map[domain.Dimension]visibility.FetchFunc {
	counts := domain.CoverageCounts{Total: 10, LogVisible: 8, EndpointProtected: 10, Registered: 10, DeviceManaged: 10, DLPCovered: 10, APMMonitored: 10, SecondaryLogEnabled: 10}
	row := domain.NewCoverageRow(counts)
	return map[domain.Dimension]visibility.FetchFunc{
		domain.DimensionGlobal:               doc(domain.NewGlobalView(counts)),
		domain.DimensionInfrastructure:       doc(domain.InfrastructureBreakdown{{InfrastructureType: "Cloud", CoverageRow: row}}),
		domain.DimensionRegional:             doc(domain.RegionalBreakdown{{Region: "EMEA", Country: "DE", CoverageRow: row}}),
		domain.DimensionBusinessUnit:         doc(domain.BusinessUnitBreakdown{{BusinessUnit: "Retail", Executive: "J. Doe", CoverageRow: row}}),
		domain.DimensionSystemClassification: doc(domain.SystemClassificationBreakdown{{SystemClassification: "production", CoverageRow: row}}),
		domain.DimensionSecurityControls:     doc(domain.NewSecurityControlCoverage(counts)),
		domain.DimensionDomain:               doc(domain.DomainBreakdown{{Domain: "corp.example.com", CoverageRow: row}}),
		domain.DimensionCompliance:           doc(domain.NewComplianceMatrix(domain.ComplianceCounts{Total: 10, Full: 8, NonCompliant: 2})),
	}
}

func newTestCollector(t *testing.T, fetchers map[domain.Dimension]visibility.FetchFunc, timeout time.Duration) func(context.Context) (domain.Overview, error) {
	t.Helper()
	classifier, err := visibility.NewClassifier(nil)
	require.NoError(t, err)
	return visibility.NewCollector(visibility.NewFuncSource(fetchers), classifier, timeout).Collect
}

func TestCollector_AllPresent(t *testing.T) {
	collect := newTestCollector(t, fullFetchers(), time.Second)

	overview, err := collect(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, overview.CycleID)
	assert.False(t, overview.GeneratedAt.IsZero())
	require.Len(t, overview.Dimensions, 8)
	for i, dim := range domain.AllDimensions() {
		assert.Equal(t, dim, overview.Dimensions[i].Dimension)
		assert.True(t, overview.Dimensions[i].Available, "dimension %s", dim)
	}
	assert.Equal(t, 8, overview.Rollup.DimensionsPresent)
	assert.Empty(t, overview.Rollup.AbsentDimensions)
	require.NotNil(t, overview.Rollup.Overall)
}

func TestCollector_FailureIsolation(t *testing.T) {
	fetchers := fullFetchers()
	fetchers[domain.DimensionRegional] = func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("connection reset")
	}
	fetchers[domain.DimensionDomain] = func(ctx context.Context) (interface{}, error) {
		panic("nil map")
	}
	fetchers[domain.DimensionCompliance] = doc(domain.DomainBreakdown{})

	overview, err := newTestCollector(t, fetchers, time.Second)(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 5, overview.Rollup.DimensionsPresent)
	assert.ElementsMatch(t, []domain.Dimension{
		domain.DimensionRegional,
		domain.DimensionDomain,
		domain.DimensionCompliance,
	}, overview.Rollup.AbsentDimensions)

	regional, _ := overview.State(domain.DimensionRegional)
	assert.False(t, regional.Available)
	assert.Nil(t, regional.Metric)
	assert.Contains(t, regional.Error, "connection reset")

	domainState, _ := overview.State(domain.DimensionDomain)
	assert.Contains(t, domainState.Error, "panicked")

	compliance, _ := overview.State(domain.DimensionCompliance)
	assert.Contains(t, compliance.Error, domain.ErrShapeMismatch.Error())

	global, _ := overview.State(domain.DimensionGlobal)
	require.NotNil(t, global.Metric)
	assert.Equal(t, 80.0, global.Metric.Percentage)
}

func TestCollector_FetchTimeout(t *testing.T) {
	fetchers := fullFetchers()
	release := make(chan struct{})
	defer close(release)
	fetchers[domain.DimensionBusinessUnit] = func(ctx context.Context) (interface{}, error) {
		<-release
		return nil, nil
	}

	start := time.Now()
	overview, err := newTestCollector(t, fetchers, 50*time.Millisecond)(context.Background())

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	state, _ := overview.State(domain.DimensionBusinessUnit)
	assert.False(t, state.Available)
	assert.Contains(t, state.Error, domain.ErrSourceUnreachable.Error())
	assert.Equal(t, 7, overview.Rollup.DimensionsPresent)
}

func TestCollector_AllUnreachable(t *testing.T) {
	overview, err := newTestCollector(t, map[domain.Dimension]visibility.FetchFunc{}, time.Second)(context.Background())

	assert.ErrorIs(t, err, domain.ErrInventoryUnavailable)
	assert.Len(t, overview.Dimensions, 8)
	assert.Nil(t, overview.Rollup.Overall)
	assert.Equal(t, domain.StatusUnknown, overview.Rollup.Status)
	assert.Len(t, overview.Rollup.AbsentDimensions, 8)
}

func TestCollector_EmptyIsNotUnreachable(t *testing.T) {
	fetchers := map[domain.Dimension]visibility.FetchFunc{}
	for _, dim := range domain.AllDimensions() {
		fetchers[dim] = doc(domain.DomainBreakdown{})
	}

	overview, err := newTestCollector(t, fetchers, time.Second)(context.Background())

	require.NoError(t, err, "documents were fetched, so the inventory is reachable")
	assert.Equal(t, 0, overview.Rollup.DimensionsPresent)
	assert.Equal(t, domain.StatusUnknown, overview.Rollup.Status)
}

func TestCollector_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestCollector(t, fullFetchers(), time.Second)(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollector_FailingSourceMatchesEmptySource(t *testing.T) {
	failing := fullFetchers()
	failing[domain.DimensionDomain] = func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("always fails")
	}
	empty := fullFetchers()
	empty[domain.DimensionDomain] = doc(domain.DomainBreakdown{})

	withFailure, err := newTestCollector(t, failing, time.Second)(context.Background())
	require.NoError(t, err)
	withEmpty, err := newTestCollector(t, empty, time.Second)(context.Background())
	require.NoError(t, err)

	for _, dim := range domain.AllDimensions() {
		a, _ := withFailure.State(dim)
		b, _ := withEmpty.State(dim)
		assert.Equal(t, a.Available, b.Available, "dimension %s", dim)
		if dim != domain.DimensionDomain {
			assert.Equal(t, a.Metric, b.Metric, "dimension %s", dim)
		}
	}
	assert.Equal(t, withEmpty.Rollup.Overall, withFailure.Rollup.Overall)
	assert.Equal(t, withEmpty.Rollup.CriticalCount, withFailure.Rollup.CriticalCount)
	assert.Equal(t, withEmpty.Rollup.AbsentDimensions, withFailure.Rollup.AbsentDimensions)
}
