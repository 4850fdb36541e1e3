package upstream_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility"
	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/adapter/upstream"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	counts := domain.CoverageCounts{Total: 4, LogVisible: 3, EndpointProtected: 4}

	mux := http.NewServeMux()
	serve := func(path string, doc interface{}) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(doc)
		})
	}
	serve("/api/v1/dashboard/global", domain.NewGlobalView(counts))
	serve("/api/v1/dashboard/domains", domain.DomainBreakdown{{Domain: "corp.example.com", CoverageRow: domain.NewCoverageRow(counts)}})
	serve("/api/v1/dashboard/security-controls", domain.NewSecurityControlCoverage(counts))
	serve("/api/v1/dashboard/compliance", []int{1, 2, 3})
	mux.HandleFunc("/api/v1/dashboard/regional", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "inventory down", http.StatusInternalServerError)
	})
	mux.HandleFunc("/api/v1/dashboard/infrastructure", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClient_Fetch(t *testing.T) {
	server := newUpstream(t)
	client := upstream.NewClient(server.URL+"/api/v1/dashboard/", time.Second)
	ctx := context.Background()

	t.Run("decodes the dimension document", func(t *testing.T) {
		doc, err := client.Fetch(ctx, domain.DimensionGlobal)

		require.NoError(t, err)
		view, ok := doc.(domain.GlobalView)
		require.True(t, ok)
		assert.Equal(t, 4, view.TotalAssets)
		assert.Equal(t, 75.0, view.VisibilityPercentage)
	})

	t.Run("decodes breakdowns", func(t *testing.T) {
		doc, err := client.Fetch(ctx, domain.DimensionDomain)

		require.NoError(t, err)
		rows, ok := doc.(domain.DomainBreakdown)
		require.True(t, ok)
		require.Len(t, rows, 1)
		assert.Equal(t, "corp.example.com", rows[0].Domain)
	})

	t.Run("server error is unreachable", func(t *testing.T) {
		_, err := client.Fetch(ctx, domain.DimensionRegional)
		assert.ErrorIs(t, err, domain.ErrSourceUnreachable)
	})

	t.Run("missing route is unreachable", func(t *testing.T) {
		_, err := client.Fetch(ctx, domain.DimensionBusinessUnit)
		assert.ErrorIs(t, err, domain.ErrSourceUnreachable)
	})

	t.Run("undecodable body is a shape mismatch", func(t *testing.T) {
		_, err := client.Fetch(ctx, domain.DimensionCompliance)
		assert.ErrorIs(t, err, domain.ErrShapeMismatch)
	})

	t.Run("unknown dimension", func(t *testing.T) {
		_, err := client.Fetch(ctx, domain.DimensionOverall)
		assert.ErrorIs(t, err, domain.ErrUnknownDimension)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := client.Fetch(cancelled, domain.DimensionGlobal)
		assert.ErrorIs(t, err, domain.ErrSourceUnreachable)
	})
}

func TestClient_Timeout(t *testing.T) {
	server := newUpstream(t)
	client := upstream.NewClient(server.URL+"/api/v1/dashboard", 50*time.Millisecond)

	_, err := client.Fetch(context.Background(), domain.DimensionInfrastructure)

	assert.ErrorIs(t, err, domain.ErrSourceUnreachable)
}

func TestClient_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := upstream.NewClient(url, time.Second).Fetch(context.Background(), domain.DimensionGlobal)

	assert.ErrorIs(t, err, domain.ErrSourceUnreachable)
}

func TestClient_FeedsCollector(t *testing.T) {
	server := newUpstream(t)
	classifier, err := visibility.NewClassifier(nil)
	require.NoError(t, err)

	collector := visibility.NewCollector(upstream.NewClient(server.URL+"/api/v1/dashboard", time.Second), classifier, 100*time.Millisecond)
	overview, err := collector.Collect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, overview.Rollup.DimensionsPresent)
	assert.ElementsMatch(t, []domain.Dimension{
		domain.DimensionInfrastructure,
		domain.DimensionRegional,
		domain.DimensionBusinessUnit,
		domain.DimensionSystemClassification,
		domain.DimensionCompliance,
	}, overview.Rollup.AbsentDimensions)
}
