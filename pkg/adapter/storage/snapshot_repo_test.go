package storage_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inventoryDomain "gitlab.apk-group.net/siem/backend/asset-visibility/internal/inventory/domain"
	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility"
	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/adapter/storage"
	domainFixtures "gitlab.apk-group.net/siem/backend/asset-visibility/tests/fixtures/domain"
)

func TestSnapshotRepository_GlobalViewEndToEnd(t *testing.T) {
	records := domainFixtures.NewTestInventory(100, 64)
	for i := 0; i < 10; i++ {
		records[i].CrowdStrikeStatus = string(inventoryDomain.CrowdStrikeUnprotected)
	}

	repo, err := storage.NewSnapshotRepo(records)
	require.NoError(t, err)

	view, err := visibility.NewVisibilityService(repo).GlobalView(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 100, view.TotalAssets)
	assert.Equal(t, 64.0, view.SplunkCoverage)
	assert.Equal(t, 90.0, view.CrowdStrikeCoverage)
}

func TestSnapshotRepository_RegionalEndToEnd(t *testing.T) {
	records := domainFixtures.NewTestInventory(3, 2)
	records = append(records, func() inventoryDomain.AssetRecord {
		r := domainFixtures.NewTestAssetRecord("no-country")
		r.Country = ""
		return r
	}())

	repo, err := storage.NewSnapshotRepo(records)
	require.NoError(t, err)

	rows, err := visibility.NewVisibilityService(repo).RegionalBreakdown(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 1, "hosts with an empty grouping value are not grouped")
	assert.Equal(t, "EMEA", rows[0].Region)
	assert.Equal(t, "DE", rows[0].Country)
	assert.Equal(t, 3, rows[0].TotalAssets)
	assert.Equal(t, 66.67, rows[0].VisibilityPercentage)
}

func TestSnapshotRepository_GetComplianceCounts(t *testing.T) {
	full := domainFixtures.NewTestAssetRecord("full")
	partial := domainFixtures.NewTestAssetRecord("partial")
	partial.ChronicleStatus = string(inventoryDomain.ChronicleDisabled)
	none := domainFixtures.NewTestUncoveredRecord("none")

	repo, err := storage.NewSnapshotRepo([]inventoryDomain.AssetRecord{full, partial, none})
	require.NoError(t, err)

	counts, err := repo.GetComplianceCounts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.ComplianceCounts{Total: 3, Full: 1, Partial: 1, NonCompliant: 1}, counts)
}

func TestSnapshotRepository_GetCoverageGaps(t *testing.T) {
	staging := domainFixtures.NewTestUncoveredRecord("staging-low-dq")
	staging.SystemClassification = string(inventoryDomain.ClassificationStaging)
	staging.DataQualityScore = 5

	prodOld := domainFixtures.NewTestUncoveredRecord("prod-old")
	prodOld.LastUpdated = domainFixtures.FixtureTime.Add(-time.Hour)

	prodNew := domainFixtures.NewTestUncoveredRecord("prod-new")

	prodLowDQ := domainFixtures.NewTestUncoveredRecord("prod-low-dq")
	prodLowDQ.DataQualityScore = 10

	dev := domainFixtures.NewTestUncoveredRecord("dev")
	dev.SystemClassification = "development"

	covered := domainFixtures.NewTestAssetRecord("covered")

	repo, err := storage.NewSnapshotRepo([]inventoryDomain.AssetRecord{staging, prodOld, dev, prodNew, covered, prodLowDQ})
	require.NoError(t, err)

	gaps, err := repo.GetCoverageGaps(context.Background(), 100)
	require.NoError(t, err)

	ids := make([]string, len(gaps))
	for i, gap := range gaps {
		ids[i] = gap.HostID
	}
	assert.Equal(t, []string{"prod-low-dq", "prod-new", "prod-old", "staging-low-dq"}, ids)

	capped, err := repo.GetCoverageGaps(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)
}

func TestSnapshotRepository_GapCapEndToEnd(t *testing.T) {
	records := make([]inventoryDomain.AssetRecord, 0, 120)
	for i := 0; i < 120; i++ {
		records = append(records, domainFixtures.NewTestUncoveredRecord(fmt.Sprintf("gap-%03d", i)))
	}
	repo, err := storage.NewSnapshotRepo(records)
	require.NoError(t, err)

	gaps, err := visibility.NewVisibilityService(repo).CoverageGaps(context.Background())

	require.NoError(t, err)
	assert.Len(t, gaps, domain.GapLimit)
}

func TestNewSnapshotRepo_RejectsDuplicateHosts(t *testing.T) {
	_, err := storage.NewSnapshotRepo([]inventoryDomain.AssetRecord{
		domainFixtures.NewTestAssetRecord("dup"),
		domainFixtures.NewTestAssetRecord(" dup "),
	})

	assert.ErrorIs(t, err, inventoryDomain.ErrDuplicateHostID)
}

func TestLoadSnapshotRepo(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr error
		total   int
	}{
		{
			name:    "bare array",
			content: `[{"host_id":"a","splunk_status":"forwarding"},{"host_id":"b","splunk_status":"none"}]`,
			total:   2,
		},
		{
			name:    "wrapped object",
			content: `{"assets":[{"host_id":"a","splunk_status":"Heavy Forwarder"}]}`,
			total:   1,
		},
		{
			name:    "empty export",
			content: `{"assets":[]}`,
			wantErr: storage.ErrSnapshotEmpty,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, fmt.Sprintf("inventory-%d.json", i))
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			repo, err := storage.LoadSnapshotRepo(path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			counts, err := repo.GetGlobalCounts(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.total, counts.Total)
			assert.Equal(t, 1, counts.LogVisible)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := storage.LoadSnapshotRepo(filepath.Join(dir, "missing.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"assets": [`), 0o600))

		_, err := storage.LoadSnapshotRepo(path)
		assert.Error(t, err)
	})
}

func TestSnapshotRepository_SmallInventoryEndToEnd(t *testing.T) {
	a := domainFixtures.NewTestAssetRecord("A")
	a.SplunkStatus = "forwarding"
	b := domainFixtures.NewTestAssetRecord("B")
	b.SplunkStatus = "none"
	c := domainFixtures.NewTestAssetRecord("C")
	c.SplunkStatus = "Universal Forwarder"

	repo, err := storage.NewSnapshotRepo([]inventoryDomain.AssetRecord{a, b, c})
	require.NoError(t, err)

	view, err := visibility.NewVisibilityService(repo).GlobalView(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, view.TotalAssets)
	assert.Equal(t, 2, view.SplunkVisible)
	assert.Equal(t, 66.67, view.VisibilityPercentage)
}
