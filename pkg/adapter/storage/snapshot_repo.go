package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	inventoryDomain "gitlab.apk-group.net/siem/backend/asset-visibility/internal/inventory/domain"
	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
	visibilityPort "gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/port"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/logger"
)

var ErrSnapshotEmpty = errors.New("inventory snapshot holds no records")

// snapshotFile is the export layout: either a bare array of records or an
// object wrapping them under "assets"
type snapshotFile struct {
	Assets []inventoryDomain.AssetRecord `json:"assets"`
}

// snapshotRepository serves every inventory query from an in-memory export of
// the inventory table using the domain predicates
type snapshotRepository struct {
	records []inventoryDomain.AssetRecord
}

// NewSnapshotRepo normalizes records and checks the host id invariant
func NewSnapshotRepo(records []inventoryDomain.AssetRecord) (visibilityPort.Repo, error) {
	normalized := make([]inventoryDomain.AssetRecord, len(records))
	for i, record := range records {
		normalized[i] = inventoryDomain.Normalize(record)
	}
	if err := inventoryDomain.ValidateUnique(normalized); err != nil {
		return nil, err
	}
	return &snapshotRepository{records: normalized}, nil
}

// LoadSnapshotRepo reads a JSON inventory export from disk
func LoadSnapshotRepo(path string) (visibilityPort.Repo, error) {
	logger.Info("Repository: Loading inventory snapshot from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory snapshot: %w", err)
	}

	records, err := decodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("decode inventory snapshot %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, ErrSnapshotEmpty
	}

	repo, err := NewSnapshotRepo(records)
	if err != nil {
		return nil, err
	}
	logger.Info("Repository: Loaded %d inventory records from snapshot", len(records))
	return repo, nil
}

func decodeSnapshot(data []byte) ([]inventoryDomain.AssetRecord, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var records []inventoryDomain.AssetRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return file.Assets, nil
}

func (r *snapshotRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *snapshotRepository) GetGlobalCounts(ctx context.Context) (domain.CoverageCounts, error) {
	logger.InfoContext(ctx, "Repository: Getting global coverage counts from snapshot")
	return countCoverage(r.records), nil
}

func (r *snapshotRepository) GetCountsByGroup(ctx context.Context, keys ...domain.GroupKey) ([]domain.GroupCounts, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no grouping key", domain.ErrInvalidGroupKey)
	}
	for _, key := range keys {
		if !domain.IsValidGroupKey(key) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidGroupKey, key)
		}
	}

	logger.InfoContext(ctx, "Repository: Getting snapshot coverage counts grouped by %v", keys)

	buckets := make(map[string][]inventoryDomain.AssetRecord)
	tuples := make(map[string][]string)
	for _, record := range r.records {
		tuple, ok := groupTuple(record, keys)
		if !ok {
			continue
		}
		id := strings.Join(tuple, "\x00")
		buckets[id] = append(buckets[id], record)
		tuples[id] = tuple
	}

	ids := make([]string, 0, len(buckets))
	for id := range buckets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	groups := make([]domain.GroupCounts, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, domain.GroupCounts{Keys: tuples[id], CoverageCounts: countCoverage(buckets[id])})
	}
	return groups, nil
}

func (r *snapshotRepository) GetComplianceCounts(ctx context.Context) (domain.ComplianceCounts, error) {
	logger.InfoContext(ctx, "Repository: Getting snapshot compliance counts")

	counts := domain.ComplianceCounts{Total: len(r.records)}
	for _, record := range r.records {
		switch record.Compliance() {
		case inventoryDomain.ComplianceFull:
			counts.Full++
		case inventoryDomain.CompliancePartial:
			counts.Partial++
		default:
			counts.NonCompliant++
		}
	}
	return counts, nil
}

func (r *snapshotRepository) GetCoverageGaps(ctx context.Context, limit int) ([]inventoryDomain.AssetRecord, error) {
	logger.InfoContext(ctx, "Repository: Getting snapshot coverage gaps, limit: %d", limit)

	gaps := []inventoryDomain.AssetRecord{}
	if limit <= 0 {
		return gaps, nil
	}
	for _, record := range r.records {
		if record.IsCoverageGap() {
			gaps = append(gaps, record)
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		a, b := gaps[i], gaps[j]
		if ra, rb := inventoryDomain.ClassificationRank(a.SystemClassification), inventoryDomain.ClassificationRank(b.SystemClassification); ra != rb {
			return ra < rb
		}
		if a.DataQualityScore != b.DataQualityScore {
			return a.DataQualityScore < b.DataQualityScore
		}
		if !a.LastUpdated.Equal(b.LastUpdated) {
			return a.LastUpdated.After(b.LastUpdated)
		}
		return a.HostID < b.HostID
	})

	if len(gaps) > limit {
		gaps = gaps[:limit]
	}
	return gaps, nil
}

func countCoverage(records []inventoryDomain.AssetRecord) domain.CoverageCounts {
	c := domain.CoverageCounts{Total: len(records)}
	for _, record := range records {
		if record.IsLogVisible() {
			c.LogVisible++
		}
		if record.IsEndpointProtected() {
			c.EndpointProtected++
		}
		if record.IsRegistered() {
			c.Registered++
		}
		if record.IsDeviceManaged() {
			c.DeviceManaged++
		}
		if record.IsDLPCovered() {
			c.DLPCovered++
		}
		if record.IsAPMMonitored() {
			c.APMMonitored++
		}
		if record.IsSecondaryLogEnabled() {
			c.SecondaryLogEnabled++
		}
	}
	return c
}

// groupTuple extracts the grouping values of a record; false when any is empty
func groupTuple(record inventoryDomain.AssetRecord, keys []domain.GroupKey) ([]string, bool) {
	tuple := make([]string, len(keys))
	for i, key := range keys {
		value := strings.TrimSpace(groupValue(record, key))
		if value == "" {
			return nil, false
		}
		tuple[i] = value
	}
	return tuple, true
}

func groupValue(record inventoryDomain.AssetRecord, key domain.GroupKey) string {
	switch key {
	case domain.GroupRegion:
		return record.Region
	case domain.GroupCountry:
		return record.Country
	case domain.GroupBusinessUnit:
		return record.BusinessUnit
	case domain.GroupExecutive:
		return record.Executive
	case domain.GroupSystemClassification:
		return record.SystemClassification
	case domain.GroupInfrastructureType:
		return record.InfrastructureType
	case domain.GroupDomain:
		return record.Domain
	case domain.GroupAssetClass:
		return record.AssetClass
	default:
		return ""
	}
}
