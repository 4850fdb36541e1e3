package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	inventoryDomain "gitlab.apk-group.net/siem/backend/asset-visibility/internal/inventory/domain"
	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
	visibilityPort "gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/port"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/adapter/storage/types"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/adapter/storage/types/mapper"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/logger"
	"gorm.io/gorm"
)

const inventoryTable = "asset_inventory"

// Covered-count expressions. Every predicate takes its value list from the
// inventory domain so SQL and in-memory classification agree.
const (
	logVisibleExpr          = "COUNT(CASE WHEN splunk_status IN ? THEN 1 END)"
	endpointProtectedExpr   = "COUNT(CASE WHEN COALESCE(crowdstrike_status, '') NOT IN ? THEN 1 END)"
	registeredExpr          = "COUNT(CASE WHEN cmdb_present = ? THEN 1 END)"
	deviceManagedExpr       = "COUNT(CASE WHEN tanium_status = ? THEN 1 END)"
	dlpCoveredExpr          = "COUNT(CASE WHEN COALESCE(dlp_status, '') <> ? THEN 1 END)"
	apmMonitoredExpr        = "COUNT(CASE WHEN COALESCE(apm_status, '') NOT IN ? THEN 1 END)"
	secondaryLogEnabledExpr = "COUNT(CASE WHEN chronicle_status = ? THEN 1 END)"
)

// coverageSelect returns the covered-count select list and its arguments
func coverageSelect() (string, []interface{}) {
	columns := []string{
		"COUNT(*) AS total",
		logVisibleExpr + " AS log_visible",
		endpointProtectedExpr + " AS endpoint_protected",
		registeredExpr + " AS registered",
		deviceManagedExpr + " AS device_managed",
		dlpCoveredExpr + " AS dlp_covered",
		apmMonitoredExpr + " AS apm_monitored",
		secondaryLogEnabledExpr + " AS secondary_log_enabled",
	}
	args := []interface{}{
		inventoryDomain.ForwardingStatuses,
		inventoryDomain.UnprotectedStatuses,
		inventoryDomain.RegisteredValue,
		inventoryDomain.ManagedValue,
		inventoryDomain.NotCoveredDLPValue,
		inventoryDomain.UnmonitoredAPMStatuses,
		inventoryDomain.SecondaryLogEnabledValue,
	}
	return strings.Join(columns, ", "), args
}

type coverageCountResult struct {
	Total               int `gorm:"column:total"`
	LogVisible          int `gorm:"column:log_visible"`
	EndpointProtected   int `gorm:"column:endpoint_protected"`
	Registered          int `gorm:"column:registered"`
	DeviceManaged       int `gorm:"column:device_managed"`
	DLPCovered          int `gorm:"column:dlp_covered"`
	APMMonitored        int `gorm:"column:apm_monitored"`
	SecondaryLogEnabled int `gorm:"column:secondary_log_enabled"`
}

func (r coverageCountResult) toDomain() domain.CoverageCounts {
	return domain.CoverageCounts{
		Total:               r.Total,
		LogVisible:          r.LogVisible,
		EndpointProtected:   r.EndpointProtected,
		Registered:          r.Registered,
		DeviceManaged:       r.DeviceManaged,
		DLPCovered:          r.DLPCovered,
		APMMonitored:        r.APMMonitored,
		SecondaryLogEnabled: r.SecondaryLogEnabled,
	}
}

// NewVisibilityRepo creates a read-only inventory repository over an explicit store handle
func NewVisibilityRepo(db *gorm.DB) visibilityPort.Repo {
	return &visibilityRepository{
		db: db,
	}
}

type visibilityRepository struct {
	db *gorm.DB
}

func (r *visibilityRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// GetGlobalCounts returns covered counts over the whole inventory
func (r *visibilityRepository) GetGlobalCounts(ctx context.Context) (domain.CoverageCounts, error) {
	logger.InfoContext(ctx, "Repository: Getting global coverage counts")

	selectList, args := coverageSelect()

	var result coverageCountResult
	err := r.db.WithContext(ctx).
		Table(inventoryTable).
		Select(selectList, args...).
		Scan(&result).Error
	if err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to get global coverage counts: %v", err)
		return domain.CoverageCounts{}, err
	}

	logger.InfoContext(ctx, "Repository: Successfully retrieved global coverage counts, total: %d", result.Total)
	return result.toDomain(), nil
}

// GetCountsByGroup returns covered counts per distinct key tuple. Rows with a
// NULL or empty key are excluded in the query.
func (r *visibilityRepository) GetCountsByGroup(ctx context.Context, keys ...domain.GroupKey) ([]domain.GroupCounts, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no grouping key", domain.ErrInvalidGroupKey)
	}
	columns := make([]string, len(keys))
	for i, key := range keys {
		// key names are interpolated into SQL, so only whitelisted columns pass
		if !domain.IsValidGroupKey(key) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidGroupKey, key)
		}
		columns[i] = string(key)
	}

	logger.InfoContext(ctx, "Repository: Getting coverage counts grouped by %v", columns)

	selectList, args := coverageSelect()
	keySelect := make([]string, len(columns))
	for i, column := range columns {
		keySelect[i] = fmt.Sprintf("%s AS key_%d", column, i)
	}

	query := r.db.WithContext(ctx).
		Table(inventoryTable).
		Select(strings.Join(keySelect, ", ")+", "+selectList, args...)
	for _, column := range columns {
		query = query.Where(fmt.Sprintf("%s IS NOT NULL AND %s <> ''", column, column))
	}

	rows, err := query.Group(strings.Join(columns, ", ")).Rows()
	if err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to get coverage counts by %v: %v", columns, err)
		return nil, err
	}
	defer rows.Close()

	groups := []domain.GroupCounts{}
	for rows.Next() {
		group, err := scanGroupRow(rows, len(columns))
		if err != nil {
			logger.ErrorContext(ctx, "Repository: Failed to scan grouped row: %v", err)
			return nil, err
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to iterate grouped rows: %v", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Repository: Successfully retrieved coverage counts by %v: %d groups", columns, len(groups))
	return groups, nil
}

func scanGroupRow(rows *sql.Rows, keyCount int) (domain.GroupCounts, error) {
	keys := make([]sql.NullString, keyCount)
	var c coverageCountResult

	dest := make([]interface{}, 0, keyCount+8)
	for i := range keys {
		dest = append(dest, &keys[i])
	}
	dest = append(dest,
		&c.Total,
		&c.LogVisible,
		&c.EndpointProtected,
		&c.Registered,
		&c.DeviceManaged,
		&c.DLPCovered,
		&c.APMMonitored,
		&c.SecondaryLogEnabled,
	)
	if err := rows.Scan(dest...); err != nil {
		return domain.GroupCounts{}, err
	}

	group := domain.GroupCounts{Keys: make([]string, keyCount), CoverageCounts: c.toDomain()}
	for i, key := range keys {
		group.Keys[i] = key.String
	}
	return group, nil
}

// GetComplianceCounts returns the full and partial compliance bucket sizes;
// the non-compliant bucket is the remainder so the three always sum to total.
func (r *visibilityRepository) GetComplianceCounts(ctx context.Context) (domain.ComplianceCounts, error) {
	logger.InfoContext(ctx, "Repository: Getting compliance counts")

	type complianceResult struct {
		Total   int `gorm:"column:total"`
		Full    int `gorm:"column:full_count"`
		Partial int `gorm:"column:partial_count"`
	}

	var result complianceResult
	err := r.db.WithContext(ctx).
		Table(inventoryTable).
		Select(`
			COUNT(*) AS total,
			COUNT(CASE WHEN chronicle_status = ? AND splunk_status IN ? THEN 1 END) AS full_count,
			COUNT(CASE WHEN (chronicle_status = ? AND COALESCE(splunk_status, '') NOT IN ?)
				OR (COALESCE(chronicle_status, '') <> ? AND splunk_status IN ?) THEN 1 END) AS partial_count
		`,
			inventoryDomain.SecondaryLogEnabledValue, inventoryDomain.ForwardingStatuses,
			inventoryDomain.SecondaryLogEnabledValue, inventoryDomain.ForwardingStatuses,
			inventoryDomain.SecondaryLogEnabledValue, inventoryDomain.ForwardingStatuses,
		).
		Scan(&result).Error
	if err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to get compliance counts: %v", err)
		return domain.ComplianceCounts{}, err
	}

	counts := domain.ComplianceCounts{
		Total:        result.Total,
		Full:         result.Full,
		Partial:      result.Partial,
		NonCompliant: result.Total - result.Full - result.Partial,
	}

	logger.InfoContext(ctx, "Repository: Successfully retrieved compliance counts: total %d, full %d, partial %d",
		counts.Total, counts.Full, counts.Partial)
	return counts, nil
}

// GetCoverageGaps returns production and staging hosts missing logging,
// endpoint protection or registry presence, production first, then lowest data
// quality, then most recently updated
func (r *visibilityRepository) GetCoverageGaps(ctx context.Context, limit int) ([]inventoryDomain.AssetRecord, error) {
	logger.InfoContext(ctx, "Repository: Getting coverage gaps, limit: %d", limit)

	if limit <= 0 {
		return []inventoryDomain.AssetRecord{}, nil
	}

	var rows []types.AssetInventory
	err := r.db.WithContext(ctx).
		Table(inventoryTable).
		Where("LOWER(system_classification) IN ?", inventoryDomain.GapClassifications).
		Where("(COALESCE(splunk_status, '') NOT IN ? OR crowdstrike_status IN ? OR COALESCE(cmdb_present, '') <> ?)",
			inventoryDomain.ForwardingStatuses,
			inventoryDomain.UnprotectedStatuses,
			inventoryDomain.RegisteredValue,
		).
		Order(fmt.Sprintf("CASE WHEN LOWER(system_classification) = '%s' THEN 0 ELSE 1 END", inventoryDomain.ClassificationProduction)).
		Order("data_quality_score ASC").
		Order("last_updated DESC").
		Order("host_id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		logger.ErrorContext(ctx, "Repository: Failed to get coverage gaps: %v", err)
		return nil, err
	}

	records := make([]inventoryDomain.AssetRecord, len(rows))
	for i, row := range rows {
		records[i] = mapper.AssetInventoryStorage2Domain(row)
	}

	logger.InfoContext(ctx, "Repository: Successfully retrieved %d coverage gaps", len(records))
	return records, nil
}
