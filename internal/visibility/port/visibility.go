package port

import (
	"context"

	inventoryDomain "gitlab.apk-group.net/siem/backend/asset-visibility/internal/inventory/domain"
	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
)

// Repo is the read-only view of the asset inventory the aggregation layer needs.
// Implementations never write to the inventory.
type Repo interface {
	Ping(ctx context.Context) error

	// Aggregate counts
	GetGlobalCounts(ctx context.Context) (domain.CoverageCounts, error)
	GetCountsByGroup(ctx context.Context, keys ...domain.GroupKey) ([]domain.GroupCounts, error)
	GetComplianceCounts(ctx context.Context) (domain.ComplianceCounts, error)

	// GetCoverageGaps returns at most limit gap hosts, already ordered
	GetCoverageGaps(ctx context.Context, limit int) ([]inventoryDomain.AssetRecord, error)
}
