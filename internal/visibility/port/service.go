package port

import (
	"context"

	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
)

type Service interface {
	GlobalView(ctx context.Context) (domain.GlobalView, error)
	ByDimension(ctx context.Context, keys ...domain.GroupKey) ([]domain.GroupCoverage, error)
	InfrastructureBreakdown(ctx context.Context) (domain.InfrastructureBreakdown, error)
	RegionalBreakdown(ctx context.Context) (domain.RegionalBreakdown, error)
	BusinessUnitBreakdown(ctx context.Context) (domain.BusinessUnitBreakdown, error)
	SystemClassificationBreakdown(ctx context.Context) (domain.SystemClassificationBreakdown, error)
	DomainBreakdown(ctx context.Context) (domain.DomainBreakdown, error)
	SecurityControlCoverage(ctx context.Context) (domain.SecurityControlCoverage, error)
	ComplianceMatrix(ctx context.Context) (domain.ComplianceMatrix, error)
	CoverageGaps(ctx context.Context) ([]domain.CoverageGap, error)
	Ping(ctx context.Context) error
}

// Source produces the raw aggregate document of one dimension. The local source
// wraps Service; the upstream source fetches the same documents over HTTP.
type Source interface {
	Fetch(ctx context.Context, dimension domain.Dimension) (interface{}, error)
}

// Collector runs one fan-out over every dimension and joins the results
type Collector interface {
	Collect(ctx context.Context) (domain.Overview, error)
}

// SnapshotSink receives every published overview
type SnapshotSink interface {
	Publish(ctx context.Context, overview domain.Overview) error
}
