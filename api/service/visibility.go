package service

import (
	"context"
	"fmt"
	"strings"

	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/scheduler"
	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility"
	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
	visibilityPort "gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/port"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/logger"
)

var (
	ErrInvalidGroupKey      = visibility.ErrInvalidGroupKey
	ErrInventoryUnavailable = visibility.ErrInventoryUnavailable
	ErrSnapshotNotReady     = scheduler.ErrSnapshotNotReady
)

// OverviewFunc returns the current overview: the refresher's latest snapshot,
// or a fresh collect cycle when no refresher runs
type OverviewFunc func(ctx context.Context) (domain.Overview, error)

// VisibilityService provides API operations for the visibility dashboard
type VisibilityService struct {
	service  visibilityPort.Service
	overview OverviewFunc
}

// NewVisibilityService creates a new VisibilityService
func NewVisibilityService(srv visibilityPort.Service, overview OverviewFunc) *VisibilityService {
	return &VisibilityService{
		service:  srv,
		overview: overview,
	}
}

func (s *VisibilityService) GetGlobal(ctx context.Context) (domain.GlobalView, error) {
	return s.service.GlobalView(ctx)
}

func (s *VisibilityService) GetInfrastructure(ctx context.Context) (domain.InfrastructureBreakdown, error) {
	return s.service.InfrastructureBreakdown(ctx)
}

func (s *VisibilityService) GetRegional(ctx context.Context) (domain.RegionalBreakdown, error) {
	return s.service.RegionalBreakdown(ctx)
}

func (s *VisibilityService) GetBusinessUnits(ctx context.Context) (domain.BusinessUnitBreakdown, error) {
	return s.service.BusinessUnitBreakdown(ctx)
}

func (s *VisibilityService) GetSystemClassification(ctx context.Context) (domain.SystemClassificationBreakdown, error) {
	return s.service.SystemClassificationBreakdown(ctx)
}

func (s *VisibilityService) GetSecurityControls(ctx context.Context) (domain.SecurityControlCoverage, error) {
	return s.service.SecurityControlCoverage(ctx)
}

func (s *VisibilityService) GetDomains(ctx context.Context) (domain.DomainBreakdown, error) {
	return s.service.DomainBreakdown(ctx)
}

func (s *VisibilityService) GetCompliance(ctx context.Context) (domain.ComplianceMatrix, error) {
	return s.service.ComplianceMatrix(ctx)
}

func (s *VisibilityService) GetCoverageGaps(ctx context.Context) ([]domain.CoverageGap, error) {
	return s.service.CoverageGaps(ctx)
}

// GetBreakdown parses a comma separated key list and groups coverage by it
func (s *VisibilityService) GetBreakdown(ctx context.Context, rawKeys string) ([]domain.GroupCoverage, error) {
	keys, err := ParseGroupKeys(rawKeys)
	if err != nil {
		logger.WarnContext(ctx, "API visibility service: Rejected grouping keys %q: %v", rawKeys, err)
		return nil, err
	}
	return s.service.ByDimension(ctx, keys...)
}

func (s *VisibilityService) GetOverview(ctx context.Context) (domain.Overview, error) {
	if s.overview == nil {
		return domain.Overview{}, ErrSnapshotNotReady
	}
	return s.overview(ctx)
}

func (s *VisibilityService) Health(ctx context.Context) error {
	return s.service.Ping(ctx)
}

// ParseGroupKeys splits and validates a comma separated grouping key list
func ParseGroupKeys(raw string) ([]domain.GroupKey, error) {
	var keys []domain.GroupKey
	seen := map[domain.GroupKey]bool{}
	for _, part := range strings.Split(raw, ",") {
		key := domain.GroupKey(strings.ToLower(strings.TrimSpace(part)))
		if key == "" {
			continue
		}
		if !domain.IsValidGroupKey(key) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidGroupKey, key)
		}
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate %s", ErrInvalidGroupKey, key)
		}
		seen[key] = true
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no grouping key", ErrInvalidGroupKey)
	}
	return keys, nil
}
