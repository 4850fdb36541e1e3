package visibility

import (
	"context"
	"fmt"
	"sort"
	"strings"

	inventoryDomain "gitlab.apk-group.net/siem/backend/asset-visibility/internal/inventory/domain"
	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
	visibilityPort "gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/port"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/logger"
)

var (
	ErrInvalidGroupKey      = domain.ErrInvalidGroupKey
	ErrInventoryUnavailable = domain.ErrInventoryUnavailable
)

type service struct {
	repo visibilityPort.Repo
}

// NewVisibilityService creates the aggregation query layer over an inventory repository
func NewVisibilityService(repo visibilityPort.Repo) visibilityPort.Service {
	return &service{
		repo: repo,
	}
}

func (s *service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// GlobalView computes whole-estate coverage for every security control
func (s *service) GlobalView(ctx context.Context) (domain.GlobalView, error) {
	logger.InfoContext(ctx, "Visibility service: Computing global view")

	counts, err := s.repo.GetGlobalCounts(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Visibility service: Failed to get global counts: %v", err)
		return domain.GlobalView{}, err
	}

	view := domain.NewGlobalView(counts)
	logger.InfoContext(ctx, "Visibility service: Global view computed, total: %d, visibility: %.2f", view.TotalAssets, view.VisibilityPercentage)
	return view, nil
}

// ByDimension groups coverage by an arbitrary whitelisted key set
func (s *service) ByDimension(ctx context.Context, keys ...domain.GroupKey) ([]domain.GroupCoverage, error) {
	groups, err := s.groups(ctx, keys...)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.GroupCoverage, 0, len(groups))
	for _, g := range groups {
		rowKeys := make(map[string]string, len(keys))
		for i, key := range keys {
			rowKeys[string(key)] = g.Keys[i]
		}
		rows = append(rows, domain.GroupCoverage{Keys: rowKeys, CoverageRow: domain.NewCoverageRow(g.CoverageCounts)})
	}
	return rows, nil
}

func (s *service) InfrastructureBreakdown(ctx context.Context) (domain.InfrastructureBreakdown, error) {
	groups, err := s.groups(ctx, domain.GroupInfrastructureType)
	if err != nil {
		return nil, err
	}

	rows := make(domain.InfrastructureBreakdown, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, domain.InfrastructureRow{
			InfrastructureType: g.Keys[0],
			CoverageRow:        domain.NewCoverageRow(g.CoverageCounts),
		})
	}
	return rows, nil
}

func (s *service) RegionalBreakdown(ctx context.Context) (domain.RegionalBreakdown, error) {
	groups, err := s.groups(ctx, domain.GroupRegion, domain.GroupCountry)
	if err != nil {
		return nil, err
	}

	rows := make(domain.RegionalBreakdown, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, domain.RegionRow{
			Region:      g.Keys[0],
			Country:     g.Keys[1],
			CoverageRow: domain.NewCoverageRow(g.CoverageCounts),
		})
	}
	return rows, nil
}

// BusinessUnitBreakdown is ordered by visibility percentage, lowest coverage last
func (s *service) BusinessUnitBreakdown(ctx context.Context) (domain.BusinessUnitBreakdown, error) {
	groups, err := s.groups(ctx, domain.GroupBusinessUnit, domain.GroupExecutive)
	if err != nil {
		return nil, err
	}

	rows := make(domain.BusinessUnitBreakdown, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, domain.BusinessUnitRow{
			BusinessUnit: g.Keys[0],
			Executive:    g.Keys[1],
			CoverageRow:  domain.NewCoverageRow(g.CoverageCounts),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].VisibilityPercentage != rows[j].VisibilityPercentage {
			return rows[i].VisibilityPercentage > rows[j].VisibilityPercentage
		}
		return lessKeys([]string{rows[i].BusinessUnit, rows[i].Executive}, []string{rows[j].BusinessUnit, rows[j].Executive})
	})
	return rows, nil
}

// SystemClassificationBreakdown is ordered production, staging, then the rest
func (s *service) SystemClassificationBreakdown(ctx context.Context) (domain.SystemClassificationBreakdown, error) {
	groups, err := s.groups(ctx, domain.GroupSystemClassification)
	if err != nil {
		return nil, err
	}

	rows := make(domain.SystemClassificationBreakdown, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, domain.SystemClassificationRow{
			SystemClassification: g.Keys[0],
			CoverageRow:          domain.NewCoverageRow(g.CoverageCounts),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ri := inventoryDomain.ClassificationRank(rows[i].SystemClassification)
		rj := inventoryDomain.ClassificationRank(rows[j].SystemClassification)
		if ri != rj {
			return ri < rj
		}
		return rows[i].SystemClassification < rows[j].SystemClassification
	})
	return rows, nil
}

func (s *service) DomainBreakdown(ctx context.Context) (domain.DomainBreakdown, error) {
	groups, err := s.groups(ctx, domain.GroupDomain)
	if err != nil {
		return nil, err
	}

	rows := make(domain.DomainBreakdown, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, domain.DomainRow{
			Domain:      g.Keys[0],
			CoverageRow: domain.NewCoverageRow(g.CoverageCounts),
		})
	}
	return rows, nil
}

func (s *service) SecurityControlCoverage(ctx context.Context) (domain.SecurityControlCoverage, error) {
	logger.InfoContext(ctx, "Visibility service: Computing security control coverage")

	counts, err := s.repo.GetGlobalCounts(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Visibility service: Failed to get control counts: %v", err)
		return domain.SecurityControlCoverage{}, err
	}
	return domain.NewSecurityControlCoverage(counts), nil
}

func (s *service) ComplianceMatrix(ctx context.Context) (domain.ComplianceMatrix, error) {
	logger.InfoContext(ctx, "Visibility service: Computing compliance matrix")

	counts, err := s.repo.GetComplianceCounts(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Visibility service: Failed to get compliance counts: %v", err)
		return domain.ComplianceMatrix{}, err
	}
	return domain.NewComplianceMatrix(counts), nil
}

// CoverageGaps lists production and staging hosts missing a required control
func (s *service) CoverageGaps(ctx context.Context) ([]domain.CoverageGap, error) {
	logger.InfoContext(ctx, "Visibility service: Detecting coverage gaps, limit: %d", domain.GapLimit)

	records, err := s.repo.GetCoverageGaps(ctx, domain.GapLimit)
	if err != nil {
		logger.ErrorContext(ctx, "Visibility service: Failed to get coverage gaps: %v", err)
		return nil, err
	}
	if len(records) > domain.GapLimit {
		records = records[:domain.GapLimit]
	}

	gaps := make([]domain.CoverageGap, 0, len(records))
	for _, record := range records {
		gaps = append(gaps, domain.NewCoverageGap(record))
	}

	logger.InfoContext(ctx, "Visibility service: Found %d coverage gaps", len(gaps))
	return gaps, nil
}

// groups fetches grouped counts, drops degenerate groups and orders the rest by
// total descending with the key tuple as tie-break.
func (s *service) groups(ctx context.Context, keys ...domain.GroupKey) ([]domain.GroupCounts, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no grouping key", ErrInvalidGroupKey)
	}
	for _, key := range keys {
		if !domain.IsValidGroupKey(key) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidGroupKey, key)
		}
	}

	logger.InfoContext(ctx, "Visibility service: Computing breakdown by %v", keys)

	raw, err := s.repo.GetCountsByGroup(ctx, keys...)
	if err != nil {
		logger.ErrorContext(ctx, "Visibility service: Failed to get counts by %v: %v", keys, err)
		return nil, err
	}

	groups := make([]domain.GroupCounts, 0, len(raw))
	for _, g := range raw {
		if isDegenerate(g, len(keys)) {
			logger.DebugContext(ctx, "Visibility service: Omitting degenerate group %v", g.Keys)
			continue
		}
		groups = append(groups, g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Total != groups[j].Total {
			return groups[i].Total > groups[j].Total
		}
		return lessKeys(groups[i].Keys, groups[j].Keys)
	})

	logger.InfoContext(ctx, "Visibility service: Breakdown by %v has %d groups", keys, len(groups))
	return groups, nil
}

func isDegenerate(g domain.GroupCounts, keyCount int) bool {
	if g.Total <= 0 || len(g.Keys) != keyCount {
		return true
	}
	for _, k := range g.Keys {
		if strings.TrimSpace(k) == "" {
			return true
		}
	}
	return false
}

func lessKeys(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
