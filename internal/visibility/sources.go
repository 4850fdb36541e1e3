package visibility

import (
	"context"
	"fmt"

	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
	visibilityPort "gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/port"
)

// FetchFunc fetches the raw document of one dimension
type FetchFunc func(ctx context.Context) (interface{}, error)

type localSource struct {
	fetchers map[domain.Dimension]FetchFunc
}

// NewLocalSource serves dimension documents straight from the aggregation layer
func NewLocalSource(svc visibilityPort.Service) visibilityPort.Source {
	return &localSource{
		fetchers: map[domain.Dimension]FetchFunc{
			domain.DimensionGlobal: func(ctx context.Context) (interface{}, error) {
				return svc.GlobalView(ctx)
			},
			domain.DimensionInfrastructure: func(ctx context.Context) (interface{}, error) {
				return svc.InfrastructureBreakdown(ctx)
			},
			domain.DimensionRegional: func(ctx context.Context) (interface{}, error) {
				return svc.RegionalBreakdown(ctx)
			},
			domain.DimensionBusinessUnit: func(ctx context.Context) (interface{}, error) {
				return svc.BusinessUnitBreakdown(ctx)
			},
			domain.DimensionSystemClassification: func(ctx context.Context) (interface{}, error) {
				return svc.SystemClassificationBreakdown(ctx)
			},
			domain.DimensionSecurityControls: func(ctx context.Context) (interface{}, error) {
				return svc.SecurityControlCoverage(ctx)
			},
			domain.DimensionDomain: func(ctx context.Context) (interface{}, error) {
				return svc.DomainBreakdown(ctx)
			},
			domain.DimensionCompliance: func(ctx context.Context) (interface{}, error) {
				return svc.ComplianceMatrix(ctx)
			},
		},
	}
}

// NewFuncSource builds a source from an explicit fetch table
func NewFuncSource(fetchers map[domain.Dimension]FetchFunc) visibilityPort.Source {
	return &localSource{fetchers: fetchers}
}

func (s *localSource) Fetch(ctx context.Context, dimension domain.Dimension) (interface{}, error) {
	fetch, ok := s.fetchers[dimension]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDimension, dimension)
	}
	return fetch(ctx)
}
