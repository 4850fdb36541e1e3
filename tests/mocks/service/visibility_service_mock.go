package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
)

// MockVisibilityService is a mock implementation of the visibilityPort.Service interface
type MockVisibilityService struct {
	mock.Mock
}

func (m *MockVisibilityService) GlobalView(ctx context.Context) (domain.GlobalView, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.GlobalView), args.Error(1)
}

func (m *MockVisibilityService) ByDimension(ctx context.Context, keys ...domain.GroupKey) ([]domain.GroupCoverage, error) {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GroupCoverage), args.Error(1)
}

func (m *MockVisibilityService) InfrastructureBreakdown(ctx context.Context) (domain.InfrastructureBreakdown, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.InfrastructureBreakdown), args.Error(1)
}

func (m *MockVisibilityService) RegionalBreakdown(ctx context.Context) (domain.RegionalBreakdown, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.RegionalBreakdown), args.Error(1)
}

func (m *MockVisibilityService) BusinessUnitBreakdown(ctx context.Context) (domain.BusinessUnitBreakdown, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.BusinessUnitBreakdown), args.Error(1)
}

func (m *MockVisibilityService) SystemClassificationBreakdown(ctx context.Context) (domain.SystemClassificationBreakdown, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.SystemClassificationBreakdown), args.Error(1)
}

func (m *MockVisibilityService) DomainBreakdown(ctx context.Context) (domain.DomainBreakdown, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.DomainBreakdown), args.Error(1)
}

func (m *MockVisibilityService) SecurityControlCoverage(ctx context.Context) (domain.SecurityControlCoverage, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.SecurityControlCoverage), args.Error(1)
}

func (m *MockVisibilityService) ComplianceMatrix(ctx context.Context) (domain.ComplianceMatrix, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ComplianceMatrix), args.Error(1)
}

func (m *MockVisibilityService) CoverageGaps(ctx context.Context) ([]domain.CoverageGap, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CoverageGap), args.Error(1)
}

func (m *MockVisibilityService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
