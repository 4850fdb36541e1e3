package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	inventoryDomain "gitlab.apk-group.net/siem/backend/asset-visibility/internal/inventory/domain"
	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
)

// MockVisibilityRepo is a mock implementation of the visibilityPort.Repo interface
type MockVisibilityRepo struct {
	mock.Mock
}

func (m *MockVisibilityRepo) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVisibilityRepo) GetGlobalCounts(ctx context.Context) (domain.CoverageCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.CoverageCounts), args.Error(1)
}

func (m *MockVisibilityRepo) GetCountsByGroup(ctx context.Context, keys ...domain.GroupKey) ([]domain.GroupCounts, error) {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GroupCounts), args.Error(1)
}

func (m *MockVisibilityRepo) GetComplianceCounts(ctx context.Context) (domain.ComplianceCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ComplianceCounts), args.Error(1)
}

func (m *MockVisibilityRepo) GetCoverageGaps(ctx context.Context, limit int) ([]inventoryDomain.AssetRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventoryDomain.AssetRecord), args.Error(1)
}
