package app

import (
	"context"

	"gitlab.apk-group.net/siem/backend/asset-visibility/api/service"
	"gitlab.apk-group.net/siem/backend/asset-visibility/config"
	VisibilityPort "gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/port"
	"gorm.io/gorm"
)

type AppContainer interface {
	VisibilityService(ctx context.Context) VisibilityPort.Service
	Collector() VisibilityPort.Collector
	StartRefresher()
	StopRefresher()
	Config() config.Config
	// DB is nil when the inventory is served from a snapshot file
	DB() *gorm.DB
	Close() error

	// Method to access the API visibility service
	GetAPIVisibilityService(ctx context.Context) *service.VisibilityService
}
