package http

import (
	"context"

	"gitlab.apk-group.net/siem/backend/asset-visibility/api/service"
	"gitlab.apk-group.net/siem/backend/asset-visibility/app"
)

// ServiceGetter resolves a service for the request context
type ServiceGetter[T any] func(context.Context) T

func visibilityServiceGetter(appContainer app.AppContainer) ServiceGetter[*service.VisibilityService] {
	return func(ctx context.Context) *service.VisibilityService {
		return appContainer.GetAPIVisibilityService(ctx)
	}
}
