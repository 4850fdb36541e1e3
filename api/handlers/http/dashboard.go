package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"gitlab.apk-group.net/siem/backend/asset-visibility/api/service"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/logger"
)

// dashboardHandler builds a handler returning one dashboard document verbatim
func dashboardHandler[T any](name string, svcGetter ServiceGetter[*service.VisibilityService], fetch func(*service.VisibilityService, context.Context) (T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		srv := svcGetter(ctx)

		logger.InfoContext(ctx, "Dashboard %s request received", name)

		data, err := fetch(srv, ctx)
		if err != nil {
			logger.ErrorContext(ctx, "Dashboard %s failed: %v", name, err)
			return toFiberError(err)
		}

		logger.InfoContext(ctx, "Dashboard %s retrieved successfully", name)
		return c.JSON(data)
	}
}

// GetDashboardGlobal returns whole-estate coverage
func GetDashboardGlobal(svcGetter ServiceGetter[*service.VisibilityService]) fiber.Handler {
	return dashboardHandler("global", svcGetter, (*service.VisibilityService).GetGlobal)
}

func GetDashboardInfrastructure(svcGetter ServiceGetter[*service.VisibilityService]) fiber.Handler {
	return dashboardHandler("infrastructure", svcGetter, (*service.VisibilityService).GetInfrastructure)
}

func GetDashboardRegional(svcGetter ServiceGetter[*service.VisibilityService]) fiber.Handler {
	return dashboardHandler("regional", svcGetter, (*service.VisibilityService).GetRegional)
}

func GetDashboardBusinessUnits(svcGetter ServiceGetter[*service.VisibilityService]) fiber.Handler {
	return dashboardHandler("business units", svcGetter, (*service.VisibilityService).GetBusinessUnits)
}

func GetDashboardSystemClassification(svcGetter ServiceGetter[*service.VisibilityService]) fiber.Handler {
	return dashboardHandler("system classification", svcGetter, (*service.VisibilityService).GetSystemClassification)
}

func GetDashboardSecurityControls(svcGetter ServiceGetter[*service.VisibilityService]) fiber.Handler {
	return dashboardHandler("security controls", svcGetter, (*service.VisibilityService).GetSecurityControls)
}

func GetDashboardDomains(svcGetter ServiceGetter[*service.VisibilityService]) fiber.Handler {
	return dashboardHandler("domains", svcGetter, (*service.VisibilityService).GetDomains)
}

func GetDashboardCompliance(svcGetter ServiceGetter[*service.VisibilityService]) fiber.Handler {
	return dashboardHandler("compliance", svcGetter, (*service.VisibilityService).GetCompliance)
}

// GetDashboardGaps returns at most 100 production and staging hosts missing a control
func GetDashboardGaps(svcGetter ServiceGetter[*service.VisibilityService]) fiber.Handler {
	return dashboardHandler("coverage gaps", svcGetter, (*service.VisibilityService).GetCoverageGaps)
}

// GetDashboardOverview returns the latest per-dimension metrics and rollup
func GetDashboardOverview(svcGetter ServiceGetter[*service.VisibilityService]) fiber.Handler {
	return dashboardHandler("overview", svcGetter, (*service.VisibilityService).GetOverview)
}

// GetDashboardBreakdown groups coverage by the keys query parameter, e.g. ?keys=region,asset_class
func GetDashboardBreakdown(svcGetter ServiceGetter[*service.VisibilityService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		srv := svcGetter(ctx)

		keys := c.Query("keys")
		logger.InfoContext(ctx, "Dashboard breakdown request received, keys: %s", keys)

		data, err := srv.GetBreakdown(ctx, keys)
		if err != nil {
			logger.ErrorContext(ctx, "Dashboard breakdown failed: %v", err)
			return toFiberError(err)
		}
		return c.JSON(data)
	}
}

// HealthCheck pings the inventory store
func HealthCheck(svcGetter ServiceGetter[*service.VisibilityService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if err := svcGetter(ctx).Health(ctx); err != nil {
			logger.ErrorContext(ctx, "Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

func toFiberError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidGroupKey):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInventoryUnavailable), errors.Is(err, service.ErrSnapshotNotReady):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
