package http

import (
	"crypto/tls"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gitlab.apk-group.net/siem/backend/asset-visibility/app"
	"gitlab.apk-group.net/siem/backend/asset-visibility/config"
)

// NewRouter builds the fiber app with every route registered
func NewRouter(appContainer app.AppContainer) *fiber.App {
	router := fiber.New(fiber.Config{
		AppName: "APK Asset Visibility",
	})
	router.Use(helmet.New())
	router.Use(TraceMiddleware())
	router.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} TraceID: ${locals:traceID}\n",
		Output: os.Stdout,
	}))

	router.Get("/healthz", HealthCheck(visibilityServiceGetter(appContainer)))

	api := router.Group("/api/v1")
	registerDashboardAPI(appContainer, api)

	return router
}

func Run(appContainer app.AppContainer, cfg config.ServerConfig) error {
	router := NewRouter(appContainer)

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
		CipherSuites: []uint16{
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		},
		PreferServerCipherSuites: true,
	}

	router.Server().TLSConfig = tlsConfig
	if !cfg.SslEnabled {
		return router.Listen(fmt.Sprintf(":%d", cfg.HttpPort))
	}
	return router.ListenTLS(fmt.Sprintf(":%d", cfg.HttpPort), cfg.Cert, cfg.Key)
}

func registerDashboardAPI(appContainer app.AppContainer, router fiber.Router) {
	visibilitySvcGetter := visibilityServiceGetter(appContainer)

	dashboard := router.Group("/dashboard")
	dashboard.Get("/global", GetDashboardGlobal(visibilitySvcGetter))
	dashboard.Get("/infrastructure", GetDashboardInfrastructure(visibilitySvcGetter))
	dashboard.Get("/regional", GetDashboardRegional(visibilitySvcGetter))
	dashboard.Get("/business-units", GetDashboardBusinessUnits(visibilitySvcGetter))
	dashboard.Get("/system-classification", GetDashboardSystemClassification(visibilitySvcGetter))
	dashboard.Get("/security-controls", GetDashboardSecurityControls(visibilitySvcGetter))
	dashboard.Get("/domains", GetDashboardDomains(visibilitySvcGetter))
	dashboard.Get("/compliance", GetDashboardCompliance(visibilitySvcGetter))
	dashboard.Get("/gaps", GetDashboardGaps(visibilitySvcGetter))
	dashboard.Get("/breakdown", GetDashboardBreakdown(visibilitySvcGetter))
	dashboard.Get("/overview", GetDashboardOverview(visibilitySvcGetter))
}
