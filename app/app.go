package app

import (
	"context"
	"fmt"

	"gitlab.apk-group.net/siem/backend/asset-visibility/api/service"
	"gitlab.apk-group.net/siem/backend/asset-visibility/config"
	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/scheduler"
	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility"
	visibilityDomain "gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
	visibilityPort "gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/port"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/adapter/publisher"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/adapter/storage"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/adapter/upstream"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/database"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/logger"
	"gorm.io/gorm"
)

type app struct {
	db                   *gorm.DB
	cfg                  config.Config
	repo                 visibilityPort.Repo
	visibilityService    visibilityPort.Service
	apiVisibilityService *service.VisibilityService
	collector            visibilityPort.Collector
	refresher            *scheduler.Refresher
	publisher            *publisher.KafkaPublisher
}

func (a *app) VisibilityService(ctx context.Context) visibilityPort.Service {
	if a.visibilityService == nil {
		a.visibilityService = visibility.NewVisibilityService(a.repo)
	}
	return a.visibilityService
}

// For access from getters.go
func (a *app) GetAPIVisibilityService(ctx context.Context) *service.VisibilityService {
	return a.apiVisibilityService
}

func (a *app) Collector() visibilityPort.Collector {
	return a.collector
}

func (a *app) Config() config.Config {
	return a.cfg
}

func (a *app) DB() *gorm.DB {
	return a.db
}

// setRepo opens the inventory store selected by inventory.mode
func (a *app) setRepo() error {
	if a.cfg.Inventory.Mode == config.InventoryModeSnapshot {
		repo, err := storage.LoadSnapshotRepo(a.cfg.Inventory.File)
		if err != nil {
			return err
		}
		a.repo = repo
		return nil
	}

	db, err := database.NewConnection(database.DBConnOptions{
		Driver:          a.cfg.DB.Driver,
		Host:            a.cfg.DB.Host,
		Port:            a.cfg.DB.Port,
		Username:        a.cfg.DB.Username,
		Password:        a.cfg.DB.Password,
		Database:        a.cfg.DB.Database,
		SSLMode:         a.cfg.DB.SSLMode,
		MaxOpenConns:    a.cfg.DB.MaxOpenConns,
		MaxIdleConns:    a.cfg.DB.MaxIdleConns,
		ConnMaxLifetime: a.cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	a.db = db
	a.repo = storage.NewVisibilityRepo(db)
	return nil
}

func NewApp(cfg config.Config) (AppContainer, error) {
	logger.Configure(cfg.Logging.Level, cfg.Logging.Format, nil)

	a := &app{
		cfg: cfg,
	}
	if err := a.setRepo(); err != nil {
		return nil, err
	}
	if err := a.wire(); err != nil {
		return nil, err
	}
	return a, nil
}

// NewAppWithRepo wires the container over an already opened inventory repository
func NewAppWithRepo(cfg config.Config, repo visibilityPort.Repo) (AppContainer, error) {
	a := &app{
		cfg:  cfg,
		repo: repo,
	}
	if err := a.wire(); err != nil {
		return nil, err
	}
	return a, nil
}

func NewMustApp(cfg config.Config) AppContainer {
	a, err := NewApp(cfg)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *app) wire() error {
	if a.repo == nil {
		return fmt.Errorf("inventory repository not initialized")
	}

	// Initialize the aggregation query layer
	a.visibilityService = visibility.NewVisibilityService(a.repo)

	classifier, err := visibility.NewClassifier(thresholdTable(a.cfg.Thresholds))
	if err != nil {
		return err
	}

	// Dimension documents come from this process or from an upstream instance
	var source visibilityPort.Source
	if a.cfg.Upstream.Enabled() {
		logger.Info("Collector source: upstream %s", a.cfg.Upstream.BaseURL)
		source = upstream.NewClient(a.cfg.Upstream.BaseURL, a.cfg.Upstream.Timeout)
	} else {
		source = visibility.NewLocalSource(a.visibilityService)
	}
	a.collector = visibility.NewCollector(source, classifier, a.cfg.Refresh.FetchTimeout)

	var sinks []visibilityPort.SnapshotSink
	if a.cfg.Kafka.Enabled() {
		a.publisher = publisher.NewKafkaPublisher(a.cfg.Kafka.Brokers, a.cfg.Kafka.Topic)
		sinks = append(sinks, a.publisher)
		logger.Info("Snapshot publisher: kafka topic %s", a.cfg.Kafka.Topic)
	}

	overview := a.collector.Collect
	if a.cfg.Refresh.Enabled {
		a.refresher = scheduler.NewRefresher(a.collector, a.cfg.Refresh.Interval, sinks...)
		overview = func(ctx context.Context) (visibilityDomain.Overview, error) {
			return a.refresher.Latest()
		}
	}

	// Initialize API visibility service (external API layer)
	a.apiVisibilityService = service.NewVisibilityService(a.visibilityService, overview)
	return nil
}

func thresholdTable(raw map[string]visibilityDomain.Threshold) visibility.Thresholds {
	table := make(visibility.Thresholds, len(raw))
	for name, t := range raw {
		table[visibilityDomain.Dimension(name)] = t
	}
	return table
}

// StartRefresher begins the periodic collect cycle
func (a *app) StartRefresher() {
	if a.refresher != nil {
		a.refresher.Start()
	}
}

// StopRefresher halts the periodic collect cycle
func (a *app) StopRefresher() {
	if a.refresher != nil {
		a.refresher.Stop()
	}
}

// Close stops background work and releases the store and publisher
func (a *app) Close() error {
	a.StopRefresher()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			logger.Warn("Failed to close snapshot publisher: %v", err)
		}
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
