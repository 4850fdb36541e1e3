package config

import (
	"time"

	visibilityDomain "gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
)

type Config struct {
	Server     ServerConfig                          `yaml:"server"`
	DB         DBConfig                              `yaml:"db"`
	Inventory  InventoryConfig                       `yaml:"inventory"`
	Refresh    RefreshConfig                         `yaml:"refresh"`
	Upstream   UpstreamConfig                        `yaml:"upstream"`
	Kafka      KafkaConfig                           `yaml:"kafka"`
	Logging    LoggingConfig                         `yaml:"logging"`
	Thresholds map[string]visibilityDomain.Threshold `yaml:"thresholds"`
}

type ServerConfig struct {
	HttpPort   uint   `yaml:"http_port"`
	SslEnabled bool   `yaml:"ssl_enabled"`
	Cert       string `yaml:"cert"`
	Key        string `yaml:"key"`
}

type DBConfig struct {
	Driver          string        `yaml:"driver"`
	Host            string        `yaml:"host"`
	Port            uint          `yaml:"port"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// Inventory store modes
const (
	InventoryModeDatabase = "database"
	InventoryModeSnapshot = "snapshot"
)

type InventoryConfig struct {
	Mode string `yaml:"mode"`
	// File is the JSON export read in snapshot mode
	File string `yaml:"file"`
}

type RefreshConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Interval     time.Duration `yaml:"interval"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// UpstreamConfig switches the collector to fetching dimension documents from
// another instance of the dashboard API
type UpstreamConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

func (u UpstreamConfig) Enabled() bool {
	return u.BaseURL != ""
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.Topic != ""
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		Server: ServerConfig{
			HttpPort: 8080,
		},
		DB: DBConfig{
			Driver:          "mysql",
			Host:            "localhost",
			Port:            3306,
			Database:        "asset_inventory",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Inventory: InventoryConfig{
			Mode: InventoryModeDatabase,
		},
		Refresh: RefreshConfig{
			Enabled:      true,
			Interval:     30 * time.Second,
			FetchTimeout: 10 * time.Second,
		},
		Upstream: UpstreamConfig{
			Timeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Thresholds: map[string]visibilityDomain.Threshold{},
	}
}
