package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	visibilityDomain "gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
)

const envPrefix = "VISIBILITY_"

var ErrInvalidConfig = errors.New("invalid configuration")

// Load builds the configuration from defaults, the optional YAML file at path,
// a .env file in the working directory and VISIBILITY_* environment variables,
// in that order of precedence
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	// a missing .env file is not an error
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustLoad is Load that panics on error
func MustLoad(path string) Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c Config) Validate() error {
	switch c.DB.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("%w: unknown db driver %q", ErrInvalidConfig, c.DB.Driver)
	}

	switch c.Inventory.Mode {
	case InventoryModeDatabase:
	case InventoryModeSnapshot:
		if c.Inventory.File == "" {
			return fmt.Errorf("%w: snapshot mode requires inventory.file", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown inventory mode %q", ErrInvalidConfig, c.Inventory.Mode)
	}

	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("%w: refresh.interval must be positive", ErrInvalidConfig)
	}
	if c.Refresh.FetchTimeout <= 0 {
		return fmt.Errorf("%w: refresh.fetch_timeout must be positive", ErrInvalidConfig)
	}
	if c.Server.SslEnabled && (c.Server.Cert == "" || c.Server.Key == "") {
		return fmt.Errorf("%w: ssl requires cert and key", ErrInvalidConfig)
	}

	for name, t := range c.Thresholds {
		if !visibilityDomain.IsValidDimension(name) {
			return fmt.Errorf("%w: threshold for unknown dimension %q", ErrInvalidConfig, name)
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: threshold for %s: %v", ErrInvalidConfig, name, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.DB.Driver, "DB_DRIVER")
	setString(&cfg.DB.Host, "DB_HOST")
	setString(&cfg.DB.Username, "DB_USER")
	setString(&cfg.DB.Password, "DB_PASSWORD")
	setString(&cfg.DB.Database, "DB_NAME")
	setString(&cfg.DB.SSLMode, "DB_SSLMODE")
	setString(&cfg.Inventory.Mode, "INVENTORY_MODE")
	setString(&cfg.Inventory.File, "INVENTORY_FILE")
	setString(&cfg.Upstream.BaseURL, "UPSTREAM_URL")
	setString(&cfg.Kafka.Topic, "KAFKA_TOPIC")
	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")
	setString(&cfg.Server.Cert, "SSL_CERT")
	setString(&cfg.Server.Key, "SSL_KEY")

	if v, ok := lookup("KAFKA_BROKERS"); ok {
		cfg.Kafka.Brokers = splitList(v)
	}

	if err := setUint(&cfg.Server.HttpPort, "HTTP_PORT"); err != nil {
		return err
	}
	if err := setUint(&cfg.DB.Port, "DB_PORT"); err != nil {
		return err
	}
	if err := setBool(&cfg.Server.SslEnabled, "SSL_ENABLED"); err != nil {
		return err
	}
	if err := setBool(&cfg.Refresh.Enabled, "REFRESH_ENABLED"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Refresh.Interval, "REFRESH_INTERVAL"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Refresh.FetchTimeout, "FETCH_TIMEOUT"); err != nil {
		return err
	}
	return setDuration(&cfg.Upstream.Timeout, "UPSTREAM_TIMEOUT")
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func setString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func setUint(dst *uint, name string) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, envPrefix, name, err)
	}
	*dst = uint(n)
	return nil
}

func setBool(dst *bool, name string) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, envPrefix, name, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, name string) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, envPrefix, name, err)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
