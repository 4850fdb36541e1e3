package database

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	pkgLogger "gitlab.apk-group.net/siem/backend/asset-visibility/pkg/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

type DBConnOptions struct {
	Driver   string
	Host     string
	Port     uint
	Username string
	Password string
	Database string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewConnection opens the inventory store for the configured driver
func NewConnection(cfg DBConnOptions) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case DriverMySQL, "":
		db, err = NewMysqlConnection(cfg)
	case DriverPostgres:
		db, err = NewPostgresConnection(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pkgLogger.Info("Connected to %s inventory store at %s:%d/%s", driverName(cfg.Driver), cfg.Host, cfg.Port, cfg.Database)
	return db, nil
}

// MysqlDSN builds the MySQL DSN with parseTime enabled for last_updated
func MysqlDSN(cfg DBConnOptions) string {
	dsn := mysqlDriver.NewConfig()
	dsn.User = cfg.Username
	dsn.Passwd = cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(cfg.Host, strconv.FormatUint(uint64(cfg.Port), 10))
	dsn.DBName = cfg.Database
	dsn.ParseTime = true
	dsn.Loc = time.UTC
	dsn.Params = map[string]string{"charset": "utf8mb4"}
	return dsn.FormatDSN()
}

func NewMysqlConnection(cfg DBConnOptions) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(MysqlDSN(cfg)), &gorm.Config{
		Logger: logger.Discard,
	})
}

// PostgresDSN builds a key/value DSN for the pgx driver
func PostgresDSN(cfg DBConnOptions) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
		sslMode,
	)
}

func NewPostgresConnection(cfg DBConnOptions) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(PostgresDSN(cfg)), &gorm.Config{
		Logger: logger.Discard,
	})
}

func driverName(driver string) string {
	if driver == "" {
		return DriverMySQL
	}
	return driver
}
