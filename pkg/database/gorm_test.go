package database_test

import (
	"testing"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/database"
)

func testOptions() database.DBConnOptions {
	return database.DBConnOptions{
		Host:     "db.internal",
		Port:     3306,
		Username: "reader",
		Password: "p@ss:word",
		Database: "asset_inventory",
	}
}

func TestMysqlDSN(t *testing.T) {
	parsed, err := mysqlDriver.ParseDSN(database.MysqlDSN(testOptions()))

	require.NoError(t, err)
	assert.Equal(t, "reader", parsed.User)
	assert.Equal(t, "p@ss:word", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db.internal:3306", parsed.Addr)
	assert.Equal(t, "asset_inventory", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, time.UTC, parsed.Loc)
}

func TestPostgresDSN(t *testing.T) {
	opts := testOptions()
	opts.Port = 5432

	dsn := database.PostgresDSN(opts)
	assert.Contains(t, dsn, "host=db.internal port=5432")
	assert.Contains(t, dsn, "dbname=asset_inventory")
	assert.Contains(t, dsn, "sslmode=disable")

	opts.SSLMode = "require"
	assert.Contains(t, database.PostgresDSN(opts), "sslmode=require")
}

func TestNewConnection_UnsupportedDriver(t *testing.T) {
	opts := testOptions()
	opts.Driver = "oracle"

	_, err := database.NewConnection(opts)

	assert.ErrorIs(t, err, database.ErrUnsupportedDriver)
}
