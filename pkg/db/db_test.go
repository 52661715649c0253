package db

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thep200/github-trending/cfg"
)

func mockConfig(t *testing.T) *cfg.Config {
	t.Helper()
	loader, err := cfg.NewMockLoader()
	require.NoError(t, err)
	config, err := loader.Load()
	require.NoError(t, err)
	return config
}

func TestDatabase_MysqlDSN(t *testing.T) {
	config := mockConfig(t)
	config.Database.Driver = DriverMysql
	config.Database.Host = "db.internal"
	config.Database.Port = "3307"
	config.Database.Username = "crawler"
	config.Database.Password = "pw"
	config.Database.Database = "trending"

	database, err := NewDatabase(config)
	require.NoError(t, err)

	dsn := database.DSN()
	assert.True(t, strings.HasPrefix(dsn, "crawler:pw@tcp(db.internal:3307)/trending?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
}

func TestDatabase_SqliteOpenPing(t *testing.T) {
	config := mockConfig(t)
	config.Database.Path = filepath.Join(t.TempDir(), "nested", "trending.db")

	database, err := NewDatabase(config)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, database.Ping())
	assert.Equal(t, config.Database.Path, database.DSN())
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	config := mockConfig(t)
	config.Database.Driver = "oracle"

	_, err := NewDatabase(config)
	assert.Error(t, err)
}
