package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8*time.Hour, cfg.Board.ArchiveWindow)
	assert.Equal(t, time.Minute, cfg.Client.RefreshInterval)
	assert.Equal(t, 5*time.Minute, cfg.Client.RefetchInterval)
	assert.Equal(t, "manual", cfg.Client.DefaultSort)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOARD_ARCHIVE_WINDOW", "30m")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/board.db")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("BOARD_DEFAULT_SORT", "due-asc")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.Board.ArchiveWindow)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/board.db", cfg.Database.SQLitePath)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.GetAddr())
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "cache:6379", cfg.Redis.GetAddr())
	assert.Equal(t, "due-asc", cfg.Client.DefaultSort)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveArchiveWindow(t *testing.T) {
	t.Setenv("BOARD_ARCHIVE_WINDOW", "0s")

	_, err := config.Load()
	assert.Error(t, err)
}
