package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/tracker"
)

func TestSafeErrorMessage(t *testing.T) {
	fallback := "操作失败"
	testErr := errors.New("internal database error")

	// nil err 返回 fallback
	assert.Equal(t, fallback, SafeErrorMessage(nil, fallback))

	// release 模式返回 fallback，不暴露错误详情
	GlobalConfig = &Config{Server: ServerConfig{Mode: "release"}}
	defer func() { GlobalConfig = nil }()
	assert.Equal(t, fallback, SafeErrorMessage(testErr, fallback))

	// debug 模式返回 err.Error()
	GlobalConfig = &Config{Server: ServerConfig{Mode: "debug"}}
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))

	// GlobalConfig 为 nil 时返回 err.Error()（视为开发环境）
	GlobalConfig = nil
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60, cfg.Server.RateLimit.Requests)
	assert.Equal(t, "planner", cfg.Database.DBName)
	assert.Equal(t, time.Local, cfg.Tracker.Location)
	assert.Equal(t, tracker.CascadeIndependent, cfg.Tracker.Cascade)
	assert.Equal(t, tracker.StreakGrace, cfg.Tracker.Streak)
	assert.Equal(t, "5 0 * * *", cfg.Recurring.Cron)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Same(t, cfg, GetConfig())
}

func TestLoadConfig_ExternalFileAndEnv(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  mode: release
tracker:
  timezone: UTC
  subtask_cascade: complete_all
  streak_policy: strict
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("PLANNER_DATABASE_HOST", "db.internal")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, time.UTC, cfg.Tracker.Location)
	assert.Equal(t, tracker.CascadeCompleteAll, cfg.Tracker.Cascade)
	assert.Equal(t, tracker.StreakStrict, cfg.Tracker.Streak)
	// 未覆盖的字段保留默认值
	assert.Equal(t, "3306", cfg.Database.Port)
}

func TestLoadConfig_InvalidTrackerRules(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tracker:\n  subtask_cascade: sometimes\n"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, GlobalConfig)
}
