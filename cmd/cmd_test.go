package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/config"
)

func TestListenAddr(t *testing.T) {
	assert.Equal(t, ":8080", listenAddr("8080"))
	assert.Equal(t, ":8080", listenAddr(":8080"))
	assert.Equal(t, "127.0.0.1:9000", listenAddr("127.0.0.1:9000"))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "planner "+Version)
	assert.Nil(t, appConfig)
}

func TestSetup_LoadsEmbeddedDefaults(t *testing.T) {
	configFile = ""
	t.Cleanup(func() { appConfig = nil })

	require.NoError(t, setup())
	require.NotNil(t, appConfig)
	assert.Equal(t, "5 0 * * *", appConfig.Recurring.Cron)
	assert.NotNil(t, appConfig.Tracker.Location)
}

func TestEmailTestCommand_Disabled(t *testing.T) {
	var out bytes.Buffer
	configFile = ""
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"email", "test", "me@example.com"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		appConfig = nil
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "邮件服务未启用")
}

func TestNewScheduler(t *testing.T) {
	cfg := &config.Config{Recurring: config.RecurringConfig{Enabled: false, Cron: "not a cron"}}
	sched, err := newScheduler(cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, sched)

	// 表达式无效时在启动监听前就返回错误
	cfg.Recurring.Enabled = true
	_, err = newScheduler(cfg, nil)
	assert.Error(t, err)

	cfg.Recurring.Cron = "5 0 * * *"
	sched, err = newScheduler(cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, sched)
}
