package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	for _, k := range []string{"METHODO_DB", "METHODO_LOG_LEVEL", "METHODO_LOG_MODE", "METHODO_ASSIST_PROVIDER", "METHODO_ASSIST_TIMEOUT", "METHODO_PRACTICE_RECENTLIMIT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "methodo", "methodo.db"), cfg.DB)
	assert.Equal(t, "development", cfg.Log.Mode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "scripted", cfg.Assist.Provider)
	assert.Equal(t, 5*time.Second, cfg.Assist.Timeout)
	assert.Equal(t, 10, cfg.Practice.RecentLimit)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "methodo", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`
db: /tmp/from-file.db
log:
  level: debug
assist:
  timeout: 2s
practice:
  recentLimit: 3
`), 0o644))

	t.Setenv("METHODO_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-file.db", cfg.DB)
	assert.Equal(t, "warn", cfg.Log.Level, "env beats file")
	assert.Equal(t, 2*time.Second, cfg.Assist.Timeout)
	assert.Equal(t, 3, cfg.Practice.RecentLimit)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	var cerr *Error
	require.True(t, errors.As(err, &cerr), "err = %v", err)
}

func TestLoad_InvalidValue(t *testing.T) {
	isolate(t)
	t.Setenv("METHODO_ASSIST_PROVIDER", "openai")
	_, err := Load("")
	var cerr *Error
	require.True(t, errors.As(err, &cerr), "err = %v", err)
	assert.Equal(t, "assist.provider", cerr.Field)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"defaults ok", func(*Config) {}, ""},
		{"empty db", func(c *Config) { c.DB = " " }, "db"},
		{"bad mode", func(c *Config) { c.Log.Mode = "loud" }, "log.mode"},
		{"bad provider", func(c *Config) { c.Assist.Provider = "gemini" }, "assist.provider"},
		{"zero timeout", func(c *Config) { c.Assist.Timeout = 0 }, "assist.timeout"},
		{"negative limit", func(c *Config) { c.Practice.RecentLimit = -1 }, "practice.recentLimit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var cerr *Error
			require.True(t, errors.As(err, &cerr), "err = %v", err)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}
