package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XC-/gatt-core"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.Transaction.Timeout)
	assert.Equal(t, 10, cfg.Registry.MaxTTL)
	assert.Equal(t, 30*time.Second, cfg.Registry.SweepInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gatt.yaml")
	data := []byte(`
transaction:
  timeout: 5s
registry:
  max_ttl: 3
logging:
  level: debug
  format: json
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Transaction.Timeout)
	assert.Equal(t, 3, cfg.Registry.MaxTTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("GATT_TRANSACTION_TIMEOUT", "250ms")
	t.Setenv("GATT_REGISTRY_MAX_TTL", "7")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Transaction.Timeout)
	assert.Equal(t, 7, cfg.Registry.MaxTTL)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("GATT_REGISTRY_SWEEP_INTERVAL", "0s")
	_, err = Load("")
	assert.ErrorContains(t, err, "sweep_interval")

	t.Setenv("GATT_REGISTRY_SWEEP_INTERVAL", "30s")
	t.Setenv("GATT_LOGGING_FORMAT", "xml")
	_, err = Load("")
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Registry.MaxTTL = 4

	opts := cfg.Options(nil)
	assert.Len(t, opts, 2)

	c := gatt.NewClientConn(nopStack{}, gatt.MustParseBDAddr("c4:7c:8d:6a:3b:11"), opts...)
	defer c.Close()
	assert.Equal(t, 4, c.TTL())

	assert.Len(t, cfg.Options(logrus.New()), 3)
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger(LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)

	path := filepath.Join(t.TempDir(), "logs", "gatt.log")
	l, err = NewLogger(LoggingConfig{Level: "info", Output: path, MaxSize: 1})
	require.NoError(t, err)
	l.Info("hello")
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello")

	_, err = NewLogger(LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

type nopStack struct{}

func (nopStack) Issue(gatt.Request, func(gatt.Response)) error { return nil }
