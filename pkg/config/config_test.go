package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"coinsreg/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
is_debug: true
data_dir: /tmp/coinsreg
coins_file: coins.yml
nats:
  enabled: true
  url: nats://nats_coins:4222
etcd:
  main:
    enabled: false
    url: etcd:2379
`

func writeConfig(t *testing.T, body string) string {
	p := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.True(t, cfg.IsDebug)
	assert.Equal(t, "/tmp/coinsreg", cfg.DataDir)
	assert.Equal(t, "/tmp/coinsreg/coins.yml", cfg.CoinsPath())
	assert.True(t, cfg.Nats.Enabled)
	assert.Equal(t, "nats://nats_coins:4222", cfg.Nats.Url)
	assert.Equal(t, "etcd:2379", cfg.Etcd.Main.Url)

	// untouched sections keep their defaults
	assert.Equal(t, ":12350", cfg.Grpc.Addr)
	assert.Equal(t, ":12351", cfg.Metrics.Addr)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("COINSREG_NATS_URL", "nats://override:4222")
	t.Setenv("COINSREG_COINS_FILE", "/etc/coins.json")

	cfg, err := config.Load(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "nats://override:4222", cfg.Nats.Url)
	assert.Equal(t, "/etc/coins.json", cfg.CoinsPath())
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)

	_, err = config.Load(writeConfig(t, "nats: [1, 2"))
	require.Error(t, err)
}
