package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultConfig().ValidateBasic())
}

func TestWriteAndLoadConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	EnsureRoot(root)

	path := filepath.Join(root, defaultConfigFilePath)
	written := DefaultConfig()
	written.KeepLastStates = 7
	written.BlockInterval = 250 * time.Millisecond
	written.Events.KafkaBrokers = []string{"127.0.0.1:9092", "127.0.0.1:9093"}
	written.Simulation.Oracles = 5
	WriteConfigFile(path, written)

	loaded := DefaultConfig()
	require.NoError(t, LoadConfig(path, loaded))

	assert.Equal(t, int64(7), loaded.KeepLastStates)
	assert.Equal(t, 250*time.Millisecond, loaded.BlockInterval)
	assert.Equal(t, []string{"127.0.0.1:9092", "127.0.0.1:9093"}, loaded.Events.KafkaBrokers)
	assert.Equal(t, 5, loaded.Simulation.Oracles)
	assert.Equal(t, written.Registry, loaded.Registry)
}

func TestValidateBasic(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Registry.AppAddress = "not an address"
	assert.Error(t, cfg.ValidateBasic())

	cfg = DefaultConfig()
	cfg.LogFormat = "xml"
	assert.Error(t, cfg.ValidateBasic())

	cfg = DefaultConfig()
	cfg.KeepLastStates = -1
	assert.Error(t, cfg.ValidateBasic())
}

func TestRootify(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig().SetRoot("/srv/surety")
	assert.Equal(t, filepath.Join("/srv/surety", "data"), cfg.DBDir())
	assert.Equal(t, filepath.Join("/srv/surety", "config", "genesis.json"), cfg.GenesisFile())

	cfg.DBPath = "/var/lib/surety"
	assert.Equal(t, "/var/lib/surety", cfg.DBDir())
}
