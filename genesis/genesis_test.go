package genesis

import (
	"path/filepath"
	"testing"

	"github.com/flightsurety/surety-node/config"
	"github.com/flightsurety/surety-node/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAppState(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultRegistryConfig()
	appState := DefaultAppState(cfg)

	require.NoError(t, appState.Verify())
	assert.Equal(t, types.HexToAddress(cfg.OwnerAddress), appState.Owner)
	assert.True(t, appState.Operational)
	require.Len(t, appState.Airlines, 1)
	assert.Equal(t, "Registered", appState.Airlines[0].Status)
	require.Len(t, appState.Accounts, 1)
	assert.True(t, appState.Accounts[0].Authorized)
}

func TestLoadOrCreate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "genesis.json")
	cfg := config.DefaultRegistryConfig()

	created, err := LoadOrCreate(path, cfg)
	require.NoError(t, err)

	loaded, err := LoadOrCreate(path, cfg)
	require.NoError(t, err)
	assert.Equal(t, created.ChainID, loaded.ChainID)

	appState, err := AppState(loaded)
	require.NoError(t, err)
	assert.Equal(t, DefaultAppState(cfg), appState)
}
