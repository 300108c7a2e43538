package genesis

import (
	"encoding/json"
	"time"

	"github.com/flightsurety/surety-node/config"
	"github.com/flightsurety/surety-node/core/types"
	"github.com/pkg/errors"
	tmos "github.com/tendermint/tendermint/libs/os"
	tmtypes "github.com/tendermint/tendermint/types"
)

const ChainID = "surety-local"

// DefaultAppState seeds a registry with the owner, one authorized calling
// contract and the first airline. The first airline starts unfunded.
func DefaultAppState(cfg config.RegistryConfig) types.AppState {
	return types.AppState{
		Note:            "FlightSurety registry",
		Owner:           types.HexToAddress(cfg.OwnerAddress),
		Operational:     true,
		Seed:            types.HexToHash(cfg.Seed),
		ContractBalance: "0",
		Accounts: []types.Account{
			{
				Address:    types.HexToAddress(cfg.AppAddress),
				Authorized: true,
				Balance:    "0",
			},
		},
		Airlines: []types.Airline{
			{
				Address: types.HexToAddress(cfg.FirstAirline),
				Status:  "Registered",
				Funded:  "0",
			},
		},
	}
}

func NewGenesis(appState types.AppState) (*tmtypes.GenesisDoc, error) {
	if err := appState.Verify(); err != nil {
		return nil, err
	}

	appStateJSON, err := json.Marshal(appState)
	if err != nil {
		return nil, err
	}

	genesis := tmtypes.GenesisDoc{
		GenesisTime: time.Now().UTC(),
		ChainID:     ChainID,
		AppState:    appStateJSON,
	}

	if err := genesis.ValidateAndComplete(); err != nil {
		return nil, err
	}

	return &genesis, nil
}

// AppState decodes the registry state carried by the genesis document.
func AppState(doc *tmtypes.GenesisDoc) (types.AppState, error) {
	var appState types.AppState
	if err := json.Unmarshal(doc.AppState, &appState); err != nil {
		return appState, errors.Wrap(err, "decode app state")
	}
	return appState, appState.Verify()
}

// LoadOrCreate reads the genesis file at path, writing a default one built
// from cfg first when it does not exist.
func LoadOrCreate(path string, cfg config.RegistryConfig) (*tmtypes.GenesisDoc, error) {
	if tmos.FileExists(path) {
		doc, err := tmtypes.GenesisDocFromFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "load genesis %s", path)
		}
		return doc, nil
	}

	doc, err := NewGenesis(DefaultAppState(cfg))
	if err != nil {
		return nil, err
	}

	if err := doc.SaveAs(path); err != nil {
		return nil, errors.Wrapf(err, "save genesis %s", path)
	}

	return doc, nil
}
