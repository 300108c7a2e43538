package cmd

import (
	"strconv"

	"github.com/flightsurety/surety-node/core/state"
	"github.com/flightsurety/surety-node/genesis"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	db "github.com/tendermint/tm-db"
)

var ExportCommand = &cobra.Command{
	Use:   "export",
	Short: "Export the registry state at a height as a genesis file",
	RunE:  export,
}

func init() {
	ExportCommand.Flags().Uint64("height", 0, "height to export, 0 for the last committed one")
	ExportCommand.Flags().String("output", "genesis.json", "path of the exported genesis file")
}

func export(cmd *cobra.Command, _ []string) error {
	height, err := cmd.Flags().GetUint64("height")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	stateDB, err := db.NewDB("state", db.BackendType(cfg.DBBackend), cfg.DBDir())
	if err != nil {
		return errors.Wrap(err, "open state db")
	}
	defer stateDB.Close()

	if height == 0 {
		current, err := state.NewState(0, stateDB, nil, cfg.StateCacheSize, 0)
		if err != nil {
			return err
		}
		height = uint64(current.Height())
	}
	if height == 0 {
		return errors.New("nothing to export, the registry is not initialized")
	}

	checkState, err := state.NewCheckStateAtHeight(height, stateDB)
	if err != nil {
		return err
	}

	appState := checkState.Export()
	appState.Note = "exported at height " + strconv.FormatUint(height, 10)

	doc, err := genesis.NewGenesis(appState)
	if err != nil {
		return errors.Wrap(err, "build genesis")
	}

	if err := doc.SaveAs(output); err != nil {
		return errors.Wrapf(err, "save %s", output)
	}

	cmd.Printf("Exported height %d to %s\n", height, output)
	return nil
}
