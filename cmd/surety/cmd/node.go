package cmd

import (
	"context"

	"github.com/flightsurety/surety-node/log"
	"github.com/flightsurety/surety-node/version"
	"github.com/spf13/cobra"
	db "github.com/tendermint/tm-db"
	"golang.org/x/sync/errgroup"
)

// RunNode is the command that allows the CLI to start a node.
var RunNode = &cobra.Command{
	Use:   "node",
	Short: "Run the registry node",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runNode(cmd)
	},
}

func runNode(cmd *cobra.Command) error {
	logger, err := log.NewLogger(cfg)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, logger, db.BackendType(cfg.DBBackend))
	if err != nil {
		return err
	}
	defer a.close()

	a.logger.Info("Starting node", "version", version.Version, "height", a.node.Height())

	group, ctx := errgroup.WithContext(cmd.Context())
	a.run(ctx, group, cfg)

	if err := group.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
