package cmd

import (
	"github.com/flightsurety/surety-node/cmd/utils"
	"github.com/flightsurety/surety-node/config"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var RootCmd = &cobra.Command{
	Use:          "surety",
	Short:        "FlightSurety registry node",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.GetConfig()
		return config.LoadConfig(utils.GetSuretyConfigPath(), cfg)
	},
}
