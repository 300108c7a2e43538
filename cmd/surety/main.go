package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/flightsurety/surety-node/cmd/surety/cmd"
	"github.com/flightsurety/surety-node/cmd/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.RootCmd
	rootCmd.PersistentFlags().StringVar(&utils.SuretyHome, "home-dir", "", "base dir (default is $HOME/.surety)")
	rootCmd.PersistentFlags().StringVar(&utils.SuretyConfig, "config", "", "path to config (default is $(home-dir)/config/config.toml)")

	rootCmd.AddCommand(
		cmd.RunNode,
		cmd.Simulate,
		cmd.ExportCommand,
		cmd.Version)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
