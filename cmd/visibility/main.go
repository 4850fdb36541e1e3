package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "visibility",
		Short: "Security asset visibility analytics",
		Long: `visibility aggregates the unified asset inventory into coverage and
compliance views per dimension and serves them over HTTP.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML configuration file")

	rootCmd.AddCommand(
		newServeCmd(&configPath),
		newReportCmd(&configPath),
		newGapsCmd(&configPath),
	)
	return rootCmd
}
