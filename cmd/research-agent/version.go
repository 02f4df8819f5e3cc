package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cortexai/research-agent/internal/handler"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of research-agent",
	// Skips config loading.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "research-agent version %s\n", handler.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
