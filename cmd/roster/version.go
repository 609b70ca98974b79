package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of roster",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("roster version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
