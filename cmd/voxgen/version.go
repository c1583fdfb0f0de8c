package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/voxgen"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of voxgen",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("voxgen version %s\n", rootVersion())
	},
}

func rootVersion() string {
	return strings.TrimSpace(voxgen.Version)
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
