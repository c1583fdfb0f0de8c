package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/voxgen/internal/cli"
	"github.com/aretw0/voxgen/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "voxgen",
	Short: "voxgen runs sandboxed Lua scripts that generate voxel volumes",
	Long: `voxgen loads generator scripts from scripts/ and runs them against a voxel volume
in a sandboxed Lua runtime, with a palette of 256 colors and noise helpers.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default voxgen.yaml)")
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing scripts/ and palette files")
	rootCmd.PersistentFlags().String("palette", "", "Palette name to load at startup")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
}

// fail prints err and exits with status 1.
func fail(format string, args ...any) {
	fmt.Printf("Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig resolves the file, the environment and the persistent flags, in that order.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Resolve(path)
	if err != nil {
		fail("%v", err)
	}

	if cmd.Flags().Changed("dir") {
		cfg.Root, _ = cmd.Flags().GetString("dir")
	}
	if cmd.Flags().Changed("palette") {
		cfg.Palette, _ = cmd.Flags().GetString("palette")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format, _ = cmd.Flags().GetString("log-format")
	}
	if err := cfg.Validate(); err != nil {
		fail("%v", err)
	}

	logger, err := cli.NewLogger(cfg.Log)
	if err != nil {
		fail("%v", err)
	}
	return cfg, logger
}
