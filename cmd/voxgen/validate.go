package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/voxgen/internal/cli"
	"github.com/aretw0/voxgen/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every script for consistency",
	Long:  `Lists the scripts under scripts/ and reports missing main functions and broken parameter declarations.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := loadConfig(cmd)
		gen, closeFn, err := cli.NewGenerator(cfg, logger)
		if err != nil {
			fail("%v", err)
		}
		defer closeFn()

		if err := validator.ValidateScripts(context.Background(), gen); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			closeFn()
			os.Exit(1)
		}
		fmt.Println("Scripts are valid!")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
