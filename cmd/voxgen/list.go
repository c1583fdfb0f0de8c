package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/aretw0/voxgen/internal/cli"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the scripts under scripts/",
	Long: `Lists every script and whether it defines a global main function.
In exec mode each script's top level runs in its own sandbox; static mode only parses it.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := loadConfig(cmd)
		if cmd.Flags().Changed("mode") {
			cfg.CatalogMode, _ = cmd.Flags().GetString("mode")
		}

		gen, closeFn, err := cli.NewGenerator(cfg, logger)
		if err != nil {
			fail("%v", err)
		}
		defer closeFn()

		scripts, err := gen.ListScripts(context.Background())
		if err != nil {
			closeFn()
			fail("%v", err)
		}
		if len(scripts) == 0 {
			fmt.Println("No scripts found.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tMAIN")
		for _, s := range scripts {
			hasMain := "no"
			if s.HasMain {
				hasMain = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\n", s.Name, hasMain)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("mode", "exec", "Catalog mode: exec or static")
}
