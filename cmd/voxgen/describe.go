package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/voxgen/internal/cli"
	"github.com/aretw0/voxgen/internal/presentation/tui"
	"github.com/aretw0/voxgen/pkg/schema"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <script>",
	Short: "Print the parameters a script declares",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := loadConfig(cmd)
		asJSON, _ := cmd.Flags().GetBool("json")

		gen, closeFn, err := cli.NewGenerator(cfg, logger)
		if err != nil {
			fail("%v", err)
		}
		defer closeFn()

		params, err := gen.Describe(context.Background(), args[0])
		if err != nil {
			closeFn()
			fail("%v", err)
		}

		switch {
		case asJSON:
			if err := printJSON(params); err != nil {
				fail("%v", err)
			}
		case tui.IsTerminal(os.Stdout):
			out, err := tui.NewRenderer()(schema.Markdown(args[0], params))
			if err != nil {
				fail("%v", err)
			}
			fmt.Print(out)
		default:
			fmt.Print(schema.Describe(params))
		}
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().Bool("json", false, "Print the parameters as JSON")
}
