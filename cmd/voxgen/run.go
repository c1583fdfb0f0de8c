package main

import (
	"context"
	"os"

	"github.com/aretw0/voxgen/internal/cli"
	"github.com/aretw0/voxgen/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <script> [args...]",
	Short: "Run a generator script on a fresh volume",
	Long: `Runs the named script from scripts/ against an empty volume.
Arguments after the script name are passed to it by position; "help" prints its parameters instead.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := loadConfig(cmd)
		size, _ := cmd.Flags().GetInt("size")
		mins, _ := cmd.Flags().GetString("mins")
		maxs, _ := cmd.Flags().GetString("maxs")
		color, _ := cmd.Flags().GetUint8("color")
		dump, _ := cmd.Flags().GetString("dump")
		watch, _ := cmd.Flags().GetBool("watch")
		quiet, _ := cmd.Flags().GetBool("quiet")

		region, err := cli.ParseRegion(size, mins, maxs)
		if err != nil {
			fail("%v", err)
		}

		gen, closeFn, err := cli.NewGenerator(cfg, logger)
		if err != nil {
			fail("%v", err)
		}
		defer closeFn()

		opts := cli.RunOptions{
			Script: args[0],
			Args:   args[1:],
			Region: region,
			Color:  color,
			Dump:   dump,
			Pretty: tui.IsTerminal(os.Stdout),
			Quiet:  quiet,
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		if watch {
			if opts.Pretty {
				tui.PrintBanner(os.Stdout, rootVersion())
			}
			if err := gen.WatchPalettes(sigCtx); err != nil {
				fail("%v", err)
			}
			if err := cli.RunWatch(sigCtx, gen, opts, os.Stdout, logger); err != nil {
				fail("%v", err)
			}
			return
		}

		if _, _, err := cli.RunScript(sigCtx, gen, opts, os.Stdout); err != nil {
			closeFn()
			fail("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().SetInterspersed(false)
	runCmd.Flags().Int("size", 16, "Edge length of the cubic volume starting at the origin")
	runCmd.Flags().String("mins", "", "Lower corner x,y,z (overrides the cube's)")
	runCmd.Flags().String("maxs", "", "Upper corner x,y,z (overrides the cube's)")
	runCmd.Flags().Uint8("color", 1, "Palette index passed to main")
	runCmd.Flags().String("dump", "", "Write the resulting voxels as JSON to a file, or - for stdout")
	runCmd.Flags().BoolP("watch", "w", false, "Run again whenever the script changes")
	runCmd.Flags().BoolP("quiet", "q", false, "Do not print the run summary")
}
