package main

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"strconv"

	"github.com/aretw0/voxgen/internal/cli"
	"github.com/aretw0/voxgen/internal/presentation/tui"
	"github.com/aretw0/voxgen/pkg/palette"
	"github.com/spf13/cobra"
)

var palettesCmd = &cobra.Command{
	Use:   "palettes",
	Short: "List the palette files next to the scripts",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := loadConfig(cmd)
		gen, closeFn, err := cli.NewGenerator(cfg, logger)
		if err != nil {
			fail("%v", err)
		}
		defer closeFn()

		names, err := gen.Palettes()
		if err != nil {
			closeFn()
			fail("%v", err)
		}
		current := gen.Palette().Name()
		for _, n := range append([]string{palette.DefaultName}, names...) {
			marker := " "
			if n == current {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, n)
		}
	},
}

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Inspect the active palette",
}

var paletteShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every color of the active palette",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := loadConfig(cmd)
		gen, closeFn, err := cli.NewGenerator(cfg, logger)
		if err != nil {
			fail("%v", err)
		}
		defer closeFn()

		p := gen.Palette()
		pretty := tui.IsTerminal(os.Stdout)
		fmt.Printf("%s (%d colors)\n", p.Name(), p.Len())
		for i, c := range p.Colors() {
			hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
			if pretty {
				hex = tui.Swatch(hex)
			}
			fmt.Printf("%3d %s\n", i, hex)
		}
	},
}

var paletteMatchCmd = &cobra.Command{
	Use:   "match <r> <g> <b> [a]",
	Short: "Print the index of the palette color closest to an RGBA color",
	Args:  cobra.RangeArgs(3, 4),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := loadConfig(cmd)
		var ch [4]uint8
		ch[3] = 255
		for i, a := range args {
			n, err := strconv.ParseUint(a, 10, 8)
			if err != nil {
				fail("channel %q: %v", a, err)
			}
			ch[i] = uint8(n)
		}

		gen, closeFn, err := cli.NewGenerator(cfg, logger)
		if err != nil {
			fail("%v", err)
		}
		defer closeFn()

		fmt.Println(gen.Match(color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}))
	},
}

var paletteSimilarCmd = &cobra.Command{
	Use:   "similar <index> <count>",
	Short: "Print the palette indices closest to the color at index",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := loadConfig(cmd)
		index, err := strconv.Atoi(args[0])
		if err != nil {
			fail("index %q: %v", args[0], err)
		}
		count, err := strconv.Atoi(args[1])
		if err != nil {
			fail("count %q: %v", args[1], err)
		}

		gen, closeFn, err := cli.NewGenerator(cfg, logger)
		if err != nil {
			fail("%v", err)
		}
		defer closeFn()

		similar, err := gen.Similar(index, count)
		if err != nil {
			closeFn()
			fail("%v", err)
		}
		if err := printJSON(similar); err != nil {
			fail("%v", err)
		}
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(palettesCmd)
	rootCmd.AddCommand(paletteCmd)
	paletteCmd.AddCommand(paletteShowCmd, paletteMatchCmd, paletteSimilarCmd)
}
