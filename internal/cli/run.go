package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aretw0/voxgen"
	"github.com/aretw0/voxgen/internal/presentation/tui"
	"github.com/aretw0/voxgen/pkg/generator"
	"github.com/aretw0/voxgen/pkg/schema"
	"github.com/aretw0/voxgen/pkg/voxel"
)

// RunOptions configures a single script run from the command line.
type RunOptions struct {
	Script string
	Args   []string
	Region voxel.Region
	Color  uint8
	// Dump is where the resulting voxels are written as JSON. "-" is stdout, empty skips the dump.
	Dump string
	// Pretty renders help through the terminal renderer and colors the status.
	Pretty bool
	Quiet  bool
}

// RunScript runs opts.Script on a fresh volume covering opts.Region and reports the outcome to out.
// A failed run returns its error after the summary is printed.
func RunScript(ctx context.Context, gen *voxgen.Generator, opts RunOptions, out io.Writer) (*generator.Result, *voxel.RawVolume, error) {
	vol, err := voxel.AllocRawVolume(opts.Region)
	if err != nil {
		return nil, nil, err
	}
	res, err := gen.Run(ctx, opts.Script, vol, opts.Region, opts.Color, opts.Args)
	if res == nil {
		return nil, nil, err
	}

	if res.Help != "" {
		return res, vol, printHelp(out, res, opts.Pretty)
	}

	if !opts.Quiet {
		state := res.State.String()
		if opts.Pretty {
			state = tui.State(res.State)
		}
		printSystemMessage(out, "%s %s: %d voxels written, %d rejected in %s",
			res.Script, state, res.Written, res.Rejected, res.Duration.Round(time.Millisecond))
	}
	if err != nil {
		return res, vol, err
	}
	if opts.Dump != "" {
		if derr := dump(opts.Dump, vol, out); derr != nil {
			return res, vol, derr
		}
	}
	return res, vol, nil
}

func printHelp(out io.Writer, res *generator.Result, pretty bool) error {
	if !pretty {
		_, err := io.WriteString(out, res.Help)
		return err
	}
	rendered, err := tui.NewRenderer()(schema.Markdown(res.Script, res.Params))
	if err != nil {
		_, err = io.WriteString(out, res.Help)
		return err
	}
	_, err = io.WriteString(out, rendered)
	return err
}

func dump(target string, vol *voxel.RawVolume, stdout io.Writer) error {
	w := stdout
	if target != "-" {
		f, err := os.Create(target)
		if err != nil {
			return fmt.Errorf("failed to create dump: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(vol); err != nil {
		return fmt.Errorf("failed to write dump: %w", err)
	}
	return nil
}
