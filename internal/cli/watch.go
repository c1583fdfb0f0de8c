package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/voxgen"
	"github.com/aretw0/voxgen/pkg/generator"
)

// settle lets editors finish writing before the script is reloaded.
const settle = 100 * time.Millisecond

// RunWatch runs the script once, then again each time its file changes, until ctx is done.
// Failed runs are reported and the watcher keeps waiting for a fix.
func RunWatch(ctx context.Context, gen *voxgen.Generator, opts RunOptions, out io.Writer, logger *slog.Logger) error {
	events, err := gen.Watch(ctx)
	if err != nil {
		return err
	}
	target := generator.ScriptPath(opts.Script)
	logger.Info("watching script", "file", target)

	for {
		if _, _, err := RunScript(ctx, gen, opts, out); err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return nil
			}
			logger.Error("run failed", "script", opts.Script, "err", err)
		}
		printSystemMessage(out, "Waiting for changes to '%s'...", target)

		if !waitForChange(ctx, events, target) {
			return nil
		}
		printSystemMessage(out, "Change detected in '%s'.", target)
	}
}

// waitForChange blocks until target changes, draining events that arrive while settling.
// It returns false when ctx is done or the watcher stops.
func waitForChange(ctx context.Context, events <-chan string, target string) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case name, ok := <-events:
			if !ok {
				return false
			}
			if name != target {
				continue
			}
			timer := time.NewTimer(settle)
			for {
				select {
				case <-ctx.Done():
					timer.Stop()
					return false
				case _, ok := <-events:
					if !ok {
						timer.Stop()
						return false
					}
				case <-timer.C:
					return true
				}
			}
		}
	}
}
