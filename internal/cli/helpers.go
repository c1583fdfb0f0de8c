package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/aretw0/voxgen/internal/config"
	"github.com/aretw0/voxgen/internal/logging"
	"github.com/aretw0/voxgen/pkg/voxel"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// NewLogger builds the stderr logger described by cfg.
func NewLogger(cfg config.LogConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(level, cfg.Format), nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// ParseVec parses "x,y,z" into a position. Spaces around the numbers are allowed.
func ParseVec(s string) (voxel.Vec3i, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return voxel.Vec3i{}, fmt.Errorf("position %q: want x,y,z", s)
	}
	var c [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return voxel.Vec3i{}, fmt.Errorf("position %q: %w", s, err)
		}
		c[i] = n
	}
	return voxel.Vec3i{X: c[0], Y: c[1], Z: c[2]}, nil
}

// ParseRegion builds a region from the --size, --mins and --maxs flags.
// With mins and maxs empty the region is a cube of size starting at the origin.
// A single bound is combined with the cube's other corner.
func ParseRegion(size int, mins, maxs string) (voxel.Region, error) {
	if size <= 0 {
		return voxel.Region{}, fmt.Errorf("%w: size must be positive, got %d", voxel.ErrInvalidRegion, size)
	}
	cube := voxel.Cube(size)
	lower, upper := cube.Lower(), cube.Upper()
	var err error
	if mins != "" {
		if lower, err = ParseVec(mins); err != nil {
			return voxel.Region{}, err
		}
	}
	if maxs != "" {
		if upper, err = ParseVec(maxs); err != nil {
			return voxel.Region{}, err
		}
	}
	return voxel.NewRegion(lower, upper)
}
