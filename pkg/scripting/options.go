package scripting

import (
	"io"
	"log/slog"

	"github.com/aretw0/voxgen/pkg/noise"
	"github.com/aretw0/voxgen/pkg/palette"
	"github.com/aretw0/voxgen/pkg/registry"
)

// Default interpreter limits.
const (
	DefaultCallStackSize = 256
	DefaultRegistrySize  = 1024 * 20
)

// Option configures a Runtime.
type Option func(*config)

type config struct {
	callStackSize int
	registrySize  int
	palette       *palette.Palette
	noise         *noise.Noise
	extensions    *registry.Registry
	logger        *slog.Logger
}

func defaultConfig() config {
	return config{
		callStackSize: DefaultCallStackSize,
		registrySize:  DefaultRegistrySize,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLimits bounds the call stack depth and the value registry. Zero keeps the default.
func WithLimits(callStackSize, registrySize int) Option {
	return func(c *config) {
		if callStackSize > 0 {
			c.callStackSize = callStackSize
		}
		if registrySize > 0 {
			c.registrySize = registrySize
		}
	}
}

// WithPalette sets the palette behind the palette global. Defaults to palette.Default().
func WithPalette(p *palette.Palette) Option {
	return func(c *config) { c.palette = p }
}

// WithNoise sets the noise source behind the noise global. Defaults to seed 0.
func WithNoise(n *noise.Noise) Option {
	return func(c *config) { c.noise = n }
}

// WithExtensions installs host functions after the built-in capabilities.
func WithExtensions(r *registry.Registry) Option {
	return func(c *config) { c.extensions = r }
}

// WithLogger receives script print() output and bridge diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
