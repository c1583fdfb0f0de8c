package generator

import (
	"log/slog"
	"time"

	"github.com/aretw0/voxgen/pkg/noise"
	"github.com/aretw0/voxgen/pkg/palette"
	"github.com/aretw0/voxgen/pkg/registry"
)

// DefaultTimeout bounds a run when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the per-run watchdog. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithSanityCheck toggles verification of the main call frame. Enabled by default.
func WithSanityCheck(enabled bool) Option {
	return func(e *Engine) { e.sanityCheck = enabled }
}

// WithLimits sets the interpreter call stack and registry sizes.
func WithLimits(callStackSize, registrySize int) Option {
	return func(e *Engine) {
		e.callStackSize = callStackSize
		e.registrySize = registrySize
	}
}

// WithPaletteStore sets the store runs acquire their palette from.
func WithPaletteStore(s *palette.Store) Option {
	return func(e *Engine) { e.palettes = s }
}

// WithNoise sets the noise source exposed to scripts.
func WithNoise(n *noise.Noise) Option {
	return func(e *Engine) { e.noise = n }
}

// WithExtensions installs host functions into every runtime.
func WithExtensions(r *registry.Registry) Option {
	return func(e *Engine) { e.extensions = r }
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithHooks registers lifecycle callbacks.
func WithHooks(h Hooks) Option {
	return func(e *Engine) { e.hooks = h }
}
