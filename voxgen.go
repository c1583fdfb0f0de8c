package voxgen

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/voxgen/pkg/adapters/file"
	"github.com/aretw0/voxgen/pkg/adapters/memory"
	"github.com/aretw0/voxgen/pkg/generator"
	"github.com/aretw0/voxgen/pkg/palette"
	"github.com/aretw0/voxgen/pkg/ports"
	"github.com/aretw0/voxgen/pkg/schema"
	"github.com/aretw0/voxgen/pkg/voxel"
)

// DefaultLockTTL bounds how long a crashed replica can block a volume.
const DefaultLockTTL = time.Minute

// ErrNotWatchable is returned by Watch when the file system cannot report changes.
var ErrNotWatchable = errors.New("file system does not support watching")

// Generator is the high-level entry point for the voxgen library.
// It binds a script catalog, an execution engine, the active palette and a store of named volumes.
type Generator struct {
	engine      *generator.Engine
	catalog     *generator.Catalog
	palettes    *palette.Store
	fsys        ports.FileSystem
	volumes     ports.VolumeStore
	locker      ports.Locker
	lockTTL     time.Duration
	paletteName string
	engineOpts  []generator.Option
	catalogOpts []generator.CatalogOption
	logger      *slog.Logger
	Name        string
}

// Option defines a functional option for configuring the Generator.
type Option func(*Generator)

// WithFileSystem injects the source of scripts and palette files, bypassing the directory at root.
func WithFileSystem(fsys ports.FileSystem) Option {
	return func(g *Generator) { g.fsys = fsys }
}

// WithVolumeStore sets where named volumes live. Defaults to memory.
func WithVolumeStore(s ports.VolumeStore) Option {
	return func(g *Generator) { g.volumes = s }
}

// WithLocker sets how runs on the same volume are serialized. Defaults to an in-process locker.
func WithLocker(l ports.Locker, ttl time.Duration) Option {
	return func(g *Generator) {
		g.locker = l
		g.lockTTL = ttl
	}
}

// WithPalette selects the palette file loaded at startup. Empty or "default" is the built-in palette.
func WithPalette(name string) Option {
	return func(g *Generator) { g.paletteName = name }
}

// WithEngineOptions passes options to the execution engine.
func WithEngineOptions(opts ...generator.Option) Option {
	return func(g *Generator) { g.engineOpts = append(g.engineOpts, opts...) }
}

// WithCatalogOptions passes options to the script catalog.
func WithCatalogOptions(opts ...generator.CatalogOption) Option {
	return func(g *Generator) { g.catalogOpts = append(g.catalogOpts, opts...) }
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// New initializes a Generator over the directory root, which holds scripts/ and palette files.
// If WithFileSystem is provided, root can be empty.
func New(root string, opts ...Option) (*Generator, error) {
	g := &Generator{lockTTL: DefaultLockTTL}
	for _, opt := range opts {
		opt(g)
	}

	if g.fsys == nil {
		if root == "" {
			return nil, fmt.Errorf("root is required when no file system is provided")
		}
		absPath, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		g.Name = filepath.Base(absPath)
		g.fsys = file.NewFileSystem(absPath)
	} else if root != "" {
		g.Name = filepath.Base(root)
	}

	if g.logger == nil {
		g.logger = slog.New(slog.DiscardHandler)
	}
	if g.Name != "" {
		g.logger = g.logger.With("root", g.Name)
	}
	if g.volumes == nil {
		g.volumes = memory.NewStore()
	}
	if g.locker == nil {
		g.locker = memory.NewLocker()
	}

	pal, err := palette.Load(g.fsys, g.paletteName)
	if err != nil {
		return nil, err
	}
	g.palettes = palette.NewStore(pal)

	engineOpts := append([]generator.Option{
		generator.WithPaletteStore(g.palettes),
		generator.WithLogger(g.logger),
	}, g.engineOpts...)
	g.engine = generator.NewEngine(engineOpts...)

	catalogOpts := append([]generator.CatalogOption{
		generator.WithRuntimeOptions(g.engine.RuntimeOptions(pal)...),
		generator.WithCatalogLogger(g.logger),
	}, g.catalogOpts...)
	g.catalog = generator.NewCatalog(g.fsys, catalogOpts...)

	return g, nil
}

// Engine returns the underlying execution engine.
func (g *Generator) Engine() *generator.Engine { return g.engine }

// Catalog returns the underlying script catalog.
func (g *Generator) Catalog() *generator.Catalog { return g.catalog }

// FileSystem returns the source of scripts and palettes.
func (g *Generator) FileSystem() ports.FileSystem { return g.fsys }

// ListScripts lists the scripts under scripts/.
func (g *Generator) ListScripts(ctx context.Context) ([]generator.Script, error) {
	return g.catalog.List(ctx)
}

// Describe returns the parameters the named script declares.
func (g *Generator) Describe(ctx context.Context, name string) ([]schema.Parameter, error) {
	src, err := g.catalog.Load(name)
	if err != nil {
		return nil, err
	}
	return g.engine.Describe(ctx, src)
}

// Run executes the named script against vol. The caller owns vol and its serialization.
func (g *Generator) Run(ctx context.Context, name string, vol voxel.Volume, region voxel.Region, color uint8, args []string) (*generator.Result, error) {
	src, err := g.catalog.Load(name)
	if err != nil {
		return nil, err
	}
	return g.engine.Exec(ctx, generator.Request{
		Name:   scriptName(name),
		Script: src,
		Volume: vol,
		Region: region,
		Color:  color,
		Args:   args,
	})
}

func scriptName(name string) string {
	return strings.TrimSuffix(path.Base(generator.ScriptPath(name)), ".lua")
}

// GenerateRequest runs a script against a stored volume.
type GenerateRequest struct {
	Script string `json:"script"`
	// Region defaults to the whole volume.
	Region *voxel.Region `json:"region,omitempty"`
	Color  uint8         `json:"color"`
	Args   []string      `json:"args,omitempty"`
}

// CreateVolume stores an empty volume over region under id, replacing any existing one.
func (g *Generator) CreateVolume(ctx context.Context, id string, region voxel.Region) (*voxel.RawVolume, error) {
	vol, err := voxel.AllocRawVolume(region)
	if err != nil {
		return nil, err
	}
	if err := g.volumes.Put(ctx, id, vol); err != nil {
		return nil, err
	}
	return vol, nil
}

// Volume returns the stored volume.
func (g *Generator) Volume(ctx context.Context, id string) (*voxel.RawVolume, error) {
	return g.volumes.Get(ctx, id)
}

// DeleteVolume removes the stored volume.
func (g *Generator) DeleteVolume(ctx context.Context, id string) error {
	return g.volumes.Delete(ctx, id)
}

// Volumes lists the stored volume ids.
func (g *Generator) Volumes(ctx context.Context) ([]string, error) {
	return g.volumes.List(ctx)
}

// Generate runs req against the volume stored under id while holding its lock.
// The volume is written back only when the run succeeds, so a failed run leaves it unchanged.
func (g *Generator) Generate(ctx context.Context, id string, req GenerateRequest) (*generator.Result, error) {
	unlock, err := g.locker.Lock(ctx, "volume:"+id, g.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("lock volume %s: %w", id, err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			g.logger.Warn("failed to release volume lock", "volume", id, "err", err)
		}
	}()

	vol, err := g.volumes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	region := vol.Region()
	if req.Region != nil {
		region = *req.Region
	}

	res, err := g.Run(ctx, req.Script, vol, region, req.Color, req.Args)
	if err != nil {
		return res, err
	}
	if res.Written > 0 {
		if err := g.volumes.Put(ctx, id, vol); err != nil {
			return res, fmt.Errorf("store volume %s: %w", id, err)
		}
	}
	return res, nil
}

// Palette returns the active palette.
func (g *Generator) Palette() *palette.Palette { return g.palettes.Current() }

// Palettes lists the palette files available next to the scripts.
func (g *Generator) Palettes() ([]string, error) { return palette.List(g.fsys) }

// UsePalette loads the named palette and swaps it in once no run holds the current one.
func (g *Generator) UsePalette(name string) (*palette.Palette, error) {
	p, err := palette.Load(g.fsys, name)
	if err != nil {
		return nil, err
	}
	prev := g.palettes.Swap(p)
	g.logger.Info("palette swapped", "from", prev.Name(), "to", p.Name())
	return p, nil
}

// Match returns the index of the active palette color closest to c.
func (g *Generator) Match(c color.RGBA) int {
	return palette.ClosestMatch(c, g.palettes.Current())
}

// Similar returns up to count indices of the active palette closest to the color at index.
func (g *Generator) Similar(index, count int) ([]int, error) {
	return palette.SimilarSet(index, count, g.palettes.Current())
}

// Watch returns a channel that reports changed files.
// Returns ErrNotWatchable if the file system does not support watching.
func (g *Generator) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := g.fsys.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, ErrNotWatchable
}

// WatchPalettes reloads the active palette whenever its file changes, until ctx is done.
func (g *Generator) WatchPalettes(ctx context.Context) error {
	events, err := g.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for name := range events {
			current := g.palettes.Current().Name()
			if palette.ExtractName(name) != current || current == palette.DefaultName {
				continue
			}
			if _, err := g.UsePalette(current); err != nil {
				g.logger.Warn("palette reload failed", "file", name, "err", err)
			}
		}
	}()
	return nil
}
