package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/voxgen"
	"github.com/aretw0/voxgen/internal/config"
	"github.com/aretw0/voxgen/pkg/adapters/file"
	"github.com/aretw0/voxgen/pkg/adapters/redis"
	"github.com/aretw0/voxgen/pkg/generator"
	"github.com/aretw0/voxgen/pkg/noise"
)

// NewGenerator builds a Generator with the standard CLI conventions.
// When cfg.Redis.Addr is set volumes and run locks live in redis. Otherwise locks are
// in-process and volumes live in memory or, with cfg.Volumes set to file, under .voxgen/volumes.
// The returned close function releases the backing connections.
func NewGenerator(cfg config.Config, logger *slog.Logger, hooks ...generator.Hooks) (*voxgen.Generator, func() error, error) {
	mode, err := generator.ParseMode(cfg.CatalogMode)
	if err != nil {
		return nil, nil, err
	}

	opts := []voxgen.Option{
		voxgen.WithLogger(logger),
		voxgen.WithPalette(cfg.Palette),
		voxgen.WithEngineOptions(
			generator.WithTimeout(cfg.Timeout),
			generator.WithSanityCheck(cfg.SanityCheck),
			generator.WithLimits(cfg.CallStackSize, cfg.RegistrySize),
			generator.WithNoise(noise.New(cfg.Seed)),
			generator.WithHooks(generator.Combine(hooks...)),
		),
		voxgen.WithCatalogOptions(generator.WithMode(mode)),
	}

	closeFn := func() error { return nil }
	switch {
	case cfg.Redis.Addr != "":
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redis.WithPrefix(cfg.Redis.Prefix))
		opts = append(opts,
			voxgen.WithVolumeStore(store),
			voxgen.WithLocker(redis.NewLocker(store.Client(), cfg.Redis.Prefix), voxgen.DefaultLockTTL),
		)
		closeFn = store.Close
		logger.Debug("using redis volume store", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
	case cfg.Volumes == config.VolumesFile:
		dir := filepath.Join(cfg.Root, ".voxgen", "volumes")
		opts = append(opts, voxgen.WithVolumeStore(file.NewStore(dir)))
		logger.Debug("using file volume store", "dir", dir)
	}

	gen, err := voxgen.New(cfg.Root, opts...)
	if err != nil {
		_ = closeFn()
		return nil, nil, fmt.Errorf("error initializing generator: %w", err)
	}
	return gen, closeFn, nil
}
