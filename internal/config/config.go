// Package config loads voxgen settings from a YAML or JSON file, an optional
// .env file and VOXGEN_* environment variables, in that order of precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/voxgen/pkg/generator"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no file is given.
const DefaultFile = "voxgen.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VOXGEN_"

// Volume store kinds.
const (
	VolumesMemory = "memory"
	VolumesFile   = "file"
)

// Config holds every setting the CLI and servers use.
type Config struct {
	// Root is the directory holding scripts/ and palette files.
	Root          string        `yaml:"root" json:"root"`
	Palette       string        `yaml:"palette" json:"palette"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`
	SanityCheck   bool          `yaml:"sanity_check" json:"sanity_check"`
	CatalogMode   string        `yaml:"catalog_mode" json:"catalog_mode"`
	CallStackSize int           `yaml:"call_stack_size" json:"call_stack_size"`
	RegistrySize  int           `yaml:"registry_size" json:"registry_size"`
	Seed          int64         `yaml:"seed" json:"seed"`
	// Volumes selects where named volumes live without redis: memory or file.
	Volumes       string        `yaml:"volumes" json:"volumes"`
	Log           LogConfig     `yaml:"log" json:"log"`
	HTTP          HTTPConfig    `yaml:"http" json:"http"`
	Redis         RedisConfig   `yaml:"redis" json:"redis"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type HTTPConfig struct {
	Addr    string `yaml:"addr" json:"addr"`
	Metrics bool   `yaml:"metrics" json:"metrics"`
}

// RedisConfig enables the shared volume store and locker when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Root:        ".",
		Palette:     "default",
		Timeout:     generator.DefaultTimeout,
		SanityCheck: true,
		CatalogMode: string(generator.ModeExec),
		Volumes:     VolumesMemory,
		Log:         LogConfig{Level: "info", Format: "text"},
		HTTP:        HTTPConfig{Addr: ":8080", Metrics: true},
		Redis:       RedisConfig{Prefix: "voxgen:"},
	}
}

// Load reads path over the defaults. A missing file is not an error.
// Files ending in .json are parsed as JSON, everything else as YAML.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		raw := jsonConfig{Config: cfg}
		if err := json.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if err := raw.apply(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// jsonConfig lets JSON files write the timeout as "30s" like YAML does.
type jsonConfig struct {
	Config
	Timeout string `json:"timeout"`
}

func (j *jsonConfig) apply(cfg *Config) error {
	*cfg = j.Config
	if j.Timeout != "" {
		d, err := time.ParseDuration(j.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		cfg.Timeout = d
	}
	return nil
}

// LoadEnvFile loads a .env file into the process environment without overriding set variables.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with VOXGEN_* variables found through lookup (usually os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	var errs []error
	num := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = b
		}
	}

	str("ROOT", &c.Root)
	str("PALETTE", &c.Palette)
	str("CATALOG_MODE", &c.CatalogMode)
	str("VOLUMES", &c.Volumes)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("HTTP_ADDR", &c.HTTP.Addr)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("REDIS_PREFIX", &c.Redis.Prefix)
	num("CALL_STACK_SIZE", &c.CallStackSize)
	num("REGISTRY_SIZE", &c.RegistrySize)
	num("REDIS_DB", &c.Redis.DB)
	flag("SANITY_CHECK", &c.SanityCheck)
	flag("METRICS", &c.HTTP.Metrics)

	if v, ok := lookup(EnvPrefix + "TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err))
		} else {
			c.Timeout = d
		}
	}
	if v, ok := lookup(EnvPrefix + "SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSEED: %w", EnvPrefix, err))
		} else {
			c.Seed = n
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	return c.Validate()
}

// Validate checks the values that cannot be corrected silently.
func (c Config) Validate() error {
	if _, err := generator.ParseMode(c.CatalogMode); err != nil {
		return err
	}
	switch c.Volumes {
	case "", VolumesMemory, VolumesFile:
	default:
		return fmt.Errorf("unknown volume store %q", c.Volumes)
	}
	if c.CallStackSize < 0 || c.RegistrySize < 0 {
		return errors.New("interpreter limits cannot be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Resolve loads the file, the .env next to the working directory, then the environment.
func Resolve(path string) (Config, error) {
	if err := LoadEnvFile(".env"); err != nil {
		return Config{}, err
	}
	if path == "" {
		path = DefaultFile
	}
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}
