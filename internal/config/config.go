package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ironsheep/image-nodes/internal/logging"
	"github.com/ironsheep/image-nodes/internal/node"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "IMAGE_NODES_"

// Storage backends.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Config is the runtime configuration shared by the server and CLI.
type Config struct {
	LogLevel string  `toml:"log_level"`
	Storage  Storage `toml:"storage"`
	OCR      OCR     `toml:"ocr"`
	SVG      SVG     `toml:"svg"`
	Metrics  Metrics `toml:"metrics"`
}

// Storage selects where stored images live.
type Storage struct {
	Backend string `toml:"backend"`

	// Path is the badger directory. Empty keeps badger in memory.
	Path string `toml:"path"`
}

type OCR struct {
	TessdataPrefix string `toml:"tessdata_prefix"`
	Language       string `toml:"language"`
}

type SVG struct {
	RSVGConvert string `toml:"rsvg_convert"`
}

// Metrics configures the Prometheus endpoint. An empty Addr disables it.
type Metrics struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Storage:  Storage{Backend: BackendMemory},
		OCR:      OCR{Language: "en"},
		SVG:      SVG{RSVGConvert: "rsvg-convert"},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := Parse(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML into cfg. Keys that cfg has no field for are errors.
func Parse(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides fields from IMAGE_NODES_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	set("LOG_LEVEL", &c.LogLevel)
	set("STORAGE_BACKEND", &c.Storage.Backend)
	set("STORAGE_PATH", &c.Storage.Path)
	set("TESSDATA_PREFIX", &c.OCR.TessdataPrefix)
	set("OCR_LANGUAGE", &c.OCR.Language)
	set("RSVG_CONVERT", &c.SVG.RSVGConvert)
	set("METRICS_ADDR", &c.Metrics.Addr)
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	switch c.Storage.Backend {
	case BackendMemory, BackendBadger:
	default:
		errs = append(errs, fmt.Errorf("storage.backend: must be %q or %q, got %q", BackendMemory, BackendBadger, c.Storage.Backend))
	}
	if c.Storage.Backend == BackendMemory && c.Storage.Path != "" {
		errs = append(errs, errors.New("storage.path: only used by the badger backend"))
	}
	if c.SVG.RSVGConvert == "" {
		errs = append(errs, errors.New("svg.rsvg_convert: must not be empty"))
	}
	return errors.Join(errs...)
}

// Env returns the node environment described by c.
func (c Config) Env() node.Env {
	return node.Env{
		TessdataPrefix: c.OCR.TessdataPrefix,
		OCRLanguage:    c.OCR.Language,
		RSVGConvert:    c.SVG.RSVGConvert,
	}
}
