// Package config loads the runtime limits and blob settings from TOML.
//
// A complete file with the default values:
//
//	[limits]
//	max_cost = 11000000000
//	serialize_limit = 0   # bytes, 0 = unlimited
//	heap_limit = 0        # arena heap bytes, 0 = unlimited
//
//	[blob]
//	backrefs = true
//	compression = "none"  # none, zstd, s2, lz4
//	byte_order = "little" # little, big, native
//
//	[log]
//	level = "info"
//
// Missing keys keep their defaults. Unknown keys are rejected.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/arloliu/clvm/arena"
	"github.com/arloliu/clvm/blob"
	"github.com/arloliu/clvm/encoding"
	"github.com/arloliu/clvm/endian"
	"github.com/arloliu/clvm/format"
	"github.com/arloliu/clvm/ops"
	"github.com/ledgerwatch/log/v3"
)

// Config is the root of a clvm.toml file.
type Config struct {
	Limits Limits `toml:"limits"`
	Blob   Blob   `toml:"blob"`
	Log    Log    `toml:"log"`
}

// Limits bounds the work done on untrusted input.
type Limits struct {
	// MaxCost is signed so Validate can reject negative values.
	MaxCost        int64 `toml:"max_cost"`
	SerializeLimit int   `toml:"serialize_limit"`
	HeapLimit      int   `toml:"heap_limit"`
}

// Blob configures blob.Pack.
type Blob struct {
	Backrefs    bool   `toml:"backrefs"`
	Compression string `toml:"compression"`
	ByteOrder   string `toml:"byte_order"`
}

type Log struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Limits: Limits{MaxCost: int64(ops.DefaultMaxCost)},
		Blob: Blob{
			Backrefs:    true,
			Compression: "none",
			ByteOrder:   "little",
		},
		Log: Log{Level: "info"},
	}
}

// Load reads and validates a TOML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)

		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges and enumerated values.
func (c *Config) Validate() error {
	if c.Limits.MaxCost <= 0 {
		return fmt.Errorf("limits.max_cost must be positive: %d", c.Limits.MaxCost)
	}
	if c.Limits.SerializeLimit < 0 {
		return fmt.Errorf("limits.serialize_limit must not be negative: %d", c.Limits.SerializeLimit)
	}
	if c.Limits.HeapLimit < 0 {
		return fmt.Errorf("limits.heap_limit must not be negative: %d", c.Limits.HeapLimit)
	}
	if _, err := c.Compression(); err != nil {
		return err
	}
	if _, err := c.ByteOrder(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}

	return nil
}

// Compression returns the configured blob compression.
func (c *Config) Compression() (format.CompressionType, error) {
	t, ok := format.ParseCompression(c.Blob.Compression)
	if !ok {
		return 0, fmt.Errorf("blob.compression: unknown algorithm %q", c.Blob.Compression)
	}

	return t, nil
}

// ByteOrder returns the engine for blob headers.
func (c *Config) ByteOrder() (endian.EndianEngine, error) {
	switch strings.ToLower(c.Blob.ByteOrder) {
	case "little":
		return endian.GetLittleEndianEngine(), nil
	case "big":
		return endian.GetBigEndianEngine(), nil
	case "native":
		return endian.GetNativeEngine(), nil
	default:
		return nil, fmt.Errorf("blob.byte_order: unknown byte order %q", c.Blob.ByteOrder)
	}
}

func (c *Config) LogLevel() (log.Lvl, error) {
	lvl, err := log.LvlFromString(strings.ToLower(c.Log.Level))
	if err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}

	return lvl, nil
}

// MaxCost returns the cost budget for a single opcode.
func (c *Config) MaxCost() ops.Cost {
	if c.Limits.MaxCost <= 0 {
		return 0
	}

	return ops.Cost(c.Limits.MaxCost)
}

// ArenaOptions returns the options for arenas that decode untrusted input.
func (c *Config) ArenaOptions() []arena.Option {
	if c.Limits.HeapLimit == 0 {
		return nil
	}

	return []arena.Option{arena.WithHeapLimit(c.Limits.HeapLimit)}
}

// EncoderOptions returns the options for Encode, EncodeBackrefs and Serializer.
func (c *Config) EncoderOptions() []encoding.EncoderOption {
	if c.Limits.SerializeLimit == 0 {
		return nil
	}

	return []encoding.EncoderOption{encoding.WithLimit(c.Limits.SerializeLimit)}
}

// PackOptions returns the options for blob.Pack. It assumes Validate passed.
func (c *Config) PackOptions() []blob.PackOption {
	compression, _ := c.Compression()
	engine, _ := c.ByteOrder()

	return []blob.PackOption{
		blob.WithCompression(compression),
		blob.WithBackrefs(c.Blob.Backrefs),
		blob.WithSerializeLimit(c.Limits.SerializeLimit),
		blob.WithByteOrder(engine),
	}
}

// Logger returns a logger for the configured level writing to stderr.
func (c *Config) Logger(ctx ...any) log.Logger {
	lvl, err := c.LogLevel()
	if err != nil {
		lvl = log.LvlInfo
	}

	logger := log.New(ctx...)
	logger.SetHandler(log.LvlFilterHandler(lvl, log.StderrHandler))

	return logger
}
