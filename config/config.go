package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".javalyzer.toml"

// EnvVar names the environment variable pointing at a configuration file.
const EnvVar = "JAVALYZER_CONFIG"

type Config struct {
	Analysis AnalysisConfig `toml:"analysis"`
	Output   OutputConfig   `toml:"output"`
	Watch    WatchConfig    `toml:"watch"`
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
}

type AnalysisConfig struct {
	// MaxErrors is the syntax error cap. Zero means the default of 2.
	MaxErrors int `toml:"max_errors"`
	// ParseOnLexicalErrors runs the parser even when scanning reported errors.
	ParseOnLexicalErrors bool     `toml:"parse_on_lexical_errors"`
	Timeout              Duration `toml:"timeout"`
	Extensions           []string `toml:"extensions"`
}

type OutputConfig struct {
	// Format is one of text, json, yaml or line.
	Format string `toml:"format"`
	Color  bool   `toml:"color"`
}

type WatchConfig struct {
	Interval   Duration `toml:"interval"`
	SkipHidden bool     `toml:"skip_hidden"`
}

type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	Path      string `toml:"path"`
}

type ServerConfig struct {
	Addr      string `toml:"addr"`
	QueueSize int    `toml:"queue_size"`
	MaxBody   int64  `toml:"max_body"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := preset()
	cfg.applyDefaults()
	return cfg
}

// preset holds the boolean defaults, which must be in place before decoding
// since a decoded false is indistinguishable from an unset key.
func preset() *Config {
	return &Config{
		Output: OutputConfig{Color: true},
		Watch:  WatchConfig{SkipHidden: true},
	}
}

// Load reads the TOML file at path and applies defaults to unset values.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	cfg := preset()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads the configuration named by an explicit path, then by
// JAVALYZER_CONFIG, then by .javalyzer.toml in the working directory.
// Without any of them it returns the defaults.
func Resolve(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	if _, err := os.Stat(FileName); err == nil {
		return Load(FileName)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", FileName, err)
	}
	return Default(), nil
}

func (c *Config) applyDefaults() {
	if c.Analysis.MaxErrors == 0 {
		c.Analysis.MaxErrors = 2
	}
	if c.Analysis.Timeout.Duration == 0 {
		c.Analysis.Timeout.Duration = 10 * time.Second
	}
	if len(c.Analysis.Extensions) == 0 {
		c.Analysis.Extensions = []string{".java"}
	}

	if c.Output.Format == "" {
		c.Output.Format = "text"
	}

	if c.Watch.Interval.Duration == 0 {
		c.Watch.Interval.Duration = time.Second
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.QueueSize == 0 {
		c.Server.QueueSize = 100
	}
	if c.Server.MaxBody == 0 {
		c.Server.MaxBody = 1 << 20
	}
}

var formats = map[string]bool{
	"text": true,
	"json": true,
	"yaml": true,
	"line": true,
}

func (c *Config) Validate() error {
	if c.Analysis.MaxErrors < 0 {
		return fmt.Errorf("analysis.max_errors must not be negative, got %d", c.Analysis.MaxErrors)
	}
	if !formats[c.Output.Format] {
		return fmt.Errorf("unknown output.format %q", c.Output.Format)
	}
	if c.Server.QueueSize < 0 {
		return fmt.Errorf("server.queue_size must not be negative, got %d", c.Server.QueueSize)
	}
	return nil
}

// HasExtension reports whether path ends in one of the configured source
// extensions.
func (a AnalysisConfig) HasExtension(path string) bool {
	return slices.Contains(a.Extensions, filepath.Ext(path))
}
