package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Report settings
	Output      string // "<format>:<path>", empty disables the structured report
	ResultsPath string // JSON file holding the last run, read by the failures viewer

	// Selection
	Filters []string

	// Runner policies
	BreakOnFatal bool
	Timeout      time.Duration

	// Per-test database environment, disabled when Driver is empty
	Database DatabaseConfig

	// History database as "<driver>:<dsn>", disabled when empty
	History string

	LogLevel string

	// Command flags
	Flags Flags
}

// DatabaseConfig configures the per-test database environment
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Name   string `yaml:"name"`
}

// Flags holds command-line flags
type Flags struct {
	ConfigFile   string
	EnvFile      string
	Output       string
	GTestOutput  string
	Filter       string
	LogLevel     string
	History      string
	Timeout      time.Duration
	BreakOnFatal bool
	Progress     bool
	Summary      bool
	Verbose      bool
	NoColor      bool
	OnlyFailed   bool
	OpenFailures bool
	Tests        bool
	From         string
	Limit        int
}

// fileConfig is the YAML layout of gtr.yaml
type fileConfig struct {
	Output       string         `yaml:"output"`
	Results      string         `yaml:"results"`
	Filter       []string       `yaml:"filter"`
	BreakOnFatal *bool          `yaml:"break_on_fatal"`
	Timeout      time.Duration  `yaml:"timeout"`
	Database     DatabaseConfig `yaml:"database"`
	History      string         `yaml:"history"`
	LogLevel     string         `yaml:"log_level"`
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		ResultsPath: filepath.Join(DefaultResultsDir, DefaultResultsFile),
		LogLevel:    DefaultLogLevel,
		Flags:       Flags{Limit: DefaultHistoryLimit},
	}
}

// Load builds the configuration: defaults, then the YAML file, then .env and
// environment variables, then flags.
func Load(flags Flags) (*Config, error) {
	cfg := New()
	cfg.Flags = flags

	path, required := flags.ConfigFile, true
	if path == "" {
		path, required = DefaultConfigFile, false
	}
	if err := cfg.LoadFile(path); err != nil {
		if required || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	envFile := flags.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := LoadEnv(envFile); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.ApplyFlags(flags)
	return cfg, nil
}

// LoadFile merges the YAML file at path into the config. Unknown keys are rejected.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.Output != "" {
		c.Output = fc.Output
	}
	if fc.Results != "" {
		c.ResultsPath = fc.Results
	}
	if len(fc.Filter) > 0 {
		c.Filters = fc.Filter
	}
	if fc.BreakOnFatal != nil {
		c.BreakOnFatal = *fc.BreakOnFatal
	}
	if fc.Timeout > 0 {
		c.Timeout = fc.Timeout
	}
	if fc.Database.Driver != "" {
		c.Database = fc.Database
	}
	if fc.History != "" {
		c.History = fc.History
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	return nil
}

// LoadEnv loads a .env file into the process environment. Variables that are
// already set win, and a missing file is not an error.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from GTR_* variables
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str(EnvOutput, &c.Output)
	str(EnvResults, &c.ResultsPath)
	str(EnvLogLevel, &c.LogLevel)
	str(EnvHistory, &c.History)
	str(EnvDBDriver, &c.Database.Driver)
	str(EnvDBDSN, &c.Database.DSN)
	str(EnvDBName, &c.Database.Name)

	if v, ok := lookup(EnvFilter); ok && v != "" {
		c.Filters = SplitList(v)
	}
	if v, ok := lookup(EnvBreakOnFatal); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvBreakOnFatal, err)
		}
		c.BreakOnFatal = b
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	return nil
}

// ApplyFlags overrides settings with the flags that were set
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.GTestOutput != "" {
		c.Output = flags.GTestOutput
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Filter != "" {
		c.Filters = SplitList(flags.Filter)
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.History != "" {
		c.History = flags.History
	}
	if flags.Timeout > 0 {
		c.Timeout = flags.Timeout
	}
	if flags.BreakOnFatal {
		c.BreakOnFatal = true
	}
	if flags.Verbose {
		c.LogLevel = "debug"
	}
}

// GetResultsPath returns the absolute path of the last-run JSON file, so
// run and failures always read and write the same file regardless of cwd.
func (c *Config) GetResultsPath() string {
	if abs, err := filepath.Abs(c.ResultsPath); err == nil {
		return abs
	}
	return c.ResultsPath
}

// SplitList splits a comma separated list, dropping empty entries
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
