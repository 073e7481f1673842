package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// FileName is the optional configuration file read from the working directory.
const FileName = ".teststat.yml"

// EnvFileName is the optional dotenv file read from the working directory.
const EnvFileName = ".env"

// MaxWorkers bounds the number of concurrent aggregation shards.
const MaxWorkers = 256

// ErrInvalid marks configuration values that fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Config captures options sourced from config files, the environment or flags.
type Config struct {
	Format    string `yaml:"format"`
	Delimiter string `yaml:"delimiter"`
	Table     string `yaml:"table"`
	Workers   int    `yaml:"workers"`
	LogLevel  string `yaml:"log_level"`
	Strict    bool   `yaml:"strict"`

	Builds []string `yaml:"builds"`
	Phases []string `yaml:"phases"`
	Teams  []string `yaml:"teams"`
}

const (
	// FormatJSON renders the nested report as JSON.
	FormatJSON = "json"
	// FormatYAML renders the nested report as YAML.
	FormatYAML = "yaml"
	// FormatPretty renders human readable output.
	FormatPretty = "pretty"
)

// Environment variables overriding the config file.
const (
	EnvFormat    = "TESTSTAT_FORMAT"
	EnvDelimiter = "TESTSTAT_DELIMITER"
	EnvTable     = "TESTSTAT_TABLE"
	EnvWorkers   = "TESTSTAT_WORKERS"
	EnvLogLevel  = "TESTSTAT_LOG_LEVEL"
	EnvStrict    = "TESTSTAT_STRICT"
)

// Default returns the baseline configuration used when nothing else specifies values.
func Default() Config {
	return Config{
		Format:    FormatJSON,
		Delimiter: ",",
		Workers:   1,
		LogLevel:  "warning",
	}
}

// Load reads .teststat.yml and .env from root when present, then applies
// process environment overrides. Missing files are ignored.
func Load(root string) (Config, error) {
	cfg := Default()
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse config %q: %w", path, err)
		}
		cfg = merge(cfg, fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	env, err := readEnv(root)
	if err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg, env); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// readEnv merges the dotenv file under the process environment; variables
// already set in the process win.
func readEnv(root string) (map[string]string, error) {
	env := map[string]string{}
	path := filepath.Join(root, EnvFileName)
	if _, err := os.Stat(path); err == nil {
		env, err = godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("parse env file %q: %w", path, err)
		}
	}
	for _, key := range []string{EnvFormat, EnvDelimiter, EnvTable, EnvWorkers, EnvLogLevel, EnvStrict} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env, nil
}

func applyEnv(cfg *Config, env map[string]string) error {
	if v := env[EnvFormat]; v != "" {
		cfg.Format = v
	}
	if v := env[EnvDelimiter]; v != "" {
		cfg.Delimiter = v
	}
	if v := env[EnvTable]; v != "" {
		cfg.Table = v
	}
	if v := env[EnvLogLevel]; v != "" {
		cfg.LogLevel = v
	}
	if v := env[EnvWorkers]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvWorkers, err)
		}
		cfg.Workers = n
	}
	if v := env[EnvStrict]; v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvStrict, err)
		}
		cfg.Strict = b
	}
	return nil
}

func merge(base, override Config) Config {
	out := base

	if override.Format != "" {
		out.Format = override.Format
	}
	if override.Delimiter != "" {
		out.Delimiter = override.Delimiter
	}
	if override.Table != "" {
		out.Table = override.Table
	}
	if override.Workers != 0 {
		out.Workers = override.Workers
	}
	if override.LogLevel != "" {
		out.LogLevel = override.LogLevel
	}
	if override.Strict {
		out.Strict = true
	}
	if len(override.Builds) > 0 {
		out.Builds = append([]string{}, override.Builds...)
	}
	if len(override.Phases) > 0 {
		out.Phases = append([]string{}, override.Phases...)
	}
	if len(override.Teams) > 0 {
		out.Teams = append([]string{}, override.Teams...)
	}

	return out
}

// ApplyFlags mutates cfg by applying values from CLI flags when they are present.
func ApplyFlags(cfg *Config, flags FlagValues) {
	if flags.Format.Set {
		cfg.Format = flags.Format.Value
	}
	if flags.Delimiter.Set {
		cfg.Delimiter = flags.Delimiter.Value
	}
	if flags.Table.Set {
		cfg.Table = flags.Table.Value
	}
	if flags.Workers.Set {
		cfg.Workers = flags.Workers.Value
	}
	if flags.LogLevel.Set {
		cfg.LogLevel = flags.LogLevel.Value
	}
	if flags.Strict.Set {
		cfg.Strict = flags.Strict.Value
	}
	if len(flags.Builds.Values) > 0 {
		cfg.Builds = append([]string{}, flags.Builds.Values...)
	}
	if len(flags.Phases.Values) > 0 {
		cfg.Phases = append([]string{}, flags.Phases.Values...)
	}
	if len(flags.Teams.Values) > 0 {
		cfg.Teams = append([]string{}, flags.Teams.Values...)
	}
}

// Validate checks that cfg can drive a run.
func Validate(cfg Config) error {
	switch strings.ToLower(cfg.Format) {
	case FormatJSON, FormatYAML, FormatPretty:
	default:
		return fmt.Errorf("%w: unsupported format %q", ErrInvalid, cfg.Format)
	}
	if _, err := cfg.DelimiterRune(); err != nil {
		return err
	}
	if cfg.Workers < 0 || cfg.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalid, MaxWorkers, cfg.Workers)
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: log level: %v", ErrInvalid, err)
	}
	return nil
}

// DelimiterRune returns the field delimiter. "\t" and "tab" select a tab.
func (c Config) DelimiterRune() (rune, error) {
	d := c.Delimiter
	if d == `\t` || strings.EqualFold(d, "tab") {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(d)
	if d == "" || size != len(d) || r == utf8.RuneError || r == '\r' || r == '\n' || r == '"' {
		return 0, fmt.Errorf("%w: delimiter must be a single character, got %q", ErrInvalid, d)
	}
	return r, nil
}

// FlagValues captures CLI flag state with knowledge of whether each flag was set explicitly.
type FlagValues struct {
	Format    StringFlag
	Delimiter StringFlag
	Table     StringFlag
	Workers   IntFlag
	LogLevel  StringFlag
	Strict    BoolFlag
	Builds    SliceFlag
	Phases    SliceFlag
	Teams     SliceFlag
}

// StringFlag represents a string flag and whether it was set.
type StringFlag struct {
	Value string
	Set   bool
}

// IntFlag represents an int flag and whether it was set.
type IntFlag struct {
	Value int
	Set   bool
}

// SliceFlag represents a slice flag and whether it captured values via CLI.
type SliceFlag struct {
	Values []string
}

// BoolFlag represents a bool flag and whether it was set.
type BoolFlag struct {
	Value bool
	Set   bool
}
