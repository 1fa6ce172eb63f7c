// Package config resolves kin's settings from defaults, an optional YAML
// file, a .env file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfig       = "KIN_CONFIG"
	EnvDBPath       = "KIN_DB_PATH"
	EnvLogLevel     = "KIN_LOG_LEVEL"
	EnvLogFormat    = "KIN_LOG_FORMAT"
	EnvLineageDepth = "KIN_LINEAGE_DEPTH"
	EnvActor        = "KIN_ACTOR"
)

// DefaultLineageDepth bounds lineage walks when a request leaves a direction at zero.
const DefaultLineageDepth = 3

// Config is the flat kin configuration.
type Config struct {
	DBPath       string `yaml:"db_path"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
	LineageDepth int    `yaml:"lineage_depth"`
	Actor        string `yaml:"actor,omitempty"`

	// Where the values came from, for kin doctor.
	File    string `yaml:"-"` // YAML file applied, empty if none
	EnvFile string `yaml:"-"` // .env file applied, empty if none
}

// Dir returns ~/.kin, the home of the default database and config file.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".kin"), nil
}

// Path returns the config file location: KIN_CONFIG or ~/.kin/config.yaml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the built-in settings.
func Default() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		DBPath:       filepath.Join(dir, "kin.db"),
		LogLevel:     "info",
		LogFormat:    "text",
		LineageDepth: DefaultLineageDepth,
	}
	if u, err := user.Current(); err == nil {
		cfg.Actor = u.Username
	}
	return cfg, nil
}

// Load builds the effective configuration. A missing .env or YAML file is
// not an error.
func Load() (*Config, error) {
	envFile := ""
	switch err := godotenv.Load(); {
	case err == nil:
		envFile = ".env"
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	cfg.EnvFile = envFile

	path, err := Path()
	if err != nil {
		return nil, err
	}
	if err := LoadFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto cfg. Keys absent from the
// file keep their current value.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.File = path
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv(EnvActor); v != "" {
		cfg.Actor = v
	}
	if v := os.Getenv(EnvLineageDepth); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", EnvLineageDepth, v)
		}
		cfg.LineageDepth = n
	}
	return nil
}

// Validate rejects settings the application cannot run with.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "db_path is empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log_level %q must be debug, info, warn or error", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log_format %q must be text or json", c.LogFormat))
	}
	if c.LineageDepth <= 0 {
		problems = append(problems, fmt.Sprintf("lineage_depth %d must be positive", c.LineageDepth))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Save writes cfg as YAML to path, creating the directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
