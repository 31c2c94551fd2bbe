package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const configFileName = "shiftweek_config.yaml"

// DefaultWeekRule schedules each generated week to start on the next Monday.
const DefaultWeekRule = "FREQ=WEEKLY;BYDAY=MO"

// Config represents the application configuration
type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `yaml:"listenAddr" validate:"required"`

	// DatabaseURL enables schedule-run persistence when set. The core
	// scheduler runs without it.
	DatabaseURL string `yaml:"databaseURL,omitempty"`

	// WeekRule is the recurrence rule locating the start of the week a
	// generated schedule covers (e.g. FREQ=WEEKLY;BYDAY=MO).
	WeekRule string `yaml:"weekRule" validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		ListenAddr: ":8080",
		WeekRule:   DefaultWeekRule,
	}
}

// Load loads and validates the configuration from shiftweek_config.yaml.
// It looks for the config file in the current directory first, then in
// the user's home directory, and falls back to defaults when neither has one.
func Load() (*Config, error) {
	configPath, found := findConfigFile(configFileName)
	if !found {
		return Default(), nil
	}
	return LoadFromPath(configPath)
}

// LoadWithEnv loads shiftweek_config.<env>.yaml, falling back to the
// unsuffixed file and then to defaults.
func LoadWithEnv(env string) (*Config, error) {
	if env != "" {
		name := fmt.Sprintf("shiftweek_config.%s.yaml", env)
		if path, found := findConfigFile(name); found {
			return LoadFromPath(path)
		}
	}
	return Load()
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct and checks the week rule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := rrule.StrToRRule(cfg.WeekRule); err != nil {
		return fmt.Errorf("invalid weekRule: %w", err)
	}

	return nil
}

// findConfigFile searches for the named file in the current directory and
// the home directory.
func findConfigFile(name string) (string, bool) {
	if _, err := os.Stat(name); err == nil {
		return name, true
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, true
	}

	return "", false
}
