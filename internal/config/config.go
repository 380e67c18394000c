// Package config provides centralized configuration management using Viper.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/smartagri/internal/i18n"
)

// DefaultAPIURL is the recommendation service of a local development stack.
const DefaultAPIURL = "http://localhost:8000/api"

// Config holds all configuration values for smartagri.
type Config struct {
	APIURL      string        `mapstructure:"api_url" yaml:"api_url"`
	Token       string        `mapstructure:"token" yaml:"token,omitempty"`
	Language    string        `mapstructure:"language" yaml:"language"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"-"`
	DataDir     string        `mapstructure:"data_dir" yaml:"data_dir"`
	History     bool          `mapstructure:"history" yaml:"history"`
	LogLevel    string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile     string        `mapstructure:"log_file" yaml:"log_file"`
	MetricsFile string        `mapstructure:"metrics_file" yaml:"metrics_file"`
	MCPAddr     string        `mapstructure:"mcp_addr" yaml:"mcp_addr"`
}

// MarshalYAML writes the timeout as a duration string rather than nanoseconds.
func (c Config) MarshalYAML() (interface{}, error) {
	type plain Config
	return struct {
		plain   `yaml:",inline"`
		Timeout string `yaml:"timeout"`
	}{plain(c), c.Timeout.String()}, nil
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	return &Config{
		APIURL:   DefaultAPIURL,
		Language: "en",
		Timeout:  30 * time.Second,
		DataDir:  ".smartagri",
		History:  true,
		LogLevel: "info",
		MCPAddr:  "127.0.0.1:0",
	}
}

var envKeys = []string{
	"api_url", "token", "language", "timeout", "data_dir", "history",
	"log_level", "log_file", "metrics_file", "mcp_addr",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("smartagri")

	d := Defaults()
	v.SetDefault("api_url", d.APIURL)
	v.SetDefault("token", "")
	v.SetDefault("language", d.Language)
	v.SetDefault("timeout", d.Timeout.String())
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("history", d.History)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("metrics_file", "")
	v.SetDefault("mcp_addr", d.MCPAddr)

	// Setup ENV binding with SMARTAGRI_ prefix
	v.SetEnvPrefix("SMARTAGRI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit ENV bindings for better bool/duration parsing
	for _, key := range envKeys {
		if err := v.BindEnv(key, "SMARTAGRI_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIURL)
	switch {
	case c.APIURL == "":
		errs = append(errs, errors.New("api_url is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("api_url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("api_url must be an http or https URL, got %q", c.APIURL))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("api_url has no host: %q", c.APIURL))
	}

	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}

	if !slices.Contains(i18n.Languages(), strings.ToLower(c.Language)) {
		errs = append(errs, fmt.Errorf("unsupported language %q (available: %s)",
			c.Language, strings.Join(i18n.Languages(), ", ")))
	}

	return errors.Join(errs...)
}

// HistoryDir is where the embedded history store keeps its data.
func (c *Config) HistoryDir() string {
	return filepath.Join(c.DataDir, "history")
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/smartagri/smartagri.yml or $XDG_CONFIG_HOME/smartagri/smartagri.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "smartagri", "smartagri.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "smartagri", "smartagri.yml")
}

// ProjectPath returns the project-local config path.
// Returns ./smartagri.yml in the current working directory.
func ProjectPath() string {
	return "smartagri.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// The file may hold a bearer token.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
