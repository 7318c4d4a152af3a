// Package config loads hackterm settings.
//
// Config file locations (priority order):
//  1. $HACKTERM_CONFIG
//  2. ./hackterm.yaml
//  3. $XDG_CONFIG_HOME/hackterm/config.yaml
//  4. ~/.config/hackterm/config.yaml
//  5. /etc/hackterm/config.yaml
//
// $HACKTERM_SEED and $HACKTERM_SAVE_PATH override the file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"hackterm/internal/generator"
)

const (
	DefaultSavePath = "hackterm_save.json"
	DefaultLogLevel = "info"
)

var validate = validator.New()

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		if err := cfg.finish(); err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.finish(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		SavePath: DefaultSavePath,
		LogLevel: DefaultLogLevel,
	}
}

func (c *Config) finish() error {
	c.applyDefaults()
	if err := c.applyEnv(); err != nil {
		return err
	}
	return c.Validate()
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.SavePath == "" {
		c.SavePath = DefaultSavePath
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// applyEnv applies environment overrides
func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvSeed, err)
		}
		c.Seed = seed
	}
	if v := os.Getenv(EnvSavePath); v != "" {
		c.SavePath = v
	}
	return nil
}

// Validate checks field ranges
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// GeneratorParams resolves the generator block against the city defaults
func (c *Config) GeneratorParams() generator.Params {
	p := generator.CityParams()
	g := c.Generator

	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setInt(&p.ISPCount, g.ISPCount)
	setInt(&p.AreasMin, g.AreasMin)
	setInt(&p.AreasMax, g.AreasMax)
	setInt(&p.NeighMin, g.NeighMin)
	setInt(&p.NeighMax, g.NeighMax)
	setInt(&p.BuildingsMin, g.BuildingsMin)
	setInt(&p.BuildingsMax, g.BuildingsMax)
	setInt(&p.FloorsMin, g.FloorsMin)
	setInt(&p.FloorsMax, g.FloorsMax)
	setInt(&p.RoutersMin, g.RoutersMin)
	setInt(&p.RoutersMax, g.RoutersMax)
	setInt(&p.UsersMin, g.UsersMin)
	setInt(&p.UsersMax, g.UsersMax)

	if g.InterRouterLinkDensity != nil {
		p.InterRouterLinkDensity = *g.InterRouterLinkDensity
	}
	if g.PublicDMZFraction != nil {
		p.PublicDMZFraction = *g.PublicDMZFraction
	}

	return p.Normalize()
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	p := c.GeneratorParams()

	summary := fmt.Sprintf("Seed: %d, Save: %s, Log: %s\n", c.Seed, c.SavePath, c.LogLevel)
	if c.Archive.Path != "" {
		summary += fmt.Sprintf("Archive: %s\n", c.Archive.Path)
	}
	summary += fmt.Sprintf("Generator: isps=%d areas=%d-%d neigh=%d-%d buildings=%d-%d floors=%d-%d routers=%d-%d users=%d-%d density=%.2f",
		p.ISPCount, p.AreasMin, p.AreasMax, p.NeighMin, p.NeighMax,
		p.BuildingsMin, p.BuildingsMax, p.FloorsMin, p.FloorsMax,
		p.RoutersMin, p.RoutersMax, p.UsersMin, p.UsersMax, p.InterRouterLinkDensity)

	return summary
}
