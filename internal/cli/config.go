package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/rajeshg/openchem/pkg/pipeline"
)

// Config holds user preferences loaded from the config file.
// All fields are optional; zero values fall back to built-in defaults.
type Config struct {
	// Canon section
	Canon struct {
		Kekulize bool `toml:"kekulize"`
		Plain    bool `toml:"plain"`
	} `toml:"canon"`

	// Render section
	Render struct {
		Formats []string `toml:"formats"`
		Layout  string   `toml:"layout"`
	} `toml:"render"`

	// Serve section
	Serve struct {
		Addr     string `toml:"addr"`
		RedisURL string `toml:"redis_url"`
	} `toml:"serve"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Render.Formats = []string{pipeline.FormatSVG}
	cfg.Render.Layout = pipeline.DefaultLayout
	cfg.Serve.Addr = ":8080"
	return cfg
}

// configPath returns the config file path using XDG standard
// (~/.config/openchem/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads the config file, returning defaults when it does not
// exist. A malformed file is an error so typos don't silently vanish.
func LoadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, cfg)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Render.Layout == "" {
		cfg.Render.Layout = pipeline.DefaultLayout
	}
	if len(cfg.Render.Formats) == 0 {
		cfg.Render.Formats = []string{pipeline.FormatSVG}
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = ":8080"
	}
	return cfg, nil
}
