package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/shycli/shy/internal/appdirs"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

// AvailableModels is the catalog offered during setup and by /model.
var AvailableModels = []string{
	"openai/gpt-4o-mini",
	"openai/gpt-4o",
	"openai/o4-mini",
	"google/gemini-2.5-flash",
	"google/gemini-2.5-pro",
	"anthropic/claude-3-5-sonnet",
}

type Config struct {
	APIKey       string `toml:"api_key"`
	DefaultModel string `toml:"default_model"`
	BaseURL      string `toml:"base_url,omitempty"`
}

func Default() Config {
	return Config{
		DefaultModel: AvailableModels[0],
		BaseURL:      DefaultBaseURL,
	}
}

func Path() (string, error) {
	return appdirs.ConfigFilePath()
}

func Exists() bool {
	path, err := Path()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration found; run `shy init` first")
		}
		return Config{}, fmt.Errorf("could not read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(payload, &cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse config file: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func Save(cfg Config) error {
	cfg.normalize()
	payload, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("could not serialize config: %w", err)
	}
	if _, err := appdirs.EnsureConfigDir(); err != nil {
		return err
	}
	path, err := Path()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tempFile, err := os.CreateTemp(dir, ".shy-config-*.toml")
	if err != nil {
		return fmt.Errorf("could not create temp config file: %w", err)
	}
	tempPath := tempFile.Name()
	cleanup := func() {
		_ = os.Remove(tempPath)
	}

	if _, err := tempFile.Write(payload); err != nil {
		_ = tempFile.Close()
		cleanup()
		return fmt.Errorf("could not write temp config file: %w", err)
	}
	if err := tempFile.Chmod(0o600); err != nil {
		_ = tempFile.Close()
		cleanup()
		return fmt.Errorf("could not secure temp config file permissions: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		cleanup()
		return fmt.Errorf("could not close temp config file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		cleanup()
		return fmt.Errorf("could not atomically replace config file: %w", err)
	}
	return nil
}

func (c *Config) normalize() {
	defaults := Default()
	if c.DefaultModel == "" {
		c.DefaultModel = defaults.DefaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = defaults.BaseURL
	}
}
