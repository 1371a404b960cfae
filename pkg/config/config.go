// Package config loads parley settings from a TOML file and the
// process environment. Precedence is flags > file > defaults; the file
// and defaults are handled here, flag overrides happen in the command
// layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	// DefaultBaseURL points at a local Ollama instance.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultModel is the model requested when none is configured.
	DefaultModel = "llama3.2"

	// DefaultTemperature mirrors the upstream assistant's setting.
	DefaultTemperature = 0.7

	// APIKeyEnv is the environment variable holding the provider
	// credential. Optional for local providers.
	APIKeyEnv = "PARLEY_API_KEY"
)

// Config holds the user-tunable settings.
type Config struct {
	// BaseURL of the completion provider
	BaseURL string `toml:"base_url"`

	// Model name sent with every request
	Model string `toml:"model"`

	// Temperature for generation (0.0-2.0)
	Temperature float64 `toml:"temperature"`

	// DBPath is where transcripts are recorded. Empty disables
	// recording unless the chat command asks for the default.
	DBPath string `toml:"db_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
	}
}

// Load reads the TOML file at path over the defaults. A missing file is
// not an error when required is false (the implicit default location
// may simply not exist yet).
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("could not read config %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}

	return cfg, nil
}

// LoadDotenv loads a .env file from the working directory if present.
// Missing files are fine; the environment always wins over the file.
func LoadDotenv() {
	_ = godotenv.Load()
}

// APIKey returns the provider credential from the environment, or the
// empty string.
func APIKey() string {
	return os.Getenv(APIKeyEnv)
}

// DefaultConfigPath returns ~/.parley/config.toml.
func DefaultConfigPath() (string, error) {
	dir, err := parleyDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ResolveDBPath returns the transcript database path, creating the
// parent directory if needed. An explicit override wins; otherwise the
// default is ~/.parley/parley.db.
func ResolveDBPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	dir, err := parleyDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create %s: %w", dir, err)
	}
	return filepath.Join(dir, "parley.db"), nil
}

func parleyDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve home directory: %w", err)
	}
	return filepath.Join(home, ".parley"), nil
}
