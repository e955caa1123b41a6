// Package toml loads [robbie.Config] from a TOML file and the environment.
package toml

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fwojciec/robbie"
)

// Environment variables that override file settings.
const (
	EnvBaseURL          = "ROBBIE_BASE_URL"
	EnvMaxTokens        = "ROBBIE_MAX_TOKENS"
	EnvTemperature      = "ROBBIE_TEMPERATURE"
	EnvTopP             = "ROBBIE_TOP_P"
	EnvFrequencyPenalty = "ROBBIE_FREQUENCY_PENALTY"
	EnvPresencePenalty  = "ROBBIE_PRESENCE_PENALTY"
	EnvLogLevel         = "ROBBIE_LOG_LEVEL"
)

// Load returns the default configuration overlaid with the file at path and
// then with environment values looked up through getenv. A missing file is
// not an error; a file that cannot be parsed is. Environment values that do
// not parse are ignored.
func Load(path string, getenv func(string) string) (robbie.Config, error) {
	cfg := robbie.DefaultConfig()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return robbie.Config{}, err
		}
	}
	if getenv != nil {
		applyEnv(&cfg, getenv)
	}
	return cfg, nil
}

func decodeFile(path string, cfg *robbie.Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("toml: read %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return fmt.Errorf("toml: decode %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *robbie.Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	if v, ok := envInt(getenv, EnvMaxTokens); ok {
		cfg.MaxTokens = v
	}
	if v, ok := envFloat(getenv, EnvTemperature); ok {
		cfg.Temperature = v
	}
	if v, ok := envFloat(getenv, EnvTopP); ok {
		cfg.TopP = v
	}
	if v, ok := envFloat(getenv, EnvFrequencyPenalty); ok {
		cfg.FrequencyPenalty = v
	}
	if v, ok := envFloat(getenv, EnvPresencePenalty); ok {
		cfg.PresencePenalty = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
}

func envInt(getenv func(string) string, key string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(getenv(key)))
	return n, err == nil
}

func envFloat(getenv func(string) string, key string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(getenv(key)), 64)
	return f, err == nil
}
