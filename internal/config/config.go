// Package config loads settings from a dotenv file, the process
// environment and an optional TOML secrets file, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	envFileVar     = "ENV_FILE"
	secretsFileVar = "SECRETS_FILE"

	defaultEnvFile     = ".env"
	defaultSecretsFile = ".secrets.toml"
)

type Config struct {
	Provider        string        `env:"SUMMARIZER_PROVIDER"          envDefault:"openai"`
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string        `env:"ANTHROPIC_API_KEY"`
	Model           string        `env:"SUMMARIZER_MODEL"`
	MaxOutputTokens int64         `env:"SUMMARIZER_MAX_OUTPUT_TOKENS" envDefault:"16000"`
	MinCallInterval time.Duration `env:"SUMMARIZER_MIN_INTERVAL"      envDefault:"200ms"`
	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT"                envDefault:"10s"`
	FetchMaxBytes   int64         `env:"FETCH_MAX_BODY_BYTES"         envDefault:"10485760"`
	CacheSize       int           `env:"SUMMARY_CACHE_SIZE"           envDefault:"128"`
	CacheTTL        time.Duration `env:"SUMMARY_CACHE_TTL"            envDefault:"1h"`
	LogLevel        slog.Level    `env:"LOG_LEVEL"                    envDefault:"info"`
}

// APIKey returns the key for the configured provider.
func (c Config) APIKey() string {
	if strings.EqualFold(c.Provider, "anthropic") {
		return c.AnthropicAPIKey
	}

	return c.OpenAIAPIKey
}

// Load reads the layers named by ENV_FILE and SECRETS_FILE. Missing files
// are skipped.
func Load() (Config, error) {
	envFile := lookup(envFileVar, defaultEnvFile)
	secretsFile := lookup(secretsFileVar, defaultSecretsFile)

	return LoadFrom(envFile, secretsFile, env.ToMap(os.Environ()))
}

// LoadFrom merges envFile, environ and secretsFile and parses the result.
func LoadFrom(envFile, secretsFile string, environ map[string]string) (Config, error) {
	merged := map[string]string{}

	dotenv, err := readDotenv(envFile)
	if err != nil {
		return Config{}, err
	}
	for k, v := range dotenv {
		merged[k] = v
	}

	for k, v := range environ {
		merged[k] = v
	}

	secrets, err := readSecrets(secretsFile)
	if err != nil {
		return Config{}, err
	}
	for k, v := range secrets {
		merged[k] = v
	}

	var cfg Config
	if err = env.ParseWithOptions(&cfg, env.Options{Environment: merged}); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

func lookup(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}

	return fallback
}

func readDotenv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}

	return values, nil
}

// readSecrets accepts flat string tables such as
//
//	OPENAI_API_KEY = "sk-..."
//
// Non-string values are formatted with %v.
func readSecrets(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read secrets file %s: %w", path, err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if _, nested := v.(map[string]any); nested {
			return nil, fmt.Errorf("read secrets file %s: key %q is a table", path, k)
		}
		values[strings.ToUpper(k)] = fmt.Sprint(v)
	}

	return values, nil
}
