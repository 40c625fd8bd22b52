package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment names read outside the BORING_ prefix.
const (
	ConfigPathEnv   = "BORING_CONFIG"
	GoogleAPIKeyEnv = "GOOGLE_API_KEY"
	envPrefix       = "BORING_"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if BORING_CONFIG is set
//  3. env (prefix BORING_)
//
// GOOGLE_API_KEY fills places_api_key when neither layer set it.
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(ConfigPathEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// BORING_PLACES_API_KEY -> places_api_key. Underscores are kept so keys
	// match the flat koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(envPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// BORING_CONFIG itself is not a setting.
	k.Delete("config")

	cfg := *base
	// A configured weight table replaces the defaults instead of merging into them.
	if k.Exists("category_weights") {
		cfg.CategoryWeights = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.PlacesAPIKey == "" {
		cfg.PlacesAPIKey = os.Getenv(GoogleAPIKeyEnv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
