package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces newsmatch environment variables.
const envPrefix = "NEWSMATCH_"

// Load reads configuration from a YAML file, then overrides with
// environment variables.
//
// Precedence (highest to lowest):
//  1. Environment variables (NEWSMATCH_SERVER_PORT, NEWSMATCH_EMBEDDINGS_MODEL, ...)
//  2. YAML config file (path argument; skipped when empty or absent)
//  3. Hardcoded defaults
//
// Environment variables map to config keys by stripping the prefix,
// lowercasing, and splitting on the first underscore:
//
//	NEWSMATCH_SERVER_PORT            -> server.port
//	NEWSMATCH_EMBEDDINGS_BASE_URL    -> embeddings.base_url
//	NEWSMATCH_INDEX_SNAPSHOT_PATH    -> index.snapshot_path
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// NEWSMATCH_SECTION_FIELD_NAME -> section.field_name: the first
		// underscore separates the section, the rest stay in the field.
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
