package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. RMJ_LOG_LEVEL.
const EnvPrefix = "RMJ_"

// listKeys are split on commas when they come from the environment.
var listKeys = map[string]bool{
	"circuits":        true,
	"cors_origins":    true,
	"trusted_proxies": true,
}

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. YAML file named by RMJ_CONFIG
//  3. RMJ_* environment variables
//
// DATABASE_URL and PORT are honoured unprefixed when the prefixed form is unset.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(EnvPrefix))
		if key == "config" {
			return "", nil
		}
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Lists replace the defaults instead of being merged index by index.
	if k.Exists("circuits") {
		cfg.Circuits = k.Strings("circuits")
	}
	if k.Exists("cors_origins") {
		cfg.CORSOrigins = k.Strings("cors_origins")
	}
	if k.Exists("trusted_proxies") {
		cfg.TrustedProxies = k.Strings("trusted_proxies")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if !k.Exists("port") {
		if port := os.Getenv("PORT"); port != "" {
			cfg.Port = port
		}
	}

	cfg.Circuits = trimAll(cfg.Circuits)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}
