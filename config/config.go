package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Load loads configuration with the usual priority: environment variables
// over config.yaml over built-in defaults. The YAML file is optional.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Optional; an embedding engine without a config.yaml runs on defaults
	// plus environment.
	_ = k.Load(file.Provider("config.yaml"), yaml.Parser())

	if err := loadEnv(k); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return finish(k)
}

// LoadBytes loads configuration from raw YAML layered over defaults, with
// environment variables still taking priority. Engines that embed their
// configuration use this instead of Load.
func LoadBytes(b []byte) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(rawbytes.Provider(b), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse config bytes: %w", err)
	}

	if err := loadEnv(k); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return finish(k)
}

func loadEnv(k *koanf.Koanf) error {
	// HOSTGUARD_GUARD_ALLOWEDHOSTS=... becomes guard.allowedhosts
	return k.Load(envprovider.Provider(".", envprovider.Opt{
		Prefix: "HOSTGUARD_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, "HOSTGUARD_")
			return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
		},
	}), nil)
}

func finish(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name": "hostguard-engine",
		"app.env":  "development",

		"server.host":            "0.0.0.0",
		"server.port":            8080,
		"server.timeout.read":    "15s",
		"server.timeout.write":   "15s",
		"server.timeout.handler": "30s",

		"guard.allowedhosts":               []string{},
		"guard.deferred":                   false,
		"guard.preguard.requestspersecond": 2000,

		"log.level":  "info",
		"log.pretty": false,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
