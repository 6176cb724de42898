// Package config loads and validates hostguard configuration from
// defaults, YAML files, and environment variables.
package config

import "time"

// Config is the root configuration for an engine embedding hostguard.
type Config struct {
	App    AppConfig    `koanf:"app"`
	Server ServerConfig `koanf:"server"`
	Guard  GuardConfig  `koanf:"guard"`
	Log    LogConfig    `koanf:"log"`
}

// AppConfig identifies the embedding application.
type AppConfig struct {
	Name string `koanf:"name" validate:"required"`
	Env  string `koanf:"env"  validate:"oneof=development staging production"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout TimeoutConfig `koanf:"timeout"`
}

// TimeoutConfig groups the server timeouts.
type TimeoutConfig struct {
	Read    time.Duration `koanf:"read"`
	Write   time.Duration `koanf:"write"`
	Handler time.Duration `koanf:"handler"`
}

// GuardConfig configures request validation.
//
// AllowedHosts entries are either exact hostnames or wildcard patterns of
// the form "*.domain". An empty list disables the guard middleware: the
// engine falls back to its unvalidated (client-rendered) response path
// instead of rejecting every request.
type GuardConfig struct {
	AllowedHosts []string       `koanf:"allowedhosts" validate:"dive,hostpattern"`
	Deferred     bool           `koanf:"deferred"`
	PreGuard     PreGuardConfig `koanf:"preguard"`
}

// PreGuardConfig configures the IP rate-limit pre-guard that runs before
// validation. A non-positive RequestsPerSecond disables it.
type PreGuardConfig struct {
	RequestsPerSecond int `koanf:"requestspersecond"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Pretty bool   `koanf:"pretty"`
}
