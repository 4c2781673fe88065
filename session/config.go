// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package session

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogama/reqx/fault"
)

// A Config describes the connection pool and default timeout behavior
// of a session.
//
// The zero value is not itself a usable configuration: passed to
// Factory.Session it means "whatever the session is, or would by
// default be, configured with". Use DefaultConfig for the concrete
// defaults.
type Config struct {
	// MaxConns bounds the total number of connections the pool holds
	// across all hosts. Must be positive.
	MaxConns int `yaml:"max_conns"`

	// MaxPerHost bounds the number of connections per destination
	// host. Must be positive and must not exceed MaxConns. A request
	// needing a connection when the per-host limit is reached blocks,
	// bounded by the call's own timeout, until a slot frees.
	MaxPerHost int `yaml:"max_per_host"`

	// DefaultTimeout is the round-trip bound applied to calls whose
	// descriptor does not set its own timeout. Must be positive.
	DefaultTimeout time.Duration `yaml:"default_timeout"`

	// IdleTimeout is the age after which an idle pooled connection is
	// evicted and closed. Zero disables eviction. Must not be
	// negative.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// TLSInsecure disables verification of the server certificate
	// chain and host name. For test rigs only.
	TLSInsecure bool `yaml:"tls_insecure"`
}

// DefaultConfig returns the configuration a factory applies when the
// first Session call supplies the zero value.
func DefaultConfig() Config {
	return Config{
		MaxConns:       100,
		MaxPerHost:     10,
		DefaultTimeout: 30 * time.Second,
		IdleTimeout:    90 * time.Second,
	}
}

// zero reports whether the config is the zero value, meaning "current
// or default configuration".
func (c Config) zero() bool {
	return c == Config{}
}

// Validate checks the configuration invariants. A violation is
// reported as a fault of kind fault.Configuration.
func (c Config) Validate() error {
	if c.MaxConns <= 0 {
		return fault.New(fault.Configuration, "max_conns must be positive")
	}
	if c.MaxPerHost <= 0 {
		return fault.New(fault.Configuration, "max_per_host must be positive")
	}
	if c.MaxPerHost > c.MaxConns {
		return fault.New(fault.Configuration, "max_per_host must not exceed max_conns")
	}
	if c.DefaultTimeout <= 0 {
		return fault.New(fault.Configuration, "default_timeout must be positive")
	}
	if c.IdleTimeout < 0 {
		return fault.New(fault.Configuration, "idle_timeout must not be negative")
	}
	return nil
}

// Load reads and parses a YAML session configuration file. Fields
// omitted from the file keep their DefaultConfig values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
