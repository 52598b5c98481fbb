// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// External references
	MaxRecursion       int
	MaxConcurrentFetch int

	// Normalization
	AutoName bool

	// HTTP resolver
	HTTPTimeout   time.Duration
	SourceBaseURL string
}

func Load() Config {
	cfg := Config{
		MaxRecursion:       envInt("DOENETML_MAX_RECURSION", 10),
		MaxConcurrentFetch: envInt("DOENETML_MAX_CONCURRENT_FETCH", 4),

		AutoName: envBool("DOENETML_AUTO_NAME", false),

		HTTPTimeout:   envDuration("DOENETML_HTTP_TIMEOUT", 30*time.Second),
		SourceBaseURL: os.Getenv("DOENETML_SOURCE_BASE_URL"),
	}

	if cfg.MaxRecursion <= 0 {
		cfg.MaxRecursion = 10
	}
	if cfg.MaxConcurrentFetch <= 0 {
		cfg.MaxConcurrentFetch = 4
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.MaxRecursion <= 0 {
		return fmt.Errorf("DOENETML_MAX_RECURSION must be positive")
	}
	if c.MaxConcurrentFetch <= 0 {
		return fmt.Errorf("DOENETML_MAX_CONCURRENT_FETCH must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("DOENETML_HTTP_TIMEOUT must be positive")
	}
	return nil
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
