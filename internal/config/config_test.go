// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"DOENETML_MAX_RECURSION",
		"DOENETML_MAX_CONCURRENT_FETCH",
		"DOENETML_AUTO_NAME",
		"DOENETML_HTTP_TIMEOUT",
		"DOENETML_SOURCE_BASE_URL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	want := Config{
		MaxRecursion:       10,
		MaxConcurrentFetch: 4,
		HTTPTimeout:        30 * time.Second,
	}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must be valid: %v", err)
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("DOENETML_MAX_RECURSION", "3")
	t.Setenv("DOENETML_MAX_CONCURRENT_FETCH", "-1")
	t.Setenv("DOENETML_AUTO_NAME", "true")
	t.Setenv("DOENETML_HTTP_TIMEOUT", "5s")
	t.Setenv("DOENETML_SOURCE_BASE_URL", "https://example.org")

	cfg := Load()

	want := Config{
		MaxRecursion:       3,
		MaxConcurrentFetch: 4,
		AutoName:           true,
		HTTPTimeout:        5 * time.Second,
		SourceBaseURL:      "https://example.org",
	}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"recursion", Config{MaxRecursion: 0, MaxConcurrentFetch: 1, HTTPTimeout: time.Second}},
		{"fetch", Config{MaxRecursion: 1, MaxConcurrentFetch: 0, HTTPTimeout: time.Second}},
		{"timeout", Config{MaxRecursion: 1, MaxConcurrentFetch: 1}},
	}

	for _, tt := range tests {
		if err := tt.cfg.Validate(); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}
