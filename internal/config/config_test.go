// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import "testing"

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() failed validation: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Config)
	}{
		{"negative min-mq", func(c *Config) { c.MinMQ = -1 }},
		{"negative min-overlap", func(c *Config) { c.MinOverlap = -1 }},
		{"safeguard ratio too high", func(c *Config) { c.MinSizeSafeguard = 1.5 }},
		{"safeguard score ratio negative", func(c *Config) { c.SafeguardScoreRatio = -0.1 }},
		{"zero max iterations", func(c *Config) { c.MaxTournamentIters = 0 }},
		{"negative threads", func(c *Config) { c.Threads = -1 }},
		{"negative memory limit", func(c *Config) { c.MemoryLimitBytes = -1 }},
	}
	for _, c := range cases {
		cfg := Default()
		c.mod(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected Validate to reject the config", c.name)
		}
	}
}

func TestValidateAcceptsUserDistanceThreshold(t *testing.T) {
	cfg := Default()
	tau := 0.05
	cfg.DistanceThreshold = &tau
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}
