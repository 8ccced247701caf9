// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the options recognised by the core (spec §6)
// and validates them at pre-flight, per spec §7's ConfigInvalid
// error kind.
package config

import (
	"runtime"

	"github.com/kortschak/tigcull/align"
	"github.com/kortschak/tigcull/internal/errs"
	"github.com/kortschak/tigcull/tournament"
)

// Config is the flat set of options a driver run is configured with,
// mapped one-to-one to spec §6's configuration table.
type Config struct {
	MinMQ                int
	MinOverlap           int
	MinSizeSafeguard     float64
	SafeguardScoreRatio  float64
	DistanceThreshold    *float64
	AlignedOnly          bool
	MaxTournamentIters   int
	Threads              int
	GCOutlierStdDevs     float64
	MemoryLimitBytes     int64
}

// Default returns a Config with every field at its spec default.
func Default() Config {
	return Config{
		MinMQ:               align.DefaultMinMQ,
		MinOverlap:          align.DefaultMinOverlap,
		MinSizeSafeguard:    tournament.DefaultSafeguardRatio,
		SafeguardScoreRatio: tournament.DefaultSafeguardScoreRatio,
		MaxTournamentIters:  tournament.DefaultMaxIters,
		Threads:             runtime.NumCPU(),
		GCOutlierStdDevs:    3.0,
	}
}

// Validate applies spec §7's ConfigInvalid rules: negative
// thresholds, a safeguard ratio outside [0,1], or MAX_ITERS ≤ 0 are
// all fatal at pre-flight, before any input is read.
func (c Config) Validate() error {
	if c.MinMQ < 0 {
		return errs.New(errs.ConfigInvalid, "min-mq must be >= 0, got %d", c.MinMQ)
	}
	if c.MinOverlap < 0 {
		return errs.New(errs.ConfigInvalid, "min-overlap must be >= 0, got %d", c.MinOverlap)
	}
	if c.MinSizeSafeguard < 0 || c.MinSizeSafeguard > 1 {
		return errs.New(errs.ConfigInvalid, "min-size-safeguard must be in [0,1], got %v", c.MinSizeSafeguard)
	}
	if c.SafeguardScoreRatio < 0 || c.SafeguardScoreRatio > 1 {
		return errs.New(errs.ConfigInvalid, "safeguard score ratio must be in [0,1], got %v", c.SafeguardScoreRatio)
	}
	if c.DistanceThreshold != nil && (*c.DistanceThreshold < 0 || *c.DistanceThreshold > 1) {
		return errs.New(errs.ConfigInvalid, "distance-threshold must be in [0,1], got %v", *c.DistanceThreshold)
	}
	if c.MaxTournamentIters <= 0 {
		return errs.New(errs.ConfigInvalid, "max-tournament-iterations must be > 0, got %d", c.MaxTournamentIters)
	}
	if c.Threads < 0 {
		return errs.New(errs.ConfigInvalid, "threads must be >= 0, got %d", c.Threads)
	}
	if c.GCOutlierStdDevs < 0 {
		return errs.New(errs.ConfigInvalid, "gc outlier std-devs must be >= 0, got %v", c.GCOutlierStdDevs)
	}
	if c.MemoryLimitBytes < 0 {
		return errs.New(errs.ConfigInvalid, "memory-limit-bytes must be >= 0, got %d", c.MemoryLimitBytes)
	}
	return nil
}

// TournamentConfig projects the tournament-relevant fields of c into
// a tournament.Config.
func (c Config) TournamentConfig() tournament.Config {
	return tournament.Config{
		MinOverlap:          c.MinOverlap,
		SafeguardRatio:      c.MinSizeSafeguard,
		SafeguardScoreRatio: c.SafeguardScoreRatio,
		MaxIters:            c.MaxTournamentIters,
	}
}
