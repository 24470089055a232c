// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Package config loads the node's TOML configuration file, the way the
// teacher sizes its MDBX map/growth parameters with c2h5oh/datasize
// instead of raw byte counts.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/pelletier/go-toml/v2"
)

// Config is the node's full on-disk configuration.
type Config struct {
	DataDir string `toml:"datadir"`

	Store struct {
		MapSize    datasize.ByteSize `toml:"map_size"`
		GrowthStep datasize.ByteSize `toml:"growth_step"`
	} `toml:"store"`

	Cache struct {
		CapacityPerCategory int `toml:"capacity_per_category"`
	} `toml:"cache"`

	Unhandled struct {
		Capacity int `toml:"capacity"`
	} `toml:"unhandled"`

	Chain struct {
		StabilityThresholdDistance uint64 `toml:"stability_threshold_distance"`
		WitnessMajority            int    `toml:"witness_majority"`
		EpochPeriod                uint64 `toml:"epoch_period"`
		MaxSkiplistDepth           int    `toml:"max_skiplist_depth"`
	} `toml:"chain"`

	WitnessActor struct {
		Enabled           bool          `toml:"enabled"`
		MinInterval       time.Duration `toml:"min_interval"`
		MaxInterval       time.Duration `toml:"max_interval"`
		ThresholdDistance uint64        `toml:"threshold_distance"`
	} `toml:"witness_actor"`

	Metrics struct {
		Enabled bool   `toml:"enabled"`
		Addr    string `toml:"addr"`
	} `toml:"metrics"`
}

// Default returns the configuration a freshly initialised node ships
// with. Its chain parameters are its own values, not those of
// dag.DefaultChainConfig (the stability threshold and epoch period differ).
func Default() Config {
	var c Config
	c.DataDir = "./datadir"
	c.Store.MapSize = 16 * datasize.GB
	c.Store.GrowthStep = 256 * datasize.MB
	c.Cache.CapacityPerCategory = 8192
	c.Unhandled.Capacity = 4096
	c.Chain.StabilityThresholdDistance = 3
	c.Chain.WitnessMajority = 5
	c.Chain.EpochPeriod = 100_000
	c.Chain.MaxSkiplistDepth = 18
	c.WitnessActor.MinInterval = 30 * time.Second
	c.WitnessActor.MaxInterval = 2 * time.Minute
	c.WitnessActor.ThresholdDistance = 10
	c.Metrics.Addr = "127.0.0.1:9090"
	return c
}

// Load reads and parses a TOML configuration file, falling back to
// Default() for every field the file leaves unset.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}
