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

// Package dag is the DAG engine: witnessed-level
// computation, best-parent selection, main-chain advance/reorg,
// stabilisation and fork detection, built on an ID-indexed in-memory
// arena (graph.go) instead of repeatedly resolving hashes through the
// column store while walking best-parent chains.
package dag

import "github.com/computecoin-network/Olympus/common/math"

// ChainConfig parameterises the two thresholds left open to the
// implementation: the stability distance and the witness majority
// quorum. Default is a 2-of-3 supermajority, the shape BFT-style quorums
// take elsewhere in the wider ecosystem.
type ChainConfig struct {
	StabilityThresholdDistance uint64
	WitnessMajority            int
	EpochPeriod                uint64
	MaxSkiplistDepth           int
}

// DefaultChainConfig derives WitnessMajority from witnessCount as
// ceil(2*witnessCount/3) and uses conservative defaults for the rest.
func DefaultChainConfig(witnessCount int) ChainConfig {
	return ChainConfig{
		StabilityThresholdDistance: 10,
		WitnessMajority:            math.CeilDiv(witnessCount*2, 3),
		EpochPeriod:                1000,
		MaxSkiplistDepth:           18,
	}
}
