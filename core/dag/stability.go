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

package dag

import (
	"sort"

	"github.com/computecoin-network/Olympus/common"
)

// IsStable implements this: u becomes stable when a successor
// main-chain unit v satisfies (a) v.WitnessedLevel - u.Level is at least
// the configured threshold distance, and (b) a majority of the epoch's
// witnesses appear as authors walking v's best-parent chain back to u.
func IsStable(g *Graph, u, v NodeID, witnesses WitnessSet, cfg ChainConfig) bool {
	uNode, vNode := g.Node(u), g.Node(v)
	if vNode.WitnessedLevel < uNode.Level+cfg.StabilityThresholdDistance {
		return false
	}

	seen := map[common.Address]bool{}
	cur := v
	for cur != noNode && cur != u {
		n := g.Node(cur)
		if witnesses.IsWitness(n.WitnessListBlock, n.Author) {
			seen[n.Author] = true
		}
		cur = n.BestParent
	}
	return len(seen) >= cfg.WitnessMajority
}

// StableCandidate is a unit eligible for stabilisation under a common
// witnessing main-chain unit.
type StableCandidate struct {
	ID    NodeID
	Level uint64
	Hash  common.Hash
}

// SortStableCandidates orders candidates by (level asc, hash asc) — the
// fixed total order so every node in the network
// assigns stable_index identically.
func SortStableCandidates(candidates []StableCandidate) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		return a.Hash.Less(b.Hash)
	})
}
