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

import "github.com/computecoin-network/Olympus/common"

// WitnessSet resolves which addresses count as witnesses for the epoch
// active at a given witness_list_block, the lookup core/witness owns.
type WitnessSet interface {
	IsWitness(witnessListBlock common.Hash, author common.Address) bool
}

// SetBestParent assigns id's best parent and recomputes its level
// (already set at admission time in AddUnit) — kept separate so
// core/processor can call it once all of id's parents have their own
// WitnessedLevel finalised, which may not be true at admission time for
// a unit whose parents were just unblocked from the unhandled-dependency
// cache.
func (g *Graph) SetBestParent(id NodeID) {
	g.mu.Lock()
	n := g.nodes[id]
	parents := n.Parents
	g.mu.Unlock()

	if len(parents) == 0 {
		return // genesis
	}
	bp := g.ChooseBestParent(parents)

	g.mu.Lock()
	n.BestParent = bp
	g.mu.Unlock()
}

// ComputeWitnessedLevel implements this: walk the best-parent
// chain from id, counting distinct witness authors (of the epoch active
// at id's witness_list_block) observed along the way, decrementing a
// counter initialised to majority; when the counter reaches zero, the
// level of the current node is the witnessed level.
func (g *Graph) ComputeWitnessedLevel(id NodeID, witnesses WitnessSet, majority int) uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	wlb := g.nodes[id].WitnessListBlock
	seen := map[common.Address]bool{}
	remaining := majority
	cur := id
	for cur != noNode {
		n := g.nodes[cur]
		if witnesses.IsWitness(wlb, n.Author) && !seen[n.Author] {
			seen[n.Author] = true
			remaining--
			if remaining <= 0 {
				return n.Level
			}
		}
		cur = n.BestParent
	}
	return 0
}
