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
	"fmt"
	"sync"

	"github.com/google/btree"

	"github.com/computecoin-network/Olympus/common"
	"github.com/computecoin-network/Olympus/core/types"
)

// NodeID indexes Graph's arena — the redesign in
// place of passing common.Hash around and re-resolving it through the
// column store on every best-parent walk.
type NodeID uint32

const noNode NodeID = ^NodeID(0)

// Node is the DAG engine's in-memory view of one admitted unit, enough to
// drive witnessed-level/best-parent/main-chain computation without
// touching the store.
type Node struct {
	Hash    common.Hash
	Author  common.Address
	Parents []NodeID
	Children []NodeID

	Level          uint64
	WitnessedLevel uint64
	BestParent     NodeID // noNode for genesis

	WitnessListBlock common.Hash

	IsFree        bool
	MainChainIndex uint64
	HasMCI         bool
}

// tipEntry orders candidate DAG tips / MC-tip selection by the tie-break:
// witnessed-level desc, level desc, hash asc.
type tipEntry struct {
	id             NodeID
	witnessedLevel uint64
	level          uint64
	hash           common.Hash
}

func tipLess(a, b tipEntry) bool {
	if a.witnessedLevel != b.witnessedLevel {
		return a.witnessedLevel > b.witnessedLevel
	}
	if a.level != b.level {
		return a.level > b.level
	}
	return a.hash.Less(b.hash)
}

// Graph is the arena plus a hash index and an ordered tip set.
type Graph struct {
	mu     sync.RWMutex
	nodes  []*Node
	byHash map[common.Hash]NodeID
	tips   *btree.BTreeG[tipEntry]
}

func NewGraph() *Graph {
	return &Graph{
		byHash: map[common.Hash]NodeID{},
		tips:   btree.NewG(32, tipLess),
	}
}

func (g *Graph) Lookup(h common.Hash) (NodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.byHash[h]
	return id, ok
}

func (g *Graph) Node(id NodeID) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// AddUnit admits u into the arena given its already-resolved parent IDs
// (the caller, core/processor, has already verified every parent is
// known — invariant 1). Returns the new node's ID.
func (g *Graph) AddUnit(u *types.Unit, parentIDs []NodeID) (NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	h := u.Hash()
	if _, exists := g.byHash[h]; exists {
		return 0, fmt.Errorf("dag: unit %s already admitted", h)
	}

	level := uint64(0)
	for _, pid := range parentIDs {
		if p := g.nodes[pid]; p.Level+1 > level {
			level = p.Level + 1
		}
	}

	id := NodeID(len(g.nodes))
	n := &Node{
		Hash:             h,
		Author:           u.Author,
		Parents:          parentIDs,
		Level:            level,
		BestParent:       noNode,
		WitnessListBlock: u.WitnessListBlock,
		IsFree:           true,
	}
	g.nodes = append(g.nodes, n)
	g.byHash[h] = id

	for _, pid := range parentIDs {
		parent := g.nodes[pid]
		parent.Children = append(parent.Children, id)
		if parent.IsFree {
			parent.IsFree = false
			g.tips.Delete(tipEntry{id: pid, witnessedLevel: parent.WitnessedLevel, level: parent.Level, hash: parent.Hash})
		}
	}
	g.tips.ReplaceOrInsert(tipEntry{id: id, witnessedLevel: n.WitnessedLevel, level: n.Level, hash: n.Hash})
	return id, nil
}

// UpdateTipOrdering re-seats id in the tip set after its WitnessedLevel
// changes (best-parent/witnessed-level recomputation can touch
// descendants of a newly admitted unit).
func (g *Graph) UpdateTipOrdering(id NodeID, oldWitnessedLevel uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.nodes[id]
	if !n.IsFree {
		return
	}
	g.tips.Delete(tipEntry{id: id, witnessedLevel: oldWitnessedLevel, level: n.Level, hash: n.Hash})
	g.tips.ReplaceOrInsert(tipEntry{id: id, witnessedLevel: n.WitnessedLevel, level: n.Level, hash: n.Hash})
}

// BestTip returns the current DAG tip ranked (witnessed-level desc, level
// desc, hash asc) — the starting point for a main-chain advance.
func (g *Graph) BestTip() (NodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var best tipEntry
	found := false
	g.tips.Ascend(func(e tipEntry) bool {
		best = e
		found = true
		return false
	})
	return best.id, found
}
