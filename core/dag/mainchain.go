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

// MainChain tracks the current best-parent chain from genesis (MCI 0) to
// the MC-tip. chain[i] is the node at main_chain_index i.
type MainChain struct {
	graph *Graph
	chain []NodeID
}

func NewMainChain(g *Graph) *MainChain {
	return &MainChain{graph: g}
}

// Tip returns the current MC-tip node and its index, or (noNode, 0,
// false) before genesis is admitted.
func (m *MainChain) Tip() (NodeID, uint64, bool) {
	if len(m.chain) == 0 {
		return noNode, 0, false
	}
	return m.chain[len(m.chain)-1], uint64(len(m.chain) - 1), true
}

// AncestorAt returns the main-chain unit at mci, used both by skiplist
// construction and by stability/reachability queries.
func (m *MainChain) AncestorAt(mci uint64) (NodeID, bool) {
	if mci >= uint64(len(m.chain)) {
		return noNode, false
	}
	return m.chain[mci], true
}

// Advance recomputes the main chain from the graph's current best tip.
// It returns the MCI at which the new chain first diverges from the old
// one (reorgFromMCI), and the newly assigned portion of the chain (from
// reorgFromMCI to the new tip, inclusive). A divergence unassigns
// main_chain_index/is_on_main_chain on every old unit at or above
// reorgFromMCI (stabilisations already recorded for them are untouched —
// OQ2's no-reexecution invariant, enforced by the caller never calling
// back into the execution façade for already-stable units).
func (m *MainChain) Advance() (reorgFromMCI uint64, assigned []NodeID, changed bool) {
	tip, ok := m.graph.BestTip()
	if !ok {
		return 0, nil, false
	}
	if len(m.chain) > 0 && m.chain[len(m.chain)-1] == tip {
		return 0, nil, false
	}

	var newChain []NodeID
	for id := tip; id != noNode; id = m.graph.Node(id).BestParent {
		newChain = append(newChain, id)
	}
	// newChain is tip-to-genesis; reverse to genesis-to-tip.
	for i, j := 0, len(newChain)-1; i < j; i, j = i+1, j-1 {
		newChain[i], newChain[j] = newChain[j], newChain[i]
	}

	divergeAt := uint64(0)
	for divergeAt < uint64(len(m.chain)) && divergeAt < uint64(len(newChain)) && m.chain[divergeAt] == newChain[divergeAt] {
		divergeAt++
	}

	for i := divergeAt; i < uint64(len(m.chain)); i++ {
		old := m.graph.Node(m.chain[i])
		old.HasMCI = false
		old.MainChainIndex = 0
	}

	for i := divergeAt; i < uint64(len(newChain)); i++ {
		n := m.graph.Node(newChain[i])
		n.HasMCI = true
		n.MainChainIndex = i
	}

	m.chain = newChain
	return divergeAt, newChain[divergeAt:], true
}
