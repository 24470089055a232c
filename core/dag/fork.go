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

// authorPrevious is the fork-detection key: two units sharing it are, by
// definition, a fork.
type authorPrevious struct {
	author   common.Address
	previous common.Hash
}

// ForkIndex maps (author, previous) to every unit seen with that pair,
// and separately indexes previous → successor for quick fork discovery
// on admission (the fork_successor index).
type ForkIndex struct {
	byAuthorPrevious map[authorPrevious][]NodeID
	forkSuccessor    map[common.Hash][]NodeID
}

func NewForkIndex() *ForkIndex {
	return &ForkIndex{
		byAuthorPrevious: map[authorPrevious][]NodeID{},
		forkSuccessor:    map[common.Hash][]NodeID{},
	}
}

// Observe registers a newly admitted unit and reports whether it forks an
// already-known unit (same author, same previous).
func (f *ForkIndex) Observe(author common.Address, previous common.Hash, id NodeID) (forks bool, rivals []NodeID) {
	key := authorPrevious{author: author, previous: previous}
	existing := f.byAuthorPrevious[key]
	f.byAuthorPrevious[key] = append(existing, id)
	f.forkSuccessor[previous] = append(f.forkSuccessor[previous], id)
	return len(existing) > 0, existing
}

// SuccessorsOf returns every unit (across both forks) that names previous
// as its predecessor.
func (f *ForkIndex) SuccessorsOf(previous common.Hash) []NodeID {
	return f.forkSuccessor[previous]
}

// ResolveFork marks every rival to keep (the one on the best-parent
// chain) as the winner; callers mark the rest types.StatusFork and drop
// their transactions from execution.
func ResolveFork(g *Graph, rivals []NodeID, onBestParentChain func(NodeID) bool) (winner NodeID, losers []NodeID) {
	for _, id := range rivals {
		if onBestParentChain(id) {
			winner = id
		} else {
			losers = append(losers, id)
		}
	}
	return winner, losers
}
