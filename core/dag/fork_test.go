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
	"testing"

	"github.com/computecoin-network/Olympus/common"
	"github.com/stretchr/testify/require"
)

func TestForkIndexObserveDetectsCollision(t *testing.T) {
	f := NewForkIndex()
	author := addr(1)
	previous := common.BytesToHash([]byte{1})

	forks, rivals := f.Observe(author, previous, NodeID(1))
	require.False(t, forks)
	require.Empty(t, rivals)

	forks, rivals = f.Observe(author, previous, NodeID(2))
	require.True(t, forks)
	require.Equal(t, []NodeID{NodeID(1)}, rivals)
}

func TestForkIndexDoesNotConfuseDifferentAuthors(t *testing.T) {
	f := NewForkIndex()
	previous := common.BytesToHash([]byte{1})

	forks, _ := f.Observe(addr(1), previous, NodeID(1))
	require.False(t, forks)

	forks, _ = f.Observe(addr(2), previous, NodeID(2))
	require.False(t, forks, "same previous but different author is not a fork")
}

func TestForkIndexSuccessorsOf(t *testing.T) {
	f := NewForkIndex()
	previous := common.BytesToHash([]byte{1})
	f.Observe(addr(1), previous, NodeID(1))
	f.Observe(addr(2), previous, NodeID(2))

	successors := f.SuccessorsOf(previous)
	require.ElementsMatch(t, []NodeID{NodeID(1), NodeID(2)}, successors)
}

func TestResolveForkPicksBestParentChainWinner(t *testing.T) {
	onChain := map[NodeID]bool{NodeID(2): true}
	winner, losers := ResolveFork(nil, []NodeID{NodeID(1), NodeID(2), NodeID(3)}, func(id NodeID) bool {
		return onChain[id]
	})
	require.Equal(t, NodeID(2), winner)
	require.ElementsMatch(t, []NodeID{NodeID(1), NodeID(3)}, losers)
}
