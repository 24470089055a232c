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

	"github.com/stretchr/testify/require"
)

func TestChooseBestParentPrefersHigherWitnessedLevel(t *testing.T) {
	g := NewGraph()
	genesis := addUnit(t, g, addr(1), nil, 0)
	a := addUnit(t, g, addr(2), []NodeID{genesis}, 1)
	b := addUnit(t, g, addr(3), []NodeID{genesis}, 2)
	g.Node(b).WitnessedLevel = 7

	require.Equal(t, b, g.ChooseBestParent([]NodeID{a, b}))
}

func TestChooseBestParentFallsBackToLevelThenHash(t *testing.T) {
	g := NewGraph()
	genesis := addUnit(t, g, addr(1), nil, 0)
	a := addUnit(t, g, addr(2), []NodeID{genesis}, 1)
	b := addUnit(t, g, addr(3), []NodeID{genesis}, 2)

	want := a
	if g.Node(b).Hash.Less(g.Node(a).Hash) {
		want = b
	}
	require.Equal(t, want, g.ChooseBestParent([]NodeID{a, b}))
}

func TestSetBestParentIsNoOpForGenesis(t *testing.T) {
	g := NewGraph()
	genesis := addUnit(t, g, addr(1), nil, 0)
	g.SetBestParent(genesis)
	require.Equal(t, noNode, g.Node(genesis).BestParent)
}

func TestBestParentChainWalksToGenesis(t *testing.T) {
	g := NewGraph()
	genesis := addUnit(t, g, addr(1), nil, 0)
	a := addUnit(t, g, addr(2), []NodeID{genesis}, 1)
	b := addUnit(t, g, addr(3), []NodeID{a}, 2)
	g.SetBestParent(a)
	g.SetBestParent(b)

	chain := g.BestParentChain(b)
	require.Equal(t, []NodeID{b, a, genesis}, chain)
}
