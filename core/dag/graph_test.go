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

	"github.com/computecoin-network/Olympus/core/types"
	"github.com/stretchr/testify/require"
)

func TestAddUnitLevelIsMaxParentLevelPlusOne(t *testing.T) {
	g := NewGraph()
	genesis := addUnit(t, g, addr(1), nil, 0)
	require.Zero(t, g.Node(genesis).Level)

	a := addUnit(t, g, addr(2), []NodeID{genesis}, 1)
	require.Equal(t, uint64(1), g.Node(a).Level)

	b := addUnit(t, g, addr(3), []NodeID{genesis}, 2)
	require.Equal(t, uint64(1), g.Node(b).Level)

	merge := addUnit(t, g, addr(4), []NodeID{a, b}, 3)
	require.Equal(t, uint64(2), g.Node(merge).Level)
}

func TestAddUnitRejectsDuplicate(t *testing.T) {
	g := NewGraph()
	u := &types.Unit{Author: addr(1), Timestamp: 1}
	_, err := g.AddUnit(u, nil)
	require.NoError(t, err)

	_, err = g.AddUnit(u, nil)
	require.Error(t, err)
}

func TestAddUnitRetiresParentFromTipSet(t *testing.T) {
	g := NewGraph()
	genesis := addUnit(t, g, addr(1), nil, 0)
	tip, ok := g.BestTip()
	require.True(t, ok)
	require.Equal(t, genesis, tip)

	child := addUnit(t, g, addr(2), []NodeID{genesis}, 1)
	tip, ok = g.BestTip()
	require.True(t, ok)
	require.Equal(t, child, tip, "parent must be removed from the tip set once it has a child")
	require.False(t, g.Node(genesis).IsFree)
	require.True(t, g.Node(child).IsFree)
}

func TestBestTipBreaksTiesByWitnessedLevelThenLevelThenHash(t *testing.T) {
	g := NewGraph()
	genesis := addUnit(t, g, addr(1), nil, 0)
	a := addUnit(t, g, addr(2), []NodeID{genesis}, 1)
	b := addUnit(t, g, addr(3), []NodeID{genesis}, 2)

	// Same level, same (zero) witnessed level: the tie-break is hash asc.
	tip, ok := g.BestTip()
	require.True(t, ok)
	want := a
	if g.Node(b).Hash.Less(g.Node(a).Hash) {
		want = b
	}
	require.Equal(t, want, tip)
}

func TestUpdateTipOrderingReseatsFreeNodeOnly(t *testing.T) {
	g := NewGraph()
	genesis := addUnit(t, g, addr(1), nil, 0)
	child := addUnit(t, g, addr(2), []NodeID{genesis}, 1)

	g.Node(child).WitnessedLevel = 5
	g.UpdateTipOrdering(child, 0)
	tip, ok := g.BestTip()
	require.True(t, ok)
	require.Equal(t, child, tip)

	// genesis is no longer free; reseating it must be a no-op.
	g.Node(genesis).WitnessedLevel = 99
	g.UpdateTipOrdering(genesis, 0)
	tip, ok = g.BestTip()
	require.True(t, ok)
	require.Equal(t, child, tip)
}

func TestLookupAndNode(t *testing.T) {
	g := NewGraph()
	genesis := addUnit(t, g, addr(1), nil, 0)
	h := g.Node(genesis).Hash

	id, ok := g.Lookup(h)
	require.True(t, ok)
	require.Equal(t, genesis, id)

	require.Nil(t, g.Node(NodeID(999)))
}
