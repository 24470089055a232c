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
	"github.com/computecoin-network/Olympus/core/types"
	"github.com/stretchr/testify/require"
)

// staticWitnessSet treats a fixed address set as witnesses regardless of
// which witness_list_block is named, enough to exercise the DAG engine's
// own logic independent of core/witness.
type staticWitnessSet map[common.Address]bool

func (s staticWitnessSet) IsWitness(_ common.Hash, author common.Address) bool {
	return s[author]
}

func addr(b byte) common.Address {
	var a common.Address
	a[0] = b
	return a
}

// addUnit admits a unit authored by author with the given parents,
// disambiguated by seq so hashes never collide, and returns its NodeID.
func addUnit(t *testing.T, g *Graph, author common.Address, parents []NodeID, seq uint64) NodeID {
	t.Helper()
	u := &types.Unit{Author: author, Timestamp: seq, Kind: types.KindDag}
	id, err := g.AddUnit(u, parents)
	require.NoError(t, err)
	return id
}
