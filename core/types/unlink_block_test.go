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

package types

import (
	"testing"

	"github.com/computecoin-network/Olympus/common"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func genUnlinkBlock(t *rapid.T) *UnlinkBlock {
	return &UnlinkBlock{
		UnitHash:         genHash(t, "unit_hash"),
		DependencyHashes: genHashes(t, "dependency_hashes", 4),
		Transactions:     genHashes(t, "transactions", 4),
		Approves:         genHashes(t, "approves", 4),
		Item:             rapid.SliceOfN(rapid.Uint8(), 0, 32).Draw(t, "item"),
	}
}

func TestUnlinkBlockEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		u := genUnlinkBlock(t)
		got, err := DecodeUnlinkBlock(u.Encode())
		require.NoError(t, err)

		require.Equal(t, u.UnitHash, got.UnitHash)
		require.Equal(t, u.DependencyHashes, got.DependencyHashes)
		require.Equal(t, u.Transactions, got.Transactions)
		require.Equal(t, u.Approves, got.Approves)
		require.True(t, bytesEqual(u.Item, got.Item))
	})
}

func TestUnlinkBlockResolved(t *testing.T) {
	u := &UnlinkBlock{}
	require.True(t, u.Resolved())

	u.DependencyHashes = []common.Hash{genHashStatic()}
	require.False(t, u.Resolved())
}
