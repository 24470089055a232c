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
	"github.com/computecoin-network/Olympus/crypto"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func genUnit(t *rapid.T) *Unit {
	return &Unit{
		Previous:         genHash(t, "previous"),
		Parents:          genHashes(t, "parents", 4),
		Links:            genHashes(t, "links", 4),
		Approves:         genHashes(t, "approves", 4),
		LastSummaryBlock: genHash(t, "last_summary_block"),
		LastSummary:      genHash(t, "last_summary"),
		WitnessListBlock: genHash(t, "witness_list_block"),
		Author:           genAddress(t, "author"),
		Timestamp:        rapid.Uint64().Draw(t, "timestamp"),
		Kind:             Kind(rapid.IntRange(0, 1).Draw(t, "kind")),
	}
}

func TestUnitEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		u := genUnit(t)
		require.NoError(t, u.Sign(testKey()))

		enc := u.Encode()
		got, err := DecodeUnit(enc)
		require.NoError(t, err)

		require.Equal(t, u.Previous, got.Previous)
		require.Equal(t, u.Parents, got.Parents)
		require.Equal(t, u.Links, got.Links)
		require.Equal(t, u.Approves, got.Approves)
		require.Equal(t, u.LastSummaryBlock, got.LastSummaryBlock)
		require.Equal(t, u.LastSummary, got.LastSummary)
		require.Equal(t, u.WitnessListBlock, got.WitnessListBlock)
		require.Equal(t, u.Author, got.Author)
		require.Equal(t, u.Timestamp, got.Timestamp)
		require.Equal(t, u.Kind, got.Kind)
		require.Equal(t, u.Signature, got.Signature)
		require.Equal(t, u.Hash(), got.Hash())
	})
}

func TestUnitHashExcludesSignature(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		u := genUnit(t)
		before := u.Hash()
		require.NoError(t, u.Sign(testKey()))
		require.Equal(t, before, u.Hash(), "signing must not change the content hash")
	})
}

func TestUnitSignRecoversAuthor(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		u := genUnit(t)
		key := testKey()
		addr, err := key.Address()
		require.NoError(t, err)
		u.Author = addr

		require.NoError(t, u.Sign(key))
		recovered, err := crypto.RecoverAddress(u.Hash(), u.Signature)
		require.NoError(t, err)
		require.Equal(t, addr, recovered)
	})
}

func TestUnitIsGenesis(t *testing.T) {
	u := &Unit{}
	require.True(t, u.IsGenesis())

	u.Parents = []common.Hash{genHashStatic()}
	require.False(t, u.IsGenesis())
}

func genHashStatic() common.Hash {
	var h common.Hash
	h[0] = 1
	return h
}
