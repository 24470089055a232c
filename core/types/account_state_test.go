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

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func genAccountState(t *rapid.T) *AccountState {
	balBytes := rapid.SliceOfN(rapid.Uint8(), 0, 32).Draw(t, "balance")
	return &AccountState{
		Address:           genAddress(t, "address"),
		ContainingBlock:    genHash(t, "containing_block"),
		PreviousStateHash: genHash(t, "previous_state_hash"),
		Nonce:             rapid.Uint64().Draw(t, "nonce"),
		Balance:           new(uint256.Int).SetBytes(balBytes),
		StorageRoot:       genHash(t, "storage_root"),
		CodeHash:          genHash(t, "code_hash"),
		Alive:             rapid.Bool().Draw(t, "alive"),
	}
}

func TestAccountStateEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genAccountState(t)
		got, err := DecodeAccountState(a.Encode())
		require.NoError(t, err)

		require.Equal(t, a.Address, got.Address)
		require.Equal(t, a.ContainingBlock, got.ContainingBlock)
		require.Equal(t, a.PreviousStateHash, got.PreviousStateHash)
		require.Equal(t, a.Nonce, got.Nonce)
		require.True(t, a.Balance.Eq(got.Balance))
		require.Equal(t, a.StorageRoot, got.StorageRoot)
		require.Equal(t, a.CodeHash, got.CodeHash)
		require.Equal(t, a.Alive, got.Alive)
		require.Equal(t, a.Hash(), got.Hash())
	})
}

func TestAccountStateIsEmpty(t *testing.T) {
	a := &AccountState{}
	require.True(t, a.IsEmpty())

	a.Nonce = 1
	require.False(t, a.IsEmpty())
}
