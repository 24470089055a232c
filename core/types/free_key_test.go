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

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFreeKeyEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k := FreeKey{
			MCI:      rapid.Uint64().Draw(t, "mci"),
			UnitHash: genHash(t, "unit_hash"),
		}
		got, err := DecodeFreeKey(k.Encode())
		require.NoError(t, err)
		require.Equal(t, k, got)
	})
}

func TestFreeKeyOrdersByMCIThenHash(t *testing.T) {
	low := FreeKey{MCI: 1, UnitHash: genHashStatic()}
	high := FreeKey{MCI: 2, UnitHash: genHashStatic()}
	require.True(t, string(low.Encode()) < string(high.Encode()))
}

func TestDecodeFreeKeyRejectsBadLength(t *testing.T) {
	_, err := DecodeFreeKey([]byte{1, 2, 3})
	require.Error(t, err)
}
