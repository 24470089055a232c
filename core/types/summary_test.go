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

func genUnitSummary(t *rapid.T) *UnitSummary {
	return &UnitSummary{
		UnitHash:      genHash(t, "unit_hash"),
		MCI:           rapid.Uint64().Draw(t, "mci"),
		StableIndex:   rapid.Uint64().Draw(t, "stable_index"),
		IsOnMainChain: rapid.Bool().Draw(t, "is_on_main_chain"),
	}
}

func TestUnitSummaryEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := genUnitSummary(t)
		got, err := DecodeUnitSummary(s.Encode())
		require.NoError(t, err)
		require.Equal(t, s, got)
		require.Equal(t, s.Hash(), got.Hash())
	})
}

func TestSuccessorKeyMatchesPreviousHash(t *testing.T) {
	h := genHashStatic()
	require.True(t, bytesEqual(h.Bytes(), SuccessorKey(h)))
}
