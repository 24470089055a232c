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

func genEpochRecord(t *rapid.T) *EpochRecord {
	n := rapid.IntRange(0, 6).Draw(t, "witness_n")
	set := make([]common.Address, n)
	for i := range set {
		set[i] = genAddress(t, "witness")
	}
	return &EpochRecord{
		Epoch:      rapid.Uint64().Draw(t, "epoch"),
		WitnessSet: set,
	}
}

func TestEpochRecordEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := genEpochRecord(t)
		got, err := DecodeEpochRecord(e.Encode())
		require.NoError(t, err)
		require.Equal(t, e, got)
	})
}

func TestEpochRecordIsWitness(t *testing.T) {
	member := genAddressStatic(1)
	stranger := genAddressStatic(2)
	e := &EpochRecord{Epoch: 1, WitnessSet: []common.Address{member}}

	require.True(t, e.IsWitness(member))
	require.False(t, e.IsWitness(stranger))
}

func TestEpochOfAndIsEpochBoundary(t *testing.T) {
	require.Equal(t, uint64(0), EpochOf(5, 0))
	require.Equal(t, uint64(2), EpochOf(25, 10))
	require.False(t, IsEpochBoundary(5, 10))
	require.True(t, IsEpochBoundary(20, 10))
	require.False(t, IsEpochBoundary(20, 0))
}

func genAddressStatic(b byte) common.Address {
	var a common.Address
	a[0] = b
	return a
}
