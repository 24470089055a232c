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

package rlp

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := genValue(t, 3)
		enc := Encode(v)
		got, rest, err := Decode(enc)
		require.NoError(t, err)
		require.Empty(t, rest)
		require.True(t, valuesEqual(v, got), "round trip mismatch: %+v != %+v", v, got)
	})
}

func TestUint64RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		want := rapid.Uint64().Draw(t, "n")
		enc := Encode(Uint64(want))
		v, rest, err := Decode(enc)
		require.NoError(t, err)
		require.Empty(t, rest)
		got, err := v.AsUint64()
		require.NoError(t, err)
		require.Equal(t, want, got)
	})
}

func TestEmptyListRoundTrip(t *testing.T) {
	enc := Encode(List())
	v, rest, err := Decode(enc)
	require.NoError(t, err)
	require.Empty(t, rest)
	items, err := v.AsList()
	require.NoError(t, err)
	require.Empty(t, items)
}

func genValue(t *rapid.T, depth int) Value {
	if depth == 0 || rapid.Bool().Draw(t, "leaf") {
		n := rapid.IntRange(0, 64).Draw(t, "len")
		b := rapid.SliceOfN(rapid.Uint8(), n, n).Draw(t, "bytes")
		return Bytes(b)
	}
	n := rapid.IntRange(0, 4).Draw(t, "items")
	items := make([]Value, n)
	for i := range items {
		items[i] = genValue(t, depth-1)
	}
	return ListOf(items)
}

func valuesEqual(a, b Value) bool {
	if a.IsList != b.IsList {
		return false
	}
	if !a.IsList {
		if len(a.Str) == 0 && len(b.Str) == 0 {
			return true
		}
		if len(a.Str) != len(b.Str) {
			return false
		}
		for i := range a.Str {
			if a.Str[i] != b.Str[i] {
				return false
			}
		}
		return true
	}
	if len(a.List) != len(b.List) {
		return false
	}
	for i := range a.List {
		if !valuesEqual(a.List[i], b.List[i]) {
			return false
		}
	}
	return true
}
