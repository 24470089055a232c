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
	"bytes"
	"encoding/hex"

	"github.com/computecoin-network/Olympus/common"
	"github.com/computecoin-network/Olympus/crypto"
	"pgregory.net/rapid"
)

// bytesEqual compares byte slices ignoring the nil-vs-empty distinction
// rlp round trips can introduce.
func bytesEqual(a, b []byte) bool {
	return bytes.Equal(a, b)
}

// testKey is a fixed valid secp256k1 scalar used only to exercise
// Sign/Hash round trips; never used for anything but tests.
func testKey() *crypto.PrivateKey {
	d, err := hex.DecodeString("8017a18cf0c48aad618d8fd7ee0ab64a1e8e86f2bcdbe6f549113f5fce2fc918")
	if err != nil {
		panic(err)
	}
	return &crypto.PrivateKey{D: d}
}

func genHash(t *rapid.T, label string) common.Hash {
	b := rapid.SliceOfN(rapid.Uint8(), common.HashLength, common.HashLength).Draw(t, label)
	return common.BytesToHash(b)
}

func genAddress(t *rapid.T, label string) common.Address {
	b := rapid.SliceOfN(rapid.Uint8(), common.AddressLength, common.AddressLength).Draw(t, label)
	return common.BytesToAddress(b)
}

func genHashes(t *rapid.T, label string, max int) []common.Hash {
	n := rapid.IntRange(0, max).Draw(t, label+"_n")
	out := make([]common.Hash, n)
	for i := range out {
		out[i] = genHash(t, label)
	}
	return out
}
