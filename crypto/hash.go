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

// Package crypto provides the hashing, signing and VRF-style proof
// primitives used to identify and authenticate units, transactions and
// approve messages.
package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/computecoin-network/Olympus/common"
)

// Keccak256 hashes b and returns the 32-byte digest.
func Keccak256(b ...[]byte) common.Hash {
	d := sha3.NewLegacyKeccak256()
	for _, chunk := range b {
		d.Write(chunk)
	}
	var out common.Hash
	d.Sum(out[:0])
	return out
}

// Keccak256Bytes is Keccak256 returning a plain slice, useful at RLP/KV
// call sites that don't want to thread common.Hash through.
func Keccak256Bytes(b ...[]byte) []byte {
	h := Keccak256(b...)
	return h[:]
}
