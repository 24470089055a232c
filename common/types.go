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

// Package common holds the fixed-width primitives shared across the ledger:
// 20-byte addresses and 32/64-byte hashes.
package common

import (
	"encoding/hex"
	"fmt"
)

const (
	AddressLength = 20
	HashLength    = 32
	Hash512Length = 64
	SigLength     = 65
)

// Address is a 20-byte account identifier.
type Address [AddressLength]byte

func BytesToAddress(b []byte) (a Address) {
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

func (a Address) Bytes() []byte  { return a[:] }
func (a Address) IsZero() bool   { return a == Address{} }
func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

// Hash is the 32-byte content hash used for unit/transaction/state identity.
type Hash [HashLength]byte

func BytesToHash(b []byte) (h Hash) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

func (h Hash) Bytes() []byte   { return h[:] }
func (h Hash) IsZero() bool    { return h == Hash{} }
func (h Hash) String() string  { return "0x" + hex.EncodeToString(h[:]) }
func (h Hash) Cmp(o Hash) int  { return bytesCmp(h[:], o[:]) }
func (h Hash) Less(o Hash) bool { return h.Cmp(o) < 0 }

// Hash512 is a 64-byte digest, used for the secp256k1 public key encoding.
type Hash512 [Hash512Length]byte

func (h Hash512) Bytes() []byte { return h[:] }

// Signature is the 65-byte r||s||v envelope used for unit and approve
// authentication.
type Signature [SigLength]byte

func (s Signature) R() []byte { return s[0:32] }
func (s Signature) S() []byte { return s[32:64] }
func (s Signature) V() byte   { return s[64] }

func bytesCmp(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// HashesEqual reports whether two hashes hold the same value.
func HashesEqual(a, b Hash) bool { return a == b }

// ParseHexHash decodes a 0x-prefixed hex string into a Hash, erroring on
// anything but exactly HashLength bytes.
func ParseHexHash(s string) (Hash, error) {
	if len(s) >= 2 && (s[0:2] == "0x" || s[0:2] == "0X") {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("parse hash %q: %w", s, err)
	}
	if len(b) != HashLength {
		return Hash{}, fmt.Errorf("parse hash %q: want %d bytes, got %d", s, HashLength, len(b))
	}
	return BytesToHash(b), nil
}
