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
	"encoding/binary"
	"fmt"

	"github.com/computecoin-network/Olympus/common"
)

// FreeKey orders column 101 (dag_free) by MCI then hash, so tips
// (is_free units) can be enumerated in a bounded scan instead of a full
// table scan — grounded on the original's free-unit index.
type FreeKey struct {
	MCI      uint64
	UnitHash common.Hash
}

// Encode returns the big-endian ordered key: 8-byte MCI followed by the
// 32-byte unit hash, so lexicographic byte order matches (MCI, hash)
// order.
func (k FreeKey) Encode() []byte {
	b := make([]byte, 8+common.HashLength)
	binary.BigEndian.PutUint64(b[:8], k.MCI)
	copy(b[8:], k.UnitHash.Bytes())
	return b
}

func DecodeFreeKey(b []byte) (FreeKey, error) {
	if len(b) != 8+common.HashLength {
		return FreeKey{}, fmt.Errorf("types: decode free key: want %d bytes, got %d", 8+common.HashLength, len(b))
	}
	return FreeKey{
		MCI:      binary.BigEndian.Uint64(b[:8]),
		UnitHash: common.BytesToHash(b[8:]),
	}, nil
}
