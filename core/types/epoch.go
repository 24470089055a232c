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
	"fmt"

	"github.com/computecoin-network/Olympus/common"
	"github.com/computecoin-network/Olympus/rlp"
)

// EpochRecord is the witness set elected for one epoch.
// It carries no reward ledger — the den/rewards subsystem is out of
// scope (OQ3).
type EpochRecord struct {
	Epoch      uint64
	WitnessSet []common.Address
}

func (e *EpochRecord) Encode() []byte {
	items := make([]rlp.Value, len(e.WitnessSet))
	for i, a := range e.WitnessSet {
		items[i] = rlp.Bytes(a.Bytes())
	}
	return rlp.Encode(rlp.List(rlp.Uint64(e.Epoch), rlp.ListOf(items)))
}

func DecodeEpochRecord(b []byte) (*EpochRecord, error) {
	v, rest, err := rlp.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("types: decode epoch record: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("types: decode epoch record: trailing bytes")
	}
	items, err := v.AsList()
	if err != nil || len(items) != 2 {
		return nil, fmt.Errorf("types: decode epoch record: malformed")
	}
	epoch, err := items[0].AsUint64()
	if err != nil {
		return nil, fmt.Errorf("types: decode epoch record: epoch: %w", err)
	}
	witnessesV, err := items[1].AsList()
	if err != nil {
		return nil, fmt.Errorf("types: decode epoch record: witness set: %w", err)
	}
	e := &EpochRecord{Epoch: epoch, WitnessSet: make([]common.Address, len(witnessesV))}
	for i, wv := range witnessesV {
		e.WitnessSet[i] = common.BytesToAddress(wv.Str)
	}
	return e, nil
}

// IsWitness reports whether addr is a member of the epoch's witness set.
func (e *EpochRecord) IsWitness(addr common.Address) bool {
	for _, w := range e.WitnessSet {
		if w == addr {
			return true
		}
	}
	return false
}

// EpochOf maps a main-chain index to its epoch number given the period.
func EpochOf(mci, epochPeriod uint64) uint64 {
	if epochPeriod == 0 {
		return 0
	}
	return mci / epochPeriod
}

// IsEpochBoundary reports whether mci closes an epoch (mci ≡ 0 mod period).
func IsEpochBoundary(mci, epochPeriod uint64) bool {
	return epochPeriod != 0 && mci%epochPeriod == 0
}
