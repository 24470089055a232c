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

// Status is the validation/consensus status of a unit.
type Status byte

const (
	StatusUnknown Status = 0
	StatusOK      Status = 1
	StatusFork    Status = 2
	StatusInvalid Status = 3
	StatusFail    Status = 4
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFork:
		return "fork"
	case StatusInvalid:
		return "invalid"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// UnitState is the DAG engine's derived bookkeeping for one unit — kept in
// column 007 (block_state), separate from the immutable Unit body so the
// DAG engine can rewrite it (main-chain reassignment, stabilisation) without
// re-touching the content-addressed unit record.
type UnitState struct {
	Status Status

	IsStable    bool
	StableIndex uint64

	// HasMainChainIndex is false while the unit is not under any MC unit.
	HasMainChainIndex bool
	MainChainIndex    uint64

	Level          uint64
	WitnessedLevel uint64

	MCTimestamp    uint64
	StableTimestamp uint64

	IsFree        bool
	IsOnMainChain bool

	EarliestIncludedMCIndex   uint64
	LatestIncludedMCIndex     uint64
	BPIncludedMCIndex         uint64
	EarliestBPIncludedMCIndex uint64
	LatestBPIncludedMCIndex   uint64

	BestParent common.Hash

	// HasReceipt is set for light units whose transaction executed.
	HasReceipt bool
	Receipt    common.Hash
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (s *UnitState) Encode() []byte {
	v := rlp.List(
		rlp.Uint64(uint64(s.Status)),
		rlp.Uint64(boolToU64(s.IsStable)),
		rlp.Uint64(s.StableIndex),
		rlp.Uint64(boolToU64(s.HasMainChainIndex)),
		rlp.Uint64(s.MainChainIndex),
		rlp.Uint64(s.Level),
		rlp.Uint64(s.WitnessedLevel),
		rlp.Uint64(s.MCTimestamp),
		rlp.Uint64(s.StableTimestamp),
		rlp.Uint64(boolToU64(s.IsFree)),
		rlp.Uint64(boolToU64(s.IsOnMainChain)),
		rlp.Uint64(s.EarliestIncludedMCIndex),
		rlp.Uint64(s.LatestIncludedMCIndex),
		rlp.Uint64(s.BPIncludedMCIndex),
		rlp.Uint64(s.EarliestBPIncludedMCIndex),
		rlp.Uint64(s.LatestBPIncludedMCIndex),
		rlp.Bytes(s.BestParent.Bytes()),
		rlp.Uint64(boolToU64(s.HasReceipt)),
		rlp.Bytes(s.Receipt.Bytes()),
	)
	return rlp.Encode(v)
}

func DecodeUnitState(b []byte) (*UnitState, error) {
	v, rest, err := rlp.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("types: decode unit state: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("types: decode unit state: trailing bytes")
	}
	items, err := v.AsList()
	if err != nil || len(items) != 19 {
		return nil, fmt.Errorf("types: decode unit state: malformed")
	}
	u64 := func(i int) (uint64, error) { return items[i].AsUint64() }
	s := &UnitState{}
	n, err := u64(0)
	if err != nil {
		return nil, err
	}
	s.Status = Status(n)
	if n, err = u64(1); err != nil {
		return nil, err
	}
	s.IsStable = n != 0
	if s.StableIndex, err = u64(2); err != nil {
		return nil, err
	}
	if n, err = u64(3); err != nil {
		return nil, err
	}
	s.HasMainChainIndex = n != 0
	if s.MainChainIndex, err = u64(4); err != nil {
		return nil, err
	}
	if s.Level, err = u64(5); err != nil {
		return nil, err
	}
	if s.WitnessedLevel, err = u64(6); err != nil {
		return nil, err
	}
	if s.MCTimestamp, err = u64(7); err != nil {
		return nil, err
	}
	if s.StableTimestamp, err = u64(8); err != nil {
		return nil, err
	}
	if n, err = u64(9); err != nil {
		return nil, err
	}
	s.IsFree = n != 0
	if n, err = u64(10); err != nil {
		return nil, err
	}
	s.IsOnMainChain = n != 0
	if s.EarliestIncludedMCIndex, err = u64(11); err != nil {
		return nil, err
	}
	if s.LatestIncludedMCIndex, err = u64(12); err != nil {
		return nil, err
	}
	if s.BPIncludedMCIndex, err = u64(13); err != nil {
		return nil, err
	}
	if s.EarliestBPIncludedMCIndex, err = u64(14); err != nil {
		return nil, err
	}
	if s.LatestBPIncludedMCIndex, err = u64(15); err != nil {
		return nil, err
	}
	s.BestParent = common.BytesToHash(items[16].Str)
	if n, err = u64(17); err != nil {
		return nil, err
	}
	s.HasReceipt = n != 0
	s.Receipt = common.BytesToHash(items[18].Str)
	return s, nil
}

// UnassignMainChain clears the main-chain pointer on reorg without
// touching stabilisation fields — the no-reexecution invariant requires
// Receipt/IsStable/StableIndex to survive an MC reassignment.
func (s *UnitState) UnassignMainChain() {
	s.HasMainChainIndex = false
	s.MainChainIndex = 0
	s.IsOnMainChain = false
}
