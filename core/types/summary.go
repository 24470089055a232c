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
	"github.com/computecoin-network/Olympus/crypto"
	"github.com/computecoin-network/Olympus/rlp"
)

// UnitSummary is the content-addressed snapshot a unit's
// last_summary_block/last_summary fields point at: the stabilised tip
// witnessed by the author at authoring time (columns 011/012/013 —
// block_summary, summary_block, stable_block). Grounded on the original's
// block_store.cpp summary-hash computation.
type UnitSummary struct {
	UnitHash      common.Hash
	MCI           uint64
	StableIndex   uint64
	IsOnMainChain bool
}

func (s *UnitSummary) body() rlp.Value {
	return rlp.List(
		rlp.Bytes(s.UnitHash.Bytes()),
		rlp.Uint64(s.MCI),
		rlp.Uint64(s.StableIndex),
		rlp.Uint64(boolToU64(s.IsOnMainChain)),
	)
}

// Hash identifies the summary — the key stored in column 012
// (summary_block) and referenced from column 016 (catchup_chain_summaries).
func (s *UnitSummary) Hash() common.Hash {
	return crypto.Keccak256(rlp.Encode(s.body()))
}

func (s *UnitSummary) Encode() []byte { return rlp.Encode(s.body()) }

func DecodeUnitSummary(b []byte) (*UnitSummary, error) {
	v, rest, err := rlp.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("types: decode unit summary: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("types: decode unit summary: trailing bytes")
	}
	items, err := v.AsList()
	if err != nil || len(items) != 4 {
		return nil, fmt.Errorf("types: decode unit summary: malformed")
	}
	mci, err := items[1].AsUint64()
	if err != nil {
		return nil, fmt.Errorf("types: decode unit summary: mci: %w", err)
	}
	stableIndex, err := items[2].AsUint64()
	if err != nil {
		return nil, fmt.Errorf("types: decode unit summary: stable index: %w", err)
	}
	onMC, err := items[3].AsUint64()
	if err != nil {
		return nil, fmt.Errorf("types: decode unit summary: is_on_main_chain: %w", err)
	}
	return &UnitSummary{
		UnitHash:      common.BytesToHash(items[0].Str),
		MCI:           mci,
		StableIndex:   stableIndex,
		IsOnMainChain: onMC != 0,
	}, nil
}

// SuccessorKey builds the DupSort key (column 008 successor, and its fork
// counterpart) mapping a previous-unit hash to each of its successors;
// the value under this key is the successor hash itself (DupSort lets
// MDBX hold many values per key).
func SuccessorKey(previous common.Hash) []byte {
	return previous.Bytes()
}
