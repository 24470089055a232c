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

// UnlinkBlock is the holding form core/unhandled persists for a
// not-yet-admissible unit: bookkeeping only, evicted on
// resolution, timeout, or capacity pressure.
type UnlinkBlock struct {
	UnitHash          common.Hash
	DependencyHashes  []common.Hash
	Transactions      []common.Hash
	Approves          []common.Hash
	Item              []byte
}

func (u *UnlinkBlock) Encode() []byte {
	deps := make([]rlp.Value, len(u.DependencyHashes))
	for i, h := range u.DependencyHashes {
		deps[i] = rlp.Bytes(h.Bytes())
	}
	txs := make([]rlp.Value, len(u.Transactions))
	for i, h := range u.Transactions {
		txs[i] = rlp.Bytes(h.Bytes())
	}
	aps := make([]rlp.Value, len(u.Approves))
	for i, h := range u.Approves {
		aps[i] = rlp.Bytes(h.Bytes())
	}
	v := rlp.List(
		rlp.Bytes(u.UnitHash.Bytes()),
		rlp.ListOf(deps),
		rlp.ListOf(txs),
		rlp.ListOf(aps),
		rlp.Bytes(u.Item),
	)
	return rlp.Encode(v)
}

func DecodeUnlinkBlock(b []byte) (*UnlinkBlock, error) {
	v, rest, err := rlp.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("types: decode unlink block: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("types: decode unlink block: trailing bytes")
	}
	items, err := v.AsList()
	if err != nil || len(items) != 5 {
		return nil, fmt.Errorf("types: decode unlink block: malformed")
	}
	deps, err := items[1].AsList()
	if err != nil {
		return nil, err
	}
	txs, err := items[2].AsList()
	if err != nil {
		return nil, err
	}
	aps, err := items[3].AsList()
	if err != nil {
		return nil, err
	}
	return &UnlinkBlock{
		UnitHash:         common.BytesToHash(items[0].Str),
		DependencyHashes: hashList(deps),
		Transactions:     hashList(txs),
		Approves:         hashList(aps),
		Item:             items[4].Str,
	}, nil
}

// Resolved reports whether every dependency dimension has been cleared —
// the unit is ready to be handed back to the processor for reprocessing.
func (u *UnlinkBlock) Resolved() bool {
	return len(u.DependencyHashes) == 0 && len(u.Transactions) == 0 && len(u.Approves) == 0
}
