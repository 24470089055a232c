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

// AccountInfo is the per-address pointer pair kept in column 001/002
// (dag_account_info / account_info): the newest stabilised and newest
// seen transaction-chain heads for an address.
type AccountInfo struct {
	LatestStableBlock common.Hash
	LatestLinked      common.Hash
}

func (a *AccountInfo) Encode() []byte {
	v := rlp.List(rlp.Bytes(a.LatestStableBlock.Bytes()), rlp.Bytes(a.LatestLinked.Bytes()))
	return rlp.Encode(v)
}

func DecodeAccountInfo(b []byte) (*AccountInfo, error) {
	v, rest, err := rlp.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("types: decode account info: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("types: decode account info: trailing bytes")
	}
	items, err := v.AsList()
	if err != nil || len(items) != 2 {
		return nil, fmt.Errorf("types: decode account info: malformed")
	}
	return &AccountInfo{
		LatestStableBlock: common.BytesToHash(items[0].Str),
		LatestLinked:      common.BytesToHash(items[1].Str),
	}, nil
}
