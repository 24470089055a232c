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

	"github.com/holiman/uint256"

	"github.com/computecoin-network/Olympus/common"
	"github.com/computecoin-network/Olympus/crypto"
	"github.com/computecoin-network/Olympus/rlp"
)

// AccountState is a content-addressed snapshot of one address's balance
// sheet as of ContainingBlock, linked to its predecessor via
// PreviousStateHash.
type AccountState struct {
	Address           common.Address
	ContainingBlock    common.Hash
	PreviousStateHash common.Hash
	Nonce             uint64
	Balance           *uint256.Int
	StorageRoot       common.Hash
	CodeHash          common.Hash
	Alive             bool
}

func (a *AccountState) body() rlp.Value {
	balance := a.Balance
	if balance == nil {
		balance = new(uint256.Int)
	}
	return rlp.List(
		rlp.Bytes(a.Address.Bytes()),
		rlp.Bytes(a.ContainingBlock.Bytes()),
		rlp.Bytes(a.PreviousStateHash.Bytes()),
		rlp.Uint64(a.Nonce),
		rlp.Bytes(balance.Bytes()),
		rlp.Bytes(a.StorageRoot.Bytes()),
		rlp.Bytes(a.CodeHash.Bytes()),
		rlp.Uint64(boolToU64(a.Alive)),
	)
}

// Hash content-addresses the snapshot for storage under column 003
// (account_state).
func (a *AccountState) Hash() common.Hash {
	return crypto.Keccak256(rlp.Encode(a.body()))
}

func (a *AccountState) Encode() []byte {
	return rlp.Encode(a.body())
}

func DecodeAccountState(b []byte) (*AccountState, error) {
	v, rest, err := rlp.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("types: decode account state: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("types: decode account state: trailing bytes")
	}
	items, err := v.AsList()
	if err != nil || len(items) != 8 {
		return nil, fmt.Errorf("types: decode account state: malformed")
	}
	nonce, err := items[3].AsUint64()
	if err != nil {
		return nil, fmt.Errorf("types: decode account state: nonce: %w", err)
	}
	alive, err := items[7].AsUint64()
	if err != nil {
		return nil, fmt.Errorf("types: decode account state: alive: %w", err)
	}
	return &AccountState{
		Address:           common.BytesToAddress(items[0].Str),
		ContainingBlock:    common.BytesToHash(items[1].Str),
		PreviousStateHash: common.BytesToHash(items[2].Str),
		Nonce:             nonce,
		Balance:           new(uint256.Int).SetBytes(items[4].Str),
		StorageRoot:       common.BytesToHash(items[5].Str),
		CodeHash:          common.BytesToHash(items[6].Str),
		Alive:             alive != 0,
	}, nil
}

// IsEmpty governs state-trie pruning: an account with no
// balance, no nonce history and no code is prunable.
func (a *AccountState) IsEmpty() bool {
	return (a.Balance == nil || a.Balance.IsZero()) && a.Nonce == 0 && a.CodeHash.IsZero()
}
