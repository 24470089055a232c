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

// Package state implements the account-state layer: a
// StateReader/StateWriter split fronted by a per-transaction overlay
// (IntraBlockState) that the EVM façade in core/vm commits or discards
// depending on Permanence.
package state

import (
	"github.com/computecoin-network/Olympus/common"
	"github.com/computecoin-network/Olympus/core/types"
)

// StateReader exposes read access to the committed (column 003/004)
// account-state chain.
type StateReader interface {
	ReadAccountData(addr common.Address) (*types.AccountState, error)
	ReadAccountStorage(addr common.Address, key common.Hash) ([]byte, error)
	ReadAccountCode(addr common.Address, codeHash common.Hash) ([]byte, error)
	ReadAccountCodeSize(addr common.Address, codeHash common.Hash) (int, error)
}

// StateWriter exposes the mutations a stabilised light unit's execution
// produces. original is the account state prior to this transaction
// (nil for newly created accounts), used by writers that need to compute
// a diff (e.g. a log/trace indexer) without re-reading from the store.
type StateWriter interface {
	WriteAccountData(addr common.Address, original, account *types.AccountState) error
	WriteAccountStorage(addr common.Address, key common.Hash, original, value []byte) error
	WriteAccountCode(addr common.Address, codeHash common.Hash, code []byte) error
	DeleteAccount(addr common.Address, original *types.AccountState) error
}
