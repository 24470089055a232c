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

package state

import (
	"bytes"
	"sort"

	"github.com/holiman/uint256"

	"github.com/computecoin-network/Olympus/common"
	"github.com/computecoin-network/Olympus/core/types"
	"github.com/computecoin-network/Olympus/crypto"
	"github.com/computecoin-network/Olympus/kv"
)

// accountOverlay holds one account's mutable view for the duration of a
// single transaction. Reads
// consult storageOverlay first, then storageOriginal, then fall through
// to the trie rooted at the committed storage_root.
type accountOverlay struct {
	original *types.AccountState // nil if the account did not exist before this tx

	nonce   uint64
	balance []byte
	code    []byte
	hasCode bool
	alive   bool

	storageOverlay  map[common.Hash][]byte
	storageOriginal map[common.Hash][]byte
}

func newAccountOverlay(original *types.AccountState) *accountOverlay {
	o := &accountOverlay{
		original:        original,
		alive:           true,
		storageOverlay:  map[common.Hash][]byte{},
		storageOriginal: map[common.Hash][]byte{},
	}
	if original != nil {
		o.nonce = original.Nonce
		if original.Balance != nil {
			o.balance = original.Balance.Bytes()
		}
		o.alive = original.Alive
	}
	return o
}

// Overlay is the per-transaction working set over every account touched
// so far (the IntraBlockState-equivalent collaborator the EVM façade in
// core/vm drives).
type Overlay struct {
	reader   StateReader
	accounts map[common.Address]*accountOverlay
	trie     *TrieStore
}

func NewOverlay(reader StateReader, trie *TrieStore) *Overlay {
	return &Overlay{reader: reader, accounts: map[common.Address]*accountOverlay{}, trie: trie}
}

// Reader exposes the committed-state view this overlay was built on, so
// a caller deriving a post-execution summary (e.g. vm.Executor's receipt
// construction) reads against the same transaction snapshot the overlay
// itself consulted.
func (o *Overlay) Reader() StateReader { return o.reader }

func (o *Overlay) account(addr common.Address) (*accountOverlay, error) {
	if acc, ok := o.accounts[addr]; ok {
		return acc, nil
	}
	original, err := o.reader.ReadAccountData(addr)
	if err != nil {
		return nil, err
	}
	acc := newAccountOverlay(original)
	o.accounts[addr] = acc
	return acc, nil
}

// StorageValue implements the state layer's read order: overlay hit, else
// original-cache hit, else the trie rooted at storage_root.
func (o *Overlay) StorageValue(addr common.Address, key common.Hash) ([]byte, error) {
	acc, err := o.account(addr)
	if err != nil {
		return nil, err
	}
	if v, ok := acc.storageOverlay[key]; ok {
		return v, nil
	}
	if v, ok := acc.storageOriginal[key]; ok {
		return v, nil
	}
	var root common.Hash
	if acc.original != nil {
		root = acc.original.StorageRoot
	}
	v, err := o.trie.Get(root, key)
	if err != nil {
		return nil, err
	}
	acc.storageOriginal[key] = v
	return v, nil
}

func (o *Overlay) SetStorage(addr common.Address, key common.Hash, value []byte) error {
	acc, err := o.account(addr)
	if err != nil {
		return err
	}
	acc.storageOverlay[key] = value
	return nil
}

// ClearStorage blanks both overlays and resets the account's effective
// storage root to the empty trie.
func (o *Overlay) ClearStorage(addr common.Address) error {
	acc, err := o.account(addr)
	if err != nil {
		return err
	}
	acc.storageOverlay = map[common.Hash][]byte{}
	acc.storageOriginal = map[common.Hash][]byte{}
	return nil
}

// Kill marks the account dead; it is garbage-collected at commit.
func (o *Overlay) Kill(addr common.Address) error {
	acc, err := o.account(addr)
	if err != nil {
		return err
	}
	acc.alive = false
	acc.storageOverlay = map[common.Hash][]byte{}
	acc.storageOriginal = map[common.Hash][]byte{}
	acc.code = nil
	acc.hasCode = true
	return nil
}

func (o *Overlay) IsAlive(addr common.Address) (bool, error) {
	acc, err := o.account(addr)
	if err != nil {
		return false, err
	}
	return acc.alive, nil
}

func (o *Overlay) IncNonce(addr common.Address) error {
	acc, err := o.account(addr)
	if err != nil {
		return err
	}
	acc.nonce++
	return nil
}

// SetNonce is reserved for reverting a prior IncNonce.
func (o *Overlay) SetNonce(addr common.Address, n uint64) error {
	acc, err := o.account(addr)
	if err != nil {
		return err
	}
	acc.nonce = n
	return nil
}

// SetCode is permitted only during contract creation; callers must
// verify the resulting CodeHash matches the intended hash themselves.
func (o *Overlay) SetCode(addr common.Address, code []byte) error {
	acc, err := o.account(addr)
	if err != nil {
		return err
	}
	acc.code = code
	acc.hasCode = true
	return nil
}

// Flush persists every account this overlay touched, in ascending
// address order so the resulting AccountState chain is built
// deterministically across nodes. Storage writes are committed through
// the trie rooted at the account's prior storage_root; everything else
// goes through writer. Returns the touched addresses, for a caller that
// needs to advance per-address bookkeeping (e.g. AccountInfo).
func (o *Overlay) Flush(rw kv.Putter, writer StateWriter, containingBlock common.Hash) ([]common.Address, error) {
	addrs := make([]common.Address, 0, len(o.accounts))
	for addr := range o.accounts {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return bytes.Compare(addrs[i][:], addrs[j][:]) < 0 })

	for _, addr := range addrs {
		acc := o.accounts[addr]
		if !acc.alive {
			if err := writer.DeleteAccount(addr, acc.original); err != nil {
				return nil, err
			}
			continue
		}

		var oldRoot, codeHash common.Hash
		if acc.original != nil {
			oldRoot = acc.original.StorageRoot
			codeHash = acc.original.CodeHash
		}
		newRoot, err := Commit(rw, oldRoot, acc.storageOverlay)
		if err != nil {
			return nil, err
		}
		if acc.hasCode {
			codeHash = crypto.Keccak256(acc.code)
			if err := writer.WriteAccountCode(addr, codeHash, acc.code); err != nil {
				return nil, err
			}
		}

		balance := new(uint256.Int)
		if acc.balance != nil {
			balance.SetBytes(acc.balance)
		}
		next := &types.AccountState{
			Address:         addr,
			ContainingBlock: containingBlock,
			Nonce:           acc.nonce,
			Balance:         balance,
			StorageRoot:     newRoot,
			CodeHash:        codeHash,
			Alive:           true,
		}
		if acc.original != nil {
			next.PreviousStateHash = acc.original.Hash()
		}
		if err := writer.WriteAccountData(addr, acc.original, next); err != nil {
			return nil, err
		}
	}
	return addrs, nil
}
