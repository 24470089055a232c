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
	"fmt"

	"github.com/computecoin-network/Olympus/common"
	"github.com/computecoin-network/Olympus/core/types"
	"github.com/computecoin-network/Olympus/kv"
)

// KVReader is the committed-state StateReader backed directly by the
// column store: column 004 (latest_account_state) maps an address to its
// tip snapshot's content hash, column 003 (account_state) maps that hash
// to the encoded snapshot, and column 024 (contract_aux) maps a code hash
// to the code bytes.
type KVReader struct {
	tx   kv.Getter
	trie *TrieStore
}

func NewKVReader(tx kv.Getter) *KVReader {
	return &KVReader{tx: tx, trie: NewTrieStore(tx)}
}

func (r *KVReader) ReadAccountData(addr common.Address) (*types.AccountState, error) {
	tip, err := r.tx.GetOne(kv.LatestAccountState, addr.Bytes())
	if err != nil {
		return nil, fmt.Errorf("state: read latest account state %s: %w", addr, err)
	}
	if tip == nil {
		return nil, nil
	}
	enc, err := r.tx.GetOne(kv.AccountState, tip)
	if err != nil {
		return nil, fmt.Errorf("state: read account state %x: %w", tip, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("state: dangling account state pointer for %s", addr)
	}
	return types.DecodeAccountState(enc)
}

func (r *KVReader) ReadAccountStorage(addr common.Address, key common.Hash) ([]byte, error) {
	acc, err := r.ReadAccountData(addr)
	if err != nil {
		return nil, err
	}
	var root common.Hash
	if acc != nil {
		root = acc.StorageRoot
	}
	return r.trie.Get(root, key)
}

func (r *KVReader) ReadAccountCode(addr common.Address, codeHash common.Hash) ([]byte, error) {
	if codeHash.IsZero() {
		return nil, nil
	}
	code, err := r.tx.GetOne(kv.ContractAux, codeHash.Bytes())
	if err != nil {
		return nil, fmt.Errorf("state: read code %s: %w", codeHash, err)
	}
	return code, nil
}

func (r *KVReader) ReadAccountCodeSize(addr common.Address, codeHash common.Hash) (int, error) {
	code, err := r.ReadAccountCode(addr, codeHash)
	if err != nil {
		return 0, err
	}
	return len(code), nil
}

// KVWriter persists the account-state chain and code cache at
// stabilisation time. Storage-trie commits are handled
// separately via state.Commit since they need the per-account change set
// the overlay already tracked, not a single key/value pair.
type KVWriter struct {
	rw kv.Putter
}

func NewKVWriter(rw kv.Putter) *KVWriter { return &KVWriter{rw: rw} }

func (w *KVWriter) WriteAccountData(addr common.Address, original, account *types.AccountState) error {
	h := account.Hash()
	if err := w.rw.Put(kv.AccountState, h.Bytes(), account.Encode()); err != nil {
		return fmt.Errorf("state: write account state %s: %w", addr, err)
	}
	if err := w.rw.Put(kv.LatestAccountState, addr.Bytes(), h.Bytes()); err != nil {
		return fmt.Errorf("state: write latest account state %s: %w", addr, err)
	}
	return nil
}

func (w *KVWriter) WriteAccountStorage(addr common.Address, key common.Hash, original, value []byte) error {
	// Storage leaves are committed in bulk via state.Commit against the
	// account's TrieStore once all the transaction's overlay writes for
	// that account are known; this method is a no-op that only satisfies
	// StateWriter and persists nothing.
	return nil
}

func (w *KVWriter) WriteAccountCode(addr common.Address, codeHash common.Hash, code []byte) error {
	if err := w.rw.Put(kv.ContractAux, codeHash.Bytes(), code); err != nil {
		return fmt.Errorf("state: write code %s: %w", codeHash, err)
	}
	return nil
}

func (w *KVWriter) DeleteAccount(addr common.Address, original *types.AccountState) error {
	dead := &types.AccountState{Address: addr, Alive: false}
	if original != nil {
		dead.ContainingBlock = original.ContainingBlock
		dead.PreviousStateHash = original.Hash()
	}
	return w.WriteAccountData(addr, original, dead)
}
