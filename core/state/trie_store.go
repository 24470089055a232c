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
	"sort"

	"github.com/computecoin-network/Olympus/common"
	"github.com/computecoin-network/Olympus/crypto"
	"github.com/computecoin-network/Olympus/kv"
	"github.com/computecoin-network/Olympus/rlp"
)

// TrieStore commits storage overlays into column 014 (contract_main),
// keyed by storage_root. There is no Merkle-Patricia-trie implementation
// anywhere in the available reference material, so this is a
// from-scratch minimal structure: a
// storage root is a content hash over the change-set that produced it
// plus a pointer to its parent root, the same "chain of content-addressed
// snapshots" shape core/types.AccountState already uses for the account
// chain itself. Lookups walk the parent chain until a leaf is found or
// the empty root is reached.
type TrieStore struct {
	tx kv.Getter
}

func NewTrieStore(tx kv.Getter) *TrieStore { return &TrieStore{tx: tx} }

const (
	trieParentPrefix = 0x00
	trieLeafPrefix    = 0x01
)

func parentKey(root common.Hash) []byte {
	return append([]byte{trieParentPrefix}, root.Bytes()...)
}

func leafKey(root common.Hash, key common.Hash) []byte {
	b := make([]byte, 0, 1+common.HashLength*2)
	b = append(b, trieLeafPrefix)
	b = append(b, root.Bytes()...)
	b = append(b, key.Bytes()...)
	return b
}

// Get walks the root chain for value, returning nil if key was never set
// under any ancestor of root.
func (t *TrieStore) Get(root common.Hash, key common.Hash) ([]byte, error) {
	r := root
	for !r.IsZero() {
		v, err := t.tx.GetOne(kv.ContractMain, leafKey(r, key))
		if err != nil {
			return nil, err
		}
		if v != nil {
			return v, nil
		}
		parent, err := t.tx.GetOne(kv.ContractMain, parentKey(r))
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, nil
		}
		r = common.BytesToHash(parent)
	}
	return nil, nil
}

// Commit derives a new root from oldRoot and changes, persists the
// changed leaves plus the parent pointer, and returns the new root. An
// empty changes map is a no-op that returns oldRoot unchanged.
func Commit(rw kv.Putter, oldRoot common.Hash, changes map[common.Hash][]byte) (common.Hash, error) {
	if len(changes) == 0 {
		return oldRoot, nil
	}
	keys := make([]common.Hash, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	items := make([]rlp.Value, 0, len(keys)+1)
	items = append(items, rlp.Bytes(oldRoot.Bytes()))
	for _, k := range keys {
		items = append(items, rlp.List(rlp.Bytes(k.Bytes()), rlp.Bytes(changes[k])))
	}
	newRoot := crypto.Keccak256(rlp.Encode(rlp.ListOf(items)))

	if err := rw.Put(kv.ContractMain, parentKey(newRoot), oldRoot.Bytes()); err != nil {
		return common.Hash{}, err
	}
	for _, k := range keys {
		if err := rw.Put(kv.ContractMain, leafKey(newRoot, k), changes[k]); err != nil {
			return common.Hash{}, err
		}
	}
	return newRoot, nil
}

// EmptyRoot is the zero hash, denoting a trie with no entries.
var EmptyRoot = common.Hash{}
