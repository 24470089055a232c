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

// DefaultMaxSkiplistDepth bounds how many powers of ten a skiplist
// entry set carries (OQ5): past this many steps the chain is so long
// that exponential-step reachability queries degrade gracefully to a
// direct main-chain walk instead of growing the entry set further.
const DefaultMaxSkiplistDepth = 18

// SkiplistEntry is one precomputed ancestor pointer.
type SkiplistEntry struct {
	MCI       uint64
	BlockHash common.Hash
}

// Skiplist is the precomputed set of ancestor main-chain units at
// exponentially spaced indices for a given main-chain unit. Steps are powers of ten (OQ5): mci-1, mci-10, mci-100,
// ... for as long as the step does not exceed mci, capped at
// MaxSkiplistDepth entries.
type Skiplist struct {
	Entries []SkiplistEntry
}

// BuildSkiplist computes the canonical step set for a main-chain unit at
// index mci, resolving each ancestor MCI via ancestorAt (typically a
// main-chain column lookup). maxDepth <= 0 defaults to
// DefaultMaxSkiplistDepth.
func BuildSkiplist(mci uint64, maxDepth int, ancestorAt func(uint64) common.Hash) Skiplist {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxSkiplistDepth
	}
	var entries []SkiplistEntry
	step := uint64(1)
	for i := 0; i < maxDepth && step <= mci; i++ {
		target := mci - step
		entries = append(entries, SkiplistEntry{MCI: target, BlockHash: ancestorAt(target)})
		if step > (^uint64(0))/10 {
			break
		}
		step *= 10
	}
	return Skiplist{Entries: entries}
}

func (s *Skiplist) Encode() []byte {
	items := make([]rlp.Value, len(s.Entries))
	for i, e := range s.Entries {
		items[i] = rlp.List(rlp.Uint64(e.MCI), rlp.Bytes(e.BlockHash.Bytes()))
	}
	return rlp.Encode(rlp.ListOf(items))
}

func DecodeSkiplist(b []byte) (*Skiplist, error) {
	v, rest, err := rlp.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("types: decode skiplist: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("types: decode skiplist: trailing bytes")
	}
	items, err := v.AsList()
	if err != nil {
		return nil, fmt.Errorf("types: decode skiplist: %w", err)
	}
	s := &Skiplist{Entries: make([]SkiplistEntry, len(items))}
	for i, it := range items {
		fields, err := it.AsList()
		if err != nil || len(fields) != 2 {
			return nil, fmt.Errorf("types: decode skiplist: entry %d malformed", i)
		}
		mci, err := fields[0].AsUint64()
		if err != nil {
			return nil, err
		}
		s.Entries[i] = SkiplistEntry{MCI: mci, BlockHash: common.BytesToHash(fields[1].Str)}
	}
	return s, nil
}

// NearestAtOrBelow returns the entry with the greatest MCI <= target, if
// any — the lookup a cross-MCI reachability query uses.
func (s *Skiplist) NearestAtOrBelow(target uint64) (SkiplistEntry, bool) {
	var best SkiplistEntry
	found := false
	for _, e := range s.Entries {
		if e.MCI <= target && (!found || e.MCI > best.MCI) {
			best = e
			found = true
		}
	}
	return best, found
}
