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

// Package types holds the ledger's entities: units, their
// per-unit derived state, account snapshots, receipts/traces, skiplists
// and the witness/approve/epoch records. Each entity owns an RLP
// encode/decode pair instead of the reflection-driven struct tags
// erigon's own rlp package would generate, since rlp here is a hand
// rolled primitive (see package rlp's doc comment).
package types

import (
	"fmt"

	"github.com/computecoin-network/Olympus/common"
	"github.com/computecoin-network/Olympus/crypto"
	"github.com/computecoin-network/Olympus/rlp"
)

// Kind distinguishes a consensus-bearing unit from a transaction-bearing one.
type Kind byte

const (
	KindDag   Kind = 0
	KindLight Kind = 1
)

// Unit is a block in the DAG. Previous may be
// the zero hash only for genesis; Parents is non-empty for every other
// unit.
type Unit struct {
	Previous         common.Hash
	Parents          []common.Hash
	Links            []common.Hash
	Approves         []common.Hash
	LastSummaryBlock common.Hash
	LastSummary      common.Hash
	WitnessListBlock common.Hash
	Author           common.Address
	Timestamp        uint64
	Kind             Kind
	Signature        common.Signature
}

// body returns the RLP value carrying everything but the signature — the
// tree that is both hashed for identity and signed.
func (u *Unit) body() rlp.Value {
	parents := make([]rlp.Value, len(u.Parents))
	for i, h := range u.Parents {
		parents[i] = rlp.Bytes(h.Bytes())
	}
	links := make([]rlp.Value, len(u.Links))
	for i, h := range u.Links {
		links[i] = rlp.Bytes(h.Bytes())
	}
	approves := make([]rlp.Value, len(u.Approves))
	for i, h := range u.Approves {
		approves[i] = rlp.Bytes(h.Bytes())
	}
	return rlp.List(
		rlp.Bytes(u.Previous.Bytes()),
		rlp.ListOf(parents),
		rlp.ListOf(links),
		rlp.ListOf(approves),
		rlp.Bytes(u.LastSummaryBlock.Bytes()),
		rlp.Bytes(u.LastSummary.Bytes()),
		rlp.Bytes(u.WitnessListBlock.Bytes()),
		rlp.Bytes(u.Author.Bytes()),
		rlp.Uint64(u.Timestamp),
		rlp.Uint64(uint64(u.Kind)),
	)
}

// Hash is the unit's content identity: keccak256 of the RLP of its
// contents excluding the signature and any bulky trace/receipt data.
func (u *Unit) Hash() common.Hash {
	return crypto.Keccak256(rlp.Encode(u.body()))
}

// Sign populates Signature by signing Hash() with key.
func (u *Unit) Sign(key *crypto.PrivateKey) error {
	h := u.Hash()
	sig, err := key.Sign(h)
	if err != nil {
		return fmt.Errorf("types: sign unit: %w", err)
	}
	u.Signature = sig
	return nil
}

// Encode serialises the full unit, signature included, for storage in
// column 005/006 (blocks / blocks_data).
func (u *Unit) Encode() []byte {
	v := rlp.List(u.body(), rlp.Bytes(u.Signature.Bytes()))
	return rlp.Encode(v)
}

func DecodeUnit(b []byte) (*Unit, error) {
	v, rest, err := rlp.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("types: decode unit: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("types: decode unit: trailing bytes")
	}
	items, err := v.AsList()
	if err != nil || len(items) != 2 {
		return nil, fmt.Errorf("types: decode unit: malformed envelope")
	}
	body, err := items[0].AsList()
	if err != nil || len(body) != 10 {
		return nil, fmt.Errorf("types: decode unit: malformed body")
	}
	u := &Unit{}
	u.Previous = common.BytesToHash(body[0].Str)
	parents, err := body[1].AsList()
	if err != nil {
		return nil, fmt.Errorf("types: decode unit: parents: %w", err)
	}
	u.Parents = hashList(parents)
	links, err := body[2].AsList()
	if err != nil {
		return nil, fmt.Errorf("types: decode unit: links: %w", err)
	}
	u.Links = hashList(links)
	approves, err := body[3].AsList()
	if err != nil {
		return nil, fmt.Errorf("types: decode unit: approves: %w", err)
	}
	u.Approves = hashList(approves)
	u.LastSummaryBlock = common.BytesToHash(body[4].Str)
	u.LastSummary = common.BytesToHash(body[5].Str)
	u.WitnessListBlock = common.BytesToHash(body[6].Str)
	u.Author = common.BytesToAddress(body[7].Str)
	ts, err := body[8].AsUint64()
	if err != nil {
		return nil, fmt.Errorf("types: decode unit: timestamp: %w", err)
	}
	u.Timestamp = ts
	kind, err := body[9].AsUint64()
	if err != nil {
		return nil, fmt.Errorf("types: decode unit: kind: %w", err)
	}
	u.Kind = Kind(kind)
	sig := items[1].Str
	if len(sig) != len(u.Signature) {
		return nil, fmt.Errorf("types: decode unit: bad signature length %d", len(sig))
	}
	copy(u.Signature[:], sig)
	return u, nil
}

func hashList(items []rlp.Value) []common.Hash {
	out := make([]common.Hash, len(items))
	for i, v := range items {
		out[i] = common.BytesToHash(v.Str)
	}
	return out
}

// IsGenesis reports whether u has no previous unit and no parents.
func (u *Unit) IsGenesis() bool {
	return u.Previous.IsZero() && len(u.Parents) == 0
}
