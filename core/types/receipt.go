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

// BloomLength matches the 2048-bit log bloom filter go-ethereum-family
// EVMs use; kept the same width so an external indexer can reuse
// off-the-shelf bloom math.
const BloomLength = 256

type Bloom [BloomLength]byte

// LogEntry is one event emitted during execution.
type LogEntry struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// Receipt is the content-hashed execution outcome of a light unit's
// transaction.
type Receipt struct {
	FromState  common.Hash
	ToStates   []common.Hash
	GasUsed    uint64
	Bloom      Bloom
	LogEntries []LogEntry
}

func (r *Receipt) body() rlp.Value {
	toStates := make([]rlp.Value, len(r.ToStates))
	for i, h := range r.ToStates {
		toStates[i] = rlp.Bytes(h.Bytes())
	}
	logs := make([]rlp.Value, len(r.LogEntries))
	for i, l := range r.LogEntries {
		topics := make([]rlp.Value, len(l.Topics))
		for j, t := range l.Topics {
			topics[j] = rlp.Bytes(t.Bytes())
		}
		logs[i] = rlp.List(rlp.Bytes(l.Address.Bytes()), rlp.ListOf(topics), rlp.Bytes(l.Data))
	}
	return rlp.List(
		rlp.Bytes(r.FromState.Bytes()),
		rlp.ListOf(toStates),
		rlp.Uint64(r.GasUsed),
		rlp.Bytes(r.Bloom[:]),
		rlp.ListOf(logs),
	)
}

func (r *Receipt) Hash() common.Hash {
	return crypto.Keccak256(rlp.Encode(r.body()))
}

func (r *Receipt) Encode() []byte {
	return rlp.Encode(r.body())
}

func DecodeReceipt(b []byte) (*Receipt, error) {
	v, rest, err := rlp.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("types: decode receipt: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("types: decode receipt: trailing bytes")
	}
	items, err := v.AsList()
	if err != nil || len(items) != 5 {
		return nil, fmt.Errorf("types: decode receipt: malformed")
	}
	toStatesV, err := items[1].AsList()
	if err != nil {
		return nil, fmt.Errorf("types: decode receipt: to_states: %w", err)
	}
	gasUsed, err := items[2].AsUint64()
	if err != nil {
		return nil, fmt.Errorf("types: decode receipt: gas_used: %w", err)
	}
	logsV, err := items[4].AsList()
	if err != nil {
		return nil, fmt.Errorf("types: decode receipt: logs: %w", err)
	}
	r := &Receipt{
		FromState: common.BytesToHash(items[0].Str),
		ToStates:  hashList(toStatesV),
		GasUsed:   gasUsed,
	}
	copy(r.Bloom[:], items[3].Str)
	r.LogEntries = make([]LogEntry, len(logsV))
	for i, lv := range logsV {
		fields, err := lv.AsList()
		if err != nil || len(fields) != 3 {
			return nil, fmt.Errorf("types: decode receipt: log %d: malformed", i)
		}
		topicsV, err := fields[1].AsList()
		if err != nil {
			return nil, fmt.Errorf("types: decode receipt: log %d topics: %w", i, err)
		}
		r.LogEntries[i] = LogEntry{
			Address: common.BytesToAddress(fields[0].Str),
			Topics:  hashList(topicsV),
			Data:    fields[2].Str,
		}
	}
	return r, nil
}
