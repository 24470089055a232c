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

// ActionKind tags a Trace's variant. Traces are a tagged union rather
// than a Call/Create/Suicide inheritance hierarchy.
type ActionKind byte

const (
	ActionCall ActionKind = iota
	ActionCreate
	ActionSuicide
)

// CallAction is the payload when Kind == ActionCall.
type CallAction struct {
	From  common.Address
	To    common.Address
	Value []byte // big-endian minimal encoding
	Gas   uint64
	Input []byte
}

// CreateAction is the payload when Kind == ActionCreate.
type CreateAction struct {
	From  common.Address
	Value []byte
	Gas   uint64
	Init  []byte
}

// SuicideAction is the payload when Kind == ActionSuicide.
type SuicideAction struct {
	Address       common.Address
	RefundAddress common.Address
	Balance       []byte
}

// Result carries the outcome of the traced action; GasUsed/Output are set
// on success, Error on failure (mutually exclusive).
type Result struct {
	GasUsed         uint64
	Output          []byte
	CreatedAddress  common.Address
	HasCreatedAddr  bool
	Error           string
}

// Trace is one call-graph node recorded during execution, in execution
// order. Depth is the call-stack depth at the time the
// action began; subtrace counts and trace-address vectors are reproduced
// post-hoc by a caller walking Depth across the ordered list, not stored
// here.
type Trace struct {
	Depth  int
	Kind   ActionKind
	Call   *CallAction
	Create *CreateAction
	Suicide *SuicideAction
	Result Result
}

func encodeAddrOrZero(a common.Address) rlp.Value { return rlp.Bytes(a.Bytes()) }

func (t *Trace) body() rlp.Value {
	var action rlp.Value
	switch t.Kind {
	case ActionCall:
		a := t.Call
		action = rlp.List(encodeAddrOrZero(a.From), encodeAddrOrZero(a.To), rlp.Bytes(a.Value), rlp.Uint64(a.Gas), rlp.Bytes(a.Input))
	case ActionCreate:
		a := t.Create
		action = rlp.List(encodeAddrOrZero(a.From), rlp.Bytes(a.Value), rlp.Uint64(a.Gas), rlp.Bytes(a.Init))
	case ActionSuicide:
		a := t.Suicide
		action = rlp.List(encodeAddrOrZero(a.Address), encodeAddrOrZero(a.RefundAddress), rlp.Bytes(a.Balance))
	}
	result := rlp.List(
		rlp.Uint64(t.Result.GasUsed),
		rlp.Bytes(t.Result.Output),
		rlp.Bytes(t.Result.CreatedAddress.Bytes()),
		rlp.Uint64(boolToU64(t.Result.HasCreatedAddr)),
		rlp.Bytes([]byte(t.Result.Error)),
	)
	return rlp.List(
		rlp.Uint64(uint64(t.Depth)),
		rlp.Uint64(uint64(t.Kind)),
		action,
		result,
	)
}

func (t *Trace) Encode() []byte { return rlp.Encode(t.body()) }

func DecodeTrace(b []byte) (*Trace, error) {
	v, rest, err := rlp.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("types: decode trace: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("types: decode trace: trailing bytes")
	}
	items, err := v.AsList()
	if err != nil || len(items) != 4 {
		return nil, fmt.Errorf("types: decode trace: malformed")
	}
	depth, err := items[0].AsUint64()
	if err != nil {
		return nil, fmt.Errorf("types: decode trace: depth: %w", err)
	}
	kind, err := items[1].AsUint64()
	if err != nil {
		return nil, fmt.Errorf("types: decode trace: kind: %w", err)
	}
	t := &Trace{Depth: int(depth), Kind: ActionKind(kind)}
	action, err := items[2].AsList()
	if err != nil {
		return nil, fmt.Errorf("types: decode trace: action: %w", err)
	}
	switch t.Kind {
	case ActionCall:
		if len(action) != 5 {
			return nil, fmt.Errorf("types: decode trace: call action malformed")
		}
		gas, err := action[3].AsUint64()
		if err != nil {
			return nil, err
		}
		t.Call = &CallAction{
			From:  common.BytesToAddress(action[0].Str),
			To:    common.BytesToAddress(action[1].Str),
			Value: action[2].Str,
			Gas:   gas,
			Input: action[4].Str,
		}
	case ActionCreate:
		if len(action) != 4 {
			return nil, fmt.Errorf("types: decode trace: create action malformed")
		}
		gas, err := action[2].AsUint64()
		if err != nil {
			return nil, err
		}
		t.Create = &CreateAction{
			From:  common.BytesToAddress(action[0].Str),
			Value: action[1].Str,
			Gas:   gas,
			Init:  action[3].Str,
		}
	case ActionSuicide:
		if len(action) != 3 {
			return nil, fmt.Errorf("types: decode trace: suicide action malformed")
		}
		t.Suicide = &SuicideAction{
			Address:       common.BytesToAddress(action[0].Str),
			RefundAddress: common.BytesToAddress(action[1].Str),
			Balance:       action[2].Str,
		}
	default:
		return nil, fmt.Errorf("types: decode trace: unknown kind %d", kind)
	}
	result, err := items[3].AsList()
	if err != nil || len(result) != 5 {
		return nil, fmt.Errorf("types: decode trace: result malformed")
	}
	gasUsed, err := result[0].AsUint64()
	if err != nil {
		return nil, err
	}
	hasAddr, err := result[3].AsUint64()
	if err != nil {
		return nil, err
	}
	t.Result = Result{
		GasUsed:        gasUsed,
		Output:         result[1].Str,
		CreatedAddress: common.BytesToAddress(result[2].Str),
		HasCreatedAddr: hasAddr != 0,
		Error:          string(result[4].Str),
	}
	return t, nil
}
