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

// Package vm is the EVM façade. The opcode interpreter itself is an
// external collaborator, out of scope here, so this package owns only
// the surrounding contract: gas floor accounting, Receipt/Trace emission
// and the Committed/Uncommitted/Reverted permanence rule the block
// processor and eth_call-style read paths both need.
package vm

import (
	"errors"

	"github.com/computecoin-network/Olympus/common"
	"github.com/computecoin-network/Olympus/core/state"
	"github.com/computecoin-network/Olympus/core/types"
)

// BaseGas is the unconditional floor every transaction consumes before
// any opcode runs.
const BaseGas = 21000

// Permanence controls whether Execute's state mutations are flushed.
type Permanence byte

const (
	// Committed flushes writes to the store — the path a stabilised
	// light unit's transaction takes.
	Committed Permanence = iota
	// Uncommitted discards writes — used by eth_call/estimateGas.
	Uncommitted
	// Reverted mirrors the fail path used internally when execution
	// itself signals failure.
	Reverted
)

// Exception classifies why execution did not fully succeed.
type Exception byte

const (
	ExceptionNone Exception = iota
	ExceptionOutOfGas
	ExceptionReverted
	ExceptionInvalidOpcode
	ExceptionExecutionError
)

var ErrOutOfGas = errors.New("vm: out of gas")

// Transaction is the minimal envelope the façade executes; the real
// field set (access lists, EIP-1559 fee fields, ...) belongs to the
// external transaction-pool/RPC boundary and is intentionally not
// reproduced here.
type Transaction struct {
	From     common.Address
	To       *common.Address // nil = contract creation
	Value    []byte
	GasLimit uint64
	Data     []byte
}

// Env carries the block-scoped parameters execution needs (block hash,
// MCI, timestamp, coinbase-equivalent author) without coupling the façade to
// the DAG engine's Unit type directly.
type Env struct {
	BlockHash common.Hash
	MCI       uint64
	Timestamp uint64
	Author    common.Address
}

// Result is what Execute returns alongside the Receipt.
type Result struct {
	GasUsed         uint64
	GasRefunded     uint64
	Exception       Exception
	Output          []byte
	CreatedAddress  common.Address
	HasCreatedAddr  bool
	ModifiedAddrs   []common.Address
}

// Interpreter is the external collaborator that actually runs bytecode;
// Execute drives it and handles everything around it (gas floor, state
// commit/discard, trace/receipt assembly).
type Interpreter interface {
	Run(env Env, overlay *state.Overlay, tx Transaction) (Result, []types.Trace, error)
}

// Executor ties a StateReader/Writer pair and an Interpreter together
// into the single execute(state, env, tx, permanence) contract the
// state layer names.
type Executor struct {
	Reader      state.StateReader
	Writer      state.StateWriter
	Interpreter Interpreter
}

func NewExecutor(reader state.StateReader, writer state.StateWriter, interp Interpreter) *Executor {
	return &Executor{Reader: reader, Writer: writer, Interpreter: interp}
}

// Execute runs tx against overlay and returns the execution result plus
// the receipt to persist. permanence tells the caller whether to go on
// to flush overlay into Writer, and Reverted also empties ModifiedAddrs
// (so the receipt has no ToStates) — Execute itself never
// writes through Writer; the caller (core/processor) does that once a
// unit is confirmed stable, keeping Execute safe to call speculatively
// (eth_call) without touching the store.
func (e *Executor) Execute(overlay *state.Overlay, env Env, tx Transaction, permanence Permanence) (Result, *types.Receipt, []types.Trace, error) {
	if tx.GasLimit < BaseGas {
		return Result{Exception: ExceptionOutOfGas}, nil, nil, ErrOutOfGas
	}
	res, traces, err := e.Interpreter.Run(env, overlay, tx)
	if err != nil {
		return Result{Exception: ExceptionExecutionError}, nil, traces, err
	}
	if permanence == Reverted {
		res.ModifiedAddrs = nil
	}

	reader := overlay.Reader()
	fromState, err := stateHashOf(reader, tx.From)
	if err != nil {
		return res, nil, traces, err
	}
	toStates := make([]common.Hash, 0, len(res.ModifiedAddrs))
	for _, addr := range res.ModifiedAddrs {
		h, err := stateHashOf(reader, addr)
		if err != nil {
			return res, nil, traces, err
		}
		toStates = append(toStates, h)
	}

	receipt := &types.Receipt{
		FromState: fromState,
		ToStates:  toStates,
		GasUsed:   res.GasUsed,
	}
	return res, receipt, traces, nil
}

func stateHashOf(reader state.StateReader, addr common.Address) (common.Hash, error) {
	acc, err := reader.ReadAccountData(addr)
	if err != nil {
		return common.Hash{}, err
	}
	if acc == nil {
		return common.Hash{}, nil
	}
	return acc.Hash(), nil
}
