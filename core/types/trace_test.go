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
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func genResult(t *rapid.T) Result {
	return Result{
		GasUsed:        rapid.Uint64().Draw(t, "result_gas_used"),
		Output:         rapid.SliceOfN(rapid.Uint8(), 0, 16).Draw(t, "result_output"),
		CreatedAddress: genAddress(t, "result_created_address"),
		HasCreatedAddr: rapid.Bool().Draw(t, "result_has_created_addr"),
		Error:          string(rapid.SliceOfN(rapid.Uint8(), 0, 16).Draw(t, "result_error")),
	}
}

func genTrace(t *rapid.T, kind ActionKind) *Trace {
	tr := &Trace{
		Depth:  rapid.IntRange(0, 32).Draw(t, "depth"),
		Kind:   kind,
		Result: genResult(t),
	}
	switch kind {
	case ActionCall:
		tr.Call = &CallAction{
			From:  genAddress(t, "call_from"),
			To:    genAddress(t, "call_to"),
			Value: rapid.SliceOfN(rapid.Uint8(), 0, 16).Draw(t, "call_value"),
			Gas:   rapid.Uint64().Draw(t, "call_gas"),
			Input: rapid.SliceOfN(rapid.Uint8(), 0, 16).Draw(t, "call_input"),
		}
	case ActionCreate:
		tr.Create = &CreateAction{
			From:  genAddress(t, "create_from"),
			Value: rapid.SliceOfN(rapid.Uint8(), 0, 16).Draw(t, "create_value"),
			Gas:   rapid.Uint64().Draw(t, "create_gas"),
			Init:  rapid.SliceOfN(rapid.Uint8(), 0, 16).Draw(t, "create_init"),
		}
	case ActionSuicide:
		tr.Suicide = &SuicideAction{
			Address:       genAddress(t, "suicide_address"),
			RefundAddress: genAddress(t, "suicide_refund"),
			Balance:       rapid.SliceOfN(rapid.Uint8(), 0, 16).Draw(t, "suicide_balance"),
		}
	}
	return tr
}

func TestTraceEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		kind := ActionKind(rapid.IntRange(0, 2).Draw(t, "kind"))
		tr := genTrace(t, kind)
		got, err := DecodeTrace(tr.Encode())
		require.NoError(t, err)

		require.Equal(t, tr.Depth, got.Depth)
		require.Equal(t, tr.Kind, got.Kind)
		switch kind {
		case ActionCall:
			require.Equal(t, tr.Call.From, got.Call.From)
			require.Equal(t, tr.Call.To, got.Call.To)
			require.True(t, bytesEqual(tr.Call.Value, got.Call.Value))
			require.Equal(t, tr.Call.Gas, got.Call.Gas)
			require.True(t, bytesEqual(tr.Call.Input, got.Call.Input))
		case ActionCreate:
			require.Equal(t, tr.Create.From, got.Create.From)
			require.True(t, bytesEqual(tr.Create.Value, got.Create.Value))
			require.Equal(t, tr.Create.Gas, got.Create.Gas)
			require.True(t, bytesEqual(tr.Create.Init, got.Create.Init))
		case ActionSuicide:
			require.Equal(t, tr.Suicide.Address, got.Suicide.Address)
			require.Equal(t, tr.Suicide.RefundAddress, got.Suicide.RefundAddress)
			require.True(t, bytesEqual(tr.Suicide.Balance, got.Suicide.Balance))
		}
		require.Equal(t, tr.Result.GasUsed, got.Result.GasUsed)
		require.True(t, bytesEqual(tr.Result.Output, got.Result.Output))
		require.Equal(t, tr.Result.CreatedAddress, got.Result.CreatedAddress)
		require.Equal(t, tr.Result.HasCreatedAddr, got.Result.HasCreatedAddr)
		require.Equal(t, tr.Result.Error, got.Result.Error)
	})
}
