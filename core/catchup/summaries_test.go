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

package catchup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/computecoin-network/Olympus/common"
	"github.com/computecoin-network/Olympus/core/types"
	"github.com/computecoin-network/Olympus/kv"
	"github.com/computecoin-network/Olympus/kv/memdb"
)

func TestRecordAndResolveSummary(t *testing.T) {
	db := memdb.New(kv.ChaindataTables)
	defer db.Close()

	unitHash := common.BytesToHash([]byte("unit-a"))
	summary := &types.UnitSummary{UnitHash: unitHash, MCI: 10, StableIndex: 9, IsOnMainChain: true}

	require.NoError(t, db.Update(context.Background(), func(tx kv.RwTx) error {
		return RecordSummary(tx, summary, unitHash, common.Hash{}, 5)
	}))

	require.NoError(t, db.View(context.Background(), func(tx kv.Tx) error {
		summaryHash := summary.Hash()

		r, ok, err := RangeOf(tx, summaryHash)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, Range{FromMCI: 5, ToMCI: 10}, r)

		got, ok, err := SummaryOfUnit(tx, unitHash)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, summaryHash, got)

		backUnit, ok, err := UnitOfSummary(tx, summaryHash)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, unitHash, backUnit)

		_, ok, err = NextSummary(tx, summaryHash)
		require.NoError(t, err)
		require.False(t, ok)
		return nil
	}))
}

func TestNextSummaryChainsForward(t *testing.T) {
	db := memdb.New(kv.ChaindataTables)
	defer db.Close()

	first := &types.UnitSummary{UnitHash: common.BytesToHash([]byte("u1")), MCI: 1}
	second := &types.UnitSummary{UnitHash: common.BytesToHash([]byte("u2")), MCI: 2}

	require.NoError(t, db.Update(context.Background(), func(tx kv.RwTx) error {
		if err := RecordSummary(tx, first, first.UnitHash, common.Hash{}, 0); err != nil {
			return err
		}
		return RecordSummary(tx, second, second.UnitHash, first.Hash(), 1)
	}))

	require.NoError(t, db.View(context.Background(), func(tx kv.Tx) error {
		next, ok, err := NextSummary(tx, first.Hash())
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, second.Hash(), next)
		return nil
	}))
}
