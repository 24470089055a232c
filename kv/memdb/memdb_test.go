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

package memdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/computecoin-network/Olympus/kv"
)

func newTestDB() kv.DB {
	return New([]string{kv.Blocks, kv.Prop})
}

func TestPutGetRoundTrip(t *testing.T) {
	db := newTestDB()
	ctx := context.Background()

	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		return tx.Put(kv.Blocks, []byte("k"), []byte("v"))
	}))
	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		v, err := tx.GetOne(kv.Blocks, []byte("k"))
		require.NoError(t, err)
		require.Equal(t, []byte("v"), v)
		return nil
	}))
}

func TestRollbackDiscardsWrites(t *testing.T) {
	db := newTestDB()
	ctx := context.Background()

	rw, err := db.BeginRw(ctx)
	require.NoError(t, err)
	require.NoError(t, rw.Put(kv.Blocks, []byte("k"), []byte("v")))
	rw.Rollback()

	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		v, err := tx.GetOne(kv.Blocks, []byte("k"))
		require.NoError(t, err)
		require.Nil(t, v)
		return nil
	}))
}

func TestReadTxDoesNotSeeConcurrentUncommittedWrites(t *testing.T) {
	db := newTestDB()
	ctx := context.Background()

	roBefore, err := db.BeginRo(ctx)
	require.NoError(t, err)

	rw, err := db.BeginRw(ctx)
	require.NoError(t, err)
	require.NoError(t, rw.Put(kv.Blocks, []byte("k"), []byte("v")))

	v, err := roBefore.GetOne(kv.Blocks, []byte("k"))
	require.NoError(t, err)
	require.Nil(t, v, "a snapshot taken before the write must not observe it")

	require.NoError(t, rw.Commit())

	roAfter, err := db.BeginRo(ctx)
	require.NoError(t, err)
	v, err = roAfter.GetOne(kv.Blocks, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)
}

func TestRwTxObservesItsOwnPriorWrites(t *testing.T) {
	db := newTestDB()
	ctx := context.Background()

	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		if err := tx.Put(kv.Blocks, []byte("k"), []byte("v1")); err != nil {
			return err
		}
		v, err := tx.GetOne(kv.Blocks, []byte("k"))
		require.NoError(t, err)
		require.Equal(t, []byte("v1"), v)

		require.NoError(t, tx.Delete(kv.Blocks, []byte("k")))
		v, err = tx.GetOne(kv.Blocks, []byte("k"))
		require.NoError(t, err)
		require.Nil(t, v)
		return nil
	}))
}

func TestDeleteRangeBoundsAreLoInclusiveHiExclusive(t *testing.T) {
	db := newTestDB()
	ctx := context.Background()

	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		for _, k := range []string{"a1", "a2", "a3", "b1"} {
			if err := tx.Put(kv.Blocks, []byte(k), []byte(k)); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		return tx.DeleteRange(kv.Blocks, []byte("a1"), []byte("a3"))
	}))

	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		for k, want := range map[string]bool{"a1": false, "a2": false, "a3": true, "b1": true} {
			has, err := tx.Has(kv.Blocks, []byte(k))
			require.NoError(t, err)
			require.Equal(t, want, has, k)
		}
		return nil
	}))
}

func TestCounterAddFloorsAtZero(t *testing.T) {
	db := newTestDB()
	ctx := context.Background()

	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		v, err := tx.CounterAdd("x", 2)
		require.NoError(t, err)
		require.Equal(t, uint64(2), v)
		v, err = tx.CounterAdd("x", -10)
		require.NoError(t, err)
		require.Equal(t, uint64(0), v)
		return nil
	}))
}

func TestUnknownTableReturnsError(t *testing.T) {
	db := newTestDB()
	ctx := context.Background()
	require.Error(t, db.View(ctx, func(tx kv.Tx) error {
		_, err := tx.GetOne("not_a_table", []byte("k"))
		return err
	}))
}

func TestForwardCursorIteratesInSortedOrder(t *testing.T) {
	db := newTestDB()
	ctx := context.Background()
	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		for _, k := range []string{"c", "a", "b"} {
			if err := tx.Put(kv.Blocks, []byte(k), []byte(k)); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		c, err := tx.ForwardCursor(kv.Blocks, nil)
		require.NoError(t, err)
		defer c.Close()
		var got []string
		for {
			k, _, ok, err := c.Next()
			require.NoError(t, err)
			if !ok {
				break
			}
			got = append(got, string(k))
		}
		require.Equal(t, []string{"a", "b", "c"}, got)
		return nil
	}))
}
