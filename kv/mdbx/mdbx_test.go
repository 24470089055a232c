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

package mdbx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/computecoin-network/Olympus/kv"
)

const testMapSize = 64 << 20 // 64MiB, plenty for these small fixtures

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir(), kv.ChaindataTables, kv.ChaindataTablesCfg, testMapSize)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	return db
}

func TestOpenRejectsSecondWriterOnSameDatadir(t *testing.T) {
	dir := t.TempDir()
	db1, err := Open(dir, kv.ChaindataTables, kv.ChaindataTablesCfg, testMapSize)
	require.NoError(t, err)
	defer db1.Close()

	_, err = Open(dir, kv.ChaindataTables, kv.ChaindataTablesCfg, testMapSize)
	require.Error(t, err, "a second process must not be able to open the same datadir")
}

func TestPutGetRoundTripAndMissingKey(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		return tx.Put(kv.Blocks, []byte("k1"), []byte("v1"))
	}))

	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		v, err := tx.GetOne(kv.Blocks, []byte("k1"))
		require.NoError(t, err)
		require.Equal(t, []byte("v1"), v)

		has, err := tx.Has(kv.Blocks, []byte("k1"))
		require.NoError(t, err)
		require.True(t, has)

		missing, err := tx.GetOne(kv.Blocks, []byte("nope"))
		require.NoError(t, err)
		require.Nil(t, missing)
		return nil
	}))
}

func TestUpdateRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Update(ctx, func(tx kv.RwTx) error {
		_ = tx.Put(kv.Blocks, []byte("never"), []byte("committed"))
		return context.Canceled
	})
	require.ErrorIs(t, err, context.Canceled)

	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		v, err := tx.GetOne(kv.Blocks, []byte("never"))
		require.NoError(t, err)
		require.Nil(t, v, "a failed Update must not persist its writes")
		return nil
	}))
}

func TestDeleteAndDeleteRange(t *testing.T) {
	db := openTestDB(t)
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
		has, _ := tx.Has(kv.Blocks, []byte("a1"))
		require.False(t, has)
		has, _ = tx.Has(kv.Blocks, []byte("a2"))
		require.False(t, has)
		has, _ = tx.Has(kv.Blocks, []byte("a3"))
		require.True(t, has, "DeleteRange's hi bound is exclusive")
		has, _ = tx.Has(kv.Blocks, []byte("b1"))
		require.True(t, has)
		return nil
	}))

	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		return tx.Delete(kv.Blocks, []byte("b1"))
	}))
	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		has, _ := tx.Has(kv.Blocks, []byte("b1"))
		require.False(t, has)
		return nil
	}))
}

func TestCounterAddGetDel(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		v, err := tx.CounterAdd("pending_size", 3)
		require.NoError(t, err)
		require.Equal(t, uint64(3), v)
		v, err = tx.CounterAdd("pending_size", -1)
		require.NoError(t, err)
		require.Equal(t, uint64(2), v)
		v, err = tx.CounterAdd("pending_size", -100)
		require.NoError(t, err)
		require.Equal(t, uint64(0), v, "counters floor at zero, never go negative")
		return nil
	}))

	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		v, err := tx.CounterGet("pending_size")
		require.NoError(t, err)
		require.Equal(t, uint64(0), v)
		return nil
	}))

	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		_, err := tx.CounterAdd("pending_size", 5)
		require.NoError(t, err)
		return tx.CounterDel("pending_size")
	}))
	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		v, err := tx.CounterGet("pending_size")
		require.NoError(t, err)
		require.Equal(t, uint64(0), v, "a deleted counter reads back as zero")
		return nil
	}))
}

func TestForwardAndReverseCursorOrdering(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	keys := []string{"k1", "k2", "k3"}
	require.NoError(t, db.Update(ctx, func(tx kv.RwTx) error {
		for _, k := range keys {
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
		require.Equal(t, keys, got)
		return nil
	}))

	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		c, err := tx.ReverseCursor(kv.Blocks, nil)
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
		require.Equal(t, []string{"k3", "k2", "k1"}, got)
		return nil
	}))

	require.NoError(t, db.View(ctx, func(tx kv.Tx) error {
		c, err := tx.ForwardCursor(kv.Blocks, []byte("k2"))
		require.NoError(t, err)
		defer c.Close()
		k, _, ok, err := c.Next()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "k2", string(k))
		return nil
	}))
}

func TestUnknownTableErrors(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	require.Error(t, db.View(ctx, func(tx kv.Tx) error {
		_, err := tx.GetOne("not_a_real_table", []byte("x"))
		return err
	}))
}
