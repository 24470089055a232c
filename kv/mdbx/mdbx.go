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

// Package mdbx is the production kv.DB backend: an MDBX environment with
// one DBI per column, opened under a gofrs/flock lock file so a second
// process can never attach the same datadir as a writer — the
// single-writer discipline for the block processor starts here, at the
// storage layer, not just in the processor's own admission loop.
package mdbx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/erigontech/mdbx-go/mdbx"
	"github.com/gofrs/flock"

	"github.com/computecoin-network/Olympus/kv"
)

// DB wraps an open MDBX environment plus the flock guarding its datadir.
type DB struct {
	env  *mdbx.Env
	dbis map[string]mdbx.DBI
	lock *flock.Flock
	path string
}

// Open creates (if absent) and opens the MDBX environment at path, with
// one DBI per table in cfg. mapSize bounds the environment's virtual
// address space reservation (not actual disk usage); callers size it per
// the ledger's expected scale, e.g. a few hundred GiB.
func Open(path string, tables []string, cfg kv.TableCfg, mapSize uint64) (*DB, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("mdbx: mkdir %s: %w", path, err)
	}

	lock := flock.New(filepath.Join(path, "LOCK"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("mdbx: acquire datadir lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("mdbx: datadir %s is already open by another process", path)
	}

	env, err := mdbx.NewEnv()
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("mdbx: new env: %w", err)
	}
	if err := env.SetOption(mdbx.OptMaxDB, uint64(len(tables))); err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("mdbx: set max dbs: %w", err)
	}
	if err := env.SetGeometry(-1, -1, int(mapSize), -1, -1, -1); err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("mdbx: set geometry: %w", err)
	}
	if err := env.Open(path, mdbx.Coalesce|mdbx.LifoReclaim, 0o644); err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("mdbx: open %s: %w", path, err)
	}

	db := &DB{env: env, dbis: map[string]mdbx.DBI{}, lock: lock, path: path}

	err = env.Update(func(txn *mdbx.Txn) error {
		for _, table := range tables {
			flags := uint(mdbx.Create)
			if item, ok := cfg[table]; ok {
				if item.Flags&kv.DupSort != 0 {
					flags |= mdbx.DupSort
				}
				if item.Flags&kv.IntegerKey != 0 {
					flags |= mdbx.IntegerKey
				}
			}
			dbi, err := txn.OpenDBI(table, flags, nil, nil)
			if err != nil {
				return fmt.Errorf("mdbx: open dbi %s: %w", table, err)
			}
			db.dbis[table] = dbi
		}
		return nil
	})
	if err != nil {
		env.Close()
		lock.Unlock()
		return nil, err
	}
	return db, nil
}

func (d *DB) dbi(table string) (mdbx.DBI, error) {
	dbi, ok := d.dbis[table]
	if !ok {
		return 0, fmt.Errorf("mdbx: unknown table %q", table)
	}
	return dbi, nil
}

func (d *DB) Close() error {
	d.env.Close()
	return d.lock.Unlock()
}

func (d *DB) BeginRo(ctx context.Context) (kv.Tx, error) {
	txn, err := d.env.BeginTxn(nil, mdbx.Readonly)
	if err != nil {
		return nil, fmt.Errorf("mdbx: begin ro txn: %w", err)
	}
	return &tx{db: d, txn: txn}, nil
}

func (d *DB) BeginRw(ctx context.Context) (kv.RwTx, error) {
	txn, err := d.env.BeginTxn(nil, 0)
	if err != nil {
		return nil, fmt.Errorf("mdbx: begin rw txn: %w", err)
	}
	return &rwTx{tx: tx{db: d, txn: txn}}, nil
}

func (d *DB) Update(ctx context.Context, fn func(tx kv.RwTx) error) error {
	rw, err := d.BeginRw(ctx)
	if err != nil {
		return err
	}
	if err := fn(rw); err != nil {
		rw.Rollback()
		return err
	}
	return rw.Commit()
}

func (d *DB) View(ctx context.Context, fn func(tx kv.Tx) error) error {
	ro, err := d.BeginRo(ctx)
	if err != nil {
		return err
	}
	defer ro.Rollback()
	return fn(ro)
}

type tx struct {
	db  *DB
	txn *mdbx.Txn
}

func (t *tx) GetOne(table string, key []byte) ([]byte, error) {
	dbi, err := t.db.dbi(table)
	if err != nil {
		return nil, err
	}
	v, err := t.txn.Get(dbi, key)
	if mdbx.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mdbx: get %s: %w", table, err)
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (t *tx) Has(table string, key []byte) (bool, error) {
	v, err := t.GetOne(table, key)
	if err != nil {
		return false, err
	}
	return v != nil, nil
}

func (t *tx) ForwardCursor(table string, key []byte) (kv.Cursor, error) {
	dbi, err := t.db.dbi(table)
	if err != nil {
		return nil, err
	}
	c, err := t.txn.OpenCursor(dbi)
	if err != nil {
		return nil, fmt.Errorf("mdbx: open cursor %s: %w", table, err)
	}
	return &cursor{c: c, started: false, start: key, reverse: false}, nil
}

func (t *tx) ReverseCursor(table string, key []byte) (kv.Cursor, error) {
	dbi, err := t.db.dbi(table)
	if err != nil {
		return nil, err
	}
	c, err := t.txn.OpenCursor(dbi)
	if err != nil {
		return nil, fmt.Errorf("mdbx: open cursor %s: %w", table, err)
	}
	return &cursor{c: c, started: false, start: key, reverse: true}, nil
}

func (t *tx) CounterAdd(name string, delta int64) (uint64, error) {
	dbi, err := t.db.dbi(kv.Prop)
	if err != nil {
		return 0, err
	}
	key := kv.CounterKey(name)
	cur, err := t.txn.Get(dbi, key)
	var val int64
	if err == nil {
		val = int64(decodeCounter(cur))
	} else if !mdbx.IsNotFound(err) {
		return 0, fmt.Errorf("mdbx: counter get %s: %w", name, err)
	}
	val += delta
	if val < 0 {
		val = 0
	}
	if err := t.txn.Put(dbi, key, encodeCounter(uint64(val)), 0); err != nil {
		return 0, fmt.Errorf("mdbx: counter put %s: %w", name, err)
	}
	return uint64(val), nil
}

func (t *tx) CounterGet(name string) (uint64, error) {
	dbi, err := t.db.dbi(kv.Prop)
	if err != nil {
		return 0, err
	}
	v, err := t.txn.Get(dbi, kv.CounterKey(name))
	if mdbx.IsNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("mdbx: counter get %s: %w", name, err)
	}
	return decodeCounter(v), nil
}

func (t *tx) CounterDel(name string) error {
	dbi, err := t.db.dbi(kv.Prop)
	if err != nil {
		return err
	}
	err = t.txn.Del(dbi, kv.CounterKey(name), nil)
	if mdbx.IsNotFound(err) {
		return nil
	}
	return err
}

func (t *tx) Rollback() { t.txn.Abort() }

func encodeCounter(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * (7 - i)))
	}
	return b
}

func decodeCounter(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

type rwTx struct {
	tx
}

func (t *rwTx) Put(table string, key, value []byte) error {
	dbi, err := t.db.dbi(table)
	if err != nil {
		return err
	}
	if err := t.txn.Put(dbi, key, value, 0); err != nil {
		return fmt.Errorf("mdbx: put %s: %w", table, err)
	}
	return nil
}

func (t *rwTx) Delete(table string, key []byte) error {
	dbi, err := t.db.dbi(table)
	if err != nil {
		return err
	}
	err = t.txn.Del(dbi, key, nil)
	if mdbx.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("mdbx: delete %s: %w", table, err)
	}
	return nil
}

func (t *rwTx) DeleteRange(table string, lo, hi []byte) error {
	dbi, err := t.db.dbi(table)
	if err != nil {
		return err
	}
	c, err := t.txn.OpenCursor(dbi)
	if err != nil {
		return fmt.Errorf("mdbx: open cursor %s: %w", table, err)
	}
	defer c.Close()
	k, _, err := c.Get(lo, nil, mdbx.SetRange)
	for err == nil {
		if hi != nil && bytesCompare(k, hi) >= 0 {
			break
		}
		if err := c.Del(0); err != nil {
			return fmt.Errorf("mdbx: delete range %s: %w", table, err)
		}
		k, _, err = c.Get(nil, nil, mdbx.Next)
	}
	if err != nil && !mdbx.IsNotFound(err) {
		return fmt.Errorf("mdbx: delete range %s: %w", table, err)
	}
	return nil
}

func (t *rwTx) Commit() error {
	_, err := t.txn.Commit()
	return err
}

func bytesCompare(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

type cursor struct {
	c       *mdbx.Cursor
	started bool
	start   []byte
	reverse bool
}

func (c *cursor) Next() (key, value []byte, ok bool, err error) {
	var k, v []byte
	var e error
	if !c.started {
		c.started = true
		switch {
		case c.start == nil && !c.reverse:
			k, v, e = c.c.Get(nil, nil, mdbx.First)
		case c.start == nil && c.reverse:
			k, v, e = c.c.Get(nil, nil, mdbx.Last)
		case c.reverse:
			k, v, e = c.c.Get(c.start, nil, mdbx.SetRange)
			if e != nil {
				k, v, e = c.c.Get(nil, nil, mdbx.Last)
			} else if bytesCompare(k, c.start) > 0 {
				k, v, e = c.c.Get(nil, nil, mdbx.Prev)
			}
		default:
			k, v, e = c.c.Get(c.start, nil, mdbx.SetRange)
		}
	} else if c.reverse {
		k, v, e = c.c.Get(nil, nil, mdbx.Prev)
	} else {
		k, v, e = c.c.Get(nil, nil, mdbx.Next)
	}
	if mdbx.IsNotFound(e) {
		return nil, nil, false, nil
	}
	if e != nil {
		return nil, nil, false, fmt.Errorf("mdbx: cursor: %w", e)
	}
	return k, v, true, nil
}

func (c *cursor) Close() { c.c.Close() }
