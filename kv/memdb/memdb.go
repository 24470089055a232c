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

// Package memdb is an in-process kv.DB used by tests — the same role
// erigon's own kv/memdb package plays for its unit tests, reimplemented
// against our kv.DB interface since erigon's own memdb source was not
// part of the retrieved pack.
package memdb

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/computecoin-network/Olympus/kv"
)

// New returns an empty in-memory kv.DB. tables should be kv.ChaindataTables.
func New(tables []string) kv.DB {
	d := &memDB{tables: map[string]map[string][]byte{}, counters: map[string]uint64{}}
	for _, t := range tables {
		d.tables[t] = map[string][]byte{}
	}
	return d
}

type memDB struct {
	mu       sync.Mutex
	tables   map[string]map[string][]byte
	counters map[string]uint64
}

func (d *memDB) BeginRo(ctx context.Context) (kv.Tx, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot(), nil
}

func (d *memDB) BeginRw(ctx context.Context) (kv.RwTx, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	snap := d.snapshot()
	return &memRwTx{memTx: snap, db: d, writes: map[string]map[string][]byte{}, deletes: map[string]map[string]bool{}}, nil
}

// snapshot copies table maps shallowly; callers must already hold d.mu.
func (d *memDB) snapshot() *memTx {
	tables := make(map[string]map[string][]byte, len(d.tables))
	for name, m := range d.tables {
		cp := make(map[string][]byte, len(m))
		for k, v := range m {
			cp[k] = v
		}
		tables[name] = cp
	}
	counters := make(map[string]uint64, len(d.counters))
	for k, v := range d.counters {
		counters[k] = v
	}
	return &memTx{tables: tables, counters: counters}
}

func (d *memDB) Update(ctx context.Context, fn func(tx kv.RwTx) error) error {
	tx, err := d.BeginRw(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (d *memDB) View(ctx context.Context, fn func(tx kv.Tx) error) error {
	tx, err := d.BeginRo(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	return fn(tx)
}

func (d *memDB) Close() error { return nil }

// memTx is a read-only snapshot: independent copies of every table so
// concurrent writers never mutate state a reader is iterating.
type memTx struct {
	tables   map[string]map[string][]byte
	counters map[string]uint64
}

func (t *memTx) table(name string) (map[string][]byte, error) {
	m, ok := t.tables[name]
	if !ok {
		return nil, fmt.Errorf("memdb: unknown table %q", name)
	}
	return m, nil
}

func (t *memTx) GetOne(table string, key []byte) ([]byte, error) {
	m, err := t.table(table)
	if err != nil {
		return nil, err
	}
	v, ok := m[string(key)]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (t *memTx) Has(table string, key []byte) (bool, error) {
	m, err := t.table(table)
	if err != nil {
		return false, err
	}
	_, ok := m[string(key)]
	return ok, nil
}

func (t *memTx) ForwardCursor(table string, key []byte) (kv.Cursor, error) {
	m, err := t.table(table)
	if err != nil {
		return nil, err
	}
	keys := sortedKeys(m)
	idx := 0
	if key != nil {
		idx = sort.Search(len(keys), func(i int) bool { return keys[i] >= string(key) })
	}
	return &sliceCursor{keys: keys, values: m, idx: idx}, nil
}

func (t *memTx) ReverseCursor(table string, key []byte) (kv.Cursor, error) {
	m, err := t.table(table)
	if err != nil {
		return nil, err
	}
	keys := sortedKeys(m)
	idx := len(keys) - 1
	if key != nil {
		idx = sort.Search(len(keys), func(i int) bool { return keys[i] > string(key) }) - 1
	}
	return &sliceCursor{keys: keys, values: m, idx: idx, reverse: true}, nil
}

func (t *memTx) CounterAdd(name string, delta int64) (uint64, error) {
	cur := int64(t.counters[name])
	cur += delta
	if cur < 0 {
		cur = 0
	}
	t.counters[name] = uint64(cur)
	return uint64(cur), nil
}

func (t *memTx) CounterGet(name string) (uint64, error) { return t.counters[name], nil }
func (t *memTx) CounterDel(name string) error            { delete(t.counters, name); return nil }
func (t *memTx) Rollback()                               {}

type memRwTx struct {
	*memTx
	db      *memDB
	writes  map[string]map[string][]byte
	deletes map[string]map[string]bool
	done    bool
}

func (t *memRwTx) Put(table string, key, value []byte) error {
	if _, err := t.memTx.table(table); err != nil {
		return err
	}
	if t.writes[table] == nil {
		t.writes[table] = map[string][]byte{}
	}
	v := make([]byte, len(value))
	copy(v, value)
	t.writes[table][string(key)] = v
	t.memTx.tables[table][string(key)] = v
	if t.deletes[table] != nil {
		delete(t.deletes[table], string(key))
	}
	return nil
}

func (t *memRwTx) Delete(table string, key []byte) error {
	if _, err := t.memTx.table(table); err != nil {
		return err
	}
	if t.deletes[table] == nil {
		t.deletes[table] = map[string]bool{}
	}
	t.deletes[table][string(key)] = true
	delete(t.memTx.tables[table], string(key))
	if t.writes[table] != nil {
		delete(t.writes[table], string(key))
	}
	return nil
}

func (t *memRwTx) DeleteRange(table string, lo, hi []byte) error {
	m, err := t.memTx.table(table)
	if err != nil {
		return err
	}
	for k := range m {
		if bytes.Compare([]byte(k), lo) >= 0 && (hi == nil || bytes.Compare([]byte(k), hi) < 0) {
			if err := t.Delete(table, []byte(k)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *memRwTx) Commit() error {
	if t.done {
		return fmt.Errorf("memdb: tx already closed")
	}
	t.done = true
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	for table, kvs := range t.writes {
		for k, v := range kvs {
			t.db.tables[table][k] = v
		}
	}
	for table, ks := range t.deletes {
		for k := range ks {
			delete(t.db.tables[table], k)
		}
	}
	for name, v := range t.counters {
		t.db.counters[name] = v
	}
	return nil
}

func (t *memRwTx) Rollback() { t.done = true }

type sliceCursor struct {
	keys    []string
	values  map[string][]byte
	idx     int
	reverse bool
}

func (c *sliceCursor) Next() (key, value []byte, ok bool, err error) {
	if c.idx < 0 || c.idx >= len(c.keys) {
		return nil, nil, false, nil
	}
	k := c.keys[c.idx]
	v := c.values[k]
	if c.reverse {
		c.idx--
	} else {
		c.idx++
	}
	return []byte(k), v, true, nil
}

func (c *sliceCursor) Close() {}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
