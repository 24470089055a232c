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

// Package kv defines the column-partitioned ordered key-value contract
// that every other component reads and writes through.
// Two backends satisfy it: kv/mdbx (production, MDBX-backed) and
// kv/memdb (in-process, used by tests).
package kv

import "context"

// Getter is satisfied by both Tx and RwTx.
type Getter interface {
	// GetOne returns the value for key in table, or (nil, nil) if absent.
	GetOne(table string, key []byte) ([]byte, error)
	// Has reports whether key exists in table.
	Has(table string, key []byte) (bool, error)
	// ForwardCursor returns an iterator starting at or after key (nil =
	// from the beginning of table).
	ForwardCursor(table string, key []byte) (Cursor, error)
	// ReverseCursor returns an iterator starting at or before key (nil =
	// from the end of table).
	ReverseCursor(table string, key []byte) (Cursor, error)
}

// Cursor iterates a table's keys in order.
type Cursor interface {
	Next() (key, value []byte, ok bool, err error)
	Close()
}

// Putter is satisfied by RwTx.
type Putter interface {
	Put(table string, key, value []byte) error
	Delete(table string, key []byte) error
	// DeleteRange removes every key k with lo <= k < hi.
	DeleteRange(table string, lo, hi []byte) error
}

// Counters exposes the named 64-bit counters, for tracking sizes in O(1)
// without scanning a table.
type Counters interface {
	CounterAdd(name string, delta int64) (uint64, error)
	CounterGet(name string) (uint64, error)
	CounterDel(name string) error
}

// Tx is a read-only, snapshot-isolated transaction.
type Tx interface {
	Getter
	Counters
	Rollback()
}

// RwTx is a read-write transaction. Writes are batched and only visible to
// the store after Commit; reads within the same RwTx observe the batch's
// own prior writes.
type RwTx interface {
	Tx
	Putter
	Commit() error
}

// DB is the top-level handle over the column store.
type DB interface {
	BeginRo(ctx context.Context) (Tx, error)
	BeginRw(ctx context.Context) (RwTx, error)
	// Update runs fn inside a single RwTx, committing on success and
	// rolling back (and returning the error) otherwise. This is the
	// shape the block processor uses to guarantee the "one transaction
	// per logical admission" single-writer discipline.
	Update(ctx context.Context, fn func(tx RwTx) error) error
	View(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}
