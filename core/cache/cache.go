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

// Package cache is the read-through block cache: one bounded LRU per
// category plus a changing-set barrier that guarantees no reader ever
// observes a value the processor is mid-rewrite of.
package cache

import (
	"sync"

	arc "github.com/hashicorp/golang-lru/arc/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/computecoin-network/Olympus/common"
)

// Category names the seven record kinds the cache is partitioned into.
type Category int

const (
	Block Category = iota
	BlockState
	LatestAccountState
	UnlinkBlock
	AccountInfo
	Successor
	BlockSummary
	numCategories
)

// DefaultCapacity is the per-category LRU entry cap, sized for tens of MB
// of typical record payloads; callers with known record sizes should
// compute a tighter bound and pass it to New.
const DefaultCapacity = 8192

// lruLike is the subset of hashicorp/golang-lru's plain and ARC caches
// this package uses, letting categoryCache pick either eviction policy
// per category without branching at every call site.
type lruLike interface {
	Get(key string) ([]byte, bool)
	Add(key string, value []byte)
	Remove(key string)
}

type lruAdapter struct{ c *lru.Cache[string, []byte] }

func (a lruAdapter) Get(key string) ([]byte, bool) { return a.c.Get(key) }
func (a lruAdapter) Add(key string, value []byte)  { a.c.Add(key, value) }
func (a lruAdapter) Remove(key string)             { a.c.Remove(key) }

type arcAdapter struct{ c *arc.ARCCache[string, []byte] }

func (a arcAdapter) Get(key string) ([]byte, bool) { return a.c.Get(key) }
func (a arcAdapter) Add(key string, value []byte)  { a.c.Add(key, value) }
func (a arcAdapter) Remove(key string)             { a.c.Remove(key) }

type categoryCache struct {
	mu       sync.Mutex
	backing  lruLike
	changing mapset.Set[string]
}

func newCategoryCache(capacity int) *categoryCache {
	l, _ := lru.New[string, []byte](capacity)
	return &categoryCache{backing: lruAdapter{l}, changing: mapset.NewThreadUnsafeSet[string]()}
}

// newScanResistantCategoryCache backs a category with an ARC cache instead
// of a plain LRU. BlockSummary lookups are driven by catch-up range scans,
// which would otherwise flush the recency list of a plain LRU on every
// sync; ARC keeps a separate frequency list that survives the scan.
func newScanResistantCategoryCache(capacity int) *categoryCache {
	a, _ := arc.NewARC[string, []byte](capacity)
	return &categoryCache{backing: arcAdapter{a}, changing: mapset.NewThreadUnsafeSet[string]()}
}

// Cache is the full per-category cache plus the in-memory validator_list
// set, which is maintained under the same changing-set discipline.
type Cache struct {
	categories [numCategories]*categoryCache

	validatorsMu       sync.Mutex
	validators         mapset.Set[common.Address]
	validatorsChanging mapset.Set[common.Address]
}

// New builds a Cache with capacity entries per category.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache{
		validators:         mapset.NewThreadUnsafeSet[common.Address](),
		validatorsChanging: mapset.NewThreadUnsafeSet[common.Address](),
	}
	for i := range c.categories {
		if Category(i) == BlockSummary {
			c.categories[i] = newScanResistantCategoryCache(capacity)
		} else {
			c.categories[i] = newCategoryCache(capacity)
		}
	}
	return c
}

// Get returns the cached value for key in cat. ok is false both on a
// genuine miss and when key is currently in the changing-set — either
// way the caller must fall through to the store.
func (c *Cache) Get(cat Category, key string) (value []byte, ok bool) {
	cc := c.categories[cat]
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.changing.Contains(key) {
		return nil, false
	}
	return cc.backing.Get(key)
}

// Put inserts value for key unless key is in the changing-set, in which
// case the write is silently rejected.
func (c *Cache) Put(cat Category, key string, value []byte) {
	cc := c.categories[cat]
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.changing.Contains(key) {
		return
	}
	cc.backing.Add(key, value)
}

// BeginChange marks keys as under rewrite — step (a) of the mutation
// flow. Reads bypass the cache for these keys until EndChange.
func (c *Cache) BeginChange(cat Category, keys ...string) {
	cc := c.categories[cat]
	cc.mu.Lock()
	defer cc.mu.Unlock()
	for _, k := range keys {
		cc.changing.Add(k)
	}
}

// EndChange evicts keys from the LRU then clears them from the
// changing-set — steps (c) and (d). Must be called only after the store
// batch for this mutation has committed (step (b)), preserving the
// begin→commit→evict→clear order read coherence depends on.
func (c *Cache) EndChange(cat Category, keys ...string) {
	cc := c.categories[cat]
	cc.mu.Lock()
	defer cc.mu.Unlock()
	for _, k := range keys {
		cc.backing.Remove(k)
		cc.changing.Remove(k)
	}
}

// AbortChange clears the changing marker without evicting — used when a
// mutation's store batch failed and the prior cached value (if any) is
// still valid.
func (c *Cache) AbortChange(cat Category, keys ...string) {
	cc := c.categories[cat]
	cc.mu.Lock()
	defer cc.mu.Unlock()
	for _, k := range keys {
		cc.changing.Remove(k)
	}
}

// ValidatorsContains reads the validator_list set under the same
// changing-set discipline the byte categories use.
func (c *Cache) ValidatorsContains(addr common.Address) bool {
	c.validatorsMu.Lock()
	defer c.validatorsMu.Unlock()
	if c.validatorsChanging.Contains(addr) {
		return false
	}
	return c.validators.Contains(addr)
}

func (c *Cache) BeginValidatorsChange(addrs ...common.Address) {
	c.validatorsMu.Lock()
	defer c.validatorsMu.Unlock()
	for _, a := range addrs {
		c.validatorsChanging.Add(a)
	}
}

func (c *Cache) EndValidatorsChange(set map[common.Address]bool, addrs ...common.Address) {
	c.validatorsMu.Lock()
	defer c.validatorsMu.Unlock()
	for _, a := range addrs {
		if set[a] {
			c.validators.Add(a)
		} else {
			c.validators.Remove(a)
		}
		c.validatorsChanging.Remove(a)
	}
}
