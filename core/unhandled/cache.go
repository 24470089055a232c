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

// Package unhandled is the unhandled-dependency cache: it
// holds units whose admission would violate the parents-known invariant,
// or that are waiting on missing transactions or approves, until those
// dependencies resolve.
package unhandled

import (
	"math/rand"
	"sync"

	roaring "github.com/RoaringBitmap/roaring/v2"

	"github.com/computecoin-network/Olympus/common"
)

// Result is the admission outcome of Add.
type Result byte

const (
	// Success: accepted, at least one dependency is still outstanding.
	Success Result = iota
	// Retry: the caller passed no outstanding dependencies at all —
	// reprocess the unit immediately instead of holding it.
	Retry
	// Exist: already pending, or rejected due to capacity pressure.
	Exist
)

// MaxSearchCount bounds how many tips Add scans looking for one with no
// outstanding missing dependencies before giving up and evicting the
// first tip instead.
const MaxSearchCount = 64

// SyntheticSampleSize is how many pending hashes GetMissings samples as
// synthetic missings when the real missing sets are empty but pending
// units remain — the post-restart recovery path.
const SyntheticSampleSize = 50

type pendingItem struct {
	hash             common.Hash
	item             []byte
	dependencyHashes map[common.Hash]bool
	transactions     map[common.Hash]bool
	approves         map[common.Hash]bool
}

func (p *pendingItem) resolved() bool {
	return len(p.dependencyHashes) == 0 && len(p.transactions) == 0 && len(p.approves) == 0
}

// Cache is the full unhandled-dependency state: the pending set, its
// reverse dependency indices, the three missing-hash sets, and the
// pending-DAG tip set.
type Cache struct {
	mu       sync.Mutex
	capacity int

	pending map[common.Hash]*pendingItem

	dependents map[common.Hash]map[common.Hash]bool // block_hash -> dependent unit hashes
	txDependents map[common.Hash]map[common.Hash]bool
	apDependents map[common.Hash]map[common.Hash]bool

	tips map[common.Hash]bool

	missings        *roaring.Bitmap
	lightMissings   *roaring.Bitmap
	approveMissings *roaring.Bitmap

	idOf   map[common.Hash]uint32
	hashOf map[uint32]common.Hash
	nextID uint32
}

func New(capacity int) *Cache {
	return &Cache{
		capacity:        capacity,
		pending:         map[common.Hash]*pendingItem{},
		dependents:      map[common.Hash]map[common.Hash]bool{},
		txDependents:    map[common.Hash]map[common.Hash]bool{},
		apDependents:    map[common.Hash]map[common.Hash]bool{},
		tips:            map[common.Hash]bool{},
		missings:        roaring.New(),
		lightMissings:   roaring.New(),
		approveMissings: roaring.New(),
		idOf:            map[common.Hash]uint32{},
		hashOf:          map[uint32]common.Hash{},
	}
}

func (c *Cache) idFor(h common.Hash) uint32 {
	if id, ok := c.idOf[h]; ok {
		return id
	}
	id := c.nextID
	c.nextID++
	c.idOf[h] = id
	c.hashOf[id] = h
	return id
}

// Len reports the current pending-unit count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Add admits a unit pending on deps/txs/aps.
func (c *Cache) Add(h common.Hash, deps, txs, aps []common.Hash, item []byte) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.pending[h]; exists {
		return Exist
	}
	if len(deps) == 0 && len(txs) == 0 && len(aps) == 0 {
		return Retry
	}

	halfFull := len(c.pending) >= c.capacity/2
	if halfFull {
		for _, d := range deps {
			if _, known := c.dependents[d]; !known {
				return Exist
			}
		}
	}

	if len(c.pending) >= c.capacity {
		if !c.evictOne() {
			return Exist
		}
	}

	p := &pendingItem{
		hash:             h,
		item:             item,
		dependencyHashes: toSet(deps),
		transactions:     toSet(txs),
		approves:         toSet(aps),
	}
	c.pending[h] = p
	c.tips[h] = true

	for _, d := range deps {
		if c.dependents[d] == nil {
			c.dependents[d] = map[common.Hash]bool{}
		}
		c.dependents[d][h] = true
		c.missings.Add(c.idFor(d))
		delete(c.tips, d) // d is itself pending and now has a dependent
	}
	for _, t := range txs {
		if c.txDependents[t] == nil {
			c.txDependents[t] = map[common.Hash]bool{}
		}
		c.txDependents[t][h] = true
		c.lightMissings.Add(c.idFor(t))
	}
	for _, a := range aps {
		if c.apDependents[a] == nil {
			c.apDependents[a] = map[common.Hash]bool{}
		}
		c.apDependents[a][h] = true
		c.approveMissings.Add(c.idFor(a))
	}
	return Success
}

func toSet(hashes []common.Hash) map[common.Hash]bool {
	s := make(map[common.Hash]bool, len(hashes))
	for _, h := range hashes {
		s[h] = true
	}
	return s
}

// evictOne implements the capacity-pressure eviction rule: walk tips,
// prefer one with no outstanding missings/light_missings within
// MaxSearchCount tries, otherwise drop the first tip. Caller must hold
// c.mu.
func (c *Cache) evictOne() bool {
	if len(c.tips) == 0 {
		return false
	}
	var fallback common.Hash
	hasFallback := false
	checked := 0
	for h := range c.tips {
		if !hasFallback {
			fallback = h
			hasFallback = true
		}
		p := c.pending[h]
		if len(p.dependencyHashes) == 0 && len(p.transactions) == 0 {
			c.evict(h)
			return true
		}
		checked++
		if checked >= MaxSearchCount {
			break
		}
	}
	if hasFallback {
		c.evict(fallback)
		return true
	}
	return false
}

// evict drops h and its index entries. Caller must hold c.mu.
func (c *Cache) evict(h common.Hash) {
	p, ok := c.pending[h]
	if !ok {
		return
	}
	for d := range p.dependencyHashes {
		delete(c.dependents[d], h)
		if len(c.dependents[d]) == 0 {
			delete(c.dependents, d)
		}
	}
	for t := range p.transactions {
		delete(c.txDependents[t], h)
		if len(c.txDependents[t]) == 0 {
			delete(c.txDependents, t)
		}
	}
	for a := range p.approves {
		delete(c.apDependents[a], h)
		if len(c.apDependents[a]) == 0 {
			delete(c.apDependents, a)
		}
	}
	delete(c.pending, h)
	delete(c.tips, h)
}

// ReleaseDependency resolves a previously-missing block hash, returning
// every pending item whose dependency set is now fully empty (ready for
// reprocessing).
func (c *Cache) ReleaseDependency(h common.Hash) []([]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	dependents := c.dependents[h]
	delete(c.dependents, h)
	c.missings.Remove(c.idFor(h))
	return c.releaseFrom(dependents, func(p *pendingItem) { delete(p.dependencyHashes, h) })
}

// ReleaseTransactionDependency resolves a batch of transaction hashes at
// once.
func (c *Cache) ReleaseTransactionDependency(hashes []common.Hash) []([]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ready [][]byte
	for _, h := range hashes {
		dependents := c.txDependents[h]
		delete(c.txDependents, h)
		c.lightMissings.Remove(c.idFor(h))
		ready = append(ready, c.releaseFrom(dependents, func(p *pendingItem) { delete(p.transactions, h) })...)
	}
	return ready
}

func (c *Cache) ReleaseApproveDependency(h common.Hash) []([]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	dependents := c.apDependents[h]
	delete(c.apDependents, h)
	c.approveMissings.Remove(c.idFor(h))
	return c.releaseFrom(dependents, func(p *pendingItem) { delete(p.approves, h) })
}

// releaseFrom clears one dependency dimension on every hash in dependents
// and returns the original job bytes for any item now fully resolved,
// removing it from pending. Caller must hold c.mu.
func (c *Cache) releaseFrom(dependents map[common.Hash]bool, clear func(*pendingItem)) [][]byte {
	var ready [][]byte
	for h := range dependents {
		p, ok := c.pending[h]
		if !ok {
			continue
		}
		clear(p)
		if p.resolved() {
			ready = append(ready, p.item)
			c.evict(h)
		}
	}
	return ready
}

// GetMissings returns up to limit unknown-block hashes, up to limit/4
// unknown-approve hashes, and the remaining unknown-tx hashes, starting
// from a random offset in each structure to spread retransmission load
// across requesters. alreadyLocal lets the caller skip
// hashes its own pools already hold.
func (c *Cache) GetMissings(limit int, alreadyLocal func(common.Hash) bool) (blocks, approves, txs []common.Hash) {
	c.mu.Lock()
	defer c.mu.Unlock()

	blocks = c.sampleBitmap(c.missings, limit, alreadyLocal)
	approves = c.sampleBitmap(c.approveMissings, limit/4, alreadyLocal)
	remaining := limit - len(blocks)
	if remaining < 0 {
		remaining = 0
	}
	txs = c.sampleBitmap(c.lightMissings, remaining, alreadyLocal)

	if len(blocks) == 0 && len(approves) == 0 && len(txs) == 0 && len(c.pending) > 0 {
		blocks = c.syntheticMissings()
	}
	return blocks, approves, txs
}

func (c *Cache) sampleBitmap(bm *roaring.Bitmap, limit int, alreadyLocal func(common.Hash) bool) []common.Hash {
	if limit <= 0 || bm.IsEmpty() {
		return nil
	}
	card := int(bm.GetCardinality())
	offset := 0
	if card > 0 {
		offset = rand.Intn(card)
	}
	ids := bm.ToArray()
	out := make([]common.Hash, 0, limit)
	for i := 0; i < card && len(out) < limit; i++ {
		id := ids[(offset+i)%card]
		h := c.hashOf[id]
		if alreadyLocal != nil && alreadyLocal(h) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// syntheticMissings samples up to SyntheticSampleSize pending hashes to
// force peers to re-advertise after a restart, when the real missing
// sets are empty but pending units remain.
func (c *Cache) syntheticMissings() []common.Hash {
	out := make([]common.Hash, 0, SyntheticSampleSize)
	for h := range c.pending {
		out = append(out, h)
		if len(out) >= SyntheticSampleSize {
			break
		}
	}
	return out
}
