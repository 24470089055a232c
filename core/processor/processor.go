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

// Package processor is the single-writer block processor: every store
// mutation for admission and stabilisation executes under one KV
// transaction at a time, coordinating the DAG engine, the block cache's
// changing-set barrier, the unhandled-dependency cache and the EVM
// façade.
package processor

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/computecoin-network/Olympus/common"
	"github.com/computecoin-network/Olympus/core/cache"
	"github.com/computecoin-network/Olympus/core/dag"
	"github.com/computecoin-network/Olympus/core/state"
	"github.com/computecoin-network/Olympus/core/types"
	"github.com/computecoin-network/Olympus/core/unhandled"
	"github.com/computecoin-network/Olympus/core/vm"
	"github.com/computecoin-network/Olympus/kv"
	"github.com/computecoin-network/Olympus/log"
)

// Outcome is what Admit returns for a single unit.
type Outcome byte

const (
	OutcomeStored Outcome = iota
	OutcomeDeferred
	OutcomeInvalid
	OutcomeDuplicate
)

// Metrics are the prometheus counters the processor exports; ambient
// instrumentation, not part of the consensus contract itself.
type Metrics struct {
	Admitted  prometheus.Counter
	Deferred  prometheus.Counter
	Invalid   prometheus.Counter
	Stabilized prometheus.Counter
	Reorgs    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Admitted:   prometheus.NewCounter(prometheus.CounterOpts{Name: "olympus_units_admitted_total"}),
		Deferred:   prometheus.NewCounter(prometheus.CounterOpts{Name: "olympus_units_deferred_total"}),
		Invalid:    prometheus.NewCounter(prometheus.CounterOpts{Name: "olympus_units_invalid_total"}),
		Stabilized: prometheus.NewCounter(prometheus.CounterOpts{Name: "olympus_units_stabilized_total"}),
		Reorgs:     prometheus.NewCounter(prometheus.CounterOpts{Name: "olympus_main_chain_reorgs_total"}),
	}
	if reg != nil {
		reg.MustRegister(m.Admitted, m.Deferred, m.Invalid, m.Stabilized, m.Reorgs)
	}
	return m
}

// Processor drives the admission/stabilisation lifecycle.
type Processor struct {
	db        kv.DB
	graph     *dag.Graph
	mainChain *dag.MainChain
	forks     *dag.ForkIndex
	chainCfg  dag.ChainConfig
	witnesses dag.WitnessSet
	cache     *cache.Cache
	unhandled *unhandled.Cache
	executor  *vm.Executor
	metrics   *Metrics
	retry     backoff.BackOff
	log       log.Logger
}

func New(db kv.DB, graph *dag.Graph, mainChain *dag.MainChain, forks *dag.ForkIndex, chainCfg dag.ChainConfig, witnesses dag.WitnessSet, blockCache *cache.Cache, unhandledCache *unhandled.Cache, executor *vm.Executor, metrics *Metrics, logger log.Logger) *Processor {
	return &Processor{
		db:        db,
		graph:     graph,
		mainChain: mainChain,
		forks:     forks,
		chainCfg:  chainCfg,
		witnesses: witnesses,
		cache:     blockCache,
		unhandled: unhandledCache,
		executor:  executor,
		metrics:   metrics,
		retry:     backoff.NewExponentialBackOff(),
		log:       logger,
	}
}

// Job is the unit of work the unhandled-dependency cache holds onto
// while a unit's dependencies resolve, and what Admit consumes.
type Job struct {
	Unit *types.Unit
}

// Admit runs the full per-unit lifecycle. ctx bounds the retry loop
// backoff.BackOff drives when the KV transaction is retried after a
// transient store error (a write failure "poisons the batch"; the whole
// logical operation must retry).
func (p *Processor) Admit(ctx context.Context, u *types.Unit) (Outcome, error) {
	if err := p.validateStructure(u); err != nil {
		p.metrics.Invalid.Inc()
		return OutcomeInvalid, err
	}

	missingDeps, missingTxs, missingApproves := p.dependencies(u)
	if len(missingDeps) > 0 || len(missingTxs) > 0 || len(missingApproves) > 0 {
		h := u.Hash()
		res := p.unhandled.Add(h, missingDeps, missingTxs, missingApproves, u.Encode())
		switch res {
		case unhandled.Exist:
			p.metrics.Deferred.Inc()
			return OutcomeDuplicate, nil
		default:
			p.metrics.Deferred.Inc()
			return OutcomeDeferred, nil
		}
	}

	var outcome Outcome
	operation := func() error {
		var err error
		outcome, err = p.admitLocked(ctx, u)
		return err
	}
	if err := backoff.Retry(operation, backoff.WithContext(p.retry, ctx)); err != nil {
		return OutcomeInvalid, fmt.Errorf("processor: admit %s: %w", u.Hash(), err)
	}
	p.metrics.Admitted.Inc()
	return outcome, nil
}

// admitLocked performs the admission pipeline's steps 3-7 inside one KV
// transaction.
func (p *Processor) admitLocked(ctx context.Context, u *types.Unit) (Outcome, error) {
	h := u.Hash()

	parentIDs := make([]dag.NodeID, 0, len(u.Parents))
	for _, ph := range u.Parents {
		id, ok := p.graph.Lookup(ph)
		if !ok {
			return OutcomeInvalid, fmt.Errorf("processor: parent %s not in graph at admit time", ph)
		}
		parentIDs = append(parentIDs, id)
	}

	err := p.db.Update(ctx, func(tx kv.RwTx) error {
		id, err := p.graph.AddUnit(u, parentIDs)
		if err != nil {
			return err
		}
		p.graph.SetBestParent(id)
		wl := p.graph.ComputeWitnessedLevel(id, p.witnesses, p.chainCfg.WitnessMajority)
		p.graph.Node(id).WitnessedLevel = wl
		p.graph.UpdateTipOrdering(id, 0)

		if forks, _ := p.forks.Observe(u.Author, u.Previous, id); forks {
			p.log.Warn("fork detected", "author", u.Author, "previous", u.Previous)
		}

		st := &types.UnitState{Status: types.StatusOK, IsFree: true, Level: p.graph.Node(id).Level}
		if err := tx.Put(kv.Blocks, h.Bytes(), u.Encode()); err != nil {
			return err
		}
		if err := tx.Put(kv.BlockState, h.Bytes(), st.Encode()); err != nil {
			return err
		}

		_, oldTipMCI, hadTip := p.mainChain.Tip()
		reorgFrom, _, changed := p.mainChain.Advance()
		if changed && hadTip && reorgFrom <= oldTipMCI {
			p.metrics.Reorgs.Inc()
		}
		if err := p.stabilize(tx); err != nil {
			return err
		}

		p.unhandled.ReleaseDependency(h)
		return nil
	})
	if err != nil {
		return OutcomeInvalid, err
	}
	return OutcomeStored, nil
}

// stabilize advances the stabilisation frontier (column 015/prop,
// PropLastStableMCI) forward from the next not-yet-checked main-chain
// index up to, but excluding, the current MC-tip. Level only grows along
// the main chain, so the frontier is a contiguous prefix: the scan stops
// at the first index that is not yet stable against the tip's witnessed
// level, since every later index is strictly harder to satisfy.
//
// Becoming stable under main-chain unit v does not stop at v itself:
// every not-yet-stable ancestor of v (on or off the main chain, dag or
// light) that independently satisfies dag.IsStable against the tip
// stabilises in the same pass, ordered (level asc, hash asc) so every
// node assigns stable_index identically. Light units among them are
// executed through the EVM façade and their receipt/traces/AccountInfo
// persisted before the unit's own UnitState is marked stable.
func (p *Processor) stabilize(tx kv.RwTx) error {
	tip, tipIdx, ok := p.mainChain.Tip()
	if !ok {
		return nil
	}

	next, err := getPropU64(tx, kv.PropLastStableMCI)
	if err != nil {
		return err
	}
	stableIdx, err := getPropU64(tx, kv.PropLastStableIndex)
	if err != nil {
		return err
	}

	for next < tipIdx {
		mcID, ok := p.mainChain.AncestorAt(next)
		if !ok {
			break
		}
		if !dag.IsStable(p.graph, mcID, tip, p.witnesses, p.chainCfg) {
			break
		}

		mcNode := p.graph.Node(mcID)
		mcUnit, err := p.loadUnit(tx, mcNode.Hash)
		if err != nil {
			return err
		}

		candidates, err := p.collectUnstableAncestors(tx, mcID)
		if err != nil {
			return err
		}
		dag.SortStableCandidates(candidates)

		for _, c := range candidates {
			if !dag.IsStable(p.graph, c.ID, tip, p.witnesses, p.chainCfg) {
				continue
			}
			if err := p.stabilizeUnit(tx, c, next, mcUnit, &stableIdx); err != nil {
				return err
			}
		}

		next++
		if err := putPropU64(tx, kv.PropLastStableMCI, next); err != nil {
			return err
		}
		if err := putPropU64(tx, kv.PropLastStableIndex, stableIdx); err != nil {
			return err
		}
	}
	return nil
}

// collectUnstableAncestors walks start's Parents backward, collecting
// every not-yet-stable node reachable before hitting one already marked
// stable (whose own ancestors, by the no-reexecution invariant, are
// therefore already stable too). A visited set keeps diamond-shaped
// ancestries from being walked twice.
func (p *Processor) collectUnstableAncestors(tx kv.Getter, start dag.NodeID) ([]dag.StableCandidate, error) {
	var out []dag.StableCandidate
	visited := map[dag.NodeID]bool{}
	queue := []dag.NodeID{start}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		n := p.graph.Node(id)
		st, err := p.loadUnitState(tx, n.Hash)
		if err != nil {
			return nil, err
		}
		if st.IsStable {
			continue
		}
		out = append(out, dag.StableCandidate{ID: id, Level: n.Level, Hash: n.Hash})
		queue = append(queue, n.Parents...)
	}
	return out, nil
}

// stabilizeUnit assigns c the next dense stable_index, executing its
// transaction first if it is a light unit.
func (p *Processor) stabilizeUnit(tx kv.RwTx, c dag.StableCandidate, mci uint64, mcUnit *types.Unit, stableIdx *uint64) error {
	key := string(c.Hash.Bytes())
	p.cache.BeginChange(cache.BlockState, key)

	st, err := p.loadUnitState(tx, c.Hash)
	if err != nil {
		p.cache.AbortChange(cache.BlockState, key)
		return err
	}
	if st.IsStable {
		p.cache.EndChange(cache.BlockState, key)
		return nil
	}

	u, err := p.loadUnit(tx, c.Hash)
	if err != nil {
		p.cache.AbortChange(cache.BlockState, key)
		return err
	}

	st.IsStable = true
	st.StableIndex = *stableIdx
	st.MCTimestamp = mcUnit.Timestamp
	st.StableTimestamp = mcUnit.Timestamp
	st.Status = types.StatusOK

	if u.Kind == types.KindLight {
		if err := p.executeStabilized(tx, u, mci, mcUnit, st); err != nil {
			p.cache.AbortChange(cache.BlockState, key)
			return fmt.Errorf("processor: execute stabilized unit %s: %w", c.Hash, err)
		}
	}

	if err := tx.Put(kv.BlockState, c.Hash.Bytes(), st.Encode()); err != nil {
		p.cache.AbortChange(cache.BlockState, key)
		return err
	}
	if err := tx.Put(kv.StableBlock, encodeU64(*stableIdx), c.Hash.Bytes()); err != nil {
		p.cache.AbortChange(cache.BlockState, key)
		return err
	}
	p.cache.EndChange(cache.BlockState, key)

	*stableIdx++
	p.metrics.Stabilized.Inc()
	return nil
}

// executeStabilized runs a stabilised light unit's transaction through
// the EVM façade under a fresh overlay scoped to tx, then flushes the
// overlay, persists the receipt and traces, and advances AccountInfo for
// every address the execution touched. p.executor is nil in tests that
// exercise only DAG bookkeeping, in which case the unit is simply marked
// stable with no receipt.
func (p *Processor) executeStabilized(tx kv.RwTx, u *types.Unit, mci uint64, mcUnit *types.Unit, st *types.UnitState) error {
	if p.executor == nil {
		return nil
	}

	overlay := state.NewOverlay(state.NewKVReader(tx), state.NewTrieStore(tx))
	env := vm.Env{BlockHash: mcUnit.Hash(), MCI: mci, Timestamp: mcUnit.Timestamp, Author: mcUnit.Author}
	vmTx := vm.Transaction{From: u.Author, GasLimit: vm.BaseGas}

	res, receipt, traces, err := p.executor.Execute(overlay, env, vmTx, vm.Committed)
	if err != nil {
		st.Status = types.StatusFail
		p.log.Warn("stabilized light unit failed to execute", "unit", u.Hash(), "err", err)
		return nil
	}

	touched, err := overlay.Flush(tx, state.NewKVWriter(tx), u.Hash())
	if err != nil {
		return err
	}
	if err := tx.Put(kv.BlocksData, receipt.Hash().Bytes(), receipt.Encode()); err != nil {
		return err
	}
	for _, tr := range traces {
		if err := tx.Put(kv.Traces, u.Hash().Bytes(), tr.Encode()); err != nil {
			return err
		}
	}
	for _, addr := range touched {
		if err := p.advanceAccountInfo(tx, addr, u.Hash()); err != nil {
			return err
		}
	}

	st.HasReceipt = true
	st.Receipt = receipt.Hash()
	if res.Exception != vm.ExceptionNone {
		st.Status = types.StatusFail
	}
	return nil
}

// advanceAccountInfo records unitHash as the newest stabilised unit
// affecting addr (column 002/account_info's latest_stable_block).
func (p *Processor) advanceAccountInfo(tx kv.RwTx, addr common.Address, unitHash common.Hash) error {
	raw, err := tx.GetOne(kv.AccountInfo, addr.Bytes())
	if err != nil {
		return err
	}
	info := &types.AccountInfo{}
	if raw != nil {
		if info, err = types.DecodeAccountInfo(raw); err != nil {
			return err
		}
	}
	info.LatestStableBlock = unitHash
	return tx.Put(kv.AccountInfo, addr.Bytes(), info.Encode())
}

func encodeU64(v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return buf[:]
}

func getPropU64(tx kv.Getter, key byte) (uint64, error) {
	raw, err := tx.GetOne(kv.Prop, []byte{key})
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return 0, nil
	}
	return binary.BigEndian.Uint64(raw), nil
}

func putPropU64(tx kv.Putter, key byte, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return tx.Put(kv.Prop, []byte{key}, buf[:])
}

func (p *Processor) loadUnitState(tx kv.Getter, h common.Hash) (*types.UnitState, error) {
	raw, err := tx.GetOne(kv.BlockState, h.Bytes())
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return &types.UnitState{}, nil
	}
	return types.DecodeUnitState(raw)
}

func (p *Processor) loadUnit(tx kv.Getter, h common.Hash) (*types.Unit, error) {
	raw, err := tx.GetOne(kv.Blocks, h.Bytes())
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("processor: unit %s missing from store", h)
	}
	return types.DecodeUnit(raw)
}

func (p *Processor) validateStructure(u *types.Unit) error {
	if !u.IsGenesis() && len(u.Parents) == 0 {
		return fmt.Errorf("processor: non-genesis unit %s has no parents", u.Hash())
	}
	return nil
}

// dependencies returns which of u's parents, links and approves are not
// yet known locally. Links/approves resolution
// against the tx/approve pools is an external collaborator's
// responsibility; this processor only checks parents against the graph.
func (p *Processor) dependencies(u *types.Unit) (missingParents, missingTxs, missingApproves []common.Hash) {
	for _, ph := range u.Parents {
		if _, ok := p.graph.Lookup(ph); !ok {
			missingParents = append(missingParents, ph)
		}
	}
	return missingParents, nil, nil
}
