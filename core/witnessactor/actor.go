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

// Package witnessactor is the optional local witnessing role: it
// periodically composes and submits a new unit citing current tips and
// pending transaction links.
package witnessactor

import (
	"context"
	"math/rand"
	"time"

	"github.com/computecoin-network/Olympus/common"
	"github.com/computecoin-network/Olympus/core/types"
	"github.com/computecoin-network/Olympus/crypto"
	"github.com/computecoin-network/Olympus/log"
)

// Source supplies the actor with the inputs it needs each tick without
// coupling it directly to the DAG engine or processor types.
type Source interface {
	IsSyncing() bool
	Tips() []common.Hash
	PendingLinks() []common.Hash
	LastSelfUnit() (common.Hash, uint64, bool) // hash, level, found
	CurrentLevel() uint64
}

// Submitter hands a composed unit to the processor.
type Submitter interface {
	Admit(ctx context.Context, u *types.Unit) error
}

// Config controls the actor's timing and eligibility thresholds.
type Config struct {
	MinInterval       time.Duration
	MaxInterval       time.Duration
	ThresholdDistance uint64
}

// Actor runs the periodic compose-and-submit loop.
type Actor struct {
	key       *crypto.PrivateKey
	author    common.Address
	source    Source
	submitter Submitter
	cfg       Config
	log       log.Logger
}

func New(key *crypto.PrivateKey, author common.Address, source Source, submitter Submitter, cfg Config, logger log.Logger) *Actor {
	return &Actor{key: key, author: author, source: source, submitter: submitter, cfg: cfg, log: logger}
}

// Run loops until ctx is cancelled, sleeping a jittered interval between
// [MinInterval, MaxInterval] and attempting one Tick per wakeup.
func (a *Actor) Run(ctx context.Context) {
	for {
		wait := jitteredInterval(a.cfg.MinInterval, a.cfg.MaxInterval)
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		if err := a.Tick(ctx); err != nil {
			a.log.Warn("witness tick failed", "err", err)
		}
	}
}

func jitteredInterval(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	span := max - min
	return min + time.Duration(rand.Int63n(int64(span)))
}

// Tick runs one pass of the actor's three steps: gather current tips,
// compose a unit citing them, and submit it.
func (a *Actor) Tick(ctx context.Context) error {
	if a.source.IsSyncing() {
		return nil
	}

	_, lastLevel, found := a.source.LastSelfUnit()
	if found && a.source.CurrentLevel()-lastLevel < a.cfg.ThresholdDistance {
		return nil
	}

	tips := a.source.Tips()
	if len(tips) == 0 {
		return nil
	}
	links := a.source.PendingLinks()

	u := &types.Unit{
		Parents:   tipsToHashes(tips),
		Links:     links,
		Author:    a.author,
		Timestamp: uint64(nowUnix()),
		Kind:      types.KindDag,
	}
	if err := u.Sign(a.key); err != nil {
		return err
	}
	return a.submitter.Admit(ctx, u)
}

func tipsToHashes(tips []common.Hash) []common.Hash {
	out := make([]common.Hash, len(tips))
	copy(out, tips)
	return out
}

// nowUnix is isolated in its own function so tests can override it via
// a build-time substitute if ever needed; production code calls
// time.Now directly.
func nowUnix() int64 { return time.Now().Unix() }
