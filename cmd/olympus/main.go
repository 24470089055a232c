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

// Command olympus runs the ledger node: admitting units, advancing the
// main chain, stabilising light units and, optionally, authoring new
// units as a local witness.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/computecoin-network/Olympus/common"
	"github.com/computecoin-network/Olympus/config"
	"github.com/computecoin-network/Olympus/core/cache"
	"github.com/computecoin-network/Olympus/core/dag"
	"github.com/computecoin-network/Olympus/core/processor"
	"github.com/computecoin-network/Olympus/core/state"
	"github.com/computecoin-network/Olympus/core/types"
	"github.com/computecoin-network/Olympus/core/unhandled"
	"github.com/computecoin-network/Olympus/core/vm"
	"github.com/computecoin-network/Olympus/core/witness"
	"github.com/computecoin-network/Olympus/core/witnessactor"
	"github.com/computecoin-network/Olympus/crypto"
	"github.com/computecoin-network/Olympus/kv"
	"github.com/computecoin-network/Olympus/kv/mdbx"
	"github.com/computecoin-network/Olympus/log"
	"github.com/computecoin-network/Olympus/metrics"
)

func main() {
	app := &cli.App{
		Name:  "olympus",
		Usage: "run and inspect an Olympus ledger node",
		Commands: []*cli.Command{
			runCommand,
			genesisCommand,
			witnessStatusCommand,
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "olympus:", err)
		os.Exit(1)
	}
}

var configFlag = &cli.StringFlag{
	Name:  "config",
	Usage: "path to the node's TOML configuration file",
	Value: "olympus.toml",
}

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "open the datadir and process incoming units",
	Flags: []cli.Flag{configFlag, &cli.StringFlag{Name: "witness-key", Usage: "32-byte hex private key for local witnessing"}},
	Action: func(c *cli.Context) error {
		cfg, n, err := openNode(c)
		if err != nil {
			return err
		}
		defer n.db.Close()

		logger := log.New("component", "olympus")
		logger.Info("node initialised", "datadir", cfg.DataDir, "mci_tip", n.lastMCI())

		if cfg.Metrics.Enabled {
			logger.Info("metrics listening", "addr", cfg.Metrics.Addr)
			go func() {
				if err := n.metrics.Serve(c.Context, cfg.Metrics.Addr, logger); err != nil {
					logger.Warn("metrics server stopped", "err", err)
				}
			}()
		}

		if cfg.WitnessActor.Enabled {
			if keyHex := c.String("witness-key"); keyHex != "" {
				key, err := parsePrivateKeyHex(keyHex)
				if err != nil {
					return err
				}
				author, err := key.Address()
				if err != nil {
					return fmt.Errorf("olympus: derive witness address: %w", err)
				}
				actor := witnessactor.New(key, author, &nodeSource{n}, &nodeSubmitter{n}, witnessactor.Config{
					MinInterval:       cfg.WitnessActor.MinInterval,
					MaxInterval:       cfg.WitnessActor.MaxInterval,
					ThresholdDistance: cfg.WitnessActor.ThresholdDistance,
				}, logger)
				go actor.Run(c.Context)
			} else {
				logger.Warn("witness_actor.enabled is set but no -witness-key was given; skipping")
			}
		}

		<-c.Context.Done()
		return nil
	},
}

var genesisCommand = &cli.Command{
	Name:  "genesis",
	Usage: "initialise a fresh datadir with a signed genesis unit",
	Flags: []cli.Flag{
		configFlag,
		&cli.StringFlag{Name: "key", Usage: "32-byte hex private key authoring genesis", Required: true},
	},
	Action: func(c *cli.Context) error {
		cfg, n, err := openNode(c)
		if err != nil {
			return err
		}
		defer n.db.Close()

		key, err := parsePrivateKeyHex(c.String("key"))
		if err != nil {
			return err
		}
		author, err := key.Address()
		if err != nil {
			return fmt.Errorf("olympus: derive genesis author: %w", err)
		}

		genesis := &types.Unit{Author: author, Kind: types.KindDag}
		if err := genesis.Sign(key); err != nil {
			return fmt.Errorf("olympus: sign genesis: %w", err)
		}

		outcome, err := n.processor.Admit(c.Context, genesis)
		if err != nil {
			return fmt.Errorf("olympus: admit genesis: %w", err)
		}
		fmt.Printf("genesis %s admitted into %s (outcome=%d)\n", genesis.Hash(), cfg.DataDir, outcome)
		return nil
	},
}

var witnessStatusCommand = &cli.Command{
	Name:  "witness-status",
	Usage: "print the elected witness set for an epoch",
	Flags: []cli.Flag{
		configFlag,
		&cli.Uint64Flag{Name: "epoch", Required: true},
	},
	Action: func(c *cli.Context) error {
		_, n, err := openNode(c)
		if err != nil {
			return err
		}
		defer n.db.Close()

		record, err := n.witnesses.EpochRecord(c.Uint64("epoch"))
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"#", "Witness Address"})
		for i, addr := range record.WitnessSet {
			t.AppendRow(table.Row{i, addr.String()})
		}
		t.Render()
		return nil
	},
}

// node bundles every long-lived component openNode wires together so
// each command can reach the pieces it needs without re-deriving them.
type node struct {
	db        kv.DB
	graph     *dag.Graph
	mainChain *dag.MainChain
	witnesses *witness.Store
	cache     *cache.Cache
	processor *processor.Processor
	metrics   *metrics.Registry
}

func (n *node) lastMCI() uint64 {
	_, mci, ok := n.mainChain.Tip()
	if !ok {
		return 0
	}
	return mci
}

func openNode(c *cli.Context) (config.Config, *node, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return config.Config{}, nil, err
	}

	db, err := mdbx.Open(cfg.DataDir, kv.ChaindataTables, kv.ChaindataTablesCfg, uint64(cfg.Store.MapSize))
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("olympus: open datadir: %w", err)
	}

	graph := dag.NewGraph()
	mainChain := dag.NewMainChain(graph)
	forks := dag.NewForkIndex()
	witnesses := witness.NewStore()
	blockCache := cache.New(cfg.Cache.CapacityPerCategory)
	unhandledCache := unhandled.New(cfg.Unhandled.Capacity)
	chainCfg := dag.ChainConfig{
		StabilityThresholdDistance: cfg.Chain.StabilityThresholdDistance,
		WitnessMajority:            cfg.Chain.WitnessMajority,
		EpochPeriod:                cfg.Chain.EpochPeriod,
		MaxSkiplistDepth:           cfg.Chain.MaxSkiplistDepth,
	}

	reg := metrics.New()
	procMetrics := processor.NewMetrics(reg.Registerer())
	logger := log.New("component", "processor")

	// The façade's Reader/Writer are consulted only while building and
	// flushing a single transaction's overlay; dbStateReader/dbStateWriter
	// each open their own short-lived store transaction per call instead
	// of holding one open for the node's lifetime.
	executor := vm.NewExecutor(dbStateReader{db}, dbStateWriter{db}, noopInterpreter{})

	proc := processor.New(db, graph, mainChain, forks, chainCfg, witnesses, blockCache, unhandledCache, executor, procMetrics, logger)

	return cfg, &node{
		db:        db,
		graph:     graph,
		mainChain: mainChain,
		witnesses: witnesses,
		cache:     blockCache,
		processor: proc,
		metrics:   reg,
	}, nil
}

func loadConfig(c *cli.Context) (config.Config, error) {
	path := c.String("config")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.Load(path)
}

func parsePrivateKeyHex(s string) (*crypto.PrivateKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("olympus: parse private key: %w", err)
	}
	return &crypto.PrivateKey{D: b}, nil
}

// dbStateReader/dbStateWriter adapt the column store to state.StateReader/
// StateWriter for the façade's internal bookkeeping reads (receipt
// construction); the authoritative read/write path for admission and
// stabilisation still runs inside core/processor's own db.Update
// transaction.
type dbStateReader struct{ db kv.DB }

func (r dbStateReader) ReadAccountData(addr common.Address) (acc *types.AccountState, err error) {
	viewErr := r.db.View(context.Background(), func(tx kv.Tx) error {
		acc, err = state.NewKVReader(tx).ReadAccountData(addr)
		return err
	})
	if viewErr != nil {
		return nil, viewErr
	}
	return acc, err
}

func (r dbStateReader) ReadAccountStorage(addr common.Address, key common.Hash) (v []byte, err error) {
	viewErr := r.db.View(context.Background(), func(tx kv.Tx) error {
		v, err = state.NewKVReader(tx).ReadAccountStorage(addr, key)
		return err
	})
	if viewErr != nil {
		return nil, viewErr
	}
	return v, err
}

func (r dbStateReader) ReadAccountCode(addr common.Address, codeHash common.Hash) (code []byte, err error) {
	viewErr := r.db.View(context.Background(), func(tx kv.Tx) error {
		code, err = state.NewKVReader(tx).ReadAccountCode(addr, codeHash)
		return err
	})
	if viewErr != nil {
		return nil, viewErr
	}
	return code, err
}

func (r dbStateReader) ReadAccountCodeSize(addr common.Address, codeHash common.Hash) (size int, err error) {
	viewErr := r.db.View(context.Background(), func(tx kv.Tx) error {
		size, err = state.NewKVReader(tx).ReadAccountCodeSize(addr, codeHash)
		return err
	})
	if viewErr != nil {
		return 0, viewErr
	}
	return size, err
}

type dbStateWriter struct{ db kv.DB }

func (w dbStateWriter) WriteAccountData(addr common.Address, original, account *types.AccountState) error {
	return w.db.Update(context.Background(), func(tx kv.RwTx) error {
		return state.NewKVWriter(tx).WriteAccountData(addr, original, account)
	})
}

func (w dbStateWriter) WriteAccountStorage(addr common.Address, key common.Hash, original, value []byte) error {
	return w.db.Update(context.Background(), func(tx kv.RwTx) error {
		return state.NewKVWriter(tx).WriteAccountStorage(addr, key, original, value)
	})
}

func (w dbStateWriter) WriteAccountCode(addr common.Address, codeHash common.Hash, code []byte) error {
	return w.db.Update(context.Background(), func(tx kv.RwTx) error {
		return state.NewKVWriter(tx).WriteAccountCode(addr, codeHash, code)
	})
}

func (w dbStateWriter) DeleteAccount(addr common.Address, original *types.AccountState) error {
	return w.db.Update(context.Background(), func(tx kv.RwTx) error {
		return state.NewKVWriter(tx).DeleteAccount(addr, original)
	})
}

// noopInterpreter stands in for the opcode interpreter, an external
// collaborator out of scope here; it reports a zero-cost, no-op
// execution so the façade's gas floor, receipt and permanence handling
// can be exercised end to end without a real EVM attached.
type noopInterpreter struct{}

func (noopInterpreter) Run(env vm.Env, overlay *state.Overlay, tx vm.Transaction) (vm.Result, []types.Trace, error) {
	return vm.Result{GasUsed: vm.BaseGas}, nil, nil
}

// nodeSource/nodeSubmitter adapt node to witnessactor.Source/Submitter.
type nodeSource struct{ n *node }

func (s *nodeSource) IsSyncing() bool { return false }

func (s *nodeSource) Tips() []common.Hash {
	tip, ok := s.n.graph.BestTip()
	if !ok {
		return nil
	}
	return []common.Hash{s.n.graph.Node(tip).Hash}
}

func (s *nodeSource) PendingLinks() []common.Hash { return nil }

func (s *nodeSource) LastSelfUnit() (common.Hash, uint64, bool) { return common.Hash{}, 0, false }

func (s *nodeSource) CurrentLevel() uint64 {
	tip, ok := s.n.graph.BestTip()
	if !ok {
		return 0
	}
	return s.n.graph.Node(tip).Level
}

type nodeSubmitter struct{ n *node }

func (s *nodeSubmitter) Admit(ctx context.Context, u *types.Unit) error {
	_, err := s.n.processor.Admit(ctx, u)
	return err
}
