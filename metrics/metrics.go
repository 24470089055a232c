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

// Package metrics exposes a prometheus registry plus the gauges that
// describe the ledger's live shape (DAG width, MC length, caches) on
// top of the per-component counters core/processor already registers.
package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/computecoin-network/Olympus/log"
)

// Registry bundles the shared prometheus.Registry with the node-level
// gauges; component-owned counters (core/processor.Metrics and friends)
// register themselves against Registry() directly.
type Registry struct {
	reg *prometheus.Registry

	DagTips        prometheus.Gauge
	MainChainIndex prometheus.Gauge
	UnhandledSize  prometheus.Gauge
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
}

func New() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		reg: reg,
		DagTips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "olympus_dag_tips",
			Help: "Number of current free (childless) units in the DAG.",
		}),
		MainChainIndex: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "olympus_main_chain_index",
			Help: "Index of the current main-chain tip.",
		}),
		UnhandledSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "olympus_unhandled_cache_size",
			Help: "Number of units awaiting dependency resolution.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "olympus_block_cache_hits_total",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "olympus_block_cache_misses_total",
		}),
	}
	reg.MustRegister(r.DagTips, r.MainChainIndex, r.UnhandledSize, r.CacheHits, r.CacheMisses)
	return r
}

// Registerer exposes the underlying registry so component constructors
// (core/processor.NewMetrics) can register their own counters onto it.
func (r *Registry) Registerer() prometheus.Registerer { return r.reg }

// Serve runs the /metrics HTTP endpoint until ctx is cancelled.
func (r *Registry) Serve(ctx context.Context, addr string, logger log.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
