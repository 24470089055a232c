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

// Package catchup maintains the bookkeeping invariants an external
// sync protocol would need to request ledger ranges deterministically,
// without implementing the protocol itself (columns 016-019). Grounded
// on turbo/snapshotsync/snapshotsync.go's table-bookkeeping shape,
// stripped of its download/transport machinery.
package catchup

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/computecoin-network/Olympus/common"
	"github.com/computecoin-network/Olympus/core/types"
	"github.com/computecoin-network/Olympus/kv"
)

// Range is the [FromMCI, ToMCI] span a stabilised summary covers.
type Range struct {
	FromMCI uint64
	ToMCI   uint64
}

func encodeMCI(mci uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, mci)
	return b
}

func decodeRange(b []byte) (Range, error) {
	if len(b) != 16 {
		return Range{}, errors.Errorf("catchup: malformed range (%d bytes)", len(b))
	}
	return Range{
		FromMCI: binary.BigEndian.Uint64(b[:8]),
		ToMCI:   binary.BigEndian.Uint64(b[8:]),
	}, nil
}

func encodeRange(r Range) []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[:8], r.FromMCI)
	binary.BigEndian.PutUint64(b[8:], r.ToMCI)
	return b
}

// RecordSummary indexes a newly stabilised unit's summary against the MCI
// range it closes. summaryHash is the content address of the
// types.UnitSummary built for unit, so an external sync protocol can
// request "everything between summary A and summary B" against a
// deterministic key instead of a live MCI number.
//
//   016 catchup_chain_summaries:    summaryHash -> Range (FromMCI, ToMCI)
//   017 catchup_chain_block_summary: unitHash    -> summaryHash
//   018 catchup_chain_summary_block: summaryHash -> unitHash
//   019 hash_tree_summary:          previousSummaryHash -> summaryHash
func RecordSummary(rw kv.Putter, summary *types.UnitSummary, unitHash, previousSummaryHash common.Hash, fromMCI uint64) error {
	summaryHash := summary.Hash()

	if err := rw.Put(kv.CatchupChainSummaries, summaryHash.Bytes(), encodeRange(Range{FromMCI: fromMCI, ToMCI: summary.MCI})); err != nil {
		return errors.Wrap(err, "catchup: record range")
	}
	if err := rw.Put(kv.CatchupChainBlockSumm, unitHash.Bytes(), summaryHash.Bytes()); err != nil {
		return errors.Wrap(err, "catchup: record block->summary")
	}
	if err := rw.Put(kv.CatchupChainSummBlock, summaryHash.Bytes(), unitHash.Bytes()); err != nil {
		return errors.Wrap(err, "catchup: record summary->block")
	}
	if previousSummaryHash != (common.Hash{}) {
		if err := rw.Put(kv.HashTreeSummary, previousSummaryHash.Bytes(), summaryHash.Bytes()); err != nil {
			return errors.Wrap(err, "catchup: record summary chain link")
		}
	}
	return nil
}

// RangeOf returns the MCI range a summary hash covers.
func RangeOf(tx kv.Getter, summaryHash common.Hash) (Range, bool, error) {
	raw, err := tx.GetOne(kv.CatchupChainSummaries, summaryHash.Bytes())
	if err != nil {
		return Range{}, false, err
	}
	if raw == nil {
		return Range{}, false, nil
	}
	r, err := decodeRange(raw)
	return r, err == nil, err
}

// SummaryOfUnit resolves the summary hash a stabilised unit closed.
func SummaryOfUnit(tx kv.Getter, unitHash common.Hash) (common.Hash, bool, error) {
	raw, err := tx.GetOne(kv.CatchupChainBlockSumm, unitHash.Bytes())
	if err != nil {
		return common.Hash{}, false, err
	}
	if raw == nil {
		return common.Hash{}, false, nil
	}
	return common.BytesToHash(raw), true, nil
}

// UnitOfSummary resolves the unit a summary hash was computed for.
func UnitOfSummary(tx kv.Getter, summaryHash common.Hash) (common.Hash, bool, error) {
	raw, err := tx.GetOne(kv.CatchupChainSummBlock, summaryHash.Bytes())
	if err != nil {
		return common.Hash{}, false, err
	}
	if raw == nil {
		return common.Hash{}, false, nil
	}
	return common.BytesToHash(raw), true, nil
}

// NextSummary walks the hash_tree_summary chain forward one link, letting
// a sync protocol request successive ranges without rescanning MCIs.
func NextSummary(tx kv.Getter, summaryHash common.Hash) (common.Hash, bool, error) {
	raw, err := tx.GetOne(kv.HashTreeSummary, summaryHash.Bytes())
	if err != nil {
		return common.Hash{}, false, err
	}
	if raw == nil {
		return common.Hash{}, false, nil
	}
	return common.BytesToHash(raw), true, nil
}
