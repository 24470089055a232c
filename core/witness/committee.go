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

package witness

import (
	"sort"

	"github.com/computecoin-network/Olympus/core/types"
	"github.com/computecoin-network/Olympus/crypto"
)

// ElectCommittee implements the election's epoch transition: sort the
// closing epoch's approves by VRF output ascending and take the top k —
// that set becomes the next epoch's witnesses.
func ElectCommittee(approves []*types.ApproveMessage, k int) []*types.ApproveMessage {
	sorted := make([]*types.ApproveMessage, len(approves))
	copy(sorted, approves)
	sort.Slice(sorted, func(i, j int) bool {
		return crypto.VRFOutputLess(sorted[i].Proof, sorted[j].Proof)
	})
	if k >= 0 && k < len(sorted) {
		sorted = sorted[:k]
	}
	return sorted
}

// BuildEpochRecord elects the committee and packages it into the
// EpochRecord persisted for the next epoch.
func BuildEpochRecord(nextEpoch uint64, approves []*types.ApproveMessage, committeeSize int) *types.EpochRecord {
	elected := ElectCommittee(approves, committeeSize)
	record := &types.EpochRecord{Epoch: nextEpoch}
	for _, a := range elected {
		record.WitnessSet = append(record.WitnessSet, a.Sender)
	}
	return record
}
