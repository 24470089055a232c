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
	"fmt"
	"sync"

	"github.com/computecoin-network/Olympus/common"
	"github.com/computecoin-network/Olympus/core/types"
)

// Store keeps every EpochRecord in memory, keyed by the hash of the unit
// whose stabilisation closed the epoch (the witness_list_block a unit's
// witness set is resolved against). Persistence into the column store is
// the caller's concern; Store is the lookup surface core/dag.WitnessSet
// and the three epoch query methods are built on.
type Store struct {
	mu          sync.RWMutex
	byEpoch     map[uint64]*types.EpochRecord
	epochOfUnit map[common.Hash]uint64
	approves    map[uint64][]*types.ApproveMessage // all approves seen for an epoch
	elected     map[uint64][]*types.ApproveMessage  // the elected subset once computed
}

func NewStore() *Store {
	return &Store{
		byEpoch:     map[uint64]*types.EpochRecord{},
		epochOfUnit: map[common.Hash]uint64{},
		approves:    map[uint64][]*types.ApproveMessage{},
		elected:     map[uint64][]*types.ApproveMessage{},
	}
}

// RecordEpoch stores the witness set elected for epoch, reachable from
// units whose witness_list_block is unitHash.
func (s *Store) RecordEpoch(unitHash common.Hash, record *types.EpochRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byEpoch[record.Epoch] = record
	s.epochOfUnit[unitHash] = record.Epoch
}

// IsWitness implements dag.WitnessSet: resolve the epoch active at
// witnessListBlock and check membership.
func (s *Store) IsWitness(witnessListBlock common.Hash, author common.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	epoch, ok := s.epochOfUnit[witnessListBlock]
	if !ok {
		return false
	}
	record, ok := s.byEpoch[epoch]
	if !ok {
		return false
	}
	return record.IsWitness(author)
}

// AddApprove records an approve message against its claimed epoch ahead
// of that epoch's boundary being reached.
func (s *Store) AddApprove(msg *types.ApproveMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.approves[msg.Epoch] = append(s.approves[msg.Epoch], msg)
}

// CloseEpoch elects the committee for epoch from every approve recorded
// against it and persists the result as the record for epoch+1.
func (s *Store) CloseEpoch(epoch uint64, committeeSize int, closingUnitHash common.Hash) *types.EpochRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	elected := ElectCommittee(s.approves[epoch], committeeSize)
	s.elected[epoch] = elected
	record := BuildEpochRecord(epoch+1, elected, len(elected))
	s.byEpoch[record.Epoch] = record
	s.epochOfUnit[closingUnitHash] = record.Epoch
	return record
}

// EpochApproves exposes every approve received for epoch.
func (s *Store) EpochApproves(epoch uint64) []*types.ApproveMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*types.ApproveMessage(nil), s.approves[epoch]...)
}

// EpochApproveReceipts is epoch_approve_receipts(e): the same set, named
// for the approve-submission query stage.
func (s *Store) EpochApproveReceipts(epoch uint64) []*types.ApproveMessage {
	return s.EpochApproves(epoch)
}

// EpochElectedApproveReceipts is epoch_elected_approve_receipts(e): the
// subset actually elected into the committee.
func (s *Store) EpochElectedApproveReceipts(epoch uint64) []*types.ApproveMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*types.ApproveMessage(nil), s.elected[epoch]...)
}

// EpochRecord returns the stored record for epoch, if any.
func (s *Store) EpochRecord(epoch uint64) (*types.EpochRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byEpoch[epoch]
	if !ok {
		return nil, fmt.Errorf("witness: no epoch record for epoch %d", epoch)
	}
	return r, nil
}
