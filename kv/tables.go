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

package kv

// Column layout: three-digit names, fixed-width (20 or 32-byte) keys
// recorded per column in ChaindataTablesCfg below. Adapted from erigon-lib/kv/tables.go's const-table + TableCfg
// pattern; content replaced with this ledger's schema instead of
// erigon's chaindata schema.
const (
	DagAccountInfo        = "001_dag_account_info"
	AccountInfo           = "002_account_info"
	AccountState          = "003_account_state"
	LatestAccountState    = "004_latest_account_state"
	Blocks                = "005_blocks"
	BlocksData            = "006_blocks_data"
	BlockState            = "007_block_state"
	Successor             = "008_successor"
	MainChain             = "009_main_chain"
	Skiplist              = "010_skiplist"
	BlockSummary          = "011_block_summary"
	SummaryBlock          = "012_summary_block"
	StableBlock           = "013_stable_block"
	ContractMain          = "014_contract_main"
	Prop                  = "015_prop"
	CatchupChainSummaries = "016_catchup_chain_summaries"
	CatchupChainBlockSumm = "017_catchup_chain_block_summary"
	CatchupChainSummBlock = "018_catchup_chain_summary_block"
	HashTreeSummary       = "019_hash_tree_summary"
	UnlinkBlock           = "020_unlink_block"
	Traces                = "021_traces"
	NextUnlink            = "022_next_unlink"
	NextUnlinkIndex       = "023_next_unlink_index"
	ContractAux           = "024_contract_aux"
	DagFree               = "101_dag_free"
	BlockChild            = "102_block_child"
	UnlinkInfo            = "103_unlink_info"
	HeadUnlink            = "104_head_unlink"
)

// Prop sentinels — "prop holds global props keyed by small
// fixed sentinels".
const (
	PropVersion         byte = 0
	PropGenesisHash     byte = 1
	PropLastMCI         byte = 2
	PropLastStableMCI   byte = 3
	PropAdvanceInfo     byte = 4
	PropLastStableIndex byte = 5
	PropCatchupIndex    byte = 6
	PropCatchupMaxIndex byte = 7
)

// TableFlags mirror the bucket-option bitset (DupSort etc.) that the
// MDBX backend configures at environment open.
type TableFlags uint

const (
	Default    TableFlags = 0x00
	DupSort    TableFlags = 0x04
	IntegerKey TableFlags = 0x08
)

// TableCfgItem configures one column: its flags and, where the keys are
// fixed-width addresses/hashes, that key width. The MDBX backend reads
// only Flags; neither backend uses KeyPrefix.
type TableCfgItem struct {
	Flags     TableFlags
	KeyPrefix int // 0 = variable length
}

type TableCfg map[string]TableCfgItem

// ChaindataTables lists every column the store must create at open —
// the backend returns an "unknown table" error for a column used at
// runtime that is missing from here,
// matching erigon's own ChaindataTables/ChaindataTablesCfg discipline.
var ChaindataTables = []string{
	DagAccountInfo, AccountInfo, AccountState, LatestAccountState,
	Blocks, BlocksData, BlockState, Successor, MainChain, Skiplist,
	BlockSummary, SummaryBlock, StableBlock, ContractMain, Prop,
	CatchupChainSummaries, CatchupChainBlockSumm, CatchupChainSummBlock,
	HashTreeSummary, UnlinkBlock, Traces, NextUnlink, NextUnlinkIndex,
	ContractAux, DagFree, BlockChild, UnlinkInfo, HeadUnlink,
}

var ChaindataTablesCfg = TableCfg{
	DagAccountInfo:        {KeyPrefix: 20},
	AccountInfo:           {KeyPrefix: 20},
	AccountState:          {KeyPrefix: 32},
	LatestAccountState:    {KeyPrefix: 20},
	Blocks:                {KeyPrefix: 32},
	BlocksData:            {KeyPrefix: 32},
	BlockState:            {KeyPrefix: 32},
	Successor:             {Flags: DupSort, KeyPrefix: 32},
	MainChain:             {Flags: IntegerKey},
	Skiplist:              {KeyPrefix: 32},
	BlockSummary:          {KeyPrefix: 32},
	SummaryBlock:          {KeyPrefix: 32},
	StableBlock:           {Flags: IntegerKey},
	ContractMain:          {KeyPrefix: 32},
	Prop:                  {},
	CatchupChainSummaries: {KeyPrefix: 32},
	CatchupChainBlockSumm: {KeyPrefix: 32},
	CatchupChainSummBlock: {KeyPrefix: 32},
	HashTreeSummary:       {KeyPrefix: 32},
	UnlinkBlock:           {KeyPrefix: 32},
	Traces:                {Flags: DupSort, KeyPrefix: 32},
	NextUnlink:            {KeyPrefix: 32},
	NextUnlinkIndex:       {Flags: IntegerKey},
	ContractAux:           {KeyPrefix: 32},
	DagFree:               {KeyPrefix: 32},
	BlockChild:            {Flags: DupSort, KeyPrefix: 32},
	UnlinkInfo:            {KeyPrefix: 32},
	HeadUnlink:            {},
}

// Named 64-bit counters — key convention for the O(1) size counters
// exposed by Counters (pending-cache size, MC length, stable count, ...). Stored inline in
// Prop under a "counter:" prefix so no
// extra column is needed.
const counterKeyPrefix = "counter:"

func CounterKey(name string) []byte {
	return append([]byte(counterKeyPrefix), []byte(name)...)
}
