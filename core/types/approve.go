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

package types

import (
	"fmt"

	"github.com/computecoin-network/Olympus/common"
	"github.com/computecoin-network/Olympus/crypto"
	"github.com/computecoin-network/Olympus/rlp"
)

// ApproveMessage is a witness-election ballot: Proof is
// a VRF-style proof over the closing epoch's seed, and its output seeds
// the next epoch's election (lowest outputs win, see core/witness).
type ApproveMessage struct {
	Sender    common.Address
	Epoch     uint64
	Proof     []byte
	Signature common.Signature
}

func (a *ApproveMessage) body() rlp.Value {
	return rlp.List(rlp.Bytes(a.Sender.Bytes()), rlp.Uint64(a.Epoch), rlp.Bytes(a.Proof))
}

// Hash identifies the approve message independent of its signature, the
// object hashed/signed by Sign and verified by crypto.RecoverAddress.
func (a *ApproveMessage) Hash() common.Hash {
	return crypto.Keccak256(rlp.Encode(a.body()))
}

func (a *ApproveMessage) Sign(key *crypto.PrivateKey) error {
	sig, err := key.Sign(a.Hash())
	if err != nil {
		return fmt.Errorf("types: sign approve: %w", err)
	}
	a.Signature = sig
	return nil
}

func (a *ApproveMessage) Encode() []byte {
	return rlp.Encode(rlp.List(a.body(), rlp.Bytes(a.Signature.Bytes())))
}

func DecodeApproveMessage(b []byte) (*ApproveMessage, error) {
	v, rest, err := rlp.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("types: decode approve: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("types: decode approve: trailing bytes")
	}
	items, err := v.AsList()
	if err != nil || len(items) != 2 {
		return nil, fmt.Errorf("types: decode approve: malformed envelope")
	}
	body, err := items[0].AsList()
	if err != nil || len(body) != 3 {
		return nil, fmt.Errorf("types: decode approve: malformed body")
	}
	epoch, err := body[1].AsUint64()
	if err != nil {
		return nil, fmt.Errorf("types: decode approve: epoch: %w", err)
	}
	a := &ApproveMessage{
		Sender: common.BytesToAddress(body[0].Str),
		Epoch:  epoch,
		Proof:  body[2].Str,
	}
	sig := items[1].Str
	if len(sig) != len(a.Signature) {
		return nil, fmt.Errorf("types: decode approve: bad signature length %d", len(sig))
	}
	copy(a.Signature[:], sig)
	return a, nil
}
