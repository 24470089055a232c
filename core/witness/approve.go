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

// Package witness implements the witness/approve/epoch subsystem:
// approve-message validation, epoch-boundary committee
// election, and the epoch_approves/epoch_approve_receipts/
// epoch_elected_approve_receipts query surface.
package witness

import (
	"fmt"

	"github.com/computecoin-network/Olympus/common"
	"github.com/computecoin-network/Olympus/core/types"
	"github.com/computecoin-network/Olympus/crypto"
)

// Registry resolves a sender's registered VRF public key — maintained by
// whatever external collaborator manages account registration; the
// witness subsystem only consumes it.
type Registry interface {
	VRFPublicKey(sender common.Address) ([]byte, bool)
}

// ValidateApprove checks an approve message's signature and VRF proof.
func ValidateApprove(msg *types.ApproveMessage, epochSeed []byte, registry Registry) error {
	addr, err := crypto.RecoverAddress(msg.Hash(), msg.Signature)
	if err != nil {
		return fmt.Errorf("witness: recover approve signer: %w", err)
	}
	if addr != msg.Sender {
		return fmt.Errorf("witness: approve signature does not match sender %s", msg.Sender)
	}
	pub, ok := registry.VRFPublicKey(msg.Sender)
	if !ok {
		return fmt.Errorf("witness: no registered VRF key for %s", msg.Sender)
	}
	if err := crypto.VerifyApprove(pub, epochSeed, msg.Proof); err != nil {
		return fmt.Errorf("witness: verify approve proof for %s: %w", msg.Sender, err)
	}
	return nil
}
