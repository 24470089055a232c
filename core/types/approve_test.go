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
	"testing"

	"github.com/computecoin-network/Olympus/crypto"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func genApproveMessage(t *rapid.T) *ApproveMessage {
	return &ApproveMessage{
		Sender: genAddress(t, "sender"),
		Epoch:  rapid.Uint64().Draw(t, "epoch"),
		Proof:  rapid.SliceOfN(rapid.Uint8(), 0, 96).Draw(t, "proof"),
	}
}

func TestApproveMessageEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genApproveMessage(t)
		require.NoError(t, a.Sign(testKey()))

		got, err := DecodeApproveMessage(a.Encode())
		require.NoError(t, err)

		require.Equal(t, a.Sender, got.Sender)
		require.Equal(t, a.Epoch, got.Epoch)
		require.True(t, bytesEqual(a.Proof, got.Proof))
		require.Equal(t, a.Signature, got.Signature)
		require.Equal(t, a.Hash(), got.Hash())
	})
}

func TestApproveMessageSignRecoversSender(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genApproveMessage(t)
		key := testKey()
		addr, err := key.Address()
		require.NoError(t, err)
		a.Sender = addr

		require.NoError(t, a.Sign(key))
		recovered, err := crypto.RecoverAddress(a.Hash(), a.Signature)
		require.NoError(t, err)
		require.Equal(t, addr, recovered)
	})
}
