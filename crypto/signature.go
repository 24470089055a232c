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

package crypto

import (
	"errors"
	"fmt"

	"github.com/erigontech/secp256k1"

	"github.com/computecoin-network/Olympus/common"
)

// ErrInvalidSignature is returned when a unit or approve signature fails
// to verify or recover a sender.
var ErrInvalidSignature = errors.New("crypto: invalid signature")

// PrivateKey wraps a secp256k1 scalar used by the local witness actor to
// sign authored units and approve messages.
type PrivateKey struct {
	D []byte // 32-byte big-endian scalar
}

// Sign produces the 65-byte r||s||v envelope over a 32-byte digest. v is
// kept in {0,1} at the wire boundary/OQ4; no 27-offset is applied, as
// the underlying secp256k1 API already uses recovery ids in {0,1}.
func (k *PrivateKey) Sign(digest common.Hash) (common.Signature, error) {
	sig, err := secp256k1.Sign(digest[:], k.D)
	if err != nil {
		return common.Signature{}, fmt.Errorf("crypto: sign: %w", err)
	}
	var out common.Signature
	copy(out[:64], sig[:64])
	out[64] = sig[64] // secp256k1.Sign already yields recovery id in {0,1}
	return out, nil
}

// Address derives the 20-byte account address from the public key, using
// the low 20 bytes of Keccak256(pubkey) — the same derivation go-ethereum
// style chains use.
func (k *PrivateKey) Address() (common.Address, error) {
	pub, err := secp256k1.GeneratePublicKey(k.D)
	if err != nil {
		return common.Address{}, fmt.Errorf("crypto: derive pubkey: %w", err)
	}
	return PubkeyToAddress(pub), nil
}

// PubkeyToAddress derives an Address from an uncompressed 65-byte pubkey
// (0x04 || X || Y), dropping the format byte before hashing.
func PubkeyToAddress(pub []byte) common.Address {
	if len(pub) == 65 {
		pub = pub[1:]
	}
	h := Keccak256(pub)
	return common.BytesToAddress(h[12:])
}

// RecoverAddress recovers the signer address from a signature over digest.
// v must already be normalised to {0,1}.
func RecoverAddress(digest common.Hash, sig common.Signature) (common.Address, error) {
	if sig.V() > 1 {
		return common.Address{}, fmt.Errorf("%w: v=%d out of {0,1}", ErrInvalidSignature, sig.V())
	}
	var raw [65]byte
	copy(raw[:64], sig[:64])
	raw[64] = sig.V()
	pub, err := secp256k1.RecoverPubkey(digest[:], raw[:])
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return PubkeyToAddress(pub), nil
}

// Verify checks that sig is a valid signature over digest by address.
func Verify(digest common.Hash, sig common.Signature, address common.Address) bool {
	recovered, err := RecoverAddress(digest, sig)
	if err != nil {
		return false
	}
	return recovered == address
}
