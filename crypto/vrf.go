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

	blst "github.com/supranational/blst/bindings/go"
)

// ErrInvalidProof is returned when an approve message's VRF-style proof
// fails to verify.
var ErrInvalidProof = errors.New("crypto: invalid approve proof")

type blstSecretKey = blst.SecretKey
type blstP1Affine = blst.P1Affine
type blstP2Affine = blst.P2Affine

const dstApprove = "OLYMPUS_APPROVE_VRF_V1"

// VRFKey is the BLS keypair an eligible account uses to produce approve
// proofs. A BLS signature over the epoch seed doubles as the VRF output:
// it is deterministic given (key, seed), unpredictable without the secret
// key, and publicly verifiable against the registered public key — exactly
// the three properties a proof of eligibility needs.
type VRFKey struct {
	sk *blstSecretKey
}

// NewVRFKey derives a BLS secret key from 32+ bytes of entropy (IKM).
func NewVRFKey(ikm []byte) (*VRFKey, error) {
	if len(ikm) < 32 {
		return nil, errors.New("crypto: VRF IKM must be >= 32 bytes")
	}
	sk := blst.KeyGen(ikm)
	if sk == nil {
		return nil, errors.New("crypto: VRF key generation failed")
	}
	return &VRFKey{sk: sk}, nil
}

// PublicKey returns the compressed 48-byte BLS public key to register on
// the account (used later by VerifyApprove).
func (k *VRFKey) PublicKey() []byte {
	var pub blstP1Affine
	pub.From(k.sk)
	return pub.Compress()
}

// Prove signs the epoch seed, producing a 96-byte proof whose bytes also
// serve as the VRF output used to rank candidates for election.
func (k *VRFKey) Prove(epochSeed []byte) []byte {
	var sig blstP2Affine
	sig.Sign(k.sk, epochSeed, []byte(dstApprove))
	return sig.Compress()
}

// VerifyApprove checks that proof is a valid BLS signature over epochSeed
// under the compressed public key pub.
func VerifyApprove(pub, epochSeed, proof []byte) error {
	var sig blstP2Affine
	if !sig.Uncompress(proof) {
		return ErrInvalidProof
	}
	var pk blstP1Affine
	if !pk.Uncompress(pub) {
		return ErrInvalidProof
	}
	if !sig.Verify(true, &pk, true, epochSeed, []byte(dstApprove)) {
		return ErrInvalidProof
	}
	return nil
}

// VRFOutputLess orders two proofs ascending by raw bytes — the
// deterministic tie-break for election.
func VRFOutputLess(a, b []byte) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
