/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didwebvh

import (
	"crypto/ed25519"
	"crypto/rand"

	"github.com/trustbloc/didwebvh-go/capability"
	"github.com/trustbloc/didwebvh-go/didkey"
)

// Signer holds an Ed25519 keypair and the verificationMethod identity
// derived from it. It is the minimal signing capability Create/Update/
// Deactivate need; callers with keys already held elsewhere (an HSM,
// a wallet) should build didlog.CreateOptions/UpdateOptions directly
// against capability.Signer instead of going through this facade.
type Signer struct {
	priv      ed25519.PrivateKey
	multibase string
	vmID      string
}

// NewSigner generates a fresh Ed25519 keypair.
func NewSigner() (*Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	return signerFromKey(pub, priv), nil
}

// NewSignerFromKey wraps an existing Ed25519 private key.
func NewSignerFromKey(priv ed25519.PrivateKey) *Signer {
	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return nil
	}

	return signerFromKey(pub, priv)
}

func signerFromKey(pub ed25519.PublicKey, priv ed25519.PrivateKey) *Signer {
	_, vmID := didkey.Create(pub)

	return &Signer{priv: priv, multibase: didkey.Fingerprint(pub), vmID: vmID}
}

// PublicKeyMultibase is the multicodec-prefixed, multibase-encoded
// public key -- the did:key multikey form, the form did:webvh
// updateKeys and witness attestor ids are recorded in, and the same
// value the verificationMethod fragment in VerificationMethodID
// carries.
func (s *Signer) PublicKeyMultibase() string { return s.multibase }

// VerificationMethodID is the did:key verificationMethod identity
// this signer co-signs entries under.
func (s *Signer) VerificationMethodID() string { return s.vmID }

// Seed returns the 32-byte Ed25519 seed this signer was derived from,
// for callers that need to persist and later reload the same key
// (e.g. the CLI's create/update split across process invocations).
func (s *Signer) Seed() []byte { return s.priv.Seed() }

func (s *Signer) capability() capability.Signer {
	return capability.Ed25519Signer(s.priv)
}
