/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package capability

import (
	"context"
	"crypto/ed25519"
)

func ed25519Verify(pubKey, msg, sig []byte) bool {
	if len(pubKey) != ed25519.PublicKeySize {
		return false
	}

	return ed25519.Verify(ed25519.PublicKey(pubKey), msg, sig)
}

// Ed25519Signer returns a Signer that signs with priv regardless of
// the requested keyID, for single-key callers (tests, the CLI's
// minimal create/update flow).
func Ed25519Signer(priv ed25519.PrivateKey) Signer {
	return SignerFunc(func(_ context.Context, _ string, msg []byte) ([]byte, error) {
		return ed25519.Sign(priv, msg), nil
	})
}
