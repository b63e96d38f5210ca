/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didlog

import (
	"github.com/trustbloc/didwebvh-go/didkey"
	"github.com/trustbloc/didwebvh-go/errkind"
)

// DefaultKeyResolver resolves a proof's verificationMethod directly:
// did:webvh updateKeys are themselves did:key multikeys, so a
// verificationMethod of the form "did:key:<multikey>#<multikey>" (or
// the bare multikey alone) carries its own key material and needs no
// external DID resolution, only decoding -- via didkey.Decode, which
// strips the multicodec prefix and yields a raw 32-byte Ed25519 key
// rather than the still-prefixed bytes a bare multibase decode would.
func DefaultKeyResolver(verificationMethodID string, activeUpdateKeys []string) ([]byte, error) {
	pub, err := didkey.Decode(verificationMethodID)
	if err != nil {
		return nil, errkind.Wrap(errkind.KindUnauthorizedKey, err,
			"didlog: verificationMethod %q does not carry a decodable key", verificationMethodID)
	}

	return pub, nil
}
