/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package canon

import (
	"crypto/sha256"

	mh "github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
)

// HashEntry returns the entry hash used as an entry's versionId suffix
// and as the `previousLogEntryHash`/proof-target digest: SHA-256 over
// the JCS-canonicalized bytes, framed as a multihash and encoded as a
// base58btc multibase string (without the `z` multibase prefix, since
// webvh embeds the raw multihash-multibase-without-prefix form in
// versionId fields; Multibase below adds the prefix where the
// specification calls for a full multibase string instead).
func HashEntry(jcsBytes []byte) (string, error) {
	sum := sha256.Sum256(jcsBytes)

	encoded, err := mh.Encode(sum[:], mh.SHA2_256)
	if err != nil {
		return "", errors.Wrap(err, "canon: multihash encode")
	}

	return Base58BTC(encoded), nil
}

// HashBytes frames arbitrary bytes as a SHA-256 multihash without any
// multibase prefix character, for contexts (nextKeyHashes) that store
// the multihash in its base58btc-encoded form directly.
func HashBytes(data []byte) (string, error) {
	sum := sha256.Sum256(data)

	encoded, err := mh.Encode(sum[:], mh.SHA2_256)
	if err != nil {
		return "", errors.Wrap(err, "canon: multihash encode")
	}

	return Base58BTC(encoded), nil
}
