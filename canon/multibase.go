/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package canon

import (
	mb "github.com/multiformats/go-multibase"
	"github.com/pkg/errors"
)

// Base58BTC returns the base58btc encoding of data with no multibase
// prefix character, matching the bare-base58 form webvh uses for the
// hash suffix of a versionId and for nextKeyHashes entries.
func Base58BTC(data []byte) string {
	encoded, err := mb.Encode(mb.Base58BTC, data)
	if err != nil {
		panic(err)
	}
	// mb.Encode prepends the single-character multibase prefix; strip
	// it since versionId hashes and nextKeyHashes are bare base58.
	return encoded[1:]
}

// DecodeBase58BTC reverses Base58BTC.
func DecodeBase58BTC(s string) ([]byte, error) {
	_, data, err := mb.Decode(string(mb.Base58BTC) + s)
	if err != nil {
		return nil, errors.Wrap(err, "canon: base58btc decode")
	}

	return data, nil
}

// Multibase returns the full multibase string (including the leading
// `z` base58btc prefix), used for did:key identifiers and Data
// Integrity proofValue/publicKeyMultibase fields.
func Multibase(data []byte) string {
	encoded, err := mb.Encode(mb.Base58BTC, data)
	if err != nil {
		panic(err)
	}
	return encoded
}

// DecodeMultibase reverses Multibase, rejecting any encoding other
// than base58btc since this engine only ever emits and accepts `z`.
func DecodeMultibase(s string) ([]byte, error) {
	encoding, data, err := mb.Decode(s)
	if err != nil {
		return nil, errors.Wrap(err, "canon: multibase decode")
	}

	if encoding != mb.Base58BTC {
		return nil, errors.Errorf("canon: unsupported multibase encoding %v", encoding)
	}

	return data, nil
}
