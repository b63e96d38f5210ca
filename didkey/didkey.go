/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package didkey encodes and decodes did:key identifiers for the
// Ed25519 keys this engine uses as updateKeys, nextKeyHashes targets,
// and witness identities.
package didkey

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/trustbloc/didwebvh-go/canon"
)

// ed25519PubKeyMultiCodec is the multicodec table entry for an
// Ed25519 public key. https://github.com/multiformats/multicodec
const ed25519PubKeyMultiCodec = 0xed

// Create builds a did:key identifier and its sole verification-method
// ID from an Ed25519 public key, following the did:key format spec:
// the methodID is the multibase encoding of the varint-prefixed
// multicodec public key, and the verification method fragment repeats
// that value.
func Create(pub ed25519.PublicKey) (did string, verificationMethodID string) {
	methodID := Fingerprint(pub)
	did = "did:key:" + methodID
	verificationMethodID = did + "#" + methodID

	return did, verificationMethodID
}

// Fingerprint returns the multicodec-prefixed, multibase-encoded
// public key alone (no "did:key:" prefix): the same value did:webvh
// records in updateKeys, nextKeyHashes commitments hash, and witness
// attestor ids name, so that it lines up byte-for-byte with the
// verificationMethod fragment Create derives from the same key.
func Fingerprint(pub ed25519.PublicKey) string {
	prefix := make([]byte, 2)
	n := binary.PutUvarint(prefix, ed25519PubKeyMultiCodec)

	buf := make([]byte, 0, n+len(pub))
	buf = append(buf, prefix[:n]...)
	buf = append(buf, pub...)

	return canon.Multibase(buf)
}

// Decode reverses Create, extracting the raw Ed25519 public key from
// a did:key identifier (or its multibase methodID alone). It rejects
// any multicodec other than Ed25519 since this engine only ever signs
// and verifies with Ed25519.
func Decode(didOrMethodID string) (ed25519.PublicKey, error) {
	methodID := didOrMethodID

	const prefix = "did:key:"
	if len(didOrMethodID) > len(prefix) && didOrMethodID[:len(prefix)] == prefix {
		methodID = didOrMethodID[len(prefix):]
	}

	if idx := indexOfFragment(methodID); idx >= 0 {
		methodID = methodID[:idx]
	}

	raw, err := canon.DecodeMultibase(methodID)
	if err != nil {
		return nil, errors.Wrap(err, "didkey: decode")
	}

	code, n := binary.Uvarint(raw)
	if n <= 0 {
		return nil, errors.New("didkey: invalid multicodec varint")
	}

	if code != ed25519PubKeyMultiCodec {
		return nil, errors.Errorf("didkey: unsupported multicodec 0x%x, only ed25519 (0x%x) is supported", code,
			ed25519PubKeyMultiCodec)
	}

	pub := raw[n:]
	if len(pub) != ed25519.PublicKeySize {
		return nil, errors.Errorf("didkey: invalid ed25519 public key length %d", len(pub))
	}

	return ed25519.PublicKey(pub), nil
}

func indexOfFragment(s string) int {
	for i, c := range s {
		if c == '#' {
			return i
		}
	}

	return -1
}
