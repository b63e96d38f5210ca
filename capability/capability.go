/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package capability declares the injectable collaborators the core
// depends on: byte fetcher, signer, verifier, and clock. None of
// these has a process-wide singleton implementation; every
// constructor that needs one takes it explicitly. See SPEC_FULL.md §6.
package capability

import (
	"context"
	"time"
)

// Fetcher retrieves the bytes at url. Implementations may retry
// transient failures internally; the core treats fetcher errors as
// opaque and non-retryable at its own level.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Signer produces a raw signature over msg using the key identified
// by keyID. For this engine keyID is always a did:key or
// verificationMethod fragment identifying an Ed25519 key.
type Signer interface {
	Sign(ctx context.Context, keyID string, msg []byte) ([]byte, error)
}

// Verifier reports whether sig is a valid signature over msg under
// pubKey.
type Verifier interface {
	Verify(pubKey, msg, sig []byte) bool
}

// Clock supplies the current time, injected so entry construction and
// time-bound queries are deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock is the Clock backed by time.Now, the default used when
// no Clock is supplied.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) { return f(ctx, url) }

// SignerFunc adapts a plain function to the Signer interface.
type SignerFunc func(ctx context.Context, keyID string, msg []byte) ([]byte, error)

// Sign implements Signer.
func (f SignerFunc) Sign(ctx context.Context, keyID string, msg []byte) ([]byte, error) {
	return f(ctx, keyID, msg)
}

// VerifierFunc adapts a plain function to the Verifier interface.
type VerifierFunc func(pubKey, msg, sig []byte) bool

// Verify implements Verifier.
func (f VerifierFunc) Verify(pubKey, msg, sig []byte) bool { return f(pubKey, msg, sig) }

// Ed25519Verifier is the default Verifier, backed by crypto/ed25519.
// No third-party Ed25519 verification library is used here (a KMS/
// Tink abstraction was deliberately dropped in favor of this narrower
// seam, see DESIGN.md), so this one function is the stdlib exception
// the capability boundary exists precisely to make swappable.
func Ed25519Verifier() Verifier {
	return VerifierFunc(func(pubKey, msg, sig []byte) bool {
		return ed25519Verify(pubKey, msg, sig)
	})
}
