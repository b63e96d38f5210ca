/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didwebvh

import (
	"context"

	"github.com/trustbloc/didwebvh-go/capability"
	"github.com/trustbloc/didwebvh-go/fetch"
	"github.com/trustbloc/didwebvh-go/proof"
	"github.com/trustbloc/didwebvh-go/resolver"
)

// Resolver resolves did:webvh identifiers to DID Documents over a
// pluggable Fetcher. It is a thin alias over resolver.Resolver so
// callers of this facade never need to import that package directly.
type Resolver = resolver.Resolver

// ResolverOption configures a Resolver.
type ResolverOption = resolver.Option

// WithWitnessEvaluator and WithLogger are re-exported so callers
// configuring a Resolver through this package don't need the
// resolver/witness/internal-logging packages directly.
var (
	WithWitnessEvaluator = resolver.WithWitnessEvaluator
	WithLogger           = resolver.WithLogger
	WithSkewTolerance    = resolver.WithSkewTolerance
)

// ResolveResult is the outcome of resolving a did:webvh identifier.
type ResolveResult = resolver.Result

// NewResolver builds a Resolver over fetcher, verifying entry proofs
// with the engine's sole supported suite (eddsa-jcs-2022).
func NewResolver(fetcher capability.Fetcher, opts ...ResolverOption) *Resolver {
	return resolver.New(fetcher, proof.NewVerifier(capability.Ed25519Verifier()), opts...)
}

// Resolve fetches and resolves did over plain HTTP(S), using fetch's
// default retrying client. For custom transport, caching, or
// authentication, build a Resolver with NewResolver and a
// capability.Fetcher of your own instead.
func Resolve(ctx context.Context, did string, opts ...ResolverOption) (ResolveResult, error) {
	return NewResolver(fetch.New(), opts...).Resolve(ctx, did)
}
