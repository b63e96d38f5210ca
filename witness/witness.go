/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package witness implements the Witness Evaluator: quorum
// evaluation of a WitnessProofCollection against a folded witness
// parameter, with cached witness-key resolution.
package witness

import (
	"context"
	"time"

	"github.com/bluele/gcache"
	"github.com/pkg/errors"

	"github.com/trustbloc/didwebvh-go/canon"
	"github.com/trustbloc/didwebvh-go/didparams"
	"github.com/trustbloc/didwebvh-go/errkind"
	"github.com/trustbloc/didwebvh-go/proof"
)

// ProofRecord is one entry of a WitnessProofCollection: a set of
// Data Integrity proofs over a given versionId, contributed by one or
// more witnesses.
type ProofRecord struct {
	VersionID string
	Proofs    []WitnessProof
}

// WitnessProof is a single witness's Data Integrity counter-signature
// over the JSON object {"versionId": <the entry's versionId>}.
type WitnessProof struct {
	// WitnessID is the DID of the witness that produced Proof.
	WitnessID string
	Proof     proof.Proof
}

// KeyResolver resolves a witness DID's verification method to its raw
// public key bytes. Evaluator caches the keys it returns but does not
// track resolutions nested inside an implementation, so cycles among
// witness DIDs are not detected by Evaluator.
type KeyResolver func(ctx context.Context, witnessDID, verificationMethod string) ([]byte, error)

// Evaluator evaluates witness quorum per §4.4, resolving witness keys
// through resolveKey and keeping them in an LRU cache keyed by witness
// DID and verification method.
type Evaluator struct {
	resolveKey KeyResolver
	verifier   proof.Verifier
	cache      gcache.Cache
	maxDepth   int
}

// NewEvaluator constructs an Evaluator. verifier checks a witness
// proof's signature (eddsa-jcs-2022, the same cryptosuite entry
// proofs use). cacheSize bounds the number of resolved witness keys
// retained. maxDepth is compared with the resolution depth, which is
// 0 for every lookup Evaluate makes: a negative maxDepth makes every
// uncached lookup fail, and any other value has no effect.
func NewEvaluator(resolveKey KeyResolver, verifier proof.Verifier, cacheSize, maxDepth int) *Evaluator {
	if cacheSize <= 0 {
		cacheSize = 256
	}

	return &Evaluator{
		resolveKey: resolveKey,
		verifier:   verifier,
		cache:      gcache.New(cacheSize).LRU().Build(),
		maxDepth:   maxDepth,
	}
}

// Result is the outcome of quorum evaluation, surfaced in resolution
// metadata.
type Result struct {
	Met        bool
	Sum        int
	Threshold  int
	Validated  []string // witness IDs whose proof validated
}

// Evaluate sums the weights of witnesses in param whose proof over
// versionId validates, per §4.4: a witness with no proof contributes
// 0; a witness with multiple proofs counts at most once (first valid
// wins). A nil param (no witness requirement configured) always
// reports Met=true with Threshold=0.
func (e *Evaluator) Evaluate(ctx context.Context, param *didparams.WitnessParam, versionID string,
	collection []ProofRecord) (Result, error) {
	if param == nil {
		return Result{Met: true}, nil
	}

	proofsByWitness := indexProofsByVersionID(collection, versionID)

	sum := 0
	validated := make([]string, 0, len(param.Witnesses))

	for _, w := range param.Witnesses {
		proofs := proofsByWitness[w.ID]
		if len(proofs) == 0 {
			continue
		}

		ok, err := e.firstValid(ctx, w.ID, versionID, proofs)
		if err != nil {
			// Resolution failure degrades to "proof not counted",
			// never fatal -- §9.
			continue
		}

		if ok {
			sum += w.Weight
			validated = append(validated, w.ID)
		}
	}

	result := Result{
		Sum:       sum,
		Threshold: param.Threshold,
		Validated: validated,
		Met:       sum >= param.Threshold,
	}

	if !result.Met {
		return result, errkind.New(errkind.KindWitnessInsufficient,
			"witness: sum %d below threshold %d", sum, param.Threshold)
	}

	return result, nil
}

func (e *Evaluator) firstValid(ctx context.Context, witnessDID, versionID string, proofs []WitnessProof) (bool, error) {
	doc, err := canon.JCS(map[string]interface{}{"versionId": versionID})
	if err != nil {
		return false, errors.Wrap(err, "witness: canonicalize signing document")
	}

	for _, p := range proofs {
		pubKey, err := e.resolveWithCycleGuard(ctx, witnessDID, p.Proof.VerificationMethod, 0)
		if err != nil {
			continue
		}

		verifyErr := e.verifier.VerifyProof(doc, &p.Proof, &proof.ProofOptions{
			VerificationMethod: &proof.VerificationMethod{
				ID:     p.Proof.VerificationMethod,
				Fields: map[string]interface{}{"publicKeyBytes": pubKey},
			},
		})
		if verifyErr == nil {
			return true, nil
		}
	}

	return false, errors.New("witness: no valid proof")
}

func (e *Evaluator) resolveWithCycleGuard(ctx context.Context, witnessDID, vm string, depth int) ([]byte, error) {
	cacheKey := witnessDID + "#" + vm

	if cached, err := e.cache.Get(cacheKey); err == nil {
		return cached.([]byte), nil
	}

	if depth > e.maxDepth {
		return nil, errors.New("witness: max resolution depth exceeded")
	}

	pubKey, err := e.resolveKey(ctx, witnessDID, vm)
	if err != nil {
		return nil, err
	}

	_ = e.cache.SetWithExpire(cacheKey, pubKey, 10*time.Minute)

	return pubKey, nil
}

func indexProofsByVersionID(collection []ProofRecord, versionID string) map[string][]WitnessProof {
	out := map[string][]WitnessProof{}

	for _, rec := range collection {
		if rec.VersionID != versionID {
			continue
		}

		for _, p := range rec.Proofs {
			out[p.WitnessID] = append(out[p.WitnessID], p)
		}
	}

	return out
}
