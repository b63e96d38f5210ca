/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package proof

import (
	"context"
	"crypto/sha256"

	"github.com/pkg/errors"

	"github.com/trustbloc/didwebvh-go/canon"
	"github.com/trustbloc/didwebvh-go/capability"
)

// SuiteType is the cryptosuite identifier this engine's proofs carry
// in their `type` field.
const SuiteType = "eddsa-jcs-2022"

// EddsaJCS2022 implements Suite over the injected Signer/Verifier
// capabilities. The signature base is SHA-256(canonical document) ||
// SHA-256(canonical proof configuration) -- the proof configuration
// being the proof object itself (type, proofPurpose,
// verificationMethod, created) with proofValue omitted -- so `created`
// and `verificationMethod` are covered by the signature rather than
// left to ride along unauthenticated. This mirrors the ecdsa2019
// suite's transform/hash/sign split with RDF dataset canonicalization
// replaced by JCS and a KMS-backed signer replaced by the plain
// injected capability.
type EddsaJCS2022 struct {
	signer   capability.Signer
	verifier capability.Verifier
	clock    capability.Clock
}

// NewSigner returns a Suite that can create proofs using signer.
func NewSigner(signer capability.Signer, clock capability.Clock) *EddsaJCS2022 {
	if clock == nil {
		clock = capability.SystemClock{}
	}

	return &EddsaJCS2022{signer: signer, clock: clock}
}

// NewVerifier returns a Suite that can verify proofs using verifier.
func NewVerifier(verifier capability.Verifier) *EddsaJCS2022 {
	return &EddsaJCS2022{verifier: verifier}
}

// RequiresCreated implements suite.RequiresCreated. eddsa-jcs-2022
// always stamps `created`.
func (s *EddsaJCS2022) RequiresCreated() bool { return true }

// Type implements suite.Type.
func (s *EddsaJCS2022) Type() string { return SuiteType }

// CreateProof implements Signer. doc is the JCS-canonicalized bytes
// of the entry with `proof` elided entirely.
func (s *EddsaJCS2022) CreateProof(doc []byte, opts *ProofOptions) (*Proof, error) {
	if s.signer == nil {
		return nil, errors.Wrap(ErrProofTransformation, "eddsa-jcs-2022: no signer configured")
	}

	if opts == nil || opts.VerificationMethod == nil {
		return nil, errors.Wrap(ErrProofTransformation, "eddsa-jcs-2022: verification method required")
	}

	p := &Proof{
		Type:               SuiteType,
		ProofPurpose:       opts.Purpose,
		VerificationMethod: opts.VerificationMethod.ID,
		Created:            s.clock.Now().UTC().Format(DateTimeFormat),
	}

	sigBase, err := signatureBase(doc, p)
	if err != nil {
		return nil, errors.Wrap(ErrProofTransformation, err.Error())
	}

	sig, err := s.signer.Sign(context.Background(), opts.VerificationMethod.ID, sigBase)
	if err != nil {
		return nil, errors.Wrap(ErrProofTransformation, err.Error())
	}

	p.ProofValue = canon.Multibase(sig)

	return p, nil
}

// VerifyProof implements Verifier. doc is the JCS-canonicalized bytes
// of the entry with `proof` elided entirely;
// opts.VerificationMethod.Fields["publicKeyBytes"] supplies the raw
// Ed25519 public key to verify against.
func (s *EddsaJCS2022) VerifyProof(doc []byte, p *Proof, opts *ProofOptions) error {
	if s.verifier == nil {
		return errors.Wrap(ErrProofTransformation, "eddsa-jcs-2022: no verifier configured")
	}

	if p.Type != SuiteType {
		return errors.Wrapf(ErrInvalidProof, "unsupported proof type %q", p.Type)
	}

	if opts == nil || opts.VerificationMethod == nil {
		return errors.Wrap(ErrProofTransformation, "eddsa-jcs-2022: verification method required")
	}

	pubKey, ok := opts.VerificationMethod.Fields["publicKeyBytes"].([]byte)
	if !ok {
		return errors.Wrap(ErrProofTransformation, "eddsa-jcs-2022: missing public key bytes")
	}

	sig, err := canon.DecodeMultibase(p.ProofValue)
	if err != nil {
		return errors.Wrap(ErrInvalidProof, "eddsa-jcs-2022: malformed proofValue")
	}

	sigBase, err := signatureBase(doc, p)
	if err != nil {
		return errors.Wrap(ErrProofTransformation, err.Error())
	}

	if !s.verifier.Verify(pubKey, sigBase, sig) {
		return ErrInvalidProof
	}

	return nil
}

// signatureBase computes the eddsa-jcs-2022 signing/verification
// input: SHA-256(doc) concatenated with SHA-256 of the JCS-canonical
// proof configuration (p with proofValue necessarily absent, since p
// is built or read before ProofValue is set/consumed here).
func signatureBase(doc []byte, p *Proof) ([]byte, error) {
	confBytes, err := proofConfigBytes(p)
	if err != nil {
		return nil, err
	}

	docHash := sha256.Sum256(doc)
	confHash := sha256.Sum256(confBytes)

	out := make([]byte, 0, len(docHash)+len(confHash))
	out = append(out, docHash[:]...)
	out = append(out, confHash[:]...)

	return out, nil
}

// proofConfigBytes JCS-canonicalizes the proof configuration: the
// proof's own type/proofPurpose/verificationMethod/created fields,
// which is everything a proof carries besides proofValue.
func proofConfigBytes(p *Proof) ([]byte, error) {
	conf := map[string]interface{}{
		"type":               p.Type,
		"proofPurpose":       p.ProofPurpose,
		"verificationMethod": p.VerificationMethod,
	}

	if p.Created != "" {
		conf["created"] = p.Created
	}

	return canon.JCS(conf)
}
