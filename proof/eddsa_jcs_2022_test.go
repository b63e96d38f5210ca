/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package proof_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trustbloc/didwebvh-go/capability"
	"github.com/trustbloc/didwebvh-go/proof"
)

func TestCreateAndVerifyProof(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	signer := proof.NewSigner(capability.Ed25519Signer(priv), capability.SystemClock{})
	verifier := proof.NewVerifier(capability.Ed25519Verifier())

	doc := []byte(`{"hello":"world"}`)

	opts := &proof.ProofOptions{
		Purpose:            "assertionMethod",
		VerificationMethod: &proof.VerificationMethod{ID: "did:key:z6Mk#z6Mk"},
	}

	p, err := signer.CreateProof(doc, opts)
	require.NoError(t, err)
	require.Equal(t, proof.SuiteType, p.Type)
	require.NotEmpty(t, p.ProofValue)

	verifyOpts := &proof.ProofOptions{
		VerificationMethod: &proof.VerificationMethod{
			ID:     opts.VerificationMethod.ID,
			Fields: map[string]interface{}{"publicKeyBytes": []byte(pub)},
		},
	}

	require.NoError(t, verifier.VerifyProof(doc, p, verifyOpts))
}

func TestVerifyProof_RejectsTamperedDoc(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	signer := proof.NewSigner(capability.Ed25519Signer(priv), capability.SystemClock{})
	verifier := proof.NewVerifier(capability.Ed25519Verifier())

	doc := []byte(`{"hello":"world"}`)
	opts := &proof.ProofOptions{
		Purpose:            "assertionMethod",
		VerificationMethod: &proof.VerificationMethod{ID: "did:key:z6Mk#z6Mk"},
	}

	p, err := signer.CreateProof(doc, opts)
	require.NoError(t, err)

	tampered := []byte(`{"hello":"mallory"}`)

	verifyOpts := &proof.ProofOptions{
		VerificationMethod: &proof.VerificationMethod{
			ID:     opts.VerificationMethod.ID,
			Fields: map[string]interface{}{"publicKeyBytes": []byte(pub)},
		},
	}

	require.Error(t, verifier.VerifyProof(tampered, p, verifyOpts))
}

func TestVerifyProof_RejectsTamperedProofConfig(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	signer := proof.NewSigner(capability.Ed25519Signer(priv), capability.SystemClock{})
	verifier := proof.NewVerifier(capability.Ed25519Verifier())

	doc := []byte(`{"hello":"world"}`)
	opts := &proof.ProofOptions{
		Purpose:            "assertionMethod",
		VerificationMethod: &proof.VerificationMethod{ID: "did:key:z6Mk#z6Mk"},
	}

	p, err := signer.CreateProof(doc, opts)
	require.NoError(t, err)

	p.Created = "1970-01-01T00:00:00Z"

	verifyOpts := &proof.ProofOptions{
		VerificationMethod: &proof.VerificationMethod{
			ID:     opts.VerificationMethod.ID,
			Fields: map[string]interface{}{"publicKeyBytes": []byte(pub)},
		},
	}

	require.Error(t, verifier.VerifyProof(doc, p, verifyOpts))
}
