/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package witness_test

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trustbloc/didwebvh-go/canon"
	"github.com/trustbloc/didwebvh-go/capability"
	"github.com/trustbloc/didwebvh-go/didparams"
	"github.com/trustbloc/didwebvh-go/proof"
	"github.com/trustbloc/didwebvh-go/witness"
)

// signWitnessProof builds the Data Integrity proof a witness produces
// over {"versionId": versionID}, using priv to sign.
func signWitnessProof(t *testing.T, priv ed25519.PrivateKey, vm, versionID string) proof.Proof {
	t.Helper()

	signer := proof.NewSigner(capability.Ed25519Signer(priv), capability.SystemClock{})

	doc, err := canon.JCS(map[string]interface{}{"versionId": versionID})
	require.NoError(t, err)

	p, err := signer.CreateProof(doc, &proof.ProofOptions{
		Purpose:            "authentication",
		VerificationMethod: &proof.VerificationMethod{ID: vm},
	})
	require.NoError(t, err)

	return *p
}

func TestEvaluate_ThresholdMetWithSingleWitness(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	versionID := "2-abc123"

	resolver := func(_ context.Context, _, _ string) ([]byte, error) {
		return pub, nil
	}

	eval := witness.NewEvaluator(resolver, proof.NewVerifier(capability.Ed25519Verifier()), 16, 0)

	param := &didparams.WitnessParam{
		Threshold: 1,
		Witnesses: []didparams.Witness{{ID: "did:example:w1", Weight: 1}},
	}

	collection := []witness.ProofRecord{
		{
			VersionID: versionID,
			Proofs: []witness.WitnessProof{
				{WitnessID: "did:example:w1", Proof: signWitnessProof(t, priv, "did:example:w1#key-1", versionID)},
			},
		},
	}

	result, err := eval.Evaluate(context.Background(), param, versionID, collection)
	require.NoError(t, err)
	require.True(t, result.Met)
	require.Equal(t, 1, result.Sum)
}

func TestEvaluate_InsufficientWeightFails(t *testing.T) {
	pub1, priv1, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	_, priv2, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	versionID := "2-abc123"
	proof1 := signWitnessProof(t, priv1, "did:example:w1#key-1", versionID)
	proof2 := signWitnessProof(t, priv2, "did:example:w2#key-1", versionID)

	resolver := func(_ context.Context, witnessDID, _ string) ([]byte, error) {
		// w2's registered key never matches priv2's signature here --
		// resolver intentionally returns the wrong key to simulate an
		// invalid proof.
		if witnessDID == "did:example:w1" {
			return pub1, nil
		}

		return pub1, nil
	}

	eval := witness.NewEvaluator(resolver, proof.NewVerifier(capability.Ed25519Verifier()), 16, 0)

	param := &didparams.WitnessParam{
		Threshold: 2,
		Witnesses: []didparams.Witness{
			{ID: "did:example:w1", Weight: 1},
			{ID: "did:example:w2", Weight: 1},
		},
	}

	collection := []witness.ProofRecord{
		{
			VersionID: versionID,
			Proofs: []witness.WitnessProof{
				{WitnessID: "did:example:w1", Proof: proof1},
				{WitnessID: "did:example:w2", Proof: proof2},
			},
		},
	}

	result, err := eval.Evaluate(context.Background(), param, versionID, collection)
	require.Error(t, err)
	require.False(t, result.Met)
	require.Equal(t, 1, result.Sum)
}

func TestEvaluate_NilParamAlwaysMet(t *testing.T) {
	eval := witness.NewEvaluator(nil, proof.NewVerifier(capability.Ed25519Verifier()), 16, 0)

	result, err := eval.Evaluate(context.Background(), nil, "1-abc", nil)
	require.NoError(t, err)
	require.True(t, result.Met)
}

func TestEvaluate_FirstValidProofWinsAmongMultiple(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	_, otherPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	versionID := "2-abc123"
	badProof := signWitnessProof(t, otherPriv, "did:example:w1#key-1", versionID)
	goodProof := signWitnessProof(t, priv, "did:example:w1#key-1", versionID)

	resolver := func(_ context.Context, _, _ string) ([]byte, error) {
		return pub, nil
	}

	eval := witness.NewEvaluator(resolver, proof.NewVerifier(capability.Ed25519Verifier()), 16, 0)

	param := &didparams.WitnessParam{
		Threshold: 1,
		Witnesses: []didparams.Witness{{ID: "did:example:w1", Weight: 5}},
	}

	collection := []witness.ProofRecord{
		{
			VersionID: versionID,
			Proofs: []witness.WitnessProof{
				{WitnessID: "did:example:w1", Proof: badProof},
				{WitnessID: "did:example:w1", Proof: goodProof},
			},
		},
	}

	result, err := eval.Evaluate(context.Background(), param, versionID, collection)
	require.NoError(t, err)
	require.True(t, result.Met)
	require.Equal(t, 5, result.Sum)
}
