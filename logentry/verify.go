/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logentry

import (
	"github.com/trustbloc/didwebvh-go/errkind"
	"github.com/trustbloc/didwebvh-go/proof"
)

// KeyResolver resolves a proof's verificationMethod id to the raw
// public key bytes that must have produced it, scoped to the active
// updateKeys set at the entry under verification.
type KeyResolver func(verificationMethodID string, activeUpdateKeys []string) ([]byte, error)

// VerifyOptions configures Verify.
type VerifyOptions struct {
	// N is the 1-based version number entry is claimed to be.
	N int
	// Prior is entry N-1, or the zero Entry for genesis.
	Prior Entry
	// ActiveUpdateKeys is the updateKeys set active *before* this
	// entry (the pre-transition set that must have signed it).
	ActiveUpdateKeys []string
	Suite            proof.Suite
	ResolveKey       KeyResolver
}

// Verify checks entry against the prior chain state per §4.3's
// "Verify" steps 1-4 (step 5, time/deactivation invariants, is the
// caller's -- typically the Log State Machine's -- responsibility,
// since it needs cross-entry context Verify does not have).
func Verify(entry Entry, opts VerifyOptions) error {
	n, hash, err := ParseVersionID(entry.VersionID)
	if err != nil {
		return err
	}

	if n != opts.N {
		return errkind.New(errkind.KindParseError, "logentry: versionId number %d does not match expected %d",
			n, opts.N)
	}

	if opts.N == 1 {
		scid, ok := entry.Delta.SCID.Value()
		if !ok || scid == "" {
			return errkind.New(errkind.KindParseError, "logentry: genesis entry parameters carry no scid")
		}

		// The genesis entry's versionId hash is hash_entry of the
		// substituted entry with versionId temporarily equal to the
		// bare scid (the form produced by substituting every "{SCID}"
		// occurrence, versionId included), not the scid itself.
		substituted := entry
		substituted.VersionID = scid

		entryHash, err := HashEntry(substituted)
		if err != nil {
			return err
		}

		if entryHash != hash {
			return errkind.New(errkind.KindHashMismatch,
				"logentry: versionId hash %q does not match recomputed genesis entry hash %q", hash, entryHash)
		}

		if err := VerifySCID(substituted, scid); err != nil {
			return err
		}
	} else {
		expectedHash, err := HashEntry(opts.Prior)
		if err != nil {
			return err
		}

		if hash != expectedHash {
			return errkind.New(errkind.KindHashMismatch,
				"logentry: versionId hash %q does not match recomputed prev-hash %q", hash, expectedHash)
		}
	}

	if len(entry.Proofs) == 0 {
		return errkind.New(errkind.KindProofInvalid, "logentry: at least one proof is required")
	}

	doc, err := docWithoutProof(entry)
	if err != nil {
		return err
	}

	validCount := 0

	for i := range entry.Proofs {
		p := entry.Proofs[i]

		if !isAuthorized(p.VerificationMethod, opts.ActiveUpdateKeys) {
			return errkind.New(errkind.KindUnauthorizedKey,
				"logentry: verification method %q is not in the active updateKeys set", p.VerificationMethod)
		}

		pubKey, err := opts.ResolveKey(p.VerificationMethod, opts.ActiveUpdateKeys)
		if err != nil {
			return errkind.Wrap(errkind.KindUnauthorizedKey, err, "logentry: resolve key for %q",
				p.VerificationMethod)
		}

		verifyErr := opts.Suite.VerifyProof(doc, &p, &proof.ProofOptions{
			VerificationMethod: &proof.VerificationMethod{
				ID:     p.VerificationMethod,
				Fields: map[string]interface{}{"publicKeyBytes": pubKey},
			},
		})
		if verifyErr == nil {
			validCount++
		}
	}

	if validCount == 0 {
		return errkind.New(errkind.KindProofInvalid, "logentry: no proof on entry %d verified", opts.N)
	}

	return nil
}

// isAuthorized reports whether verificationMethod names a multibase
// key that appears (as a bare multibase key or as a
// "<did>#<multibase-key>" fragment) in active.
func isAuthorized(verificationMethod string, active []string) bool {
	for _, key := range active {
		if verificationMethod == key {
			return true
		}

		if len(verificationMethod) > len(key)+1 &&
			verificationMethod[len(verificationMethod)-len(key)-1] == '#' &&
			verificationMethod[len(verificationMethod)-len(key):] == key {
			return true
		}
	}

	return false
}

func docWithoutProof(entry Entry) ([]byte, error) {
	withoutProof := entry
	withoutProof.Proofs = nil

	return canonicalJSON(withoutProof)
}
