/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logentry

import (
	"encoding/json"
	"strings"

	"github.com/trustbloc/didwebvh-go/canon"
	"github.com/trustbloc/didwebvh-go/errkind"
)

func hashToSCID(jcsBytes []byte) (string, error) {
	scid, err := canon.HashEntry(jcsBytes)
	if err != nil {
		return "", errkind.Wrap(errkind.KindCanonicalizationError, err, "logentry: derive scid")
	}

	return scid, nil
}

// DeriveSCID computes the Self-Certifying Identifier for a
// preliminary genesis entry: prelim must already have every
// occurrence of the eventual SCID -- versionId, state.id, controller
// references, proof verification method ids -- replaced with
// SCIDPlaceholder (versionId is itself the bare placeholder, carrying
// no "1-" prefix yet). DeriveSCID JCS-canonicalizes prelim (with
// Proofs elided, matching hash_entry) and returns the resulting
// multihash+multibase string.
func DeriveSCID(prelim Entry) (string, error) {
	withoutProof := prelim
	withoutProof.Proofs = nil

	jcsBytes, err := canonicalJSON(withoutProof)
	if err != nil {
		return "", err
	}

	scid, err := hashToSCID(jcsBytes)
	if err != nil {
		return "", err
	}

	return scid, nil
}

// SubstituteSCID returns a copy of doc (an arbitrary JSON-marshalable
// value, typically the genesis entry's State or the entry itself)
// with every occurrence of SCIDPlaceholder replaced by scid.
func SubstituteSCID(doc interface{}, scid string) (map[string]interface{}, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, errkind.Wrap(errkind.KindCanonicalizationError, err, "logentry: marshal for scid substitution")
	}

	substituted := substitutePlaceholder(raw, scid)

	var out map[string]interface{}
	if err := json.Unmarshal(substituted, &out); err != nil {
		return nil, errkind.Wrap(errkind.KindCanonicalizationError, err, "logentry: unmarshal after scid substitution")
	}

	return out, nil
}

// VerifySCID reports whether scid is self-consistent with entry:
// replacing every occurrence of scid in entry's JCS form with
// SCIDPlaceholder and re-deriving must reproduce scid exactly (the
// §8 "SCID self-consistency" testable property).
func VerifySCID(entry Entry, scid string) error {
	withoutProof := entry
	withoutProof.Proofs = nil

	jcsBytes, err := canonicalJSON(withoutProof)
	if err != nil {
		return err
	}

	prelimBytes := []byte(strings.ReplaceAll(string(jcsBytes), scid, SCIDPlaceholder))

	recomputed, err := hashToSCID(prelimBytes)
	if err != nil {
		return err
	}

	if recomputed != scid {
		return errkind.New(errkind.KindHashMismatch, "logentry: scid %q is not self-consistent (recomputed %q)",
			scid, recomputed)
	}

	return nil
}
