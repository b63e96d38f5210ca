/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didparams

import (
	"github.com/pkg/errors"

	"github.com/trustbloc/didwebvh-go/canon"
)

// hashUpdateKey computes a nextKeyHashes commitment for key: the
// multihash of the multibase-encoded key *string* itself, not of its
// decoded raw bytes, so a committed hash can be recomputed from the
// update key as it appears on the wire without first decoding it.
func hashUpdateKey(key string) (string, error) {
	return canon.HashBytes([]byte(key))
}

// Fold applies delta on top of prior, producing the Effective
// parameter state for the entry that carried delta. prior is the
// zero Effective{} for the genesis entry, and isGenesis selects the
// genesis rules. Update keys are compared against nextKeyHashes
// commitments through hashUpdateKey.
//
// Fold enforces every rule in §4.2: immutable method/scid, the
// pre-rotation gate on updateKeys, and the empty-update-keys rule
// outside deactivation. It does not enforce invariants that need
// cross-entry context beyond the immediately prior Effective (time
// monotonicity, hash linkage, proof authorization); those live in
// the Entry Builder & Verifier and Log State Machine.
func Fold(prior Effective, delta Delta, isGenesis bool) (Effective, error) {
	next := prior.Clone()

	if v, ok := delta.Method.Value(); ok {
		if !isGenesis && prior.Method != "" && v != prior.Method {
			return Effective{}, errors.WithStack(immutableFieldErr("method"))
		}

		if !MethodSupported(v) {
			return Effective{}, errors.WithStack(unsupportedMethodErr(v))
		}

		next.Method = v
	} else if isGenesis {
		return Effective{}, errors.WithStack(missingMethodErr())
	}

	if v, ok := delta.SCID.Value(); ok {
		if !isGenesis && prior.SCID != "" && v != prior.SCID {
			return Effective{}, errors.WithStack(immutableFieldErr("scid"))
		}

		next.SCID = v
	} else if isGenesis {
		return Effective{}, errors.WithStack(missingSCIDErr())
	}

	if v, ok := delta.Portable.Value(); ok {
		next.Portable = v
	} else if delta.Portable.IsCleared() {
		next.Portable = false
	}

	if v, ok := delta.TTL.Value(); ok {
		next.TTL = v
	} else if delta.TTL.IsCleared() {
		next.TTL = 0
	}

	if v, ok := delta.Watchers.Value(); ok {
		next.Watchers = v
	} else if delta.Watchers.IsCleared() {
		next.Watchers = nil
	}

	if v, ok := delta.Witness.Value(); ok {
		next.Witness = v
	} else if delta.Witness.IsCleared() {
		next.Witness = nil
	}

	deactivating := false
	if v, ok := delta.Deactivated.Value(); ok {
		next.Deactivated = v
		deactivating = v
	}

	nextKeysCleared := false
	if v, ok := delta.NextKeyHashes.Value(); ok {
		next.NextKeyHashes = v
	} else if delta.NextKeyHashes.IsCleared() {
		next.NextKeyHashes = nil
		nextKeysCleared = true
	}

	if v, ok := delta.UpdateKeys.Value(); ok {
		if deactivating {
			if len(v) != 0 {
				return Effective{}, errors.WithStack(nonEmptyOnDeactivateErr())
			}
		} else if len(v) == 0 {
			return Effective{}, errors.WithStack(emptyUpdateKeysErr())
		}

		if !isGenesis && !deactivating && len(prior.NextKeyHashes) > 0 {
			if err := checkPreRotation(prior.NextKeyHashes, v); err != nil {
				return Effective{}, err
			}
		}

		next.UpdateKeys = v
	} else if isGenesis {
		return Effective{}, errors.WithStack(emptyUpdateKeysErr())
	} else if deactivating && len(prior.UpdateKeys) != 0 {
		return Effective{}, errors.WithStack(nonEmptyOnDeactivateErr())
	}

	if deactivating && !nextKeysCleared && len(next.NextKeyHashes) != 0 {
		return Effective{}, errors.WithStack(nextKeyHashesNotClearedErr())
	}

	return next, nil
}

// checkPreRotation enforces §4.2's pre-rotation gate: every key in
// newKeys must hash to a member of committed, and committed must be
// exactly covered (no leftover commitments for keys absent from
// newKeys).
func checkPreRotation(committed, newKeys []string) error {
	covered := make(map[string]bool, len(committed))

	for _, k := range newKeys {
		h, err := hashUpdateKey(k)
		if err != nil {
			return preRotationMismatchErr("failed hashing update key %q", k)
		}

		found := false

		for _, c := range committed {
			if c == h {
				found = true
				covered[c] = true

				break
			}
		}

		if !found {
			return preRotationMismatchErr("update key %q does not hash to a committed nextKeyHashes entry", k)
		}
	}

	if len(covered) != len(committed) {
		return preRotationMismatchErr("new updateKeys set does not cover every committed nextKeyHashes entry")
	}

	return nil
}
