/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logentry

import (
	"context"
	"encoding/json"

	"github.com/trustbloc/didwebvh-go/capability"
	"github.com/trustbloc/didwebvh-go/didparams"
	"github.com/trustbloc/didwebvh-go/errkind"
	"github.com/trustbloc/didwebvh-go/proof"
)

// BuildOptions configures Build.
type BuildOptions struct {
	// N is the 1-based version number of the entry being built.
	N int
	// Prior is the previous entry in the chain; ignored when N == 1.
	Prior Entry
	// Delta is this entry's parameters delta. For N == 1, any string
	// value it carries (e.g. a controller reference) may contain the
	// literal SCIDPlaceholder token; Build substitutes it.
	Delta didparams.Delta
	// State is this entry's DID Document. For N == 1, state.id and
	// any controller/verificationMethod id within it may contain
	// SCIDPlaceholder; Build substitutes it.
	State map[string]interface{}
	// SigningKeys lists the keys that must co-sign the built entry,
	// in order.
	SigningKeys []SigningKey
	Clock       capability.Clock
	Suite       proof.Suite
}

// SigningKey identifies one key that must co-sign the built entry.
type SigningKey struct {
	VerificationMethodID string
	Purpose               string
}

// Build constructs entry opts.N. For N==1 (genesis) it derives the
// SCID from the placeholder-bearing State/Delta, substitutes it
// everywhere, and returns the final entry plus the derived scid (the
// empty string for N>1).
func Build(ctx context.Context, opts BuildOptions) (Entry, string, error) {
	if opts.N == 1 {
		return buildGenesis(ctx, opts)
	}

	return buildSubsequent(ctx, opts)
}

func buildGenesis(ctx context.Context, opts BuildOptions) (Entry, string, error) {
	prelim := Entry{
		VersionID:   SCIDPlaceholder,
		VersionTime: opts.Clock.Now(),
		Delta:       opts.Delta,
		State:       opts.State,
	}

	// scid == hash_entry(preliminary genesis, versionId == "{SCID}").
	scid, err := DeriveSCID(prelim)
	if err != nil {
		return Entry{}, "", err
	}

	substitutedState, err := SubstituteSCID(opts.State, scid)
	if err != nil {
		return Entry{}, "", err
	}

	substitutedDelta, err := substituteDeltaSCID(opts.Delta, scid)
	if err != nil {
		return Entry{}, "", err
	}

	// The substituted entry's versionId is momentarily the bare scid
	// (every "{SCID}" occurrence, versionId included, was just
	// replaced); hash_entry of that distinct form gives the genesis
	// entry hash, which is not scid itself.
	substituted := Entry{
		VersionID:   scid,
		VersionTime: prelim.VersionTime,
		Delta:       substitutedDelta,
		State:       substitutedState,
	}

	entryHash, err := HashEntry(substituted)
	if err != nil {
		return Entry{}, "", err
	}

	entry := Entry{
		VersionID:   FormatVersionID(1, entryHash),
		VersionTime: substituted.VersionTime,
		Delta:       substitutedDelta,
		State:       substitutedState,
	}

	signed, err := attachProofs(ctx, entry, opts)
	if err != nil {
		return Entry{}, "", err
	}

	return signed, scid, nil
}

func buildSubsequent(ctx context.Context, opts BuildOptions) (Entry, string, error) {
	prevHash, err := HashEntry(opts.Prior)
	if err != nil {
		return Entry{}, "", err
	}

	entry := Entry{
		VersionID:   FormatVersionID(opts.N, prevHash),
		VersionTime: opts.Clock.Now(),
		Delta:       opts.Delta,
		State:       opts.State,
	}

	if !entry.VersionTime.After(opts.Prior.VersionTime) {
		return Entry{}, "", errkind.New(errkind.KindTimeError,
			"logentry: versionTime must strictly increase (prior %s, new %s)",
			opts.Prior.VersionTime, entry.VersionTime)
	}

	signed, err := attachProofs(ctx, entry, opts)
	if err != nil {
		return Entry{}, "", err
	}

	return signed, "", nil
}

func attachProofs(ctx context.Context, entry Entry, opts BuildOptions) (Entry, error) {
	if len(opts.SigningKeys) == 0 {
		return Entry{}, errkind.New(errkind.KindProofInvalid, "logentry: at least one signing key is required")
	}

	doc, err := canonicalJSON(entry)
	if err != nil {
		return Entry{}, err
	}

	proofs := make([]proof.Proof, 0, len(opts.SigningKeys))

	for _, sk := range opts.SigningKeys {
		purpose := sk.Purpose
		if purpose == "" {
			purpose = "authentication"
		}

		p, err := opts.Suite.CreateProof(doc, &proof.ProofOptions{
			Purpose:            purpose,
			VerificationMethod: &proof.VerificationMethod{ID: sk.VerificationMethodID},
		})
		if err != nil {
			return Entry{}, errkind.Wrap(errkind.KindProofInvalid, err, "logentry: create proof")
		}

		proofs = append(proofs, *p)
	}

	entry.Proofs = proofs

	return entry, nil
}

// substituteDeltaSCID substitutes scid for SCIDPlaceholder within any
// string-valued field of delta (genesis deltas occasionally carry a
// controller reference derived from the DID being minted).
func substituteDeltaSCID(delta didparams.Delta, scid string) (didparams.Delta, error) {
	raw, err := json.Marshal(delta)
	if err != nil {
		return didparams.Delta{}, errkind.Wrap(errkind.KindCanonicalizationError, err,
			"logentry: marshal delta for scid substitution")
	}

	substituted := substitutePlaceholder(raw, scid)

	var out didparams.Delta
	if err := json.Unmarshal(substituted, &out); err != nil {
		return didparams.Delta{}, errkind.Wrap(errkind.KindCanonicalizationError, err,
			"logentry: unmarshal delta after scid substitution")
	}

	return out, nil
}
