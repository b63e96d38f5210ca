/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package logentry implements the Entry Builder & Verifier: the
// construction and verification of a single LogEntry, including
// versionId framing, SCID placeholder substitution, and embedded Data
// Integrity proofs.
package logentry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/trustbloc/didwebvh-go/canon"
	"github.com/trustbloc/didwebvh-go/didparams"
	"github.com/trustbloc/didwebvh-go/errkind"
	"github.com/trustbloc/didwebvh-go/proof"
)

// SCIDPlaceholder is the literal token substituted for the derived
// SCID throughout the preliminary genesis entry.
const SCIDPlaceholder = "{SCID}"

// versionTimeFormat is RFC 3339 at second precision, UTC, matching
// the reference encoder (no sub-second component).
const versionTimeFormat = "2006-01-02T15:04:05Z"

// Entry is a single validated or in-progress version of a did:webvh
// log.
type Entry struct {
	VersionID   string
	VersionTime time.Time
	Delta       didparams.Delta
	State       map[string]interface{}
	Proofs      []proof.Proof
}

// wireEntry is the JSON-line shape of Entry.
type wireEntry struct {
	VersionID   string                 `json:"versionId"`
	VersionTime string                 `json:"versionTime"`
	Parameters  didparams.Delta        `json:"parameters"`
	State       map[string]interface{} `json:"state"`
	Proof       []proof.Proof          `json:"proof,omitempty"`
}

// MarshalJSON renders the entry using the JSON-lines wire shape.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEntry{
		VersionID:   e.VersionID,
		VersionTime: e.VersionTime.UTC().Format(versionTimeFormat),
		Parameters:  e.Delta,
		State:       e.State,
		Proof:       e.Proofs,
	})
}

// UnmarshalJSON parses a JSON-lines entry, accepting both the 1.0
// encoding and the pre-1.0 flavor (JSON null where 1.0 uses an empty
// array/object is handled transparently by didparams.Delta's own
// unmarshaler).
func (e *Entry) UnmarshalJSON(data []byte) error {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return errkind.Wrap(errkind.KindParseError, err, "logentry: malformed entry")
	}

	t, err := time.Parse(time.RFC3339, w.VersionTime)
	if err != nil {
		return errkind.Wrap(errkind.KindParseError, err, "logentry: malformed versionTime %q", w.VersionTime)
	}

	e.VersionID = w.VersionID
	e.VersionTime = t.UTC()
	e.Delta = w.Parameters
	e.State = w.State
	e.Proofs = w.Proof

	return nil
}

// ParseVersionID splits a "<n>-<hash>" versionId into its numeric and
// hash components.
func ParseVersionID(versionID string) (n int, hash string, err error) {
	idx := strings.IndexByte(versionID, '-')
	if idx <= 0 {
		return 0, "", errkind.New(errkind.KindParseError, "logentry: malformed versionId %q", versionID)
	}

	n, convErr := strconv.Atoi(versionID[:idx])
	if convErr != nil || n < 1 {
		return 0, "", errkind.New(errkind.KindParseError, "logentry: malformed versionId number in %q", versionID)
	}

	hash = versionID[idx+1:]
	if hash == "" {
		return 0, "", errkind.New(errkind.KindParseError, "logentry: missing hash component in %q", versionID)
	}

	return n, hash, nil
}

// FormatVersionID renders the "<n>-<hash>" versionId form.
func FormatVersionID(n int, hash string) string {
	return fmt.Sprintf("%d-%s", n, hash)
}

// HashEntry computes the §4.1 hash_entry(entry): JCS-serialize e with
// its Proofs elided entirely, then multihash+multibase encode.
func HashEntry(e Entry) (string, error) {
	withoutProof := e
	withoutProof.Proofs = nil

	jcsBytes, err := canonicalJSON(withoutProof)
	if err != nil {
		return "", err
	}

	h, err := canon.HashEntry(jcsBytes)
	if err != nil {
		return "", errkind.Wrap(errkind.KindCanonicalizationError, err, "logentry: hash entry")
	}

	return h, nil
}

// canonicalJSON JCS-canonicalizes e's wire representation.
func canonicalJSON(e Entry) ([]byte, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, errkind.Wrap(errkind.KindCanonicalizationError, err, "logentry: marshal for canonicalization")
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, errkind.Wrap(errkind.KindCanonicalizationError, err, "logentry: unmarshal for canonicalization")
	}

	out, err := canon.JCS(generic)
	if err != nil {
		return nil, errkind.Wrap(errkind.KindCanonicalizationError, err, "logentry: canonicalize")
	}

	return out, nil
}

// substitutePlaceholder replaces every occurrence of SCIDPlaceholder
// with scid in the JSON bytes of a preliminary entry, matching the
// string-level substitution the reference implementation performs
// rather than a structured walk -- the placeholder only ever appears
// inside string values (state.id, controller references, proof
// verification method ids), so a byte-level replace is exact.
func substitutePlaceholder(jcsBytes []byte, scid string) []byte {
	return []byte(strings.ReplaceAll(string(jcsBytes), SCIDPlaceholder, scid))
}
