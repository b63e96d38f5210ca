/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package didwebvh is the high-level facade over this module's
// components: Create/Update/Deactivate/Migrate a did:webvh log with a
// single signer, and Resolve one over HTTP. Callers who need
// injectable clocks, multi-key signing, or custom fetchers should use
// didlog/resolver/logentry directly; this package trades that control
// for a small surface matching the shape of the log itself.
package didwebvh

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/trustbloc/didwebvh-go/capability"
	"github.com/trustbloc/didwebvh-go/didlog"
	"github.com/trustbloc/didwebvh-go/didparams"
	"github.com/trustbloc/didwebvh-go/errkind"
	"github.com/trustbloc/didwebvh-go/logentry"
	"github.com/trustbloc/didwebvh-go/proof"
	"github.com/trustbloc/didwebvh-go/resolver"
)

// Document is a DID Document in its generic JSON-object form, the
// same shape the log's state and the resolver's result carry it in.
type Document = map[string]interface{}

// NewMinimalDIDDocument returns the smallest DID Document Create
// accepts: just an id. did should contain the literal placeholder
// logentry.SCIDPlaceholder ("{SCID}") where the derived SCID belongs,
// e.g. "did:webvh:{SCID}:example.com".
func NewMinimalDIDDocument(did string) (Document, error) {
	if did == "" {
		return nil, errkind.New(errkind.KindParseError, "didwebvh: did must not be empty")
	}

	return Document{"id": did}, nil
}

// LogParams carries the optional governance-parameter changes an
// Update or Create may apply; a nil field leaves that parameter
// unchanged (Update) or at its zero value (Create).
type LogParams struct {
	UpdateKeys    []string
	NextKeyHashes []string
	Portable      *bool
	Witness       *didparams.WitnessParam
	Watchers      []string
	TTL           *int64
}

func (p LogParams) delta() didparams.Delta {
	var d didparams.Delta

	if p.UpdateKeys != nil {
		d.UpdateKeys = didparams.Set(p.UpdateKeys)
	}

	if p.NextKeyHashes != nil {
		d.NextKeyHashes = didparams.Set(p.NextKeyHashes)
	}

	if p.Portable != nil {
		d.Portable = didparams.Set(*p.Portable)
	}

	if p.Witness != nil {
		d.Witness = didparams.Set(p.Witness)
	}

	if p.Watchers != nil {
		d.Watchers = didparams.Set(p.Watchers)
	}

	if p.TTL != nil {
		d.TTL = didparams.Set(*p.TTL)
	}

	return d
}

// DIDLog is a did:webvh log owned by this process: the entries built
// and signed so far, ready to be appended to, deactivated, migrated,
// or serialized to a did.jsonl file.
type DIDLog struct {
	log *didlog.Log
}

// Create mints a new did:webvh log at version 1, signed by signer.
// doc's "id" (and any nested controller/verificationMethod id) may
// contain the SCID placeholder; Create substitutes the derived SCID
// throughout. params.UpdateKeys is ignored -- genesis's updateKeys is
// always exactly signer's own key -- use params for the remaining
// governance parameters (portable, witness, watchers, nextKeyHashes,
// ttl).
func Create(doc Document, signer *Signer, params LogParams) (*DIDLog, error) {
	delta := params.delta()
	delta.Method = didparams.Set("did:webvh:1.0")
	delta.SCID = didparams.Set(logentry.SCIDPlaceholder)
	delta.UpdateKeys = didparams.Set([]string{signer.PublicKeyMultibase()})

	l, _, err := didlog.Create(context.Background(), didlog.CreateOptions{
		Delta:       delta,
		State:       doc,
		SigningKeys: []logentry.SigningKey{{VerificationMethodID: signer.VerificationMethodID()}},
		Clock:       capability.SystemClock{},
		Suite:       proof.NewSigner(signer.capability(), capability.SystemClock{}),
	})
	if err != nil {
		return nil, err
	}

	return &DIDLog{log: l}, nil
}

// Load reconstructs a DIDLog from a previously serialized did.jsonl
// file, independently re-verifying every entry (the same trust-
// nothing path Resolve uses) -- a new process holds none of the
// in-memory state Create/Update left behind, so loading a log it
// owns must re-derive trust in it from the bytes alone.
func Load(raw []byte) (*DIDLog, error) {
	entries, err := resolver.ParseLog(raw)
	if err != nil {
		return nil, err
	}

	l, err := didlog.Replay(entries, didlog.ReplayOptions{
		Suite: proof.NewVerifier(capability.Ed25519Verifier()),
	})
	if err != nil {
		return nil, err
	}

	return &DIDLog{log: l}, nil
}

// Update appends a new version to the log, replacing its DID Document
// with doc and applying any governance-parameter changes in params.
// signer must hold a key in the log's currently active updateKeys set.
func (d *DIDLog) Update(params LogParams, doc Document, signer *Signer) error {
	return d.log.Update(context.Background(), didlog.UpdateOptions{
		Delta:       params.delta(),
		State:       doc,
		SigningKeys: []logentry.SigningKey{{VerificationMethodID: signer.VerificationMethodID()}},
		Clock:       capability.SystemClock{},
		Suite:       proof.NewSigner(signer.capability(), capability.SystemClock{}),
	})
}

// Deactivate appends the terminal entry per invariant for
// deactivation: updateKeys cleared to empty, nextKeyHashes cleared,
// deactivated set true. No further Update succeeds after this.
func (d *DIDLog) Deactivate(signer *Signer) error {
	delta := didparams.Delta{
		Deactivated:   didparams.Set(true),
		UpdateKeys:    didparams.Set([]string{}),
		NextKeyHashes: didparams.Cleared[[]string](),
	}

	return d.log.Deactivate(context.Background(), didlog.UpdateOptions{
		Delta:       delta,
		State:       d.log.CurrentDIDDocument(),
		SigningKeys: []logentry.SigningKey{{VerificationMethodID: signer.VerificationMethodID()}},
		Clock:       capability.SystemClock{},
		Suite:       proof.NewSigner(signer.capability(), capability.SystemClock{}),
	})
}

// Verify independently re-derives the log from its own serialized
// entries, re-checking every hash, proof, and parameter fold from
// scratch rather than trusting the in-memory state accumulated by
// Create/Update.
func (d *DIDLog) Verify() error {
	_, err := didlog.Replay(d.log.Entries(), didlog.ReplayOptions{
		Suite: proof.NewVerifier(capability.Ed25519Verifier()),
	})

	return err
}

// IsDeactivated reports whether the log's terminal entry deactivated
// the DID.
func (d *DIDLog) IsDeactivated() bool { return d.log.IsDeactivated() }

// Document returns the DID Document as of the log's latest entry, as a
// copy whose top-level keys can be changed without altering the log.
func (d *DIDLog) Document() Document {
	doc := d.log.CurrentDIDDocument()
	if doc == nil {
		return nil
	}

	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}

	return out
}

// SCID returns the DID's immutable self-certifying identifier.
func (d *DIDLog) SCID() string { return d.log.SCID() }

// Entries exposes the underlying validated chain for callers that
// need direct access to individual versionIds, proofs, or parameter
// deltas.
func (d *DIDLog) Entries() []logentry.Entry { return d.log.Entries() }

// MarshalText renders the log as a did.jsonl file: one JSON object per
// entry, newline-delimited, in version order.
func (d *DIDLog) MarshalText() ([]byte, error) {
	entries := d.log.Entries()
	lines := make([][]byte, 0, len(entries))

	for _, e := range entries {
		b, err := json.Marshal(e)
		if err != nil {
			return nil, errkind.Wrap(errkind.KindCanonicalizationError, err, "didwebvh: marshal entry")
		}

		lines = append(lines, b)
	}

	return bytes.Join(lines, []byte("\n")), nil
}
