/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package resolver implements the Resolver component (§4.6): given a
// did:webvh DID URL and optional query selector, it fetches the log,
// replays it through the Log State Machine, applies the selector, and
// augments the resulting DID Document with implied services.
package resolver

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/trustbloc/didwebvh-go/capability"
	"github.com/trustbloc/didwebvh-go/didlog"
	"github.com/trustbloc/didwebvh-go/didparams"
	"github.com/trustbloc/didwebvh-go/errkind"
	"github.com/trustbloc/didwebvh-go/internal/logging"
	"github.com/trustbloc/didwebvh-go/logentry"
	"github.com/trustbloc/didwebvh-go/proof"
	"github.com/trustbloc/didwebvh-go/webvhurl"
	"github.com/trustbloc/didwebvh-go/witness"
)

// Resolver resolves did:webvh identifiers to DID Documents.
type Resolver struct {
	fetcher       capability.Fetcher
	suite         proof.Suite
	witnessEval   *witness.Evaluator
	logger        logging.Logger
	skewTolerance time.Duration
}

// Option configures a Resolver.
type Option func(*Resolver)

// New constructs a Resolver. fetcher retrieves log/witness bytes;
// suite verifies entry proofs (eddsa-jcs-2022, the only suite this
// engine supports).
func New(fetcher capability.Fetcher, suite proof.Suite, opts ...Option) *Resolver {
	r := &Resolver{fetcher: fetcher, suite: suite, logger: logging.NopLogger()}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// WithWitnessEvaluator attaches an Evaluator used to score witness
// proofs, best-effort, when resolving.
func WithWitnessEvaluator(e *witness.Evaluator) Option {
	return func(r *Resolver) { r.witnessEval = e }
}

// WithLogger attaches a logger.
func WithLogger(logger logging.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSkewTolerance allows an entry's versionTime to be up to d beyond
// the resolver's wall clock before Replay rejects it as future-dated,
// absorbing clock drift between the log's signer and this resolver.
func WithSkewTolerance(d time.Duration) Option {
	return func(r *Resolver) { r.skewTolerance = d }
}

// Result is the outcome of Resolve.
type Result struct {
	Document    map[string]interface{}
	SCID        string
	Deactivated bool
	// EarliestVersionID and LatestVersionID bound the resolved DID's
	// history; ResolvedVersionID is the entry the query selector (or
	// the default "latest") actually picked.
	EarliestVersionID string
	LatestVersionID   string
	ResolvedVersionID string
	WitnessResult     *witness.Result
}

// Resolve resolves did per §4.6's steps 1-6.
func (r *Resolver) Resolve(ctx context.Context, did string) (Result, error) {
	parsed, err := webvhurl.Parse(did)
	if err != nil {
		return Result{}, err
	}

	fetchURL, err := parsed.FetchURL()
	if err != nil {
		return Result{}, err
	}

	raw, err := r.fetcher.Fetch(ctx, fetchURL)
	if err != nil {
		return Result{}, errkind.Wrap(errkind.KindResolutionError, err, "resolver: fetch %s", fetchURL)
	}

	entries, err := ParseLog(raw)
	if err != nil {
		return Result{}, err
	}

	log, err := didlog.Replay(entries, didlog.ReplayOptions{Suite: r.suite, SkewTolerance: r.skewTolerance})
	if err != nil {
		return Result{}, errkind.Wrap(errkind.KindResolutionError, err, "resolver: %s", did)
	}

	selected, err := r.selectEntry(log, parsed)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Document:          augmentImpliedServices(selected.entry.State, parsed),
		SCID:              log.SCID(),
		Deactivated:       log.IsDeactivated() && selected.n == log.Len(),
		EarliestVersionID: firstVersionID(log),
		LatestVersionID:   lastVersionID(log),
		ResolvedVersionID: selected.entry.VersionID,
	}

	if r.witnessEval != nil {
		params, err := log.GetEffectiveParameters(selected.n)
		if err == nil {
			result.WitnessResult = r.evaluateWitnesses(ctx, parsed, selected, params.Witness)
		}
	}

	return result, nil
}

type selection struct {
	entry logentry.Entry
	n     int
}

func (r *Resolver) selectEntry(log *didlog.Log, parsed webvhurl.WebVHURL) (selection, error) {
	switch {
	case parsed.VersionID != "":
		for n := 1; n <= log.Len(); n++ {
			e, err := log.GetEntry(n)
			if err != nil {
				return selection{}, err
			}

			if e.VersionID == parsed.VersionID {
				return selection{entry: e, n: n}, nil
			}
		}

		return selection{}, errkind.New(errkind.KindResolutionError, "resolver: versionId %q not found",
			parsed.VersionID)

	case parsed.VersionNumber != 0:
		e, err := log.GetEntry(parsed.VersionNumber)
		if err != nil {
			return selection{}, errkind.Wrap(errkind.KindResolutionError, err, "resolver: versionNumber %d",
				parsed.VersionNumber)
		}

		return selection{entry: e, n: parsed.VersionNumber}, nil

	case !parsed.VersionTime.IsZero():
		var best selection

		found := false

		for n := 1; n <= log.Len(); n++ {
			e, err := log.GetEntry(n)
			if err != nil {
				return selection{}, err
			}

			if e.VersionTime.After(parsed.VersionTime) {
				break
			}

			best = selection{entry: e, n: n}
			found = true
		}

		if !found {
			return selection{}, errkind.New(errkind.KindResolutionError,
				"resolver: no entry with versionTime <= %s", parsed.VersionTime)
		}

		return best, nil

	default:
		n := log.Len()

		e, err := log.GetEntry(n)
		if err != nil {
			return selection{}, errkind.Wrap(errkind.KindResolutionError, err, "resolver: empty log")
		}

		return selection{entry: e, n: n}, nil
	}
}

// evaluateWitnesses fetches and scores the witness proof file
// best-effort, per §4.6 step 5: neither a missing nor a malformed
// file fails resolution. A missing file is scored as an empty proof
// collection; a malformed file or an underivable witness URL leaves
// WitnessResult unset.
func (r *Resolver) evaluateWitnesses(ctx context.Context, parsed webvhurl.WebVHURL, sel selection,
	param *didparams.WitnessParam) *witness.Result {
	witnessURL, err := parsed.WitnessProofURL()
	if err != nil {
		r.logger.Warnf("resolver: deriving witness proof URL: %v", err)

		return nil
	}

	raw, err := r.fetcher.Fetch(ctx, witnessURL)
	if err != nil {
		r.logger.Debugf("resolver: no witness proof file at %s: %v", witnessURL, err)
		raw = nil
	}

	var collection []witness.ProofRecord

	if raw != nil {
		collection, err = ParseWitnessProofs(raw)
		if err != nil {
			r.logger.Warnf("resolver: malformed witness proof file at %s: %v", witnessURL, err)

			return nil
		}
	}

	result, err := r.witnessEval.Evaluate(ctx, param, sel.entry.VersionID, collection)
	if err != nil {
		r.logger.Debugf("resolver: witness quorum not met for %s: %v", sel.entry.VersionID, err)
	}

	return &result
}

func firstVersionID(log *didlog.Log) string {
	if log.Len() == 0 {
		return ""
	}

	e, _ := log.GetEntry(1)

	return e.VersionID
}

func lastVersionID(log *didlog.Log) string {
	if log.Len() == 0 {
		return ""
	}

	e, _ := log.GetEntry(log.Len())

	return e.VersionID
}

// ParseLog parses UTF-8 JSON-Lines log bytes into entries, ignoring
// trailing blank lines, per §6's log file format.
func ParseLog(raw []byte) ([]logentry.Entry, error) {
	lines := strings.Split(string(raw), "\n")

	entries := make([]logentry.Entry, 0, len(lines))

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var e logentry.Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return nil, errkind.Wrap(errkind.KindParseError, err, "resolver: malformed entry on line %d", i+1)
		}

		entries = append(entries, e)
	}

	return entries, nil
}

// ParseWitnessProofs parses a did-witness.json array per §6: each
// record's proof[] carries full Data Integrity proofs, not bare
// signatures, so a witness's `created`/`proofPurpose` travel with it.
func ParseWitnessProofs(raw []byte) ([]witness.ProofRecord, error) {
	var wire []struct {
		VersionID string        `json:"versionId"`
		Proof     []proof.Proof `json:"proof"`
	}

	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, errkind.Wrap(errkind.KindParseError, err, "resolver: malformed witness proof file")
	}

	out := make([]witness.ProofRecord, 0, len(wire))

	for _, rec := range wire {
		proofs := make([]witness.WitnessProof, 0, len(rec.Proof))

		for _, p := range rec.Proof {
			proofs = append(proofs, witness.WitnessProof{
				WitnessID: verificationMethodDID(p.VerificationMethod),
				Proof:     p,
			})
		}

		out = append(out, witness.ProofRecord{VersionID: rec.VersionID, Proofs: proofs})
	}

	return out, nil
}

func verificationMethodDID(vm string) string {
	if idx := strings.IndexByte(vm, '#'); idx >= 0 {
		return vm[:idx]
	}

	return vm
}

func augmentImpliedServices(state map[string]interface{}, parsed webvhurl.WebVHURL) map[string]interface{} {
	out := make(map[string]interface{}, len(state)+1)
	for k, v := range state {
		out[k] = v
	}

	services, _ := out["service"].([]interface{})

	hasFiles, hasWhois := false, false

	for _, svc := range services {
		m, ok := svc.(map[string]interface{})
		if !ok {
			continue
		}

		switch m["id"] {
		case "#files":
			hasFiles = true
		case "#whois":
			hasWhois = true
		}
	}

	if !hasFiles {
		if filesURL, err := parsed.FilesServiceURL(); err == nil {
			services = append(services, map[string]interface{}{
				"id":              "#files",
				"type":            "LinkedDomains",
				"serviceEndpoint": filesURL,
			})
		}
	}

	if !hasWhois {
		whoisParsed := parsed
		whoisParsed.Kind = webvhurl.KindWhois

		if whoisURL, err := whoisParsed.FetchURL(); err == nil {
			services = append(services, map[string]interface{}{
				"id":              "#whois",
				"type":            "LinkedVerifiablePresentation",
				"serviceEndpoint": whoisURL,
			})
		}
	}

	if len(services) > 0 {
		out["service"] = services
	}

	return out
}
