/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package didlog implements the Log State Machine: the authoritative,
// owned-value state of a single did:webvh DID -- its ordered chain of
// validated entries, SCID, folded parameters, and deactivation/
// migration status. It exposes create/update/deactivate/migrate
// transitions plus pure query operations, and rejects any transition
// that would produce an invalid chain.
package didlog

import (
	"context"

	"github.com/trustbloc/didwebvh-go/capability"
	"github.com/trustbloc/didwebvh-go/didparams"
	"github.com/trustbloc/didwebvh-go/errkind"
	"github.com/trustbloc/didwebvh-go/logentry"
	"github.com/trustbloc/didwebvh-go/proof"
)

// State is the coarse phase of a Log.
type State int

const (
	// StateEmpty is a Log with no entries yet.
	StateEmpty State = iota
	// StateActive is a Log with at least one entry, not deactivated
	// or migrated.
	StateActive
	// StateDeactivated is a Log whose terminal entry set
	// deactivated=true.
	StateDeactivated
	// StateMigrated is a Log whose terminal entry recorded an
	// alsoKnownAs pointer to a successor DID.
	StateMigrated
)

// Log is the owned-value state machine for one did:webvh DID. The
// zero Log is StateEmpty and ready for Create.
type Log struct {
	entries []logentry.Entry
	// entering[i] is the pre-transition Effective parameter state
	// entering entries[i] -- used both to authorize entries[i]'s
	// proof (invariant 5) and to evaluate entries[i]'s witness quorum
	// (§4.4: quorum is checked against the pre-transition value).
	entering []didparams.Effective
	// latest is the post-fold Effective state after the most recent
	// entry, used only to seed the next transition.
	latest     didparams.Effective
	state      State
	migratedTo string
	// portableSinceGenesis is true only if every entry's effective
	// Portable parameter has been true, per invariant 8.
	portableSinceGenesis bool
}

// CreateOptions configures Create.
type CreateOptions struct {
	Delta       didparams.Delta
	State       map[string]interface{}
	SigningKeys []logentry.SigningKey
	Clock       capability.Clock
	Suite       proof.Suite
}

// Create transitions Empty -> Active(1). delta must set method, scid
// (as logentry.SCIDPlaceholder) and a non-empty updateKeys; Create
// derives and substitutes the real SCID and returns both the
// resulting Log and the derived SCID.
func Create(ctx context.Context, opts CreateOptions) (*Log, string, error) {
	entry, scid, err := logentry.Build(ctx, logentry.BuildOptions{
		N:           1,
		Delta:       opts.Delta,
		State:       opts.State,
		SigningKeys: opts.SigningKeys,
		Clock:       opts.Clock,
		Suite:       opts.Suite,
	})
	if err != nil {
		return nil, "", err
	}

	effective, err := didparams.Fold(didparams.Effective{}, entry.Delta, true)
	if err != nil {
		return nil, "", err
	}

	l := &Log{
		entries:              []logentry.Entry{entry},
		entering:             []didparams.Effective{{}},
		latest:               effective,
		state:                StateActive,
		portableSinceGenesis: effective.Portable,
	}

	return l, scid, nil
}

// UpdateOptions configures Update and Deactivate.
type UpdateOptions struct {
	Delta       didparams.Delta
	State       map[string]interface{}
	SigningKeys []logentry.SigningKey
	Clock       capability.Clock
	Suite       proof.Suite
}

// Update transitions Active(n) -> Active(n+1): builds the next entry
// against the active updateKeys, folds its parameters, and appends it
// on success. Fails with DeactivatedError if the log is terminal.
func (l *Log) Update(ctx context.Context, opts UpdateOptions) error {
	if l.state != StateActive {
		return errkind.New(errkind.KindDeactivatedError, "didlog: cannot update a log in state %v", l.state)
	}

	n := len(l.entries) + 1
	prior := l.entries[len(l.entries)-1]

	entry, _, err := logentry.Build(ctx, logentry.BuildOptions{
		N:           n,
		Prior:       prior,
		Delta:       opts.Delta,
		State:       opts.State,
		SigningKeys: opts.SigningKeys,
		Clock:       opts.Clock,
		Suite:       opts.Suite,
	})
	if err != nil {
		return err
	}

	priorEffective := l.latest

	effective, err := didparams.Fold(priorEffective, entry.Delta, false)
	if err != nil {
		return err
	}

	l.entries = append(l.entries, entry)
	l.entering = append(l.entering, priorEffective)
	l.latest = effective
	l.portableSinceGenesis = l.portableSinceGenesis && effective.Portable

	if effective.Deactivated {
		l.state = StateDeactivated
	}

	return nil
}

// Deactivate transitions Active(n) -> Deactivated: the delta in opts
// must already carry Deactivated=Set(true), UpdateKeys=Set([]string{}) and
// NextKeyHashes=Cleared(); Deactivate does not inject these, since the
// caller is expected to construct a well-formed terminal delta (§4.5).
func (l *Log) Deactivate(ctx context.Context, opts UpdateOptions) error {
	return l.Update(ctx, opts)
}

// State reports the Log's current coarse phase.
func (l *Log) State() State { return l.state }

// MigratedTo returns the successor DID recorded by a completed
// Migrate, or "" if the log has not migrated.
func (l *Log) MigratedTo() string { return l.migratedTo }
