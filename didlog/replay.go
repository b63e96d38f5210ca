/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didlog

import (
	"time"

	"github.com/trustbloc/didwebvh-go/didparams"
	"github.com/trustbloc/didwebvh-go/errkind"
	"github.com/trustbloc/didwebvh-go/logentry"
	"github.com/trustbloc/didwebvh-go/proof"
)

// ReplayOptions configures Replay.
type ReplayOptions struct {
	// Suite verifies each entry's embedded Data Integrity proofs.
	// Different entries may name different suite types in practice;
	// this engine supports exactly eddsa-jcs-2022, so one Suite
	// suffices.
	Suite proof.Suite
	// ResolveKey resolves a proof's verificationMethod to raw public
	// key bytes. Defaults to DefaultKeyResolver.
	ResolveKey logentry.KeyResolver
	// Now is the wall clock against which versionTime's "not in the
	// future" invariant is checked. Defaults to time.Now.
	Now func() time.Time
	// SkewTolerance is the amount of clock skew tolerated when
	// checking that no entry is dated in the future.
	SkewTolerance time.Duration
}

// Replay validates entries from scratch -- as read from an untrusted
// JSON-Lines log -- enforcing every invariant in §3 and §4.3/§4.5,
// and returns the resulting Log. This is the path the Resolver uses;
// Create/Update use the lighter trust-on-write path since they hold
// the signing keys themselves.
func Replay(entries []logentry.Entry, opts ReplayOptions) (*Log, error) {
	if len(entries) == 0 {
		return &Log{state: StateEmpty}, nil
	}

	if opts.ResolveKey == nil {
		opts.ResolveKey = DefaultKeyResolver
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	l := &Log{
		entries:  make([]logentry.Entry, 0, len(entries)),
		entering: make([]didparams.Effective, 0, len(entries)),
		state:    StateActive,
	}

	var (
		prior          logentry.Entry
		priorEffective didparams.Effective
	)

	for i, entry := range entries {
		n := i + 1

		if l.state != StateActive {
			return nil, errkind.New(errkind.KindDeactivatedError,
				"didlog: entry %d follows a terminal entry at %d", n, n-1)
		}

		if n > 1 {
			if !entry.VersionTime.After(prior.VersionTime) {
				return nil, errkind.New(errkind.KindTimeError,
					"didlog: entry %d versionTime does not strictly increase", n)
			}
		}

		if entry.VersionTime.After(now().Add(opts.SkewTolerance)) {
			return nil, errkind.New(errkind.KindTimeError, "didlog: entry %d is dated in the future", n)
		}

		activeUpdateKeys := priorEffective.UpdateKeys
		if n == 1 {
			// Invariant 5: genesis proofs are authorized by the
			// entry's own declared updateKeys, not a prior state.
			if v, ok := entry.Delta.UpdateKeys.Value(); ok {
				activeUpdateKeys = v
			}
		}

		if err := logentry.Verify(entry, logentry.VerifyOptions{
			N:                n,
			Prior:            prior,
			ActiveUpdateKeys: activeUpdateKeys,
			Suite:            opts.Suite,
			ResolveKey:       opts.ResolveKey,
		}); err != nil {
			return nil, errkind.Wrap(errkind.KindResolutionError, err, "didlog: chain broken at entry %d", n)
		}

		effective, err := didparams.Fold(priorEffective, entry.Delta, n == 1)
		if err != nil {
			return nil, errkind.Wrap(errkind.KindResolutionError, err, "didlog: chain broken at entry %d", n)
		}

		l.entries = append(l.entries, entry)
		l.entering = append(l.entering, priorEffective)
		l.latest = effective

		if n == 1 {
			l.portableSinceGenesis = effective.Portable
		} else {
			l.portableSinceGenesis = l.portableSinceGenesis && effective.Portable
		}

		if effective.Deactivated {
			l.state = StateDeactivated
		}

		prior = entry
		priorEffective = effective
	}

	return l, nil
}
