/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didlog

import (
	"github.com/trustbloc/didwebvh-go/didparams"
	"github.com/trustbloc/didwebvh-go/errkind"
	"github.com/trustbloc/didwebvh-go/logentry"
)

// Len reports the number of validated entries in the log (0 for
// StateEmpty).
func (l *Log) Len() int { return len(l.entries) }

// GetEntry returns the 1-based nth entry.
func (l *Log) GetEntry(n int) (logentry.Entry, error) {
	if n < 1 || n > len(l.entries) {
		return logentry.Entry{}, errkind.New(errkind.KindResolutionError, "didlog: no entry %d (log has %d)",
			n, len(l.entries))
	}

	return l.entries[n-1], nil
}

// GetEffectiveParameters returns the pre-transition parameter state
// entering the nth entry -- the same value invariant 5 authorizes
// that entry's proof against, and §4.4 evaluates that entry's witness
// quorum against.
func (l *Log) GetEffectiveParameters(n int) (didparams.Effective, error) {
	if n < 1 || n > len(l.entering) {
		return didparams.Effective{}, errkind.New(errkind.KindResolutionError,
			"didlog: no effective parameters for entry %d (log has %d)", n, len(l.entering))
	}

	return l.entering[n-1], nil
}

// CurrentEffectiveParameters returns the parameter state resulting
// from the most recent entry -- the state an application builds its
// next Update delta against.
func (l *Log) CurrentEffectiveParameters() didparams.Effective { return l.latest }

// CurrentDIDDocument returns the state of the latest entry, or nil
// for an empty log.
func (l *Log) CurrentDIDDocument() map[string]interface{} {
	if len(l.entries) == 0 {
		return nil
	}

	return l.entries[len(l.entries)-1].State
}

// IsDeactivated reports whether the log's terminal entry set
// deactivated=true.
func (l *Log) IsDeactivated() bool { return l.state == StateDeactivated }

// IsMigrated reports whether the log's terminal entry recorded a
// migration to a successor DID.
func (l *Log) IsMigrated() bool { return l.state == StateMigrated }

// SCID returns the DID's immutable self-certifying identifier, as
// recorded in the genesis entry's own parameters, or "" for an empty
// log.
func (l *Log) SCID() string {
	if len(l.entries) == 0 {
		return ""
	}

	scid, _ := l.entries[0].Delta.SCID.Value()

	return scid
}

// Entries returns the validated chain in order. The returned slice
// must not be mutated by callers.
func (l *Log) Entries() []logentry.Entry { return l.entries }
