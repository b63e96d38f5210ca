/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didlog

import (
	"context"

	"github.com/trustbloc/didwebvh-go/errkind"
)

// MigrateOut transitions Active(n) -> Migrated on the *old* DID's
// log: it appends a final entry whose state carries an alsoKnownAs
// entry pointing at targetDID. portable=true must have held in every
// preceding entry (invariant 8); failing that is PortabilityError,
// not a generic update failure, since the cause is specifically
// non-portability rather than a malformed delta or bad proof.
func (l *Log) MigrateOut(ctx context.Context, targetDID string, opts UpdateOptions) error {
	if l.state != StateActive {
		return errkind.New(errkind.KindDeactivatedError, "didlog: cannot migrate a log in state %v", l.state)
	}

	if !l.portableSinceGenesis {
		return errkind.New(errkind.KindPortabilityError,
			"didlog: migration requires portable=true in every preceding entry")
	}

	opts.State = mergeAlsoKnownAs(opts.State, targetDID)

	if err := l.Update(ctx, opts); err != nil {
		return err
	}

	l.state = StateMigrated
	l.migratedTo = targetDID

	return nil
}

// NewFromMigration builds the genesis entry of a successor DID,
// merging an alsoKnownAs pointer back to sourceDID into opts.State so
// the symmetric linkage a resolver validates (old log points forward,
// new log points back) is present from the first entry.
func NewFromMigration(ctx context.Context, sourceDID string, opts CreateOptions) (*Log, string, error) {
	opts.State = mergeAlsoKnownAs(opts.State, sourceDID)

	return Create(ctx, opts)
}

func mergeAlsoKnownAs(state map[string]interface{}, did string) map[string]interface{} {
	out := make(map[string]interface{}, len(state)+1)
	for k, v := range state {
		out[k] = v
	}

	existing, _ := out["alsoKnownAs"].([]interface{})

	for _, v := range existing {
		if s, ok := v.(string); ok && s == did {
			return out
		}
	}

	out["alsoKnownAs"] = append(existing, did)

	return out
}
