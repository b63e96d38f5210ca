/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didwebvh

import (
	"context"

	"github.com/trustbloc/didwebvh-go/capability"
	"github.com/trustbloc/didwebvh-go/didlog"
	"github.com/trustbloc/didwebvh-go/didparams"
	"github.com/trustbloc/didwebvh-go/logentry"
	"github.com/trustbloc/didwebvh-go/proof"
)

// MigrateOut appends d's terminal entry, recording targetDID as the
// successor and putting the log into its Migrated state. It requires
// portable=true to have held since genesis.
func (d *DIDLog) MigrateOut(targetDID string, signer *Signer) error {
	return d.log.MigrateOut(context.Background(), targetDID, didlog.UpdateOptions{
		State:       d.log.CurrentDIDDocument(),
		SigningKeys: []logentry.SigningKey{{VerificationMethodID: signer.VerificationMethodID()}},
		Clock:       capability.SystemClock{},
		Suite:       proof.NewSigner(signer.capability(), capability.SystemClock{}),
	})
}

// IsMigrated reports whether d's terminal entry recorded a migration.
func (d *DIDLog) IsMigrated() bool { return d.log.IsMigrated() }

// MigratedTo returns the successor DID recorded by a completed
// MigrateOut, or "" if d has not migrated.
func (d *DIDLog) MigratedTo() string { return d.log.MigratedTo() }

// CreateFromMigration mints the genesis entry of a successor DID,
// linking it back to sourceDID via alsoKnownAs, completing the
// symmetric pointer a resolver checks on both logs.
func CreateFromMigration(sourceDID string, doc Document, signer *Signer, params LogParams) (*DIDLog, error) {
	delta := params.delta()
	delta.Method = didparams.Set("did:webvh:1.0")
	delta.SCID = didparams.Set(logentry.SCIDPlaceholder)
	delta.UpdateKeys = didparams.Set([]string{signer.PublicKeyMultibase()})

	l, _, err := didlog.NewFromMigration(context.Background(), sourceDID, didlog.CreateOptions{
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
