/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didlog_test

import (
	"context"
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trustbloc/didwebvh-go/capability"
	"github.com/trustbloc/didwebvh-go/didkey"
	"github.com/trustbloc/didwebvh-go/didlog"
	"github.com/trustbloc/didwebvh-go/didparams"
	"github.com/trustbloc/didwebvh-go/logentry"
	"github.com/trustbloc/didwebvh-go/proof"
)

func TestMigrateOut_RequiresPortableHistory(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	_, vmID := didkey.Create(pub)
	multibase := didkey.Fingerprint(pub)

	delta := didparams.Delta{
		Method:     didparams.Set("did:webvh:1.0"),
		SCID:       didparams.Set(logentry.SCIDPlaceholder),
		UpdateKeys: didparams.Set([]string{multibase}),
		// Portable intentionally left unset (defaults false).
	}

	state := map[string]interface{}{"id": "did:webvh:" + logentry.SCIDPlaceholder + ":example.com"}

	suite := proof.NewSigner(capability.Ed25519Signer(priv), capability.SystemClock{})

	l, _, err := didlog.Create(context.Background(), didlog.CreateOptions{
		Delta:       delta,
		State:       state,
		SigningKeys: []logentry.SigningKey{{VerificationMethodID: vmID}},
		Clock:       fixedClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		Suite:       suite,
	})
	require.NoError(t, err)

	err = l.MigrateOut(context.Background(), "did:webvh:newscid:newhost.example", didlog.UpdateOptions{
		State:       l.CurrentDIDDocument(),
		SigningKeys: []logentry.SigningKey{{VerificationMethodID: vmID}},
		Clock:       fixedClock{t: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		Suite:       suite,
	})
	require.Error(t, err)
}

func TestMigrateOut_SucceedsWhenPortable(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	_, vmID := didkey.Create(pub)
	multibase := didkey.Fingerprint(pub)

	delta := didparams.Delta{
		Method:     didparams.Set("did:webvh:1.0"),
		SCID:       didparams.Set(logentry.SCIDPlaceholder),
		UpdateKeys: didparams.Set([]string{multibase}),
		Portable:   didparams.Set(true),
	}

	state := map[string]interface{}{"id": "did:webvh:" + logentry.SCIDPlaceholder + ":example.com"}

	suite := proof.NewSigner(capability.Ed25519Signer(priv), capability.SystemClock{})

	l, _, err := didlog.Create(context.Background(), didlog.CreateOptions{
		Delta:       delta,
		State:       state,
		SigningKeys: []logentry.SigningKey{{VerificationMethodID: vmID}},
		Clock:       fixedClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		Suite:       suite,
	})
	require.NoError(t, err)

	target := "did:webvh:newscid:newhost.example"

	err = l.MigrateOut(context.Background(), target, didlog.UpdateOptions{
		State:       l.CurrentDIDDocument(),
		SigningKeys: []logentry.SigningKey{{VerificationMethodID: vmID}},
		Clock:       fixedClock{t: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		Suite:       suite,
	})
	require.NoError(t, err)
	require.True(t, l.IsMigrated())
	require.Equal(t, target, l.MigratedTo())

	doc := l.CurrentDIDDocument()
	aka, ok := doc["alsoKnownAs"].([]interface{})
	require.True(t, ok)
	require.Contains(t, aka, target)
}

func TestNewFromMigration_LinksBackToSource(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	_, vmID := didkey.Create(pub)
	multibase := didkey.Fingerprint(pub)

	source := "did:webvh:oldscid:oldhost.example"

	delta := didparams.Delta{
		Method:     didparams.Set("did:webvh:1.0"),
		SCID:       didparams.Set(logentry.SCIDPlaceholder),
		UpdateKeys: didparams.Set([]string{multibase}),
	}

	state := map[string]interface{}{"id": "did:webvh:" + logentry.SCIDPlaceholder + ":newhost.example"}

	suite := proof.NewSigner(capability.Ed25519Signer(priv), capability.SystemClock{})

	l, _, err := didlog.NewFromMigration(context.Background(), source, didlog.CreateOptions{
		Delta:       delta,
		State:       state,
		SigningKeys: []logentry.SigningKey{{VerificationMethodID: vmID}},
		Clock:       fixedClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		Suite:       suite,
	})
	require.NoError(t, err)

	doc := l.CurrentDIDDocument()
	aka, ok := doc["alsoKnownAs"].([]interface{})
	require.True(t, ok)
	require.Contains(t, aka, source)
}
