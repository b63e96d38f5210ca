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

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

func newKey(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey, string, string) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	_, vmID := didkey.Create(pub)

	return pub, priv, didkey.Fingerprint(pub), vmID
}

func genesisLog(t *testing.T) (*didlog.Log, string, ed25519.PrivateKey, string) {
	t.Helper()

	pub, priv, multibase, vmID := newKey(t)
	_ = pub

	delta := didparams.Delta{
		Method:     didparams.Set("did:webvh:1.0"),
		SCID:       didparams.Set(logentry.SCIDPlaceholder),
		UpdateKeys: didparams.Set([]string{multibase}),
		Portable:   didparams.Set(true),
	}

	state := map[string]interface{}{"id": "did:webvh:" + logentry.SCIDPlaceholder + ":example.com"}

	suite := proof.NewSigner(capability.Ed25519Signer(priv), capability.SystemClock{})

	l, scid, err := didlog.Create(context.Background(), didlog.CreateOptions{
		Delta:       delta,
		State:       state,
		SigningKeys: []logentry.SigningKey{{VerificationMethodID: vmID}},
		Clock:       fixedClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		Suite:       suite,
	})
	require.NoError(t, err)

	return l, scid, priv, multibase
}

func TestCreate_GenesisActive(t *testing.T) {
	l, scid, _, _ := genesisLog(t)

	require.Equal(t, didlog.StateActive, l.State())
	require.Equal(t, scid, l.SCID())
	require.Equal(t, 1, l.Len())
	require.False(t, l.IsDeactivated())
}

func TestUpdate_AppendsSecondEntry(t *testing.T) {
	l, _, priv, multibase := genesisLog(t)

	_, vmID := didkey.Create(mustPub(t, priv))

	suite := proof.NewSigner(capability.Ed25519Signer(priv), capability.SystemClock{})

	err := l.Update(context.Background(), didlog.UpdateOptions{
		Delta:       didparams.Delta{UpdateKeys: didparams.Set([]string{multibase})},
		State:       l.CurrentDIDDocument(),
		SigningKeys: []logentry.SigningKey{{VerificationMethodID: vmID}},
		Clock:       fixedClock{t: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		Suite:       suite,
	})
	require.NoError(t, err)
	require.Equal(t, 2, l.Len())

	params, err := l.GetEffectiveParameters(2)
	require.NoError(t, err)
	require.Equal(t, []string{multibase}, params.UpdateKeys)
}

func TestDeactivate_TerminalState(t *testing.T) {
	l, _, priv, _ := genesisLog(t)

	_, vmID := didkey.Create(mustPub(t, priv))
	suite := proof.NewSigner(capability.Ed25519Signer(priv), capability.SystemClock{})

	err := l.Deactivate(context.Background(), didlog.UpdateOptions{
		Delta: didparams.Delta{
			Deactivated:   didparams.Set(true),
			UpdateKeys:    didparams.Set([]string{}),
			NextKeyHashes: didparams.Cleared[[]string](),
		},
		State:       l.CurrentDIDDocument(),
		SigningKeys: []logentry.SigningKey{{VerificationMethodID: vmID}},
		Clock:       fixedClock{t: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		Suite:       suite,
	})
	require.NoError(t, err)
	require.True(t, l.IsDeactivated())
	require.Equal(t, didlog.StateDeactivated, l.State())

	err = l.Update(context.Background(), didlog.UpdateOptions{})
	require.Error(t, err)
}

func mustPub(t *testing.T, priv ed25519.PrivateKey) ed25519.PublicKey {
	t.Helper()

	pub, ok := priv.Public().(ed25519.PublicKey)
	require.True(t, ok)

	return pub
}
