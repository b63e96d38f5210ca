/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resolver_test

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trustbloc/didwebvh-go/capability"
	"github.com/trustbloc/didwebvh-go/didkey"
	"github.com/trustbloc/didwebvh-go/didlog"
	"github.com/trustbloc/didwebvh-go/didparams"
	"github.com/trustbloc/didwebvh-go/errkind"
	"github.com/trustbloc/didwebvh-go/logentry"
	"github.com/trustbloc/didwebvh-go/proof"
	"github.com/trustbloc/didwebvh-go/resolver"
	"github.com/trustbloc/didwebvh-go/witness"
)

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

// buildTestLog returns a genesis+update did:webvh log and the encoded
// JSON-Lines bytes a real did.jsonl would contain for it.
func buildTestLog(t *testing.T) (did string, raw []byte) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	multibase := didkey.Fingerprint(pub)
	_, vmID := didkey.Create(pub)

	suite := proof.NewSigner(capability.Ed25519Signer(priv), capability.SystemClock{})

	delta := didparams.Delta{
		Method:     didparams.Set("did:webvh:1.0"),
		SCID:       didparams.Set(logentry.SCIDPlaceholder),
		UpdateKeys: didparams.Set([]string{multibase}),
		Portable:   didparams.Set(true),
	}

	state := map[string]interface{}{"id": "did:webvh:" + logentry.SCIDPlaceholder + ":example.com"}

	l, scid, err := didlog.Create(context.Background(), didlog.CreateOptions{
		Delta:       delta,
		State:       state,
		SigningKeys: []logentry.SigningKey{{VerificationMethodID: vmID}},
		Clock:       fixedClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		Suite:       suite,
	})
	require.NoError(t, err)

	err = l.Update(context.Background(), didlog.UpdateOptions{
		Delta:       didparams.Delta{},
		State:       l.CurrentDIDDocument(),
		SigningKeys: []logentry.SigningKey{{VerificationMethodID: vmID}},
		Clock:       fixedClock{t: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		Suite:       suite,
	})
	require.NoError(t, err)

	lines := make([][]byte, 0, l.Len())

	for i := 1; i <= l.Len(); i++ {
		e, err := l.GetEntry(i)
		require.NoError(t, err)

		b, err := json.Marshal(e)
		require.NoError(t, err)

		lines = append(lines, b)
	}

	joined := lines[0]
	for _, line := range lines[1:] {
		joined = append(joined, '\n')
		joined = append(joined, line...)
	}

	return "did:webvh:" + scid + ":example.com", joined
}

func newResolver(t *testing.T, fetch func(ctx context.Context, url string) ([]byte, error), opts ...resolver.Option) *resolver.Resolver {
	t.Helper()

	verifier := proof.NewVerifier(capability.Ed25519Verifier())

	return resolver.New(capability.FetcherFunc(fetch), verifier, opts...)
}

func TestResolve_LatestVersion(t *testing.T) {
	did, raw := buildTestLog(t)

	r := newResolver(t, func(_ context.Context, _ string) ([]byte, error) {
		return raw, nil
	})

	result, err := r.Resolve(context.Background(), did)
	require.NoError(t, err)
	require.Equal(t, "2-", result.ResolvedVersionID[:2])
	require.Equal(t, "1-", result.EarliestVersionID[:2])
	require.Equal(t, result.ResolvedVersionID, result.LatestVersionID)
	require.False(t, result.Deactivated)
}

func TestResolve_VersionNumberSelector(t *testing.T) {
	did, raw := buildTestLog(t)

	r := newResolver(t, func(_ context.Context, _ string) ([]byte, error) {
		return raw, nil
	})

	result, err := r.Resolve(context.Background(), did+"?versionNumber=1")
	require.NoError(t, err)
	require.Equal(t, result.EarliestVersionID, result.ResolvedVersionID)
}

func TestResolve_ConflictingSelectorsRejected(t *testing.T) {
	did, raw := buildTestLog(t)

	r := newResolver(t, func(_ context.Context, _ string) ([]byte, error) {
		return raw, nil
	})

	_, err := r.Resolve(context.Background(), did+"?versionNumber=1&versionId=2-abc")
	require.Error(t, err)
	require.True(t, errkind.Is(err, errkind.KindParseError) || errkind.Is(err, errkind.KindResolutionError))
}

func TestResolve_AugmentsImpliedServices(t *testing.T) {
	did, raw := buildTestLog(t)

	r := newResolver(t, func(_ context.Context, _ string) ([]byte, error) {
		return raw, nil
	})

	result, err := r.Resolve(context.Background(), did)
	require.NoError(t, err)

	services, ok := result.Document["service"].([]interface{})
	require.True(t, ok)
	require.Len(t, services, 2)
}

func TestResolve_MissingWitnessFileIsNotFatal(t *testing.T) {
	did, raw := buildTestLog(t)

	calls := 0

	r := newResolver(t, func(_ context.Context, url string) ([]byte, error) {
		calls++
		if calls == 1 {
			return raw, nil
		}

		return nil, errkind.New(errkind.KindResolutionError, "fetch: 404 for %s", url)
	}, resolver.WithWitnessEvaluator(witness.NewEvaluator(
		func(_ context.Context, _, _ string) ([]byte, error) { return nil, nil },
		proof.NewVerifier(capability.Ed25519Verifier()),
		0, 0,
	)))

	result, err := r.Resolve(context.Background(), did)
	require.NoError(t, err)
	require.NotNil(t, result.WitnessResult)
	require.True(t, result.WitnessResult.Met) // no witness param configured on this log
}
