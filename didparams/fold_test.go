/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didparams_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trustbloc/didwebvh-go/canon"
	"github.com/trustbloc/didwebvh-go/didparams"
	"github.com/trustbloc/didwebvh-go/errkind"
)

func TestFold_Genesis(t *testing.T) {
	delta := didparams.Delta{
		Method:     didparams.Set("did:webvh:1.0"),
		SCID:       didparams.Set("abc123"),
		UpdateKeys: didparams.Set([]string{"z6Mkf1"}),
	}

	eff, err := didparams.Fold(didparams.Effective{}, delta, true)
	require.NoError(t, err)
	require.Equal(t, "did:webvh:1.0", eff.Method)
	require.Equal(t, "abc123", eff.SCID)
	require.Equal(t, []string{"z6Mkf1"}, eff.UpdateKeys)
}

func TestFold_GenesisRequiresUpdateKeys(t *testing.T) {
	delta := didparams.Delta{
		Method: didparams.Set("did:webvh:1.0"),
		SCID:   didparams.Set("abc123"),
	}

	_, err := didparams.Fold(didparams.Effective{}, delta, true)
	require.Error(t, err)
	require.True(t, errkind.Is(err, errkind.KindParameterError))
}

func TestFold_ImmutableMethodRejected(t *testing.T) {
	prior := didparams.Effective{Method: "did:webvh:1.0", SCID: "abc123", UpdateKeys: []string{"z6Mkf1"}}

	delta := didparams.Delta{Method: didparams.Set("did:webvh:0.5")}

	_, err := didparams.Fold(prior, delta, false)
	require.Error(t, err)
	require.True(t, errkind.Is(err, errkind.KindParameterError))
}

func TestFold_PreRotationAccepted(t *testing.T) {
	k2 := mustMultibase(t, "next-key-bytes")

	h, err := canon.HashBytes([]byte(k2))
	require.NoError(t, err)

	prior := didparams.Effective{
		Method:        "did:webvh:1.0",
		SCID:          "abc123",
		UpdateKeys:    []string{"z6MkCurrent"},
		NextKeyHashes: []string{h},
	}

	delta := didparams.Delta{UpdateKeys: didparams.Set([]string{k2})}

	eff, err := didparams.Fold(prior, delta, false)
	require.NoError(t, err)
	require.Equal(t, []string{k2}, eff.UpdateKeys)
}

func TestFold_PreRotationMismatchRejected(t *testing.T) {
	h, err := canon.HashBytes([]byte(mustMultibase(t, "committed-key")))
	require.NoError(t, err)

	prior := didparams.Effective{
		Method:        "did:webvh:1.0",
		SCID:          "abc123",
		UpdateKeys:    []string{"z6MkCurrent"},
		NextKeyHashes: []string{h},
	}

	delta := didparams.Delta{UpdateKeys: didparams.Set([]string{mustMultibase(t, "some-other-key")})}

	_, err = didparams.Fold(prior, delta, false)
	require.Error(t, err)

	var e *errkind.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, errkind.SubkindPreRotationMismatch, e.Subkind)
}

func TestFold_DeactivateClearsUpdateKeysAndNextKeyHashes(t *testing.T) {
	prior := didparams.Effective{
		Method:        "did:webvh:1.0",
		SCID:          "abc123",
		UpdateKeys:    []string{"z6MkCurrent"},
		NextKeyHashes: []string{"somehash"},
	}

	delta := didparams.Delta{
		Deactivated:   didparams.Set(true),
		UpdateKeys:    didparams.Set([]string{}),
		NextKeyHashes: didparams.Cleared[[]string](),
	}

	eff, err := didparams.Fold(prior, delta, false)
	require.NoError(t, err)
	require.True(t, eff.Deactivated)
	require.Empty(t, eff.UpdateKeys)
	require.Empty(t, eff.NextKeyHashes)
}

func mustMultibase(t *testing.T, seed string) string {
	t.Helper()
	return canon.Multibase([]byte(seed))
}
