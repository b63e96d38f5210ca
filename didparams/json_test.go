/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didparams_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trustbloc/didwebvh-go/didparams"
)

func TestDelta_NullClearsAndAbsenceLeavesUnset(t *testing.T) {
	raw := []byte(`{"updateKeys":["z6Mk1"],"nextKeyHashes":null}`)

	var d didparams.Delta
	require.NoError(t, json.Unmarshal(raw, &d))

	require.True(t, d.UpdateKeys.IsSet())
	require.True(t, d.NextKeyHashes.IsCleared())
	require.True(t, d.Witness.IsUnset())
	require.True(t, d.Deactivated.IsUnset())
}

func TestDelta_MarshalOmitsUnsetEmitsNullForCleared(t *testing.T) {
	d := didparams.Delta{
		UpdateKeys:    didparams.Set([]string{"z6Mk1"}),
		NextKeyHashes: didparams.Cleared[[]string](),
	}

	out, err := json.Marshal(d)
	require.NoError(t, err)

	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &generic))

	require.Contains(t, generic, "updateKeys")
	require.Contains(t, generic, "nextKeyHashes")
	require.Nil(t, generic["nextKeyHashes"])
	require.NotContains(t, generic, "witness")
	require.NotContains(t, generic, "deactivated")
}
