/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package webvhurl_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trustbloc/didwebvh-go/webvhurl"
)

func TestParse_DefaultPath(t *testing.T) {
	u, err := webvhurl.Parse("did:webvh:scid:example.com")
	require.NoError(t, err)
	require.Equal(t, "scid", u.SCID)
	require.Equal(t, "example.com", u.Domain)
	require.Equal(t, "/.well-known/", u.Path)
	require.Equal(t, webvhurl.KindDIDLog, u.Kind)

	fetch, err := u.FetchURL()
	require.NoError(t, err)
	require.Equal(t, "https://example.com/.well-known/did.jsonl", fetch)
}

func TestParse_CustomPath(t *testing.T) {
	u, err := webvhurl.Parse("did:webvh:scid:example.com%3A8080:custom:path")
	require.NoError(t, err)
	require.Equal(t, 8080, u.Port)
	require.Equal(t, "/custom/path/", u.Path)

	fetch, err := u.FetchURL()
	require.NoError(t, err)
	require.Equal(t, "https://example.com:8080/custom/path/did.jsonl", fetch)
}

func TestParse_Whois(t *testing.T) {
	u, err := webvhurl.Parse("did:webvh:scid:example.com:custom:path:whois")
	require.NoError(t, err)
	require.Equal(t, webvhurl.KindWhois, u.Kind)
	require.Equal(t, "/custom/path/", u.Path)

	fetch, err := u.FetchURL()
	require.NoError(t, err)
	require.Equal(t, "https://example.com/custom/path/whois.vp", fetch)
}

func TestParse_LoopbackUsesHTTP(t *testing.T) {
	u, err := webvhurl.Parse("did:webvh:scid:localhost%3A9000")
	require.NoError(t, err)

	fetch, err := u.FetchURL()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9000/.well-known/did.jsonl", fetch)
}

func TestParse_QuerySelectors(t *testing.T) {
	u, err := webvhurl.Parse("did:webvh:scid:example.com?versionId=2-abc")
	require.NoError(t, err)
	require.Equal(t, "2-abc", u.VersionID)
}

func TestParse_ConflictingSelectorsRejected(t *testing.T) {
	_, err := webvhurl.Parse("did:webvh:scid:example.com?versionId=2-abc&versionNumber=2")
	require.Error(t, err)
}

func TestParse_BadPortRejected(t *testing.T) {
	_, err := webvhurl.Parse("did:webvh:scid:example.com%3Abad")
	require.Error(t, err)
}

func TestParse_WrongMethodRejected(t *testing.T) {
	_, err := webvhurl.Parse("did:web:example.com")
	require.Error(t, err)
}

func TestParse_Fragment(t *testing.T) {
	u, err := webvhurl.Parse("did:webvh:scid:example.com#key-1")
	require.NoError(t, err)
	require.Equal(t, "key-1", u.Fragment)
}
