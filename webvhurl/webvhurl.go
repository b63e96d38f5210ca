/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package webvhurl implements the did:webvh DID <-> URL mapping
// (§6): parsing a did:webvh identifier into its SCID/authority/path
// components, deriving the fetchable log URL, and splitting query
// selectors (versionId/versionNumber/versionTime) from the DID URL.
package webvhurl

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trustbloc/didwebvh-go/errkind"
)

// Kind distinguishes the implied resource a parsed URL addresses.
type Kind int

const (
	// KindDIDLog addresses the did.jsonl log itself.
	KindDIDLog Kind = iota
	// KindWhois addresses the whois.vp implied service.
	KindWhois
)

// WebVHURL is a parsed did:webvh identifier, broken into its
// components and the resource it addresses.
type WebVHURL struct {
	Kind Kind

	SCID   string
	Domain string
	Port   int // 0 if unspecified
	Path   string // leading and trailing slash, "/.well-known/" for none

	Fragment string // without leading '#', "" if absent

	// Selectors, at most one of which may be non-zero (enforced at
	// parse time per §6 "ConflictingSelectors").
	VersionID     string
	VersionNumber int
	VersionTime   time.Time
}

// Parse parses a did:webvh identifier (with or without the
// "did:webvh:" prefix already stripped) into its components.
func Parse(did string) (WebVHURL, error) {
	rest := did

	switch {
	case strings.HasPrefix(did, "did:webvh:"):
		rest = strings.TrimPrefix(did, "did:webvh:")
	case strings.HasPrefix(did, "did:"):
		return WebVHURL{}, errkind.New(errkind.KindParseError, "webvhurl: unsupported method in %q", did)
	}

	prefix, fragment := splitOnce(rest, '#')
	prefix, query := splitOnce(prefix, '?')

	versionID, versionNumber, versionTime, err := parseQuery(query)
	if err != nil {
		return WebVHURL{}, err
	}

	parts := strings.Split(prefix, ":")
	if len(parts) < 2 {
		return WebVHURL{}, errkind.New(errkind.KindParseError,
			"webvhurl: %q must contain at least a scid and a domain", did)
	}

	scid := parts[0]

	domain, port, err := splitAuthority(parts[1])
	if err != nil {
		return WebVHURL{}, err
	}

	var pathSegments []string

	isWhois := false

	for i, seg := range parts[2:] {
		last := i == len(parts[2:])-1
		if last && seg == "whois" {
			isWhois = true

			continue
		}

		if seg == "" {
			return WebVHURL{}, errkind.New(errkind.KindParseError, "webvhurl: empty path segment in %q", did)
		}

		pathSegments = append(pathSegments, seg)
	}

	path := "/.well-known/"
	if len(pathSegments) > 0 {
		path = "/" + strings.Join(pathSegments, "/") + "/"
	}

	kind := KindDIDLog
	if isWhois {
		kind = KindWhois
	}

	return WebVHURL{
		Kind:          kind,
		SCID:          scid,
		Domain:        domain,
		Port:          port,
		Path:          path,
		Fragment:      fragment,
		VersionID:     versionID,
		VersionNumber: versionNumber,
		VersionTime:   versionTime,
	}, nil
}

// FetchURL renders the https(s) URL from which the resource u
// addresses should be fetched.
func (u WebVHURL) FetchURL() (string, error) {
	scheme := "https"
	if isLoopback(u.Domain) {
		scheme = "http"
	}

	authority := u.Domain
	if u.Port != 0 {
		authority += ":" + strconv.Itoa(u.Port)
	}

	fileName := "did.jsonl"
	if u.Kind == KindWhois {
		fileName = "whois.vp"
	}

	raw := scheme + "://" + authority + u.Path + fileName

	if _, err := url.Parse(raw); err != nil {
		return "", errkind.Wrap(errkind.KindParseError, err, "webvhurl: invalid derived URL %q", raw)
	}

	return raw, nil
}

// WitnessProofURL renders the sibling did-witness.json URL for the
// same authority/path as u, regardless of u.Kind.
func (u WebVHURL) WitnessProofURL() (string, error) {
	scheme := "https"
	if isLoopback(u.Domain) {
		scheme = "http"
	}

	authority := u.Domain
	if u.Port != 0 {
		authority += ":" + strconv.Itoa(u.Port)
	}

	raw := scheme + "://" + authority + u.Path + "did-witness.json"

	if _, err := url.Parse(raw); err != nil {
		return "", errkind.Wrap(errkind.KindParseError, err, "webvhurl: invalid derived URL %q", raw)
	}

	return raw, nil
}

// FilesServiceURL renders the #files implied-service URL: the parent
// of the log's own URL.
func (u WebVHURL) FilesServiceURL() (string, error) {
	scheme := "https"
	if isLoopback(u.Domain) {
		scheme = "http"
	}

	authority := u.Domain
	if u.Port != 0 {
		authority += ":" + strconv.Itoa(u.Port)
	}

	return scheme + "://" + authority + u.Path, nil
}

func isLoopback(domain string) bool {
	return domain == "localhost" || domain == "127.0.0.1" || domain == "::1"
}

func splitOnce(s string, sep byte) (head, tail string) {
	idx := strings.IndexByte(s, sep)
	if idx < 0 {
		return s, ""
	}

	return s[:idx], s[idx+1:]
}

func splitAuthority(raw string) (domain string, port int, err error) {
	head, portStr := splitOnPercentColon(raw)
	if portStr == "" {
		return head, 0, nil
	}

	p, convErr := strconv.Atoi(portStr)
	if convErr != nil || p < 1 || p > 65535 {
		return "", 0, errkind.New(errkind.KindParseError, "webvhurl: invalid port %q", portStr)
	}

	return head, p, nil
}

func splitOnPercentColon(s string) (head, tail string) {
	const marker = "%3A"

	idx := strings.Index(s, marker)
	if idx < 0 {
		return s, ""
	}

	return s[:idx], s[idx+len(marker):]
}

func parseQuery(query string) (versionID string, versionNumber int, versionTime time.Time, err error) {
	if query == "" {
		return "", 0, time.Time{}, nil
	}

	selectorsSeen := 0

	for _, kv := range strings.Split(query, "&") {
		key, value := splitOnce(kv, '=')
		if value == "" && !strings.Contains(kv, "=") {
			return "", 0, time.Time{}, errkind.New(errkind.KindParseError,
				"webvhurl: malformed query parameter %q", kv)
		}

		switch key {
		case "versionId":
			versionID = value
			selectorsSeen++
		case "versionNumber":
			n, convErr := strconv.Atoi(value)
			if convErr != nil || n < 1 {
				return "", 0, time.Time{}, errkind.New(errkind.KindParseError, "webvhurl: invalid versionNumber %q", value)
			}

			versionNumber = n
			selectorsSeen++
		case "versionTime":
			t, convErr := time.Parse(time.RFC3339, value)
			if convErr != nil {
				return "", 0, time.Time{}, errkind.Wrap(errkind.KindParseError, convErr,
					"webvhurl: invalid versionTime %q", value)
			}

			versionTime = t
			selectorsSeen++
		}
	}

	if selectorsSeen > 1 {
		return "", 0, time.Time{}, errkind.New(errkind.KindResolutionError,
			"webvhurl: conflicting selectors in query %q", query)
	}

	return versionID, versionNumber, versionTime, nil
}
