/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didparams

import (
	"github.com/trustbloc/didwebvh-go/errkind"
)

func immutableFieldErr(field string) *errkind.Error {
	return errkind.WithSubkind(errkind.KindParameterError, errkind.SubkindImmutableField,
		"%q may not change after genesis", field)
}

func missingMethodErr() *errkind.Error {
	return errkind.WithSubkind(errkind.KindParameterError, errkind.SubkindInvalidMethod,
		"method parameter is required in genesis")
}

func unsupportedMethodErr(token string) *errkind.Error {
	return errkind.WithSubkind(errkind.KindParameterError, errkind.SubkindInvalidMethod,
		"unsupported method %q", token)
}

func missingSCIDErr() *errkind.Error {
	return errkind.WithSubkind(errkind.KindParameterError, errkind.SubkindImmutableField,
		"scid parameter is required in genesis")
}

func emptyUpdateKeysErr() *errkind.Error {
	return errkind.WithSubkind(errkind.KindParameterError, errkind.SubkindEmptyUpdateKeys,
		"updateKeys must be non-empty outside deactivation")
}

func nonEmptyOnDeactivateErr() *errkind.Error {
	return errkind.WithSubkind(errkind.KindParameterError, errkind.SubkindEmptyUpdateKeys,
		"updateKeys must be empty when deactivating")
}

func nextKeyHashesNotClearedErr() *errkind.Error {
	return errkind.WithSubkind(errkind.KindParameterError, errkind.SubkindEmptyUpdateKeys,
		"nextKeyHashes must be cleared when deactivating")
}

func preRotationMismatchErr(format string, args ...interface{}) *errkind.Error {
	return errkind.WithSubkind(errkind.KindParameterError, errkind.SubkindPreRotationMismatch, format, args...)
}

// MethodSupported reports whether token is a method version this
// engine knows how to validate. Fold rejects any other token with a
// ParameterError{InvalidMethod}, never silently accepting it.
func MethodSupported(token string) bool {
	switch token {
	case "did:webvh:1.0", "did:webvh:0.3", "did:webvh:0.4", "did:webvh:0.5":
		return true
	default:
		return false
	}
}

// IsPreV1_0 reports whether a method token uses the pre-1.0
// compatibility flavor (JSON null instead of empty array/object for
// unused updateKeys/nextKeyHashes/witness/watchers in genesis).
// logentry hashes entries of every flavor with JCS.
func IsPreV1_0(token string) bool {
	return token != "did:webvh:1.0"
}
