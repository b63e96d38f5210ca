/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didwebvh

import "github.com/trustbloc/didwebvh-go/errkind"

// Error, Kind, and the Kind* constants are re-exported here so
// callers of the root package never need to import errkind directly.
type (
	Error                 = errkind.Error
	Kind                  = errkind.Kind
	ParameterErrorSubkind = errkind.ParameterErrorSubkind
)

const (
	KindParseError            = errkind.KindParseError
	KindCanonicalizationError = errkind.KindCanonicalizationError
	KindHashMismatch          = errkind.KindHashMismatch
	KindProofInvalid          = errkind.KindProofInvalid
	KindUnauthorizedKey       = errkind.KindUnauthorizedKey
	KindParameterError        = errkind.KindParameterError
	KindTimeError             = errkind.KindTimeError
	KindPortabilityError      = errkind.KindPortabilityError
	KindWitnessInsufficient   = errkind.KindWitnessInsufficient
	KindResolutionError       = errkind.KindResolutionError
	KindDeactivatedError      = errkind.KindDeactivatedError
)

// Is reports whether err, or any error in its chain, is an *Error of
// the given kind.
func Is(err error, kind Kind) bool {
	return errkind.Is(err, kind)
}
