/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package errkind

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an Error into one of the orthogonal failure
// categories the log protocol can produce.
type Kind string

// Error kinds. See SPEC_FULL.md §7.
const (
	KindParseError            Kind = "ParseError"
	KindCanonicalizationError Kind = "CanonicalizationError"
	KindHashMismatch          Kind = "HashMismatch"
	KindProofInvalid          Kind = "ProofInvalid"
	KindUnauthorizedKey       Kind = "UnauthorizedKey"
	KindParameterError        Kind = "ParameterError"
	KindTimeError             Kind = "TimeError"
	KindPortabilityError      Kind = "PortabilityError"
	KindWitnessInsufficient   Kind = "WitnessInsufficient"
	KindResolutionError       Kind = "ResolutionError"
	KindDeactivatedError      Kind = "DeactivatedError"
)

// ParameterErrorSubkind further classifies a KindParameterError.
type ParameterErrorSubkind string

// Parameter error subkinds.
const (
	SubkindImmutableField      ParameterErrorSubkind = "ImmutableField"
	SubkindPreRotationMismatch ParameterErrorSubkind = "PreRotationMismatch"
	SubkindEmptyUpdateKeys     ParameterErrorSubkind = "EmptyUpdateKeys"
	SubkindInvalidMethod       ParameterErrorSubkind = "InvalidMethod"
)

// Error is the typed error every component returns. Callers should
// errors.As into *Error and switch on Kind (and Subkind, for
// KindParameterError) rather than matching on message text.
type Error struct {
	Kind    Kind
	Subkind ParameterErrorSubkind
	Msg     string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Subkind != "" {
		return fmt.Sprintf("%s{%s}: %s", e.Kind, e.Subkind, e.Msg)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap exposes the wrapped cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New constructs an *Error with no wrapped cause.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error that wraps cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// WithSubkind returns a new Error of the given kind with a subkind
// attached.
func WithSubkind(kind Kind, subkind ParameterErrorSubkind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Subkind: subkind, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err, or any error in its chain, is a *Error of
// the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}

	return false
}
