/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package didparams implements the Parameter Engine: parsing,
// tri-state delta folding, and validation of the governance
// parameters that travel alongside every log entry.
package didparams

// Tri is a tri-state slot modeling "unset" (the delta did not mention
// this key, leave the prior value alone), "cleared" (the delta set
// this key to JSON null), and "set" (the delta supplied a value).
// This mirrors the source's variant modeling of parameters rather
// than overloading Go's zero value, which cannot distinguish "not
// present" from "present and empty".
type Tri[T any] struct {
	state triState
	value T
}

type triState int

const (
	triUnset triState = iota
	triCleared
	triSet
)

// Unset returns a Tri in the "not present in this delta" state.
func Unset[T any]() Tri[T] { return Tri[T]{state: triUnset} }

// Cleared returns a Tri in the "explicitly set to null" state.
func Cleared[T any]() Tri[T] { return Tri[T]{state: triCleared} }

// Set returns a Tri holding v.
func Set[T any](v T) Tri[T] { return Tri[T]{state: triSet, value: v} }

// IsUnset reports whether the delta did not mention this parameter.
func (t Tri[T]) IsUnset() bool { return t.state == triUnset }

// IsCleared reports whether the delta cleared this parameter.
func (t Tri[T]) IsCleared() bool { return t.state == triCleared }

// IsSet reports whether the delta supplied a concrete value.
func (t Tri[T]) IsSet() bool { return t.state == triSet }

// Value returns the held value and whether one is present (i.e. the
// Tri is in the Set state).
func (t Tri[T]) Value() (T, bool) { return t.value, t.state == triSet }

// Witness is a single entry in the folded witness parameter.
type Witness struct {
	ID     string `json:"id" mapstructure:"id"`
	Weight int    `json:"weight" mapstructure:"weight"`
}

// WitnessParam is the folded `{threshold, witnesses}` witness
// parameter.
type WitnessParam struct {
	Threshold int       `json:"threshold" mapstructure:"threshold"`
	Witnesses []Witness `json:"witnesses" mapstructure:"witnesses"`
}

// Delta is the raw per-entry parameters map as it appears on the
// wire: only keys present in this entry's delta are populated, using
// Tri slots so JSON null (clear) is distinguishable from absence
// (unset).
type Delta struct {
	Method        Tri[string]       `json:"-"`
	SCID          Tri[string]       `json:"-"`
	UpdateKeys    Tri[[]string]     `json:"-"`
	NextKeyHashes Tri[[]string]     `json:"-"`
	Portable      Tri[bool]         `json:"-"`
	Witness       Tri[*WitnessParam] `json:"-"`
	Watchers      Tri[[]string]     `json:"-"`
	Deactivated   Tri[bool]         `json:"-"`
	TTL           Tri[int64]        `json:"-"`
}

// Effective is the fully folded parameter state entering (or active
// for) a given entry: every key carries its last-set value, never a
// Tri, since by the time a log entry is reached every parameter has
// either been set or remains at its prior value.
type Effective struct {
	Method        string
	SCID          string
	UpdateKeys    []string
	NextKeyHashes []string
	Portable      bool
	Witness       *WitnessParam
	Watchers      []string
	Deactivated   bool
	TTL           int64
}

// Clone returns a deep-enough copy of e suitable for folding a new
// delta on top of without mutating the caller's copy.
func (e Effective) Clone() Effective {
	out := e
	out.UpdateKeys = append([]string(nil), e.UpdateKeys...)
	out.NextKeyHashes = append([]string(nil), e.NextKeyHashes...)
	out.Watchers = append([]string(nil), e.Watchers...)

	if e.Witness != nil {
		w := *e.Witness
		w.Witnesses = append([]Witness(nil), e.Witness.Witnesses...)
		out.Witness = &w
	}

	return out
}
