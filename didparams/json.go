/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didparams

import (
	"encoding/json"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// MarshalJSON emits only the keys whose Tri is Set or Cleared; Unset
// keys are omitted entirely, and Cleared keys are emitted as JSON
// null, matching the wire delta semantics of §4.2.
func (d Delta) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{}

	setOrNull := func(key string, isUnset, isCleared bool, value interface{}) {
		if isUnset {
			return
		}

		if isCleared {
			out[key] = nil
			return
		}

		out[key] = value
	}

	setOrNull("method", d.Method.IsUnset(), d.Method.IsCleared(), valOrZero(d.Method))
	setOrNull("scid", d.SCID.IsUnset(), d.SCID.IsCleared(), valOrZero(d.SCID))
	setOrNull("updateKeys", d.UpdateKeys.IsUnset(), d.UpdateKeys.IsCleared(), valOrZero(d.UpdateKeys))
	setOrNull("nextKeyHashes", d.NextKeyHashes.IsUnset(), d.NextKeyHashes.IsCleared(), valOrZero(d.NextKeyHashes))
	setOrNull("portable", d.Portable.IsUnset(), d.Portable.IsCleared(), valOrZero(d.Portable))
	setOrNull("witness", d.Witness.IsUnset(), d.Witness.IsCleared(), valOrZero(d.Witness))
	setOrNull("watchers", d.Watchers.IsUnset(), d.Watchers.IsCleared(), valOrZero(d.Watchers))
	setOrNull("deactivated", d.Deactivated.IsUnset(), d.Deactivated.IsCleared(), valOrZero(d.Deactivated))
	setOrNull("ttl", d.TTL.IsUnset(), d.TTL.IsCleared(), valOrZero(d.TTL))

	return json.Marshal(out)
}

func valOrZero[T any](t Tri[T]) T {
	v, _ := t.Value()
	return v
}

// UnmarshalJSON parses a raw delta object, distinguishing an absent
// key (Unset), a JSON-null key (Cleared), and a present key (Set).
// The pre-1.0 flavor uses JSON null where 1.0 uses an empty
// array/object for updateKeys, nextKeyHashes, witness, and watchers
// when the parameter is merely "not yet used"; that null parses to
// Cleared like any other null, since the wire form is identical.
func (d *Delta) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "didparams: unmarshal delta")
	}

	if err := unmarshalStringField(raw, "method", &d.Method); err != nil {
		return err
	}

	if err := unmarshalStringField(raw, "scid", &d.SCID); err != nil {
		return err
	}

	if err := unmarshalStringSliceField(raw, "updateKeys", &d.UpdateKeys); err != nil {
		return err
	}

	if err := unmarshalStringSliceField(raw, "nextKeyHashes", &d.NextKeyHashes); err != nil {
		return err
	}

	if err := unmarshalBoolField(raw, "portable", &d.Portable); err != nil {
		return err
	}

	if err := unmarshalWitnessField(raw, "witness", &d.Witness); err != nil {
		return err
	}

	if err := unmarshalStringSliceField(raw, "watchers", &d.Watchers); err != nil {
		return err
	}

	if err := unmarshalBoolField(raw, "deactivated", &d.Deactivated); err != nil {
		return err
	}

	if err := unmarshalIntField(raw, "ttl", &d.TTL); err != nil {
		return err
	}

	return nil
}

func unmarshalStringField(raw map[string]json.RawMessage, key string, t *Tri[string]) error {
	v, present := raw[key]
	if !present {
		*t = Unset[string]()
		return nil
	}

	if isJSONNull(v) {
		*t = Cleared[string]()
		return nil
	}

	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return errors.Wrapf(err, "didparams: field %q", key)
	}

	*t = Set(s)

	return nil
}

func unmarshalBoolField(raw map[string]json.RawMessage, key string, t *Tri[bool]) error {
	v, present := raw[key]
	if !present {
		*t = Unset[bool]()
		return nil
	}

	if isJSONNull(v) {
		*t = Cleared[bool]()
		return nil
	}

	var b bool
	if err := json.Unmarshal(v, &b); err != nil {
		return errors.Wrapf(err, "didparams: field %q", key)
	}

	*t = Set(b)

	return nil
}

func unmarshalIntField(raw map[string]json.RawMessage, key string, t *Tri[int64]) error {
	v, present := raw[key]
	if !present {
		*t = Unset[int64]()
		return nil
	}

	if isJSONNull(v) {
		*t = Cleared[int64]()
		return nil
	}

	var n int64
	if err := json.Unmarshal(v, &n); err != nil {
		return errors.Wrapf(err, "didparams: field %q", key)
	}

	*t = Set(n)

	return nil
}

func unmarshalStringSliceField(raw map[string]json.RawMessage, key string, t *Tri[[]string]) error {
	v, present := raw[key]
	if !present {
		*t = Unset[[]string]()
		return nil
	}

	if isJSONNull(v) {
		*t = Cleared[[]string]()
		return nil
	}

	var s []string
	if err := json.Unmarshal(v, &s); err != nil {
		return errors.Wrapf(err, "didparams: field %q", key)
	}

	*t = Set(s)

	return nil
}

func unmarshalWitnessField(raw map[string]json.RawMessage, key string, t *Tri[*WitnessParam]) error {
	v, present := raw[key]
	if !present {
		*t = Unset[*WitnessParam]()
		return nil
	}

	if isJSONNull(v) {
		*t = Cleared[*WitnessParam]()
		return nil
	}

	var generic map[string]interface{}
	if err := json.Unmarshal(v, &generic); err != nil {
		return errors.Wrapf(err, "didparams: field %q", key)
	}

	w := &WitnessParam{}
	if err := mapstructure.Decode(generic, w); err != nil {
		return errors.Wrapf(err, "didparams: decode field %q", key)
	}

	*t = Set(w)

	return nil
}

func isJSONNull(raw json.RawMessage) bool {
	trimmed := string(raw)
	return trimmed == "null"
}
