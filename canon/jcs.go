/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package canon implements the canonicalization and hashing primitives
// shared by every component that needs a stable byte representation of
// a log entry: JSON Canonicalization Scheme (RFC 8785) serialization,
// SHA-256 multihash framing, and base58btc multibase encoding.
package canon

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// JCS serializes v using the JSON Canonicalization Scheme (RFC 8785):
// object keys sorted by Unicode code point (sort.Strings over UTF-8), no
// insignificant whitespace, and numbers formatted per ECMA-262.
//
// No third-party JCS implementation appears anywhere in the reference
// corpus this engine was built from, so this is a deliberate, narrowly
// scoped exception to the "never hand-roll what a library already
// does" rule; see DESIGN.md.
func JCS(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "canon: marshal")
	}

	// Round-tripping through json.Unmarshal into map[string]interface{}
	// is also where duplicate object keys get resolved: encoding/json
	// keeps only the last occurrence of a repeated key, so by the time
	// writeCanonical walks the result there is nothing left to detect.
	// A caller needing to reject duplicate keys outright must do so
	// against raw before this point, at the token level.
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, errors.Wrap(err, "canon: unmarshal for canonicalization")
	}

	var buf strings.Builder
	if err := writeCanonical(&buf, generic); err != nil {
		return nil, err
	}

	return []byte(buf.String()), nil
}

func writeCanonical(buf *strings.Builder, v interface{}) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case float64:
		s, err := formatNumber(val)
		if err != nil {
			return err
		}

		buf.WriteString(s)
	case string:
		encoded, err := json.Marshal(val)
		if err != nil {
			return errors.Wrap(err, "canon: encode string")
		}

		buf.Write(encoded)
	case []interface{}:
		buf.WriteByte('[')

		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}

		buf.WriteByte(']')
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		buf.WriteByte('{')

		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}

			keyEncoded, err := json.Marshal(k)
			if err != nil {
				return errors.Wrap(err, "canon: encode key")
			}

			buf.Write(keyEncoded)
			buf.WriteByte(':')

			if err := writeCanonical(buf, val[k]); err != nil {
				return err
			}
		}

		buf.WriteByte('}')
	default:
		return errors.Errorf("canon: unsupported value type %T", v)
	}

	return nil
}

// formatNumber renders a float64 the way ECMA-262's Number::toString
// does, which is what RFC 8785 mandates. Integral values with no
// fractional part are printed without a decimal point. NaN and +/-Inf
// have no ECMA-262 Number::toString representation, so JCS refuses to
// canonicalize them rather than silently substituting a value the
// input never had.
func formatNumber(f float64) (string, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", errors.Errorf("canon: cannot canonicalize non-finite number %v", f)
	}

	if f == 0 {
		return "0", nil
	}

	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}

	// ECMA-262 writes the exponent without zero padding ("1e-7", not "1e-07").
	s := strconv.FormatFloat(f, 'e', -1, 64)
	if i := strings.IndexByte(s, 'e'); i > 0 && s[i+2] == '0' {
		s = s[:i+2] + s[i+3:]
	}

	return s, nil
}
