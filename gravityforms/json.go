// Copyright 2019 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package gravityforms

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// Flag is a boolean setting as Gravity Forms serializes it. The stored form
// may be a JSON boolean, a number, or a string such as "1" or "".
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = false
		return nil
	}
	switch data[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return xerrors.Errorf("unmarshal flag: %w", err)
		}
		*f = Flag(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return xerrors.Errorf("unmarshal flag: %w", err)
		}
		*f = Flag(parseFlagString(s))
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return xerrors.Errorf("unmarshal flag: %w", err)
		}
		*f = n != 0
	}
	return nil
}

func parseFlagString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}

// FlexInt is an integer that may be serialized as a JSON number or a numeric
// string. Empty strings and null decode as zero.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	s, err := scalarText(data)
	if err != nil {
		return xerrors.Errorf("unmarshal int: %w", err)
	}
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return xerrors.Errorf("unmarshal int: %w", err)
	}
	*n = FlexInt(f)
	return nil
}

// NullFloat is an optional number such as a range bound. Gravity Forms stores
// unset bounds as the empty string.
type NullFloat struct {
	Float float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	s, err := scalarText(data)
	if err != nil {
		return xerrors.Errorf("unmarshal float: %w", err)
	}
	if s == "" {
		*n = NullFloat{}
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Non-numeric bounds are treated as unset.
		*n = NullFloat{}
		return nil
	}
	*n = NullFloat{Float: f, Valid: true}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte(`""`), nil
	}
	return json.Marshal(n.Float)
}

// FlexString is a string setting that is sometimes serialized as a number.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	text, err := scalarText(data)
	if err != nil {
		return xerrors.Errorf("unmarshal string: %w", err)
	}
	*s = FlexString(text)
	return nil
}

// InputID identifies a sub-input of a field, like "1.3". Gravity Forms writes
// these as strings, but older forms contain bare numbers.
type InputID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *InputID) UnmarshalJSON(data []byte) error {
	text, err := scalarText(data)
	if err != nil {
		return xerrors.Errorf("unmarshal input id: %w", err)
	}
	*id = InputID(text)
	return nil
}

// Float returns the input id as a number, which is how it is exposed over
// GraphQL.
func (id InputID) Float() float64 {
	f, err := strconv.ParseFloat(string(id), 64)
	if err != nil {
		return 0
	}
	return f
}

// scalarText returns the textual form of a JSON string, number, or boolean.
// null decodes as the empty string.
func scalarText(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	case 't':
		return "1", nil
	case 'f':
		return "", nil
	case '[', '{':
		return "", xerrors.Errorf("unexpected %s", data[:1])
	default:
		return string(data), nil
	}
}

// isEmptyJSON reports whether data is null or the empty string. Gravity Forms
// writes "" for unset arrays and objects.
func isEmptyJSON(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`))
}
