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

package fieldvalue

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"zombiezen.com/go/gfgraphql/gravityforms"
)

// Key returns the entry key for a field or input identifier. Integers,
// integral floats, strings, and input ids are accepted.
func Key(id interface{}) string {
	switch id := id.(type) {
	case string:
		return id
	case gravityforms.InputID:
		return string(id)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	case nil:
		return ""
	default:
		return stringify(id)
	}
}

// Lookup returns the value stored under id and whether it is present.
// Empty values are reported as absent.
func Lookup(values gravityforms.Values, id interface{}) (interface{}, bool) {
	if values == nil {
		return nil, false
	}
	v, ok := values[Key(id)]
	if !ok || isEmpty(v) {
		return nil, false
	}
	return v, true
}

func isEmpty(v interface{}) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []interface{}:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]interface{}:
		return len(v) == 0
	default:
		return false
	}
}

// String returns the value stored under id as a string.
func String(values gravityforms.Values, id interface{}) *string {
	v, ok := Lookup(values, id)
	if !ok {
		return nil
	}
	s := stringify(v)
	return &s
}

// Float returns the value stored under id as a number. Values that are not
// numeric yield nil.
func Float(values gravityforms.Values, id interface{}) *float64 {
	v, ok := Lookup(values, id)
	if !ok {
		return nil
	}
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	return &f
}

// Int returns the value stored under id as an integer. Fractional values are
// truncated.
func Int(values gravityforms.Values, id interface{}) *int {
	f := Float(values, id)
	if f == nil || math.IsInf(*f, 0) {
		return nil
	}
	i := int(*f)
	return &i
}

// Bool returns the value stored under id as a boolean.
func Bool(values gravityforms.Values, id interface{}) *bool {
	v, ok := Lookup(values, id)
	if !ok {
		return nil
	}
	var b bool
	switch v := v.(type) {
	case bool:
		b = v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "0", "false", "no", "off":
			b = false
		default:
			b = true
		}
	default:
		f, ok := toFloat(v)
		b = !ok || f != 0
	}
	return &b
}

// Strings returns the list stored under id. A string holding a JSON array is
// decoded; an already-decoded array is used as is. A string that is not a
// JSON array is treated as a single-element list.
func Strings(values gravityforms.Values, id interface{}) []string {
	v, ok := Lookup(values, id)
	if !ok {
		return nil
	}
	return toStrings(v)
}

func toStrings(v interface{}) []string {
	switch v := v.(type) {
	case []string:
		list := make([]string, len(v))
		copy(list, v)
		return list
	case []interface{}:
		list := make([]string, 0, len(v))
		for _, elem := range v {
			if elem == nil {
				continue
			}
			list = append(list, stringify(elem))
		}
		if len(list) == 0 {
			return nil
		}
		return list
	case string:
		decoded, ok := decodeJSONArray(v)
		if !ok {
			return []string{v}
		}
		return toStrings(decoded)
	default:
		return []string{stringify(v)}
	}
}

// decodeJSONArray decodes s if it holds a JSON array. A JSON string whose
// content is a JSON array is decoded twice, since some writers encode the
// array before storing it as JSON.
func decodeJSONArray(s string) ([]interface{}, bool) {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			return nil, false
		}
		trimmed = strings.TrimSpace(inner)
	}
	if !strings.HasPrefix(trimmed, "[") {
		return nil, false
	}
	var list []interface{}
	if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
		return nil, false
	}
	return list, true
}

// decodeJSON decodes v if it is a string holding JSON. Other values are
// returned unchanged.
func decodeJSON(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}
	var decoded interface{}
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return nil
	}
	return decoded
}

func stringify(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case bool:
		if v {
			return "1"
		}
		return ""
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case gravityforms.InputID:
		return string(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func stringPtr(s string) *string {
	return &s
}
