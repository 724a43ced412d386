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

package submission

import (
	"strconv"
	"strings"

	"zombiezen.com/go/gfgraphql/fieldvalue"
	"zombiezen.com/go/gfgraphql/gravityforms"
)

// IsHidden reports whether a field's conditional logic hides it given the
// submitted values. Fields hidden this way are not validated.
func IsHidden(form *gravityforms.Form, field *gravityforms.Field, values gravityforms.Values) bool {
	return isHidden(form, field, values, 0)
}

// maxLogicDepth bounds the chain of fields whose visibility depends on other
// fields' visibility.
const maxLogicDepth = 10

func isHidden(form *gravityforms.Form, field *gravityforms.Field, values gravityforms.Values, depth int) bool {
	cl := field.ConditionalLogic
	if !cl.Valid || len(cl.Rules) == 0 || depth > maxLogicDepth {
		return false
	}
	matchAll := cl.LogicType != "any"
	matched := matchAll
	for _, rule := range cl.Rules {
		m := ruleMatches(form, rule, values, depth)
		if matchAll && !m {
			matched = false
			break
		}
		if !matchAll && m {
			matched = true
			break
		}
	}
	if cl.ActionType == "hide" {
		return matched
	}
	return !matched
}

func ruleMatches(form *gravityforms.Form, rule gravityforms.ConditionalLogicRule, values gravityforms.Values, depth int) bool {
	key := string(rule.FieldID)
	fieldID, _ := strconv.Atoi(strings.SplitN(key, ".", 2)[0])
	target := form.Field(fieldID)
	if target != nil && isHidden(form, target, values, depth+1) {
		// A hidden field has no value.
		return compare("", rule.Operator, string(rule.Value))
	}
	var candidates []string
	if target != nil && !strings.Contains(key, ".") && len(target.Inputs) > 0 && target.InputTypeOrType() == "checkbox" {
		candidates = fieldvalue.CheckedValues(values, target)
	} else if target != nil && target.InputTypeOrType() == "multiselect" {
		candidates = fieldvalue.Strings(values, key)
	} else if v := fieldvalue.String(values, key); v != nil {
		candidates = []string{*v}
	}
	if len(candidates) == 0 {
		return compare("", rule.Operator, string(rule.Value))
	}
	if rule.Operator == "isnot" {
		for _, c := range candidates {
			if !compare(c, "isnot", string(rule.Value)) {
				return false
			}
		}
		return true
	}
	for _, c := range candidates {
		if compare(c, rule.Operator, string(rule.Value)) {
			return true
		}
	}
	return false
}

func compare(value, op, target string) bool {
	// Price values are stored as "name|price"; rules compare the name.
	if i := strings.LastIndexByte(value, '|'); i >= 0 {
		value = value[:i]
	}
	switch op {
	case "is":
		return strings.EqualFold(value, target)
	case "isnot":
		return !strings.EqualFold(value, target)
	case ">", "<":
		a, errA := strconv.ParseFloat(value, 64)
		b, errB := strconv.ParseFloat(target, 64)
		if errA != nil || errB != nil {
			return false
		}
		if op == ">" {
			return a > b
		}
		return a < b
	case "contains":
		return strings.Contains(strings.ToLower(value), strings.ToLower(target))
	case "starts_with":
		return strings.HasPrefix(strings.ToLower(value), strings.ToLower(target))
	case "ends_with":
		return strings.HasSuffix(strings.ToLower(value), strings.ToLower(target))
	default:
		return false
	}
}
