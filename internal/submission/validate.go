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
	"fmt"
	"net/mail"
	"strconv"
	"unicode/utf8"

	"zombiezen.com/go/gfgraphql/fieldvalue"
	"zombiezen.com/go/gfgraphql/gravityforms"
)

// Validation messages.
const (
	msgRequired      = "This field is required."
	msgInvalidNumber = "Please enter a valid number."
	msgInvalidEmail  = "Please enter a valid email address."
	msgInvalidChoice = "Invalid selection. Please select one of the available choices."
	msgTooLong       = "The text entered exceeds the maximum number of characters."
	msgRangeBetween  = "Please enter a number between %s and %s."
	msgRangeAtLeast  = "Please enter a number greater than or equal to %s."
	msgRangeAtMost   = "Please enter a number less than or equal to %s."
)

// Validate checks stored-format values against the form's field rules.
// Fields hidden by conditional logic and display-only fields are skipped.
func Validate(form *gravityforms.Form, values gravityforms.Values) []FieldError {
	var errs []FieldError
	for _, field := range form.Fields {
		if field == nil || isDisplayOnly(field) || IsHidden(form, field, values) {
			continue
		}
		if isFieldEmpty(values, field) {
			if field.IsRequired {
				errs = append(errs, fieldError(field, "%s", requiredMessage(field)))
			}
			continue
		}
		if msg := validateValue(field, values); msg != "" {
			errs = append(errs, fieldError(field, "%s", msg))
		}
	}
	return errs
}

func requiredMessage(field *gravityforms.Field) string {
	if field.ErrorMessage != "" {
		return field.ErrorMessage
	}
	return msgRequired
}

func isDisplayOnly(field *gravityforms.Field) bool {
	switch field.Type {
	case "html", "section", "page", "captcha", "password":
		return true
	}
	return false
}

func isFieldEmpty(values gravityforms.Values, field *gravityforms.Field) bool {
	switch field.Type {
	case "consent":
		_, ok := fieldvalue.Lookup(values, field.InputBySuffix("1").ID)
		return !ok
	}
	// Fields like date and time have inputs but store one value under the
	// field id.
	if fieldvalue.Strings(values, field.ID) != nil {
		return false
	}
	for _, in := range field.Inputs {
		if _, ok := fieldvalue.Lookup(values, in.ID); ok {
			return false
		}
	}
	return true
}

func validateValue(field *gravityforms.Field, values gravityforms.Values) string {
	raw := fieldvalue.String(values, field.ID)
	switch field.InputTypeOrType() {
	case "number":
		if raw == nil {
			return ""
		}
		n, err := strconv.ParseFloat(*raw, 64)
		if err != nil {
			return msgInvalidNumber
		}
		return checkRange(field, n)
	case "email":
		if raw == nil {
			return ""
		}
		if _, err := mail.ParseAddress(*raw); err != nil {
			return msgInvalidEmail
		}
	case "select", "radio":
		if raw == nil || bool(field.EnableOtherChoice) || len(field.Choices) == 0 || isPricing(field) {
			return ""
		}
		if field.Choice(*raw) == nil {
			return msgInvalidChoice
		}
	}
	if field.MaxLength > 0 && raw != nil && utf8.RuneCountInString(*raw) > field.MaxLength {
		return msgTooLong
	}
	return ""
}

func isPricing(field *gravityforms.Field) bool {
	switch field.Type {
	case "product", "option", "shipping", "post_category":
		return true
	}
	return false
}

func checkRange(field *gravityforms.Field, n float64) string {
	lo, hi := field.RangeMin, field.RangeMax
	format := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	switch {
	case lo.Valid && hi.Valid && (n < lo.Float || n > hi.Float):
		return fmt.Sprintf(msgRangeBetween, format(lo.Float), format(hi.Float))
	case lo.Valid && !hi.Valid && n < lo.Float:
		return fmt.Sprintf(msgRangeAtLeast, format(lo.Float))
	case hi.Valid && !lo.Valid && n > hi.Float:
		return fmt.Sprintf(msgRangeAtMost, format(hi.Float))
	}
	return ""
}
