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
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"zombiezen.com/go/gfgraphql/fieldvalue"
	"zombiezen.com/go/gfgraphql/gravityforms"
)

// FieldError is a problem with the value submitted for a field. ID is the
// field or input id.
type FieldError struct {
	ID      float64
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("field %s: %s", strconv.FormatFloat(e.ID, 'f', -1, 64), e.Message)
}

func fieldError(field *gravityforms.Field, format string, args ...interface{}) FieldError {
	return FieldError{ID: float64(field.ID), Message: fmt.Sprintf(format, args...)}
}

// Values translates mutation input into the entry storage format. The
// translated values are merged over a copy of existing, so only the submitted
// fields change. Problems are reported per field and never abort the
// translation of other fields.
func Values(form *gravityforms.Form, existing gravityforms.Values, inputs []FieldValueInput) (gravityforms.Values, []FieldError) {
	values := existing.Clone()
	if values == nil {
		values = make(gravityforms.Values)
	}
	var errs []FieldError
	for i := range inputs {
		in := &inputs[i]
		field := form.Field(in.ID)
		if field == nil {
			errs = append(errs, FieldError{
				ID:      float64(in.ID),
				Message: fmt.Sprintf("The field ID %d does not exist on form %d.", in.ID, form.ID),
			})
			continue
		}
		if err := writeField(values, field, in); err != nil {
			errs = append(errs, *err)
		}
	}
	return values, errs
}

func writeField(values gravityforms.Values, field *gravityforms.Field, in *FieldValueInput) *FieldError {
	switch field.Type {
	case "fileupload", "post_image":
		if field.Type == "post_image" && in.PostImageValues != nil {
			writePostImage(values, field, in.PostImageValues)
			return nil
		}
		e := fieldError(field, "Field %d does not accept uploads.", field.ID)
		return &e
	case "name":
		if in.NameValues == nil {
			return missingInput(field, "nameValues")
		}
		n := in.NameValues
		writeSubInputs(values, field, map[string]*string{"2": n.Prefix, "3": n.First, "4": n.Middle, "6": n.Last, "8": n.Suffix})
		return nil
	case "address":
		if in.AddressValues == nil {
			return missingInput(field, "addressValues")
		}
		a := in.AddressValues
		writeSubInputs(values, field, map[string]*string{"1": a.Street, "2": a.LineTwo, "3": a.City, "4": a.State, "5": a.Zip, "6": a.Country})
		return nil
	case "email":
		return writeEmail(values, field, in)
	case "list":
		return writeList(values, field, in)
	case "consent":
		return writeConsent(values, field, in)
	case "chainedselect":
		return writeChainedSelect(values, field, in)
	case "product":
		return writeProduct(values, field, in)
	}
	switch field.InputTypeOrType() {
	case "checkbox":
		return writeCheckbox(values, field, in)
	case "multiselect":
		list := in.Values
		if list == nil && in.Value != nil {
			list = []string{*in.Value}
		}
		if list == nil {
			return missingInput(field, "values")
		}
		data, _ := json.Marshal(list)
		values[field.Key()] = string(data)
		return nil
	case "likert":
		return writeLikert(values, field, in)
	}
	if field.Type == "post_tags" && in.Values != nil {
		values[field.Key()] = strings.Join(in.Values, ", ")
		return nil
	}
	switch {
	case in.Value != nil:
		values[field.Key()] = *in.Value
	case len(in.Values) > 0:
		values[field.Key()] = in.Values[0]
	default:
		values[field.Key()] = ""
	}
	return nil
}

func missingInput(field *gravityforms.Field, member string) *FieldError {
	e := fieldError(field, "Field %d requires %s.", field.ID, member)
	return &e
}

func writeSubInputs(values gravityforms.Values, field *gravityforms.Field, parts map[string]*string) {
	for suffix, v := range parts {
		key := string(field.InputBySuffix(suffix).ID)
		if v == nil {
			values[key] = ""
		} else {
			values[key] = *v
		}
	}
}

func writeCheckbox(values gravityforms.Values, field *gravityforms.Field, in *FieldValueInput) *FieldError {
	checked := make(map[string]string)
	switch {
	case in.CheckboxValues != nil:
		for _, c := range in.CheckboxValues {
			var input *gravityforms.Input
			for i := range field.Inputs {
				if field.Inputs[i].ID.Float() == c.InputID {
					input = &field.Inputs[i]
					break
				}
			}
			if input == nil {
				return &FieldError{ID: c.InputID, Message: fmt.Sprintf("Field %d has no input %s.", field.ID, strconv.FormatFloat(c.InputID, 'f', -1, 64))}
			}
			if c.Value != nil {
				checked[string(input.ID)] = *c.Value
			}
		}
	case in.Values != nil:
		// Values are matched to inputs by choice.
		for _, v := range in.Values {
			found := false
			for i, c := range field.Choices {
				if string(c.Value) == v && i < len(field.Inputs) {
					checked[string(field.Inputs[i].ID)] = v
					found = true
					break
				}
			}
			if !found {
				e := fieldError(field, "Invalid selection. Please select one of the available choices.")
				return &e
			}
		}
	default:
		return missingInput(field, "checkboxValues")
	}
	for _, input := range field.Inputs {
		values[string(input.ID)] = checked[string(input.ID)]
	}
	return nil
}

func writeEmail(values gravityforms.Values, field *gravityforms.Field, in *FieldValueInput) *FieldError {
	var value string
	switch {
	case in.EmailValues != nil:
		if in.EmailValues.Value != nil {
			value = *in.EmailValues.Value
		}
		if bool(field.EmailConfirmEnabled) && in.EmailValues.ConfirmationValue != nil && *in.EmailValues.ConfirmationValue != value {
			e := fieldError(field, "Your emails do not match.")
			return &e
		}
	case in.Value != nil:
		value = *in.Value
	default:
		return missingInput(field, "emailValues")
	}
	values[field.Key()] = value
	return nil
}

func writeList(values gravityforms.Values, field *gravityforms.Field, in *FieldValueInput) *FieldError {
	if in.ListValues == nil {
		if in.Values == nil {
			return missingInput(field, "listValues")
		}
		for _, v := range in.Values {
			in.ListValues = append(in.ListValues, ListRowInput{RowValues: []string{v}})
		}
	}
	if field.MaxRows > 0 && len(in.ListValues) > field.MaxRows {
		e := fieldError(field, "Field %d accepts at most %d rows.", field.ID, field.MaxRows)
		return &e
	}
	var rows []interface{}
	for _, row := range in.ListValues {
		if !field.EnableColumns {
			if len(row.RowValues) > 0 {
				rows = append(rows, row.RowValues[0])
			}
			continue
		}
		obj := make(map[string]string, len(field.Choices))
		for i, col := range field.Choices {
			if i < len(row.RowValues) {
				obj[col.Text] = row.RowValues[i]
			} else {
				obj[col.Text] = ""
			}
		}
		rows = append(rows, obj)
	}
	if len(rows) == 0 {
		values[field.Key()] = ""
		return nil
	}
	data, _ := json.Marshal(rows)
	values[field.Key()] = string(data)
	return nil
}

func writeConsent(values gravityforms.Values, field *gravityforms.Field, in *FieldValueInput) *FieldError {
	given := false
	switch {
	case in.ConsentValue != nil:
		given = *in.ConsentValue
	case in.Value != nil:
		given = *in.Value != "" && *in.Value != "0"
	default:
		return missingInput(field, "consentValue")
	}
	keys := [3]string{
		string(field.InputBySuffix("1").ID),
		string(field.InputBySuffix("2").ID),
		string(field.InputBySuffix("3").ID),
	}
	if !given {
		for _, k := range keys {
			values[k] = ""
		}
		return nil
	}
	values[keys[0]] = "1"
	values[keys[1]] = field.CheckboxLabel
	values[keys[2]] = "1"
	return nil
}

func writeChainedSelect(values gravityforms.Values, field *gravityforms.Field, in *FieldValueInput) *FieldError {
	if in.ChainedSelectValues == nil {
		return missingInput(field, "chainedSelectValues")
	}
	selected := make(map[string]string)
	for _, c := range in.ChainedSelectValues {
		key := fieldvalue.Key(c.InputID)
		if field.Input(key) == nil {
			return &FieldError{ID: c.InputID, Message: fmt.Sprintf("Field %d has no input %s.", field.ID, key)}
		}
		if c.Value != nil {
			selected[key] = *c.Value
		}
	}
	for _, input := range field.Inputs {
		values[string(input.ID)] = selected[string(input.ID)]
	}
	return nil
}

func writeProduct(values gravityforms.Values, field *gravityforms.Field, in *FieldValueInput) *FieldError {
	switch field.InputTypeOrType() {
	case "select", "radio":
		if in.Value == nil {
			return missingInput(field, "value")
		}
		values[field.Key()] = *in.Value
		return nil
	}
	p := in.ProductValues
	if p == nil {
		return missingInput(field, "productValues")
	}
	name := field.Label
	if p.Name != nil {
		name = *p.Name
	}
	price := ""
	switch {
	case p.Price != nil:
		price = strconv.FormatFloat(*p.Price, 'f', 2, 64)
	case field.BasePrice != "":
		price = field.BasePrice
	}
	quantity := ""
	if p.Quantity != nil {
		quantity = strconv.FormatFloat(*p.Quantity, 'f', -1, 64)
	}
	values[string(field.InputBySuffix("1").ID)] = name
	values[string(field.InputBySuffix("2").ID)] = price
	values[string(field.InputBySuffix("3").ID)] = quantity
	return nil
}

func writeLikert(values gravityforms.Values, field *gravityforms.Field, in *FieldValueInput) *FieldError {
	if !field.LikertMultipleRows {
		switch {
		case in.Value != nil:
			values[field.Key()] = *in.Value
		case len(in.LikertValues) > 0:
			values[field.Key()] = in.LikertValues[0].ColumnValue
		default:
			return missingInput(field, "likertValues")
		}
		return nil
	}
	if in.LikertValues == nil {
		return missingInput(field, "likertValues")
	}
	for _, input := range field.Inputs {
		values[string(input.ID)] = ""
	}
	for _, lv := range in.LikertValues {
		row := -1
		if lv.RowValue != nil {
			for i, r := range field.LikertRows {
				if string(r.Value) == *lv.RowValue {
					row = i
					break
				}
			}
		}
		if row < 0 || row >= len(field.Inputs) {
			e := fieldError(field, "Field %d has no likert row %q.", field.ID, stringOrEmpty(lv.RowValue))
			return &e
		}
		values[string(field.Inputs[row].ID)] = *lv.RowValue + ":" + lv.ColumnValue
	}
	return nil
}

func writePostImage(values gravityforms.Values, field *gravityforms.Field, img *PostImageInput) {
	parts := []string{
		img.URL,
		stringOrEmpty(img.Title),
		stringOrEmpty(img.Caption),
		stringOrEmpty(img.Description),
		stringOrEmpty(img.AltText),
	}
	values[field.Key()] = strings.Join(parts, "|:|")
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
