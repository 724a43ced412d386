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
	"regexp"
	"sort"
	"strconv"
	"strings"

	"zombiezen.com/go/gfgraphql/gravityforms"
)

// TimeValue holds the parts of a time field's value.
type TimeValue struct {
	DisplayValue *string
	Hours        *string
	Minutes      *string
	AmPm         *string
}

var timePattern = regexp.MustCompile(`(?i)^\s*(\d{1,2}):(\d{1,2})\s*([ap]m)?\s*$`)

// Time splits a time field's value, like "08:25 am" or "17:05", into parts.
// If the value cannot be parsed, only DisplayValue is set.
func Time(values gravityforms.Values, field *gravityforms.Field) *TimeValue {
	display := String(values, field.ID)
	tv := &TimeValue{DisplayValue: display}
	if display == nil {
		return tv
	}
	m := timePattern.FindStringSubmatch(*display)
	if m == nil {
		return tv
	}
	tv.Hours = stringPtr(m[1])
	tv.Minutes = stringPtr(m[2])
	if m[3] != "" {
		tv.AmPm = stringPtr(strings.ToUpper(m[3]))
	}
	return tv
}

// NameValue holds the parts of a name field's value.
type NameValue struct {
	Prefix *string
	First  *string
	Middle *string
	Last   *string
	Suffix *string
}

// Name reads a name field's sub-inputs.
func Name(values gravityforms.Values, field *gravityforms.Field) *NameValue {
	return &NameValue{
		Prefix: String(values, field.InputBySuffix("2").ID),
		First:  String(values, field.InputBySuffix("3").ID),
		Middle: String(values, field.InputBySuffix("4").ID),
		Last:   String(values, field.InputBySuffix("6").ID),
		Suffix: String(values, field.InputBySuffix("8").ID),
	}
}

// AddressValue holds the parts of an address field's value.
type AddressValue struct {
	Street  *string
	LineTwo *string
	City    *string
	State   *string
	Zip     *string
	Country *string
}

// Address reads an address field's sub-inputs.
func Address(values gravityforms.Values, field *gravityforms.Field) *AddressValue {
	return &AddressValue{
		Street:  String(values, field.InputBySuffix("1").ID),
		LineTwo: String(values, field.InputBySuffix("2").ID),
		City:    String(values, field.InputBySuffix("3").ID),
		State:   String(values, field.InputBySuffix("4").ID),
		Zip:     String(values, field.InputBySuffix("5").ID),
		Country: String(values, field.InputBySuffix("6").ID),
	}
}

// CheckboxInputValue is the value of one checkbox input.
type CheckboxInputValue struct {
	InputID float64
	Text    string
	Value   *string
}

// Checkbox returns one value per checkbox input. Unchecked inputs have a nil
// Value. An input's value does not depend on its siblings.
func Checkbox(values gravityforms.Values, field *gravityforms.Field) []CheckboxInputValue {
	if len(field.Inputs) == 0 {
		return nil
	}
	list := make([]CheckboxInputValue, 0, len(field.Inputs))
	for i, in := range field.Inputs {
		text := in.Label
		if i < len(field.Choices) {
			text = field.Choices[i].Text
		}
		list = append(list, CheckboxInputValue{
			InputID: in.ID.Float(),
			Text:    text,
			Value:   String(values, in.ID),
		})
	}
	return list
}

// CheckedValues returns the values of the checked inputs of a checkbox
// field, in input order.
func CheckedValues(values gravityforms.Values, field *gravityforms.Field) []string {
	var list []string
	for _, in := range field.Inputs {
		if v := String(values, in.ID); v != nil {
			list = append(list, *v)
		}
	}
	return list
}

// ListRow is one row of a list field.
type ListRow struct {
	Values []string
}

// List decodes a list field's rows. Multi-column rows are ordered by the
// field's column choices.
func List(values gravityforms.Values, field *gravityforms.Field) []ListRow {
	v, ok := Lookup(values, field.ID)
	if !ok {
		return nil
	}
	rows, ok := decodeJSON(v).([]interface{})
	if !ok {
		return nil
	}
	var list []ListRow
	for _, row := range rows {
		switch row := row.(type) {
		case map[string]interface{}:
			list = append(list, ListRow{Values: columnValues(field, row)})
		case []interface{}:
			list = append(list, ListRow{Values: toStrings(row)})
		case nil:
		default:
			list = append(list, ListRow{Values: []string{stringify(row)}})
		}
	}
	return list
}

func columnValues(field *gravityforms.Field, row map[string]interface{}) []string {
	if len(field.Choices) > 0 {
		vals := make([]string, 0, len(field.Choices))
		for _, col := range field.Choices {
			vals = append(vals, stringify(row[col.Text]))
		}
		return vals
	}
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]string, 0, len(keys))
	for _, k := range keys {
		vals = append(vals, stringify(row[k]))
	}
	return vals
}

// ImageValue is a post image field's value.
type ImageValue struct {
	URL         *string
	Title       *string
	Caption     *string
	Description *string
	AltText     *string
}

// postImageSeparator separates the parts of a stored post image value.
const postImageSeparator = "|:|"

// PostImage splits a post image value stored as
// "url|:|title|:|caption|:|description|:|alt".
func PostImage(values gravityforms.Values, field *gravityforms.Field) *ImageValue {
	img := new(ImageValue)
	raw := String(values, field.ID)
	if raw == nil {
		return img
	}
	parts := strings.Split(*raw, postImageSeparator)
	dst := []**string{&img.URL, &img.Title, &img.Caption, &img.Description, &img.AltText}
	for i, p := range parts {
		if i >= len(dst) {
			break
		}
		if p != "" {
			*dst[i] = stringPtr(p)
		}
	}
	return img
}

// CategoryValue is a post category selection.
type CategoryValue struct {
	Name string
	ID   *int `graphql:"databaseId"`
}

// PostCategory returns the categories selected in a post category field.
// Selections are stored as "name:id".
func PostCategory(values gravityforms.Values, field *gravityforms.Field) []CategoryValue {
	var raw []string
	if field.InputTypeOrType() == "checkbox" {
		raw = CheckedValues(values, field)
	} else {
		raw = Strings(values, field.ID)
	}
	if len(raw) == 0 {
		return nil
	}
	list := make([]CategoryValue, 0, len(raw))
	for _, s := range raw {
		cat := CategoryValue{Name: s}
		if i := strings.LastIndexByte(s, ':'); i >= 0 {
			if id, err := strconv.Atoi(s[i+1:]); err == nil {
				cat.Name = s[:i]
				cat.ID = &id
			}
		}
		list = append(list, cat)
	}
	return list
}

// CommaList splits a comma-separated value, as stored by post tags and rank
// fields.
func CommaList(values gravityforms.Values, id interface{}) []string {
	raw := String(values, id)
	if raw == nil {
		return nil
	}
	var list []string
	for _, part := range strings.Split(*raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}

// Consent reports whether a consent field was checked.
func Consent(values gravityforms.Values, field *gravityforms.Field) *bool {
	return Bool(values, field.InputBySuffix("1").ID)
}

// ChainedSelect returns the selection of each input of a chained select
// field. It returns nil when nothing is selected.
func ChainedSelect(values gravityforms.Values, field *gravityforms.Field) []*string {
	list := make([]*string, 0, len(field.Inputs))
	selected := false
	for _, in := range field.Inputs {
		v := String(values, in.ID)
		selected = selected || v != nil
		list = append(list, v)
	}
	if !selected {
		return nil
	}
	return list
}

// LikertValue is the column chosen for a row of a likert field. Row is nil for
// single-row likert fields.
type LikertValue struct {
	Row    *string
	Column *string
}

// Likert returns the selections of a likert field. Multi-row selections are
// stored per input as "rowValue:columnValue".
func Likert(values gravityforms.Values, field *gravityforms.Field) []LikertValue {
	if !field.LikertMultipleRows {
		col := String(values, field.ID)
		if col == nil {
			return nil
		}
		return []LikertValue{{Column: likertColumnText(field, *col)}}
	}
	var list []LikertValue
	for i, in := range field.Inputs {
		raw := String(values, in.ID)
		if raw == nil {
			continue
		}
		lv := LikertValue{}
		if i < len(field.LikertRows) {
			lv.Row = stringPtr(field.LikertRows[i].Text)
		}
		col := *raw
		if j := strings.LastIndexByte(col, ':'); j >= 0 {
			col = col[j+1:]
		}
		lv.Column = likertColumnText(field, col)
		list = append(list, lv)
	}
	return list
}

func likertColumnText(field *gravityforms.Field, value string) *string {
	if c := field.Choice(value); c != nil {
		return stringPtr(c.Text)
	}
	return stringPtr(value)
}

// PostCustomValue is a post custom field's value.
type PostCustomValue struct {
	Values []string
}

// PostCustomField reads a post custom field. An empty value yields a value
// with nil Values.
func PostCustomField(values gravityforms.Values, field *gravityforms.Field) *PostCustomValue {
	return &PostCustomValue{Values: Strings(values, field.ID)}
}

// Phone returns a phone field's value.
func Phone(values gravityforms.Values, field *gravityforms.Field) *string {
	return String(values, field.ID)
}

// FileURLs returns the URLs of a file upload field. Multi-file fields store a
// JSON array; single-file fields store the URL.
func FileURLs(values gravityforms.Values, field *gravityforms.Field) []string {
	return Strings(values, field.ID)
}
