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

package schema

import (
	"strconv"
	"strings"

	"github.com/graphql-go/graphql"
	"zombiezen.com/go/gfgraphql/fieldvalue"
	"zombiezen.com/go/gfgraphql/gravityforms"
)

// fieldSource is the value resolved for a FormField. values is nil when the
// field is reached through a form rather than an entry.
type fieldSource struct {
	form   *gravityforms.Form
	field  *gravityforms.Field
	values gravityforms.Values
}

func newFieldSources(form *gravityforms.Form, values gravityforms.Values) []interface{} {
	list := make([]interface{}, 0, len(form.Fields))
	for _, f := range form.Fields {
		if f == nil {
			continue
		}
		list = append(list, &fieldSource{form: form, field: f, values: values})
	}
	return list
}

// prop returns a field definition property resolved by get.
func prop(typ, desc string, get func(f *gravityforms.Field) interface{}) FieldConfig {
	return FieldConfig{
		Type:        typ,
		Description: desc,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			src, ok := p.Source.(*fieldSource)
			if !ok {
				return nil, nil
			}
			return nullable(get(src.field)), nil
		},
	}
}

// value returns a field value resolved from the entry by an adapter. Fields
// reached through a form rather than an entry have no value.
func value(typ, desc string, get func(values gravityforms.Values, f *gravityforms.Field) interface{}) FieldConfig {
	return FieldConfig{
		Type:        typ,
		Description: desc,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			src, ok := p.Source.(*fieldSource)
			if !ok || src.values == nil {
				return nil, nil
			}
			return nullable(get(src.values, src.field)), nil
		},
	}
}

func stringProp(desc string, get func(f *gravityforms.Field) string) FieldConfig {
	return prop("String", desc, func(f *gravityforms.Field) interface{} {
		return optString(get(f))
	})
}

func boolProp(desc string, get func(f *gravityforms.Field) gravityforms.Flag) FieldConfig {
	return prop("Boolean", desc, func(f *gravityforms.Field) interface{} {
		return bool(get(f))
	})
}

// enumProp resolves an enum-typed property. Stored values outside the enum
// resolve to null.
func enumProp(enum, desc string, get func(f *gravityforms.Field) string) FieldConfig {
	return prop(enum, desc, func(f *gravityforms.Field) interface{} {
		return get(f)
	})
}

func scalarValue(desc string) FieldConfig {
	return value("String", desc, func(values gravityforms.Values, f *gravityforms.Field) interface{} {
		return fieldvalue.String(values, f.ID)
	})
}

func optString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func optInt(n int) interface{} {
	if n == 0 {
		return nil
	}
	return n
}

func optFloat(n gravityforms.NullFloat) interface{} {
	if !n.Valid {
		return nil
	}
	return n.Float
}

// choiceView is the resolved form of a gravityforms.Choice.
type choiceView struct {
	Text          string
	Value         string
	IsSelected    bool
	Price         *string
	IsOtherChoice bool
	IsCorrect     bool
	Weight        *float64
}

func choiceViews(list gravityforms.ChoiceList) []choiceView {
	if len(list) == 0 {
		return nil
	}
	views := make([]choiceView, 0, len(list))
	for _, c := range list {
		v := choiceView{
			Text:          c.Text,
			Value:         string(c.Value),
			IsSelected:    bool(c.IsSelected),
			IsOtherChoice: bool(c.IsOtherChoice),
			IsCorrect:     bool(c.IsCorrect),
		}
		if c.Price != "" {
			price := c.Price
			v.Price = &price
		}
		if c.Weight.Valid {
			w := c.Weight.Float
			v.Weight = &w
		}
		views = append(views, v)
	}
	return views
}

// inputView is the resolved form of a gravityforms.Input.
type inputView struct {
	ID                    float64
	Label                 string
	Name                  *string
	IsHidden              bool
	CustomLabel           *string
	Placeholder           *string
	DefaultValue          *string
	AutocompleteAttribute *string
	Choices               []choiceView
}

func inputViews(list gravityforms.InputList) []inputView {
	if len(list) == 0 {
		return nil
	}
	views := make([]inputView, 0, len(list))
	for _, in := range list {
		views = append(views, inputView{
			ID:                    in.ID.Float(),
			Label:                 in.Label,
			Name:                  strPtr(in.Name),
			IsHidden:              bool(in.IsHidden),
			CustomLabel:           strPtr(in.CustomLabel),
			Placeholder:           strPtr(in.Placeholder),
			DefaultValue:          strPtr(string(in.DefaultValue)),
			AutocompleteAttribute: strPtr(in.AutocompleteAttribute),
			Choices:               choiceViews(in.Choices),
		})
	}
	return views
}

type conditionalLogicView struct {
	ActionType string
	LogicType  string
	Rules      []ruleView
}

type ruleView struct {
	FieldID  float64
	Operator string
	Value    string
}

func conditionalLogicOf(cl gravityforms.ConditionalLogic) *conditionalLogicView {
	if !cl.Valid {
		return nil
	}
	v := &conditionalLogicView{ActionType: cl.ActionType, LogicType: cl.LogicType}
	for _, r := range cl.Rules {
		v.Rules = append(v.Rules, ruleView{
			FieldID:  r.FieldIDFloat(),
			Operator: r.Operator,
			Value:    string(r.Value),
		})
	}
	return v
}

// chainedSelectView is the selection of one chained select input.
type chainedSelectView struct {
	InputID float64
	Value   *string
}

func chainedSelectViews(values gravityforms.Values, f *gravityforms.Field) []chainedSelectView {
	selected := fieldvalue.ChainedSelect(values, f)
	if selected == nil {
		return nil
	}
	views := make([]chainedSelectView, len(selected))
	for i, v := range selected {
		views[i] = chainedSelectView{InputID: f.Inputs[i].ID.Float(), Value: v}
	}
	return views
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// splitList splits a comma-separated setting like allowedExtensions.
func splitList(s string) []string {
	var list []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}

// flexInt resolves a loosely stored integer like penSize or boxWidth.
func flexInt(s gravityforms.FlexString) interface{} {
	n, err := strconv.Atoi(strings.TrimSpace(string(s)))
	if err != nil {
		return nil
	}
	return n
}
