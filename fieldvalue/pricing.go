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
	"strconv"
	"strings"

	"zombiezen.com/go/gfgraphql/gravityforms"
)

// ProductValue is a product field's value.
type ProductValue struct {
	Name     *string
	Price    *float64
	Quantity *float64
}

// Product reads a product field. Most products store name, price, and
// quantity in sub-inputs 1 to 3. Select and radio
// products store "name|price" under the field id.
func Product(values gravityforms.Values, field *gravityforms.Field) *ProductValue {
	switch field.InputTypeOrType() {
	case "select", "radio":
		p := new(ProductValue)
		raw := String(values, field.ID)
		if raw == nil {
			return p
		}
		opt := parseOption(*raw)
		p.Name = stringPtr(opt.Name)
		p.Price = opt.Price
		return p
	default:
		p := &ProductValue{
			Name:     String(values, field.InputBySuffix("1").ID),
			Quantity: Float(values, field.InputBySuffix("3").ID),
		}
		if raw := String(values, field.InputBySuffix("2").ID); raw != nil {
			p.Price = ParsePrice(*raw)
		}
		return p
	}
}

// OptionValue is a priced choice of an option or shipping field.
type OptionValue struct {
	Name  string
	Price *float64
}

// Option returns the selected choices of an option field. Each is stored as
// "name|price".
func Option(values gravityforms.Values, field *gravityforms.Field) []OptionValue {
	var raw []string
	if field.InputTypeOrType() == "checkbox" {
		raw = CheckedValues(values, field)
	} else if v := String(values, field.ID); v != nil {
		raw = []string{*v}
	}
	if len(raw) == 0 {
		return nil
	}
	list := make([]OptionValue, 0, len(raw))
	for _, s := range raw {
		list = append(list, parseOption(s))
	}
	return list
}

// Shipping returns the selected shipping method.
func Shipping(values gravityforms.Values, field *gravityforms.Field) *OptionValue {
	raw := String(values, field.ID)
	if raw == nil {
		return nil
	}
	opt := parseOption(*raw)
	if field.InputTypeOrType() == "singleshipping" {
		opt.Name = field.Label
		opt.Price = ParsePrice(*raw)
	}
	return &opt
}

// Total returns a total field's amount.
func Total(values gravityforms.Values, field *gravityforms.Field) *float64 {
	raw := String(values, field.ID)
	if raw == nil {
		return nil
	}
	return ParsePrice(*raw)
}

func parseOption(s string) OptionValue {
	i := strings.LastIndexByte(s, '|')
	if i < 0 {
		return OptionValue{Name: s}
	}
	return OptionValue{Name: s[:i], Price: ParsePrice(s[i+1:])}
}

// ParsePrice parses a price like "$1,200.50" or "12.5". Currency symbols and
// thousands separators are ignored. It returns nil if no number is present.
func ParsePrice(s string) *float64 {
	var sb strings.Builder
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c == '.':
			sb.WriteRune(c)
		case c == '-' && sb.Len() == 0:
			sb.WriteRune(c)
		}
	}
	f, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		return nil
	}
	return &f
}
