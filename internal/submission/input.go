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

// Package submission translates GraphQL mutation input into Gravity Forms'
// entry storage format, validates it, and stores entries and drafts.
package submission

import (
	"github.com/mitchellh/mapstructure"
	"golang.org/x/xerrors"
)

// FieldValueInput is one element of a mutation's fieldValues list. Exactly one
// of the value members is expected to be set, matching the field's type.
type FieldValueInput struct {
	ID                  int                  `mapstructure:"id"`
	Value               *string              `mapstructure:"value"`
	Values              []string             `mapstructure:"values"`
	CheckboxValues      []CheckboxInput      `mapstructure:"checkboxValues"`
	NameValues          *NameInput           `mapstructure:"nameValues"`
	AddressValues       *AddressInput        `mapstructure:"addressValues"`
	EmailValues         *EmailInput          `mapstructure:"emailValues"`
	ListValues          []ListRowInput       `mapstructure:"listValues"`
	ConsentValue        *bool                `mapstructure:"consentValue"`
	ProductValues       *ProductInput        `mapstructure:"productValues"`
	ChainedSelectValues []ChainedSelectInput `mapstructure:"chainedSelectValues"`
	LikertValues        []LikertInput        `mapstructure:"likertValues"`
	PostImageValues     *PostImageInput      `mapstructure:"postImageValues"`
}

// CheckboxInput is the value of one checkbox input.
type CheckboxInput struct {
	InputID float64 `mapstructure:"inputId"`
	Value   *string `mapstructure:"value"`
}

// NameInput is the value of a name field.
type NameInput struct {
	Prefix *string `mapstructure:"prefix"`
	First  *string `mapstructure:"first"`
	Middle *string `mapstructure:"middle"`
	Last   *string `mapstructure:"last"`
	Suffix *string `mapstructure:"suffix"`
}

// AddressInput is the value of an address field.
type AddressInput struct {
	Street  *string `mapstructure:"street"`
	LineTwo *string `mapstructure:"lineTwo"`
	City    *string `mapstructure:"city"`
	State   *string `mapstructure:"state"`
	Zip     *string `mapstructure:"zip"`
	Country *string `mapstructure:"country"`
}

// EmailInput is the value of an email field with optional confirmation.
type EmailInput struct {
	Value             *string `mapstructure:"value"`
	ConfirmationValue *string `mapstructure:"confirmationValue"`
}

// ListRowInput is one row of a list field.
type ListRowInput struct {
	RowValues []string `mapstructure:"rowValues"`
}

// ProductInput is the value of a product field.
type ProductInput struct {
	Name     *string  `mapstructure:"name"`
	Price    *float64 `mapstructure:"price"`
	Quantity *float64 `mapstructure:"quantity"`
}

// ChainedSelectInput is the selection of one chained select input.
type ChainedSelectInput struct {
	InputID float64 `mapstructure:"inputId"`
	Value   *string `mapstructure:"value"`
}

// LikertInput is the column chosen for a likert row. RowValue is omitted for
// single-row likert fields.
type LikertInput struct {
	RowValue    *string `mapstructure:"rowValue"`
	ColumnValue string  `mapstructure:"columnValue"`
}

// PostImageInput is the value of a post image field.
type PostImageInput struct {
	URL         string  `mapstructure:"url"`
	Title       *string `mapstructure:"title"`
	Caption     *string `mapstructure:"caption"`
	Description *string `mapstructure:"description"`
	AltText     *string `mapstructure:"altText"`
}

// EntryMeta is optional entry metadata supplied with a mutation.
type EntryMeta struct {
	CreatedByID *int    `mapstructure:"createdById"`
	DateCreated *string `mapstructure:"dateCreatedGmt"`
	IP          *string `mapstructure:"ip"`
	SourceURL   *string `mapstructure:"sourceUrl"`
	UserAgent   *string `mapstructure:"userAgent"`
}

// DecodeFieldValues decodes the fieldValues argument of a mutation as the
// GraphQL engine provides it: a list of maps.
func DecodeFieldValues(raw interface{}) ([]FieldValueInput, error) {
	var inputs []FieldValueInput
	if err := decode(raw, &inputs); err != nil {
		return nil, xerrors.Errorf("decode field values: %w", err)
	}
	return inputs, nil
}

// DecodeEntryMeta decodes the entryMeta argument of a mutation. A nil
// argument yields the zero EntryMeta.
func DecodeEntryMeta(raw interface{}) (EntryMeta, error) {
	var meta EntryMeta
	if raw == nil {
		return meta, nil
	}
	if err := decode(raw, &meta); err != nil {
		return EntryMeta{}, xerrors.Errorf("decode entry meta: %w", err)
	}
	return meta, nil
}

func decode(raw interface{}, result interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
