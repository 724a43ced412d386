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
	"go.uber.org/zap"
	"zombiezen.com/go/gfgraphql/gravityforms"
	"zombiezen.com/go/gfgraphql/internal/submission"
)

// payload is the result of every mutation.
type payload struct {
	ClientMutationID *string
	Entry            interface{}
	DraftEntry       *gravityforms.DraftEntry
	ResumeToken      *string
	DeletedID        *string
	Errors           []submission.FieldError
}

func (c *catalog) registerInputs() {
	c.input("CheckboxFieldInput", InputObjectConfig{
		Description: "The value of one checkbox input.",
		Fields: map[string]ArgConfig{
			"inputId": {Type: "Float!", Description: "The input id, such as 2.1."},
			"value":   {Type: "String", Description: "The checked value. Omit or pass null to uncheck the input."},
		},
	})
	c.input("NameFieldInput", InputObjectConfig{
		Description: "The parts of a name field value.",
		Fields: map[string]ArgConfig{
			"prefix": {Type: "String", Description: "Prefix, such as Mr., Mrs. etc."},
			"first":  {Type: "String", Description: "First name."},
			"middle": {Type: "String", Description: "Middle name."},
			"last":   {Type: "String", Description: "Last name."},
			"suffix": {Type: "String", Description: "Suffix, such as Sr., Jr. etc."},
		},
	})
	c.input("AddressFieldInput", InputObjectConfig{
		Description: "The parts of an address field value.",
		Fields: map[string]ArgConfig{
			"street":  {Type: "String", Description: "Street address."},
			"lineTwo": {Type: "String", Description: "Address line two."},
			"city":    {Type: "String", Description: "City."},
			"state":   {Type: "String", Description: "State or province."},
			"zip":     {Type: "String", Description: "ZIP or postal code."},
			"country": {Type: "String", Description: "Country."},
		},
	})
	c.input("EmailFieldInput", InputObjectConfig{
		Description: "An email address and its confirmation.",
		Fields: map[string]ArgConfig{
			"value":             {Type: "String", Description: "The email address."},
			"confirmationValue": {Type: "String", Description: "The confirmation, required when the field has confirmation enabled."},
		},
	})
	c.input("ListFieldInput", InputObjectConfig{
		Description: "A row of a list field.",
		Fields: map[string]ArgConfig{
			"rowValues": {Type: "[String]", Description: "The values of the row, one per column."},
		},
	})
	c.input("ProductFieldInput", InputObjectConfig{
		Description: "The value of a product field.",
		Fields: map[string]ArgConfig{
			"name":     {Type: "String", Description: "The product name. Defaults to the field label."},
			"price":    {Type: "Float", Description: "The product price. Defaults to the configured price."},
			"quantity": {Type: "Float", Description: "The quantity ordered."},
		},
	})
	c.input("ChainedSelectFieldInput", InputObjectConfig{
		Description: "The selection of one chained select input.",
		Fields: map[string]ArgConfig{
			"inputId": {Type: "Float!", Description: "The input id."},
			"value":   {Type: "String", Description: "The selected value."},
		},
	})
	c.input("LikertFieldInput", InputObjectConfig{
		Description: "The column chosen for a likert row.",
		Fields: map[string]ArgConfig{
			"rowValue":    {Type: "String", Description: "The row value. Omit for a single-row likert field."},
			"columnValue": {Type: "String!", Description: "The chosen column value."},
		},
	})
	c.input("PostImageFieldInput", InputObjectConfig{
		Description: "A post image URL and its metadata.",
		Fields: map[string]ArgConfig{
			"url":         {Type: "String!", Description: "The URL of the image."},
			"title":       {Type: "String", Description: "The image title."},
			"caption":     {Type: "String", Description: "The image caption."},
			"description": {Type: "String", Description: "The image description."},
			"altText":     {Type: "String", Description: "The image alternative text."},
		},
	})
	c.input("FormFieldValuesInput", InputObjectConfig{
		Description: "The value of one field. Set the member that matches the field type.",
		Fields: map[string]ArgConfig{
			"id":                  {Type: "Int!", Description: "The field id."},
			"value":               {Type: "String", Description: "The value of a single-value field."},
			"values":              {Type: "[String]", Description: "The values of a multi-select, post tags, or rank field."},
			"checkboxValues":      {Type: "[CheckboxFieldInput]", Description: "The values of a checkbox field."},
			"nameValues":          {Type: "NameFieldInput", Description: "The value of a name field."},
			"addressValues":       {Type: "AddressFieldInput", Description: "The value of an address field."},
			"emailValues":         {Type: "EmailFieldInput", Description: "The value of an email field."},
			"listValues":          {Type: "[ListFieldInput]", Description: "The rows of a list field."},
			"consentValue":        {Type: "Boolean", Description: "Whether consent is given."},
			"productValues":       {Type: "ProductFieldInput", Description: "The value of a product field."},
			"chainedSelectValues": {Type: "[ChainedSelectFieldInput]", Description: "The selections of a chained select field."},
			"likertValues":        {Type: "[LikertFieldInput]", Description: "The choices of a likert field."},
			"postImageValues":     {Type: "PostImageFieldInput", Description: "The value of a post image field."},
		},
	})
	c.input("EntryMetaInput", InputObjectConfig{
		Description: "Optional metadata of an entry.",
		Fields: map[string]ArgConfig{
			"createdById":    {Type: "Int", Description: "The id of the user who submitted the entry."},
			"dateCreatedGmt": {Type: "String", Description: "The creation date in GMT, formatted as 2006-01-02 15:04:05."},
			"ip":             {Type: "String", Description: "The IP address of the submitter."},
			"sourceUrl":      {Type: "String", Description: "The URL the entry was submitted from."},
			"userAgent":      {Type: "String", Description: "The user agent of the submitting browser."},
		},
	})
}

// mutation is a relay-style mutation: a field taking a single input object
// argument and returning a payload object.
type mutation struct {
	name        string
	description string
	input       map[string]ArgConfig
	payload     map[string]FieldConfig
	resolve     func(p graphql.ResolveParams, input map[string]interface{}) (*payload, error)
}

func (c *catalog) registerMutation(mutations []mutation) {
	fields := make(map[string]FieldConfig, len(mutations))
	for _, m := range mutations {
		m := m
		base := strings.ToUpper(m.name[:1]) + m.name[1:]
		input := copyArgs(m.input)
		input["clientMutationId"] = ArgConfig{Type: "String", Description: "An opaque string returned unchanged in the payload."}
		c.input(base+"Input", InputObjectConfig{
			Description: "Input for the " + m.name + " mutation.",
			Fields:      input,
		})
		out := copyFields(m.payload)
		out["clientMutationId"] = FieldConfig{Type: "String", Description: "The clientMutationId of the input."}
		out["errors"] = FieldConfig{Type: "[FieldError]", Description: "Validation errors. When present, nothing was stored."}
		c.object(base+"Payload", ObjectConfig{
			Description: "The payload of the " + m.name + " mutation.",
			Fields:      out,
		})
		fields[m.name] = FieldConfig{
			Type:        base + "Payload",
			Description: m.description,
			Args: map[string]ArgConfig{
				"input": {Type: base + "Input!"},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				in, _ := p.Args["input"].(map[string]interface{})
				out, err := m.resolve(p, in)
				if err != nil {
					c.res.log.Debug("Mutation failed", zap.String("mutation", m.name), zap.Error(err))
					return nil, err
				}
				if id, ok := in["clientMutationId"].(string); ok {
					out.ClientMutationID = &id
				}
				return out, nil
			},
		}
	}
	c.object(MutationType, ObjectConfig{
		Description: "The root mutation.",
		Fields:      fields,
	})
}

func copyArgs(args map[string]ArgConfig) map[string]ArgConfig {
	m := make(map[string]ArgConfig, len(args)+1)
	for k, v := range args {
		m[k] = v
	}
	return m
}

func mutationInputs(in map[string]interface{}) ([]submission.FieldValueInput, submission.EntryMeta, error) {
	values, err := submission.DecodeFieldValues(in["fieldValues"])
	if err != nil {
		return nil, submission.EntryMeta{}, err
	}
	meta, err := submission.DecodeEntryMeta(in["entryMeta"])
	if err != nil {
		return nil, submission.EntryMeta{}, err
	}
	return values, meta, nil
}

func resultPayload(res *submission.Result) *payload {
	out := &payload{Errors: res.Errors}
	if res.Entry != nil {
		out.Entry = res.Entry
	}
	if res.Draft != nil {
		out.DraftEntry = res.Draft
		out.ResumeToken = &res.Draft.ResumeToken
		if out.Entry == nil {
			out.Entry = res.Draft
		}
	}
	return out
}

func (c *catalog) mutations() []mutation {
	svc := c.res.svc
	fieldValuesArg := ArgConfig{Type: "[FormFieldValuesInput]!", Description: "The field values."}
	entryMetaArg := ArgConfig{Type: "EntryMetaInput", Description: "Optional entry metadata."}
	draftIDArgs := func(more map[string]ArgConfig) map[string]ArgConfig {
		args := map[string]ArgConfig{
			"id":     {Type: "ID!", Description: "The id of the draft entry."},
			"idType": {Type: "DraftEntryIdTypeEnum", Description: "The type of id. Defaults to RESUME_TOKEN.", DefaultValue: idTypeResumeToken},
		}
		for k, v := range more {
			args[k] = v
		}
		return args
	}
	return []mutation{
		{
			name:        "submitGfForm",
			description: "Submit a form, creating an entry or a draft entry.",
			input: map[string]ArgConfig{
				"id":          {Type: "ID!", Description: "The global or database id of the form."},
				"saveAsDraft": {Type: "Boolean", Description: "Save the values as a draft entry instead of submitting them.", DefaultValue: false},
				"fieldValues": fieldValuesArg,
				"entryMeta":   entryMetaArg,
			},
			payload: map[string]FieldConfig{
				"entry":       {Type: "GfEntry", Description: "The new entry or draft entry."},
				"resumeToken": {Type: "String", Description: "The resume token of a new draft entry."},
			},
			resolve: func(p graphql.ResolveParams, in map[string]interface{}) (*payload, error) {
				formID, err := databaseID(in["id"], formIDPrefix)
				if err != nil {
					return nil, err
				}
				values, meta, err := mutationInputs(in)
				if err != nil {
					return nil, err
				}
				var res *submission.Result
				if draft, _ := in["saveAsDraft"].(bool); draft {
					res, err = svc.SaveDraft(p.Context, formID, values, meta)
				} else {
					res, err = svc.Submit(p.Context, formID, values, meta)
				}
				if err != nil {
					return nil, err
				}
				return resultPayload(res), nil
			},
		},
		{
			name:        "updateGfEntry",
			description: "Update the values of a submitted entry.",
			input: map[string]ArgConfig{
				"id":          {Type: "ID!", Description: "The global or database id of the entry."},
				"fieldValues": fieldValuesArg,
				"entryMeta":   entryMetaArg,
			},
			payload: map[string]FieldConfig{
				"entry": {Type: "GfSubmittedEntry", Description: "The updated entry."},
			},
			resolve: func(p graphql.ResolveParams, in map[string]interface{}) (*payload, error) {
				id, err := databaseID(in["id"], entryIDPrefix)
				if err != nil {
					return nil, err
				}
				values, meta, err := mutationInputs(in)
				if err != nil {
					return nil, err
				}
				res, err := svc.UpdateEntry(p.Context, id, values, meta)
				if err != nil {
					return nil, err
				}
				return resultPayload(res), nil
			},
		},
		{
			name:        "updateGfDraftEntry",
			description: "Update the values of a draft entry.",
			input: draftIDArgs(map[string]ArgConfig{
				"fieldValues": fieldValuesArg,
				"entryMeta":   entryMetaArg,
			}),
			payload: map[string]FieldConfig{
				"draftEntry":  {Type: "GfDraftEntry", Description: "The updated draft entry."},
				"resumeToken": {Type: "String", Description: "The resume token of the draft entry."},
			},
			resolve: func(p graphql.ResolveParams, in map[string]interface{}) (*payload, error) {
				token, err := resumeToken(in["id"], in["idType"])
				if err != nil {
					return nil, err
				}
				values, meta, err := mutationInputs(in)
				if err != nil {
					return nil, err
				}
				res, err := svc.UpdateDraft(p.Context, token, values, meta)
				if err != nil {
					return nil, err
				}
				return resultPayload(res), nil
			},
		},
		{
			name:        "submitGfDraftEntry",
			description: "Validate a draft entry and submit it as an entry. The draft is deleted.",
			input:       draftIDArgs(nil),
			payload: map[string]FieldConfig{
				"entry": {Type: "GfSubmittedEntry", Description: "The submitted entry."},
			},
			resolve: func(p graphql.ResolveParams, in map[string]interface{}) (*payload, error) {
				token, err := resumeToken(in["id"], in["idType"])
				if err != nil {
					return nil, err
				}
				res, err := svc.SubmitDraft(p.Context, token)
				if err != nil {
					return nil, err
				}
				return resultPayload(res), nil
			},
		},
		{
			name:        "deleteGfEntry",
			description: "Trash an entry, or delete it permanently.",
			input: map[string]ArgConfig{
				"id":          {Type: "ID!", Description: "The global or database id of the entry."},
				"forceDelete": {Type: "Boolean", Description: "Delete the entry permanently instead of moving it to the trash.", DefaultValue: false},
			},
			payload: map[string]FieldConfig{
				"deletedId": {Type: "ID", Description: "The global id of the deleted entry."},
				"entry":     {Type: "GfSubmittedEntry", Description: "The entry as it was before deletion."},
			},
			resolve: func(p graphql.ResolveParams, in map[string]interface{}) (*payload, error) {
				id, err := databaseID(in["id"], entryIDPrefix)
				if err != nil {
					return nil, err
				}
				force, _ := in["forceDelete"].(bool)
				entry, err := svc.DeleteEntry(p.Context, id, force)
				if err != nil {
					return nil, err
				}
				deleted := toGlobalID(entryIDPrefix, strconv.Itoa(id))
				return &payload{Entry: entry, DeletedID: &deleted}, nil
			},
		},
		{
			name:        "deleteGfDraftEntry",
			description: "Delete a draft entry.",
			input:       draftIDArgs(nil),
			payload: map[string]FieldConfig{
				"deletedId":  {Type: "ID", Description: "The global id of the deleted draft entry."},
				"draftEntry": {Type: "GfDraftEntry", Description: "The draft entry as it was before deletion."},
			},
			resolve: func(p graphql.ResolveParams, in map[string]interface{}) (*payload, error) {
				token, err := resumeToken(in["id"], in["idType"])
				if err != nil {
					return nil, err
				}
				draft, err := svc.DeleteDraft(p.Context, token)
				if err != nil {
					return nil, err
				}
				deleted := toGlobalID(draftEntryIDPrefix, token)
				return &payload{DraftEntry: draft, DeletedID: &deleted}, nil
			},
		},
	}
}
