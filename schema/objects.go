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
	"github.com/graphql-go/graphql"
	"zombiezen.com/go/gfgraphql/gravityforms"
)

func (c *catalog) registerCoreInterfaces() {
	c.iface("Node", InterfaceConfig{
		Description: "An object with a globally unique id.",
		Fields: map[string]FieldConfig{
			"id": {Type: "ID!", Description: "The globally unique id of the object."},
		},
		ResolveType: nodeTypeName,
	})
	c.iface("FormField", InterfaceConfig{
		Description: "A Gravity Forms field.",
		Interfaces:  []string{"Node"},
		Fields: map[string]FieldConfig{
			"id": prop("ID!", "The globally unique id of the field.", func(f *gravityforms.Field) interface{} {
				return formFieldGlobalID(f.FormID, f.ID)
			}),
			"databaseId": prop("Int!", "The field id, unique within its form.", func(f *gravityforms.Field) interface{} {
				return f.ID
			}),
			"formId": prop("Int!", "The id of the form the field belongs to.", func(f *gravityforms.Field) interface{} {
				return f.FormID
			}),
			"type":      enumProp("FormFieldTypeEnum", "The type of field to be displayed.", func(f *gravityforms.Field) string { return f.Type }),
			"inputType": stringProp("The input type of fields that have one, like the quiz or product fields.", func(f *gravityforms.Field) string { return f.InputType }),
			"layoutGridColumnSpan": prop("Int", "The number of columns the field spans in the form layout.", func(f *gravityforms.Field) interface{} {
				return optInt(f.LayoutGridColumnSpan)
			}),
			"cssClass": stringProp("String containing the custom CSS classes to be added to the field.", func(f *gravityforms.Field) string { return f.CSSClass }),
			"pageNumber": prop("Int", "The number of the form page the field is on.", func(f *gravityforms.Field) interface{} {
				return optInt(f.PageNumber)
			}),
			"visibility": enumProp("FormFieldVisibilityEnum", "Field visibility.", func(f *gravityforms.Field) string { return f.Visibility }),
			"conditionalLogic": prop("ConditionalLogic", "Controls the visibility of the field based on values selected by the user.", func(f *gravityforms.Field) interface{} {
				return conditionalLogicOf(f.ConditionalLogic)
			}),
		},
		ResolveType: formFieldTypeName,
	})
}

func nodeTypeName(v interface{}) string {
	switch v := v.(type) {
	case *gravityforms.Form:
		return "GfForm"
	case *gravityforms.Entry:
		return "GfSubmittedEntry"
	case *gravityforms.DraftEntry:
		return "GfDraftEntry"
	case *fieldSource:
		return kindFor(v.field).TypeName
	default:
		return ""
	}
}

func (c *catalog) registerFieldObjects() {
	c.object("FormFieldChoice", ObjectConfig{
		Description: "A choice of a Gravity Forms field.",
		Fields: map[string]FieldConfig{
			"text":          {Type: "String", Description: "The text that is displayed."},
			"value":         {Type: "String", Description: "The value that is stored when the choice is selected."},
			"isSelected":    {Type: "Boolean", Description: "Determines if the choice is selected by default."},
			"price":         {Type: "String", Description: "The price associated with the choice, for pricing fields."},
			"isOtherChoice": {Type: "Boolean", Description: "Indicates the choice is the \"other\" choice."},
			"isCorrect":     {Type: "Boolean", Description: "Indicates the choice is a correct quiz answer."},
			"weight":        {Type: "Float", Description: "The weight of the choice in a weighted quiz score."},
		},
	})
	c.object("FormFieldInput", ObjectConfig{
		Description: "A sub-input of a composite Gravity Forms field.",
		Fields: map[string]FieldConfig{
			"id":                    {Type: "Float", Description: "The input id, such as 1.3."},
			"label":                 {Type: "String", Description: "The input label."},
			"name":                  {Type: "String", Description: "The parameter name used when dynamically populating the input."},
			"isHidden":              {Type: "Boolean", Description: "Whether the input is hidden."},
			"customLabel":           {Type: "String", Description: "A label that replaces the default one."},
			"placeholder":           {Type: "String", Description: "Placeholder text for the input."},
			"defaultValue":          {Type: "String", Description: "The default value of the input."},
			"autocompleteAttribute": {Type: "String", Description: "The autocomplete attribute of the input."},
			"choices":               {Type: "[FormFieldChoice]", Description: "The choices of a dropdown input."},
		},
	})
	c.object("ConditionalLogic", ObjectConfig{
		Description: "Conditional logic controlling the visibility of a field.",
		Fields: map[string]FieldConfig{
			"actionType": {Type: "ConditionalLogicActionTypeEnum", Description: "The type of action the conditional logic will perform."},
			"logicType":  {Type: "ConditionalLogicLogicTypeEnum", Description: "Whether all or any of the rules must match."},
			"rules":      {Type: "[ConditionalLogicRule]", Description: "The rules to evaluate."},
		},
	})
	c.object("ConditionalLogicRule", ObjectConfig{
		Description: "A rule of a conditional logic block.",
		Fields: map[string]FieldConfig{
			"fieldId":  {Type: "Float", Description: "The id of the field or input the rule compares."},
			"operator": {Type: "FieldOperatorEnum", Description: "The comparison operator."},
			"value":    {Type: "String", Description: "The value to compare with."},
		},
	})
}

func (c *catalog) registerValueObjects() {
	c.object("TimeValueProperty", ObjectConfig{
		Description: "The individual properties for each element of the Time value field.",
		Fields: map[string]FieldConfig{
			"displayValue": {Type: "String", Description: "The full display value. Example: \"08:25 am\"."},
			"hours":        {Type: "String", Description: "The hours, in this format: hh."},
			"minutes":      {Type: "String", Description: "The minutes, in this format: mm."},
			"amPm":         {Type: "String", Description: "AM or PM."},
		},
	})
	c.object("NameFieldValue", ObjectConfig{
		Description: "The parts of a name field value.",
		Fields: map[string]FieldConfig{
			"prefix": {Type: "String", Description: "Prefix, such as Mr., Mrs. etc."},
			"first":  {Type: "String", Description: "First name."},
			"middle": {Type: "String", Description: "Middle name."},
			"last":   {Type: "String", Description: "Last name."},
			"suffix": {Type: "String", Description: "Suffix, such as Sr., Jr. etc."},
		},
	})
	c.object("AddressFieldValue", ObjectConfig{
		Description: "The parts of an address field value.",
		Fields: map[string]FieldConfig{
			"street":  {Type: "String", Description: "Street address."},
			"lineTwo": {Type: "String", Description: "Address line two."},
			"city":    {Type: "String", Description: "City."},
			"state":   {Type: "String", Description: "State or province."},
			"zip":     {Type: "String", Description: "ZIP or postal code."},
			"country": {Type: "String", Description: "Country."},
		},
	})
	c.object("CheckboxFieldValue", ObjectConfig{
		Description: "The value of one checkbox input.",
		Fields: map[string]FieldConfig{
			"inputId": {Type: "Float", Description: "The input id."},
			"text":    {Type: "String", Description: "The choice text."},
			"value":   {Type: "String", Description: "The stored value, or null if the input is unchecked."},
		},
	})
	c.object("ListFieldValue", ObjectConfig{
		Description: "A row of a list field.",
		Fields: map[string]FieldConfig{
			"values": {Type: "[String]", Description: "The values of the row, one per column."},
		},
	})
	c.object("ImageFieldValue", ObjectConfig{
		Description: "A post image and its metadata.",
		Fields: map[string]FieldConfig{
			"url":         {Type: "String", Description: "The URL of the image."},
			"title":       {Type: "String", Description: "The image title."},
			"caption":     {Type: "String", Description: "The image caption."},
			"description": {Type: "String", Description: "The image description."},
			"altText":     {Type: "String", Description: "The image alternative text."},
		},
	})
	c.object("PostCategoryFieldValue", ObjectConfig{
		Description: "A selected post category.",
		Fields: map[string]FieldConfig{
			"name":       {Type: "String", Description: "The category name."},
			"databaseId": {Type: "Int", Description: "The category term id."},
		},
	})
	c.object("ProductFieldValue", ObjectConfig{
		Description: "The value of a product field.",
		Fields: map[string]FieldConfig{
			"name":     {Type: "String", Description: "The product name."},
			"price":    {Type: "Float", Description: "The product price."},
			"quantity": {Type: "Float", Description: "The quantity ordered."},
		},
	})
	c.object("OptionFieldValue", ObjectConfig{
		Description: "A selected product option or shipping method.",
		Fields: map[string]FieldConfig{
			"name":  {Type: "String", Description: "The option name."},
			"price": {Type: "Float", Description: "The option price."},
		},
	})
	c.object("PostCustomFieldValue", ObjectConfig{
		Description: "Post custom field value.",
		Fields: map[string]FieldConfig{
			"values": {Type: "[String]", Description: "The value."},
		},
	})
	c.object("ChainedSelectFieldValue", ObjectConfig{
		Description: "The selection of one chained select input.",
		Fields: map[string]FieldConfig{
			"inputId": {Type: "Float", Description: "The input id."},
			"value":   {Type: "String", Description: "The selected value."},
		},
	})
	c.object("LikertFieldValue", ObjectConfig{
		Description: "The column selected for a likert row.",
		Fields: map[string]FieldConfig{
			"row":    {Type: "String", Description: "The row value, or null for a single-row likert field."},
			"column": {Type: "String", Description: "The selected column value."},
		},
	})
	c.object("FieldError", ObjectConfig{
		Description: "A validation error for a submitted field.",
		Fields: map[string]FieldConfig{
			"id":      {Type: "Float", Description: "The id of the field or input that failed validation."},
			"message": {Type: "String", Description: "The error message."},
		},
	})
}

func (c *catalog) registerConnections() {
	c.object("PageInfo", ObjectConfig{
		Description: "Information about pagination in a connection.",
		Fields: map[string]FieldConfig{
			"hasNextPage":     {Type: "Boolean!", Description: "Whether more nodes exist after the page."},
			"hasPreviousPage": {Type: "Boolean!", Description: "Whether nodes exist before the page."},
			"startCursor":     {Type: "String", Description: "The cursor of the first node in the page."},
			"endCursor":       {Type: "String", Description: "The cursor of the last node in the page. Pass it as after to get the next page."},
		},
	})
	for _, conn := range []struct{ name, node string }{
		{"GfFormConnection", "GfForm"},
		{"GfEntryConnection", "GfEntry"},
		{"FormFieldConnection", "FormField"},
	} {
		c.object(conn.name, ObjectConfig{
			Description: "A page of " + conn.node + " nodes.",
			Fields: map[string]FieldConfig{
				"nodes":    {Type: "[" + conn.node + "]", Description: "The nodes in the page."},
				"pageInfo": {Type: "PageInfo!", Description: "Information to aid in pagination."},
			},
		})
	}
}

// pageFieldArgs are the arguments of connection fields.
func pageFieldArgs() map[string]ArgConfig {
	return map[string]ArgConfig{
		"first": {Type: "Int", Description: "The number of nodes to return."},
		"after": {Type: "String", Description: "Return nodes after the node with this cursor."},
	}
}

// formFieldsField resolves the fields of a form, with values from the
// entry returned by values.
func formFieldsField(desc string, source func(p graphql.ResolveParams) (*gravityforms.Form, gravityforms.Values, error)) FieldConfig {
	return FieldConfig{
		Type:        "FormFieldConnection",
		Description: desc,
		Args:        pageFieldArgs(),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			pg, err := pageArgs(p.Args, noPageLimit)
			if err != nil {
				return nil, err
			}
			form, values, err := source(p)
			if err != nil {
				return nil, err
			}
			if form == nil {
				return nil, nil
			}
			return sliceConnection(pg, newFieldSources(form, values)), nil
		},
	}
}
