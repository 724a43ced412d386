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
	"zombiezen.com/go/gfgraphql/fieldvalue"
	"zombiezen.com/go/gfgraphql/gravityforms"
)

// A FieldKind maps a Gravity Forms field type to the GraphQL object that
// represents it.
type FieldKind struct {
	// Type is the Gravity Forms field type.
	Type string
	// InputType narrows the kind to fields with this input type. If empty,
	// the kind matches any field of Type not matched by a narrower kind.
	InputType string

	TypeName    string
	Description string
	// Settings are the names of the Gravity Forms field settings the kind
	// supports. Each adds its GfFieldWith*Setting interface.
	Settings []string
	// Interfaces are additional interfaces, like QuizField.
	Interfaces []string
	Fields     map[string]FieldConfig
}

// Setting groups shared by most kinds.
var (
	commonSettings = []string{
		"label_setting",
		"description_setting",
		"admin_label_setting",
		"rules_setting",
		"label_placement_setting",
		"prepopulate_field_setting",
	}
	textSettings = with(commonSettings,
		"size_setting",
		"placeholder_setting",
		"default_value_setting",
		"duplicate_setting",
	)
	choiceSettings = with(commonSettings, "choices_setting")
)

func with(base []string, more ...string) []string {
	list := make([]string, 0, len(base)+len(more))
	list = append(list, base...)
	return append(list, more...)
}

// Value fields shared by several kinds.
var (
	valueField = scalarValue("The field value.")

	valuesField = value("[String]", "The field values.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
		return fieldvalue.Strings(values, f.ID)
	})

	commaValuesField = value("[String]", "The field values.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
		return fieldvalue.CommaList(values, f.ID)
	})

	checkboxValuesField = value("[CheckboxFieldValue]", "The values of the checkbox inputs.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
		return fieldvalue.Checkbox(values, f)
	})

	productValuesField = value("ProductFieldValue", "The product field values.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
		return fieldvalue.Product(values, f)
	})

	inputsField = prop("[FormFieldInput]", "The individual properties for each sub-input of the field.", func(f *gravityforms.Field) interface{} {
		return inputViews(f.Inputs)
	})
)

var fieldKinds = []FieldKind{
	{
		Type:        "text",
		TypeName:    "TextField",
		Description: "A Gravity Forms text field.",
		Settings:    with(textSettings, "maxlen_setting", "input_mask_setting", "autocomplete_setting"),
		Fields:      map[string]FieldConfig{"value": valueField},
	},
	{
		Type:        "textarea",
		TypeName:    "TextAreaField",
		Description: "A Gravity Forms textarea field.",
		Settings:    with(textSettings, "maxlen_setting", "rich_text_editor_setting"),
		Fields:      map[string]FieldConfig{"value": valueField},
	},
	{
		Type:        "select",
		TypeName:    "SelectField",
		Description: "A Gravity Forms select field.",
		Settings:    with(choiceSettings, "size_setting", "placeholder_setting", "default_value_setting", "enable_enhanced_ui_setting", "duplicate_setting", "autocomplete_setting"),
		Fields:      map[string]FieldConfig{"value": valueField},
	},
	{
		Type:        "multiselect",
		TypeName:    "MultiSelectField",
		Description: "A Gravity Forms multi-select field.",
		Settings:    with(choiceSettings, "size_setting", "enable_enhanced_ui_setting"),
		Fields:      map[string]FieldConfig{"values": valuesField},
	},
	{
		Type:        "number",
		TypeName:    "NumberField",
		Description: "A Gravity Forms number field.",
		Settings:    with(textSettings, "range_setting", "number_format_setting", "calculation_setting", "autocomplete_setting"),
		Fields:      map[string]FieldConfig{"value": valueField},
	},
	{
		Type:        "checkbox",
		TypeName:    "CheckboxField",
		Description: "A Gravity Forms checkbox field.",
		Settings:    with(choiceSettings, "select_all_choices_setting"),
		Fields: map[string]FieldConfig{
			"checkboxValues": checkboxValuesField,
			"inputs":         inputsField,
		},
	},
	{
		Type:        "radio",
		TypeName:    "RadioField",
		Description: "A Gravity Forms radio field.",
		Settings:    with(choiceSettings, "other_choice_setting", "duplicate_setting"),
		Fields:      map[string]FieldConfig{"value": valueField},
	},
	{
		Type:        "hidden",
		TypeName:    "HiddenField",
		Description: "A Gravity Forms hidden field.",
		Settings:    []string{"label_setting", "default_value_setting", "prepopulate_field_setting"},
		Fields:      map[string]FieldConfig{"value": valueField},
	},
	{
		Type:        "html",
		TypeName:    "HtmlField",
		Description: "A Gravity Forms HTML field.",
		Settings:    []string{"label_setting", "content_setting"},
	},
	{
		Type:        "section",
		TypeName:    "SectionField",
		Description: "A Gravity Forms section field.",
		Settings:    []string{"label_setting", "description_setting"},
	},
	{
		Type:        "page",
		TypeName:    "PageField",
		Description: "A Gravity Forms page break.",
	},
	{
		Type:        "name",
		TypeName:    "NameField",
		Description: "A Gravity Forms name field.",
		Settings:    with(commonSettings, "sub_label_placement_setting", "autocomplete_setting"),
		Fields: map[string]FieldConfig{
			"nameValues": value("NameFieldValue", "The name field values.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
				return fieldvalue.Name(values, f)
			}),
			"inputs": inputsField,
		},
	},
	{
		Type:        "date",
		TypeName:    "DateField",
		Description: "A Gravity Forms date field.",
		Settings:    with(commonSettings, "placeholder_setting", "default_value_setting", "date_format_setting", "date_input_type_setting", "sub_label_placement_setting"),
		Fields: map[string]FieldConfig{
			"value":  valueField,
			"inputs": inputsField,
		},
	},
	{
		Type:        "time",
		TypeName:    "TimeField",
		Description: "A Gravity Forms time field.",
		Settings:    with(commonSettings, "time_format_setting", "sub_label_placement_setting"),
		Fields: map[string]FieldConfig{
			"value": valueField,
			"timeValues": value("TimeValueProperty", "The individual properties of the time value.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
				return fieldvalue.Time(values, f)
			}),
			"inputs": inputsField,
		},
	},
	{
		Type:        "phone",
		TypeName:    "PhoneField",
		Description: "A Gravity Forms phone field.",
		Settings:    with(textSettings, "phone_format_setting", "autocomplete_setting"),
	},
	{
		Type:        "address",
		TypeName:    "AddressField",
		Description: "A Gravity Forms address field.",
		Settings:    with(commonSettings, "address_setting", "sub_label_placement_setting", "autocomplete_setting"),
		Fields: map[string]FieldConfig{
			"addressValues": value("AddressFieldValue", "The address field values.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
				return fieldvalue.Address(values, f)
			}),
			"inputs": inputsField,
		},
	},
	{
		Type:        "website",
		TypeName:    "WebsiteField",
		Description: "A Gravity Forms website field.",
		Settings:    textSettings,
		Fields:      map[string]FieldConfig{"value": valueField},
	},
	{
		Type:        "email",
		TypeName:    "EmailField",
		Description: "A Gravity Forms email field.",
		Settings:    with(textSettings, "email_confirm_setting", "sub_label_placement_setting", "autocomplete_setting"),
		Fields: map[string]FieldConfig{
			"value":  valueField,
			"inputs": inputsField,
		},
	},
	{
		Type:        "fileupload",
		TypeName:    "FileUploadField",
		Description: "A Gravity Forms file upload field.",
		Settings:    with(commonSettings, "file_extensions_setting", "multiple_files_setting", "file_size_setting"),
		Fields: map[string]FieldConfig{
			"values": value("[String]", "The URLs of the uploaded files.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
				return fieldvalue.FileURLs(values, f)
			}),
		},
	},
	{
		Type:        "captcha",
		TypeName:    "CaptchaField",
		Description: "A Gravity Forms CAPTCHA field.",
		Settings:    []string{"label_setting", "description_setting", "admin_label_setting", "size_setting", "captcha_type_setting"},
	},
	{
		Type:        "list",
		TypeName:    "ListField",
		Description: "A Gravity Forms list field.",
		Settings:    with(commonSettings, "columns_setting", "maxrows_setting"),
		Fields: map[string]FieldConfig{
			"listValues": value("[ListFieldValue]", "The rows of the list.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
				return fieldvalue.List(values, f)
			}),
		},
	},
	{
		Type:        "consent",
		TypeName:    "ConsentField",
		Description: "A Gravity Forms consent field.",
		Settings:    with(commonSettings, "checkbox_label_setting"),
		Fields: map[string]FieldConfig{
			"consentValue": value("Boolean", "Whether consent was given.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
				return fieldvalue.Consent(values, f)
			}),
		},
	},
	{
		Type:        "password",
		TypeName:    "PasswordField",
		Description: "A Gravity Forms password field. Passwords are never stored in entries.",
		Settings:    with(commonSettings, "password_strength_setting", "sub_label_placement_setting"),
		Fields:      map[string]FieldConfig{"inputs": inputsField},
	},

	{
		Type:        "post_title",
		TypeName:    "PostTitleField",
		Description: "A Gravity Forms post title field.",
		Settings:    textSettings,
		Fields:      map[string]FieldConfig{"value": valueField},
	},
	{
		Type:        "post_content",
		TypeName:    "PostContentField",
		Description: "A Gravity Forms post content field.",
		Settings:    with(textSettings, "maxlen_setting", "rich_text_editor_setting"),
		Fields:      map[string]FieldConfig{"value": valueField},
	},
	{
		Type:        "post_excerpt",
		TypeName:    "PostExcerptField",
		Description: "A Gravity Forms post excerpt field.",
		Settings:    with(textSettings, "maxlen_setting"),
		Fields:      map[string]FieldConfig{"value": valueField},
	},
	{
		Type:        "post_tags",
		TypeName:    "PostTagsField",
		Description: "A Gravity Forms post tags field.",
		Settings:    textSettings,
		Fields:      map[string]FieldConfig{"values": commaValuesField},
	},
	{
		Type:        "post_category",
		TypeName:    "PostCategoryField",
		Description: "A Gravity Forms post category field.",
		Settings:    choiceSettings,
		Fields: map[string]FieldConfig{
			"postCategoryValues": value("[PostCategoryFieldValue]", "The selected categories.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
				return fieldvalue.PostCategory(values, f)
			}),
		},
	},
	{
		Type:        "post_image",
		TypeName:    "PostImageField",
		Description: "A Gravity Forms post image field.",
		Settings:    with(commonSettings, "file_extensions_setting"),
		Fields: map[string]FieldConfig{
			"imageValues": value("ImageFieldValue", "The image and its metadata.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
				return fieldvalue.PostImage(values, f)
			}),
		},
	},
	{
		Type:        "post_custom_field",
		TypeName:    "PostCustomField",
		Description: "A Gravity Forms post custom field.",
		Settings:    with(textSettings, "maxlen_setting", "post_custom_field_setting"),
		Fields: map[string]FieldConfig{
			"postCustomFieldValue": value("PostCustomFieldValue", "Post custom field value.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
				return fieldvalue.PostCustomField(values, f)
			}),
		},
	},

	{
		Type:        "product",
		InputType:   "calculation",
		TypeName:    "CalculationField",
		Description: "A Gravity Forms product field whose price is calculated.",
		Settings:    with(commonSettings, "base_price_setting", "disable_quantity_setting", "calculation_setting"),
		Fields: map[string]FieldConfig{
			"productValues": productValuesField,
			"inputs":        inputsField,
		},
	},
	{
		Type:        "product",
		TypeName:    "ProductField",
		Description: "A Gravity Forms product field.",
		Settings:    with(choiceSettings, "base_price_setting", "disable_quantity_setting"),
		Fields: map[string]FieldConfig{
			"productValues": productValuesField,
			"inputs":        inputsField,
		},
	},
	{
		Type:        "quantity",
		TypeName:    "QuantityField",
		Description: "A Gravity Forms quantity field.",
		Settings:    with(commonSettings, "product_field_setting", "range_setting", "number_format_setting", "placeholder_setting", "default_value_setting"),
		Fields:      map[string]FieldConfig{"value": valueField},
	},
	{
		Type:        "option",
		TypeName:    "OptionField",
		Description: "A Gravity Forms option field.",
		Settings:    with(choiceSettings, "product_field_setting"),
		Fields: map[string]FieldConfig{
			"optionValues": value("[OptionFieldValue]", "The selected options.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
				return fieldvalue.Option(values, f)
			}),
		},
	},
	{
		Type:        "shipping",
		TypeName:    "ShippingField",
		Description: "A Gravity Forms shipping field.",
		Settings:    with(choiceSettings, "base_price_setting"),
		Fields: map[string]FieldConfig{
			"shippingValue": value("OptionFieldValue", "The selected shipping method.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
				return fieldvalue.Shipping(values, f)
			}),
		},
	},
	{
		Type:        "total",
		TypeName:    "TotalField",
		Description: "A Gravity Forms total field.",
		Settings:    []string{"label_setting", "description_setting", "admin_label_setting", "label_placement_setting"},
		Fields: map[string]FieldConfig{
			"totalValue": value("Float", "The order total.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
				return fieldvalue.Total(values, f)
			}),
		},
	},

	{
		Type:        "signature",
		TypeName:    "SignatureField",
		Description: "A Gravity Forms signature field.",
		Settings: with(commonSettings,
			"border_width_setting",
			"border_style_setting",
			"border_color_setting",
			"background_color_setting",
			"pen_color_setting",
			"pen_size_setting",
			"box_width_setting",
		),
		Fields: map[string]FieldConfig{
			"value": value("String", "The file name of the signature image.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
				return fieldvalue.String(values, f.ID)
			}),
		},
	},
	{
		Type:        "chainedselect",
		TypeName:    "ChainedSelectField",
		Description: "A Gravity Forms chained select field.",
		Settings:    with(choiceSettings, "chained_selects_alignment_setting", "sub_label_placement_setting"),
		Fields: map[string]FieldConfig{
			"chainedSelectValues": value("[ChainedSelectFieldValue]", "The selection of each input.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
				return chainedSelectViews(values, f)
			}),
			"inputs": inputsField,
		},
	},

	{
		Type:        "quiz",
		InputType:   "checkbox",
		TypeName:    "QuizCheckboxField",
		Description: "A Gravity Forms quiz field with checkboxes.",
		Settings:    []string{"select_all_choices_setting"},
		Interfaces:  []string{"QuizField"},
		Fields: map[string]FieldConfig{
			"checkboxValues": checkboxValuesField,
			"inputs":         inputsField,
		},
	},
	{
		Type:        "quiz",
		InputType:   "radio",
		TypeName:    "QuizRadioField",
		Description: "A Gravity Forms quiz field with radio buttons.",
		Settings:    []string{"other_choice_setting"},
		Interfaces:  []string{"QuizField"},
		Fields:      map[string]FieldConfig{"value": valueField},
	},
	{
		Type:        "quiz",
		InputType:   "select",
		TypeName:    "QuizSelectField",
		Description: "A Gravity Forms quiz field with a dropdown.",
		Settings:    []string{"enable_enhanced_ui_setting"},
		Interfaces:  []string{"QuizField"},
		Fields:      map[string]FieldConfig{"value": valueField},
	},

	{
		Type:        "survey",
		InputType:   "likert",
		TypeName:    "SurveyLikertField",
		Description: "A Gravity Forms survey likert field.",
		Interfaces:  []string{"SurveyField"},
		Fields: map[string]FieldConfig{
			"likertValues": value("[LikertFieldValue]", "The column selected for each row.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
				return fieldvalue.Likert(values, f)
			}),
			"likertRows": prop("[FormFieldChoice]", "The rows of a multi-row likert field.", func(f *gravityforms.Field) interface{} {
				return choiceViews(f.LikertRows)
			}),
			"hasMultipleRows": boolProp("Whether the likert field has multiple rows.", func(f *gravityforms.Field) gravityforms.Flag { return f.LikertMultipleRows }),
			"hasScoring":      boolProp("Whether the likert choices are scored.", func(f *gravityforms.Field) gravityforms.Flag { return f.LikertScoring }),
			"inputs":          inputsField,
		},
	},
	{
		Type:        "survey",
		InputType:   "rank",
		TypeName:    "SurveyRankField",
		Description: "A Gravity Forms survey rank field.",
		Interfaces:  []string{"SurveyField"},
		Fields:      map[string]FieldConfig{"values": commaValuesField},
	},
	{
		Type:        "survey",
		InputType:   "rating",
		TypeName:    "SurveyRatingField",
		Description: "A Gravity Forms survey rating field.",
		Interfaces:  []string{"SurveyField"},
		Fields:      map[string]FieldConfig{"value": valueField},
	},
	{
		Type:        "survey",
		InputType:   "text",
		TypeName:    "SurveyTextField",
		Description: "A Gravity Forms survey field with a single line of text.",
		Settings:    []string{"size_setting", "placeholder_setting", "maxlen_setting"},
		Interfaces:  []string{"SurveyField"},
		Fields:      map[string]FieldConfig{"value": valueField},
	},
	{
		Type:        "survey",
		InputType:   "textarea",
		TypeName:    "SurveyTextAreaField",
		Description: "A Gravity Forms survey field with a paragraph of text.",
		Settings:    []string{"size_setting", "placeholder_setting", "maxlen_setting"},
		Interfaces:  []string{"SurveyField"},
		Fields:      map[string]FieldConfig{"value": valueField},
	},
	{
		Type:        "survey",
		InputType:   "checkbox",
		TypeName:    "SurveyCheckboxField",
		Description: "A Gravity Forms survey field with checkboxes.",
		Settings:    []string{"select_all_choices_setting"},
		Interfaces:  []string{"SurveyField"},
		Fields: map[string]FieldConfig{
			"checkboxValues": checkboxValuesField,
			"inputs":         inputsField,
		},
	},
	{
		Type:        "survey",
		InputType:   "radio",
		TypeName:    "SurveyRadioField",
		Description: "A Gravity Forms survey field with radio buttons.",
		Settings:    []string{"other_choice_setting"},
		Interfaces:  []string{"SurveyField"},
		Fields:      map[string]FieldConfig{"value": valueField},
	},
	{
		Type:        "survey",
		InputType:   "select",
		TypeName:    "SurveySelectField",
		Description: "A Gravity Forms survey field with a dropdown.",
		Settings:    []string{"enable_enhanced_ui_setting"},
		Interfaces:  []string{"SurveyField"},
		Fields:      map[string]FieldConfig{"value": valueField},
	},

	{
		Type:        "poll",
		InputType:   "checkbox",
		TypeName:    "PollCheckboxField",
		Description: "A Gravity Forms poll field with checkboxes.",
		Settings:    []string{"select_all_choices_setting"},
		Interfaces:  []string{"PollField"},
		Fields: map[string]FieldConfig{
			"checkboxValues": checkboxValuesField,
			"inputs":         inputsField,
		},
	},
	{
		Type:        "poll",
		InputType:   "radio",
		TypeName:    "PollRadioField",
		Description: "A Gravity Forms poll field with radio buttons.",
		Settings:    []string{"other_choice_setting"},
		Interfaces:  []string{"PollField"},
		Fields:      map[string]FieldConfig{"value": valueField},
	},
	{
		Type:        "poll",
		InputType:   "select",
		TypeName:    "PollSelectField",
		Description: "A Gravity Forms poll field with a dropdown.",
		Settings:    []string{"enable_enhanced_ui_setting"},
		Interfaces:  []string{"PollField"},
		Fields:      map[string]FieldConfig{"value": valueField},
	},
}

// unsupportedKind represents fields whose type the catalog does not know.
var unsupportedKind = FieldKind{
	TypeName:    "UnsupportedField",
	Description: "A Gravity Forms field of a type this server does not support.",
	Settings:    []string{"label_setting", "description_setting"},
	Fields:      map[string]FieldConfig{"value": valueField},
}

// kindGroups are interfaces shared by the variants of add-on field types.
var kindGroups = []struct {
	name        string
	description string
	settings    []string
	fields      map[string]FieldConfig
}{
	{
		name:        "QuizField",
		description: "A Gravity Forms quiz field.",
		settings:    choiceSettings,
		fields: map[string]FieldConfig{
			"answerExplanation":           stringProp("The explanation of the correct answer.", func(f *gravityforms.Field) string { return f.QuizAnswerExplanation }),
			"shouldShowAnswerExplanation": boolProp("Whether the answer explanation is shown after the quiz is graded.", func(f *gravityforms.Field) gravityforms.Flag { return f.QuizShowAnswerExplanation }),
			"shouldRandomizeQuizChoices":  boolProp("Whether the choices are shown in random order.", func(f *gravityforms.Field) gravityforms.Flag { return f.QuizRandomizeChoices }),
			"hasWeightedScore":            boolProp("Whether each choice carries its own weight instead of one point.", func(f *gravityforms.Field) gravityforms.Flag { return f.QuizWeightedScore }),
		},
	},
	{
		name:        "SurveyField",
		description: "A Gravity Forms survey field.",
		settings:    choiceSettings,
	},
	{
		name:        "PollField",
		description: "A Gravity Forms poll field.",
		settings:    choiceSettings,
	},
}

// kindFor returns the kind of a field definition, falling back to
// UnsupportedField.
func kindFor(f *gravityforms.Field) *FieldKind {
	var fallback *FieldKind
	for i := range fieldKinds {
		k := &fieldKinds[i]
		if k.Type != f.Type {
			continue
		}
		if k.InputType == "" {
			if fallback == nil {
				fallback = k
			}
			continue
		}
		if k.InputType == f.InputType {
			return k
		}
	}
	if fallback != nil {
		return fallback
	}
	return &unsupportedKind
}

func formFieldTypeName(v interface{}) string {
	src, ok := v.(*fieldSource)
	if !ok {
		return ""
	}
	return kindFor(src.field).TypeName
}

func (c *catalog) registerKinds() {
	for _, g := range kindGroups {
		c.iface(g.name, InterfaceConfig{
			Description: g.description,
			Interfaces:  with([]string{"FormField"}, settingInterfaces(g.settings)...),
			Fields:      g.fields,
			ResolveType: formFieldTypeName,
		})
	}
	for _, k := range append(fieldKinds, unsupportedKind) {
		ifaces := with([]string{"FormField"}, k.Interfaces...)
		ifaces = append(ifaces, settingInterfaces(k.Settings)...)
		c.object(k.TypeName, ObjectConfig{
			Description: k.Description,
			Interfaces:  ifaces,
			Fields:      k.Fields,
			EagerlyLoad: true,
		})
	}
	c.fields("PhoneField", map[string]FieldConfig{
		"value": value("String", "Phone field value.", func(values gravityforms.Values, f *gravityforms.Field) interface{} {
			return fieldvalue.Phone(values, f)
		}),
	})
}
