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
	"strings"
)

type enumDef struct {
	name   string
	config EnumConfig
}

// enumValues builds an enum value map from symbol, value, description triples.
func enumValues(triples ...string) map[string]EnumValueConfig {
	if len(triples)%3 != 0 {
		panic("enumValues: arguments must be triples")
	}
	m := make(map[string]EnumValueConfig, len(triples)/3)
	for i := 0; i < len(triples); i += 3 {
		m[triples[i]] = EnumValueConfig{Value: triples[i+1], Description: triples[i+2]}
	}
	return m
}

var enumDefs = []enumDef{
	{"SignatureBorderWidthEnum", EnumConfig{
		Description: "Width of the border around the signature area.",
		Values: enumValues(
			"NONE", "0", "No border width.",
			"SMALL", "1", "A small border width",
			"MEDIUM", "2", "A medium border width",
			"LARGE", "3", "A large border width",
		),
	}},
	{"SignatureBorderStyleEnum", EnumConfig{
		Description: "Border style to be used around the signature area.",
		Values: enumValues(
			"DASHED", "dashed", "A dashed border style.",
			"DOTTED", "dotted", "A dotted border style.",
			"DOUBLE", "double", "A double border style.",
			"GROOVE", "groove", "A groove border style.",
			"INSET", "inset", "An inset border style.",
			"OUTSET", "outset", "An outset border style.",
			"RIDGE", "ridge", "A ridge border style.",
			"SOLID", "solid", "A solid border style.",
		),
	}},
	{"FormFieldLabelPlacementEnum", EnumConfig{
		Description: "Determines where the field labels should be placed in relation to the field.",
		Values: enumValues(
			"TOP", "top_label", "Field labels are placed above the field.",
			"LEFT", "left_label", "Field labels are placed to the left of the field.",
			"RIGHT", "right_label", "Field labels are placed to the right of the field.",
			"HIDDEN", "hidden_label", "Field labels are hidden.",
			"INHERIT", "", "Field label placement is inherited from the form.",
		),
	}},
	{"FormFieldDescriptionPlacementEnum", EnumConfig{
		Description: "Determines where the field description is displayed relative to the field.",
		Values: enumValues(
			"ABOVE", "above", "The description is displayed above the field.",
			"BELOW", "below", "The description is displayed below the field.",
			"INHERIT", "", "Description placement is inherited from the form.",
		),
	}},
	{"FormFieldSubLabelPlacementEnum", EnumConfig{
		Description: "Determines where sub-labels of a composite field are displayed.",
		Values: enumValues(
			"ABOVE", "above", "Sub-labels are displayed above their inputs.",
			"BELOW", "below", "Sub-labels are displayed below their inputs.",
			"HIDDEN", "hidden_label", "Sub-labels are hidden.",
			"INHERIT", "", "Sub-label placement is inherited from the form.",
		),
	}},
	{"FormFieldVisibilityEnum", EnumConfig{
		Description: "Field visibility.",
		Values: enumValues(
			"VISIBLE", "visible", "Default option. The field is visible when viewing the form.",
			"HIDDEN", "hidden", "The field is hidden when viewing the form.",
			"ADMINISTRATIVE", "administrative", "The field is only visible when administering submitted entries.",
		),
	}},
	{"FormFieldSizeEnum", EnumConfig{
		Description: "Field size.",
		Values: enumValues(
			"SMALL", "small", "Small field size.",
			"MEDIUM", "medium", "Medium field size.",
			"LARGE", "large", "Large field size.",
		),
	}},
	{"PhoneFieldFormatEnum", EnumConfig{
		Description: "Determines the allowed format for phones.",
		Values: enumValues(
			"STANDARD", "standard", "Standard phone number format: (###) ###-####.",
			"INTERNATIONAL", "international", "International phone number format.",
		),
	}},
	{"TimeFieldFormatEnum", EnumConfig{
		Description: "How the time is displayed.",
		Values: enumValues(
			"H12", "12", "12-hour time format.",
			"H24", "24", "24-hour time format.",
		),
	}},
	{"DateFieldFormatEnum", EnumConfig{
		Description: "How the date field displays its data.",
		Values: enumValues(
			"MDY", "mdy", "mm/dd/yyyy format.",
			"DMY", "dmy", "dd/mm/yyyy format.",
			"DMY_DASH", "dmy_dash", "dd-mm-yyyy format.",
			"DMY_DOT", "dmy_dot", "dd.mm.yyyy format.",
			"YMD_SLASH", "ymd_slash", "yyyy/mm/dd format.",
			"YMD_DASH", "ymd_dash", "yyyy-mm-dd format.",
			"YMD_DOT", "ymd_dot", "yyyy.mm.dd format.",
		),
	}},
	{"DateFieldTypeEnum", EnumConfig{
		Description: "The type of date field to display.",
		Values: enumValues(
			"PICKER", "datepicker", "A date picker.",
			"DROPDOWN", "datedropdown", "A set of dropdowns.",
			"FIELD", "datefield", "A set of text inputs.",
		),
	}},
	{"NumberFieldFormatEnum", EnumConfig{
		Description: "The format allowed for the number field.",
		Values: enumValues(
			"DECIMAL_DOT", "decimal_dot", "Numbers with a dot as the decimal separator: 9,999.99.",
			"DECIMAL_COMMA", "decimal_comma", "Numbers with a comma as the decimal separator: 9.999,99.",
			"CURRENCY", "currency", "Currency amounts.",
		),
	}},
	{"AddressFieldTypeEnum", EnumConfig{
		Description: "The type of address.",
		Values: enumValues(
			"INTERNATIONAL", "international", "International address type.",
			"US", "us", "United States address type.",
			"CANADA", "canadian", "Canada address type.",
		),
	}},
	{"PasswordStrengthEnum", EnumConfig{
		Description: "The minimum strength required for a password.",
		Values: enumValues(
			"SHORT", "short", "A short password.",
			"BAD", "bad", "A bad password.",
			"GOOD", "good", "A good password.",
			"STRONG", "strong", "A strong password.",
		),
	}},
	{"CaptchaTypeEnum", EnumConfig{
		Description: "Type of CAPTCHA field to be used.",
		Values: enumValues(
			"RECAPTCHA", "captcha", "reCAPTCHA type.",
			"SIMPLE", "simple_captcha", "Simple CAPTCHA type.",
			"MATH", "math", "Math CAPTCHA type.",
		),
	}},
	{"ConditionalLogicActionTypeEnum", EnumConfig{
		Description: "The type of action the conditional logic will perform.",
		Values: enumValues(
			"SHOW", "show", "Show the field when the conditions match.",
			"HIDE", "hide", "Hide the field when the conditions match.",
		),
	}},
	{"ConditionalLogicLogicTypeEnum", EnumConfig{
		Description: "Whether all or any of the rules must match.",
		Values: enumValues(
			"ALL", "all", "All rules must match.",
			"ANY", "any", "At least one rule must match.",
		),
	}},
	{"FieldOperatorEnum", EnumConfig{
		Description: "The operator used by a conditional logic rule.",
		Values: enumValues(
			"IS", "is", "Equal to.",
			"IS_NOT", "isnot", "Not equal to.",
			"GREATER_THAN", ">", "Greater than.",
			"LESS_THAN", "<", "Less than.",
			"CONTAINS", "contains", "Contains the value.",
			"STARTS_WITH", "starts_with", "Starts with the value.",
			"ENDS_WITH", "ends_with", "Ends with the value.",
		),
	}},
	{"EntryStatusEnum", EnumConfig{
		Description: "Status of an entry.",
		Values: enumValues(
			"ACTIVE", "active", "Active entries.",
			"SPAM", "spam", "Entries marked as spam.",
			"TRASH", "trash", "Entries in the trash.",
		),
	}},
	{"FormIdTypeEnum", EnumConfig{
		Description: "The type of id used to identify a form.",
		Values: enumValues(
			"ID", idTypeGlobal, "The global id.",
			"DATABASE_ID", idTypeDatabase, "The database id.",
		),
	}},
	{"EntryIdTypeEnum", EnumConfig{
		Description: "The type of id used to identify an entry.",
		Values: enumValues(
			"ID", idTypeGlobal, "The global id.",
			"DATABASE_ID", idTypeDatabase, "The database id of a submitted entry.",
			"RESUME_TOKEN", idTypeResumeToken, "The resume token of a draft entry.",
		),
	}},
	{"DraftEntryIdTypeEnum", EnumConfig{
		Description: "The type of id used to identify a draft entry.",
		Values: enumValues(
			"ID", idTypeGlobal, "The global id.",
			"RESUME_TOKEN", idTypeResumeToken, "The resume token.",
		),
	}},
	{"QuizFieldGradingTypeEnum", EnumConfig{
		Description: "The grading system used by a quiz.",
		Values: enumValues(
			"NONE", "none", "The quiz is not graded.",
			"PASSFAIL", "passfail", "The quiz is graded pass or fail.",
			"LETTER", "letter", "The quiz is graded with letters.",
		),
	}},
}

// Id types accepted by the idType arguments.
const (
	idTypeGlobal      = "global_id"
	idTypeDatabase    = "database_id"
	idTypeResumeToken = "resume_token"
)

func (c *catalog) registerEnums() {
	for _, def := range enumDefs {
		c.enum(def.name, def.config)
	}
	c.enum("FormFieldTypeEnum", formFieldTypeEnum())
}

// formFieldTypeEnum lists every Gravity Forms field type the catalog knows.
func formFieldTypeEnum() EnumConfig {
	vals := make(map[string]EnumValueConfig)
	for _, k := range fieldKinds {
		sym := strings.ToUpper(k.Type)
		if _, dup := vals[sym]; dup {
			continue
		}
		vals[sym] = EnumValueConfig{
			Value:       k.Type,
			Description: "A Gravity Forms " + k.Type + " field.",
		}
	}
	return EnumConfig{
		Description: "The type of a Gravity Forms field.",
		Values:      vals,
	}
}
