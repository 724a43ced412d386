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

package gravityforms

import (
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// Field is a single field definition from a form's display meta. The JSON
// keys are the ones Gravity Forms uses. Settings that a field type does not
// support are left at their zero values.
type Field struct {
	ID        int    `json:"id"`
	FormID    int    `json:"formId"`
	Type      string `json:"type"`
	InputType string `json:"inputType,omitempty"`

	Label                string     `json:"label"`
	AdminLabel           string     `json:"adminLabel,omitempty"`
	Description          string     `json:"description,omitempty"`
	LabelPlacement       string     `json:"labelPlacement,omitempty"`
	DescriptionPlacement string     `json:"descriptionPlacement,omitempty"`
	SubLabelPlacement    string     `json:"subLabelPlacement,omitempty"`
	CSSClass             string     `json:"cssClass,omitempty"`
	ErrorMessage         string     `json:"errorMessage,omitempty"`
	InputName            string     `json:"inputName,omitempty"`
	IsRequired           Flag       `json:"isRequired,omitempty"`
	NoDuplicates         Flag       `json:"noDuplicates,omitempty"`
	AllowsPrepopulate    Flag       `json:"allowsPrepopulate,omitempty"`
	Visibility           string     `json:"visibility,omitempty"`
	Size                 string     `json:"size,omitempty"`
	Placeholder          string     `json:"placeholder,omitempty"`
	DefaultValue         FlexString `json:"defaultValue,omitempty"`
	MaxLength            int        `json:"maxLength,omitempty"`
	PageNumber           int        `json:"pageNumber,omitempty"`
	LayoutGridColumnSpan int        `json:"layoutGridColumnSpan,omitempty"`
	AutocompleteEnabled  Flag       `json:"enableAutocomplete,omitempty"`

	Choices           ChoiceList       `json:"choices,omitempty"`
	Inputs            InputList        `json:"inputs,omitempty"`
	EnableChoiceValue Flag             `json:"enableChoiceValue,omitempty"`
	EnablePrice       Flag             `json:"enablePrice,omitempty"`
	EnableEnhancedUI  Flag             `json:"enableEnhancedUI,omitempty"`
	EnableSelectAll   Flag             `json:"enableSelectAll,omitempty"`
	EnableOtherChoice Flag             `json:"enableOtherChoice,omitempty"`
	ConditionalLogic  ConditionalLogic `json:"conditionalLogic,omitempty"`

	PhoneFormat        string    `json:"phoneFormat,omitempty"`
	TimeFormat         string    `json:"timeFormat,omitempty"`
	DateFormat         string    `json:"dateFormat,omitempty"`
	DateType           string    `json:"dateType,omitempty"`
	CalendarIconType   string    `json:"calendarIconType,omitempty"`
	NumberFormat       string    `json:"numberFormat,omitempty"`
	RangeMin           NullFloat `json:"rangeMin,omitempty"`
	RangeMax           NullFloat `json:"rangeMax,omitempty"`
	EnableCalculation  Flag      `json:"enableCalculation,omitempty"`
	CalculationFormula string    `json:"calculationFormula,omitempty"`
	CalculationRound   FlexInt   `json:"calculationRounding,omitempty"`

	AddressType             string `json:"addressType,omitempty"`
	DefaultCountry          string `json:"defaultCountry,omitempty"`
	DefaultState            string `json:"defaultState,omitempty"`
	EmailConfirmEnabled     Flag   `json:"emailConfirmEnabled,omitempty"`
	PasswordStrengthEnabled Flag   `json:"passwordStrengthEnabled,omitempty"`
	MinPasswordStrength     string `json:"minPasswordStrength,omitempty"`
	InputMask               Flag   `json:"inputMask,omitempty"`
	InputMaskValue          string `json:"inputMaskValue,omitempty"`
	UseRichTextEditor       Flag   `json:"useRichTextEditor,omitempty"`

	EnableColumns     Flag    `json:"enableColumns,omitempty"`
	MaxRows           int     `json:"maxRows,omitempty"`
	AllowedExtensions string  `json:"allowedExtensions,omitempty"`
	MultipleFiles     Flag    `json:"multipleFiles,omitempty"`
	MaxFiles          FlexInt `json:"maxFiles,omitempty"`
	MaxFileSize       FlexInt `json:"maxFileSize,omitempty"`

	Content             string `json:"content,omitempty"`
	PostCustomFieldName string `json:"postCustomFieldName,omitempty"`

	BasePrice       string  `json:"basePrice,omitempty"`
	DisableQuantity Flag    `json:"disableQuantity,omitempty"`
	ProductField    FlexInt `json:"productField,omitempty"`
	CheckboxLabel   string  `json:"checkboxLabel,omitempty"`

	BoxWidth        FlexString `json:"boxWidth,omitempty"`
	BorderColor     string     `json:"borderColor,omitempty"`
	BorderStyle     string     `json:"borderStyle,omitempty"`
	BorderWidth     FlexString `json:"borderWidth,omitempty"`
	BackgroundColor string     `json:"backgroundColor,omitempty"`
	PenColor        string     `json:"penColor,omitempty"`
	PenSize         FlexString `json:"penSize,omitempty"`

	CaptchaType  string `json:"captchaType,omitempty"`
	CaptchaTheme string `json:"captchaTheme,omitempty"`

	ChainedSelectsAlignment    string `json:"chainedSelectsAlignment,omitempty"`
	ChainedSelectsHideInactive Flag   `json:"chainedSelectsHideInactive,omitempty"`

	QuizAnswerExplanation     string `json:"gquizAnswerExplanation,omitempty"`
	QuizShowAnswerExplanation Flag   `json:"gquizShowAnswerExplanation,omitempty"`
	QuizRandomizeChoices      Flag   `json:"gquizEnableRandomizeQuizChoices,omitempty"`
	QuizWeightedScore         Flag   `json:"gquizWeightedScoreEnabled,omitempty"`

	LikertMultipleRows Flag       `json:"gsurveyLikertEnableMultipleRows,omitempty"`
	LikertScoring      Flag       `json:"gsurveyLikertEnableScoring,omitempty"`
	LikertRows         ChoiceList `json:"gsurveyLikertRows,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler. Integer settings are accepted in
// numeric or string form.
func (f *Field) UnmarshalJSON(data []byte) error {
	type plainField Field
	aux := struct {
		*plainField
		ID                   FlexInt `json:"id"`
		FormID               FlexInt `json:"formId"`
		MaxLength            FlexInt `json:"maxLength"`
		PageNumber           FlexInt `json:"pageNumber"`
		LayoutGridColumnSpan FlexInt `json:"layoutGridColumnSpan"`
		MaxRows              FlexInt `json:"maxRows"`
	}{plainField: (*plainField)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return xerrors.Errorf("unmarshal field: %w", err)
	}
	f.ID = int(aux.ID)
	f.FormID = int(aux.FormID)
	f.MaxLength = int(aux.MaxLength)
	f.PageNumber = int(aux.PageNumber)
	f.LayoutGridColumnSpan = int(aux.LayoutGridColumnSpan)
	f.MaxRows = int(aux.MaxRows)
	return nil
}

// InputTypeOrType returns the field's input type, falling back to its type.
// Pricing, post and quiz fields dispatch on the input type.
func (f *Field) InputTypeOrType() string {
	if f.InputType != "" {
		return f.InputType
	}
	return f.Type
}

// Key returns the entry key of the field's own value.
func (f *Field) Key() string {
	return strconv.Itoa(f.ID)
}

// Input returns the sub-input with the given id or nil.
func (f *Field) Input(id string) *Input {
	for i := range f.Inputs {
		if string(f.Inputs[i].ID) == id {
			return &f.Inputs[i]
		}
	}
	return nil
}

// InputBySuffix returns the sub-input whose id is the field id followed by
// "." and suffix. If the form definition lacks the input, a synthetic input
// with the expected id is returned.
func (f *Field) InputBySuffix(suffix string) Input {
	id := f.Key() + "." + suffix
	if in := f.Input(id); in != nil {
		return *in
	}
	return Input{ID: InputID(id)}
}

// Choice returns the choice with the given value or nil.
func (f *Field) Choice(value string) *Choice {
	for i := range f.Choices {
		if string(f.Choices[i].Value) == value {
			return &f.Choices[i]
		}
	}
	return nil
}

// Input is a sub-input of a composite field.
type Input struct {
	ID                    InputID    `json:"id"`
	Label                 string     `json:"label"`
	Name                  string     `json:"name,omitempty"`
	IsHidden              Flag       `json:"isHidden,omitempty"`
	CustomLabel           string     `json:"customLabel,omitempty"`
	Placeholder           string     `json:"placeholder,omitempty"`
	DefaultValue          FlexString `json:"defaultValue,omitempty"`
	AutocompleteAttribute string     `json:"autocompleteAttribute,omitempty"`
	Choices               ChoiceList `json:"choices,omitempty"`
}

// InputList is a field's sub-inputs. Gravity Forms stores a missing list as
// null or the empty string.
type InputList []Input

// UnmarshalJSON implements json.Unmarshaler.
func (list *InputList) UnmarshalJSON(data []byte) error {
	if isEmptyJSON(data) {
		*list = nil
		return nil
	}
	var inputs []Input
	if err := json.Unmarshal(data, &inputs); err != nil {
		return xerrors.Errorf("unmarshal inputs: %w", err)
	}
	*list = inputs
	return nil
}

// Choice is an option of a choice-based field.
type Choice struct {
	Text          string     `json:"text"`
	Value         FlexString `json:"value"`
	IsSelected    Flag       `json:"isSelected,omitempty"`
	Price         string     `json:"price,omitempty"`
	IsOtherChoice Flag       `json:"isOtherChoice,omitempty"`
	IsCorrect     Flag       `json:"gquizIsCorrect,omitempty"`
	Weight        NullFloat  `json:"gquizWeight,omitempty"`
	Score         NullFloat  `json:"score,omitempty"`
}

// ChoiceList is a field's choices. Gravity Forms stores a missing list as null
// or the empty string.
type ChoiceList []Choice

// UnmarshalJSON implements json.Unmarshaler.
func (list *ChoiceList) UnmarshalJSON(data []byte) error {
	if isEmptyJSON(data) {
		*list = nil
		return nil
	}
	var choices []Choice
	if err := json.Unmarshal(data, &choices); err != nil {
		return xerrors.Errorf("unmarshal choices: %w", err)
	}
	*list = choices
	return nil
}

// ConditionalLogic controls a field's visibility. Valid is false when the
// field has no conditional logic, which Gravity Forms stores as "" or null.
type ConditionalLogic struct {
	Valid      bool
	ActionType string
	LogicType  string
	Rules      []ConditionalLogicRule
}

type conditionalLogicJSON struct {
	ActionType string                 `json:"actionType"`
	LogicType  string                 `json:"logicType"`
	Rules      []ConditionalLogicRule `json:"rules"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (cl *ConditionalLogic) UnmarshalJSON(data []byte) error {
	if isEmptyJSON(data) {
		*cl = ConditionalLogic{}
		return nil
	}
	var raw conditionalLogicJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return xerrors.Errorf("unmarshal conditional logic: %w", err)
	}
	*cl = ConditionalLogic{
		Valid:      true,
		ActionType: raw.ActionType,
		LogicType:  raw.LogicType,
		Rules:      raw.Rules,
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (cl ConditionalLogic) MarshalJSON() ([]byte, error) {
	if !cl.Valid {
		return []byte(`""`), nil
	}
	return json.Marshal(conditionalLogicJSON{
		ActionType: cl.ActionType,
		LogicType:  cl.LogicType,
		Rules:      cl.Rules,
	})
}

// ConditionalLogicRule is a single comparison in a conditional logic block.
type ConditionalLogicRule struct {
	FieldID  FlexString `json:"fieldId"`
	Operator string     `json:"operator"`
	Value    FlexString `json:"value"`
}

// FieldIDFloat returns the rule's field id as a number. Rules may target a
// sub-input such as "3.1".
func (r ConditionalLogicRule) FieldIDFloat() float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(r.FieldID)), 64)
	if err != nil {
		return 0
	}
	return f
}
