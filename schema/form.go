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
	"time"

	"github.com/graphql-go/graphql"
	"zombiezen.com/go/gfgraphql/gravityforms"
)

// formProp returns a GfForm field resolved by get.
func formProp(typ, desc string, get func(form *gravityforms.Form) interface{}) FieldConfig {
	return FieldConfig{
		Type:        typ,
		Description: desc,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			form, ok := p.Source.(*gravityforms.Form)
			if !ok {
				return nil, nil
			}
			return nullable(get(form)), nil
		},
	}
}

type quizSettingsView struct {
	ShuffleFields                       bool
	InstantFeedback                     bool
	Grading                             string
	Grades                              []quizGradeView
	PassPercent                         int
	PassfailDisplayConfirmation         bool
	PassConfirmationMessage             *string
	PassConfirmationDisableAutoformat   bool
	FailConfirmationMessage             *string
	FailConfirmationDisableAutoformat   bool
	LetterDisplayConfirmation           bool
	LetterConfirmationMessage           *string
	LetterConfirmationDisableAutoformat bool
	MaxScore                            float64
}

type quizGradeView struct {
	Text  string
	Value int
}

func quizSettingsOf(form *gravityforms.Form) *quizSettingsView {
	q := form.Quiz
	if q == nil {
		return nil
	}
	v := &quizSettingsView{
		ShuffleFields:                       bool(q.ShuffleFields),
		InstantFeedback:                     bool(q.InstantFeedback),
		Grading:                             q.Grading,
		PassPercent:                         int(q.PassPercent),
		PassfailDisplayConfirmation:         bool(q.PassfailDisplayConfirmation),
		PassConfirmationMessage:             strPtr(q.PassConfirmationMessage),
		PassConfirmationDisableAutoformat:   bool(q.PassConfirmationDisableAutoformat),
		FailConfirmationMessage:             strPtr(q.FailConfirmationMessage),
		FailConfirmationDisableAutoformat:   bool(q.FailConfirmationDisableAutoformat),
		LetterDisplayConfirmation:           bool(q.LetterDisplayConfirmation),
		LetterConfirmationMessage:           strPtr(q.LetterConfirmationMessage),
		LetterConfirmationDisableAutoformat: bool(q.LetterConfirmationDisableAutoformat),
		MaxScore:                            form.QuizMaxScore(),
	}
	for _, g := range q.Grades {
		v.Grades = append(v.Grades, quizGradeView{Text: g.Text, Value: int(g.Value)})
	}
	return v
}

func formatDate(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(gravityforms.DateLayout)
}

func (c *catalog) registerForm() {
	c.object("GfQuizGrade", ObjectConfig{
		Description: "A letter grade of a quiz.",
		Fields: map[string]FieldConfig{
			"text":  {Type: "String", Description: "The grade label."},
			"value": {Type: "Int", Description: "The minimum percentage required for the grade."},
		},
	})
	c.object("GfQuizSettings", ObjectConfig{
		Description: "The quiz settings of a form.",
		Fields: map[string]FieldConfig{
			"shuffleFields":                       {Type: "Boolean", Description: "Whether the quiz questions are shown in random order."},
			"instantFeedback":                     {Type: "Boolean", Description: "Whether the correct answer is shown as soon as a question is answered."},
			"grading":                             {Type: "QuizFieldGradingTypeEnum", Description: "The grading system of the quiz."},
			"grades":                              {Type: "[GfQuizGrade]", Description: "The letter grades, when grading by letter."},
			"passPercent":                         {Type: "Int", Description: "The percentage required to pass, when grading pass or fail."},
			"passfailDisplayConfirmation":         {Type: "Boolean", Description: "Whether the pass or fail confirmation is displayed."},
			"passConfirmationMessage":             {Type: "String", Description: "The confirmation message for a passing entry."},
			"passConfirmationDisableAutoformat":   {Type: "Boolean", Description: "Whether automatic formatting of the pass message is disabled."},
			"failConfirmationMessage":             {Type: "String", Description: "The confirmation message for a failing entry."},
			"failConfirmationDisableAutoformat":   {Type: "Boolean", Description: "Whether automatic formatting of the fail message is disabled."},
			"letterDisplayConfirmation":           {Type: "Boolean", Description: "Whether the letter grade confirmation is displayed."},
			"letterConfirmationMessage":           {Type: "String", Description: "The letter grade confirmation message."},
			"letterConfirmationDisableAutoformat": {Type: "Boolean", Description: "Whether automatic formatting of the letter message is disabled."},
			"maxScore":                            {Type: "Float", Description: "The highest score an entry can earn."},
		},
	})
	c.object("GfForm", ObjectConfig{
		Description: "A Gravity Forms form.",
		Interfaces:  []string{"Node"},
		Fields: map[string]FieldConfig{
			"id": formProp("ID!", "The globally unique id of the form.", func(form *gravityforms.Form) interface{} {
				return toGlobalID(formIDPrefix, strconv.Itoa(form.ID))
			}),
			"databaseId": formProp("Int!", "The form id.", func(form *gravityforms.Form) interface{} { return form.ID }),
			"title":      formProp("String", "The form title.", func(form *gravityforms.Form) interface{} { return form.Title }),
			"description": formProp("String", "The form description.", func(form *gravityforms.Form) interface{} {
				return optString(form.Description)
			}),
			"labelPlacement": formProp("FormFieldLabelPlacementEnum", "The default placement of field labels.", func(form *gravityforms.Form) interface{} {
				return form.LabelPlacement
			}),
			"descriptionPlacement": formProp("FormFieldDescriptionPlacementEnum", "The default placement of field descriptions.", func(form *gravityforms.Form) interface{} {
				return form.DescriptionPlacement
			}),
			"subLabelPlacement": formProp("FormFieldSubLabelPlacementEnum", "The default placement of sub-labels.", func(form *gravityforms.Form) interface{} {
				return form.SubLabelPlacement
			}),
			"cssClass": formProp("String", "Custom CSS classes added to the form.", func(form *gravityforms.Form) interface{} {
				return optString(form.CSSClass)
			}),
			"version": formProp("String", "The Gravity Forms version the form was created with.", func(form *gravityforms.Form) interface{} {
				return optString(form.Version)
			}),
			"isActive": formProp("Boolean", "Whether the form is active.", func(form *gravityforms.Form) interface{} { return bool(form.IsActive) }),
			"isTrash":  formProp("Boolean", "Whether the form is in the trash.", func(form *gravityforms.Form) interface{} { return bool(form.IsTrash) }),
			"dateCreatedGmt": formProp("String", "The date the form was created, in GMT.", func(form *gravityforms.Form) interface{} {
				return formatDate(form.DateCreated)
			}),
			"quiz": formProp("GfQuizSettings", "The quiz settings of the form, if it has any.", func(form *gravityforms.Form) interface{} {
				return quizSettingsOf(form)
			}),
			"formFields": formFieldsField("The fields of the form. Value fields are null.", func(p graphql.ResolveParams) (*gravityforms.Form, gravityforms.Values, error) {
				form, _ := p.Source.(*gravityforms.Form)
				return form, nil, nil
			}),
			"entries": {
				Type:        "GfEntryConnection",
				Description: "The submitted entries of the form, newest first.",
				Args:        entriesArgs(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					form, ok := p.Source.(*gravityforms.Form)
					if !ok {
						return nil, nil
					}
					return c.res.entries(p, []int{form.ID})
				},
			},
		},
	})
}
