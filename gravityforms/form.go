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
	"time"

	"golang.org/x/xerrors"
)

// Form is a form definition. The JSON encoding matches the display meta
// Gravity Forms stores for each form.
type Form struct {
	ID                   int      `json:"id"`
	Title                string   `json:"title"`
	Description          string   `json:"description,omitempty"`
	LabelPlacement       string   `json:"labelPlacement,omitempty"`
	DescriptionPlacement string   `json:"descriptionPlacement,omitempty"`
	SubLabelPlacement    string   `json:"subLabelPlacement,omitempty"`
	CSSClass             string   `json:"cssClass,omitempty"`
	Version              string   `json:"version,omitempty"`
	Fields               []*Field `json:"fields"`

	IsActive    Flag      `json:"is_active,omitempty"`
	IsTrash     Flag      `json:"is_trash,omitempty"`
	DateCreated time.Time `json:"dateCreatedGmt"`

	Quiz *QuizSettings `json:"gravityformsquiz,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (form *Form) UnmarshalJSON(data []byte) error {
	type plainForm Form
	aux := struct {
		*plainForm
		ID FlexInt `json:"id"`
	}{plainForm: (*plainForm)(form)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return xerrors.Errorf("unmarshal form: %w", err)
	}
	form.ID = int(aux.ID)
	for _, f := range form.Fields {
		if f != nil && f.FormID == 0 {
			f.FormID = form.ID
		}
	}
	return nil
}

// Field returns the field with the given id or nil.
func (form *Form) Field(id int) *Field {
	for _, f := range form.Fields {
		if f != nil && f.ID == id {
			return f
		}
	}
	return nil
}

// QuizMaxScore returns the highest score an entry can earn on the form's quiz
// fields. A correct answer is worth one point unless the field uses weighted
// scoring, in which case the correct choices' weights are summed for
// checkboxes and the largest weight counts otherwise.
func (form *Form) QuizMaxScore() float64 {
	var total float64
	for _, f := range form.Fields {
		if f == nil || f.Type != "quiz" {
			continue
		}
		if !f.QuizWeightedScore {
			total++
			continue
		}
		var sum, best float64
		for _, c := range f.Choices {
			if !bool(c.IsCorrect) || !c.Weight.Valid {
				continue
			}
			sum += c.Weight.Float
			if c.Weight.Float > best {
				best = c.Weight.Float
			}
		}
		if f.InputType == "checkbox" {
			total += sum
		} else {
			total += best
		}
	}
	return total
}

// QuizSettings are the form-level settings of the quiz add-on.
type QuizSettings struct {
	ShuffleFields   Flag        `json:"shuffleFields,omitempty"`
	InstantFeedback Flag        `json:"instantFeedback,omitempty"`
	Grading         string      `json:"grading,omitempty"`
	Grades          []QuizGrade `json:"grades,omitempty"`
	PassPercent     FlexInt     `json:"passPercent,omitempty"`

	PassfailDisplayConfirmation         Flag   `json:"passfailDisplayConfirmation,omitempty"`
	PassConfirmationMessage             string `json:"passConfirmationMessage,omitempty"`
	PassConfirmationDisableAutoformat   Flag   `json:"passConfirmationDisableAutoformat,omitempty"`
	FailConfirmationMessage             string `json:"failConfirmationMessage,omitempty"`
	FailConfirmationDisableAutoformat   Flag   `json:"failConfirmationDisableAutoformat,omitempty"`
	LetterDisplayConfirmation           Flag   `json:"letterDisplayConfirmation,omitempty"`
	LetterConfirmationMessage           string `json:"letterConfirmationMessage,omitempty"`
	LetterConfirmationDisableAutoformat Flag   `json:"letterConfirmationDisableAutoformat,omitempty"`
}

// QuizGrade is a letter grade and the minimum percentage that earns it.
type QuizGrade struct {
	Text  string  `json:"text"`
	Value FlexInt `json:"value"`
}
