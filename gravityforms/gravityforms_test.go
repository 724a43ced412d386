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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestFlag(t *testing.T) {
	tests := []struct {
		json string
		want Flag
	}{
		{json: `true`, want: true},
		{json: `false`, want: false},
		{json: `null`, want: false},
		{json: `1`, want: true},
		{json: `0`, want: false},
		{json: `"1"`, want: true},
		{json: `"0"`, want: false},
		{json: `""`, want: false},
		{json: `"true"`, want: true},
		{json: `"false"`, want: false},
	}
	for _, test := range tests {
		var got Flag
		if err := json.Unmarshal([]byte(test.json), &got); err != nil {
			t.Errorf("json.Unmarshal(%q) = %v", test.json, err)
			continue
		}
		if got != test.want {
			t.Errorf("json.Unmarshal(%q) = %t; want %t", test.json, got, test.want)
		}
	}
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		json    string
		want    FlexInt
		wantErr bool
	}{
		{json: `5`, want: 5},
		{json: `"5"`, want: 5},
		{json: `""`, want: 0},
		{json: `null`, want: 0},
		{json: `"abc"`, wantErr: true},
		{json: `[1]`, wantErr: true},
	}
	for _, test := range tests {
		var got FlexInt
		err := json.Unmarshal([]byte(test.json), &got)
		if err != nil {
			if !test.wantErr {
				t.Errorf("json.Unmarshal(%q) = %v", test.json, err)
			}
			continue
		}
		if test.wantErr {
			t.Errorf("json.Unmarshal(%q) = %d, <nil>; want error", test.json, got)
			continue
		}
		if got != test.want {
			t.Errorf("json.Unmarshal(%q) = %d; want %d", test.json, got, test.want)
		}
	}
}

func TestUnmarshalForm(t *testing.T) {
	const displayMeta = `{
		"id": "3",
		"title": "Quiz",
		"labelPlacement": "top_label",
		"fields": [
			{
				"id": "1",
				"type": "quiz",
				"inputType": "checkbox",
				"label": "Pick",
				"isRequired": "1",
				"conditionalLogic": "",
				"rangeMin": "",
				"inputs": [
					{"id": 1.1, "label": "First"},
					{"id": "1.2", "label": "Second"}
				],
				"choices": [
					{"text": "First", "value": "first", "gquizIsCorrect": true, "gquizWeight": "2"},
					{"text": "Second", "value": 2, "gquizIsCorrect": false}
				],
				"gquizWeightedScoreEnabled": true
			},
			{
				"id": 2,
				"formId": 3,
				"type": "text",
				"label": "Name",
				"choices": "",
				"inputs": null,
				"conditionalLogic": {
					"actionType": "show",
					"logicType": "all",
					"rules": [{"fieldId": "1", "operator": "is", "value": "first"}]
				}
			}
		],
		"gravityformsquiz": {"grading": "letter", "passPercent": "50", "grades": [{"text": "A", "value": 90}]}
	}`
	var got Form
	if err := json.Unmarshal([]byte(displayMeta), &got); err != nil {
		t.Fatal(err)
	}
	want := Form{
		ID:             3,
		Title:          "Quiz",
		LabelPlacement: "top_label",
		Fields: []*Field{
			{
				ID:         1,
				FormID:     3,
				Type:       "quiz",
				InputType:  "checkbox",
				Label:      "Pick",
				IsRequired: true,
				Inputs: InputList{
					{ID: "1.1", Label: "First"},
					{ID: "1.2", Label: "Second"},
				},
				Choices: ChoiceList{
					{Text: "First", Value: "first", IsCorrect: true, Weight: NullFloat{Float: 2, Valid: true}},
					{Text: "Second", Value: "2"},
				},
				QuizWeightedScore: true,
			},
			{
				ID:     2,
				FormID: 3,
				Type:   "text",
				Label:  "Name",
				ConditionalLogic: ConditionalLogic{
					Valid:      true,
					ActionType: "show",
					LogicType:  "all",
					Rules:      []ConditionalLogicRule{{FieldID: "1", Operator: "is", Value: "first"}},
				},
			},
		},
		Quiz: &QuizSettings{
			Grading:     "letter",
			PassPercent: 50,
			Grades:      []QuizGrade{{Text: "A", Value: 90}},
		},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("json.Unmarshal(...) (-want +got):\n%s", diff)
	}
	if got, want := got.QuizMaxScore(), 2.0; got != want {
		t.Errorf("QuizMaxScore() = %g; want %g", got, want)
	}
}

func TestFormJSONRoundTrip(t *testing.T) {
	form := &Form{
		ID:    7,
		Title: "Contact",
		Fields: []*Field{
			{ID: 1, FormID: 7, Type: "email", Label: "Email", EmailConfirmEnabled: true, RangeMin: NullFloat{Float: 1, Valid: true}},
			{ID: 2, FormID: 7, Type: "checkbox", Inputs: InputList{{ID: "2.1", Label: "A"}}},
		},
		IsActive: true,
	}
	data, err := json.Marshal(form)
	if err != nil {
		t.Fatal(err)
	}
	got := new(Form)
	if err := json.Unmarshal(data, got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(form, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestFormNullFields(t *testing.T) {
	data := []byte(`{"id": 3, "fields": [null, {"id": 1, "type": "quiz", "choices": [{"text": "A", "gquizIsCorrect": true}]}, null]}`)
	form := new(Form)
	if err := json.Unmarshal(data, form); err != nil {
		t.Fatal(err)
	}
	if got := form.Field(1); got == nil || got.Type != "quiz" {
		t.Errorf("Field(1) = %+v; want quiz field", got)
	}
	if got := form.Field(2); got != nil {
		t.Errorf("Field(2) = %+v; want <nil>", got)
	}
	if got, want := form.QuizMaxScore(), 1.0; got != want {
		t.Errorf("QuizMaxScore() = %g; want %g", got, want)
	}
}

func TestDraftValues(t *testing.T) {
	data := []byte(`{"submitted_values": {"1": "a", "2.1": "b"}, "partial_entry": {"1": "old", "3": "c"}}`)
	got, err := UnmarshalDraftValues(data)
	if err != nil {
		t.Fatal(err)
	}
	want := Values{"1": "a", "2.1": "b", "3": "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("UnmarshalDraftValues(...) (-want +got):\n%s", diff)
	}

	encoded, err := MarshalDraftValues(Values{"4": "d"})
	if err != nil {
		t.Fatal(err)
	}
	got, err = UnmarshalDraftValues(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Values{"4": "d"}, got); diff != "" {
		t.Errorf("draft round trip (-want +got):\n%s", diff)
	}
}
