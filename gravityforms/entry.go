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
	"time"
)

// Entry statuses.
const (
	StatusActive = "active"
	StatusSpam   = "spam"
	StatusTrash  = "trash"
)

// DateLayout is the layout of the GMT dates Gravity Forms stores.
const DateLayout = "2006-01-02 15:04:05"

// Values maps a stringified field or input id to its stored value. Values
// are usually strings, but arrays and already-decoded JSON also occur.
type Values map[string]interface{}

// Clone returns a shallow copy of v.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	clone := make(Values, len(v))
	for k, val := range v {
		clone[k] = val
	}
	return clone
}

// Merge copies every value in other into v and returns v. A nil v is
// allocated.
func (v Values) Merge(other Values) Values {
	if v == nil {
		v = make(Values, len(other))
	}
	for k, val := range other {
		v[k] = val
	}
	return v
}

// Entry is a submitted form response.
type Entry struct {
	ID          int
	FormID      int
	PostID      int
	DateCreated time.Time
	DateUpdated time.Time
	IsStarred   bool
	IsRead      bool
	IP          string
	SourceURL   string
	UserAgent   string
	Currency    string
	Status      string
	CreatedByID int
	Values      Values
}

// Key returns the entry id as Gravity Forms formats it.
func (e *Entry) Key() string {
	return strconv.Itoa(e.ID)
}

// DraftEntry is a partially completed submission that can be resumed with its
// token.
type DraftEntry struct {
	ResumeToken string
	FormID      int
	DateCreated time.Time
	Email       string
	IP          string
	SourceURL   string
	Values      Values
}

// draftSubmission is the JSON document Gravity Forms stores for a draft.
type draftSubmission struct {
	SubmittedValues Values `json:"submitted_values"`
	PartialEntry    Values `json:"partial_entry,omitempty"`
}

// MarshalDraftValues encodes draft values in the draft submission format.
func MarshalDraftValues(v Values) ([]byte, error) {
	if v == nil {
		v = Values{}
	}
	return json.Marshal(draftSubmission{SubmittedValues: v})
}

// UnmarshalDraftValues decodes the values of a draft submission document.
// Documents written by Gravity Forms itself carry the values under
// partial_entry as well; submitted_values takes precedence.
func UnmarshalDraftValues(data []byte) (Values, error) {
	var doc draftSubmission
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return Values(nil).Merge(doc.PartialEntry).Merge(doc.SubmittedValues), nil
}
