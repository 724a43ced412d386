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
	"context"

	"golang.org/x/xerrors"
)

// ErrNotFound is returned by a Store when the requested form, entry, or draft
// does not exist.
var ErrNotFound = xerrors.New("not found")

// EntryQuery filters the entries returned by Store.Entries.
type EntryQuery struct {
	// FormIDs restricts results to the given forms. Empty means all forms.
	FormIDs []int
	// Status restricts results to a status. Empty means StatusActive.
	Status string
	Offset int
	// Limit is the maximum number of entries returned. Zero means no limit.
	Limit int
}

// FormStore reads form definitions.
type FormStore interface {
	// Form returns the form with the given id.
	Form(ctx context.Context, id int) (*Form, error)
	// Forms returns every active form that is not in the trash, ordered by id.
	Forms(ctx context.Context) ([]*Form, error)
}

// Store is the Gravity Forms data owned by WordPress: forms, entries, and
// draft submissions.
type Store interface {
	FormStore

	Entry(ctx context.Context, id int) (*Entry, error)
	// Entries returns matching entries, newest first.
	Entries(ctx context.Context, q EntryQuery) ([]*Entry, error)
	// CreateEntry stores a new entry and returns its id. The entry's ID field
	// is ignored.
	CreateEntry(ctx context.Context, e *Entry) (int, error)
	// UpdateEntry replaces an existing entry's metadata and values.
	UpdateEntry(ctx context.Context, e *Entry) error
	DeleteEntry(ctx context.Context, id int) error

	DraftEntry(ctx context.Context, resumeToken string) (*DraftEntry, error)
	// SaveDraftEntry creates or replaces the draft with d.ResumeToken.
	SaveDraftEntry(ctx context.Context, d *DraftEntry) error
	DeleteDraftEntry(ctx context.Context, resumeToken string) error
}
