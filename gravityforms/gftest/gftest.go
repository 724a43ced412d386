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

// Package gftest provides an in-memory gravityforms.Store for tests.
package gftest

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"golang.org/x/xerrors"
	"zombiezen.com/go/gfgraphql/gravityforms"
)

// Store is an in-memory gravityforms.Store. The zero value is not usable; use
// NewStore.
type Store struct {
	mu      sync.Mutex
	forms   map[int]*gravityforms.Form
	entries map[int]*gravityforms.Entry
	drafts  map[string]*gravityforms.DraftEntry
	nextID  int

	// Now returns the time stamped on created and updated entries. It
	// defaults to time.Now.
	Now func() time.Time
}

var _ gravityforms.Store = (*Store)(nil)

// NewStore returns a store holding the given forms.
func NewStore(forms ...*gravityforms.Form) *Store {
	s := &Store{
		forms:   make(map[int]*gravityforms.Form),
		entries: make(map[int]*gravityforms.Entry),
		drafts:  make(map[string]*gravityforms.DraftEntry),
		nextID:  1,
		Now:     time.Now,
	}
	for _, f := range forms {
		s.AddForm(f)
	}
	return s
}

// AddForm adds or replaces a form. Fields without a form id get the form's id.
func (s *Store) AddForm(form *gravityforms.Form) {
	form = cloneForm(form)
	for _, f := range form.Fields {
		if f != nil && f.FormID == 0 {
			f.FormID = form.ID
		}
	}
	s.mu.Lock()
	s.forms[form.ID] = form
	s.mu.Unlock()
}

// AddEntry stores e with its own id. It returns the id.
func (s *Store) AddEntry(e *gravityforms.Entry) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	e = cloneEntry(e)
	if e.ID == 0 {
		e.ID = s.nextID
	}
	if e.ID >= s.nextID {
		s.nextID = e.ID + 1
	}
	if e.Status == "" {
		e.Status = gravityforms.StatusActive
	}
	s.entries[e.ID] = e
	return e.ID
}

// Form implements gravityforms.FormStore.
func (s *Store) Form(ctx context.Context, id int) (*gravityforms.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	form := s.forms[id]
	if form == nil {
		return nil, xerrors.Errorf("form %d: %w", id, gravityforms.ErrNotFound)
	}
	return cloneForm(form), nil
}

// Forms implements gravityforms.FormStore.
func (s *Store) Forms(ctx context.Context) ([]*gravityforms.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var forms []*gravityforms.Form
	for _, form := range s.forms {
		if form.IsTrash {
			continue
		}
		forms = append(forms, cloneForm(form))
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].ID < forms[j].ID })
	return forms, nil
}

// Entry implements gravityforms.Store.
func (s *Store) Entry(ctx context.Context, id int) (*gravityforms.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[id]
	if e == nil {
		return nil, xerrors.Errorf("entry %d: %w", id, gravityforms.ErrNotFound)
	}
	return cloneEntry(e), nil
}

// Entries implements gravityforms.Store.
func (s *Store) Entries(ctx context.Context, q gravityforms.EntryQuery) ([]*gravityforms.Entry, error) {
	status := q.Status
	if status == "" {
		status = gravityforms.StatusActive
	}
	formFilter := make(map[int]bool, len(q.FormIDs))
	for _, id := range q.FormIDs {
		formFilter[id] = true
	}
	s.mu.Lock()
	var list []*gravityforms.Entry
	for _, e := range s.entries {
		if e.Status != status || (len(formFilter) > 0 && !formFilter[e.FormID]) {
			continue
		}
		list = append(list, cloneEntry(e))
	}
	s.mu.Unlock()
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	if q.Offset >= len(list) {
		return nil, nil
	}
	list = list[q.Offset:]
	if q.Limit > 0 && q.Limit < len(list) {
		list = list[:q.Limit]
	}
	return list, nil
}

// CreateEntry implements gravityforms.Store.
func (s *Store) CreateEntry(ctx context.Context, e *gravityforms.Entry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forms[e.FormID] == nil {
		return 0, xerrors.Errorf("create entry: form %d: %w", e.FormID, gravityforms.ErrNotFound)
	}
	e = cloneEntry(e)
	e.ID = s.nextID
	s.nextID++
	now := s.Now().UTC()
	if e.DateCreated.IsZero() {
		e.DateCreated = now
	}
	e.DateUpdated = now
	if e.Status == "" {
		e.Status = gravityforms.StatusActive
	}
	s.entries[e.ID] = e
	return e.ID, nil
}

// UpdateEntry implements gravityforms.Store.
func (s *Store) UpdateEntry(ctx context.Context, e *gravityforms.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries[e.ID] == nil {
		return xerrors.Errorf("update entry %d: %w", e.ID, gravityforms.ErrNotFound)
	}
	e = cloneEntry(e)
	e.DateUpdated = s.Now().UTC()
	s.entries[e.ID] = e
	return nil
}

// DeleteEntry implements gravityforms.Store.
func (s *Store) DeleteEntry(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries[id] == nil {
		return xerrors.Errorf("delete entry %d: %w", id, gravityforms.ErrNotFound)
	}
	delete(s.entries, id)
	return nil
}

// DraftEntry implements gravityforms.Store.
func (s *Store) DraftEntry(ctx context.Context, resumeToken string) (*gravityforms.DraftEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.drafts[resumeToken]
	if d == nil {
		return nil, xerrors.Errorf("draft entry %q: %w", resumeToken, gravityforms.ErrNotFound)
	}
	return cloneDraft(d), nil
}

// SaveDraftEntry implements gravityforms.Store.
func (s *Store) SaveDraftEntry(ctx context.Context, d *gravityforms.DraftEntry) error {
	if d.ResumeToken == "" {
		return xerrors.New("save draft entry: empty resume token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d = cloneDraft(d)
	if d.DateCreated.IsZero() {
		d.DateCreated = s.Now().UTC()
	}
	s.drafts[d.ResumeToken] = d
	return nil
}

// DeleteDraftEntry implements gravityforms.Store.
func (s *Store) DeleteDraftEntry(ctx context.Context, resumeToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drafts[resumeToken] == nil {
		return xerrors.Errorf("delete draft entry %q: %w", resumeToken, gravityforms.ErrNotFound)
	}
	delete(s.drafts, resumeToken)
	return nil
}

func cloneForm(form *gravityforms.Form) *gravityforms.Form {
	// A JSON round trip copies every nested slice. Forms only hold JSON-safe
	// data.
	data, err := json.Marshal(form)
	if err != nil {
		panic(err)
	}
	clone := new(gravityforms.Form)
	if err := json.Unmarshal(data, clone); err != nil {
		panic(err)
	}
	clone.DateCreated = form.DateCreated
	return clone
}

func cloneEntry(e *gravityforms.Entry) *gravityforms.Entry {
	clone := *e
	clone.Values = e.Values.Clone()
	return &clone
}

func cloneDraft(d *gravityforms.DraftEntry) *gravityforms.DraftEntry {
	clone := *d
	clone.Values = d.Values.Clone()
	return &clone
}
