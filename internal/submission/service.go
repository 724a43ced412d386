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

package submission

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
	"zombiezen.com/go/gfgraphql/gravityforms"
)

// Result is the outcome of a mutation. If Errors is not empty, nothing was
// stored and Entry and Draft are nil.
type Result struct {
	Entry  *gravityforms.Entry
	Draft  *gravityforms.DraftEntry
	Errors []FieldError
}

// Service performs entry and draft mutations against a store.
type Service struct {
	store gravityforms.Store
	log   *zap.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// NewResumeToken returns a fresh draft resume token. Defaults to a
	// random UUID in hex without dashes.
	NewResumeToken func() string
}

// NewService returns a service that stores entries in store. log may be nil.
func NewService(store gravityforms.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:          store,
		log:            log,
		Now:            time.Now,
		NewResumeToken: newResumeToken,
	}
}

func newResumeToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Submit validates the input and creates an entry on the form.
func (s *Service) Submit(ctx context.Context, formID int, inputs []FieldValueInput, meta EntryMeta) (*Result, error) {
	form, err := s.store.Form(ctx, formID)
	if err != nil {
		return nil, xerrors.Errorf("submit form %d: %w", formID, err)
	}
	values, errs := Values(form, nil, inputs)
	if len(errs) == 0 {
		errs = Validate(form, values)
	}
	if len(errs) > 0 {
		s.log.Debug("Submission rejected", zap.Int("form_id", formID), zap.Int("errors", len(errs)))
		return &Result{Errors: errs}, nil
	}
	entry := &gravityforms.Entry{
		FormID:      formID,
		DateCreated: s.Now().UTC(),
		Status:      gravityforms.StatusActive,
		Values:      values,
	}
	if err := applyMeta(entry, meta); err != nil {
		return nil, xerrors.Errorf("submit form %d: %w", formID, err)
	}
	id, err := s.store.CreateEntry(ctx, entry)
	if err != nil {
		return nil, xerrors.Errorf("submit form %d: %w", formID, err)
	}
	s.log.Info("Entry created", zap.Int("form_id", formID), zap.Int("entry_id", id))
	entry, err = s.store.Entry(ctx, id)
	if err != nil {
		return nil, xerrors.Errorf("submit form %d: %w", formID, err)
	}
	return &Result{Entry: entry}, nil
}

// SaveDraft stores the input as a new draft without validating it.
func (s *Service) SaveDraft(ctx context.Context, formID int, inputs []FieldValueInput, meta EntryMeta) (*Result, error) {
	form, err := s.store.Form(ctx, formID)
	if err != nil {
		return nil, xerrors.Errorf("save draft for form %d: %w", formID, err)
	}
	values, errs := Values(form, nil, inputs)
	if len(errs) > 0 {
		return &Result{Errors: errs}, nil
	}
	draft := &gravityforms.DraftEntry{
		ResumeToken: s.NewResumeToken(),
		FormID:      formID,
		DateCreated: s.Now().UTC(),
		Values:      values,
	}
	applyDraftMeta(draft, meta)
	if err := s.store.SaveDraftEntry(ctx, draft); err != nil {
		return nil, xerrors.Errorf("save draft for form %d: %w", formID, err)
	}
	s.log.Info("Draft saved", zap.Int("form_id", formID), zap.String("resume_token", draft.ResumeToken))
	return s.reloadDraft(ctx, draft.ResumeToken)
}

// UpdateEntry replaces the submitted fields of an existing entry and
// validates the result.
func (s *Service) UpdateEntry(ctx context.Context, entryID int, inputs []FieldValueInput, meta EntryMeta) (*Result, error) {
	entry, err := s.store.Entry(ctx, entryID)
	if err != nil {
		return nil, xerrors.Errorf("update entry %d: %w", entryID, err)
	}
	form, err := s.store.Form(ctx, entry.FormID)
	if err != nil {
		return nil, xerrors.Errorf("update entry %d: %w", entryID, err)
	}
	values, errs := Values(form, entry.Values, inputs)
	if len(errs) == 0 {
		errs = Validate(form, values)
	}
	if len(errs) > 0 {
		return &Result{Errors: errs}, nil
	}
	entry.Values = values
	if err := applyMeta(entry, meta); err != nil {
		return nil, xerrors.Errorf("update entry %d: %w", entryID, err)
	}
	if err := s.store.UpdateEntry(ctx, entry); err != nil {
		return nil, xerrors.Errorf("update entry %d: %w", entryID, err)
	}
	s.log.Info("Entry updated", zap.Int("form_id", entry.FormID), zap.Int("entry_id", entryID))
	entry, err = s.store.Entry(ctx, entryID)
	if err != nil {
		return nil, xerrors.Errorf("update entry %d: %w", entryID, err)
	}
	return &Result{Entry: entry}, nil
}

// UpdateDraft replaces the submitted fields of a draft.
func (s *Service) UpdateDraft(ctx context.Context, resumeToken string, inputs []FieldValueInput, meta EntryMeta) (*Result, error) {
	draft, err := s.store.DraftEntry(ctx, resumeToken)
	if err != nil {
		return nil, xerrors.Errorf("update draft: %w", err)
	}
	form, err := s.store.Form(ctx, draft.FormID)
	if err != nil {
		return nil, xerrors.Errorf("update draft: %w", err)
	}
	values, errs := Values(form, draft.Values, inputs)
	if len(errs) > 0 {
		return &Result{Errors: errs}, nil
	}
	draft.Values = values
	applyDraftMeta(draft, meta)
	if err := s.store.SaveDraftEntry(ctx, draft); err != nil {
		return nil, xerrors.Errorf("update draft: %w", err)
	}
	return s.reloadDraft(ctx, resumeToken)
}

// SubmitDraft validates a draft, turns it into an entry, and deletes the
// draft.
func (s *Service) SubmitDraft(ctx context.Context, resumeToken string) (*Result, error) {
	draft, err := s.store.DraftEntry(ctx, resumeToken)
	if err != nil {
		return nil, xerrors.Errorf("submit draft: %w", err)
	}
	form, err := s.store.Form(ctx, draft.FormID)
	if err != nil {
		return nil, xerrors.Errorf("submit draft: %w", err)
	}
	if errs := Validate(form, draft.Values); len(errs) > 0 {
		return &Result{Errors: errs}, nil
	}
	entry := &gravityforms.Entry{
		FormID:      draft.FormID,
		DateCreated: s.Now().UTC(),
		Status:      gravityforms.StatusActive,
		IP:          draft.IP,
		SourceURL:   draft.SourceURL,
		Values:      draft.Values,
	}
	id, err := s.store.CreateEntry(ctx, entry)
	if err != nil {
		return nil, xerrors.Errorf("submit draft: %w", err)
	}
	// The entry exists now, so a failed cleanup must not report the
	// submission as failed.
	if err := s.store.DeleteDraftEntry(ctx, resumeToken); err != nil {
		s.log.Error("Failed to delete submitted draft",
			zap.Int("entry_id", id),
			zap.String("resume_token", resumeToken),
			zap.Error(err))
	}
	s.log.Info("Draft submitted", zap.Int("form_id", draft.FormID), zap.Int("entry_id", id))
	entry, err = s.store.Entry(ctx, id)
	if err != nil {
		return nil, xerrors.Errorf("submit draft: %w", err)
	}
	return &Result{Entry: entry}, nil
}

// DeleteEntry moves an entry to the trash, or deletes it permanently if force
// is set. It returns the entry as it was before deletion.
func (s *Service) DeleteEntry(ctx context.Context, id int, force bool) (*gravityforms.Entry, error) {
	entry, err := s.store.Entry(ctx, id)
	if err != nil {
		return nil, xerrors.Errorf("delete entry %d: %w", id, err)
	}
	if force {
		err = s.store.DeleteEntry(ctx, id)
	} else {
		trashed := *entry
		trashed.Status = gravityforms.StatusTrash
		err = s.store.UpdateEntry(ctx, &trashed)
	}
	if err != nil {
		return nil, xerrors.Errorf("delete entry %d: %w", id, err)
	}
	s.log.Info("Entry deleted", zap.Int("entry_id", id), zap.Bool("force", force))
	return entry, nil
}

// DeleteDraft deletes a draft and returns it.
func (s *Service) DeleteDraft(ctx context.Context, resumeToken string) (*gravityforms.DraftEntry, error) {
	draft, err := s.store.DraftEntry(ctx, resumeToken)
	if err != nil {
		return nil, xerrors.Errorf("delete draft: %w", err)
	}
	if err := s.store.DeleteDraftEntry(ctx, resumeToken); err != nil {
		return nil, xerrors.Errorf("delete draft: %w", err)
	}
	return draft, nil
}

func (s *Service) reloadDraft(ctx context.Context, resumeToken string) (*Result, error) {
	draft, err := s.store.DraftEntry(ctx, resumeToken)
	if err != nil {
		return nil, xerrors.Errorf("reload draft: %w", err)
	}
	return &Result{Draft: draft}, nil
}

func applyMeta(entry *gravityforms.Entry, meta EntryMeta) error {
	if meta.CreatedByID != nil {
		entry.CreatedByID = *meta.CreatedByID
	}
	if meta.DateCreated != nil {
		t, err := time.Parse(gravityforms.DateLayout, *meta.DateCreated)
		if err != nil {
			return xerrors.Errorf("entry meta: dateCreatedGmt: %w", err)
		}
		entry.DateCreated = t
	}
	if meta.IP != nil {
		entry.IP = *meta.IP
	}
	if meta.SourceURL != nil {
		entry.SourceURL = *meta.SourceURL
	}
	if meta.UserAgent != nil {
		entry.UserAgent = *meta.UserAgent
	}
	return nil
}

func applyDraftMeta(draft *gravityforms.DraftEntry, meta EntryMeta) {
	if meta.IP != nil {
		draft.IP = *meta.IP
	}
	if meta.SourceURL != nil {
		draft.SourceURL = *meta.SourceURL
	}
}
