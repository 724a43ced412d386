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
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/xerrors"
	"zombiezen.com/go/gfgraphql/gravityforms"
	"zombiezen.com/go/gfgraphql/gravityforms/gftest"
)

var testTime = time.Date(2020, time.March, 14, 15, 9, 26, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *gftest.Store) {
	t.Helper()
	store := gftest.NewStore(testForm())
	store.Now = func() time.Time { return testTime }
	svc := NewService(store, nil)
	svc.Now = store.Now
	svc.NewResumeToken = func() string { return "abc123" }
	return svc, store
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	t.Run("Success", func(t *testing.T) {
		svc, _ := newTestService(t)
		ip := "192.0.2.1"
		res, err := svc.Submit(ctx, 1, []FieldValueInput{
			{ID: 1, Value: strPtr("hello")},
			{ID: 3, Values: []string{"second"}},
		}, EntryMeta{IP: &ip})
		if err != nil {
			t.Fatal(err)
		}
		want := &Result{Entry: &gravityforms.Entry{
			ID:          1,
			FormID:      1,
			DateCreated: testTime,
			DateUpdated: testTime,
			IP:          ip,
			Status:      gravityforms.StatusActive,
			Values:      gravityforms.Values{"1": "hello", "3": `["second"]`},
		}}
		if diff := cmp.Diff(want, res); diff != "" {
			t.Errorf("Submit(...) (-want +got):\n%s", diff)
		}
	})
	t.Run("ValidationErrors", func(t *testing.T) {
		svc, store := newTestService(t)
		res, err := svc.Submit(ctx, 1, []FieldValueInput{{ID: 6, Value: strPtr("42")}}, EntryMeta{})
		if err != nil {
			t.Fatal(err)
		}
		want := []FieldError{
			{ID: 1, Message: "This field is required."},
			{ID: 6, Message: "Please enter a number between 1 and 10."},
		}
		if diff := cmp.Diff(want, res.Errors); diff != "" {
			t.Errorf("Submit(...).Errors (-want +got):\n%s", diff)
		}
		if res.Entry != nil {
			t.Errorf("Submit(...).Entry = %+v; want <nil>", res.Entry)
		}
		entries, err := store.Entries(ctx, gravityforms.EntryQuery{})
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 0 {
			t.Errorf("store has %d entries after failed submission; want 0", len(entries))
		}
	})
	t.Run("UnknownForm", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Submit(ctx, 42, nil, EntryMeta{})
		if !xerrors.Is(err, gravityforms.ErrNotFound) {
			t.Errorf("Submit(ctx, 42, ...) = _, %v; want %v", err, gravityforms.ErrNotFound)
		}
	})
	t.Run("BadDate", func(t *testing.T) {
		svc, _ := newTestService(t)
		date := "yesterday"
		_, err := svc.Submit(ctx, 1, []FieldValueInput{{ID: 1, Value: strPtr("x")}}, EntryMeta{DateCreated: &date})
		if err == nil {
			t.Error("Submit with bad dateCreatedGmt did not return an error")
		}
	})
}

func TestDraftLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	// Drafts are not validated.
	res, err := svc.SaveDraft(ctx, 1, []FieldValueInput{{ID: 6, Value: strPtr("99")}}, EntryMeta{})
	if err != nil {
		t.Fatal(err)
	}
	wantDraft := &gravityforms.DraftEntry{
		ResumeToken: "abc123",
		FormID:      1,
		DateCreated: testTime,
		Values:      gravityforms.Values{"6": "99"},
	}
	if diff := cmp.Diff(&Result{Draft: wantDraft}, res); diff != "" {
		t.Errorf("SaveDraft(...) (-want +got):\n%s", diff)
	}

	res, err = svc.UpdateDraft(ctx, "abc123", []FieldValueInput{{ID: 1, Value: strPtr("hi")}}, EntryMeta{})
	if err != nil {
		t.Fatal(err)
	}
	wantDraft.Values = gravityforms.Values{"1": "hi", "6": "99"}
	if diff := cmp.Diff(&Result{Draft: wantDraft}, res); diff != "" {
		t.Errorf("UpdateDraft(...) (-want +got):\n%s", diff)
	}

	res, err = svc.SubmitDraft(ctx, "abc123")
	if err != nil {
		t.Fatal(err)
	}
	wantErrs := []FieldError{{ID: 6, Message: "Please enter a number between 1 and 10."}}
	if diff := cmp.Diff(wantErrs, res.Errors); diff != "" {
		t.Errorf("SubmitDraft(...) errors (-want +got):\n%s", diff)
	}

	if _, err := svc.UpdateDraft(ctx, "abc123", []FieldValueInput{{ID: 6, Value: strPtr("7")}}, EntryMeta{}); err != nil {
		t.Fatal(err)
	}
	res, err = svc.SubmitDraft(ctx, "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Errors) > 0 || res.Entry == nil {
		t.Fatalf("SubmitDraft(...) = %+v; want entry", res)
	}
	wantValues := gravityforms.Values{"1": "hi", "6": "7"}
	if diff := cmp.Diff(wantValues, res.Entry.Values); diff != "" {
		t.Errorf("submitted entry values (-want +got):\n%s", diff)
	}
	if _, err := store.DraftEntry(ctx, "abc123"); !xerrors.Is(err, gravityforms.ErrNotFound) {
		t.Errorf("draft after submission: err = %v; want %v", err, gravityforms.ErrNotFound)
	}
}

// failingDeleteStore is a store that cannot delete drafts.
type failingDeleteStore struct {
	*gftest.Store
}

func (failingDeleteStore) DeleteDraftEntry(ctx context.Context, resumeToken string) error {
	return xerrors.New("database is locked")
}

func TestSubmitDraftKeepsEntryWhenCleanupFails(t *testing.T) {
	ctx := context.Background()
	store := gftest.NewStore(testForm())
	store.Now = func() time.Time { return testTime }
	svc := NewService(failingDeleteStore{store}, nil)
	svc.Now = store.Now
	svc.NewResumeToken = func() string { return "abc123" }

	if _, err := svc.SaveDraft(ctx, 1, []FieldValueInput{{ID: 1, Value: strPtr("hi")}}, EntryMeta{}); err != nil {
		t.Fatal(err)
	}
	res, err := svc.SubmitDraft(ctx, "abc123")
	if err != nil {
		t.Fatalf("SubmitDraft(...) = _, %v; want entry", err)
	}
	if len(res.Errors) > 0 || res.Entry == nil {
		t.Fatalf("SubmitDraft(...) = %+v; want entry", res)
	}
	entries, err := store.Entries(ctx, gravityforms.EntryQuery{FormIDs: []int{1}})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("stored entries = %d; want 1", len(entries))
	}
}

func TestUpdateEntry(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	id := store.AddEntry(&gravityforms.Entry{
		FormID: 1,
		Values: gravityforms.Values{"1": "old", "5": "a@example.com"},
	})
	res, err := svc.UpdateEntry(ctx, id, []FieldValueInput{{ID: 1, Value: strPtr("new")}}, EntryMeta{})
	if err != nil {
		t.Fatal(err)
	}
	want := gravityforms.Values{"1": "new", "5": "a@example.com"}
	if diff := cmp.Diff(want, res.Entry.Values); diff != "" {
		t.Errorf("UpdateEntry(...) values (-want +got):\n%s", diff)
	}

	res, err = svc.UpdateEntry(ctx, id, []FieldValueInput{{ID: 1, Value: strPtr("")}}, EntryMeta{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]FieldError{{ID: 1, Message: "This field is required."}}, res.Errors); diff != "" {
		t.Errorf("UpdateEntry clearing required field (-want +got):\n%s", diff)
	}
	got, err := store.Entry(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Values["1"] != "new" {
		t.Errorf("stored value after rejected update = %v; want new", got.Values["1"])
	}
}

func TestDeleteEntry(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	id := store.AddEntry(&gravityforms.Entry{FormID: 1, Values: gravityforms.Values{"1": "x"}})

	prev, err := svc.DeleteEntry(ctx, id, false)
	if err != nil {
		t.Fatal(err)
	}
	if prev.Status != gravityforms.StatusActive {
		t.Errorf("DeleteEntry returned status %q; want %q", prev.Status, gravityforms.StatusActive)
	}
	trashed, err := store.Entry(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if trashed.Status != gravityforms.StatusTrash {
		t.Errorf("status after trash = %q; want %q", trashed.Status, gravityforms.StatusTrash)
	}

	if _, err := svc.DeleteEntry(ctx, id, true); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Entry(ctx, id); !xerrors.Is(err, gravityforms.ErrNotFound) {
		t.Errorf("entry after forced delete: err = %v; want %v", err, gravityforms.ErrNotFound)
	}
	if _, err := svc.DeleteEntry(ctx, id, true); !xerrors.Is(err, gravityforms.ErrNotFound) {
		t.Errorf("second delete: err = %v; want %v", err, gravityforms.ErrNotFound)
	}
}

func TestDeleteDraft(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	if _, err := svc.SaveDraft(ctx, 1, nil, EntryMeta{}); err != nil {
		t.Fatal(err)
	}
	d, err := svc.DeleteDraft(ctx, "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if d.ResumeToken != "abc123" {
		t.Errorf("DeleteDraft(...).ResumeToken = %q; want abc123", d.ResumeToken)
	}
	if _, err := svc.DeleteDraft(ctx, "abc123"); !xerrors.Is(err, gravityforms.ErrNotFound) {
		t.Errorf("second DeleteDraft: err = %v; want %v", err, gravityforms.ErrNotFound)
	}
}

func TestNewResumeToken(t *testing.T) {
	tok := newResumeToken()
	if len(tok) != 32 {
		t.Errorf("len(newResumeToken()) = %d; want 32", len(tok))
	}
}
