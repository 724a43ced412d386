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

package wpdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
	"zombiezen.com/go/gfgraphql/gravityforms"
)

var testNow = time.Date(2024, time.March, 1, 12, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	s, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "wordpress.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.CreateTables(context.Background()))
	return s
}

func testForm(id int) *gravityforms.Form {
	return &gravityforms.Form{
		ID:          id,
		Title:       "Contact",
		IsActive:    true,
		DateCreated: time.Date(2023, time.June, 2, 8, 0, 0, 0, time.UTC),
		Fields: []*gravityforms.Field{
			{ID: 1, Type: "text", Label: "Name", IsRequired: true},
			{ID: 2, Type: "email", Label: "Email"},
		},
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("postgres", "")
	assert.Error(t, err)
}

func TestForms(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.SaveForm(ctx, testForm(2)))
	require.NoError(t, s.SaveForm(ctx, testForm(1)))
	trashed := testForm(3)
	trashed.IsTrash = true
	require.NoError(t, s.SaveForm(ctx, trashed))

	form, err := s.Form(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, form.ID)
	assert.Equal(t, "Contact", form.Title)
	assert.True(t, bool(form.IsActive))
	assert.Equal(t, time.Date(2023, time.June, 2, 8, 0, 0, 0, time.UTC), form.DateCreated)
	require.Len(t, form.Fields, 2)
	assert.Equal(t, "Name", form.Fields[0].Label)
	assert.Equal(t, 1, form.Fields[0].FormID)
	assert.True(t, bool(form.Fields[0].IsRequired))

	forms, err := s.Forms(ctx)
	require.NoError(t, err)
	var ids []int
	for _, f := range forms {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []int{1, 2}, ids)

	_, err = s.Form(ctx, 42)
	assert.True(t, xerrors.Is(err, gravityforms.ErrNotFound), "Form(42) error = %v; want ErrNotFound", err)
}

func TestSaveFormReplaces(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.SaveForm(ctx, testForm(1)))
	updated := testForm(1)
	updated.Title = "Renamed"
	updated.Fields = updated.Fields[:1]
	require.NoError(t, s.SaveForm(ctx, updated))

	form, err := s.Form(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", form.Title)
	assert.Len(t, form.Fields, 1)
}

func TestEntryLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, WithTablePrefix("wp_test_"))
	require.NoError(t, s.SaveForm(ctx, testForm(1)))

	created := time.Date(2024, time.February, 29, 9, 15, 0, 0, time.UTC)
	id, err := s.CreateEntry(ctx, &gravityforms.Entry{
		FormID:      1,
		DateCreated: created,
		IP:          "127.0.0.1",
		SourceURL:   "https://example.com/contact",
		Currency:    "USD",
		CreatedByID: 7,
		Values: gravityforms.Values{
			"1":   "Ada",
			"2":   "ada@example.com",
			"3":   []interface{}{"x", "y"},
			"4":   nil,
			"2.1":   "",
		},
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	e, err := s.Entry(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, e.ID)
	assert.Equal(t, 1, e.FormID)
	assert.Equal(t, gravityforms.StatusActive, e.Status)
	assert.Equal(t, created, e.DateCreated)
	assert.Equal(t, testNow, e.DateUpdated)
	assert.Equal(t, "127.0.0.1", e.IP)
	assert.Equal(t, 7, e.CreatedByID)
	assert.Equal(t, 0, e.PostID)
	assert.Equal(t, gravityforms.Values{
		"1":   "Ada",
		"2":   "ada@example.com",
		"3":   `["x","y"]`,
		"2.1": "",
	}, e.Values)

	e.IsStarred = true
	e.Values = gravityforms.Values{"1": "Grace"}
	require.NoError(t, s.UpdateEntry(ctx, e))
	e, err = s.Entry(ctx, id)
	require.NoError(t, err)
	assert.True(t, e.IsStarred)
	assert.Equal(t, gravityforms.Values{"1": "Grace"}, e.Values)

	require.NoError(t, s.DeleteEntry(ctx, id))
	_, err = s.Entry(ctx, id)
	assert.True(t, xerrors.Is(err, gravityforms.ErrNotFound), "Entry after delete error = %v; want ErrNotFound", err)
	err = s.DeleteEntry(ctx, id)
	assert.True(t, xerrors.Is(err, gravityforms.ErrNotFound), "second DeleteEntry error = %v; want ErrNotFound", err)
	err = s.UpdateEntry(ctx, e)
	assert.True(t, xerrors.Is(err, gravityforms.ErrNotFound), "UpdateEntry after delete error = %v; want ErrNotFound", err)
}

func TestEntries(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	var ids []int
	for i, formID := range []int{1, 2, 1, 1} {
		id, err := s.CreateEntry(ctx, &gravityforms.Entry{
			FormID: formID,
			Values: gravityforms.Values{"1": string(rune('a' + i))},
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	_, err := s.CreateEntry(ctx, &gravityforms.Entry{FormID: 1, Status: gravityforms.StatusTrash})
	require.NoError(t, err)

	tests := []struct {
		name string
		q    gravityforms.EntryQuery
		want []int
	}{
		{"All", gravityforms.EntryQuery{}, []int{ids[3], ids[2], ids[1], ids[0]}},
		{"Form", gravityforms.EntryQuery{FormIDs: []int{1}}, []int{ids[3], ids[2], ids[0]}},
		{"Page", gravityforms.EntryQuery{Offset: 1, Limit: 2}, []int{ids[2], ids[1]}},
		{"MultipleForms", gravityforms.EntryQuery{FormIDs: []int{1, 2}, Limit: 1}, []int{ids[3]}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			entries, err := s.Entries(ctx, test.q)
			require.NoError(t, err)
			var got []int
			for _, e := range entries {
				got = append(got, e.ID)
				assert.Contains(t, e.Values, "1")
			}
			assert.Equal(t, test.want, got)
		})
	}
}

func TestDraftEntries(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	draft := &gravityforms.DraftEntry{
		ResumeToken: "0123456789abcdef0123456789abcdef",
		FormID:      1,
		DateCreated: testNow,
		Email:       "ada@example.com",
		Values:      gravityforms.Values{"1": "Ada", "3.1": "Option"},
	}
	require.NoError(t, s.SaveDraftEntry(ctx, draft))

	got, err := s.DraftEntry(ctx, draft.ResumeToken)
	require.NoError(t, err)
	assert.Equal(t, draft, got)

	draft.Values["1"] = "Grace"
	require.NoError(t, s.SaveDraftEntry(ctx, draft))
	got, err = s.DraftEntry(ctx, draft.ResumeToken)
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.Values["1"])

	require.NoError(t, s.DeleteDraftEntry(ctx, draft.ResumeToken))
	_, err = s.DraftEntry(ctx, draft.ResumeToken)
	assert.True(t, xerrors.Is(err, gravityforms.ErrNotFound), "DraftEntry after delete error = %v; want ErrNotFound", err)
	err = s.DeleteDraftEntry(ctx, draft.ResumeToken)
	assert.True(t, xerrors.Is(err, gravityforms.ErrNotFound), "second DeleteDraftEntry error = %v; want ErrNotFound", err)
}

func TestMetaValue(t *testing.T) {
	tests := []struct {
		v      interface{}
		want   string
		wantOK bool
	}{
		{nil, "", false},
		{"", "", true},
		{"abc", "abc", true},
		{[]string{"a", "b"}, `["a","b"]`, true},
		{map[string]interface{}{"x": 1.5}, `{"x":1.5}`, true},
		{3.0, "3", true},
	}
	for _, test := range tests {
		got, ok := metaValue(test.v)
		if got != test.want || ok != test.wantOK {
			t.Errorf("metaValue(%#v) = %q, %t; want %q, %t", test.v, got, ok, test.want, test.wantOK)
		}
	}
}
