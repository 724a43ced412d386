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

package telemetry

import (
	"context"
	"strconv"
	"time"

	"go.opencensus.io/trace"
	"golang.org/x/xerrors"
	"zombiezen.com/go/gfgraphql/gravityforms"
)

// InstrumentStore returns a store that records a span and metrics for each
// call to store.
func InstrumentStore(store gravityforms.Store, m *Metrics) gravityforms.Store {
	return &instrumentedStore{store: store, metrics: m, now: time.Now}
}

type instrumentedStore struct {
	store   gravityforms.Store
	metrics *Metrics
	now     func() time.Time
}

// call starts a span for method. The returned function ends it.
func (s *instrumentedStore) call(ctx context.Context, method string, attrs ...trace.Attribute) (context.Context, func(error)) {
	start := s.now()
	ctx, span := trace.StartSpan(ctx, "gravityforms.Store."+method)
	span.AddAttributes(attrs...)
	return ctx, func(err error) {
		outcome := outcomeOK
		switch {
		case xerrors.Is(err, gravityforms.ErrNotFound):
			outcome = outcomeNotFound
			span.SetStatus(trace.Status{Code: trace.StatusCodeNotFound, Message: err.Error()})
		case err != nil:
			outcome = outcomeError
			span.SetStatus(trace.Status{Code: trace.StatusCodeUnknown, Message: err.Error()})
		}
		span.End()
		s.metrics.storeCalls.WithLabelValues(method, outcome).Inc()
		s.metrics.storeDuration.WithLabelValues(method).Observe(s.now().Sub(start).Seconds())
	}
}

func idAttr(id int) trace.Attribute {
	return trace.Int64Attribute("id", int64(id))
}

func (s *instrumentedStore) Form(ctx context.Context, id int) (_ *gravityforms.Form, err error) {
	ctx, done := s.call(ctx, "Form", idAttr(id))
	defer func() { done(err) }()
	return s.store.Form(ctx, id)
}

func (s *instrumentedStore) Forms(ctx context.Context) (_ []*gravityforms.Form, err error) {
	ctx, done := s.call(ctx, "Forms")
	defer func() { done(err) }()
	return s.store.Forms(ctx)
}

func (s *instrumentedStore) Entry(ctx context.Context, id int) (_ *gravityforms.Entry, err error) {
	ctx, done := s.call(ctx, "Entry", idAttr(id))
	defer func() { done(err) }()
	return s.store.Entry(ctx, id)
}

func (s *instrumentedStore) Entries(ctx context.Context, q gravityforms.EntryQuery) (_ []*gravityforms.Entry, err error) {
	ctx, done := s.call(ctx, "Entries",
		trace.Int64Attribute("offset", int64(q.Offset)),
		trace.Int64Attribute("limit", int64(q.Limit)),
		trace.StringAttribute("form_ids", formatIDs(q.FormIDs)))
	defer func() { done(err) }()
	return s.store.Entries(ctx, q)
}

func (s *instrumentedStore) CreateEntry(ctx context.Context, e *gravityforms.Entry) (_ int, err error) {
	ctx, done := s.call(ctx, "CreateEntry", trace.Int64Attribute("form_id", int64(e.FormID)))
	defer func() { done(err) }()
	return s.store.CreateEntry(ctx, e)
}

func (s *instrumentedStore) UpdateEntry(ctx context.Context, e *gravityforms.Entry) (err error) {
	ctx, done := s.call(ctx, "UpdateEntry", idAttr(e.ID))
	defer func() { done(err) }()
	return s.store.UpdateEntry(ctx, e)
}

func (s *instrumentedStore) DeleteEntry(ctx context.Context, id int) (err error) {
	ctx, done := s.call(ctx, "DeleteEntry", idAttr(id))
	defer func() { done(err) }()
	return s.store.DeleteEntry(ctx, id)
}

func (s *instrumentedStore) DraftEntry(ctx context.Context, resumeToken string) (_ *gravityforms.DraftEntry, err error) {
	ctx, done := s.call(ctx, "DraftEntry")
	defer func() { done(err) }()
	return s.store.DraftEntry(ctx, resumeToken)
}

func (s *instrumentedStore) SaveDraftEntry(ctx context.Context, d *gravityforms.DraftEntry) (err error) {
	ctx, done := s.call(ctx, "SaveDraftEntry", trace.Int64Attribute("form_id", int64(d.FormID)))
	defer func() { done(err) }()
	return s.store.SaveDraftEntry(ctx, d)
}

func (s *instrumentedStore) DeleteDraftEntry(ctx context.Context, resumeToken string) (err error) {
	ctx, done := s.call(ctx, "DeleteDraftEntry")
	defer func() { done(err) }()
	return s.store.DeleteDraftEntry(ctx, resumeToken)
}

func formatIDs(ids []int) string {
	buf := make([]byte, 0, len(ids)*3)
	for i, id := range ids {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendInt(buf, int64(id), 10)
	}
	return string(buf)
}
