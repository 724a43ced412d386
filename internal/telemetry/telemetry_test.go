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
	"sync"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opencensus.io/trace"
	"golang.org/x/xerrors"
	"zombiezen.com/go/gfgraphql/gravityforms"
	"zombiezen.com/go/gfgraphql/gravityforms/gftest"
)

// spanRecorder is a trace.Exporter that keeps every span.
type spanRecorder struct {
	mu    sync.Mutex
	spans []*trace.SpanData
}

func (r *spanRecorder) ExportSpan(s *trace.SpanData) {
	r.mu.Lock()
	r.spans = append(r.spans, s)
	r.mu.Unlock()
}

func (r *spanRecorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.spans))
	for _, s := range r.spans {
		names = append(names, s.Name)
	}
	return names
}

func recordSpans(t *testing.T) *spanRecorder {
	t.Helper()
	r := new(spanRecorder)
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	trace.RegisterExporter(r)
	t.Cleanup(func() { trace.UnregisterExporter(r) })
	return r
}

func newMetrics(t *testing.T) *Metrics {
	t.Helper()
	m, err := NewMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNewMetricsDuplicate(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewMetrics(reg); err != nil {
		t.Fatal(err)
	}
	if _, err := NewMetrics(reg); err == nil {
		t.Error("second NewMetrics on the same registry did not return an error")
	}
}

func TestExtension(t *testing.T) {
	spans := recordSpans(t)
	m := newMetrics(t)
	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name: "Query",
			Fields: graphql.Fields{
				"greeting": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return "Hello", nil
					},
				},
				"broken": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return nil, xerrors.New("bork")
					},
				},
			},
		}),
		Extensions: []graphql.Extension{NewExtension(m)},
	})
	if err != nil {
		t.Fatal(err)
	}
	do := func(query, opName string) *graphql.Result {
		return graphql.Do(graphql.Params{
			Schema:        schema,
			RequestString: query,
			OperationName: opName,
			Context:       context.Background(),
		})
	}

	if result := do(`query Greet { greeting }`, "Greet"); result.HasErrors() {
		t.Fatalf("greeting errors: %v", result.Errors)
	}
	if result := do(`{ broken }`, ""); !result.HasErrors() {
		t.Error("broken did not return an error")
	}
	if result := do(`{ nope }`, ""); !result.HasErrors() {
		t.Error("unknown field did not return an error")
	}
	if result := do(`{`, ""); !result.HasErrors() {
		t.Error("syntax error did not return an error")
	}

	counts := []struct {
		c    prometheus.Collector
		want float64
	}{
		{m.operations.WithLabelValues("query", outcomeOK), 1},
		{m.operations.WithLabelValues("query", outcomeError), 1},
		{m.operations.WithLabelValues("unknown", outcomeInvalid), 1},
		{m.operations.WithLabelValues("unknown", outcomeParseError), 1},
		{m.rootFields.WithLabelValues("Query.greeting", outcomeOK), 1},
		{m.rootFields.WithLabelValues("Query.broken", outcomeError), 1},
	}
	for _, c := range counts {
		if got := testutil.ToFloat64(c.c); got != c.want {
			t.Errorf("%v = %v; want %v", c.c.(prometheus.Metric).Desc(), got, c.want)
		}
	}
	if got := testutil.CollectAndCount(m.operationDuration); got != 2 {
		t.Errorf("operation duration series = %d; want 2", got)
	}

	names := spans.names()
	if len(names) != 4 {
		t.Fatalf("recorded spans %q; want 4", names)
	}
	if names[0] != "graphql.Greet" || names[1] != "graphql" {
		t.Errorf("span names = %q; want [graphql.Greet graphql ...]", names)
	}
}

func TestInstrumentStore(t *testing.T) {
	ctx := context.Background()
	spans := recordSpans(t)
	m := newMetrics(t)
	mem := gftest.NewStore(&gravityforms.Form{ID: 1, Title: "Contact", IsActive: true})
	store := InstrumentStore(mem, m)

	if _, err := store.Form(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Form(ctx, 2); !xerrors.Is(err, gravityforms.ErrNotFound) {
		t.Errorf("Form(2) error = %v; want ErrNotFound", err)
	}
	id, err := store.CreateEntry(ctx, &gravityforms.Entry{FormID: 1})
	if err != nil {
		t.Fatal(err)
	}
	entries, err := store.Entries(ctx, gravityforms.EntryQuery{FormIDs: []int{1}})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != id {
		t.Errorf("Entries(...) returned %d entries; want the one created", len(entries))
	}
	if err := store.DeleteDraftEntry(ctx, "missing"); !xerrors.Is(err, gravityforms.ErrNotFound) {
		t.Errorf("DeleteDraftEntry error = %v; want ErrNotFound", err)
	}

	counts := []struct {
		method, outcome string
		want            float64
	}{
		{"Form", outcomeOK, 1},
		{"Form", outcomeNotFound, 1},
		{"CreateEntry", outcomeOK, 1},
		{"Entries", outcomeOK, 1},
		{"DeleteDraftEntry", outcomeNotFound, 1},
		{"Forms", outcomeOK, 0},
	}
	for _, c := range counts {
		if got := testutil.ToFloat64(m.storeCalls.WithLabelValues(c.method, c.outcome)); got != c.want {
			t.Errorf("store_calls_total{method=%q,outcome=%q} = %v; want %v", c.method, c.outcome, got, c.want)
		}
	}

	names := spans.names()
	want := []string{
		"gravityforms.Store.Form",
		"gravityforms.Store.Form",
		"gravityforms.Store.CreateEntry",
		"gravityforms.Store.Entries",
		"gravityforms.Store.DeleteDraftEntry",
	}
	if len(names) != len(want) {
		t.Fatalf("span names = %q; want %q", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("span[%d] = %q; want %q", i, names[i], want[i])
		}
	}
}

func TestFormatIDs(t *testing.T) {
	tests := []struct {
		ids  []int
		want string
	}{
		{nil, ""},
		{[]int{7}, "7"},
		{[]int{1, 22, 333}, "1,22,333"},
	}
	for _, test := range tests {
		if got := formatIDs(test.ids); got != test.want {
			t.Errorf("formatIDs(%v) = %q; want %q", test.ids, got, test.want)
		}
	}
}
