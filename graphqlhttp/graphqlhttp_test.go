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

package graphqlhttp

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/graphql-go/graphql"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string

		method      string
		query       url.Values
		contentType string
		body        string

		want          Request
		wantErrStatus int
	}{
		{
			name:   "HEAD",
			method: http.MethodHead,
			query:  url.Values{"query": {"{me{name}}"}},
			want: Request{
				Query: "{me{name}}",
			},
		},
		{
			name:   "GET/JustQuery",
			method: http.MethodGet,
			query:  url.Values{"query": {"{me{name}}"}},
			want: Request{
				Query: "{me{name}}",
			},
		},
		{
			name:   "GET/AllFields",
			method: http.MethodGet,
			query: url.Values{
				"query":         {"query Baz{me{name}}"},
				"variables":     {`{"foo":"bar"}`},
				"operationName": {"Baz"},
			},
			want: Request{
				Query:         "query Baz{me{name}}",
				OperationName: "Baz",
				Variables:     map[string]interface{}{"foo": "bar"},
			},
		},
		{
			name:   "GET/Mutation",
			method: http.MethodGet,
			query: url.Values{
				"query":     {"mutation {me{name}}"},
				"variables": {`{"foo":"bar"}`},
			},
			wantErrStatus: http.StatusBadRequest,
		},
		{
			name:   "GET/NamedMutation",
			method: http.MethodGet,
			query: url.Values{
				"query":         {"query A {me{name}} mutation B {me{name}}"},
				"operationName": {"B"},
			},
			wantErrStatus: http.StatusBadRequest,
		},
		{
			name:   "GET/BadVariables",
			method: http.MethodGet,
			query: url.Values{
				"query":     {"{me{name}}"},
				"variables": {`{"foo":`},
			},
			wantErrStatus: http.StatusBadRequest,
		},
		{
			name:        "POST/JustQuery",
			method:      http.MethodPost,
			contentType: "application/json; charset=utf-8",
			body:        `{"query": "{me{name}}"}`,
			want: Request{
				Query: "{me{name}}",
			},
		},
		{
			name:        "POST/AllFields",
			method:      http.MethodPost,
			contentType: "application/json; charset=utf-8",
			body:        `{"query": "{me{name}}", "variables": {"foo":"bar"}, "operationName": "Baz"}`,
			want: Request{
				Query:         "{me{name}}",
				OperationName: "Baz",
				Variables:     map[string]interface{}{"foo": "bar"},
			},
		},
		{
			name:        "POST/QueryInURL",
			method:      http.MethodPost,
			query:       url.Values{"query": {"{me{name}}"}},
			contentType: "application/json; charset=utf-8",
			body:        `{"variables": {"foo":"bar"}, "operationName": "Baz"}`,
			want: Request{
				Query:         "{me{name}}",
				OperationName: "Baz",
				Variables:     map[string]interface{}{"foo": "bar"},
			},
		},
		{
			name:        "POST/QueryInBodyAndURL",
			method:      http.MethodPost,
			query:       url.Values{"query": {"{me{name}}"}},
			contentType: "application/json; charset=utf-8",
			body:        `{"query": "{your{face}}", "variables": {"foo":"bar"}, "operationName": "Baz"}`,
			want: Request{
				Query:         "{your{face}}",
				OperationName: "Baz",
				Variables:     map[string]interface{}{"foo": "bar"},
			},
		},
		{
			name:          "POST/BadJSON",
			method:        http.MethodPost,
			contentType:   "application/json",
			body:          `{"query": `,
			wantErrStatus: http.StatusBadRequest,
		},
		{
			name:        "POST/FormContentType",
			method:      http.MethodPost,
			contentType: "application/x-www-form-urlencoded",
			body:        url.Values{"query": {"{me{name}}"}}.Encode(),
			want: Request{
				Query: "{me{name}}",
			},
		},
		{
			name:        "POST/GraphQLContentType",
			method:      http.MethodPost,
			contentType: "application/graphql; charset=utf-8",
			body:        "{me{name}}",
			want: Request{
				Query: "{me{name}}",
			},
		},
		{
			name:          "POST/UnknownContentType",
			method:        http.MethodPost,
			contentType:   "text/plain",
			body:          "{me{name}}",
			wantErrStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:          "PUT",
			method:        http.MethodPut,
			query:         url.Values{"query": {"{me{name}}"}},
			wantErrStatus: http.StatusMethodNotAllowed,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := &http.Request{
				Method: test.method,
				URL: &url.URL{
					RawQuery: test.query.Encode(),
				},
				Header: make(http.Header),
				Body:   io.NopCloser(strings.NewReader(test.body)),
			}
			if test.contentType != "" {
				req.Header.Set("Content-Type", test.contentType)
			}
			got, err := Parse(req)
			if err != nil {
				if test.wantErrStatus == 0 {
					t.Fatalf("Parse error = %v; want <nil>", err)
				}
				if StatusCode(err) != test.wantErrStatus {
					t.Fatalf("Parse error = %v, status code = %d; want status code = %d", err, StatusCode(err), test.wantErrStatus)
				}
				return
			}
			if test.wantErrStatus != 0 {
				t.Fatalf("Parse(...) = %+v, <nil>; want error status code = %d", got, test.wantErrStatus)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Parse(...) (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsQuery(t *testing.T) {
	tests := []struct {
		req  Request
		want bool
	}{
		{Request{Query: "{me{name}}"}, true},
		{Request{Query: "query {me{name}}"}, true},
		{Request{Query: "mutation {me{name}}"}, false},
		{Request{Query: "query A {me{name}} mutation B {me{name}}", OperationName: "A"}, true},
		{Request{Query: "query A {me{name}} mutation B {me{name}}", OperationName: "B"}, false},
		{Request{Query: "query A {me{name}} mutation B {me{name}}"}, true},
		{Request{Query: "{"}, true},
	}
	for _, test := range tests {
		if got := test.req.IsQuery(); got != test.want {
			t.Errorf("%+v.IsQuery() = %t; want %t", test.req, got, test.want)
		}
	}
}

func newGreetingSchema(t *testing.T) graphql.Schema {
	t.Helper()
	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name: "Query",
			Fields: graphql.Fields{
				"greeting": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Args: graphql.FieldConfigArgument{
						"name": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "World"},
					},
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return "Hello, " + p.Args["name"].(string) + "!", nil
					},
				},
			},
		}),
	})
	if err != nil {
		t.Fatal(err)
	}
	return schema
}

func TestHandler(t *testing.T) {
	srv := httptest.NewServer(NewHandler(newGreetingSchema(t)))
	defer srv.Close()
	client := srv.Client()
	defer client.CloseIdleConnections()

	t.Run("GET", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "?" + url.Values{
			"query":     {"query($name: String) { greeting(name: $name) }"},
			"variables": {`{"name": "Gopher"}`},
		}.Encode())
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d; want %d", resp.StatusCode, http.StatusOK)
		}
		if got, want := resp.Header.Get("Content-Type"), "application/json; charset=utf-8"; got != want {
			t.Errorf("Content-Type = %q; want %q", got, want)
		}
		var got map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		want := map[string]interface{}{
			"data": map[string]interface{}{"greeting": "Hello, Gopher!"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("response (-want +got):\n%s", diff)
		}
	})
	t.Run("POST", func(t *testing.T) {
		resp, err := client.Post(srv.URL, "application/json", strings.NewReader(`{"query": "{ greeting }"}`))
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		var got map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		want := map[string]interface{}{
			"data": map[string]interface{}{"greeting": "Hello, World!"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("response (-want +got):\n%s", diff)
		}
	})
	t.Run("MethodNotAllowed", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, srv.URL, nil)
		if err != nil {
			t.Fatal(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("status = %d; want %d", resp.StatusCode, http.StatusMethodNotAllowed)
		}
		if got, want := resp.Header.Get("Allow"), "GET, HEAD, POST"; got != want {
			t.Errorf("Allow = %q; want %q", got, want)
		}
	})
	t.Run("UnsupportedMediaType", func(t *testing.T) {
		resp, err := client.Post(srv.URL, "text/plain", strings.NewReader("{ greeting }"))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnsupportedMediaType {
			t.Errorf("status = %d; want %d", resp.StatusCode, http.StatusUnsupportedMediaType)
		}
	})
	t.Run("ExecutionError", func(t *testing.T) {
		resp, err := client.Post(srv.URL, "application/graphql", strings.NewReader("{ nope }"))
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d; want %d", resp.StatusCode, http.StatusOK)
		}
		var got struct {
			Errors []struct{ Message string }
		}
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		if len(got.Errors) == 0 {
			t.Error("response has no errors")
		}
	})
}
