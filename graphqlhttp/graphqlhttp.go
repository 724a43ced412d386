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

// Package graphqlhttp provides functions for serving GraphQL over HTTP as
// described in https://graphql.org/learn/serving-over-http/.
package graphqlhttp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

// Request is a GraphQL request read from HTTP.
type Request struct {
	// Query is the GraphQL document text.
	Query string `json:"query"`
	// If OperationName is not empty, then the operation with the given name will
	// be executed. Otherwise, the query must only include a single operation.
	OperationName string `json:"operationName,omitempty"`
	// Variables specifies the values of the operation's variables.
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// IsQuery reports whether the operation the request selects is a query.
// Requests that do not parse or do not select exactly one operation are
// reported as queries, so that execution reports the problem.
func (req Request) IsQuery() bool {
	doc, err := parser.Parse(parser.ParseParams{Source: req.Query})
	if err != nil {
		return true
	}
	var op *ast.OperationDefinition
	for _, def := range doc.Definitions {
		d, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if req.OperationName == "" {
			if op != nil {
				return true
			}
			op = d
			continue
		}
		if d.Name != nil && d.Name.Value == req.OperationName {
			op = d
			break
		}
	}
	return op == nil || op.Operation == ast.OperationTypeQuery
}

// Handler serves GraphQL HTTP requests by executing them on its schema.
type Handler struct {
	schema graphql.Schema
	log    *zap.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger logs each executed request at debug level.
func WithLogger(log *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.log = log
	}
}

// NewHandler returns a new handler that executes requests on the given schema.
func NewHandler(schema graphql.Schema, opts ...HandlerOption) *Handler {
	h := &Handler{
		schema: schema,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP executes a GraphQL request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gqlRequest, err := Parse(r)
	if err != nil {
		code := StatusCode(err)
		if code == http.StatusMethodNotAllowed {
			w.Header().Set("Allow", "GET, HEAD, POST")
		}
		http.Error(w, err.Error(), code)
		return
	}
	start := time.Now()
	result := Execute(r.Context(), h.schema, gqlRequest)
	h.log.Debug("GraphQL request",
		zap.String("operation", gqlRequest.OperationName),
		zap.Duration("duration", time.Since(start)),
		zap.Int("errors", len(result.Errors)))
	WriteResponse(w, result)
}

// Execute runs a request on a schema.
func Execute(ctx context.Context, schema graphql.Schema, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

// Parse parses a GraphQL HTTP request. If an error is returned, StatusCode
// will return the proper HTTP status code to use.
//
// Request methods may be GET, HEAD, or POST. If the method is not one of these,
// then an error is returned that will make StatusCode return
// http.StatusMethodNotAllowed.
func Parse(r *http.Request) (Request, error) {
	request := Request{
		Query: r.URL.Query().Get("query"),
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if v := r.FormValue("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &request.Variables); err != nil {
				return Request{}, &httpError{
					msg:   "parse graphql request: ",
					code:  http.StatusBadRequest,
					cause: err,
				}
			}
		}
		request.OperationName = r.FormValue("operationName")
		if !request.IsQuery() {
			return Request{}, &httpError{
				msg:  "parse graphql request: GET requests must be queries",
				code: http.StatusBadRequest,
			}
		}
	case http.MethodPost:
		rawContentType := r.Header.Get("Content-Type")
		contentType, _, err := mime.ParseMediaType(rawContentType)
		if err != nil {
			return Request{}, &httpError{
				msg:  "parse graphql request: invalid content type: " + rawContentType,
				code: http.StatusUnsupportedMediaType,
			}
		}
		switch contentType {
		case "application/json":
			if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
				return Request{}, &httpError{
					msg:   "parse graphql request: ",
					code:  http.StatusBadRequest,
					cause: err,
				}
			}
		case "application/x-www-form-urlencoded":
			request.Query = r.FormValue("query")
			request.OperationName = r.FormValue("operationName")
			if v := r.FormValue("variables"); v != "" {
				if err := json.Unmarshal([]byte(v), &request.Variables); err != nil {
					return Request{}, &httpError{
						msg:   "parse graphql request: ",
						code:  http.StatusBadRequest,
						cause: err,
					}
				}
			}
		case "application/graphql":
			data, err := io.ReadAll(r.Body)
			if err != nil {
				return Request{}, &httpError{
					msg:   "parse graphql request: ",
					code:  http.StatusBadRequest,
					cause: err,
				}
			}
			if len(data) > 0 {
				request.Query = string(data)
			}
		default:
			return Request{}, &httpError{
				msg:  "parse graphql request: unrecognized content type: " + contentType,
				code: http.StatusUnsupportedMediaType,
			}
		}
	default:
		return Request{}, &httpError{
			msg:  fmt.Sprintf("parse graphql request: method %s not allowed", r.Method),
			code: http.StatusMethodNotAllowed,
		}
	}
	return request, nil
}

type httpError struct {
	msg   string
	code  int
	cause error
}

func (e *httpError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + e.cause.Error()
}

func (e *httpError) Unwrap() error {
	return e.cause
}

// StatusCode returns the HTTP status code an error indicates.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var e *httpError
	if !xerrors.As(err, &e) {
		return http.StatusInternalServerError
	}
	return e.code
}

// WriteResponse writes a GraphQL result as an HTTP response.
func WriteResponse(w http.ResponseWriter, result *graphql.Result) {
	payload, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "GraphQL marshal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	if _, err := w.Write(payload); err != nil {
		return
	}
}
