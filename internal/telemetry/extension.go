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
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
	"go.opencensus.io/trace"
)

// Extension is a graphql.Extension that records operation metrics and wraps
// each operation in a trace span. Add it to a schema with
// schema.WithExtensions.
type Extension struct {
	metrics *Metrics
	now     func() time.Time
}

var _ graphql.Extension = (*Extension)(nil)

// NewExtension returns an extension that records to m.
func NewExtension(m *Metrics) *Extension {
	return &Extension{metrics: m, now: time.Now}
}

type operationKey struct{}

// operation is the per-request state kept in the context.
type operation struct {
	start time.Time
	span  *trace.Span

	mu   sync.Mutex
	typ  string
	done bool
}

func (op *operation) setType(typ string) {
	op.mu.Lock()
	if op.typ == "" {
		op.typ = typ
	}
	op.mu.Unlock()
}

// Name implements graphql.Extension.
func (ext *Extension) Name() string {
	return "telemetry"
}

// Init implements graphql.Extension.
func (ext *Extension) Init(ctx context.Context, p *graphql.Params) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	name := "graphql"
	if p.OperationName != "" {
		name += "." + p.OperationName
	}
	ctx, span := trace.StartSpan(ctx, name)
	return context.WithValue(ctx, operationKey{}, &operation{
		start: ext.now(),
		span:  span,
	})
}

// ParseDidStart implements graphql.Extension.
func (ext *Extension) ParseDidStart(ctx context.Context) (context.Context, graphql.ParseFinishFunc) {
	return ctx, func(err error) {
		if err != nil {
			ext.finish(ctx, outcomeParseError, err.Error())
		}
	}
}

// ValidationDidStart implements graphql.Extension.
func (ext *Extension) ValidationDidStart(ctx context.Context) (context.Context, graphql.ValidationFinishFunc) {
	return ctx, func(errs []gqlerrors.FormattedError) {
		if len(errs) > 0 {
			ext.finish(ctx, outcomeInvalid, errs[0].Message)
		}
	}
}

// ExecutionDidStart implements graphql.Extension.
func (ext *Extension) ExecutionDidStart(ctx context.Context) (context.Context, graphql.ExecutionFinishFunc) {
	return ctx, func(result *graphql.Result) {
		if result.HasErrors() {
			ext.finish(ctx, outcomeError, result.Errors[0].Message)
			return
		}
		ext.finish(ctx, outcomeOK, "")
	}
}

// ResolveFieldDidStart implements graphql.Extension. Only root fields are
// counted. The returned context is the one given, since graphql-go keeps it
// for the rest of the execution.
func (ext *Extension) ResolveFieldDidStart(ctx context.Context, info *graphql.ResolveInfo) (context.Context, graphql.ResolveFieldFinishFunc) {
	if info.Path == nil || info.Path.Prev != nil {
		return ctx, func(interface{}, error) {}
	}
	if op, _ := ctx.Value(operationKey{}).(*operation); op != nil {
		if def, ok := info.Operation.(*ast.OperationDefinition); ok {
			op.setType(def.Operation)
		}
	}
	field := info.ParentType.Name() + "." + info.FieldName
	return ctx, func(_ interface{}, err error) {
		outcome := outcomeOK
		if err != nil {
			outcome = outcomeError
		}
		ext.metrics.rootFields.WithLabelValues(field, outcome).Inc()
	}
}

// HasResult implements graphql.Extension.
func (ext *Extension) HasResult() bool {
	return false
}

// GetResult implements graphql.Extension.
func (ext *Extension) GetResult(context.Context) interface{} {
	return nil
}

// finish records the end of an operation. Only the first call for an
// operation has an effect.
func (ext *Extension) finish(ctx context.Context, outcome, message string) {
	op, _ := ctx.Value(operationKey{}).(*operation)
	if op == nil {
		return
	}
	op.mu.Lock()
	if op.done {
		op.mu.Unlock()
		return
	}
	op.done = true
	typ := op.typ
	op.mu.Unlock()
	if typ == "" {
		typ = "unknown"
	}

	ext.metrics.operations.WithLabelValues(typ, outcome).Inc()
	ext.metrics.operationDuration.WithLabelValues(typ).Observe(ext.now().Sub(op.start).Seconds())
	op.span.AddAttributes(
		trace.StringAttribute("graphql.operation", typ),
		trace.StringAttribute("graphql.outcome", outcome),
	)
	if message != "" {
		op.span.SetStatus(trace.Status{Code: trace.StatusCodeUnknown, Message: message})
	}
	op.span.End()
}
