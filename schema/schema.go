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

// Package schema builds the Gravity Forms GraphQL schema.
//
// The schema is assembled from type descriptors registered on a
// TypeRegistry. Every Gravity Forms field type has an object type that
// implements the FormField interface plus one GfFieldWith*Setting interface
// per editor setting the type supports. Other packages may register
// additional fields on these types before the schema is built.
package schema

import (
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
	"zombiezen.com/go/gfgraphql/gravityforms"
	"zombiezen.com/go/gfgraphql/internal/submission"
)

// Config holds the dependencies of the schema's resolvers.
type Config struct {
	Store gravityforms.Store
	// Service performs mutations. If nil, a service is created on Store.
	Service *submission.Service
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

type resolver struct {
	store gravityforms.Store
	svc   *submission.Service
	log   *zap.Logger
}

// NewRegistry returns a registry holding the full Gravity Forms schema.
// Callers may register more types or fields before calling Build.
func NewRegistry(cfg Config) (*TypeRegistry, error) {
	if cfg.Store == nil {
		return nil, xerrors.New("new schema registry: no store")
	}
	res := &resolver{
		store: cfg.Store,
		svc:   cfg.Service,
		log:   cfg.Logger,
	}
	if res.log == nil {
		res.log = zap.NewNop()
	}
	if res.svc == nil {
		res.svc = submission.NewService(cfg.Store, res.log)
	}
	c := &catalog{reg: NewTypeRegistry(), res: res}
	c.registerEnums()
	c.registerCoreInterfaces()
	c.registerSettings()
	c.registerKinds()
	c.registerFieldObjects()
	c.registerValueObjects()
	c.registerConnections()
	c.registerForm()
	c.registerEntries()
	c.registerQuery()
	c.registerInputs()
	c.registerMutation(c.mutations())
	if c.err != nil {
		return nil, xerrors.Errorf("new schema registry: %w", c.err)
	}
	return c.reg, nil
}

// New builds the Gravity Forms schema.
func New(cfg Config, opts ...BuildOption) (graphql.Schema, error) {
	reg, err := NewRegistry(cfg)
	if err != nil {
		return graphql.Schema{}, err
	}
	return reg.Build(opts...)
}
