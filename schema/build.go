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

package schema

import (
	"reflect"

	"github.com/graphql-go/graphql"
	"golang.org/x/xerrors"
)

// BuildOption configures Build.
type BuildOption func(*graphql.SchemaConfig)

// WithExtensions installs graphql-go extensions on the built schema.
func WithExtensions(ext ...graphql.Extension) BuildOption {
	return func(c *graphql.SchemaConfig) {
		c.Extensions = append(c.Extensions, ext...)
	}
}

// Build validates the registry and returns an executable schema. The
// registry should not be modified afterward.
func (r *TypeRegistry) Build(opts ...BuildOption) (graphql.Schema, error) {
	if err := r.validate(); err != nil {
		return graphql.Schema{}, xerrors.Errorf("build schema: %w", err)
	}
	b := &builder{
		reg:   r,
		types: make(map[string]graphql.Type, len(r.types)),
	}
	// First pass: create named types. Fields are thunks so that types can
	// refer to each other regardless of order.
	names := r.Names()
	for _, name := range names {
		b.types[name] = b.newType(r.types[name])
	}
	config := graphql.SchemaConfig{
		Query: b.types[QueryType].(*graphql.Object),
	}
	if m, ok := b.types[MutationType]; ok {
		config.Mutation = m.(*graphql.Object)
	}
	for _, name := range names {
		if name == QueryType || name == MutationType {
			continue
		}
		def := r.types[name]
		// Implementations must be listed for interfaces to find them.
		if def.kind == objectKind && (def.object.EagerlyLoad || len(def.object.Interfaces) > 0) {
			config.Types = append(config.Types, b.types[name])
		}
	}
	for _, opt := range opts {
		opt(&config)
	}
	s, err := graphql.NewSchema(config)
	if err != nil {
		return graphql.Schema{}, xerrors.Errorf("build schema: %w", err)
	}
	return s, nil
}

type builder struct {
	reg   *TypeRegistry
	types map[string]graphql.Type
}

func (b *builder) newType(def *typeDef) graphql.Type {
	switch def.kind {
	case objectKind:
		return graphql.NewObject(graphql.ObjectConfig{
			Name:        def.name,
			Description: def.object.Description,
			Interfaces: graphql.InterfacesThunk(func() []*graphql.Interface {
				return b.interfaces(def.object.Interfaces)
			}),
			Fields: graphql.FieldsThunk(func() graphql.Fields {
				return b.fields(def)
			}),
		})
	case interfaceKind:
		resolveType := def.iface.ResolveType
		return graphql.NewInterface(graphql.InterfaceConfig{
			Name:        def.name,
			Description: def.iface.Description,
			Fields: graphql.FieldsThunk(func() graphql.Fields {
				return b.fields(def)
			}),
			ResolveType: func(p graphql.ResolveTypeParams) *graphql.Object {
				obj, _ := b.types[resolveType(p.Value)].(*graphql.Object)
				return obj
			},
		})
	case enumKind:
		values := make(graphql.EnumValueConfigMap, len(def.enum.Values))
		for name, v := range def.enum.Values {
			values[name] = &graphql.EnumValueConfig{
				Value:             v.Value,
				Description:       v.Description,
				DeprecationReason: v.DeprecationReason,
			}
		}
		return graphql.NewEnum(graphql.EnumConfig{
			Name:        def.name,
			Description: def.enum.Description,
			Values:      values,
		})
	case inputObjectKind:
		return graphql.NewInputObject(graphql.InputObjectConfig{
			Name:        def.name,
			Description: def.input.Description,
			Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
				fields := make(graphql.InputObjectConfigFieldMap, len(def.input.Fields))
				for name, f := range def.input.Fields {
					fields[name] = &graphql.InputObjectFieldConfig{
						Type:         b.resolve(f.Type).(graphql.Input),
						Description:  f.Description,
						DefaultValue: f.DefaultValue,
					}
				}
				return fields
			}),
		})
	default:
		panic("unknown type kind")
	}
}

func (b *builder) interfaces(names []string) []*graphql.Interface {
	var list []*graphql.Interface
	for _, name := range b.reg.interfaceClosure(names) {
		list = append(list, b.types[name].(*graphql.Interface))
	}
	return list
}

func (b *builder) fields(def *typeDef) graphql.Fields {
	src := b.reg.effectiveFields(def)
	fields := make(graphql.Fields, len(src))
	for name, f := range src {
		field := &graphql.Field{
			Name:              name,
			Type:              b.resolve(f.Type).(graphql.Output),
			Description:       f.Description,
			DeprecationReason: f.DeprecationReason,
			Resolve:           f.Resolve,
		}
		if field.Resolve == nil {
			field.Resolve = resolveDefault
		}
		if len(f.Args) > 0 {
			field.Args = make(graphql.FieldConfigArgument, len(f.Args))
			for argName, arg := range f.Args {
				field.Args[argName] = &graphql.ArgumentConfig{
					Type:         b.resolve(arg.Type).(graphql.Input),
					Description:  arg.Description,
					DefaultValue: arg.DefaultValue,
				}
			}
		}
		fields[name] = field
	}
	return fields
}

// resolve converts a validated type reference to a graphql-go type.
func (b *builder) resolve(s string) graphql.Type {
	ref, err := parseTypeRef(s)
	if err != nil {
		panic(err)
	}
	return b.resolveRef(ref)
}

func (b *builder) resolveRef(ref *typeRef) graphql.Type {
	var t graphql.Type
	if ref.list != nil {
		t = graphql.NewList(b.resolveRef(ref.list))
	} else if scalar := builtinScalars[ref.named]; scalar != nil {
		t = scalar
	} else {
		t = b.types[ref.named]
	}
	if ref.nonNull {
		t = graphql.NewNonNull(t)
	}
	return t
}

// resolveDefault reads a field from the source by name. Nil slices and maps
// resolve to null rather than an empty list.
func resolveDefault(p graphql.ResolveParams) (interface{}, error) {
	v, err := graphql.DefaultResolveFn(p)
	if err != nil {
		return nil, err
	}
	return nullable(v), nil
}

// nullable converts nil pointers, slices, and maps held in an interface to
// an untyped nil.
func nullable(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func:
		if rv.IsNil() {
			return nil
		}
	}
	return v
}
