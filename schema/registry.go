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
	"sort"
	"strings"

	"github.com/graphql-go/graphql"
	"golang.org/x/xerrors"
)

// Root operation type names.
const (
	QueryType    = "RootQuery"
	MutationType = "RootMutation"
)

const reservedPrefix = "__"

// FieldConfig describes a field of an object or interface type.
type FieldConfig struct {
	// Type is a type reference in GraphQL notation, like "[String]!".
	Type              string
	Description       string
	Args              map[string]ArgConfig
	DeprecationReason string
	// Resolve computes the field's value. If nil, the field is read from the
	// source struct or map by name.
	Resolve graphql.FieldResolveFn
}

// ArgConfig describes a field argument or an input object field.
type ArgConfig struct {
	Type         string
	Description  string
	DefaultValue interface{}
}

// ObjectConfig describes an object type.
type ObjectConfig struct {
	Description string
	// Interfaces names the interfaces the object implements. Their fields
	// are added to the object unless the object declares a field of the same
	// name.
	Interfaces []string
	Fields     map[string]FieldConfig
	// EagerlyLoad adds the type to the schema even when no field refers to
	// it.
	EagerlyLoad bool
}

// InterfaceConfig describes an interface type.
type InterfaceConfig struct {
	Description string
	// Interfaces names interfaces whose fields this interface inherits.
	// Objects implementing this interface implement those too.
	Interfaces []string
	Fields     map[string]FieldConfig
	// ResolveType returns the name of the object type of a value.
	ResolveType func(value interface{}) string
}

// EnumConfig describes an enum type.
type EnumConfig struct {
	Description string
	Values      map[string]EnumValueConfig
}

// EnumValueConfig maps an enum symbol to its literal value.
type EnumValueConfig struct {
	Value             interface{}
	Description       string
	DeprecationReason string
}

// InputObjectConfig describes an input object type.
type InputObjectConfig struct {
	Description string
	Fields      map[string]ArgConfig
}

type typeKind int

const (
	scalarKind typeKind = iota
	objectKind
	interfaceKind
	enumKind
	inputObjectKind
)

func (k typeKind) String() string {
	switch k {
	case scalarKind:
		return "scalar"
	case objectKind:
		return "type"
	case interfaceKind:
		return "interface"
	case enumKind:
		return "enum"
	case inputObjectKind:
		return "input"
	default:
		return "unknown"
	}
}

type typeDef struct {
	name   string
	kind   typeKind
	object *ObjectConfig
	iface  *InterfaceConfig
	enum   *EnumConfig
	input  *InputObjectConfig
}

var builtinScalars = map[string]*graphql.Scalar{
	"String":  graphql.String,
	"Int":     graphql.Int,
	"Float":   graphql.Float,
	"Boolean": graphql.Boolean,
	"ID":      graphql.ID,
}

// TypeRegistry collects type descriptors and builds an executable schema
// from them. Types may refer to each other by name in any registration
// order; references are checked by Build.
type TypeRegistry struct {
	types map[string]*typeDef
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]*typeDef)}
}

func (r *TypeRegistry) add(def *typeDef) error {
	if !isValidName(def.name) {
		return xerrors.Errorf("register %v %q: invalid name", def.kind, def.name)
	}
	if strings.HasPrefix(def.name, reservedPrefix) {
		return xerrors.Errorf("register %v %q: use of reserved name", def.kind, def.name)
	}
	if builtinScalars[def.name] != nil || r.types[def.name] != nil {
		return xerrors.Errorf("register %v %q: multiple types with name %q", def.kind, def.name, def.name)
	}
	r.types[def.name] = def
	return nil
}

// RegisterObject adds an object type.
func (r *TypeRegistry) RegisterObject(name string, config ObjectConfig) error {
	if err := checkFieldNames(name, config.Fields); err != nil {
		return err
	}
	config.Fields = copyFields(config.Fields)
	return r.add(&typeDef{name: name, kind: objectKind, object: &config})
}

// RegisterInterface adds an interface type.
func (r *TypeRegistry) RegisterInterface(name string, config InterfaceConfig) error {
	if err := checkFieldNames(name, config.Fields); err != nil {
		return err
	}
	config.Fields = copyFields(config.Fields)
	return r.add(&typeDef{name: name, kind: interfaceKind, iface: &config})
}

// RegisterEnum adds an enum type. Symbols and their values must be unique.
func (r *TypeRegistry) RegisterEnum(name string, config EnumConfig) error {
	if len(config.Values) == 0 {
		return xerrors.Errorf("register enum %q: no values", name)
	}
	seen := make(map[interface{}]string, len(config.Values))
	for _, sym := range sortedKeys(config.Values) {
		v := config.Values[sym]
		if !isValidName(sym) || strings.HasPrefix(sym, reservedPrefix) {
			return xerrors.Errorf("register enum %q: invalid value name %q", name, sym)
		}
		if !isHashable(v.Value) {
			return xerrors.Errorf("register enum %q: value of %s is a %T", name, sym, v.Value)
		}
		if prev, dup := seen[v.Value]; dup {
			return xerrors.Errorf("register enum %q: %s and %s have the same value %#v", name, prev, sym, v.Value)
		}
		seen[v.Value] = sym
	}
	values := make(map[string]EnumValueConfig, len(config.Values))
	for k, v := range config.Values {
		values[k] = v
	}
	config.Values = values
	return r.add(&typeDef{name: name, kind: enumKind, enum: &config})
}

// RegisterInputObject adds an input object type.
func (r *TypeRegistry) RegisterInputObject(name string, config InputObjectConfig) error {
	for fieldName := range config.Fields {
		if !isValidName(fieldName) || strings.HasPrefix(fieldName, reservedPrefix) {
			return xerrors.Errorf("register input %q: invalid field name %q", name, fieldName)
		}
	}
	fields := make(map[string]ArgConfig, len(config.Fields))
	for k, v := range config.Fields {
		fields[k] = v
	}
	config.Fields = fields
	return r.add(&typeDef{name: name, kind: inputObjectKind, input: &config})
}

// RegisterFields adds fields to a registered object or interface type.
func (r *TypeRegistry) RegisterFields(typeName string, fields map[string]FieldConfig) error {
	def := r.types[typeName]
	var dst map[string]FieldConfig
	switch {
	case def == nil:
		return xerrors.Errorf("register fields on %q: no such type", typeName)
	case def.kind == objectKind:
		dst = def.object.Fields
	case def.kind == interfaceKind:
		dst = def.iface.Fields
	default:
		return xerrors.Errorf("register fields on %q: %v types do not have fields", typeName, def.kind)
	}
	if err := checkFieldNames(typeName, fields); err != nil {
		return err
	}
	for _, name := range sortedKeys(fields) {
		if _, exists := dst[name]; exists {
			return xerrors.Errorf("register fields on %q: multiple fields named %q", typeName, name)
		}
	}
	for name, f := range fields {
		dst[name] = f
	}
	return nil
}

// Has reports whether a type with the given name is registered.
func (r *TypeRegistry) Has(name string) bool {
	return r.types[name] != nil
}

// Names returns the names of the registered types in sorted order.
func (r *TypeRegistry) Names() []string {
	return sortedKeys(r.types)
}

func checkFieldNames(typeName string, fields map[string]FieldConfig) error {
	for _, name := range sortedKeys(fields) {
		if !isValidName(name) || strings.HasPrefix(name, reservedPrefix) {
			return xerrors.Errorf("register %q: invalid field name %q", typeName, name)
		}
		for argName := range fields[name].Args {
			if !isValidName(argName) || strings.HasPrefix(argName, reservedPrefix) {
				return xerrors.Errorf("register %q: invalid argument name %q for field %s", typeName, argName, name)
			}
		}
	}
	return nil
}

func copyFields(fields map[string]FieldConfig) map[string]FieldConfig {
	m := make(map[string]FieldConfig, len(fields))
	for k, v := range fields {
		m[k] = v
	}
	return m
}

func isHashable(v interface{}) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// sortedKeys returns the keys of a string-keyed map in order.
func sortedKeys(m interface{}) []string {
	keys := reflect.ValueOf(m).MapKeys()
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.String())
	}
	sort.Strings(names)
	return names
}

// interfaceClosure returns the named interfaces and every interface they
// inherit from, without duplicates, in declaration order.
func (r *TypeRegistry) interfaceClosure(names []string) []string {
	var result []string
	seen := make(map[string]bool)
	var visit func(name string)
	visit = func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		def := r.types[name]
		if def != nil && def.kind == interfaceKind {
			for _, parent := range def.iface.Interfaces {
				visit(parent)
			}
		}
		result = append(result, name)
	}
	for _, name := range names {
		visit(name)
	}
	return result
}

// effectiveFields returns a type's own fields merged over the fields of the
// interfaces it implements.
func (r *TypeRegistry) effectiveFields(def *typeDef) map[string]FieldConfig {
	var own map[string]FieldConfig
	var ifaces []string
	switch def.kind {
	case objectKind:
		own, ifaces = def.object.Fields, def.object.Interfaces
	case interfaceKind:
		own, ifaces = def.iface.Fields, def.iface.Interfaces
	default:
		return nil
	}
	fields := make(map[string]FieldConfig)
	for _, name := range r.interfaceClosure(ifaces) {
		parent := r.types[name]
		if parent == nil || parent.kind != interfaceKind {
			continue
		}
		// The closure lists ancestors first, so a redefinition in a more
		// derived interface replaces the inherited field.
		for k, v := range parent.iface.Fields {
			fields[k] = v
		}
	}
	for k, v := range own {
		fields[k] = v
	}
	return fields
}

// validate checks every type reference in the registry.
func (r *TypeRegistry) validate() error {
	q := r.types[QueryType]
	if q == nil {
		return xerrors.Errorf("could not find %s type", QueryType)
	}
	if q.kind != objectKind {
		return xerrors.Errorf("query type %s must be an object", QueryType)
	}
	if m := r.types[MutationType]; m != nil && m.kind != objectKind {
		return xerrors.Errorf("mutation type %s must be an object", MutationType)
	}
	for _, name := range r.Names() {
		def := r.types[name]
		switch def.kind {
		case objectKind, interfaceKind:
			var ifaces []string
			if def.kind == objectKind {
				ifaces = def.object.Interfaces
			} else {
				ifaces = def.iface.Interfaces
				if def.iface.ResolveType == nil {
					return xerrors.Errorf("interface %s: missing ResolveType", name)
				}
			}
			for _, iname := range ifaces {
				idef := r.types[iname]
				if idef == nil {
					return xerrors.Errorf("%s: undefined interface %s", name, iname)
				}
				if idef.kind != interfaceKind {
					return xerrors.Errorf("%s: %s is not an interface", name, iname)
				}
			}
			fields := r.effectiveFields(def)
			if len(fields) == 0 {
				return xerrors.Errorf("%s: no fields", name)
			}
			for _, fieldName := range sortedKeys(fields) {
				f := fields[fieldName]
				if err := r.checkRef(f.Type, false); err != nil {
					return xerrors.Errorf("%s.%s: %w", name, fieldName, err)
				}
				for _, argName := range sortedKeys(f.Args) {
					if err := r.checkRef(f.Args[argName].Type, true); err != nil {
						return xerrors.Errorf("%s.%s(%s): %w", name, fieldName, argName, err)
					}
				}
			}
		case inputObjectKind:
			if len(def.input.Fields) == 0 {
				return xerrors.Errorf("%s: no fields", name)
			}
			for _, fieldName := range sortedKeys(def.input.Fields) {
				if err := r.checkRef(def.input.Fields[fieldName].Type, true); err != nil {
					return xerrors.Errorf("%s.%s: %w", name, fieldName, err)
				}
			}
		}
	}
	return nil
}

func (r *TypeRegistry) checkRef(s string, input bool) error {
	ref, err := parseTypeRef(s)
	if err != nil {
		return err
	}
	base := ref.baseName()
	if builtinScalars[base] != nil {
		return nil
	}
	def := r.types[base]
	if def == nil {
		return xerrors.Errorf("undefined type %v", ref)
	}
	switch {
	case input && (def.kind == objectKind || def.kind == interfaceKind):
		return xerrors.Errorf("%v is not an input type", ref)
	case !input && def.kind == inputObjectKind:
		return xerrors.Errorf("%v is not an output type", ref)
	}
	return nil
}
