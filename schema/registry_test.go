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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/graphql-go/graphql"
)

func TestParseTypeRef(t *testing.T) {
	tests := []struct {
		s       string
		want    string
		base    string
		wantErr bool
	}{
		{s: "String", want: "String", base: "String"},
		{s: "String!", want: "String!", base: "String"},
		{s: "[String]", want: "[String]", base: "String"},
		{s: " [ FormField! ]! ", want: "[FormField!]!", base: "FormField"},
		{s: "[[Int]]", want: "[[Int]]", base: "Int"},
		{s: "", wantErr: true},
		{s: "[String", wantErr: true},
		{s: "String]", wantErr: true},
		{s: "1Bad", wantErr: true},
		{s: "String!!", wantErr: true},
	}
	for _, test := range tests {
		ref, err := parseTypeRef(test.s)
		if err != nil {
			if !test.wantErr {
				t.Errorf("parseTypeRef(%q) = _, %v; want <nil>", test.s, err)
			}
			continue
		}
		if test.wantErr {
			t.Errorf("parseTypeRef(%q) = %v, <nil>; want error", test.s, ref)
			continue
		}
		if got := ref.String(); got != test.want {
			t.Errorf("parseTypeRef(%q) = %v; want %s", test.s, got, test.want)
		}
		if got := ref.baseName(); got != test.base {
			t.Errorf("parseTypeRef(%q).baseName() = %q; want %q", test.s, got, test.base)
		}
	}
}

func TestRegisterErrors(t *testing.T) {
	tests := []struct {
		name     string
		register func(r *TypeRegistry) error
		wantErr  string
	}{
		{
			name: "DuplicateType",
			register: func(r *TypeRegistry) error {
				if err := r.RegisterObject("Foo", ObjectConfig{Fields: map[string]FieldConfig{"a": {Type: "String"}}}); err != nil {
					return err
				}
				return r.RegisterEnum("Foo", EnumConfig{Values: map[string]EnumValueConfig{"A": {Value: "a"}}})
			},
			wantErr: `multiple types with name "Foo"`,
		},
		{
			name: "BuiltinName",
			register: func(r *TypeRegistry) error {
				return r.RegisterObject("String", ObjectConfig{})
			},
			wantErr: "multiple types",
		},
		{
			name: "ReservedName",
			register: func(r *TypeRegistry) error {
				return r.RegisterObject("__Foo", ObjectConfig{})
			},
			wantErr: "reserved",
		},
		{
			name: "InvalidName",
			register: func(r *TypeRegistry) error {
				return r.RegisterInputObject("Foo-Bar", InputObjectConfig{})
			},
			wantErr: "invalid name",
		},
		{
			name: "DuplicateEnumValue",
			register: func(r *TypeRegistry) error {
				return r.RegisterEnum("Width", EnumConfig{Values: map[string]EnumValueConfig{
					"NONE":  {Value: "0"},
					"ZERO":  {Value: "0"},
					"SMALL": {Value: "1"},
				}})
			},
			wantErr: "same value",
		},
		{
			name: "EmptyEnum",
			register: func(r *TypeRegistry) error {
				return r.RegisterEnum("Nothing", EnumConfig{})
			},
			wantErr: "no values",
		},
		{
			name: "DuplicateField",
			register: func(r *TypeRegistry) error {
				if err := r.RegisterObject("Foo", ObjectConfig{Fields: map[string]FieldConfig{"a": {Type: "String"}}}); err != nil {
					return err
				}
				return r.RegisterFields("Foo", map[string]FieldConfig{"a": {Type: "Int"}})
			},
			wantErr: `multiple fields named "a"`,
		},
		{
			name: "FieldsOnMissingType",
			register: func(r *TypeRegistry) error {
				return r.RegisterFields("Nope", map[string]FieldConfig{"a": {Type: "Int"}})
			},
			wantErr: "no such type",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.register(NewTypeRegistry())
			if err == nil {
				t.Fatalf("register = <nil>; want error containing %q", test.wantErr)
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("register = %v; want error containing %q", err, test.wantErr)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	query := func(fieldType string) ObjectConfig {
		return ObjectConfig{Fields: map[string]FieldConfig{"x": {Type: fieldType}}}
	}
	tests := []struct {
		name    string
		setup   func(r *TypeRegistry)
		wantErr string
	}{
		{
			name:    "NoQuery",
			setup:   func(r *TypeRegistry) {},
			wantErr: "could not find RootQuery",
		},
		{
			name: "UndefinedType",
			setup: func(r *TypeRegistry) {
				r.RegisterObject(QueryType, query("[Missing]"))
			},
			wantErr: "undefined type [Missing]",
		},
		{
			name: "InputAsOutput",
			setup: func(r *TypeRegistry) {
				r.RegisterInputObject("In", InputObjectConfig{Fields: map[string]ArgConfig{"a": {Type: "String"}}})
				r.RegisterObject(QueryType, query("In"))
			},
			wantErr: "In is not an output type",
		},
		{
			name: "ObjectAsArgument",
			setup: func(r *TypeRegistry) {
				r.RegisterObject("Out", query("String"))
				r.RegisterObject(QueryType, ObjectConfig{Fields: map[string]FieldConfig{
					"x": {Type: "String", Args: map[string]ArgConfig{"o": {Type: "Out!"}}},
				}})
			},
			wantErr: "Out! is not an input type",
		},
		{
			name: "UndefinedInterface",
			setup: func(r *TypeRegistry) {
				r.RegisterObject(QueryType, ObjectConfig{
					Interfaces: []string{"Node"},
					Fields:     map[string]FieldConfig{"x": {Type: "String"}},
				})
			},
			wantErr: "undefined interface Node",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := NewTypeRegistry()
			test.setup(r)
			_, err := r.Build()
			if err == nil {
				t.Fatalf("Build() = _, <nil>; want error containing %q", test.wantErr)
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("Build() = _, %v; want error containing %q", err, test.wantErr)
			}
		})
	}
}

type testPet struct {
	Name  string
	Sound string
	Tags  []string
}

func newPetRegistry(t *testing.T) *TypeRegistry {
	t.Helper()
	r := NewTypeRegistry()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(r.RegisterInterface("Named", InterfaceConfig{
		Description: "Something with a name.",
		Fields:      map[string]FieldConfig{"name": {Type: "String!"}},
		ResolveType: func(v interface{}) string { return "Pet" },
	}))
	must(r.RegisterInterface("Animal", InterfaceConfig{
		Interfaces:  []string{"Named"},
		Fields:      map[string]FieldConfig{"sound": {Type: "SoundEnum"}},
		ResolveType: func(v interface{}) string { return "Pet" },
	}))
	must(r.RegisterEnum("SoundEnum", EnumConfig{Values: map[string]EnumValueConfig{
		"BARK": {Value: "woof"},
		"MEOW": {Value: "meow"},
	}}))
	must(r.RegisterObject("Pet", ObjectConfig{
		Interfaces: []string{"Animal"},
		Fields:     map[string]FieldConfig{"tags": {Type: "[String]"}},
	}))
	must(r.RegisterObject(QueryType, ObjectConfig{Fields: map[string]FieldConfig{
		"animals": {
			Type: "[Animal!]!",
			Args: map[string]ArgConfig{"sound": {Type: "SoundEnum"}},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				pets := []*testPet{
					{Name: "Rex", Sound: "woof", Tags: []string{"good"}},
					{Name: "Tom", Sound: "meow"},
				}
				want, _ := p.Args["sound"].(string)
				var result []interface{}
				for _, pet := range pets {
					if want == "" || pet.Sound == want {
						result = append(result, pet)
					}
				}
				return result, nil
			},
		},
	}}))
	return r
}

func TestBuildAndExecute(t *testing.T) {
	r := newPetRegistry(t)
	if err := r.RegisterFields("Pet", map[string]FieldConfig{
		"shout": {
			Type: "String",
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return strings.ToUpper(p.Source.(*testPet).Name), nil
			},
		},
	}); err != nil {
		t.Fatal(err)
	}
	s, err := r.Build()
	if err != nil {
		t.Fatal(err)
	}
	result := graphql.Do(graphql.Params{
		Schema:        s,
		RequestString: `{ animals { name sound ... on Pet { tags shout } } meows: animals(sound: MEOW) { name } }`,
	})
	if len(result.Errors) > 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	want := map[string]interface{}{
		"animals": []interface{}{
			map[string]interface{}{"name": "Rex", "sound": "BARK", "tags": []interface{}{"good"}, "shout": "REX"},
			map[string]interface{}{"name": "Tom", "sound": "MEOW", "tags": nil, "shout": "TOM"},
		},
		"meows": []interface{}{
			map[string]interface{}{"name": "Tom"},
		},
	}
	if diff := cmp.Diff(want, result.Data); diff != "" {
		t.Errorf("result (-want +got):\n%s", diff)
	}
}

func TestSDL(t *testing.T) {
	got := newPetRegistry(t).SDL()
	const want = `interface Animal implements Named {
  name: String!
  sound: SoundEnum
}

"Something with a name."
interface Named {
  name: String!
}

type Pet implements Named & Animal {
  name: String!
  sound: SoundEnum
  tags: [String]
}

type RootQuery {
  animals(sound: SoundEnum): [Animal!]!
}

enum SoundEnum {
  BARK
  MEOW
}
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SDL() (-want +got):\n%s", diff)
	}
}

func TestDerivedInterfaceFieldWins(t *testing.T) {
	r := NewTypeRegistry()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	resolvePet := func(v interface{}) string { return "Pet" }
	must(r.RegisterInterface("Node", InterfaceConfig{
		Fields:      map[string]FieldConfig{"id": {Type: "ID!"}},
		ResolveType: resolvePet,
	}))
	must(r.RegisterInterface("Named", InterfaceConfig{
		Interfaces: []string{"Node"},
		Fields: map[string]FieldConfig{
			"id": {
				Type: "ID!",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return "pet:" + p.Source.(*testPet).Name, nil
				},
			},
			"name": {Type: "String!"},
		},
		ResolveType: resolvePet,
	}))
	must(r.RegisterObject("Pet", ObjectConfig{
		Interfaces: []string{"Named"},
		Fields:     map[string]FieldConfig{"tags": {Type: "[String]"}},
	}))
	must(r.RegisterObject(QueryType, ObjectConfig{Fields: map[string]FieldConfig{
		"pet": {
			Type: "Named",
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return &testPet{Name: "Rex"}, nil
			},
		},
	}}))
	s, err := r.Build()
	if err != nil {
		t.Fatal(err)
	}
	result := graphql.Do(graphql.Params{
		Schema:        s,
		RequestString: `{ pet { id name ... on Node { nodeID: id } ... on Pet { petID: id } } }`,
	})
	if len(result.Errors) > 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	want := map[string]interface{}{
		"pet": map[string]interface{}{
			"id":     "pet:Rex",
			"name":   "Rex",
			"nodeID": "pet:Rex",
			"petID":  "pet:Rex",
		},
	}
	if diff := cmp.Diff(want, result.Data); diff != "" {
		t.Errorf("result (-want +got):\n%s", diff)
	}
}
