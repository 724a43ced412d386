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
	"fmt"
	"strings"
)

// SDL returns the registered types in GraphQL schema definition language,
// sorted by name. Interface fields are shown on implementing types.
func (r *TypeRegistry) SDL() string {
	sb := new(strings.Builder)
	for i, name := range r.Names() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		def := r.types[name]
		switch def.kind {
		case objectKind:
			writeDescription(sb, "", def.object.Description)
			fmt.Fprintf(sb, "type %s", name)
			writeImplements(sb, r.interfaceClosure(def.object.Interfaces))
			r.writeFields(sb, r.effectiveFields(def))
		case interfaceKind:
			writeDescription(sb, "", def.iface.Description)
			fmt.Fprintf(sb, "interface %s", name)
			writeImplements(sb, r.interfaceClosure(def.iface.Interfaces))
			r.writeFields(sb, r.effectiveFields(def))
		case enumKind:
			writeDescription(sb, "", def.enum.Description)
			fmt.Fprintf(sb, "enum %s {\n", name)
			for _, sym := range sortedKeys(def.enum.Values) {
				v := def.enum.Values[sym]
				writeDescription(sb, "  ", v.Description)
				sb.WriteString("  " + sym)
				writeDeprecation(sb, v.DeprecationReason)
				sb.WriteByte('\n')
			}
			sb.WriteString("}\n")
		case inputObjectKind:
			writeDescription(sb, "", def.input.Description)
			fmt.Fprintf(sb, "input %s {\n", name)
			for _, fieldName := range sortedKeys(def.input.Fields) {
				f := def.input.Fields[fieldName]
				writeDescription(sb, "  ", f.Description)
				fmt.Fprintf(sb, "  %s: %s", fieldName, f.Type)
				r.writeDefault(sb, f.Type, f.DefaultValue)
				sb.WriteByte('\n')
			}
			sb.WriteString("}\n")
		}
	}
	return sb.String()
}

func writeImplements(sb *strings.Builder, ifaces []string) {
	if len(ifaces) > 0 {
		sb.WriteString(" implements ")
		sb.WriteString(strings.Join(ifaces, " & "))
	}
}

func (r *TypeRegistry) writeFields(sb *strings.Builder, fields map[string]FieldConfig) {
	sb.WriteString(" {\n")
	for _, name := range sortedKeys(fields) {
		f := fields[name]
		writeDescription(sb, "  ", f.Description)
		sb.WriteString("  " + name)
		if len(f.Args) > 0 {
			sb.WriteByte('(')
			for i, argName := range sortedKeys(f.Args) {
				if i > 0 {
					sb.WriteString(", ")
				}
				arg := f.Args[argName]
				fmt.Fprintf(sb, "%s: %s", argName, arg.Type)
				r.writeDefault(sb, arg.Type, arg.DefaultValue)
			}
			sb.WriteByte(')')
		}
		sb.WriteString(": " + f.Type)
		writeDeprecation(sb, f.DeprecationReason)
		sb.WriteByte('\n')
	}
	sb.WriteString("}\n")
}

func writeDescription(sb *strings.Builder, indent, desc string) {
	if desc == "" {
		return
	}
	fmt.Fprintf(sb, "%s%q\n", indent, desc)
}

func writeDeprecation(sb *strings.Builder, reason string) {
	if reason != "" {
		fmt.Fprintf(sb, " @deprecated(reason: %q)", reason)
	}
}

func (r *TypeRegistry) writeDefault(sb *strings.Builder, typ string, v interface{}) {
	if v == nil {
		return
	}
	if ref, err := parseTypeRef(typ); err == nil {
		if def := r.types[ref.baseName()]; def != nil && def.kind == enumKind {
			for _, sym := range sortedKeys(def.enum.Values) {
				if def.enum.Values[sym].Value == v {
					fmt.Fprintf(sb, " = %s", sym)
					return
				}
			}
		}
	}
	if s, ok := v.(string); ok {
		fmt.Fprintf(sb, " = %q", s)
		return
	}
	fmt.Fprintf(sb, " = %v", v)
}
