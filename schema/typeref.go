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

	"golang.org/x/xerrors"
)

// typeRef is a parsed GraphQL type reference such as "[String!]!".
type typeRef struct {
	named   string
	list    *typeRef
	nonNull bool
}

func (ref *typeRef) String() string {
	var s string
	if ref.list != nil {
		s = "[" + ref.list.String() + "]"
	} else {
		s = ref.named
	}
	if ref.nonNull {
		s += "!"
	}
	return s
}

// baseName returns the named type at the core of the reference.
func (ref *typeRef) baseName() string {
	for ref.list != nil {
		ref = ref.list
	}
	return ref.named
}

// parseTypeRef parses a type reference written in GraphQL notation.
func parseTypeRef(s string) (*typeRef, error) {
	ref, rest, err := parseTypeRefPrefix(strings.TrimSpace(s))
	if err != nil {
		return nil, xerrors.Errorf("parse type %q: %w", s, err)
	}
	if rest != "" {
		return nil, xerrors.Errorf("parse type %q: unexpected %q", s, rest)
	}
	return ref, nil
}

func parseTypeRefPrefix(s string) (*typeRef, string, error) {
	ref := new(typeRef)
	switch {
	case s == "":
		return nil, "", xerrors.New("missing type")
	case s[0] == '[':
		elem, rest, err := parseTypeRefPrefix(strings.TrimSpace(s[1:]))
		if err != nil {
			return nil, "", err
		}
		rest = strings.TrimSpace(rest)
		if !strings.HasPrefix(rest, "]") {
			return nil, "", xerrors.New("missing ]")
		}
		ref.list = elem
		s = rest[1:]
	default:
		n := 0
		for n < len(s) && isNameByte(s[n], n == 0) {
			n++
		}
		if n == 0 {
			return nil, "", xerrors.Errorf("unexpected %q", s[:1])
		}
		ref.named = s[:n]
		s = s[n:]
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "!") {
		ref.nonNull = true
		s = strings.TrimSpace(s[1:])
	}
	return ref, s, nil
}

func isNameByte(c byte, first bool) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || !first && '0' <= c && c <= '9'
}

// isValidName reports whether name is a GraphQL name.
func isValidName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isNameByte(name[i], i == 0) {
			return false
		}
	}
	return true
}
