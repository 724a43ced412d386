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
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// Global id prefixes.
const (
	formIDPrefix       = "gf_form"
	entryIDPrefix      = "gf_entry"
	draftEntryIDPrefix = "gf_draft_entry"
	formFieldIDPrefix  = "gf_form_field"
)

// toGlobalID returns the opaque id of an object: the base64 encoding of
// "prefix:id".
func toGlobalID(prefix, id string) string {
	return base64.StdEncoding.EncodeToString([]byte(prefix + ":" + id))
}

// fromGlobalID splits a global id into its prefix and local id.
func fromGlobalID(gid string) (prefix, id string, err error) {
	data, err := base64.StdEncoding.DecodeString(gid)
	if err != nil {
		return "", "", xerrors.Errorf("invalid global id %q", gid)
	}
	i := strings.IndexByte(string(data), ':')
	if i < 0 {
		return "", "", xerrors.Errorf("invalid global id %q", gid)
	}
	return string(data[:i]), string(data[i+1:]), nil
}

func formFieldGlobalID(formID, fieldID int) string {
	return toGlobalID(formFieldIDPrefix, fmt.Sprintf("%d:%d", formID, fieldID))
}

// databaseID interprets id as a database id or, failing that, a global id
// with the given prefix.
func databaseID(id interface{}, prefix string) (int, error) {
	s := fmt.Sprint(id)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	p, local, err := fromGlobalID(s)
	if err != nil {
		return 0, err
	}
	if p != prefix {
		return 0, xerrors.Errorf("id %q does not identify a %s", s, prefix)
	}
	n, err := strconv.Atoi(local)
	if err != nil {
		return 0, xerrors.Errorf("id %q does not identify a %s", s, prefix)
	}
	return n, nil
}

// resumeToken interprets id as a resume token or a draft entry global id,
// according to idType.
func resumeToken(id interface{}, idType interface{}) (string, error) {
	s := fmt.Sprint(id)
	if idType != idTypeGlobal {
		return s, nil
	}
	p, token, err := fromGlobalID(s)
	if err != nil {
		return "", err
	}
	if p != draftEntryIDPrefix {
		return "", xerrors.Errorf("id %q does not identify a %s", s, draftEntryIDPrefix)
	}
	return token, nil
}

const cursorPrefix = "arrayconnection:"

func offsetCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(offset)))
}

func cursorOffset(cursor string) (int, error) {
	data, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil || !strings.HasPrefix(string(data), cursorPrefix) {
		return 0, xerrors.Errorf("invalid cursor %q", cursor)
	}
	n, err := strconv.Atoi(string(data[len(cursorPrefix):]))
	if err != nil || n < 0 || n >= math.MaxInt32 {
		return 0, xerrors.Errorf("invalid cursor %q", cursor)
	}
	return n, nil
}

// Page size limits for connections.
const (
	defaultPageSize = 10
	maxPageSize     = 100
	noPageLimit     = -1
)

// page is a window into a list requested with first and after.
type page struct {
	offset int
	// limit is negative for no limit.
	limit int
}

func pageArgs(args map[string]interface{}, defaultLimit int) (page, error) {
	pg := page{limit: defaultLimit}
	if first, ok := args["first"].(int); ok {
		if first < 0 {
			return page{}, xerrors.New("first must not be negative")
		}
		pg.limit = first
		if pg.limit > maxPageSize {
			pg.limit = maxPageSize
		}
	}
	if after, ok := args["after"].(string); ok && after != "" {
		n, err := cursorOffset(after)
		if err != nil {
			return page{}, err
		}
		pg.offset = n + 1
	}
	return pg, nil
}

type connection struct {
	Nodes    []interface{}
	PageInfo pageInfo
}

type pageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     *string
	EndCursor       *string
}

// newConnection builds a connection from the nodes of a page. hasNext
// reports whether nodes exist past the page.
func newConnection(pg page, nodes []interface{}, hasNext bool) *connection {
	conn := &connection{
		Nodes: nodes,
		PageInfo: pageInfo{
			HasNextPage:     hasNext,
			HasPreviousPage: pg.offset > 0,
		},
	}
	if len(nodes) > 0 {
		start := offsetCursor(pg.offset)
		end := offsetCursor(pg.offset + len(nodes) - 1)
		conn.PageInfo.StartCursor = &start
		conn.PageInfo.EndCursor = &end
	}
	return conn
}

// sliceConnection pages through an in-memory list.
func sliceConnection(pg page, all []interface{}) *connection {
	if pg.offset >= len(all) {
		return newConnection(pg, nil, false)
	}
	nodes := all[pg.offset:]
	hasNext := false
	if pg.limit >= 0 && len(nodes) > pg.limit {
		nodes = nodes[:pg.limit]
		hasNext = true
	}
	return newConnection(pg, nodes, hasNext)
}
