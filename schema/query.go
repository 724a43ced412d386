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
	"context"
	"fmt"
	"strconv"

	"github.com/graphql-go/graphql"
	"golang.org/x/xerrors"
	"zombiezen.com/go/gfgraphql/gravityforms"
)

// entryCommon holds what submitted and draft entries share.
type entryCommon struct {
	id          string
	formID      int
	dateCreated interface{}
	ip          string
	sourceURL   string
	values      gravityforms.Values
	isDraft     bool
}

func entryCommonOf(v interface{}) (entryCommon, bool) {
	switch e := v.(type) {
	case *gravityforms.Entry:
		return entryCommon{
			id:          toGlobalID(entryIDPrefix, strconv.Itoa(e.ID)),
			formID:      e.FormID,
			dateCreated: formatDate(e.DateCreated),
			ip:          e.IP,
			sourceURL:   e.SourceURL,
			values:      e.Values,
		}, true
	case *gravityforms.DraftEntry:
		return entryCommon{
			id:          toGlobalID(draftEntryIDPrefix, e.ResumeToken),
			formID:      e.FormID,
			dateCreated: formatDate(e.DateCreated),
			ip:          e.IP,
			sourceURL:   e.SourceURL,
			values:      e.Values,
			isDraft:     true,
		}, true
	default:
		return entryCommon{}, false
	}
}

func entryProp(typ, desc string, get func(e entryCommon) interface{}) FieldConfig {
	return FieldConfig{
		Type:        typ,
		Description: desc,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			e, ok := entryCommonOf(p.Source)
			if !ok {
				return nil, nil
			}
			return nullable(get(e)), nil
		},
	}
}

func submittedProp(typ, desc string, get func(e *gravityforms.Entry) interface{}) FieldConfig {
	return FieldConfig{
		Type:        typ,
		Description: desc,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			e, ok := p.Source.(*gravityforms.Entry)
			if !ok {
				return nil, nil
			}
			return nullable(get(e)), nil
		},
	}
}

func draftProp(typ, desc string, get func(d *gravityforms.DraftEntry) interface{}) FieldConfig {
	return FieldConfig{
		Type:        typ,
		Description: desc,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			d, ok := p.Source.(*gravityforms.DraftEntry)
			if !ok {
				return nil, nil
			}
			return nullable(get(d)), nil
		},
	}
}

func entryTypeName(v interface{}) string {
	switch v.(type) {
	case *gravityforms.Entry:
		return "GfSubmittedEntry"
	case *gravityforms.DraftEntry:
		return "GfDraftEntry"
	default:
		return ""
	}
}

func (c *catalog) registerEntries() {
	c.iface("GfEntry", InterfaceConfig{
		Description: "A Gravity Forms entry, submitted or draft.",
		Interfaces:  []string{"Node"},
		Fields: map[string]FieldConfig{
			"id": entryProp("ID!", "The globally unique id of the entry.", func(e entryCommon) interface{} { return e.id }),
			"formDatabaseId": entryProp("Int", "The id of the form the entry belongs to.", func(e entryCommon) interface{} {
				return e.formID
			}),
			"form": {
				Type:        "GfForm",
				Description: "The form the entry belongs to.",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					e, ok := entryCommonOf(p.Source)
					if !ok {
						return nil, nil
					}
					return c.res.form(p.Context, e.formID)
				},
			},
			"dateCreatedGmt": entryProp("String", "The date the entry was created, in GMT.", func(e entryCommon) interface{} {
				return e.dateCreated
			}),
			"ip": entryProp("String", "The IP address of the user who submitted the entry.", func(e entryCommon) interface{} {
				return optString(e.ip)
			}),
			"sourceUrl": entryProp("String", "The URL the entry was submitted from.", func(e entryCommon) interface{} {
				return optString(e.sourceURL)
			}),
			"isDraft": entryProp("Boolean", "Whether the entry is a draft.", func(e entryCommon) interface{} { return e.isDraft }),
			"formFields": formFieldsField("The fields of the entry's form, with the entry's values.", func(p graphql.ResolveParams) (*gravityforms.Form, gravityforms.Values, error) {
				e, ok := entryCommonOf(p.Source)
				if !ok {
					return nil, nil, nil
				}
				form, err := c.res.form(p.Context, e.formID)
				if err != nil || form == nil {
					return nil, nil, err
				}
				return form, e.values, nil
			}),
		},
		ResolveType: entryTypeName,
	})
	c.object("GfSubmittedEntry", ObjectConfig{
		Description: "A submitted Gravity Forms entry.",
		Interfaces:  []string{"GfEntry"},
		Fields: map[string]FieldConfig{
			"databaseId": submittedProp("Int", "The entry id.", func(e *gravityforms.Entry) interface{} { return e.ID }),
			"dateUpdatedGmt": submittedProp("String", "The date the entry was last updated, in GMT.", func(e *gravityforms.Entry) interface{} {
				return formatDate(e.DateUpdated)
			}),
			"isStarred": submittedProp("Boolean", "Whether the entry is starred.", func(e *gravityforms.Entry) interface{} { return e.IsStarred }),
			"isRead":    submittedProp("Boolean", "Whether the entry has been read.", func(e *gravityforms.Entry) interface{} { return e.IsRead }),
			"postDatabaseId": submittedProp("Int", "The id of the post created from the entry.", func(e *gravityforms.Entry) interface{} {
				return optInt(e.PostID)
			}),
			"userAgent": submittedProp("String", "The user agent of the submitting browser.", func(e *gravityforms.Entry) interface{} {
				return optString(e.UserAgent)
			}),
			"currency": submittedProp("String", "The currency of pricing fields.", func(e *gravityforms.Entry) interface{} {
				return optString(e.Currency)
			}),
			"status": submittedProp("EntryStatusEnum", "The entry status.", func(e *gravityforms.Entry) interface{} { return e.Status }),
			"createdByDatabaseId": submittedProp("Int", "The id of the user who submitted the entry.", func(e *gravityforms.Entry) interface{} {
				return optInt(e.CreatedByID)
			}),
		},
	})
	c.object("GfDraftEntry", ObjectConfig{
		Description: "A partially completed entry saved to be resumed later.",
		Interfaces:  []string{"GfEntry"},
		Fields: map[string]FieldConfig{
			"resumeToken": draftProp("String", "The token used to resume the draft.", func(d *gravityforms.DraftEntry) interface{} {
				return d.ResumeToken
			}),
			"email": draftProp("String", "The email address the resume link was sent to.", func(d *gravityforms.DraftEntry) interface{} {
				return optString(d.Email)
			}),
		},
	})
}

// notFound maps a store miss to a null result.
func notFound(v interface{}, err error) (interface{}, error) {
	if xerrors.Is(err, gravityforms.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *resolver) form(ctx context.Context, id int) (*gravityforms.Form, error) {
	form, err := r.store.Form(ctx, id)
	if xerrors.Is(err, gravityforms.ErrNotFound) {
		return nil, nil
	}
	return form, err
}

func entriesArgs() map[string]ArgConfig {
	args := pageFieldArgs()
	args["status"] = ArgConfig{Type: "EntryStatusEnum", Description: "The status of the entries. Defaults to ACTIVE."}
	return args
}

// entries resolves an entry connection over the given forms.
func (r *resolver) entries(p graphql.ResolveParams, formIDs []int) (interface{}, error) {
	pg, err := pageArgs(p.Args, defaultPageSize)
	if err != nil {
		return nil, err
	}
	if pg.limit == 0 {
		return newConnection(pg, nil, false), nil
	}
	status, _ := p.Args["status"].(string)
	// One extra entry tells whether a next page exists.
	list, err := r.store.Entries(p.Context, gravityforms.EntryQuery{
		FormIDs: formIDs,
		Status:  status,
		Offset:  pg.offset,
		Limit:   pg.limit + 1,
	})
	if err != nil {
		return nil, xerrors.Errorf("list entries: %w", err)
	}
	hasNext := len(list) > pg.limit
	if hasNext {
		list = list[:pg.limit]
	}
	nodes := make([]interface{}, len(list))
	for i, e := range list {
		nodes[i] = e
	}
	return newConnection(pg, nodes, hasNext), nil
}

// node resolves any object by its global id.
func (r *resolver) node(ctx context.Context, gid string) (interface{}, error) {
	prefix, id, err := fromGlobalID(gid)
	if err != nil {
		return nil, err
	}
	switch prefix {
	case formIDPrefix:
		n, err := strconv.Atoi(id)
		if err != nil {
			return nil, xerrors.Errorf("invalid form id %q", gid)
		}
		return notFound(r.store.Form(ctx, n))
	case entryIDPrefix:
		n, err := strconv.Atoi(id)
		if err != nil {
			return nil, xerrors.Errorf("invalid entry id %q", gid)
		}
		return notFound(r.store.Entry(ctx, n))
	case draftEntryIDPrefix:
		return notFound(r.store.DraftEntry(ctx, id))
	case formFieldIDPrefix:
		formID, fieldID, err := splitFieldID(id)
		if err != nil {
			return nil, xerrors.Errorf("invalid form field id %q", gid)
		}
		form, err := r.form(ctx, formID)
		if err != nil || form == nil {
			return nil, err
		}
		field := form.Field(fieldID)
		if field == nil {
			return nil, nil
		}
		return &fieldSource{form: form, field: field}, nil
	default:
		return nil, xerrors.Errorf("unknown id type %q", prefix)
	}
}

func splitFieldID(id string) (formID, fieldID int, err error) {
	for i := 0; i < len(id); i++ {
		if id[i] != ':' {
			continue
		}
		formID, err = strconv.Atoi(id[:i])
		if err != nil {
			return 0, 0, err
		}
		fieldID, err = strconv.Atoi(id[i+1:])
		return formID, fieldID, err
	}
	return 0, 0, xerrors.Errorf("missing separator in %q", id)
}

// entry resolves gfEntry, which also finds drafts by resume token.
func (r *resolver) entry(ctx context.Context, id interface{}, idType interface{}) (interface{}, error) {
	switch idType {
	case idTypeResumeToken:
		return notFound(r.store.DraftEntry(ctx, fmt.Sprint(id)))
	case idTypeDatabase:
		n, err := databaseID(id, entryIDPrefix)
		if err != nil {
			return nil, err
		}
		return notFound(r.store.Entry(ctx, n))
	default:
		v, err := r.node(ctx, fmt.Sprint(id))
		if err != nil {
			return nil, err
		}
		switch v.(type) {
		case *gravityforms.Entry, *gravityforms.DraftEntry, nil:
			return v, nil
		default:
			return nil, xerrors.Errorf("id %q does not identify an entry", id)
		}
	}
}

func (c *catalog) registerQuery() {
	r := c.res
	c.object(QueryType, ObjectConfig{
		Description: "The root query.",
		Fields: map[string]FieldConfig{
			"gfForm": {
				Type:        "GfForm",
				Description: "Get a form by its id.",
				Args: map[string]ArgConfig{
					"id":     {Type: "ID!", Description: "The id of the form."},
					"idType": {Type: "FormIdTypeEnum", Description: "The type of id. Defaults to ID.", DefaultValue: idTypeGlobal},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					prefix := formIDPrefix
					if p.Args["idType"] == idTypeDatabase {
						prefix = ""
					}
					id, err := databaseID(p.Args["id"], prefix)
					if err != nil {
						return nil, err
					}
					return notFound(r.store.Form(p.Context, id))
				},
			},
			"gfForms": {
				Type:        "GfFormConnection",
				Description: "The active forms, ordered by id.",
				Args:        pageFieldArgs(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pg, err := pageArgs(p.Args, defaultPageSize)
					if err != nil {
						return nil, err
					}
					forms, err := r.store.Forms(p.Context)
					if err != nil {
						return nil, xerrors.Errorf("list forms: %w", err)
					}
					all := make([]interface{}, len(forms))
					for i, form := range forms {
						all[i] = form
					}
					return sliceConnection(pg, all), nil
				},
			},
			"gfEntry": {
				Type:        "GfEntry",
				Description: "Get a submitted entry, or a draft entry by its resume token.",
				Args: map[string]ArgConfig{
					"id":     {Type: "ID!", Description: "The id of the entry."},
					"idType": {Type: "EntryIdTypeEnum", Description: "The type of id. Defaults to ID.", DefaultValue: idTypeGlobal},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.entry(p.Context, p.Args["id"], p.Args["idType"])
				},
			},
			"gfEntries": {
				Type:        "GfEntryConnection",
				Description: "Submitted entries, newest first.",
				Args: func() map[string]ArgConfig {
					args := entriesArgs()
					args["formIds"] = ArgConfig{Type: "[ID]", Description: "Restrict the entries to these forms. Accepts global or database ids."}
					return args
				}(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var formIDs []int
					ids, _ := p.Args["formIds"].([]interface{})
					for _, id := range ids {
						n, err := databaseID(id, formIDPrefix)
						if err != nil {
							return nil, err
						}
						formIDs = append(formIDs, n)
					}
					return r.entries(p, formIDs)
				},
			},
			"gfDraftEntry": {
				Type:        "GfDraftEntry",
				Description: "Get a draft entry.",
				Args: map[string]ArgConfig{
					"id":     {Type: "ID!", Description: "The id of the draft entry."},
					"idType": {Type: "DraftEntryIdTypeEnum", Description: "The type of id. Defaults to RESUME_TOKEN.", DefaultValue: idTypeResumeToken},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					token, err := resumeToken(p.Args["id"], p.Args["idType"])
					if err != nil {
						return nil, err
					}
					return notFound(r.store.DraftEntry(p.Context, token))
				},
			},
			"node": {
				Type:        "Node",
				Description: "Fetch an object by its global id.",
				Args: map[string]ArgConfig{
					"id": {Type: "ID!", Description: "The global id of the object."},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.node(p.Context, fmt.Sprint(p.Args["id"]))
				},
			},
		},
	})
}
