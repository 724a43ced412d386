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

// Package wpdb reads and writes Gravity Forms data in a WordPress database.
package wpdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"go.uber.org/zap"
	"golang.org/x/xerrors"
	_ "modernc.org/sqlite" // SQLite driver
	"zombiezen.com/go/gfgraphql/gravityforms"
)

// Supported database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// DefaultTablePrefix is the WordPress table prefix used when none is given.
const DefaultTablePrefix = "wp_"

// Store is a gravityforms.Store backed by the Gravity Forms tables.
type Store struct {
	db           *sql.DB
	driver       string
	prefix       string
	log          *zap.Logger
	now          func() time.Time
	maxOpenConns int
}

var _ gravityforms.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithTablePrefix sets the WordPress table prefix.
func WithTablePrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithLogger sets the logger for store operations.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithMaxOpenConns limits the connections Open creates. It has no effect
// on SQLite, which always uses a single connection.
func WithMaxOpenConns(n int) Option {
	return func(s *Store) {
		s.maxOpenConns = n
	}
}

// WithClock sets the function used to stamp entry update times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open opens a database with the given driver and returns a store on it.
// The store owns the database and closes it in Close.
func Open(driver, dsn string, opts ...Option) (*Store, error) {
	switch driver {
	case DriverMySQL, DriverSQLite:
	default:
		return nil, xerrors.Errorf("open database: unknown driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, xerrors.Errorf("open %s: %w", driver, err)
	}
	s := New(db, driver, opts...)
	if driver == DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	} else {
		db.SetConnMaxLifetime(10 * time.Minute)
		if s.maxOpenConns > 0 {
			db.SetMaxOpenConns(s.maxOpenConns)
			db.SetMaxIdleConns(s.maxOpenConns / 2)
		}
	}
	return s, nil
}

// New returns a store that uses an open database. driver selects the SQL
// dialect for CreateTables.
func New(db *sql.DB, driver string, opts ...Option) *Store {
	s := &Store{
		db:     db,
		driver: driver,
		prefix: DefaultTablePrefix,
		log:    zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) table(name string) string {
	return s.prefix + name
}

// Form implements gravityforms.Store.
func (s *Store) Form(ctx context.Context, id int) (*gravityforms.Form, error) {
	row := s.db.QueryRowContext(ctx, `SELECT f.id, f.title, f.date_created, f.is_active, f.is_trash, m.display_meta
		FROM `+s.table("gf_form")+` f
		LEFT JOIN `+s.table("gf_form_meta")+` m ON m.form_id = f.id
		WHERE f.id = ?`, id)
	form, err := scanForm(row)
	if xerrors.Is(err, sql.ErrNoRows) {
		return nil, xerrors.Errorf("form %d: %w", id, gravityforms.ErrNotFound)
	}
	if err != nil {
		return nil, xerrors.Errorf("form %d: %w", id, err)
	}
	return form, nil
}

// Forms implements gravityforms.Store.
func (s *Store) Forms(ctx context.Context) ([]*gravityforms.Form, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT f.id, f.title, f.date_created, f.is_active, f.is_trash, m.display_meta
		FROM `+s.table("gf_form")+` f
		LEFT JOIN `+s.table("gf_form_meta")+` m ON m.form_id = f.id
		WHERE f.is_active = 1 AND f.is_trash = 0
		ORDER BY f.id`)
	if err != nil {
		return nil, xerrors.Errorf("list forms: %w", err)
	}
	defer rows.Close()
	var forms []*gravityforms.Form
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, xerrors.Errorf("list forms: %w", err)
		}
		forms = append(forms, form)
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.Errorf("list forms: %w", err)
	}
	return forms, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanForm(row scanner) (*gravityforms.Form, error) {
	var (
		id       int
		title    string
		created  sql.NullString
		isActive bool
		isTrash  bool
		meta     sql.NullString
	)
	if err := row.Scan(&id, &title, &created, &isActive, &isTrash, &meta); err != nil {
		return nil, err
	}
	form := new(gravityforms.Form)
	if meta.Valid && meta.String != "" {
		if err := json.Unmarshal([]byte(meta.String), form); err != nil {
			return nil, xerrors.Errorf("form %d display meta: %w", id, err)
		}
	}
	form.ID = id
	if title != "" {
		form.Title = title
	}
	form.IsActive = gravityforms.Flag(isActive)
	form.IsTrash = gravityforms.Flag(isTrash)
	form.DateCreated = parseDate(created)
	for _, f := range form.Fields {
		if f != nil {
			f.FormID = id
		}
	}
	return form, nil
}

// SaveForm creates or replaces a form and its display meta.
func (s *Store) SaveForm(ctx context.Context, form *gravityforms.Form) error {
	meta, err := json.Marshal(form)
	if err != nil {
		return xerrors.Errorf("save form %d: %w", form.ID, err)
	}
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+s.table("gf_form_meta")+` WHERE form_id = ?`, form.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+s.table("gf_form")+` WHERE id = ?`, form.ID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO `+s.table("gf_form")+` (id, title, date_created, is_active, is_trash) VALUES (?, ?, ?, ?, ?)`,
			form.ID, form.Title, formatDate(form.DateCreated), bool(form.IsActive), bool(form.IsTrash))
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO `+s.table("gf_form_meta")+` (form_id, display_meta) VALUES (?, ?)`, form.ID, string(meta))
		return err
	})
	if err != nil {
		return xerrors.Errorf("save form %d: %w", form.ID, err)
	}
	return nil
}

const entryColumns = `id, form_id, post_id, date_created, date_updated, is_starred, is_read, ip, source_url, user_agent, currency, status, created_by`

// Entry implements gravityforms.Store.
func (s *Store) Entry(ctx context.Context, id int) (*gravityforms.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM `+s.table("gf_entry")+` WHERE id = ?`, id)
	e, err := scanEntry(row)
	if xerrors.Is(err, sql.ErrNoRows) {
		return nil, xerrors.Errorf("entry %d: %w", id, gravityforms.ErrNotFound)
	}
	if err != nil {
		return nil, xerrors.Errorf("entry %d: %w", id, err)
	}
	if err := s.loadValues(ctx, []*gravityforms.Entry{e}); err != nil {
		return nil, xerrors.Errorf("entry %d: %w", id, err)
	}
	return e, nil
}

// Entries implements gravityforms.Store.
func (s *Store) Entries(ctx context.Context, q gravityforms.EntryQuery) ([]*gravityforms.Entry, error) {
	status := q.Status
	if status == "" {
		status = gravityforms.StatusActive
	}
	query := new(strings.Builder)
	query.WriteString(`SELECT ` + entryColumns + ` FROM ` + s.table("gf_entry") + ` WHERE status = ?`)
	args := []interface{}{status}
	if len(q.FormIDs) > 0 {
		query.WriteString(` AND form_id IN (` + placeholders(len(q.FormIDs)) + `)`)
		for _, id := range q.FormIDs {
			args = append(args, id)
		}
	}
	limit := int64(q.Limit)
	if limit <= 0 {
		limit = math.MaxInt64
	}
	query.WriteString(` ORDER BY id DESC LIMIT ? OFFSET ?`)
	args = append(args, limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, xerrors.Errorf("list entries: %w", err)
	}
	var entries []*gravityforms.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, xerrors.Errorf("list entries: %w", err)
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, xerrors.Errorf("list entries: %w", err)
	}
	if err := s.loadValues(ctx, entries); err != nil {
		return nil, xerrors.Errorf("list entries: %w", err)
	}
	return entries, nil
}

func scanEntry(row scanner) (*gravityforms.Entry, error) {
	var (
		e         gravityforms.Entry
		postID    sql.NullInt64
		created   sql.NullString
		updated   sql.NullString
		ip        sql.NullString
		sourceURL sql.NullString
		userAgent sql.NullString
		currency  sql.NullString
		createdBy sql.NullInt64
	)
	err := row.Scan(&e.ID, &e.FormID, &postID, &created, &updated, &e.IsStarred, &e.IsRead,
		&ip, &sourceURL, &userAgent, &currency, &e.Status, &createdBy)
	if err != nil {
		return nil, err
	}
	e.PostID = int(postID.Int64)
	e.DateCreated = parseDate(created)
	e.DateUpdated = parseDate(updated)
	e.IP = ip.String
	e.SourceURL = sourceURL.String
	e.UserAgent = userAgent.String
	e.Currency = currency.String
	e.CreatedByID = int(createdBy.Int64)
	return &e, nil
}

// loadValues fills in the values of entries from the entry meta table.
func (s *Store) loadValues(ctx context.Context, entries []*gravityforms.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	byID := make(map[int]*gravityforms.Entry, len(entries))
	args := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		e.Values = make(gravityforms.Values)
		byID[e.ID] = e
		args = append(args, e.ID)
	}
	rows, err := s.db.QueryContext(ctx, `SELECT entry_id, meta_key, meta_value FROM `+s.table("gf_entry_meta")+
		` WHERE entry_id IN (`+placeholders(len(args))+`)`, args...)
	if err != nil {
		return xerrors.Errorf("load values: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			entryID int
			key     string
			value   sql.NullString
		)
		if err := rows.Scan(&entryID, &key, &value); err != nil {
			return xerrors.Errorf("load values: %w", err)
		}
		if e := byID[entryID]; e != nil {
			e.Values[key] = value.String
		}
	}
	if err := rows.Err(); err != nil {
		return xerrors.Errorf("load values: %w", err)
	}
	return nil
}

// CreateEntry implements gravityforms.Store.
func (s *Store) CreateEntry(ctx context.Context, e *gravityforms.Entry) (int, error) {
	status := e.Status
	if status == "" {
		status = gravityforms.StatusActive
	}
	now := s.now()
	created := e.DateCreated
	if created.IsZero() {
		created = now
	}
	var id int
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `INSERT INTO `+s.table("gf_entry")+` (form_id, post_id, date_created, date_updated, is_starred, is_read, ip, source_url, user_agent, currency, status, created_by)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.FormID, nullInt(e.PostID), formatDate(created), formatDate(now), e.IsStarred, e.IsRead,
			e.IP, e.SourceURL, e.UserAgent, e.Currency, status, nullInt(e.CreatedByID))
		if err != nil {
			return err
		}
		id64, err := result.LastInsertId()
		if err != nil {
			return err
		}
		id = int(id64)
		return s.insertValues(ctx, tx, id, e.FormID, e.Values)
	})
	if err != nil {
		return 0, xerrors.Errorf("create entry on form %d: %w", e.FormID, err)
	}
	s.log.Debug("Created entry", zap.Int("entry_id", id), zap.Int("form_id", e.FormID))
	return id, nil
}

// UpdateEntry implements gravityforms.Store.
func (s *Store) UpdateEntry(ctx context.Context, e *gravityforms.Entry) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+s.table("gf_entry")+` WHERE id = ?`, e.ID).Scan(&exists)
		if err != nil {
			return err
		}
		if exists == 0 {
			return gravityforms.ErrNotFound
		}
		_, err = tx.ExecContext(ctx, `UPDATE `+s.table("gf_entry")+` SET form_id = ?, post_id = ?, date_created = ?, date_updated = ?,
			is_starred = ?, is_read = ?, ip = ?, source_url = ?, user_agent = ?, currency = ?, status = ?, created_by = ?
			WHERE id = ?`,
			e.FormID, nullInt(e.PostID), formatDate(e.DateCreated), formatDate(s.now()), e.IsStarred, e.IsRead,
			e.IP, e.SourceURL, e.UserAgent, e.Currency, e.Status, nullInt(e.CreatedByID), e.ID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+s.table("gf_entry_meta")+` WHERE entry_id = ?`, e.ID); err != nil {
			return err
		}
		return s.insertValues(ctx, tx, e.ID, e.FormID, e.Values)
	})
	if err != nil {
		return xerrors.Errorf("update entry %d: %w", e.ID, err)
	}
	return nil
}

// DeleteEntry implements gravityforms.Store.
func (s *Store) DeleteEntry(ctx context.Context, id int) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM `+s.table("gf_entry")+` WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, err := result.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return gravityforms.ErrNotFound
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM `+s.table("gf_entry_meta")+` WHERE entry_id = ?`, id)
		return err
	})
	if err != nil {
		return xerrors.Errorf("delete entry %d: %w", id, err)
	}
	return nil
}

func (s *Store) insertValues(ctx context.Context, tx *sql.Tx, entryID, formID int, values gravityforms.Values) error {
	for _, key := range sortedKeys(values) {
		v, ok := metaValue(values[key])
		if !ok {
			continue
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO `+s.table("gf_entry_meta")+` (form_id, entry_id, meta_key, meta_value) VALUES (?, ?, ?, ?)`,
			formID, entryID, key, v)
		if err != nil {
			return xerrors.Errorf("insert value %s: %w", key, err)
		}
	}
	return nil
}

// metaValue converts a value to the text stored in the entry meta table.
// Values that are not strings are stored as JSON.
func metaValue(v interface{}) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v), true
		}
		return string(data), true
	}
}

// DraftEntry implements gravityforms.Store.
func (s *Store) DraftEntry(ctx context.Context, resumeToken string) (*gravityforms.DraftEntry, error) {
	var (
		d          gravityforms.DraftEntry
		email      sql.NullString
		created    sql.NullString
		ip         sql.NullString
		sourceURL  sql.NullString
		submission sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `SELECT uuid, email, form_id, date_created, ip, source_url, submission
		FROM `+s.table("gf_draft_submissions")+` WHERE uuid = ?`, resumeToken).
		Scan(&d.ResumeToken, &email, &d.FormID, &created, &ip, &sourceURL, &submission)
	if xerrors.Is(err, sql.ErrNoRows) {
		return nil, xerrors.Errorf("draft entry %q: %w", resumeToken, gravityforms.ErrNotFound)
	}
	if err != nil {
		return nil, xerrors.Errorf("draft entry %q: %w", resumeToken, err)
	}
	d.Email = email.String
	d.DateCreated = parseDate(created)
	d.IP = ip.String
	d.SourceURL = sourceURL.String
	if submission.String != "" {
		d.Values, err = gravityforms.UnmarshalDraftValues([]byte(submission.String))
		if err != nil {
			return nil, xerrors.Errorf("draft entry %q: %w", resumeToken, err)
		}
	}
	return &d, nil
}

// SaveDraftEntry implements gravityforms.Store.
func (s *Store) SaveDraftEntry(ctx context.Context, d *gravityforms.DraftEntry) error {
	submission, err := gravityforms.MarshalDraftValues(d.Values)
	if err != nil {
		return xerrors.Errorf("save draft entry %q: %w", d.ResumeToken, err)
	}
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+s.table("gf_draft_submissions")+` WHERE uuid = ?`, d.ResumeToken); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO `+s.table("gf_draft_submissions")+` (uuid, email, form_id, date_created, ip, source_url, submission)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			d.ResumeToken, d.Email, d.FormID, formatDate(d.DateCreated), d.IP, d.SourceURL, string(submission))
		return err
	})
	if err != nil {
		return xerrors.Errorf("save draft entry %q: %w", d.ResumeToken, err)
	}
	return nil
}

// DeleteDraftEntry implements gravityforms.Store.
func (s *Store) DeleteDraftEntry(ctx context.Context, resumeToken string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM `+s.table("gf_draft_submissions")+` WHERE uuid = ?`, resumeToken)
	if err != nil {
		return xerrors.Errorf("delete draft entry %q: %w", resumeToken, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return xerrors.Errorf("delete draft entry %q: %w", resumeToken, err)
	}
	if n == 0 {
		return xerrors.Errorf("delete draft entry %q: %w", resumeToken, gravityforms.ErrNotFound)
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, f func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := f(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Warn("Rollback failed", zap.Error(rbErr))
		}
		return err
	}
	return tx.Commit()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// parseDate parses a GMT date column. Unparseable or missing dates are the
// zero time.
func parseDate(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(gravityforms.DateLayout, s.String)
	if err != nil {
		// Some drivers return RFC 3339 for DATETIME columns.
		t, err = time.Parse(time.RFC3339, s.String)
		if err != nil {
			return time.Time{}
		}
	}
	return t.UTC()
}

func formatDate(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(gravityforms.DateLayout)
}

func nullInt(n int) interface{} {
	if n == 0 {
		return nil
	}
	return n
}

func sortedKeys(values gravityforms.Values) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
