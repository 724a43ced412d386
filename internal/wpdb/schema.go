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

package wpdb

import (
	"context"
	"strings"

	"golang.org/x/xerrors"
)

// tableDefs are the Gravity Forms tables the store uses. {{prefix}} is
// replaced by the table prefix. {{id}} and {{datetime}} are replaced by the
// dialect's auto-increment key and date column types.
var tableDefs = []string{
	`CREATE TABLE IF NOT EXISTS {{prefix}}gf_form (
		id {{id}},
		title VARCHAR(150) NOT NULL DEFAULT '',
		date_created {{datetime}},
		date_updated {{datetime}},
		is_active TINYINT NOT NULL DEFAULT 1,
		is_trash TINYINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS {{prefix}}gf_form_meta (
		form_id INTEGER NOT NULL PRIMARY KEY,
		display_meta LONGTEXT,
		entries_grid_meta LONGTEXT,
		confirmations LONGTEXT,
		notifications LONGTEXT
	)`,
	`CREATE TABLE IF NOT EXISTS {{prefix}}gf_entry (
		id {{id}},
		form_id INTEGER NOT NULL,
		post_id BIGINT,
		date_created {{datetime}},
		date_updated {{datetime}},
		is_starred TINYINT NOT NULL DEFAULT 0,
		is_read TINYINT NOT NULL DEFAULT 0,
		ip VARCHAR(45),
		source_url VARCHAR(200),
		user_agent VARCHAR(250),
		currency VARCHAR(5),
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_by BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS {{prefix}}gf_entry_meta (
		id {{id}},
		form_id INTEGER NOT NULL DEFAULT 0,
		entry_id BIGINT NOT NULL,
		meta_key VARCHAR(255),
		meta_value LONGTEXT
	)`,
	`CREATE TABLE IF NOT EXISTS {{prefix}}gf_draft_submissions (
		uuid CHAR(32) NOT NULL PRIMARY KEY,
		email VARCHAR(255),
		form_id INTEGER NOT NULL,
		date_created {{datetime}},
		ip VARCHAR(45),
		source_url LONGTEXT,
		submission LONGTEXT
	)`,
}

// CreateTables creates the Gravity Forms tables if they do not exist.
// WordPress normally owns these tables; this is meant for tests and
// standalone deployments.
func (s *Store) CreateTables(ctx context.Context) error {
	var r *strings.Replacer
	switch s.driver {
	case DriverSQLite:
		r = strings.NewReplacer(
			"{{prefix}}", s.prefix,
			"{{id}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
			"{{datetime}}", "TEXT",
		)
	case DriverMySQL:
		r = strings.NewReplacer(
			"{{prefix}}", s.prefix,
			"{{id}}", "BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY",
			"{{datetime}}", "DATETIME",
		)
	default:
		return xerrors.Errorf("create tables: unknown driver %q", s.driver)
	}
	for _, def := range tableDefs {
		if _, err := s.db.ExecContext(ctx, r.Replace(def)); err != nil {
			return xerrors.Errorf("create tables: %w", err)
		}
	}
	return nil
}
