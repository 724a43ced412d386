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

package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gfgraphql.yaml")
	const data = `
http:
  addr: ":9000"
database:
  driver: sqlite
  dsn: /var/lib/gfgraphql/wp.db
  create_tables: true
cache:
  redis_addr: localhost:6379
  ttl: 90s
log:
  level: debug
`
	if err := ioutil.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.HTTP.Addr = ":9000"
	want.Database.Driver = "sqlite"
	want.Database.DSN = "/var/lib/gfgraphql/wp.db"
	want.Database.CreateTables = true
	want.Cache.RedisAddr = "localhost:6379"
	want.Cache.TTL = 90 * time.Second
	want.Log.Level = "debug"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load(...) (-want +got):\n%s", diff)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	got, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("Load(\"\") (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of missing file did not return an error")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := ioutil.WriteFile(path, []byte("http: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load of malformed file did not return an error")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv([]string{
		"HOME=/root",
		"GFGRAPHQL_HTTP_ADDR=:7000",
		"GFGRAPHQL_DATABASE_TABLE_PREFIX=wp_2_",
		"GFGRAPHQL_DATABASE_MAX_OPEN_CONNS=3",
		"GFGRAPHQL_CACHE_TTL=1m",
		"GFGRAPHQL_METRICS_ENABLED=false",
	})
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.HTTP.Addr = ":7000"
	want.Database.TablePrefix = "wp_2_"
	want.Database.MaxOpenConns = 3
	want.Cache.TTL = time.Minute
	want.Metrics.Enabled = false
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("after ApplyEnv (-want +got):\n%s", diff)
	}
}

func TestApplyEnvUnknownKey(t *testing.T) {
	cfg := Default()
	if err := cfg.ApplyEnv([]string{"GFGRAPHQL_HTTP_PORT=80"}); err == nil {
		t.Error("ApplyEnv with unknown key did not return an error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(cfg *Config)
		wantErr bool
	}{
		{"Default", func(cfg *Config) {}, false},
		{"EmptyAddr", func(cfg *Config) { cfg.HTTP.Addr = "" }, true},
		{"RelativePath", func(cfg *Config) { cfg.HTTP.Path = "graphql" }, true},
		{"UnknownDriver", func(cfg *Config) { cfg.Database.Driver = "postgres" }, true},
		{"SQLiteWithoutDSN", func(cfg *Config) { cfg.Database.Driver = "sqlite" }, true},
		{"NegativeTTL", func(cfg *Config) { cfg.Cache.TTL = -time.Second }, true},
		{"BadLevel", func(cfg *Config) { cfg.Log.Level = "loud" }, true},
		{"UppercaseLevel", func(cfg *Config) { cfg.Log.Level = "WARN" }, false},
		{"MetricsPath", func(cfg *Config) { cfg.Metrics.Path = "metrics" }, true},
		{"MetricsDisabled", func(cfg *Config) {
			cfg.Metrics.Enabled = false
			cfg.Metrics.Path = ""
		}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != test.wantErr {
				t.Errorf("Validate() = %v; want error = %t", err, test.wantErr)
			}
		})
	}
}

func TestDataSourceName(t *testing.T) {
	tests := []struct {
		name string
		db   DatabaseConfig
		want string
	}{
		{
			name: "Explicit",
			db:   DatabaseConfig{Driver: "mysql", DSN: "root@/wp"},
			want: "root@/wp",
		},
		{
			name: "Fields",
			db:   DatabaseConfig{Driver: "mysql", Host: "db:3306", User: "wp", Password: "secret", Name: "wordpress"},
			want: "wp:secret@tcp(db:3306)/wordpress?charset=utf8mb4",
		},
		{
			name: "SQLite",
			db:   DatabaseConfig{Driver: "sqlite", DSN: "wp.db"},
			want: "wp.db",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.db.DataSourceName(); got != test.want {
				t.Errorf("DataSourceName() = %q; want %q", got, test.want)
			}
		})
	}
}
