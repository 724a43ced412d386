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

// Package config loads the server configuration.
package config

import (
	"io/ioutil"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override the file.
// GFGRAPHQL_DATABASE_TABLE_PREFIX sets database.table_prefix.
const EnvPrefix = "GFGRAPHQL_"

// Config is the server configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// HTTPConfig configures the listener.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	Path            string        `yaml:"path"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects the WordPress database. If DSN is empty, a MySQL
// DSN is built from the connection fields.
type DatabaseConfig struct {
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	Host         string `yaml:"host"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Name         string `yaml:"name"`
	TablePrefix  string `yaml:"table_prefix"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	// CreateTables creates missing Gravity Forms tables at startup.
	CreateTables bool `yaml:"create_tables"`
}

// CacheConfig configures the Redis form cache. The cache is off when
// RedisAddr is empty.
type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
	Prefix        string        `yaml:"prefix"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used for unset values.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			Path:            "/graphql",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       "mysql",
			Host:         "localhost:3306",
			Name:         "wordpress",
			TablePrefix:  "wp_",
			MaxOpenConns: 10,
		},
		Cache: CacheConfig{
			TTL:    5 * time.Minute,
			Prefix: "gfgraphql:form:",
		},
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, xerrors.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables in the form
// GFGRAPHQL_<SECTION>_<KEY>. environ is in the format of os.Environ.
func (cfg *Config) ApplyEnv(environ []string) error {
	sections := make(map[string]interface{})
	for _, kv := range environ {
		if !strings.HasPrefix(kv, EnvPrefix) {
			continue
		}
		eq := strings.IndexByte(kv, '=')
		if eq == -1 {
			continue
		}
		name := strings.ToLower(kv[len(EnvPrefix):eq])
		i := strings.IndexByte(name, '_')
		if i <= 0 || i == len(name)-1 {
			continue
		}
		section, key := name[:i], name[i+1:]
		m, _ := sections[section].(map[string]interface{})
		if m == nil {
			m = make(map[string]interface{})
			sections[section] = m
		}
		m[key] = kv[eq+1:]
	}
	if len(sections) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		Result:           cfg,
	})
	if err != nil {
		return xerrors.Errorf("apply environment: %w", err)
	}
	if err := dec.Decode(sections); err != nil {
		return xerrors.Errorf("apply environment: %w", err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (cfg *Config) Validate() error {
	if cfg.HTTP.Addr == "" {
		return xerrors.New("http.addr is empty")
	}
	if !strings.HasPrefix(cfg.HTTP.Path, "/") {
		return xerrors.Errorf("http.path %q must start with /", cfg.HTTP.Path)
	}
	switch cfg.Database.Driver {
	case "mysql":
	case "sqlite":
		if cfg.Database.DSN == "" {
			return xerrors.New("database.dsn is required for sqlite")
		}
	default:
		return xerrors.Errorf("database.driver %q is not mysql or sqlite", cfg.Database.Driver)
	}
	if cfg.Database.MaxOpenConns < 0 {
		return xerrors.New("database.max_open_conns is negative")
	}
	if cfg.Cache.TTL < 0 {
		return xerrors.New("cache.ttl is negative")
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return xerrors.Errorf("log.level %q is not debug, info, warn, or error", cfg.Log.Level)
	}
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return xerrors.Errorf("metrics.path %q must start with /", cfg.Metrics.Path)
	}
	return nil
}

// DataSourceName returns the DSN to open the database with.
func (db *DatabaseConfig) DataSourceName() string {
	if db.DSN != "" || db.Driver != "mysql" {
		return db.DSN
	}
	mc := mysql.NewConfig()
	mc.User = db.User
	mc.Passwd = db.Password
	mc.Net = "tcp"
	mc.Addr = db.Host
	mc.DBName = db.Name
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}
