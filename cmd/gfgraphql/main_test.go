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

package main

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
	"zombiezen.com/go/gfgraphql/graphqlhttp"
	"zombiezen.com/go/gfgraphql/gravityforms"
	"zombiezen.com/go/gfgraphql/gravityforms/gftest"
	"zombiezen.com/go/gfgraphql/internal/config"
	"zombiezen.com/go/gfgraphql/schema"
)

func TestSchemaCommand(t *testing.T) {
	cmd := newRootCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetArgs([]string{"schema"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "interface FormField")
	assert.Contains(t, out.String(), "input FormFieldValuesInput {")
}

func TestServeRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte("database:\n  driver: postgres\n"), 0o644))
	cmd := newRootCommand()
	cmd.SetArgs([]string{"serve", "--config", path})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}

func TestNewLogger(t *testing.T) {
	log, level, err := newLogger(config.LogConfig{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.InfoLevel))
	level.SetLevel(zap.DebugLevel)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))

	_, _, err = newLogger(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestRouter(t *testing.T) {
	store := gftest.NewStore(&gravityforms.Form{ID: 1, Title: "Contact", IsActive: true})
	gqlSchema, err := schema.New(schema.Config{Store: store})
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(newRouter(routerConfig{
		graphQL:        graphqlhttp.NewHandler(gqlSchema),
		graphQLPath:    "/graphql",
		requestTimeout: 5 * time.Second,
		metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		metricsPath:    "/metrics",
		logLevel:       zap.NewAtomicLevel(),
		health: func(context.Context) error {
			if !healthy.Load() {
				return xerrors.New("down")
			}
			return nil
		},
	}))
	defer srv.Close()

	get := func(path string) (int, string) {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := ioutil.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	code, body := get("/graphql?query=" + "%7BgfForm(id%3A1%2CidType%3ADATABASE_ID)%7Btitle%7D%7D")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"data":{"gfForm":{"title":"Contact"}}}`, body)

	resp, err := http.Post(srv.URL+"/graphql", "application/json",
		strings.NewReader(`{"query":"{ gfForms { nodes { databaseId } } }"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	code, _ = get("/healthz")
	assert.Equal(t, http.StatusOK, code)
	healthy.Store(false)
	code, _ = get("/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, code)

	code, _ = get("/metrics")
	assert.Equal(t, http.StatusOK, code)
	code, body = get("/loglevel")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "info")
	code, _ = get("/nope")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServe(t *testing.T) {
	cfg := config.Default()
	cfg.HTTP.Addr = "127.0.0.1:0"
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = filepath.Join(t.TempDir(), "wordpress.db")
	cfg.Database.CreateTables = true
	require.NoError(t, cfg.Validate())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, cfg, zap.NewNop(), zap.NewAtomicLevel())
	}()
	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
