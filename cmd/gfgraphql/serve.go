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
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
	"zombiezen.com/go/gfgraphql/graphqlhttp"
	"zombiezen.com/go/gfgraphql/gravityforms"
	"zombiezen.com/go/gfgraphql/internal/config"
	"zombiezen.com/go/gfgraphql/internal/formcache"
	"zombiezen.com/go/gfgraphql/internal/telemetry"
	"zombiezen.com/go/gfgraphql/internal/wpdb"
	"zombiezen.com/go/gfgraphql/schema"
)

func newServeCommand(configPath *string) *cobra.Command {
	var (
		addr  string
		debug bool
	)
	c := &cobra.Command{
		Use:   "serve",
		Short: "Start the GraphQL server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.HTTP.Addr = addr
			}
			if debug {
				cfg.Log.Level = "debug"
			}
			if err := cfg.Validate(); err != nil {
				return xerrors.Errorf("configuration: %w", err)
			}
			log, level, err := newLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log, level)
		},
	}
	c.Flags().StringVar(&addr, "addr", "", "address to listen on (overrides http.addr)")
	c.Flags().BoolVar(&debug, "debug", false, "log at debug level")
	return c
}

// serve runs the server until ctx is done.
func serve(ctx context.Context, cfg *config.Config, log *zap.Logger, level zap.AtomicLevel) error {
	db, err := wpdb.Open(cfg.Database.Driver, cfg.Database.DataSourceName(),
		wpdb.WithTablePrefix(cfg.Database.TablePrefix),
		wpdb.WithMaxOpenConns(cfg.Database.MaxOpenConns),
		wpdb.WithLogger(log.Named("wpdb")))
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Ping(ctx); err != nil {
		return xerrors.Errorf("connect to database: %w", err)
	}
	if cfg.Database.CreateTables {
		if err := db.CreateTables(ctx); err != nil {
			return err
		}
	}

	var store gravityforms.Store = db
	if cfg.Cache.RedisAddr != "" {
		cache, err := formcache.Dial(ctx, store, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB,
			formcache.WithTTL(cfg.Cache.TTL),
			formcache.WithPrefix(cfg.Cache.Prefix),
			formcache.WithLogger(log.Named("formcache")))
		if err != nil {
			return err
		}
		defer cache.Close()
		store = cache
		log.Info("Caching forms in Redis", zap.String("addr", cfg.Cache.RedisAddr), zap.Duration("ttl", cfg.Cache.TTL))
	}

	rc := routerConfig{
		graphQLPath:    cfg.HTTP.Path,
		requestTimeout: cfg.HTTP.RequestTimeout,
		logLevel:       level,
		health:         db.Ping,
	}
	var buildOpts []schema.BuildOption
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m, err := telemetry.NewMetrics(reg)
		if err != nil {
			return err
		}
		store = telemetry.InstrumentStore(store, m)
		buildOpts = append(buildOpts, schema.WithExtensions(telemetry.NewExtension(m)))
		rc.metricsPath = cfg.Metrics.Path
		rc.metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}
	gqlSchema, err := schema.New(schema.Config{
		Store:  store,
		Logger: log.Named("schema"),
	}, buildOpts...)
	if err != nil {
		return err
	}
	rc.graphQL = graphqlhttp.NewHandler(gqlSchema, graphqlhttp.WithLogger(log.Named("http")))

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           newRouter(rc),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Listening", zap.String("addr", srv.Addr), zap.String("path", cfg.HTTP.Path))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return xerrors.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("Graceful shutdown did not complete", zap.Error(err))
			return srv.Close()
		}
		return nil
	})
	return g.Wait()
}

type routerConfig struct {
	graphQL        http.Handler
	graphQLPath    string
	requestTimeout time.Duration
	metrics        http.Handler
	metricsPath    string
	logLevel       http.Handler
	health         func(context.Context) error
}

func newRouter(rc routerConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		if rc.requestTimeout > 0 {
			r.Use(middleware.Timeout(rc.requestTimeout))
		}
		r.Handle(rc.graphQLPath, rc.graphQL)
	})
	if rc.metrics != nil {
		r.Handle(rc.metricsPath, rc.metrics)
	}
	if rc.logLevel != nil {
		r.Handle("/loglevel", rc.logLevel)
	}
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if rc.health != nil {
			if err := rc.health(req.Context()); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	return r
}
