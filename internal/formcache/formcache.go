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

// Package formcache caches form definitions in Redis.
package formcache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
	"zombiezen.com/go/gfgraphql/gravityforms"
)

// Defaults for a Cache.
const (
	DefaultPrefix = "gfgraphql:form:"
	DefaultTTL    = 5 * time.Minute
)

// Cache is a gravityforms.Store that serves Form and Forms from Redis,
// falling back to the wrapped store on a miss. Other methods go straight to
// the wrapped store.
//
// Redis failures are logged and never fail a request.
type Cache struct {
	gravityforms.Store
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *zap.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets how long a form stays cached. Zero means no expiration.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// WithLogger sets the logger that receives Redis errors.
func WithLogger(log *zap.Logger) Option {
	return func(c *Cache) {
		c.log = log
	}
}

// New returns a cache in front of store.
func New(store gravityforms.Store, client *redis.Client, opts ...Option) *Cache {
	c := &Cache{
		Store:  store,
		client: client,
		prefix: DefaultPrefix,
		ttl:    DefaultTTL,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial connects to the Redis server at addr and returns a cache that uses it.
func Dial(ctx context.Context, store gravityforms.Store, addr, password string, db int, opts ...Option) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, xerrors.Errorf("connect to redis at %s: %w", addr, err)
	}
	return New(store, client, opts...), nil
}

func (c *Cache) formKey(id int) string {
	return c.prefix + strconv.Itoa(id)
}

func (c *Cache) listKey() string {
	return c.prefix + "all"
}

// Form implements gravityforms.Store.
func (c *Cache) Form(ctx context.Context, id int) (*gravityforms.Form, error) {
	form := new(gravityforms.Form)
	if c.get(ctx, c.formKey(id), form) {
		return form, nil
	}
	form, err := c.Store.Form(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, c.formKey(id), form)
	return form, nil
}

// Forms implements gravityforms.Store.
func (c *Cache) Forms(ctx context.Context) ([]*gravityforms.Form, error) {
	var forms []*gravityforms.Form
	if c.get(ctx, c.listKey(), &forms) {
		return forms, nil
	}
	forms, err := c.Store.Forms(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, c.listKey(), forms)
	return forms, nil
}

// Invalidate removes the given forms and the form list from the cache.
func (c *Cache) Invalidate(ctx context.Context, ids ...int) error {
	keys := []string{c.listKey()}
	for _, id := range ids {
		keys = append(keys, c.formKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return xerrors.Errorf("invalidate forms: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// get decodes the cached value for key into v. It reports whether there
// was a usable cached value.
func (c *Cache) get(ctx context.Context, key string, v interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.log.Warn("Form cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		c.log.Warn("Discarding corrupt form cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *Cache) set(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("Form cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("Form cache write failed", zap.String("key", key), zap.Error(err))
	}
}
