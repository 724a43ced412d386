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

// Package telemetry records Prometheus metrics and OpenCensus traces for
// GraphQL operations and store calls.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/xerrors"
)

const namespace = "gfgraphql"

// Outcome label values.
const (
	outcomeOK         = "ok"
	outcomeError      = "error"
	outcomeParseError = "parse_error"
	outcomeInvalid    = "invalid"
	outcomeNotFound   = "not_found"
)

// Metrics holds the collectors the server exports.
type Metrics struct {
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	rootFields        *prometheus.CounterVec
	storeCalls        *prometheus.CounterVec
	storeDuration     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphql_operations_total",
			Help:      "GraphQL operations by operation type and outcome.",
		}, []string{"operation", "outcome"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graphql_operation_duration_seconds",
			Help:      "Time from parse to the end of execution.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		rootFields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphql_root_fields_total",
			Help:      "Resolutions of query and mutation root fields.",
		}, []string{"field", "outcome"}),
		storeCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_calls_total",
			Help:      "Store method calls by outcome.",
		}, []string{"method", "outcome"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_call_duration_seconds",
			Help:      "Store method latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	collectors := []prometheus.Collector{
		m.operations,
		m.operationDuration,
		m.rootFields,
		m.storeCalls,
		m.storeDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, xerrors.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}
