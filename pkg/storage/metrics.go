// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsBackend holds Prometheus metrics for backend operations.
type metricsBackend struct {
	once sync.Once

	registry *prometheus.Registry
	ops      *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var backendMetrics metricsBackend

func (m *metricsBackend) init() {
	m.once.Do(func() {
		m.registry = prometheus.NewRegistry()
		labels := []string{"backend", "op"}

		m.ops = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zstags_backend_ops_total",
			Help: "Backend operations executed",
		}, labels)
		m.errors = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zstags_backend_errors_total",
			Help: "Backend operations that returned an error",
		}, labels)
		m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zstags_backend_op_seconds",
			Help:    "Backend operation latency",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, labels)

		m.registry.MustRegister(m.ops, m.errors, m.duration)
	})
}

func (m *metricsBackend) observe(backend, op string, start time.Time, err error) {
	m.init()
	m.ops.WithLabelValues(backend, op).Inc()
	m.duration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
	if err != nil {
		m.errors.WithLabelValues(backend, op).Inc()
	}
}

// MetricsRegistry returns the registry holding backend metrics.
func MetricsRegistry() *prometheus.Registry {
	backendMetrics.init()
	return backendMetrics.registry
}

// WriteMetricsFile writes all backend metrics to filename in the
// node_exporter textfile format. The file is replaced atomically.
func WriteMetricsFile(filename string) error {
	return prometheus.WriteToTextfile(filename, MetricsRegistry())
}

// InstrumentedBackend records counters and latencies for every call to
// the wrapped backend.
type InstrumentedBackend struct {
	inner Backend
}

// Instrument wraps b so its operations are recorded in MetricsRegistry.
func Instrument(b Backend) *InstrumentedBackend {
	return &InstrumentedBackend{inner: b}
}

// Unwrap implements Wrapper.
func (b *InstrumentedBackend) Unwrap() Backend { return b.inner }

// Name implements Backend.
func (b *InstrumentedBackend) Name() string { return b.inner.Name() }

// Tags implements Backend.
func (b *InstrumentedBackend) Tags(path string) (TagSet, error) {
	start := time.Now()
	tags, err := b.inner.Tags(path)
	backendMetrics.observe(b.inner.Name(), "tags", start, err)
	return tags, err
}

// SetTags implements Backend.
func (b *InstrumentedBackend) SetTags(path string, tags TagSet) error {
	start := time.Now()
	err := b.inner.SetTags(path, tags)
	backendMetrics.observe(b.inner.Name(), "set_tags", start, err)
	return err
}

// AddTag implements TagAdder, delegating to the wrapped backend's
// strategy.
func (b *InstrumentedBackend) AddTag(path, tag string) (bool, error) {
	start := time.Now()
	changed, err := AddTag(b.inner, path, tag)
	backendMetrics.observe(b.inner.Name(), "add_tag", start, err)
	return changed, err
}

// DeleteTag implements TagDeleter.
func (b *InstrumentedBackend) DeleteTag(path, tag string) (bool, error) {
	start := time.Now()
	changed, err := DeleteTag(b.inner, path, tag)
	backendMetrics.observe(b.inner.Name(), "delete_tag", start, err)
	return changed, err
}

// Close implements Backend.
func (b *InstrumentedBackend) Close() error {
	return b.inner.Close()
}
