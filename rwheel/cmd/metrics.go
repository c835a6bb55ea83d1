// Copyright 2026 The rwheel Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// lockMetrics records how long workers waited for a lock. Each command run
// gets its own registry, so metrics never leak between runs or tests.
type lockMetrics struct {
	registry     *prometheus.Registry
	acquire      *prometheus.HistogramVec
	acquisitions *prometheus.CounterVec
}

func newLockMetrics() *lockMetrics {
	m := &lockMetrics{
		registry: prometheus.NewRegistry(),
		acquire: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rwheel",
			Subsystem: "lock",
			Name:      "acquire_seconds",
			Help:      "Time spent waiting to acquire the lock.",
			// 100ns to ~100ms.
			Buckets: prometheus.ExponentialBuckets(100e-9, 4, 11),
		}, []string{"lock"}),
		acquisitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rwheel",
			Subsystem: "lock",
			Name:      "acquisitions_total",
			Help:      "Number of times the lock was acquired.",
		}, []string{"lock"}),
	}
	m.registry.MustRegister(m.acquire, m.acquisitions)
	return m
}

// observe records one acquisition of the lock named kind that waited d.
func (m *lockMetrics) observe(kind string, d time.Duration) {
	m.acquire.WithLabelValues(kind).Observe(d.Seconds())
	m.acquisitions.WithLabelValues(kind).Inc()
}

// write writes all metrics to w in the Prometheus text exposition format.
func (m *lockMetrics) write(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
