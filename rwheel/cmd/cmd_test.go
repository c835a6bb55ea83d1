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
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/rwheel/rwheel/rwheel/config"
)

var lockKinds = []config.LockKind{config.LockMutex, config.LockSpin}

func TestRunCounter(t *testing.T) {
	for _, kind := range lockKinds {
		t.Run(kind.String(), func(t *testing.T) {
			for _, tc := range []struct {
				workers    int
				iterations int
			}{
				{2, 1000},
				{1, 1},
				{16, 5000},
			} {
				got, err := runCounter(context.Background(), kind, tc.workers, tc.iterations)
				if err != nil {
					t.Fatalf("runCounter(%d, %d) failed: %v", tc.workers, tc.iterations, err)
				}
				if want := int64(tc.workers * tc.iterations); got != want {
					t.Errorf("runCounter(%d, %d) = %d, want %d", tc.workers, tc.iterations, got, want)
				}
			}
		})
	}
}

func TestRunCounterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runCounter(ctx, config.LockMutex, 4, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("runCounter with cancelled context got error %v, want %v", err, context.Canceled)
	}
}

func TestRunBench(t *testing.T) {
	const workers, iterations = 4, 2000
	m := newLockMetrics()
	for _, kind := range lockKinds {
		res, err := runBench(context.Background(), kind, workers, iterations, m)
		if err != nil {
			t.Fatalf("runBench(%v) failed: %v", kind, err)
		}
		if want := int64(workers * iterations); res.count != want {
			t.Errorf("runBench(%v) count = %d, want %d", kind, res.count, want)
		}
		if got := testutil.ToFloat64(m.acquisitions.WithLabelValues(kind.String())); got != workers*iterations {
			t.Errorf("%v acquisitions = %v, want %v", kind, got, workers*iterations)
		}
	}

	families, err := m.registry.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	counts := map[string]uint64{}
	for _, mf := range families {
		if mf.GetName() != "rwheel_lock_acquire_seconds" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			counts[lockLabel(metric)] = metric.GetHistogram().GetSampleCount()
		}
	}
	want := map[string]uint64{
		"mutex": workers * iterations,
		"spin":  workers * iterations,
	}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("histogram sample counts (-want +got):\n%s", diff)
	}
}

func lockLabel(m *dto.Metric) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == "lock" {
			return l.GetValue()
		}
	}
	return ""
}

func TestRunBenchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runBench(ctx, config.LockSpin, 2, 10, newLockMetrics()); !errors.Is(err, context.Canceled) {
		t.Errorf("runBench with cancelled context got error %v, want %v", err, context.Canceled)
	}
}

func TestMetricsText(t *testing.T) {
	m := newLockMetrics()
	if _, err := runBench(context.Background(), config.LockMutex, 1, 10, m); err != nil {
		t.Fatalf("runBench failed: %v", err)
	}
	var buf bytes.Buffer
	if err := m.write(&buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	for _, want := range []string{
		"# TYPE rwheel_lock_acquire_seconds histogram",
		`rwheel_lock_acquisitions_total{lock="mutex"} 10`,
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("metrics output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestSharedCounterReleased(t *testing.T) {
	for _, kind := range lockKinds {
		c := newSharedCounter(kind)
		c.With(func(v *int64) { *v = 5 })
		if c.Locked() {
			t.Errorf("%v: lock held after With returned", kind)
		}
		if got := load(c); got != 5 {
			t.Errorf("%v: load() = %d, want 5", kind, got)
		}
	}
}
