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
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/rwheel/rwheel/pkg/log"
	"github.com/rwheel/rwheel/rwheel/config"
	"golang.org/x/sync/errgroup"
)

// checkInterval is how many iterations a bench worker runs between checks for
// cancellation.
const checkInterval = 1024

// Bench implements subcommands.Command for the "bench" command.
type Bench struct {
	compare bool
	metrics bool
}

// Name implements subcommands.Command.Name.
func (*Bench) Name() string {
	return "bench"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Bench) Synopsis() string {
	return "measure lock throughput and acquisition latency under contention"
}

// Usage implements subcommands.Command.Usage.
func (*Bench) Usage() string {
	return `bench [flags] - each of --workers goroutines takes and releases the lock
once per increment, --iterations times.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (b *Bench) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&b.compare, "compare", false, "run the benchmark for every lock kind instead of only --lock.")
	f.BoolVar(&b.metrics, "metrics", false, "print acquisition metrics in Prometheus text format.")
}

// Execute implements subcommands.Command.Execute.
func (b *Bench) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)

	kinds := []config.LockKind{conf.Lock}
	if b.compare {
		kinds = []config.LockKind{config.LockMutex, config.LockSpin}
	}

	m := newLockMetrics()
	for _, kind := range kinds {
		res, err := runBench(ctx, kind, conf.Workers, conf.Iterations, m)
		if err != nil {
			Fatalf("bench %v: %v", kind, err)
		}
		fmt.Println(res)
		if want := int64(conf.Workers) * int64(conf.Iterations); res.count != want {
			Fatalf("bench %v: lost updates: got %d, want %d", kind, res.count, want)
		}
	}

	if b.metrics {
		if err := m.write(os.Stdout); err != nil {
			Fatalf("writing metrics: %v", err)
		}
	}
	return subcommands.ExitSuccess
}

// benchResult summarizes one benchmark run.
type benchResult struct {
	kind       config.LockKind
	workers    int
	iterations int
	count      int64
	elapsed    time.Duration
}

// String implements fmt.Stringer.
func (r benchResult) String() string {
	ops := float64(r.count) / r.elapsed.Seconds()
	return fmt.Sprintf("lock=%v workers=%d iterations=%d count=%d elapsed=%v ops/s=%.0f",
		r.kind, r.workers, r.iterations, r.count, r.elapsed, ops)
}

// runBench has workers goroutines each acquire and release the lock
// iterations times, incrementing the counter once per acquisition.
func runBench(ctx context.Context, kind config.LockKind, workers, iterations int, m *lockMetrics) (benchResult, error) {
	c := newSharedCounter(kind)
	name := kind.String()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < iterations; i++ {
				if i%checkInterval == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				var waited time.Duration
				before := time.Now()
				c.With(func(v *int64) {
					waited = time.Since(before)
					*v++
				})
				m.observe(name, waited)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return benchResult{}, err
	}
	elapsed := time.Since(start)

	res := benchResult{
		kind:       kind,
		workers:    workers,
		iterations: iterations,
		count:      load(c),
		elapsed:    elapsed,
	}
	log.Infof("bench: %v", res)
	return res, nil
}
