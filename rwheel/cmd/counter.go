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

	"github.com/google/subcommands"
	"github.com/rwheel/rwheel/pkg/log"
	"github.com/rwheel/rwheel/rwheel/config"
	"golang.org/x/sync/errgroup"
)

// Counter implements subcommands.Command for the "counter" command.
type Counter struct{}

// Name implements subcommands.Command.Name.
func (*Counter) Name() string {
	return "counter"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Counter) Synopsis() string {
	return "increment a shared counter from several workers holding one lock"
}

// Usage implements subcommands.Command.Usage.
func (*Counter) Usage() string {
	return `counter - each of --workers goroutines takes the lock once and
increments the counter --iterations times while holding it.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Counter) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Counter) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)

	got, err := runCounter(ctx, conf.Lock, conf.Workers, conf.Iterations)
	if err != nil {
		Fatalf("counter: %v", err)
	}
	fmt.Printf("The counter is %d\n", got)

	if want := int64(conf.Workers) * int64(conf.Iterations); got != want {
		Fatalf("counter: lost updates: got %d, want %d", got, want)
	}
	return subcommands.ExitSuccess
}

// runCounter shares one counter between workers goroutines. Each takes the
// lock once and increments the counter iterations times before releasing it.
// It returns the final value.
func runCounter(ctx context.Context, kind config.LockKind, workers, iterations int) (int64, error) {
	c := newSharedCounter(kind)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c.With(func(v *int64) {
				for i := 0; i < iterations; i++ {
					*v++
				}
			})
			log.Debugf("counter: worker %d done", w)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return load(c), nil
}
