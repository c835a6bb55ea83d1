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

package sync

import (
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// counterLock abstracts over Mutex[int] and SpinLock[int] so that the
// properties every lock must have are checked once for both.
type counterLock struct {
	name string
	// acquire locks and returns the value pointer and the release function.
	acquire func() (*int, func())
	locked  func() bool
}

func counterLocks() []counterLock {
	m := NewMutex(0)
	s := NewSpinLock(0)
	return []counterLock{
		{
			name: "Mutex",
			acquire: func() (*int, func()) {
				g := m.Lock()
				return g.Ptr(), g.Unlock
			},
			locked: m.Locked,
		},
		{
			name: "SpinLock",
			acquire: func() (*int, func()) {
				g := s.Lock()
				return g.Ptr(), g.Unlock
			},
			locked: s.Locked,
		},
	}
}

// waitTimeout waits for wg, failing the test if that takes longer than d.
func waitTimeout(t *testing.T, wg *WaitGroup, d time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("goroutines did not finish within %v", d)
	}
}

func TestMutualExclusion(t *testing.T) {
	for _, l := range counterLocks() {
		t.Run(l.name, func(t *testing.T) {
			// Test mutual exclusion by running "gr" goroutines concurrently,
			// and have each one increment a counter "iters" times within the
			// critical section established by the lock.
			//
			// If at the end the counter is not gr * iters, then we know that
			// goroutines ran concurrently within the critical section.
			//
			// If one of the goroutines doesn't complete, it's likely a bug
			// that causes it to wait forever.
			const gr = 16
			const iters = 10000
			var wg WaitGroup
			for i := 0; i < gr; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < iters; j++ {
						v, unlock := l.acquire()
						*v++
						unlock()
					}
				}()
			}
			waitTimeout(t, &wg, time.Minute)

			v, unlock := l.acquire()
			defer unlock()
			if *v != gr*iters {
				t.Fatalf("Bad count: got %v, want %v", *v, gr*iters)
			}
		})
	}
}

func TestTwoWorkerCounter(t *testing.T) {
	for _, l := range counterLocks() {
		t.Run(l.name, func(t *testing.T) {
			for run := 0; run < 50; run++ {
				v, unlock := l.acquire()
				*v = 0
				unlock()

				var wg WaitGroup
				for w := 0; w < 2; w++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						v, unlock := l.acquire()
						defer unlock()
						for i := 0; i < 1000; i++ {
							*v++
						}
					}()
				}
				waitTimeout(t, &wg, 10*time.Second)

				v, unlock = l.acquire()
				got := *v
				unlock()
				if got != 2000 {
					t.Fatalf("run %d: got counter %d, want 2000", run, got)
				}
			}
		})
	}
}

func TestVisibilityHandoff(t *testing.T) {
	for _, l := range counterLocks() {
		t.Run(l.name, func(t *testing.T) {
			// Holder i may only take its turn once the value equals i-1, which
			// must have been written by holder i-1 in its own critical
			// section. Each holder records what it read before overwriting.
			const holders = 32
			v, unlock := l.acquire()
			*v = -1
			unlock()

			seen := make([]int, holders)
			var wg WaitGroup
			for i := 0; i < holders; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					for {
						v, unlock := l.acquire()
						if *v == i-1 {
							seen[i] = *v
							*v = i
							unlock()
							return
						}
						unlock()
						runtime.Gosched()
					}
				}(i)
			}
			waitTimeout(t, &wg, time.Minute)

			want := make([]int, holders)
			for i := range want {
				want[i] = i - 1
			}
			if diff := cmp.Diff(want, seen); diff != "" {
				t.Errorf("values read by successive holders (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGuardScope(t *testing.T) {
	for _, l := range counterLocks() {
		t.Run(l.name, func(t *testing.T) {
			if l.locked() {
				t.Fatalf("lock held before Lock")
			}
			func() {
				_, unlock := l.acquire()
				defer unlock()
				if !l.locked() {
					t.Errorf("lock not held while the guard is live")
				}
			}()
			if l.locked() {
				t.Errorf("lock still held after the guard was released")
			}
		})
	}
}

func TestLockBlocksWhileHeld(t *testing.T) {
	for _, l := range counterLocks() {
		t.Run(l.name, func(t *testing.T) {
			_, unlock := l.acquire()

			// Try to lock from a different goroutine. This must block
			// because the lock is held.
			ch := make(chan struct{}, 1)
			go func() {
				_, unlock := l.acquire()
				ch <- struct{}{}
				unlock()
			}()

			select {
			case <-ch:
				t.Fatalf("Lock succeeded on held lock")
			case <-time.After(100 * time.Millisecond):
			}

			// Unlock and make sure that the goroutine waiting in Lock
			// unblocks and succeeds.
			unlock()

			select {
			case <-ch:
			case <-time.After(5 * time.Second):
				t.Fatalf("Lock failed to acquire released lock")
			}

			// Make sure we can lock and unlock again.
			_, unlock = l.acquire()
			unlock()
		})
	}
}
