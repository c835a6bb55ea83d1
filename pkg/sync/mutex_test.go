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
	"testing"

	"github.com/google/go-cmp/cmp"
)

// mustPanic runs f and fails the test unless it panics with want.
func mustPanic(t *testing.T, want string, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("no panic, want %q", want)
		}
		if got, ok := r.(string); !ok || got != want {
			t.Fatalf("panic got %v, want %q", r, want)
		}
	}()
	f()
}

func TestMutexZeroValue(t *testing.T) {
	var m Mutex[int]
	if m.Locked() {
		t.Fatalf("zero Mutex is locked")
	}
	g := m.Lock()
	if got := g.Value(); got != 0 {
		t.Errorf("zero Mutex holds %d, want 0", got)
	}
	*g.Ptr() = 7
	g.Unlock()

	g = m.Lock()
	defer g.Unlock()
	if got := g.Value(); got != 7 {
		t.Errorf("got %d after write, want 7", got)
	}
}

func TestMutexOwnsValue(t *testing.T) {
	type state struct {
		Names []string
		Hits  map[string]int
	}
	m := NewMutex(state{Hits: map[string]int{}})
	for _, name := range []string{"a", "b", "a"} {
		m.With(func(s *state) {
			s.Names = append(s.Names, name)
			s.Hits[name]++
		})
	}

	g := m.Lock()
	defer g.Unlock()
	want := state{
		Names: []string{"a", "b", "a"},
		Hits:  map[string]int{"a": 2, "b": 1},
	}
	if diff := cmp.Diff(want, g.Value()); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestMutexWithReleasesOnPanic(t *testing.T) {
	m := NewMutex(0)
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("With swallowed the panic")
			}
		}()
		m.With(func(v *int) {
			*v = 1
			panic("boom")
		})
	}()

	if m.Locked() {
		t.Fatalf("Mutex still held after a panic in With")
	}
	// The write made before the panic is kept; there is no poisoning.
	g := m.Lock()
	defer g.Unlock()
	if got := g.Value(); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}

func TestMutexGuardReleasedTwice(t *testing.T) {
	m := NewMutex(0)
	g := m.Lock()
	g.Unlock()
	mustPanic(t, "sync: use of released MutexGuard", g.Unlock)

	// The second Unlock must not have touched a lock now held by someone
	// else.
	g2 := m.Lock()
	mustPanic(t, "sync: use of released MutexGuard", g.Unlock)
	if !m.Locked() {
		t.Errorf("stale guard released a lock it no longer owns")
	}
	g2.Unlock()
}

func TestMutexGuardUseAfterUnlock(t *testing.T) {
	m := NewMutex("x")
	g := m.Lock()
	g.Unlock()
	mustPanic(t, "sync: use of released MutexGuard", func() { g.Value() })
	mustPanic(t, "sync: use of released MutexGuard", func() { g.Ptr() })
}

func TestMutexWakeWithoutWaiters(t *testing.T) {
	m := NewMutex(0)
	m.Wake()
	g := m.Lock()
	m.Wake()
	if !m.Locked() {
		t.Errorf("Wake released the lock")
	}
	g.Unlock()
}

func BenchmarkMutexUncontended(b *testing.B) {
	m := NewMutex(0)
	for i := 0; i < b.N; i++ {
		g := m.Lock()
		*g.Ptr()++
		g.Unlock()
	}
}

func BenchmarkMutexParallel(b *testing.B) {
	m := NewMutex(0)
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			g := m.Lock()
			*g.Ptr()++
			g.Unlock()
		}
	})
}
