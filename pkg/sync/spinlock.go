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
	"sync/atomic"
)

// spinYieldInterval is the number of failed attempts after which Lock lets
// other goroutines run on the current P. Without it a spinner can occupy the
// P the holder needs until the scheduler preempts it.
const spinYieldInterval = 128

// Spin-wait steps taken by Lock after a failed attempt. Tests substitute
// counters.
var (
	spinHint  = doSpin
	spinYield = goyield
)

// SpinLock is a mutual exclusion lock that owns a value of type T and
// busy-waits instead of blocking.
//
// A contended Lock never enters the kernel: it retries TryAcquire with a CPU
// spin-wait hint between attempts. This keeps acquisition latency low when
// critical sections are short, at the price of burning CPU while waiting.
//
// SpinLock is safe to share between goroutines. The compare-and-swap in
// TryAcquire pairs with the store in Release, so all writes a holder makes to
// the value are visible to the next holder.
//
// The zero value is an unlocked SpinLock holding the zero value of T. A
// SpinLock must not be copied after first use.
type SpinLock[T any] struct {
	_ NoCopy

	locked atomic.Bool

	// value must only be accessed through a SpinLockGuard.
	value T
}

// NewSpinLock returns an unlocked SpinLock holding v.
func NewSpinLock[T any](v T) *SpinLock[T] {
	return &SpinLock[T]{value: v}
}

// TryAcquire attempts to take the lock without waiting. It returns true iff
// this call moved the lock from unlocked to locked; the caller must then
// Release it. A false result leaves the lock untouched.
//
// TryAcquire does not grant access to the value. Use TryLock for that.
func (l *SpinLock[T]) TryAcquire() bool {
	return l.locked.CompareAndSwap(false, true)
}

// Release unlocks l. It must only be called by the owner of a successful
// TryAcquire; guards release through SpinLockGuard.Unlock.
func (l *SpinLock[T]) Release() {
	l.locked.Store(false)
}

// Lock acquires l, spinning until it is available, and returns the guard
// through which the value may be accessed.
func (l *SpinLock[T]) Lock() *SpinLockGuard[T] {
	for i := 1; !l.TryAcquire(); i++ {
		spinHint()
		if i%spinYieldInterval == 0 {
			spinYield()
		}
	}
	return &SpinLockGuard[T]{l: l}
}

// TryLock is like TryAcquire, but returns a guard on success.
func (l *SpinLock[T]) TryLock() (*SpinLockGuard[T], bool) {
	if !l.TryAcquire() {
		return nil, false
	}
	return &SpinLockGuard[T]{l: l}, true
}

// With runs f with exclusive access to the value. The lock is released when f
// returns, including when it panics.
func (l *SpinLock[T]) With(f func(v *T)) {
	g := l.Lock()
	defer g.Unlock()
	f(g.Ptr())
}

// Locked reports whether l is held. The result is a snapshot.
func (l *SpinLock[T]) Locked() bool {
	return l.locked.Load()
}

// SpinLockGuard grants exclusive access to the value of a locked SpinLock.
type SpinLockGuard[T any] struct {
	// l is nil once the guard has been released.
	l *SpinLock[T]
}

func (g *SpinLockGuard[T]) lock() *SpinLock[T] {
	if g.l == nil {
		panic("sync: use of released SpinLockGuard")
	}
	return g.l
}

// Value returns a copy of the protected value.
func (g *SpinLockGuard[T]) Value() T {
	return g.lock().value
}

// Ptr returns a pointer to the protected value. The pointer must not be used
// after Unlock.
func (g *SpinLockGuard[T]) Ptr() *T {
	return &g.lock().value
}

// Unlock releases the lock. Calling Unlock twice panics.
func (g *SpinLockGuard[T]) Unlock() {
	l := g.lock()
	g.l = nil
	l.Release()
}
