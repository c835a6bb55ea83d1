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

	"github.com/rwheel/rwheel/pkg/futex"
)

// Values of Mutex.locked.
const (
	mutexUnlocked uint32 = 0
	mutexLocked   uint32 = 1
)

// Mutex is a mutual exclusion lock that owns a value of type T.
//
// Callers that find the lock held sleep in the kernel on the lock word until
// the holder releases it, so waiting costs no CPU. This makes Mutex the better
// choice when critical sections may be long or contention heavy.
//
// Mutex is safe to share between goroutines. The lock word is only accessed
// atomically, and the exchange in Lock pairs with the store in Unlock, so all
// writes a holder makes to the value are visible to the next holder.
//
// The zero value is an unlocked Mutex holding the zero value of T. A Mutex
// must not be copied after first use.
type Mutex[T any] struct {
	_ NoCopy

	// locked is the futex word. It is mutexUnlocked or mutexLocked and is
	// accessed only with atomic operations.
	locked uint32

	// value must only be accessed through a MutexGuard.
	value T
}

// NewMutex returns an unlocked Mutex holding v.
func NewMutex[T any](v T) *Mutex[T] {
	return &Mutex[T]{value: v}
}

// Lock acquires m, blocking until it is available, and returns the guard
// through which the value may be accessed. The lock is held until the guard's
// Unlock is called.
func (m *Mutex[T]) Lock() *MutexGuard[T] {
	for atomic.SwapUint32(&m.locked, mutexLocked) == mutexLocked {
		// The holder may release between the Swap and the Wait; the kernel
		// then sees a word other than mutexLocked and returns immediately.
		futex.Wait(&m.locked, mutexLocked)
	}
	return &MutexGuard[T]{m: m}
}

// With runs f with exclusive access to the value. The lock is released when f
// returns, including when it panics.
func (m *Mutex[T]) With(f func(v *T)) {
	g := m.Lock()
	defer g.Unlock()
	f(g.Ptr())
}

// Locked reports whether m is held. The result is a snapshot and may be stale
// by the time it is used.
func (m *Mutex[T]) Locked() bool {
	return atomic.LoadUint32(&m.locked) == mutexLocked
}

// Wake wakes one goroutine blocked in Lock, if any. Ordinary callers never
// need it: releasing a guard already wakes a waiter.
func (m *Mutex[T]) Wake() {
	futex.WakeOne(&m.locked)
}

func (m *Mutex[T]) unlock() {
	atomic.StoreUint32(&m.locked, mutexUnlocked)
	// Only one waiter can win the next Swap.
	futex.WakeOne(&m.locked)
}

// MutexGuard grants exclusive access to the value of a locked Mutex. It is
// returned by Mutex.Lock and stays valid until Unlock.
//
// A MutexGuard belongs to the goroutine that called Lock, but may be handed to
// another goroutine as long as only one of them uses it.
type MutexGuard[T any] struct {
	// m is nil once the guard has been released.
	m *Mutex[T]
}

func (g *MutexGuard[T]) mutex() *Mutex[T] {
	if g.m == nil {
		panic("sync: use of released MutexGuard")
	}
	return g.m
}

// Value returns a copy of the protected value.
func (g *MutexGuard[T]) Value() T {
	return g.mutex().value
}

// Ptr returns a pointer to the protected value. The pointer must not be used
// after Unlock.
func (g *MutexGuard[T]) Ptr() *T {
	return &g.mutex().value
}

// Unlock releases the lock and wakes one waiter. Calling Unlock twice panics.
func (g *MutexGuard[T]) Unlock() {
	m := g.mutex()
	g.m = nil
	m.unlock()
}
