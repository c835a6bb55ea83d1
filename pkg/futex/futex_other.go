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

//go:build !linux

package futex

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// SingleWake is true when Wake(addr, 1) wakes at most one waiter.
//
// Without a kernel futex, waiters park in shared buckets and Wake must
// broadcast to the whole bucket, since the bucket may hold waiters for other
// addresses. Woken threads that lose the race re-check their word and park
// again.
const SingleWake = false

const numBuckets = 251

type bucket struct {
	mu      sync.Mutex
	cond    sync.Cond
	waiters int
}

var buckets [numBuckets]bucket

func init() {
	for i := range buckets {
		buckets[i].cond.L = &buckets[i].mu
	}
}

func bucketFor(addr *uint32) *bucket {
	return &buckets[(uintptr(unsafe.Pointer(addr))>>2)%numBuckets]
}

// Wait blocks the calling thread while *addr == val.
//
// It returns once woken by Wake, immediately if *addr != val at the time of
// the call, or spuriously.
func Wait(addr *uint32, val uint32) {
	b := bucketFor(addr)
	b.mu.Lock()
	defer b.mu.Unlock()
	// The word is checked under the bucket lock, and Wake takes the same lock,
	// so a store followed by Wake cannot slip in between check and sleep.
	if atomic.LoadUint32(addr) != val {
		return
	}
	b.waiters++
	b.cond.Wait()
	b.waiters--
}

// Wake wakes threads blocked in Wait on addr and returns the number of
// threads woken. n is an upper bound only on platforms where SingleWake is
// true; here every waiter sharing addr's bucket is woken.
func Wake(addr *uint32, n int) int {
	if n <= 0 {
		return 0
	}
	b := bucketFor(addr)
	b.mu.Lock()
	defer b.mu.Unlock()
	woken := b.waiters
	if woken > 0 {
		b.cond.Broadcast()
	}
	return woken
}
