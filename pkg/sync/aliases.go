// Copyright 2020 The gVisor Authors.
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

// Package sync provides mutual exclusion locks that own the value they
// protect, along with aliases of the standard library's synchronization types
// so that callers only need to import one sync package.
//
// Mutex parks contended callers in the kernel on a futex word. SpinLock never
// blocks in the kernel and busy-waits instead. Both hand out a guard from
// Lock; the guard is the only way to reach the protected value, and its Unlock
// is the only way to release the lock. The usual pattern is
//
//	g := m.Lock()
//	defer g.Unlock()
//	*g.Ptr() += 1
//
// or, equivalently, m.With(func(v *int) { *v += 1 }).
//
// Neither lock is reentrant, and a panic inside a critical section does not
// poison the lock: releasing through defer (or With) leaves it usable.
package sync

import (
	"sync"
)

// Aliases of standard library types.
type (
	// Locker is an alias of sync.Locker.
	Locker = sync.Locker

	// Once is an alias of sync.Once.
	Once = sync.Once

	// WaitGroup is an alias of sync.WaitGroup.
	WaitGroup = sync.WaitGroup
)
