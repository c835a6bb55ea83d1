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

// Package futex provides futex-style wait and wake on a 32-bit word.
//
// Wait suspends the calling thread until another thread calls Wake on the same
// address, without consuming CPU while parked. Wakeups may be spurious, so
// callers must always re-check the condition they are waiting for.
package futex

import (
	"time"

	"github.com/rwheel/rwheel/pkg/log"
)

// warn reports failures to wake waiters. A broken futex word tends to fail on
// every release, so reports are rate limited.
var warn = log.BasicRateLimitedLogger(10 * time.Second)

// WakeOne wakes at most one thread blocked in Wait on addr and returns the
// number of threads woken.
func WakeOne(addr *uint32) int {
	return Wake(addr, 1)
}
