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

//go:build linux

package futex

import (
	"fmt"
	"unsafe"

	"github.com/rwheel/rwheel/pkg/abi/linux"
	"golang.org/x/sys/unix"
)

// SingleWake is true when Wake(addr, 1) wakes at most one waiter.
const SingleWake = true

// Wait blocks the calling thread while *addr == val.
//
// It returns once woken by Wake, immediately if *addr != val at the time of
// the call, or spuriously.
func Wait(addr *uint32, val uint32) {
	// Use the blocking variant so the runtime can hand off the P while this
	// thread is parked in the kernel.
	_, _, errno := unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)),
		linux.FUTEX_WAIT_PRIVATE, uintptr(val), 0, 0, 0)
	if errno != 0 && errno != unix.EAGAIN && errno != unix.EINTR {
		panic(fmt.Sprintf("futex: error waiting on %p: %v", addr, errno))
	}
}

// Wake wakes at most n threads blocked in Wait on addr and returns the number
// of threads woken.
func Wake(addr *uint32, n int) int {
	woken, _, errno := unix.RawSyscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)),
		linux.FUTEX_WAKE_PRIVATE, uintptr(n), 0, 0, 0)
	if errno != 0 {
		warn.Warningf("failed to FUTEX_WAKE %p: %v", addr, errno)
		return 0
	}
	return int(woken)
}
