// Copyright 2018 The gVisor Authors.
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

// Package linux contains the subset of the Linux ABI used by rwheel.
package linux

// Operations for futex(2), from <linux/futex.h>.
const (
	FUTEX_WAIT = 0
	FUTEX_WAKE = 1

	// FUTEX_PRIVATE_FLAG restricts the futex to the calling process, which
	// lets the kernel skip the shared-mapping lookup.
	FUTEX_PRIVATE_FLAG = 128
)

// Private variants of the futex operations.
const (
	FUTEX_WAIT_PRIVATE = FUTEX_WAIT | FUTEX_PRIVATE_FLAG
	FUTEX_WAKE_PRIVATE = FUTEX_WAKE | FUTEX_PRIVATE_FLAG
)
