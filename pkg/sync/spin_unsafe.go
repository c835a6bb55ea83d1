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

// Check go:linkname function signatures when updating Go version.

package sync

import (
	_ "unsafe" // for go:linkname
)

// doSpin executes a short burst of the CPU's spin-wait instruction (PAUSE on
// x86, YIELD on arm64).
//
//go:linkname doSpin sync.runtime_doSpin
func doSpin()

// goyield yields the processor to other goroutines, like runtime.Gosched, but
// leaves the current goroutine on the local run queue.
//
//go:linkname goyield runtime.goyield
func goyield()
