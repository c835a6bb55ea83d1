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

// Package cmd holds implementations of the rwheel commands.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rwheel/rwheel/pkg/log"
	"github.com/rwheel/rwheel/pkg/sync"
	"github.com/rwheel/rwheel/rwheel/config"
)

// ErrorLogger is where error messages should be written to. These messages are
// consumed by the caller, so they should be kept short.
var ErrorLogger io.Writer = os.Stderr

// Fatalf logs to stderr and the debug log, then exits with a failure status.
func Fatalf(format string, args ...any) {
	log.Warningf(format, args...)
	fmt.Fprintf(ErrorLogger, "rwheel: "+format+"\n", args...)
	os.Exit(128)
}

// sharedCounter is an int64 behind one of the rwheel locks. Both sync.Mutex
// and sync.SpinLock implement it.
type sharedCounter interface {
	With(f func(v *int64))
	Locked() bool
}

var (
	_ sharedCounter = (*sync.Mutex[int64])(nil)
	_ sharedCounter = (*sync.SpinLock[int64])(nil)
)

// newSharedCounter returns a zeroed counter protected by the given lock kind.
func newSharedCounter(kind config.LockKind) sharedCounter {
	switch kind {
	case config.LockMutex:
		return sync.NewMutex(int64(0))
	case config.LockSpin:
		return sync.NewSpinLock(int64(0))
	}
	panic(fmt.Sprintf("unknown lock kind %d", kind))
}

// load reads the counter under its lock.
func load(c sharedCounter) int64 {
	var v int64
	c.With(func(p *int64) { v = *p })
	return v
}
