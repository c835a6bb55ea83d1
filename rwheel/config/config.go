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

// Package config provides basic infrastructure to set configuration settings
// for rwheel. Each setting that can be changed from the command line must be
// added to Config and registered with RegisterFlags.
package config

import (
	"fmt"

	"github.com/rwheel/rwheel/pkg/log"
)

// Config holds configuration that is not part of a subcommand's own flags.
// Fields tagged with `flag` are populated from the flag of that name.
type Config struct {
	// ConfigFile is the path of an optional TOML file whose settings are
	// used for every flag not given on the command line.
	ConfigFile string `flag:"config"`

	// Debug indicates that debug logging should be enabled.
	Debug bool `flag:"debug"`

	// LogFilename is the filename to log to, if not empty.
	LogFilename string `flag:"log"`

	// LogFormat is the log format.
	LogFormat string `flag:"log-format"`

	// Lock selects which lock protects the shared counter.
	Lock LockKind `flag:"lock"`

	// Workers is the number of goroutines sharing the lock.
	Workers int `flag:"workers"`

	// Iterations is the number of increments each worker performs.
	Iterations int `flag:"iterations"`
}

func (c *Config) validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q, must be 'text' or 'json'", c.LogFormat)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", c.Iterations)
	}
	return nil
}

// Log logs important aspects of the configuration to the given log function.
func (c *Config) Log() {
	log.Infof("Config:")
	log.Infof("\t\tLock: %v", c.Lock)
	log.Infof("\t\tWorkers: %d", c.Workers)
	log.Infof("\t\tIterations: %d", c.Iterations)
	log.Infof("\t\tLog: %q, format: %s", c.LogFilename, c.LogFormat)
	if c.ConfigFile != "" {
		log.Infof("\t\tConfig file: %s", c.ConfigFile)
	}
}

// LockKind selects one of the lock implementations.
type LockKind int

const (
	// LockMutex selects the futex-backed sync.Mutex.
	LockMutex LockKind = iota

	// LockSpin selects sync.SpinLock.
	LockSpin
)

func lockKindPtr(v LockKind) *LockKind {
	return &v
}

// Set implements flag.Value.
func (k *LockKind) Set(v string) error {
	switch v {
	case "mutex":
		*k = LockMutex
	case "spin":
		*k = LockSpin
	default:
		return fmt.Errorf("invalid lock kind %q", v)
	}
	return nil
}

// Get implements flag.Getter.
func (k *LockKind) Get() any {
	return *k
}

// String implements flag.Value.
func (k LockKind) String() string {
	switch k {
	case LockMutex:
		return "mutex"
	case LockSpin:
		return "spin"
	}
	panic(fmt.Sprintf("Invalid lock kind %d", k))
}
