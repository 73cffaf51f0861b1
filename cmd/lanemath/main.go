// Copyright 2025 go-highway Authors
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

// Command lanemath lists, evaluates and verifies the elementwise math
// kernels.
//
// Usage:
//
//	lanemath ops [--elem float16]
//	lanemath eval remquo --elem float --width 2 --in x=5,7 --in y=2,2
//	lanemath check [hypot native_powr ...] --lanes 1024 --seed 7 --jobs 8
//	lanemath cpu
//
// Engine settings default to LANEMATH_WORKERS, LANEMATH_BATCH and
// LANEMATH_PARALLEL_THRESHOLD and can be overridden with --workers, --batch
// and --parallel-threshold.
//
// Exit status is 1 for usage errors and failed checks, and 2 when the
// engine rejects an invocation.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ajroetker/go-lanemath/kernel"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	var exit *exitError
	if !errors.As(err, &exit) || exit.err != nil {
		fmt.Fprintf(stderr, "lanemath: %v\n", err)
	}
	return exitCode(err)
}

// exitError carries an exit status. A nil err means the command already
// reported the problem.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var exit *exitError
	var cfgErr *kernel.ConfigError
	switch {
	case errors.As(err, &exit):
		return exit.code
	case errors.As(err, &cfgErr), errors.Is(err, kernel.ErrUnknownOp):
		return 2
	default:
		return 1
	}
}
