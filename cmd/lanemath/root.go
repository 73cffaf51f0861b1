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

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ajroetker/go-lanemath/kernel"
	"github.com/ajroetker/go-lanemath/lane"
)

// app holds the state shared by the subcommands.
type app struct {
	cfg    kernel.Config
	envErr error
}

func (a *app) engine() *kernel.Engine {
	return kernel.New(a.cfg)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	a.cfg, a.envErr = kernel.ConfigFromEnv()

	root := &cobra.Command{
		Use:           "lanemath",
		Short:         "Evaluate and verify elementwise vector math kernels",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.envErr
		},
	}
	flags := root.PersistentFlags()
	flags.IntVar(&a.cfg.Workers, "workers", a.cfg.Workers, "worker pool size (0 = GOMAXPROCS)")
	flags.IntVar(&a.cfg.BatchLanes, "batch", a.cfg.BatchLanes, "lanes claimed per worker batch")
	flags.IntVar(&a.cfg.ParallelThreshold, "parallel-threshold", a.cfg.ParallelThreshold,
		"elements below which evaluation stays on one goroutine (negative = always parallel)")

	root.AddCommand(
		newOpsCmd(a),
		newEvalCmd(a),
		newCheckCmd(a),
		newCPUCmd(),
	)
	return root
}

// elemFlag is a pflag.Value accepting canonical element type names and
// their C-style aliases.
type elemFlag struct {
	elem lane.ElemType
}

var _ pflag.Value = (*elemFlag)(nil)

func (f *elemFlag) String() string {
	if f.elem == lane.Invalid {
		return ""
	}
	return f.elem.String()
}

func (f *elemFlag) Set(s string) error {
	e, err := lane.ParseElemType(s)
	if err != nil {
		return err
	}
	f.elem = e
	return nil
}

func (f *elemFlag) Type() string { return "elem" }
