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
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-lanemath/kernel"
	"github.com/ajroetker/go-lanemath/kernel/verify"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		lanes   int
		seed    uint64
		jobs    int
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "check [OP...]",
		Short: "Verify operations against their float64 references",
		Long: "Run randomized verification over every supported element type and width of\n" +
			"the named operations, or of all operations. Exits 1 if any check fails.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if lanes < 0 {
				return fmt.Errorf("%w: --lanes %d", kernel.ErrInvalidLaneCount, lanes)
			}
			eng := a.engine()
			defer eng.Close()

			plan, err := verify.Plan(eng.Registry(), args, lanes, seed)
			if err != nil {
				return err
			}
			reports, err := verify.NewChecker(eng).Sweep(cmd.Context(), plan, jobs)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			failed := verify.Failed(reports)
			for _, r := range reports {
				if verbose || !r.Passed() {
					fmt.Fprintln(w, r)
				}
			}
			skipped := lo.CountBy(reports, func(r *verify.Report) bool { return r.Skipped })
			fmt.Fprintf(w, "%d kernels: %d passed, %d failed, %d skipped (seed %d)\n",
				len(reports), len(reports)-len(failed)-skipped, len(failed), skipped, seed)
			if len(failed) > 0 {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&lanes, "lanes", 256, "lanes per check")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "checks run concurrently (0 = GOMAXPROCS)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every report, not just failures")
	return cmd
}
