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

package verify

import (
	"context"
	"fmt"
	"runtime"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-lanemath/kernel"
	"github.com/ajroetker/go-lanemath/lane"
)

// Plan lists a job for every supported element type and width of each
// named op, or of every registered op when names is empty. Each job gets
// its own seed derived from seed.
func Plan(reg *kernel.Registry, names []string, lanes int, seed uint64) ([]Job, error) {
	var ops []*kernel.Op
	if len(names) == 0 {
		ops = reg.Ops()
	}
	for _, name := range names {
		op, ok := reg.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("verify: %w: %q", kernel.ErrUnknownOp, name)
		}
		ops = append(ops, op)
	}
	ops = lo.UniqBy(ops, func(op *kernel.Op) string { return op.Name })

	var jobs []Job
	for _, op := range ops {
		for _, elem := range op.Elems {
			for width := 1; width <= lane.MaxWidth; width++ {
				jobs = append(jobs, Job{
					Op:    op.Name,
					Elem:  elem,
					Width: width,
					Lanes: lanes,
					Seed:  seed + uint64(len(jobs))*0x9E3779B97F4A7C15,
				})
			}
		}
	}
	return jobs, nil
}

// Sweep runs jobs with at most limit in flight; limit <= 0 means
// GOMAXPROCS. Reports come back in job order. The first error cancels the
// remaining jobs and is returned along with the reports gathered so far,
// which are nil for jobs that did not finish.
func (c *Checker) Sweep(ctx context.Context, jobs []Job, limit int) ([]*Report, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	reports := make([]*Report, len(jobs))
	for i, job := range jobs {
		g.Go(func() error {
			rep, err := c.Check(ctx, job)
			if err != nil {
				return fmt.Errorf("verify: %v: %w", job, err)
			}
			reports[i] = rep
			return nil
		})
	}
	return reports, g.Wait()
}

// Failed returns the reports that did not pass.
func Failed(reports []*Report) []*Report {
	return lo.Filter(reports, func(r *Report, _ int) bool {
		return r != nil && !r.Passed()
	})
}
