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

// Package verify checks kernel operations against float64 references.
//
// A check draws random inputs for one (op, element type, width) from each
// operand's domain, evaluates the op, evaluates its precise reference at
// float64 on the widened inputs and compares every output element under the
// op's accuracy class. Precise ops also see IEEE extremes: signed zeros,
// infinities, NaN, the smallest denormal and the smallest normal.
package verify

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/ajroetker/go-lanemath/kernel"
	"github.com/ajroetker/go-lanemath/lane"
)

// maxFailures bounds the failures a Report keeps; the count is exact.
const maxFailures = 16

// defaultDomain applies to operands that declare no range.
var defaultDomain = kernel.Range{Lo: -100, Hi: 100}

// Job identifies one check.
type Job struct {
	Op    string
	Elem  lane.ElemType
	Width int
	Lanes int
	Seed  uint64
}

func (j Job) String() string {
	return fmt.Sprintf("%s/%vx%d", j.Op, j.Elem, j.Width)
}

// Failure is one output element outside its tolerance.
type Failure struct {
	Lane, Component int
	Output          string    // "result" or the aux output name
	Inputs          []float64 // widened operand values in declaration order
	Got, Want       float64
	Allowed         float64
}

func (f Failure) String() string {
	return fmt.Sprintf("lane %d[%d] %s: inputs %v: got %g, want %g (±%g)",
		f.Lane, f.Component, f.Output, f.Inputs, f.Got, f.Want, f.Allowed)
}

// Report is the outcome of one Job.
type Report struct {
	Job
	Kernel    string // kernel identifier, see kernel.Op.KernelName
	Reference string // name of the reference op
	Precision kernel.Precision
	Skipped   bool // the op has no reference

	Checked  int // output elements compared
	Failed   int
	MaxULP   float64 // largest float error seen, in ULP at the element type
	Failures []Failure
}

// Passed reports whether every compared element was within tolerance.
func (r *Report) Passed() bool {
	return r.Failed == 0
}

// String summarizes the report on one line per failure.
func (r *Report) String() string {
	var b strings.Builder
	switch {
	case r.Skipped:
		fmt.Fprintf(&b, "SKIP %s: no reference", r.Kernel)
	case r.Passed():
		fmt.Fprintf(&b, "ok   %s: %d elements, max %.2f ulp", r.Kernel, r.Checked, r.MaxULP)
	default:
		fmt.Fprintf(&b, "FAIL %s: %d of %d elements out of %s tolerance vs %s (seed %d)",
			r.Kernel, r.Failed, r.Checked, r.Precision, r.Reference, r.Seed)
		for _, f := range r.Failures {
			b.WriteString("\n    " + f.String())
		}
		if r.Failed > len(r.Failures) {
			fmt.Fprintf(&b, "\n    ... %d more", r.Failed-len(r.Failures))
		}
	}
	return b.String()
}

// Checker runs checks on an engine.
type Checker struct {
	eng *kernel.Engine
}

// NewChecker returns a checker evaluating on eng, whose registry must
// hold every reference op.
func NewChecker(eng *kernel.Engine) *Checker {
	return &Checker{eng: eng}
}

// Check runs job. Tolerance failures are reported in the Report; the error
// is reserved for invocations that cannot run at all, including
// cancellation.
func (c *Checker) Check(ctx context.Context, job Job) (*Report, error) {
	reg := c.eng.Registry()
	op, ok := reg.Lookup(job.Op)
	if !ok {
		return nil, fmt.Errorf("verify: %w: %q", kernel.ErrUnknownOp, job.Op)
	}
	if !lane.ValidWidth(job.Width) {
		return nil, fmt.Errorf("verify: %s: %w: %d", op.Name, kernel.ErrInvalidWidth, job.Width)
	}
	job.Op = op.Name
	rep := &Report{
		Job:       job,
		Kernel:    op.KernelName(job.Elem, job.Width),
		Reference: op.ReferenceName(),
		Precision: op.Precision,
	}
	if op.NoReference {
		rep.Skipped = true
		return rep, nil
	}
	ref, ok := reg.Lookup(rep.Reference)
	if !ok {
		return nil, fmt.Errorf("verify: %s: reference %w: %q", op.Name, kernel.ErrUnknownOp, rep.Reference)
	}

	rng := rand.New(rand.NewPCG(job.Seed, uint64(job.Elem)<<8|uint64(job.Width)))
	inputs := make(map[string]*lane.Buffer, len(op.Inputs))
	for _, operand := range op.Inputs {
		inputs[operand.Name] = randomBuffer(rng, operand, job, op.Precision == kernel.Precise)
	}

	got, err := c.eng.EvaluateOp(ctx, op.Name, job.Width, job.Elem, inputs, job.Lanes)
	if err != nil {
		return nil, err
	}
	wide := make(map[string]*lane.Buffer, len(ref.Inputs))
	for _, operand := range ref.Inputs {
		b, ok := inputs[operand.Name]
		if !ok {
			return nil, fmt.Errorf("verify: %s: reference %s: %w: %q", op.Name, ref.Name, kernel.ErrMissingInput, operand.Name)
		}
		wide[operand.Name] = widen(b, operand.Type.Resolve(lane.Float64))
	}
	want, err := c.eng.EvaluateOp(ctx, ref.Name, job.Width, lane.Float64, wide, job.Lanes)
	if err != nil {
		return nil, err
	}

	chk := comparer{
		rep:    rep,
		op:     op,
		elem:   job.Elem,
		tol:    ForPrecision(op.Precision, job.Elem),
		inputs: make([]*lane.Buffer, len(op.Inputs)),
	}
	for j, operand := range op.Inputs {
		chk.inputs[j] = wide[operand.Name]
		if chk.inputs[j] == nil {
			chk.inputs[j] = inputs[operand.Name]
		}
	}
	chk.compare("result", got.Primary, want.Primary)
	for _, name := range op.AuxNames() {
		chk.compare(name, got.Aux[name], want.Aux[name])
	}
	return rep, nil
}

// randomBuffer fills one operand. Float operands of precise ops take an
// IEEE extreme in about one element of eight.
func randomBuffer(rng *rand.Rand, operand kernel.Operand, job Job, extremes bool) *lane.Buffer {
	elem := operand.Type.Resolve(job.Elem)
	b := lane.Alloc(elem, job.Width, job.Lanes)
	d := operand.Domain
	if d == (kernel.Range{}) {
		d = defaultDomain
	}
	special := specials(elem)
	for i := 0; i < job.Lanes; i++ {
		for k := 0; k < job.Width; k++ {
			idx := b.Index(i, k)
			switch {
			case elem.IsFloat() && extremes && rng.IntN(8) == 0:
				b.SetFloat(idx, special[rng.IntN(len(special))])
			case elem.IsFloat():
				b.SetFloat(idx, d.Lo+rng.Float64()*(d.Hi-d.Lo))
			default:
				lo, hi := int64(math.Ceil(d.Lo)), int64(math.Floor(d.Hi))
				b.SetInt(idx, lo+rng.Int64N(hi-lo+1))
			}
		}
	}
	return b
}

// specials lists the IEEE extremes of a float element type.
func specials(elem lane.ElemType) []float64 {
	if !elem.IsFloat() {
		return nil
	}
	tiny := ULP(elem, 0)
	return []float64{
		0, math.Copysign(0, -1),
		math.Inf(1), math.Inf(-1), math.NaN(),
		tiny, -tiny,
		MinNormal(elem), -MinNormal(elem),
	}
}

// widen copies b into a buffer of elem, or returns b when it already holds
// elem. Widening float inputs to float64 is exact.
func widen(b *lane.Buffer, elem lane.ElemType) *lane.Buffer {
	if b.Elem() == elem {
		return b
	}
	w := lane.Alloc(elem, b.Width(), b.Lanes())
	for i := 0; i < b.Lanes(); i++ {
		for k := 0; k < b.Width(); k++ {
			idx := b.Index(i, k)
			w.SetFloat(idx, b.Float(idx))
		}
	}
	return w
}

type comparer struct {
	rep    *Report
	op     *kernel.Op
	elem   lane.ElemType
	tol    Tolerance
	inputs []*lane.Buffer // reference inputs, in op.Inputs order
}

func (c *comparer) compare(output string, got, want *lane.Buffer) {
	outElem := got.Elem()
	if outElem.IsInteger() && c.op.Precision != kernel.Precise {
		return
	}
	for i := 0; i < got.Lanes(); i++ {
		for k := 0; k < got.Width(); k++ {
			idx := got.Index(i, k)
			c.rep.Checked++

			if outElem.IsInteger() {
				if g, w := got.Int(idx), want.Int(idx); g != w {
					c.fail(output, i, k, float64(g), float64(w), 0)
				}
				continue
			}

			g, w := got.Float(idx), want.Float(idx)
			var slack float64
			if c.op.Slack != nil {
				slack = c.op.Slack(c.elem, c.args(idx))
			}
			if !c.tol.Within(outElem, g, w, slack) {
				c.fail(output, i, k, g, w, c.tol.Allowed(outElem, w)+slack)
				continue
			}
			if !math.IsInf(g, 0) && !math.IsNaN(g) {
				c.rep.MaxULP = max(c.rep.MaxULP, ULPDiff(outElem, g, w))
			}
		}
	}
}

func (c *comparer) args(idx int) []float64 {
	args := make([]float64, len(c.inputs))
	for j, b := range c.inputs {
		args[j] = b.Float(idx)
	}
	return args
}

func (c *comparer) fail(output string, i, k int, got, want, allowed float64) {
	c.rep.Failed++
	if len(c.rep.Failures) >= maxFailures {
		return
	}
	c.rep.Failures = append(c.rep.Failures, Failure{
		Lane:      i,
		Component: k,
		Output:    output,
		Inputs:    c.args(c.inputs[0].Index(i, k)),
		Got:       got,
		Want:      want,
		Allowed:   allowed,
	})
}
