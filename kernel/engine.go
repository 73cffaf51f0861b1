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

// Package kernel evaluates named elementwise math operations across lane
// buffers.
//
// An Engine looks the operation up in a Registry, validates the whole
// invocation, allocates the outputs and then runs the lanes in batches on a
// persistent worker pool. Configuration problems are reported as
// *ConfigError before any lane runs; numeric edge cases never fail and
// produce IEEE special values or the defined integer wrap and saturation.
//
//	eng := kernel.New(kernel.DefaultConfig())
//	defer eng.Close()
//
//	a := lane.MustBuffer(2, []float32{1, float32(math.NaN())})
//	b := lane.MustBuffer(2, []float32{2, 3})
//	res, err := eng.Evaluate(ctx, kernel.Invocation{
//	    Op: "fmin", Width: 2, Elem: lane.Float32, Lanes: 1,
//	    Inputs: map[string]*lane.Buffer{"a": a, "b": b},
//	})
package kernel

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/ajroetker/go-lanemath/lane"
	"github.com/ajroetker/go-lanemath/lane/contrib/workerpool"
)

// Invocation describes one evaluation.
type Invocation struct {
	// Op is the registered operation name.
	Op string

	// Width is the vector width of every operand, 1 to 4.
	Width int

	// Elem is the element type of the first input. The types of the other
	// operands and of the outputs follow from the op's rules.
	Elem lane.ElemType

	// Inputs maps each declared input name to its buffer.
	Inputs map[string]*lane.Buffer

	// Lanes is the lane count N every input must have.
	Lanes int
}

// Result holds the outputs of a successful evaluation. The caller owns
// every buffer.
type Result struct {
	Primary *lane.Buffer
	Aux     map[string]*lane.Buffer
}

// Engine evaluates invocations. It is safe for concurrent use; the only
// state shared between calls is the worker pool.
type Engine struct {
	cfg  Config
	reg  *Registry
	pool *workerpool.Pool
}

// New returns an engine over the default registry.
func New(cfg Config) *Engine {
	return NewWithRegistry(cfg, DefaultRegistry())
}

// NewWithRegistry returns an engine that resolves ops in reg.
func NewWithRegistry(cfg Config, reg *Registry) *Engine {
	cfg = cfg.normalized()
	return &Engine{
		cfg:  cfg,
		reg:  reg,
		pool: workerpool.New(cfg.Workers),
	}
}

// Close releases the worker pool. Evaluations after Close run on the
// calling goroutine.
func (e *Engine) Close() {
	e.pool.Close()
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Registry returns the registry the engine resolves ops in.
func (e *Engine) Registry() *Registry {
	return e.reg
}

// EvaluateOp is Evaluate with positional arguments.
func (e *Engine) EvaluateOp(ctx context.Context, name string, width int, elem lane.ElemType,
	inputs map[string]*lane.Buffer, lanes int) (*Result, error) {
	return e.Evaluate(ctx, Invocation{Op: name, Width: width, Elem: elem, Inputs: inputs, Lanes: lanes})
}

// Evaluate applies inv.Op to every lane. Either all lanes complete and a
// Result is returned, or an error is returned and no output is visible.
// Cancellation is observed between lane batches and yields ctx.Err().
func (e *Engine) Evaluate(ctx context.Context, inv Invocation) (*Result, error) {
	op, ins, err := e.validate(inv)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outs := make([]*lane.Buffer, 0, 1+len(op.Aux))
	outs = append(outs, lane.Alloc(op.OutputType(inv.Elem), inv.Width, inv.Lanes))
	for _, aux := range op.Aux {
		outs = append(outs, lane.Alloc(aux.Type.Resolve(inv.Elem), inv.Width, inv.Lanes))
	}

	width, stride := inv.Width, lane.StrideFor(inv.Width)
	run := func(start, end int) {
		for i := start; i < end; i++ {
			base := i * stride
			for k := 0; k < width; k++ {
				op.Kernel(inv.Elem, ins, outs, base+k)
			}
		}
	}

	if err := e.runLanes(ctx, inv.Lanes*width, inv.Lanes, run); err != nil {
		return nil, err
	}

	res := &Result{Primary: outs[0], Aux: make(map[string]*lane.Buffer, len(op.Aux))}
	for j, aux := range op.Aux {
		res.Aux[aux.Name] = outs[1+j]
	}
	return res, nil
}

// runLanes runs fn over [0, lanes) in batches, on the pool when the
// invocation is large enough.
func (e *Engine) runLanes(ctx context.Context, elems, lanes int, fn func(start, end int)) error {
	batch := e.cfg.BatchLanes
	if e.cfg.ParallelThreshold >= 0 && elems < e.cfg.ParallelThreshold {
		for start := 0; start < lanes; start += batch {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(start, min(start+batch, lanes))
		}
		return nil
	}
	return e.pool.ParallelForBatched(ctx, lanes, batch, fn)
}

// validate checks the whole invocation and returns the op and its input
// buffers in declaration order. Checks run in a fixed order so that an
// invocation with several problems always reports the same one.
func (e *Engine) validate(inv Invocation) (*Op, []*lane.Buffer, error) {
	op, ok := e.reg.Lookup(inv.Op)
	if !ok {
		return nil, nil, configErr(KindUnknownOp, inv.Op, "", "no operation named %q", inv.Op)
	}
	if !lane.ValidWidth(inv.Width) {
		return nil, nil, configErr(KindInvalidWidth, op.Name, "", "width %d, want 1 to %d", inv.Width, lane.MaxWidth)
	}
	if !op.Supports(inv.Elem) {
		return nil, nil, configErr(KindUnsupportedType, op.Name, "", "%v, supported: %v", inv.Elem, op.Elems)
	}
	if inv.Lanes < 0 {
		return nil, nil, configErr(KindInvalidLaneCount, op.Name, "", "%d lanes", inv.Lanes)
	}

	ins := make([]*lane.Buffer, len(op.Inputs))
	for j, operand := range op.Inputs {
		b, ok := inv.Inputs[operand.Name]
		if !ok || b == nil {
			return nil, nil, configErr(KindMissingInput, op.Name, operand.Name, "no buffer supplied")
		}
		if want := operand.Type.Resolve(inv.Elem); b.Elem() != want {
			return nil, nil, configErr(KindTypeMismatch, op.Name, operand.Name, "%v, want %v", b.Elem(), want)
		}
		if b.Width() != inv.Width {
			return nil, nil, configErr(KindWidthMismatch, op.Name, operand.Name, "width %d, want %d", b.Width(), inv.Width)
		}
		if b.Lanes() != inv.Lanes {
			return nil, nil, configErr(KindLengthMismatch, op.Name, operand.Name, "%d lanes, want %d", b.Lanes(), inv.Lanes)
		}
		ins[j] = b
	}

	declared := lo.Map(op.Inputs, func(o Operand, _ int) string { return o.Name })
	extra := lo.Without(lo.Keys(inv.Inputs), declared...)
	if len(extra) > 0 {
		slices.Sort(extra)
		return nil, nil, configErr(KindUnexpectedInput, op.Name, extra[0], "declared inputs: %v", declared)
	}
	return op, ins, nil
}

// String describes the engine configuration.
func (e *Engine) String() string {
	return fmt.Sprintf("kernel.Engine{workers: %d, batch: %d lanes, threshold: %d}",
		e.pool.NumWorkers(), e.cfg.BatchLanes, e.cfg.ParallelThreshold)
}
