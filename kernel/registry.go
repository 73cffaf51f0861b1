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

package kernel

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/ajroetker/go-lanemath/lane"
)

// convertPrefix starts the name of every conversion op.
const convertPrefix = "convert_"

// Registry is the dispatch table from operation names to Ops.
// It is safe for concurrent use.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]*Op
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]*Op)}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry holding every built-in operation.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds op to the registry. It fails if the name is taken or the
// op is malformed.
func (r *Registry) Register(op *Op) error {
	switch {
	case op.Name == "" || op.Name != strings.ToLower(op.Name):
		return fmt.Errorf("kernel: invalid op name %q", op.Name)
	case op.Kernel == nil:
		return fmt.Errorf("kernel: op %q has no kernel", op.Name)
	case len(op.Inputs) == 0:
		return fmt.Errorf("kernel: op %q declares no inputs", op.Name)
	case len(op.Elems) == 0:
		return fmt.Errorf("kernel: op %q supports no element types", op.Name)
	}
	names := append(lo.Map(op.Inputs, func(o Operand, _ int) string { return o.Name }), op.AuxNames()...)
	if dup := lo.FindDuplicates(names); len(dup) > 0 {
		return fmt.Errorf("kernel: op %q repeats operand %q", op.Name, dup[0])
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ops[op.Name]; ok {
		return fmt.Errorf("kernel: op %q already registered", op.Name)
	}
	r.ops[op.Name] = op
	return nil
}

// MustRegister is like Register but panics on error. Intended for init.
func (r *Registry) MustRegister(ops ...*Op) {
	for _, op := range ops {
		if err := r.Register(op); err != nil {
			panic(err)
		}
	}
}

// Lookup finds an op by name, ignoring case. Conversion ops also resolve
// through element type aliases, so "convert_float" finds "convert_float32".
func (r *Registry) Lookup(name string) (*Op, bool) {
	name = strings.ToLower(strings.TrimSpace(name))

	r.mu.RLock()
	defer r.mu.RUnlock()
	if op, ok := r.ops[name]; ok {
		return op, true
	}
	if dst, ok := strings.CutPrefix(name, convertPrefix); ok {
		if e, err := lane.ParseElemType(dst); err == nil {
			op, ok := r.ops[convertPrefix+e.String()]
			return op, ok
		}
	}
	return nil, false
}

// Names returns every registered op name in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := lo.Keys(r.ops)
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Ops returns every registered op sorted by name.
func (r *Registry) Ops() []*Op {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ops := lo.Values(r.ops)
	slices.SortFunc(ops, func(a, b *Op) int { return strings.Compare(a.Name, b.Name) })
	return ops
}

// Supporting returns the ops, sorted by name, that accept elem.
func (r *Registry) Supporting(elem lane.ElemType) []*Op {
	return lo.Filter(r.Ops(), func(op *Op, _ int) bool { return op.Supports(elem) })
}
