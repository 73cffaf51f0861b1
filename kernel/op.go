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
	"strconv"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ajroetker/go-lanemath/lane"
)

// Precision is the accuracy class an operation promises.
type Precision uint8

const (
	// Precise results are within a few ULP of the exact value.
	Precise Precision = iota
	// Native results trade accuracy for speed: relative error around 2^-12.
	Native
	// Half results are accurate to half-precision: relative error around 2^-10.
	Half
)

// String returns "precise", "native" or "half".
func (p Precision) String() string {
	switch p {
	case Precise:
		return "precise"
	case Native:
		return "native"
	case Half:
		return "half"
	default:
		return "unknown"
	}
}

type ruleKind uint8

const (
	ruleSame ruleKind = iota
	ruleFixed
	ruleUnsigned
)

// Rule derives an operand's element type from the invocation's element
// type, which always names the type of the first input.
type Rule struct {
	kind ruleKind
	elem lane.ElemType
}

var (
	// SameElem is the invocation element type itself.
	SameElem = Rule{kind: ruleSame}

	// UnsignedOf is the unsigned integer type of the same width.
	UnsignedOf = Rule{kind: ruleUnsigned}
)

// Fixed is always e, whatever the invocation element type.
func Fixed(e lane.ElemType) Rule {
	return Rule{kind: ruleFixed, elem: e}
}

// Resolve returns the element type the rule selects for elem.
func (r Rule) Resolve(elem lane.ElemType) lane.ElemType {
	switch r.kind {
	case ruleFixed:
		return r.elem
	case ruleUnsigned:
		return elem.Unsigned()
	default:
		return elem
	}
}

// String describes the rule with T standing for the invocation type.
func (r Rule) String() string {
	switch r.kind {
	case ruleFixed:
		return r.elem.String()
	case ruleUnsigned:
		return "unsigned(T)"
	default:
		return "T"
	}
}

// Range is the interval verification sweeps draw an operand from.
type Range struct {
	Lo, Hi float64
}

// Operand declares one named input or auxiliary output of an operation.
type Operand struct {
	Name   string
	Type   Rule
	Domain Range // zero means the verifier's default
}

// ElemFunc evaluates flat element idx of every operand. in follows
// Op.Inputs; out holds the primary output followed by Op.Aux.
type ElemFunc func(elem lane.ElemType, in, out []*lane.Buffer, idx int)

// Op is a registered elementwise primitive. Ops are immutable once
// registered and may be shared between goroutines.
type Op struct {
	Name string
	Doc  string

	Inputs []Operand
	Output Rule
	Aux    []Operand

	// Elems lists the supported invocation element types.
	Elems []lane.ElemType

	Precision Precision

	// Reference names the precise op whose float64 evaluation checks this
	// op. Empty means the op is its own reference.
	Reference string

	// NoReference excludes the op from randomized verification; it has
	// dedicated tests instead.
	NoReference bool

	// Slack returns extra absolute error allowed for one element, given
	// the widened input values. Used by ops that round intermediate steps.
	Slack func(elem lane.ElemType, args []float64) float64

	// Kernel computes one element. Required.
	Kernel ElemFunc
}

// Supports reports whether the op has a kernel for elem.
func (op *Op) Supports(elem lane.ElemType) bool {
	return lo.Contains(op.Elems, elem)
}

// InputTypes resolves the element type of every input for elem.
func (op *Op) InputTypes(elem lane.ElemType) []lane.ElemType {
	return lo.Map(op.Inputs, func(o Operand, _ int) lane.ElemType {
		return o.Type.Resolve(elem)
	})
}

// OutputType resolves the primary output element type for elem.
func (op *Op) OutputType(elem lane.ElemType) lane.ElemType {
	return op.Output.Resolve(elem)
}

// AuxNames lists the auxiliary output names in declaration order.
func (op *Op) AuxNames() []string {
	return lo.Map(op.Aux, func(o Operand, _ int) string { return o.Name })
}

// ReferenceName returns the op checked against during verification.
func (op *Op) ReferenceName() string {
	if op.Reference == "" {
		return op.Name
	}
	return op.Reference
}

// KernelName builds an identifier for the kernel that runs op on elem at
// width: the title-cased op name followed by each input type, each
// auxiliary type and the output type. Widths above 1 are suffixed, as in
// "RemquoFloat32x2Float32x2Int32x2Float32x2".
func (op *Op) KernelName(elem lane.ElemType, width int) string {
	title := cases.Title(language.English)

	var b strings.Builder
	for _, part := range strings.Split(op.Name, "_") {
		b.WriteString(title.String(part))
	}
	typeName := func(e lane.ElemType) {
		b.WriteString(title.String(e.String()))
		if width > 1 {
			b.WriteString("x" + strconv.Itoa(width))
		}
	}
	for _, in := range op.Inputs {
		typeName(in.Type.Resolve(elem))
	}
	for _, aux := range op.Aux {
		typeName(aux.Type.Resolve(elem))
	}
	typeName(op.OutputType(elem))
	return b.String()
}
