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
	stdmath "math"

	"github.com/ajroetker/go-lanemath/lane"
	"github.com/ajroetker/go-lanemath/lane/contrib/math"
)

var (
	floatElems  = lane.FloatElemTypes()
	nativeElems = []lane.ElemType{lane.Float16, lane.Float32}
)

// Common operand domains for verification sweeps.
var (
	wide     = Range{-100, 100}
	positive = Range{1e-3, 1e3}
	small    = Range{-20, 20}
	shifts   = Range{-24, 24}
	roots    = Range{-8, 8}
)

func in1(name string, d Range) []Operand {
	return []Operand{{Name: name, Type: SameElem, Domain: d}}
}

func in2(a, b string, da, db Range) []Operand {
	return []Operand{
		{Name: a, Type: SameElem, Domain: da},
		{Name: b, Type: SameElem, Domain: db},
	}
}

func unary(f func(float64) float64) ElemFunc {
	return func(_ lane.ElemType, in, out []*lane.Buffer, i int) {
		out[0].SetFloat(i, f(in[0].Float(i)))
	}
}

func binary(f func(a, b float64) float64) ElemFunc {
	return func(_ lane.ElemType, in, out []*lane.Buffer, i int) {
		out[0].SetFloat(i, f(in[0].Float(i), in[1].Float(i)))
	}
}

func withInt(f func(x float64, n int) float64) ElemFunc {
	return func(_ lane.ElemType, in, out []*lane.Buffer, i int) {
		out[0].SetFloat(i, f(in[0].Float(i), int(in[1].Int(i))))
	}
}

// floatOp declares a precise op over the float element types.
func floatOp(name, doc string, inputs []Operand, eval ElemFunc) *Op {
	return &Op{
		Name:   name,
		Doc:    doc,
		Inputs: inputs,
		Output: SameElem,
		Elems:  floatElems,
		Kernel: eval,
	}
}

// nativeOp declares a float16/float32 fast path checked against ref.
func nativeOp(name, ref, doc string, inputs []Operand, eval ElemFunc) *Op {
	op := floatOp(name, doc, inputs, eval)
	op.Elems = nativeElems
	op.Precision = Native
	op.Reference = ref
	return op
}

func init() {
	defaultRegistry.MustRegister(
		floatOp("acosh", "inverse hyperbolic cosine", in1("v", Range{1, 1e4}), unary(math.Acosh)),
		floatOp("asinh", "inverse hyperbolic sine", in1("v", wide), unary(math.Asinh)),
		floatOp("atan2", "arc tangent of y/x", in2("y", "x", wide, wide), binary(math.Atan2)),
		floatOp("atan2pi", "atan2(y, x) / π", in2("y", "x", wide, wide), binary(math.Atan2pi)),
		floatOp("cos", "cosine", in1("v", wide), unary(math.Cos)),
		floatOp("cosh", "hyperbolic cosine", in1("v", small), unary(math.Cosh)),
		floatOp("cospi", "cos(π·v)", in1("v", wide), unary(math.Cospi)),
		floatOp("expm1", "e^v - 1", in1("v", small), unary(math.Expm1)),
		floatOp("fmax", "maximum, ignoring a single NaN", in2("a", "b", wide, wide), binary(math.Fmax)),
		floatOp("fmin", "minimum, ignoring a single NaN", in2("a", "b", wide, wide), binary(math.Fmin)),
		floatOp("hypot", "sqrt(x² + y²)", in2("x", "y", wide, wide), binary(math.Hypot)),
		floatOp("log", "natural logarithm", in1("v", positive), unary(math.Log)),
		floatOp("log10", "decimal logarithm", in1("v", positive), unary(math.Log10)),
		floatOp("log1p", "ln(1 + v)", in1("v", Range{-0.999, 100}), unary(math.Log1p)),
		floatOp("log2", "binary logarithm", in1("v", positive), unary(math.Log2)),
		floatOp("powr", "x^y for x >= 0", in2("x", "y", Range{0, 100}, Range{-10, 10}), binary(math.Powr)),
		floatOp("radians", "degrees to radians", in1("v", Range{-720, 720}), unary(math.Radians)),
		floatOp("recip", "1 / v", in1("v", wide), unary(math.Recip)),
		floatOp("sin", "sine", in1("v", wide), unary(math.Sin)),
		floatOp("sinh", "hyperbolic sine", in1("v", small), unary(math.Sinh)),
		floatOp("sinpi", "sin(π·v)", in1("v", wide), unary(math.Sinpi)),
		floatOp("tgamma", "gamma function", in1("v", Range{-10, 30}), unary(math.Tgamma)),

		floatOp("ldexp", "v · 2^exponent",
			[]Operand{{Name: "v", Type: SameElem, Domain: wide}, {Name: "exponent", Type: Fixed(lane.Int32), Domain: shifts}},
			withInt(math.Ldexp)),
		floatOp("rootn", "n-th root of x",
			[]Operand{{Name: "x", Type: SameElem, Domain: wide}, {Name: "n", Type: Fixed(lane.Int32), Domain: roots}},
			withInt(math.Rootn)),

		frexpOp(),
		ilogbOp(),
		remquoOp(),
		sincosOp(),
		fmaOp(),
		madOp(),
		nextafterOp(),

		nativeOp("native_asinh", "asinh", "fast inverse hyperbolic sine", in1("v", wide), unary(math.NativeAsinh)),
		nativeOp("native_atan2", "atan2", "fast arc tangent of y/x", in2("y", "x", wide, wide), binary(math.NativeAtan2)),
		nativeOp("native_atan2pi", "atan2pi", "fast atan2(y, x) / π", in2("y", "x", wide, wide), binary(math.NativeAtan2pi)),
		nativeOp("native_cospi", "cospi", "fast cos(π·v)", in1("v", wide), unary(math.NativeCospi)),
		nativeOp("native_expm1", "expm1", "fast e^v - 1", in1("v", small), unary(math.NativeExpm1)),
		nativeOp("native_hypot", "hypot", "fast sqrt(x² + y²)", in2("x", "y", wide, wide), binary(math.NativeHypot)),
		nativeOp("native_log1p", "log1p", "fast ln(1 + v)", in1("v", Range{-0.999, 100}), unary(math.NativeLog1p)),
		nativeOp("native_powr", "powr", "fast x^y for x >= 0",
			in2("x", "y", Range{0, 100}, Range{-10, 10}), binary(math.NativePowr)),
		nativeOp("native_recip", "recip", "fast 1 / v", in1("v", wide), unary(math.NativeRecip)),
		nativeOp("native_rootn", "rootn", "fast n-th root of x",
			[]Operand{{Name: "x", Type: SameElem, Domain: wide}, {Name: "n", Type: Fixed(lane.Int32), Domain: roots}},
			withInt(math.NativeRootn)),
		nativeOp("native_sin", "sin", "fast sine", in1("v", wide), unary(math.NativeSin)),
		nativeOp("native_sinh", "sinh", "fast hyperbolic sine", in1("v", small), unary(math.NativeSinh)),
		nativeSincosOp(),
		halfRecipOp(),
	)
}

func frexpOp() *Op {
	op := floatOp("frexp", "mantissa in [0.5, 1) and exponent", in1("v", wide),
		func(_ lane.ElemType, in, out []*lane.Buffer, i int) {
			frac, e := math.Frexp(in[0].Float(i))
			out[0].SetFloat(i, frac)
			out[1].SetInt(i, int64(e))
		})
	op.Aux = []Operand{{Name: "exponent", Type: Fixed(lane.Int32)}}
	return op
}

func ilogbOp() *Op {
	op := floatOp("ilogb", "unbiased binary exponent", in1("v", wide),
		func(_ lane.ElemType, in, out []*lane.Buffer, i int) {
			out[0].SetInt(i, int64(math.Ilogb(in[0].Float(i))))
		})
	op.Output = Fixed(lane.Int32)
	return op
}

func remquoOp() *Op {
	op := floatOp("remquo", "IEEE remainder and low quotient bits", in2("x", "y", wide, Range{-10, 10}),
		func(_ lane.ElemType, in, out []*lane.Buffer, i int) {
			rem, quo := math.Remquo(in[0].Float(i), in[1].Float(i))
			out[0].SetFloat(i, rem)
			out[1].SetInt(i, int64(quo))
		})
	op.Aux = []Operand{{Name: "quotient", Type: Fixed(lane.Int32)}}
	return op
}

func sincosOp() *Op {
	op := floatOp("sincos", "sine, with the cosine as an auxiliary output", in1("v", wide),
		func(_ lane.ElemType, in, out []*lane.Buffer, i int) {
			s, c := math.SinCos(in[0].Float(i))
			out[0].SetFloat(i, s)
			out[1].SetFloat(i, c)
		})
	op.Aux = []Operand{{Name: "cos", Type: SameElem}}
	return op
}

func nativeSincosOp() *Op {
	op := nativeOp("native_sincos", "sincos", "fast sine, with the cosine as an auxiliary output", in1("v", wide),
		func(_ lane.ElemType, in, out []*lane.Buffer, i int) {
			s, c := math.NativeSinCos(in[0].Float(i))
			out[0].SetFloat(i, s)
			out[1].SetFloat(i, c)
		})
	op.Aux = []Operand{{Name: "cos", Type: SameElem}}
	return op
}

func in3() []Operand {
	return []Operand{
		{Name: "a", Type: SameElem, Domain: wide},
		{Name: "b", Type: SameElem, Domain: wide},
		{Name: "c", Type: SameElem, Domain: wide},
	}
}

func fmaOp() *Op {
	return floatOp("fma", "fused a·b + c", in3(),
		func(_ lane.ElemType, in, out []*lane.Buffer, i int) {
			out[0].SetFloat(i, math.FMA(in[0].Float(i), in[1].Float(i), in[2].Float(i)))
		})
}

func madOp() *Op {
	op := floatOp("mad", "a·b + c, rounding the product and the sum", in3(),
		func(elem lane.ElemType, in, out []*lane.Buffer, i int) {
			out[0].SetFloat(i, math.Mad(elem, in[0].Float(i), in[1].Float(i), in[2].Float(i)))
		})
	// The rounded product may cancel against c.
	op.Slack = func(elem lane.ElemType, args []float64) float64 {
		return stdmath.Abs(args[0]*args[1]) * elem.Epsilon()
	}
	return op
}

func nextafterOp() *Op {
	op := floatOp("nextafter", "next representable value toward target", in2("v", "target", wide, wide),
		func(elem lane.ElemType, in, out []*lane.Buffer, i int) {
			out[0].SetFloat(i, math.Nextafter(elem, in[0].Float(i), in[1].Float(i)))
		})
	op.NoReference = true
	return op
}

func halfRecipOp() *Op {
	op := floatOp("half_recip", "1 / v at half-precision accuracy", in1("v", wide), unary(math.HalfRecip))
	op.Elems = []lane.ElemType{lane.Float32}
	op.Precision = Half
	op.Reference = "recip"
	return op
}
