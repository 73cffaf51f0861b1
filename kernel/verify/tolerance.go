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
	"math"

	"github.com/ajroetker/go-lanemath/kernel"
	"github.com/ajroetker/go-lanemath/lane"
)

// format describes the binary layout of a floating-point element type.
type format struct {
	mantBits  int // significand bits including the implicit one
	minExp    int // exponent of the smallest normal
	maxFinite float64
}

var formats = map[lane.ElemType]format{
	lane.Float16: {11, -14, 65504},
	lane.Float32: {24, -126, math.MaxFloat32},
	lane.Float64: {53, -1022, math.MaxFloat64},
}

// ULP returns the spacing of elem values at the magnitude of x. Denormals
// and zero share the spacing of the smallest normal binade.
func ULP(elem lane.ElemType, x float64) float64 {
	f, ok := formats[elem]
	if !ok {
		return 1
	}
	x = math.Abs(x)
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return math.Inf(1)
	}
	exp := f.minExp
	if x != 0 {
		exp = max(math.Ilogb(x), f.minExp)
	}
	return math.Ldexp(1, exp-f.mantBits+1)
}

// ULPDiff returns |got - want| in units of the last place at want.
func ULPDiff(elem lane.ElemType, got, want float64) float64 {
	if got == want {
		return 0
	}
	return math.Abs(got-want) / ULP(elem, want)
}

// MaxFinite returns the largest finite value of a float element type.
func MaxFinite(elem lane.ElemType) float64 {
	return formats[elem].maxFinite
}

// MinNormal returns the smallest positive normal value of a float element
// type.
func MinNormal(elem lane.ElemType) float64 {
	return math.Ldexp(1, formats[elem].minExp)
}

// Tolerance bounds the absolute error of one result. The bound is the
// largest of the three terms.
type Tolerance struct {
	ULP float64 // units in the last place at the element precision
	Rel float64 // fraction of the reference magnitude
	Abs float64 // absolute floor
}

// ForPrecision returns the tolerance of an accuracy class at elem.
//
//	Precise: 4 ULP
//	Native:  2^-12 relative, 2 ULP, floor at the smallest normal
//	Half:    2^-10 relative, 2 ULP
func ForPrecision(p kernel.Precision, elem lane.ElemType) Tolerance {
	switch p {
	case kernel.Native:
		return Tolerance{ULP: 2, Rel: 0x1p-12, Abs: MinNormal(elem)}
	case kernel.Half:
		return Tolerance{ULP: 2, Rel: 0x1p-10}
	default:
		return Tolerance{ULP: 4}
	}
}

// Allowed returns the absolute error permitted around want.
func (t Tolerance) Allowed(elem lane.ElemType, want float64) float64 {
	return max(t.ULP*ULP(elem, want), t.Rel*math.Abs(want), t.Abs)
}

// Within reports whether got, a result stored as elem, matches the float64
// reference want. slack widens the bound for ops that round intermediate
// steps.
//
// NaN matches only NaN. An infinite reference must be matched exactly. An
// infinite result is accepted for a finite reference whose magnitude lies
// within the bound of the element type's overflow threshold.
func (t Tolerance) Within(elem lane.ElemType, got, want, slack float64) bool {
	switch {
	case math.IsNaN(want) || math.IsNaN(got):
		return math.IsNaN(want) && math.IsNaN(got)
	case math.IsInf(want, 0):
		return got == want
	}
	allowed := t.Allowed(elem, want) + slack
	if math.IsInf(got, 0) {
		return math.Signbit(got) == math.Signbit(want) &&
			math.Abs(want) >= MaxFinite(elem)-allowed
	}
	return math.Abs(got-want) <= allowed
}
