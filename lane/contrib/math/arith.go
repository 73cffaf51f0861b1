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

package math

import (
	stdmath "math"

	"github.com/ajroetker/go-lanemath/lane"
)

// AbsInt returns the magnitude of v as an unsigned value. The most negative
// value has no positive counterpart and keeps its bit pattern, so that
// storing the result into the same-width unsigned type yields 2^(bits-1).
func AbsInt(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

// Fmin returns the smaller of a and b. A NaN operand is treated as missing
// data: the other operand is returned. Only two NaNs give NaN.
func Fmin(a, b float64) float64 {
	switch {
	case stdmath.IsNaN(a):
		return b
	case stdmath.IsNaN(b):
		return a
	}
	return stdmath.Min(a, b)
}

// Fmax returns the larger of a and b, ignoring a single NaN like Fmin.
func Fmax(a, b float64) float64 {
	switch {
	case stdmath.IsNaN(a):
		return b
	case stdmath.IsNaN(b):
		return a
	}
	return stdmath.Max(a, b)
}

// Hypot computes sqrt(x² + y²) without intermediate overflow.
// Hypot(±Inf, NaN) is +Inf.
func Hypot(x, y float64) float64 {
	return stdmath.Hypot(x, y)
}

// Recip returns 1/x.
func Recip(x float64) float64 {
	return 1 / x
}

// remquoBits is the number of quotient magnitude bits Remquo reports.
const remquoBits = 30

// Remquo returns the IEEE remainder of x/y together with the low-order
// remquoBits bits of the integral quotient, carrying the sign of x/y.
//
// Special cases are:
//
//	Remquo(x, 0) = NaN, 0
//	Remquo(±Inf, y) = NaN, 0
//	Remquo(x, ±Inf) = x, 0
//	Remquo(NaN, y) = Remquo(x, NaN) = NaN, 0
func Remquo(x, y float64) (rem float64, quo int) {
	switch {
	case stdmath.IsNaN(x) || stdmath.IsNaN(y) || stdmath.IsInf(x, 0) || y == 0:
		return stdmath.NaN(), 0
	case stdmath.IsInf(y, 0):
		return x, 0
	}
	rem = stdmath.Remainder(x, y)

	// Reducing modulo an even multiple of |y| keeps the quotient's low bits
	// and its parity, so the nearest-integer tie breaks the same way.
	ax, ay := stdmath.Abs(x), stdmath.Abs(y)
	m := stdmath.Mod(ax, stdmath.Ldexp(ay, remquoBits))
	r := stdmath.Remainder(m, ay)
	n := int(stdmath.Round((m-r)/ay)) & (1<<remquoBits - 1)
	if stdmath.Signbit(x) != stdmath.Signbit(y) {
		n = -n
	}
	return rem, n
}

// FMA returns a*b+c with a single rounding to float64. Callers storing to a
// narrower type round a second time.
func FMA(a, b, c float64) float64 {
	return stdmath.FMA(a, b, c)
}

// Mad returns a*b+c with the product and the sum each rounded to e.
func Mad(e lane.ElemType, a, b, c float64) float64 {
	return e.Round(e.Round(a*b) + c)
}

// Nextafter returns the next value representable in e after x in the
// direction of y.
func Nextafter(e lane.ElemType, x, y float64) float64 {
	switch e {
	case lane.Float16:
		return lane.HalfNextafter(lane.HalfFromFloat64(x), lane.HalfFromFloat64(y)).Float64()
	case lane.Float32:
		return float64(stdmath.Nextafter32(float32(x), float32(y)))
	default:
		return stdmath.Nextafter(x, y)
	}
}

// Tgamma returns the Gamma function of x.
func Tgamma(x float64) float64 {
	return stdmath.Gamma(x)
}
