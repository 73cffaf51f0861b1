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

import stdmath "math"

// Log returns the natural logarithm of x.
func Log(x float64) float64 {
	return stdmath.Log(x)
}

// Log10 returns the decimal logarithm of x.
func Log10(x float64) float64 {
	return stdmath.Log10(x)
}

// Log2 returns the binary logarithm of x.
func Log2(x float64) float64 {
	return stdmath.Log2(x)
}

// Expm1 returns e^x - 1, accurate for x near zero.
func Expm1(x float64) float64 {
	return stdmath.Expm1(x)
}

// Log1p returns ln(1 + x), accurate for x near zero.
func Log1p(x float64) float64 {
	return stdmath.Log1p(x)
}

// Powr computes x^y for x >= 0, as exp2(y * log2(x)).
//
// Unlike Pow, every negative x is a domain error. Special cases are:
//
//	Powr(x, y) = NaN for x < 0 or NaN operands
//	Powr(±0, ±0) = NaN
//	Powr(±0, y) = +Inf for y < 0
//	Powr(±0, y) = +0 for y > 0
//	Powr(+Inf, ±0) = NaN
//	Powr(+Inf, y) = +0 for y < 0, +Inf for y > 0
//	Powr(1, ±Inf) = NaN
//	Powr(1, y) = 1 otherwise
func Powr(x, y float64) float64 {
	if r, ok := powrSpecial(x, y); ok {
		return r
	}
	return stdmath.Pow(x, y)
}

// powrSpecial resolves the Powr special cases shared by the precise and
// native forms.
func powrSpecial(x, y float64) (float64, bool) {
	switch {
	case stdmath.IsNaN(x) || stdmath.IsNaN(y) || x < 0:
		return stdmath.NaN(), true
	case x == 0:
		if y == 0 {
			return stdmath.NaN(), true
		}
		if y < 0 {
			return stdmath.Inf(1), true
		}
		return 0, true
	case stdmath.IsInf(x, 1):
		if y == 0 {
			return stdmath.NaN(), true
		}
		if y < 0 {
			return 0, true
		}
		return stdmath.Inf(1), true
	case x == 1:
		if stdmath.IsInf(y, 0) {
			return stdmath.NaN(), true
		}
		return 1, true
	case y == 0:
		return 1, true
	}
	return 0, false
}

// Rootn computes the n-th root of x.
//
// Special cases are:
//
//	Rootn(x, 0) = NaN
//	Rootn(x, n) = NaN for x < 0 and even n
//	Rootn(±0, n) = ±0 for odd n > 0, +0 for even n > 0
//	Rootn(±0, n) = ±Inf for odd n < 0, +Inf for even n < 0
//	Rootn(±Inf, n) = ±Inf for n > 0, ±0 for n < 0 (sign kept for odd n)
//	Rootn(NaN, n) = NaN
func Rootn(x float64, n int) float64 {
	if r, ok := rootnSpecial(x, n); ok {
		return r
	}
	switch n {
	case 1:
		return x
	case -1:
		return 1 / x
	case 2:
		return stdmath.Sqrt(x)
	case -2:
		return 1 / stdmath.Sqrt(x)
	case 3:
		return stdmath.Cbrt(x)
	}
	r := stdmath.Pow(stdmath.Abs(x), 1/float64(n))
	if x < 0 {
		r = -r
	}
	return r
}

func rootnSpecial(x float64, n int) (float64, bool) {
	odd := n&1 != 0
	switch {
	case n == 0 || stdmath.IsNaN(x):
		return stdmath.NaN(), true
	case x < 0 && !odd:
		return stdmath.NaN(), true
	case x == 0:
		var r float64
		if n < 0 {
			r = stdmath.Inf(1)
		}
		if odd {
			r = stdmath.Copysign(r, x)
		}
		return r, true
	case stdmath.IsInf(x, 0):
		r := stdmath.Inf(1)
		if n < 0 {
			r = 0
		}
		if odd {
			r = stdmath.Copysign(r, x)
		}
		return r, true
	}
	return 0, false
}

// Frexp breaks x into a mantissa in [0.5, 1) and a power of two.
// Frexp(±0) = ±0, 0; Frexp(±Inf) = ±Inf, 0; Frexp(NaN) = NaN, 0.
func Frexp(x float64) (frac float64, exp int) {
	return stdmath.Frexp(x)
}

// Ldexp returns x * 2^exp.
func Ldexp(x float64, exp int) float64 {
	return stdmath.Ldexp(x, exp)
}

// Ilogb returns the unbiased binary exponent of x. Denormal inputs report
// their true exponent.
//
// Special cases are:
//
//	Ilogb(±Inf) = MaxInt32
//	Ilogb(0) = MinInt32
//	Ilogb(NaN) = MaxInt32
func Ilogb(x float64) int {
	return stdmath.Ilogb(x)
}
