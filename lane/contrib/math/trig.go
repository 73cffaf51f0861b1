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

// Atan2 returns the arc tangent of y/x, using the signs of both to pick
// the quadrant.
func Atan2(y, x float64) float64 {
	return stdmath.Atan2(y, x)
}

// Atan2pi returns Atan2(y, x) / π, in [-1, 1].
func Atan2pi(y, x float64) float64 {
	return stdmath.Atan2(y, x) / stdmath.Pi
}

// Acosh returns the inverse hyperbolic cosine of x. Acosh(x < 1) = NaN.
func Acosh(x float64) float64 {
	return stdmath.Acosh(x)
}

// Asinh returns the inverse hyperbolic sine of x.
func Asinh(x float64) float64 {
	return stdmath.Asinh(x)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * (stdmath.Pi / 180)
}

// SinCos returns Sin(x), Cos(x).
func SinCos(x float64) (sin, cos float64) {
	return stdmath.Sincos(x)
}

// Sinpi returns sin(π·x). Integers give a zero with the sign of x and
// half-integers give exactly ±1.
func Sinpi(x float64) float64 {
	if stdmath.IsInf(x, 0) || stdmath.IsNaN(x) {
		return stdmath.NaN()
	}
	if x == stdmath.Trunc(x) {
		return stdmath.Copysign(0, x)
	}
	sign := 1.0
	r := stdmath.Mod(x, 2)
	if r < 0 {
		r, sign = -r, -sign
	}
	if r > 1 {
		r, sign = r-1, -sign
	}
	// r in (0, 1); sin(π·r) is symmetric about 1/2.
	if r > 0.5 {
		r = 1 - r
	}
	if r > 0.25 {
		return sign * stdmath.Cos(stdmath.Pi*(0.5-r))
	}
	return sign * stdmath.Sin(stdmath.Pi*r)
}

// Cospi returns cos(π·x). Half-integers give +0 and integers give ±1.
func Cospi(x float64) float64 {
	if stdmath.IsInf(x, 0) || stdmath.IsNaN(x) {
		return stdmath.NaN()
	}
	r := stdmath.Mod(stdmath.Abs(x), 2)
	if r > 1 {
		r = 2 - r
	}
	switch {
	case r <= 0.25:
		return stdmath.Cos(stdmath.Pi * r)
	case r < 0.75:
		return stdmath.Sin(stdmath.Pi * (0.5 - r))
	default:
		return -stdmath.Cos(stdmath.Pi * (1 - r))
	}
}

// Sin returns the sine of x radians.
func Sin(x float64) float64 {
	return stdmath.Sin(x)
}

// Cos returns the cosine of x radians.
func Cos(x float64) float64 {
	return stdmath.Cos(x)
}

// Sinh returns the hyperbolic sine of x.
func Sinh(x float64) float64 {
	return stdmath.Sinh(x)
}

// Cosh returns the hyperbolic cosine of x.
func Cosh(x float64) float64 {
	return stdmath.Cosh(x)
}
