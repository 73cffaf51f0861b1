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

// fastExp2 computes 2^x in float32.
//
// Algorithm: x = k + f with k = round(x) and |f| <= 1/2, then
// 2^x = 2^k * e^(f*ln2) where e^r is a degree-6 Taylor polynomial.
func fastExp2(x float32) float32 {
	switch {
	case x != x:
		return x
	case x >= exp2Overflow_f32:
		return float32(stdmath.Inf(1))
	case x <= exp2Underflow_f32:
		return 0
	}
	k := float32(stdmath.RoundToEven(float64(x)))
	r := (x - k) * expLn2_f32

	// Horner: 1 + r*(1 + r*(1/2 + r*(1/6 + r*(1/24 + r*(1/120 + r/720)))))
	p := expC6_f32*r + expC5_f32
	p = p*r + expC4_f32
	p = p*r + expC3_f32
	p = p*r + expC2_f32
	p = p*r + expC1_f32
	p = p*r + expOne_f32

	// Ldexp in float64 keeps denormal results exact before the final round.
	return float32(stdmath.Ldexp(float64(p), int(k)))
}

// logPoly returns ln(m) for m near 1 via the atanh series.
func logPoly(y float32) float32 {
	y2 := y * y
	poly := logC5_f32*y2 + logC4_f32
	poly = poly*y2 + logC3_f32
	poly = poly*y2 + logC2_f32
	poly = poly*y2 + logC1_f32
	return logTwo_f32 * y * poly
}

// fastLog2 computes log2(x) in float32.
//
// Algorithm: x = m * 2^e with m in [sqrt(1/2), sqrt(2)), then
// log2(x) = e + log(m)/ln2 with log(m) = 2*atanh((m-1)/(m+1)).
func fastLog2(x float32) float32 {
	switch {
	case x != x || x < 0:
		return float32(stdmath.NaN())
	case x == 0:
		return float32(stdmath.Inf(-1))
	case stdmath.IsInf(float64(x), 1):
		return x
	}
	frac, exp := stdmath.Frexp(float64(x))
	m := float32(frac)
	if m < logSqrtHalf_f32 {
		m *= 2
		exp--
	}
	y := (m - 1) / (m + 1)
	return float32(exp) + logPoly(y)*log2E_f32
}

// fastAtan computes atan(x) in float32 with two range reductions:
// atan(x) = π/2 - atan(1/x) for |x| > 1 and
// atan(x) = π/4 + atan((x-1)/(x+1)) for x > tan(π/8).
func fastAtan(x float32) float32 {
	a := x
	if a < 0 {
		a = -a
	}
	recip := a > atanOne_f32
	if recip {
		a = atanOne_f32 / a
	}
	shift := a > atanTanPiOver8_f32
	if shift {
		a = (a - atanOne_f32) / (a + atanOne_f32)
	}

	z2 := a * a
	poly := atanC5_f32*z2 + atanC4_f32
	poly = poly*z2 + atanC3_f32
	poly = poly*z2 + atanC2_f32
	poly = poly*z2 + atanC1_f32
	poly = poly*z2 + atanOne_f32
	r := a * poly

	if shift {
		r += atanPiOver4_f32
	}
	if recip {
		r = atanPiOver2_f32 - r
	}
	if x < 0 {
		r = -r
	}
	return r
}

// fastLog1p computes ln(1+x) in float32. Near zero it evaluates the atanh
// series on x/(2+x) directly so that 1+x never rounds away x.
func fastLog1p(x float32) float32 {
	switch {
	case x != x || x < -1:
		return float32(stdmath.NaN())
	case x == -1:
		return float32(stdmath.Inf(-1))
	case stdmath.IsInf(float64(x), 1):
		return x
	case x == 0:
		return x
	}
	if x > -0.25 && x < 0.25 {
		return logPoly(x / (logTwo_f32 + x))
	}
	return fastLog2(1+x) * ln2_f32
}

// NativeRecip returns 1/x computed in float32.
func NativeRecip(x float64) float64 {
	return float64(1 / float32(x))
}

// HalfRecip returns 1/x at the half-precision accuracy class. The float32
// reciprocal is well inside that class.
func HalfRecip(x float64) float64 {
	return NativeRecip(x)
}

// NativeHypot computes sqrt(x² + y²) in float32, scaling by the larger
// magnitude so the squares never overflow.
func NativeHypot(x, y float64) float64 {
	a, b := float32(stdmath.Abs(x)), float32(stdmath.Abs(y))
	switch {
	case stdmath.IsInf(float64(a), 0) || stdmath.IsInf(float64(b), 0):
		return stdmath.Inf(1)
	case a != a || b != b:
		return stdmath.NaN()
	}
	if a < b {
		a, b = b, a
	}
	if a == 0 {
		return 0
	}
	r := b / a
	s := float32(stdmath.Sqrt(float64(1 + r*r)))
	return float64(a * s)
}

// NativePowr computes x^y as fastExp2(y * fastLog2(x)) with the Powr
// special cases.
func NativePowr(x, y float64) float64 {
	fx, fy := float64(float32(x)), float64(float32(y))
	if r, ok := powrSpecial(fx, fy); ok {
		return r
	}
	return float64(fastExp2(float32(fy) * fastLog2(float32(fx))))
}

// NativeRootn computes the n-th root of x as fastExp2(fastLog2(|x|) / n)
// with the Rootn special cases.
func NativeRootn(x float64, n int) float64 {
	fx := float64(float32(x))
	if r, ok := rootnSpecial(fx, n); ok {
		return r
	}
	a := float32(stdmath.Abs(fx))
	r := fastExp2(fastLog2(a) / float32(n))
	if fx < 0 {
		r = -r
	}
	return float64(r)
}

// atan2Special reports whether atan2(y, x) needs the precise path.
func atan2Special(fy, fx float32) bool {
	return fy == 0 || fx == 0 || fy != fy || fx != fx ||
		stdmath.IsInf(float64(fy), 0) || stdmath.IsInf(float64(fx), 0)
}

// fastAtan2 computes atan2(y, x) in float32 for finite nonzero operands.
func fastAtan2(fy, fx float32) float32 {
	r := fastAtan(fy / fx)
	if fx < 0 {
		if fy < 0 {
			r -= 2 * atanPiOver2_f32
		} else {
			r += 2 * atanPiOver2_f32
		}
	}
	return r
}

// NativeAtan2 returns atan2(y, x) computed in float32. Zero, infinite and
// NaN operands take the precise path.
func NativeAtan2(y, x float64) float64 {
	fy, fx := float32(y), float32(x)
	if atan2Special(fy, fx) {
		return Atan2(float64(fy), float64(fx))
	}
	return float64(fastAtan2(fy, fx))
}

// NativeAtan2pi returns atan2(y, x) / π computed in float32. Zero,
// infinite and NaN operands take the precise path.
func NativeAtan2pi(y, x float64) float64 {
	fy, fx := float32(y), float32(x)
	if atan2Special(fy, fx) {
		return Atan2pi(float64(fy), float64(fx))
	}
	return float64(fastAtan2(fy, fx) * atanInvPi_f32)
}

// sinPoly evaluates sin(r) in float32 for |r| <= π/4.
func sinPoly(r float32) float32 {
	z := r * r
	p := sinC3_f32*z + sinC2_f32
	p = p*z + sinC1_f32
	return p*z*r + r
}

// cosPoly evaluates cos(r) in float32 for |r| <= π/4.
func cosPoly(r float32) float32 {
	z := r * r
	p := cosC3_f32*z + cosC2_f32
	p = p*z + cosC1_f32
	return p*z*z - cosHalf_f32*z + cosOne_f32
}

// fastSinCos computes sin(x) and cos(x) in float32.
//
// Algorithm: x = k*(π/2) + r with k = round(x*2/π), reduced in float64 so
// that r keeps its precision, then both polynomials on r and a quadrant
// swap by k mod 4.
func fastSinCos(x float64) (sin, cos float32) {
	f := float64(float32(x))
	switch {
	case stdmath.IsNaN(f) || stdmath.IsInf(f, 0):
		nan := float32(stdmath.NaN())
		return nan, nan
	case f == 0:
		return float32(f), 1
	case stdmath.Abs(f) > sinReduceMax:
		s, c := SinCos(f)
		return float32(s), float32(c)
	}
	k := stdmath.RoundToEven(f * (2 / stdmath.Pi))
	r := float32(f - k*(stdmath.Pi/2))
	s, c := sinPoly(r), cosPoly(r)
	switch int64(k) & 3 {
	case 0:
		return s, c
	case 1:
		return c, -s
	case 2:
		return -s, -c
	default:
		return -c, s
	}
}

// NativeSin computes sin(x) in float32.
func NativeSin(x float64) float64 {
	s, _ := fastSinCos(x)
	return float64(s)
}

// NativeSinCos computes sin(x) and cos(x) in float32 with one reduction.
func NativeSinCos(x float64) (sin, cos float64) {
	s, c := fastSinCos(x)
	return float64(s), float64(c)
}

// NativeCospi computes cos(π·x) in float32. The reduction mod 2 is exact,
// so half-integers give +0 and integers give ±1 like Cospi.
func NativeCospi(x float64) float64 {
	f := float64(float32(x))
	if stdmath.IsInf(f, 0) || stdmath.IsNaN(f) {
		return stdmath.NaN()
	}
	r := stdmath.Mod(stdmath.Abs(f), 2)
	if r > 1 {
		r = 2 - r
	}
	switch {
	case r <= 0.25:
		return float64(cosPoly(float32(stdmath.Pi * r)))
	case r < 0.75:
		return float64(sinPoly(float32(stdmath.Pi * (0.5 - r))))
	default:
		return float64(-cosPoly(float32(stdmath.Pi * (1 - r))))
	}
}

// NativeSinh computes sinh(x) in float32 from E = expm1(|x|) as
// sign(x) * (E + E/(E+1)) / 2, which stays accurate near zero.
func NativeSinh(x float64) float64 {
	f := float32(x)
	if f != f || f == 0 || stdmath.IsInf(float64(f), 0) {
		return float64(f)
	}
	a := f
	if a < 0 {
		a = -a
	}
	var r float32
	if a > sinhLarge_f32 {
		r = fastExp2(a*log2E_f32 - expOne_f32)
	} else {
		e := float32(NativeExpm1(float64(a)))
		r = cosHalf_f32 * (e + e/(e+cosOne_f32))
	}
	if f < 0 {
		r = -r
	}
	return float64(r)
}

// NativeAsinh computes asinh(x) in float32 as
// sign(x) * log1p(|x| + x²/(1 + sqrt(1 + x²))).
func NativeAsinh(x float64) float64 {
	f := float32(x)
	if f != f || f == 0 || stdmath.IsInf(float64(f), 0) {
		return float64(f)
	}
	a := f
	if a < 0 {
		a = -a
	}
	var r float32
	if a > asinhHuge_f32 {
		r = fastLog2(a)*ln2_f32 + ln2_f32
	} else {
		t := a * a
		r = fastLog1p(a + t/(1+float32(stdmath.Sqrt(float64(1+t)))))
	}
	if f < 0 {
		r = -r
	}
	return float64(r)
}

// NativeExpm1 computes e^x - 1 in float32. Small arguments use the Taylor
// polynomial directly; larger ones go through fastExp2.
func NativeExpm1(x float64) float64 {
	f := float32(x)
	switch {
	case f != f || f == 0:
		return float64(f)
	case stdmath.IsInf(float64(f), 1):
		return stdmath.Inf(1)
	case f < -104:
		return -1
	}
	if f > -0.5 && f < 0.5 {
		p := expC6_f32*f + expC5_f32
		p = p*f + expC4_f32
		p = p*f + expC3_f32
		p = p*f + expC2_f32
		p = p*f + expC1_f32
		return float64(p * f)
	}
	return float64(fastExp2(f*log2E_f32) - 1)
}

// NativeLog1p computes ln(1+x) in float32.
func NativeLog1p(x float64) float64 {
	return float64(fastLog1p(float32(x)))
}
