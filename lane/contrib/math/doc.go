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

// Package math provides the scalar primitives behind the lane kernels.
//
// Every function works on float64 values. Kernels widen each element to
// float64, call the primitive and round the result back to the element type
// on store, so one implementation serves float16, float32 and float64 lanes.
//
// # Precise functions
//
// Exponential and logarithmic:
//   - Log2(x), Expm1(x), Log1p(x)
//   - Powr(x, y) - x^y for x >= 0 with OpenCL special cases
//   - Rootn(x, n) - x^(1/n)
//   - Frexp(x), Ldexp(x, e), Ilogb(x)
//
// Trigonometric and hyperbolic:
//   - Atan2(y, x), Atan2pi(y, x), Sinpi(x), Cospi(x), SinCos(x), Radians(x)
//   - Acosh(x), Asinh(x)
//
// Arithmetic:
//   - AbsInt(v), Fmin(a, b), Fmax(a, b), Hypot(x, y), Recip(x)
//   - Remquo(x, y), FMA(a, b, c), Mad(e, a, b, c), Nextafter(e, x, y)
//   - Tgamma(x)
//
// # Native functions
//
// The Native* functions trade accuracy for speed. They run in float32
// arithmetic on top of range-reduced polynomial exp2 and log2 kernels and
// are accurate to a relative error of about 2^-12. They are defined for
// float16 and float32 inputs; float64 callers should use the precise forms.
//
//   - NativeRecip, NativeHypot, NativePowr, NativeRootn, NativeAtan2pi
//   - NativeAsinh, NativeExpm1, NativeLog1p
//   - HalfRecip
package math
