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

// Float32 constants for the native exp2 kernel.
var (
	// Range reduction: 2^x = 2^k * e^(f*ln2) with k = round(x), |f| <= 1/2.
	expLn2_f32 float32 = 0.6931471805599453

	// Overflow/underflow thresholds for 2^x at float32.
	exp2Overflow_f32  float32 = 128.0
	exp2Underflow_f32 float32 = -150.0

	// Taylor series: 1 + r + r²/2! + r³/3! + r⁴/4! + r⁵/5! + r⁶/6!
	expC1_f32 float32 = 1.0
	expC2_f32 float32 = 0.5
	expC3_f32 float32 = 0.16666666666666666
	expC4_f32 float32 = 0.041666666666666664
	expC5_f32 float32 = 0.008333333333333333
	expC6_f32 float32 = 0.001388888888888889

	expOne_f32 float32 = 1.0
)

// Float32 constants for the native log2 kernel.
var (
	// log(m) = 2*atanh((m-1)/(m+1)) = 2*y*(1 + y²/3 + y⁴/5 + y⁶/7 + y⁸/9)
	logC1_f32 float32 = 1.0
	logC2_f32 float32 = 0.3333333333333367565
	logC3_f32 float32 = 0.1999999999970470954
	logC4_f32 float32 = 0.1428571437183119574
	logC5_f32 float32 = 0.1111109921607489198

	logTwo_f32      float32 = 2.0
	logSqrtHalf_f32 float32 = 0.7071067811865476

	log2E_f32 float32 = 1.4426950408889634 // 1/ln(2)
	ln2_f32   float32 = 0.6931471805599453
)

// Float32 constants for the native atan kernel.
var (
	atanPiOver2_f32    float32 = 1.5707963267948966
	atanPiOver4_f32    float32 = 0.7853981633974483
	atanTanPiOver8_f32 float32 = 0.4142135623730950488 // tan(π/8) = sqrt(2) - 1
	atanInvPi_f32      float32 = 0.3183098861837907    // 1/π

	// atan(z) = z*(1 + c1*z² + c2*z⁴ + ...) for |z| <= tan(π/8)
	atanC1_f32 float32 = -0.3333333333
	atanC2_f32 float32 = 0.2
	atanC3_f32 float32 = -0.1428571429
	atanC4_f32 float32 = 0.1111111111
	atanC5_f32 float32 = -0.0909090909

	atanOne_f32 float32 = 1.0
)

// Float32 threshold above which x² overflows in asinh.
var asinhHuge_f32 float32 = 1e18

// Float32 constants for the native sin/cos kernels, valid for |r| <= π/4.
var (
	// sin(r) = r + r³*(s1 + s2*r² + s3*r⁴)
	sinC1_f32 float32 = -1.6666654611e-1
	sinC2_f32 float32 = 8.3321608736e-3
	sinC3_f32 float32 = -1.9515295891e-4

	// cos(r) = 1 - r²/2 + r⁴*(c1 + c2*r² + c3*r⁴)
	cosC1_f32 float32 = 4.166664568298827e-2
	cosC2_f32 float32 = -1.388731625493765e-3
	cosC3_f32 float32 = 2.443315711809948e-5

	cosHalf_f32 float32 = 0.5
	cosOne_f32  float32 = 1.0
)

// sinReduceMax bounds the float64 reduction by π/2; larger arguments take
// the precise path.
const sinReduceMax = 0x1p20

// Above this magnitude e^-x is below float32 precision, so
// sinh(x) = 2^(x*log2(e) - 1).
var sinhLarge_f32 float32 = 9
