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

package lane

import "math"

// Half represents an IEEE 754 half-precision (binary16) floating-point number.
// It wraps uint16 for storage but provides float semantics.
//
// Format: Sign (1 bit) | Exponent (5 bits) | Mantissa (10 bits)
//
//	S | EEEEE | MMMMMMMMMM
//
// Properties:
//   - Exponent bias: 15
//   - Max value: 65504
//   - Min positive normal: 2^-14
//   - Min positive denormal: 2^-24
type Half uint16

// Half constants for special values.
const (
	HalfZero      Half = 0x0000
	HalfNegZero   Half = 0x8000
	HalfOne       Half = 0x3C00
	HalfMaxValue  Half = 0x7BFF // 65504
	HalfMinNormal Half = 0x0400 // 2^-14
	HalfMinValue  Half = 0x0001 // 2^-24
	HalfInf       Half = 0x7C00
	HalfNegInf    Half = 0xFC00
	HalfNaN       Half = 0x7E00 // canonical quiet NaN

	halfSignMask = 0x8000
	halfExpMask  = 0x7C00
	halfMantMask = 0x03FF
	halfExpBias  = 15
)

// halfOverflow is the smallest magnitude that rounds to infinity:
// halfway between 65504 and the next binade's first value 65536.
const halfOverflow = 65520.0

// HalfFromFloat64 rounds f to the nearest Half (ties to even).
// Converting straight from float64 avoids the double rounding a
// float64 -> float32 -> float16 chain can introduce.
func HalfFromFloat64(f float64) Half {
	sign := Half(0)
	if math.Signbit(f) {
		sign = halfSignMask
	}
	if math.IsNaN(f) {
		return sign | HalfNaN
	}
	a := math.Abs(f)
	if a >= halfOverflow {
		return sign | HalfInf
	}
	if a < 0x1p-14 {
		// Denormal range has a fixed quantum of 2^-24. A result of 1024
		// rounds up into the smallest normal, which has the same encoding.
		return sign | Half(math.RoundToEven(a*0x1p24))
	}
	exp := math.Ilogb(a)
	mant := math.RoundToEven(math.Ldexp(a, 10-exp))
	if mant == 2048 {
		mant = 1024
		exp++
	}
	return sign | Half(exp+halfExpBias)<<10 | (Half(mant) & halfMantMask)
}

// HalfFromFloat32 rounds f to the nearest Half.
func HalfFromFloat32(f float32) Half {
	return HalfFromFloat64(float64(f))
}

// HalfFromBits creates a Half from raw bits.
func HalfFromBits(bits uint16) Half {
	return Half(bits)
}

// Float64 widens h exactly.
func (h Half) Float64() float64 {
	exp := int(h&halfExpMask) >> 10
	mant := float64(h & halfMantMask)
	var v float64
	switch exp {
	case 0:
		v = math.Ldexp(mant, -24)
	case 0x1F:
		if mant != 0 {
			return math.NaN()
		}
		v = math.Inf(1)
	default:
		v = math.Ldexp(mant+1024, exp-halfExpBias-10)
	}
	if h&halfSignMask != 0 {
		v = -v
	}
	return v
}

// Float32 widens h exactly.
func (h Half) Float32() float32 {
	return float32(h.Float64())
}

// Bits returns the raw uint16 representation.
func (h Half) Bits() uint16 {
	return uint16(h)
}

// IsNaN returns true if h is a NaN value.
func (h Half) IsNaN() bool {
	return h&halfExpMask == halfExpMask && h&halfMantMask != 0
}

// IsInf returns true if h is positive or negative infinity.
func (h Half) IsInf() bool {
	return h&^halfSignMask == HalfInf
}

// IsZero returns true if h is positive or negative zero.
func (h Half) IsZero() bool {
	return h&^halfSignMask == 0
}

// IsDenormal returns true if h is a denormalized number.
func (h Half) IsDenormal() bool {
	return h&halfExpMask == 0 && h&halfMantMask != 0
}

// Signbit reports whether the sign bit is set.
func (h Half) Signbit() bool {
	return h&halfSignMask != 0
}

// HalfNextafter returns the next representable Half after x in the
// direction of y. Mirrors math.Nextafter32 at half precision.
func HalfNextafter(x, y Half) Half {
	fx, fy := x.Float64(), y.Float64()
	switch {
	case x.IsNaN() || y.IsNaN():
		return HalfNaN
	case fx == fy:
		return y
	case x.IsZero():
		if fy < 0 {
			return halfSignMask | HalfMinValue
		}
		return HalfMinValue
	case (fy > fx) == (fx > 0):
		return x + 1
	default:
		return x - 1
	}
}
