package lane

import (
	"cmp"
	"math"
	"unsafe"
)

// This file defines how values cross between element types. Buffers apply
// these rules on every store, so all conversions in the module share one
// policy:
//
//   - float -> integer: truncate toward zero, saturate to the target range,
//     NaN becomes 0.
//   - integer -> float: round to nearest (Go's conversion semantics).
//   - integer -> integer: wrap modulo the target width.
//   - float -> float: round to nearest, ties to even.

// intRange returns the inclusive lower bound and the exclusive upper bound
// of integer type T as float64 values. Both are powers of two (or zero) and
// therefore exact.
func intRange[T Integers]() (lo, hiExclusive float64) {
	var zero T
	bits := int(unsafe.Sizeof(zero)) * 8
	if ^zero < 0 {
		// Signed: [-2^(bits-1), 2^(bits-1))
		return -math.Ldexp(1, bits-1), math.Ldexp(1, bits-1)
	}
	return 0, math.Ldexp(1, bits)
}

// SaturateFloat converts v to integer type T, truncating toward zero and
// clamping to T's range. NaN converts to 0.
//
// For example, SaturateFloat[int8](300.7) = 127 and
// SaturateFloat[uint8](-4) = 0.
func SaturateFloat[T Integers](v float64) T {
	if math.IsNaN(v) {
		return 0
	}
	lo, hi := intRange[T]()
	t := math.Trunc(v)
	if t < lo {
		return minOf[T]()
	}
	if t >= hi {
		return maxOf[T]()
	}
	return T(t)
}

func minOf[T Integers]() T {
	var zero T
	if ^zero < 0 {
		// Sign bit only: the shift wraps to the most negative value.
		bits := unsafe.Sizeof(zero)*8 - 1
		return T(1) << bits
	}
	return 0
}

func maxOf[T Integers]() T {
	var zero T
	if ^zero < 0 {
		return ^minOf[T]()
	}
	return ^zero
}

// WrapInt converts v to integer type T modulo 2^bits.
func WrapInt[T Integers](v int64) T {
	return T(v)
}

// WrapUint converts v to integer type T modulo 2^bits.
func WrapUint[T Integers](v uint64) T {
	return T(v)
}

// Clamp clamps v to the range [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
