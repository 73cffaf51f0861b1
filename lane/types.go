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

// Package lane provides the typed storage that elementwise math kernels
// read and write: element type tags, the half-precision Half type, lane
// buffers with vector widths of 1 to 4, and the numeric conversion policy
// used whenever a value crosses from one element type to another.
//
// Basic usage:
//
//	import "github.com/ajroetker/go-lanemath/lane"
//
//	// Two lanes of float2
//	in, err := lane.NewBuffer(2, []float32{1, 2, 3, 4})
//
//	// Output storage for the same shape
//	out := lane.Alloc(lane.Float32, 2, in.Lanes())
package lane

import (
	"fmt"
	"strings"
)

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts is a constraint for unsigned integer types.
type UnsignedInts interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integers is a constraint for all integer types.
type Integers interface {
	SignedInts | UnsignedInts
}

// Elements is the exact set of Go types a Buffer can hold.
// Half is listed separately from uint16 so the two never alias.
type Elements interface {
	int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		Half | float32 | float64
}

// ElemType tags the element type of a Buffer.
type ElemType uint8

const (
	// Invalid is the zero ElemType and never describes a real buffer.
	Invalid ElemType = iota

	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64

	// Float16 is IEEE 754 binary16, stored as Half.
	Float16
	Float32
	Float64
)

var elemNames = [...]string{
	Invalid: "invalid",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Uint64:  "uint64",
	Float16: "float16",
	Float32: "float32",
	Float64: "float64",
}

// elemAliases maps the C-style names used by compute-kernel languages
// onto element types.
var elemAliases = map[string]ElemType{
	"char":   Int8,
	"uchar":  Uint8,
	"short":  Int16,
	"ushort": Uint16,
	"int":    Int32,
	"uint":   Uint32,
	"long":   Int64,
	"ulong":  Uint64,
	"half":   Float16,
	"float":  Float32,
	"double": Float64,
}

// String returns the canonical lower-case name, e.g. "float32".
func (e ElemType) String() string {
	if int(e) < len(elemNames) {
		return elemNames[e]
	}
	return fmt.Sprintf("ElemType(%d)", uint8(e))
}

// Valid reports whether e names a real element type.
func (e ElemType) Valid() bool {
	return e > Invalid && e <= Float64
}

// Size returns the element size in bytes.
func (e ElemType) Size() int {
	switch e {
	case Int8, Uint8:
		return 1
	case Int16, Uint16, Float16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

// Bits returns the element width in bits.
func (e ElemType) Bits() int {
	return e.Size() * 8
}

// IsFloat reports whether e is a floating-point type.
func (e ElemType) IsFloat() bool {
	return e == Float16 || e == Float32 || e == Float64
}

// IsSigned reports whether e is a signed integer type.
func (e ElemType) IsSigned() bool {
	return e >= Int8 && e <= Int64
}

// IsUnsigned reports whether e is an unsigned integer type.
func (e ElemType) IsUnsigned() bool {
	return e >= Uint8 && e <= Uint64
}

// IsInteger reports whether e is any integer type.
func (e ElemType) IsInteger() bool {
	return e.IsSigned() || e.IsUnsigned()
}

// Unsigned returns the unsigned integer type of the same width as a signed
// type. Any other type is returned unchanged.
func (e ElemType) Unsigned() ElemType {
	if e.IsSigned() {
		return e + (Uint8 - Int8)
	}
	return e
}

// Round rounds v to the nearest value representable in e (ties to even).
// Integer types are returned unchanged; integer storage applies its own
// conversion policy on write.
func (e ElemType) Round(v float64) float64 {
	switch e {
	case Float32:
		return float64(float32(v))
	case Float16:
		return HalfFromFloat64(v).Float64()
	default:
		return v
	}
}

// Epsilon returns the distance from 1.0 to the next representable value of
// a floating-point type, or 0 for integers.
func (e ElemType) Epsilon() float64 {
	switch e {
	case Float16:
		return 0x1p-10
	case Float32:
		return 0x1p-23
	case Float64:
		return 0x1p-52
	default:
		return 0
	}
}

// AllElemTypes lists every valid element type in tag order.
func AllElemTypes() []ElemType {
	out := make([]ElemType, 0, int(Float64))
	for e := Int8; e <= Float64; e++ {
		out = append(out, e)
	}
	return out
}

// FloatElemTypes lists the floating-point element types.
func FloatElemTypes() []ElemType {
	return []ElemType{Float16, Float32, Float64}
}

// ParseElemType resolves a canonical name ("float32") or a C-style alias
// ("float", "uchar", "half") to an ElemType.
func ParseElemType(s string) (ElemType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for e := Int8; e <= Float64; e++ {
		if elemNames[e] == name {
			return e, nil
		}
	}
	if e, ok := elemAliases[name]; ok {
		return e, nil
	}
	return Invalid, fmt.Errorf("lane: unknown element type %q", s)
}

// ElemOf returns the ElemType tag for the Go type T.
func ElemOf[T Elements]() ElemType {
	var zero T
	switch any(zero).(type) {
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case uint64:
		return Uint64
	case Half:
		return Float16
	case float32:
		return Float32
	case float64:
		return Float64
	}
	return Invalid
}
