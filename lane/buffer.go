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

import (
	"fmt"
	"math"
)

// MaxWidth is the widest vector a lane may carry.
const MaxWidth = 4

// Buffer is an ordered sequence of lanes. Every lane holds Width elements
// of a single ElemType.
//
// Width-3 lanes are laid out with a stride of 4: the fourth slot is padding,
// ignored on read and zeroed on write. Element k of lane i lives at flat
// index i*Stride()+k.
//
// The typed accessors (Float, Int, Uint and their setters) address the flat
// element index and apply the package conversion policy, so a kernel can read
// and write any buffer through a single wide representation.
type Buffer struct {
	elem  ElemType
	width int
	lanes int
	store storage
}

// storage is the type-erased view of the backing slice.
type storage interface {
	float(i int) float64
	setFloat(i int, v float64)
	int(i int) int64
	setInt(i int, v int64)
	uint(i int) uint64
	setUint(i int, v uint64)
	raw() any
	clone() storage
}

// ValidWidth reports whether w is a supported vector width.
func ValidWidth(w int) bool {
	return w >= 1 && w <= MaxWidth
}

// StrideFor returns the storage stride of a lane of width w.
func StrideFor(w int) int {
	if w == 3 {
		return 4
	}
	return w
}

// NewBuffer wraps data as a buffer of lanes with the given width. data is
// used directly, not copied. Its length must be a multiple of the stride.
func NewBuffer[T Elements](width int, data []T) (*Buffer, error) {
	if !ValidWidth(width) {
		return nil, fmt.Errorf("lane: invalid vector width %d", width)
	}
	stride := StrideFor(width)
	if len(data)%stride != 0 {
		return nil, fmt.Errorf("lane: %d elements is not a whole number of width-%d lanes (stride %d)",
			len(data), width, stride)
	}
	return &Buffer{
		elem:  ElemOf[T](),
		width: width,
		lanes: len(data) / stride,
		store: newStorage(data),
	}, nil
}

// MustBuffer is like NewBuffer but panics on error. Intended for tests and
// literals whose shape is known to be valid.
func MustBuffer[T Elements](width int, data []T) *Buffer {
	b, err := NewBuffer(width, data)
	if err != nil {
		panic(err)
	}
	return b
}

// Alloc returns a zeroed buffer of n lanes. It panics on an invalid element
// type or width; callers validate shapes before allocating.
func Alloc(elem ElemType, width, n int) *Buffer {
	if !ValidWidth(width) {
		panic(fmt.Sprintf("lane: invalid vector width %d", width))
	}
	size := n * StrideFor(width)
	var s storage
	switch elem {
	case Int8:
		s = &intStore[int8]{data: make([]int8, size)}
	case Int16:
		s = &intStore[int16]{data: make([]int16, size)}
	case Int32:
		s = &intStore[int32]{data: make([]int32, size)}
	case Int64:
		s = &intStore[int64]{data: make([]int64, size)}
	case Uint8:
		s = &intStore[uint8]{data: make([]uint8, size)}
	case Uint16:
		s = &intStore[uint16]{data: make([]uint16, size)}
	case Uint32:
		s = &intStore[uint32]{data: make([]uint32, size)}
	case Uint64:
		s = &intStore[uint64]{data: make([]uint64, size)}
	case Float16:
		s = &halfStore{data: make([]Half, size)}
	case Float32:
		s = &floatStore[float32]{data: make([]float32, size)}
	case Float64:
		s = &floatStore[float64]{data: make([]float64, size)}
	default:
		panic(fmt.Sprintf("lane: cannot allocate element type %v", elem))
	}
	return &Buffer{elem: elem, width: width, lanes: n, store: s}
}

func newStorage[T Elements](data []T) storage {
	switch d := any(data).(type) {
	case []int8:
		return &intStore[int8]{data: d}
	case []int16:
		return &intStore[int16]{data: d}
	case []int32:
		return &intStore[int32]{data: d}
	case []int64:
		return &intStore[int64]{data: d}
	case []uint8:
		return &intStore[uint8]{data: d}
	case []uint16:
		return &intStore[uint16]{data: d}
	case []uint32:
		return &intStore[uint32]{data: d}
	case []uint64:
		return &intStore[uint64]{data: d}
	case []Half:
		return &halfStore{data: d}
	case []float32:
		return &floatStore[float32]{data: d}
	case []float64:
		return &floatStore[float64]{data: d}
	}
	panic("lane: unreachable element type")
}

// Elem returns the element type.
func (b *Buffer) Elem() ElemType { return b.elem }

// Width returns the number of elements per lane.
func (b *Buffer) Width() int { return b.width }

// Stride returns the number of storage slots per lane.
func (b *Buffer) Stride() int { return StrideFor(b.width) }

// Lanes returns the lane count N.
func (b *Buffer) Lanes() int { return b.lanes }

// Index returns the flat index of element k of lane i.
func (b *Buffer) Index(i, k int) int { return i*StrideFor(b.width) + k }

// Float reads flat element i widened to float64.
func (b *Buffer) Float(i int) float64 { return b.store.float(i) }

// SetFloat stores v at flat index i. Float buffers round to nearest;
// integer buffers truncate and saturate.
func (b *Buffer) SetFloat(i int, v float64) { b.store.setFloat(i, v) }

// Int reads flat element i as a signed integer. Floats saturate; unsigned
// values are reinterpreted modulo 2^64.
func (b *Buffer) Int(i int) int64 { return b.store.int(i) }

// SetInt stores v at flat index i. Integer buffers wrap; float buffers
// round to nearest.
func (b *Buffer) SetInt(i int, v int64) { b.store.setInt(i, v) }

// Uint reads flat element i as an unsigned integer.
func (b *Buffer) Uint(i int) uint64 { return b.store.uint(i) }

// SetUint stores v at flat index i. Integer buffers wrap; float buffers
// round to nearest.
func (b *Buffer) SetUint(i int, v uint64) { b.store.setUint(i, v) }

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	c := *b
	c.store = b.store.clone()
	return &c
}

// String summarizes the buffer shape, e.g. "float32x2[8]".
func (b *Buffer) String() string {
	return fmt.Sprintf("%vx%d[%d]", b.elem, b.width, b.lanes)
}

// Data returns the backing slice of b when T matches its element type.
// Width-3 buffers include their padding slots.
func Data[T Elements](b *Buffer) ([]T, bool) {
	d, ok := b.store.raw().([]T)
	return d, ok
}

// Lane returns the Width elements of lane i widened to float64, without
// padding. Intended for reporting and tests.
func (b *Buffer) Lane(i int) []float64 {
	out := make([]float64, b.width)
	for k := range out {
		out[k] = b.store.float(b.Index(i, k))
	}
	return out
}

type intStore[T Integers] struct{ data []T }

func (s *intStore[T]) float(i int) float64 { return float64(s.data[i]) }
func (s *intStore[T]) setFloat(i int, v float64) {
	s.data[i] = SaturateFloat[T](v)
}
func (s *intStore[T]) int(i int) int64 { return int64(s.data[i]) }
func (s *intStore[T]) setInt(i int, v int64) { s.data[i] = WrapInt[T](v) }
func (s *intStore[T]) uint(i int) uint64 { return uint64(s.data[i]) }
func (s *intStore[T]) setUint(i int, v uint64) { s.data[i] = WrapUint[T](v) }
func (s *intStore[T]) raw() any { return s.data }
func (s *intStore[T]) clone() storage {
	return &intStore[T]{data: append([]T(nil), s.data...)}
}

type floatStore[T Floats] struct{ data []T }

func (s *floatStore[T]) float(i int) float64 { return float64(s.data[i]) }
func (s *floatStore[T]) setFloat(i int, v float64) { s.data[i] = T(v) }
func (s *floatStore[T]) int(i int) int64 {
	return SaturateFloat[int64](float64(s.data[i]))
}
func (s *floatStore[T]) setInt(i int, v int64) { s.data[i] = T(v) }
func (s *floatStore[T]) uint(i int) uint64 {
	return SaturateFloat[uint64](float64(s.data[i]))
}
func (s *floatStore[T]) setUint(i int, v uint64) { s.data[i] = T(v) }
func (s *floatStore[T]) raw() any { return s.data }
func (s *floatStore[T]) clone() storage {
	return &floatStore[T]{data: append([]T(nil), s.data...)}
}

// halfStore converts integers through float32 first. Every integer that
// survives as a finite Half is exact in float32, so the extra step never
// changes a finite result.
type halfStore struct{ data []Half }

func (s *halfStore) float(i int) float64 { return s.data[i].Float64() }
func (s *halfStore) setFloat(i int, v float64) { s.data[i] = HalfFromFloat64(v) }
func (s *halfStore) int(i int) int64 {
	return SaturateFloat[int64](s.data[i].Float64())
}
func (s *halfStore) setInt(i int, v int64) {
	s.data[i] = HalfFromFloat32(float32(v))
}
func (s *halfStore) uint(i int) uint64 {
	return SaturateFloat[uint64](s.data[i].Float64())
}
func (s *halfStore) setUint(i int, v uint64) {
	s.data[i] = HalfFromFloat32(float32(v))
}
func (s *halfStore) raw() any { return s.data }
func (s *halfStore) clone() storage {
	return &halfStore{data: append([]Half(nil), s.data...)}
}

// Equal reports whether a and b have the same shape and bitwise-equal
// elements, ignoring width-3 padding. NaNs compare equal to NaNs.
func Equal(a, b *Buffer) bool {
	if a.elem != b.elem || a.width != b.width || a.lanes != b.lanes {
		return false
	}
	for i := 0; i < a.lanes; i++ {
		for k := 0; k < a.width; k++ {
			idx := a.Index(i, k)
			if a.elem.IsFloat() {
				x, y := a.Float(idx), b.Float(idx)
				if math.IsNaN(x) && math.IsNaN(y) {
					continue
				}
				if math.Float64bits(x) != math.Float64bits(y) {
					return false
				}
				continue
			}
			if a.Uint(idx) != b.Uint(idx) {
				return false
			}
		}
	}
	return true
}
