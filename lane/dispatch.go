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
	"os"
	"strconv"
)

// DispatchLevel represents the widest vector instruction set detected on
// the running CPU. Kernels use it to size lane batches so one batch spans a
// whole number of hardware vectors.
type DispatchLevel int

const (
	// DispatchScalar indicates no vector unit is used.
	DispatchScalar DispatchLevel = iota

	// DispatchAVX2 indicates AVX2 instructions (256-bit).
	DispatchAVX2

	// DispatchAVX512 indicates AVX-512 instructions (512-bit).
	DispatchAVX512

	// DispatchNEON indicates ARM NEON instructions (128-bit).
	DispatchNEON

	// DispatchSVE indicates ARM SVE instructions (scalable vector).
	DispatchSVE
)

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchAVX2:
		return "avx2"
	case DispatchAVX512:
		return "avx512"
	case DispatchNEON:
		return "neon"
	case DispatchSVE:
		return "sve"
	default:
		return "unknown"
	}
}

// Set by init() in dispatch_*.go files.
var (
	currentLevel DispatchLevel
	currentWidth int
)

// CPU feature flags relevant to the numeric backend. Set by init() in
// dispatch_*.go files.
var (
	// hasFMA indicates a hardware fused multiply-add.
	hasFMA bool

	// hasF16C indicates hardware float16 <-> float32 conversion
	// (F16C on x86, FPHP on ARM).
	hasF16C bool
)

// CurrentLevel returns the detected instruction set.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentWidth returns the vector register width in bytes.
// For example: 16 for NEON/scalar, 32 for AVX2, 64 for AVX-512.
func CurrentWidth() int {
	return currentWidth
}

// HasFMA reports whether the CPU has a hardware fused multiply-add.
func HasFMA() bool {
	return hasFMA
}

// HasF16C reports whether the CPU converts float16 in hardware.
func HasF16C() bool {
	return hasF16C
}

// NoSimdEnv checks if the LANEMATH_NO_SIMD environment variable is set.
// When set, detection reports DispatchScalar regardless of CPU capabilities.
func NoSimdEnv() bool {
	val := os.Getenv("LANEMATH_NO_SIMD")
	if val == "" {
		return false
	}
	// Any non-empty value is considered true, but also parse as bool
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// MaxLanes returns how many elements of type e fit one vector register at
// the current dispatch width.
//
// For example, with AVX2 (32 bytes):
//   - Float32: 32/4 = 8 lanes
//   - Float16: 32/2 = 16 lanes
//   - Int64: 32/8 = 4 lanes
func MaxLanes(e ElemType) int {
	size := e.Size()
	if size == 0 {
		return 0
	}
	return currentWidth / size
}

func setScalarMode() {
	currentLevel = DispatchScalar
	currentWidth = 16 // Use 16-byte vectors even in scalar mode for consistency
}
