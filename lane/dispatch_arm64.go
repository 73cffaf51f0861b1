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

//go:build arm64

package lane

import "golang.org/x/sys/cpu"

func init() {
	// ARMv8-A always has scalar FMA.
	hasFMA = true
	hasF16C = cpu.ARM64.HasFPHP

	if NoSimdEnv() {
		setScalarMode()
		return
	}

	// Note: cpu.ARM64.HasASIMD is always true for ARMv8+
	switch {
	case cpu.ARM64.HasSVE:
		// SVE length is implementation defined; batch at the 128-bit
		// minimum so batches stay whole on every implementation.
		currentLevel = DispatchSVE
		currentWidth = 16
	case cpu.ARM64.HasASIMD:
		currentLevel = DispatchNEON
		currentWidth = 16 // NEON is 128-bit (16 bytes)
	default:
		setScalarMode()
	}
}
