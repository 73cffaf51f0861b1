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

//go:build amd64

package lane

import "golang.org/x/sys/cpu"

func init() {
	// FMA and F16C are reported even in scalar mode: they describe the
	// hardware, not the batch width.
	hasFMA = cpu.X86.HasFMA
	// F16C detection: use FMA as a proxy (F16C is present on all FMA-capable CPUs)
	hasF16C = cpu.X86.HasAVX && cpu.X86.HasFMA

	if NoSimdEnv() {
		setScalarMode()
		return
	}

	switch {
	case cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW && cpu.X86.HasAVX512VL:
		currentLevel = DispatchAVX512
		currentWidth = 64
	case cpu.X86.HasAVX2:
		currentLevel = DispatchAVX2
		currentWidth = 32
	default:
		setScalarMode()
	}
}
