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

package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sys/cpu"

	"github.com/ajroetker/go-lanemath/lane"
)

func newCPUCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cpu",
		Short: "Print the detected CPU features and dispatch level",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "GOOS: %s\n", runtime.GOOS)
			fmt.Fprintf(w, "GOARCH: %s\n", runtime.GOARCH)
			fmt.Fprintf(w, "NumCPU: %d\n", runtime.NumCPU())
			fmt.Fprintln(w)

			fmt.Fprintf(w, "dispatch level: %s\n", lane.CurrentLevel())
			fmt.Fprintf(w, "dispatch width: %d bytes (%d float32 lanes)\n",
				lane.CurrentWidth(), lane.MaxLanes(lane.Float32))
			fmt.Fprintf(w, "LANEMATH_NO_SIMD: %v\n", lane.NoSimdEnv())
			fmt.Fprintf(w, "hardware FMA: %v\n", lane.HasFMA())
			fmt.Fprintf(w, "hardware float16 conversion: %v\n", lane.HasF16C())
			fmt.Fprintln(w)

			switch runtime.GOARCH {
			case "arm64":
				printARM64Features(w)
			case "amd64":
				printAMD64Features(w)
			}
		},
	}
}

func printARM64Features(w io.Writer) {
	fmt.Fprintln(w, "=== golang.org/x/sys/cpu.ARM64 ===")
	fmt.Fprintf(w, "  HasASIMD:    %v (NEON baseline)\n", cpu.ARM64.HasASIMD)
	fmt.Fprintf(w, "  HasFP:       %v\n", cpu.ARM64.HasFP)
	fmt.Fprintf(w, "  HasFPHP:     %v (FP16 scalar)\n", cpu.ARM64.HasFPHP)
	fmt.Fprintf(w, "  HasASIMDHP:  %v (FP16 NEON)\n", cpu.ARM64.HasASIMDHP)
	fmt.Fprintf(w, "  HasASIMDFHM: %v (FP16 FMA)\n", cpu.ARM64.HasASIMDFHM)
	fmt.Fprintf(w, "  HasSVE:      %v\n", cpu.ARM64.HasSVE)
	fmt.Fprintf(w, "  HasSVE2:     %v\n", cpu.ARM64.HasSVE2)
}

func printAMD64Features(w io.Writer) {
	fmt.Fprintln(w, "=== golang.org/x/sys/cpu.X86 ===")
	fmt.Fprintf(w, "  HasSSE2:     %v\n", cpu.X86.HasSSE2)
	fmt.Fprintf(w, "  HasSSE41:    %v\n", cpu.X86.HasSSE41)
	fmt.Fprintf(w, "  HasAVX:      %v\n", cpu.X86.HasAVX)
	fmt.Fprintf(w, "  HasAVX2:     %v\n", cpu.X86.HasAVX2)
	fmt.Fprintf(w, "  HasFMA:      %v\n", cpu.X86.HasFMA)
	fmt.Fprintf(w, "  HasAVX512F:  %v\n", cpu.X86.HasAVX512F)
	fmt.Fprintf(w, "  HasAVX512BW: %v\n", cpu.X86.HasAVX512BW)
	fmt.Fprintf(w, "  HasAVX512VL: %v\n", cpu.X86.HasAVX512VL)
}
