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
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-lanemath/kernel"
	"github.com/ajroetker/go-lanemath/lane"
)

func newOpsCmd(a *app) *cobra.Command {
	var (
		elem  elemFlag
		width int
	)
	cmd := &cobra.Command{
		Use:   "ops",
		Short: "List the registered operations",
		Long: "List every operation with its operands, outputs, element types and precision.\n" +
			"With --elem, only ops supporting that type are listed, with their kernel names.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := kernel.DefaultRegistry()
			ops := reg.Ops()
			if elem.elem != lane.Invalid {
				if !lane.ValidWidth(width) {
					return fmt.Errorf("%w: %d", kernel.ErrInvalidWidth, width)
				}
				ops = reg.Supporting(elem.elem)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			header := "NAME\tINPUTS\tOUTPUTS\tTYPES\tPRECISION"
			if elem.elem != lane.Invalid {
				header += "\tKERNEL"
			}
			fmt.Fprintln(tw, header)
			for _, op := range ops {
				line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s",
					op.Name, operands(op.Inputs), outputs(op), elemList(op.Elems), op.Precision)
				if elem.elem != lane.Invalid {
					line += "\t" + op.KernelName(elem.elem, width)
				}
				fmt.Fprintln(tw, line)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Var(&elem, "elem", "only list ops supporting this element type")
	cmd.Flags().IntVar(&width, "width", 1, "vector width used for kernel names")
	return cmd
}

func operands(ops []kernel.Operand) string {
	return strings.Join(lo.Map(ops, func(o kernel.Operand, _ int) string {
		return o.Name + ":" + o.Type.String()
	}), " ")
}

func outputs(op *kernel.Op) string {
	out := op.Output.String()
	if len(op.Aux) > 0 {
		out += " " + operands(op.Aux)
	}
	return out
}

func elemList(elems []lane.ElemType) string {
	return strings.Join(lo.Map(elems, func(e lane.ElemType, _ int) string { return e.String() }), ",")
}
