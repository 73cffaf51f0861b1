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
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-lanemath/kernel"
	"github.com/ajroetker/go-lanemath/lane"
)

func newEvalCmd(a *app) *cobra.Command {
	var (
		elem  = elemFlag{elem: lane.Float32}
		width int
		ins   []string
	)
	cmd := &cobra.Command{
		Use:   "eval OP",
		Short: "Evaluate one operation on literal inputs",
		Long: "Evaluate OP on the values given with --in name=v1,v2,...\n" +
			"Each input holds width values per lane; the lane count follows from the first input.\n" +
			"Values accept nan, inf and -inf.",
		Example: "  lanemath eval fmin --width 2 --in a=1,nan --in b=2,3",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := parseInputs(ins)
			if err != nil {
				return err
			}
			inv := kernel.Invocation{Op: args[0], Width: width, Elem: elem.elem}

			// Without a known op and a valid width there is nothing to
			// build buffers for; let the engine report it.
			op, ok := kernel.DefaultRegistry().Lookup(args[0])
			if ok && lane.ValidWidth(width) {
				inv.Inputs, inv.Lanes, err = buildInputs(op, elem.elem, width, raw)
				if err != nil {
					return err
				}
			}

			eng := a.engine()
			defer eng.Close()
			res, err := eng.Evaluate(cmd.Context(), inv)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, op.KernelName(elem.elem, width))
			printBuffer(w, "result", res.Primary)
			for _, name := range op.AuxNames() {
				printBuffer(w, name, res.Aux[name])
			}
			return nil
		},
	}
	cmd.Flags().Var(&elem, "elem", "element type of the first input")
	cmd.Flags().IntVar(&width, "width", 1, "vector width, 1 to 4")
	cmd.Flags().StringArrayVar(&ins, "in", nil, "input as name=v1,v2,... (repeatable)")
	return cmd
}

// parseInputs splits name=v1,v2,... flags, keeping the values as text until
// the operand types are known.
func parseInputs(ins []string) (map[string][]string, error) {
	out := make(map[string][]string, len(ins))
	for _, in := range ins {
		name, vals, ok := strings.Cut(in, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("--in %q: want name=v1,v2,...", in)
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("--in %q: input given twice", name)
		}
		out[name] = lo.Map(strings.Split(vals, ","), func(s string, _ int) string { return strings.TrimSpace(s) })
	}
	return out, nil
}

// buildInputs converts the raw values of each input into a buffer of the
// operand's element type. Undeclared inputs take elem so the engine can
// report them. The lane count is that of the first declared input given.
func buildInputs(op *kernel.Op, elem lane.ElemType, width int, raw map[string][]string) (map[string]*lane.Buffer, int, error) {
	types := make(map[string]lane.ElemType, len(op.Inputs))
	for _, o := range op.Inputs {
		types[o.Name] = o.Type.Resolve(elem)
	}

	lanes := -1
	for _, o := range op.Inputs {
		if vals, ok := raw[o.Name]; ok {
			lanes = len(vals) / width
			break
		}
	}
	lanes = max(lanes, 0)

	names := lo.Keys(raw)
	slices.Sort(names)
	bufs := make(map[string]*lane.Buffer, len(raw))
	for _, name := range names {
		vals := raw[name]
		t, ok := types[name]
		if !ok {
			t = elem
		}
		if len(vals)%width != 0 {
			return nil, 0, fmt.Errorf("--in %s: %d values is not a whole number of width-%d lanes", name, len(vals), width)
		}
		b := lane.Alloc(t, width, len(vals)/width)
		for j, s := range vals {
			idx := b.Index(j/width, j%width)
			if err := setValue(b, idx, s); err != nil {
				return nil, 0, fmt.Errorf("--in %s: %w", name, err)
			}
		}
		bufs[name] = b
	}
	return bufs, lanes, nil
}

// setValue parses s at the precision of the buffer's element type. Integers
// parse exactly; anything else goes through the float conversion policy.
func setValue(b *lane.Buffer, idx int, s string) error {
	switch e := b.Elem(); {
	case e.IsSigned():
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			b.SetInt(idx, v)
			return nil
		}
	case e.IsUnsigned():
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			b.SetUint(idx, v)
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	b.SetFloat(idx, v)
	return nil
}

// printBuffer writes one line per output, with lanes in parentheses.
func printBuffer(w io.Writer, name string, b *lane.Buffer) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %v:", name, b)
	for i := 0; i < b.Lanes(); i++ {
		vals := make([]string, b.Width())
		for k := range vals {
			vals[k] = formatValue(b, b.Index(i, k))
		}
		sb.WriteString(" (" + strings.Join(vals, ", ") + ")")
	}
	fmt.Fprintln(w, sb.String())
}

func formatValue(b *lane.Buffer, idx int) string {
	switch e := b.Elem(); {
	case e.IsSigned():
		return strconv.FormatInt(b.Int(idx), 10)
	case e.IsUnsigned():
		return strconv.FormatUint(b.Uint(idx), 10)
	case e == lane.Float64:
		return strconv.FormatFloat(b.Float(idx), 'g', -1, 64)
	default:
		return strconv.FormatFloat(b.Float(idx), 'g', -1, 32)
	}
}
