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

package kernel

import (
	"github.com/ajroetker/go-lanemath/lane"
	"github.com/ajroetker/go-lanemath/lane/contrib/math"
)

var signedElems = []lane.ElemType{lane.Int8, lane.Int16, lane.Int32, lane.Int64}

func init() {
	defaultRegistry.MustRegister(absOp())
	for _, dst := range lane.AllElemTypes() {
		defaultRegistry.MustRegister(convertOp(dst))
	}
}

// absOp returns the magnitude of a signed integer as the unsigned type of
// the same width. The most negative value maps to 2^(bits-1).
func absOp() *Op {
	return &Op{
		Name:        "abs",
		Doc:         "integer magnitude as the same-width unsigned type",
		Inputs:      []Operand{{Name: "v", Type: SameElem}},
		Output:      UnsignedOf,
		Elems:       signedElems,
		NoReference: true,
		Kernel: func(_ lane.ElemType, in, out []*lane.Buffer, i int) {
			out[0].SetUint(i, math.AbsInt(in[0].Int(i)))
		},
	}
}

// convertOp converts any element type to dst. The store applies the
// conversion policy: floats truncate and saturate into integers, integers
// round into floats and wrap into other integers.
func convertOp(dst lane.ElemType) *Op {
	return &Op{
		Name:        convertPrefix + dst.String(),
		Doc:         "convert to " + dst.String(),
		Inputs:      []Operand{{Name: "v", Type: SameElem}},
		Output:      Fixed(dst),
		Elems:       lane.AllElemTypes(),
		NoReference: true,
		Kernel: func(src lane.ElemType, in, out []*lane.Buffer, i int) {
			switch {
			case src.IsFloat():
				out[0].SetFloat(i, in[0].Float(i))
			case src.IsSigned():
				out[0].SetInt(i, in[0].Int(i))
			default:
				out[0].SetUint(i, in[0].Uint(i))
			}
		},
	}
}
