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
	"errors"
	"fmt"
)

// ErrorKind classifies configuration errors.
type ErrorKind int

const (
	// KindUnknownOp means the operation name is not registered.
	KindUnknownOp ErrorKind = iota
	// KindInvalidWidth means the vector width is outside 1..4.
	KindInvalidWidth
	// KindUnsupportedType means the operation has no kernel for the element type.
	KindUnsupportedType
	// KindInvalidLaneCount means a negative lane count.
	KindInvalidLaneCount
	// KindMissingInput means a declared operand has no buffer.
	KindMissingInput
	// KindTypeMismatch means an operand buffer has the wrong element type.
	KindTypeMismatch
	// KindWidthMismatch means an operand buffer has the wrong vector width.
	KindWidthMismatch
	// KindLengthMismatch means an operand buffer has the wrong lane count.
	KindLengthMismatch
	// KindUnexpectedInput means a buffer was supplied for no declared operand.
	KindUnexpectedInput
)

// Sentinel errors, one per ErrorKind. A *ConfigError unwraps to the
// sentinel of its kind, so callers can test with errors.Is.
var (
	ErrUnknownOp        = errors.New("unknown operation")
	ErrInvalidWidth     = errors.New("invalid vector width")
	ErrUnsupportedType  = errors.New("unsupported element type")
	ErrInvalidLaneCount = errors.New("invalid lane count")
	ErrMissingInput     = errors.New("missing input")
	ErrTypeMismatch     = errors.New("element type mismatch")
	ErrWidthMismatch    = errors.New("vector width mismatch")
	ErrLengthMismatch   = errors.New("lane count mismatch")
	ErrUnexpectedInput  = errors.New("unexpected input")
)

var kindSentinels = [...]error{
	KindUnknownOp:        ErrUnknownOp,
	KindInvalidWidth:     ErrInvalidWidth,
	KindUnsupportedType:  ErrUnsupportedType,
	KindInvalidLaneCount: ErrInvalidLaneCount,
	KindMissingInput:     ErrMissingInput,
	KindTypeMismatch:     ErrTypeMismatch,
	KindWidthMismatch:    ErrWidthMismatch,
	KindLengthMismatch:   ErrLengthMismatch,
	KindUnexpectedInput:  ErrUnexpectedInput,
}

// String returns the sentinel message of the kind.
func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(kindSentinels) {
		return kindSentinels[k].Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ConfigError reports an invocation that cannot run: a shape, arity, length
// or type mismatch, or an unknown operation. It is always returned before
// any lane is evaluated.
type ConfigError struct {
	Kind    ErrorKind
	Op      string // operation name as requested
	Operand string // offending operand, if any
	Reason  string // human-readable detail
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := "kernel: " + e.Op
	if e.Operand != "" {
		msg += fmt.Sprintf(": operand %q", e.Operand)
	}
	msg += ": " + e.Kind.String()
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Unwrap returns the sentinel error for e.Kind.
func (e *ConfigError) Unwrap() error {
	if e.Kind >= 0 && int(e.Kind) < len(kindSentinels) {
		return kindSentinels[e.Kind]
	}
	return nil
}

func configErr(kind ErrorKind, op, operand, format string, args ...any) *ConfigError {
	return &ConfigError{
		Kind:    kind,
		Op:      op,
		Operand: operand,
		Reason:  fmt.Sprintf(format, args...),
	}
}
