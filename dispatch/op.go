// SPDX-License-Identifier: MIT

package dispatch

import (
	"fmt"
	"strings"
)

// Op is a numeric operation identifier as carried in a request.
type Op uint8

// Operation ids. 0x10 and 0x12 match the historical wire ids for add and
// transpose; the rest continue the same block.
const (
	OpAdd       Op = 0x10
	OpMul       Op = 0x11
	OpTranspose Op = 0x12
	OpSub       Op = 0x13
	OpScale     Op = 0x14
	OpMin       Op = 0x15
	OpMax       Op = 0x16
	OpSolve     Op = 0x17
	OpLU        Op = 0x18
	OpQR        Op = 0x19
)

var opNames = map[Op]string{
	OpAdd:       "add",
	OpMul:       "mul",
	OpTranspose: "transpose",
	OpSub:       "sub",
	OpScale:     "scale",
	OpMin:       "min",
	OpMax:       "max",
	OpSolve:     "solve",
	OpLU:        "lu",
	OpQR:        "qr",
}

// String returns the lower-case operation name, or "op(0xNN)" when unknown.
func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}

	return fmt.Sprintf("op(0x%02x)", uint8(o))
}

// Known reports whether o names a supported operation.
func (o Op) Known() bool {
	_, ok := opNames[o]
	return ok
}

// ParseOp maps an operation name (case-insensitive) to its id.
func ParseOp(name string) (Op, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for op, s := range opNames {
		if s == name {
			return op, nil
		}
	}

	return 0, fmt.Errorf("dispatch: %q: %w", name, ErrUnknownOp)
}
