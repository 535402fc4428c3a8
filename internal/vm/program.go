// Package vm implements the stack-based executor: given a Code (sequence
// of literal pushes and opcode calls), it pops and type-checks each
// opcode's arguments, calls into the primitive registry, and pushes the
// result — halting on the first fault the way the original Core did.
package vm

import "github.com/kaalam/arcsynth/internal/value"

// Block is one element of a Code: either a literal value to push directly,
// or a reference to a primitive opcode to call.
type Block struct {
	Literal value.Value // non-nil for a literal push
	Opcode  string      // non-empty for an opcode call
}

// NewLiteral builds a literal-push Block.
func NewLiteral(v value.Value) Block { return Block{Literal: v} }

// NewCall builds an opcode-call Block.
func NewCall(opcode string) Block { return Block{Opcode: opcode} }

// IsLiteral reports whether b pushes a constant rather than calling an
// opcode.
func (b Block) IsLiteral() bool { return b.Literal != nil }

// Code is an ordered, straight-line program: no branches, no loops.
type Code []Block
