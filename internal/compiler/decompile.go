package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kaalam/arcsynth/internal/value"
	"github.com/kaalam/arcsynth/internal/vm"
)

// Decompile inverts Compile. In non-pretty mode it emits exactly the
// statements Compile would accept back (so compile(decompile(P, false)) ==
// P for any compile-clean P). In pretty mode it emits a human-readable,
// left-aligned, annotated listing: one statement per line, every line
// numbered by position and tagged with its literal's kind or "call".
func Decompile(code vm.Code, pretty bool) string {
	if pretty {
		return decompilePretty(code)
	}
	return decompilePlain(code)
}

func decompilePlain(code vm.Code) string {
	var b strings.Builder
	for _, block := range code {
		b.WriteString(statementOf(block))
		b.WriteByte('\n')
	}
	return b.String()
}

func decompilePretty(code vm.Code) string {
	width := 0
	stmts := make([]string, len(code))
	for i, block := range code {
		stmts[i] = statementOf(block)
		if len(stmts[i]) > width {
			width = len(stmts[i])
		}
	}

	var b strings.Builder
	for i, stmt := range stmts {
		b.WriteString(fmt.Sprintf("%-*s  # %d: %s\n", width, stmt, i, annotationOf(code[i])))
	}
	return b.String()
}

func statementOf(block vm.Block) string {
	if block.IsLiteral() {
		return literalStatement(block.Literal)
	}
	return block.Opcode
}

func literalStatement(v value.Value) string {
	switch t := v.(type) {
	case value.Integer:
		return fmt.Sprintf("(%d,)", t.N)
	case value.IntPair:
		return fmt.Sprintf("(%d, %d)", t.A, t.B)
	case value.NESW:
		return fmt.Sprintf("(%d, %d, %d, %d)", t.N, t.E, t.S, t.W)
	case value.Vector:
		return "[" + joinInts(t.Items) + "]"
	case value.Grid:
		rows := make([]string, len(t.Cells))
		for i, row := range t.Cells {
			rows[i] = "[" + joinInts(row) + "]"
		}
		return "[" + strings.Join(rows, ", ") + "]"
	default:
		return v.String()
	}
}

func joinInts(items []int) string {
	parts := make([]string, len(items))
	for i, n := range items {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

func annotationOf(block vm.Block) string {
	if block.IsLiteral() {
		return block.Literal.Kind().String()
	}
	return "call"
}

// GridLiteral renders g the way a compile-clean grid statement or a
// code-base sample grid line looks, e.g. "[[1, 2], [3, 4]]". It is exported
// for internal/codebase, which writes exactly this literal form for each
// snippet's sample grid.
func GridLiteral(g value.Grid) string {
	return literalStatement(g)
}

// ParseGridLiteral parses the inverse of GridLiteral, exported for
// internal/codebase's reader.
func ParseGridLiteral(text string) (value.Grid, error) {
	return parseGrid(strings.TrimSpace(text))
}
