// Package compiler implements the bidirectional translation between the
// textual source form of a program (one statement per line) and a typed
// vm.Code sequence of literal pushes and opcode calls.
//
// The grammar is small and has no operator precedence or nesting beyond
// what a single literal needs, so it is parsed line by line with a couple
// of regexes rather than a token-stream lexer:
//
//	"(i,)"         -> integer constant
//	"(i,j)"        -> int_pair
//	"(i,j,k,l)"    -> NESW
//	"[[..],[..]]"  -> grid constant
//	"[...]"        -> vector (single bracket, not a grid)
//	anything else  -> primitive name lookup
package compiler

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	domainerrors "github.com/kaalam/arcsynth/internal/domain/errors"
	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/value"
	"github.com/kaalam/arcsynth/internal/vm"
)

var (
	tuplePattern = regexp.MustCompile(`^\(\s*(-?\d+\s*,\s*)*-?\d+\s*,?\s*\)$`)
	intPattern   = regexp.MustCompile(`-?\d+`)
	opcodeName   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Compile translates source, one statement per non-blank line, into a
// vm.Code. Compilation fails fast on the first malformed statement or
// unknown opcode name, returning a *domainerrors.CompileError identifying
// the offending line.
func Compile(registry *primitive.Registry, source string) (vm.Code, error) {
	lines := splitStatements(source)
	if len(lines) == 0 {
		return nil, domainerrors.NewCompileError("", "empty source", nil)
	}

	code := make(vm.Code, 0, len(lines))
	for _, line := range lines {
		block, err := compileStatement(registry, line)
		if err != nil {
			return nil, err
		}
		code = append(code, block)
	}
	return code, nil
}

// splitStatements trims each line and drops blank ones, matching the
// original's tolerance for blank separator lines between statements.
func splitStatements(source string) []string {
	var out []string
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func compileStatement(registry *primitive.Registry, stmt string) (vm.Block, error) {
	switch {
	case strings.HasPrefix(stmt, "[["):
		g, err := parseGrid(stmt)
		if err != nil {
			return vm.Block{}, domainerrors.NewCompileError(stmt, err.Error(), nil)
		}
		return vm.NewLiteral(g), nil

	case strings.HasPrefix(stmt, "["):
		vec, err := parseVector(stmt)
		if err != nil {
			return vm.Block{}, domainerrors.NewCompileError(stmt, err.Error(), nil)
		}
		return vm.NewLiteral(vec), nil

	case strings.HasPrefix(stmt, "("):
		lit, err := parseTuple(stmt)
		if err != nil {
			return vm.Block{}, domainerrors.NewCompileError(stmt, err.Error(), nil)
		}
		return vm.NewLiteral(lit), nil

	default:
		if !opcodeName.MatchString(stmt) {
			return vm.Block{}, domainerrors.NewCompileError(stmt, "malformed statement", nil)
		}
		if _, ok := registry.Lookup(stmt); !ok {
			return vm.Block{}, domainerrors.NewCompileError(stmt, "unknown opcode", nil)
		}
		return vm.NewCall(stmt), nil
	}
}

// parseTuple parses "(i,)", "(i,j)" or "(i,j,k,l)" into Integer, IntPair or
// NESW respectively, by the Block.py convention that arity alone (not a
// type tag) determines which variant a parenthesized literal becomes.
func parseTuple(stmt string) (value.Value, error) {
	if !tuplePattern.MatchString(stmt) {
		return nil, errMalformed("tuple")
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(stmt, "("), ")")
	fields := splitTrailingComma(inner)

	ints := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, errMalformed("tuple")
		}
		ints = append(ints, n)
	}

	switch len(ints) {
	case 1:
		return value.NewInteger(ints[0]), nil
	case 2:
		return value.NewIntPair(ints[0], ints[1]), nil
	case 4:
		return value.NewNESW(ints[0], ints[1], ints[2], ints[3]), nil
	default:
		return nil, errMalformed("tuple")
	}
}

// splitTrailingComma splits a comma-separated field list, tolerating (and
// dropping) a single trailing comma left by the "(i,)" single-integer form.
func splitTrailingComma(inner string) []string {
	inner = strings.TrimSpace(inner)
	inner = strings.TrimSuffix(inner, ",")
	if inner == "" {
		return nil
	}
	return strings.Split(inner, ",")
}

// parseVector parses "[i, j, k]" into a Vector. A leading "[[" is handled
// by parseGrid instead, so this is only reached for single-bracket lists.
func parseVector(stmt string) (value.Vector, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(stmt, "["), "]")
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return value.NewVector(nil), nil
	}
	fields := strings.Split(inner, ",")
	items := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return value.Vector{}, errMalformed("vector")
		}
		items = append(items, n)
	}
	return value.NewVector(items), nil
}

// parseGrid parses "[[1, 2], [3, 4]]" into a Grid, rejecting ragged rows.
func parseGrid(stmt string) (value.Grid, error) {
	body := strings.TrimSpace(stmt)
	if !strings.HasPrefix(body, "[[") || !strings.HasSuffix(body, "]]") {
		return value.Grid{}, errMalformed("grid")
	}
	rowTexts := splitRows(body)
	if len(rowTexts) == 0 {
		return value.Grid{}, errMalformed("grid")
	}

	rows := make([][]int, 0, len(rowTexts))
	width := -1
	for _, rowText := range rowTexts {
		matches := intPattern.FindAllString(rowText, -1)
		row := make([]int, 0, len(matches))
		for _, m := range matches {
			n, err := strconv.Atoi(m)
			if err != nil {
				return value.Grid{}, errMalformed("grid")
			}
			row = append(row, n)
		}
		if width == -1 {
			width = len(row)
		} else if len(row) != width {
			return value.Grid{}, errMalformed("grid (ragged row)")
		}
		rows = append(rows, row)
	}
	return value.NewGrid(rows), nil
}

// splitRows extracts each "[...]" inner row from a "[[...], [...]]" literal.
func splitRows(body string) []string {
	inner := strings.TrimSuffix(strings.TrimPrefix(body, "["), "]")
	var rows []string
	depth := 0
	start := -1
	for i, r := range inner {
		switch r {
		case '[':
			if depth == 0 {
				start = i
			}
			depth++
		case ']':
			depth--
			if depth == 0 && start >= 0 {
				rows = append(rows, inner[start:i+1])
				start = -1
			}
		}
	}
	return rows
}

func errMalformed(kind string) error {
	return errors.New("malformed " + kind + " literal")
}
