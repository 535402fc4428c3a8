// Package value implements the tagged-union Value type that flows across
// the stack executor: integers, coordinate pairs, direction tuples,
// vectors, grids, masked grids (patterns), grid tuples, functions and the
// two sentinel kinds (error, no-error).
//
// Go has no closed sum type, so the variant set is expressed the idiomatic
// way: an unexported marker method on a Value interface, implemented by one
// struct per kind. Kind() gives callers the same one-of-ten classification
// the original Block.type_* constants gave.
package value

import "fmt"

// Kind identifies which of the ten Value variants a Value holds.
type Kind int

const (
	KindInteger Kind = iota
	KindIntPair
	KindNESW
	KindVector
	KindGrid
	KindMaskedGrid
	KindGridTuple
	KindFunction
	KindError
	KindNoError
)

// String renders a Kind the way diagnostics and decompile output name it.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindIntPair:
		return "int_pair"
	case KindNESW:
		return "nesw"
	case KindVector:
		return "vector"
	case KindGrid:
		return "grid"
	case KindMaskedGrid:
		return "masked_grid"
	case KindGridTuple:
		return "grid_tuple"
	case KindFunction:
		return "function"
	case KindError:
		return "error"
	case KindNoError:
		return "no_error"
	default:
		return "unknown"
	}
}

// Value is implemented by every variant of the tagged union. isValue is
// unexported so no type outside this package can satisfy Value, keeping the
// union closed the way a sealed/sum type would be in a language that has
// one natively.
type Value interface {
	Kind() Kind
	isValue()
	// Clone returns a deep copy, used by the multicore executor's two-level
	// state copy before it branches a walk.
	Clone() Value
	// String renders the value the way decompile's non-pretty mode would.
	String() string
}

// Integer is a signed scalar, used for colors, counts, and indices.
type Integer struct{ N int }

func NewInteger(n int) Integer { return Integer{N: n} }

func (Integer) Kind() Kind       { return KindInteger }
func (Integer) isValue()         {}
func (v Integer) Clone() Value   { return v }
func (v Integer) String() string { return fmt.Sprintf("(%d,)", v.N) }

// IntPair is a (row, col) or (height, width) pair, depending on context.
type IntPair struct{ A, B int }

func NewIntPair(a, b int) IntPair { return IntPair{A: a, B: b} }

func (IntPair) Kind() Kind       { return KindIntPair }
func (IntPair) isValue()         {}
func (v IntPair) Clone() Value   { return v }
func (v IntPair) String() string { return fmt.Sprintf("(%d, %d)", v.A, v.B) }

// NESW is a 4-tuple of north/east/south/west magnitudes, used by the nesw
// morphology primitives (extend, gravity, drag).
type NESW struct{ N, E, S, W int }

func NewNESW(n, e, s, w int) NESW { return NESW{N: n, E: e, S: s, W: w} }

func (NESW) Kind() Kind       { return KindNESW }
func (NESW) isValue()         {}
func (v NESW) Clone() Value   { return v }
func (v NESW) String() string { return fmt.Sprintf("(%d, %d, %d, %d)", v.N, v.E, v.S, v.W) }

// Vector is a flat list of ints, used for color palettes and row/column
// extraction.
type Vector struct{ Items []int }

func NewVector(items []int) Vector {
	cp := make([]int, len(items))
	copy(cp, items)
	return Vector{Items: cp}
}

func (Vector) Kind() Kind { return KindVector }
func (Vector) isValue()   {}
func (v Vector) Clone() Value {
	return NewVector(v.Items)
}
func (v Vector) String() string { return fmt.Sprintf("%v", v.Items) }

// Grid is a rectangular array of colors (0-9 in the ARC convention, but no
// range is enforced here). Rows may be empty only if Cells itself is empty.
type Grid struct{ Cells [][]int }

// NewGrid builds a Grid from a row-major literal, deep-copying every row.
func NewGrid(rows [][]int) Grid {
	cells := make([][]int, len(rows))
	for i, row := range rows {
		cells[i] = append([]int(nil), row...)
	}
	return Grid{Cells: cells}
}

func (Grid) Kind() Kind { return KindGrid }
func (Grid) isValue()   {}
func (v Grid) Clone() Value {
	return NewGrid(v.Cells)
}
func (v Grid) String() string { return fmt.Sprintf("%v", v.Cells) }

// Height returns the number of rows.
func (v Grid) Height() int { return len(v.Cells) }

// Width returns the number of columns of the first row, 0 for an empty grid.
func (v Grid) Width() int {
	if len(v.Cells) == 0 {
		return 0
	}
	return len(v.Cells[0])
}

// MaskedGrid is a "pattern": a grid paired with a boolean mask of the same
// shape, marking which cells participate versus which are background.
type MaskedGrid struct {
	Grid Grid
	Mask [][]bool
}

// NewPattern builds a MaskedGrid, deep-copying both grid and mask.
func NewPattern(grid Grid, mask [][]bool) MaskedGrid {
	m := make([][]bool, len(mask))
	for i, row := range mask {
		m[i] = append([]bool(nil), row...)
	}
	return MaskedGrid{Grid: grid.Clone().(Grid), Mask: m}
}

func (MaskedGrid) Kind() Kind { return KindMaskedGrid }
func (MaskedGrid) isValue()   {}
func (v MaskedGrid) Clone() Value {
	return NewPattern(v.Grid, v.Mask)
}
func (v MaskedGrid) String() string {
	return fmt.Sprintf("pattern(%v, %v)", v.Grid.Cells, v.Mask)
}

// GridTuple holds an ordered collection of grids, produced by the fork_*
// family of primitives that split one picture into several.
type GridTuple struct{ Grids []Grid }

// NewGridTuple builds a GridTuple, deep-copying each member grid.
func NewGridTuple(grids []Grid) GridTuple {
	gs := make([]Grid, len(grids))
	for i, g := range grids {
		gs[i] = g.Clone().(Grid)
	}
	return GridTuple{Grids: gs}
}

func (GridTuple) Kind() Kind { return KindGridTuple }
func (GridTuple) isValue()   {}
func (v GridTuple) Clone() Value {
	return NewGridTuple(v.Grids)
}
func (v GridTuple) String() string { return fmt.Sprintf("grid_tuple(%d)", len(v.Grids)) }

// Function identifies an opcode by name. It appears on the stack only
// transiently during compile/decompile; the VM itself never pushes one.
type Function struct{ Name string }

func NewFunction(name string) Function { return Function{Name: name} }

func (Function) Kind() Kind       { return KindFunction }
func (Function) isValue()         {}
func (v Function) Clone() Value   { return v }
func (v Function) String() string { return v.Name }

// Err is the "halt and catch fire" sentinel: once one is produced, the VM
// stops executing further blocks in the running program.
type Err struct{ Message string }

func NewError(message string) Err { return Err{Message: message} }

func (Err) Kind() Kind       { return KindError }
func (Err) isValue()         {}
func (v Err) Clone() Value   { return v }
func (v Err) String() string { return fmt.Sprintf("error(%s)", v.Message) }

// NoError is the success sentinel: the VM's Ret after an opcode that pushes
// nothing, and tests_verify_answer's result on a match.
type NoError struct{}

func (NoError) Kind() Kind       { return KindNoError }
func (NoError) isValue()         {}
func (v NoError) Clone() Value   { return v }
func (v NoError) String() string { return "no_error" }

// Ok is the shared NoError instance.
var Ok = NoError{}

// Equal reports whether two values hold the same kind and payload. Grid and
// pattern comparisons are by cell content, not identity, since program
// verification compares a produced grid against an expected answer grid.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Integer:
		return av.N == b.(Integer).N
	case IntPair:
		bv := b.(IntPair)
		return av.A == bv.A && av.B == bv.B
	case NESW:
		bv := b.(NESW)
		return av == bv
	case Vector:
		bv := b.(Vector)
		if len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if av.Items[i] != bv.Items[i] {
				return false
			}
		}
		return true
	case Grid:
		return gridsEqual(av, b.(Grid))
	case MaskedGrid:
		bv := b.(MaskedGrid)
		if !gridsEqual(av.Grid, bv.Grid) {
			return false
		}
		return masksEqual(av.Mask, bv.Mask)
	case GridTuple:
		bv := b.(GridTuple)
		if len(av.Grids) != len(bv.Grids) {
			return false
		}
		for i := range av.Grids {
			if !gridsEqual(av.Grids[i], bv.Grids[i]) {
				return false
			}
		}
		return true
	case Function:
		return av.Name == b.(Function).Name
	case Err:
		return av.Message == b.(Err).Message
	case NoError:
		return true
	default:
		return false
	}
}

func gridsEqual(a, b Grid) bool {
	if len(a.Cells) != len(b.Cells) {
		return false
	}
	for i := range a.Cells {
		if len(a.Cells[i]) != len(b.Cells[i]) {
			return false
		}
		for j := range a.Cells[i] {
			if a.Cells[i][j] != b.Cells[i][j] {
				return false
			}
		}
	}
	return true
}

func masksEqual(a, b [][]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// SameShape reports whether two grids have identical height and width.
func SameShape(a, b Grid) bool {
	return a.Height() == b.Height() && a.Width() == b.Width()
}
