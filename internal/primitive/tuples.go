package primitive

import (
	"fmt"

	"github.com/kaalam/arcsynth/internal/value"
)

// registerTuples wires the int_pair/NESW/vector packing and unpacking
// opcodes: the small glue family that lets programs build and read the
// compound argument types the morphology and analysis primitives expect.
func registerTuples(r *Registry) {
	r.Register(Descriptor{
		Name:     "2int_as_intp",
		ArgTypes: []ArgKind{ArgInteger, ArgInteger},
		RetType:  value.KindIntPair,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			b := args[0].(value.Integer).N
			a := args[1].(value.Integer).N
			return value.NewIntPair(a, b), nil
		},
	})

	r.Register(Descriptor{
		Name:     "intp_as_2int",
		ArgTypes: []ArgKind{ArgIntPair},
		RetType:  value.KindVector,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			p := args[0].(value.IntPair)
			return value.NewVector([]int{p.A, p.B}), nil
		},
	})

	r.Register(Descriptor{
		Name:     "4int_as_nesw",
		ArgTypes: []ArgKind{ArgInteger, ArgInteger, ArgInteger, ArgInteger},
		RetType:  value.KindNESW,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			w := args[0].(value.Integer).N
			s := args[1].(value.Integer).N
			e := args[2].(value.Integer).N
			n := args[3].(value.Integer).N
			return value.NewNESW(n, e, s, w), nil
		},
	})

	r.Register(Descriptor{
		Name:     "vec_as_int",
		ArgTypes: []ArgKind{ArgVector},
		RetType:  value.KindInteger,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			v := args[0].(value.Vector)
			if len(v.Items) != 1 {
				return value.NewError("vector does not hold exactly one element"), nil
			}
			return value.NewInteger(v.Items[0]), nil
		},
	})

	r.Register(Descriptor{
		Name:     "vec_length_as_int",
		ArgTypes: []ArgKind{ArgVector},
		RetType:  value.KindInteger,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			v := args[0].(value.Vector)
			return value.NewInteger(len(v.Items)), nil
		},
	})

	r.Register(Descriptor{
		Name:     "vec_row_as_pic",
		ArgTypes: []ArgKind{ArgVector},
		RetType:  value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			v := args[0].(value.Vector)
			return value.NewGrid([][]int{v.Items}), nil
		},
	})

	// vec_recolor_each recolors a picture row-major, cyclically assigning
	// the i-th distinct color it encounters (in scan order) to vec[i %
	// len(vec)], so repeated colors beyond len(vec) wrap back to the start
	// of the palette rather than failing.
	r.Register(Descriptor{
		Name:     "pic_vec_recolor_each",
		ArgTypes: []ArgKind{ArgVector, ArgGrid},
		RetType:  value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			vec := args[0].(value.Vector)
			pic := args[1].(value.Grid)
			if len(vec.Items) == 0 {
				return value.NewError("empty recolor vector"), nil
			}
			assigned := map[int]int{}
			order := []int{}
			out := make([][]int, pic.Height())
			for r, row := range pic.Cells {
				outRow := make([]int, len(row))
				for c, col := range row {
					idx, ok := assigned[col]
					if !ok {
						idx = len(order)
						assigned[col] = idx
						order = append(order, col)
					}
					outRow[c] = vec.Items[idx%len(vec.Items)]
				}
				out[r] = outRow
			}
			return value.NewGrid(out), nil
		},
	})

	r.Register(Descriptor{
		Name:     "pic_all_colors_as_vec",
		ArgTypes: []ArgKind{ArgGrid},
		RetType:  value.KindVector,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			g := args[0].(value.Grid)
			return value.NewVector(distinctColors(g)), nil
		},
	})

	r.Register(Descriptor{
		Name:     "pic_intp_swap_colors",
		ArgTypes: []ArgKind{ArgIntPair, ArgGrid},
		RetType:  value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			p := args[0].(value.IntPair)
			g := args[1].(value.Grid)
			const sentinel = 99
			out := make([][]int, g.Height())
			for r, row := range g.Cells {
				outRow := make([]int, len(row))
				for c, col := range row {
					switch col {
					case p.A:
						outRow[c] = sentinel
					case p.B:
						outRow[c] = p.A
					default:
						outRow[c] = col
					}
				}
				out[r] = outRow
			}
			for r, row := range out {
				for c, col := range row {
					if col == sentinel {
						out[r][c] = p.B
					}
				}
			}
			return value.NewGrid(out), nil
		},
	})

	r.Register(Descriptor{
		Name:     "pic_intp_recolor",
		ArgTypes: []ArgKind{ArgIntPair, ArgGrid},
		RetType:  value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			p := args[0].(value.IntPair)
			g := args[1].(value.Grid)
			out := make([][]int, g.Height())
			for r, row := range g.Cells {
				outRow := make([]int, len(row))
				for c, col := range row {
					if col == p.A {
						outRow[c] = p.B
					} else {
						outRow[c] = col
					}
				}
				out[r] = outRow
			}
			return value.NewGrid(out), nil
		},
	})

	r.Register(Descriptor{
		Name:     "pic_intp_select_columns",
		ArgTypes: []ArgKind{ArgIntPair, ArgGrid},
		RetType:  value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			p := args[0].(value.IntPair)
			g := args[1].(value.Grid)
			if p.A < 0 || p.B > g.Width() || p.A >= p.B {
				return value.NewError(fmt.Sprintf("column range (%d, %d) out of bounds", p.A, p.B)), nil
			}
			return cropGrid(g, 0, g.Height(), p.A, p.B), nil
		},
	})

	r.Register(Descriptor{
		Name:     "pic_2intp_crop",
		ArgTypes: []ArgKind{ArgIntPair, ArgIntPair, ArgGrid},
		RetType:  value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			topLeft := args[0].(value.IntPair)
			bottomRight := args[1].(value.IntPair)
			g := args[2].(value.Grid)
			if topLeft.A < 0 || topLeft.B < 0 || bottomRight.A > g.Height() || bottomRight.B > g.Width() ||
				topLeft.A >= bottomRight.A || topLeft.B >= bottomRight.B {
				return value.NewError("crop bounds out of range"), nil
			}
			return cropGrid(g, topLeft.A, bottomRight.A, topLeft.B, bottomRight.B), nil
		},
	})
}
