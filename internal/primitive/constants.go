package primitive

import (
	"github.com/kaalam/arcsynth/internal/value"
)

// registerConstants wires the trivial shape-introspection and
// constant-construction opcodes. The three shape queries
// (pic_height_as_int, pic_width_as_int, pic_is_square_as_bool) are the
// feature supplement pulled from original_source/Function.py: the
// distilled spec's prose omits them, but several mined corpus programs use
// them as sub-expressions, so they are added here as ordinary pure
// primitives rather than left out.
func registerConstants(r *Registry) {
	r.Register(Descriptor{
		Name: "pic_height_as_int", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindInteger,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			return value.NewInteger(args[0].(value.Grid).Height()), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_width_as_int", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindInteger,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			return value.NewInteger(args[0].(value.Grid).Width()), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_is_square_as_bool", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindInteger,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			g := args[0].(value.Grid)
			if g.Height() == g.Width() {
				return value.NewInteger(1), nil
			}
			return value.NewInteger(0), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_base_height_as_int", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindInteger,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			g := args[0].(value.Grid)
			bg := mostFrequentColor(g)
			rows := 0
			for r := g.Height() - 1; r >= 0; r-- {
				allBg := true
				for _, v := range g.Cells[r] {
					if v != bg {
						allBg = false
						break
					}
				}
				if !allBg {
					break
				}
				rows++
			}
			return value.NewInteger(g.Height() - rows), nil
		},
	})

	r.Register(Descriptor{
		Name: "int_black_box_as_pic", ArgTypes: []ArgKind{ArgInteger}, RetType: value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			n := args[0].(value.Integer).N
			if n < 1 {
				return value.NewError("int_black_box_as_pic requires a positive size"), nil
			}
			return fillGrid(n, n, 0), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_int_filter_color", ArgTypes: []ArgKind{ArgInteger, ArgGrid}, RetType: value.KindMaskedGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			color := args[0].(value.Integer).N
			g := args[1].(value.Grid)
			mask := make([][]bool, g.Height())
			for r, row := range g.Cells {
				m := make([]bool, len(row))
				for c, v := range row {
					m[c] = v == color
				}
				mask[r] = m
			}
			return value.NewPattern(g, mask), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_int_recolor_all", ArgTypes: []ArgKind{ArgInteger, ArgGrid}, RetType: value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			color := args[0].(value.Integer).N
			g := args[1].(value.Grid)
			out := make([][]int, g.Height())
			for r, row := range g.Cells {
				outRow := make([]int, len(row))
				for c, v := range row {
					if v != 0 {
						outRow[c] = color
					}
				}
				out[r] = outRow
			}
			return value.NewGrid(out), nil
		},
	})
}
