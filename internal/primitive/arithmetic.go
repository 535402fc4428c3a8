package primitive

import (
	"github.com/kaalam/arcsynth/internal/value"
)

// registerArithmetic wires the two-picture combination family: masking,
// concatenation, element-wise maximum/multiply, recoloring by overlay, and
// tiling.
func registerArithmetic(r *Registry) {
	r.Register(Descriptor{
		Name:     "2pic_and_masks_to_1",
		ArgTypes: []ArgKind{ArgGrid, ArgGrid},
		RetType:  value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			return combineMasks(args[1].(value.Grid), args[0].(value.Grid), func(a, b bool) bool { return a && b })
		},
	})

	r.Register(Descriptor{
		Name:     "2pic_xor_masks_to_1",
		ArgTypes: []ArgKind{ArgGrid, ArgGrid},
		RetType:  value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			return combineMasks(args[1].(value.Grid), args[0].(value.Grid), func(a, b bool) bool { return a != b })
		},
	})

	r.Register(Descriptor{
		Name:     "2pic_maximum",
		ArgTypes: []ArgKind{ArgGrid, ArgGrid},
		RetType:  value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			a, b := args[1].(value.Grid), args[0].(value.Grid)
			if !value.SameShape(a, b) {
				return value.NewError("2pic_maximum requires equal shapes"), nil
			}
			out := make([][]int, a.Height())
			for r := range a.Cells {
				row := make([]int, a.Width())
				for c := range a.Cells[r] {
					if a.Cells[r][c] > b.Cells[r][c] {
						row[c] = a.Cells[r][c]
					} else {
						row[c] = b.Cells[r][c]
					}
				}
				out[r] = row
			}
			return value.NewGrid(out), nil
		},
	})

	r.Register(Descriptor{
		Name:     "2pic_multiply",
		ArgTypes: []ArgKind{ArgGrid, ArgGrid},
		RetType:  value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			a, b := args[1].(value.Grid), args[0].(value.Grid)
			if !value.SameShape(a, b) {
				return value.NewError("2pic_multiply requires equal shapes"), nil
			}
			out := make([][]int, a.Height())
			for r := range a.Cells {
				row := make([]int, a.Width())
				for c := range a.Cells[r] {
					row[c] = a.Cells[r][c] * b.Cells[r][c]
				}
				out[r] = row
			}
			return value.NewGrid(out), nil
		},
	})

	r.Register(Descriptor{
		Name:     "2pic_cbind",
		ArgTypes: []ArgKind{ArgGrid, ArgGrid},
		RetType:  value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			left, right := args[1].(value.Grid), args[0].(value.Grid)
			if left.Height() != right.Height() {
				return value.NewError("2pic_cbind requires equal height"), nil
			}
			out := make([][]int, left.Height())
			for r := range left.Cells {
				out[r] = append(append([]int(nil), left.Cells[r]...), right.Cells[r]...)
			}
			return value.NewGrid(out), nil
		},
	})

	r.Register(Descriptor{
		Name:     "2pic_rbind",
		ArgTypes: []ArgKind{ArgGrid, ArgGrid},
		RetType:  value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			top, bottom := args[1].(value.Grid), args[0].(value.Grid)
			if top.Width() != bottom.Width() {
				return value.NewError("2pic_rbind requires equal width"), nil
			}
			out := make([][]int, 0, top.Height()+bottom.Height())
			out = append(out, top.Cells...)
			out = append(out, bottom.Cells...)
			return value.NewGrid(out), nil
		},
	})

	// 2pic_recolor_any_rtl overlays `over` onto `base`, tiling `over` from
	// the right edge leftward when it is narrower than `base`; any
	// non-background (non-zero) cell of the (possibly tiled) overlay wins.
	r.Register(Descriptor{
		Name:     "2pic_recolor_any_rtl",
		ArgTypes: []ArgKind{ArgGrid, ArgGrid},
		RetType:  value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			over := args[1].(value.Grid)
			base := args[0].(value.Grid)
			if over.Height() != base.Height() {
				return value.NewError("2pic_recolor_any_rtl requires equal height"), nil
			}
			out := make([][]int, base.Height())
			for r := range base.Cells {
				row := append([]int(nil), base.Cells[r]...)
				w := over.Width()
				for c := 0; c < len(row); c++ {
					// Map destination column c, counting from the right
					// edge, onto the overlay's own column space, wrapping.
					fromRight := len(row) - 1 - c
					oc := w - 1 - (fromRight % w)
					if over.Cells[r][oc] != 0 {
						row[c] = over.Cells[r][oc]
					}
				}
				out[r] = row
			}
			return value.NewGrid(out), nil
		},
	})

	r.Register(Descriptor{
		Name:     "2pic_tile_all",
		ArgTypes: []ArgKind{ArgGrid, ArgGrid},
		RetType:  value.KindGridTuple,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			layout := args[1].(value.Grid)
			brick := args[0].(value.Grid)
			return pictureMultiply(layout, brick), nil
		},
	})

	r.Register(Descriptor{
		Name:     "pics_pic_multiply_as_pic",
		ArgTypes: []ArgKind{ArgGridTuple, ArgGrid},
		RetType:  value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			tuple := args[0].(value.GridTuple)
			layout := args[1].(value.Grid)
			if len(tuple.Grids) != 1 {
				return value.NewError("pics_pic_multiply_as_pic expects a single-grid tuple"), nil
			}
			return pictureMultiply(layout, tuple.Grids[0]).(value.GridTuple).Grids[0], nil
		},
	})
}

func combineMasks(a, b value.Grid, op func(bool, bool) bool) (value.Value, error) {
	if !value.SameShape(a, b) {
		return value.NewError("mask combination requires equal shapes"), nil
	}
	out := make([][]int, a.Height())
	for r := range a.Cells {
		row := make([]int, a.Width())
		for c := range a.Cells[r] {
			if op(a.Cells[r][c] != 0, b.Cells[r][c] != 0) {
				row[c] = 1
			}
		}
		out[r] = row
	}
	return value.NewGrid(out), nil
}

// pictureMultiply tiles brick once per cell of layout, ignoring layout's own
// pixel values (only its shape matters), and returns the single combined
// grid wrapped in a one-element GridTuple the way 2pic_tile_all's caller
// expects.
func pictureMultiply(layout, brick value.Grid) value.Value {
	lh, lw := layout.Height(), layout.Width()
	bh, bw := brick.Height(), brick.Width()
	out := fillGrid(lh*bh, lw*bw, 0)
	for br := 0; br < lh; br++ {
		for bc := 0; bc < lw; bc++ {
			for r := 0; r < bh; r++ {
				for c := 0; c < bw; c++ {
					out.Cells[br*bh+r][bc*bw+c] = brick.Cells[r][c]
				}
			}
		}
	}
	return value.NewGridTuple([]value.Grid{out})
}
