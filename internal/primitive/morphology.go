package primitive

import (
	"github.com/kaalam/arcsynth/internal/value"
)

// registerMorphology wires the shape-transforming family: mirrors,
// rotation, transpose, border extension/gravity/drag, zoom, and the
// handful of opcodes pinned to literal test fixtures because their
// directional semantics are easy to get subtly wrong (gravity and
// slide-rows-west in particular).
func registerMorphology(r *Registry) {
	r.Register(Descriptor{
		Name: "pat_flip_left_right", ArgTypes: []ArgKind{ArgMaskedGrid}, RetType: value.KindMaskedGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			p := args[0].(value.MaskedGrid)
			return value.NewPattern(flipLeftRight(p.Grid), flipMaskLR(p.Mask)), nil
		},
	})

	r.Register(Descriptor{
		Name: "pat_flip_up_down", ArgTypes: []ArgKind{ArgMaskedGrid}, RetType: value.KindMaskedGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			p := args[0].(value.MaskedGrid)
			return value.NewPattern(flipUpDown(p.Grid), flipMaskUD(p.Mask)), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_rotate_90ccw", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			return rotate90CCW(args[0].(value.Grid)), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_transpose", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			return transpose(args[0].(value.Grid)), nil
		},
	})

	// pic_nesw_extend grows the picture's border by the given amount in each
	// direction, padding with color 0. The original applies N,S before W,E
	// so a non-square extension pads top/bottom against the original
	// picture's width, then pads left/right against the now-taller result.
	r.Register(Descriptor{
		Name: "pic_nesw_extend", ArgTypes: []ArgKind{ArgNESW, ArgGrid}, RetType: value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			nesw := args[0].(value.NESW)
			g := args[1].(value.Grid)

			w := g.Width()
			withNS := make([][]int, 0, nesw.N+g.Height()+nesw.S)
			for i := 0; i < nesw.N; i++ {
				withNS = append(withNS, make([]int, w))
			}
			withNS = append(withNS, g.Cells...)
			for i := 0; i < nesw.S; i++ {
				withNS = append(withNS, make([]int, w))
			}

			out := make([][]int, len(withNS))
			for r, row := range withNS {
				newRow := make([]int, nesw.W+w+nesw.E)
				copy(newRow[nesw.W:], row)
				out[r] = newRow
			}
			return value.NewGrid(out), nil
		},
	})

	// pic_nesw_gravity slides every non-zero cell as far as possible in the
	// given direction, stacking against the edge (or against other cells
	// already at rest) the way stacked blocks fall under gravity. It is
	// pinned to literal examples in primitive_test.go per the open
	// question on directional semantics; the implementation below processes
	// each column/row independently, compacting non-zero cells toward the
	// named edge and leaving the rest as background.
	r.Register(Descriptor{
		Name: "pic_nesw_gravity", ArgTypes: []ArgKind{ArgNESW, ArgGrid}, RetType: value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			nesw := args[0].(value.NESW)
			g := args[1].(value.Grid)
			return gravity(nesw, g), nil
		},
	})

	// pat_nesw_drag_all applies four sequential gravity passes (N, E, S, W
	// in that order) to the pattern's grid; each pass whose magnitude is
	// non-zero compacts cells all the way to that edge, and the mask is
	// kept as it was.
	r.Register(Descriptor{
		Name: "pat_nesw_drag_all", ArgTypes: []ArgKind{ArgNESW, ArgMaskedGrid}, RetType: value.KindMaskedGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			nesw := args[0].(value.NESW)
			p := args[1].(value.MaskedGrid)
			g := p.Grid
			g = gravityStep(value.NewNESW(nesw.N, 0, 0, 0), g)
			g = gravityStep(value.NewNESW(0, nesw.E, 0, 0), g)
			g = gravityStep(value.NewNESW(0, 0, nesw.S, 0), g)
			g = gravityStep(value.NewNESW(0, 0, 0, nesw.W), g)
			return value.NewPattern(g, p.Mask), nil
		},
	})

	// pic_int_slide_rows_west shifts every row left by `amount` cells,
	// wrapping cells that fall off the left edge back onto the right —
	// the "staircase" shift flagged by the original spec's open question.
	r.Register(Descriptor{
		Name: "pic_int_slide_rows_west", ArgTypes: []ArgKind{ArgInteger, ArgGrid}, RetType: value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			amount := args[0].(value.Integer).N
			g := args[1].(value.Grid)
			w := g.Width()
			if w == 0 {
				return g, nil
			}
			shift := ((amount % w) + w) % w
			out := make([][]int, g.Height())
			for r, row := range g.Cells {
				newRow := make([]int, w)
				for c := 0; c < w; c++ {
					newRow[c] = row[(c+shift)%w]
				}
				out[r] = newRow
			}
			return value.NewGrid(out), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_int_zoom_in", ArgTypes: []ArgKind{ArgInteger, ArgGrid}, RetType: value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			factor := args[0].(value.Integer).N
			g := args[1].(value.Grid)
			if factor < 1 {
				return value.NewError("zoom factor must be positive"), nil
			}
			out := make([][]int, g.Height()*factor)
			for r := range out {
				row := make([]int, g.Width()*factor)
				srcR := r / factor
				for c := range row {
					row[c] = g.Cells[srcR][c/factor]
				}
				out[r] = row
			}
			return value.NewGrid(out), nil
		},
	})

	// pic_int_zoom_out downsamples by max-pooling each factor x factor
	// block, requiring the grid's dimensions to divide evenly.
	r.Register(Descriptor{
		Name: "pic_int_zoom_out", ArgTypes: []ArgKind{ArgInteger, ArgGrid}, RetType: value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			factor := args[0].(value.Integer).N
			g := args[1].(value.Grid)
			if factor < 1 || g.Height()%factor != 0 || g.Width()%factor != 0 {
				return value.NewError("zoom_out factor must evenly divide both dimensions"), nil
			}
			oh, ow := g.Height()/factor, g.Width()/factor
			out := make([][]int, oh)
			for r := 0; r < oh; r++ {
				row := make([]int, ow)
				for c := 0; c < ow; c++ {
					best := -1
					for dr := 0; dr < factor; dr++ {
						for dc := 0; dc < factor; dc++ {
							v := g.Cells[r*factor+dr][c*factor+dc]
							if v > best {
								best = v
							}
						}
					}
					row[c] = best
				}
				out[r] = row
			}
			return value.NewGrid(out), nil
		},
	})

	// pic_intp_zoom_fit dispatches to zoom_in when the target is larger than
	// the source in both dimensions, zoom_out when smaller in both, and
	// errors otherwise.
	r.Register(Descriptor{
		Name: "pic_intp_zoom_fit", ArgTypes: []ArgKind{ArgIntPair, ArgGrid}, RetType: value.KindGrid,
		Body: func(core Core, args []value.Value) (value.Value, error) {
			target := args[0].(value.IntPair)
			g := args[1].(value.Grid)
			if target.A >= g.Height() && target.B >= g.Width() && g.Height() > 0 && g.Width() > 0 &&
				target.A%g.Height() == 0 && target.B%g.Width() == 0 && target.A/g.Height() == target.B/g.Width() {
				factor := target.A / g.Height()
				d, _ := r.Lookup("pic_int_zoom_in")
				return d.Body(core, []value.Value{value.NewInteger(factor), g})
			}
			if target.A <= g.Height() && target.B <= g.Width() && target.A > 0 && target.B > 0 &&
				g.Height()%target.A == 0 && g.Width()%target.B == 0 && g.Height()/target.A == g.Width()/target.B {
				factor := g.Height() / target.A
				d, _ := r.Lookup("pic_int_zoom_out")
				return d.Body(core, []value.Value{value.NewInteger(factor), g})
			}
			return value.NewError("zoom_fit target shape is not an integer multiple or divisor"), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_outline_4n", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			g := args[0].(value.Grid)
			out := make([][]int, g.Height())
			for r, row := range g.Cells {
				outRow := make([]int, len(row))
				for c, v := range row {
					if v == 0 {
						outRow[c] = 0
						continue
					}
					onBorder := false
					for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
						nr, nc := r+d[0], c+d[1]
						if nr < 0 || nr >= g.Height() || nc < 0 || nc >= g.Width() || g.Cells[nr][nc] == 0 {
							onBorder = true
							break
						}
					}
					if onBorder {
						outRow[c] = v
					}
				}
				out[r] = outRow
			}
			return value.NewGrid(out), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_int_copy_border", ArgTypes: []ArgKind{ArgInteger, ArgGrid}, RetType: value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			color := args[0].(value.Integer).N
			g := args[1].(value.Grid)
			out := make([][]int, g.Height())
			for r, row := range g.Cells {
				outRow := append([]int(nil), row...)
				out[r] = outRow
			}
			h, w := g.Height(), g.Width()
			for c := 0; c < w; c++ {
				out[0][c] = color
				out[h-1][c] = color
			}
			for r := 0; r < h; r++ {
				out[r][0] = color
				out[r][w-1] = color
			}
			return value.NewGrid(out), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_int_empty_border", ArgTypes: []ArgKind{ArgInteger, ArgGrid}, RetType: value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			color := args[0].(value.Integer).N
			g := args[1].(value.Grid)
			if g.Height() < 2 || g.Width() < 2 {
				return value.NewError("pic_int_empty_border requires at least a 2x2 grid"), nil
			}
			return cropGrid(g, 1, g.Height()-1, 1, g.Width()-1), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_v_axis", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			g := args[0].(value.Grid)
			if g.Width()%2 == 0 {
				return value.NewError("pic_v_axis requires an odd width"), nil
			}
			axis := g.Width() / 2
			out := make([][]int, g.Height())
			for r, row := range g.Cells {
				out[r] = []int{row[axis]}
			}
			return value.NewGrid(out), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_corners", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindVector,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			g := args[0].(value.Grid)
			h, w := g.Height(), g.Width()
			if h == 0 || w == 0 {
				return value.NewError("pic_corners requires a non-empty grid"), nil
			}
			return value.NewVector([]int{
				g.Cells[0][0], g.Cells[0][w-1], g.Cells[h-1][0], g.Cells[h-1][w-1],
			}), nil
		},
	})

	// pic_two_col_reverse swaps the two distinct colors of a strictly
	// bicolor grid. Any other color count is a caller error, worded exactly
	// as the original to keep the diagnostic stable for callers matching on
	// message text.
	r.Register(Descriptor{
		Name: "pic_two_col_reverse", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			g := args[0].(value.Grid)
			colors := distinctColors(g)
			if len(colors) != 2 {
				return nil, errTwoColors
			}
			a, b := colors[0], colors[1]
			out := make([][]int, g.Height())
			for r, row := range g.Cells {
				outRow := make([]int, len(row))
				for c, v := range row {
					if v == a {
						outRow[c] = b
					} else {
						outRow[c] = a
					}
				}
				out[r] = outRow
			}
			return value.NewGrid(out), nil
		},
	})
}

func flipMaskLR(mask [][]bool) [][]bool {
	out := make([][]bool, len(mask))
	for r, row := range mask {
		rev := make([]bool, len(row))
		for c, v := range row {
			rev[len(row)-1-c] = v
		}
		out[r] = rev
	}
	return out
}

func flipMaskUD(mask [][]bool) [][]bool {
	h := len(mask)
	out := make([][]bool, h)
	for r, row := range mask {
		out[h-1-r] = append([]bool(nil), row...)
	}
	return out
}

// gravity compacts every non-zero cell toward the edge(s) named by nesw,
// processing one axis at a time so a diagonal direction (e.g. N and W both
// non-zero) falls first along one axis, then the other.
func gravity(nesw value.NESW, g value.Grid) value.Grid {
	out := g
	if nesw.N > 0 {
		out = gravityStep(value.NewNESW(nesw.N, 0, 0, 0), out)
	}
	if nesw.S > 0 {
		out = gravityStep(value.NewNESW(0, 0, nesw.S, 0), out)
	}
	if nesw.W > 0 {
		out = gravityStep(value.NewNESW(0, 0, 0, nesw.W), out)
	}
	if nesw.E > 0 {
		out = gravityStep(value.NewNESW(0, nesw.E, 0, 0), out)
	}
	return out
}

// gravityStep compacts non-zero cells toward a single named edge, one axis
// at a time: N/S walk columns top-to-bottom or bottom-to-top, E/W walk rows
// right-to-left or left-to-right, so the cascade completes in one pass per
// column/row.
func gravityStep(nesw value.NESW, g value.Grid) value.Grid {
	h, w := g.Height(), g.Width()
	cells := make([][]int, h)
	for r := range cells {
		cells[r] = append([]int(nil), g.Cells[r]...)
	}

	switch {
	case nesw.N > 0:
		for c := 0; c < w; c++ {
			write := 0
			for r := 0; r < h; r++ {
				if cells[r][c] != 0 {
					if write != r {
						cells[write][c] = cells[r][c]
						cells[r][c] = 0
					}
					write++
				}
			}
		}
	case nesw.S > 0:
		for c := 0; c < w; c++ {
			write := h - 1
			for r := h - 1; r >= 0; r-- {
				if cells[r][c] != 0 {
					if write != r {
						cells[write][c] = cells[r][c]
						cells[r][c] = 0
					}
					write--
				}
			}
		}
	case nesw.W > 0:
		for r := 0; r < h; r++ {
			write := 0
			for c := 0; c < w; c++ {
				if cells[r][c] != 0 {
					if write != c {
						cells[r][write] = cells[r][c]
						cells[r][c] = 0
					}
					write++
				}
			}
		}
	case nesw.E > 0:
		for r := 0; r < h; r++ {
			write := w - 1
			for c := w - 1; c >= 0; c-- {
				if cells[r][c] != 0 {
					if write != c {
						cells[r][write] = cells[r][c]
						cells[r][c] = 0
					}
					write--
				}
			}
		}
	}

	return value.NewGrid(cells)
}
