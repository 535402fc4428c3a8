package primitive

import (
	"github.com/kaalam/arcsynth/internal/value"
)

// registerAnalysis wires the partitioning and inspection family: turning a
// picture into a pattern, splitting it into several pictures along an axis
// or an auto-detected grid, and filtering a tuple of pictures down by some
// predicate.
func registerAnalysis(r *Registry) {
	r.Register(Descriptor{
		Name: "pic_all_as_pat", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindMaskedGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			g := args[0].(value.Grid)
			mask := make([][]bool, g.Height())
			for r, row := range g.Cells {
				m := make([]bool, len(row))
				for c, v := range row {
					m[c] = v != 0
				}
				mask[r] = m
			}
			return value.NewPattern(g, mask), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_distinct_border_colors", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindVector,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			g := args[0].(value.Grid)
			seen := map[int]bool{}
			var order []int
			add := func(v int) {
				if !seen[v] {
					seen[v] = true
					order = append(order, v)
				}
			}
			h, w := g.Height(), g.Width()
			for c := 0; c < w; c++ {
				add(g.Cells[0][c])
				add(g.Cells[h-1][c])
			}
			for row := 0; row < h; row++ {
				add(g.Cells[row][0])
				add(g.Cells[row][w-1])
			}
			return value.NewVector(order), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_filter_mostfreq_col", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindInteger,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			return value.NewInteger(mostFrequentColor(args[0].(value.Grid))), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_filter_leastfreq_col", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindInteger,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			return value.NewInteger(leastFrequentColor(args[0].(value.Grid))), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_filter_axes", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindIntPair,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			g := args[0].(value.Grid)
			return value.NewIntPair(g.Height()%2, g.Width()%2), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_fork_on_h_axis_as_pics", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindGridTuple,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			g := args[0].(value.Grid)
			if g.Height()%2 == 0 {
				return value.NewError("pic_fork_on_h_axis_as_pics requires an odd height"), nil
			}
			mid := g.Height() / 2
			top := cropGrid(g, 0, mid, 0, g.Width())
			bottom := cropGrid(g, mid+1, g.Height(), 0, g.Width())
			return value.NewGridTuple([]value.Grid{top, bottom}), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_fork_on_v_axis_as_pics", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindGridTuple,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			g := args[0].(value.Grid)
			if g.Width()%2 == 0 {
				return value.NewError("pic_fork_on_v_axis_as_pics requires an odd width"), nil
			}
			mid := g.Width() / 2
			left := cropGrid(g, 0, g.Height(), 0, mid)
			right := cropGrid(g, 0, g.Height(), mid+1, g.Width())
			return value.NewGridTuple([]value.Grid{left, right}), nil
		},
	})

	// pic_autohalves_as_pics splits evenly when the dimension being split
	// is even, and lets the two halves overlap by the shared middle row or
	// column when it is odd.
	r.Register(Descriptor{
		Name: "pic_autohalves_as_pics", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindGridTuple,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			g := args[0].(value.Grid)
			if g.Width() >= g.Height() {
				w := g.Width()
				half := (w + 1) / 2
				left := cropGrid(g, 0, g.Height(), 0, half)
				right := cropGrid(g, 0, g.Height(), w-half, w)
				return value.NewGridTuple([]value.Grid{left, right}), nil
			}
			h := g.Height()
			half := (h + 1) / 2
			top := cropGrid(g, 0, half, 0, g.Width())
			bottom := cropGrid(g, h-half, h, 0, g.Width())
			return value.NewGridTuple([]value.Grid{top, bottom}), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_fork_by_color_as_pics", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindGridTuple,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			g := args[0].(value.Grid)
			colors := distinctColors(g)
			grids := make([]value.Grid, 0, len(colors))
			for _, color := range colors {
				out := make([][]int, g.Height())
				for r, row := range g.Cells {
					outRow := make([]int, len(row))
					for c, v := range row {
						if v == color {
							outRow[c] = v
						}
					}
					out[r] = outRow
				}
				grids = append(grids, value.NewGrid(out))
			}
			return value.NewGridTuple(grids), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_fork_color_rest_black_as_pics", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindGridTuple,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			g := args[0].(value.Grid)
			colors := distinctColors(g)
			grids := make([]value.Grid, 0, len(colors))
			for _, color := range colors {
				if color == 0 {
					continue
				}
				out := make([][]int, g.Height())
				for r, row := range g.Cells {
					outRow := make([]int, len(row))
					for c, v := range row {
						if v == color {
							outRow[c] = color
						}
					}
					out[r] = outRow
				}
				grids = append(grids, value.NewGrid(out))
			}
			return value.NewGridTuple(grids), nil
		},
	})

	// pic_fork_on_auto_grid_as_pics detects a uniform separator color
	// running the full length of a row or column (checking columns first,
	// then rows, matching the scan order of the primitive it is grounded
	// on) and splits the picture into the cells of that grid.
	r.Register(Descriptor{
		Name: "pic_fork_on_auto_grid_as_pics", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindGridTuple,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			g := args[0].(value.Grid)
			cells, _, ok := autoGridCells(g)
			if !ok {
				return value.NewError("no uniform auto-grid separator found"), nil
			}
			return value.NewGridTuple(cells), nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_shape_on_auto_grid", ArgTypes: []ArgKind{ArgGrid}, RetType: value.KindIntPair,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			g := args[0].(value.Grid)
			_, dims, ok := autoGridCells(g)
			if !ok {
				return value.NewError("no uniform auto-grid separator found"), nil
			}
			return dims, nil
		},
	})

	r.Register(Descriptor{
		Name: "pic_intp_fork_on_shape_as_pics", ArgTypes: []ArgKind{ArgIntPair, ArgGrid}, RetType: value.KindGridTuple,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			shape := args[0].(value.IntPair)
			g := args[1].(value.Grid)
			if shape.A <= 0 || shape.B <= 0 || g.Height()%shape.A != 0 || g.Width()%shape.B != 0 {
				return value.NewError("grid dimensions do not divide evenly by the given shape"), nil
			}
			ch, cw := g.Height()/shape.A, g.Width()/shape.B
			grids := make([]value.Grid, 0, shape.A*shape.B)
			for r := 0; r < shape.A; r++ {
				for c := 0; c < shape.B; c++ {
					grids = append(grids, cropGrid(g, r*ch, (r+1)*ch, c*cw, (c+1)*cw))
				}
			}
			return value.NewGridTuple(grids), nil
		},
	})

	r.Register(Descriptor{
		Name: "pics_filter_single_color", ArgTypes: []ArgKind{ArgGridTuple}, RetType: value.KindGridTuple,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			tuple := args[0].(value.GridTuple)
			var out []value.Grid
			for _, g := range tuple.Grids {
				if len(distinctColors(g)) <= 1 {
					out = append(out, g)
				}
			}
			return value.NewGridTuple(out), nil
		},
	})

	r.Register(Descriptor{
		Name: "pics_filter_v_symmetric", ArgTypes: []ArgKind{ArgGridTuple}, RetType: value.KindGridTuple,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			tuple := args[0].(value.GridTuple)
			var out []value.Grid
			for _, g := range tuple.Grids {
				if value.Equal(g, flipLeftRight(g)) {
					out = append(out, g)
				}
			}
			return value.NewGridTuple(out), nil
		},
	})

	r.Register(Descriptor{
		Name: "pics_filter_unique_picture_as_pic", ArgTypes: []ArgKind{ArgGridTuple}, RetType: value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			tuple := args[0].(value.GridTuple)
			counts := make([]int, len(tuple.Grids))
			for i, g := range tuple.Grids {
				for j, h := range tuple.Grids {
					if i != j && value.Equal(g, h) {
						counts[i]++
					}
				}
			}
			for i, c := range counts {
				if c == 0 {
					return tuple.Grids[i], nil
				}
			}
			return value.NewError("no unique picture found in tuple"), nil
		},
	})

	r.Register(Descriptor{
		Name: "pics_filter_unique_pattern_as_pic", ArgTypes: []ArgKind{ArgGridTuple}, RetType: value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			tuple := args[0].(value.GridTuple)
			sig := func(g value.Grid) [2]int { return [2]int{g.Height(), g.Width()} }
			counts := make([]int, len(tuple.Grids))
			for i, g := range tuple.Grids {
				for j, h := range tuple.Grids {
					if i != j && sig(g) == sig(h) {
						counts[i]++
					}
				}
			}
			for i, c := range counts {
				if c == 0 {
					return tuple.Grids[i], nil
				}
			}
			return value.NewError("no unique pattern found in tuple"), nil
		},
	})

	r.Register(Descriptor{
		Name: "pics_main_color_as_vec", ArgTypes: []ArgKind{ArgGridTuple}, RetType: value.KindVector,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			tuple := args[0].(value.GridTuple)
			out := make([]int, len(tuple.Grids))
			for i, g := range tuple.Grids {
				out[i] = mostFrequentColor(g)
			}
			return value.NewVector(out), nil
		},
	})

	r.Register(Descriptor{
		Name: "pics_maximum_as_pic", ArgTypes: []ArgKind{ArgGridTuple}, RetType: value.KindGrid,
		Body: func(_ Core, args []value.Value) (value.Value, error) {
			tuple := args[0].(value.GridTuple)
			if len(tuple.Grids) == 0 {
				return value.NewError("pics_maximum_as_pic requires at least one grid"), nil
			}
			acc := tuple.Grids[0]
			for _, g := range tuple.Grids[1:] {
				if !value.SameShape(acc, g) {
					return value.NewError("pics_maximum_as_pic requires equal shapes"), nil
				}
				out := make([][]int, acc.Height())
				for r := range acc.Cells {
					row := make([]int, acc.Width())
					for c := range acc.Cells[r] {
						if acc.Cells[r][c] > g.Cells[r][c] {
							row[c] = acc.Cells[r][c]
						} else {
							row[c] = g.Cells[r][c]
						}
					}
					out[r] = row
				}
				acc = value.NewGrid(out)
			}
			return acc, nil
		},
	})
}

// autoGridCells scans for a uniform separator color spanning every row of
// some column (checked first) or every column of some row (checked second),
// and if found, splits the picture along every such separator line,
// returning the resulting cells in row-major order plus the (rows, cols)
// cell-grid dimensions.
func autoGridCells(g value.Grid) ([]value.Grid, value.IntPair, bool) {
	h, w := g.Height(), g.Width()

	colSep := func(c int) bool {
		v := g.Cells[0][c]
		for r := 1; r < h; r++ {
			if g.Cells[r][c] != v {
				return false
			}
		}
		return true
	}
	rowSep := func(r int) bool {
		v := g.Cells[r][0]
		for c := 1; c < w; c++ {
			if g.Cells[r][c] != v {
				return false
			}
		}
		return true
	}

	var colBounds, rowBounds []int
	lastCol := 0
	for c := 0; c < w; c++ {
		if colSep(c) {
			colBounds = append(colBounds, lastCol, c)
			lastCol = c + 1
		}
	}
	if len(colBounds) > 0 {
		colBounds = append(colBounds, lastCol, w)
	}

	lastRow := 0
	for r := 0; r < h; r++ {
		if rowSep(r) {
			rowBounds = append(rowBounds, lastRow, r)
			lastRow = r + 1
		}
	}
	if len(rowBounds) > 0 {
		rowBounds = append(rowBounds, lastRow, h)
	}

	if len(colBounds) == 0 && len(rowBounds) == 0 {
		return nil, value.IntPair{}, false
	}

	if len(colBounds) == 0 {
		colBounds = []int{0, w}
	}
	if len(rowBounds) == 0 {
		rowBounds = []int{0, h}
	}

	var cells []value.Grid
	nRows := len(rowBounds) / 2
	nCols := len(colBounds) / 2
	for ri := 0; ri < nRows; ri++ {
		for ci := 0; ci < nCols; ci++ {
			r0, r1 := rowBounds[ri*2], rowBounds[ri*2+1]
			c0, c1 := colBounds[ci*2], colBounds[ci*2+1]
			if r1 <= r0 || c1 <= c0 {
				return nil, value.IntPair{}, false
			}
			cells = append(cells, cropGrid(g, r0, r1, c0, c1))
		}
	}

	return cells, value.NewIntPair(nRows, nCols), true
}
