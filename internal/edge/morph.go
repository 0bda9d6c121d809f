package edge

// Morphology on single-channel images with square structuring elements.
//
// A square max/min filter is separable, so each operation runs as a
// horizontal pass followed by a vertical pass. Samples outside the image do
// not take part: the extremum is taken over the part of the window that
// overlaps the image.

// dilate returns the maximum over an n x n window anchored at n/2.
func dilate(src []uint8, width, height, n int) []uint8 {
	return squareFilter(src, width, height, n, func(a, b uint8) bool { return a > b })
}

// erode returns the minimum over an n x n window anchored at n/2.
func erode(src []uint8, width, height, n int) []uint8 {
	return squareFilter(src, width, height, n, func(a, b uint8) bool { return a < b })
}

// squareFilter keeps, for every pixel, the window sample for which better
// reports true against all others. With n < 2 the input is copied unchanged.
func squareFilter(src []uint8, width, height, n int, better func(a, b uint8) bool) []uint8 {
	out := make([]uint8, len(src))
	if n < 2 {
		copy(out, src)
		return out
	}

	lo := -(n / 2)
	hi := n - 1 + lo

	tmp := make([]uint8, len(src))
	for y := 0; y < height; y++ {
		row := src[y*width : (y+1)*width]
		for x := 0; x < width; x++ {
			x0 := max(x+lo, 0)
			x1 := min(x+hi, width-1)
			v := row[x0]
			for i := x0 + 1; i <= x1; i++ {
				if better(row[i], v) {
					v = row[i]
				}
			}
			tmp[y*width+x] = v
		}
	}

	for y := 0; y < height; y++ {
		y0 := max(y+lo, 0)
		y1 := min(y+hi, height-1)
		for x := 0; x < width; x++ {
			v := tmp[y0*width+x]
			for j := y0 + 1; j <= y1; j++ {
				if s := tmp[j*width+x]; better(s, v) {
					v = s
				}
			}
			out[y*width+x] = v
		}
	}
	return out
}

// Dilate grows bright regions of g with a square element of side n, one
// pass. Sizes below 1 behave as 1, which leaves the image unchanged.
func Dilate(g *GrayscaleBuffer, n int) *GrayscaleBuffer {
	return &GrayscaleBuffer{
		Width:  g.Width,
		Height: g.Height,
		Pix:    dilate(g.Pix, g.Width, g.Height, n),
	}
}

// Close applies a 3x3 morphological closing to m: iterations dilations
// followed by iterations erosions.
func Close(m *BinaryEdgeMap, iterations int) *BinaryEdgeMap {
	if iterations <= 0 {
		return &BinaryEdgeMap{Width: m.Width, Height: m.Height, Pix: append([]uint8(nil), m.Pix...)}
	}

	pix := m.Pix
	for i := 0; i < iterations; i++ {
		pix = dilate(pix, m.Width, m.Height, 3)
	}
	for i := 0; i < iterations; i++ {
		pix = erode(pix, m.Width, m.Height, 3)
	}
	return &BinaryEdgeMap{Width: m.Width, Height: m.Height, Pix: pix}
}
