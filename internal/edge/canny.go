package edge

import "math"

// DetectEdges runs dual-threshold gradient edge detection over g.
//
// # Algorithm
//
//  1. Gradients: 3x3 Sobel operators with replicated borders, magnitude
//     |Gx| + |Gy| on the 0-255 intensity scale.
//  2. Non-maximum suppression: a pixel survives only when its magnitude
//     exceeds low and is a local maximum along the gradient direction,
//     quantized to horizontal, vertical or one of the two diagonals.
//  3. Hysteresis: survivors above high are definite edges. Survivors
//     between the thresholds are kept only if they connect to a definite
//     edge through a chain of 8-connected survivors.
//
// If low exceeds high the two are swapped. Thresholds are truncated to whole
// intensity steps.
func DetectEdges(g *GrayscaleBuffer, low, high float64) *BinaryEdgeMap {
	if low > high {
		low, high = high, low
	}
	lowT := int(math.Floor(low))
	highT := int(math.Floor(high))

	width, height := g.Width, g.Height
	gx := make([]int, width*height)
	gy := make([]int, width*height)
	mag := make([]int, width*height)

	for y := 0; y < height; y++ {
		ym := clamp(y-1, 0, height-1)
		yp := clamp(y+1, 0, height-1)
		for x := 0; x < width; x++ {
			xm := clamp(x-1, 0, width-1)
			xp := clamp(x+1, 0, width-1)

			tl := int(g.At(xm, ym))
			tc := int(g.At(x, ym))
			tr := int(g.At(xp, ym))
			ml := int(g.At(xm, y))
			mr := int(g.At(xp, y))
			bl := int(g.At(xm, yp))
			bc := int(g.At(x, yp))
			br := int(g.At(xp, yp))

			dx := (tr + 2*mr + br) - (tl + 2*ml + bl)
			dy := (bl + 2*bc + br) - (tl + 2*tc + tr)

			i := y*width + x
			gx[i] = dx
			gy[i] = dy
			mag[i] = absInt(dx) + absInt(dy)
		}
	}

	magAt := func(x, y int) int {
		if x < 0 || y < 0 || x >= width || y >= height {
			return 0
		}
		return mag[y*width+x]
	}

	const (
		none = iota
		weak
		strong
	)
	state := make([]uint8, width*height)
	stack := make([]int, 0, 256)

	// tan(22.5°) and tan(67.5°) bound the horizontal and vertical sectors.
	const tg22 = 0.4142135623730950
	const tg67 = 2.4142135623730950

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			m := mag[i]
			if m <= lowT {
				continue
			}

			ax := float64(absInt(gx[i]))
			ay := float64(absInt(gy[i]))

			var local bool
			switch {
			case ay < ax*tg22:
				local = m > magAt(x-1, y) && m >= magAt(x+1, y)
			case ay > ax*tg67:
				local = m > magAt(x, y-1) && m >= magAt(x, y+1)
			default:
				s := 1
				if (gx[i] < 0) != (gy[i] < 0) {
					s = -1
				}
				local = m > magAt(x-s, y-1) && m > magAt(x+s, y+1)
			}
			if !local {
				continue
			}

			if m > highT {
				state[i] = strong
				stack = append(stack, i)
			} else {
				state[i] = weak
			}
		}
	}

	out := &BinaryEdgeMap{Width: width, Height: height, Pix: make([]uint8, width*height)}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out.Pix[i] = EdgeOn

		x, y := i%width, i/width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				j := ny*width + nx
				if state[j] == weak {
					state[j] = strong
					stack = append(stack, j)
				}
			}
		}
	}
	return out
}

// clamp constrains an integer value to the range [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
