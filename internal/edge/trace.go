package edge

// Moore neighbourhood in clockwise order on screen (Y grows downward),
// starting east.
var neighbours = [8]Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

const dirWest = 4

// neighbourIndex returns the direction index of the unit step d.
func neighbourIndex(d Point) int {
	for i, n := range neighbours {
		if n == d {
			return i
		}
	}
	return -1
}

// TraceExternal finds the outer boundary of every foreground component in m
// that is not enclosed by another component.
//
// Foreground components are 8-connected. A component is external when it
// touches the background region connected (4-connected) to the image frame;
// components sitting inside the holes of other components are skipped.
// Components are reported in raster order of their topmost-leftmost pixel.
//
// Each boundary is followed clockwise with Moore-neighbour tracing starting
// at that pixel and stops when the first step repeats. Runs of equal steps
// are then collapsed to their end points.
func TraceExternal(m *BinaryEdgeMap) []Contour {
	width, height := m.Width, m.Height
	if width == 0 || height == 0 {
		return nil
	}

	outside := outsideBackground(m)
	visited := make([]bool, width*height)
	contours := make([]Contour, 0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if visited[i] || !m.On(x, y) {
				continue
			}

			external := floodComponent(m, outside, visited, x, y)
			if !external {
				continue
			}

			pts := compress(traceBoundary(m, Point{X: x, Y: y}))
			contours = append(contours, Contour{Points: pts, Area: Area(pts)})
		}
	}
	return contours
}

// outsideBackground marks background pixels 4-connected to the image frame.
func outsideBackground(m *BinaryEdgeMap) []bool {
	width, height := m.Width, m.Height
	outside := make([]bool, width*height)
	stack := make([]Point, 0, 2*(width+height))

	push := func(x, y int) {
		if x < 0 || y < 0 || x >= width || y >= height {
			return
		}
		i := y*width + x
		if outside[i] || m.On(x, y) {
			return
		}
		outside[i] = true
		stack = append(stack, Point{X: x, Y: y})
	}

	for x := 0; x < width; x++ {
		push(x, 0)
		push(x, height-1)
	}
	for y := 0; y < height; y++ {
		push(0, y)
		push(width-1, y)
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(p.X+1, p.Y)
		push(p.X-1, p.Y)
		push(p.X, p.Y+1)
		push(p.X, p.Y-1)
	}
	return outside
}

// floodComponent marks the 8-connected component containing (startX, startY)
// as visited and reports whether any of its pixels lies on the image border
// or is 4-adjacent to outside background.
func floodComponent(m *BinaryEdgeMap, outside, visited []bool, startX, startY int) bool {
	width, height := m.Width, m.Height
	external := false
	stack := []Point{{X: startX, Y: startY}}

	touchesOutside := func(x, y int) bool {
		if x < 0 || y < 0 || x >= width || y >= height {
			return true
		}
		return outside[y*width+x]
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		i := p.Y*width + p.X
		if visited[i] || !m.On(p.X, p.Y) {
			continue
		}
		visited[i] = true

		if !external && (touchesOutside(p.X-1, p.Y) || touchesOutside(p.X+1, p.Y) ||
			touchesOutside(p.X, p.Y-1) || touchesOutside(p.X, p.Y+1)) {
			external = true
		}

		for _, d := range neighbours {
			stack = append(stack, Point{X: p.X + d.X, Y: p.Y + d.Y})
		}
	}
	return external
}

// traceBoundary follows the outer boundary of the component whose
// topmost-leftmost pixel is start.
func traceBoundary(m *BinaryEdgeMap, start Point) []Point {
	// step scans the neighbours of c clockwise, starting just after the
	// background neighbour in direction back, and returns the first
	// foreground pixel with the direction from it back to the last
	// background pixel examined.
	step := func(c Point, back int) (Point, int, bool) {
		for k := 1; k < 8; k++ {
			d := (back + k) % 8
			n := Point{X: c.X + neighbours[d].X, Y: c.Y + neighbours[d].Y}
			if !m.On(n.X, n.Y) {
				continue
			}
			prev := neighbours[(d+7)%8]
			rel := Point{X: c.X + prev.X - n.X, Y: c.Y + prev.Y - n.Y}
			return n, neighbourIndex(rel), true
		}
		return Point{}, 0, false
	}

	pts := []Point{start}
	first, back, ok := step(start, dirWest)
	if !ok {
		return pts
	}

	// A boundary visits each pixel at most four times.
	limit := 4*m.Width*m.Height + 8
	next := first
	for n := 0; n < limit; n++ {
		c := next
		next, back, _ = step(c, back)
		if c == start && next == first {
			break
		}
		pts = append(pts, c)
	}
	return pts
}

// compress keeps only the points where the step direction changes. The first
// point is always kept.
func compress(pts []Point) []Point {
	n := len(pts)
	if n < 3 {
		return append([]Point(nil), pts...)
	}

	out := []Point{pts[0]}
	for i := 1; i < n; i++ {
		prev := pts[i-1]
		cur := pts[i]
		next := pts[(i+1)%n]
		in := Point{X: cur.X - prev.X, Y: cur.Y - prev.Y}
		outDir := Point{X: next.X - cur.X, Y: next.Y - cur.Y}
		if in != outDir {
			out = append(out, cur)
		}
	}
	return out
}

// Area returns the absolute shoelace area of the closed polygon pts.
func Area(pts []Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum int
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	if sum < 0 {
		sum = -sum
	}
	return float64(sum) / 2
}

// SelectPrimary returns the index of the contour with the strictly largest
// positive area. Ties keep the earlier contour. It returns -1 when no
// contour has a positive area.
func SelectPrimary(contours []Contour) int {
	best := -1
	bestArea := 0.0
	for i, c := range contours {
		if c.Area > bestArea {
			best = i
			bestArea = c.Area
		}
	}
	return best
}
