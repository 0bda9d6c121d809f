package edge

import (
	"errors"
	"image"

	"github.com/ironsheep/edge-refine-mcp/internal/raster"
)

var (
	// ErrEmptyBuffer is returned when the input has no pixels.
	ErrEmptyBuffer = raster.ErrEmptyBuffer

	// ErrMalformedBuffer is returned when the sample array does not match
	// the buffer dimensions.
	ErrMalformedBuffer = raster.ErrMalformedBuffer

	// ErrNotReady is returned by engines whose backing library is not loaded.
	ErrNotReady = errors.New("edge: engine not ready")
)

// Edge map sample values.
const (
	EdgeOff uint8 = 0
	EdgeOn  uint8 = 255
)

// Point is an integer pixel coordinate on a traced contour.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Contour is an ordered boundary traced from a BinaryEdgeMap. The polygon is
// implicitly closed from the last point back to the first.
type Contour struct {
	Points []Point `json:"points"`

	// Area is the absolute polygon area in square pixels.
	Area float64 `json:"area"`
}

// Result is the output of one extraction run.
type Result struct {
	// Width and Height echo the input dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Contours holds every external contour in tracing order.
	Contours []Contour `json:"contours"`

	// Primary indexes the contour with the largest area, or -1 when no
	// contour qualifies.
	Primary int `json:"primary"`

	// Edges is the closed edge map the contours were traced from.
	Edges *BinaryEdgeMap `json:"-"`
}

// PrimaryContour returns the primary contour, if there is one.
func (r *Result) PrimaryContour() (Contour, bool) {
	if r == nil || r.Primary < 0 || r.Primary >= len(r.Contours) {
		return Contour{}, false
	}
	return r.Contours[r.Primary], true
}

// GrayscaleBuffer is a single-channel intensity image, row-major.
type GrayscaleBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// At returns the intensity at (x, y). No bounds checking is performed.
func (g *GrayscaleBuffer) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// BinaryEdgeMap marks edge pixels with EdgeOn and everything else with
// EdgeOff.
type BinaryEdgeMap struct {
	Width  int
	Height int
	Pix    []uint8
}

// On reports whether (x, y) is an edge pixel. Out-of-range coordinates are
// never edges.
func (m *BinaryEdgeMap) On(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x] != EdgeOff
}

// Count returns the number of edge pixels.
func (m *BinaryEdgeMap) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != EdgeOff {
			n++
		}
	}
	return n
}

// Gray returns the map as an image with edges in white.
func (m *BinaryEdgeMap) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	copy(img.Pix, m.Pix)
	return img
}

// clear turns off every edge pixel inside r.
func (m *BinaryEdgeMap) clear(r image.Rectangle) {
	r = r.Intersect(image.Rect(0, 0, m.Width, m.Height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.Pix[y*m.Width:]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = EdgeOff
		}
	}
}
