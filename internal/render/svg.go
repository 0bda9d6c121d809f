package render

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	svgo "github.com/ajstarks/svgo"
	"github.com/rustyoz/svg"

	"github.com/ironsheep/edge-refine-mcp/internal/geom"
	"github.com/ironsheep/edge-refine-mcp/internal/stroke"
)

var (
	// ErrBadSVG is returned when a document cannot be read as a path handoff.
	ErrBadSVG = errors.New("render: invalid SVG handoff")

	// ErrUnsupportedPath is returned for path data using commands other than
	// absolute M and L.
	ErrUnsupportedPath = errors.New("render: unsupported path data")
)

// Document is an SVG handoff read back into paths.
type Document struct {
	Width  int
	Height int
	Paths  []stroke.VectorPath
}

// ExportSVG writes paths as an SVG document with a view box of the canvas
// size. Each path keeps its id, origin, width and colour. Paths without
// points are skipped.
func ExportSVG(w io.Writer, width, height int, paths []stroke.VectorPath) error {
	if width <= 0 || height <= 0 {
		return ErrEmptyScene
	}

	ew := &errWriter{w: w}
	canvas := svgo.New(ew)
	canvas.Startview(width, height, 0, 0, width, height)
	for _, p := range paths {
		if len(p.Points) == 0 {
			continue
		}
		canvas.Path(pathData(p.Points),
			attr("id", p.ID),
			attr("data-origin", string(p.Origin)),
			pathStyle(p))
	}
	canvas.End()
	return ew.err
}

// ImportSVG reads a document written by ExportSVG. Width and height come
// from the view box.
func ImportSVG(data []byte) (*Document, error) {
	parsed, err := svg.ParseSvg(string(data), "handoff", 1.0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSVG, err)
	}
	w, h, err := viewBoxSize(parsed.ViewBox)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Paths []struct {
			ID     string `xml:"id,attr"`
			D      string `xml:"d,attr"`
			Style  string `xml:"style,attr"`
			Origin string `xml:"data-origin,attr"`
		} `xml:"path"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSVG, err)
	}

	out := &Document{Width: w, Height: h}
	for i, p := range doc.Paths {
		pts, err := parsePathData(p.D)
		if err != nil {
			return nil, fmt.Errorf("path %d: %w", i, err)
		}
		vp := stroke.VectorPath{
			ID:     p.ID,
			Points: pts,
			Width:  stroke.DefaultWidth,
			Color:  stroke.DefaultColor,
			Origin: stroke.OriginDrawn,
		}
		if stroke.Origin(p.Origin) == stroke.OriginDerived {
			vp.Origin = stroke.OriginDerived
		}
		style := parseStyle(p.Style)
		if c, ok := style["stroke"]; ok {
			vp.Color = strings.ToUpper(c)
		}
		if sw, ok := style["stroke-width"]; ok {
			if v, err := strconv.ParseFloat(sw, 64); err == nil && v > 0 {
				vp.Width = v
			}
		}
		out.Paths = append(out.Paths, vp)
	}
	return out, nil
}

func viewBoxSize(box string) (int, int, error) {
	f := strings.Fields(strings.ReplaceAll(box, ",", " "))
	if len(f) != 4 {
		return 0, 0, fmt.Errorf("%w: view box %q", ErrBadSVG, box)
	}
	w, werr := strconv.ParseFloat(f[2], 64)
	h, herr := strconv.ParseFloat(f[3], 64)
	if werr != nil || herr != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: view box %q", ErrBadSVG, box)
	}
	return int(math.Round(w)), int(math.Round(h)), nil
}

// pathData encodes pts as "M x y L x y ...". A single point becomes a
// zero-length segment so round caps still render it.
func pathData(pts []geom.Point) string {
	var b strings.Builder
	b.WriteString("M")
	writePoint(&b, pts[0])
	if len(pts) == 1 {
		b.WriteString(" L")
		writePoint(&b, pts[0])
		return b.String()
	}
	for _, p := range pts[1:] {
		b.WriteString(" L")
		writePoint(&b, p)
	}
	return b.String()
}

func writePoint(b *strings.Builder, p geom.Point) {
	b.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
}

// parsePathData reads one open polyline written with absolute M and L
// commands. The zero-length segment pathData emits for a single point
// collapses back to one point.
func parsePathData(d string) ([]geom.Point, error) {
	fields := strings.FieldsFunc(d, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})

	var (
		pts     []geom.Point
		cmd     byte
		pending []float64
	)
	for _, f := range fields {
		if c := f[0]; (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			switch {
			case c == 'M' && cmd == 0:
			case c == 'L' && cmd != 0:
			default:
				return nil, fmt.Errorf("%w: command %q", ErrUnsupportedPath, c)
			}
			if len(pending) != 0 {
				return nil, fmt.Errorf("%w: odd coordinate count", ErrUnsupportedPath)
			}
			cmd = c
			f = f[1:]
			if f == "" {
				continue
			}
		}
		if cmd == 0 {
			return nil, fmt.Errorf("%w: missing moveto", ErrUnsupportedPath)
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedPath, err)
		}
		pending = append(pending, v)
		if len(pending) == 2 {
			pts = append(pts, geom.Pt(pending[0], pending[1]))
			pending = pending[:0]
		}
	}
	if len(pending) != 0 {
		return nil, fmt.Errorf("%w: odd coordinate count", ErrUnsupportedPath)
	}
	if len(pts) == 2 && pts[0] == pts[1] {
		pts = pts[:1]
	}
	return pts, nil
}

func pathStyle(p stroke.VectorPath) string {
	return fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s;stroke-linecap:round;stroke-linejoin:round",
		p.Color, strconv.FormatFloat(p.Width, 'f', -1, 64))
}

func parseStyle(s string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

// attr formats an escaped XML attribute for svgo's variadic style arguments.
func attr(name, value string) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(`="`)
	_ = xml.EscapeText(&b, []byte(value))
	b.WriteString(`"`)
	return b.String()
}

// errWriter keeps the first write error; svgo discards them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
