// Package edge extracts boundary contours from radiographs.
//
// The extraction pipeline runs over a raster.PixelBuffer in five stages:
//
//  1. Grayscale reduction with fixed luminance weights.
//  2. One dilation pass with a square structuring element of side
//     Params.DilationSize. This pre-closes small gaps in faint outlines at
//     the cost of a little fine detail.
//  3. Dual-threshold gradient edge detection (Sobel gradients, non-maximum
//     suppression and hysteresis) producing a BinaryEdgeMap.
//  4. Morphological closing with a 3x3 element, Params.ClosingIterations
//     times, to bridge small breaks in the traced boundary.
//  5. External contour tracing and primary selection by polygon area.
//
// When nothing is traced the Result has no primary contour and callers seed
// downstream stages with Placeholder, a fixed synthetic ring.
//
// # Engines
//
// Engine abstracts the implementation. NewExtractor returns the pure-Go
// engine, which is always ready. Builds with the gocv tag also provide
// NewCVEngine, which runs the same stages through OpenCV and reports
// ErrNotReady when the native library is unavailable. Engines carry no
// global state and may be shared between goroutines.
//
// # Determinism
//
// Extraction is a pure function of the buffer and the parameters. Running
// it twice on identical input yields identical point sequences.
package edge
