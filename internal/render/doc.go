// Package render draws and exports the results of extraction and refinement.
//
// DetectionPreview and Overlay rasterize with github.com/gogpu/gg. Encode
// turns a rendered image into PNG or WebP bytes. ExportSVG and ImportSVG move
// a PathSet in and out of a plain SVG document, and ExportJSON writes the
// handoff consumed by the annotation tools. VectorizeEdges traces a binary
// edge map into bezier outlines with potrace.
//
// All functions are stateless and safe for concurrent use.
package render
