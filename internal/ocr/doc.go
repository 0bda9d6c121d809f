// Package ocr finds burned-in text on radiographs so its edges can be kept
// out of contour extraction.
//
// X-ray exports often carry side markers, rulers and patient details drawn
// directly into the pixels. Their glyph edges are strong and can join the
// foot outline into one large contour. LabelDetector locates these blocks
// with Tesseract (via gosseract/v2) and returns padded rectangles that the
// extractor clears from the edge map before closing.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Label masking is optional. When Tesseract is missing, Available reports
// the problem and sessions extract without masking.
//
// # Block-Level Detection
//
// Detection runs at Tesseract's RIL_BLOCK level, which groups glyphs into
// paragraph-like regions. This is faster than word-level detection and gives
// rectangles that cover a whole label including the gaps between words.
package ocr
