// Package raster captures decoded bitmaps into immutable pixel buffers.
//
// A PixelBuffer is the only input the edge extraction pipeline accepts. It
// stores non-premultiplied RGBA samples in a dense row-major array, four bytes
// per pixel, with the origin at the top-left corner. Once captured, a buffer
// cannot be modified through its API: accessors hand out copies.
//
// # Loading
//
// ImageCache decodes image files once and keeps them in memory keyed by path.
// PNG, JPEG and GIF are supported through the standard library; WebP, TIFF and
// BMP through golang.org/x/image, with github.com/chai2010/webp as a fallback
// for WebP files the pure Go decoder rejects. JPEG EXIF orientation is applied
// on load.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. PixelBuffer is read-only and may be
// shared freely between goroutines.
package raster
