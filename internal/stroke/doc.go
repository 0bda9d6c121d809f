// Package stroke holds the vector paths overlaid on a radiograph and the
// freehand editor that draws and erases them.
//
// A PathSet is an ordered collection: insertion order is display order, so
// the last path is drawn on top and is the first candidate for erasing.
//
// The Editor turns pointer samples into edits. In draw mode a stroke becomes
// a new path when it ends. In erase mode every sample is tested against the
// existing paths from the top down and the first path passing within half a
// brush width is removed whole. Samples outside the canvas are ignored.
//
// Style changes (width, colour, mode) only affect strokes begun afterwards.
//
// # Thread Safety
//
// Editor and PathSet are not safe for concurrent use. Callers serialize
// access per image.
package stroke
