// Package session ties the pipeline stages together for one image at a time.
//
// A Manager holds a Session per image id together with the contour.Store and
// Runner they share. The Runner executes extractions off the caller's
// goroutine with a monotonic sequence number per request; only the newest
// request for an image may commit, so a slow run can never overwrite the
// result of a later one. A Session seeds its stroke editor from the stored
// primary contour, or the placeholder ring when extraction found nothing,
// and hands the finished PathSet back to the store on Complete.
package session
