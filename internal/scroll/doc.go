// Package scroll maps a raw scroll offset onto normalized progress within a
// tracked region and turns that progress into two kinds of output:
//
//   - thresholds: one-shot callbacks fired the first time progress reaches a
//     trigger value going forward, in ascending trigger order
//   - fade windows: continuous ratios recomputed on every update
//
// A Controller owns its thresholds and fade windows exclusively. Many
// controllers may subscribe to one shared Feed, which only ever hands them the
// current offset.
//
// Controllers and feeds are driven from a single event loop and are not safe
// for concurrent use.
package scroll
