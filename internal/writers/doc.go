// Package writers owns the output side of a run: the matched and unmatched
// line sinks, optional compression chosen by file suffix, and the
// broken-pipe tolerance shared by every stdout-facing writer.
//
// Design:
//   • Sinks are append-only and not goroutine-safe; match.State serializes
//     matched writes, and the unmatched sweep runs single-threaded.
//   • Encoders are looked up in a suffix registry instead of a switch.
package writers
