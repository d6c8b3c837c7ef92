// Package pipeline drives one haystack pass: it cuts the haystack into
// batches, runs at most Workers matchers at once while it keeps reading,
// stops reading as soon as sort order rules out further matches, and sweeps
// the needles nobody matched once every matcher has returned.
//
// The only contract to implement is BatchScanner (Run).
// This keeps the dispatcher swappable and testable.
package pipeline
