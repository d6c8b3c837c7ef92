// Package match scans haystack batches against a needle.Set.
//
// A Matcher owns one Batch at a time. Every confirmed hit goes through
// State.RecordMatch, the single critical section that flips the needle's
// matched flag, bumps the shared counter and appends the hash to the matched
// sink. Misses write nothing: needles left unmarked once every batch has
// finished are emitted by State.SweepUnmatched.
package match
