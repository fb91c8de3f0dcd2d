// Package cache stores solved batches on disk so that repeating a solve
// with the same inputs and solver settings skips the Newton iterations.
//
// Entries are JSON files named by a SHA-256 key over the raw input bits and
// the solver configuration. Each entry records the kepler version that
// wrote it; entries from an incompatible release are treated as misses.
// TTL expiry and a size ceiling with oldest-first eviction keep the
// directory bounded.
package cache
