// Package batch splits an index range into fixed-size partitions and runs a
// callback over each of them, sequentially or on a bounded worker pool.
//
// Partitions never share indices, so callbacks writing into disjoint slices
// of a shared buffer need no further synchronization. Progress tracks how
// many partitions and elements have completed for log lines and the TUI.
package batch
