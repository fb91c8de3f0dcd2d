// Package ingest loads solver inputs from JSON, YAML and CSV files and
// generates evenly spaced inputs for sweeps.
package ingest
