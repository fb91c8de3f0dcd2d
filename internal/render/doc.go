// Package render writes solved batches as an aligned table, JSON or CSV,
// and prints the run summary either as a lipgloss box on a terminal or as
// plain text elsewhere.
package render
