package render

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rshade/kepler/internal/engine"
)

// Format is an output encoding for solved rows.
type Format string

// Supported output formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

const tabwriterPadding = 2

// ParseFormat validates a user supplied output format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatTable, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (want table, json or csv)", ErrUnknownFormat, name)
	}
}

// Document is the JSON output: the rows together with the run summary.
type Document struct {
	Summary SummaryDoc `json:"summary"`
	Results []Row      `json:"results"`
}

// SummaryDoc is the JSON form of engine.Summary.
type SummaryDoc struct {
	Elements       int    `json:"elements"`
	Circular       int    `json:"circular"`
	WarmStarts     int    `json:"warm_starts"`
	NonConverged   int    `json:"non_converged"`
	Iterations     int    `json:"iterations"`
	MeanIterations Number `json:"mean_iterations"`
	MaxResidual    Number `json:"max_residual"`
	MaxCorrection  Number `json:"max_correction"`
}

func newSummaryDoc(s engine.Summary) SummaryDoc {
	return SummaryDoc{
		Elements:       s.Elements,
		Circular:       s.Circular,
		WarmStarts:     s.WarmStarts,
		NonConverged:   s.NonConverged,
		Iterations:     s.Iterations,
		MeanIterations: Number(s.MeanIterations),
		MaxResidual:    Number(s.MaxResidual),
		MaxCorrection:  Number(s.MaxCorrection),
	}
}

// Results writes rows in the requested format. precision applies to the
// table; JSON and CSV always carry full precision. The summary is embedded
// in JSON output only.
func Results(w io.Writer, format Format, rows []Row, summary engine.Summary, precision int) error {
	switch format {
	case FormatTable:
		return renderTable(w, rows, precision)
	case FormatJSON:
		return renderJSON(w, Document{Summary: newSummaryDoc(summary), Results: rows})
	case FormatCSV:
		return renderCSV(w, rows)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renderTable(w io.Writer, rows []Row, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', tabwriter.AlignRight)

	header := make([]string, len(columns))
	rule := make([]string, len(columns))
	for i, c := range columns {
		header[i] = strings.ToUpper(c)
		rule[i] = strings.Repeat("-", len(c))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")+"\t"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, strings.Join(rule, "\t")+"\t"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}

	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row.fields(precision), "\t")+"\t"); err != nil {
			return fmt.Errorf("writing row %d: %w", row.Index, err)
		}
	}
	return tw.Flush()
}

func renderJSON(w io.Writer, doc Document) error {
	if doc.Results == nil {
		doc.Results = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return nil
}

func renderCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row.fields(-1)); err != nil {
			return fmt.Errorf("writing row %d: %w", row.Index, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
