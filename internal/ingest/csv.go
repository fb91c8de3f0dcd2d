package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Header names accepted for each CSV column.
//
//nolint:gochecknoglobals // Read-only lookup tables.
var (
	meanAnomalyHeaders  = []string{"m", "mean_anomaly", "mean anomaly"}
	eccentricityHeaders = []string{"e", "ecc", "eccentricity"}
)

// parseCSV reads two numeric columns. A first row that does not parse as
// numbers is a header and may put the columns in either order; without a
// header the order is M, e.
func parseCSV(data []byte) (*Input, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	in := &Input{}
	mCol, eCol := 0, 1
	first := true

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := r.FieldPos(0)

		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: expected 2 columns, got %d", line, len(record))
		}

		if first {
			first = false
			if _, numErr := strconv.ParseFloat(strings.TrimSpace(record[0]), 64); numErr != nil {
				mCol, eCol, err = headerColumns(record)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				continue
			}
		}

		m, err := parseField(record, mCol, line)
		if err != nil {
			return nil, err
		}
		e, err := parseField(record, eCol, line)
		if err != nil {
			return nil, err
		}
		in.MeanAnomaly = append(in.MeanAnomaly, m)
		in.Eccentricity = append(in.Eccentricity, e)
	}

	return in, nil
}

func headerColumns(header []string) (int, int, error) {
	mCol, eCol := -1, -1
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		switch {
		case slices.Contains(meanAnomalyHeaders, name):
			mCol = i
		case slices.Contains(eccentricityHeaders, name):
			eCol = i
		}
	}
	if mCol < 0 || eCol < 0 {
		return 0, 0, fmt.Errorf("header must name a mean anomaly and an eccentricity column, got %q",
			strings.Join(header, ","))
	}
	return mCol, eCol, nil
}

func parseField(record []string, col, line int) (float64, error) {
	if col >= len(record) {
		return 0, fmt.Errorf("line %d: missing column %d", line, col+1)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
	if err != nil {
		return 0, fmt.Errorf("line %d column %d: %w", line, col+1, err)
	}
	return v, nil
}
