package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rshade/kepler/internal/logging"
)

// Format identifies an input file encoding.
type Format string

// Supported input formats. FormatAuto picks one from the file extension.
const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

var (
	// ErrUnknownFormat is returned when a format name or extension is not recognized.
	ErrUnknownFormat = errors.New("unknown input format")

	// ErrMalformedInput is returned when data cannot be decoded in its format.
	ErrMalformedInput = errors.New("malformed input")
)

// Input is a pair of equal-length sequences to solve. Lengths are not
// checked here; the solver reports a mismatch.
type Input struct {
	MeanAnomaly  []float64 `json:"mean_anomaly" yaml:"mean_anomaly"`
	Eccentricity []float64 `json:"eccentricity" yaml:"eccentricity"`
}

// Len returns the number of mean anomalies.
func (in *Input) Len() int {
	return len(in.MeanAnomaly)
}

// ParseFormat converts a user supplied name ("json", "yml", "CSV", ...) into a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	default:
		return FormatAuto, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// DetectFormat picks a format from the extension of path.
func DetectFormat(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return FormatAuto, fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// ParseInput decodes data in the given format. FormatAuto is treated as JSON.
func ParseInput(data []byte, format Format) (*Input, error) {
	return ParseInputWithContext(context.Background(), data, format)
}

// ParseInputWithContext is ParseInput with a context used for logging.
func ParseInputWithContext(ctx context.Context, data []byte, format Format) (*Input, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "ingest").
		Str("operation", "parse_input").
		Str("format", string(format)).
		Int("data_size_bytes", len(data)).
		Msg("parsing input")

	var (
		in  Input
		err error
	)
	switch format {
	case FormatAuto, FormatJSON:
		err = json.Unmarshal(data, &in)
	case FormatYAML:
		err = yaml.Unmarshal(data, &in)
	case FormatCSV:
		var parsed *Input
		parsed, err = parseCSV(data)
		if parsed != nil {
			in = *parsed
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s input: %w", ErrMalformedInput, formatName(format), err)
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "ingest").
		Int("mean_anomalies", len(in.MeanAnomaly)).
		Int("eccentricities", len(in.Eccentricity)).
		Msg("input parsed")

	return &in, nil
}

// LoadInput reads and decodes the file at path.
func LoadInput(path string, format Format) (*Input, error) {
	return LoadInputWithContext(context.Background(), path, format)
}

// LoadInputWithContext reads the file at path, detecting the format from the
// extension when format is FormatAuto.
func LoadInputWithContext(ctx context.Context, path string, format Format) (*Input, error) {
	if format == FormatAuto {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	return ParseInputWithContext(ctx, data, format)
}

func formatName(f Format) string {
	if f == FormatAuto {
		return string(FormatJSON)
	}
	return string(f)
}
