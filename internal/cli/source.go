package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/rshade/kepler/internal/ingest"
	"github.com/rshade/kepler/internal/logging"
)

// stdinPath selects standard input for --input.
const stdinPath = "-"

// inputFlags selects where a command reads its batch from: a file, stdin,
// or an evenly spaced generated sweep.
type inputFlags struct {
	path     string
	format   string
	linspace int
	ecc      float64
	start    float64
	stop     float64
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "input", "i", "",
		"Input file with mean anomalies and eccentricities ('-' reads stdin)")
	cmd.Flags().StringVar(&f.format, "format", "",
		"Input format: json, yaml or csv (default: from the file extension, json for stdin)")
	cmd.Flags().IntVar(&f.linspace, "linspace", 0,
		"Generate N evenly spaced mean anomalies instead of reading --input")
	cmd.Flags().Float64Var(&f.ecc, "ecc", 0, "Eccentricity used with --linspace")
	cmd.Flags().Float64Var(&f.start, "start", 0, "First mean anomaly used with --linspace (radians)")
	cmd.Flags().Float64Var(&f.stop, "stop", 2*math.Pi, "Last mean anomaly used with --linspace (radians)")
}

// load returns the batch described by the flags.
func (f *inputFlags) load(ctx context.Context, stdin io.Reader) (*ingest.Input, error) {
	log := logging.FromContext(ctx)

	switch {
	case f.path != "" && f.linspace > 0:
		return nil, errors.New("--input and --linspace are mutually exclusive")
	case f.linspace > 0:
		log.Debug().Ctx(ctx).Str("operation", "load_input").
			Int("count", f.linspace).Float64("ecc", f.ecc).Msg("generating linspace input")
		return ingest.Linspace(f.linspace, f.start, f.stop, f.ecc)
	case f.path == "":
		return nil, errors.New("one of --input or --linspace is required")
	}

	format, err := ingest.ParseFormat(f.format)
	if err != nil {
		return nil, err
	}

	if f.path == stdinPath {
		data, readErr := io.ReadAll(stdin)
		if readErr != nil {
			return nil, fmt.Errorf("reading stdin: %w", readErr)
		}
		return ingest.ParseInputWithContext(ctx, data, format)
	}

	log.Debug().Ctx(ctx).Str("operation", "load_input").Str("path", f.path).Msg("loading input file")
	return ingest.LoadInputWithContext(ctx, f.path, format)
}
