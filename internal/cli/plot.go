package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/rshade/kepler/internal/config"
	"github.com/rshade/kepler/internal/engine"
	"github.com/rshade/kepler/internal/logging"
	"github.com/rshade/kepler/internal/plot"
)

type plotParams struct {
	input  inputFlags
	out    string
	title  string
	width  float64
	height float64
}

// NewPlotCmd creates the "plot" command, which solves a batch and charts
// E and f against the wrapped mean anomaly.
func NewPlotCmd() *cobra.Command {
	var params plotParams

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Chart the eccentric and true anomalies of a batch",
		Long: `Solve a batch with the configured solver settings and chart E and f
against M wrapped into [-pi, pi). The image format follows the extension of
--out: .png, .svg or .pdf.`,
		Example: `  # Chart a generated sweep
  kepler plot --linspace 720 --ecc 0.9 --out anomalies.png

  # Chart a batch from a file as SVG
  kepler plot --input orbits.json --out orbits.svg --title "Survey orbits"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executePlot(cmd, params)
		},
	}

	params.input.register(cmd)
	cmd.Flags().StringVar(&params.out, "out", "", "Output image path (.png, .svg or .pdf)")
	cmd.Flags().StringVar(&params.title, "title", "", "Chart title")
	cmd.Flags().Float64Var(&params.width, "width", float64(plot.DefaultWidth/vg.Inch), "Chart width in inches")
	cmd.Flags().Float64Var(&params.height, "height", float64(plot.DefaultHeight/vg.Inch), "Chart height in inches")

	return cmd
}

func executePlot(cmd *cobra.Command, params plotParams) error {
	ctx := cmd.Context()
	if params.out == "" {
		return errors.New("--out is required")
	}
	if _, err := plot.FormatFor(params.out); err != nil {
		return err
	}

	in, err := params.input.load(ctx, cmd.InOrStdin())
	if err != nil {
		return classifySolveError(err)
	}

	cfg := config.GetGlobalConfig()
	resp, err := engine.New().Solve(ctx, &engine.Request{
		MeanAnomaly:   in.MeanAnomaly,
		Eccentricity:  in.Eccentricity,
		Solver:        cfg.Solver.KeplerConfig(),
		PartitionSize: cfg.Solver.PartitionSize,
		Concurrency:   cfg.Solver.Concurrency,
		SkipCache:     true,
	})
	if err != nil {
		return classifySolveError(err)
	}

	opts := plot.Options{
		Title:  params.title,
		Width:  vg.Length(params.width) * vg.Inch,
		Height: vg.Length(params.height) * vg.Inch,
	}
	if err = plot.Save(params.out, in.MeanAnomaly, resp.Result, opts); err != nil {
		return err
	}

	logging.FromContext(ctx).Info().Ctx(ctx).Str("operation", "plot").
		Str("path", params.out).Int("elements", in.Len()).Msg("chart written")
	cmd.Printf("Chart written to %s\n", params.out)
	return nil
}
