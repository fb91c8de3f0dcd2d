// Package plot draws the eccentric and true anomaly of a solved batch
// against the wrapped mean anomaly with gonum/plot.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"slices"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/rshade/kepler/internal/kepler"
)

// Default chart size.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

// ErrUnsupportedFormat is returned for image formats other than png, svg and pdf.
var ErrUnsupportedFormat = errors.New("unsupported chart format")

// ErrNoData is returned when nothing finite is left to draw.
var ErrNoData = errors.New("no finite points to plot")

//nolint:gochecknoglobals // Fixed palette.
var (
	eccentricColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	trueColor      = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	meanColor      = color.RGBA{R: 127, G: 127, B: 127, A: 255}
)

// Options controls the chart appearance.
type Options struct {
	Title  string
	Width  vg.Length
	Height vg.Length
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Title == "" {
		o.Title = "Kepler solution"
	}
	return o
}

// FormatFor returns the image format implied by path's extension.
func FormatFor(path string) (string, error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch format {
	case "png", "svg", "pdf":
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q (want .png, .svg or .pdf)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// New builds the chart: E and f against M wrapped into [-pi, pi), points
// ordered by M, with the identity line E = M for reference. Non-finite
// points are skipped.
func New(meanAnomaly []float64, result *kepler.Result, opts Options) (*plot.Plot, error) {
	opts = opts.withDefaults()

	eccentric, trueAnomaly := series(meanAnomaly, result)
	if len(eccentric) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "mean anomaly M (rad)"
	p.Y.Label.Text = "anomaly (rad)"
	p.X.Min, p.X.Max = -math.Pi, math.Pi
	p.Y.Min, p.Y.Max = -math.Pi, math.Pi
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	identity := plotter.NewFunction(func(x float64) float64 { return x })
	identity.Color = meanColor
	identity.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(identity)
	p.Legend.Add("M", identity)

	for _, s := range []struct {
		name  string
		pts   plotter.XYs
		color color.Color
	}{
		{"E", eccentric, eccentricColor},
		{"f", trueAnomaly, trueColor},
	} {
		line, err := plotter.NewLine(s.pts)
		if err != nil {
			return nil, fmt.Errorf("building %s series: %w", s.name, err)
		}
		line.Color = s.color
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	return p, nil
}

// Save renders the chart to path, choosing the format from its extension.
func Save(path string, meanAnomaly []float64, result *kepler.Result, opts Options) error {
	if _, err := FormatFor(path); err != nil {
		return err
	}
	opts = opts.withDefaults()

	p, err := New(meanAnomaly, result, opts)
	if err != nil {
		return err
	}
	if err = p.Save(opts.Width, opts.Height, path); err != nil {
		return fmt.Errorf("saving chart %s: %w", path, err)
	}
	return nil
}

// Write renders the chart in format ("png", "svg" or "pdf") to w.
func Write(w io.Writer, format string, meanAnomaly []float64, result *kepler.Result, opts Options) error {
	if _, err := FormatFor("chart." + format); err != nil {
		return err
	}
	opts = opts.withDefaults()

	p, err := New(meanAnomaly, result, opts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, format)
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	if _, err = wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	return nil
}

func series(meanAnomaly []float64, result *kepler.Result) (plotter.XYs, plotter.XYs) {
	idx := make([]int, 0, result.Len())
	wrapped := make([]float64, result.Len())
	for i := range wrapped {
		wrapped[i] = kepler.NormalizeAngle(meanAnomaly[i])
		if finite(wrapped[i]) && finite(result.Eccentric[i]) && finite(result.True[i]) {
			idx = append(idx, i)
		}
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case wrapped[a] < wrapped[b]:
			return -1
		case wrapped[a] > wrapped[b]:
			return 1
		default:
			return 0
		}
	})

	eccentric := make(plotter.XYs, len(idx))
	trueAnomaly := make(plotter.XYs, len(idx))
	for k, i := range idx {
		eccentric[k] = plotter.XY{X: wrapped[i], Y: result.Eccentric[i]}
		trueAnomaly[k] = plotter.XY{X: wrapped[i], Y: result.True[i]}
	}
	return eccentric, trueAnomaly
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
