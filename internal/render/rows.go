package render

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/rshade/kepler/internal/kepler"
)

// Number is a float64 that encodes NaN and infinities as JSON null.
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// Row is one solved element.
type Row struct {
	Index        int    `json:"index"`
	MeanAnomaly  Number `json:"mean_anomaly"`
	Eccentricity Number `json:"eccentricity"`
	Eccentric    Number `json:"eccentric_anomaly"`
	True         Number `json:"true_anomaly"`
	Converged    bool   `json:"converged"`
}

// Rows pairs the inputs with the solver output. meanAnomaly is reported as
// given, before wrapping.
func Rows(meanAnomaly, ecc []float64, result *kepler.Result) []Row {
	rows := make([]Row, result.Len())
	for i := range rows {
		rows[i] = Row{
			Index:        i,
			MeanAnomaly:  Number(meanAnomaly[i]),
			Eccentricity: Number(ecc[i]),
			Eccentric:    Number(result.Eccentric[i]),
			True:         Number(result.True[i]),
			Converged:    result.Converged == nil || result.Converged[i],
		}
	}
	return rows
}

// columns is the header shared by the table and CSV renderers.
//
//nolint:gochecknoglobals // Read-only header.
var columns = []string{"index", "M", "e", "E", "f", "converged"}

// fields formats a row; precision < 0 means the shortest exact representation.
func (r Row) fields(precision int) []string {
	format := byte('f')
	if precision < 0 {
		format = 'g'
	}
	num := func(n Number) string {
		return strconv.FormatFloat(float64(n), format, precision, 64)
	}
	return []string{
		strconv.Itoa(r.Index),
		num(r.MeanAnomaly),
		num(r.Eccentricity),
		num(r.Eccentric),
		num(r.True),
		strconv.FormatBool(r.Converged),
	}
}
