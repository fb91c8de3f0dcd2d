package ingest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/kepler/internal/ingest"
)

func TestParseFormat(t *testing.T) {
	tests := map[string]ingest.Format{
		"":     ingest.FormatAuto,
		"auto": ingest.FormatAuto,
		"JSON": ingest.FormatJSON,
		".yml": ingest.FormatYAML,
		"yaml": ingest.FormatYAML,
		"csv":  ingest.FormatCSV,
		".CSV": ingest.FormatCSV,
	}
	for name, want := range tests {
		got, err := ingest.ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ingest.ParseFormat("xml")
	assert.ErrorIs(t, err, ingest.ErrUnknownFormat)

	_, err = ingest.DetectFormat("orbits")
	assert.ErrorIs(t, err, ingest.ErrUnknownFormat)
}

func TestParseInput_JSON(t *testing.T) {
	in, err := ingest.ParseInput([]byte(`{"mean_anomaly":[0,1.5],"eccentricity":[0.1,0.2]}`), ingest.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1.5}, in.MeanAnomaly)
	assert.Equal(t, []float64{0.1, 0.2}, in.Eccentricity)
	assert.Equal(t, 2, in.Len())

	_, err = ingest.ParseInput([]byte(`{"mean_anomaly":"nope"}`), ingest.FormatAuto)
	require.Error(t, err)
	assert.ErrorIs(t, err, ingest.ErrMalformedInput)
	assert.Contains(t, err.Error(), "parsing json input")
}

func TestParseInput_YAML(t *testing.T) {
	in, err := ingest.ParseInput([]byte("mean_anomaly: [0, 3.14]\neccentricity:\n  - 0\n  - 0.5\n"), ingest.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3.14}, in.MeanAnomaly)
	assert.Equal(t, []float64{0, 0.5}, in.Eccentricity)
}

func TestParseInput_MismatchedLengthsPassThrough(t *testing.T) {
	in, err := ingest.ParseInput([]byte(`{"mean_anomaly":[1,2,3],"eccentricity":[0.1]}`), ingest.FormatJSON)
	require.NoError(t, err)
	assert.Len(t, in.MeanAnomaly, 3)
	assert.Len(t, in.Eccentricity, 1)
}

func TestParseInput_CSV(t *testing.T) {
	tests := []struct {
		name string
		data string
		m    []float64
		e    []float64
	}{
		{
			name: "no header",
			data: "0,0.1\n1.5, 0.2\n",
			m:    []float64{0, 1.5},
			e:    []float64{0.1, 0.2},
		},
		{
			name: "header",
			data: "M,e\n0,0.1\n-2,0.9\n",
			m:    []float64{0, -2},
			e:    []float64{0.1, 0.9},
		},
		{
			name: "reordered header with comments and extra column",
			data: "# generated\neccentricity,label,mean_anomaly\n0.3,a,1\n0.4,b,2\n",
			m:    []float64{1, 2},
			e:    []float64{0.3, 0.4},
		},
		{
			name: "empty",
			data: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ingest.ParseInput([]byte(tt.data), ingest.FormatCSV)
			require.NoError(t, err)
			assert.Equal(t, tt.m, in.MeanAnomaly)
			assert.Equal(t, tt.e, in.Eccentricity)
		})
	}
}

func TestParseInput_CSVErrors(t *testing.T) {
	tests := map[string]string{
		"one column":     "1\n2\n",
		"bad number":     "0,0.1\n1,abc\n",
		"unknown header": "x,y\n1,2\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ingest.ParseInput([]byte(data), ingest.FormatCSV)
			require.Error(t, err)
			assert.ErrorIs(t, err, ingest.ErrMalformedInput)
			assert.Contains(t, err.Error(), "line")
		})
	}
}

func TestLoadInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orbits.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mean_anomaly: [1]\neccentricity: [0.5]\n"), 0o600))

	in, err := ingest.LoadInput(path, ingest.FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, in.MeanAnomaly)

	// An explicit format wins over the extension.
	csvPath := filepath.Join(dir, "orbits.txt")
	require.NoError(t, os.WriteFile(csvPath, []byte("1,0.5\n"), 0o600))
	in, err = ingest.LoadInput(csvPath, ingest.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, in.Eccentricity)

	_, err = ingest.LoadInput(filepath.Join(dir, "missing.json"), ingest.FormatAuto)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ingest.LoadInput(csvPath, ingest.FormatAuto)
	assert.ErrorIs(t, err, ingest.ErrUnknownFormat)
}
