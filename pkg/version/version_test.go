package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVersion(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "v1.2.3"
	assert.Equal(t, "1.2.3", GetVersion())

}

func TestParse(t *testing.T) {
	v, err := Parse("v1.2.3")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v.Major())
	assert.Equal(t, uint64(2), v.Minor())

	_, err = Parse("not-a-version")
	assert.ErrorContains(t, err, "not-a-version")
}

func TestDefaultVersionParses(t *testing.T) {
	_, err := Parse(GetVersion())
	require.NoError(t, err)
}

func TestString(t *testing.T) {
	assert.Contains(t, String(), GetVersion())
	assert.Contains(t, String(), runtime.Version())
}
