package tui

import (
	"math"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/kepler/internal/engine"
	"github.com/rshade/kepler/internal/kepler"
	"github.com/rshade/kepler/internal/render"
)

func newTestModel(t *testing.T, n int, cfg kepler.Config) ResultsModel {
	t.Helper()
	m := make([]float64, n)
	e := make([]float64, n)
	for i := range n {
		m[i] = 2*math.Pi*float64(n-i)/float64(n) - math.Pi
		e[i] = 0.9
	}
	result, err := kepler.Solve(m, e, cfg)
	require.NoError(t, err)
	return NewResultsModel(render.Rows(m, e, result), engine.Summarize(m, e, result), render.RunInfo{Partitions: 1})
}

func update(t *testing.T, m ResultsModel, msg tea.Msg) (ResultsModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(ResultsModel)
	require.True(t, ok)
	return model, cmd
}

func TestNewResultsModel(t *testing.T) {
	model := newTestModel(t, 10, kepler.DefaultConfig())

	assert.Equal(t, ViewStateList, model.state)
	assert.Len(t, model.rows, 10)
	assert.Equal(t, SortByIndex, model.sortBy)
	assert.False(t, model.paginationEnabled)
	assert.Nil(t, model.Init())
	assert.Contains(t, model.View(), "KEPLER SOLVE")
}

func TestResultsModel_DetailToggle(t *testing.T) {
	model := newTestModel(t, 5, kepler.DefaultConfig())

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewStateDetail, model.state)
	assert.Contains(t, model.View(), "ELEMENT 0")

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewStateList, model.state)

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, ViewStateList, model.state)
}

func TestResultsModel_Quit(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEscape},
		{Type: tea.KeyCtrlC},
	} {
		model := newTestModel(t, 3, kepler.DefaultConfig())
		model, cmd := update(t, model, key)
		assert.Equal(t, ViewStateQuitting, model.state, key.String())
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
		assert.Empty(t, model.View())
	}

	model := newTestModel(t, 3, kepler.DefaultConfig())
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	model, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Equal(t, ViewStateQuitting, model.state)
	assert.NotNil(t, cmd)
}

func TestResultsModel_Sort(t *testing.T) {
	model := newTestModel(t, 20, kepler.DefaultConfig())
	assert.Equal(t, 0, model.rows[0].Index)

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	assert.Equal(t, SortByMeanAnomaly, model.sortBy)
	for i := 1; i < len(model.rows); i++ {
		assert.LessOrEqual(t, model.rows[i-1].wrapped, model.rows[i].wrapped)
	}

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	assert.Equal(t, SortByResidual, model.sortBy)
	for i := 1; i < len(model.rows); i++ {
		assert.GreaterOrEqual(t, model.rows[i-1].residual, model.rows[i].residual)
	}
	assert.Contains(t, model.View(), "Sort: Residual")

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	assert.Equal(t, SortByIndex, model.sortBy)
}

func TestResultsModel_NonConvergedFilter(t *testing.T) {
	model := newTestModel(t, 12, kepler.Config{MaxIterations: 1, Tolerance: 1e-12})
	require.Positive(t, model.summary.NonConverged)

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.True(t, model.nonConvergedOnly)
	assert.Len(t, model.rows, model.summary.NonConverged)
	for _, r := range model.rows {
		assert.False(t, r.Converged)
	}
	assert.Contains(t, model.View(), "did not converge")

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.Len(t, model.rows, 12)
}

func TestResultsModel_Pagination(t *testing.T) {
	model := newTestModel(t, maxRowsPerPage+10, kepler.DefaultConfig())
	require.True(t, model.paginationEnabled)
	assert.Equal(t, 2, model.totalPages)
	assert.Len(t, model.visibleRows(), maxRowsPerPage)

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 2, model.currentPage)
	assert.Len(t, model.visibleRows(), 10)
	assert.Equal(t, maxRowsPerPage, model.absoluteIndex(0))

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 2, model.currentPage)

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, 1, model.currentPage)
}

func TestResultsModel_WindowResize(t *testing.T) {
	model := newTestModel(t, 3, kepler.DefaultConfig())
	model, _ = update(t, model, tea.WindowSizeMsg{Width: 140, Height: 50})
	assert.Equal(t, 140, model.width)
	assert.Equal(t, 50, model.height)
}

func TestResultsModel_Empty(t *testing.T) {
	model := NewResultsModel(nil, engine.Summary{}, render.RunInfo{})
	assert.Contains(t, model.View(), "No elements")

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewStateList, model.state)
}

func TestCompareFloat(t *testing.T) {
	assert.Equal(t, -1, compareFloat(1, 2))
	assert.Equal(t, 1, compareFloat(math.NaN(), 2))
	assert.Equal(t, -1, compareFloat(2, math.NaN()))
	assert.Equal(t, 0, compareFloat(math.NaN(), math.NaN()))
}
