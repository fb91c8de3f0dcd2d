package tui

import (
	"context"
	"math"
	"slices"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/kepler/internal/engine"
	"github.com/rshade/kepler/internal/kepler"
	"github.com/rshade/kepler/internal/render"
)

// maxRowsPerPage bounds how many rows the table holds at once.
const maxRowsPerPage = 500

// cellPrecision is the number of decimals shown in table cells.
const cellPrecision = 8

// SortField orders the table.
type SortField int

// Sort fields, cycled with 's'.
const (
	SortByIndex SortField = iota
	SortByMeanAnomaly
	SortByResidual
	numSortFields
)

// String returns the label shown in the status bar.
func (s SortField) String() string {
	switch s {
	case SortByIndex:
		return "Index"
	case SortByMeanAnomaly:
		return "M"
	case SortByResidual:
		return "Residual"
	default:
		return "Unknown"
	}
}

// resultRow is a render.Row with the residual precomputed for sorting and
// the detail view.
type resultRow struct {
	render.Row

	wrapped  float64
	residual float64
}

// ResultsModel is the Bubble Tea model for browsing a solved batch.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View.
type ResultsModel struct {
	state   ViewState
	allRows []resultRow
	rows    []resultRow
	summary engine.Summary
	info    render.RunInfo

	table    table.Model
	selected int

	width             int
	height            int
	sortBy            SortField
	nonConvergedOnly  bool
	paginationEnabled bool
	currentPage       int
	totalPages        int
}

// NewResultsModel creates a model over rows, which should come from
// render.Rows.
func NewResultsModel(rows []render.Row, summary engine.Summary, info render.RunInfo) ResultsModel {
	all := make([]resultRow, len(rows))
	for i, r := range rows {
		m := kepler.NormalizeAngle(float64(r.MeanAnomaly))
		all[i] = resultRow{
			Row:      r,
			wrapped:  m,
			residual: math.Abs(kepler.Residual(float64(r.Eccentric), float64(r.Eccentricity), m)),
		}
	}

	model := ResultsModel{
		state:       ViewStateList,
		allRows:     all,
		summary:     summary,
		info:        info,
		width:       defaultWidth,
		height:      defaultHeight,
		sortBy:      SortByIndex,
		currentPage: 1,
	}
	model.applyFilter()
	return model
}

// Init implements tea.Model.
func (m ResultsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if winMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = winMsg.Width
		m.height = winMsg.Height
		m.rebuildTable()
		return m, nil
	}

	switch m.state {
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	default:
		return m, nil
	}
}

func (m ResultsModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case keyQuit, keyEsc, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEnter:
		m.selected = m.absoluteIndex(m.table.Cursor())
		if m.selected >= 0 && m.selected < len(m.rows) {
			m.state = ViewStateDetail
		}
		return m, nil
	case keyS:
		m.sortBy = (m.sortBy + 1) % numSortFields
		m.sortRows()
		m.rebuildTable()
		return m, nil
	case keyN:
		m.nonConvergedOnly = !m.nonConvergedOnly
		m.applyFilter()
		return m, nil
	case keyPgUp:
		if m.paginationEnabled && m.currentPage > 1 {
			m.currentPage--
			m.rebuildTable()
		}
		return m, nil
	case keyPgDown:
		if m.paginationEnabled && m.currentPage < m.totalPages {
			m.currentPage++
			m.rebuildTable()
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}
}

func (m ResultsModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEnter, keyEsc:
		m.state = ViewStateList
		m.table.Focus()
	}
	return m, nil
}

func (m ResultsModel) absoluteIndex(cursor int) int {
	if m.paginationEnabled {
		return (m.currentPage-1)*maxRowsPerPage + cursor
	}
	return cursor
}

// applyFilter recomputes the visible rows and resets pagination.
func (m *ResultsModel) applyFilter() {
	if m.nonConvergedOnly {
		m.rows = make([]resultRow, 0)
		for _, r := range m.allRows {
			if !r.Converged {
				m.rows = append(m.rows, r)
			}
		}
	} else {
		m.rows = slices.Clone(m.allRows)
	}

	m.paginationEnabled = len(m.rows) > maxRowsPerPage
	m.totalPages = max(1, (len(m.rows)+maxRowsPerPage-1)/maxRowsPerPage)
	m.currentPage = 1

	m.sortRows()
	m.rebuildTable()
}

func (m *ResultsModel) sortRows() {
	switch m.sortBy {
	case SortByIndex:
		slices.SortStableFunc(m.rows, func(a, b resultRow) int { return a.Index - b.Index })
	case SortByMeanAnomaly:
		slices.SortStableFunc(m.rows, func(a, b resultRow) int { return compareFloat(a.wrapped, b.wrapped) })
	case SortByResidual:
		// Largest residual first.
		slices.SortStableFunc(m.rows, func(a, b resultRow) int { return compareFloat(b.residual, a.residual) })
	}
}

// compareFloat orders NaN after every number.
func compareFloat(a, b float64) int {
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return 0
	case math.IsNaN(a):
		return 1
	case math.IsNaN(b):
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (m *ResultsModel) visibleRows() []resultRow {
	if !m.paginationEnabled {
		return m.rows
	}
	start := (m.currentPage - 1) * maxRowsPerPage
	if start >= len(m.rows) {
		return nil
	}
	return m.rows[start:min(start+maxRowsPerPage, len(m.rows))]
}

func (m *ResultsModel) rebuildTable() {
	columns := []table.Column{
		{Title: "#", Width: 8},         //nolint:mnd // Column width.
		{Title: "M", Width: 13},        //nolint:mnd // Column width.
		{Title: "e", Width: 11},        //nolint:mnd // Column width.
		{Title: "E", Width: 13},        //nolint:mnd // Column width.
		{Title: "f", Width: 13},        //nolint:mnd // Column width.
		{Title: "Residual", Width: 10}, //nolint:mnd // Column width.
		{Title: "Converged", Width: 9}, //nolint:mnd // Column width.
	}

	visible := m.visibleRows()
	rows := make([]table.Row, len(visible))
	for i, r := range visible {
		rows[i] = table.Row{
			strconv.Itoa(r.Index),
			formatCell(float64(r.MeanAnomaly)),
			formatCell(float64(r.Eccentricity)),
			formatCell(float64(r.Eccentric)),
			formatCell(float64(r.True)),
			strconv.FormatFloat(r.residual, 'e', 1, 64),
			convergedLabel(r.Converged),
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-summaryHeight-1, minHeight)),
	)
	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)

	m.table = t
}

func formatCell(v float64) string {
	return strconv.FormatFloat(v, 'f', cellPrecision, 64)
}

func convergedLabel(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}

// Run shows the model full screen until the user quits or ctx is done.
func Run(ctx context.Context, model ResultsModel) error {
	_, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}
