package tui

import "github.com/charmbracelet/lipgloss"

// ViewState is the screen the model is showing.
type ViewState int

// View states.
const (
	ViewStateList ViewState = iota
	ViewStateDetail
	ViewStateQuitting
)

// Key bindings.
const (
	keyQuit   = "q"
	keyCtrlC  = "ctrl+c"
	keyEsc    = "esc"
	keyEnter  = "enter"
	keyS      = "s"
	keyN      = "n"
	keyPgUp   = "pgup"
	keyPgDown = "pgdown"
)

// Layout defaults.
const (
	defaultWidth  = 100
	defaultHeight = 30
	summaryHeight = 6
	minHeight     = 5
	borderPadding = 2
)

// Palette.
const (
	ColorHeader    = lipgloss.Color("86")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("255")
	ColorMuted     = lipgloss.Color("241")
	ColorWarning   = lipgloss.Color("214")
	ColorOK        = lipgloss.Color("42")
	ColorBorder    = lipgloss.Color("240")
	ColorHighlight = lipgloss.Color("57")
)

// Shared styles.
//
//nolint:gochecknoglobals // Style values are immutable after init.
var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	LabelStyle   = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	SubtleStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	OKStyle      = lipgloss.NewStyle().Foreground(ColorOK).Bold(true)
)

// BoxStyle frames the summary and detail panes.
//
//nolint:gochecknoglobals // Style values are immutable after init.
var BoxStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Padding(0, 1)

// TableHeaderStyle styles the results table header.
//
//nolint:gochecknoglobals // Style values are immutable after init.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorHeader).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(ColorBorder)

// TableSelectedStyle highlights the cursor row.
//
//nolint:gochecknoglobals // Style values are immutable after init.
var TableSelectedStyle = lipgloss.NewStyle().
	Foreground(ColorValue).
	Background(ColorHighlight)
