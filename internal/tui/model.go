package tui

import (
	"workbench/internal/fsys"
	"workbench/internal/model"
	"workbench/internal/status"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Row is one visible line of the flattened tree.
type Row struct {
	Node  *model.TreeNode
	Depth int
}

// inputPurpose says what the text input is currently collecting.
type inputPurpose int

const (
	inputNone inputPurpose = iota
	inputFilter
	inputNewFeature
)

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Ws       fsys.Dir
	Tree     *model.TreeNode
	Rows     []Row
	Statuses map[string]status.Status
	Loading  bool
	Err      error

	// UI State
	SelectedIdx int
	Collapsed   map[string]bool
	Filter      string
	StatusLine  string
	WindowSize  tea.WindowSizeMsg

	// Input State
	InputPurpose inputPurpose
	InputBuffer  textinput.Model

	// Components
	PreviewPath     string
	PreviewViewport viewport.Model
}

// InitialModel returns the initial state for a workspace.
func InitialModel(ws fsys.Dir) AppModel {
	ti := textinput.New()
	ti.CharLimit = 60
	ti.Width = 28

	return AppModel{
		Ws:          ws,
		Loading:     true,
		Collapsed:   map[string]bool{},
		Statuses:    map[string]status.Status{},
		InputBuffer: ti,
	}
}

// Init kicks off the first scan.
func (m AppModel) Init() tea.Cmd {
	return m.scanCmd()
}
