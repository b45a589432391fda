package tui

import (
	"context"
	"strings"

	"workbench/internal/model"
	"workbench/internal/scan"
	"workbench/internal/schema"
	"workbench/internal/status"
	"workbench/internal/workspace"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// MsgScanReady carries a freshly scanned tree plus agent statuses.
type MsgScanReady struct {
	Tree     *model.TreeNode
	Statuses map[string]status.Status
}

// MsgFileLoaded carries rendered preview content.
type MsgFileLoaded struct {
	Path    string
	Content string
}

// MsgCreated reports a successful feature creation.
type MsgCreated string

// MsgError indicates an error occurred.
type MsgError error

// scanCmd scans the workspace and classifies every agent folder's status.md
// in the same pass, so the view never does I/O.
func (m AppModel) scanCmd() tea.Cmd {
	ws := m.Ws
	return func() tea.Msg {
		ctx := context.Background()
		tree := scan.Scan(ctx, ws)

		statuses := map[string]status.Status{}
		tree.Walk(func(n *model.TreeNode) {
			if !n.IsDir() || !schema.IsAgentDir(n.Path) {
				return
			}
			st := status.NotStarted
			for _, c := range n.Children {
				if c.Name == "status.md" && c.Ref != nil {
					if content, err := c.Ref.ReadText(ctx); err == nil {
						st = status.Parse(content)
					}
				}
			}
			statuses[n.Path] = st
		})
		return MsgScanReady{Tree: tree, Statuses: statuses}
	}
}

// loadFileCmd reads a leaf and renders markdown through glamour.
func (m AppModel) loadFileCmd(node *model.TreeNode) tea.Cmd {
	width := m.WindowSize.Width/2 - 6
	if width < 20 {
		width = 20
	}
	return func() tea.Msg {
		content, err := node.Ref.ReadText(context.Background())
		if err != nil {
			return MsgError(err)
		}
		if strings.HasSuffix(node.Name, ".md") {
			r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
			if err == nil {
				if rendered, err := r.Render(content); err == nil {
					content = rendered
				}
			}
		}
		return MsgFileLoaded{Path: node.Path, Content: content}
	}
}

// createFeatureCmd validates and creates a feature folder under segments.
func (m AppModel) createFeatureCmd(segments []string, name string) tea.Cmd {
	ws := m.Ws
	return func() tea.Msg {
		ctx := context.Background()
		exists, err := workspace.Exists(ctx, ws, append(append([]string{}, segments...), name))
		if err != nil {
			return MsgError(err)
		}
		if exists {
			return MsgError(errDuplicate(name))
		}
		if _, _, err := workspace.CreateFeature(ctx, ws, segments, name); err != nil {
			return MsgError(err)
		}
		return MsgCreated(name)
	}
}

type errDuplicate string

func (e errDuplicate) Error() string { return "feature already exists: " + string(e) }

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.PreviewViewport.Width = msg.Width / 2
		m.PreviewViewport.Height = msg.Height - 6
		return m, nil

	case MsgScanReady:
		m.Loading = false
		m.Err = nil
		m.Tree = msg.Tree
		m.Statuses = msg.Statuses
		m.rebuildRows()
		if m.SelectedIdx >= len(m.Rows) {
			m.SelectedIdx = 0
		}
		return m, nil

	case MsgFileLoaded:
		m.PreviewPath = msg.Path
		m.PreviewViewport.SetContent(msg.Content)
		m.PreviewViewport.GotoTop()
		return m, nil

	case MsgCreated:
		m.StatusLine = "created feature " + string(msg)
		m.Loading = true
		return m, m.scanCmd()

	case MsgError:
		m.StatusLine = msg.Error()
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputPurpose != inputNone {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.PreviewViewport, cmd = m.PreviewViewport.Update(msg)
	return m, cmd
}

func (m AppModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		value := strings.TrimSpace(m.InputBuffer.Value())
		purpose := m.InputPurpose
		m.InputPurpose = inputNone
		m.InputBuffer.Blur()
		m.InputBuffer.SetValue("")

		switch purpose {
		case inputFilter:
			m.Filter = value
			m.rebuildRows()
			m.SelectedIdx = 0
			return m, nil
		case inputNewFeature:
			if value == "" {
				return m, nil
			}
			if !workspace.ValidFeatureName(value) {
				m.StatusLine = "feature name must be lowercase kebab-case"
				return m, nil
			}
			return m, m.createFeatureCmd(schema.FeatureSegments(m.selectedProject()), value)
		}
		return m, nil

	case tea.KeyEsc:
		m.InputPurpose = inputNone
		m.InputBuffer.Blur()
		m.InputBuffer.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.InputBuffer, cmd = m.InputBuffer.Update(msg)
	return m, cmd
}

func (m AppModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
		}
		return m, nil

	case "down", "j":
		if m.SelectedIdx < len(m.Rows)-1 {
			m.SelectedIdx++
		}
		return m, nil

	case "enter":
		if m.SelectedIdx >= len(m.Rows) {
			return m, nil
		}
		node := m.Rows[m.SelectedIdx].Node
		if node.IsDir() {
			m.Collapsed[node.Path] = !m.Collapsed[node.Path]
			m.rebuildRows()
			return m, nil
		}
		return m, m.loadFileCmd(node)

	case "n":
		m.InputPurpose = inputNewFeature
		m.InputBuffer.Placeholder = "new-feature-name"
		m.InputBuffer.Focus()
		m.StatusLine = ""
		return m, nil

	case "/":
		m.InputPurpose = inputFilter
		m.InputBuffer.Placeholder = "filter..."
		m.InputBuffer.SetValue(m.Filter)
		m.InputBuffer.Focus()
		return m, nil

	case "esc":
		if m.Filter != "" {
			m.Filter = ""
			m.rebuildRows()
		}
		m.StatusLine = ""
		return m, nil

	case "r":
		m.Loading = true
		m.StatusLine = ""
		return m, m.scanCmd()
	}

	var cmd tea.Cmd
	m.PreviewViewport, cmd = m.PreviewViewport.Update(msg)
	return m, cmd
}

// selectedProject returns the project the selection sits inside, or "" for
// the top-level features bucket.
func (m AppModel) selectedProject() string {
	if m.SelectedIdx >= len(m.Rows) {
		return ""
	}
	segs := schema.Segments(m.Rows[m.SelectedIdx].Node.Path)
	if len(segs) >= 2 && segs[0] == "projects" {
		return segs[1]
	}
	return ""
}

// rebuildRows flattens the tree into visible rows, honoring collapsed
// directories and the name filter.
func (m *AppModel) rebuildRows() {
	m.Rows = nil
	if m.Tree == nil {
		return
	}
	var walk func(n *model.TreeNode, depth int)
	walk = func(n *model.TreeNode, depth int) {
		for _, c := range n.Children {
			if m.Filter != "" && !m.matchesFilter(c) {
				continue
			}
			m.Rows = append(m.Rows, Row{Node: c, Depth: depth})
			if c.IsDir() && !m.Collapsed[c.Path] {
				walk(c, depth+1)
			}
		}
	}
	walk(m.Tree, 0)
	if m.SelectedIdx >= len(m.Rows) {
		m.SelectedIdx = 0
	}
}

// matchesFilter keeps a node when its own name matches or any descendant's
// name does, so ancestors of a match stay visible.
func (m *AppModel) matchesFilter(n *model.TreeNode) bool {
	needle := strings.ToLower(m.Filter)
	found := false
	n.Walk(func(d *model.TreeNode) {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			found = true
		}
	})
	return found
}
