package tui

import (
	"fmt"
	"strings"

	"workbench/internal/model"
	"workbench/internal/schema"
	"workbench/internal/status"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	dirStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	fileStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	completedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	blockedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	inProgressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func (m AppModel) View() string {
	if m.Loading {
		return "\n  Scanning workspace... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}

	width := m.WindowSize.Width
	height := m.WindowSize.Height

	netWidth := width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	leftWidth := netWidth / 2
	rightWidth := netWidth - leftWidth

	boxHeight := height - 5
	if boxHeight < 6 {
		boxHeight = 6
	}
	interiorHeight := boxHeight - 2

	// LEFT PANEL: workspace tree
	var left strings.Builder
	left.WriteString(titleStyle.Render("Workspace"))
	if m.Filter != "" {
		left.WriteString(dimStyle.Render("  filter: " + m.Filter))
	}
	left.WriteString("\n\n")

	top, bottom := window(m.SelectedIdx, len(m.Rows), interiorHeight-3)
	for i := top; i < bottom; i++ {
		left.WriteString(m.renderRow(i))
		left.WriteString("\n")
	}
	if len(m.Rows) == 0 {
		left.WriteString(dimStyle.Render("  (empty workspace)"))
	}

	// RIGHT PANEL: file preview
	var right strings.Builder
	if m.PreviewPath != "" {
		right.WriteString(titleStyle.Render(m.PreviewPath))
	} else {
		right.WriteString(titleStyle.Render("Preview"))
	}
	right.WriteString("\n\n")
	if m.PreviewPath == "" {
		right.WriteString(dimStyle.Render("Select a file and press enter."))
	} else {
		right.WriteString(m.PreviewViewport.View())
	}

	leftBox := borderStyle.Width(leftWidth).Height(boxHeight).Render(left.String())
	rightBox := borderStyle.Width(rightWidth).Height(boxHeight).Render(right.String())
	panels := lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)

	footer := m.footer()
	return panels + "\n" + footer
}

func (m AppModel) renderRow(i int) string {
	row := m.Rows[i]
	node := row.Node
	indent := strings.Repeat("  ", row.Depth)

	icon := model.IconFile
	if node.IsDir() {
		icon = model.IconDirOpen
		if m.Collapsed[node.Path] {
			icon = model.IconDirClosed
		}
	}

	label := indent + icon + " " + node.Name
	if node.IsDir() && schema.IsAgentDir(node.Path) {
		label += " " + m.statusBadge(m.Statuses[node.Path])
	}

	if i == m.SelectedIdx {
		return selectedStyle.Render("> " + label)
	}
	if node.IsDir() {
		return "  " + dirStyle.Render(label)
	}
	return "  " + fileStyle.Render(label)
}

func (m AppModel) statusBadge(st status.Status) string {
	text := status.DisplayText(st)
	switch st {
	case status.Completed:
		return completedStyle.Render(model.IconCompleted + " " + text)
	case status.Blocked:
		return blockedStyle.Render(model.IconBlocked + " " + text)
	case status.InProgress:
		return inProgressStyle.Render(model.IconInProgress + " " + text)
	}
	return dimStyle.Render(text)
}

func (m AppModel) footer() string {
	if m.InputPurpose != inputNone {
		prompt := "filter"
		if m.InputPurpose == inputNewFeature {
			prompt = "new feature"
		}
		return fmt.Sprintf(" %s: %s", prompt, m.InputBuffer.View())
	}
	keys := dimStyle.Render(" ↑/↓ move · enter open · n new feature · / filter · r rescan · q quit")
	if m.StatusLine != "" {
		return " " + m.StatusLine + "\n" + keys
	}
	return keys
}

// window returns the visible slice bounds keeping the selection in view.
func window(selected, total, visible int) (int, int) {
	if visible < 1 {
		visible = 1
	}
	if total <= visible {
		return 0, total
	}
	top := selected - visible/2
	if top < 0 {
		top = 0
	}
	if top+visible > total {
		top = total - visible
	}
	return top, top + visible
}
