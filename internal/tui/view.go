package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muxtab/muxtab/internal/layout"
	"github.com/muxtab/muxtab/internal/session"
)

var (
	paneBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	activePaneBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("11")) // bright yellow for focus

	paneTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	paneDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	prefixArmedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("11")).
				Bold(true)
)

// View renders the TUI
func (m *Model) View() string {
	if m.terminalTooSmall {
		return m.terminalTooSmallView()
	}

	tab := m.store.ActiveTab()
	if tab == nil || m.width == 0 {
		return "Loading..."
	}

	if m.helpMode {
		return m.helpView()
	}

	return m.renderPanes(tab) + "\n" + m.renderStatusBar(tab)
}

// terminalTooSmallView asks for a bigger window
func (m *Model) terminalTooSmallView() string {
	msg := fmt.Sprintf("Terminal too small\nNeed at least %dx%d, have %dx%d",
		MinTerminalWidth, MinTerminalHeight, m.width, m.height)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}

// helpView renders the expanded key binding help
func (m *Model) helpView() string {
	title := paneTitleStyle.Render("muxtab keys")
	chord := fmt.Sprintf(
		"%s then:  %%  split horizontal   \"  split vertical   x  close pane   o  next pane",
		m.settings.PrefixKey,
	)
	m.help.ShowAll = true
	body := title + "\n\n" + chord + "\n\n" + m.help.View(m.keys)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// renderPanes lays the active tab's panes out in cells. The percent
// geometry lives in the store; only this mapping changes with the window.
func (m *Model) renderPanes(tab *session.TerminalTab) string {
	regions := m.paneRegions()
	if len(regions) == 0 {
		return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, "No panes")
	}

	switch tab.Layout {
	case layout.ModeVertical:
		boxes := make([]string, len(regions))
		for i, r := range regions {
			boxes[i] = m.renderPaneBox(tab, r)
		}
		return lipgloss.JoinVertical(lipgloss.Left, boxes...)

	case layout.ModeGrid:
		cols, _ := layout.GridDims(len(regions))
		var rows []string
		for start := 0; start < len(regions); start += cols {
			end := start + cols
			if end > len(regions) {
				end = len(regions)
			}
			boxes := make([]string, 0, end-start)
			for _, r := range regions[start:end] {
				boxes = append(boxes, m.renderPaneBox(tab, r))
			}
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
		}
		return lipgloss.JoinVertical(lipgloss.Left, rows...)

	default:
		boxes := make([]string, len(regions))
		for i, r := range regions {
			boxes[i] = m.renderPaneBox(tab, r)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
	}
}

// renderPaneBox draws one pane at its cell size
func (m *Model) renderPaneBox(tab *session.TerminalTab, r paneRegion) string {
	style := paneBorderStyle
	if r.pane.ID == tab.ActivePaneID {
		style = activePaneBorderStyle
	}

	innerW := r.w - BorderWidth
	innerH := r.h - BorderHeight
	if innerW < 0 {
		innerW = 0
	}
	if innerH < 0 {
		innerH = 0
	}

	title := paneTitleStyle.Render(r.pane.Title)
	var surface string
	if r.pane.Bound() {
		surface = paneDimStyle.Render("term " + shortTerminalID(r.pane.TerminalID))
	} else {
		surface = paneDimStyle.Render("binding...")
	}

	content := lipgloss.Place(innerW, innerH, lipgloss.Center, lipgloss.Center, title+"\n"+surface)
	return style.Width(innerW).Height(innerH).Render(content)
}

func shortTerminalID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// renderStatusBar draws the one-line status bar: tab, layout, pane count,
// and the armed-prefix indicator.
func (m *Model) renderStatusBar(tab *session.TerminalTab) string {
	left := fmt.Sprintf(" %s │ %s │ %d pane", tab.Title, tab.Layout, len(tab.Panes))
	if len(tab.Panes) != 1 {
		left += "s"
	}
	if len(m.store.Tabs()) > 1 {
		left += fmt.Sprintf(" │ tab %d/%d", m.tabIndex(tab)+1, len(m.store.Tabs()))
	}

	right := " ? help "
	if m.chord.Armed() {
		right = prefixArmedStyle.Render(" PREFIX ")
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return statusBarStyle.Render(left+strings.Repeat(" ", gap)) + right
}

func (m *Model) tabIndex(tab *session.TerminalTab) int {
	for i, t := range m.store.Tabs() {
		if t.ID == tab.ID {
			return i
		}
	}
	return 0
}
