package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/mmcdole/memorylane/internal/tui/components"
	"github.com/mmcdole/memorylane/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	switch m.State {
	case StateLoading:
		return m.renderLoader()
	case StateHelp:
		return m.renderHelp()
	case StateJumping:
		return m.JumpModal.View()
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderLane(), m.navDots().View())
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())
}

// renderLane draws the visible part of the document through the viewport
func (m Model) renderLane() string {
	playing := m.playingSection()
	rs := renderState{
		width:   m.Viewport.Width,
		viewTop: m.Offset,
		view:    m.Viewport.Height,
	}

	doc := make([]string, 0, m.layout.total)
	for i, s := range m.Scenes {
		if s == nil {
			doc = append(doc, make([]string, m.layout.lines[i])...)
			continue
		}
		rs.playing = playing == s.Section.ID
		doc = append(doc, s.Render(rs)...)
	}

	vp := m.Viewport
	vp.SetContent(strings.Join(doc, "\n"))
	vp.SetYOffset(m.Offset)
	return vp.View()
}

func (m Model) navDots() components.NavDots {
	return components.NavDots{
		Count:   len(m.Scenes),
		Active:  m.Active,
		Visited: func(i int) bool { return m.visited[i] },
		Width:   NavWidth,
		Height:  m.Viewport.Height,
	}
}

// renderLoader renders the intro loader
func (m Model) renderLoader() string {
	title := "Memory Lane"
	if m.Lane != nil && m.Lane.Title != "" {
		title = m.Lane.Title
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		styles.TitleStyle.Render(title),
		"",
		m.Spinner.View()+" "+styles.DimStyle.Render("Gathering our memories..."),
		"",
		styles.DimStyle.Render("press any key to skip"),
	)

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		content)
}

func (m Model) renderFooter() string {
	// Left side: status message, or where the reader is
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.DimStyle.Render(m.StatusMsg)
	case m.tracker != nil && m.tracker.finished && m.Active == len(m.Scenes)-1:
		left = styles.AccentStyle.Render("♥") + styles.DimStyle.Render(" the end, thank you for walking with me")
	case m.Active >= 0 && m.Active < m.Lane.Len():
		sec := m.Lane.Sections[m.Active]
		left = styles.DimStyle.Render(fmt.Sprintf("%d/%d · %s", m.Active+1, m.Lane.Len(), sec.Title))
	}

	// Center section: whole-lane progress
	center := m.Progress.ViewAs(m.LaneProgress())

	// Right side: "? help" hint
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	// Layout: left + centered progress + right
	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	totalContent := leftWidth + centerWidth + rightWidth
	if totalContent >= m.Width {
		// Not enough space - just left + right
		gap := m.Width - leftWidth - rightWidth
		if gap < 0 {
			gap = 0
		}
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	h := m.Help
	h.ShowAll = true

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Walking memory lane"),
		h.View(Keys),
		"",
		styles.DimStyle.Render("1-9 jump to a memory · wheel scrolls · click a dot to jump"),
		"",
		styles.DimStyle.Render("Press any key to return..."),
	)

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(content))
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wordLen := runewidth.StringWidth(word)

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
