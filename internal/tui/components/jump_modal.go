package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/mmcdole/memorylane/internal/service"
	"github.com/mmcdole/memorylane/internal/tui/styles"
)

const maxJumpResults = 9

// JumpModal is the fuzzy jump-to-memory modal
type JumpModal struct {
	input     textinput.Model
	results   []service.SectionMatch
	cursor    int
	visible   bool
	width     int
	height    int
	prevQuery string
}

// NewJumpModal creates a new jump modal component
func NewJumpModal() JumpModal {
	ti := textinput.New()
	ti.Placeholder = "Jump to a memory..."
	ti.CharLimit = 60
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return JumpModal{
		input: ti,
	}
}

// Show makes the modal visible and focuses the input
func (j *JumpModal) Show() tea.Cmd {
	j.visible = true
	j.input.SetValue("")
	j.results = nil
	j.cursor = 0
	j.prevQuery = ""
	return j.input.Focus()
}

// Hide hides the modal
func (j *JumpModal) Hide() {
	j.visible = false
	j.input.Blur()
}

// IsVisible returns true if the modal is visible
func (j JumpModal) IsVisible() bool {
	return j.visible
}

// SetResults sets the search results
func (j *JumpModal) SetResults(results []service.SectionMatch) {
	j.results = results
	j.cursor = 0
}

// SetSize updates the component dimensions
func (j *JumpModal) SetSize(width, height int) {
	j.width = width
	j.height = height
	j.input.Width = max(10, min(width, 80)*2/3-10)
}

// Query returns the current search query
func (j JumpModal) Query() string {
	return j.input.Value()
}

// QueryChanged returns true if the query changed since last check and updates prevQuery
func (j *JumpModal) QueryChanged() bool {
	current := j.input.Value()
	if current != j.prevQuery {
		j.prevQuery = current
		return true
	}
	return false
}

// Selected returns the highlighted result
func (j JumpModal) Selected() (service.SectionMatch, bool) {
	if j.cursor < 0 || j.cursor >= len(j.results) {
		return service.SectionMatch{}, false
	}
	return j.results[j.cursor], true
}

// Update handles messages. The bool is true when a result was chosen.
func (j JumpModal) Update(msg tea.Msg) (JumpModal, tea.Cmd, bool) {
	if !j.visible {
		return j, nil, false
	}

	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, JumpModalKeys.Escape):
			j.Hide()
			return j, nil, false

		case key.Matches(msg, JumpModalKeys.Enter):
			return j, nil, len(j.results) > 0

		case key.Matches(msg, JumpModalKeys.Down):
			if j.cursor < min(len(j.results), maxJumpResults)-1 {
				j.cursor++
			}
			return j, nil, false

		case key.Matches(msg, JumpModalKeys.Up):
			if j.cursor > 0 {
				j.cursor--
			}
			return j, nil, false
		}
	}

	j.input, cmd = j.input.Update(msg)
	return j, cmd, false
}

// View renders the component
func (j JumpModal) View() string {
	if !j.visible {
		return ""
	}

	modalWidth := min(max(j.width*2/3, 40), 80)

	var b strings.Builder
	b.WriteString(j.input.View())
	b.WriteString("\n\n")
	j.renderResults(&b, modalWidth)

	content := lipgloss.NewStyle().
		Width(modalWidth - 4).
		Render(b.String())

	modal := styles.ModalStyle.
		Width(modalWidth).
		Render(content)

	return lipgloss.Place(
		j.width,
		j.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}

func (j JumpModal) renderResults(b *strings.Builder, modalWidth int) {
	if len(j.results) == 0 {
		if j.input.Value() != "" {
			b.WriteString(styles.DimStyle.Render("No memories match"))
		}
		return
	}

	count := min(len(j.results), maxJumpResults)
	for i := 0; i < count; i++ {
		r := j.results[i]

		style := styles.NormalItemStyle
		if i == j.cursor {
			style = styles.SelectedItemStyle
		}

		num := styles.DimStyle.Render(fmt.Sprintf("%d", r.Index+1))
		label := runewidth.Truncate(r.Section.Label(), modalWidth-12, "…")
		b.WriteString(num + " " + style.Render(label))
		b.WriteString("\n")
	}

	if len(j.results) > maxJumpResults {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", len(j.results)-maxJumpResults)))
	}
}
