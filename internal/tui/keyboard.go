package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const wheelStep = 3

var heartGlyphs = []string{"♥", "♡", "❤"}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle state-specific keys
	switch m.State {
	case StateLoading:
		if key.Matches(msg, Keys.Quit) {
			return m, tea.Quit
		}
		// Any other key skips the loader
		return m, m.finishLoading()

	case StateHelp:
		// Any key returns
		m.State = StateBrowsing
		return m, nil

	case StateJumping:
		return m.handleJumpKey(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Jump):
		m.State = StateJumping
		cmd := m.JumpModal.Show()
		if m.SearchSvc != nil {
			m.JumpModal.SetResults(m.SearchSvc.Find(""))
		}
		return m, cmd

	case key.Matches(msg, Keys.Escape):
		m.StatusMsg = ""
		return m, nil

	case key.Matches(msg, Keys.Up):
		return m, m.scrollBy(-1)

	case key.Matches(msg, Keys.Down):
		return m, m.scrollBy(1)

	case key.Matches(msg, Keys.HalfUp):
		return m, m.scrollBy(-m.Viewport.Height / 2)

	case key.Matches(msg, Keys.HalfDown):
		return m, m.scrollBy(m.Viewport.Height / 2)

	case key.Matches(msg, Keys.NextSection):
		return m, m.jumpToSection(m.Active + 1)

	case key.Matches(msg, Keys.PrevSection):
		return m, m.jumpToSection(m.Active - 1)

	case key.Matches(msg, Keys.Home):
		return m, m.jumpToSection(0)

	case key.Matches(msg, Keys.End):
		return m, m.jumpToSection(len(m.Scenes) - 1)

	case key.Matches(msg, Keys.Music):
		return m, m.toggleMusic()

	case key.Matches(msg, Keys.Heart):
		return m, SpawnParticlesCmd(m.Active, heartGlyphs, burstSize)

	case key.Matches(msg, Keys.Replay):
		return m, m.replay()
	}

	// 1-9 jump straight to a section
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		if r := msg.Runes[0]; r >= '1' && r <= '9' {
			return m, m.jumpToSection(int(r - '1'))
		}
	}

	return m, nil
}

// handleJumpKey routes keys to the jump modal
func (m Model) handleJumpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var selected bool
	m.JumpModal, cmd, selected = m.JumpModal.Update(msg)

	if selected {
		match, _ := m.JumpModal.Selected()
		m.JumpModal.Hide()
		m.State = StateBrowsing
		return m, tea.Batch(cmd, m.jumpToSection(match.Index))
	}

	if !m.JumpModal.IsVisible() {
		m.State = StateBrowsing
		return m, cmd
	}

	if m.JumpModal.QueryChanged() && m.SearchSvc != nil {
		m.JumpModal.SetResults(m.SearchSvc.Find(m.JumpModal.Query()))
	}
	return m, cmd
}

// handleMouseMsg scrolls on the wheel and jumps on nav dot clicks
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.State != StateBrowsing {
		return m, nil
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		return m, m.scrollBy(-wheelStep)

	case msg.Button == tea.MouseButtonWheelDown:
		return m, m.scrollBy(wheelStep)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if msg.X >= m.Width-NavWidth {
			if i := m.navDots().DotAt(msg.Y); i >= 0 {
				return m, m.jumpToSection(i)
			}
		}
	}
	return m, nil
}
