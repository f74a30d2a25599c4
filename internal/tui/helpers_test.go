package tui

import (
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/memorylane/internal/domain"
	"github.com/mmcdole/memorylane/internal/service"
)

// Viewport of 20 rows: sections lay out at 0 (40 rows), 40 (40 rows) and
// 80 (20 rows); the lane scrolls 0..80
const (
	testWidth  = 80
	testHeight = 20 + ChromeHeight
)

var testNow = time.Date(2024, 2, 14, 20, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLane() *domain.Lane {
	return &domain.Lane{
		ID:    "test-lane",
		Title: "Test Lane",
		Sections: []domain.Section{
			{
				ID:     "meeting",
				Title:  "First Meeting",
				Theme:  domain.ThemeBee,
				Art:    "<3",
				Text:   "hello there",
				Height: 2,
				Start:  "top top",
				End:    "bottom bottom",
				Cues: []domain.Cue{
					{At: 0.05, Action: domain.ActionHideIndicator},
					{At: 0.5, Action: domain.ActionRevealArt},
				},
				Fades: []domain.Fade{
					{Start: 0.8, End: 1, Target: domain.TargetArt, Invert: true},
				},
			},
			{
				ID:     "coffee",
				Title:  "Coffee",
				Theme:  domain.ThemeCoffee,
				Text:   "two mugs",
				Audio:  "coffee.mp3",
				Height: 2,
				Start:  "top top",
				End:    "bottom bottom",
				Cues: []domain.Cue{
					{At: 0.25, Action: domain.ActionBurst},
					{At: 0.5, Action: domain.ActionRevealText},
					{At: 0.75, Action: domain.ActionPlayAudio},
				},
			},
			{
				ID:     "night",
				Title:  "Ocean Night",
				Theme:  domain.ThemeOceanNight,
				Text:   "stars",
				Height: 1,
				Start:  "top top",
				End:    "bottom bottom",
			},
		},
	}
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	lane := testLane()
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	opts.Seed = 7

	m := NewModel(lane, nil, service.NewSearchService(lane), nil, opts)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	m = updated.(Model)
	require.Len(t, m.Scenes, 3)
	return m
}

// collectMsgs runs cmd and flattens batches into their messages
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// settle runs frames until the glide and animations stop
func settle(t *testing.T, m Model) Model {
	t.Helper()
	now := testNow
	for i := 0; i < 600 && (m.glide != nil || m.animating); i++ {
		now = now.Add(frameInterval)
		updated, _ := m.Update(FrameMsg{Time: now})
		m = updated.(Model)
	}
	require.Nil(t, m.glide, "glide did not settle")
	return m
}
