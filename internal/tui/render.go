package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/mmcdole/memorylane/internal/domain"
	"github.com/mmcdole/memorylane/internal/tui/styles"
)

const (
	maxTextWidth = 64
	typeCursor   = "▌"
	scrollHint   = "scroll ↓"
)

// renderState is what a scene needs from the model to draw itself
type renderState struct {
	width   int
	viewTop int // document line at the top of the viewport
	view    int // viewport height
	playing bool
}

type styledLine struct {
	text  string
	style lipgloss.Style
}

// Render draws the scene as Lines rows. Only rows inside the viewport are
// drawn; the rest stay empty.
func (s *Scene) Render(rs renderState) []string {
	rows := make([]string, s.Lines)
	first := max(0, rs.viewTop-s.Top)
	last := min(s.Lines, rs.viewTop+rs.view-s.Top)
	if first >= last || rs.width <= 0 {
		return rows
	}

	bg := styles.Blend(styles.Black, s.Palette.Background, s.Level(domain.TargetBackground))
	block := s.contentBlock(rs, bg)

	// Content stays pinned to the middle of the viewport while the section
	// scrolls past, within the section's own rows
	blockTop := (rs.viewTop - s.Top) + (rs.view-len(block))/2
	blockTop = min(max(blockTop, 0), max(0, s.Lines-len(block)))

	for y := first; y < last; y++ {
		if i := y - blockTop; i >= 0 && i < len(block) {
			rows[y] = s.composeRow(y, rs.width, block[i], bg)
		} else {
			rows[y] = s.fillRow(y, 0, rs.width, bg)
		}
	}
	return rows
}

func (s *Scene) contentBlock(rs renderState, bg lipgloss.Color) []styledLine {
	p := s.Palette
	sec := s.Section
	plain := lipgloss.NewStyle().Background(bg)

	var lines []styledLine
	add := func(text string, style lipgloss.Style) {
		lines = append(lines, styledLine{text: text, style: style})
	}
	blank := func() { add("", plain) }

	add(sec.Title, lipgloss.NewStyle().Foreground(p.Accent).Background(bg).Bold(true))
	if sec.Subtitle != "" {
		add(sec.Subtitle, lipgloss.NewStyle().Foreground(p.Foreground).Background(bg))
	}
	if sec.Date != "" {
		add(sec.Date, lipgloss.NewStyle().Foreground(p.Muted).Background(bg).Italic(true))
	}

	if sec.Art != "" {
		blank()
		level := 0.0
		if s.ArtShown {
			level = s.Level(domain.TargetArt)
		}
		artStyle := styles.Faded(p.Accent, bg, level)
		for _, line := range padBlock(strings.Split(strings.TrimRight(sec.Art, "\n"), "\n"), rs.width) {
			add(line, artStyle)
		}
	}

	if sec.Text != "" {
		blank()
		textStyle := styles.Faded(p.Foreground, bg, s.Level(domain.TargetText))
		wrapped := strings.Split(wordWrap(sec.Text, min(maxTextWidth, rs.width-4)), "\n")
		for _, line := range padBlock(revealLines(wrapped, s.Typer), rs.width) {
			add(line, textStyle)
		}
	}

	if sec.Caption != "" && s.Typer.Done() {
		blank()
		add(sec.Caption, lipgloss.NewStyle().Foreground(p.Muted).Background(bg).Italic(true))
	}

	if sec.HasAudio() {
		blank()
		hint := "♪ m to play"
		if rs.playing {
			hint = "♪ playing · m to stop"
		}
		add(hint, lipgloss.NewStyle().Foreground(p.Muted).Background(bg))
	}

	if s.IndicatorShown {
		blank()
		add(scrollHint, styles.Faded(p.Muted, bg, s.Level(domain.TargetIndicator)))
	}

	return lines
}

// revealLines cuts wrapped text down to the typewriter's revealed share,
// keeping every line so the block does not jump while typing
func revealLines(wrapped []string, t Typewriter) []string {
	total := 0
	for _, line := range wrapped {
		total += len([]rune(line))
	}
	budget := int(math.Round(t.Fraction() * float64(total)))

	out := make([]string, len(wrapped))
	cursor := t.Active()
	for i, line := range wrapped {
		runes := []rune(line)
		n := min(budget, len(runes))
		out[i] = string(runes[:n])
		budget -= n
		if cursor && n < len(runes) {
			out[i] += typeCursor
			cursor = false
		}
	}
	return out
}

// padBlock right-pads lines to the block's widest line so the block centers
// as a unit
func padBlock(lines []string, limit int) []string {
	width := 0
	for i, line := range lines {
		if runewidth.StringWidth(line) > limit {
			lines[i] = runewidth.Truncate(line, limit, "")
		}
		width = max(width, runewidth.StringWidth(lines[i]))
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = runewidth.FillRight(line, width)
	}
	return out
}

// composeRow centers a content line with decorated margins
func (s *Scene) composeRow(y, width int, line styledLine, bg lipgloss.Color) string {
	text := line.text
	if runewidth.StringWidth(text) > width {
		text = runewidth.Truncate(text, width, "")
	}
	w := runewidth.StringWidth(text)
	left := (width - w) / 2
	return s.fillRow(y, 0, left, bg) + line.style.Render(text) + s.fillRow(y, left+w, width, bg)
}

type cellKind int

const (
	cellBlank cellKind = iota
	cellDecor
	cellParticle
)

// fillRow draws columns [from, to) of section row y: background, decor
// glyphs drifting with parallax, and particles on top
func (s *Scene) fillRow(y, from, to int, bg lipgloss.Color) string {
	if from >= to {
		return ""
	}

	kindStyles := map[cellKind]lipgloss.Style{
		cellBlank:    lipgloss.NewStyle().Background(bg),
		cellDecor:    lipgloss.NewStyle().Foreground(styles.Blend(bg, s.Palette.Muted, 0.6)).Background(bg),
		cellParticle: lipgloss.NewStyle().Foreground(s.Palette.Accent).Background(bg).Bold(true),
	}

	particles := s.Particles.Row(y)
	decorRow := y + int(s.Progress()*float64(s.Lines)/2)

	var b, run strings.Builder
	kind := cellBlank
	flush := func() {
		if run.Len() > 0 {
			b.WriteString(kindStyles[kind].Render(run.String()))
			run.Reset()
		}
	}
	put := func(k cellKind, glyph string) {
		if k != kind {
			flush()
			kind = k
		}
		run.WriteString(glyph)
	}

	for x := from; x < to; {
		glyph, k := " ", cellBlank
		if g, ok := particles[x]; ok {
			glyph, k = g, cellParticle
		} else if g := decorAt(s.Palette.Decor, decorRow, x); g != "" {
			glyph, k = g, cellDecor
		}

		w := runewidth.StringWidth(glyph)
		if w < 1 || x+w > to {
			glyph, k, w = " ", cellBlank, 1
		}
		put(k, glyph)
		x += w
	}
	flush()
	return b.String()
}

// decorAt returns the sparse background glyph at (row, col), if any
func decorAt(decor []string, row, col int) string {
	if len(decor) == 0 {
		return ""
	}
	h := uint32(row)*2654435761 ^ uint32(col)*40503
	h ^= h >> 13
	if h%47 != 0 {
		return ""
	}
	return decor[int(h>>8)%len(decor)]
}
