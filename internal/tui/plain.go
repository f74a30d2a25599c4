package tui

import (
	"fmt"
	"strings"

	"github.com/mmcdole/memorylane/internal/domain"
)

// RenderPlain renders the whole lane as uncolored text, every section fully
// revealed. Used when stdout is not a terminal.
func RenderPlain(lane *domain.Lane, width int) string {
	if width <= 0 {
		width = 80
	}
	textWidth := min(maxTextWidth, width)
	rule := strings.Repeat("─", min(width, 40))

	var b strings.Builder
	if lane.Title != "" {
		b.WriteString(lane.Title)
		b.WriteString("\n")
		b.WriteString(rule)
		b.WriteString("\n\n")
	}

	for i, sec := range lane.Sections {
		if i > 0 {
			b.WriteString("\n")
			b.WriteString(rule)
			b.WriteString("\n\n")
		}

		fmt.Fprintf(&b, "%d. %s\n", i+1, sec.Title)
		if sec.Subtitle != "" {
			b.WriteString(sec.Subtitle)
			b.WriteString("\n")
		}
		if sec.Date != "" {
			b.WriteString(sec.Date)
			b.WriteString("\n")
		}

		if art := strings.TrimRight(sec.Art, "\n"); art != "" {
			b.WriteString("\n")
			b.WriteString(art)
			b.WriteString("\n")
		}

		if sec.Text != "" {
			b.WriteString("\n")
			b.WriteString(wordWrap(sec.Text, textWidth))
			b.WriteString("\n")
		}

		if sec.Caption != "" {
			b.WriteString("\n  ")
			b.WriteString(sec.Caption)
			b.WriteString("\n")
		}

		if sec.HasAudio() {
			fmt.Fprintf(&b, "\n♪ %s\n", sec.Audio)
		}
	}

	return b.String()
}
