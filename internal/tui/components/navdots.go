package components

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/mmcdole/memorylane/internal/tui/styles"
)

// NavDots is the column of section markers on the right edge
type NavDots struct {
	Count   int
	Active  int
	Visited func(i int) bool
	Width   int
	Height  int
}

// layout returns the first dot row and the spacing between dots
func (n NavDots) layout() (top, gap int) {
	if n.Count <= 0 {
		return 0, 1
	}
	gap = 2
	if (n.Count-1)*gap+1 > n.Height {
		gap = 1
	}
	span := (n.Count-1)*gap + 1
	return max(0, (n.Height-span)/2), gap
}

// DotAt returns the section whose dot is on row y, or -1
func (n NavDots) DotAt(y int) int {
	top, gap := n.layout()
	if y < top || (y-top)%gap != 0 {
		return -1
	}
	if i := (y - top) / gap; i < n.Count {
		return i
	}
	return -1
}

// View renders exactly Height rows of Width cells
func (n NavDots) View() string {
	rows := make([]string, n.Height)
	blank := strings.Repeat(" ", n.Width)
	for i := range rows {
		rows[i] = blank
	}

	top, gap := n.layout()
	for i := 0; i < n.Count; i++ {
		y := top + i*gap
		if y >= n.Height {
			break
		}

		char, style := styles.DotChar, styles.DotStyle
		switch {
		case i == n.Active:
			char, style = styles.ActiveDotChar, styles.ActiveDotStyle
		case n.Visited != nil && n.Visited(i):
			char, style = styles.VisitedDotChar, styles.VisitedDotStyle
		}

		w := runewidth.StringWidth(char)
		left := max(0, (n.Width-w)/2)
		right := max(0, n.Width-w-left)
		rows[y] = strings.Repeat(" ", left) + style.Render(char) + strings.Repeat(" ", right)
	}
	return strings.Join(rows, "\n")
}
