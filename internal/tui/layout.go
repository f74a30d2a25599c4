package tui

import "github.com/mmcdole/memorylane/internal/domain"

// Screen chrome
const (
	// Vertical layout: single footer line
	ChromeHeight = 1

	// Nav dot column on the right edge
	NavWidth = 3
)

// laneLayout places every section in one tall document, Height screens each
type laneLayout struct {
	tops  []int
	lines []int
	total int
	view  int
}

func computeLayout(lane *domain.Lane, view int) laneLayout {
	l := laneLayout{view: max(view, 1)}
	if lane == nil {
		return l
	}
	for _, sec := range lane.Sections {
		h := max(sec.Height, 1) * l.view
		l.tops = append(l.tops, l.total)
		l.lines = append(l.lines, h)
		l.total += h
	}
	return l
}

// maxOffset is the furthest the viewport can scroll
func (l laneLayout) maxOffset() int {
	return max(0, l.total-l.view)
}

func (l laneLayout) clampOffset(offset int) int {
	return min(max(offset, 0), l.maxOffset())
}

// sectionAt returns the section containing document line y, or -1
func (l laneLayout) sectionAt(y int) int {
	for i := len(l.tops) - 1; i >= 0; i-- {
		if y >= l.tops[i] {
			if y < l.tops[i]+l.lines[i] {
				return i
			}
			return -1
		}
	}
	return -1
}

// activeAt returns the section under the middle of the viewport
func (l laneLayout) activeAt(offset int) int {
	if len(l.tops) == 0 {
		return -1
	}
	if i := l.sectionAt(offset + l.view/2); i >= 0 {
		return i
	}
	return len(l.tops) - 1
}

// sectionOffset is the scroll offset that brings section i to the top
func (l laneLayout) sectionOffset(i int) int {
	if i < 0 || i >= len(l.tops) {
		return 0
	}
	return l.clampOffset(l.tops[i])
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := max(1, m.Height-ChromeHeight)
	contentWidth := max(1, m.Width-NavWidth)

	m.Viewport.Width = contentWidth
	m.Viewport.Height = contentHeight
	m.JumpModal.SetSize(m.Width, m.Height)
	m.Help.Width = m.Width
	m.Progress.Width = max(10, m.Width/5)

	m.rebuildScenes(contentHeight)
}
