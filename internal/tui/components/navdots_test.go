package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmcdole/memorylane/internal/tui/styles"
)

func TestNavDots_DotAt(t *testing.T) {
	n := NavDots{Count: 3, Width: 3, Height: 20}

	// span 5 centered in 20 rows starts at row 7
	assert.Equal(t, 0, n.DotAt(7))
	assert.Equal(t, -1, n.DotAt(8))
	assert.Equal(t, 1, n.DotAt(9))
	assert.Equal(t, 2, n.DotAt(11))
	assert.Equal(t, -1, n.DotAt(13))
	assert.Equal(t, -1, n.DotAt(0))
}

func TestNavDots_TightSpacing(t *testing.T) {
	n := NavDots{Count: 5, Width: 3, Height: 6}

	assert.Equal(t, 0, n.DotAt(0))
	assert.Equal(t, 1, n.DotAt(1))
	assert.Equal(t, 4, n.DotAt(4))
	assert.Equal(t, -1, n.DotAt(5))
}

func TestNavDots_View(t *testing.T) {
	n := NavDots{
		Count:   3,
		Active:  1,
		Visited: func(i int) bool { return i == 0 },
		Width:   3,
		Height:  10,
	}

	rows := strings.Split(n.View(), "\n")
	assert.Len(t, rows, 10)
	assert.Contains(t, rows[2], styles.VisitedDotChar)
	assert.Contains(t, rows[4], styles.ActiveDotChar)
	assert.Contains(t, rows[6], styles.DotChar)
	assert.Equal(t, "   ", rows[0])
}

func TestNavDots_Empty(t *testing.T) {
	n := NavDots{Width: 3, Height: 4}
	assert.Equal(t, -1, n.DotAt(0))
	assert.Len(t, strings.Split(n.View(), "\n"), 4)
}
