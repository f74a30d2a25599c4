package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestBlend_Endpoints(t *testing.T) {
	from := lipgloss.Color("#000000")
	to := lipgloss.Color("#ffffff")

	assert.Equal(t, from, Blend(from, to, 0))
	assert.Equal(t, from, Blend(from, to, -1))
	assert.Equal(t, to, Blend(from, to, 1))
	assert.Equal(t, to, Blend(from, to, 2))
}

func TestBlend_Midpoint(t *testing.T) {
	mid := Blend(lipgloss.Color("#000000"), lipgloss.Color("#ffffff"), 0.5)
	assert.NotEqual(t, lipgloss.Color("#000000"), mid)
	assert.NotEqual(t, lipgloss.Color("#ffffff"), mid)
	assert.Len(t, string(mid), 7)
}

func TestBlend_NonHexFallsBackToTarget(t *testing.T) {
	assert.Equal(t, lipgloss.Color("#ffffff"), Blend(lipgloss.Color("12"), lipgloss.Color("#ffffff"), 0.5))
}

func TestPaletteFor(t *testing.T) {
	assert.Equal(t, Honey, PaletteFor("bee").Accent)
	assert.Equal(t, PaletteFor("default"), PaletteFor("disco"))
	for _, theme := range []string{"default", "bee", "coffee", "ocean", "ocean-night"} {
		p := PaletteFor(theme)
		assert.NotEmpty(t, p.Decor, theme)
		assert.NotEmpty(t, p.Particles, theme)
	}
}
