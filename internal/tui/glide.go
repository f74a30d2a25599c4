package tui

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Spring tuning for section glides
const (
	glideFrequency = 6.0
	glideDamping   = 1.0
	glideSettle    = 0.5
)

// glide eases the scroll offset toward a section with a critically damped
// spring, one step per animation frame
type glide struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
}

func newGlide(from, to int) *glide {
	return &glide{
		spring: harmonica.NewSpring(harmonica.FPS(frameRate), glideFrequency, glideDamping),
		pos:    float64(from),
		target: float64(to),
	}
}

// step advances one frame and returns the rounded offset and whether the
// glide has settled on its target
func (g *glide) step() (int, bool) {
	g.pos, g.vel = g.spring.Update(g.pos, g.vel, g.target)
	if math.Abs(g.target-g.pos) < glideSettle && math.Abs(g.vel) < glideSettle {
		g.pos = g.target
		return int(g.target), true
	}
	return int(math.Round(g.pos)), false
}
