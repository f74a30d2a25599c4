package tui

import (
	"math"
	"math/rand/v2"
	"time"
)

const particleTTL = 2 * time.Second

// Particle is one floating glyph, positioned in section-local cells
type Particle struct {
	Glyph  string
	X, Y   float64
	VX, VY float64 // cells per second
	Age    time.Duration
	TTL    time.Duration
}

// ParticleField holds the live particles of one section
type ParticleField struct {
	particles []Particle
}

// Burst spawns n particles at (x, y) drifting upward
func (f *ParticleField) Burst(glyphs []string, n int, x, y float64, rng *rand.Rand) {
	if len(glyphs) == 0 || n <= 0 {
		return
	}
	for i := 0; i < n; i++ {
		f.particles = append(f.particles, Particle{
			Glyph: glyphs[rng.IntN(len(glyphs))],
			X:     x + rng.Float64()*6 - 3,
			Y:     y,
			VX:    rng.Float64()*12 - 6,
			VY:    -(3 + rng.Float64()*2),
			TTL:   particleTTL,
		})
	}
}

// Step moves particles by dt and drops expired ones. Returns true while any
// particle is alive.
func (f *ParticleField) Step(dt time.Duration) bool {
	secs := dt.Seconds()
	live := f.particles[:0]
	for _, p := range f.particles {
		p.Age += dt
		if p.Age >= p.TTL {
			continue
		}
		p.X += p.VX * secs
		p.Y += p.VY * secs
		live = append(live, p)
	}
	f.particles = live
	return len(f.particles) > 0
}

// Clear drops every particle
func (f *ParticleField) Clear() {
	f.particles = nil
}

// Len returns the number of live particles
func (f *ParticleField) Len() int {
	return len(f.particles)
}

// Row returns the particles on section-local row y, keyed by column
func (f *ParticleField) Row(y int) map[int]string {
	var cells map[int]string
	for _, p := range f.particles {
		if int(math.Round(p.Y)) != y {
			continue
		}
		if cells == nil {
			cells = make(map[int]string)
		}
		cells[int(math.Round(p.X))] = p.Glyph
	}
	return cells
}
