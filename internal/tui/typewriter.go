package tui

import "time"

// Typewriter timings
const (
	typeDelay   = 500 * time.Millisecond
	typePerRune = 30 * time.Millisecond
)

// Typewriter reveals text one rune at a time
type Typewriter struct {
	total   int
	shown   int
	started bool
	startAt time.Time
}

// NewTypewriter creates a typewriter for text. A complete typewriter shows
// everything from the start.
func NewTypewriter(text string, complete bool) Typewriter {
	t := Typewriter{total: len([]rune(text))}
	if complete {
		t.Complete()
	}
	return t
}

// Start begins typing after the initial delay. Starting twice is a no-op.
func (t *Typewriter) Start(now time.Time) {
	if t.started {
		return
	}
	t.started = true
	t.shown = 0
	t.startAt = now.Add(typeDelay)
}

// Advance updates the revealed count and reports whether typing continues
func (t *Typewriter) Advance(now time.Time) bool {
	if !t.started || t.shown >= t.total {
		return false
	}
	if now.Before(t.startAt) {
		return true
	}
	t.shown = min(t.total, int(now.Sub(t.startAt)/typePerRune)+1)
	return t.shown < t.total
}

// Complete reveals all text immediately
func (t *Typewriter) Complete() {
	t.started = true
	t.shown = t.total
}

// Reset hides the text again
func (t *Typewriter) Reset() {
	t.started = false
	t.shown = 0
}

// Active returns true while runes are still being typed
func (t Typewriter) Active() bool {
	return t.started && t.shown < t.total
}

// Done returns true once every rune is shown
func (t Typewriter) Done() bool {
	return t.started && t.shown >= t.total
}

// Fraction returns the revealed share of the text, 0 to 1
func (t Typewriter) Fraction() float64 {
	if t.total == 0 {
		if t.started {
			return 1
		}
		return 0
	}
	return float64(t.shown) / float64(t.total)
}
