package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/memorylane/internal/domain"
	"github.com/mmcdole/memorylane/internal/scroll"
	"github.com/mmcdole/memorylane/internal/tui/styles"
)

type effectKind int

const (
	effectBurst effectKind = iota
	effectTypewriter
	effectAudio
)

type effect struct {
	kind    effectKind
	section int
}

// effectQueue collects the effects cues fire during a scroll update. They are
// turned into commands after the update returns. While catching up (rebuild
// or resume) effects are settled instantly or dropped.
type effectQueue struct {
	items   []effect
	catchUp bool
}

func (q *effectQueue) push(e effect) {
	if q.catchUp {
		return
	}
	q.items = append(q.items, e)
}

func (q *effectQueue) drain() []effect {
	items := q.items
	q.items = nil
	return items
}

// Scene binds one section to its scroll controller and holds the visual
// state the controller's callbacks drive
type Scene struct {
	Index   int
	Section domain.Section
	Top     int // first document line
	Lines   int
	Palette styles.Palette

	ctl     *scroll.Controller
	effects *effectQueue

	artCued  bool
	textCued bool

	ArtShown       bool
	IndicatorShown bool
	Typer          Typewriter
	Particles      ParticleField
	levels         map[domain.FadeTarget]float64
}

func newScene(index int, sec domain.Section, top, lines, view int, effects *effectQueue, logger *slog.Logger) (*Scene, error) {
	region, err := sectionRegion(sec, top, lines, view)
	if err != nil {
		if !errors.Is(err, scroll.ErrInvalidConfig) {
			return nil, err
		}
		// A section no taller than the screen pinned top-to-bottom has no
		// scroll distance; track it entering and leaving instead
		logger.Warn("unusable section region, tracking enter-to-leave",
			"section", sec.ID, "error", err)
		region, err = scroll.RegionFor(float64(top), float64(lines), float64(view),
			scroll.AnchorTopBottom, scroll.AnchorBottomTop)
		if err != nil {
			return nil, err
		}
	}

	ctl, err := scroll.NewController(region, scroll.WithLogger(logger), scroll.WithName(sec.ID))
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Index:          index,
		Section:        sec,
		Top:            top,
		Lines:          lines,
		Palette:        styles.PaletteFor(string(sec.Theme)),
		ctl:            ctl,
		effects:        effects,
		IndicatorShown: true,
		levels:         make(map[domain.FadeTarget]float64),
	}

	for _, cue := range sec.Cues {
		switch cue.Action {
		case domain.ActionRevealArt:
			s.artCued = true
		case domain.ActionRevealText:
			s.textCued = true
		}
		if _, err := ctl.RegisterThreshold(cue.At, s.onCue(cue.Action)); err != nil {
			ctl.Dispose()
			return nil, fmt.Errorf("section %s cue %s: %w", sec.ID, cue.Action, err)
		}
	}

	for _, f := range sec.Fades {
		window := scroll.FadeWindow{Start: f.Start, End: f.End}
		h, err := ctl.RegisterFadeWindow(window, s.onFade(f))
		if err != nil {
			ctl.Dispose()
			return nil, fmt.Errorf("section %s fade %s: %w", sec.ID, f.Target, err)
		}
		s.levels[f.Target] = f.Level(h.Ratio())
	}

	s.ArtShown = !s.artCued
	s.Typer = NewTypewriter(sec.Text, !s.textCued)
	return s, nil
}

// sectionRegion resolves the section's anchors against its place in the
// document
func sectionRegion(sec domain.Section, top, lines, view int) (scroll.Region, error) {
	start, err := scroll.ParseAnchor(sec.Start)
	if err != nil {
		return scroll.Region{}, fmt.Errorf("section %s start: %w", sec.ID, err)
	}
	end, err := scroll.ParseAnchor(sec.End)
	if err != nil {
		return scroll.Region{}, fmt.Errorf("section %s end: %w", sec.ID, err)
	}
	return scroll.RegionFor(float64(top), float64(lines), float64(view), start, end)
}

func (s *Scene) onCue(action domain.CueAction) scroll.ThresholdFunc {
	return func(float64) {
		switch action {
		case domain.ActionRevealArt:
			s.ArtShown = true
		case domain.ActionHideIndicator:
			s.IndicatorShown = false
		case domain.ActionRevealText:
			if s.effects.catchUp {
				s.Typer.Complete()
				return
			}
			s.effects.push(effect{kind: effectTypewriter, section: s.Index})
		case domain.ActionBurst:
			s.effects.push(effect{kind: effectBurst, section: s.Index})
		case domain.ActionPlayAudio:
			s.effects.push(effect{kind: effectAudio, section: s.Index})
		}
	}
}

func (s *Scene) onFade(f domain.Fade) scroll.FadeFunc {
	return func(ratio float64) {
		s.levels[f.Target] = f.Level(ratio)
	}
}

// Level returns how visible a fade target is, 0 to 1. Targets without a fade
// are fully visible.
func (s *Scene) Level(target domain.FadeTarget) float64 {
	if v, ok := s.levels[target]; ok {
		return v
	}
	return 1
}

// Progress returns the section's scroll progress
func (s *Scene) Progress() float64 {
	return s.ctl.Progress()
}

// Attach subscribes the scene's controller to a scroll source
func (s *Scene) Attach(src scroll.Source) {
	s.ctl.Attach(src)
}

// Replay rewinds the section so its cues fire again from offset
func (s *Scene) Replay(offset float64) {
	s.ArtShown = !s.artCued
	s.IndicatorShown = true
	s.Typer = NewTypewriter(s.Section.Text, !s.textCued)
	s.Particles.Clear()
	s.ctl.Reset()
	s.ctl.Update(offset)
}

// carryOver keeps animation state from the scene this one replaces
func (s *Scene) carryOver(old *Scene) {
	if old == nil || old.Section.ID != s.Section.ID {
		return
	}
	if old.Typer.started {
		s.Typer = old.Typer
	}
	s.Particles = old.Particles
}

// Animate advances particles and the typewriter. Returns true while either
// still moves.
func (s *Scene) Animate(now time.Time, dt time.Duration) bool {
	particles := s.Particles.Step(dt)
	typing := s.Typer.Advance(now)
	return particles || typing
}

// Dispose detaches the controller and drops its registrations
func (s *Scene) Dispose() {
	s.ctl.Dispose()
}
