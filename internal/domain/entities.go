package domain

import (
	"fmt"
	"strings"
)

// Theme selects a section's palette and decoration glyphs
type Theme string

const (
	ThemeDefault    Theme = "default"
	ThemeBee        Theme = "bee"
	ThemeCoffee     Theme = "coffee"
	ThemeOcean      Theme = "ocean"
	ThemeOceanNight Theme = "ocean-night"
)

// Themes lists every known theme
var Themes = []Theme{ThemeDefault, ThemeBee, ThemeCoffee, ThemeOcean, ThemeOceanNight}

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	for _, known := range Themes {
		if t == known {
			return true
		}
	}
	return false
}

// CueAction is the one-shot state transition a cue triggers
type CueAction string

const (
	ActionRevealArt     CueAction = "reveal-art"     // show the section art
	ActionRevealText    CueAction = "reveal-text"    // start the typewriter on the section text
	ActionBurst         CueAction = "burst"          // spawn a particle burst
	ActionHideIndicator CueAction = "hide-indicator" // hide the "scroll" hint
	ActionPlayAudio     CueAction = "play-audio"     // start the section track
)

// CueActions lists every known cue action
var CueActions = []CueAction{ActionRevealArt, ActionRevealText, ActionBurst, ActionHideIndicator, ActionPlayAudio}

// Valid reports whether a is a known action
func (a CueAction) Valid() bool {
	for _, known := range CueActions {
		if a == known {
			return true
		}
	}
	return false
}

// FadeTarget is the visual parameter a fade drives
type FadeTarget string

const (
	TargetArt        FadeTarget = "art"
	TargetText       FadeTarget = "text"
	TargetIndicator  FadeTarget = "indicator"
	TargetBackground FadeTarget = "background"
)

// FadeTargets lists every known fade target
var FadeTargets = []FadeTarget{TargetArt, TargetText, TargetIndicator, TargetBackground}

// Valid reports whether t is a known target
func (t FadeTarget) Valid() bool {
	for _, known := range FadeTargets {
		if t == known {
			return true
		}
	}
	return false
}

// Cue fires Action once, the first time section progress reaches At
type Cue struct {
	At     float64   `mapstructure:"at"`
	Action CueAction `mapstructure:"action"`
}

// Fade ramps Target linearly while section progress moves from Start to End.
// Invert ramps from 1 down to 0 (fade out) instead of 0 up to 1.
type Fade struct {
	Start  float64    `mapstructure:"start"`
	End    float64    `mapstructure:"end"`
	Target FadeTarget `mapstructure:"target"`
	Invert bool       `mapstructure:"invert"`
}

// Level converts a window ratio into the target's level
func (f Fade) Level(ratio float64) float64 {
	if f.Invert {
		return 1 - ratio
	}
	return ratio
}

// Section is one memory in the lane
type Section struct {
	ID        string   `mapstructure:"id"`
	Title     string   `mapstructure:"title"`
	Subtitle  string   `mapstructure:"subtitle"`
	Date      string   `mapstructure:"date"`
	Theme     Theme    `mapstructure:"theme"`
	Art       string   `mapstructure:"art"`     // Multi-line text art
	Text      string   `mapstructure:"text"`    // Typed out on reveal
	Caption   string   `mapstructure:"caption"` // Shown under the text
	Audio     string   `mapstructure:"audio"`   // File path or URL handed to the audio player
	Particles []string `mapstructure:"particles"`
	Height    int      `mapstructure:"height"` // Scroll length in screens
	Start     string   `mapstructure:"start"`  // Anchor where progress is 0, e.g. "top top"
	End       string   `mapstructure:"end"`    // Anchor where progress is 1, e.g. "bottom bottom"
	Cues      []Cue    `mapstructure:"cues"`
	Fades     []Fade   `mapstructure:"fades"`
}

// HasAudio returns true if the section carries a track
func (s Section) HasAudio() bool {
	return strings.TrimSpace(s.Audio) != ""
}

// Label returns the title with its date, for lists and the jump modal
func (s Section) Label() string {
	if s.Date == "" {
		return s.Title
	}
	return fmt.Sprintf("%s (%s)", s.Title, s.Date)
}

// SearchText returns the text matched by the jump search
func (s Section) SearchText() string {
	return strings.ToLower(strings.Join([]string{s.Title, s.Subtitle, s.Date}, " "))
}

// Lane is an ordered sequence of sections
type Lane struct {
	ID       string    `mapstructure:"id"`
	Title    string    `mapstructure:"title"`
	Sections []Section `mapstructure:"sections"`
}

// Len returns the number of sections
func (l *Lane) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Sections)
}

// SectionIndex returns the index of the section with the given ID
func (l *Lane) SectionIndex(id string) (int, error) {
	for i, s := range l.Sections {
		if s.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrSectionNotFound, id)
}
