package tui

import "time"

// ErrMsg represents an error that occurred
type ErrMsg struct {
	Err     error
	Context string
}

func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// LoaderDoneMsg ends the intro loader
type LoaderDoneMsg struct{}

// FrameMsg drives animation while particles, typewriters or a glide are live
type FrameMsg struct {
	Time time.Time
}

// ClearStatusMsg clears the status message
type ClearStatusMsg struct{}

// StatusMsg sets a status message
type StatusMsg struct {
	Message string
	IsError bool
}

// SpawnParticlesMsg bursts particles in a section
type SpawnParticlesMsg struct {
	Section int
	Glyphs  []string // nil uses the section's own
	Count   int
}

// StartTypewriterMsg starts typing a section's text
type StartTypewriterMsg struct {
	Section int
}

// AudioToggledMsg reports the outcome of a music toggle or autoplay
type AudioToggledMsg struct {
	SectionID string
	Playing   bool
}

// TrackEndedMsg indicates a section track finished on its own
type TrackEndedMsg struct {
	SectionID string
}

// ResumeSavedMsg indicates the reading position was stored
type ResumeSavedMsg struct {
	Section int
}
