package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/memorylane/internal/service"
)

// Animation timings
const (
	frameRate     = 30
	frameInterval = time.Second / frameRate
	statusTimeout = 3 * time.Second
	burstSize     = 6
)

// FrameCmd schedules the next animation frame
func FrameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return FrameMsg{Time: t}
	})
}

// LoaderCmd ends the loader after delay
func LoaderCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return LoaderDoneMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// SpawnParticlesCmd bursts particles in a section on a later tick
func SpawnParticlesCmd(section int, glyphs []string, count int) tea.Cmd {
	return func() tea.Msg {
		return SpawnParticlesMsg{Section: section, Glyphs: glyphs, Count: count}
	}
}

// StartTypewriterCmd starts a section's typewriter on a later tick
func StartTypewriterCmd(section int) tea.Cmd {
	return func() tea.Msg {
		return StartTypewriterMsg{Section: section}
	}
}

// PlayAudioCmd starts a section's track, replacing any other
func PlayAudioCmd(svc *service.PlaybackService, sectionID, source string) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Play(sectionID, source); err != nil {
			return ErrMsg{Err: err, Context: "Play music"}
		}
		return AudioToggledMsg{SectionID: sectionID, Playing: true}
	}
}

// StopAudioCmd stops whatever track is playing
func StopAudioCmd(svc *service.PlaybackService, sectionID string) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Stop(); err != nil {
			return ErrMsg{Err: err, Context: "Stop music"}
		}
		return AudioToggledMsg{SectionID: sectionID, Playing: false}
	}
}

// ToggleAudioCmd starts or stops a section's track
func ToggleAudioCmd(svc *service.PlaybackService, sectionID, source string) tea.Cmd {
	return func() tea.Msg {
		playing, err := svc.Toggle(sectionID, source)
		if err != nil {
			return ErrMsg{Err: err, Context: "Play music"}
		}
		return AudioToggledMsg{SectionID: sectionID, Playing: playing}
	}
}

// SaveResumeCmd records the reading position
func SaveResumeCmd(svc *service.SessionService, section int, sectionID string, offset int) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Record(section, sectionID, offset); err != nil {
			return ErrMsg{Err: err, Context: "Save position"}
		}
		return ResumeSavedMsg{Section: section}
	}
}

// ListenTrackEndedCmd waits for the next track that ends on its own
func ListenTrackEndedCmd(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		id, ok := <-ch
		if !ok {
			return nil
		}
		return TrackEndedMsg{SectionID: id}
	}
}
