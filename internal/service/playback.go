package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/memorylane/internal/domain"
)

// playing is the track currently owned by the service
type playing struct {
	sectionID string
	source    string
	track     domain.Track
}

// PlaybackService keeps at most one background track playing
type PlaybackService struct {
	launcher domain.AudioLauncher
	volume   float64
	logger   *slog.Logger
	observer domain.PlaybackObserver

	mu      sync.Mutex
	current *playing
}

// NewPlaybackService creates a new playback service
func NewPlaybackService(launcher domain.AudioLauncher, volume float64, logger *slog.Logger) *PlaybackService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackService{
		launcher: launcher,
		volume:   volume,
		logger:   logger,
	}
}

// SetObserver registers o to hear when a track ends on its own
func (s *PlaybackService) SetObserver(o domain.PlaybackObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = o
}

// Playing returns the section whose track is playing, if any
func (s *PlaybackService) Playing() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return "", false
	}
	return s.current.sectionID, true
}

// Play starts the section's track, stopping any other. Playing the track that
// is already playing is a no-op.
func (s *PlaybackService) Play(sectionID, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.sectionID == sectionID && s.current.source == source {
		return nil
	}
	return s.startLocked(sectionID, source)
}

// Toggle stops the section's track if it is playing, otherwise starts it in
// place of whatever else plays. Returns whether the section is now playing.
func (s *PlaybackService) Toggle(sectionID, source string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.sectionID == sectionID {
		return false, s.stopLocked()
	}
	if err := s.startLocked(sectionID, source); err != nil {
		return false, err
	}
	return true, nil
}

// Stop ends whatever is playing
func (s *PlaybackService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked()
}

func (s *PlaybackService) startLocked(sectionID, source string) error {
	if err := s.stopLocked(); err != nil {
		s.logger.Warn("failed to stop previous track", "error", err)
	}

	if s.launcher == nil {
		return fmt.Errorf("%w: %w", domain.ErrPlaybackRejected, domain.ErrNoPlayer)
	}

	track, err := s.launcher.Start(source, s.volume)
	if err != nil {
		s.logger.Warn("playback rejected", "section", sectionID, "source", source, "error", err)
		if !errors.Is(err, domain.ErrPlaybackRejected) {
			err = fmt.Errorf("%w: %w", domain.ErrPlaybackRejected, err)
		}
		return err
	}

	p := &playing{sectionID: sectionID, source: source, track: track}
	s.current = p
	s.logger.Info("playing section track", "section", sectionID, "source", source)

	go s.watch(p)
	return nil
}

// watch clears the current track when it ends on its own
func (s *PlaybackService) watch(p *playing) {
	<-p.track.Done()

	s.mu.Lock()
	if s.current != p {
		s.mu.Unlock()
		return
	}
	s.current = nil
	observer := s.observer
	s.mu.Unlock()

	s.logger.Debug("section track ended", "section", p.sectionID)
	if observer != nil {
		observer.OnTrackEnded(p.sectionID)
	}
}

func (s *PlaybackService) stopLocked() error {
	if s.current == nil {
		return nil
	}
	p := s.current
	s.current = nil
	s.logger.Info("stopping section track", "section", p.sectionID)
	return p.track.Stop()
}
