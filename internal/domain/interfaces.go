package domain

// ResumeStore persists where the reader left a lane.
type ResumeStore interface {
	// LoadResume returns the saved position for a lane, if any
	LoadResume(laneID string) (*Resume, bool)

	// SaveResume records the position for r.LaneID
	SaveResume(r Resume) error

	// ClearResume forgets the position for a lane
	ClearResume(laneID string) error

	Close() error
}

// AudioLauncher starts background tracks in an external player.
type AudioLauncher interface {
	// Start plays source at volume (0-1). A failure to start is a rejected
	// outcome and is never retried.
	Start(source string, volume float64) (Track, error)
}

// Track is a running background track.
type Track interface {
	// Stop ends playback. Stopping a finished track is not an error.
	Stop() error

	// Done is closed when the track ends on its own or is stopped
	Done() <-chan struct{}
}

// PlaybackObserver hears about tracks that end on their own.
type PlaybackObserver interface {
	OnTrackEnded(sectionID string)
}
