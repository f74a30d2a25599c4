package tui

// ChannelObserver adapts domain.PlaybackObserver to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan<- string
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(ch chan<- string) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnTrackEnded sends the section ID to the channel (non-blocking if full).
func (o *ChannelObserver) OnTrackEnded(sectionID string) {
	select {
	case o.ch <- sectionID:
	default: // Non-blocking if channel full
	}
}
