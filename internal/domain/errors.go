package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrInvalidLane indicates a lane file failed validation
	ErrInvalidLane = errors.New("invalid lane")

	// ErrSectionNotFound indicates the requested section does not exist
	ErrSectionNotFound = errors.New("section not found")

	// ErrPlaybackRejected indicates the audio player refused or failed to start
	ErrPlaybackRejected = errors.New("playback rejected")

	// ErrNoPlayer indicates no audio player could be found
	ErrNoPlayer = errors.New("no audio player available")
)
