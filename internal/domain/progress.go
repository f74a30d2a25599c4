package domain

import "time"

// Resume records where the reader left a lane.
// Scroll controllers are never persisted; they are rebuilt and catch up.
type Resume struct {
	LaneID    string    `json:"lane_id"`
	Section   int       `json:"section"`
	Offset    int       `json:"offset"`
	Visited   []string  `json:"visited,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasVisited returns true if the section ID was reached before
func (r Resume) HasVisited(id string) bool {
	for _, v := range r.Visited {
		if v == id {
			return true
		}
	}
	return false
}
