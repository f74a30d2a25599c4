package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/memorylane/internal/domain"
)

// SessionService remembers where the reader left a lane
type SessionService struct {
	store   domain.ResumeStore
	laneID  string
	visited []string
	logger  *slog.Logger
	now     func() time.Time

	mu sync.Mutex
}

// NewSessionService creates a session for laneID, picking up the visited
// sections already on record
func NewSessionService(store domain.ResumeStore, laneID string, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &SessionService{store: store, laneID: laneID, logger: logger, now: time.Now}
	if r, ok := s.Restore(); ok {
		s.visited = append(s.visited, r.Visited...)
	}
	return s
}

// Restore returns the saved position, if any
func (s *SessionService) Restore() (domain.Resume, bool) {
	if s.store == nil {
		return domain.Resume{}, false
	}
	r, ok := s.store.LoadResume(s.laneID)
	if !ok || r == nil {
		return domain.Resume{}, false
	}
	return *r, true
}

// Record saves the current section and offset and marks sectionID visited
func (s *SessionService) Record(section int, sectionID string, offset int) error {
	if s.store == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sectionID != "" && !contains(s.visited, sectionID) {
		s.visited = append(s.visited, sectionID)
	}

	r := domain.Resume{
		LaneID:    s.laneID,
		Section:   section,
		Offset:    offset,
		Visited:   append([]string(nil), s.visited...),
		UpdatedAt: s.now(),
	}
	if err := s.store.SaveResume(r); err != nil {
		s.logger.Warn("failed to save resume", "lane", s.laneID, "error", err)
		return err
	}
	return nil
}

// Visited returns the sections reached so far, oldest first
func (s *SessionService) Visited() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.visited...)
}

// Clear forgets the saved position and visited sections
func (s *SessionService) Clear() error {
	s.mu.Lock()
	s.visited = nil
	s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	return s.store.ClearResume(s.laneID)
}
