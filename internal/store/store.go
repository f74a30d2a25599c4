package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/memorylane/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// bucketResume holds one JSON-encoded domain.Resume per lane ID
var bucketResume = []byte("resume")

// ResumeStore implements domain.ResumeStore using BoltDB.
type ResumeStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// Encoded resumes by lane ID, promoted from bbolt on first read
	cache map[string][]byte
}

// NewResumeStore opens (or creates) the store under dir. An empty dir keeps
// everything in memory.
func NewResumeStore(dir string) (*ResumeStore, error) {
	if dir == "" {
		// Memory-only mode (no persistence)
		return &ResumeStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "memorylane.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketResume)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ResumeStore{db: db, cache: make(map[string][]byte)}, nil
}

// Close releases the database
func (s *ResumeStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// read returns the encoded resume for laneID, promoting bbolt hits into the
// memory cache
func (s *ResumeStore) read(laneID string) ([]byte, bool) {
	s.mu.RLock()
	data, ok := s.cache[laneID]
	s.mu.RUnlock()
	if ok || s.db == nil {
		return data, ok
	}

	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketResume).Get([]byte(laneID)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || data == nil {
		return nil, false
	}

	s.mu.Lock()
	s.cache[laneID] = data
	s.mu.Unlock()
	return data, true
}

func (s *ResumeStore) write(laneID string, data []byte) error {
	s.mu.Lock()
	s.cache[laneID] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketResume).Put([]byte(laneID), data)
	})
}

// === Resume ===

// LoadResume returns the saved position for a lane. A record that no longer
// decodes is treated as missing.
func (s *ResumeStore) LoadResume(laneID string) (*domain.Resume, bool) {
	data, ok := s.read(laneID)
	if !ok {
		return nil, false
	}
	var r domain.Resume
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, false
	}
	return &r, true
}

// SaveResume records the position for r.LaneID
func (s *ResumeStore) SaveResume(r domain.Resume) error {
	if r.LaneID == "" {
		return fmt.Errorf("resume has no lane id")
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now()
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode resume for %s: %w", r.LaneID, err)
	}
	if err := s.write(r.LaneID, data); err != nil {
		return fmt.Errorf("failed to save resume for %s: %w", r.LaneID, err)
	}
	return nil
}

// ClearResume forgets the position for a lane
func (s *ResumeStore) ClearResume(laneID string) error {
	s.mu.Lock()
	delete(s.cache, laneID)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketResume).Delete([]byte(laneID))
	})
}

// Lanes lists every lane with a saved position, in no particular order
func (s *ResumeStore) Lanes() []string {
	seen := make(map[string]bool)

	s.mu.RLock()
	for id := range s.cache {
		seen[id] = true
	}
	s.mu.RUnlock()

	if s.db != nil {
		_ = s.db.View(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketResume).ForEach(func(k, _ []byte) error {
				seen[string(k)] = true
				return nil
			})
		})
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	return ids
}
