package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/memorylane/internal/store"
)

func TestSessionService_RecordAndRestore(t *testing.T) {
	st, err := store.NewResumeStore("")
	require.NoError(t, err)

	when := time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)
	svc := NewSessionService(st, "lane", nil)
	svc.now = func() time.Time { return when }

	_, ok := svc.Restore()
	assert.False(t, ok)

	require.NoError(t, svc.Record(0, "bee", 0))
	require.NoError(t, svc.Record(1, "coffee", 120))
	require.NoError(t, svc.Record(0, "bee", 10))

	r, ok := svc.Restore()
	require.True(t, ok)
	assert.Equal(t, 0, r.Section)
	assert.Equal(t, 10, r.Offset)
	assert.Equal(t, []string{"bee", "coffee"}, r.Visited)
	assert.True(t, when.Equal(r.UpdatedAt))

	// A new session picks up the visited sections on record
	again := NewSessionService(st, "lane", nil)
	assert.Equal(t, []string{"bee", "coffee"}, again.Visited())

	require.NoError(t, again.Clear())
	_, ok = again.Restore()
	assert.False(t, ok)
	assert.Empty(t, again.Visited())
}

func TestSessionService_NilStore(t *testing.T) {
	svc := NewSessionService(nil, "lane", nil)
	assert.NoError(t, svc.Record(1, "x", 5))
	_, ok := svc.Restore()
	assert.False(t, ok)
	assert.NoError(t, svc.Clear())
}
