package tui

import (
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/memorylane/internal/domain"
	"github.com/mmcdole/memorylane/internal/service"
	"github.com/mmcdole/memorylane/internal/store"
)

type fakeTrack struct {
	done chan struct{}
	once sync.Once
}

func (t *fakeTrack) Stop() error {
	t.once.Do(func() { close(t.done) })
	return nil
}

func (t *fakeTrack) Done() <-chan struct{} { return t.done }

type fakeLauncher struct {
	mu      sync.Mutex
	sources []string
}

func (l *fakeLauncher) Start(source string, volume float64) (domain.Track, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sources = append(l.sources, source)
	return &fakeTrack{done: make(chan struct{})}, nil
}

func TestModel_LoaderSkipsOnAnyKey(t *testing.T) {
	m := newTestModel(t, Options{LoaderDuration: time.Second})
	assert.Equal(t, StateLoading, m.State)

	updated, _ := m.Update(keyRune('x'))
	m = updated.(Model)
	assert.Equal(t, StateBrowsing, m.State)
}

func TestModel_LoaderEndsOnTimer(t *testing.T) {
	m := newTestModel(t, Options{LoaderDuration: time.Second})
	assert.Contains(t, m.View(), "Test Lane")

	updated, _ := m.Update(LoaderDoneMsg{})
	m = updated.(Model)
	assert.Equal(t, StateBrowsing, m.State)
}

func TestModel_NoLoader(t *testing.T) {
	m := newTestModel(t, Options{})
	assert.Equal(t, StateBrowsing, m.State)
	assert.Equal(t, 0, m.Active)
	assert.True(t, m.visited[0])
}

func TestModel_LineScrollPublishesOffset(t *testing.T) {
	m := newTestModel(t, Options{})

	updated, _ := m.Update(keyRune('j'))
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	assert.Equal(t, 2, m.Offset)
	assert.Equal(t, 2.0, m.Feed.Offset())

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	m = updated.(Model)
	assert.Equal(t, 12, m.Offset)

	for i := 0; i < 20; i++ {
		updated, _ = m.Update(keyRune('k'))
		m = updated.(Model)
	}
	assert.Equal(t, 0, m.Offset, "scrolling clamps at the top")
}

func TestModel_CueEffectsRunAfterUpdate(t *testing.T) {
	m := newTestModel(t, Options{})

	cmd := m.scrollTo(50)
	assert.Equal(t, 0, m.Scenes[1].Particles.Len(), "burst waits for its command")
	assert.False(t, m.Scenes[1].Typer.started)

	msgs := collectMsgs(cmd)
	assert.Contains(t, msgs, SpawnParticlesMsg{Section: 1, Count: burstSize})
	assert.Contains(t, msgs, StartTypewriterMsg{Section: 1})

	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	assert.Equal(t, burstSize, m.Scenes[1].Particles.Len())
	assert.True(t, m.Scenes[1].Typer.started)
	assert.True(t, m.animating)
}

func TestModel_SectionJumpGlides(t *testing.T) {
	m := newTestModel(t, Options{})

	updated, cmd := m.Update(keyRune('J'))
	m = updated.(Model)
	require.NotNil(t, m.glide)
	assert.NotNil(t, cmd, "glide starts the frame tick")
	assert.Equal(t, 0, m.Offset, "glide moves on frames, not at once")

	m = settle(t, m)
	assert.Equal(t, 40, m.Offset)
	assert.Equal(t, 1, m.Active)
	assert.True(t, m.visited[1])
}

func TestModel_SectionJumpIgnoredDuringGlide(t *testing.T) {
	m := newTestModel(t, Options{})

	updated, _ := m.Update(keyRune('J'))
	m = updated.(Model)
	g := m.glide

	updated, _ = m.Update(keyRune('J'))
	m = updated.(Model)
	updated, _ = m.Update(keyRune('G'))
	m = updated.(Model)
	assert.Same(t, g, m.glide)

	m = settle(t, m)
	assert.Equal(t, 40, m.Offset)
}

func TestModel_LineScrollCancelsGlide(t *testing.T) {
	m := newTestModel(t, Options{})

	updated, _ := m.Update(keyRune('G'))
	m = updated.(Model)
	require.NotNil(t, m.glide)

	updated, _ = m.Update(keyRune('j'))
	m = updated.(Model)
	assert.Nil(t, m.glide)
	assert.Equal(t, 1, m.Offset)
}

func TestModel_DirectJumps(t *testing.T) {
	m := newTestModel(t, Options{})

	updated, _ := m.Update(keyRune('3'))
	m = settle(t, updated.(Model))
	assert.Equal(t, 80, m.Offset)
	assert.Equal(t, 2, m.Active)

	updated, _ = m.Update(keyRune('g'))
	m = settle(t, updated.(Model))
	assert.Equal(t, 0, m.Offset)

	updated, _ = m.Update(keyRune('9'))
	m = updated.(Model)
	assert.Nil(t, m.glide, "no section 9")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	m = settle(t, updated.(Model))
	assert.Equal(t, 80, m.Offset)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	m = settle(t, updated.(Model))
	assert.Equal(t, 40, m.Offset)
}

func TestModel_LaneProgress(t *testing.T) {
	m := newTestModel(t, Options{})
	assert.Equal(t, 0.0, m.LaneProgress())

	m.scrollTo(40)
	assert.InDelta(t, 0.5, m.LaneProgress(), 1e-9)
	assert.False(t, m.tracker.finished)

	m.scrollTo(80)
	assert.Equal(t, 1.0, m.LaneProgress())
	assert.True(t, m.tracker.finished)
}

func TestModel_HelpAnyKeyReturns(t *testing.T) {
	m := newTestModel(t, Options{})

	updated, _ := m.Update(keyRune('?'))
	m = updated.(Model)
	assert.Equal(t, StateHelp, m.State)
	assert.Contains(t, m.View(), "next memory")

	updated, _ = m.Update(keyRune('x'))
	m = updated.(Model)
	assert.Equal(t, StateBrowsing, m.State)
}

func TestModel_JumpModalFindsSection(t *testing.T) {
	m := newTestModel(t, Options{})

	updated, _ := m.Update(keyRune('/'))
	m = updated.(Model)
	require.Equal(t, StateJumping, m.State)
	assert.True(t, m.JumpModal.IsVisible())

	for _, r := range "coffee" {
		updated, _ = m.Update(keyRune(r))
		m = updated.(Model)
	}
	assert.Equal(t, "coffee", m.JumpModal.Query())
	match, ok := m.JumpModal.Selected()
	require.True(t, ok)
	assert.Equal(t, 1, match.Index)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.Equal(t, StateBrowsing, m.State)
	assert.False(t, m.JumpModal.IsVisible())

	m = settle(t, m)
	assert.Equal(t, 40, m.Offset)
}

func TestModel_JumpModalEscape(t *testing.T) {
	m := newTestModel(t, Options{})

	updated, _ := m.Update(keyRune('/'))
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.Equal(t, StateBrowsing, m.State)
	assert.Equal(t, 0, m.Offset)
}

func TestModel_ReplayRewindsActiveSection(t *testing.T) {
	m := newTestModel(t, Options{})
	for _, msg := range collectMsgs(m.scrollTo(60)) {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	m.Scenes[1].Typer.Complete()
	require.Equal(t, 1, m.Active)

	updated, cmd := m.Update(keyRune('r'))
	m = updated.(Model)
	assert.NotNil(t, cmd)
	assert.Equal(t, "Replaying Coffee", m.StatusMsg)
	assert.False(t, m.Scenes[1].Typer.Done())
	assert.Equal(t, 0, m.Scenes[1].Particles.Len())
}

func TestModel_HeartBurst(t *testing.T) {
	m := newTestModel(t, Options{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	msgs := collectMsgs(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, SpawnParticlesMsg{Section: 0, Glyphs: heartGlyphs, Count: burstSize}, msgs[0])
}

func TestModel_ResizeKeepsRelativePosition(t *testing.T) {
	m := newTestModel(t, Options{})
	m.scrollTo(50)
	m.effects.drain()

	updated, _ := m.Update(tea.WindowSizeMsg{Width: testWidth, Height: 40 + ChromeHeight})
	m = updated.(Model)

	// 10 rows into a 40-row section becomes 20 rows into an 80-row one
	assert.Equal(t, 100, m.Offset)
	assert.Equal(t, 1, m.Active)
	assert.Equal(t, 100.0, m.Feed.Offset())
	assert.Empty(t, m.effects.items, "rebuild catches up without replaying effects")
	assert.Equal(t, 4, m.Feed.Len(), "old controllers are detached")
}

func TestModel_ResumeOpensAtSavedSection(t *testing.T) {
	st, err := store.NewResumeStore("")
	require.NoError(t, err)
	require.NoError(t, st.SaveResume(domain.Resume{
		LaneID:  "test-lane",
		Section: 2,
		Visited: []string{"meeting", "coffee"},
	}))
	session := service.NewSessionService(st, "test-lane", discardLogger())

	lane := testLane()
	m := NewModel(lane, nil, service.NewSearchService(lane), session, Options{
		Resume:         true,
		LoaderDuration: time.Second,
		Logger:         discardLogger(),
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	m = updated.(Model)

	assert.Equal(t, 80, m.Offset)
	assert.Equal(t, 2, m.Active)
	assert.True(t, m.visited[0])
	assert.True(t, m.visited[1])

	// Controllers catch up: earlier cues fired, effects settled
	assert.True(t, m.Scenes[0].ArtShown)
	assert.True(t, m.Scenes[1].Typer.Done())
	assert.Equal(t, 0, m.Scenes[1].Particles.Len())
	assert.Empty(t, m.effects.items)

	updated, _ = m.Update(LoaderDoneMsg{})
	m = updated.(Model)
	assert.Equal(t, "Welcome back", m.StatusMsg)
}

func TestModel_SectionChangeSavesPosition(t *testing.T) {
	st, err := store.NewResumeStore("")
	require.NoError(t, err)
	session := service.NewSessionService(st, "test-lane", discardLogger())

	lane := testLane()
	m := NewModel(lane, nil, service.NewSearchService(lane), session, Options{Logger: discardLogger()})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	m = updated.(Model)

	msgs := collectMsgs(m.scrollTo(40))
	assert.Contains(t, msgs, ResumeSavedMsg{Section: 1})

	r, ok := st.LoadResume("test-lane")
	require.True(t, ok)
	assert.Equal(t, 1, r.Section)
	assert.Equal(t, 40, r.Offset)
	assert.Equal(t, []string{"coffee"}, r.Visited)

	m.scrollTo(80)
	require.NoError(t, m.Close())
	r, ok = st.LoadResume("test-lane")
	require.True(t, ok)
	assert.Equal(t, 2, r.Section)
	assert.Equal(t, 0, m.Feed.Len())
}

func TestModel_MusicToggle(t *testing.T) {
	launcher := &fakeLauncher{}
	lane := testLane()
	playback := service.NewPlaybackService(launcher, 0.3, discardLogger())
	m := NewModel(lane, playback, service.NewSearchService(lane), nil, Options{Logger: discardLogger()})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	m = updated.(Model)

	updated, _ = m.Update(keyRune('m'))
	m = updated.(Model)
	assert.Equal(t, "No music for this memory", m.StatusMsg)

	m.scrollTo(40)
	_, cmd := m.Update(keyRune('m'))
	msgs := collectMsgs(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, AudioToggledMsg{SectionID: "coffee", Playing: true}, msgs[0])
	assert.Equal(t, []string{"coffee.mp3"}, launcher.sources)

	updated, _ = m.Update(msgs[0])
	m = updated.(Model)
	assert.Equal(t, "♪ Playing Coffee", m.StatusMsg)
	assert.Contains(t, m.View(), "playing")

	_, cmd = m.Update(keyRune('m'))
	assert.Equal(t, []tea.Msg{AudioToggledMsg{SectionID: "coffee", Playing: false}}, collectMsgs(cmd))
}

func TestModel_BlurStopsMusic(t *testing.T) {
	launcher := &fakeLauncher{}
	lane := testLane()
	playback := service.NewPlaybackService(launcher, 0.3, discardLogger())
	m := NewModel(lane, playback, service.NewSearchService(lane), nil, Options{Logger: discardLogger()})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	m = updated.(Model)

	_, cmd := m.Update(tea.BlurMsg{})
	assert.Nil(t, cmd, "nothing to stop")

	require.NoError(t, playback.Play("coffee", "coffee.mp3"))
	updated, cmd = m.Update(tea.BlurMsg{})
	m = updated.(Model)
	assert.Equal(t, []tea.Msg{AudioToggledMsg{SectionID: "coffee", Playing: false}}, collectMsgs(cmd))
	_, playing := playback.Playing()
	assert.False(t, playing)

	_, cmd = m.Update(tea.FocusMsg{})
	assert.Nil(t, cmd, "focus does not restart music")
	_, playing = playback.Playing()
	assert.False(t, playing)
}

func TestModel_AutoplayCue(t *testing.T) {
	launcher := &fakeLauncher{}
	lane := testLane()
	playback := service.NewPlaybackService(launcher, 0.3, discardLogger())
	m := NewModel(lane, playback, service.NewSearchService(lane), nil, Options{Autoplay: true, Logger: discardLogger()})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	m = updated.(Model)

	msgs := collectMsgs(m.scrollTo(60))
	assert.Contains(t, msgs, AudioToggledMsg{SectionID: "coffee", Playing: true})
	assert.Equal(t, []string{"coffee.mp3"}, launcher.sources)
}

func TestModel_AutoplayOff(t *testing.T) {
	launcher := &fakeLauncher{}
	lane := testLane()
	playback := service.NewPlaybackService(launcher, 0.3, discardLogger())
	m := NewModel(lane, playback, service.NewSearchService(lane), nil, Options{Logger: discardLogger()})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	m = updated.(Model)

	collectMsgs(m.scrollTo(60))
	assert.Empty(t, launcher.sources)
}

func TestModel_TrackEnded(t *testing.T) {
	ch := make(chan string, 1)
	m := newTestModel(t, Options{TrackEnded: ch})

	ch <- "coffee"
	assert.Equal(t, TrackEndedMsg{SectionID: "coffee"}, ListenTrackEndedCmd(ch)())

	updated, cmd := m.Update(TrackEndedMsg{SectionID: "coffee"})
	m = updated.(Model)
	assert.Equal(t, "♪ Coffee finished", m.StatusMsg)
	assert.NotNil(t, cmd)

	close(ch)
	assert.Nil(t, ListenTrackEndedCmd(ch)())
}

func TestChannelObserver_NonBlocking(t *testing.T) {
	ch := make(chan string, 1)
	o := NewChannelObserver(ch)

	o.OnTrackEnded("a")
	o.OnTrackEnded("b")
	assert.Equal(t, "a", <-ch)
	assert.Empty(t, ch)
}

func TestModel_MouseWheelAndDots(t *testing.T) {
	m := newTestModel(t, Options{})

	updated, _ := m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	m = updated.(Model)
	assert.Equal(t, wheelStep, m.Offset)

	updated, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	m = updated.(Model)
	assert.Equal(t, 0, m.Offset)

	// Three dots centered in 20 rows sit on rows 7, 9 and 11
	updated, _ = m.Update(tea.MouseMsg{X: testWidth - 1, Y: 9, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m = settle(t, updated.(Model))
	assert.Equal(t, 40, m.Offset)
}

func TestModel_ErrorStatus(t *testing.T) {
	m := newTestModel(t, Options{})

	updated, cmd := m.Update(ErrMsg{Err: domain.ErrPlaybackRejected, Context: "Play music"})
	m = updated.(Model)
	assert.True(t, m.StatusIsErr)
	assert.Equal(t, "Play music: playback rejected", m.StatusMsg)
	assert.NotNil(t, cmd)

	updated, _ = m.Update(ClearStatusMsg{})
	m = updated.(Model)
	assert.Empty(t, m.StatusMsg)
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, Options{})

	view := m.View()
	assert.Contains(t, view, "First Meeting")
	assert.Contains(t, view, "1/3 · First Meeting")
	assert.Contains(t, view, "? help")
}
