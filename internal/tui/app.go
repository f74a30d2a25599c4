package tui

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/memorylane/internal/domain"
	"github.com/mmcdole/memorylane/internal/scroll"
	"github.com/mmcdole/memorylane/internal/service"
	"github.com/mmcdole/memorylane/internal/tui/components"
	"github.com/mmcdole/memorylane/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateLoading ApplicationState = iota
	StateBrowsing
	StateJumping
	StateHelp
)

// Options tunes the model from configuration
type Options struct {
	LoaderDuration time.Duration
	Autoplay       bool
	Resume         bool
	Logger         *slog.Logger
	Seed           uint64        // particle randomness, 0 picks one
	TrackEnded     <-chan string // fed by a ChannelObserver
}

// laneTracker follows progress over the whole document
type laneTracker struct {
	ctl      *scroll.Controller
	ratio    float64
	finished bool
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	Lane *domain.Lane

	// Services
	PlaybackSvc *service.PlaybackService
	SearchSvc   *service.SearchService
	SessionSvc  *service.SessionService

	// Scroll plumbing
	Feed   *scroll.Feed
	Scenes []*Scene

	// UI Components
	Viewport  viewport.Model
	Progress  progress.Model
	Spinner   spinner.Model
	Help      help.Model
	JumpModal components.JumpModal

	// Dimensions
	Width  int
	Height int

	// Reading position
	Offset int
	Active int

	// UI state
	StatusMsg   string
	StatusIsErr bool

	layout    laneLayout
	tracker   *laneTracker
	effects   *effectQueue
	glide     *glide
	animating bool
	lastFrame time.Time
	restoreTo int // section to open at once laid out, -1 for none
	resumed   bool
	visited   map[int]bool
	opts      Options
	logger    *slog.Logger
	rng       *rand.Rand
}

// NewModel creates a new application model
func NewModel(
	lane *domain.Lane,
	playbackSvc *service.PlaybackService,
	searchSvc *service.SearchService,
	sessionSvc *service.SessionService,
	opts Options,
) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	m := Model{
		State:       StateLoading,
		Lane:        lane,
		PlaybackSvc: playbackSvc,
		SearchSvc:   searchSvc,
		SessionSvc:  sessionSvc,
		Feed:        scroll.NewFeed(),
		Viewport:    viewport.New(0, 0),
		Progress: progress.New(
			progress.WithGradient(string(styles.Honey), string(styles.Rose)),
			progress.WithoutPercentage(),
			progress.WithWidth(20),
		),
		Spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(styles.SpinnerStyle),
		),
		Help:      help.New(),
		JumpModal: components.NewJumpModal(),
		restoreTo: -1,
		visited:   make(map[int]bool),
		effects:   &effectQueue{},
		opts:      opts,
		logger:    logger,
		rng:       rand.New(rand.NewPCG(seed, seed>>1|1)),
	}

	if opts.LoaderDuration <= 0 {
		m.State = StateBrowsing
	}

	if opts.Resume && sessionSvc != nil {
		if r, ok := sessionSvc.Restore(); ok && r.Section >= 0 && r.Section < lane.Len() {
			m.restoreTo = r.Section
			m.resumed = true
			for i, sec := range lane.Sections {
				if r.HasVisited(sec.ID) {
					m.visited[i] = true
				}
			}
			logger.Info("resuming lane", "lane", lane.ID, "section", r.Section)
		}
	}

	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.opts.TrackEnded != nil {
		cmds = append(cmds, ListenTrackEndedCmd(m.opts.TrackEnded))
	}
	if m.State == StateLoading {
		cmds = append(cmds, m.Spinner.Tick, LoaderCmd(m.opts.LoaderDuration))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.BlurMsg:
		// Music stops while the terminal is in the background; it does not
		// come back on focus
		if id := m.playingSection(); id != "" {
			m.logger.Info("terminal lost focus, stopping music", "section", id)
			return m, StopAudioCmd(m.PlaybackSvc, id)
		}
		return m, nil

	case spinner.TickMsg:
		if m.State != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case LoaderDoneMsg:
		return m, m.finishLoading()

	case FrameMsg:
		return m, m.handleFrame(msg.Time)

	case SpawnParticlesMsg:
		s := m.scene(msg.Section)
		if s == nil {
			return m, nil
		}
		glyphs := msg.Glyphs
		if len(glyphs) == 0 {
			glyphs = s.Section.Particles
		}
		if len(glyphs) == 0 {
			glyphs = s.Palette.Particles
		}
		x := float64(m.Viewport.Width) / 2
		y := float64(min(max(m.Offset-s.Top+m.Viewport.Height/2, 0), s.Lines-1))
		s.Particles.Burst(glyphs, msg.Count, x, y, m.rng)
		return m, m.startAnimating()

	case StartTypewriterMsg:
		s := m.scene(msg.Section)
		if s == nil {
			return m, nil
		}
		s.Typer.Start(time.Now())
		return m, m.startAnimating()

	case AudioToggledMsg:
		m.StatusIsErr = false
		if msg.Playing {
			m.StatusMsg = "♪ Playing " + m.sectionTitle(msg.SectionID)
		} else {
			m.StatusMsg = "Music stopped"
		}
		return m, ClearStatusCmd(statusTimeout)

	case TrackEndedMsg:
		m.StatusMsg = "♪ " + m.sectionTitle(msg.SectionID) + " finished"
		m.StatusIsErr = false
		return m, tea.Batch(
			ListenTrackEndedCmd(m.opts.TrackEnded),
			ClearStatusCmd(statusTimeout),
		)

	case ResumeSavedMsg:
		return m, nil

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(statusTimeout)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil

	case ErrMsg:
		m.logger.Warn("operation failed", "context", msg.Context, "error", msg.Err)
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(statusTimeout)
	}

	// Cursor blink and friends for the jump input
	if m.State == StateJumping {
		var cmd tea.Cmd
		m.JumpModal, cmd, _ = m.JumpModal.Update(msg)
		return m, cmd
	}

	return m, nil
}

// finishLoading leaves the loader
func (m *Model) finishLoading() tea.Cmd {
	if m.State != StateLoading {
		return nil
	}
	m.State = StateBrowsing
	if m.resumed {
		m.StatusMsg = "Welcome back"
		return ClearStatusCmd(statusTimeout)
	}
	return nil
}

// rebuildScenes lays the lane out for a viewport of view rows and creates a
// scene per section. Visual state carries over from the previous scenes.
func (m *Model) rebuildScenes(view int) {
	old := m.Scenes
	oldLayout := m.layout
	m.disposeScenes()

	m.layout = computeLayout(m.Lane, view)

	// Keep the reader at the same relative spot in the active section
	switch {
	case m.restoreTo >= 0:
		m.Offset = m.layout.sectionOffset(m.restoreTo)
		m.restoreTo = -1
	case len(oldLayout.tops) > 0 && m.Active >= 0 && m.Active < len(oldLayout.tops):
		frac := float64(m.Offset-oldLayout.tops[m.Active]) / float64(oldLayout.lines[m.Active])
		m.Offset = m.layout.tops[m.Active] + int(frac*float64(m.layout.lines[m.Active]))
	}
	m.Offset = m.layout.clampOffset(m.Offset)

	m.Scenes = make([]*Scene, len(m.layout.tops))
	for i, sec := range m.Lane.Sections {
		s, err := newScene(i, sec, m.layout.tops[i], m.layout.lines[i], m.layout.view, m.effects, m.logger)
		if err != nil {
			m.logger.Error("failed to build section", "section", sec.ID, "error", err)
			m.StatusMsg = fmt.Sprintf("Section %s: %v", sec.ID, err)
			m.StatusIsErr = true
			continue
		}
		s.Attach(m.Feed)
		m.Scenes[i] = s
	}
	m.tracker = m.newLaneTracker()

	// Catch up: every threshold below the current position fires in order,
	// with effects settled instead of replayed
	m.effects.catchUp = true
	m.Feed.Publish(float64(m.Offset))
	m.effects.catchUp = false

	for i, s := range m.Scenes {
		if s != nil && i < len(old) {
			s.carryOver(old[i])
		}
	}

	m.Active = m.layout.activeAt(m.Offset)
	if m.Active >= 0 {
		m.visited[m.Active] = true
	}
}

// newLaneTracker follows whole-lane progress for the footer bar
func (m *Model) newLaneTracker() *laneTracker {
	t := &laneTracker{}
	end := m.layout.maxOffset()
	if end <= 0 {
		t.ratio, t.finished = 1, true
		return t
	}

	ctl, err := scroll.NewController(scroll.Region{Start: 0, End: float64(end)},
		scroll.WithLogger(m.logger), scroll.WithName("lane"))
	if err != nil {
		m.logger.Error("failed to track lane progress", "error", err)
		return t
	}
	if _, err := ctl.RegisterFadeWindow(scroll.FadeWindow{Start: 0, End: 1}, func(r float64) {
		t.ratio = r
	}); err != nil {
		m.logger.Error("failed to track lane progress", "error", err)
	}
	if _, err := ctl.RegisterThreshold(1, func(float64) {
		t.finished = true
	}); err != nil {
		m.logger.Error("failed to track lane end", "error", err)
	}
	ctl.Attach(m.Feed)
	t.ctl = ctl
	return t
}

func (m *Model) disposeScenes() {
	for _, s := range m.Scenes {
		if s != nil {
			s.Dispose()
		}
	}
	m.Scenes = nil
	if m.tracker != nil && m.tracker.ctl != nil {
		m.tracker.ctl.Dispose()
	}
	m.tracker = nil
}

// scrollTo moves the viewport and publishes the new offset
func (m *Model) scrollTo(offset int) tea.Cmd {
	offset = m.layout.clampOffset(offset)
	if offset == m.Offset {
		return nil
	}
	m.Offset = offset
	m.Feed.Publish(float64(offset))
	return m.afterScroll()
}

// scrollBy moves by delta lines, taking over from any glide
func (m *Model) scrollBy(delta int) tea.Cmd {
	m.glide = nil
	return m.scrollTo(m.Offset + delta)
}

// jumpToSection glides to section i. Ignored while a glide is in flight.
func (m *Model) jumpToSection(i int) tea.Cmd {
	if m.glide != nil || i < 0 || i >= len(m.layout.tops) {
		return nil
	}
	target := m.layout.sectionOffset(i)
	if target == m.Offset {
		return nil
	}
	m.glide = newGlide(m.Offset, target)
	return m.startAnimating()
}

// afterScroll tracks the active section and turns fired cue effects into
// commands
func (m *Model) afterScroll() tea.Cmd {
	cmds := m.effectCmds()

	if active := m.layout.activeAt(m.Offset); active != m.Active && active >= 0 {
		m.Active = active
		m.visited[active] = true
		if m.SessionSvc != nil {
			sec := m.Lane.Sections[active]
			cmds = append(cmds, SaveResumeCmd(m.SessionSvc, active, sec.ID, m.Offset))
		}
	}

	return tea.Batch(cmds...)
}

func (m *Model) effectCmds() []tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range m.effects.drain() {
		s := m.scene(e.section)
		if s == nil {
			continue
		}
		switch e.kind {
		case effectBurst:
			cmds = append(cmds, SpawnParticlesCmd(e.section, nil, burstSize))
		case effectTypewriter:
			cmds = append(cmds, StartTypewriterCmd(e.section))
		case effectAudio:
			if m.opts.Autoplay && m.PlaybackSvc != nil && s.Section.HasAudio() {
				cmds = append(cmds, PlayAudioCmd(m.PlaybackSvc, s.Section.ID, s.Section.Audio))
			}
		}
	}
	return cmds
}

// startAnimating starts the frame tick unless it is already running
func (m *Model) startAnimating() tea.Cmd {
	if m.animating {
		return nil
	}
	m.animating = true
	m.lastFrame = time.Time{}
	return FrameCmd()
}

// handleFrame advances the glide, particles and typewriters by one frame
func (m *Model) handleFrame(now time.Time) tea.Cmd {
	dt := frameInterval
	if !m.lastFrame.IsZero() {
		dt = now.Sub(m.lastFrame)
	}
	m.lastFrame = now

	var cmds []tea.Cmd
	live := false

	if m.glide != nil {
		pos, done := m.glide.step()
		if done {
			m.glide = nil
		} else {
			live = true
		}
		cmds = append(cmds, m.scrollTo(pos))
	}

	for _, s := range m.Scenes {
		if s != nil && s.Animate(now, dt) {
			live = true
		}
	}

	if live {
		cmds = append(cmds, FrameCmd())
	} else {
		m.animating = false
	}
	return tea.Batch(cmds...)
}

// replay rewinds the active section so its cues fire again
func (m *Model) replay() tea.Cmd {
	s := m.scene(m.Active)
	if s == nil {
		return nil
	}
	s.Replay(float64(m.Offset))
	m.StatusMsg = "Replaying " + s.Section.Title
	m.StatusIsErr = false
	return tea.Batch(append(m.effectCmds(), ClearStatusCmd(statusTimeout))...)
}

// toggleMusic starts or stops the active section's track
func (m *Model) toggleMusic() tea.Cmd {
	s := m.scene(m.Active)
	if s == nil || !s.Section.HasAudio() || m.PlaybackSvc == nil {
		m.StatusMsg = "No music for this memory"
		m.StatusIsErr = false
		return ClearStatusCmd(statusTimeout)
	}
	return ToggleAudioCmd(m.PlaybackSvc, s.Section.ID, s.Section.Audio)
}

func (m Model) scene(i int) *Scene {
	if i < 0 || i >= len(m.Scenes) {
		return nil
	}
	return m.Scenes[i]
}

func (m Model) sectionTitle(id string) string {
	if i, err := m.Lane.SectionIndex(id); err == nil {
		return m.Lane.Sections[i].Title
	}
	return id
}

func (m Model) playingSection() string {
	if m.PlaybackSvc == nil {
		return ""
	}
	id, _ := m.PlaybackSvc.Playing()
	return id
}

// LaneProgress returns how far through the whole lane the reader is, 0 to 1
func (m Model) LaneProgress() float64 {
	if m.tracker == nil {
		return 0
	}
	return m.tracker.ratio
}

// Close saves the reading position and releases controllers and audio
func (m Model) Close() error {
	var firstErr error
	if m.SessionSvc != nil && m.Active >= 0 && m.Active < m.Lane.Len() {
		if err := m.SessionSvc.Record(m.Active, m.Lane.Sections[m.Active].ID, m.Offset); err != nil {
			firstErr = err
		}
	}
	if m.PlaybackSvc != nil {
		if err := m.PlaybackSvc.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.disposeScenes()
	m.Feed.Close()
	return firstErr
}
