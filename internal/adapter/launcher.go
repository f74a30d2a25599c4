package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/mmcdole/memorylane/internal/domain"
)

// Launcher plays background tracks in an external audio player
type Launcher struct {
	command string   // configured player command, empty to auto-detect
	args    []string // additional arguments for the player
	logger  *slog.Logger
}

// playerConfig describes how to drive one known player
type playerConfig struct {
	volumeFlag  string   // e.g. "--volume=" or "-volume " (trailing space = separate arg)
	volumeScale float64  // player units for full volume
	quietArgs   []string // flags that keep the player off the terminal
}

// players registry - single source of truth for all player configuration
var players = map[string]playerConfig{
	"mpv": {
		volumeFlag:  "--volume=",
		volumeScale: 100,
		quietArgs:   []string{"--no-video", "--no-terminal"},
	},
	"ffplay": {
		volumeFlag:  "-volume ",
		volumeScale: 100,
		quietArgs:   []string{"-nodisp", "-autoexit", "-loglevel", "quiet"},
	},
	"afplay": {
		volumeFlag:  "-v ",
		volumeScale: 1,
	},
	"paplay": {
		volumeFlag:  "--volume=",
		volumeScale: 65536,
	},
	"cvlc": {
		volumeFlag:  "--gain=",
		volumeScale: 1,
		quietArgs:   []string{"--play-and-exit", "--quiet"},
	},
}

// candidatePlayers defines the preferred player order for each platform
var candidatePlayers = map[string][]string{
	"darwin":  {"afplay", "mpv", "ffplay"},
	"linux":   {"mpv", "ffplay", "paplay", "cvlc"},
	"windows": {"mpv", "ffplay"},
}

// lookPath and startCommand are swapped in tests
var (
	lookPath     = exec.LookPath
	startCommand = func(cmd *exec.Cmd) error { return cmd.Start() }
)

// NewLauncher creates a new Launcher
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		logger:  logger,
	}
}

// playerName normalizes a command path to a registry key
func playerName(command string) string {
	base := filepath.Base(command)
	// Strip any extension (for Windows .exe)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToLower(base)
}

// buildArgs assembles the argument list for a known or unknown player
func buildArgs(cfg playerConfig, known bool, extra []string, source string, volume float64) []string {
	args := []string{}
	if known {
		args = append(args, cfg.quietArgs...)
		if cfg.volumeFlag != "" {
			level := volume * cfg.volumeScale
			value := fmt.Sprintf("%.0f", level)
			if cfg.volumeScale <= 1 {
				value = fmt.Sprintf("%.2f", level)
			}
			// Handle flags that need a space (like "-volume 30") vs no space ("--volume=30")
			if strings.HasSuffix(cfg.volumeFlag, " ") {
				args = append(args, strings.TrimSuffix(cfg.volumeFlag, " "), value)
			} else {
				args = append(args, cfg.volumeFlag+value)
			}
		}
	}
	args = append(args, extra...)
	return append(args, source)
}

// Start plays source at volume (0-1) and returns the running track.
// Every failure wraps domain.ErrPlaybackRejected.
func (l *Launcher) Start(source string, volume float64) (domain.Track, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: empty audio source", domain.ErrPlaybackRejected)
	}
	source = expandSource(source)

	// Tier 1: User configured a specific player
	if l.command != "" {
		cfg, known := players[playerName(l.command)]
		args := buildArgs(cfg, known, l.args, source, volume)
		l.logger.Info("launching configured audio player", "command", l.command, "args", args)
		return l.start(l.command, args)
	}

	// Tier 2: Try candidate chain
	candidates, ok := candidatePlayers[runtime.GOOS]
	if !ok {
		candidates = candidatePlayers["linux"] // default
	}

	for _, name := range candidates {
		path, err := lookPath(name)
		if err != nil {
			l.logger.Debug("audio player not available", "player", name, "error", err)
			continue
		}
		args := buildArgs(players[name], true, l.args, source, volume)
		track, err := l.start(path, args)
		if err == nil {
			l.logger.Info("launched with detected audio player", "player", name, "source", source)
			return track, nil
		}
		l.logger.Debug("audio player failed to start", "player", name, "error", err)
	}

	return nil, fmt.Errorf("%w: %w", domain.ErrPlaybackRejected, domain.ErrNoPlayer)
}

func (l *Launcher) start(command string, args []string) (domain.Track, error) {
	cmd := exec.Command(command, args...)
	if err := startCommand(cmd); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrPlaybackRejected, command, err)
	}
	return newProcessTrack(cmd, l.logger), nil
}

// expandSource expands ~ in local paths; URLs pass through untouched
func expandSource(source string) string {
	if strings.Contains(source, "://") {
		return source
	}
	if expanded, err := expandHome(source); err == nil {
		return expanded
	}
	return source
}

// processTrack is a Track backed by a player process
type processTrack struct {
	cmd    *exec.Cmd
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

func newProcessTrack(cmd *exec.Cmd, logger *slog.Logger) *processTrack {
	t := &processTrack{cmd: cmd, done: make(chan struct{}), logger: logger}
	go t.wait()
	return t
}

func (t *processTrack) wait() {
	if t.cmd.Process != nil {
		if err := t.cmd.Wait(); err != nil {
			t.logger.Debug("audio player exited", "error", err)
		}
	}
	t.once.Do(func() { close(t.done) })
}

// Stop kills the player process
func (t *processTrack) Stop() error {
	if t.cmd.Process == nil {
		return nil
	}
	if err := t.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to stop audio player: %w", err)
	}
	return nil
}

// Done is closed when the player exits
func (t *processTrack) Done() <-chan struct{} {
	return t.done
}
