package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmcdole/memorylane/internal/adapter"
	"github.com/mmcdole/memorylane/internal/service"
	"github.com/mmcdole/memorylane/internal/store"
	"github.com/mmcdole/memorylane/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

// trackEndedBuffer holds track-ended events while the UI is busy
const trackEndedBuffer = 4

type flags struct {
	version bool
	config  string
	lane    string
	print   bool
	reset   bool

	writeConfig bool
	clearCache  bool
}

func main() {
	var f flags
	flag.BoolVar(&f.version, "v", false, "print version")
	flag.BoolVar(&f.version, "version", false, "print version")
	flag.StringVar(&f.config, "config", "", "config file (default ~/.config/memorylane/config.yaml)")
	flag.StringVar(&f.lane, "lane", "", "lane file to open (overrides lane.file)")
	flag.BoolVar(&f.print, "print", false, "print the lane as plain text and exit")
	flag.BoolVar(&f.reset, "reset", false, "forget the saved reading position")
	flag.BoolVar(&f.writeConfig, "write-config", false, "write the effective config file and exit")
	flag.BoolVar(&f.clearCache, "clear-cache", false, "remove every saved reading position")
	flag.Parse()

	if f.version {
		fmt.Printf("memorylane %s\n", Version)
		return
	}

	if err := run(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	// Load configuration
	cfg, err := adapter.LoadConfig(f.config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if f.lane != "" {
		cfg.Lane.File = f.lane
	}

	if f.writeConfig {
		if err := adapter.SaveConfig(cfg, f.config); err != nil {
			return err
		}
		fmt.Println("✓ Configuration saved!")
		return nil
	}

	// Setup logger
	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else if closer != nil {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting memorylane", "version", Version)

	lane, err := service.NewLaneService(cfg.UI.Theme, logger).Load(cfg.Lane.File)
	if err != nil {
		return fmt.Errorf("failed to load lane: %w", err)
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	if f.print || !interactive {
		width := 0
		if interactive {
			width, _, _ = term.GetSize(int(os.Stdout.Fd()))
		}
		fmt.Print(tui.RenderPlain(lane, width))
		return nil
	}

	if f.clearCache {
		if err := adapter.ClearCache(cfg.Cache.Dir); err != nil {
			return err
		}
		logger.Info("cleared resume cache", "dir", cfg.Cache.Dir)
	}

	resumeStore, err := store.NewResumeStore(cfg.Cache.Dir)
	if err != nil {
		logger.Warn("resume store unavailable, keeping position in memory", "error", err)
		resumeStore, _ = store.NewResumeStore("")
	}
	defer resumeStore.Close()
	logger.Debug("opened resume store", "dir", cfg.Cache.Dir, "lanes", resumeStore.Lanes())

	// Create services
	launcher := adapter.NewLauncher(cfg.Audio.Command, cfg.Audio.Args, logger)
	playbackSvc := service.NewPlaybackService(launcher, cfg.Audio.Volume, logger)
	trackEnded := make(chan string, trackEndedBuffer)
	playbackSvc.SetObserver(tui.NewChannelObserver(trackEnded))

	searchSvc := service.NewSearchService(lane)
	sessionSvc := service.NewSessionService(resumeStore, lane.ID, logger)
	if f.reset {
		if err := sessionSvc.Clear(); err != nil {
			logger.Warn("failed to clear resume", "lane", lane.ID, "error", err)
		}
	}

	// Create TUI model
	model := tui.NewModel(lane, playbackSvc, searchSvc, sessionSvc, tui.Options{
		LoaderDuration: cfg.UI.LoaderDuration,
		Autoplay:       cfg.Audio.Autoplay,
		Resume:         cfg.UI.Resume && !f.reset,
		Logger:         logger,
		TrackEnded:     trackEnded,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithReportFocus()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(model, opts...)

	logger.Info("starting TUI", "lane", lane.ID, "sections", lane.Len())

	final, err := p.Run()
	if m, ok := final.(tui.Model); ok {
		if cerr := m.Close(); cerr != nil {
			logger.Warn("failed to close cleanly", "error", cerr)
		}
	}
	if err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
