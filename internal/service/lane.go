package service

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mmcdole/memorylane/internal/domain"
	"github.com/mmcdole/memorylane/internal/scroll"
)

//go:embed lanes/default.yaml
var defaultLane []byte

// Section defaults, taken from the bee section's pinned scroll span
const (
	DefaultSectionHeight = 3
	DefaultStartAnchor   = "top top"
	DefaultEndAnchor     = "bottom bottom"
)

// LaneService loads and validates lane files
type LaneService struct {
	theme  domain.Theme // fallback theme for sections without one
	logger *slog.Logger
}

// NewLaneService creates a new lane service. fallbackTheme is applied to
// sections that name none.
func NewLaneService(fallbackTheme string, logger *slog.Logger) *LaneService {
	if logger == nil {
		logger = slog.Default()
	}
	theme := domain.Theme(fallbackTheme)
	if !theme.Valid() {
		theme = domain.ThemeDefault
	}
	return &LaneService{theme: theme, logger: logger}
}

// Load reads the lane at path, or the built-in lane when path is empty
func (s *LaneService) Load(path string) (*domain.Lane, error) {
	if path == "" {
		s.logger.Debug("loading built-in lane")
		return s.Parse(defaultLane, "yaml", "memory-lane")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lane file: %w", err)
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		ext = "yaml"
	}
	fallbackID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	lane, err := s.Parse(data, ext, fallbackID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s.logger.Info("loaded lane", "path", path, "id", lane.ID, "sections", lane.Len())
	return lane, nil
}

// Parse decodes a lane in any format viper reads (yaml, json, toml, ...),
// applies defaults and validates it. fallbackID names lanes without an id.
func (s *LaneService) Parse(data []byte, format, fallbackID string) (*domain.Lane, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidLane, err)
	}

	lane := &domain.Lane{}
	if err := v.Unmarshal(lane); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidLane, err)
	}

	if lane.ID == "" {
		lane.ID = fallbackID
	}
	s.applyDefaults(lane)

	if err := ValidateLane(lane); err != nil {
		return nil, err
	}
	return lane, nil
}

func (s *LaneService) applyDefaults(lane *domain.Lane) {
	if lane.Title == "" {
		lane.Title = "Memory Lane"
	}
	for i := range lane.Sections {
		sec := &lane.Sections[i]
		if sec.Height == 0 {
			sec.Height = DefaultSectionHeight
		}
		if sec.Start == "" {
			sec.Start = DefaultStartAnchor
		}
		if sec.End == "" {
			sec.End = DefaultEndAnchor
		}
		if sec.Theme == "" {
			sec.Theme = s.theme
		}
		sec.Art = strings.TrimRight(sec.Art, "\n")
		sec.Text = strings.TrimSpace(sec.Text)
	}
}

// ValidateLane checks every section. Errors wrap domain.ErrInvalidLane and
// name the offending section.
func ValidateLane(lane *domain.Lane) error {
	if lane == nil || len(lane.Sections) == 0 {
		return fmt.Errorf("%w: lane has no sections", domain.ErrInvalidLane)
	}

	var errs []error
	seen := make(map[string]bool)
	for i, sec := range lane.Sections {
		name := sec.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
			errs = append(errs, fmt.Errorf("section %s: missing id", name))
		} else if seen[sec.ID] {
			errs = append(errs, fmt.Errorf("section %s: duplicate id", name))
		}
		seen[sec.ID] = true

		for _, err := range validateSection(sec) {
			errs = append(errs, fmt.Errorf("section %s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidLane, errors.Join(errs...))
	}
	return nil
}

func validateSection(sec domain.Section) []error {
	var errs []error

	if sec.Title == "" {
		errs = append(errs, errors.New("missing title"))
	}
	if sec.Height < 1 {
		errs = append(errs, fmt.Errorf("height %d must be at least 1", sec.Height))
	}
	if !sec.Theme.Valid() {
		errs = append(errs, fmt.Errorf("unknown theme %q", sec.Theme))
	}
	if _, err := scroll.ParseAnchor(sec.Start); err != nil {
		errs = append(errs, fmt.Errorf("start: %w", err))
	}
	if _, err := scroll.ParseAnchor(sec.End); err != nil {
		errs = append(errs, fmt.Errorf("end: %w", err))
	}

	for _, cue := range sec.Cues {
		if !cue.Action.Valid() {
			errs = append(errs, fmt.Errorf("unknown cue action %q", cue.Action))
		}
		if cue.At < 0 || cue.At > 1 {
			errs = append(errs, fmt.Errorf("cue %s at %g outside [0,1]", cue.Action, cue.At))
		}
		if cue.Action == domain.ActionPlayAudio && !sec.HasAudio() {
			errs = append(errs, errors.New("play-audio cue without audio"))
		}
	}

	for _, f := range sec.Fades {
		if !f.Target.Valid() {
			errs = append(errs, fmt.Errorf("unknown fade target %q", f.Target))
		}
		if f.Start < 0 || f.End > 1 {
			errs = append(errs, fmt.Errorf("fade %s window %g-%g outside [0,1]", f.Target, f.Start, f.End))
		}
		if err := (scroll.FadeWindow{Start: f.Start, End: f.End}).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("fade %s: %w", f.Target, err))
		}
	}

	return errs
}
