package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/memorylane/internal/domain"
	"github.com/mmcdole/memorylane/internal/scroll"
)

func TestLaneService_BuiltInLaneIsValid(t *testing.T) {
	lane, err := NewLaneService("", nil).Load("")
	require.NoError(t, err)

	assert.Equal(t, "memory-lane", lane.ID)
	require.GreaterOrEqual(t, lane.Len(), 2)
	assert.Equal(t, "bumble-meeting", lane.Sections[0].ID)
	assert.Equal(t, "First Coffee Together", lane.Sections[1].Title)

	bee := lane.Sections[0]
	assert.Equal(t, domain.ThemeBee, bee.Theme)
	assert.Contains(t, bee.Cues, domain.Cue{At: 0.6, Action: domain.ActionBurst})
	assert.Contains(t, bee.Fades, domain.Fade{Start: 0.85, End: 0.95, Target: domain.TargetArt, Invert: true})

	// Sections without anchors get the pinned defaults
	last := lane.Sections[len(lane.Sections)-1]
	assert.Equal(t, DefaultStartAnchor, last.Start)
	assert.Equal(t, DefaultEndAnchor, last.End)
}

func TestLaneService_BuiltInArtKeepsIndentation(t *testing.T) {
	lane, err := NewLaneService("", nil).Load("")
	require.NoError(t, err)

	art := strings.Split(lane.Sections[0].Art, "\n")
	require.Greater(t, len(art), 2)
	assert.True(t, strings.HasPrefix(art[0], "    \\     /"), "first art line keeps its lead: %q", art[0])
	assert.True(t, strings.HasPrefix(art[1], " .-"), "second art line: %q", art[1])

	for _, sec := range lane.Sections {
		assert.NotEmpty(t, sec.Art, sec.ID)
	}
}

func TestLaneService_LoadFileDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sections:
  - id: picnic
    title: Picnic
    cues:
      - { at: 0.5, action: reveal-art }
`), 0o600))

	lane, err := NewLaneService("ocean", nil).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "summer", lane.ID)
	assert.Equal(t, "Memory Lane", lane.Title)
	sec := lane.Sections[0]
	assert.Equal(t, DefaultSectionHeight, sec.Height)
	assert.Equal(t, domain.ThemeOcean, sec.Theme)
	assert.Equal(t, "top top", sec.Start)
	assert.Equal(t, "bottom bottom", sec.End)
}

func TestLaneService_ParseJSON(t *testing.T) {
	data := []byte(`{"id":"j","title":"J","sections":[{"id":"a","title":"A","height":2,"fades":[{"start":0.1,"end":0.4,"target":"text"}]}]}`)

	lane, err := NewLaneService("", nil).Parse(data, "json", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "j", lane.ID)
	assert.Equal(t, 2, lane.Sections[0].Height)
	assert.Equal(t, domain.TargetText, lane.Sections[0].Fades[0].Target)
}

func TestValidateLane(t *testing.T) {
	valid := func() domain.Section {
		return domain.Section{
			ID: "a", Title: "A", Theme: domain.ThemeDefault, Height: 2,
			Start: "top top", End: "bottom bottom",
		}
	}

	tests := []struct {
		name   string
		mutate func(*domain.Lane)
		want   string
	}{
		{"no sections", func(l *domain.Lane) { l.Sections = nil }, "no sections"},
		{"missing id", func(l *domain.Lane) { l.Sections[0].ID = "" }, "missing id"},
		{"duplicate id", func(l *domain.Lane) { l.Sections = append(l.Sections, l.Sections[0]) }, "duplicate id"},
		{"zero height", func(l *domain.Lane) { l.Sections[0].Height = 0 }, "height"},
		{"bad theme", func(l *domain.Lane) { l.Sections[0].Theme = "disco" }, "unknown theme"},
		{"bad anchor", func(l *domain.Lane) { l.Sections[0].Start = "top" }, "start"},
		{"cue out of range", func(l *domain.Lane) {
			l.Sections[0].Cues = []domain.Cue{{At: 1.5, Action: domain.ActionBurst}}
		}, "outside [0,1]"},
		{"unknown action", func(l *domain.Lane) {
			l.Sections[0].Cues = []domain.Cue{{At: 0.5, Action: "explode"}}
		}, "unknown cue action"},
		{"audio cue without audio", func(l *domain.Lane) {
			l.Sections[0].Cues = []domain.Cue{{At: 0.5, Action: domain.ActionPlayAudio}}
		}, "without audio"},
		{"inverted fade", func(l *domain.Lane) {
			l.Sections[0].Fades = []domain.Fade{{Start: 0.8, End: 0.2, Target: domain.TargetArt}}
		}, "fade art"},
		{"unknown target", func(l *domain.Lane) {
			l.Sections[0].Fades = []domain.Fade{{Start: 0.1, End: 0.2, Target: "sky"}}
		}, "unknown fade target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lane := &domain.Lane{ID: "l", Sections: []domain.Section{valid()}}
			tt.mutate(lane)

			err := ValidateLane(lane)
			require.ErrorIs(t, err, domain.ErrInvalidLane)
			assert.ErrorContains(t, err, tt.want)
		})
	}

	assert.NoError(t, ValidateLane(&domain.Lane{Sections: []domain.Section{valid()}}))
}

func TestValidateLane_InvertedFadeIsScrollConfigError(t *testing.T) {
	lane := &domain.Lane{Sections: []domain.Section{{
		ID: "a", Title: "A", Theme: domain.ThemeDefault, Height: 1,
		Start: "top top", End: "bottom top",
		Fades: []domain.Fade{{Start: 0.5, End: 0.5, Target: domain.TargetText}},
	}}}

	err := ValidateLane(lane)
	assert.ErrorIs(t, err, scroll.ErrInvalidConfig)
}

func TestLaneService_InvalidYAML(t *testing.T) {
	_, err := NewLaneService("", nil).Parse([]byte("sections: [::"), "yaml", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidLane)
}
