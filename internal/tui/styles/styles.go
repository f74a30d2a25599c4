package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Color palette
var (
	Honey     = lipgloss.Color("#F5B82E")
	Rose      = lipgloss.Color("#FF6B9D")
	Night     = lipgloss.Color("#0B1026")
	SlateDark = lipgloss.Color("#1F2937")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Red       = lipgloss.Color("#EF4444")
	Black     = lipgloss.Color("#000000")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Rose)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)
)

// Nav dot characters
const (
	ActiveDotChar  = "●"
	VisitedDotChar = "◉"
	DotChar        = "○"
)

// Nav dot styles
var (
	ActiveDotStyle  = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	VisitedDotStyle = lipgloss.NewStyle().Foreground(LightGray)
	DotStyle        = lipgloss.NewStyle().Foreground(DimGray)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Rose).
			Padding(1, 2).
			Background(SlateDark)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(Rose).
				Padding(0, 1)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Rose)
)

// Palette colors one section theme
type Palette struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Decor      []string // background glyphs
	Particles  []string // default burst glyphs
}

var palettes = map[string]Palette{
	"default": {
		Background: lipgloss.Color("#1A1423"),
		Foreground: White,
		Accent:     Rose,
		Muted:      DimGray,
		Decor:      []string{"·", "✧"},
		Particles:  []string{"♥", "✧"},
	},
	"bee": {
		Background: lipgloss.Color("#1E1A0E"),
		Foreground: lipgloss.Color("#FFF4D6"),
		Accent:     Honey,
		Muted:      lipgloss.Color("#8A7A4A"),
		Decor:      []string{"⬡", "·"},
		Particles:  []string{"♥", "✿", "*"},
	},
	"coffee": {
		Background: lipgloss.Color("#2B1D14"),
		Foreground: lipgloss.Color("#F3E5D8"),
		Accent:     lipgloss.Color("#D4A373"),
		Muted:      lipgloss.Color("#7F5F48"),
		Decor:      []string{"°", "∘"},
		Particles:  []string{"°", "~", "∘"},
	},
	"ocean": {
		Background: lipgloss.Color("#0E2A3B"),
		Foreground: lipgloss.Color("#E0F7FA"),
		Accent:     lipgloss.Color("#4FC3F7"),
		Muted:      lipgloss.Color("#3D6A80"),
		Decor:      []string{"~", "≈"},
		Particles:  []string{"~", "≈", "°"},
	},
	"ocean-night": {
		Background: Night,
		Foreground: lipgloss.Color("#DDE3FF"),
		Accent:     lipgloss.Color("#C7B8FF"),
		Muted:      lipgloss.Color("#4A5080"),
		Decor:      []string{"·", "✦", "*"},
		Particles:  []string{"✦", "·", "*"},
	},
}

// PaletteFor returns the palette of a theme, or the default palette
func PaletteFor(theme string) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes["default"]
}

// Blend mixes from toward to; t=0 is from, t=1 is to
func Blend(from, to lipgloss.Color, t float64) lipgloss.Color {
	switch {
	case t <= 0:
		return from
	case t >= 1:
		return to
	}

	a, err := colorful.Hex(string(from))
	if err != nil {
		return to
	}
	b, err := colorful.Hex(string(to))
	if err != nil {
		return to
	}
	return lipgloss.Color(a.BlendLab(b, t).Clamped().Hex())
}

// Faded returns a foreground style for fg shown at level over bg
func Faded(fg, bg lipgloss.Color, level float64) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(Blend(bg, fg, level)).
		Background(bg)
}
