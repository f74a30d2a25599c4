package scroll

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Region is the span of raw scroll offsets over which progress runs from 0 to 1.
type Region struct {
	Start float64
	End   float64
}

// Validate reports whether the region can produce progress.
func (r Region) Validate() error {
	if math.IsNaN(r.Start) || math.IsNaN(r.End) || math.IsInf(r.Start, 0) || math.IsInf(r.End, 0) {
		return fmt.Errorf("%w: region bounds must be finite", ErrInvalidConfig)
	}
	if r.End <= r.Start {
		return fmt.Errorf("%w: degenerate region (start %g, end %g)", ErrInvalidConfig, r.Start, r.End)
	}
	if math.IsInf(r.End-r.Start, 0) {
		return fmt.Errorf("%w: region span overflows (start %g, end %g)", ErrInvalidConfig, r.Start, r.End)
	}
	return nil
}

// Progress returns the clamped position of raw within the region.
func (r Region) Progress(raw float64) float64 {
	return clamp01((raw - r.Start) / (r.End - r.Start))
}

// Anchor pins a point of a tracked element to a line of the viewport, e.g.
// "top 80%" is reached when the element's top edge meets the line 80% down
// the viewport. Both fields are fractions: 0 is the top edge, 1 the bottom.
type Anchor struct {
	Element  float64
	Viewport float64
}

// Common anchors.
var (
	AnchorTopTop       = Anchor{Element: 0, Viewport: 0}
	AnchorBottomBottom = Anchor{Element: 1, Viewport: 1}
	AnchorTopBottom    = Anchor{Element: 0, Viewport: 1}
	AnchorBottomTop    = Anchor{Element: 1, Viewport: 0}
)

// ParseAnchor parses "<element> <viewport>" where each side is top, center,
// bottom or a percentage.
func ParseAnchor(s string) (Anchor, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) != 2 {
		return Anchor{}, fmt.Errorf("%w: anchor %q needs an element edge and a viewport edge", ErrInvalidConfig, s)
	}

	elem, err := parseEdge(fields[0])
	if err != nil {
		return Anchor{}, fmt.Errorf("anchor %q: %w", s, err)
	}
	view, err := parseEdge(fields[1])
	if err != nil {
		return Anchor{}, fmt.Errorf("anchor %q: %w", s, err)
	}

	return Anchor{Element: elem, Viewport: view}, nil
}

func parseEdge(tok string) (float64, error) {
	switch tok {
	case "top":
		return 0, nil
	case "center":
		return 0.5, nil
	case "bottom":
		return 1, nil
	}

	pct, ok := strings.CutSuffix(tok, "%")
	if !ok {
		return 0, fmt.Errorf("%w: unknown edge %q", ErrInvalidConfig, tok)
	}
	v, err := strconv.ParseFloat(pct, 64)
	if err != nil || math.IsNaN(v) || v < 0 || v > 100 {
		return 0, fmt.Errorf("%w: edge %q must be a percentage between 0%% and 100%%", ErrInvalidConfig, tok)
	}
	return v / 100, nil
}

// String formats the anchor in the form ParseAnchor accepts.
func (a Anchor) String() string {
	return edgeString(a.Element) + " " + edgeString(a.Viewport)
}

func edgeString(v float64) string {
	switch v {
	case 0:
		return "top"
	case 0.5:
		return "center"
	case 1:
		return "bottom"
	}
	return strconv.FormatFloat(v*100, 'f', -1, 64) + "%"
}

// Offset is the raw scroll offset at which the anchor is reached for an
// element at elementTop with the given height, seen through a viewport of
// viewportHeight.
func (a Anchor) Offset(elementTop, elementHeight, viewportHeight float64) float64 {
	return elementTop + a.Element*elementHeight - a.Viewport*viewportHeight
}

// RegionFor resolves a start and end anchor against an element's layout.
func RegionFor(elementTop, elementHeight, viewportHeight float64, start, end Anchor) (Region, error) {
	r := Region{
		Start: start.Offset(elementTop, elementHeight, viewportHeight),
		End:   end.Offset(elementTop, elementHeight, viewportHeight),
	}
	if err := r.Validate(); err != nil {
		return Region{}, fmt.Errorf("%s to %s: %w", start, end, err)
	}
	return r, nil
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
