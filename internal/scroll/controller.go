package scroll

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
)

// ThresholdFunc is invoked once when progress first reaches a threshold.
type ThresholdFunc func(progress float64)

// FadeFunc receives a fade window's ratio on every update.
type FadeFunc func(ratio float64)

// FadeWindow is a progress interval over which a ratio ramps from 0 to 1.
type FadeWindow struct {
	Start float64
	End   float64
}

// Validate reports whether the window has a usable, non-empty interval.
func (w FadeWindow) Validate() error {
	if math.IsNaN(w.Start) || math.IsNaN(w.End) {
		return fmt.Errorf("%w: fade window bounds must be numbers", ErrInvalidConfig)
	}
	if w.Start >= w.End {
		return fmt.Errorf("%w: fade window start %g must be before end %g", ErrInvalidConfig, w.Start, w.End)
	}
	return nil
}

// Ratio returns clamp((progress-Start)/(End-Start), 0, 1).
func (w FadeWindow) Ratio(progress float64) float64 {
	return clamp01((progress - w.Start) / (w.End - w.Start))
}

type threshold struct {
	trigger float64
	fn      ThresholdFunc
	fired   bool
	removed bool
}

type fade struct {
	window  FadeWindow
	fn      FadeFunc
	ratio   float64
	removed bool
}

// Handle refers to one registration on a Controller.
type Handle struct {
	c  *Controller
	th *threshold
	fd *fade
}

// Fired reports whether a threshold handle has fired since the last reset.
// Always false for fade window handles.
func (h *Handle) Fired() bool {
	return h != nil && h.th != nil && h.th.fired
}

// Ratio returns the last ratio delivered to a fade window handle.
func (h *Handle) Ratio() float64 {
	if h == nil || h.fd == nil {
		return 0
	}
	return h.fd.ratio
}

// Remove unregisters the handle. Safe to call more than once and from inside
// a callback.
func (h *Handle) Remove() {
	if h == nil || h.c == nil {
		return
	}
	h.c.remove(h)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithName labels the controller in log output.
func WithName(name string) Option {
	return func(c *Controller) { c.name = name }
}

// op is a queued update or reset issued while callbacks were running.
type op struct {
	reset bool
	raw   float64
}

// Controller converts raw scroll offsets into progress over one Region and
// dispatches thresholds and fade windows.
type Controller struct {
	name   string
	region Region
	logger *slog.Logger

	thresholds []*threshold // ascending trigger, registration order on ties
	fades      []*fade
	progress   float64

	unsubscribe func()
	dispatching bool
	pending     []op
	disposed    bool
}

// NewController creates a controller for region.
func NewController(region Region, opts ...Option) (*Controller, error) {
	if err := region.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		region: region,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Region returns the tracked region.
func (c *Controller) Region() Region {
	return c.region
}

// Progress returns the progress computed by the last update.
func (c *Controller) Progress() float64 {
	return c.progress
}

// Disposed reports whether Dispose has been called.
func (c *Controller) Disposed() bool {
	return c.disposed
}

// Attach subscribes the controller to src, replacing any earlier source.
func (c *Controller) Attach(src Source) {
	if c.disposed || src == nil {
		return
	}
	c.detach()
	c.unsubscribe = src.Subscribe(c.Update)
}

func (c *Controller) detach() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// RegisterThreshold adds a one-shot callback fired when progress reaches
// trigger. trigger must lie in [0,1].
func (c *Controller) RegisterThreshold(trigger float64, fn ThresholdFunc) (*Handle, error) {
	if math.IsNaN(trigger) || trigger < 0 || trigger > 1 {
		return nil, fmt.Errorf("%w: threshold %g outside [0,1]", ErrInvalidConfig, trigger)
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: threshold %g has no callback", ErrInvalidConfig, trigger)
	}
	if c.disposed {
		return nil, fmt.Errorf("%w: controller %q is disposed", ErrInvalidConfig, c.name)
	}

	th := &threshold{trigger: trigger, fn: fn}
	c.thresholds = append(c.thresholds, th)
	sort.SliceStable(c.thresholds, func(i, j int) bool {
		return c.thresholds[i].trigger < c.thresholds[j].trigger
	})

	return &Handle{c: c, th: th}, nil
}

// RegisterFadeWindow adds a continuous callback receiving window's ratio on
// every update.
func (c *Controller) RegisterFadeWindow(window FadeWindow, fn FadeFunc) (*Handle, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: fade window has no callback", ErrInvalidConfig)
	}
	if c.disposed {
		return nil, fmt.Errorf("%w: controller %q is disposed", ErrInvalidConfig, c.name)
	}

	fd := &fade{window: window, fn: fn, ratio: window.Ratio(c.progress)}
	c.fades = append(c.fades, fd)

	return &Handle{c: c, fd: fd}, nil
}

func (c *Controller) remove(h *Handle) {
	if h.th != nil && !h.th.removed {
		h.th.removed = true
		c.thresholds = without(c.thresholds, h.th)
	}
	if h.fd != nil && !h.fd.removed {
		h.fd.removed = true
		c.fades = without(c.fades, h.fd)
	}
}

func without[T comparable](items []T, item T) []T {
	for i, v := range items {
		if v == item {
			return append(items[:i:i], items[i+1:]...)
		}
	}
	return items
}

// Update recomputes progress for raw, fires every threshold now reached in
// ascending order and refreshes every fade window. Calls made from inside a
// callback are queued and run after the current dispatch. No-op once disposed.
func (c *Controller) Update(raw float64) {
	if math.IsNaN(raw) {
		return
	}
	c.run(op{raw: raw})
}

// Reset clears every fired threshold and recomputes fade windows at
// progress 0.
func (c *Controller) Reset() {
	c.run(op{reset: true})
}

func (c *Controller) run(o op) {
	if c.disposed {
		return
	}
	if c.dispatching {
		c.pending = append(c.pending, o)
		return
	}

	c.dispatching = true
	defer func() {
		c.dispatching = false
		c.pending = nil
	}()

	c.apply(o)
	for len(c.pending) > 0 && !c.disposed {
		next := c.pending[0]
		c.pending = c.pending[1:]
		c.apply(next)
	}
}

func (c *Controller) apply(o op) {
	if o.reset {
		for _, th := range c.thresholds {
			th.fired = false
		}
		c.progress = 0
		c.logger.Debug("scroll controller reset", "controller", c.name)
		c.emitFades()
		return
	}

	c.progress = c.region.Progress(o.raw)
	c.fireThresholds()
	c.emitFades()
}

func (c *Controller) fireThresholds() {
	p := c.progress
	for _, th := range append([]*threshold(nil), c.thresholds...) {
		if c.disposed {
			return
		}
		if th.removed || th.fired || p < th.trigger {
			continue
		}
		th.fired = true
		c.logger.Debug("threshold fired", "controller", c.name, "trigger", th.trigger, "progress", p)
		th.fn(p)
	}
}

func (c *Controller) emitFades() {
	p := c.progress
	for _, fd := range append([]*fade(nil), c.fades...) {
		if c.disposed {
			return
		}
		if fd.removed {
			continue
		}
		fd.ratio = fd.window.Ratio(p)
		fd.fn(fd.ratio)
	}
}

// Dispose unsubscribes from the source and drops every registration. Later
// updates are no-ops.
func (c *Controller) Dispose() {
	if c.disposed {
		return
	}
	c.detach()
	c.disposed = true
	for _, th := range c.thresholds {
		th.removed = true
	}
	for _, fd := range c.fades {
		fd.removed = true
	}
	c.thresholds = nil
	c.fades = nil
	c.pending = nil
}
