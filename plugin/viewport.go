package plugin

import (
	"math"

	"github.com/gogpu/ggview"
	"github.com/gogpu/ggview/event"
)

// ViewportID is the ID the Viewport plugin registers under.
const ViewportID = "viewport"

// Scale limits and wheel response of the Viewport.
const (
	MinScale = 0.01
	MaxScale = 100.0

	// wheelFactor converts wheel delta to relative scale change. Negative so
	// that scrolling up (negative DeltaY) zooms in.
	wheelFactor = -0.001
)

// ViewportOption configures a Viewport.
type ViewportOption func(*Viewport)

// WithSensitivity scales the wheel response. Non-positive or non-finite
// values keep the default of 1.
func WithSensitivity(s float64) ViewportOption {
	return func(v *Viewport) {
		if s <= 0 || math.IsInf(s, 0) || math.IsNaN(s) {
			ggview.Logger().Warn("plugin: invalid viewport sensitivity, using 1", "sensitivity", s)
			return
		}
		v.sensitivity = s
	}
}

// Viewport maintains a pan offset and a uniform zoom and applies them
// around the application's drawing each frame.
//
// The transform maps world to screen as screen = world*scale + offset.
// Dragging with the left button pans; the wheel zooms keeping the world
// point under the cursor fixed on screen.
type Viewport struct {
	pointer *Pointer
	scope   *ggview.Scope

	offset      ggview.Vec2
	scale       float64
	sensitivity float64
	inert       bool
}

// NewViewport creates a viewport with identity transform.
func NewViewport(opts ...ViewportOption) *Viewport {
	v := &Viewport{
		scale:       1,
		sensitivity: 1,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ID implements ggview.Plugin.
func (v *Viewport) ID() string { return ViewportID }

// Init resolves the Pointer plugin and subscribes to wheel events. Without
// a Pointer the viewport logs an error and stays inert for its lifetime.
func (v *Viewport) Init(c *ggview.Canvas) {
	p, ok := c.Plugin(PointerID)
	if ok {
		v.pointer, ok = p.(*Pointer)
	}
	if !ok {
		ggview.Logger().Error("plugin: viewport requires a pointer plugin, pan and zoom disabled",
			"want", PointerID)
		v.inert = true
		return
	}

	c.Element().Listen(event.Wheel, func(ev event.Event) {
		v.ZoomAt(v.pointer.RawPointerPos(), ev.DeltaY)
	})
}

// Inert reports whether initialization failed to find a Pointer.
func (v *Viewport) Inert() bool {
	return v.inert
}

// ZoomAt applies one wheel step of dy at the screen position anchor.
// The world point under anchor before the call is under anchor after it.
func (v *Viewport) ZoomAt(anchor ggview.Vec2, dy float64) {
	if v.inert {
		return
	}
	if math.IsNaN(dy) || math.IsInf(dy, 0) {
		ggview.Logger().Debug("plugin: non-finite wheel delta ignored", "dy", dy)
		return
	}

	world := v.ToWorld(anchor)

	s := v.scale + dy*wheelFactor*v.sensitivity*v.scale
	v.scale = clampScale(s)

	moved := v.ToScreen(world)
	v.offset = v.offset.Add(anchor.Sub(moved))
}

// BeforeDraw pans while the left button is held, then opens a scope with
// the viewport transform applied.
func (v *Viewport) BeforeDraw(c *ggview.Canvas) {
	if v.inert {
		return
	}
	if v.pointer.Buttons().Left() {
		v.offset = v.offset.Add(v.pointer.RawDelta().Mul(v.scale))
	}

	v.scope = c.PushScope()
	c.Translate(v.offset)
	c.Scale(ggview.V2(v.scale, v.scale))
}

// AfterDraw releases the scope opened by BeforeDraw.
func (v *Viewport) AfterDraw(*ggview.Canvas) {
	if v.scope == nil {
		return
	}
	v.scope.Release()
	v.scope = nil
}

// ToWorld converts a screen position to world space.
func (v *Viewport) ToWorld(p ggview.Vec2) ggview.Vec2 {
	return p.Sub(v.offset).Div(v.scale)
}

// ToScreen converts a world position to screen space.
func (v *Viewport) ToScreen(p ggview.Vec2) ggview.Vec2 {
	return p.Mul(v.scale).Add(v.offset)
}

// ResetTransform restores scale 1 and zero offset.
func (v *Viewport) ResetTransform() {
	v.scale = 1
	v.offset = ggview.Vec2{}
}

// CenterOn pans so that the world point lands at the center of a screen
// of the given size, keeping the current scale.
func (v *Viewport) CenterOn(world, screen ggview.Vec2) {
	v.offset = screen.Div(2).Sub(world.Mul(v.scale))
}

// Offset returns the pan offset.
func (v *Viewport) Offset() ggview.Vec2 {
	return v.offset
}

// Scale returns the zoom factor.
func (v *Viewport) Scale() float64 {
	return v.scale
}

// Sensitivity returns the wheel sensitivity fixed at construction.
func (v *Viewport) Sensitivity() float64 {
	return v.sensitivity
}

func clampScale(s float64) float64 {
	if math.IsNaN(s) {
		return MinScale
	}
	return math.Min(MaxScale, math.Max(MinScale, s))
}
