package plugin

import (
	"github.com/gogpu/ggview"
	"github.com/gogpu/ggview/event"
)

// PointerID is the ID the Pointer plugin registers under.
const PointerID = "pointer"

// Buttons holds one flag per pointer button, indexed by event.Button.
type Buttons [event.ButtonCount]bool

// Left reports the primary button flag.
func (b Buttons) Left() bool { return b[event.ButtonLeft] }

// Middle reports the middle button flag.
func (b Buttons) Middle() bool { return b[event.ButtonMiddle] }

// Right reports the secondary button flag.
func (b Buttons) Right() bool { return b[event.ButtonRight] }

// Projector converts screen positions to world space. The Viewport
// implements it; the Pointer uses whatever plugin is registered under
// ViewportID if it satisfies this interface.
type Projector interface {
	ToWorld(p ggview.Vec2) ggview.Vec2
	Scale() float64
}

// Pointer tracks the pointer over the canvas element.
//
// Host events update the live state (position, held buttons, pending
// clicks) whenever they are delivered. BeforeDraw snapshots it once per
// frame: the delta since the previous frame, the held buttons, and the
// clicks that arrived since the previous snapshot. Intermediate motion
// between two frames is not kept.
type Pointer struct {
	projector Projector

	pos     ggview.Vec2 // live, screen space
	down    Buttons     // live
	pending Buttons     // clicks since last snapshot

	oldPos  ggview.Vec2
	delta   ggview.Vec2
	buttons Buttons // frame snapshot
	clicks  Buttons // frame snapshot, cleared in AfterDraw
}

// NewPointer creates a pointer tracker.
func NewPointer() *Pointer {
	return &Pointer{}
}

// ID implements ggview.Plugin.
func (p *Pointer) ID() string { return PointerID }

// Init subscribes to the element's pointer events and resolves the
// optional world-space projector.
func (p *Pointer) Init(c *ggview.Canvas) {
	if v, ok := c.Plugin(ViewportID); ok {
		if proj, ok := v.(Projector); ok {
			p.projector = proj
		}
	}

	el := c.Element()
	el.Listen(event.PointerMove, func(ev event.Event) {
		p.pos = ggview.V2(ev.X, ev.Y)
	})
	el.Listen(event.PointerDown, func(ev event.Event) { p.setButton(ev.Button, true) })
	el.Listen(event.PointerUp, func(ev event.Event) { p.setButton(ev.Button, false) })
	el.Listen(event.PointerOut, func(ev event.Event) { p.setButton(ev.Button, false) })
	el.Listen(event.Click, func(ev event.Event) {
		if !ev.Button.Valid() {
			ggview.Logger().Debug("plugin: click with unknown button ignored", "button", int(ev.Button))
			return
		}
		p.pending[ev.Button] = true
	})
}

func (p *Pointer) setButton(b event.Button, down bool) {
	if !b.Valid() {
		ggview.Logger().Debug("plugin: pointer button ignored", "button", int(b))
		return
	}
	p.down[b] = down
}

// BeforeDraw takes the frame snapshot.
func (p *Pointer) BeforeDraw(*ggview.Canvas) {
	p.delta = p.pos.Sub(p.oldPos)
	p.oldPos = p.pos
	p.buttons = p.down
	p.clicks = p.pending
	p.pending = Buttons{}
}

// AfterDraw consumes the frame's clicks.
func (p *Pointer) AfterDraw(*ggview.Canvas) {
	p.clicks = Buttons{}
}

// RawPointerPos returns the latest screen-space pointer position.
func (p *Pointer) RawPointerPos() ggview.Vec2 {
	return p.pos
}

// RawDelta returns the screen-space motion between the last two snapshots.
func (p *Pointer) RawDelta() ggview.Vec2 {
	return p.delta
}

// PointerPos returns the pointer position in world space when a viewport
// is registered, otherwise in screen space.
func (p *Pointer) PointerPos() ggview.Vec2 {
	if p.projector != nil {
		return p.projector.ToWorld(p.pos)
	}
	return p.pos
}

// PointerDelta returns the frame's pointer motion in world units when a
// viewport is registered, otherwise in screen pixels.
func (p *Pointer) PointerDelta() ggview.Vec2 {
	if p.projector != nil {
		return p.delta.Div(p.projector.Scale())
	}
	return p.delta
}

// Buttons returns the held buttons as of the last snapshot.
func (p *Pointer) Buttons() Buttons {
	return p.buttons
}

// Clicks returns the clicks visible in the current frame.
func (p *Pointer) Clicks() Buttons {
	return p.clicks
}

// WorldSpace reports whether PointerPos and PointerDelta are converted
// through a viewport.
func (p *Pointer) WorldSpace() bool {
	return p.projector != nil
}
