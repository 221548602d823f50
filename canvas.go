package ggview

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggview/event"
)

// Canvas is the plugin host: a Surface plus an ordered list of plugins
// driven through a per-frame lifecycle.
//
//	c.StartFrame()  // Init (first time), clear, deliver input, BeforeDraw
//	... draw ...
//	c.EndFrame()    // AfterDraw, unwind stray scopes
//
// All Surface drawing and transform methods are available on the Canvas.
//
// Canvas is NOT safe for concurrent use. Input from other goroutines must
// reach it through an event.Queue attached as the element.
type Canvas struct {
	*Surface

	element     Element
	plugins     []Plugin
	initialized bool
	inFrame     bool
	frameDepth  int // scope depth at StartFrame

	clearColor     gg.RGBA
	afterDrawOrder AfterDrawOrder
}

// New creates a canvas attached to el with a raster of the given size.
func New(el Element, width, height int, opts ...Option) (*Canvas, error) {
	if el == nil {
		return nil, ErrNilElement
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := o.surface
	if s == nil {
		if width <= 0 || height <= 0 {
			return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidSize, width, height)
		}
		s = NewSurface(width, height)
	}

	c := &Canvas{
		Surface:        s,
		element:        el,
		plugins:        make([]Plugin, 0, len(o.plugins)+4),
		clearColor:     o.clearColor,
		afterDrawOrder: o.afterDrawOrder,
	}
	for _, p := range o.plugins {
		c.AddPlugin(p)
	}
	return c, nil
}

// MustNew is like New but panics on error.
// Use only when errors are programming mistakes (e.g., hardcoded sizes).
func MustNew(el Element, width, height int, opts ...Option) *Canvas {
	c, err := New(el, width, height, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Element returns the host element the canvas listens to.
func (c *Canvas) Element() Element {
	return c.element
}

// AddPlugin appends p to the plugin list. Plugins added after the first
// lifecycle entry are never initialized.
func (c *Canvas) AddPlugin(p Plugin) {
	if p == nil {
		return
	}
	if c.initialized {
		if _, ok := p.(Initializer); ok {
			Logger().Debug("ggview: plugin added after init will not be initialized", "id", p.ID())
		}
	}
	c.plugins = append(c.plugins, p)
}

// Plugin returns the first registered plugin with the given id.
func (c *Canvas) Plugin(id string) (Plugin, bool) {
	for _, p := range c.plugins {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// Plugins returns a copy of the plugin list in registration order.
func (c *Canvas) Plugins() []Plugin {
	out := make([]Plugin, len(c.plugins))
	copy(out, c.plugins)
	return out
}

// Initialized reports whether Init has run.
func (c *Canvas) Initialized() bool {
	return c.initialized
}

// Init initializes every registered plugin in registration order.
// It runs once; later calls do nothing. StartFrame calls it implicitly.
func (c *Canvas) Init() {
	if c.initialized {
		return
	}
	c.initialized = true
	for _, p := range c.plugins {
		if ip, ok := p.(Initializer); ok {
			ip.Init(c)
		}
	}
}

// StartFrame begins a frame: lazy Init, deliver pending element input,
// clear the raster, then run BeforeDraw hooks in registration order.
func (c *Canvas) StartFrame() {
	if c.inFrame {
		Logger().Warn("ggview: StartFrame called inside a frame, ending previous frame")
		c.EndFrame()
	}
	c.Init()

	c.frameDepth = c.ScopeDepth()
	c.inFrame = true

	// Resize listeners may reallocate the raster, so clear after dispatch.
	if d, ok := c.element.(event.Dispatcher); ok {
		d.Dispatch()
	}
	c.ClearWithColor(c.clearColor)

	for _, p := range c.plugins {
		if bp, ok := p.(BeforeDrawer); ok {
			bp.BeforeDraw(c)
		}
	}
}

// EndFrame ends a frame: run AfterDraw hooks, then release any scope that
// was opened during the frame and is still open.
func (c *Canvas) EndFrame() {
	if !c.inFrame {
		Logger().Warn("ggview: EndFrame called without StartFrame")
		return
	}
	c.inFrame = false

	switch c.afterDrawOrder {
	case AfterDrawForward:
		for _, p := range c.plugins {
			c.afterDraw(p)
		}
	default:
		for i := len(c.plugins) - 1; i >= 0; i-- {
			c.afterDraw(c.plugins[i])
		}
	}

	if leaked := c.ScopeDepth() - c.frameDepth; leaked > 0 {
		Logger().Warn("ggview: unwinding scopes left open at frame end", "scopes", leaked)
		c.unwindTo(c.frameDepth)
	}
}

func (c *Canvas) afterDraw(p Plugin) {
	if ap, ok := p.(AfterDrawer); ok {
		ap.AfterDraw(c)
	}
}

// InFrame reports whether StartFrame has run without a matching EndFrame.
func (c *Canvas) InFrame() bool {
	return c.inFrame
}

// Frame runs one complete frame around draw. EndFrame runs even when draw
// returns an error or panics, so plugin scopes are always released.
func (c *Canvas) Frame(draw func(c *Canvas) error) error {
	c.StartFrame()
	defer c.EndFrame()
	if draw == nil {
		return nil
	}
	return draw(c)
}
