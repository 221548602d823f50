// Package size keeps a canvas raster in step with its host element.
//
// Three strategies mirror how a drawing surface can be sized inside a host:
// a fixed pixel size, a size that follows the element's observed content box,
// and a fullscreen variant that additionally forces the element to fill its
// parent.
package size

import (
	"github.com/gogpu/ggview"
	"github.com/gogpu/ggview/event"
)

// ResizeFunc is called after the raster changed size.
type ResizeFunc func(newSize, oldSize ggview.Vec2)

// Fixed sets the raster to width x height once. Host resize events are not
// observed.
func Fixed(c *ggview.Canvas, width, height int) error {
	return c.Resize(width, height)
}

// Observer resizes a canvas raster whenever the host reports a new content
// box size.
type Observer struct {
	canvas   *ggview.Canvas
	onResize ResizeFunc
	resizes  int
}

// Observe subscribes to the canvas element's resize events. onResize may be
// nil.
func Observe(c *ggview.Canvas, onResize ResizeFunc) *Observer {
	o := &Observer{canvas: c, onResize: onResize}
	c.Element().Listen(event.Resize, o.handle)
	return o
}

// Fullscreen makes the element fill its parent, when the element supports
// it, and then observes it like Observe.
func Fullscreen(c *ggview.Canvas, onResize ResizeFunc) *Observer {
	o := Observe(c, onResize)
	if f, ok := c.Element().(ggview.ParentFiller); ok {
		f.FillParent()
	} else {
		ggview.Logger().Debug("size: element cannot fill its parent, following its own size")
	}
	return o
}

// Resizes returns how many times the raster has been resized.
func (o *Observer) Resizes() int {
	return o.resizes
}

func (o *Observer) handle(ev event.Event) {
	old := o.canvas.Size()
	if ev.Width == int(old.X) && ev.Height == int(old.Y) {
		return
	}
	if err := o.canvas.Resize(ev.Width, ev.Height); err != nil {
		ggview.Logger().Debug("size: ignoring resize", "err", err)
		return
	}
	o.resizes++
	if o.onResize != nil {
		o.onResize(o.canvas.Size(), old)
	}
}
