package ggview

import "github.com/gogpu/ggview/event"

// Element is the host surface a Canvas is attached to: the source of
// pointer, wheel and resize events.
//
// If the element also implements [event.Dispatcher], the canvas delivers its
// buffered events at frame start, after lazy initialization and before the
// BeforeDraw hooks.
type Element interface {
	event.Source
}

// ParentFiller is implemented by elements whose layout box can be forced to
// fill their parent (a window's client area, the whole terminal).
type ParentFiller interface {
	FillParent()
}
