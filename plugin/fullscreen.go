package plugin

import (
	"github.com/gogpu/ggview"
	"github.com/gogpu/ggview/size"
)

// FullscreenID is the ID the Fullscreen plugin registers under.
const FullscreenID = "fullscreen"

// Fullscreen keeps the raster the size of the host element and makes the
// element fill its parent.
type Fullscreen struct {
	onResize size.ResizeFunc
	observer *size.Observer
}

// NewFullscreen creates the plugin. onResize may be nil.
func NewFullscreen(onResize size.ResizeFunc) *Fullscreen {
	return &Fullscreen{onResize: onResize}
}

// ID implements ggview.Plugin.
func (f *Fullscreen) ID() string { return FullscreenID }

// Init installs the fullscreen size observer.
func (f *Fullscreen) Init(c *ggview.Canvas) {
	f.observer = size.Fullscreen(c, f.onResize)
}

// Observer returns the installed observer, or nil before Init.
func (f *Fullscreen) Observer() *size.Observer {
	return f.observer
}
