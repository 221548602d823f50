package ggview

import "github.com/gogpu/gg"

// Option configures a Canvas during creation.
//
// Example:
//
//	c, err := ggview.New(queue, 800, 600,
//	    ggview.WithClearColor(gg.White),
//	    ggview.WithPlugins(plugin.NewPointer(), plugin.NewViewport()),
//	)
type Option func(*options)

// AfterDrawOrder selects the order AfterDraw hooks run in.
type AfterDrawOrder int

const (
	// AfterDrawReverse runs AfterDraw hooks in reverse registration order,
	// so scopes pushed by several plugins in BeforeDraw pop LIFO.
	AfterDrawReverse AfterDrawOrder = iota

	// AfterDrawForward runs AfterDraw hooks in registration order, the same
	// order as BeforeDraw.
	AfterDrawForward
)

// options holds optional configuration for Canvas creation.
type options struct {
	surface        *Surface
	clearColor     gg.RGBA
	afterDrawOrder AfterDrawOrder
	plugins        []Plugin
}

// defaultOptions returns the default canvas options.
func defaultOptions() options {
	return options{
		surface:        nil, // Created from the requested size if nil
		clearColor:     gg.Transparent,
		afterDrawOrder: AfterDrawReverse,
	}
}

// WithSurface draws into an existing surface instead of allocating one.
// The width and height passed to New are ignored.
func WithSurface(s *Surface) Option {
	return func(o *options) {
		o.surface = s
	}
}

// WithClearColor sets the color the raster is cleared to at frame start.
func WithClearColor(col gg.RGBA) Option {
	return func(o *options) {
		o.clearColor = col
	}
}

// WithForwardAfterDraw runs AfterDraw hooks in registration order instead
// of reverse order. Scopes stay consistent either way because releasing an
// outer scope unwinds the inner ones, but the unwinding is logged.
func WithForwardAfterDraw() Option {
	return func(o *options) {
		o.afterDrawOrder = AfterDrawForward
	}
}

// WithPlugins registers plugins in the given order at creation.
func WithPlugins(plugins ...Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugins...)
	}
}
