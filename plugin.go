package ggview

// Plugin is a unit of per-frame behavior attached to a Canvas.
//
// The only required capability is a stable identity. Lookup by ID is how
// plugins find each other, so IDs should be unique per canvas; duplicates are
// accepted and the first registered plugin wins lookups.
//
// The lifecycle hooks are optional capabilities, detected by type assertion:
// [Initializer], [BeforeDrawer] and [AfterDrawer].
type Plugin interface {
	ID() string
}

// Initializer is implemented by plugins that need one-time setup.
// Init runs exactly once, on the first lifecycle entry of the canvas, in
// registration order. It is the place to subscribe to element events and to
// resolve other plugins with Canvas.Plugin.
type Initializer interface {
	Init(c *Canvas)
}

// BeforeDrawer is implemented by plugins that act at frame start, before
// the application draws.
type BeforeDrawer interface {
	BeforeDraw(c *Canvas)
}

// AfterDrawer is implemented by plugins that act at frame end, after the
// application draws.
type AfterDrawer interface {
	AfterDraw(c *Canvas)
}
