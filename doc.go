// Package ggview composes per-frame behaviors on top of a gg drawing
// context through plugins.
//
// # Overview
//
// A [Canvas] owns a [Surface] (a thin facade over *gg.Context) and an ordered
// list of [Plugin] values. Each frame the canvas lazily initializes its
// plugins, clears the raster, delivers buffered host input and runs the
// BeforeDraw hooks; the application draws; EndFrame runs the AfterDraw hooks.
//
// The plugin package provides the stock behaviors:
//   - plugin.Pointer tracks pointer position, buttons and clicks
//   - plugin.Viewport adds drag-to-pan and wheel-to-zoom anchored at the cursor
//   - plugin.Fullscreen keeps the raster sized to the host element
//
// Package plugin/script runs Lua hooks as a plugin.
//
// # Quick Start
//
//	q := event.NewQueue()
//	c := ggview.MustNew(q, 800, 600,
//	    ggview.WithPlugins(plugin.NewPointer(), plugin.NewViewport()),
//	)
//
//	l := loop.New(func(dt, t time.Duration) {
//	    _ = c.Frame(func(c *ggview.Canvas) error {
//	        c.SetFillStyle("#3366ff")
//	        c.FillRect(0, 0, 100, 100)
//	        return nil
//	    })
//	}, loop.WithFPS(60))
//	l.Start(ctx)
//
// A host (see integration/ebitenhost and integration/termhost) posts pointer,
// wheel and resize events into the queue from its own input loop.
//
// # Transform Scopes
//
// Plugins that change the transform for the duration of a frame bracket the
// application's drawing with a [Scope]. Scopes nest strictly LIFO: releasing
// an outer scope unwinds the inner ones, and EndFrame unwinds anything a
// frame left open. AfterDraw hooks run in reverse registration order by
// default; see [WithForwardAfterDraw].
//
// # Coordinate System
//
// Screen space is raster pixels with the origin at the top-left and Y down.
// World space is whatever user space the plugins' transforms establish.
package ggview
