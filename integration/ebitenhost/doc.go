// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ebitenhost runs a ggview canvas in a desktop window driven by
// Ebitengine.
//
// The Host plays three roles at once:
//
//   - Element: it polls the mouse every tick and posts pointer, click, wheel
//     and resize events into its event.Queue, which the canvas drains at
//     frame start.
//   - loop.Requester: frame callbacks requested by a loop.Loop run inside
//     ebiten's Update, one per tick.
//   - Blitter: Draw uploads the canvas raster to an ebiten.Image and draws
//     it to the screen.
//
// # Usage
//
//	host, err := ebitenhost.New(800, 600, ebitenhost.WithTitle("demo"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c := ggview.MustNew(host, 800, 600, ggview.WithPlugins(
//	    plugin.NewPointer(), plugin.NewViewport(), plugin.NewFullscreen(nil),
//	))
//	l := loop.New(func(dt, t time.Duration) { _ = c.Frame(draw) },
//	    loop.WithRequester(host))
//	_ = l.Start(ctx)
//	if err := host.Run(c); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// Run must be called from the main goroutine. Everything else happens on
// ebiten's game goroutine; only RequestFrame and CancelFrame may be called
// from elsewhere.
package ebitenhost
