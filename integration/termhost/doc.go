// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package termhost runs a ggview canvas inside a terminal through tcell.
//
// Every terminal cell shows two vertically stacked pixels with the upper
// half block character: the foreground color is the upper pixel and the
// background color the lower one. A terminal of C columns and R rows is
// therefore a C x 2R pixel surface.
//
// Mouse input arrives in cell coordinates and is posted to the host's
// event.Queue in pixel coordinates (column, 2*row). Terminals report no
// separate click, so releasing a button synthesizes one. Wheel notches
// become wheel events of ±WheelStep.
//
// # Usage
//
//	host, err := termhost.New(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := host.Init(); err != nil {
//	    log.Fatal(err)
//	}
//	defer host.Close()
//
//	w, h := host.PixelSize()
//	c := ggview.MustNew(host, w, h, ggview.WithPlugins(
//	    plugin.NewPointer(), plugin.NewViewport(), plugin.NewFullscreen(nil),
//	))
//	l := loop.New(func(dt, t time.Duration) {
//	    _ = c.Frame(draw)
//	    host.Blit(c.Surface)
//	}, loop.WithFPS(30))
//	_ = l.Start(ctx)
//	err = host.Run(ctx)
//	l.Stop()
//	l.Wait()
//
// Run reads terminal events on the calling goroutine; frames may run on any
// other goroutine because input only crosses over through the queue.
package termhost
