// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ebitenhost

import "github.com/gogpu/ggview/event"

// WheelScale converts ebiten wheel notches to DOM-style wheel deltas.
// Ebiten reports +1 per notch scrolled up; a DOM wheel event reports
// about -100 for the same gesture.
const WheelScale = -100

// MouseState is one poll of the mouse.
type MouseState struct {
	X, Y    int
	Buttons [event.ButtonCount]bool
	WheelY  float64
	Inside  bool // cursor within the window
}

// Translate returns the events that turn prev into cur, in the order a
// browser would fire them: motion, leaving the window, button edges, wheel.
//
// A button released while inside the window also produces a click.
// Leaving the window with buttons held produces pointer-out for each of them.
func Translate(prev, cur MouseState) []event.Event {
	var evs []event.Event

	if cur.X != prev.X || cur.Y != prev.Y {
		evs = append(evs, event.Move(float64(cur.X), float64(cur.Y)))
	}

	if prev.Inside && !cur.Inside {
		for b := range event.ButtonCount {
			if cur.Buttons[b] {
				evs = append(evs, event.Out(b))
			}
		}
	}

	for b := range event.ButtonCount {
		switch {
		case !prev.Buttons[b] && cur.Buttons[b]:
			if cur.Inside {
				evs = append(evs, event.Down(b))
			}
		case prev.Buttons[b] && !cur.Buttons[b]:
			evs = append(evs, event.Up(b))
			if cur.Inside {
				evs = append(evs, event.ClickOf(b))
			}
		}
	}

	if cur.WheelY != 0 {
		evs = append(evs, event.Scroll(cur.WheelY*WheelScale))
	}
	return evs
}
