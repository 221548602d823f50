// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package termhost

import (
	"context"
	"errors"
	"image"
	"reflect"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/ggview"
	"github.com/gogpu/ggview/event"
	"github.com/gogpu/ggview/plugin"
	colorful "github.com/lucasb-eyer/go-colorful"
)

func newSimHost(t *testing.T, cols, rows int) (*Host, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	h, err := New(sim)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := h.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(h.Close)
	sim.SetSize(cols, rows)
	h.HandleEvent(tcell.NewEventResize(cols, rows))
	return h, sim
}

// drain dispatches the queue and returns what was delivered.
func drain(h *Host) []event.Event {
	var got []event.Event
	record := func(ev event.Event) { got = append(got, ev) }
	for _, typ := range []event.Type{
		event.PointerMove, event.PointerDown, event.PointerUp,
		event.PointerOut, event.Click, event.Wheel, event.Resize,
	} {
		h.Listen(typ, record)
	}
	h.Dispatch()
	return got
}

func TestInitPostsSize(t *testing.T) {
	h, _ := newSimHost(t, 12, 5)
	if w, hh := h.PixelSize(); w != 12 || hh != 10 {
		t.Errorf("PixelSize() = %d,%d, want 12,10", w, hh)
	}
	got := drain(h)
	if len(got) != 2 || got[1] != event.Resized(12, 10) {
		t.Errorf("events = %+v, want initial size then Resized(12, 10)", got)
	}
}

func TestMouseTranslation(t *testing.T) {
	h, _ := newSimHost(t, 20, 10)
	drain(h)

	tests := []struct {
		name string
		ev   *tcell.EventMouse
		want []event.Event
	}{
		{
			name: "move",
			ev:   tcell.NewEventMouse(3, 2, tcell.ButtonNone, 0),
			want: []event.Event{event.Move(3, 4)},
		},
		{
			name: "press left",
			ev:   tcell.NewEventMouse(3, 2, tcell.ButtonPrimary, 0),
			want: []event.Event{event.Down(event.ButtonLeft)},
		},
		{
			name: "drag",
			ev:   tcell.NewEventMouse(5, 2, tcell.ButtonPrimary, 0),
			want: []event.Event{event.Move(5, 4)},
		},
		{
			name: "release clicks",
			ev:   tcell.NewEventMouse(5, 2, tcell.ButtonNone, 0),
			want: []event.Event{event.Up(event.ButtonLeft), event.ClickOf(event.ButtonLeft)},
		},
		{
			name: "right and middle",
			ev:   tcell.NewEventMouse(5, 2, tcell.ButtonSecondary|tcell.ButtonMiddle, 0),
			want: []event.Event{event.Down(event.ButtonMiddle), event.Down(event.ButtonRight)},
		},
		{
			name: "wheel up",
			ev:   tcell.NewEventMouse(5, 2, tcell.WheelUp, 0),
			want: []event.Event{
				event.Up(event.ButtonMiddle), event.ClickOf(event.ButtonMiddle),
				event.Up(event.ButtonRight), event.ClickOf(event.ButtonRight),
				event.Scroll(-WheelStep),
			},
		},
		{
			name: "wheel down",
			ev:   tcell.NewEventMouse(5, 2, tcell.WheelDown, 0),
			want: []event.Event{event.Scroll(WheelStep)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.ev.Position()
			got := h.translateMouse(x, y, tt.ev.Buttons())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("events = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestQuitKeys(t *testing.T) {
	h, _ := newSimHost(t, 4, 4)
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want bool
	}{
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), false},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), false},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), false},
		{"other rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.HandleEvent(tt.ev); got != tt.want {
				t.Errorf("HandleEvent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlitHalfBlocks(t *testing.T) {
	h, sim := newSimHost(t, 3, 2)
	s := ggview.NewSurface(2, 4)

	px := s.CreatePixels(1, 2)
	copy(px.Pix, []byte{
		255, 0, 0, 255, // top: red
		0, 0, 255, 255, // bottom: blue
	})
	s.PutPixels(px, image.Pt(0, 0))
	h.Blit(s)

	r, _, style, _ := sim.GetContent(0, 0)
	if r != upperHalf {
		t.Errorf("cell (0,0) rune = %q, want %q", r, upperHalf)
	}
	want := tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(255, 0, 0)).
		Background(tcell.NewRGBColor(0, 0, 255))
	if style != want {
		t.Errorf("cell (0,0) style = %v, want %v", style, want)
	}

	// Transparent pixels show the background.
	_, _, style, _ = sim.GetContent(1, 1)
	black := tcell.NewRGBColor(0, 0, 0)
	if style != tcell.StyleDefault.Foreground(black).Background(black) {
		t.Errorf("cell (1,1) style = %v, want black on black", style)
	}

	// The third column is outside the surface.
	if r, _, _, _ := sim.GetContent(2, 0); r == upperHalf {
		t.Error("cell beyond the surface was drawn")
	}
}

func TestBlendAgainstBackground(t *testing.T) {
	white := colorful.Color{R: 1, G: 1, B: 1}
	sim := tcell.NewSimulationScreen("UTF-8")
	h, err := New(sim, WithBackground(white))
	if err != nil {
		t.Fatal(err)
	}
	s := ggview.NewSurface(1, 2)
	if got := h.blend(s.Context().ResizeTarget().GetPixel(0, 0)); got != white {
		t.Errorf("transparent pixel blends to %v, want white", got)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	h, _ := newSimHost(t, 4, 4)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunQuitKey(t *testing.T) {
	h, sim := newSimHost(t, 4, 4)
	sim.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	done := make(chan error, 1)
	go func() { done <- h.Run(context.Background()) }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return on Escape")
	}
}

func TestRunRequiresInit(t *testing.T) {
	h, err := New(tcell.NewSimulationScreen("UTF-8"))
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Run(context.Background()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Run() before Init = %v, want ErrNotInitialized", err)
	}
	h.Close()
	if err := h.Init(); !errors.Is(err, ErrClosed) {
		t.Errorf("Init() after Close = %v, want ErrClosed", err)
	}
}

func TestFullscreenFollowsTerminal(t *testing.T) {
	h, _ := newSimHost(t, 8, 3)
	c := ggview.MustNew(h, 1, 1, ggview.WithPlugins(plugin.NewFullscreen(nil)))

	c.StartFrame()
	c.EndFrame()

	if !h.Filling() {
		t.Error("FillParent not called")
	}
	if c.Width() != 8 || c.Height() != 6 {
		t.Errorf("canvas = %dx%d, want 8x6", c.Width(), c.Height())
	}

	h.HandleEvent(tcell.NewEventResize(10, 5))
	c.StartFrame()
	c.EndFrame()
	if c.Width() != 10 || c.Height() != 10 {
		t.Errorf("canvas after resize = %dx%d, want 10x10", c.Width(), c.Height())
	}
}
