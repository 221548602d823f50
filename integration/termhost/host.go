// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package termhost

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/gg"
	"github.com/gogpu/ggview"
	"github.com/gogpu/ggview/event"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Common errors returned by Host operations.
var (
	// ErrClosed is returned when operations are attempted on a closed host.
	ErrClosed = errors.New("termhost: host is closed")

	// ErrNotInitialized is returned when Run is called before Init.
	ErrNotInitialized = errors.New("termhost: host not initialized")
)

// WheelStep is the wheel delta posted per wheel notch, matching a DOM
// wheel event for one notch.
const WheelStep = 100

// upperHalf is drawn in every cell: foreground on top, background below.
const upperHalf = '▀'

// Option configures a Host.
type Option func(*Host)

// WithBackground sets the color transparent pixels are blended against.
func WithBackground(c colorful.Color) Option {
	return func(h *Host) {
		h.background = c
	}
}

// Host adapts a tcell screen into a ggview element.
type Host struct {
	*event.Queue

	screen     tcell.Screen
	background colorful.Color

	mu          sync.Mutex
	cols, rows  int
	initialized bool
	closed      bool
	filling     bool

	mouse mouseState // owned by the event-reading goroutine
}

type mouseState struct {
	x, y    int
	buttons [event.ButtonCount]bool
}

// New creates a host on screen, or on the real terminal when screen is nil.
func New(screen tcell.Screen, opts ...Option) (*Host, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("termhost: open terminal: %w", err)
		}
		screen = s
	}
	h := &Host{
		Queue:  event.NewQueue(),
		screen: screen,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Init initializes the screen, enables mouse reporting and posts the
// initial size.
func (h *Host) Init() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	if err := h.screen.Init(); err != nil {
		return fmt.Errorf("termhost: init screen: %w", err)
	}
	h.screen.EnableMouse()
	h.screen.HideCursor()
	h.initialized = true

	h.cols, h.rows = h.screen.Size()
	h.Post(event.Resized(h.cols, h.rows*2))
	return nil
}

// Close restores the terminal. It is safe to call more than once.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	if h.initialized {
		h.screen.Fini()
	}
}

// PixelSize returns the drawable size: columns x 2*rows.
func (h *Host) PixelSize() (width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cols, h.rows * 2
}

// FillParent implements ggview.ParentFiller. The terminal is the parent,
// so this only records that the canvas follows it.
func (h *Host) FillParent() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.filling = true
}

// Filling reports whether FillParent was called.
func (h *Host) Filling() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.filling
}

// Run reads terminal events until ctx is cancelled, the user quits with
// Escape, Ctrl-C or q, or the screen is finalized.
func (h *Host) Run(ctx context.Context) error {
	h.mu.Lock()
	ready := h.initialized && !h.closed
	h.mu.Unlock()
	if !ready {
		return ErrNotInitialized
	}

	stop := context.AfterFunc(ctx, func() {
		_ = h.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			return ctx.Err()
		}
		if !h.HandleEvent(ev) {
			return nil
		}
	}
}

// HandleEvent translates one tcell event into queued canvas events.
// It returns false when the event asks to quit.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventMouse:
		x, y := e.Position()
		for _, out := range h.translateMouse(x, y, e.Buttons()) {
			h.Post(out)
		}
	case *tcell.EventResize:
		cols, rows := e.Size()
		h.mu.Lock()
		h.cols, h.rows = cols, rows
		h.mu.Unlock()
		h.screen.Sync()
		h.Post(event.Resized(cols, rows*2))
	case *tcell.EventKey:
		switch {
		case e.Key() == tcell.KeyEscape, e.Key() == tcell.KeyCtrlC:
			return false
		case e.Key() == tcell.KeyRune && e.Rune() == 'q':
			return false
		}
	default:
		ggview.Logger().Debug("termhost: event ignored", "type", fmt.Sprintf("%T", ev))
	}
	return true
}

// buttonMasks maps canvas buttons to tcell masks.
var buttonMasks = [event.ButtonCount]tcell.ButtonMask{
	event.ButtonLeft:   tcell.ButtonPrimary,
	event.ButtonMiddle: tcell.ButtonMiddle,
	event.ButtonRight:  tcell.ButtonSecondary,
}

// translateMouse converts one mouse report at cell (col, row) into canvas
// events and updates the tracked mouse state.
func (h *Host) translateMouse(col, row int, mask tcell.ButtonMask) []event.Event {
	var evs []event.Event
	x, y := col, row*2

	if x != h.mouse.x || y != h.mouse.y {
		evs = append(evs, event.Move(float64(x), float64(y)))
		h.mouse.x, h.mouse.y = x, y
	}

	for b := range event.ButtonCount {
		down := mask&buttonMasks[b] != 0
		switch {
		case down && !h.mouse.buttons[b]:
			evs = append(evs, event.Down(b))
		case !down && h.mouse.buttons[b]:
			evs = append(evs, event.Up(b), event.ClickOf(b))
		}
		h.mouse.buttons[b] = down
	}

	if mask&tcell.WheelUp != 0 {
		evs = append(evs, event.Scroll(-WheelStep))
	}
	if mask&tcell.WheelDown != 0 {
		evs = append(evs, event.Scroll(WheelStep))
	}
	return evs
}

// Blit draws s to the terminal and shows it. Pixels beyond the terminal
// are cropped; cells beyond the surface are left untouched.
func (h *Host) Blit(s *ggview.Surface) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed || s == nil {
		return
	}

	pm := s.Context().ResizeTarget()
	cols, rows := h.screen.Size()
	cols = min(cols, pm.Width())
	rows = min(rows, (pm.Height()+1)/2)

	for cy := range rows {
		for cx := range cols {
			top := h.blend(pm.GetPixel(cx, cy*2))
			bottom := h.blend(pm.GetPixel(cx, cy*2+1))
			h.screen.SetContent(cx, cy, upperHalf, nil, cellStyle(top, bottom))
		}
	}
	h.screen.Show()
}

// blend composites a straight-alpha pixel over the background.
func (h *Host) blend(p gg.RGBA) colorful.Color {
	return h.background.BlendRgb(colorful.Color{R: p.R, G: p.G, B: p.B}, p.A)
}

func cellStyle(top, bottom colorful.Color) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcellColor(top)).
		Background(tcellColor(bottom))
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
