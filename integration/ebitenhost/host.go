// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ebitenhost

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/ggview"
	"github.com/gogpu/ggview/event"
	"github.com/gogpu/ggview/loop"
	"github.com/hajimehoshi/ebiten/v2"
)

// Common errors returned by Host operations.
var (
	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("ebitenhost: invalid dimensions")

	// ErrNilCanvas is returned when Run is called without a canvas.
	ErrNilCanvas = errors.New("ebitenhost: nil canvas")
)

// DefaultTPS is the tick rate the host runs at.
const DefaultTPS = 60

// Option configures a Host.
type Option func(*Host)

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(h *Host) {
		h.title = title
	}
}

// WithTPS sets ticks per second, and with it the rate of requested frames.
func WithTPS(tps int) Option {
	return func(h *Host) {
		if tps > 0 {
			h.tps = tps
		}
	}
}

// Host is an ebiten.Game that hosts a ggview canvas.
type Host struct {
	*event.Queue

	title         string
	tps           int
	width, height int
	fill          bool
	running       bool
	closed        bool

	mouse  MouseState
	canvas *ggview.Canvas
	img    *ebiten.Image

	mu      sync.Mutex
	nextID  loop.FrameID
	pending map[loop.FrameID]func()
}

// New creates a host for a window of the given size.
func New(width, height int, opts ...Option) (*Host, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	h := &Host{
		Queue:   event.NewQueue(),
		title:   "ggview",
		tps:     DefaultTPS,
		width:   width,
		height:  height,
		pending: make(map[loop.FrameID]func()),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Size returns the window's logical size.
func (h *Host) Size() (width, height int) {
	return h.width, h.height
}

// FillParent makes the window resizable and the canvas follow its size.
func (h *Host) FillParent() {
	h.fill = true
	if h.running {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
}

// RequestFrame implements loop.Requester. fn runs in the next Update.
func (h *Host) RequestFrame(fn func()) loop.FrameID {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	h.pending[h.nextID] = fn
	return h.nextID
}

// CancelFrame implements loop.Requester.
func (h *Host) CancelFrame(id loop.FrameID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.pending, id)
}

// runFrames runs the callbacks pending at call time. Callbacks requested
// while they run wait for the next tick.
func (h *Host) runFrames() int {
	h.mu.Lock()
	fns := h.pending
	h.pending = make(map[loop.FrameID]func())
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Run opens the window and blocks until it is closed.
func (h *Host) Run(c *ggview.Canvas) error {
	if c == nil {
		return ErrNilCanvas
	}
	h.canvas = c
	h.running = true
	defer func() { h.running = false }()

	ebiten.SetWindowTitle(h.title)
	ebiten.SetWindowSize(h.width, h.height)
	ebiten.SetTPS(h.tps)
	if h.fill {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	return ebiten.RunGame(h)
}

// Close ends Run at the next tick.
func (h *Host) Close() {
	h.closed = true
}

// Update implements ebiten.Game: poll input, then run requested frames.
func (h *Host) Update() error {
	if h.closed {
		return ebiten.Termination
	}
	h.poll()
	h.runFrames()
	return nil
}

func (h *Host) poll() {
	x, y := ebiten.CursorPosition()
	_, wy := ebiten.Wheel()
	cur := MouseState{
		X:      x,
		Y:      y,
		WheelY: wy,
		Inside: x >= 0 && y >= 0 && x < h.width && y < h.height,
	}
	cur.Buttons[event.ButtonLeft] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	cur.Buttons[event.ButtonMiddle] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	cur.Buttons[event.ButtonRight] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)

	for _, ev := range Translate(h.mouse, cur) {
		h.Post(ev)
	}
	h.mouse = cur
}

// Draw implements ebiten.Game: upload the canvas raster and draw it.
func (h *Host) Draw(screen *ebiten.Image) {
	if h.canvas == nil {
		return
	}
	pm := h.canvas.Context().ResizeTarget()
	w, hh := pm.Width(), pm.Height()
	if h.img == nil || h.img.Bounds().Dx() != w || h.img.Bounds().Dy() != hh {
		if h.img != nil {
			h.img.Deallocate()
		}
		h.img = ebiten.NewImage(w, hh)
	}
	h.img.WritePixels(pm.Data())
	screen.DrawImage(h.img, nil)
}

// Layout implements ebiten.Game. In fill mode the logical screen follows
// the window and every change is posted as a resize event.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if h.fill && outsideWidth > 0 && outsideHeight > 0 &&
		(outsideWidth != h.width || outsideHeight != h.height) {
		h.width, h.height = outsideWidth, outsideHeight
		h.Post(event.Resized(outsideWidth, outsideHeight))
	}
	return h.width, h.height
}
