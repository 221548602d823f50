package size

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/ggview"
	"github.com/gogpu/ggview/event"
)

func newCanvas(t *testing.T, el ggview.Element) *ggview.Canvas {
	t.Helper()
	c, err := ggview.New(el, 10, 10)
	if err != nil {
		t.Fatalf("ggview.New: %v", err)
	}
	return c
}

func TestFixed(t *testing.T) {
	c := newCanvas(t, event.NewQueue())
	if err := Fixed(c, 320, 200); err != nil {
		t.Fatalf("Fixed(320, 200) = %v", err)
	}
	if c.Width() != 320 || c.Height() != 200 {
		t.Errorf("size = %dx%d, want 320x200", c.Width(), c.Height())
	}
	if err := Fixed(c, 0, 5); !errors.Is(err, ggview.ErrInvalidSize) {
		t.Errorf("Fixed(0, 5) = %v, want ErrInvalidSize", err)
	}
}

func TestObserve(t *testing.T) {
	q := event.NewQueue()
	c := newCanvas(t, q)

	type call struct{ n, o ggview.Vec2 }
	var calls []call
	o := Observe(c, func(n, old ggview.Vec2) { calls = append(calls, call{n, old}) })

	tests := []struct {
		name        string
		w, h        int
		wantSize    ggview.Vec2
		wantResizes int
	}{
		{"grow", 100, 50, ggview.V2(100, 50), 1},
		{"unchanged", 100, 50, ggview.V2(100, 50), 1},
		{"invalid", 0, 0, ggview.V2(100, 50), 1},
		{"shrink", 20, 30, ggview.V2(20, 30), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q.Post(event.Resized(tt.w, tt.h))
			q.Dispatch()
			if got := c.Size(); got != tt.wantSize {
				t.Errorf("Size() = %v, want %v", got, tt.wantSize)
			}
			if o.Resizes() != tt.wantResizes {
				t.Errorf("Resizes() = %d, want %d", o.Resizes(), tt.wantResizes)
			}
		})
	}

	if len(calls) != 2 {
		t.Fatalf("callbacks = %d, want 2", len(calls))
	}
	if calls[1].n != ggview.V2(20, 30) || calls[1].o != ggview.V2(100, 50) {
		t.Errorf("second callback = %+v", calls[1])
	}
}

func TestObserveNilCallback(t *testing.T) {
	q := event.NewQueue()
	c := newCanvas(t, q)
	Observe(c, nil)
	q.Post(event.Resized(12, 12))
	q.Dispatch()
	if c.Width() != 12 {
		t.Errorf("Width() = %d, want 12", c.Width())
	}
}

type filler struct {
	*event.Queue
	filled int
}

func (f *filler) FillParent() { f.filled++ }

func TestFullscreen(t *testing.T) {
	el := &filler{Queue: event.NewQueue()}
	c := newCanvas(t, el)
	o := Fullscreen(c, nil)
	if el.filled != 1 {
		t.Errorf("FillParent calls = %d, want 1", el.filled)
	}

	el.Post(event.Resized(80, 60))
	el.Dispatch()
	if o.Resizes() != 1 || c.Width() != 80 {
		t.Errorf("Resizes() = %d, Width() = %d", o.Resizes(), c.Width())
	}
}

func TestFullscreenWithoutFiller(t *testing.T) {
	orig := ggview.Logger()
	t.Cleanup(func() { ggview.SetLogger(orig) })
	var buf bytes.Buffer
	ggview.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	q := event.NewQueue()
	c := newCanvas(t, q)
	Fullscreen(c, nil)
	if !strings.Contains(buf.String(), "cannot fill its parent") {
		t.Errorf("expected debug log, got: %s", buf.String())
	}

	q.Post(event.Resized(30, 40))
	q.Dispatch()
	if c.Height() != 40 {
		t.Errorf("Height() = %d, want 40", c.Height())
	}
}
