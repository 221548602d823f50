package script

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/ggview"
	"github.com/gogpu/ggview/event"
	"github.com/gogpu/ggview/plugin"
	lua "github.com/yuin/gopher-lua"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := ggview.Logger()
	t.Cleanup(func() { ggview.SetLogger(orig) })

	var buf bytes.Buffer
	ggview.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
	return &buf
}

func mustNew(t *testing.T, src string, opts ...Option) *Plugin {
	t.Helper()
	p, err := New("test", src, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(p.Close)
	return p
}

func frame(c *ggview.Canvas) {
	c.StartFrame()
	c.EndFrame()
}

func TestNewErrors(t *testing.T) {
	if _, err := New("", "x = 1"); !errors.Is(err, ErrEmptyID) {
		t.Errorf("New with empty id = %v, want ErrEmptyID", err)
	}
	if _, err := New("bad", "function ("); !errors.Is(err, ErrLoad) {
		t.Errorf("New with syntax error = %v, want ErrLoad", err)
	}
	if _, err := New("raise", `error("boom")`); !errors.Is(err, ErrLoad) {
		t.Errorf("New with runtime error = %v, want ErrLoad", err)
	}
}

func TestUnsafeFunctionsRemoved(t *testing.T) {
	p := mustNew(t, "")
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "io", "os"} {
		if v := p.Global(name); v != lua.LNil {
			t.Errorf("global %q = %v, want nil", name, v)
		}
	}
	if p.Global("math") == lua.LNil || p.Global("string") == lua.LNil {
		t.Error("math or string library missing")
	}
}

func TestHooksRunInLifecycle(t *testing.T) {
	p := mustNew(t, `
		inits, befores, afters = 0, 0, 0
		function init() inits = inits + 1 end
		function before_draw() befores = befores + 1 end
		function after_draw() afters = afters + 1 end
	`)
	c := ggview.MustNew(event.NewQueue(), 20, 20, ggview.WithPlugins(p))

	frame(c)
	frame(c)

	want := map[string]float64{"inits": 1, "befores": 2, "afters": 2}
	for name, n := range want {
		if got := p.Global(name); got != lua.LNumber(n) {
			t.Errorf("%s = %v, want %v", name, got, n)
		}
	}
	if p.Calls(HookBeforeDraw) != 2 {
		t.Errorf("Calls(before_draw) = %d, want 2", p.Calls(HookBeforeDraw))
	}
}

func TestMissingHooksAreSkipped(t *testing.T) {
	p := mustNew(t, "x = 1")
	c := ggview.MustNew(event.NewQueue(), 20, 20, ggview.WithPlugins(p))
	frame(c)
	if p.Calls(HookInit) != 0 || p.Disabled(HookInit) {
		t.Error("missing hook was called or disabled")
	}
}

func TestFailingHookDisabled(t *testing.T) {
	buf := captureLogs(t)
	p := mustNew(t, `
		afters = 0
		function before_draw() error("broken") end
		function after_draw() afters = afters + 1 end
	`)
	c := ggview.MustNew(event.NewQueue(), 20, 20, ggview.WithPlugins(p))

	frame(c)
	frame(c)

	if !p.Disabled(HookBeforeDraw) {
		t.Error("failing hook not disabled")
	}
	if got := p.Global("afters"); got != lua.LNumber(2) {
		t.Errorf("afters = %v, want 2", got)
	}
	if n := strings.Count(buf.String(), "hook failed"); n != 1 {
		t.Errorf("hook failure logged %d times, want 1", n)
	}
}

func TestNonFunctionHookDisabled(t *testing.T) {
	buf := captureLogs(t)
	p := mustNew(t, `before_draw = 42`)
	c := ggview.MustNew(event.NewQueue(), 20, 20, ggview.WithPlugins(p))
	frame(c)
	if !p.Disabled(HookBeforeDraw) {
		t.Error("non-function hook not disabled")
	}
	if !strings.Contains(buf.String(), "not a function") {
		t.Errorf("expected warning, got: %s", buf.String())
	}
}

func TestHookTimeout(t *testing.T) {
	captureLogs(t)
	p := mustNew(t, `function before_draw() while true do end end`,
		WithHookTimeout(20*time.Millisecond))
	c := ggview.MustNew(event.NewQueue(), 20, 20, ggview.WithPlugins(p))

	done := make(chan struct{})
	go func() {
		frame(c)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("runaway hook was not interrupted")
	}
	if !p.Disabled(HookBeforeDraw) {
		t.Error("timed out hook not disabled")
	}
}

func TestCanvasDrawing(t *testing.T) {
	p := mustNew(t, `
		function before_draw()
			canvas.fill_style("#ff0000")
			canvas.fill_rect(0, 0, canvas.width() / 2, canvas.height())
			ok = canvas.polygon({0, 0, 1, 1})
			bad = canvas.polygon({0, 0})
		end
	`)
	c := ggview.MustNew(event.NewQueue(), 20, 20, ggview.WithPlugins(p))

	captureLogs(t)
	c.StartFrame()
	left := c.Context().ResizeTarget().GetPixel(5, 10)
	right := c.Context().ResizeTarget().GetPixel(15, 10)
	c.EndFrame()

	if left.R < 0.99 || left.A < 0.99 {
		t.Errorf("left half = %+v, want red", left)
	}
	if right.A != 0 {
		t.Errorf("right half = %+v, want transparent", right)
	}
	if p.Global("ok") != lua.LTrue || p.Global("bad") != lua.LFalse {
		t.Errorf("polygon results ok=%v bad=%v", p.Global("ok"), p.Global("bad"))
	}
}

func TestCanvasTransformScoped(t *testing.T) {
	p := mustNew(t, `
		function before_draw()
			canvas.save()
			canvas.translate(5, 5)
			canvas.scale(2)
			wx, wy = canvas.to_world(15, 25)
			canvas.restore()
		end
	`)
	c := ggview.MustNew(event.NewQueue(), 20, 20, ggview.WithPlugins(p))
	frame(c)

	if p.Global("wx") != lua.LNumber(5) || p.Global("wy") != lua.LNumber(10) {
		t.Errorf("to_world = (%v, %v), want (5, 10)", p.Global("wx"), p.Global("wy"))
	}
	if c.ScopeDepth() != 0 {
		t.Errorf("ScopeDepth() = %d, want 0", c.ScopeDepth())
	}
}

func TestCanvasPointerAndClicks(t *testing.T) {
	q := event.NewQueue()
	p := mustNew(t, `
		function before_draw()
			px, py = canvas.pointer()
			left = canvas.clicked(0)
			right = canvas.clicked(2)
			bogus = canvas.clicked(9)
		end
	`)
	c := ggview.MustNew(q, 50, 50, ggview.WithPlugins(plugin.NewPointer(), p))

	q.Post(event.Move(12, 34))
	q.Post(event.ClickOf(event.ButtonLeft))
	frame(c)

	if p.Global("px") != lua.LNumber(12) || p.Global("py") != lua.LNumber(34) {
		t.Errorf("pointer = (%v, %v), want (12, 34)", p.Global("px"), p.Global("py"))
	}
	if p.Global("left") != lua.LTrue {
		t.Error("clicked(0) = false, want true")
	}
	if p.Global("right") != lua.LFalse || p.Global("bogus") != lua.LFalse {
		t.Error("unexpected click reported")
	}
}

func TestCanvasOutsideHookRaises(t *testing.T) {
	p := mustNew(t, "")
	if err := p.L.DoString("canvas.width()"); err == nil {
		t.Error("canvas call outside a hook did not raise")
	}
}

func TestCloseStopsHooks(t *testing.T) {
	p, err := New("closing", `function before_draw() end`)
	if err != nil {
		t.Fatal(err)
	}
	c := ggview.MustNew(event.NewQueue(), 10, 10, ggview.WithPlugins(p))
	p.Close()
	p.Close()
	frame(c)
	if p.Calls(HookBeforeDraw) != 0 {
		t.Error("hook ran after Close")
	}
}

func TestRestoreLeavesOtherPluginScopes(t *testing.T) {
	buf := captureLogs(t)
	p := mustNew(t, `
		function before_draw()
			canvas.restore()
		end
	`)
	vp := plugin.NewViewport()
	c := ggview.MustNew(event.NewQueue(), 20, 20,
		ggview.WithPlugins(plugin.NewPointer(), vp, p))
	vp.ZoomAt(ggview.Vec2{}, -1000)

	var depth int
	var world ggview.Vec2
	err := c.Frame(func(c *ggview.Canvas) error {
		depth = c.ScopeDepth()
		world = c.ScreenToWorld(ggview.V2(10, 10))
		return nil
	})
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}

	if depth != 1 {
		t.Errorf("ScopeDepth() while drawing = %d, want 1", depth)
	}
	if want := vp.ToWorld(ggview.V2(10, 10)); world != want {
		t.Errorf("ScreenToWorld(10,10) = %v, want %v", world, want)
	}
	if !strings.Contains(buf.String(), "restore without matching save") {
		t.Errorf("expected unmatched restore warning, got: %s", buf.String())
	}
}

func TestSaveAndRestoreAcrossHooks(t *testing.T) {
	p := mustNew(t, `
		function before_draw()
			canvas.save()
			canvas.translate(3, 4)
		end
		function after_draw()
			canvas.restore()
		end
	`)
	c := ggview.MustNew(event.NewQueue(), 20, 20, ggview.WithPlugins(p))

	var depth int
	for range 3 {
		_ = c.Frame(func(c *ggview.Canvas) error {
			depth = c.ScopeDepth()
			return nil
		})
		if depth != 1 {
			t.Errorf("ScopeDepth() while drawing = %d, want 1", depth)
		}
		if c.ScopeDepth() != 0 {
			t.Errorf("ScopeDepth() after frame = %d, want 0", c.ScopeDepth())
		}
	}
	if len(p.scopes) != 0 {
		t.Errorf("script holds %d scopes, want 0", len(p.scopes))
	}
}
