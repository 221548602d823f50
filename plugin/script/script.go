// Package script runs canvas plugins written in Lua.
//
// A script defines any of the global functions init, before_draw and
// after_draw. Each is called with no arguments at the matching lifecycle
// point and draws through the global canvas table:
//
//	function before_draw()
//	    local x, y = canvas.pointer()
//	    canvas.fill_style("#ff8800")
//	    canvas.circle(x, y, 10)
//	end
//
// Scripts run in a restricted state: only the base, table, string and math
// libraries are opened, and dofile, loadfile, load and loadstring are removed.
package script

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/ggview"
	lua "github.com/yuin/gopher-lua"
)

// Hook names looked up in the script's globals.
const (
	HookInit       = "init"
	HookBeforeDraw = "before_draw"
	HookAfterDraw  = "after_draw"
)

// DefaultHookTimeout bounds a single hook call.
const DefaultHookTimeout = 50 * time.Millisecond

// Errors returned by New.
var (
	// ErrEmptyID is returned when a script plugin is created without an ID.
	ErrEmptyID = errors.New("script: empty plugin id")

	// ErrLoad is returned when the script source fails to compile or run.
	ErrLoad = errors.New("script: load failed")
)

// Option configures a Plugin.
type Option func(*Plugin)

// WithHookTimeout bounds each hook call. Zero disables the bound.
func WithHookTimeout(d time.Duration) Option {
	return func(p *Plugin) {
		p.timeout = d
	}
}

// Plugin is a ggview plugin whose hooks are Lua functions.
//
// A hook that raises an error is logged and disabled; the other hooks keep
// running. Plugin is NOT safe for concurrent use, like the Canvas it serves.
type Plugin struct {
	id      string
	L       *lua.LState
	timeout time.Duration

	canvas   *ggview.Canvas // set while a hook runs
	scopes   []*ggview.Scope // opened by canvas.save
	disabled map[string]bool
	calls    map[string]int
}

// New compiles and runs source, which should define the hook functions.
func New(id, source string, opts ...Option) (*Plugin, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	p := &Plugin{
		id:       id,
		timeout:  DefaultHookTimeout,
		disabled: make(map[string]bool),
		calls:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	p.L = L
	p.installCanvasAPI()

	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, id, err)
	}
	return p, nil
}

// openSafeLibraries opens the libraries a drawing script needs and strips
// the base functions that load code from outside the state.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// ID implements ggview.Plugin.
func (p *Plugin) ID() string { return p.id }

// Init calls the script's init hook.
func (p *Plugin) Init(c *ggview.Canvas) { p.call(c, HookInit) }

// BeforeDraw calls the script's before_draw hook.
func (p *Plugin) BeforeDraw(c *ggview.Canvas) { p.call(c, HookBeforeDraw) }

// AfterDraw calls the script's after_draw hook.
func (p *Plugin) AfterDraw(c *ggview.Canvas) { p.call(c, HookAfterDraw) }

// Calls returns how many times hook ran without error.
func (p *Plugin) Calls(hook string) int {
	return p.calls[hook]
}

// Disabled reports whether hook was disabled after an error.
func (p *Plugin) Disabled(hook string) bool {
	return p.disabled[hook]
}

// Global returns a script global, for inspecting script state.
func (p *Plugin) Global(name string) lua.LValue {
	return p.L.GetGlobal(name)
}

// Close releases the Lua state. Hooks do nothing afterwards.
func (p *Plugin) Close() {
	if p.L == nil {
		return
	}
	p.L.Close()
	p.L = nil
}

func (p *Plugin) call(c *ggview.Canvas, hook string) {
	if p.L == nil || p.disabled[hook] {
		return
	}
	fn := p.L.GetGlobal(hook)
	if fn == lua.LNil {
		return
	}
	if fn.Type() != lua.LTFunction {
		ggview.Logger().Warn("script: hook is not a function, disabled",
			"plugin", p.id, "hook", hook, "type", fn.Type().String())
		p.disabled[hook] = true
		return
	}

	if p.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		p.L.SetContext(ctx)
		defer p.L.RemoveContext()
	}

	p.canvas = c
	defer func() { p.canvas = nil }()

	err := p.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	if err != nil {
		ggview.Logger().Error("script: hook failed, disabled",
			"plugin", p.id, "hook", hook, "err", err)
		p.disabled[hook] = true
		return
	}
	p.calls[hook]++
}
