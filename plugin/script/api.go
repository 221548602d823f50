package script

import (
	"slices"

	"github.com/gogpu/ggview"
	"github.com/gogpu/ggview/event"
	"github.com/gogpu/ggview/plugin"
	lua "github.com/yuin/gopher-lua"
)

// installCanvasAPI registers the global canvas table.
func (p *Plugin) installCanvasAPI() {
	tbl := p.L.SetFuncs(p.L.NewTable(), map[string]lua.LGFunction{
		"width":        p.withCanvas(apiWidth),
		"height":       p.withCanvas(apiHeight),
		"translate":    p.withCanvas(apiTranslate),
		"scale":        p.withCanvas(apiScale),
		"rotate":       p.withCanvas(apiRotate),
		"save":         p.withCanvas(p.apiSave),
		"restore":      p.withCanvas(p.apiRestore),
		"fill_style":   p.withCanvas(apiFillStyle),
		"stroke_style": p.withCanvas(apiStrokeStyle),
		"line_width":   p.withCanvas(apiLineWidth),
		"fill_rect":    p.withCanvas(apiFillRect),
		"stroke_rect":  p.withCanvas(apiStrokeRect),
		"clear_rect":   p.withCanvas(apiClearRect),
		"circle":       p.withCanvas(apiCircle),
		"line":         p.withCanvas(apiLine),
		"polygon":      p.withCanvas(apiPolygon),
		"text":         p.withCanvas(apiText),
		"to_world":     p.withCanvas(apiToWorld),
		"pointer":      p.withCanvas(apiPointer),
		"clicked":      p.withCanvas(apiClicked),
		"log":          p.apiLog,
	})
	p.L.SetGlobal("canvas", tbl)
}

type canvasFunc func(L *lua.LState, c *ggview.Canvas) int

// withCanvas binds fn to the canvas of the running hook. Calls made
// outside a hook raise a Lua error.
func (p *Plugin) withCanvas(fn canvasFunc) lua.LGFunction {
	return func(L *lua.LState) int {
		if p.canvas == nil {
			L.RaiseError("canvas used outside a hook")
			return 0
		}
		return fn(L, p.canvas)
	}
}

func checkVec(L *lua.LState, n int) ggview.Vec2 {
	return ggview.V2(float64(L.CheckNumber(n)), float64(L.CheckNumber(n+1)))
}

func checkRect(L *lua.LState) (x, y, w, h float64) {
	return float64(L.CheckNumber(1)), float64(L.CheckNumber(2)),
		float64(L.CheckNumber(3)), float64(L.CheckNumber(4))
}

func apiWidth(L *lua.LState, c *ggview.Canvas) int {
	L.Push(lua.LNumber(c.Width()))
	return 1
}

func apiHeight(L *lua.LState, c *ggview.Canvas) int {
	L.Push(lua.LNumber(c.Height()))
	return 1
}

func apiTranslate(L *lua.LState, c *ggview.Canvas) int {
	c.Translate(checkVec(L, 1))
	return 0
}

func apiScale(L *lua.LState, c *ggview.Canvas) int {
	sx := float64(L.CheckNumber(1))
	c.Scale(ggview.V2(sx, float64(L.OptNumber(2, lua.LNumber(sx)))))
	return 0
}

func apiRotate(L *lua.LState, c *ggview.Canvas) int {
	c.Rotate(float64(L.CheckNumber(1)))
	return 0
}

// apiSave opens a scope owned by the script.
func (p *Plugin) apiSave(_ *lua.LState, c *ggview.Canvas) int {
	// Scopes unwound by the canvas at frame end are dropped here.
	p.scopes = slices.DeleteFunc(p.scopes, (*ggview.Scope).Released)
	p.scopes = append(p.scopes, c.PushScope())
	return 0
}

// apiRestore releases the script's innermost open scope. Scopes opened by
// other plugins are never touched.
func (p *Plugin) apiRestore(_ *lua.LState, _ *ggview.Canvas) int {
	for len(p.scopes) > 0 {
		sc := p.scopes[len(p.scopes)-1]
		p.scopes = p.scopes[:len(p.scopes)-1]
		if !sc.Released() {
			sc.Release()
			return 0
		}
	}
	ggview.Logger().Warn("script: restore without matching save", "plugin", p.id)
	return 0
}

func apiFillStyle(L *lua.LState, c *ggview.Canvas) int {
	c.SetFillStyle(L.CheckString(1))
	return 0
}

func apiStrokeStyle(L *lua.LState, c *ggview.Canvas) int {
	c.SetStrokeStyle(L.CheckString(1))
	return 0
}

func apiLineWidth(L *lua.LState, c *ggview.Canvas) int {
	c.SetLineWidth(float64(L.CheckNumber(1)))
	return 0
}

func apiFillRect(L *lua.LState, c *ggview.Canvas) int {
	c.FillRect(checkRect(L))
	return 0
}

func apiStrokeRect(L *lua.LState, c *ggview.Canvas) int {
	c.StrokeRect(checkRect(L))
	return 0
}

func apiClearRect(L *lua.LState, c *ggview.Canvas) int {
	c.ClearRect(checkRect(L))
	return 0
}

func apiCircle(L *lua.LState, c *ggview.Canvas) int {
	center := checkVec(L, 1)
	r := float64(L.CheckNumber(3))
	c.BeginPath()
	c.Circle(center, r)
	c.Fill()
	return 0
}

func apiLine(L *lua.LState, c *ggview.Canvas) int {
	a, b := checkVec(L, 1), checkVec(L, 3)
	c.BeginPath()
	c.Line(a, b)
	c.Stroke()
	return 0
}

// apiPolygon fills the polygon given as a flat {x1, y1, x2, y2, ...} table.
func apiPolygon(L *lua.LState, c *ggview.Canvas) int {
	tbl := L.CheckTable(1)
	n := tbl.Len()
	points := make([]ggview.Vec2, 0, n/2)
	for i := 1; i+1 <= n; i += 2 {
		x, okX := tbl.RawGetInt(i).(lua.LNumber)
		y, okY := tbl.RawGetInt(i + 1).(lua.LNumber)
		if !okX || !okY {
			L.ArgError(1, "polygon coordinates must be numbers")
			return 0
		}
		points = append(points, ggview.V2(float64(x), float64(y)))
	}

	c.BeginPath()
	ok := c.Polygon(points)
	if ok {
		c.ClosePath()
		c.Fill()
	}
	L.Push(lua.LBool(ok))
	return 1
}

func apiText(L *lua.LState, c *ggview.Canvas) int {
	str := L.CheckString(1)
	pos := checkVec(L, 2)
	c.Text(str, pos, float64(L.OptNumber(4, 0)))
	return 0
}

func apiToWorld(L *lua.LState, c *ggview.Canvas) int {
	w := c.ScreenToWorld(checkVec(L, 1))
	L.Push(lua.LNumber(w.X))
	L.Push(lua.LNumber(w.Y))
	return 2
}

// apiPointer returns the pointer position, in world space when a viewport
// is registered, or nothing without a pointer plugin.
func apiPointer(L *lua.LState, c *ggview.Canvas) int {
	ptr, ok := pointerOf(c)
	if !ok {
		return 0
	}
	pos := ptr.PointerPos()
	L.Push(lua.LNumber(pos.X))
	L.Push(lua.LNumber(pos.Y))
	return 2
}

// apiClicked reports whether button (0 left, 1 middle, 2 right) was clicked
// this frame.
func apiClicked(L *lua.LState, c *ggview.Canvas) int {
	b := event.Button(L.OptInt(1, int(event.ButtonLeft)))
	ptr, ok := pointerOf(c)
	L.Push(lua.LBool(ok && b.Valid() && ptr.Clicks()[b]))
	return 1
}

func (p *Plugin) apiLog(L *lua.LState) int {
	ggview.Logger().Info("script: "+L.CheckString(1), "plugin", p.id)
	return 0
}

func pointerOf(c *ggview.Canvas) (*plugin.Pointer, bool) {
	pl, ok := c.Plugin(plugin.PointerID)
	if !ok {
		return nil, false
	}
	ptr, ok := pl.(*plugin.Pointer)
	return ptr, ok
}
