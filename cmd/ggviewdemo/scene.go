package main

import (
	"fmt"
	"math"

	"github.com/gogpu/ggview"
	"github.com/gogpu/ggview/plugin"
)

// scene draws the demo world: a grid, a cluster of shapes, and a marker
// under the pointer. World units are pixels at scale 1.
type scene struct {
	pointer  *plugin.Pointer
	viewport *plugin.Viewport
	clicks   []ggview.Vec2
}

func (s *scene) draw(c *ggview.Canvas) error {
	s.drawGrid(c)
	s.drawShapes(c)
	s.drawTransformed(c)

	if s.pointer != nil {
		if s.pointer.Clicks().Left() {
			s.clicks = append(s.clicks, s.pointer.PointerPos())
		}
		c.SetFillStyle("#ffcc00")
		for _, p := range s.clicks {
			c.BeginPath()
			c.Circle(p, 4)
			c.Fill()
		}
		c.SetStrokeStyle("#ffffff")
		c.SetLineWidth(1)
		pos := s.pointer.PointerPos()
		c.BeginPath()
		c.Circle(pos, 6)
		c.Stroke()
	}

	s.drawHUD(c)
	return nil
}

func (s *scene) drawGrid(c *ggview.Canvas) {
	const step, extent = 50.0, 2000.0
	c.SetStrokeStyle("#2c3a55")
	c.SetLineWidth(1)
	for v := -extent; v <= extent; v += step {
		c.BeginPath()
		c.Line(ggview.V2(v, -extent), ggview.V2(v, extent))
		c.Stroke()
		c.BeginPath()
		c.Line(ggview.V2(-extent, v), ggview.V2(extent, v))
		c.Stroke()
	}
}

func (s *scene) drawShapes(c *ggview.Canvas) {
	circles := []struct {
		center ggview.Vec2
		color  string
	}{
		{ggview.V2(150, 150), "#ff4d4d"},
		{ggview.V2(200, 150), "#4dff4d"},
		{ggview.V2(175, 200), "#4d4dff"},
	}
	for _, ci := range circles {
		c.SetFillStyle(ci.color)
		c.BeginPath()
		c.Circle(ci.center, 60)
		c.Fill()
	}

	c.SetFillStyle("#ffcc00")
	c.FillRect(350, 100, 120, 80)
	c.SetStrokeStyle("#ffffff")
	c.SetLineWidth(4)
	c.StrokeRect(350, 100, 120, 80)

	c.SetFillStyle("#66ddcc")
	c.BeginPath()
	c.Polygon([]ggview.Vec2{
		ggview.V2(150, 300), ggview.V2(250, 450), ggview.V2(50, 450),
	})
	c.ClosePath()
	c.Fill()
}

func (s *scene) drawTransformed(c *ggview.Canvas) {
	center := ggview.V2(600, 150)
	for i := range 6 {
		sc := c.PushScope()
		c.RotateAbout(float64(i)*math.Pi/12, center)
		c.SetStrokeStyle(fmt.Sprintf("#%02x%02xff", 80+i*30, 200-i*20))
		c.SetLineWidth(2)
		c.StrokeRect(center.X-50, center.Y-50, 100, 100)
		sc.Release()
	}
}

// drawHUD writes the view state in screen space.
func (s *scene) drawHUD(c *ggview.Canvas) {
	if s.viewport == nil {
		return
	}
	sc := c.PushScope()
	defer sc.Release()
	c.ResetTransform()

	c.SetFillStyle("#ffffff")
	c.SetTextAlign(ggview.AlignLeft)
	c.SetTextBaseline(ggview.BaselineTop)
	off := s.viewport.Offset()
	c.Text(fmt.Sprintf("zoom %.2fx  offset %.0f,%.0f", s.viewport.Scale(), off.X, off.Y),
		ggview.V2(8, 8), float64(c.Width())-16)
}
