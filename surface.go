package ggview

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/gofont/goregular"
)

// TextAlign selects which horizontal point of a string is placed at the
// drawing position.
type TextAlign int

// Text alignments.
const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// anchor returns the fraction of the advance width left of the position.
func (a TextAlign) anchor() float64 {
	switch a {
	case AlignCenter:
		return 0.5
	case AlignRight:
		return 1
	default:
		return 0
	}
}

// TextBaseline selects which vertical line of a string is placed at the
// drawing position.
type TextBaseline int

// Text baselines.
const (
	BaselineAlphabetic TextBaseline = iota
	BaselineTop
	BaselineMiddle
	BaselineBottom
)

// DefaultFontSize is the font size used until SetFontSize is called.
const DefaultFontSize = 16

// Surface is a thin facade over an immediate-mode gg.Context.
//
// It owns no plugin logic. Positions are Vec2 in the current user space;
// the gg transform stack maps them to raster pixels. Push/Pop of that stack
// goes through Scope guards so that pairing can be checked.
//
// Surface is NOT safe for concurrent use.
type Surface struct {
	ctx    *gg.Context
	scopes []*Scope

	font     *text.FontSource
	fontSize float64
	face     text.Face
	align    TextAlign
	baseline TextBaseline
}

// NewSurface creates a surface backed by a new gg.Context.
func NewSurface(width, height int) *Surface {
	return SurfaceFor(gg.NewContext(width, height))
}

// SurfaceFor wraps an existing gg.Context.
func SurfaceFor(dc *gg.Context) *Surface {
	return &Surface{
		ctx:      dc,
		scopes:   make([]*Scope, 0, 8),
		fontSize: DefaultFontSize,
	}
}

// Context returns the underlying gg drawing context.
func (s *Surface) Context() *gg.Context {
	return s.ctx
}

// Width returns the raster width in pixels.
func (s *Surface) Width() int {
	return s.ctx.Width()
}

// Height returns the raster height in pixels.
func (s *Surface) Height() int {
	return s.ctx.Height()
}

// Size returns the raster size in pixels.
func (s *Surface) Size() Vec2 {
	return V2(float64(s.ctx.Width()), float64(s.ctx.Height()))
}

// Resize reallocates the raster. The transform stack is preserved.
func (s *Surface) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidSize, width, height)
	}
	if err := s.ctx.Resize(width, height); err != nil {
		return fmt.Errorf("ggview: surface resize failed: %w", err)
	}
	return nil
}

// Image returns the raster as an image.
func (s *Surface) Image() image.Image {
	return s.ctx.Image()
}

// Clear makes the whole raster transparent.
func (s *Surface) Clear() {
	s.ctx.Clear()
}

// ClearWithColor fills the whole raster with col.
func (s *Surface) ClearWithColor(col gg.RGBA) {
	s.ctx.ClearWithColor(col)
}

// ClearRect makes a rectangle transparent. The rectangle is given in user
// space. Under rotation or skew only pixels whose centers fall inside the
// transformed rectangle are cleared.
func (s *Surface) ClearRect(x, y, w, h float64) {
	m := s.ctx.GetTransform()
	corners := [4]gg.Point{
		m.TransformPoint(gg.Pt(x, y)),
		m.TransformPoint(gg.Pt(x+w, y)),
		m.TransformPoint(gg.Pt(x, y+h)),
		m.TransformPoint(gg.Pt(x+w, y+h)),
	}
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, p := range corners[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	r := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY))).Intersect(s.bounds())
	pm := s.ctx.ResizeTarget()
	data, stride := pm.Data(), pm.Width()*4

	if m.B == 0 && m.D == 0 {
		for py := r.Min.Y; py < r.Max.Y; py++ {
			clear(data[py*stride+r.Min.X*4 : py*stride+r.Max.X*4])
		}
		return
	}

	if math.Abs(m.A*m.E-m.B*m.D) < 1e-10 {
		return
	}
	inv := m.Invert()
	x0, x1 := math.Min(x, x+w), math.Max(x, x+w)
	y0, y1 := math.Min(y, y+h), math.Max(y, y+h)
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			u := inv.TransformPoint(gg.Pt(float64(px)+0.5, float64(py)+0.5))
			if u.X >= x0 && u.X < x1 && u.Y >= y0 && u.Y < y1 {
				i := py*stride + px*4
				clear(data[i : i+4])
			}
		}
	}
}

// BeginPath discards the current path.
func (s *Surface) BeginPath() {
	s.ctx.ClearPath()
}

// ClosePath closes the current subpath.
func (s *Surface) ClosePath() {
	s.ctx.ClosePath()
}

// MoveTo starts a new subpath at p.
func (s *Surface) MoveTo(p Vec2) {
	s.ctx.MoveTo(p.X, p.Y)
}

// LineTo adds a line segment to p.
func (s *Surface) LineTo(p Vec2) {
	s.ctx.LineTo(p.X, p.Y)
}

// Arc adds a circular arc around center from angle1 to angle2 (radians).
func (s *Surface) Arc(center Vec2, radius, angle1, angle2 float64) {
	s.ctx.DrawArc(center.X, center.Y, radius, angle1, angle2)
}

// Rect adds a closed rectangle subpath.
func (s *Surface) Rect(x, y, w, h float64) {
	s.ctx.DrawRectangle(x, y, w, h)
}

// Circle adds a closed circle subpath.
func (s *Surface) Circle(center Vec2, radius float64) {
	s.ctx.DrawCircle(center.X, center.Y, radius)
}

// Line adds a single segment from a to b.
func (s *Surface) Line(a, b Vec2) {
	s.ctx.DrawLine(a.X, a.Y, b.X, b.Y)
}

// Polygon adds an open polyline through points. Close it with ClosePath to
// get a polygon. Fewer than two points is invalid geometry: an error is
// logged, nothing is added and false is returned.
func (s *Surface) Polygon(points []Vec2) bool {
	if len(points) < 2 {
		Logger().Error("ggview: polygon needs at least 2 points", "points", len(points))
		return false
	}
	s.ctx.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		s.ctx.LineTo(p.X, p.Y)
	}
	return true
}

// Fill fills the current path and clears it.
func (s *Surface) Fill() {
	if err := s.ctx.Fill(); err != nil {
		Logger().Warn("ggview: fill failed", "err", err)
	}
}

// Stroke strokes the current path and clears it.
func (s *Surface) Stroke() {
	if err := s.ctx.Stroke(); err != nil {
		Logger().Warn("ggview: stroke failed", "err", err)
	}
}

// FillRect fills a rectangle with the fill color.
func (s *Surface) FillRect(x, y, w, h float64) {
	s.ctx.ClearPath()
	s.Rect(x, y, w, h)
	s.Fill()
}

// StrokeRect outlines a rectangle with the stroke color.
func (s *Surface) StrokeRect(x, y, w, h float64) {
	s.ctx.ClearPath()
	s.Rect(x, y, w, h)
	s.Stroke()
}

// Clip intersects the clip region with the current path and clears it.
// The clip is undone by releasing the enclosing Scope.
func (s *Surface) Clip() {
	s.ctx.Clip()
}

// SetFillColor sets the color used by Fill and Text.
func (s *Surface) SetFillColor(col color.Color) {
	s.ctx.SetFillBrush(gg.Solid(gg.FromColor(col)))
}

// SetStrokeColor sets the color used by Stroke.
func (s *Surface) SetStrokeColor(col color.Color) {
	s.ctx.SetStrokeBrush(gg.Solid(gg.FromColor(col)))
}

// SetFillStyle sets the fill color from a CSS hex string such as "#ff8800".
// An unparsable string is logged and leaves the color unchanged.
func (s *Surface) SetFillStyle(css string) {
	if col, ok := parseColor(css); ok {
		s.SetFillColor(col)
	}
}

// SetStrokeStyle sets the stroke color from a CSS hex string.
func (s *Surface) SetStrokeStyle(css string) {
	if col, ok := parseColor(css); ok {
		s.SetStrokeColor(col)
	}
}

// SetLineWidth sets the stroke width in user units.
func (s *Surface) SetLineWidth(width float64) {
	s.ctx.SetLineWidth(width)
}

// SetLineCap sets the shape of stroke end points.
func (s *Surface) SetLineCap(lineCap gg.LineCap) {
	s.ctx.SetLineCap(lineCap)
}

// parseColor parses a CSS hex color. colorful.Hex accepts "#rgb" and "#rrggbb".
func parseColor(css string) (color.Color, bool) {
	c, err := colorful.Hex(css)
	if err != nil {
		Logger().Warn("ggview: invalid color", "color", css, "err", err)
		return nil, false
	}
	return c.Clamped(), true
}

// SetFont sets the font source used by Text. A nil source restores the
// built-in Go Regular face.
func (s *Surface) SetFont(src *text.FontSource) {
	s.font = src
	s.face = nil
}

// SetFontSize sets the text size in points. Non-positive sizes are ignored.
func (s *Surface) SetFontSize(size float64) {
	if size <= 0 {
		return
	}
	s.fontSize = size
	s.face = nil
}

// SetTextAlign sets horizontal text alignment.
func (s *Surface) SetTextAlign(a TextAlign) {
	s.align = a
}

// SetTextBaseline sets vertical text alignment.
func (s *Surface) SetTextBaseline(b TextBaseline) {
	s.baseline = b
}

// Text draws str at pos with the fill color. When maxWidth is positive and
// the string is wider, it is condensed horizontally to fit.
func (s *Surface) Text(str string, pos Vec2, maxWidth float64) {
	face := s.currentFace()
	if face == nil {
		return
	}

	w := face.Advance(str)
	x := pos.X - w*s.align.anchor()
	y := pos.Y
	m := face.Metrics()
	switch s.baseline {
	case BaselineTop:
		y += m.Ascent
	case BaselineMiddle:
		y += (m.Ascent - m.Descent) / 2
	case BaselineBottom:
		y -= m.Descent
	}

	if maxWidth > 0 && w > maxWidth {
		sc := s.PushScope()
		defer sc.Release()
		s.ScaleAbout(V2(maxWidth/w, 1), pos)
	}
	s.ctx.DrawString(str, x, y)
}

// MeasureText returns the advance width and line height of str.
func (s *Surface) MeasureText(str string) (w, h float64) {
	face := s.currentFace()
	if face == nil {
		return 0, 0
	}
	return face.Advance(str), face.Metrics().LineHeight()
}

// currentFace returns the face for the configured font and size,
// loading the built-in font on first use.
func (s *Surface) currentFace() text.Face {
	if s.face != nil {
		return s.face
	}
	if s.font == nil {
		src, err := text.NewFontSource(goregular.TTF)
		if err != nil {
			Logger().Error("ggview: loading default font failed", "err", err)
			return nil
		}
		s.font = src
	}
	s.face = s.font.Face(s.fontSize)
	s.ctx.SetFont(s.face)
	return s.face
}

// DrawImage draws img with its top-left corner at pos.
func (s *Surface) DrawImage(img *gg.ImageBuf, pos Vec2) {
	if img == nil {
		return
	}
	s.ctx.DrawImage(img, pos.X, pos.Y)
}

// DrawImageRect draws the src cutout of img into the dst rectangle given
// in user space. An empty src draws the whole image.
func (s *Surface) DrawImageRect(img *gg.ImageBuf, src image.Rectangle, dst Vec2, dstW, dstH float64) {
	if img == nil {
		return
	}
	opts := gg.DrawImageOptions{
		X:         dst.X,
		Y:         dst.Y,
		DstWidth:  dstW,
		DstHeight: dstH,
	}
	if !src.Empty() {
		opts.SrcRect = &src
	}
	s.ctx.DrawImageEx(img, opts)
}

// Translate moves the user-space origin by v.
func (s *Surface) Translate(v Vec2) {
	s.ctx.Translate(v.X, v.Y)
}

// Scale scales user space by v around the origin.
func (s *Surface) Scale(v Vec2) {
	s.ctx.Scale(v.X, v.Y)
}

// ScaleAbout scales user space by v keeping pivot fixed.
func (s *Surface) ScaleAbout(v, pivot Vec2) {
	s.ctx.Translate(pivot.X, pivot.Y)
	s.ctx.Scale(v.X, v.Y)
	s.ctx.Translate(-pivot.X, -pivot.Y)
}

// Rotate rotates user space by angle radians around the origin.
func (s *Surface) Rotate(angle float64) {
	s.ctx.Rotate(angle)
}

// RotateAbout rotates user space by angle radians around pivot.
func (s *Surface) RotateAbout(angle float64, pivot Vec2) {
	s.ctx.RotateAbout(angle, pivot.X, pivot.Y)
}

// ResetTransform replaces the current transform with the identity.
// Open scopes still restore their saved transforms when released.
func (s *Surface) ResetTransform() {
	s.ctx.Identity()
}

// Transform returns the current user-to-device matrix.
func (s *Surface) Transform() gg.Matrix {
	return s.ctx.GetTransform()
}

// InverseTransform returns the device-to-user matrix.
func (s *Surface) InverseTransform() gg.Matrix {
	return s.ctx.GetTransform().Invert()
}

// ScreenToWorld maps a device (screen) position into current user space.
func (s *Surface) ScreenToWorld(p Vec2) Vec2 {
	return FromPoint(s.InverseTransform().TransformPoint(p.Point()))
}

// WorldToScreen maps a user-space position to device (screen) pixels.
func (s *Surface) WorldToScreen(p Vec2) Vec2 {
	return FromPoint(s.Transform().TransformPoint(p.Point()))
}

// CreatePixels allocates a transparent pixel buffer.
func (s *Surface) CreatePixels(width, height int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// GetPixels copies the device-space rectangle r out of the raster.
// Parts of r outside the raster read as transparent.
func (s *Surface) GetPixels(r image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	src := r.Intersect(s.bounds())
	if src.Empty() {
		return out
	}
	pm := s.ctx.ResizeTarget()
	data, stride := pm.Data(), pm.Width()*4
	for y := src.Min.Y; y < src.Max.Y; y++ {
		from := data[y*stride+src.Min.X*4 : y*stride+src.Max.X*4]
		to := out.PixOffset(src.Min.X-r.Min.X, y-r.Min.Y)
		copy(out.Pix[to:], from)
	}
	return out
}

// PutPixels copies img into the raster with its origin at device position
// at, ignoring the transform and clip.
func (s *Surface) PutPixels(img *image.RGBA, at image.Point) {
	if img == nil {
		return
	}
	b := img.Bounds()
	dst := image.Rectangle{Min: at, Max: at.Add(b.Size())}.Intersect(s.bounds())
	if dst.Empty() {
		return
	}
	pm := s.ctx.ResizeTarget()
	data, stride := pm.Data(), pm.Width()*4
	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		from := img.PixOffset(b.Min.X+dst.Min.X-at.X, b.Min.Y+y-at.Y)
		copy(data[y*stride+dst.Min.X*4:y*stride+dst.Max.X*4], img.Pix[from:])
	}
}

func (s *Surface) bounds() image.Rectangle {
	return image.Rect(0, 0, s.ctx.Width(), s.ctx.Height())
}
