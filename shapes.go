package bramble

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Circle is a filled, outlined circle. Its position is the center.
type Circle struct {
	Node

	radius       float64
	fillColor    Color
	outlineColor Color
	outline      float64
}

// NewCircle creates a circle centered at (x, y).
func NewCircle(x, y, radius float64) *Circle {
	c := &Circle{radius: math.Max(0, radius), fillColor: ColorWhite, outlineColor: ColorTransparent}
	c.init(c, "")
	c.pos = Vec2{x, y}
	return c
}

func (c *Circle) Radius() float64 { return c.radius }

// SetRadius sets the radius. Negative values fail with ErrValue.
func (c *Circle) SetRadius(r float64) error {
	if r < 0 {
		return valueErrorf("negative radius %g", r)
	}
	if c.radius != r {
		c.radius = r
		c.sizeChanged()
	}
	return nil
}

func (c *Circle) FillColor() Color { return c.fillColor }
func (c *Circle) SetFillColor(col Color) {
	c.fillColor = col
	c.markDirty()
}

func (c *Circle) OutlineColor() Color { return c.outlineColor }
func (c *Circle) SetOutlineColor(col Color) {
	c.outlineColor = col
	c.markDirty()
}

func (c *Circle) Outline() float64 { return c.outline }
func (c *Circle) SetOutline(t float64) {
	c.outline = math.Max(0, t)
	c.markDirty()
}

// Resize sets the radius to half the smaller side.
func (c *Circle) Resize(w, h float64) {
	_ = c.SetRadius(math.Max(0, math.Min(w, h)/2))
}

func (c *Circle) Bounds() Rect {
	return Rect{X: c.pos.X - c.radius, Y: c.pos.Y - c.radius, W: 2 * c.radius, H: 2 * c.radius}
}

func (c *Circle) Render(offset Vec2, target *ebiten.Image) {
	if c.visible && target != nil && c.radius > 0 {
		o := offset.Add(c.pos)
		x, y, r := float32(o.X), float32(o.Y), float32(c.radius)
		if c.fillColor.A > 0 {
			vector.DrawFilledCircle(target, x, y, r, c.fillColor.WithOpacity(c.opacity), true)
		}
		if c.outline > 0 && c.outlineColor.A > 0 {
			vector.StrokeCircle(target, x, y, r, float32(c.outline), c.outlineColor.WithOpacity(c.opacity), true)
		}
	}
	c.clearDirty()
}

// ClickAt accepts points inside the circle, not just its bounding box.
func (c *Circle) ClickAt(p Vec2) *Hit {
	if !c.visible || c.OnClick == nil {
		return nil
	}
	d := p.Sub(c.pos)
	if d.X*d.X+d.Y*d.Y > c.radius*c.radius {
		return nil
	}
	return &Hit{Target: c, Local: d}
}

var circleProps = baseProps[*Circle]().merge(
	propertyTable[*Circle]{
		"radius":  checkedFloatProp((*Circle).Radius, (*Circle).SetRadius),
		"outline": floatProp((*Circle).Outline, (*Circle).SetOutline),
		"center": vecProp(
			func(c *Circle) Vec2 { return c.pos },
			func(c *Circle, p Vec2) { c.SetPosition(p.X, p.Y) },
		),
	},
	colorProps("fill_color", (*Circle).FillColor, (*Circle).SetFillColor),
	colorProps("outline_color", (*Circle).OutlineColor, (*Circle).SetOutlineColor),
)

func (c *Circle) SetProperty(name string, v Value) error {
	return circleProps.set("Circle", c, name, v)
}
func (c *Circle) Property(name string) (Value, bool) { return circleProps.get(c, name) }
func (c *Circle) HasProperty(name string) bool       { return circleProps.has(name) }
func (c *Circle) PropertyNames() []string            { return circleProps.names() }

// Line is a straight segment. Start and end are relative to the position,
// so moving the line moves both ends.
type Line struct {
	Node

	start, end Vec2
	color      Color
	thickness  float64
}

// NewLine creates a line from start to end.
func NewLine(start, end Vec2, thickness float64, col Color) *Line {
	l := &Line{start: start, end: end, thickness: math.Max(0, thickness), color: col}
	l.init(l, "")
	return l
}

func (l *Line) Start() Vec2 { return l.start }
func (l *Line) End() Vec2   { return l.end }

func (l *Line) SetStart(p Vec2) {
	l.start = p
	l.sizeChanged()
}

func (l *Line) SetEnd(p Vec2) {
	l.end = p
	l.sizeChanged()
}

func (l *Line) Color() Color { return l.color }
func (l *Line) SetColor(c Color) {
	l.color = c
	l.markDirty()
}

func (l *Line) Thickness() float64 { return l.thickness }
func (l *Line) SetThickness(t float64) {
	l.thickness = math.Max(0, t)
	l.sizeChanged()
}

// Resize scales the segment so its extent is w x h, keeping its direction
// and start point.
func (l *Line) Resize(w, h float64) {
	d := l.end.Sub(l.start)
	if d.X != 0 {
		d.X = math.Copysign(w, d.X)
	}
	if d.Y != 0 {
		d.Y = math.Copysign(h, d.Y)
	}
	l.SetEnd(l.start.Add(d))
}

func (l *Line) Bounds() Rect {
	a, b := l.start.Add(l.pos), l.end.Add(l.pos)
	pad := l.thickness / 2
	minX, maxX := math.Min(a.X, b.X)-pad, math.Max(a.X, b.X)+pad
	minY, maxY := math.Min(a.Y, b.Y)-pad, math.Max(a.Y, b.Y)+pad
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

func (l *Line) Render(offset Vec2, target *ebiten.Image) {
	if l.visible && target != nil && l.thickness > 0 && l.color.A > 0 {
		o := offset.Add(l.pos)
		a, b := l.start.Add(o), l.end.Add(o)
		vector.StrokeLine(target, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y),
			float32(l.thickness), l.color.WithOpacity(l.opacity), true)
	}
	l.clearDirty()
}

// ClickAt accepts points within half the thickness (at least one pixel) of
// the segment.
func (l *Line) ClickAt(p Vec2) *Hit {
	if !l.visible || l.OnClick == nil {
		return nil
	}
	local := p.Sub(l.pos)
	tol := math.Max(l.thickness/2, 1)
	if segmentDistance(local, l.start, l.end) > tol {
		return nil
	}
	return &Hit{Target: l, Local: local}
}

func segmentDistance(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	ap := p.Sub(a)
	den := ab.X*ab.X + ab.Y*ab.Y
	t := 0.0
	if den > 0 {
		t = math.Max(0, math.Min(1, (ap.X*ab.X+ap.Y*ab.Y)/den))
	}
	q := a.Add(ab.Scale(t))
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

var lineProps = baseProps[*Line]().merge(
	propertyTable[*Line]{
		"start":     vecProp((*Line).Start, (*Line).SetStart),
		"end":       vecProp((*Line).End, (*Line).SetEnd),
		"thickness": floatProp((*Line).Thickness, (*Line).SetThickness),
	},
	colorProps("color", (*Line).Color, (*Line).SetColor),
)

func (l *Line) SetProperty(name string, v Value) error {
	return lineProps.set("Line", l, name, v)
}
func (l *Line) Property(name string) (Value, bool) { return lineProps.get(l, name) }
func (l *Line) HasProperty(name string) bool       { return lineProps.has(name) }
func (l *Line) PropertyNames() []string            { return lineProps.names() }

// Arc is a stroked circular arc. Its position is the center. Angles are in
// degrees, counter-clockwise from the positive x axis as seen on screen.
type Arc struct {
	Node

	radius     float64
	startAngle float64
	endAngle   float64
	color      Color
	thickness  float64

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewArc creates an arc centered at (x, y).
func NewArc(x, y, radius, startDeg, endDeg, thickness float64, col Color) *Arc {
	a := &Arc{
		radius:     math.Max(0, radius),
		startAngle: startDeg,
		endAngle:   endDeg,
		thickness:  math.Max(0, thickness),
		color:      col,
	}
	a.init(a, "")
	a.pos = Vec2{x, y}
	return a
}

func (a *Arc) Center() Vec2 { return a.pos }

func (a *Arc) Radius() float64 { return a.radius }

func (a *Arc) SetRadius(r float64) error {
	if r < 0 {
		return valueErrorf("negative radius %g", r)
	}
	if a.radius != r {
		a.radius = r
		a.sizeChanged()
	}
	return nil
}

func (a *Arc) StartAngle() float64 { return a.startAngle }
func (a *Arc) EndAngle() float64   { return a.endAngle }

func (a *Arc) SetStartAngle(deg float64) {
	a.startAngle = deg
	a.markDirty()
}

func (a *Arc) SetEndAngle(deg float64) {
	a.endAngle = deg
	a.markDirty()
}

func (a *Arc) Color() Color { return a.color }
func (a *Arc) SetColor(c Color) {
	a.color = c
	a.markDirty()
}

func (a *Arc) Thickness() float64 { return a.thickness }
func (a *Arc) SetThickness(t float64) {
	a.thickness = math.Max(0, t)
	a.sizeChanged()
}

// Resize sets the radius to half the smaller side.
func (a *Arc) Resize(w, h float64) {
	_ = a.SetRadius(math.Max(0, math.Min(w, h)/2))
}

func (a *Arc) Bounds() Rect {
	r := a.radius + a.thickness/2
	return Rect{X: a.pos.X - r, Y: a.pos.Y - r, W: 2 * r, H: 2 * r}
}

// arcSweep returns the start angle and the positive CCW sweep, in degrees.
func (a *Arc) arcSweep() (float64, float64) {
	sweep := a.endAngle - a.startAngle
	if sweep < 0 {
		sweep = math.Mod(sweep, 360) + 360
	}
	if sweep > 360 {
		sweep = 360
	}
	return a.startAngle, sweep
}

func (a *Arc) Render(offset Vec2, target *ebiten.Image) {
	if !a.visible || target == nil || a.radius <= 0 || a.thickness <= 0 || a.color.A == 0 {
		a.clearDirty()
		return
	}
	o := offset.Add(a.pos)
	start, sweep := a.arcSweep()
	// Screen y grows downward, so a CCW arc runs through negative angles.
	s := -start * math.Pi / 180
	e := -(start + sweep) * math.Pi / 180

	var path vector.Path
	path.MoveTo(float32(o.X+a.radius*math.Cos(s)), float32(o.Y+a.radius*math.Sin(s)))
	path.Arc(float32(o.X), float32(o.Y), float32(a.radius), float32(s), float32(e), vector.CounterClockwise)

	a.vertices, a.indices = path.AppendVerticesAndIndicesForStroke(a.vertices[:0], a.indices[:0], &vector.StrokeOptions{
		Width: float32(a.thickness),
	})
	drawSolidTriangles(target, a.vertices, a.indices, a.color.WithOpacity(a.opacity))
	a.clearDirty()
}

// ClickAt accepts points on the stroke within the swept angle.
func (a *Arc) ClickAt(p Vec2) *Hit {
	if !a.visible || a.OnClick == nil {
		return nil
	}
	d := p.Sub(a.pos)
	dist := math.Hypot(d.X, d.Y)
	if math.Abs(dist-a.radius) > math.Max(a.thickness/2, 1) {
		return nil
	}
	// Screen-space angle measured CCW as the user sees it.
	ang := math.Atan2(-d.Y, d.X) * 180 / math.Pi
	start, sweep := a.arcSweep()
	rel := math.Mod(ang-start, 360)
	if rel < 0 {
		rel += 360
	}
	if rel > sweep {
		return nil
	}
	return &Hit{Target: a, Local: d}
}

var arcProps = baseProps[*Arc]().merge(
	propertyTable[*Arc]{
		"center":      vecProp((*Arc).Center, func(a *Arc, p Vec2) { a.SetPosition(p.X, p.Y) }),
		"radius":      checkedFloatProp((*Arc).Radius, (*Arc).SetRadius),
		"start_angle": floatProp((*Arc).StartAngle, (*Arc).SetStartAngle),
		"end_angle":   floatProp((*Arc).EndAngle, (*Arc).SetEndAngle),
		"thickness":   floatProp((*Arc).Thickness, (*Arc).SetThickness),
	},
	colorProps("color", (*Arc).Color, (*Arc).SetColor),
)

func (a *Arc) SetProperty(name string, v Value) error {
	return arcProps.set("Arc", a, name, v)
}
func (a *Arc) Property(name string) (Value, bool) { return arcProps.get(a, name) }
func (a *Arc) HasProperty(name string) bool       { return arcProps.has(name) }
func (a *Arc) PropertyNames() []string            { return arcProps.names() }

// solidSrc is a 3x3 white image; triangles sample its center pixel so edges
// never bleed.
var solidSrc = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(ColorWhite)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()

func drawSolidTriangles(target *ebiten.Image, vs []ebiten.Vertex, is []uint16, c Color) {
	r, g, b, al := c.RGBA()
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(g) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(al) / 0xffff
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	target.DrawTriangles(vs, is, solidSrc, op)
}
