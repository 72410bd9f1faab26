package bramble

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color is an 8-bit RGBA color. Not premultiplied; premultiplication happens
// when the color is handed to ebiten.
type Color struct {
	R, G, B, A uint8
}

var (
	ColorWhite       = Color{255, 255, 255, 255}
	ColorBlack       = Color{0, 0, 0, 255}
	ColorTransparent = Color{}
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A) * 0x101
	r = uint32(c.R) * 0x101 * a / 0xffff
	g = uint32(c.G) * 0x101 * a / 0xffff
	b = uint32(c.B) * 0x101 * a / 0xffff
	return
}

// WithOpacity returns c with its alpha channel scaled by o (clamped to [0,1]).
func (c Color) WithOpacity(o float64) Color {
	c.A = uint8(math.Round(float64(c.A) * clamp01(o)))
	return c
}

var _ color.Color = Color{}

// Vec2 is a 2D float vector used for positions, sizes, and offsets.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v*s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Floor returns the integer cell containing v.
func (v Vec2) Floor() Point {
	return Point{int(math.Floor(v.X)), int(math.Floor(v.Y))}
}

// Point is an integer 2D coordinate, used for grid cells.
type Point struct {
	X, Y int
}

// Vec2 converts p to float coordinates.
func (p Point) Vec2() Vec2 { return Vec2{float64(p.X), float64(p.Y)} }

// Rect is an axis-aligned rectangle. Origin top-left, Y grows downward.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W &&
		y >= r.Y && y <= r.Y+r.H
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W &&
		r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H &&
		r.Y+r.H >= other.Y
}

// Size returns the rectangle's width and height as a vector.
func (r Rect) Size() Vec2 { return Vec2{r.W, r.H} }

// Alignment anchors a drawable inside its parent's bounds.
type Alignment uint8

const (
	AlignNone Alignment = iota
	AlignTopLeft
	AlignTopCenter
	AlignTopRight
	AlignCenterLeft
	AlignCenter
	AlignCenterRight
	AlignBottomLeft
	AlignBottomCenter
	AlignBottomRight
)

var alignmentNames = [...]string{
	AlignNone:         "NONE",
	AlignTopLeft:      "TOP_LEFT",
	AlignTopCenter:    "TOP_CENTER",
	AlignTopRight:     "TOP_RIGHT",
	AlignCenterLeft:   "CENTER_LEFT",
	AlignCenter:       "CENTER",
	AlignCenterRight:  "CENTER_RIGHT",
	AlignBottomLeft:   "BOTTOM_LEFT",
	AlignBottomCenter: "BOTTOM_CENTER",
	AlignBottomRight:  "BOTTOM_RIGHT",
}

func (a Alignment) String() string {
	if int(a) < len(alignmentNames) {
		return alignmentNames[a]
	}
	return "UNKNOWN"
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "left"
	case MouseButtonRight:
		return "right"
	case MouseButtonMiddle:
		return "middle"
	default:
		return "unknown"
	}
}

// ButtonState is the edge of a button or key transition.
type ButtonState uint8

const (
	StatePressed ButtonState = iota
	StateReleased
)

func (s ButtonState) String() string {
	if s == StatePressed {
		return "pressed"
	}
	return "released"
}

// WhitePixel is a 1x1 white image used as the source for solid fills.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
