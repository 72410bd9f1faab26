package bramble

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// DefaultFontSize is used by captions created without an explicit size.
const DefaultFontSize = 16.0

// Caption draws a string. Its size is measured from the text; Resize only
// limits the visible area.
type Caption struct {
	Node

	text         string
	font         *Font
	fontSize     float64
	fillColor    Color
	outlineColor Color
	outline      float64

	// clipW/clipH bound the visible area when positive.
	clipW, clipH float64

	measuredW, measuredH float64
	measureDirty         bool

	// cached raster, rebuilt when the text or style changes
	img      *ebiten.Image
	imgDirty bool
}

// NewCaption creates a caption at (x, y). A nil font uses DefaultFont.
func NewCaption(s string, x, y float64, font *Font) *Caption {
	if font == nil {
		font = DefaultFont()
	}
	c := &Caption{
		text:         s,
		font:         font,
		fontSize:     DefaultFontSize,
		fillColor:    ColorWhite,
		outlineColor: ColorBlack,
		measureDirty: true,
		imgDirty:     true,
	}
	c.init(c, "")
	c.pos = Vec2{x, y}
	return c
}

func (c *Caption) Text() string { return c.text }

// SetText replaces the text and remeasures.
func (c *Caption) SetText(s string) {
	if c.text == s {
		return
	}
	c.text = s
	c.contentChanged()
}

func (c *Caption) Font() *Font { return c.font }

// SetFont changes the font. nil restores DefaultFont.
func (c *Caption) SetFont(f *Font) {
	if f == nil {
		f = DefaultFont()
	}
	c.font = f
	c.contentChanged()
}

func (c *Caption) FontSize() float64 { return c.fontSize }

func (c *Caption) SetFontSize(size float64) {
	if size <= 0 || c.fontSize == size {
		return
	}
	c.fontSize = size
	c.contentChanged()
}

func (c *Caption) FillColor() Color { return c.fillColor }
func (c *Caption) SetFillColor(col Color) {
	c.fillColor = col
	c.styleChanged()
}

func (c *Caption) OutlineColor() Color { return c.outlineColor }
func (c *Caption) SetOutlineColor(col Color) {
	c.outlineColor = col
	c.styleChanged()
}

func (c *Caption) Outline() float64 { return c.outline }

func (c *Caption) SetOutline(t float64) {
	if t < 0 {
		t = 0
	}
	if c.outline == t {
		return
	}
	c.outline = t
	c.contentChanged()
}

func (c *Caption) contentChanged() {
	c.measureDirty = true
	c.imgDirty = true
	c.sizeChanged()
}

func (c *Caption) styleChanged() {
	c.imgDirty = true
	c.markDirty()
}

// Size returns the measured text size, limited by any Resize clamp.
func (c *Caption) Size() Vec2 {
	c.measure()
	w, h := c.measuredW, c.measuredH
	if c.clipW > 0 && c.clipW < w {
		w = c.clipW
	}
	if c.clipH > 0 && c.clipH < h {
		h = c.clipH
	}
	return Vec2{w, h}
}

// TextSize returns the full measured size, ignoring any clamp.
func (c *Caption) TextSize() Vec2 {
	c.measure()
	return Vec2{c.measuredW, c.measuredH}
}

func (c *Caption) measure() {
	if !c.measureDirty {
		return
	}
	c.measureDirty = false
	c.measuredW, c.measuredH = c.font.Measure(c.text, c.fontSize)
	if c.measuredW > 0 {
		c.measuredW += 2 * c.outline
		c.measuredH += 2 * c.outline
	}
}

// Resize clamps the visible area. The text itself is unchanged.
func (c *Caption) Resize(w, h float64) {
	c.clipW = math.Max(0, w)
	c.clipH = math.Max(0, h)
	c.sizeChanged()
}

func (c *Caption) Bounds() Rect {
	s := c.Size()
	return Rect{X: c.pos.X, Y: c.pos.Y, W: s.X, H: s.Y}
}

func (c *Caption) Render(offset Vec2, target *ebiten.Image) {
	if !c.visible || target == nil || c.text == "" {
		c.clearDirty()
		return
	}
	c.rasterize()
	if c.img == nil {
		return
	}
	s := c.Size()
	w, h := int(math.Ceil(s.X)), int(math.Ceil(s.Y))
	src := c.img.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
	origin := offset.Add(c.pos)
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(origin.X, origin.Y)
	op.ColorScale.ScaleAlpha(float32(c.opacity))
	target.DrawImage(src, &op)
	c.clearDirty()
}

// rasterize redraws the cached image when the text or style changed.
func (c *Caption) rasterize() {
	c.measure()
	if !c.imgDirty && c.img != nil {
		return
	}
	c.imgDirty = false
	w, h := int(math.Ceil(c.measuredW))+1, int(math.Ceil(c.measuredH))+1
	if c.img != nil {
		b := c.img.Bounds()
		if b.Dx() != w || b.Dy() != h {
			c.img.Deallocate()
			c.img = ebiten.NewImage(w, h)
		} else {
			c.img.Clear()
		}
	} else {
		c.img = ebiten.NewImage(w, h)
	}

	face := c.font.Face(c.fontSize)
	lh := c.font.LineHeight(c.fontSize)
	if c.outline > 0 && c.outlineColor.A > 0 {
		// Stamp the text around the origin to build a stroke.
		o := c.outline
		for _, d := range [8][2]float64{{-o, -o}, {0, -o}, {o, -o}, {-o, 0}, {o, 0}, {-o, o}, {0, o}, {o, o}} {
			c.drawText(face, lh, o+d[0], o+d[1], c.outlineColor)
		}
	}
	c.drawText(face, lh, c.outline, c.outline, c.fillColor)
}

func (c *Caption) drawText(face *text.GoTextFace, lineSpacing, x, y float64, col Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	op.LineSpacing = lineSpacing
	text.Draw(c.img, c.text, face, op)
}

// ClickAt hit-tests the caption's own bounds.
func (c *Caption) ClickAt(p Vec2) *Hit { return c.hitSelf(p) }

func (c *Caption) disposeContent() {
	if c.img != nil {
		c.img.Deallocate()
		c.img = nil
	}
}

var captionProps = baseProps[*Caption]().merge(
	propertyTable[*Caption]{
		"text":      stringProp((*Caption).Text, (*Caption).SetText),
		"font_size": floatProp((*Caption).FontSize, (*Caption).SetFontSize),
		"outline":   floatProp((*Caption).Outline, (*Caption).SetOutline),
		"w": floatProp(
			func(c *Caption) float64 { return c.Size().X },
			func(c *Caption, w float64) { c.Resize(w, c.clipH) },
		),
		"h": floatProp(
			func(c *Caption) float64 { return c.Size().Y },
			func(c *Caption, h float64) { c.Resize(c.clipW, h) },
		),
	},
	colorProps("fill_color", (*Caption).FillColor, (*Caption).SetFillColor),
	colorProps("outline_color", (*Caption).OutlineColor, (*Caption).SetOutlineColor),
)

func (c *Caption) SetProperty(name string, v Value) error {
	return captionProps.set("Caption", c, name, v)
}
func (c *Caption) Property(name string) (Value, bool) { return captionProps.get(c, name) }
func (c *Caption) HasProperty(name string) bool       { return captionProps.has(name) }
func (c *Caption) PropertyNames() []string            { return captionProps.names() }
