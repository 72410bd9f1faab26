package bramble

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Frame is a filled, outlined rectangle that owns an ordered child list.
// Children are positioned relative to the frame's top-left corner.
type Frame struct {
	Node

	size         Vec2
	fillColor    Color
	outlineColor Color
	outline      float64
	children     *Children

	// clip restricts children to the frame's rectangle.
	clip bool
	// cache keeps the rendered subtree in a surface that is reused while
	// nothing inside changes.
	cache   bool
	surface *ebiten.Image
}

// NewFrame creates a frame at (x, y) with the given size.
func NewFrame(x, y, w, h float64) *Frame {
	f := &Frame{
		size:         Vec2{w, h},
		fillColor:    ColorTransparent,
		outlineColor: ColorWhite,
	}
	f.init(f, "")
	f.pos = Vec2{x, y}
	f.children = newChildren(f)
	return f
}

// Children returns the frame's child list.
func (f *Frame) Children() *Children { return f.children }

func (f *Frame) hostDrawable() Drawable { return f }
func (f *Frame) hostSize() Vec2         { return f.size }

func (f *Frame) Size() Vec2 { return f.size }

// SetSize resizes the frame and re-anchors aligned children.
func (f *Frame) SetSize(w, h float64) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if f.size.X == w && f.size.Y == h {
		return
	}
	f.size = Vec2{w, h}
	f.sizeChanged()
}

// Resize is SetSize.
func (f *Frame) Resize(w, h float64) { f.SetSize(w, h) }

func (f *Frame) FillColor() Color { return f.fillColor }
func (f *Frame) SetFillColor(c Color) {
	f.fillColor = c
	f.markDirty()
}

func (f *Frame) OutlineColor() Color { return f.outlineColor }
func (f *Frame) SetOutlineColor(c Color) {
	f.outlineColor = c
	f.markDirty()
}

func (f *Frame) Outline() float64 { return f.outline }

// SetOutline sets the outline thickness. Negative values become 0.
func (f *Frame) SetOutline(t float64) {
	if t < 0 {
		t = 0
	}
	f.outline = t
	f.markDirty()
}

func (f *Frame) ClipChildren() bool { return f.clip }

// SetClipChildren makes children render through a surface the size of the
// frame, so anything outside is cut off. Clicks outside the frame also stop
// reaching children.
func (f *Frame) SetClipChildren(clip bool) {
	f.clip = clip
	f.markDirty()
}

func (f *Frame) CacheSubtree() bool { return f.cache }

// SetCacheSubtree enables the subtree cache. While enabled, the frame and
// its children are rasterized once and redrawn from the cached surface until
// something inside is marked dirty. Position changes of the frame itself do
// not invalidate the cache.
func (f *Frame) SetCacheSubtree(cache bool) {
	if f.cache == cache {
		return
	}
	f.cache = cache
	if !cache {
		surfaces.Release(f.surface)
		f.surface = nil
	}
	f.markDirty()
}

// Bounds returns the frame's rectangle in its parent's space.
func (f *Frame) Bounds() Rect {
	return Rect{X: f.pos.X, Y: f.pos.Y, W: f.size.X, H: f.size.Y}
}

// Render draws the frame and its children.
func (f *Frame) Render(offset Vec2, target *ebiten.Image) {
	if !f.visible || target == nil {
		return
	}
	origin := offset.Add(f.pos)
	switch {
	case f.cache:
		w, h := surfaceSize(f.size.X, f.size.Y)
		if f.surface == nil || f.dirty {
			if f.surface == nil || f.surface.Bounds().Dx() < w || f.surface.Bounds().Dy() < h {
				surfaces.Release(f.surface)
				f.surface = surfaces.Acquire(w, h)
			} else {
				f.surface.Clear()
			}
			f.drawContent(Vec2{}, f.surface)
		}
		blit(target, f.surface, origin.X, origin.Y, w, h)
	case f.clip:
		w, h := surfaceSize(f.size.X, f.size.Y)
		s := surfaces.Acquire(w, h)
		f.drawContent(Vec2{}, s)
		blit(target, s, origin.X, origin.Y, w, h)
		surfaces.Release(s)
	default:
		f.drawContent(origin, target)
	}
	f.clearDirty()
}

// drawContent draws the box and children with the frame's top-left at origin.
func (f *Frame) drawContent(origin Vec2, target *ebiten.Image) {
	x, y := float32(origin.X), float32(origin.Y)
	w, h := float32(f.size.X), float32(f.size.Y)
	if f.fillColor.A > 0 {
		vector.DrawFilledRect(target, x, y, w, h, f.fillColor.WithOpacity(f.opacity), false)
	}
	if f.outline > 0 && f.outlineColor.A > 0 {
		vector.StrokeRect(target, x, y, w, h, float32(f.outline), f.outlineColor.WithOpacity(f.opacity), false)
	}
	f.children.render(origin, target)
}

// ClickAt tests children top-most first, then the frame itself.
func (f *Frame) ClickAt(p Vec2) *Hit {
	if !f.visible {
		return nil
	}
	if !f.clip || f.Bounds().Contains(p.X, p.Y) {
		if h := f.children.clickAt(p.Sub(f.pos)); h != nil {
			return h
		}
	}
	return f.hitSelf(p)
}

func (f *Frame) disposeContent() {
	surfaces.Release(f.surface)
	f.surface = nil
}

var frameProps = baseProps[*Frame]().merge(
	propertyTable[*Frame]{
		"w": floatProp(
			func(f *Frame) float64 { return f.size.X },
			func(f *Frame, w float64) { f.SetSize(w, f.size.Y) },
		),
		"h": floatProp(
			func(f *Frame) float64 { return f.size.Y },
			func(f *Frame, h float64) { f.SetSize(f.size.X, h) },
		),
		"size": vecProp(
			func(f *Frame) Vec2 { return f.size },
			func(f *Frame, s Vec2) { f.SetSize(s.X, s.Y) },
		),
		"outline": floatProp((*Frame).Outline, (*Frame).SetOutline),
	},
	colorProps("fill_color", (*Frame).FillColor, (*Frame).SetFillColor),
	colorProps("outline_color", (*Frame).OutlineColor, (*Frame).SetOutlineColor),
)

func (f *Frame) SetProperty(name string, v Value) error {
	return frameProps.set("Frame", f, name, v)
}
func (f *Frame) Property(name string) (Value, bool) { return frameProps.get(f, name) }
func (f *Frame) HasProperty(name string) bool       { return frameProps.has(name) }
func (f *Frame) PropertyNames() []string            { return frameProps.names() }
