package bramble

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Sprite draws one cell of a Texture. A sprite without a texture, or with an
// index outside the sheet, draws nothing.
type Sprite struct {
	Node

	texture     *Texture
	spriteIndex int
	scale       Vec2
}

// NewSprite creates a sprite at (x, y) showing sprite index of tex.
func NewSprite(x, y float64, tex *Texture, index int) *Sprite {
	s := &Sprite{texture: tex, spriteIndex: index, scale: Vec2{1, 1}}
	s.init(s, "")
	s.pos = Vec2{x, y}
	return s
}

func (s *Sprite) Texture() *Texture { return s.texture }

func (s *Sprite) SetTexture(t *Texture) {
	s.texture = t
	s.sizeChanged()
}

func (s *Sprite) SpriteIndex() int { return s.spriteIndex }

// SetSpriteIndex selects the sheet cell. Out-of-range indices are stored
// and render as empty.
func (s *Sprite) SetSpriteIndex(i int) {
	if s.spriteIndex == i {
		return
	}
	s.spriteIndex = i
	s.markDirty()
}

func (s *Sprite) Scale() Vec2 { return s.scale }

func (s *Sprite) SetScale(x, y float64) {
	if s.scale.X == x && s.scale.Y == y {
		return
	}
	s.scale = Vec2{x, y}
	s.sizeChanged()
}

// Size is the scaled sprite cell size.
func (s *Sprite) Size() Vec2 {
	if s.texture == nil {
		return Vec2{}
	}
	return Vec2{float64(s.texture.spriteW) * s.scale.X, float64(s.texture.spriteH) * s.scale.Y}
}

// Resize adjusts the scale so the sprite covers w x h.
func (s *Sprite) Resize(w, h float64) {
	if s.texture == nil {
		return
	}
	s.SetScale(w/float64(s.texture.spriteW), h/float64(s.texture.spriteH))
}

func (s *Sprite) Bounds() Rect {
	sz := s.Size()
	return Rect{X: s.pos.X, Y: s.pos.Y, W: sz.X, H: sz.Y}
}

func (s *Sprite) Render(offset Vec2, target *ebiten.Image) {
	if s.visible && target != nil {
		o := offset.Add(s.pos)
		drawSpriteCell(target, s.texture, s.spriteIndex, o.X, o.Y, s.scale.X, s.scale.Y, s.opacity)
	}
	s.clearDirty()
}

// drawSpriteCell draws cell index of tex with its top-left at (x, y).
func drawSpriteCell(target *ebiten.Image, tex *Texture, index int, x, y, sx, sy, opacity float64) {
	if tex == nil || opacity <= 0 {
		return
	}
	img := tex.sprite(index)
	if img == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(sx, sy)
	op.GeoM.Translate(x, y)
	if opacity < 1 {
		op.ColorScale.ScaleAlpha(float32(opacity))
	}
	target.DrawImage(img, &op)
}

func (s *Sprite) ClickAt(p Vec2) *Hit { return s.hitSelf(p) }

var spriteProps = baseProps[*Sprite]().merge(propertyTable[*Sprite]{
	"sprite_index": intProp((*Sprite).SpriteIndex, (*Sprite).SetSpriteIndex),
	// legacy name
	"sprite_number": intProp((*Sprite).SpriteIndex, (*Sprite).SetSpriteIndex),
	"scale": floatProp(
		func(s *Sprite) float64 { return s.scale.X },
		func(s *Sprite, v float64) { s.SetScale(v, v) },
	),
	"scale_x": floatProp(
		func(s *Sprite) float64 { return s.scale.X },
		func(s *Sprite, v float64) { s.SetScale(v, s.scale.Y) },
	),
	"scale_y": floatProp(
		func(s *Sprite) float64 { return s.scale.Y },
		func(s *Sprite, v float64) { s.SetScale(s.scale.X, v) },
	),
})

func (s *Sprite) SetProperty(name string, v Value) error {
	return spriteProps.set("Sprite", s, name, v)
}
func (s *Sprite) Property(name string) (Value, bool) { return spriteProps.get(s, name) }
func (s *Sprite) HasProperty(name string) bool       { return spriteProps.has(name) }
func (s *Sprite) PropertyNames() []string            { return spriteProps.names() }
