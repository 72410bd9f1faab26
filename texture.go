package bramble

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Texture is a sprite sheet: an image cut into equal cells addressed by a
// row-major sprite index. Textures are immutable and shared by reference.
type Texture struct {
	img     *ebiten.Image
	source  string
	spriteW int
	spriteH int
	sheetW  int // in sprites
	sheetH  int // in sprites
	subs    []*ebiten.Image
}

// NewTexture wraps img as a sheet of spriteW x spriteH cells. A zero sprite
// size uses the whole image as a single sprite.
func NewTexture(img *ebiten.Image, source string, spriteW, spriteH int) (*Texture, error) {
	if img == nil {
		return nil, typeErrorf("nil image")
	}
	b := img.Bounds()
	if spriteW <= 0 || spriteH <= 0 {
		spriteW, spriteH = b.Dx(), b.Dy()
	}
	if spriteW > b.Dx() || spriteH > b.Dy() {
		return nil, valueErrorf("sprite size %dx%d exceeds image %dx%d", spriteW, spriteH, b.Dx(), b.Dy())
	}
	t := &Texture{
		img:     img,
		source:  source,
		spriteW: spriteW,
		spriteH: spriteH,
		sheetW:  b.Dx() / spriteW,
		sheetH:  b.Dy() / spriteH,
	}
	t.subs = make([]*ebiten.Image, t.sheetW*t.sheetH)
	return t, nil
}

// LoadTexture reads an image file and cuts it into sprites.
func LoadTexture(path string, spriteW, spriteH int) (*Texture, error) {
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("bramble: failed to load texture: %w", err)
	}
	return NewTexture(img, path, spriteW, spriteH)
}

// TextureFromSnapshot renders d into a new w x h image and returns it as a
// single-sprite texture. The drawable's bounds origin lands at (0, 0).
func TextureFromSnapshot(d Drawable, w, h int) (*Texture, error) {
	if d == nil {
		return nil, typeErrorf("nil drawable")
	}
	if w <= 0 || h <= 0 {
		return nil, valueErrorf("snapshot size must be positive, got %dx%d", w, h)
	}
	img := ebiten.NewImage(w, h)
	b := d.Bounds()
	d.Render(Vec2{-b.X, -b.Y}, img)
	return NewTexture(img, fmt.Sprintf("snapshot:%d", d.Serial()), 0, 0)
}

func (t *Texture) Source() string   { return t.source }
func (t *Texture) SpriteW() int     { return t.spriteW }
func (t *Texture) SpriteH() int     { return t.spriteH }
func (t *Texture) SheetW() int      { return t.sheetW }
func (t *Texture) SheetH() int      { return t.sheetH }
func (t *Texture) SpriteCount() int { return t.sheetW * t.sheetH }

// Image returns the whole sheet.
func (t *Texture) Image() *ebiten.Image { return t.img }

// SpriteRect returns the pixel rectangle of sprite i, or false if i is out
// of range.
func (t *Texture) SpriteRect(i int) (image.Rectangle, bool) {
	if i < 0 || i >= t.SpriteCount() {
		return image.Rectangle{}, false
	}
	x := (i % t.sheetW) * t.spriteW
	y := (i / t.sheetW) * t.spriteH
	return image.Rect(x, y, x+t.spriteW, y+t.spriteH), true
}

// sprite returns the sub-image for sprite i, or nil when out of range.
func (t *Texture) sprite(i int) *ebiten.Image {
	r, ok := t.SpriteRect(i)
	if !ok {
		return nil
	}
	if t.subs[i] == nil {
		t.subs[i] = t.img.SubImage(r).(*ebiten.Image)
	}
	return t.subs[i]
}
