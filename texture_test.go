package bramble

import (
	"errors"
	"image"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestTextureSheet(t *testing.T) {
	tex, err := NewTexture(ebiten.NewImage(64, 32), "sheet", 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	if tex.SheetW() != 4 || tex.SheetH() != 2 || tex.SpriteCount() != 8 {
		t.Errorf("sheet = %dx%d (%d)", tex.SheetW(), tex.SheetH(), tex.SpriteCount())
	}
	r, ok := tex.SpriteRect(5)
	if !ok || r != image.Rect(16, 16, 32, 32) {
		t.Errorf("SpriteRect(5) = %v,%v", r, ok)
	}
	if _, ok := tex.SpriteRect(8); ok {
		t.Error("SpriteRect(8) should be out of range")
	}
	if tex.sprite(5) != tex.sprite(5) {
		t.Error("sub-images should be cached")
	}
}

func TestTextureErrors(t *testing.T) {
	if _, err := NewTexture(nil, "", 8, 8); !errors.Is(err, ErrType) {
		t.Errorf("nil image err = %v, want ErrType", err)
	}
	if _, err := NewTexture(ebiten.NewImage(8, 8), "", 16, 8); !errors.Is(err, ErrValue) {
		t.Errorf("oversize sprite err = %v, want ErrValue", err)
	}
	whole, _ := NewTexture(ebiten.NewImage(24, 12), "", 0, 0)
	if whole.SpriteCount() != 1 || whole.SpriteW() != 24 {
		t.Error("zero sprite size should use the whole image")
	}
}

func TestApplyDiscreteMap(t *testing.T) {
	g := newTestGrid(t, 3, 2)
	l, _ := g.AddTileLayer("terrain", 0, nil)
	m := NewDiscreteMap(3, 2)
	m.Set(1, 0, 2)
	m.Set(9, 9, 7) // ignored

	resolve := func(m *DiscreteMap) ([]int, error) {
		out := make([]int, m.W*m.H)
		for y := 0; y < m.H; y++ {
			for x := 0; x < m.W; x++ {
				out[y*m.W+x] = int(m.At(x, y)) * 10
			}
		}
		return out, nil
	}
	if err := l.ApplyDiscreteMap(m, resolve); err != nil {
		t.Fatal(err)
	}
	if v, _ := l.At(1, 0); v != 20 {
		t.Errorf("At(1,0) = %d, want 20", v)
	}

	if err := l.ApplyDiscreteMap(NewDiscreteMap(2, 2), resolve); !errors.Is(err, ErrValue) {
		t.Errorf("size mismatch err = %v, want ErrValue", err)
	}
	short := func(*DiscreteMap) ([]int, error) { return []int{1}, nil }
	if err := l.ApplyDiscreteMap(m, short); !errors.Is(err, ErrValue) {
		t.Errorf("short resolver err = %v, want ErrValue", err)
	}
}
