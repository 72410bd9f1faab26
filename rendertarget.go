package bramble

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// surfacePool manages reusable offscreen images keyed by power-of-two
// dimensions. Frames that clip or cache their subtree and Grids draw into
// surfaces taken from here. After warmup, Acquire/Release are zero-alloc.
type surfacePool struct {
	buckets map[uint64][]*ebiten.Image
}

// surfaces is the process pool. Rendering is single-threaded.
var surfaces surfacePool

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared offscreen image with at least (w, h) pixels.
// Dimensions are rounded up to the next power of two.
func (p *surfacePool) Acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			img := stack[len(stack)-1]
			p.buckets[key] = stack[:len(stack)-1]
			img.Clear()
			return img
		}
	}

	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release returns an image to the pool. It is cleared on the next Acquire,
// not here.
func (p *surfacePool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())

	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], img)
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

// surfaceSize converts a float extent to whole pixels, at least 1.
func surfaceSize(w, h float64) (int, int) {
	iw := int(math.Ceil(w))
	ih := int(math.Ceil(h))
	if iw < 1 {
		iw = 1
	}
	if ih < 1 {
		ih = 1
	}
	return iw, ih
}

// blit draws the top-left (w, h) region of src onto dst at (x, y).
func blit(dst, src *ebiten.Image, x, y float64, w, h int) {
	sub := src.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(x, y)
	dst.DrawImage(sub, &op)
}
