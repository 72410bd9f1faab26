package bramble

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled screenshot of the next rendered frame. The
// PNG is written to Config.ScreenshotDir with a timestamped filename.
func (e *Engine) Screenshot(label string) {
	e.screenshots = append(e.screenshots, label)
}

// flushScreenshots writes every queued label from the rendered frame.
func (e *Engine) flushScreenshots(screen *ebiten.Image) {
	if len(e.screenshots) == 0 {
		return
	}
	dir := e.cfg.ScreenshotDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		e.guard.logf("screenshot: mkdir %s: %v", dir, err)
		e.screenshots = e.screenshots[:0]
		return
	}

	img := snapshotNRGBA(screen)
	stamp := time.Now().Format("20060102_150405")
	for _, label := range e.screenshots {
		path := filepath.Join(dir, fmt.Sprintf("%s_f%d_%s.png", stamp, e.frame, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			e.guard.logf("screenshot: %v", err)
		}
	}
	e.screenshots = e.screenshots[:0]
}

// snapshotNRGBA reads img back as straight-alpha pixels.
func snapshotNRGBA(src *ebiten.Image) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]byte, 4*w*h)
	src.ReadPixels(pixels)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, bl, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			bl = uint8(min(int(bl)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = bl
		img.Pix[i+3] = a
	}
	return img
}

// SaveSnapshot renders d into a w x h offscreen image and writes it as PNG.
// The drawable's bounds origin lands at (0, 0).
func SaveSnapshot(d Drawable, w, h int, path string) error {
	if d == nil {
		return typeErrorf("nil drawable")
	}
	if w <= 0 || h <= 0 {
		return valueErrorf("snapshot size must be positive, got %dx%d", w, h)
	}
	img := ebiten.NewImage(w, h)
	defer img.Deallocate()
	b := d.Bounds()
	d.Render(Vec2{-b.X, -b.Y}, img)
	return writePNG(path, snapshotNRGBA(img))
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
