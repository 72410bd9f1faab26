package bramble

import (
	"github.com/tanema/gween"
)

// cameraTween glides a grid's view center between two world points.
type cameraTween struct {
	x, y *gween.Tween
}

func newCameraTween(from, to Vec2, duration float64, e Easing) *cameraTween {
	fn := e.TweenFunc()
	d := float32(duration)
	return &cameraTween{
		x: gween.New(float32(from.X), float32(to.X), d, fn),
		y: gween.New(float32(from.Y), float32(to.Y), d, fn),
	}
}

// update advances by dt seconds and returns the new center.
func (c *cameraTween) update(dt float32) (x, y float64, done bool) {
	vx, dx := c.x.Update(dt)
	vy, dy := c.y.Update(dt)
	return float64(vx), float64(vy), dx && dy
}

// ScrollTo glides the camera to the middle of cell over duration seconds.
// A non-positive duration jumps immediately. Starting another glide, or
// calling CenterOn, replaces the current one.
func (g *Grid) ScrollTo(cell Point, duration float64, e Easing) {
	to := Vec2{(float64(cell.X) + 0.5) * float64(g.cellW), (float64(cell.Y) + 0.5) * float64(g.cellH)}
	if duration <= 0 {
		g.scroll = nil
		g.SetCenter(to.X, to.Y)
		return
	}
	g.scroll = newCameraTween(g.Center(), to, duration, e)
}

// Scrolling reports whether a camera glide is in progress.
func (g *Grid) Scrolling() bool { return g.scroll != nil }
