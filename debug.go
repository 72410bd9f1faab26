package bramble

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// frameStats holds per-frame timing. Only populated when Config.Debug is
// true.
type frameStats struct {
	inputTime  time.Duration
	animTime   time.Duration
	updateTime time.Duration
	renderTime time.Duration
	events     int
	animations int
}

// debugLog writes the last frame's timing to the engine logger.
func (e *Engine) debugLog() {
	st := e.stats
	total := st.inputTime + st.animTime + st.updateTime + st.renderTime
	e.guard.logf("frame %d | input: %v | anim: %v | update: %v | render: %v | total: %v",
		e.frame, st.inputTime, st.animTime, st.updateTime, st.renderTime, total)
	e.guard.logf("events: %d | animations: %d", st.events, st.animations)
}

// FPSCounter shows the actual FPS and TPS in a sprite, refreshed about
// twice a second. Add Sprite() to a scene and call Tick from OnUpdate.
type FPSCounter struct {
	sprite *Sprite
	img    *ebiten.Image
	since  float64
}

// NewFPSCounter returns a counter whose sprite sits at (x, y).
func NewFPSCounter(x, y float64) *FPSCounter {
	img := ebiten.NewImage(100, 32)
	tex, _ := NewTexture(img, "fps", 0, 0)
	sp := NewSprite(x, y, tex, 0)
	sp.SetName("fps")
	sp.SetZIndex(1 << 20)
	c := &FPSCounter{sprite: sp, img: img}
	c.refresh()
	return c
}

func (c *FPSCounter) Sprite() *Sprite { return c.sprite }

// Tick advances the refresh timer.
func (c *FPSCounter) Tick(dt float64) {
	c.since += dt
	if c.since < 0.5 {
		return
	}
	c.since = 0
	c.refresh()
}

func (c *FPSCounter) refresh() {
	c.img.Fill(Color{0, 0, 0, 128})
	ebitenutil.DebugPrint(c.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}
