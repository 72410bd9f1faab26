package bramble

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Fog-of-war colors.
var (
	fogUnknown    = Color{0, 0, 0, 255}
	fogRemembered = Color{0, 0, 0, 160}
)

// Render draws the grid into an internal surface and presents it at the
// widget position. Order: fill, layers below zero, entities, layers at or
// above zero, grid children, fog of war.
func (g *Grid) Render(offset Vec2, target *ebiten.Image) {
	if !g.visible || target == nil {
		g.clearDirty()
		return
	}
	for _, l := range g.layers {
		if cl, ok := l.(*ColorLayer); ok && cl.perspDirty {
			cl.refreshPerspective()
		}
	}

	w, h := surfaceSize(g.size.X, g.size.Y)
	if g.surface == nil || g.surface.Bounds().Dx() < w || g.surface.Bounds().Dy() < h {
		surfaces.Release(g.surface)
		g.surface = surfaces.Acquire(w, h)
	} else {
		g.surface.Clear()
	}
	surf := g.surface

	if g.fillColor.A > 0 {
		vector.DrawFilledRect(surf, 0, 0, float32(g.size.X), float32(g.size.Y), g.fillColor.WithOpacity(g.opacity), false)
	}

	view := g.view()
	x0, y0, x1, y1 := g.visibleCells(1)
	g.sortLayers()

	i := 0
	for ; i < len(g.layers) && g.layers[i].ZIndex() < 0; i++ {
		g.drawLayer(surf, g.layers[i], view, x0, y0, x1, y1)
	}
	g.drawEntities(surf, view, x0, y0, x1, y1)
	for ; i < len(g.layers); i++ {
		g.drawLayer(surf, g.layers[i], view, x0, y0, x1, y1)
	}
	g.drawChildren(surf, view)
	if g.perspectiveEnabled {
		g.drawFog(surf, view, x0, y0, x1, y1)
	}

	o := offset.Add(g.pos)
	blit(target, surf, o.X, o.Y, w, h)
	g.clearDirty()
}

// cellRect returns the surface rectangle of cell (x, y).
func (g *Grid) cellRect(view Rect, x, y int) (float32, float32, float32, float32) {
	px := (float64(x*g.cellW) - view.X) * g.zoom
	py := (float64(y*g.cellH) - view.Y) * g.zoom
	return float32(px), float32(py), float32(float64(g.cellW) * g.zoom), float32(float64(g.cellH) * g.zoom)
}

func (g *Grid) drawLayer(surf *ebiten.Image, l GridLayer, view Rect, x0, y0, x1, y1 int) {
	if !l.Visible() || l.Opacity() <= 0 {
		return
	}
	switch l := l.(type) {
	case *ColorLayer:
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				c := l.colors[y*l.w+x]
				if c.A == 0 {
					continue
				}
				px, py, cw, ch := g.cellRect(view, x, y)
				vector.DrawFilledRect(surf, px, py, cw, ch, c.WithOpacity(l.opacity), false)
			}
		}
	case *TileLayer:
		if l.texture == nil {
			return
		}
		sx := float64(g.cellW) / float64(l.texture.spriteW) * g.zoom
		sy := float64(g.cellH) / float64(l.texture.spriteH) * g.zoom
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				idx := l.tiles[y*l.w+x]
				if idx < 0 {
					continue
				}
				img := l.texture.sprite(l.displayIndex(idx))
				if img == nil {
					continue
				}
				px, py, _, _ := g.cellRect(view, x, y)
				var op ebiten.DrawImageOptions
				applyTileFlips(&op.GeoM, l.flips[y*l.w+x], float64(l.texture.spriteW), float64(l.texture.spriteH))
				op.GeoM.Scale(sx, sy)
				op.GeoM.Translate(float64(px), float64(py))
				if l.opacity < 1 {
					op.ColorScale.ScaleAlpha(float32(l.opacity))
				}
				surf.DrawImage(img, &op)
			}
		}
	}
}

// applyTileFlips applies Tiled flip flags about the tile center: diagonal
// first, then horizontal, then vertical.
func applyTileFlips(m *ebiten.GeoM, flags uint8, w, h float64) {
	if flags == 0 {
		return
	}
	m.Translate(-w/2, -h/2)
	if flags&1 != 0 {
		m.Rotate(math.Pi / 2)
		m.Scale(-1, 1)
	}
	if flags&4 != 0 {
		m.Scale(-1, 1)
	}
	if flags&2 != 0 {
		m.Scale(1, -1)
	}
	m.Translate(w/2, h/2)
}

func (g *Grid) drawEntities(surf *ebiten.Image, view Rect, x0, y0, x1, y1 int) {
	for _, e := range g.entities.items {
		if !e.visible || e.sprite == nil {
			continue
		}
		cx, cy := int(math.Floor(e.pos.X)), int(math.Floor(e.pos.Y))
		if cx < x0 || cy < y0 || cx >= x1 || cy >= y1 {
			continue
		}
		if g.entityHidden(e, cx, cy) {
			continue
		}
		px := (e.pos.X*float64(g.cellW) - view.X) * g.zoom
		py := (e.pos.Y*float64(g.cellH) - view.Y) * g.zoom
		s := e.sprite
		drawSpriteCell(surf, s.texture, s.spriteIndex, px, py, s.scale.X*g.zoom, s.scale.Y*g.zoom, s.opacity)
	}
}

// entityHidden reports whether perspective mode hides e, which stands on
// cell (cx, cy). The perspective entity itself is always drawn.
func (g *Grid) entityHidden(e *Entity, cx, cy int) bool {
	return g.perspectiveEnabled && e != g.perspectiveEntity && !g.perspectiveSees(cx, cy)
}

// perspectiveSees reports whether the perspective entity currently sees
// cell (x, y).
func (g *Grid) perspectiveSees(x, y int) bool {
	e := g.perspectiveEntity
	if e == nil || e.Disposed() || len(e.gridstate) != g.gridW*g.gridH {
		return false
	}
	return e.gridstate[y*g.gridW+x].Visible
}

func (g *Grid) drawChildren(surf *ebiten.Image, view Rect) {
	if g.children.Len() == 0 {
		return
	}
	// Children outside the view (plus two cells) are skipped.
	pad := Vec2{2 * float64(g.cellW), 2 * float64(g.cellH)}
	cull := Rect{X: view.X - pad.X, Y: view.Y - pad.Y, W: view.W + 2*pad.X, H: view.H + 2*pad.Y}
	origin := Vec2{-view.X, -view.Y}

	if g.zoom == 1 {
		for _, d := range g.children.Sorted() {
			if d.Visible() && cull.Intersects(d.Bounds()) {
				d.Render(origin, surf)
			}
		}
		return
	}

	// Render at world scale, then scale onto the grid surface.
	w, h := surfaceSize(view.W, view.H)
	if g.childBuf == nil || g.childBuf.Bounds().Dx() < w || g.childBuf.Bounds().Dy() < h {
		surfaces.Release(g.childBuf)
		g.childBuf = surfaces.Acquire(w, h)
	} else {
		g.childBuf.Clear()
	}
	for _, d := range g.children.Sorted() {
		if d.Visible() && cull.Intersects(d.Bounds()) {
			d.Render(origin, g.childBuf)
		}
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(g.zoom, g.zoom)
	surf.DrawImage(g.childBuf, &op)
}

func (g *Grid) drawFog(surf *ebiten.Image, view Rect, x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if c, ok := g.fogAt(x, y); ok {
				px, py, cw, ch := g.cellRect(view, x, y)
				vector.DrawFilledRect(surf, px, py, cw, ch, c, false)
			}
		}
	}
}

// fogAt returns the fog color over cell (x, y), or false when the cell is
// drawn unobscured. Without a live perspective entity every cell is unknown.
func (g *Grid) fogAt(x, y int) (Color, bool) {
	if !g.perspectiveEnabled {
		return Color{}, false
	}
	e := g.perspectiveEntity
	if e == nil || e.Disposed() || len(e.gridstate) != g.gridW*g.gridH {
		return fogUnknown, true
	}
	st := e.gridstate[y*g.gridW+x]
	switch {
	case !st.Discovered:
		return fogUnknown, true
	case !st.Visible:
		return fogRemembered, true
	}
	return Color{}, false
}
