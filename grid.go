package bramble

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultCellSize is the cell edge in pixels for grids without a texture.
const DefaultCellSize = 16

// CellEvent is passed to the grid's cell callbacks. Button and State are
// only meaningful for OnCellClick.
type CellEvent struct {
	Grid   *Grid
	Cell   Point
	Button MouseButton
	State  ButtonState
}

// Grid is a tile map widget: a fixed array of cells with named layers,
// entities, field of view, pathfinding, and a camera (center + zoom) that
// chooses which part of the world shows inside the widget rectangle.
type Grid struct {
	Node

	size         Vec2
	gridW, gridH int
	cellW, cellH int
	texture      *Texture

	zoom             float64
	centerX, centerY float64
	fillColor        Color

	cells cellStore

	layers       []GridLayer
	layersSorted bool
	layerSerial  int

	entities *EntityCollection
	hash     *spatialHash
	children *Children

	fovAlgorithm FOVAlgorithm
	fovRadius    int
	fovMap       []bool

	perspectiveEntity  *Entity
	perspectiveEnabled bool

	// Cell callbacks. OnCellClick fires whenever the grid itself takes a
	// click on a cell, whether or not OnClick is set.
	OnCellEnter func(CellEvent)
	OnCellExit  func(CellEvent)
	OnCellClick func(CellEvent)

	hoveredCell Point
	hasHovered  bool

	dijkstra map[dijkstraKey]*DijkstraMap

	scroll   *cameraTween
	surface  *ebiten.Image
	childBuf *ebiten.Image
}

// NewGrid creates a gridW x gridH grid drawn at (x, y). Cell size comes from
// tex's sprite size, or DefaultCellSize without a texture. A zero w or h
// sizes the widget to show the whole grid at zoom 1. All cells start
// unwalkable and opaque.
func NewGrid(gridW, gridH int, tex *Texture, x, y, w, h float64) (*Grid, error) {
	if gridW <= 0 || gridH <= 0 {
		return nil, valueErrorf("grid size must be positive, got %dx%d", gridW, gridH)
	}
	g := &Grid{
		gridW:        gridW,
		gridH:        gridH,
		cellW:        DefaultCellSize,
		cellH:        DefaultCellSize,
		texture:      tex,
		zoom:         1,
		fillColor:    Color{8, 8, 8, 255},
		fovAlgorithm: FOVShadow,
		dijkstra:     make(map[dijkstraKey]*DijkstraMap),
	}
	if tex != nil {
		g.cellW, g.cellH = tex.SpriteW(), tex.SpriteH()
	}
	g.init(g, "")
	g.pos = Vec2{x, y}
	if w <= 0 {
		w = float64(gridW * g.cellW)
	}
	if h <= 0 {
		h = float64(gridH * g.cellH)
	}
	g.size = Vec2{w, h}
	g.centerX = float64(gridW*g.cellW) / 2
	g.centerY = float64(gridH*g.cellH) / 2
	g.cells = newCellStore(g, gridW, gridH)
	g.hash = newSpatialHash()
	g.entities = newEntityCollection(g)
	g.children = newChildren(g)
	g.fovMap = make([]bool, gridW*gridH)
	return g, nil
}

func (g *Grid) GridW() int          { return g.gridW }
func (g *Grid) GridH() int          { return g.gridH }
func (g *Grid) CellWidth() int      { return g.cellW }
func (g *Grid) CellHeight() int     { return g.cellH }
func (g *Grid) Texture() *Texture   { return g.texture }
func (g *Grid) Chunked() bool       { return g.cells.chunked() }
func (g *Grid) Children() *Children { return g.children }

// Entities returns the grid's entity collection.
func (g *Grid) Entities() *EntityCollection { return g.entities }

func (g *Grid) hostDrawable() Drawable { return g }

// hostSize is the world size in pixels; grid children live in world space.
func (g *Grid) hostSize() Vec2 {
	return Vec2{float64(g.gridW * g.cellW), float64(g.gridH * g.cellH)}
}

// InBounds reports whether (x, y) is a cell of this grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.gridW && y < g.gridH
}

// At returns the cell at (x, y). Out-of-range coordinates fail with ErrIndex.
func (g *Grid) At(x, y int) (*GridCell, error) {
	if !g.InBounds(x, y) {
		return nil, indexErrorf("cell (%d, %d) outside %dx%d grid", x, y, g.gridW, g.gridH)
	}
	return g.cells.cell(x, y), nil
}

// cell returns the cell at (x, y) without bounds checks.
func (g *Grid) cell(x, y int) *GridCell { return g.cells.cell(x, y) }

func (g *Grid) walkable(x, y int) bool {
	w, _ := g.cells.flags(x, y)
	return w
}

func (g *Grid) transparent(x, y int) bool {
	_, t := g.cells.flags(x, y)
	return t
}

// SetAllCells sets walkability and transparency of every cell.
func (g *Grid) SetAllCells(walkable, transparent bool) {
	for y := 0; y < g.gridH; y++ {
		for x := 0; x < g.gridW; x++ {
			c := g.cells.cell(x, y)
			c.Walkable, c.Transparent = walkable, transparent
		}
	}
	g.markDirty()
}

// SetCell sets one cell's walkability and transparency.
func (g *Grid) SetCell(x, y int, walkable, transparent bool) error {
	c, err := g.At(x, y)
	if err != nil {
		return err
	}
	c.Walkable, c.Transparent = walkable, transparent
	g.markDirty()
	return nil
}

func (g *Grid) Size() Vec2 { return g.size }

// SetSize resizes the widget rectangle. The cell array is unchanged.
func (g *Grid) SetSize(w, h float64) {
	w, h = math.Max(0, w), math.Max(0, h)
	if g.size.X == w && g.size.Y == h {
		return
	}
	g.size = Vec2{w, h}
	g.sizeChanged()
}

func (g *Grid) Resize(w, h float64) { g.SetSize(w, h) }

func (g *Grid) Zoom() float64 { return g.zoom }

// SetZoom sets the camera zoom. Non-positive values fail with ErrValue.
func (g *Grid) SetZoom(z float64) error {
	if z <= 0 {
		return valueErrorf("zoom must be positive, got %g", z)
	}
	g.zoom = z
	g.markDirty()
	return nil
}

// Center returns the world-pixel point shown at the widget's center.
func (g *Grid) Center() Vec2 { return Vec2{g.centerX, g.centerY} }

func (g *Grid) SetCenter(x, y float64) {
	g.centerX, g.centerY = x, y
	g.markDirty()
}

// CenterOn moves the camera to the middle of a cell.
func (g *Grid) CenterOn(cell Point) {
	g.scroll = nil
	g.SetCenter((float64(cell.X)+0.5)*float64(g.cellW), (float64(cell.Y)+0.5)*float64(g.cellH))
}

func (g *Grid) FillColor() Color { return g.fillColor }
func (g *Grid) SetFillColor(c Color) {
	g.fillColor = c
	g.markDirty()
}

func (g *Grid) FOVAlgorithm() FOVAlgorithm { return g.fovAlgorithm }

func (g *Grid) SetFOVAlgorithm(a FOVAlgorithm) error {
	if a > FOVSymmetric {
		return valueErrorf("unknown FOV algorithm %d", a)
	}
	g.fovAlgorithm = a
	return nil
}

func (g *Grid) FOVRadius() int { return g.fovRadius }

// SetFOVRadius sets the default FOV radius. 0 means unlimited.
func (g *Grid) SetFOVRadius(r int) error {
	if r < 0 {
		return valueErrorf("negative FOV radius %d", r)
	}
	g.fovRadius = r
	return nil
}

// PerspectiveEntity returns the entity whose visibility memory darkens the
// grid, or nil.
func (g *Grid) PerspectiveEntity() *Entity { return g.perspectiveEntity }

// SetPerspectiveEntity binds the fog-of-war to e. nil clears the binding.
func (g *Grid) SetPerspectiveEntity(e *Entity) {
	g.perspectiveEntity = e
	g.markDirty()
}

func (g *Grid) PerspectiveEnabled() bool { return g.perspectiveEnabled }

func (g *Grid) SetPerspectiveEnabled(on bool) {
	g.perspectiveEnabled = on
	g.markDirty()
}

// HoveredCell returns the cell under the pointer, if any.
func (g *Grid) HoveredCell() (Point, bool) { return g.hoveredCell, g.hasHovered }

// view returns the world-pixel rectangle visible in the widget.
func (g *Grid) view() Rect {
	w := g.size.X / g.zoom
	h := g.size.Y / g.zoom
	return Rect{X: g.centerX - w/2, Y: g.centerY - h/2, W: w, H: h}
}

// localToWorld maps widget-local pixels to world pixels.
func (g *Grid) localToWorld(p Vec2) Vec2 {
	v := g.view()
	return Vec2{v.X + p.X/g.zoom, v.Y + p.Y/g.zoom}
}

// worldToLocal maps world pixels to widget-local pixels.
func (g *Grid) worldToLocal(p Vec2) Vec2 {
	v := g.view()
	return Vec2{(p.X - v.X) * g.zoom, (p.Y - v.Y) * g.zoom}
}

func (g *Grid) worldToCell(p Vec2) Point {
	return Point{int(math.Floor(p.X / float64(g.cellW))), int(math.Floor(p.Y / float64(g.cellH)))}
}

// ScreenToCell maps a scene-space point to the cell under it. It reports
// false when the point is outside the widget or the resolved cell is
// outside the grid.
func (g *Grid) ScreenToCell(p Vec2) (Point, bool) {
	return g.localToCell(p.Sub(g.GlobalPosition()))
}

func (g *Grid) localToCell(local Vec2) (Point, bool) {
	if local.X < 0 || local.Y < 0 || local.X >= g.size.X || local.Y >= g.size.Y {
		return Point{}, false
	}
	c := g.worldToCell(g.localToWorld(local))
	if !g.InBounds(c.X, c.Y) {
		return Point{}, false
	}
	return c, true
}

// CellToScreen returns the scene-space position of a cell's top-left corner.
func (g *Grid) CellToScreen(cell Point) Vec2 {
	world := Vec2{float64(cell.X * g.cellW), float64(cell.Y * g.cellH)}
	return g.worldToLocal(world).Add(g.GlobalPosition())
}

// visibleCells returns the half-open cell range to draw, padded by margin
// cells and clamped to the grid.
func (g *Grid) visibleCells(margin int) (x0, y0, x1, y1 int) {
	v := g.view()
	left := int(math.Floor(v.X / float64(g.cellW)))
	top := int(math.Floor(v.Y / float64(g.cellH)))
	wCells := int(math.Ceil(v.W / float64(g.cellW)))
	hCells := int(math.Ceil(v.H / float64(g.cellH)))
	x0 = max(0, left-margin)
	y0 = max(0, top-margin)
	x1 = min(g.gridW, left+wCells+margin+1)
	y1 = min(g.gridH, top+hCells+margin+1)
	return
}

// EntitiesAt returns the entities whose cell is (x, y), in insertion order.
func (g *Grid) EntitiesAt(x, y int) []*Entity {
	return g.hash.at(Point{x, y})
}

// EntitiesInRadius returns entities whose cell lies within r cells of
// (x, y), by Euclidean distance.
func (g *Grid) EntitiesInRadius(x, y, r float64) []*Entity {
	return g.hash.queryRadius(x, y, r)
}

// update advances tile animations and any camera glide.
func (g *Grid) update(dt float64) {
	for _, l := range g.layers {
		if tl, ok := l.(*TileLayer); ok {
			tl.advance(dt)
		}
	}
	if g.scroll != nil {
		x, y, done := g.scroll.update(float32(dt))
		g.SetCenter(x, y)
		if done {
			g.scroll = nil
		}
	}
}

func (g *Grid) Bounds() Rect {
	return Rect{X: g.pos.X, Y: g.pos.Y, W: g.size.X, H: g.size.Y}
}

// ClickAt resolves a point in the parent's space. Grid children are tested
// first (top-most z first), then entities in the cell (last added first),
// then the grid itself, which accepts when OnClick or OnCellClick is set.
func (g *Grid) ClickAt(p Vec2) *Hit {
	if !g.visible {
		return nil
	}
	local := p.Sub(g.pos)
	if local.X < 0 || local.Y < 0 || local.X >= g.size.X || local.Y >= g.size.Y {
		return nil
	}
	world := g.localToWorld(local)
	if h := g.children.clickAt(world); h != nil {
		return h
	}
	cell, onCell := g.localToCell(local)
	if onCell {
		ents := g.hash.at(cell)
		for i := len(ents) - 1; i >= 0; i-- {
			if e := ents[i]; e.OnClick != nil && e.visible {
				return &Hit{Target: g, Entity: e, Local: local, Cell: cell, OnCell: true}
			}
		}
	}
	if g.OnClick != nil || (g.OnCellClick != nil && onCell) {
		return &Hit{Target: g, Local: local, Cell: cell, OnCell: onCell}
	}
	return nil
}

func (g *Grid) disposeContent() {
	for _, e := range g.entities.All() {
		e.detach()
	}
	for _, l := range g.layers {
		l.base().grid = nil
	}
	g.layers = nil
	g.dijkstra = nil
	g.perspectiveEntity = nil
	g.OnCellEnter, g.OnCellExit, g.OnCellClick = nil, nil, nil
	surfaces.Release(g.surface)
	surfaces.Release(g.childBuf)
	g.surface, g.childBuf = nil, nil
}

var gridProps = baseProps[*Grid]().merge(
	propertyTable[*Grid]{
		"w": floatProp(
			func(g *Grid) float64 { return g.size.X },
			func(g *Grid, w float64) { g.SetSize(w, g.size.Y) },
		),
		"h": floatProp(
			func(g *Grid) float64 { return g.size.Y },
			func(g *Grid, h float64) { g.SetSize(g.size.X, h) },
		),
		"size":   vecProp((*Grid).Size, func(g *Grid, s Vec2) { g.SetSize(s.X, s.Y) }),
		"center": vecProp((*Grid).Center, func(g *Grid, c Vec2) { g.SetCenter(c.X, c.Y) }),
		"center_x": floatProp(
			func(g *Grid) float64 { return g.centerX },
			func(g *Grid, x float64) { g.SetCenter(x, g.centerY) },
		),
		"center_y": floatProp(
			func(g *Grid) float64 { return g.centerY },
			func(g *Grid, y float64) { g.SetCenter(g.centerX, y) },
		),
		"zoom":       checkedFloatProp((*Grid).Zoom, (*Grid).SetZoom),
		"fov_radius": checkedIntProp((*Grid).FOVRadius, (*Grid).SetFOVRadius),
	},
	colorProps("fill_color", (*Grid).FillColor, (*Grid).SetFillColor),
)

func (g *Grid) SetProperty(name string, v Value) error {
	if name == "zoom" {
		if z, ok := v.AsFloat(); ok && z <= 0 {
			return valueErrorf("zoom must be positive, got %g", z)
		}
	}
	return gridProps.set("Grid", g, name, v)
}
func (g *Grid) Property(name string) (Value, bool) { return gridProps.get(g, name) }
func (g *Grid) HasProperty(name string) bool       { return gridProps.has(name) }
func (g *Grid) PropertyNames() []string            { return gridProps.names() }
