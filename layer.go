package bramble

import (
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// reservedLayerNames cannot be used for layers; they name the cell flags.
var reservedLayerNames = mapset.Of("walkable", "transparent")

// GridLayer is a named per-cell overlay bound to one Grid: a *ColorLayer or
// a *TileLayer. Layers with a negative z-index draw below entities, the rest
// above.
type GridLayer interface {
	Name() string
	ZIndex() int
	SetZIndex(z int)
	Visible() bool
	SetVisible(v bool)
	Opacity() float64
	SetOpacity(o float64)
	// Grid returns the owning grid, or nil once the layer is removed.
	Grid() *Grid

	base() *layerBase
}

type layerBase struct {
	name    string
	z       int
	order   int
	visible bool
	opacity float64
	grid    *Grid
	w, h    int
}

func (l *layerBase) base() *layerBase { return l }
func (l *layerBase) Name() string     { return l.name }
func (l *layerBase) ZIndex() int      { return l.z }
func (l *layerBase) Visible() bool    { return l.visible }
func (l *layerBase) Opacity() float64 { return l.opacity }
func (l *layerBase) Grid() *Grid      { return l.grid }

// SetZIndex moves the layer in the draw order. Layers with equal z-index
// keep the order they were added in.
func (l *layerBase) SetZIndex(z int) {
	if l.z == z {
		return
	}
	l.z = z
	if l.grid != nil {
		l.grid.layersSorted = false
		l.grid.markDirty()
	}
}

func (l *layerBase) SetVisible(v bool) {
	l.visible = v
	l.touch()
}

func (l *layerBase) SetOpacity(o float64) {
	l.opacity = clamp01(o)
	l.touch()
}

func (l *layerBase) touch() {
	if l.grid != nil {
		l.grid.markDirty()
	}
}

func (l *layerBase) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < l.w && y < l.h
}

func (l *layerBase) checkCell(x, y int) error {
	if !l.inBounds(x, y) {
		return indexErrorf("cell (%d, %d) outside %dx%d layer %q", x, y, l.w, l.h, l.name)
	}
	return nil
}

func (g *Grid) checkLayerName(name string) error {
	if name == "" {
		return valueErrorf("layer name must not be empty")
	}
	if reservedLayerNames.Has(name) {
		return valueErrorf("layer name %q is reserved", name)
	}
	if g.Layer(name) != nil {
		return valueErrorf("grid already has a layer named %q", name)
	}
	return nil
}

func (g *Grid) newLayerBase(name string, z int) layerBase {
	g.layerSerial++
	return layerBase{
		name:    name,
		z:       z,
		order:   g.layerSerial,
		visible: true,
		opacity: 1,
		grid:    g,
		w:       g.gridW,
		h:       g.gridH,
	}
}

func (g *Grid) addLayer(l GridLayer) {
	g.layers = append(g.layers, l)
	g.layersSorted = false
	g.markDirty()
}

// AddColorLayer adds a transparent color overlay.
func (g *Grid) AddColorLayer(name string, z int) (*ColorLayer, error) {
	if err := g.checkLayerName(name); err != nil {
		return nil, err
	}
	l := &ColorLayer{
		layerBase: g.newLayerBase(name, z),
		colors:    make([]Color, g.gridW*g.gridH),
	}
	g.addLayer(l)
	return l, nil
}

// AddTileLayer adds a tile layer drawing sprites from tex. A nil tex uses
// the grid's texture. Every cell starts empty (-1).
func (g *Grid) AddTileLayer(name string, z int, tex *Texture) (*TileLayer, error) {
	if err := g.checkLayerName(name); err != nil {
		return nil, err
	}
	if tex == nil {
		tex = g.texture
	}
	l := &TileLayer{
		layerBase: g.newLayerBase(name, z),
		texture:   tex,
		tiles:     make([]int, g.gridW*g.gridH),
		flips:     make([]uint8, g.gridW*g.gridH),
	}
	for i := range l.tiles {
		l.tiles[i] = -1
	}
	g.addLayer(l)
	return l, nil
}

// Layer returns the layer with the given name, or nil.
func (g *Grid) Layer(name string) GridLayer {
	for _, l := range g.layers {
		if l.Name() == name {
			return l
		}
	}
	return nil
}

// RemoveLayer detaches the named layer. It reports whether one was removed.
func (g *Grid) RemoveLayer(name string) bool {
	for i, l := range g.layers {
		if l.Name() == name {
			g.layers = append(g.layers[:i], g.layers[i+1:]...)
			l.base().grid = nil
			g.markDirty()
			return true
		}
	}
	return false
}

// Layers returns the layers in draw order.
func (g *Grid) Layers() []GridLayer {
	g.sortLayers()
	out := make([]GridLayer, len(g.layers))
	copy(out, g.layers)
	return out
}

func (g *Grid) sortLayers() {
	if g.layersSorted {
		return
	}
	sort.SliceStable(g.layers, func(i, j int) bool {
		a, b := g.layers[i].base(), g.layers[j].base()
		if a.z != b.z {
			return a.z < b.z
		}
		return a.order < b.order
	})
	g.layersSorted = true
}

// ColorLayer tints cells. It can be bound to an entity's visibility memory
// with ApplyPerspective, after which it repaints itself whenever that entity
// updates its visibility.
type ColorLayer struct {
	layerBase
	colors []Color

	perspective     *Entity
	perspVisible    Color
	perspDiscovered Color
	perspUnknown    Color
	perspDirty      bool
}

// At returns the color at (x, y).
func (l *ColorLayer) At(x, y int) (Color, error) {
	if err := l.checkCell(x, y); err != nil {
		return Color{}, err
	}
	if l.perspDirty {
		l.refreshPerspective()
	}
	return l.colors[y*l.w+x], nil
}

// Set sets the color at (x, y).
func (l *ColorLayer) Set(x, y int, c Color) error {
	if err := l.checkCell(x, y); err != nil {
		return err
	}
	l.colors[y*l.w+x] = c
	l.touch()
	return nil
}

// Fill sets every cell to c.
func (l *ColorLayer) Fill(c Color) {
	for i := range l.colors {
		l.colors[i] = c
	}
	l.touch()
}

// FillRect sets the cells of the w x h rectangle at (x, y), clipped to the
// layer.
func (l *ColorLayer) FillRect(x, y, w, h int, c Color) {
	for cy := max(0, y); cy < min(l.h, y+h); cy++ {
		for cx := max(0, x); cx < min(l.w, x+w); cx++ {
			l.colors[cy*l.w+cx] = c
		}
	}
	l.touch()
}

// ApplyPerspective binds the layer to e. Cells e can see are painted
// visible, cells it has seen before discovered, the rest unknown. The layer
// repaints after each e.UpdateVisibility. If e is disposed every cell
// becomes unknown.
func (l *ColorLayer) ApplyPerspective(e *Entity, visible, discovered, unknown Color) {
	l.perspective = e
	l.perspVisible = visible
	l.perspDiscovered = discovered
	l.perspUnknown = unknown
	l.refreshPerspective()
}

// ClearPerspective removes the entity binding. Colors stay as last painted.
func (l *ColorLayer) ClearPerspective() {
	l.perspective = nil
	l.perspDirty = false
}

// PerspectiveEntity returns the bound entity, or nil.
func (l *ColorLayer) PerspectiveEntity() *Entity { return l.perspective }

func (l *ColorLayer) requestRefresh() { l.perspDirty = true }

func (l *ColorLayer) refreshPerspective() {
	l.perspDirty = false
	e := l.perspective
	if e == nil {
		return
	}
	if e.Disposed() || len(e.gridstate) != len(l.colors) {
		for i := range l.colors {
			l.colors[i] = l.perspUnknown
		}
		l.touch()
		return
	}
	for i, st := range e.gridstate {
		switch {
		case st.Visible:
			l.colors[i] = l.perspVisible
		case st.Discovered:
			l.colors[i] = l.perspDiscovered
		default:
			l.colors[i] = l.perspUnknown
		}
	}
	l.touch()
}

// DrawFOV computes FOV on the owning grid from source and paints visible
// cells. Cells that were painted visible before but are no longer in view
// become discovered; other cells are left alone.
func (l *ColorLayer) DrawFOV(source Point, radius int, alg FOVAlgorithm, visible, discovered Color) error {
	if l.grid == nil {
		return runtimeErrorf("layer %q is not attached to a grid", l.name)
	}
	if err := l.grid.ComputeFOV(source, radius, true, alg); err != nil {
		return err
	}
	for i := range l.colors {
		switch {
		case l.grid.fovMap[i]:
			l.colors[i] = visible
		case l.colors[i] == visible:
			l.colors[i] = discovered
		}
	}
	l.touch()
	return nil
}

// Tile flip bits, in the Tiled GID convention.
const (
	TileFlipH    uint32 = 1 << 31
	TileFlipV    uint32 = 1 << 30
	TileFlipD    uint32 = 1 << 29 // diagonal (swap axes)
	tileFlagMask        = TileFlipH | TileFlipV | TileFlipD
)

// AnimFrame is one step of a tile animation.
type AnimFrame struct {
	Index    int     // sprite index shown during this frame
	Duration float64 // seconds
}

// TileLayer draws one sprite per cell from a texture. -1 means empty.
type TileLayer struct {
	layerBase
	texture *Texture
	tiles   []int
	flips   []uint8 // bit 2 = H, bit 1 = V, bit 0 = D

	anims       map[int][]AnimFrame
	animElapsed float64
}

func (l *TileLayer) Texture() *Texture { return l.texture }

func (l *TileLayer) SetTexture(t *Texture) {
	l.texture = t
	l.touch()
}

// At returns the sprite index at (x, y), -1 when empty.
func (l *TileLayer) At(x, y int) (int, error) {
	if err := l.checkCell(x, y); err != nil {
		return 0, err
	}
	return l.tiles[y*l.w+x], nil
}

// Set sets the sprite index at (x, y) and clears its flip flags.
func (l *TileLayer) Set(x, y, index int) error {
	if err := l.checkCell(x, y); err != nil {
		return err
	}
	l.tiles[y*l.w+x] = index
	l.flips[y*l.w+x] = 0
	l.touch()
	return nil
}

// Fill sets every cell to index.
func (l *TileLayer) Fill(index int) {
	for i := range l.tiles {
		l.tiles[i] = index
		l.flips[i] = 0
	}
	l.touch()
}

// FillRect sets the cells of the w x h rectangle at (x, y), clipped to the
// layer.
func (l *TileLayer) FillRect(x, y, w, h, index int) {
	for cy := max(0, y); cy < min(l.h, y+h); cy++ {
		for cx := max(0, x); cx < min(l.w, x+w); cx++ {
			l.tiles[cy*l.w+cx] = index
			l.flips[cy*l.w+cx] = 0
		}
	}
	l.touch()
}

// SetFromGIDs loads row-major tile GIDs as produced by Tiled. GID 0 is
// empty; others map to sprite index gid-firstGID with the flip bits kept
// for rendering. len(gids) must equal the cell count.
func (l *TileLayer) SetFromGIDs(gids []uint32, firstGID int) error {
	if len(gids) != len(l.tiles) {
		return valueErrorf("got %d GIDs for %d cells", len(gids), len(l.tiles))
	}
	for i, raw := range gids {
		gid := raw &^ tileFlagMask
		if gid == 0 {
			l.tiles[i] = -1
			l.flips[i] = 0
			continue
		}
		l.tiles[i] = int(gid) - firstGID
		var f uint8
		if raw&TileFlipH != 0 {
			f |= 4
		}
		if raw&TileFlipV != 0 {
			f |= 2
		}
		if raw&TileFlipD != 0 {
			f |= 1
		}
		l.flips[i] = f
	}
	l.touch()
	return nil
}

// SetAnimations installs tile animations keyed by base sprite index. Cells
// showing a key cycle through its frames.
func (l *TileLayer) SetAnimations(anims map[int][]AnimFrame) {
	l.anims = anims
	l.animElapsed = 0
	l.touch()
}

func (l *TileLayer) advance(dt float64) {
	if len(l.anims) == 0 {
		return
	}
	l.animElapsed += dt
	l.touch()
}

// displayIndex resolves animation frames for a stored index.
func (l *TileLayer) displayIndex(index int) int {
	frames, ok := l.anims[index]
	if !ok || len(frames) == 0 {
		return index
	}
	total := 0.0
	for _, f := range frames {
		total += f.Duration
	}
	if total <= 0 {
		return frames[0].Index
	}
	t := l.animElapsed - total*float64(int(l.animElapsed/total))
	for _, f := range frames {
		if t < f.Duration {
			return f.Index
		}
		t -= f.Duration
	}
	return frames[len(frames)-1].Index
}

// DiscreteMap is a small-integer map (terrain classes, region ids) used as
// input to auto-tiling. Enum optionally names the values.
type DiscreteMap struct {
	W, H   int
	Values []uint8
	Enum   map[uint8]string
}

// NewDiscreteMap returns a zeroed w x h map.
func NewDiscreteMap(w, h int) *DiscreteMap {
	return &DiscreteMap{W: w, H: h, Values: make([]uint8, w*h)}
}

func (m *DiscreteMap) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return 0
	}
	return m.Values[y*m.W+x]
}

func (m *DiscreteMap) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	m.Values[y*m.W+x] = v
}

// WangResolver turns a discrete map into per-cell sprite indices, row-major.
// Rule tables (Wang sets, auto-layer rules) live in the resolver.
type WangResolver func(m *DiscreteMap) ([]int, error)

// ApplyDiscreteMap runs resolve over m and writes the result into the layer.
func (l *TileLayer) ApplyDiscreteMap(m *DiscreteMap, resolve WangResolver) error {
	if m == nil || resolve == nil {
		return typeErrorf("nil discrete map or resolver")
	}
	if m.W != l.w || m.H != l.h {
		return valueErrorf("discrete map is %dx%d, layer is %dx%d", m.W, m.H, l.w, l.h)
	}
	tiles, err := resolve(m)
	if err != nil {
		return err
	}
	if len(tiles) != len(l.tiles) {
		return valueErrorf("resolver returned %d tiles for %d cells", len(tiles), len(l.tiles))
	}
	copy(l.tiles, tiles)
	for i := range l.flips {
		l.flips[i] = 0
	}
	l.touch()
	return nil
}
