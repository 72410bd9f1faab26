package bramble

// CellState is an entity's memory of one grid cell.
type CellState struct {
	Visible    bool // in view at the last UpdateVisibility
	Discovered bool // ever in view
}

// EntityClickEvent is passed to Entity.OnClick.
type EntityClickEvent struct {
	Entity *Entity
	Cell   Point
	Button MouseButton
	State  ButtonState
}

// Entity is an actor placed on a Grid. It is not a drawable; the grid draws
// its sprite at the entity's cell position. Position is in cells and may be
// fractional while animating.
type Entity struct {
	serial uint64
	name   string

	grid    *Grid
	pos     Vec2
	sprite  *Sprite
	visible bool

	// gridstate is allocated on the first UpdateVisibility.
	gridstate []CellState
	disposed  bool

	// OnClick fires when a click on the grid lands on the entity's cell and
	// no entity added later to that cell takes it first.
	OnClick func(EntityClickEvent)
}

// NewEntity creates an entity at cell (x, y) showing sprite index of tex.
// Add it to a grid with grid.Entities().Append.
func NewEntity(x, y float64, tex *Texture, index int) *Entity {
	return &Entity{
		serial:  nextSerial(),
		pos:     Vec2{x, y},
		sprite:  NewSprite(0, 0, tex, index),
		visible: true,
	}
}

func (e *Entity) Serial() uint64      { return e.serial }
func (e *Entity) Name() string        { return e.name }
func (e *Entity) SetName(name string) { e.name = name }
func (e *Entity) Grid() *Grid         { return e.grid }
func (e *Entity) Sprite() *Sprite     { return e.sprite }
func (e *Entity) Position() Vec2      { return e.pos }
func (e *Entity) Visible() bool       { return e.visible }
func (e *Entity) Disposed() bool      { return e.disposed }

// Cell returns the integer cell under the entity.
func (e *Entity) Cell() Point { return cellOf(e.pos) }

// SetPosition moves the entity, keeping the grid's spatial hash in step.
func (e *Entity) SetPosition(x, y float64) {
	if e.pos.X == x && e.pos.Y == y {
		return
	}
	old := e.pos
	e.pos = Vec2{x, y}
	if e.grid != nil {
		e.grid.hash.update(e, old)
		e.grid.markDirty()
	}
}

func (e *Entity) Move(dx, dy float64) { e.SetPosition(e.pos.X+dx, e.pos.Y+dy) }

func (e *Entity) SetVisible(v bool) {
	e.visible = v
	if e.grid != nil {
		e.grid.markDirty()
	}
}

func (e *Entity) SpriteIndex() int { return e.sprite.SpriteIndex() }

func (e *Entity) SetSpriteIndex(i int) {
	e.sprite.SetSpriteIndex(i)
	if e.grid != nil {
		e.grid.markDirty()
	}
}

// At returns the entity's memory of cell (x, y). Before the first
// UpdateVisibility every cell reads as unseen.
func (e *Entity) At(x, y int) (CellState, error) {
	if e.grid == nil {
		return CellState{}, runtimeErrorf("entity %d is not on a grid", e.serial)
	}
	if !e.grid.InBounds(x, y) {
		return CellState{}, indexErrorf("cell (%d, %d) outside grid", x, y)
	}
	if len(e.gridstate) == 0 {
		return CellState{}, nil
	}
	return e.gridstate[y*e.grid.gridW+x], nil
}

// UpdateVisibility recomputes FOV from the entity's cell with the grid's
// algorithm and radius. Cells in view become visible and discovered, the
// rest lose visible. Color layers bound to this entity repaint before
// their next read or render.
func (e *Entity) UpdateVisibility() error {
	g := e.grid
	if g == nil {
		return runtimeErrorf("entity %d is not on a grid", e.serial)
	}
	n := g.gridW * g.gridH
	if len(e.gridstate) != n {
		e.gridstate = make([]CellState, n)
	}
	c := e.Cell()
	if !g.InBounds(c.X, c.Y) {
		for i := range e.gridstate {
			e.gridstate[i].Visible = false
		}
		e.refreshBoundLayers()
		return nil
	}
	if err := g.ComputeFOV(c, g.fovRadius, true, g.fovAlgorithm); err != nil {
		return err
	}
	for i, in := range g.fovMap {
		st := &e.gridstate[i]
		st.Visible = in
		if in {
			st.Discovered = true
		}
	}
	e.refreshBoundLayers()
	return nil
}

func (e *Entity) refreshBoundLayers() {
	for _, l := range e.grid.layers {
		if cl, ok := l.(*ColorLayer); ok && cl.perspective == e {
			cl.requestRefresh()
		}
	}
	e.grid.markDirty()
}

// VisibleEntities returns the other entities on the grid whose cell is in
// view from this entity, using the grid's FOV settings.
func (e *Entity) VisibleEntities() ([]*Entity, error) {
	if e.grid == nil {
		return nil, runtimeErrorf("entity %d is not on a grid", e.serial)
	}
	return e.VisibleEntitiesWith(e.grid.fovAlgorithm, e.grid.fovRadius)
}

// VisibleEntitiesWith is VisibleEntities with an explicit algorithm and
// radius. It overwrites the grid's FOV bitmap.
func (e *Entity) VisibleEntitiesWith(alg FOVAlgorithm, radius int) ([]*Entity, error) {
	g := e.grid
	if g == nil {
		return nil, runtimeErrorf("entity %d is not on a grid", e.serial)
	}
	if err := g.ComputeFOV(e.Cell(), radius, true, alg); err != nil {
		return nil, err
	}
	var out []*Entity
	for _, o := range g.entities.items {
		if o == e {
			continue
		}
		c := o.Cell()
		if g.IsInFOV(c.X, c.Y) {
			out = append(out, o)
		}
	}
	return out, nil
}

// PathTo returns a path from the entity's cell to target, or nil.
func (e *Entity) PathTo(target Point) []Point {
	if e.grid == nil {
		return nil
	}
	return e.grid.FindPath(e.Cell(), target, DefaultDiagonalCost)
}

// Die removes the entity from its grid. It can be added to a grid again.
func (e *Entity) Die() {
	e.detach()
}

// Dispose removes the entity from its grid and expires every reference to
// it: running animations stop and perspective bindings render as unknown.
func (e *Entity) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	if e.grid != nil {
		e.refreshBoundLayers()
	}
	e.detach()
	e.OnClick = nil
	e.gridstate = nil
}

func (e *Entity) detach() {
	if e.grid != nil {
		e.grid.entities.detach(e)
	}
}

var entityProps = propertyTable[*Entity]{
	"x": floatProp(
		func(e *Entity) float64 { return e.pos.X },
		func(e *Entity, x float64) { e.SetPosition(x, e.pos.Y) },
	),
	"y": floatProp(
		func(e *Entity) float64 { return e.pos.Y },
		func(e *Entity, y float64) { e.SetPosition(e.pos.X, y) },
	),
	"pos":           vecProp((*Entity).Position, func(e *Entity, p Vec2) { e.SetPosition(p.X, p.Y) }),
	"sprite_index":  intProp((*Entity).SpriteIndex, (*Entity).SetSpriteIndex),
	"sprite_number": intProp((*Entity).SpriteIndex, (*Entity).SetSpriteIndex),
	"sprite_scale": floatProp(
		func(e *Entity) float64 { return e.sprite.scale.X },
		func(e *Entity, s float64) {
			e.sprite.SetScale(s, s)
			if e.grid != nil {
				e.grid.markDirty()
			}
		},
	),
	"opacity": floatProp(
		func(e *Entity) float64 { return e.sprite.opacity },
		func(e *Entity, o float64) {
			e.sprite.SetOpacity(o)
			if e.grid != nil {
				e.grid.markDirty()
			}
		},
	),
}

func (e *Entity) SetProperty(name string, v Value) error {
	return entityProps.set("Entity", e, name, v)
}
func (e *Entity) Property(name string) (Value, bool) { return entityProps.get(e, name) }
func (e *Entity) HasProperty(name string) bool       { return entityProps.has(name) }
func (e *Entity) PropertyNames() []string            { return entityProps.names() }
