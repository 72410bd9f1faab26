package bramble

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/zyedidia/generic/mapset"
)

// Scene is a named root list of drawables. The engine renders and routes
// input to exactly one active scene.
type Scene struct {
	name     string
	engine   *Engine
	children *Children
	size     Vec2

	ClearColor Color

	// OnKey receives key presses and releases while the scene is active.
	OnKey func(KeyEvent)
	// OnUpdate runs once per frame after animations tick.
	OnUpdate func(dt float64)
	// OnResize runs after root drawables have been realigned.
	OnResize func(w, h float64)
	// OnActivate and OnDeactivate run at the frame boundary where the scene
	// becomes or stops being the active one.
	OnActivate   func()
	OnDeactivate func()

	pointer      Vec2
	pointerKnown bool
	hoverOrder   []Drawable
	hoverBuf     []hoverTarget
	hoverSet     mapset.Set[Drawable]

	// fallbackGuard serves scenes used without an engine, as in tests.
	fallbackGuard *guard
}

// NewScene creates a detached scene of the given size. Engine.NewScene
// creates and registers one in a single step.
func NewScene(name string, w, h float64) *Scene {
	s := &Scene{
		name:          name,
		size:          Vec2{w, h},
		ClearColor:    Color{0, 0, 0, 255},
		hoverSet:      mapset.New[Drawable](),
		fallbackGuard: newGuard(),
	}
	s.children = newChildren(s)
	return s
}

func (s *Scene) Name() string { return s.name }

// Children returns the scene's root drawables.
func (s *Scene) Children() *Children { return s.children }

// Size returns the area root drawables align against.
func (s *Scene) Size() Vec2 { return s.size }

// Engine returns the engine the scene is registered with, or nil.
func (s *Scene) Engine() *Engine { return s.engine }

// Active reports whether the scene is the engine's active scene.
func (s *Scene) Active() bool { return s.engine != nil && s.engine.active == s }

func (s *Scene) hostDrawable() Drawable { return nil }
func (s *Scene) hostSize() Vec2         { return s.size }

// Dispatch routes ev immediately, bypassing the engine queue.
func (s *Scene) Dispatch(ev Event) { s.dispatch(ev) }

// ClickAt returns the top-most drawable that would take a click at p.
func (s *Scene) ClickAt(p Vec2) *Hit { return s.children.clickAt(p) }

// Pointer returns the last pointer position seen by the scene.
func (s *Scene) Pointer() (Vec2, bool) { return s.pointer, s.pointerKnown }

// update advances per-frame state of grids in the tree.
func (s *Scene) update(dt float64) {
	updateGrids(s.children, dt)
	if cb := s.OnUpdate; cb != nil {
		s.guard().call("on_update", "scene "+s.name, func() { cb(dt) })
	}
}

func updateGrids(list *Children, dt float64) {
	for _, d := range list.items {
		switch c := d.(type) {
		case *Grid:
			c.update(dt)
			updateGrids(c.children, dt)
		case interface{ Children() *Children }:
			updateGrids(c.Children(), dt)
		}
	}
}

// Render clears target and draws the root drawables in z order.
func (s *Scene) Render(target *ebiten.Image) {
	if s.ClearColor.A > 0 {
		target.Fill(s.ClearColor)
	}
	s.children.render(Vec2{}, target)
}

// resetHover forgets hover state, firing nothing. Used when the scene
// stops being active.
func (s *Scene) resetHover() {
	for _, d := range s.hoverOrder {
		d.node().hovered = false
	}
	s.hoverOrder = s.hoverOrder[:0]
	s.hoverSet.Clear()
	s.pointerKnown = false
}
