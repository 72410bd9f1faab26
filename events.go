package bramble

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// EventKind identifies an input event.
type EventKind uint8

const (
	EventMouseMove   EventKind = iota // pointer moved to Pos
	EventMouseButton                  // Button changed to State at Pos
	EventKey                          // Key changed to State
	EventResize                       // window is now Width x Height
)

func (k EventKind) String() string {
	switch k {
	case EventMouseMove:
		return "mouse_move"
	case EventMouseButton:
		return "mouse_button"
	case EventKey:
		return "key"
	case EventResize:
		return "resize"
	}
	return "unknown"
}

// Event is one queued input event. Fields not used by Kind are zero.
type Event struct {
	Kind      EventKind
	Pos       Vec2 // scene coordinates
	Button    MouseButton
	State     ButtonState
	Key       ebiten.Key
	Modifiers KeyModifiers
	Width     int
	Height    int
}

// KeyModifiers is a bitmask of keyboard modifier keys.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// KeyEvent is passed to Scene.OnKey.
type KeyEvent struct {
	Key       ebiten.Key
	State     ButtonState
	Modifiers KeyModifiers
}

// InteractionType identifies what an InteractionEvent reports.
type InteractionType uint8

const (
	InteractionClick       InteractionType = iota // a drawable took a click
	InteractionEntityClick                        // an entity took a click
	InteractionCellClick                          // a grid cell was clicked
	InteractionCellEnter                          // pointer entered a grid cell
	InteractionCellExit                           // pointer left a grid cell
	InteractionEnter                              // pointer entered a drawable
	InteractionExit                               // pointer left a drawable
	InteractionKey                                // key press or release
)

// InteractionEvent is the record an EventSink receives for every routed
// event, whether or not a callback was installed.
type InteractionEvent struct {
	Type      InteractionType
	Serial    uint64 // drawable or entity serial; 0 for keys
	Name      string
	Pos       Vec2 // scene coordinates
	Local     Vec2 // target-local coordinates
	Cell      Point
	Button    MouseButton
	State     ButtonState
	Key       ebiten.Key
	Modifiers KeyModifiers
}

// EventSink receives interaction events after they are routed. The ecs
// package adapts it to a Donburi world.
type EventSink interface {
	Emit(ev InteractionEvent)
}

// dispatch routes one event through the scene.
func (s *Scene) dispatch(ev Event) {
	switch ev.Kind {
	case EventMouseMove:
		s.pointer, s.pointerKnown = ev.Pos, true
		s.updateHover(ev.Pos)
	case EventMouseButton:
		s.routeClick(ev)
	case EventKey:
		s.routeKey(ev)
	case EventResize:
		s.resize(float64(ev.Width), float64(ev.Height))
	}
}

func (s *Scene) emit(ev InteractionEvent) {
	if s.engine != nil && s.engine.sink != nil {
		s.engine.sink.Emit(ev)
	}
}

func (s *Scene) guard() *guard {
	if s.engine != nil {
		return s.engine.guard
	}
	return s.fallbackGuard
}

// routeClick hands a button event to the top-most accepting drawable.
func (s *Scene) routeClick(ev Event) {
	h := s.children.clickAt(ev.Pos)
	if h == nil {
		return
	}
	g := s.guard()
	if e := h.Entity; e != nil {
		if e.OnClick != nil {
			cb := e.OnClick
			g.call("on_click", describeEntity(e), func() {
				cb(EntityClickEvent{Entity: e, Cell: h.Cell, Button: ev.Button, State: ev.State})
			})
		}
		s.emit(InteractionEvent{
			Type: InteractionEntityClick, Serial: e.serial, Name: e.name,
			Pos: ev.Pos, Local: h.Local, Cell: h.Cell, Button: ev.Button, State: ev.State,
		})
		return
	}

	n := h.Target.node()
	if cb := n.OnClick; cb != nil {
		g.call("on_click", describe(h.Target), func() {
			cb(ClickEvent{Target: h.Target, Pos: h.Local, Button: ev.Button, State: ev.State})
		})
		s.emit(InteractionEvent{
			Type: InteractionClick, Serial: n.serial, Name: n.name,
			Pos: ev.Pos, Local: h.Local, Button: ev.Button, State: ev.State,
		})
	}
	if grid, ok := h.Target.(*Grid); ok && h.OnCell {
		if cb := grid.OnCellClick; cb != nil {
			g.call("on_cell_click", describe(grid), func() {
				cb(CellEvent{Grid: grid, Cell: h.Cell, Button: ev.Button, State: ev.State})
			})
		}
		s.emit(InteractionEvent{
			Type: InteractionCellClick, Serial: grid.serial, Name: grid.name,
			Pos: ev.Pos, Local: h.Local, Cell: h.Cell, Button: ev.Button, State: ev.State,
		})
	}
}

func (s *Scene) routeKey(ev Event) {
	if cb := s.OnKey; cb != nil {
		s.guard().call("on_key", "scene "+s.name, func() {
			cb(KeyEvent{Key: ev.Key, State: ev.State, Modifiers: ev.Modifiers})
		})
	}
	s.emit(InteractionEvent{Type: InteractionKey, Key: ev.Key, State: ev.State, Modifiers: ev.Modifiers})
}

// hoverTarget is a drawable under the pointer, with the pointer in the
// drawable's parent space.
type hoverTarget struct {
	d     Drawable
	local Vec2
}

// updateHover runs the enter/exit machine for every drawable with hover
// callbacks and the cell machine for every grid.
func (s *Scene) updateHover(p Vec2) {
	s.hoverBuf = s.hoverBuf[:0]
	s.hoverSet.Clear()
	s.collectHover(s.children, p, true)

	g := s.guard()
	// Exits first, in the order the nodes were entered.
	kept := s.hoverOrder[:0]
	for _, d := range s.hoverOrder {
		if s.hoverSet.Has(d) {
			kept = append(kept, d)
			continue
		}
		n := d.node()
		n.hovered = false
		if cb := n.OnExit; cb != nil {
			g.call("on_exit", describe(d), func() { cb(HoverEvent{Target: d, Pos: p}) })
		}
		s.emit(InteractionEvent{Type: InteractionExit, Serial: n.serial, Name: n.name, Pos: p})
	}
	s.hoverOrder = kept

	for _, t := range s.hoverBuf {
		n := t.d.node()
		d := t.d
		if !n.hovered {
			n.hovered = true
			s.hoverOrder = append(s.hoverOrder, d)
			if cb := n.OnEnter; cb != nil {
				g.call("on_enter", describe(d), func() { cb(HoverEvent{Target: d, Pos: p}) })
			}
			s.emit(InteractionEvent{Type: InteractionEnter, Serial: n.serial, Name: n.name, Pos: p, Local: t.local.Sub(n.pos)})
		} else if cb := n.OnMove; cb != nil {
			g.call("on_move", describe(d), func() { cb(HoverEvent{Target: d, Pos: p}) })
		}
	}
}

// collectHover walks list top-most first. p is in the list host's space;
// inside is false when the pointer is outside the host, in which case
// grids still run their cell machine so they can fire exits.
func (s *Scene) collectHover(list *Children, p Vec2, inside bool) {
	sorted := list.Sorted()
	for i := len(sorted) - 1; i >= 0; i-- {
		d := sorted[i]
		if d.Disposed() {
			continue
		}
		visible := inside && d.Visible()
		n := d.node()
		if visible && (n.OnEnter != nil || n.OnExit != nil || n.OnMove != nil) && d.Bounds().Contains(p.X, p.Y) {
			s.hoverBuf = append(s.hoverBuf, hoverTarget{d: d, local: p})
			s.hoverSet.Put(d)
		}
		switch c := d.(type) {
		case *Grid:
			local := p.Sub(c.pos)
			cell, onCell := c.localToCell(local)
			c.setHoveredCell(cell, visible && onCell, s.guard(), s)
			if c.children.Len() > 0 {
				in := visible && local.X >= 0 && local.Y >= 0 && local.X < c.size.X && local.Y < c.size.Y
				s.collectHover(c.children, c.localToWorld(local), in)
			}
		case interface{ Children() *Children }:
			s.collectHover(c.Children(), p.Sub(d.Position()), visible)
		}
	}
}

// setHoveredCell moves the grid's hovered cell, firing exit for the old
// cell then enter for the new one.
func (g *Grid) setHoveredCell(cell Point, ok bool, gd *guard, s *Scene) {
	if ok == g.hasHovered && (!ok || cell == g.hoveredCell) {
		return
	}
	if g.hasHovered {
		old := g.hoveredCell
		g.hasHovered = false
		if cb := g.OnCellExit; cb != nil {
			gd.call("on_cell_exit", describe(g), func() { cb(CellEvent{Grid: g, Cell: old}) })
		}
		s.emit(InteractionEvent{Type: InteractionCellExit, Serial: g.serial, Name: g.name, Pos: s.pointer, Cell: old})
	}
	if ok {
		g.hoveredCell, g.hasHovered = cell, true
		if cb := g.OnCellEnter; cb != nil {
			gd.call("on_cell_enter", describe(g), func() { cb(CellEvent{Grid: g, Cell: cell}) })
		}
		s.emit(InteractionEvent{Type: InteractionCellEnter, Serial: g.serial, Name: g.name, Pos: s.pointer, Cell: cell})
	}
}

// resize realigns the root drawables against the new scene size.
func (s *Scene) resize(w, h float64) {
	if s.size.X == w && s.size.Y == h {
		return
	}
	s.size = Vec2{w, h}
	s.children.realignAll()
	if cb := s.OnResize; cb != nil {
		s.guard().call("on_resize", "scene "+s.name, func() { cb(w, h) })
	}
}
