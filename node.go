package bramble

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Drawable is any visual scene-graph node: Frame, Caption, Sprite, Circle,
// Line, Arc, or Grid. The set is closed; every implementation embeds Node.
type Drawable interface {
	Serial() uint64
	Name() string
	SetName(name string)
	Position() Vec2
	SetPosition(x, y float64)
	Move(dx, dy float64)
	ZIndex() int
	SetZIndex(z int)
	Visible() bool
	SetVisible(v bool)
	Opacity() float64
	SetOpacity(o float64)
	Parent() Drawable
	GlobalPosition() Vec2
	Alignment() Alignment
	SetAlign(a Alignment) error
	Dispose()
	Disposed() bool

	// Bounds returns the node's rectangle in its parent's coordinate space.
	Bounds() Rect
	// Resize changes the node's extent using variant-specific rules.
	Resize(w, h float64)
	// Render draws the node at offset + Position. Skipped when invisible.
	Render(offset Vec2, target *ebiten.Image)
	// ClickAt hit-tests p, given in the parent's coordinate space. It returns
	// the deepest accepting node, or nil.
	ClickAt(p Vec2) *Hit

	SetProperty(name string, v Value) error
	Property(name string) (Value, bool)
	HasProperty(name string) bool
	PropertyNames() []string

	node() *Node
}

// Hit is the result of a successful ClickAt.
type Hit struct {
	// Target is the accepting drawable. For entity hits it is the owning Grid.
	Target Drawable
	// Entity is set when an entity on a Grid accepted the click.
	Entity *Entity
	// Local is the point in Target's own coordinate space (cell-relative
	// pixels are not applied; Grid hits report grid-widget pixels).
	Local Vec2
	// Cell is the grid cell under the point when Target is a Grid.
	Cell   Point
	OnCell bool
}

// ClickEvent is passed to OnClick handlers.
type ClickEvent struct {
	Target Drawable
	Pos    Vec2 // local to Target
	Button MouseButton
	State  ButtonState
}

// HoverEvent is passed to OnEnter, OnExit, and OnMove handlers.
type HoverEvent struct {
	Target Drawable
	Pos    Vec2 // scene coordinates
}

// serialCounter is a plain counter; bramble is single-threaded.
var serialCounter uint64

func nextSerial() uint64 {
	serialCounter++
	return serialCounter
}

// Node holds the state shared by every drawable. Concrete drawables embed it.
type Node struct {
	serial uint64
	name   string
	self   Drawable

	pos     Vec2
	z       int
	visible bool
	opacity float64

	owner *Children

	align   Alignment
	margin  float64
	hMargin float64
	vMargin float64

	// dirty means content changed and any cached raster must be rebuilt;
	// compositeDirty means only placement changed.
	dirty          bool
	compositeDirty bool
	disposed       bool
	hovered        bool

	// Per-node callbacks (nil by default; single slot, replace on set).
	OnClick func(ClickEvent)
	OnEnter func(HoverEvent)
	OnExit  func(HoverEvent)
	OnMove  func(HoverEvent)
}

func (n *Node) init(self Drawable, name string) {
	n.serial = nextSerial()
	n.name = name
	n.self = self
	n.visible = true
	n.opacity = 1
	n.dirty = true
}

func (n *Node) node() *Node { return n }

// Serial returns the node's process-unique id.
func (n *Node) Serial() uint64 { return n.serial }

func (n *Node) Name() string        { return n.name }
func (n *Node) SetName(name string) { n.name = name }

// Position returns the local, parent-relative position.
func (n *Node) Position() Vec2 { return n.pos }

// SetPosition moves the node to (x, y) in its parent's space.
func (n *Node) SetPosition(x, y float64) {
	if n.pos.X == x && n.pos.Y == y {
		return
	}
	n.pos = Vec2{x, y}
	n.markCompositeDirty()
}

// Move offsets the node's position.
func (n *Node) Move(dx, dy float64) {
	n.SetPosition(n.pos.X+dx, n.pos.Y+dy)
}

func (n *Node) ZIndex() int { return n.z }

// SetZIndex sets the draw order and marks the owning list as unsorted.
func (n *Node) SetZIndex(z int) {
	if n.z == z {
		return
	}
	n.z = z
	if n.owner != nil {
		n.owner.needsSort = true
	}
	n.markCompositeDirty()
}

func (n *Node) Visible() bool { return n.visible }

func (n *Node) SetVisible(v bool) {
	if n.visible == v {
		return
	}
	n.visible = v
	n.markDirty()
}

func (n *Node) Opacity() float64 { return n.opacity }

// SetOpacity sets the node's opacity, clamped to [0, 1]. Opacity applies to
// this node's own colors only; it does not compose through children.
func (n *Node) SetOpacity(o float64) {
	o = clamp01(o)
	if n.opacity == o {
		return
	}
	n.opacity = o
	n.markDirty()
}

// Parent returns the owning drawable, or nil for scene roots and detached
// nodes.
func (n *Node) Parent() Drawable {
	if n.owner == nil {
		return nil
	}
	return n.owner.host.hostDrawable()
}

// GlobalPosition walks the parent chain and returns the scene-space
// position of this node.
func (n *Node) GlobalPosition() Vec2 {
	p := n.pos
	for parent := n.Parent(); parent != nil; parent = parent.Parent() {
		p = p.Add(parent.node().childOrigin())
	}
	return p
}

// childOrigin is where this node's children are anchored in its parent's
// space. Grid children live in world space and are not reachable this way.
func (n *Node) childOrigin() Vec2 { return n.pos }

// IsDirty reports whether the node's content changed since the last render.
func (n *Node) IsDirty() bool { return n.dirty }

// IsCompositeDirty reports whether only the node's placement changed.
func (n *Node) IsCompositeDirty() bool { return n.compositeDirty }

// markDirty flags a content change on this node and every ancestor.
func (n *Node) markDirty() {
	n.dirty = true
	n.propagateDirty()
}

// markCompositeDirty flags a placement change. Ancestors still need a
// re-raster because the child moved inside them.
func (n *Node) markCompositeDirty() {
	n.compositeDirty = true
	n.propagateDirty()
}

func (n *Node) propagateDirty() {
	for p := n.Parent(); p != nil; p = p.Parent() {
		pn := p.node()
		if pn.dirty {
			return
		}
		pn.dirty = true
	}
}

func (n *Node) clearDirty() {
	n.dirty = false
	n.compositeDirty = false
}

// sizeChanged re-anchors the node and, for containers, its children.
func (n *Node) sizeChanged() {
	n.realign()
	if c, ok := n.self.(interface{ Children() *Children }); ok {
		c.Children().realignAll()
	}
	n.markDirty()
}

// Dispose removes the node from its parent and marks it and its subtree
// disposed. Animations on a disposed node stop without firing callbacks.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	if n.owner != nil {
		n.owner.detach(n.self)
	}
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	if c, ok := n.self.(interface{ Children() *Children }); ok {
		for _, child := range c.Children().items {
			child.node().owner = nil
			child.node().dispose()
		}
		c.Children().items = nil
		c.Children().sorted = nil
	}
	if d, ok := n.self.(interface{ disposeContent() }); ok {
		d.disposeContent()
	}
	n.OnClick = nil
	n.OnEnter = nil
	n.OnExit = nil
	n.OnMove = nil
}

// Disposed reports whether Dispose has been called.
func (n *Node) Disposed() bool { return n.disposed }

// hasClickHandler reports whether a click on this node would be consumed.
func (n *Node) hasClickHandler() bool { return n.OnClick != nil }

// hitSelf returns a hit on this node when p (parent space) is inside its
// bounds and it has a click handler.
func (n *Node) hitSelf(p Vec2) *Hit {
	if !n.visible || !n.hasClickHandler() {
		return nil
	}
	b := n.self.Bounds()
	if !b.Contains(p.X, p.Y) {
		return nil
	}
	return &Hit{Target: n.self, Local: p.Sub(n.pos)}
}

// isAncestor reports whether candidate is d or one of d's ancestors.
func isAncestor(candidate, d Drawable) bool {
	for p := d; p != nil; p = p.Parent() {
		if p == candidate {
			return true
		}
	}
	return false
}
