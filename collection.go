package bramble

import (
	"path"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// childHost is whatever owns a Children list: a Frame, a Grid, or a Scene.
type childHost interface {
	// hostDrawable returns the owning drawable, or nil for a scene root.
	hostDrawable() Drawable
	// hostSize is the area children align against.
	hostSize() Vec2
}

// Children is an ordered list of drawables owned by one host. A drawable
// is in at most one Children list at a time; adding it elsewhere detaches
// it first. Render order is ascending z-index with ties kept in insertion
// order; the sorted view is rebuilt lazily.
type Children struct {
	host      childHost
	items     []Drawable
	sorted    []Drawable
	needsSort bool
}

func newChildren(host childHost) *Children {
	return &Children{host: host}
}

// Len returns the number of children.
func (c *Children) Len() int { return len(c.items) }

// At returns the child at index i. Negative indices count from the end.
func (c *Children) At(i int) (Drawable, error) {
	i, err := c.normIndex(i)
	if err != nil {
		return nil, err
	}
	return c.items[i], nil
}

// All returns a copy of the children in insertion order.
func (c *Children) All() []Drawable {
	out := make([]Drawable, len(c.items))
	copy(out, c.items)
	return out
}

// Append adds d at the end, detaching it from any previous owner. Appending
// a drawable already in this list moves it to the end.
func (c *Children) Append(d Drawable) error {
	if err := c.checkAdd(d); err != nil {
		return err
	}
	c.take(d)
	c.items = append(c.items, d)
	c.attached(d)
	return nil
}

// Extend appends every drawable in ds. It stops at the first failure;
// drawables before it stay appended.
func (c *Children) Extend(ds ...Drawable) error {
	for _, d := range ds {
		if err := c.Append(d); err != nil {
			return err
		}
	}
	return nil
}

// Insert places d before the item currently at index i. Indices past the
// end append; negative indices count from the end. An item already in the
// list moves.
func (c *Children) Insert(i int, d Drawable) error {
	if err := c.checkAdd(d); err != nil {
		return err
	}
	i = clampInsert(i, len(c.items))
	if k := c.Index(d); k >= 0 && i > k {
		i--
	}
	c.take(d)
	c.items = append(c.items, nil)
	copy(c.items[i+1:], c.items[i:])
	c.items[i] = d
	c.attached(d)
	return nil
}

// Remove detaches d. Fails with ErrValue when d is not in the list.
func (c *Children) Remove(d Drawable) error {
	if d == nil || d.node().owner != c {
		return valueErrorf("drawable not in collection")
	}
	c.detach(d)
	return nil
}

// Pop removes and returns the last child.
func (c *Children) Pop() (Drawable, error) {
	return c.PopAt(-1)
}

// PopAt removes and returns the child at index i.
func (c *Children) PopAt(i int) (Drawable, error) {
	i, err := c.normIndex(i)
	if err != nil {
		return nil, err
	}
	d := c.items[i]
	c.detach(d)
	return d, nil
}

// Index returns the position of d, or -1.
func (c *Children) Index(d Drawable) int {
	for i, item := range c.items {
		if item == d {
			return i
		}
	}
	return -1
}

// Count returns how many times d appears (0 or 1).
func (c *Children) Count(d Drawable) int {
	if c.Index(d) >= 0 {
		return 1
	}
	return 0
}

// Find returns the first child whose name matches pattern, or nil.
// The pattern uses shell glob syntax ("enemy_*").
func (c *Children) Find(pattern string) Drawable {
	for _, d := range c.items {
		if nameMatches(pattern, d.Name()) {
			return d
		}
	}
	return nil
}

// FindAll returns every child whose name matches pattern. With recursive
// set it also searches nested Frames and Grids, depth first.
func (c *Children) FindAll(pattern string, recursive bool) []Drawable {
	var out []Drawable
	c.findAll(pattern, recursive, &out)
	return out
}

func (c *Children) findAll(pattern string, recursive bool, out *[]Drawable) {
	for _, d := range c.items {
		if nameMatches(pattern, d.Name()) {
			*out = append(*out, d)
		}
		if recursive {
			if ch, ok := d.(interface{ Children() *Children }); ok {
				ch.Children().findAll(pattern, recursive, out)
			}
		}
	}
}

func nameMatches(pattern, name string) bool {
	if pattern == name {
		return true
	}
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}

// Clear detaches every child.
func (c *Children) Clear() {
	for len(c.items) > 0 {
		c.detach(c.items[len(c.items)-1])
	}
}

// Replace swaps the contents for ds (copy-replace). All new items are
// validated before anything changes.
func (c *Children) Replace(ds []Drawable) error {
	seen := make(map[Drawable]bool, len(ds))
	for _, d := range ds {
		if err := c.checkAdd(d); err != nil {
			return err
		}
		if seen[d] {
			return valueErrorf("drawable listed twice")
		}
		seen[d] = true
	}
	for _, d := range c.All() {
		if !seen[d] {
			c.detach(d)
		}
	}
	c.items = c.items[:0]
	for _, d := range ds {
		if d.node().owner != nil && d.node().owner != c {
			d.node().owner.detach(d)
		}
		c.items = append(c.items, d)
		c.attached(d)
	}
	return nil
}

// Sorted returns the children in render order. The slice is reused between
// calls and must not be retained.
func (c *Children) Sorted() []Drawable {
	if c.needsSort || len(c.sorted) != len(c.items) {
		c.sorted = append(c.sorted[:0], c.items...)
		sort.SliceStable(c.sorted, func(i, j int) bool {
			return c.sorted[i].ZIndex() < c.sorted[j].ZIndex()
		})
		c.needsSort = false
	}
	return c.sorted
}

// clickAt tests children top-most first. p is in the host's local space.
func (c *Children) clickAt(p Vec2) *Hit {
	sorted := c.Sorted()
	for i := len(sorted) - 1; i >= 0; i-- {
		if h := sorted[i].ClickAt(p); h != nil {
			return h
		}
	}
	return nil
}

func (c *Children) render(offset Vec2, target *ebiten.Image) {
	for _, d := range c.Sorted() {
		if d.Visible() {
			d.Render(offset, target)
		}
	}
}

func (c *Children) realignAll() {
	for _, d := range c.items {
		d.node().realign()
	}
}

func (c *Children) normIndex(i int) (int, error) {
	n := len(c.items)
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, indexErrorf("index %d out of range [0,%d)", i, n)
	}
	return i, nil
}

// clampInsert normalizes a list insertion index against length n.
func clampInsert(i, n int) int {
	if i < 0 {
		i += n
	}
	return max(0, min(n, i))
}

func (c *Children) checkAdd(d Drawable) error {
	if d == nil {
		return typeErrorf("nil drawable")
	}
	if d.Disposed() {
		return runtimeErrorf("drawable %q is disposed", d.Name())
	}
	if host := c.host.hostDrawable(); host != nil && isAncestor(d, host) {
		return valueErrorf("adding %q would create a cycle", d.Name())
	}
	return nil
}

// take detaches d from wherever it currently lives, including this list.
func (c *Children) take(d Drawable) {
	if owner := d.node().owner; owner != nil {
		owner.detach(d)
	}
}

func (c *Children) attached(d Drawable) {
	n := d.node()
	n.owner = c
	c.needsSort = true
	n.realign()
	n.markCompositeDirty()
}

func (c *Children) detach(d Drawable) {
	i := c.Index(d)
	if i < 0 {
		return
	}
	n := d.node()
	n.markCompositeDirty()
	copy(c.items[i:], c.items[i+1:])
	c.items[len(c.items)-1] = nil
	c.items = c.items[:len(c.items)-1]
	n.owner = nil
	n.hovered = false
	c.needsSort = true
	if host := c.host.hostDrawable(); host != nil {
		host.node().markDirty()
	}
}
