package bramble

// EntityCollection is a grid's ordered entity list. Order is insertion
// order; the grid draws later entities on top and offers clicks to them
// first.
type EntityCollection struct {
	grid  *Grid
	items []*Entity
}

func newEntityCollection(g *Grid) *EntityCollection {
	return &EntityCollection{grid: g}
}

func (c *EntityCollection) Len() int { return len(c.items) }

// All returns a copy of the entities in order.
func (c *EntityCollection) All() []*Entity {
	return append([]*Entity(nil), c.items...)
}

// At returns the entity at index i. Negative indices count from the end.
func (c *EntityCollection) At(i int) (*Entity, error) {
	j, ok := wrapIndex(i, len(c.items))
	if !ok {
		return nil, indexErrorf("entity index %d out of range [0, %d)", i, len(c.items))
	}
	return c.items[j], nil
}

// Slice returns a copy of items[i:j]. Negative bounds count from the end
// and out-of-range bounds are clamped.
func (c *EntityCollection) Slice(i, j int) []*Entity {
	n := len(c.items)
	clampEnd := func(k int) int {
		if k < 0 {
			k += n
		}
		return max(0, min(n, k))
	}
	i, j = clampEnd(i), clampEnd(j)
	if i >= j {
		return nil
	}
	return append([]*Entity(nil), c.items[i:j]...)
}

// Append adds e at the end. An entity on another grid is moved here; an
// entity already in this collection moves to the end.
func (c *EntityCollection) Append(e *Entity) error {
	return c.Insert(len(c.items), e)
}

// Extend appends each entity in order, stopping at the first error.
func (c *EntityCollection) Extend(es ...*Entity) error {
	for _, e := range es {
		if err := c.Append(e); err != nil {
			return err
		}
	}
	return nil
}

// Insert places e before the entity currently at index i. Negative indices
// count from the end and out-of-range indices are clamped. An entity
// already here moves.
func (c *EntityCollection) Insert(i int, e *Entity) error {
	if e == nil {
		return typeErrorf("cannot add nil entity")
	}
	if e.disposed {
		return runtimeErrorf("entity %d is disposed", e.serial)
	}
	i = clampInsert(i, len(c.items))
	if e.grid == c.grid {
		if k := c.Index(e); k >= 0 {
			c.items = append(c.items[:k], c.items[k+1:]...)
			if i > k {
				i--
			}
		}
	} else {
		e.detach()
		e.grid = c.grid
		c.grid.hash.insert(e)
	}
	c.items = append(c.items, nil)
	copy(c.items[i+1:], c.items[i:])
	c.items[i] = e
	c.grid.markDirty()
	return nil
}

// Remove takes e off the grid. It fails with ErrValue when e is not here.
func (c *EntityCollection) Remove(e *Entity) error {
	if e == nil || e.grid != c.grid || c.Index(e) < 0 {
		return valueErrorf("entity not in collection")
	}
	c.detach(e)
	return nil
}

// Pop removes and returns the last entity.
func (c *EntityCollection) Pop() (*Entity, error) { return c.PopAt(-1) }

// PopAt removes and returns the entity at index i.
func (c *EntityCollection) PopAt(i int) (*Entity, error) {
	e, err := c.At(i)
	if err != nil {
		return nil, err
	}
	c.detach(e)
	return e, nil
}

// Index returns the position of e, or -1.
func (c *EntityCollection) Index(e *Entity) int {
	for i, o := range c.items {
		if o == e {
			return i
		}
	}
	return -1
}

// Count returns how many times e appears (0 or 1).
func (c *EntityCollection) Count(e *Entity) int {
	if c.Index(e) >= 0 {
		return 1
	}
	return 0
}

// Find returns the first entity named name, or nil.
func (c *EntityCollection) Find(name string) *Entity {
	for _, e := range c.items {
		if e.name == name {
			return e
		}
	}
	return nil
}

// Clear removes every entity from the grid.
func (c *EntityCollection) Clear() {
	for _, e := range c.items {
		e.grid = nil
	}
	c.items = nil
	c.grid.hash.clear()
	c.grid.markDirty()
}

func (c *EntityCollection) detach(e *Entity) {
	if k := c.Index(e); k >= 0 {
		c.items = append(c.items[:k], c.items[k+1:]...)
	}
	c.grid.hash.remove(e)
	e.grid = nil
	c.grid.markDirty()
}

// wrapIndex resolves a possibly negative index against length n.
func wrapIndex(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
