package bramble

import "math"

// spatialHash buckets entities by the integer cell under their position.
// Each bucket keeps insertion order.
type spatialHash struct {
	buckets map[Point][]*Entity
}

func newSpatialHash() *spatialHash {
	return &spatialHash{buckets: make(map[Point][]*Entity)}
}

func cellOf(p Vec2) Point {
	return Point{int(math.Floor(p.X)), int(math.Floor(p.Y))}
}

func (h *spatialHash) insert(e *Entity) {
	k := cellOf(e.pos)
	h.buckets[k] = append(h.buckets[k], e)
}

func (h *spatialHash) remove(e *Entity) {
	h.removeAt(cellOf(e.pos), e)
}

func (h *spatialHash) removeAt(k Point, e *Entity) {
	b := h.buckets[k]
	for i, o := range b {
		if o == e {
			b = append(b[:i], b[i+1:]...)
			break
		}
	}
	if len(b) == 0 {
		delete(h.buckets, k)
		return
	}
	h.buckets[k] = b
}

// update moves e from the bucket of its old position to its current one.
func (h *spatialHash) update(e *Entity, old Vec2) {
	from, to := cellOf(old), cellOf(e.pos)
	if from == to {
		return
	}
	h.removeAt(from, e)
	h.buckets[to] = append(h.buckets[to], e)
}

// at returns a copy of the bucket for cell k.
func (h *spatialHash) at(k Point) []*Entity {
	b := h.buckets[k]
	if len(b) == 0 {
		return nil
	}
	return append([]*Entity(nil), b...)
}

func (h *spatialHash) bucket(k Point) []*Entity { return h.buckets[k] }

// queryRadius returns entities whose cell lies within r cells of (x, y).
// Cells of the bounding square are visited row by row.
func (h *spatialHash) queryRadius(x, y, r float64) []*Entity {
	if r < 0 {
		return nil
	}
	var out []*Entity
	r2 := r * r
	x0, x1 := int(math.Ceil(x-r)), int(math.Floor(x+r))
	y0, y1 := int(math.Ceil(y-r)), int(math.Floor(y+r))
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			b := h.buckets[Point{cx, cy}]
			if len(b) == 0 {
				continue
			}
			dx := float64(cx) - x
			dy := float64(cy) - y
			if dx*dx+dy*dy > r2 {
				continue
			}
			out = append(out, b...)
		}
	}
	return out
}

func (h *spatialHash) clear() { clear(h.buckets) }
