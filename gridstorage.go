package bramble

// ChunkThreshold is the largest grid edge stored as one dense array. Grids
// wider or taller than this are split into ChunkSize x ChunkSize chunks that
// are allocated on first access.
const (
	ChunkThreshold = 128
	ChunkSize      = 128
)

// GridCell carries the per-cell walkability and transparency. Layer values
// live in the layers, not here.
type GridCell struct {
	Walkable    bool
	Transparent bool

	x, y int
	grid *Grid
}

// GridX returns the cell's column.
func (c *GridCell) GridX() int { return c.x }

// GridY returns the cell's row.
func (c *GridCell) GridY() int { return c.y }

// Grid returns the owning grid.
func (c *GridCell) Grid() *Grid { return c.grid }

// Pos returns the cell coordinate.
func (c *GridCell) Pos() Point { return Point{c.x, c.y} }

// cellStore hides the dense/chunked split. Both return stable pointers.
type cellStore interface {
	cell(x, y int) *GridCell
	// flags reads a cell without materializing storage.
	flags(x, y int) (walkable, transparent bool)
	chunked() bool
}

type denseStore struct {
	w     int
	cells []GridCell
}

func newDenseStore(g *Grid, w, h int) *denseStore {
	s := &denseStore{w: w, cells: make([]GridCell, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := &s.cells[y*w+x]
			c.x, c.y, c.grid = x, y, g
		}
	}
	return s
}

func (s *denseStore) cell(x, y int) *GridCell { return &s.cells[y*s.w+x] }

func (s *denseStore) flags(x, y int) (bool, bool) {
	c := &s.cells[y*s.w+x]
	return c.Walkable, c.Transparent
}

func (s *denseStore) chunked() bool { return false }

// gridChunk is one lazily allocated block of a chunked grid.
type gridChunk struct {
	width, height  int
	worldX, worldY int
	cells          []GridCell
}

type chunkedStore struct {
	grid    *Grid
	w, h    int
	chunksX int
	chunksY int
	chunks  []*gridChunk
}

func newChunkedStore(g *Grid, w, h int) *chunkedStore {
	cx := (w + ChunkSize - 1) / ChunkSize
	cy := (h + ChunkSize - 1) / ChunkSize
	return &chunkedStore{
		grid:    g,
		w:       w,
		h:       h,
		chunksX: cx,
		chunksY: cy,
		chunks:  make([]*gridChunk, cx*cy),
	}
}

func (s *chunkedStore) chunk(chunkX, chunkY int) *gridChunk {
	i := chunkY*s.chunksX + chunkX
	if ch := s.chunks[i]; ch != nil {
		return ch
	}
	ch := &gridChunk{
		worldX: chunkX * ChunkSize,
		worldY: chunkY * ChunkSize,
		width:  min(ChunkSize, s.w-chunkX*ChunkSize),
		height: min(ChunkSize, s.h-chunkY*ChunkSize),
	}
	ch.cells = make([]GridCell, ch.width*ch.height)
	for ly := 0; ly < ch.height; ly++ {
		for lx := 0; lx < ch.width; lx++ {
			c := &ch.cells[ly*ch.width+lx]
			c.x, c.y, c.grid = ch.worldX+lx, ch.worldY+ly, s.grid
		}
	}
	s.chunks[i] = ch
	return ch
}

func (s *chunkedStore) cell(x, y int) *GridCell {
	ch := s.chunk(x/ChunkSize, y/ChunkSize)
	return &ch.cells[(y-ch.worldY)*ch.width+(x-ch.worldX)]
}

func (s *chunkedStore) flags(x, y int) (bool, bool) {
	ch := s.chunks[(y/ChunkSize)*s.chunksX+x/ChunkSize]
	if ch == nil {
		return false, false
	}
	c := &ch.cells[(y-ch.worldY)*ch.width+(x-ch.worldX)]
	return c.Walkable, c.Transparent
}

func (s *chunkedStore) chunked() bool { return true }

// materialized counts allocated chunks.
func (s *chunkedStore) materialized() int {
	n := 0
	for _, ch := range s.chunks {
		if ch != nil {
			n++
		}
	}
	return n
}

func newCellStore(g *Grid, w, h int) cellStore {
	if w <= ChunkThreshold && h <= ChunkThreshold {
		return newDenseStore(g, w, h)
	}
	return newChunkedStore(g, w, h)
}
