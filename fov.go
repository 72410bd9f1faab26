package bramble

// FOVAlgorithm selects how ComputeFOV traces visibility.
type FOVAlgorithm uint8

const (
	// FOVBasic casts a Bresenham ray to every cell on the edge of the view
	// square.
	FOVBasic FOVAlgorithm = iota
	// FOVDiamond propagates visibility outward ring by ring through
	// transparent cells.
	FOVDiamond
	// FOVShadow is recursive shadowcasting.
	FOVShadow
	// FOVSymmetric is symmetric shadowcasting: if A sees B then B sees A.
	FOVSymmetric
)

func (a FOVAlgorithm) String() string {
	switch a {
	case FOVBasic:
		return "basic"
	case FOVDiamond:
		return "diamond"
	case FOVShadow:
		return "shadow"
	case FOVSymmetric:
		return "symmetric"
	}
	return "unknown"
}

// ComputeFOV recomputes the grid's visibility bitmap from origin. Radius is
// measured in cells (Chebyshev distance); 0 means unlimited. With lightWalls
// set, opaque cells that bound the view are visible too. The origin is
// always visible.
func (g *Grid) ComputeFOV(origin Point, radius int, lightWalls bool, alg FOVAlgorithm) error {
	if !g.InBounds(origin.X, origin.Y) {
		return indexErrorf("FOV origin (%d, %d) outside grid", origin.X, origin.Y)
	}
	if radius < 0 {
		return valueErrorf("negative FOV radius %d", radius)
	}
	for i := range g.fovMap {
		g.fovMap[i] = false
	}
	if radius == 0 {
		radius = max(g.gridW, g.gridH)
	}
	f := fovPass{g: g, origin: origin, radius: radius, lightWalls: lightWalls}
	switch alg {
	case FOVBasic:
		f.basic()
	case FOVDiamond:
		f.diamond()
	case FOVSymmetric:
		f.symmetric()
	default:
		f.shadow()
	}
	g.fovMap[origin.Y*g.gridW+origin.X] = true
	return nil
}

// IsInFOV reports whether (x, y) was visible in the last ComputeFOV.
func (g *Grid) IsInFOV(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.fovMap[y*g.gridW+x]
}

type fovPass struct {
	g          *Grid
	origin     Point
	radius     int
	lightWalls bool
}

func (f *fovPass) mark(x, y int) {
	f.g.fovMap[y*f.g.gridW+x] = true
}

func (f *fovPass) opaque(x, y int) bool {
	return !f.g.transparent(x, y)
}

func (f *fovPass) inRange(dx, dy int) bool {
	return abs(dx) <= f.radius && abs(dy) <= f.radius
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// basic traces a line to every cell on the view square's edge.
func (f *fovPass) basic() {
	r := f.radius
	for i := -r; i <= r; i++ {
		f.ray(f.origin.X+i, f.origin.Y-r)
		f.ray(f.origin.X+i, f.origin.Y+r)
		f.ray(f.origin.X-r, f.origin.Y+i)
		f.ray(f.origin.X+r, f.origin.Y+i)
	}
}

// ray walks a Bresenham line from the origin toward (tx, ty), stopping at
// the first opaque cell or the grid edge.
func (f *fovPass) ray(tx, ty int) {
	x, y := f.origin.X, f.origin.Y
	dx, dy := abs(tx-x), -abs(ty-y)
	sx, sy := 1, 1
	if tx < x {
		sx = -1
	}
	if ty < y {
		sy = -1
	}
	err := dx + dy
	for {
		if x != f.origin.X || y != f.origin.Y {
			if !f.g.InBounds(x, y) {
				return
			}
			if f.opaque(x, y) {
				if f.lightWalls {
					f.mark(x, y)
				}
				return
			}
			f.mark(x, y)
		}
		if x == tx && y == ty {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// diamond grows visibility ring by ring: a cell is visible when a neighbor
// one step closer to the origin, along the cell's dominant axes, is visible
// and transparent.
func (f *fovPass) diamond() {
	g := f.g
	ox, oy := f.origin.X, f.origin.Y
	lit := func(x, y int) bool {
		if x == ox && y == oy {
			return true
		}
		return g.InBounds(x, y) && g.fovMap[y*g.gridW+x] && !f.opaque(x, y)
	}
	for d := 1; d <= f.radius; d++ {
		for dy := -d; dy <= d; dy++ {
			for dx := -d; dx <= d; dx++ {
				if max(abs(dx), abs(dy)) != d {
					continue
				}
				x, y := ox+dx, oy+dy
				if !g.InBounds(x, y) {
					continue
				}
				sx, sy := sign(dx), sign(dy)
				var seen bool
				switch {
				case abs(dx) > abs(dy):
					seen = lit(x-sx, y) || (dy != 0 && lit(x-sx, y-sy))
				case abs(dy) > abs(dx):
					seen = lit(x, y-sy) || (dx != 0 && lit(x-sx, y-sy))
				default:
					seen = lit(x-sx, y-sy)
				}
				if !seen {
					continue
				}
				if f.opaque(x, y) && !f.lightWalls {
					continue
				}
				f.mark(x, y)
			}
		}
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// octants maps (row, col) in octant space to grid offsets.
var octants = [8][4]int{
	{1, 0, 0, 1},
	{0, 1, 1, 0},
	{0, -1, 1, 0},
	{-1, 0, 0, 1},
	{-1, 0, 0, -1},
	{0, -1, -1, 0},
	{0, 1, -1, 0},
	{1, 0, 0, -1},
}

// shadow is recursive shadowcasting over eight octants.
func (f *fovPass) shadow() {
	for _, m := range octants {
		f.castLight(1, 1.0, 0.0, m[0], m[1], m[2], m[3])
	}
}

func (f *fovPass) castLight(row int, start, end float64, xx, xy, yx, yy int) {
	if start < end {
		return
	}
	g := f.g
	newStart := 0.0
	for j := row; j <= f.radius; j++ {
		blocked := false
		for dx, dy := -j-1, -j; dx <= 0; {
			dx++
			x := f.origin.X + dx*xx + dy*xy
			y := f.origin.Y + dx*yx + dy*yy
			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)
			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}
			inGrid := g.InBounds(x, y)
			wall := !inGrid || f.opaque(x, y)
			if inGrid && (!wall || f.lightWalls) {
				f.mark(x, y)
			}
			if blocked {
				if wall {
					newStart = rSlope
					continue
				}
				blocked = false
				start = newStart
			} else if wall && j < f.radius {
				blocked = true
				f.castLight(j+1, start, lSlope, xx, xy, yx, yy)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}

// symmetric is symmetric shadowcasting over four quadrants, using exact
// rational slopes.
func (f *fovPass) symmetric() {
	for q := 0; q < 4; q++ {
		f.scanRow(q, 1, slope{-1, 1}, slope{1, 1})
	}
}

// slope is num/den kept exact to avoid float drift at tile boundaries.
type slope struct{ num, den int }

func (f *fovPass) quadrantCell(q, depth, col int) (int, int) {
	ox, oy := f.origin.X, f.origin.Y
	switch q {
	case 0: // north
		return ox + col, oy - depth
	case 1: // south
		return ox + col, oy + depth
	case 2: // east
		return ox + depth, oy + col
	default: // west
		return ox - depth, oy + col
	}
}

func (f *fovPass) scanRow(q, depth int, start, end slope) {
	if depth > f.radius {
		return
	}
	// min col = floor(depth*start + 0.5), max col = ceil(depth*end - 0.5)
	minCol := floorDiv(2*depth*start.num+start.den, 2*start.den)
	maxCol := ceilDiv(2*depth*end.num-end.den, 2*end.den)

	prevWall, prevSet := false, false
	for col := minCol; col <= maxCol; col++ {
		x, y := f.quadrantCell(q, depth, col)
		inGrid := f.g.InBounds(x, y)
		wall := !inGrid || f.opaque(x, y)
		if inGrid && f.inRange(x-f.origin.X, y-f.origin.Y) {
			symmetric := col*start.den >= depth*start.num && col*end.den <= depth*end.num
			if (wall && f.lightWalls) || (!wall && symmetric) {
				f.mark(x, y)
			}
		}
		if prevSet && prevWall && !wall {
			// start = (2col - 1) / (2depth)
			start = slope{2*col - 1, 2 * depth}
		}
		if prevSet && !prevWall && wall {
			f.scanRow(q, depth+1, start, slope{2*col - 1, 2 * depth})
		}
		prevWall, prevSet = wall, true
	}
	if prevSet && !prevWall {
		f.scanRow(q, depth+1, start, end)
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
