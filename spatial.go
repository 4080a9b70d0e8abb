package lattice

// SpatialIndex is a uniform grid of node id buckets used for neighbor
// lookups. The cell size must be at least the largest interaction radius of
// any force, otherwise neighbor queries miss valid neighbors.
type SpatialIndex struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]int
}

// NewSpatialIndex creates a grid covering width x height with square cells.
func NewSpatialIndex(width, height, cellSize float64) *SpatialIndex {
	if cellSize <= 0 {
		cellSize = 1
	}
	g := &SpatialIndex{cellSize: cellSize}
	g.Resize(width, height)
	return g
}

// CellSize returns the grid's cell size.
func (g *SpatialIndex) CellSize() float64 {
	return g.cellSize
}

// Resize regrids the index for a new canvas size. All buckets are emptied.
func (g *SpatialIndex) Resize(width, height float64) {
	cols := int(width/g.cellSize) + 1
	rows := int(height/g.cellSize) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if cols == g.cols && rows == g.rows {
		g.Clear()
		return
	}
	g.cols, g.rows = cols, rows
	g.cells = make([][]int, cols*rows)
	for i := range g.cells {
		g.cells[i] = make([]int, 0, 8)
	}
}

// Clear empties every bucket, keeping allocated capacity.
func (g *SpatialIndex) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// cellCoords maps a position to clamped cell coordinates. Clamping keeps
// out-of-canvas nodes in the edge cells, which never separates two nodes by
// more than one cell if they were adjacent before clamping.
func (g *SpatialIndex) cellCoords(x, y float64) (int, int) {
	cx := int(x / g.cellSize)
	cy := int(y / g.cellSize)
	if x < 0 {
		cx = 0
	}
	if y < 0 {
		cy = 0
	}
	if cx >= g.cols {
		cx = g.cols - 1
	}
	if cy >= g.rows {
		cy = g.rows - 1
	}
	return cx, cy
}

// Insert places node id into the bucket for (x, y).
func (g *SpatialIndex) Insert(id int, x, y float64) {
	cx, cy := g.cellCoords(x, y)
	idx := cy*g.cols + cx
	g.cells[idx] = append(g.cells[idx], id)
}

// AppendNeighbors appends every id in the 3x3 block of cells around the cell
// containing (x, y) to dst and returns the extended slice.
func (g *SpatialIndex) AppendNeighbors(dst []int, x, y float64) []int {
	cx, cy := g.cellCoords(x, y)
	for row := cy - 1; row <= cy+1; row++ {
		if row < 0 || row >= g.rows {
			continue
		}
		for col := cx - 1; col <= cx+1; col++ {
			if col < 0 || col >= g.cols {
				continue
			}
			dst = append(dst, g.cells[row*g.cols+col]...)
		}
	}
	return dst
}

// QueryNeighbors returns a new slice of the ids in the 3x3 block around
// (x, y). Use AppendNeighbors in per-frame code.
func (g *SpatialIndex) QueryNeighbors(x, y float64) []int {
	return g.AppendNeighbors(nil, x, y)
}

// Len returns the number of ids currently stored.
func (g *SpatialIndex) Len() int {
	n := 0
	for _, c := range g.cells {
		n += len(c)
	}
	return n
}
