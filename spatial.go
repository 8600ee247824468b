package main

const (
	SpatialCellSize = 20.0 // ~5x ship hull radius
	SpatialCols     = 17   // ceil(2*ArenaExtent/20) + 1
	SpatialRows     = 17
)

// SpatialGrid is a fixed-size XZ grid for broad-phase contact queries.
// Cell indexes are body slots in the physics step's flat body list.
type SpatialGrid struct {
	cells [SpatialCols * SpatialRows][]int
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func cellIdx(x, z float64) int {
	cx := int((x + ArenaExtent) / SpatialCellSize)
	cz := int((z + ArenaExtent) / SpatialCellSize)
	if cx < 0 {
		cx = 0
	} else if cx >= SpatialCols {
		cx = SpatialCols - 1
	}
	if cz < 0 {
		cz = 0
	} else if cz >= SpatialRows {
		cz = SpatialRows - 1
	}
	return cz*SpatialCols + cx
}

// Insert adds a body slot at the given position
func (g *SpatialGrid) Insert(x, z float64, slot int) {
	idx := cellIdx(x, z)
	g.cells[idx] = append(g.cells[idx], slot)
}

// InsertCircle adds a body slot to all cells overlapping its bounding box
func (g *SpatialGrid) InsertCircle(x, z, radius float64, slot int) {
	minCX := int((x - radius + ArenaExtent) / SpatialCellSize)
	maxCX := int((x + radius + ArenaExtent) / SpatialCellSize)
	minCZ := int((z - radius + ArenaExtent) / SpatialCellSize)
	maxCZ := int((z + radius + ArenaExtent) / SpatialCellSize)
	if minCX < 0 {
		minCX = 0
	}
	if maxCX >= SpatialCols {
		maxCX = SpatialCols - 1
	}
	if minCZ < 0 {
		minCZ = 0
	}
	if maxCZ >= SpatialRows {
		maxCZ = SpatialRows - 1
	}
	for cz := minCZ; cz <= maxCZ; cz++ {
		for cx := minCX; cx <= maxCX; cx++ {
			idx := cz*SpatialCols + cx
			g.cells[idx] = append(g.cells[idx], slot)
		}
	}
}

// QueryBuf appends body slots in cells overlapping the given bounding box
// to buf and returns the extended slice, avoiding per-call allocation
func (g *SpatialGrid) QueryBuf(x, z, radius float64, buf []int) []int {
	minCX := int((x - radius + ArenaExtent) / SpatialCellSize)
	maxCX := int((x + radius + ArenaExtent) / SpatialCellSize)
	minCZ := int((z - radius + ArenaExtent) / SpatialCellSize)
	maxCZ := int((z + radius + ArenaExtent) / SpatialCellSize)
	if minCX < 0 {
		minCX = 0
	}
	if maxCX >= SpatialCols {
		maxCX = SpatialCols - 1
	}
	if minCZ < 0 {
		minCZ = 0
	}
	if maxCZ >= SpatialRows {
		maxCZ = SpatialRows - 1
	}
	for cz := minCZ; cz <= maxCZ; cz++ {
		for cx := minCX; cx <= maxCX; cx++ {
			idx := cz*SpatialCols + cx
			buf = append(buf, g.cells[idx]...)
		}
	}
	return buf
}
