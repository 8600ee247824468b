package main

import "testing"

func TestSpatialGridInsertQuery(t *testing.T) {
	var g SpatialGrid
	g.Insert(0, 0, 7)

	got := g.QueryBuf(0, 0, 1, nil)
	if len(got) != 1 || got[0] != 7 {
		t.Errorf("query = %v, want [7]", got)
	}

	// A distant cell should not see the slot
	far := g.QueryBuf(100, 100, 1, nil)
	if len(far) != 0 {
		t.Errorf("distant query = %v, want empty", far)
	}
}

func TestSpatialGridCircleSpansCells(t *testing.T) {
	var g SpatialGrid
	// Circle straddling a cell boundary must be discoverable from both sides
	g.InsertCircle(SpatialCellSize-ArenaExtent, 0, 3, 1)

	left := g.QueryBuf(SpatialCellSize-ArenaExtent-5, 0, 1, nil)
	right := g.QueryBuf(SpatialCellSize-ArenaExtent+5, 0, 1, nil)
	if len(left) == 0 || len(right) == 0 {
		t.Errorf("straddling circle invisible from one side: left=%v right=%v", left, right)
	}
}

func TestSpatialGridClampsOutOfBounds(t *testing.T) {
	var g SpatialGrid
	// Positions beyond the arena must clamp to edge cells, not panic
	g.Insert(ArenaExtent*2, -ArenaExtent*2, 3)
	got := g.QueryBuf(ArenaExtent*2, -ArenaExtent*2, 1, nil)
	if len(got) != 1 {
		t.Errorf("out-of-bounds insert not found: %v", got)
	}
}

func TestSpatialGridClear(t *testing.T) {
	var g SpatialGrid
	g.Insert(0, 0, 1)
	g.Clear()
	if got := g.QueryBuf(0, 0, 1, nil); len(got) != 0 {
		t.Errorf("query after clear = %v, want empty", got)
	}
}
