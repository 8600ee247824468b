package main

import (
	"math"
	"testing"
)

func TestCheckOverlap(t *testing.T) {
	if !CheckOverlap(Vec3{}, 2, Vec3{X: 3}, 2) {
		t.Error("spheres at distance 3 with radii 2+2 should overlap")
	}
	if CheckOverlap(Vec3{}, 1, Vec3{X: 3}, 1) {
		t.Error("spheres at distance 3 with radii 1+1 should not overlap")
	}
}

func TestSegmentSphereEntry(t *testing.T) {
	// Segment from x=-10 to x=10 through a unit sphere at origin
	tHit, ok := SegmentSphere(Vec3{X: -10}, Vec3{X: 10}, Vec3{}, 1)
	if !ok {
		t.Fatal("segment through sphere should hit")
	}
	want := 9.0 / 20.0 // entry at x=-1
	if math.Abs(tHit-want) > 1e-9 {
		t.Errorf("entry t = %v, want %v", tHit, want)
	}
}

func TestSegmentSphereMiss(t *testing.T) {
	if _, ok := SegmentSphere(Vec3{X: -10, Y: 5}, Vec3{X: 10, Y: 5}, Vec3{}, 1); ok {
		t.Error("segment passing above sphere should miss")
	}
	// Sphere entirely behind the segment
	if _, ok := SegmentSphere(Vec3{X: 5}, Vec3{X: 10}, Vec3{}, 1); ok {
		t.Error("sphere behind segment start should miss")
	}
}

func TestSegmentSphereInsideStart(t *testing.T) {
	tHit, ok := SegmentSphere(Vec3{}, Vec3{X: 10}, Vec3{}, 2)
	if !ok {
		t.Fatal("segment starting inside should hit")
	}
	if tHit != 0 {
		t.Errorf("inside start t = %v, want 0", tHit)
	}
}

func TestSegmentGround(t *testing.T) {
	tHit, ok := SegmentGround(Vec3{Y: 2}, Vec3{Y: -2})
	if !ok {
		t.Fatal("descending segment should hit the ground")
	}
	if math.Abs(tHit-0.5) > 1e-9 {
		t.Errorf("ground t = %v, want 0.5", tHit)
	}
	if _, ok := SegmentGround(Vec3{Y: 2}, Vec3{Y: 1}); ok {
		t.Error("segment above ground should miss")
	}
}

func TestInCylinder(t *testing.T) {
	base := Vec3{X: 10, Y: 0, Z: 10}
	if !InCylinder(Vec3{X: 11, Y: 1, Z: 10}, base, 2, 3) {
		t.Error("point inside cylinder should report true")
	}
	if InCylinder(Vec3{X: 11, Y: 5, Z: 10}, base, 2, 3) {
		t.Error("point above cylinder should report false")
	}
	if InCylinder(Vec3{X: 15, Y: 1, Z: 10}, base, 2, 3) {
		t.Error("point outside radius should report false")
	}
}
