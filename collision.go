package main

import "math"

// CheckOverlap checks if two spheres overlap
func CheckOverlap(a Vec3, ra float64, b Vec3, rb float64) bool {
	radSum := ra + rb
	return a.Sub(b).LenSq() <= radSum*radSum
}

// SegmentSphere intersects the segment from p0 to p1 with a sphere and
// returns the entry parameter t in [0,1]. A segment starting inside the
// sphere reports t=0.
func SegmentSphere(p0, p1, center Vec3, r float64) (float64, bool) {
	d := p1.Sub(p0)
	f := p0.Sub(center)
	a := d.LenSq()
	if a == 0 {
		return 0, f.LenSq() <= r*r
	}
	b := 2 * f.Dot(d)
	c := f.LenSq() - r*r
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	if t1 >= 0 && t1 <= 1 {
		return t1, true
	}
	// Entry point behind p0 but exit ahead: started inside
	if t1 < 0 && t2 >= 0 {
		return 0, true
	}
	return 0, false
}

// SegmentGround intersects the segment with the ground plane y=0 and
// returns the entry parameter. Segments entirely above ground miss.
func SegmentGround(p0, p1 Vec3) (float64, bool) {
	if p0.Y > 0 && p1.Y > 0 {
		return 0, false
	}
	if p0.Y <= 0 {
		return 0, true
	}
	return p0.Y / (p0.Y - p1.Y), true
}

// InCylinder checks whether p is inside a vertical cylinder footprint:
// within radius horizontally and within [base.Y, base.Y+height].
func InCylinder(p, base Vec3, radius, height float64) bool {
	if p.Y < base.Y || p.Y > base.Y+height {
		return false
	}
	return HorizDistSq(p, base) <= radius*radius
}
