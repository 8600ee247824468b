package main

import "math"

// Vec3 is a y-up world-space vector
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Norm returns the unit vector, or zero if v is zero
func (v Vec3) Norm() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// HorizDist returns the distance between two points ignoring height
func HorizDist(a, b Vec3) float64 {
	dx := b.X - a.X
	dz := b.Z - a.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// HorizDistSq returns the squared distance between two points ignoring height
func HorizDistSq(a, b Vec3) float64 {
	dx := b.X - a.X
	dz := b.Z - a.Z
	return dx*dx + dz*dz
}

// YawForward returns the horizontal forward axis for a yaw angle
func YawForward(yaw float64) Vec3 {
	return Vec3{math.Cos(yaw), 0, math.Sin(yaw)}
}

// YawRight returns the horizontal axis perpendicular to YawForward
func YawRight(yaw float64) Vec3 {
	return Vec3{-math.Sin(yaw), 0, math.Cos(yaw)}
}
