package main

import "math"

// AABB is an axis-aligned bounding box
type AABB struct {
	Min Vec3 `json:"min" msgpack:"min"`
	Max Vec3 `json:"max" msgpack:"max"`
}

// BoxAt returns the box of the given half-extents centred on pos
func BoxAt(pos, half Vec3) AABB {
	return AABB{
		Min: Vec3{X: pos.X - half.X, Y: pos.Y - half.Y, Z: pos.Z - half.Z},
		Max: Vec3{X: pos.X + half.X, Y: pos.Y + half.Y, Z: pos.Z + half.Z},
	}
}

// Intersects reports whether two boxes overlap. Touching faces do not count.
func (a AABB) Intersects(b AABB) bool {
	return a.Min.X < b.Max.X && a.Max.X > b.Min.X &&
		a.Min.Y < b.Max.Y && a.Max.Y > b.Min.Y &&
		a.Min.Z < b.Max.Z && a.Max.Z > b.Min.Z
}

// Center returns the midpoint of the box
func (a AABB) Center() Vec3 {
	return Vec3{
		X: (a.Min.X + a.Max.X) / 2,
		Y: (a.Min.Y + a.Max.Y) / 2,
		Z: (a.Min.Z + a.Max.Z) / 2,
	}
}

// ClosestPoint returns the point of the box nearest to p
func (a AABB) ClosestPoint(p Vec3) Vec3 {
	return Vec3{
		X: math.Max(a.Min.X, math.Min(p.X, a.Max.X)),
		Y: math.Max(a.Min.Y, math.Min(p.Y, a.Max.Y)),
		Z: math.Max(a.Min.Z, math.Min(p.Z, a.Max.Z)),
	}
}

// MoveBlocked reports whether moving the given player to pos would put its
// bounding volume inside a static obstacle or another player's volume.
func MoveBlocked(w *World, moverID string, pos, half Vec3) bool {
	box := BoxAt(pos, half)
	for _, o := range w.obstacles {
		if box.Intersects(o.Box) {
			return true
		}
	}
	for id, p := range w.players {
		if id == moverID || !p.Alive {
			continue
		}
		if box.Intersects(BoxAt(p.Pos, half)) {
			return true
		}
	}
	return false
}
