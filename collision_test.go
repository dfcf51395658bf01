package main

import "testing"

func TestAABBIntersects(t *testing.T) {
	a := AABB{Min: Vec3{X: 0, Y: 0, Z: 0}, Max: Vec3{X: 2, Y: 2, Z: 2}}
	b := AABB{Min: Vec3{X: 1, Y: 1, Z: 1}, Max: Vec3{X: 3, Y: 3, Z: 3}}
	if !a.Intersects(b) || !b.Intersects(a) {
		t.Error("overlapping boxes should intersect")
	}
	touching := AABB{Min: Vec3{X: 2, Y: 0, Z: 0}, Max: Vec3{X: 4, Y: 2, Z: 2}}
	if a.Intersects(touching) {
		t.Error("touching faces should not count")
	}
	above := AABB{Min: Vec3{X: 0, Y: 5, Z: 0}, Max: Vec3{X: 2, Y: 6, Z: 2}}
	if a.Intersects(above) {
		t.Error("boxes separated in y should not intersect")
	}
}

func TestAABBClosestPoint(t *testing.T) {
	a := AABB{Min: Vec3{X: -1, Y: 0, Z: -1}, Max: Vec3{X: 1, Y: 2, Z: 1}}
	if got := a.ClosestPoint(Vec3{X: 5, Y: 1, Z: 0}); got != (Vec3{X: 1, Y: 1, Z: 0}) {
		t.Errorf("unexpected closest point %v", got)
	}
	if got := a.ClosestPoint(Vec3{X: 0, Y: 1, Z: 0}); got != (Vec3{X: 0, Y: 1, Z: 0}) {
		t.Errorf("inside point should map to itself, got %v", got)
	}
	if got := a.Center(); got != (Vec3{X: 0, Y: 1, Z: 0}) {
		t.Errorf("unexpected center %v", got)
	}
}

func TestMoveBlocked(t *testing.T) {
	w := NewWorld(NewObstacles([]AABB{{Min: Vec3{X: 4, Y: 0, Z: 4}, Max: Vec3{X: 2, Y: 3, Z: 6}}}))
	half := Vec3{X: 0.4, Y: 0.9, Z: 0.4}
	w.AddPlayer(NewPlayer("a", "A", Vec3{X: -5}, 1))

	if !MoveBlocked(w, "b", Vec3{X: 3, Z: 5}, half) {
		t.Error("move into the (normalised) obstacle should be blocked")
	}
	if !MoveBlocked(w, "b", Vec3{X: -5.5}, half) {
		t.Error("move into another player should be blocked")
	}
	if MoveBlocked(w, "a", Vec3{X: -5.5}, half) {
		t.Error("a player never blocks itself")
	}
	w.players["a"].Alive = false
	if MoveBlocked(w, "b", Vec3{X: -5.5}, half) {
		t.Error("eliminated players should not block")
	}
	if MoveBlocked(w, "b", Vec3{X: 10, Z: 10}, half) {
		t.Error("open ground should not be blocked")
	}
}
