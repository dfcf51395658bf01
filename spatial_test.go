package main

import "testing"

func TestDetectorPlanarIgnoresHeight(t *testing.T) {
	d := Detector{Metric: MetricPlanar}
	a := Vec3{X: 0, Y: 0, Z: 0}
	b := Vec3{X: 2, Y: 10, Z: 0}
	if got := d.Dist(a, b); got != 2 {
		t.Errorf("planar distance should be 2, got %v", got)
	}
	if !d.Within(a, b, 2) {
		t.Error("Within should be inclusive at the radius")
	}
}

func TestDetectorVolumetric(t *testing.T) {
	d := Detector{Metric: MetricVolumetric}
	a := Vec3{}
	b := Vec3{X: 3, Y: 4, Z: 0}
	if got := d.Dist(a, b); got != 5 {
		t.Errorf("expected 5, got %v", got)
	}
	if d.Within(a, b, 4.99) {
		t.Error("should be outside 4.99")
	}
}

func TestNearestPlayerTieBreaksOnID(t *testing.T) {
	d := Detector{Metric: MetricPlanar}
	players := map[string]*Player{
		"b": NewPlayer("b", "B", Vec3{X: 1}, 1),
		"a": NewPlayer("a", "A", Vec3{X: -1}, 1),
		"c": NewPlayer("c", "C", Vec3{X: 5}, 1),
	}
	for i := 0; i < 20; i++ {
		got := d.NearestPlayer(players, Vec3{}, 2, nil)
		if got == nil || got.ID != "a" {
			t.Fatalf("expected a on equal distances, got %+v", got)
		}
	}
	got := d.NearestPlayer(players, Vec3{}, 2, func(p *Player) bool { return p.ID != "a" })
	if got == nil || got.ID != "b" {
		t.Errorf("filter should skip a, got %+v", got)
	}
	if d.NearestPlayer(players, Vec3{X: 100}, 2, nil) != nil {
		t.Error("nothing is in range")
	}
}

func TestNearestCollectible(t *testing.T) {
	d := Detector{Metric: MetricPlanar}
	near := &Collectible{ID: "i2", Pos: Vec3{X: 1}, Kind: KindValue}
	far := &Collectible{ID: "i1", Pos: Vec3{X: 3}, Kind: KindHazard}
	items := map[string]*Collectible{near.ID: near, far.ID: far}
	if got := d.NearestCollectible(items, Vec3{}, 5); got != near {
		t.Errorf("expected %s, got %+v", near.ID, got)
	}
	if got := d.NearestCollectible(items, Vec3{}, 0.5); got != nil {
		t.Errorf("expected nothing in range, got %+v", got)
	}
}

func TestNearestObstacleUsesSurface(t *testing.T) {
	d := Detector{Metric: MetricVolumetric}
	obs := NewObstacles([]AABB{
		{Min: Vec3{X: 2, Y: 0, Z: -1}, Max: Vec3{X: 10, Y: 2, Z: 1}},
		{Min: Vec3{X: -4, Y: 0, Z: -1}, Max: Vec3{X: -3, Y: 2, Z: 1}},
	})
	got := d.NearestObstacle(obs, Vec3{Y: 1}, 2.5)
	if got == nil || got.ID != "o00" {
		t.Errorf("expected o00 by surface distance, got %+v", got)
	}
}
