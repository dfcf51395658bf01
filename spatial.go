package main

import "math"

// Detector answers proximity queries. It never mutates what it is given.
type Detector struct {
	Metric Metric
}

// Dist measures the distance between two positions under the detector's metric
func (d Detector) Dist(a, b Vec3) float64 {
	if d.Metric == MetricVolumetric {
		return Distance3(a, b)
	}
	return Distance(a.X, a.Z, b.X, b.Z)
}

// Within reports whether b lies inside radius of a (inclusive)
func (d Detector) Within(a, b Vec3, radius float64) bool {
	return d.Dist(a, b) <= radius
}

// nearestPick tracks the running best candidate. Equal distances resolve to
// the lexicographically lowest id so that results do not depend on map order.
type nearestPick struct {
	id   string
	dist float64
	ok   bool
}

func (n *nearestPick) offer(id string, dist, radius float64) bool {
	if dist > radius || math.IsNaN(dist) {
		return false
	}
	if !n.ok || dist < n.dist || (dist == n.dist && id < n.id) {
		n.id, n.dist, n.ok = id, dist, true
		return true
	}
	return false
}

// NearestPlayer returns the closest player within radius that passes keep
func (d Detector) NearestPlayer(players map[string]*Player, src Vec3, radius float64, keep func(*Player) bool) *Player {
	var pick nearestPick
	var best *Player
	for id, p := range players {
		if keep != nil && !keep(p) {
			continue
		}
		if pick.offer(id, d.Dist(src, p.Pos), radius) {
			best = p
		}
	}
	return best
}

// NearestCollectible returns the closest item within radius
func (d Detector) NearestCollectible(items map[string]*Collectible, src Vec3, radius float64) *Collectible {
	var pick nearestPick
	var best *Collectible
	for id, c := range items {
		if pick.offer(id, d.Dist(src, c.Pos), radius) {
			best = c
		}
	}
	return best
}

// NearestObstacle returns the obstacle whose surface is closest to src within radius
func (d Detector) NearestObstacle(obstacles []*Obstacle, src Vec3, radius float64) *Obstacle {
	var pick nearestPick
	var best *Obstacle
	for _, o := range obstacles {
		if pick.offer(o.ID, d.Dist(src, o.Box.ClosestPoint(src)), radius) {
			best = o
		}
	}
	return best
}
