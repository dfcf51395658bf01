package main

import "fmt"

// Obstacle is static level geometry
type Obstacle struct {
	ID  string
	Box AABB
}

// NewObstacles builds the static obstacle set from config boxes
func NewObstacles(boxes []AABB) []*Obstacle {
	obs := make([]*Obstacle, 0, len(boxes))
	for i, b := range boxes {
		// normalise inverted corners from hand-written configs
		if b.Min.X > b.Max.X {
			b.Min.X, b.Max.X = b.Max.X, b.Min.X
		}
		if b.Min.Y > b.Max.Y {
			b.Min.Y, b.Max.Y = b.Max.Y, b.Min.Y
		}
		if b.Min.Z > b.Max.Z {
			b.Min.Z, b.Max.Z = b.Max.Z, b.Min.Z
		}
		obs = append(obs, &Obstacle{ID: fmt.Sprintf("o%02d", i), Box: b})
	}
	return obs
}

// ToState converts to protocol state
func (o *Obstacle) ToState() ObstacleState {
	return ObstacleState{ID: o.ID, Min: o.Box.Min, Max: o.Box.Max}
}
