package main

import "time"

// Projectile is a thrown object in flight. It resolves once, at Deadline.
type Projectile struct {
	ID        string
	OwnerID   string
	Origin    Vec3
	Target    Vec3
	SpawnedAt time.Time
	Deadline  time.Time
}

// NewProjectile creates a projectile that lands after flight
func NewProjectile(ownerID string, origin, target Vec3, now time.Time, flight time.Duration) *Projectile {
	return &Projectile{
		ID:        GenerateID("pr"),
		OwnerID:   ownerID,
		Origin:    origin,
		Target:    target,
		SpawnedAt: now,
		Deadline:  now.Add(flight),
	}
}

// PositionAt interpolates the flight path, clamped to [Origin, Target]
func (p *Projectile) PositionAt(now time.Time) Vec3 {
	total := p.Deadline.Sub(p.SpawnedAt)
	if total <= 0 || !now.Before(p.Deadline) {
		return p.Target
	}
	t := Clamp(float64(now.Sub(p.SpawnedAt))/float64(total), 0, 1)
	return Vec3{
		X: p.Origin.X + (p.Target.X-p.Origin.X)*t,
		Y: p.Origin.Y + (p.Target.Y-p.Origin.Y)*t,
		Z: p.Origin.Z + (p.Target.Z-p.Origin.Z)*t,
	}
}

// ToState converts to protocol state
func (p *Projectile) ToState(now time.Time) ProjectileState {
	pos := p.PositionAt(now)
	return ProjectileState{
		ID:       p.ID,
		Owner:    p.OwnerID,
		X:        round2(pos.X),
		Y:        round2(pos.Y),
		Z:        round2(pos.Z),
		Origin:   p.Origin,
		Target:   p.Target,
		Deadline: p.Deadline.UnixMilli(),
	}
}
