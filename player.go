package main

import "time"

// Role is a player's gameplay role within a round
type Role string

const (
	RoleNone   Role = "none"
	RoleTagger Role = "tagger"
	RoleEvader Role = "evader"
)

// Player is a connected participant in the world
type Player struct {
	ID          string
	Name        string
	Pos         Vec3
	Role        Role
	HP          int
	MaxHP       int
	Alive       bool
	Items       int     // value items collected this round
	TaggerTime  float64 // seconds spent as tagger this round
	StunUntil   time.Time
	NextAttack  time.Time
	Rank        string // empty for guests
	HasAbility  bool   // one-shot throw
	HasWeapon   bool   // held by the tagger
	Participant bool   // took part in the current round from its start
}

// NewPlayer creates a player at the given spawn point
func NewPlayer(id, name string, pos Vec3, maxHP int) *Player {
	return &Player{
		ID:    id,
		Name:  name,
		Pos:   pos,
		Role:  RoleNone,
		HP:    maxHP,
		MaxHP: maxHP,
		Alive: true,
	}
}

// Stunned reports whether the player is inside a stun window
func (p *Player) Stunned(now time.Time) bool {
	return now.Before(p.StunUntil)
}

// Stun extends the stun window; it never shortens an existing one
func (p *Player) Stun(now time.Time, d time.Duration) {
	until := now.Add(d)
	if until.After(p.StunUntil) {
		p.StunUntil = until
	}
}

// TakeDamage reduces HP and returns true only on the hit that eliminates
func (p *Player) TakeDamage(dmg int) bool {
	if !p.Alive || dmg <= 0 {
		return false
	}
	p.HP -= dmg
	if p.HP <= 0 {
		p.HP = 0
		p.Alive = false
		return true
	}
	return false
}

// ResetForRound restores per-round state before PLAYING
func (p *Player) ResetForRound(maxHP int) {
	p.Role = RoleEvader
	p.HP = maxHP
	p.MaxHP = maxHP
	p.Alive = true
	p.Items = 0
	p.TaggerTime = 0
	p.StunUntil = time.Time{}
	p.NextAttack = time.Time{}
	p.HasAbility = false
	p.HasWeapon = false
	p.Participant = true
}

// ToState converts to protocol state
func (p *Player) ToState(now time.Time) PlayerState {
	return PlayerState{
		ID:         p.ID,
		Name:       p.Name,
		X:          round2(p.Pos.X),
		Y:          round2(p.Pos.Y),
		Z:          round2(p.Pos.Z),
		Role:       p.Role,
		HP:         p.HP,
		MaxHP:      p.MaxHP,
		Alive:      p.Alive,
		Items:      p.Items,
		TaggerTime: round2(p.TaggerTime),
		Stunned:    p.Stunned(now),
		Rank:       p.Rank,
	}
}
