package main

import (
	"testing"
	"time"
)

func TestNewPlayer(t *testing.T) {
	p := NewPlayer("test1", "TestPilot", Vec3{X: 1, Z: 2}, 10)
	if p.ID != "test1" {
		t.Errorf("expected ID test1, got %s", p.ID)
	}
	if p.Name != "TestPilot" {
		t.Errorf("expected name TestPilot, got %s", p.Name)
	}
	if p.HP != 10 || p.MaxHP != 10 {
		t.Errorf("expected HP 10/10, got %d/%d", p.HP, p.MaxHP)
	}
	if p.Role != RoleNone || p.Participant {
		t.Error("new players should have no role until a round starts")
	}
	if !p.Alive {
		t.Error("expected player to be alive")
	}
}

func TestPlayerTakeDamage(t *testing.T) {
	p := NewPlayer("test", "T", Vec3{}, 3)

	if p.TakeDamage(1) {
		t.Error("should not have died from 1 damage")
	}
	if p.HP != 2 {
		t.Errorf("expected HP 2, got %d", p.HP)
	}
	if !p.TakeDamage(5) {
		t.Error("should die on the hit that crosses zero")
	}
	if p.HP != 0 || p.Alive {
		t.Errorf("expected hp 0 and dead, got %d alive=%v", p.HP, p.Alive)
	}
	if p.TakeDamage(1) {
		t.Error("dead player should not die again")
	}
}

func TestPlayerTakeDamageIgnoresNonPositive(t *testing.T) {
	p := NewPlayer("test", "T", Vec3{}, 3)
	if p.TakeDamage(0) || p.TakeDamage(-2) {
		t.Error("non-positive damage should do nothing")
	}
	if p.HP != 3 {
		t.Errorf("expected HP 3, got %d", p.HP)
	}
}

func TestPlayerStunOnlyExtends(t *testing.T) {
	now := time.Unix(100, 0)
	p := NewPlayer("test", "T", Vec3{}, 1)
	if p.Stunned(now) {
		t.Fatal("should not start stunned")
	}
	p.Stun(now, 3*time.Second)
	p.Stun(now, time.Second)
	if !p.Stunned(now.Add(2 * time.Second)) {
		t.Error("shorter stun should not cut an existing one")
	}
	if p.Stunned(now.Add(3 * time.Second)) {
		t.Error("stun window is half-open")
	}
}

func TestPlayerResetForRound(t *testing.T) {
	p := NewPlayer("test", "T", Vec3{}, 1)
	p.Role = RoleTagger
	p.Items = 7
	p.TaggerTime = 12
	p.HasAbility = true
	p.HasWeapon = true
	p.Alive = false
	p.HP = 0

	p.ResetForRound(10)
	if p.Role != RoleEvader || !p.Participant {
		t.Errorf("expected participating evader, got %s participant=%v", p.Role, p.Participant)
	}
	if p.HP != 10 || p.MaxHP != 10 || !p.Alive {
		t.Errorf("expected full 10 hp, got %d/%d alive=%v", p.HP, p.MaxHP, p.Alive)
	}
	if p.Items != 0 || p.TaggerTime != 0 || p.HasAbility || p.HasWeapon {
		t.Error("round counters should be cleared")
	}
}

func TestPlayerToState(t *testing.T) {
	now := time.Unix(100, 0)
	p := NewPlayer("p1", "Ana", Vec3{X: 1.23456, Y: 0, Z: -2.5}, 10)
	p.Rank = "member"
	p.Stun(now, time.Second)
	s := p.ToState(now)
	if s.X != 1.23 || s.Z != -2.5 {
		t.Errorf("expected rounded position, got %v %v", s.X, s.Z)
	}
	if !s.Stunned || s.Rank != "member" {
		t.Errorf("unexpected state %+v", s)
	}
}
