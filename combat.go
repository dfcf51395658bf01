package main

import (
	"fmt"
	"log"
	"time"
)

// handleAttack resolves a tagger's attack. In swap modes the first evader in
// range becomes the tagger; in damage modes the target loses one hp.
func (e *Engine) handleAttack(p *Player, in AttackIntent, now time.Time) error {
	if e.world.Phase().Phase != PhasePlaying {
		return fmt.Errorf("attack outside play: %w", ErrIllegalInState)
	}
	if p.Role != RoleTagger || !p.Alive {
		return fmt.Errorf("%s is not the tagger: %w", p.ID, ErrIllegalInState)
	}
	if p.Stunned(now) {
		return fmt.Errorf("attack while stunned: %w", ErrIllegalInState)
	}
	if now.Before(p.NextAttack) {
		return fmt.Errorf("attack on cooldown: %w", ErrIllegalInState)
	}

	mode := e.currentMode()
	det := mode.Detector()
	eligible := func(t *Player) bool {
		return t.ID != p.ID && t.Alive && t.Participant && t.Role == RoleEvader
	}

	var target *Player
	if in.TargetID != "" {
		t, err := e.world.Player(in.TargetID)
		if err != nil {
			return err
		}
		if !eligible(t) {
			return fmt.Errorf("target %s not attackable: %w", t.ID, ErrIllegalInState)
		}
		if !det.Within(p.Pos, t.Pos, e.cfg.TagRadius) {
			return fmt.Errorf("target %s out of range: %w", t.ID, ErrIllegalInState)
		}
		target = t
	} else {
		target = det.NearestPlayer(e.world.players, p.Pos, e.cfg.TagRadius, eligible)
		if target == nil {
			return fmt.Errorf("no target in range: %w", ErrIllegalInState)
		}
	}

	p.NextAttack = now.Add(secs(e.cfg.AttackCooldownSec))
	if mode.Damage {
		e.applyDamage(target, 1, p.ID, now)
		return nil
	}
	e.handover(p, target, now)
	return nil
}

// handover moves the tagger role and its weapon to target, then stuns it
func (e *Engine) handover(from, to *Player, now time.Time) {
	e.accrue(now)
	from.Role = RoleEvader
	from.HasWeapon = false
	to.Role = RoleTagger
	to.HasWeapon = true
	to.Stun(now, secs(e.cfg.StunSec))
	e.emit(RoleChangedEvent{OldTagger: from.ID, NewTagger: to.ID, TaggedID: to.ID})
}

// reassignTagger picks a new tagger after the current one left
func (e *Engine) reassignTagger(oldID string) {
	var pool []*Player
	for _, p := range e.participants() {
		if p.Alive && p.Role == RoleEvader {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		return
	}
	t := pool[e.rng.IntN(len(pool))]
	t.Role = RoleTagger
	t.HasWeapon = true
	e.emit(RoleChangedEvent{OldTagger: oldID, NewTagger: t.ID})
}

// applyDamage removes hp and reports the elimination exactly once
func (e *Engine) applyDamage(target *Player, dmg int, sourceID string, now time.Time) {
	if !target.Alive {
		return
	}
	died := target.TakeDamage(dmg)
	e.emit(DamageEvent{TargetID: target.ID, HP: target.HP, SourceID: sourceID})
	if died {
		log.Printf("player %s eliminated by %q", target.ID, sourceID)
		e.emit(EliminatedEvent{ID: target.ID, By: sourceID})
		e.checkTerminal(now)
	}
}
