package main

import (
	"fmt"
	"time"
)

// handleCollect consumes an item in pickup range. Value items count toward
// the throw ability and the escape goal; hazards hurt or stun.
func (e *Engine) handleCollect(p *Player, in CollectIntent, now time.Time) error {
	ps := e.world.Phase()
	if ps.Phase != PhasePlaying {
		return fmt.Errorf("collect outside play: %w", ErrIllegalInState)
	}
	if !p.Alive || !p.Participant {
		return fmt.Errorf("%s cannot collect: %w", p.ID, ErrIllegalInState)
	}
	item, err := e.world.Collectible(in.ItemID)
	if err != nil {
		return err
	}
	mode := e.currentMode()
	if !mode.Detector().Within(p.Pos, item.Pos, e.cfg.PickupRange) {
		return fmt.Errorf("item %s out of range: %w", item.ID, ErrIllegalInState)
	}
	if _, err := e.world.RemoveCollectible(item.ID); err != nil {
		return err
	}
	e.emit(ItemConsumedEvent{ItemID: item.ID, By: p.ID})
	e.sched.Schedule(scheduledTask{
		At:    now.Add(secs(e.cfg.ItemRespawnDelaySec)),
		Kind:  taskItemRespawn,
		Epoch: ps.Epoch,
	})

	switch item.Kind {
	case KindValue:
		p.Items++
		if p.Items%e.cfg.CollectThreshold == 0 && !p.HasAbility {
			p.HasAbility = true
			e.emit(AbilityGrantedEvent{PlayerID: p.ID, Items: p.Items})
		}
		if !mode.Damage && p.Role == RoleEvader && p.Items >= e.cfg.EscapeItems {
			e.endRound(now, p.ID, ReasonEscaped)
		}
	case KindHazard:
		if mode.Damage {
			e.applyDamage(p, 1, "", now)
		} else {
			p.Stun(now, secs(e.cfg.StunSec))
		}
	}
	return nil
}

// handleThrow launches the one-shot projectile. It lands after the flight
// time and stuns the tagger if they are near the landing point.
func (e *Engine) handleThrow(p *Player, in ThrowIntent, now time.Time) error {
	if e.world.Phase().Phase != PhasePlaying {
		return fmt.Errorf("throw outside play: %w", ErrIllegalInState)
	}
	if !p.Alive || p.Role != RoleEvader {
		return fmt.Errorf("%s cannot throw: %w", p.ID, ErrIllegalInState)
	}
	if !p.HasAbility {
		return fmt.Errorf("%s has no ability: %w", p.ID, ErrIllegalInState)
	}
	if !finite(in.Origin) || !finite(in.Target) {
		return malformed(MsgThrow, "non-finite vector")
	}
	origin := e.clampToWorld(in.Origin, e.cfg.RankCeiling)
	target := e.clampToWorld(in.Target, e.cfg.RankCeiling)

	p.HasAbility = false
	proj := NewProjectile(p.ID, origin, target, now, secs(e.cfg.ThrowFlightSec))
	e.world.SpawnProjectile(proj)
	e.sched.Schedule(scheduledTask{At: proj.Deadline, Kind: taskProjectile, Ref: proj.ID})
	e.emit(ProjectileSpawnedEvent{Projectile: proj.ToState(now)})
	return nil
}

// resolveProjectile lands a projectile. A projectile already gone is a no-op.
func (e *Engine) resolveProjectile(id string, now time.Time) {
	proj, err := e.world.RemoveProjectile(id)
	if err != nil {
		return
	}
	var hit *Player
	if e.world.Phase().Phase == PhasePlaying {
		t := e.world.Tagger()
		if t != nil && t.Alive && t.ID != proj.OwnerID &&
			e.currentMode().Detector().Within(t.Pos, proj.Target, e.cfg.ThrowRadius) {
			hit = t
			t.Stun(now, secs(e.cfg.NeutralizeStunSec))
		}
	}
	e.emit(ProjectileResolvedEvent{ID: proj.ID, Hit: hit != nil})
	if hit != nil {
		e.emit(TaggerNeutralizedEvent{TaggerID: hit.ID, ThrowerID: proj.OwnerID})
	}
}
