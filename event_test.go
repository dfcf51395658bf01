package main

import "testing"

func TestEventKindsAndAudience(t *testing.T) {
	tests := []struct {
		ev     Event
		kind   string
		target string
	}{
		{PlayerUpdateEvent{ID: "p1"}, MsgPlayerUpdate, ""},
		{PlayerRemovedEvent{ID: "p1"}, MsgPlayerRemoved, ""},
		{ItemConsumedEvent{ItemID: "i1"}, MsgItemConsumed, ""},
		{ItemRespawnedEvent{}, MsgItemRespawned, ""},
		{RoleChangedEvent{NewTagger: "p1"}, MsgRoleChanged, ""},
		{DamageEvent{TargetID: "p1"}, MsgDamage, ""},
		{EliminatedEvent{ID: "p1"}, MsgEliminated, ""},
		{PhaseChangedEvent{Phase: PhaseVoting}, MsgPhaseChanged, ""},
		{VoteTallyEvent{}, MsgVoteTally, ""},
		{RoundEndedEvent{}, MsgRoundEnded, ""},
		{AbilityGrantedEvent{PlayerID: "p2"}, MsgAbilityGranted, "p2"},
		{ProjectileSpawnedEvent{}, MsgProjectileSpawned, ""},
		{ProjectileResolvedEvent{}, MsgProjectileResolved, ""},
		{TaggerNeutralizedEvent{}, MsgTaggerNeutralized, ""},
	}
	for _, tt := range tests {
		if got := tt.ev.Type(); got != tt.kind {
			t.Errorf("%T: type %q, want %q", tt.ev, got, tt.kind)
		}
		if got := tt.ev.Target(); got != tt.target {
			t.Errorf("%T: target %q, want %q", tt.ev, got, tt.target)
		}
	}
}

func TestTargetedEventReachesOnlyTarget(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	a, sa := joinPlayer(t, e, "Ana")
	_, sb := joinPlayer(t, e, "Bo")

	e.emit(AbilityGrantedEvent{PlayerID: a, Items: 3})
	if sa.count(MsgAbilityGranted) != 1 {
		t.Error("target should receive abilityGranted")
	}
	if sb.count(MsgAbilityGranted) != 0 {
		t.Error("abilityGranted leaked to another player")
	}
}
