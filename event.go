package main

// Event is a discrete outbound state change. Target names the single
// recipient, or "" for everyone.
type Event interface {
	Type() string
	Target() string
	event()
}

type PlayerUpdateEvent struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

type PlayerRemovedEvent struct {
	ID string `json:"id"`
}

type ItemConsumedEvent struct {
	ItemID string `json:"itemId"`
	By     string `json:"by"`
}

type ItemRespawnedEvent struct {
	Item ItemState `json:"item"`
}

type RoleChangedEvent struct {
	OldTagger string `json:"oldTagger"`
	NewTagger string `json:"newTagger"`
	TaggedID  string `json:"taggedId,omitempty"`
}

type DamageEvent struct {
	TargetID string `json:"targetId"`
	HP       int    `json:"hp"`
	SourceID string `json:"sourceId,omitempty"`
}

type EliminatedEvent struct {
	ID string `json:"id"`
	By string `json:"by,omitempty"`
}

type PhaseChangedEvent struct {
	Phase   Phase     `json:"phase"`
	Payload PhaseInfo `json:"payload"`
}

type VoteTallyEvent struct {
	Counts map[string]int `json:"counts"`
}

type RoundEndedEvent struct {
	Winner string `json:"winner"`
	Reason string `json:"reason"`
	Mode   string `json:"mode"`
}

type AbilityGrantedEvent struct {
	PlayerID string `json:"-"`
	Items    int    `json:"items"`
}

type ProjectileSpawnedEvent struct {
	Projectile ProjectileState `json:"projectile"`
}

type ProjectileResolvedEvent struct {
	ID  string `json:"id"`
	Hit bool   `json:"hit"`
}

type TaggerNeutralizedEvent struct {
	TaggerID  string `json:"taggerId"`
	ThrowerID string `json:"throwerId"`
}

func (PlayerUpdateEvent) Type() string       { return MsgPlayerUpdate }
func (PlayerRemovedEvent) Type() string      { return MsgPlayerRemoved }
func (ItemConsumedEvent) Type() string       { return MsgItemConsumed }
func (ItemRespawnedEvent) Type() string      { return MsgItemRespawned }
func (RoleChangedEvent) Type() string        { return MsgRoleChanged }
func (DamageEvent) Type() string             { return MsgDamage }
func (EliminatedEvent) Type() string         { return MsgEliminated }
func (PhaseChangedEvent) Type() string       { return MsgPhaseChanged }
func (VoteTallyEvent) Type() string          { return MsgVoteTally }
func (RoundEndedEvent) Type() string         { return MsgRoundEnded }
func (AbilityGrantedEvent) Type() string     { return MsgAbilityGranted }
func (ProjectileSpawnedEvent) Type() string  { return MsgProjectileSpawned }
func (ProjectileResolvedEvent) Type() string { return MsgProjectileResolved }
func (TaggerNeutralizedEvent) Type() string  { return MsgTaggerNeutralized }

func (PlayerUpdateEvent) Target() string       { return "" }
func (PlayerRemovedEvent) Target() string      { return "" }
func (ItemConsumedEvent) Target() string       { return "" }
func (ItemRespawnedEvent) Target() string      { return "" }
func (RoleChangedEvent) Target() string        { return "" }
func (DamageEvent) Target() string             { return "" }
func (EliminatedEvent) Target() string         { return "" }
func (PhaseChangedEvent) Target() string       { return "" }
func (VoteTallyEvent) Target() string          { return "" }
func (RoundEndedEvent) Target() string         { return "" }
func (e AbilityGrantedEvent) Target() string   { return e.PlayerID }
func (ProjectileSpawnedEvent) Target() string  { return "" }
func (ProjectileResolvedEvent) Target() string { return "" }
func (TaggerNeutralizedEvent) Target() string  { return "" }

func (PlayerUpdateEvent) event()       {}
func (PlayerRemovedEvent) event()      {}
func (ItemConsumedEvent) event()       {}
func (ItemRespawnedEvent) event()      {}
func (RoleChangedEvent) event()        {}
func (DamageEvent) event()             {}
func (EliminatedEvent) event()         {}
func (PhaseChangedEvent) event()       {}
func (VoteTallyEvent) event()          {}
func (RoundEndedEvent) event()         {}
func (AbilityGrantedEvent) event()     {}
func (ProjectileSpawnedEvent) event()  {}
func (ProjectileResolvedEvent) event() {}
func (TaggerNeutralizedEvent) event()  {}

func playerUpdate(p *Player) PlayerUpdateEvent {
	return PlayerUpdateEvent{ID: p.ID, X: round2(p.Pos.X), Y: round2(p.Pos.Y), Z: round2(p.Pos.Z)}
}
