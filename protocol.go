package main

import "encoding/json"

// Client -> Server message types
const (
	MsgRegister = "register"
	MsgMove     = "move"
	MsgAttack   = "attack"
	MsgCollect  = "collect"
	MsgThrow    = "throw"
	MsgVote     = "vote"
)

// Server -> Client message types
const (
	MsgInit               = "init"
	MsgState              = "stateSnapshot"
	MsgPlayerUpdate       = "playerUpdate"
	MsgPlayerRemoved      = "playerRemoved"
	MsgItemConsumed       = "itemConsumed"
	MsgItemRespawned      = "itemRespawned"
	MsgRoleChanged        = "roleChanged"
	MsgDamage             = "damage"
	MsgEliminated         = "eliminated"
	MsgPhaseChanged       = "phaseChanged"
	MsgVoteTally          = "voteTally"
	MsgRoundEnded         = "roundEnded"
	MsgAbilityGranted     = "abilityGranted"
	MsgProjectileSpawned  = "projectileSpawned"
	MsgProjectileResolved = "projectileResolved"
	MsgTaggerNeutralized  = "taggerNeutralized"
	MsgError              = "error"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// RegisterMsg claims an identity. Password or token are optional.
type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`
	Binary   bool   `json:"binary,omitempty"` // msgpack snapshots
}

// MoveMsg requests a new position
type MoveMsg struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	Z *float64 `json:"z"`
}

// AttackMsg optionally names a target
type AttackMsg struct {
	TargetID string `json:"targetId,omitempty"`
}

// CollectMsg names the item to pick up
type CollectMsg struct {
	ItemID string `json:"itemId"`
}

// ThrowMsg launches the special ability projectile
type ThrowMsg struct {
	Origin *Vec3 `json:"origin"`
	Target *Vec3 `json:"target"`
}

// VoteMsg votes for a mode during VOTING
type VoteMsg struct {
	Mode string `json:"mode"`
}

// PlayerState is broadcast per player each snapshot
type PlayerState struct {
	ID         string  `json:"id" msgpack:"id"`
	Name       string  `json:"n" msgpack:"n"`
	X          float64 `json:"x" msgpack:"x"`
	Y          float64 `json:"y" msgpack:"y"`
	Z          float64 `json:"z" msgpack:"z"`
	Role       Role    `json:"role" msgpack:"role"`
	HP         int     `json:"hp" msgpack:"hp"`
	MaxHP      int     `json:"mhp" msgpack:"mhp"`
	Alive      bool    `json:"a" msgpack:"a"`
	Items      int     `json:"items" msgpack:"items"`
	TaggerTime float64 `json:"tt" msgpack:"tt"`
	Stunned    bool    `json:"stun,omitempty" msgpack:"stun,omitempty"`
	Rank       string  `json:"rank,omitempty" msgpack:"rank,omitempty"`
}

// ItemState is broadcast per collectible
type ItemState struct {
	ID   string          `json:"id" msgpack:"id"`
	X    float64         `json:"x" msgpack:"x"`
	Y    float64         `json:"y" msgpack:"y"`
	Z    float64         `json:"z" msgpack:"z"`
	Kind CollectibleKind `json:"kind" msgpack:"kind"`
}

// ProjectileState is broadcast per projectile in flight
type ProjectileState struct {
	ID       string  `json:"id" msgpack:"id"`
	Owner    string  `json:"o" msgpack:"o"`
	X        float64 `json:"x" msgpack:"x"`
	Y        float64 `json:"y" msgpack:"y"`
	Z        float64 `json:"z" msgpack:"z"`
	Origin   Vec3    `json:"origin" msgpack:"origin"`
	Target   Vec3    `json:"target" msgpack:"target"`
	Deadline int64   `json:"deadline" msgpack:"deadline"` // unix ms
}

// ObstacleState describes static geometry, sent once in init
type ObstacleState struct {
	ID  string `json:"id" msgpack:"id"`
	Min Vec3   `json:"min" msgpack:"min"`
	Max Vec3   `json:"max" msgpack:"max"`
}

// PhaseInfo is the phase block of a snapshot
type PhaseInfo struct {
	Phase     Phase          `json:"phase" msgpack:"phase"`
	Mode      string         `json:"mode,omitempty" msgpack:"mode,omitempty"`
	Countdown int            `json:"countdown,omitempty" msgpack:"countdown,omitempty"`
	TimeLeft  float64        `json:"timeLeft,omitempty" msgpack:"timeLeft,omitempty"`
	Tally     map[string]int `json:"tally,omitempty" msgpack:"tally,omitempty"`
	Winner    string         `json:"winner,omitempty" msgpack:"winner,omitempty"`
}

// WorldState is the full state broadcast
type WorldState struct {
	Players     []PlayerState     `json:"players" msgpack:"players"`
	Items       []ItemState       `json:"items" msgpack:"items"`
	Projectiles []ProjectileState `json:"projectiles" msgpack:"projectiles"`
	Phase       PhaseInfo         `json:"phase" msgpack:"phase"`
	Tick        uint64            `json:"tick" msgpack:"tick"`
}

// InitMsg is sent to a connection once its identity is registered
type InitMsg struct {
	SelfID    string          `json:"selfId"`
	Token     string          `json:"token,omitempty"`
	Rank      string          `json:"rank,omitempty"`
	Snapshot  WorldState      `json:"snapshot"`
	Obstacles []ObstacleState `json:"obstacles"`
	Modes     []string        `json:"modes"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}
