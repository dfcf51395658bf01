package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Intent is a decoded client request. The set of implementations is closed:
// every kind the engine handles is listed here and matched in Engine.apply.
type Intent interface {
	intentKind() string
}

type RegisterIntent struct {
	Username string
	Password string
	Token    string
	Binary   bool
}

type MoveIntent struct {
	Pos Vec3
}

type AttackIntent struct {
	TargetID string // optional
}

type CollectIntent struct {
	ItemID string
}

type ThrowIntent struct {
	Origin Vec3
	Target Vec3
}

type VoteIntent struct {
	Mode string
}

func (RegisterIntent) intentKind() string { return MsgRegister }
func (MoveIntent) intentKind() string     { return MsgMove }
func (AttackIntent) intentKind() string   { return MsgAttack }
func (CollectIntent) intentKind() string  { return MsgCollect }
func (ThrowIntent) intentKind() string    { return MsgThrow }
func (VoteIntent) intentKind() string     { return MsgVote }

func malformed(kind, why string) error {
	return fmt.Errorf("%s: %s: %w", kind, why, ErrMalformedIntent)
}

// DecodeIntent parses one inbound frame into an Intent
func DecodeIntent(raw []byte) (Intent, error) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("envelope: %v: %w", err, ErrMalformedIntent)
	}
	data := env.D
	if len(data) == 0 {
		data = []byte("{}")
	}

	switch env.T {
	case MsgRegister:
		var msg RegisterMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, malformed(env.T, err.Error())
		}
		msg.Username = strings.TrimSpace(msg.Username)
		if msg.Username == "" && msg.Token == "" {
			return nil, malformed(env.T, "missing username")
		}
		return RegisterIntent{
			Username: msg.Username,
			Password: msg.Password,
			Token:    msg.Token,
			Binary:   msg.Binary,
		}, nil

	case MsgMove:
		var msg MoveMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, malformed(env.T, err.Error())
		}
		if msg.X == nil || msg.Y == nil || msg.Z == nil {
			return nil, malformed(env.T, "missing coordinate")
		}
		return MoveIntent{Pos: Vec3{X: *msg.X, Y: *msg.Y, Z: *msg.Z}}, nil

	case MsgAttack:
		var msg AttackMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, malformed(env.T, err.Error())
		}
		return AttackIntent{TargetID: msg.TargetID}, nil

	case MsgCollect:
		var msg CollectMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, malformed(env.T, err.Error())
		}
		if msg.ItemID == "" {
			return nil, malformed(env.T, "missing itemId")
		}
		return CollectIntent{ItemID: msg.ItemID}, nil

	case MsgThrow:
		var msg ThrowMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, malformed(env.T, err.Error())
		}
		if msg.Origin == nil || msg.Target == nil {
			return nil, malformed(env.T, "missing origin or target")
		}
		return ThrowIntent{Origin: *msg.Origin, Target: *msg.Target}, nil

	case MsgVote:
		var msg VoteMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, malformed(env.T, err.Error())
		}
		if msg.Mode == "" {
			return nil, malformed(env.T, "missing mode")
		}
		return VoteIntent{Mode: msg.Mode}, nil
	}
	return nil, malformed(env.T, "unknown kind")
}
