package main

// CollectibleKind distinguishes score items from hazards
type CollectibleKind string

const (
	KindValue  CollectibleKind = "value"
	KindHazard CollectibleKind = "hazard"
)

// Collectible is a consumable world item; being in the store means unconsumed
type Collectible struct {
	ID   string
	Pos  Vec3
	Kind CollectibleKind
}

// NewCollectible creates an item with a fresh id
func NewCollectible(pos Vec3, kind CollectibleKind) *Collectible {
	return &Collectible{
		ID:   GenerateID("i"),
		Pos:  pos,
		Kind: kind,
	}
}

// ToState converts to protocol state
func (c *Collectible) ToState() ItemState {
	return ItemState{
		ID:   c.ID,
		X:    round2(c.Pos.X),
		Y:    round2(c.Pos.Y),
		Z:    round2(c.Pos.Z),
		Kind: c.Kind,
	}
}
