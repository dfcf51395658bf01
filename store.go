package main

import (
	"fmt"
	"sort"
	"time"
)

// World is the entity store. It does no locking of its own: the engine's
// run goroutine is the only writer, and snapshots are taken on that goroutine.
type World struct {
	players     map[string]*Player
	items       map[string]*Collectible
	projectiles map[string]*Projectile
	obstacles   []*Obstacle
	phase       PhaseState
	tick        uint64
}

// NewWorld creates an empty world in the WAITING phase
func NewWorld(obstacles []*Obstacle) *World {
	return &World{
		players:     make(map[string]*Player),
		items:       make(map[string]*Collectible),
		projectiles: make(map[string]*Projectile),
		obstacles:   obstacles,
		phase:       NewPhaseState(),
	}
}

// Player returns a player by id
func (w *World) Player(id string) (*Player, error) {
	p, ok := w.players[id]
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return p, nil
}

// AddPlayer inserts a player, replacing nothing: ids are unique
func (w *World) AddPlayer(p *Player) error {
	if _, ok := w.players[p.ID]; ok {
		return fmt.Errorf("player %s already present", p.ID)
	}
	w.players[p.ID] = p
	return nil
}

// RemovePlayer drops a player and returns it
func (w *World) RemovePlayer(id string) (*Player, error) {
	p, ok := w.players[id]
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	delete(w.players, id)
	return p, nil
}

// UpsertCollectible inserts or replaces an item
func (w *World) UpsertCollectible(c *Collectible) {
	w.items[c.ID] = c
}

// Collectible returns an item by id
func (w *World) Collectible(id string) (*Collectible, error) {
	c, ok := w.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// RemoveCollectible consumes an item; a second removal reports NotFound
func (w *World) RemoveCollectible(id string) (*Collectible, error) {
	c, ok := w.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	delete(w.items, id)
	return c, nil
}

// ClearCollectibles removes every item
func (w *World) ClearCollectibles() {
	w.items = make(map[string]*Collectible)
}

// SpawnProjectile adds a projectile in flight
func (w *World) SpawnProjectile(p *Projectile) {
	w.projectiles[p.ID] = p
}

// RemoveProjectile removes a projectile; a second removal reports NotFound
func (w *World) RemoveProjectile(id string) (*Projectile, error) {
	p, ok := w.projectiles[id]
	if !ok {
		return nil, fmt.Errorf("projectile %s: %w", id, ErrNotFound)
	}
	delete(w.projectiles, id)
	return p, nil
}

// Phase returns the current phase state
func (w *World) Phase() *PhaseState {
	return &w.phase
}

// ConnectedCount returns the number of players in the world
func (w *World) ConnectedCount() int {
	return len(w.players)
}

// SortedPlayerIDs returns player ids in lexicographic order
func (w *World) SortedPlayerIDs() []string {
	ids := make([]string, 0, len(w.players))
	for id := range w.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Tagger returns the current tagger, if any
func (w *World) Tagger() *Player {
	for _, p := range w.players {
		if p.Role == RoleTagger {
			return p
		}
	}
	return nil
}

// Snapshot copies the world into protocol structs, sorted by id
func (w *World) Snapshot(now time.Time) WorldState {
	state := WorldState{
		Players:     make([]PlayerState, 0, len(w.players)),
		Items:       make([]ItemState, 0, len(w.items)),
		Projectiles: make([]ProjectileState, 0, len(w.projectiles)),
		Phase:       w.phase.ToState(now),
		Tick:        w.tick,
	}
	for _, id := range w.SortedPlayerIDs() {
		state.Players = append(state.Players, w.players[id].ToState(now))
	}
	for _, c := range w.items {
		state.Items = append(state.Items, c.ToState())
	}
	sort.Slice(state.Items, func(i, j int) bool { return state.Items[i].ID < state.Items[j].ID })
	for _, p := range w.projectiles {
		state.Projectiles = append(state.Projectiles, p.ToState(now))
	}
	sort.Slice(state.Projectiles, func(i, j int) bool { return state.Projectiles[i].ID < state.Projectiles[j].ID })
	return state
}
