package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	inboxSize     = 1024
	maxPlayers    = 32
	spawnAttempts = 24
	maxNameLen    = 24
	itemClearance = 0.5
)

var errEngineStopped = errors.New("engine stopped")

// Sender delivers messages to one connection. Implementations must not block.
type Sender interface {
	SendJSON(msg interface{})
	SendRaw(data []byte)
	SendBinary(data []byte)
}

// RoundRecorder persists finished rounds
type RoundRecorder interface {
	Record(r RoundResult)
}

// JoinRequest admits a new identity into the world
type JoinRequest struct {
	Name   string
	Rank   string
	Token  string
	Binary bool
	Sender Sender
}

type joinCmd struct {
	req   JoinRequest
	reply chan joinResult
}

type joinResult struct {
	id  string
	err error
}

type leaveCmd struct {
	id string
}

type intentCmd struct {
	id     string
	intent Intent
}

// Engine owns the world. All mutation happens on the Run goroutine, which
// consumes joins, leaves and intents from one inbox in arrival order.
type Engine struct {
	cfg      Config
	world    *World
	sched    scheduler
	clients  map[string]Sender
	binary   map[string]bool
	inbox    chan any
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
	rng      *rand.Rand
	recorder RoundRecorder

	lastAccrue time.Time
}

// NewEngine creates an engine for the given config. rec may be nil.
func NewEngine(cfg Config, rec RoundRecorder) *Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Engine{
		cfg:      cfg,
		world:    NewWorld(NewObstacles(cfg.Obstacles)),
		clients:  make(map[string]Sender),
		binary:   make(map[string]bool),
		inbox:    make(chan any, inboxSize),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		now:      time.Now,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		recorder: rec,
	}
}

// Run processes the inbox, due timers and the broadcast cadence until Stop
func (e *Engine) Run() {
	defer close(e.done)
	ticker := time.NewTicker(e.cfg.BroadcastInterval())
	defer ticker.Stop()
	wake := time.NewTimer(time.Hour)
	defer wake.Stop()

	for {
		select {
		case cmd := <-e.inbox:
			e.handle(cmd)
		case <-wake.C:
			e.advance(e.now())
		case <-ticker.C:
			now := e.now()
			e.advance(now)
			e.broadcastState(now)
		case <-e.stop:
			return
		}
		e.rearm(wake)
	}
}

// rearm points the wake timer at the next scheduled task
func (e *Engine) rearm(wake *time.Timer) {
	next, ok := e.sched.Next()
	if !ok {
		wake.Reset(time.Hour)
		return
	}
	d := next.Sub(e.now())
	if d < 0 {
		d = 0
	}
	wake.Reset(d)
}

// Stop terminates the run loop
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stop) })
}

func (e *Engine) enqueue(cmd any) error {
	select {
	case e.inbox <- cmd:
		return nil
	case <-e.done:
		return errEngineStopped
	}
}

// Join registers a connection and returns its identity
func (e *Engine) Join(req JoinRequest) (string, error) {
	reply := make(chan joinResult, 1)
	if err := e.enqueue(joinCmd{req: req, reply: reply}); err != nil {
		return "", err
	}
	select {
	case r := <-reply:
		return r.id, r.err
	case <-e.done:
		return "", errEngineStopped
	}
}

// Leave removes an identity; unknown ids are ignored
func (e *Engine) Leave(id string) {
	if err := e.enqueue(leaveCmd{id: id}); err != nil {
		debugf("leave %s: %v", id, err)
	}
}

// Submit queues an intent from a registered identity
func (e *Engine) Submit(id string, in Intent) {
	if err := e.enqueue(intentCmd{id: id, intent: in}); err != nil {
		debugf("submit %s: %v", id, err)
	}
}

func (e *Engine) handle(cmd any) {
	now := e.now()
	e.advance(now)
	switch c := cmd.(type) {
	case joinCmd:
		id, err := e.handleJoin(c.req, now)
		c.reply <- joinResult{id: id, err: err}
	case leaveCmd:
		e.handleLeave(c.id, now)
	case intentCmd:
		if err := e.apply(c.id, c.intent, now); err != nil {
			debugf("intent %s from %s: %v", c.intent.intentKind(), c.id, err)
			if errors.Is(err, ErrUnknownIdentity) {
				return
			}
			if s, ok := e.clients[c.id]; ok && !errors.Is(err, ErrIllegalInState) && !errors.Is(err, ErrBlocked) {
				s.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
			}
		}
	default:
		log.Printf("engine: unknown command %T", cmd)
	}
}

// apply routes one intent to its handler. The switch must cover every Intent.
func (e *Engine) apply(id string, in Intent, now time.Time) error {
	p, ok := e.world.players[id]
	if !ok {
		return fmt.Errorf("identity %s: %w", id, ErrUnknownIdentity)
	}
	switch in := in.(type) {
	case MoveIntent:
		return e.handleMove(p, in, now)
	case AttackIntent:
		return e.handleAttack(p, in, now)
	case CollectIntent:
		return e.handleCollect(p, in, now)
	case ThrowIntent:
		return e.handleThrow(p, in, now)
	case VoteIntent:
		return e.handleVote(p, in, now)
	case RegisterIntent:
		return fmt.Errorf("already registered: %w", ErrIllegalInState)
	}
	return malformed(fmt.Sprintf("%T", in), "unhandled intent")
}

// advance accrues tagger time and runs every task due at now
func (e *Engine) advance(now time.Time) {
	e.accrue(now)
	for {
		t, ok := e.sched.PopDue(now)
		if !ok {
			return
		}
		e.runTask(t, now)
	}
}

func (e *Engine) runTask(t scheduledTask, now time.Time) {
	ps := e.world.Phase()
	switch t.Kind {
	case taskProjectile:
		e.resolveProjectile(t.Ref, t.At)
		return
	case taskItemRespawn:
		if t.Epoch == ps.Epoch && ps.Phase == PhasePlaying {
			e.respawnItem()
		}
		return
	}
	if t.Epoch != ps.Epoch {
		return
	}
	switch t.Kind {
	case taskVoteDeadline:
		e.resolveVote(t.At)
	case taskCountdownTick:
		e.countdownTick(t)
	case taskRoundDeadline:
		e.roundDeadline(t.At)
	case taskEndedDone:
		e.enterWaiting(t.At)
	}
}

// accrue credits elapsed time to the current tagger
func (e *Engine) accrue(now time.Time) {
	if e.world.Phase().Phase == PhasePlaying && now.After(e.lastAccrue) {
		if t := e.world.Tagger(); t != nil && t.Participant {
			t.TaggerTime += now.Sub(e.lastAccrue).Seconds()
		}
	}
	if now.After(e.lastAccrue) {
		e.lastAccrue = now
	}
}

func (e *Engine) handleJoin(req JoinRequest, now time.Time) (string, error) {
	if len(e.world.players) >= maxPlayers {
		return "", fmt.Errorf("world full (%d players): %w", maxPlayers, ErrIllegalInState)
	}
	name := req.Name
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	id := GenerateID("p")
	p := NewPlayer(id, name, e.spawnPoint(), e.currentMode().MaxHP)
	p.Rank = req.Rank
	if err := e.world.AddPlayer(p); err != nil {
		return "", err
	}
	if req.Sender != nil {
		e.clients[id] = req.Sender
		e.binary[id] = req.Binary
	}

	obstacles := make([]ObstacleState, 0, len(e.world.obstacles))
	for _, o := range e.world.obstacles {
		obstacles = append(obstacles, o.ToState())
	}
	modes := make([]string, 0, len(e.cfg.Modes))
	for _, m := range e.cfg.Modes {
		modes = append(modes, m.Name)
	}
	if req.Sender != nil {
		req.Sender.SendJSON(Envelope{T: MsgInit, Data: InitMsg{
			SelfID:    id,
			Token:     req.Token,
			Rank:      req.Rank,
			Snapshot:  e.world.Snapshot(now),
			Obstacles: obstacles,
			Modes:     modes,
		}})
	}
	log.Printf("player %s (%s) joined, %d connected", name, id, len(e.world.players))
	e.emit(playerUpdate(p))
	e.populationChanged(now)
	return id, nil
}

func (e *Engine) handleLeave(id string, now time.Time) {
	e.accrue(now)
	p, err := e.world.RemovePlayer(id)
	if err != nil {
		return
	}
	delete(e.clients, id)
	delete(e.binary, id)
	log.Printf("player %s (%s) left, %d connected", p.Name, id, len(e.world.players))

	ps := e.world.Phase()
	if ps.Phase == PhaseVoting && ps.Votes.Withdraw(id) {
		e.emit(VoteTallyEvent{Counts: ps.Votes.Counts()})
	}
	e.emit(PlayerRemovedEvent{ID: id})
	if ps.Phase == PhasePlaying && p.Role == RoleTagger {
		e.reassignTagger(id)
	}
	e.populationChanged(now)
}

// spawnPoint picks a random unblocked ground position
func (e *Engine) spawnPoint() Vec3 {
	r := e.cfg.WorldHalfSize * 0.8
	var pos Vec3
	for i := 0; i < spawnAttempts; i++ {
		pos = Vec3{X: (e.rng.Float64()*2 - 1) * r, Z: (e.rng.Float64()*2 - 1) * r}
		if !MoveBlocked(e.world, "", pos, e.cfg.PlayerHalfExtents) {
			return pos
		}
	}
	return pos
}

// ceiling returns the highest y a player may occupy
func (e *Engine) ceiling(p *Player) float64 {
	if p.Rank != "" {
		return e.cfg.RankCeiling
	}
	return e.cfg.GroundCeiling
}

func (e *Engine) clampToWorld(v Vec3, top float64) Vec3 {
	h := e.cfg.WorldHalfSize
	return Vec3{X: Clamp(v.X, -h, h), Y: Clamp(v.Y, 0, top), Z: Clamp(v.Z, -h, h)}
}

func (e *Engine) handleMove(p *Player, in MoveIntent, now time.Time) error {
	ps := e.world.Phase()
	if ps.Phase == PhaseCountdown {
		return fmt.Errorf("move during countdown: %w", ErrIllegalInState)
	}
	if !p.Alive {
		return fmt.Errorf("move while eliminated: %w", ErrIllegalInState)
	}
	if p.Stunned(now) {
		return fmt.Errorf("move while stunned: %w", ErrIllegalInState)
	}
	if !finite(in.Pos) {
		return malformed(MsgMove, "non-finite position")
	}
	pos := e.clampToWorld(in.Pos, e.ceiling(p))
	if MoveBlocked(e.world, p.ID, pos, e.cfg.PlayerHalfExtents) {
		return fmt.Errorf("move to %.2f,%.2f,%.2f: %w", pos.X, pos.Y, pos.Z, ErrBlocked)
	}
	if pos == p.Pos {
		return nil
	}
	p.Pos = pos
	e.emit(playerUpdate(p))
	return nil
}

func (e *Engine) randomCollectible() *Collectible {
	kind := KindValue
	if e.rng.Float64() < e.cfg.HazardShare {
		kind = KindHazard
	}
	h := e.cfg.WorldHalfSize * 0.9
	det := Detector{Metric: MetricPlanar}
	var pos Vec3
	for i := 0; i < spawnAttempts; i++ {
		pos = Vec3{X: (e.rng.Float64()*2 - 1) * h, Y: 0.5, Z: (e.rng.Float64()*2 - 1) * h}
		// keep items off walls and out of each other's pickup range
		if det.NearestObstacle(e.world.obstacles, pos, itemClearance) == nil &&
			det.NearestCollectible(e.world.items, pos, e.cfg.PickupRange) == nil {
			break
		}
	}
	return NewCollectible(pos, kind)
}

func (e *Engine) respawnItem() {
	c := e.randomCollectible()
	e.world.UpsertCollectible(c)
	e.emit(ItemRespawnedEvent{Item: c.ToState()})
}

// emit delivers an event to its audience: one player or everyone
func (e *Engine) emit(ev Event) {
	env := Envelope{T: ev.Type(), Data: ev}
	if to := ev.Target(); to != "" {
		if s, ok := e.clients[to]; ok {
			s.SendJSON(env)
		}
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("marshal %s: %v", ev.Type(), err)
		return
	}
	for _, s := range e.clients {
		s.SendRaw(data)
	}
}

// broadcastState sends the full snapshot, JSON or msgpack per connection
func (e *Engine) broadcastState(now time.Time) {
	if len(e.clients) == 0 {
		return
	}
	e.world.tick++
	state := e.world.Snapshot(now)

	var jsonData, binData []byte
	for id, s := range e.clients {
		if e.binary[id] {
			if binData == nil {
				b, err := msgpack.Marshal(state)
				if err != nil {
					log.Printf("msgpack state: %v", err)
					continue
				}
				binData = b
			}
			s.SendBinary(binData)
			continue
		}
		if jsonData == nil {
			b, err := json.Marshal(Envelope{T: MsgState, Data: state})
			if err != nil {
				log.Printf("marshal state: %v", err)
				return
			}
			jsonData = b
		}
		s.SendRaw(jsonData)
	}
}
