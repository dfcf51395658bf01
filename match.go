package main

import (
	"math"
	"time"
)

// Phase is the round lifecycle state
type Phase string

const (
	PhaseWaiting   Phase = "WAITING"
	PhaseVoting    Phase = "VOTING"
	PhaseCountdown Phase = "COUNTDOWN"
	PhasePlaying   Phase = "PLAYING"
	PhaseEnded     Phase = "ENDED"
)

// Round end reasons
const (
	ReasonTime       = "time"
	ReasonEliminated = "eliminated"
	ReasonEscaped    = "escaped"
	ReasonForfeit    = "forfeit"
)

// WinnerEvaders is reported when a hunt round runs out the clock
const WinnerEvaders = "evaders"

// PhaseState holds the current phase and its timers. Epoch increases on
// every transition; scheduled phase tasks from an older epoch are stale.
type PhaseState struct {
	Phase      Phase
	EnteredAt  time.Time
	Deadline   time.Time
	Countdown  int
	Mode       string
	RoundStart time.Time
	Winner     string
	Votes      *VoteBox
	Epoch      uint64
}

// NewPhaseState starts in WAITING
func NewPhaseState() PhaseState {
	return PhaseState{Phase: PhaseWaiting}
}

func (ps *PhaseState) enter(phase Phase, now time.Time) {
	ps.Phase = phase
	ps.EnteredAt = now
	ps.Deadline = time.Time{}
	ps.Countdown = 0
	ps.Epoch++
}

// ToState converts to protocol state
func (ps *PhaseState) ToState(now time.Time) PhaseInfo {
	info := PhaseInfo{Phase: ps.Phase, Mode: ps.Mode}
	if !ps.Deadline.IsZero() {
		info.TimeLeft = round2(math.Max(0, ps.Deadline.Sub(now).Seconds()))
	}
	switch ps.Phase {
	case PhaseVoting:
		if ps.Votes != nil {
			info.Tally = ps.Votes.Counts()
		}
	case PhaseCountdown:
		info.Countdown = ps.Countdown
	case PhaseEnded:
		info.Winner = ps.Winner
	}
	return info
}

func (e *Engine) emitPhase(now time.Time) {
	ps := e.world.Phase()
	e.emit(PhaseChangedEvent{Phase: ps.Phase, Payload: ps.ToState(now)})
}

func (e *Engine) schedulePhase(kind taskKind, at time.Time) {
	e.sched.Schedule(scheduledTask{At: at, Kind: kind, Epoch: e.world.Phase().Epoch})
}

// currentMode returns the rules for the round being set up or played
func (e *Engine) currentMode() ModeDef {
	if m, ok := e.cfg.Mode(e.world.Phase().Mode); ok {
		return m
	}
	return e.cfg.Modes[0]
}

func (e *Engine) enterWaiting(now time.Time) {
	ps := e.world.Phase()
	ps.enter(PhaseWaiting, now)
	ps.Mode = ""
	ps.Winner = ""
	ps.Votes = nil
	for _, p := range e.world.players {
		p.Role = RoleNone
		p.HasWeapon = false
		p.Participant = false
		p.Alive = true
		p.HP = p.MaxHP
	}
	e.emitPhase(now)
	e.populationChanged(now)
}

func (e *Engine) enterVoting(now time.Time) {
	ps := e.world.Phase()
	ps.enter(PhaseVoting, now)
	ps.Deadline = now.Add(secs(e.cfg.VoteDurationSec))
	names := make([]string, 0, len(e.cfg.Modes))
	for _, m := range e.cfg.Modes {
		names = append(names, m.Name)
	}
	ps.Votes = NewVoteBox(names)
	e.schedulePhase(taskVoteDeadline, ps.Deadline)
	e.emitPhase(now)
}

// resolveVote closes the ballot. Modes needing more players than are
// connected cannot win; if none qualifies the lobby starts over.
func (e *Engine) resolveVote(now time.Time) {
	ps := e.world.Phase()
	if ps.Phase != PhaseVoting {
		return
	}
	count := e.world.ConnectedCount()
	winner, ok := ps.Votes.Resolve(func(name string) bool {
		m, found := e.cfg.Mode(name)
		return found && m.MinPlayers <= count
	})
	if !ok {
		debugf("vote: no mode playable with %d players", count)
		e.enterWaiting(now)
		return
	}
	ps.Mode = winner
	e.enterCountdown(now)
}

func (e *Engine) enterCountdown(now time.Time) {
	ps := e.world.Phase()
	ps.enter(PhaseCountdown, now)
	ps.Votes = nil
	ps.Countdown = e.cfg.CountdownSeconds
	if ps.Countdown <= 0 {
		e.enterPlaying(now)
		return
	}
	e.emitPhase(now)
	e.schedulePhase(taskCountdownTick, now.Add(time.Second))
}

func (e *Engine) countdownTick(t scheduledTask) {
	ps := e.world.Phase()
	ps.Countdown--
	if ps.Countdown <= 0 {
		e.enterPlaying(t.At)
		return
	}
	e.emitPhase(t.At)
	e.schedulePhase(taskCountdownTick, t.At.Add(time.Second))
}

func (e *Engine) enterPlaying(now time.Time) {
	ps := e.world.Phase()
	mode := e.currentMode()
	ps.enter(PhasePlaying, now)
	ps.RoundStart = now
	ps.Deadline = now.Add(secs(e.cfg.RoundLengthSec))
	ps.Winner = ""

	for _, p := range e.world.players {
		p.ResetForRound(mode.MaxHP)
	}
	e.world.ClearCollectibles()
	for i := 0; i < e.cfg.ItemCount; i++ {
		e.world.UpsertCollectible(e.randomCollectible())
	}
	e.lastAccrue = now
	e.schedulePhase(taskRoundDeadline, ps.Deadline)
	e.emitPhase(now)

	if mode.RequiresTagger {
		ids := e.world.SortedPlayerIDs()
		if len(ids) > 0 {
			t := e.world.players[ids[e.rng.IntN(len(ids))]]
			t.Role = RoleTagger
			t.HasWeapon = true
			e.emit(RoleChangedEvent{NewTagger: t.ID})
		}
	}
	e.checkTerminal(now)
}

// participants returns the players taking part in the current round
func (e *Engine) participants() []*Player {
	out := make([]*Player, 0, len(e.world.players))
	for _, id := range e.world.SortedPlayerIDs() {
		if p := e.world.players[id]; p.Participant {
			out = append(out, p)
		}
	}
	return out
}

// checkTerminal ends the round when its outcome is decided
func (e *Engine) checkTerminal(now time.Time) {
	ps := e.world.Phase()
	if ps.Phase != PhasePlaying {
		return
	}
	parts := e.participants()
	if len(parts) < 2 {
		winner := ""
		if len(parts) == 1 {
			winner = parts[0].ID
		}
		e.endRound(now, winner, ReasonForfeit)
		return
	}
	mode := e.currentMode()
	if mode.Damage && mode.RequiresTagger {
		tagger := e.world.Tagger()
		if tagger == nil || !tagger.Alive {
			// a tagger killed by hazards cannot act again
			e.endRound(now, WinnerEvaders, ReasonEliminated)
			return
		}
		alive := 0
		for _, p := range parts {
			if p.Role == RoleEvader && p.Alive {
				alive++
			}
		}
		if alive == 0 {
			e.endRound(now, tagger.ID, ReasonEliminated)
		}
	}
}

func (e *Engine) roundDeadline(now time.Time) {
	e.accrue(now)
	mode := e.currentMode()
	if mode.Damage {
		e.endRound(now, WinnerEvaders, ReasonTime)
		return
	}
	var best *Player
	for _, p := range e.participants() {
		if best == nil || p.TaggerTime < best.TaggerTime {
			best = p
		}
	}
	winner := ""
	if best != nil {
		winner = best.ID
	}
	e.endRound(now, winner, ReasonTime)
}

func (e *Engine) endRound(now time.Time, winner, reason string) {
	e.accrue(now)
	ps := e.world.Phase()
	mode := ps.Mode
	started := ps.RoundStart
	ps.enter(PhaseEnded, now)
	ps.Winner = winner
	ps.Deadline = now.Add(secs(e.cfg.EndedDisplaySec))
	e.schedulePhase(taskEndedDone, ps.Deadline)

	if e.recorder != nil {
		e.recorder.Record(e.roundResult(mode, winner, reason, started, now))
	}
	e.emitPhase(now)
	e.emit(RoundEndedEvent{Winner: winner, Reason: reason, Mode: mode})
}

func (e *Engine) roundResult(mode, winner, reason string, started, now time.Time) RoundResult {
	r := RoundResult{
		Mode:     mode,
		Winner:   winner,
		Reason:   reason,
		Duration: now.Sub(started).Seconds(),
		EndedAt:  now,
	}
	for _, p := range e.participants() {
		r.Players = append(r.Players, RoundPlayer{
			Name:       p.Name,
			Rank:       p.Rank,
			Role:       string(p.Role),
			Items:      p.Items,
			TaggerTime: p.TaggerTime,
			Alive:      p.Alive,
			Winner:     p.ID == winner,
		})
	}
	return r
}

// populationChanged re-evaluates the phase after a join or leave
func (e *Engine) populationChanged(now time.Time) {
	ps := e.world.Phase()
	count := e.world.ConnectedCount()
	switch ps.Phase {
	case PhaseWaiting:
		if count >= e.cfg.MinPlayers {
			e.enterVoting(now)
		}
	case PhaseVoting:
		if count < e.cfg.MinPlayers {
			e.enterWaiting(now)
		} else if ps.Votes.Total() >= count {
			e.resolveVote(now)
		}
	case PhaseCountdown:
		if count < e.currentMode().MinPlayers || count < e.cfg.MinPlayers {
			e.enterWaiting(now)
		}
	case PhasePlaying:
		e.checkTerminal(now)
	}
}
