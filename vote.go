package main

import (
	"fmt"
	"time"
)

// VoteBox tallies one voting phase. Each identity holds at most one vote;
// a new vote replaces the previous one.
type VoteBox struct {
	modes   []string
	votes   map[string]string
	counts  map[string]int
	reached map[string][]uint64 // reached[mode][k-1]: sequence at which the tally first hit k
	seq     uint64
}

// NewVoteBox opens a ballot over the modes, in proposal order
func NewVoteBox(modes []string) *VoteBox {
	v := &VoteBox{
		modes:   append([]string(nil), modes...),
		votes:   make(map[string]string),
		counts:  make(map[string]int),
		reached: make(map[string][]uint64),
	}
	for _, m := range modes {
		v.counts[m] = 0
	}
	return v
}

func (v *VoteBox) valid(mode string) bool {
	_, ok := v.counts[mode]
	return ok
}

// Cast records identity's vote. It returns false if the mode is not on the
// ballot or the vote does not change anything.
func (v *VoteBox) Cast(identity, mode string) bool {
	if !v.valid(mode) {
		return false
	}
	prev, had := v.votes[identity]
	if had && prev == mode {
		return false
	}
	if had {
		v.decrement(prev)
	}
	v.votes[identity] = mode
	v.seq++
	v.counts[mode]++
	v.reached[mode] = append(v.reached[mode], v.seq)
	return true
}

// Withdraw removes identity's vote, if any
func (v *VoteBox) Withdraw(identity string) bool {
	prev, had := v.votes[identity]
	if !had {
		return false
	}
	delete(v.votes, identity)
	v.decrement(prev)
	return true
}

func (v *VoteBox) decrement(mode string) {
	v.counts[mode]--
	v.reached[mode] = v.reached[mode][:v.counts[mode]]
}

// Voted reports whether identity has a vote on record
func (v *VoteBox) Voted(identity string) bool {
	_, ok := v.votes[identity]
	return ok
}

// Total returns the number of votes on record
func (v *VoteBox) Total() int {
	return len(v.votes)
}

// Counts returns a copy of the tally, including modes with no votes
func (v *VoteBox) Counts() map[string]int {
	out := make(map[string]int, len(v.counts))
	for m, n := range v.counts {
		out[m] = n
	}
	return out
}

// Resolve picks the winning mode among those eligible. The highest tally
// wins; a tie goes to the mode that reached the tied count first. With no
// votes at all the first eligible mode in proposal order wins.
func (v *VoteBox) Resolve(eligible func(string) bool) (string, bool) {
	best := ""
	bestCount := 0
	var bestAt uint64
	found := false
	for _, m := range v.modes {
		if eligible != nil && !eligible(m) {
			continue
		}
		n := v.counts[m]
		if !found {
			best, bestCount, found = m, n, true
			if n > 0 {
				bestAt = v.reached[m][n-1]
			}
			continue
		}
		if n == 0 {
			continue
		}
		at := v.reached[m][n-1]
		if n > bestCount || (n == bestCount && at < bestAt) {
			best, bestCount, bestAt = m, n, at
		}
	}
	return best, found
}

// handleVote applies a vote intent during VOTING
func (e *Engine) handleVote(p *Player, in VoteIntent, now time.Time) error {
	ps := e.world.Phase()
	if ps.Phase != PhaseVoting || ps.Votes == nil {
		return fmt.Errorf("vote during %s: %w", ps.Phase, ErrIllegalInState)
	}
	if _, ok := e.cfg.Mode(in.Mode); !ok {
		return fmt.Errorf("vote for unknown mode %q: %w", in.Mode, ErrIllegalInState)
	}
	if ps.Votes.Cast(p.ID, in.Mode) {
		e.emit(VoteTallyEvent{Counts: ps.Votes.Counts()})
	}
	if ps.Votes.Total() >= e.world.ConnectedCount() {
		e.resolveVote(now)
	}
	return nil
}
