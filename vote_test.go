package main

import (
	"math/rand/v2"
	"testing"
)

var ballot = []string{ModeTag, ModeHunt}

func TestVoteBoxMajority(t *testing.T) {
	v := NewVoteBox(ballot)
	v.Cast("a", ModeHunt)
	v.Cast("b", ModeHunt)
	v.Cast("c", ModeTag)
	got, ok := v.Resolve(nil)
	if !ok || got != ModeHunt {
		t.Errorf("expected hunt, got %q", got)
	}
}

func TestVoteBoxTieGoesToFirstToReach(t *testing.T) {
	v := NewVoteBox(ballot)
	v.Cast("a", ModeHunt)
	v.Cast("b", ModeTag)
	v.Cast("c", ModeHunt) // hunt reaches 2 first
	v.Cast("d", ModeTag)
	if got, _ := v.Resolve(nil); got != ModeHunt {
		t.Errorf("expected hunt to win the tie, got %q", got)
	}
}

func TestVoteBoxChangedVote(t *testing.T) {
	v := NewVoteBox(ballot)
	v.Cast("a", ModeTag)
	v.Cast("b", ModeTag)
	v.Cast("c", ModeHunt)
	v.Cast("d", ModeHunt)
	v.Cast("b", ModeHunt) // tag drops to 1, hunt to 3
	if c := v.Counts(); c[ModeTag] != 1 || c[ModeHunt] != 3 {
		t.Fatalf("unexpected counts %v", c)
	}
	v.Withdraw("b")
	v.Cast("c", ModeTag) // tag 2 reached now, hunt back to 1
	if got, _ := v.Resolve(nil); got != ModeTag {
		t.Errorf("expected tag, got %q", got)
	}
	if v.Cast("c", ModeTag) {
		t.Error("repeating the same vote should report no change")
	}
	if v.Cast("c", "chess") {
		t.Error("unknown mode should be refused")
	}
}

func TestVoteBoxNoVotes(t *testing.T) {
	v := NewVoteBox(ballot)
	if got, ok := v.Resolve(nil); !ok || got != ModeTag {
		t.Errorf("expected first mode, got %q", got)
	}
	got, ok := v.Resolve(func(m string) bool { return m != ModeTag })
	if !ok || got != ModeHunt {
		t.Errorf("expected first eligible mode, got %q", got)
	}
	if _, ok := v.Resolve(func(string) bool { return false }); ok {
		t.Error("nothing eligible should report false")
	}
}

func TestVoteBoxIneligibleWinnerSkipped(t *testing.T) {
	v := NewVoteBox(ballot)
	v.Cast("a", ModeHunt)
	v.Cast("b", ModeHunt)
	got, _ := v.Resolve(func(m string) bool { return m == ModeTag })
	if got != ModeTag {
		t.Errorf("expected the only eligible mode, got %q", got)
	}
}

func TestVoteBoxSumMatchesVoters(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	v := NewVoteBox(ballot)
	voters := []string{"a", "b", "c", "d", "e"}
	for i := 0; i < 500; i++ {
		id := voters[r.IntN(len(voters))]
		if r.IntN(4) == 0 {
			v.Withdraw(id)
		} else {
			v.Cast(id, ballot[r.IntN(len(ballot))])
		}
		sum := 0
		for _, n := range v.Counts() {
			if n < 0 {
				t.Fatalf("negative count at step %d", i)
			}
			sum += n
		}
		if sum != v.Total() {
			t.Fatalf("step %d: tally sum %d != voters %d", i, sum, v.Total())
		}
	}
}
