package main

import (
	"sync"
	"testing"
)

type memStore struct {
	mu      sync.Mutex
	batches [][]RoundResult
}

func (m *memStore) RecordRounds(results []RoundResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, append([]RoundResult(nil), results...))
	return nil
}

func TestRecorderFlushesOnStop(t *testing.T) {
	store := &memStore{}
	r := NewRecorder(store)
	r.Record(RoundResult{Mode: ModeTag})
	r.Record(RoundResult{Mode: ModeHunt})
	r.Stop()

	total := 0
	for _, b := range store.batches {
		total += len(b)
	}
	if total != 2 {
		t.Errorf("expected 2 results written, got %d", total)
	}
	if written, dropped := r.Stats(); written != 2 || dropped != 0 {
		t.Errorf("unexpected stats %d/%d", written, dropped)
	}
}

func TestRecorderWritesToSQLite(t *testing.T) {
	db := openTestDB(t)
	r := NewRecorder(db)
	r.Record(RoundResult{Mode: ModeTag, Players: []RoundPlayer{{Name: "Ana"}}})
	r.Stop()

	rounds, err := db.RecentRounds(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rounds) != 1 || rounds[0].Players[0].Name != "Ana" {
		t.Errorf("unexpected rounds %+v", rounds)
	}
}
