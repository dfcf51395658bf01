package main

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

const (
	recorderQueue      = 256
	recorderBatch      = 32
	recorderFlushEvery = 5 * time.Second
)

// RoundResult is the outcome of one finished round
type RoundResult struct {
	Mode     string
	Winner   string
	Reason   string
	Duration float64 // seconds
	EndedAt  time.Time
	Players  []RoundPlayer
}

// RoundPlayer is one participant's line in a RoundResult
type RoundPlayer struct {
	Name       string
	Rank       string
	Role       string
	Items      int
	TaggerTime float64
	Alive      bool
	Winner     bool
}

// roundStore is the persistence the recorder writes to
type roundStore interface {
	RecordRounds(results []RoundResult) error
}

// Recorder persists round results with batched background writes
type Recorder struct {
	store   roundStore
	results chan RoundResult
	stop    chan struct{}
	wg      sync.WaitGroup

	written atomic.Int64
	dropped atomic.Int64
}

// NewRecorder creates and starts the background writer
func NewRecorder(store roundStore) *Recorder {
	r := &Recorder{
		store:   store,
		results: make(chan RoundResult, recorderQueue),
		stop:    make(chan struct{}),
	}
	r.wg.Add(1)
	go r.writer()
	return r
}

// Record enqueues a result (non-blocking)
func (r *Recorder) Record(res RoundResult) {
	select {
	case r.results <- res:
	default:
		// Queue full, drop rather than stall the engine
		r.dropped.Add(1)
	}
}

// Stop flushes pending results and stops the writer
func (r *Recorder) Stop() {
	close(r.stop)
	r.wg.Wait()
}

// Stats returns how many results were written and dropped
func (r *Recorder) Stats() (written, dropped int64) {
	return r.written.Load(), r.dropped.Load()
}

func (r *Recorder) writer() {
	defer r.wg.Done()

	batch := make([]RoundResult, 0, recorderBatch)
	ticker := time.NewTicker(recorderFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case res := <-r.results:
			batch = append(batch, res)
			if len(batch) >= recorderBatch {
				r.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				r.flush(batch)
				batch = batch[:0]
			}
		case <-r.stop:
			// Drain remaining results
			for {
				select {
				case res := <-r.results:
					batch = append(batch, res)
				default:
					r.flush(batch)
					return
				}
			}
		}
	}
}

func (r *Recorder) flush(batch []RoundResult) {
	if r.store == nil || len(batch) == 0 {
		return
	}
	if err := r.store.RecordRounds(batch); err != nil {
		log.Printf("recorder: write %d rounds: %v", len(batch), err)
		return
	}
	r.written.Add(int64(len(batch)))
}
