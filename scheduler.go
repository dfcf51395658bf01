package main

import (
	"container/heap"
	"time"
)

// taskKind identifies deferred work consumed by the engine loop
type taskKind int

const (
	taskProjectile taskKind = iota
	taskVoteDeadline
	taskCountdownTick
	taskRoundDeadline
	taskEndedDone
	taskItemRespawn
)

// scheduledTask is one deferred mutation. Phase tasks carry the phase epoch
// they were scheduled in and are dropped if the phase has moved on.
type scheduledTask struct {
	At    time.Time
	Kind  taskKind
	Ref   string
	Epoch uint64
	seq   uint64
}

type taskHeap []scheduledTask

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].At.Equal(h[j].At) {
		return h[i].seq < h[j].seq
	}
	return h[i].At.Before(h[j].At)
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)   { *h = append(*h, x.(scheduledTask)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	*h = old[:n-1]
	return t
}

// scheduler orders deferred tasks by due time, FIFO among equal times
type scheduler struct {
	tasks taskHeap
	seq   uint64
}

// Schedule queues a task
func (s *scheduler) Schedule(t scheduledTask) {
	s.seq++
	t.seq = s.seq
	heap.Push(&s.tasks, t)
}

// PopDue removes and returns the earliest task due at or before now
func (s *scheduler) PopDue(now time.Time) (scheduledTask, bool) {
	if len(s.tasks) == 0 || s.tasks[0].At.After(now) {
		return scheduledTask{}, false
	}
	return heap.Pop(&s.tasks).(scheduledTask), true
}

// Next returns the due time of the earliest task
func (s *scheduler) Next() (time.Time, bool) {
	if len(s.tasks) == 0 {
		return time.Time{}, false
	}
	return s.tasks[0].At, true
}

// Len returns the number of pending tasks
func (s *scheduler) Len() int {
	return len(s.tasks)
}
