package action

import (
	"container/heap"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ErrQueueFull is returned by Enqueue when the queue is at its size cap.
// The producer is never blocked waiting for space; it drops and moves on.
var ErrQueueFull = errors.New("action queue full")

// DefaultMaxQueueSize caps the queue when no size is configured.
const DefaultMaxQueueSize = 4096

// QueueStats is a point-in-time copy of the queue's counters.
type QueueStats struct {
	Enqueued  uint64
	Drained   uint64
	Dropped   uint64
	Malformed uint64
	Depth     int
}

// Queue is the multi-producer/single-consumer buffer between decision
// workers and the authority thread. Enqueue is safe from any number of
// goroutines and holds the lock only for a heap push; Drain is called by
// the authority thread once per tick. Ordering is priority first, then
// insertion order, so equal-priority actions drain FIFO.
type Queue struct {
	mu    sync.Mutex
	items actionHeap
	max   int
	seq   uint64

	enqueued  atomic.Uint64
	drained   atomic.Uint64
	dropped   atomic.Uint64
	malformed atomic.Uint64
}

// NewQueue creates a queue capped at max actions. Non-positive max uses
// DefaultMaxQueueSize.
func NewQueue(max int) *Queue {
	if max <= 0 {
		max = DefaultMaxQueueSize
	}
	return &Queue{max: max}
}

// Enqueue validates the action and adds it to the queue. Malformed actions
// are rejected immediately and never queued; a full queue drops the action
// and returns ErrQueueFull. Neither case blocks the producer.
func (q *Queue) Enqueue(a Action) error {
	if err := a.Validate(); err != nil {
		q.malformed.Add(1)
		return fmt.Errorf("validating action: %w", err)
	}

	if a.EnqueuedAt.IsZero() {
		a.EnqueuedAt = time.Now()
	}

	q.mu.Lock()
	if len(q.items) >= q.max {
		q.mu.Unlock()
		q.dropped.Add(1)
		return ErrQueueFull
	}
	q.seq++
	a.seq = q.seq
	heap.Push(&q.items, a)
	q.mu.Unlock()

	q.enqueued.Add(1)
	return nil
}

// Drain removes and returns up to max actions in priority-then-FIFO order.
// Returns an empty slice when the queue is exhausted. Single consumer: only
// the authority thread calls this.
func (q *Queue) Drain(max int) []Action {
	if max <= 0 {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.items)
	if n > max {
		n = max
	}
	out := make([]Action, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, heap.Pop(&q.items).(Action))
	}

	q.drained.Add(uint64(len(out)))
	return out
}

// Len returns the current queue depth.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Stats returns a copy of the queue's counters.
func (q *Queue) Stats() QueueStats {
	return QueueStats{
		Enqueued:  q.enqueued.Load(),
		Drained:   q.drained.Load(),
		Dropped:   q.dropped.Load(),
		Malformed: q.malformed.Load(),
		Depth:     q.Len(),
	}
}

// actionHeap orders actions by descending priority, then ascending
// insertion sequence.
type actionHeap []Action

func (h actionHeap) Len() int { return len(h) }

func (h actionHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority > h[j].Priority
	}
	return h[i].seq < h[j].seq
}

func (h actionHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *actionHeap) Push(x any) {
	*h = append(*h, x.(Action))
}

func (h *actionHeap) Pop() any {
	old := *h
	n := len(old)
	a := old[n-1]
	*h = old[:n-1]
	return a
}
