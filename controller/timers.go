package controller

import "container/heap"

// TimerID identifies a scheduled callback.
type TimerID uint64

// Timers is a single-threaded queue of one-shot callbacks keyed on a
// simulation clock. Callbacks run inside Advance, in due order, with ties
// broken by scheduling order.
type Timers struct {
	now       float64
	seq       uint64
	queue     timerQueue
	cancelled map[TimerID]struct{}
}

func NewTimers() *Timers {
	return &Timers{cancelled: make(map[TimerID]struct{})}
}

// Now is the clock value reached by the last Advance.
func (t *Timers) Now() float64 {
	return t.now
}

// After schedules fn to run once the clock has moved delay seconds past Now.
// Negative delays are treated as zero.
func (t *Timers) After(delay float64, fn func()) TimerID {
	if delay < 0 {
		delay = 0
	}
	t.seq++
	id := TimerID(t.seq)
	heap.Push(&t.queue, &timer{id: id, due: t.now + delay, fn: fn})
	return id
}

// Cancel drops a pending callback. It reports whether id was still pending.
func (t *Timers) Cancel(id TimerID) bool {
	for _, tm := range t.queue {
		if tm.id == id {
			if _, done := t.cancelled[id]; done {
				return false
			}
			t.cancelled[id] = struct{}{}
			return true
		}
	}
	return false
}

// Advance moves the clock forward by dt and runs every callback that is due.
// It returns the number of callbacks run.
func (t *Timers) Advance(dt float64) int {
	if dt > 0 {
		t.now += dt
	}
	fired := 0
	for t.queue.Len() > 0 && t.queue[0].due <= t.now {
		tm := heap.Pop(&t.queue).(*timer)
		if _, ok := t.cancelled[tm.id]; ok {
			delete(t.cancelled, tm.id)
			continue
		}
		if tm.fn != nil {
			tm.fn()
		}
		fired++
	}
	return fired
}

// Pending counts callbacks that have not fired or been cancelled.
func (t *Timers) Pending() int {
	return t.queue.Len() - len(t.cancelled)
}

type timer struct {
	id  TimerID
	due float64
	fn  func()
}

type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }
func (q timerQueue) Less(i, j int) bool {
	if q[i].due == q[j].due {
		return q[i].id < q[j].id
	}
	return q[i].due < q[j].due
}
func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *timerQueue) Push(x any)   { *q = append(*q, x.(*timer)) }
func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}
