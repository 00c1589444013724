package controller

import (
	"reflect"
	"testing"
)

func TestTimersFireInDueOrder(t *testing.T) {
	timers := NewTimers()
	var order []string
	timers.After(0.3, func() { order = append(order, "c") })
	timers.After(0.1, func() { order = append(order, "a") })
	timers.After(0.1, func() { order = append(order, "b") })

	if n := timers.Advance(0.05); n != 0 {
		t.Fatalf("nothing should be due yet, fired %d", n)
	}
	if n := timers.Advance(0.1); n != 2 {
		t.Fatalf("expected 2 callbacks, got %d", n)
	}
	timers.Advance(1)
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(order, want) {
		t.Fatalf("order %v, want %v", order, want)
	}
	if timers.Pending() != 0 {
		t.Fatalf("expected empty queue, %d pending", timers.Pending())
	}
}

func TestTimersCancel(t *testing.T) {
	timers := NewTimers()
	fired := false
	id := timers.After(1, func() { fired = true })
	if !timers.Cancel(id) {
		t.Fatalf("cancel of pending timer should succeed")
	}
	if timers.Cancel(id) {
		t.Fatalf("second cancel should report false")
	}
	if timers.Pending() != 0 {
		t.Fatalf("cancelled timer still counted as pending")
	}
	timers.Advance(2)
	if fired {
		t.Fatalf("cancelled timer fired")
	}
}

func TestTimersRescheduleFromCallback(t *testing.T) {
	timers := NewTimers()
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			timers.After(1, tick)
		}
	}
	timers.After(1, tick)

	for i := 0; i < 5; i++ {
		timers.Advance(1)
	}
	if count != 3 {
		t.Fatalf("expected 3 ticks one per advance, got %d", count)
	}
	if timers.Now() != 5 {
		t.Fatalf("expected clock at 5, got %v", timers.Now())
	}
}
