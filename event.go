package coop

import (
	"sync"
	"sync/atomic"
)

// An Event is a one-bit wakeup latch, like the event register a Cortex-M
// core sleeps on with WFE and sets with SEV.
//
// Signal may be called from any goroutine, typically the ones standing in
// for interrupt handlers. Wait is what a [Scheduler] sleeps on:
//
//	var ev coop.Event
//	s.Idle(ev.Wait)
//
// The zero value is ready to use. An Event must not be copied after first
// use.
type Event struct {
	once sync.Once
	ch   chan struct{}
}

func (e *Event) init() {
	e.once.Do(func() { e.ch = make(chan struct{}, 1) })
}

// Signal sets the event. It never blocks. Signals that arrive while the
// event is already set are merged into one.
func (e *Event) Signal() {
	e.init()
	select {
	case e.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until the event is set, then clears it. It returns at once
// if the event is already set.
func (e *Event) Wait() {
	e.init()
	<-e.ch
}

// Ticks is a tick counter advanced by one interrupt-side goroutine and
// read by tasks and the parent. The zero value starts at tick 0.
type Ticks struct {
	n atomic.Uint32
}

// Advance increments the counter and returns the new value.
// Only one goroutine should advance a counter.
func (t *Ticks) Advance() uint32 {
	return t.n.Add(1)
}

// Now returns the current value of the counter.
func (t *Ticks) Now() uint32 {
	return t.n.Load()
}
