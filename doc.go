// Package coop is a minimal cooperative multitasking kernel in the style of
// single-core microcontroller firmware.
//
// A program has one parent context, usually a superloop in main, and any
// number of tasks. Each [Task] has its own stack region, supplied by the
// caller, and runs ordinary sequential code that calls [Scheduler.Yield]
// whenever it would otherwise spin:
//
//	for {
//		led.On()
//		s.Delay(&ticks, 1)
//		led.Off()
//		s.Delay(&ticks, 8)
//	}
//
// There is no preemption and no parallelism. Control moves only at calls to
// Yield, so neither the scheduler nor the tasks need locks for anything they
// share with each other.
//
// # One Call, Two Meanings
//
// Yield takes no arguments. Called from a task, it suspends the task and
// returns to the parent. Called from the parent, it performs a pass: it
// sleeps until the next event, then resumes each task once. A typical
// parent looks like:
//
//	var s coop.Scheduler
//	var ev coop.Event
//	s.Idle(ev.Wait)
//
//	s.Start(blinker, blink)
//
//	for {
//		// Superloop work that never blocks.
//		s.Yield()
//	}
//
// Tasks never start tasks. The hierarchy is exactly two levels deep, which
// is what lets a single "active task" indicator tell the two meanings of
// Yield apart.
//
// # Task Lifecycle
//
// [Scheduler.Start] runs a task right away, up to its first Yield. A task
// that returns before ever yielding is finished when Start returns and is
// never linked into the run list. Otherwise it is linked, and each pass
// resumes it right after the Yield it last made, with its locals intact.
// When the body returns, the task is marked [Finished] and the pass unlinks
// it. Its Task value, stack included, may then be started again.
//
// Tasks cannot be stopped from outside. A task that should end must watch
// some condition and return.
//
// # Sleeping and Events
//
// Before each pass the scheduler calls the function set with
// [Scheduler.Idle]. On hardware that is a DSB followed by WFE; in this
// package, [Event.Wait] plays that part and [Event.Signal], called from any
// goroutine, plays the interrupt. Data written by such goroutines must be
// read with synchronization, for example a [Ticks] counter.
//
// A caller waiting on a condition that no event accompanies can signal the
// Event itself before yielding, which keeps the scheduler from sleeping at
// the cost of spinning.
//
// # Stacks and Contexts
//
// A task stack must be at least [MinStackSize] bytes long and aligned to
// [StackAlign]. The saved context of a suspended task is a single anchor
// next to the stack; what a hardware context switch pushes onto the task's
// stack is kept in a frame record in the top bytes of the region. In this
// package each context is carried by a goroutine parked on a channel, and
// handing a single wake token from one context to the next is the context
// switch.
//
// # Panic Propagation
//
// A panic in a task body finishes the task. The panic is re-raised in the
// parent: by [Scheduler.Start] if it happened before the first Yield, or by
// the parent's [Scheduler.Yield] once the pass it happened in is complete.
// The re-raised value is an error that wraps every panic value that is an
// error.
package coop
