package coop

import "sync/atomic"

// A Scheduler runs a set of [Task]s on behalf of a single parent context,
// the code that creates the Scheduler and calls its Start and Yield
// methods.
//
// Tasks are linked into a run list when they first suspend. Each Yield
// made by the parent is a pass: the Scheduler waits for the next event
// (see the Idle method), then resumes every linked task once, in run-list
// order. A task runs until it calls Yield, which hands control back to the
// parent, or until its body returns, which finishes it and removes it from
// the run list.
//
// Exactly one context, the parent or one task, executes at any time.
// Scheduler state is never accessed by two contexts at once, so nothing in
// a Scheduler is locked. For the same reason, a Scheduler and its tasks
// must not be used from goroutines other than the parent and the tasks
// themselves; such goroutines play the part of interrupt handlers, and
// should talk to tasks through an [Event], a [Ticks] counter, or other
// synchronized data.
//
// A Scheduler must not be copied after first use. The zero value is ready
// to use; it never sleeps between passes.
type Scheduler struct {
	head   *Task
	active *Task
	parent *fiber
	live   atomic.Int32
	idle   func()
	ps     panicstack
}

// Idle sets up the function that each pass calls before resuming any task.
//
// f must block until the next wakeup event, such as an interrupt, and must
// return immediately if an event is already pending. It is always safe for
// f to return spuriously. f must not call into the Scheduler.
//
// A nil f, the default, makes each pass run without waiting.
func (s *Scheduler) Idle(f func()) {
	s.idle = f
}

func (s *Scheduler) init() {
	if s.parent == nil {
		s.parent = newFiber()
		s.live.Store(1)
	}
}

// Yield is the only suspension point of a [Task].
//
// Called from a task, Yield suspends the task and hands control back to
// the parent. It returns when the next pass resumes the task.
//
// Called from the parent, Yield performs one pass: it waits for the next
// event (see the Idle method), then resumes every linked task once.
// If any task body panics during the pass, Yield panics after the pass
// is complete, with an error that wraps each panic value that is an error.
//
// Yield must not be called from any other goroutine.
func (s *Scheduler) Yield() {
	if t := s.active; t != nil {
		s.active = nil
		t.pushFrame()
		s.swap(&t.ctx, t.self)
		return
	}
	s.pass()
}

func (s *Scheduler) pass() {
	s.init()

	if s.idle != nil {
		s.idle()
	}

	for pn := &s.head; *pn != nil; {
		t := *pn
		s.active = t
		s.swap(&t.ctx, s.parent)

		if t.state == Finished {
			*pn = t.next
			t.next = nil
			s.ps = append(s.ps, t.ps...)
			t.ps = nil
			continue
		}

		pn = &t.next
	}

	ps := s.ps
	s.ps = nil
	ps.Repanic()
}

// Until calls Yield until cond reports true. cond is checked before each
// call, so Until does not yield at all if cond already holds.
//
// Waiting on a condition that no interrupt accompanies needs care from
// the parent: a pass sleeps until the next event, so the parent may want
// to signal one (see [Event.Signal]) before waiting, to keep passes coming.
func (s *Scheduler) Until(cond func() bool) {
	for !cond() {
		s.Yield()
	}
}

// Delay yields until at least n ticks have elapsed on ticks.
// It is correct across wraparound of the counter.
func (s *Scheduler) Delay(ticks *Ticks, n uint32) {
	start := ticks.Now()
	s.Until(func() bool { return ticks.Now()-start >= n })
}
