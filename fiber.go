package coop

// A fiber is one execution context of the host backend: a goroutine that is
// parked on its own wake channel whenever it is not the running context.
//
// Handing the single wake token from one fiber to another is the whole of
// a context switch here. The goroutine's stack and registers stay where the
// Go runtime keeps them; what a bare-metal switch pushes onto the task stack
// is represented by the frame record (see stack.go).
type fiber struct {
	wake chan struct{}
}

func newFiber() *fiber {
	return &fiber{wake: make(chan struct{}, 1)}
}

// An anchor is a saved-context slot.
//
// One anchor serves both directions of a parent/task pair: while the task
// is suspended it holds the task, and while the task runs it holds whoever
// resumed it. A swap through the anchor exchanges the two.
type anchor struct {
	f *fiber
}

// suspend and resume keep the count of contexts that are executing.
// It is exactly 1 between any two transfers.
func (s *Scheduler) suspend() {
	s.live.Add(-1)
}

func (s *Scheduler) resume() {
	if s.live.Add(1) != 1 {
		panic("coop: more than one context running")
	}
}

func (s *Scheduler) park(self *fiber) {
	<-self.wake
	s.resume()
}

// bootstrap records self in slot as the point to come back to, then runs
// entry(t) in a fresh context. It returns only after some context swaps
// into slot.
func (s *Scheduler) bootstrap(slot *anchor, self *fiber, entry func(*Task), t *Task) {
	slot.f = self
	s.suspend()
	go func() {
		s.resume()
		entry(t)
	}()
	s.park(self)
}

// swap suspends self, storing it in slot, and transfers to the context
// slot previously held. It returns when some context swaps back into slot.
func (s *Scheduler) swap(slot *anchor, self *fiber) {
	target := slot.f
	slot.f = self
	s.suspend()
	target.wake <- struct{}{}
	s.park(self)
}

// exit transfers to the context held in slot without saving the caller.
// The calling goroutine must return right after.
func (s *Scheduler) exit(slot *anchor) {
	target := slot.f
	slot.f = nil
	s.suspend()
	target.wake <- struct{}{}
}
