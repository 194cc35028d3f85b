package coop

// A WaitGroup waits for a collection of tasks to finish.
//
// Unlike sync.WaitGroup, waiting does not block the goroutine: Wait keeps
// calling [Scheduler.Yield] so that the tasks being waited for can run.
//
// A WaitGroup must only be used by the parent and the tasks of a single
// [Scheduler].
type WaitGroup struct {
	n int
}

// Add adds delta, which may be negative, to the [WaitGroup] counter.
// If the counter goes negative, Add panics.
func (wg *WaitGroup) Add(delta int) {
	if wg.n >= 0 {
		wg.n += delta
	}
	if wg.n < 0 {
		panic("coop(WaitGroup): negative counter")
	}
}

// Done decrements the [WaitGroup] counter by one.
func (wg *WaitGroup) Done() {
	wg.Add(-1)
}

// Wait yields on s until the [WaitGroup] counter is zero.
func (wg *WaitGroup) Wait(s *Scheduler) {
	s.Until(func() bool { return wg.n == 0 })
}
