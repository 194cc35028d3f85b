package coop

import "slices"

// Semaphore provides a way to bound access to a resource shared by the
// tasks of a [Scheduler].
// The callers can request access with a given weight.
//
// Requests are granted in arrival order: once a caller is waiting, later
// requests wait behind it even if they would fit.
//
// A Semaphore must only be used by the parent and the tasks of a single
// [Scheduler].
type Semaphore struct {
	size    int64
	cur     int64
	waiters []*waiter
}

type waiter struct {
	n       int64
	granted bool
}

// NewSemaphore creates a new weighted semaphore with the given maximum
// combined weight.
func NewSemaphore(n int64) *Semaphore {
	return &Semaphore{size: n}
}

// TryAcquire acquires the semaphore with a weight of n without yielding.
// On success, it returns true. On failure, it returns false and leaves
// the semaphore unchanged.
func (sema *Semaphore) TryAcquire(n int64) bool {
	if n < 0 {
		panic("coop(Semaphore): negative weight")
	}
	if len(sema.waiters) == 0 && sema.size-sema.cur >= n {
		sema.cur += n
		return true
	}
	return false
}

// Acquire acquires the semaphore with a weight of n, yielding on s until
// the weight is granted.
func (sema *Semaphore) Acquire(s *Scheduler, n int64) {
	if sema.TryAcquire(n) {
		return
	}
	if n > sema.size {
		panic("coop(Semaphore): weight exceeds semaphore size")
	}
	w := &waiter{n: n}
	sema.waiters = append(sema.waiters, w)
	s.Until(func() bool { return w.granted })
}

// Release releases the semaphore with a weight of n.
func (sema *Semaphore) Release(n int64) {
	if n < 0 {
		panic("coop(Semaphore): negative weight")
	}
	if n > sema.cur {
		panic("coop(Semaphore): released more than held")
	}
	sema.cur -= n
	sema.grantWaiters()
}

func (sema *Semaphore) grantWaiters() {
	i := 0
	for ; i < len(sema.waiters); i++ {
		w := sema.waiters[i]
		if sema.size-sema.cur < w.n {
			break
		}
		sema.cur += w.n
		w.granted = true
	}
	sema.waiters = slices.Delete(sema.waiters, 0, i)
}
