package coop_test

import (
	"slices"
	"testing"

	"github.com/b97tsk/coop"
)

func TestSemaphore(t *testing.T) {
	t.Run("TryAcquire", func(t *testing.T) {
		sema := coop.NewSemaphore(2)

		if !sema.TryAcquire(1) || sema.TryAcquire(2) {
			t.FailNow()
		}

		sema.Release(1)

		if !sema.TryAcquire(2) {
			t.Fatal("TryAcquire did not succeed after Release.")
		}
	})
	t.Run("FIFO", func(t *testing.T) {
		var s coop.Scheduler

		sema := coop.NewSemaphore(2)

		if !sema.TryAcquire(2) {
			t.FailNow()
		}

		var log []string

		a, b := newTask(t), newTask(t)

		s.Start(a, func() {
			sema.Acquire(&s, 2)
			log = append(log, "a")
			sema.Release(2)
		})
		s.Start(b, func() {
			sema.Acquire(&s, 1)
			log = append(log, "b")
			sema.Release(1)
		})

		s.Yield()

		if len(log) != 0 {
			t.Fatal("Acquire succeeded while the semaphore was held.")
		}

		sema.Release(1)

		if sema.TryAcquire(1) {
			t.Fatal("TryAcquire should not succeed when there are waiters.")
		}

		s.Yield()

		if len(log) != 0 {
			t.Fatal("A later, smaller request overtook an earlier one.")
		}

		sema.Release(1)

		for a.IsRunning() || b.IsRunning() {
			s.Yield()
		}

		if !slices.Equal(log, []string{"a", "b"}) {
			t.Fatalf("log = %v.", log)
		}
		if !sema.TryAcquire(2) {
			t.Fatal("Semaphore not fully released.")
		}
	})
	t.Run("Misuse", func(t *testing.T) {
		var s coop.Scheduler

		sema := coop.NewSemaphore(2)

		if catch(func() { sema.TryAcquire(-1) }) == nil {
			t.Error("TryAcquire accepted a negative weight.")
		}
		if catch(func() { sema.Release(1) }) == nil {
			t.Error("Release accepted more than held.")
		}
		if catch(func() { sema.Acquire(&s, 3) }) == nil {
			t.Error("Acquire accepted a weight larger than the semaphore.")
		}
	})
	t.Run("OverRelease", func(t *testing.T) {
		sema := coop.NewSemaphore(2)

		if !sema.TryAcquire(1) {
			t.FailNow()
		}
		if catch(func() { sema.Release(2) }) == nil {
			t.Fatal("Release accepted more than held.")
		}
		if sema.TryAcquire(3) {
			t.Fatal("A rejected Release left the semaphore granting beyond its size.")
		}
		if sema.TryAcquire(2) {
			t.Fatal("A rejected Release gave back the weight still held.")
		}

		sema.Release(1)

		if !sema.TryAcquire(2) {
			t.Fatal("Semaphore not fully released.")
		}
	})
}

func TestWaitGroup(t *testing.T) {
	t.Run("Wait", func(t *testing.T) {
		var (
			s  coop.Scheduler
			wg coop.WaitGroup
		)

		tasks := make([]*coop.Task, 3)

		wg.Add(len(tasks))

		for i := range tasks {
			tasks[i] = newTask(t)
			s.Start(tasks[i], func() {
				defer wg.Done()
				for range i {
					s.Yield()
				}
			})
		}

		wg.Wait(&s)

		for i, task := range tasks {
			if task.IsRunning() {
				t.Errorf("task %d still running after Wait.", i)
			}
		}
	})
	t.Run("Negative", func(t *testing.T) {
		var wg coop.WaitGroup

		if catch(wg.Done) == nil {
			t.Fatal("Done on a zero WaitGroup did not panic.")
		}
	})
}
