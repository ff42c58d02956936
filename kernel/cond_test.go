package kernel

import "testing"

// TestCondVarSignalsHighestPriorityFirst checks that Signal wakes
// waiters in priority order, not the FIFO order they called Wait in --
// the same property threads/synch.c's cond_signal gets from keeping its
// waiter list a list_max over priority rather than a plain queue.
func TestCondVarSignalsHighestPriorityFirst(t *testing.T) {
	k := newTestKernel(t)
	lock := k.NewLock()
	cv := k.NewCondVar()
	entered := k.NewSemaphore(0)
	done := k.NewSemaphore(0)
	var order []string

	waiter := func(name string) func(arg interface{}) {
		return func(arg interface{}) {
			lock.Acquire()
			entered.Up()
			cv.Wait(lock)
			order = append(order, name)
			lock.Release()
			done.Up()
		}
	}

	// "low" calls Wait first; "high" calls it second but must still be
	// woken first.
	k.Create("low", PriDefault-5, waiter("low"), nil)
	entered.Down()
	k.Create("high", PriDefault+5, waiter("high"), nil)
	entered.Down()

	lock.Acquire()
	cv.Signal()
	lock.Release()

	lock.Acquire()
	cv.Signal()
	lock.Release()

	done.Down()
	done.Down()

	if len(order) != 2 || order[0] != "high" || order[1] != "low" {
		t.Fatalf("signal order = %v, want [high low]", order)
	}
}

// TestCondVarBroadcastWakesAll checks that Broadcast wakes every
// waiter, and that a Signal on an empty condition variable is a no-op
// (cond_signal with cond->waiters empty).
func TestCondVarBroadcastWakesAll(t *testing.T) {
	k := newTestKernel(t)
	lock := k.NewLock()
	cv := k.NewCondVar()

	// Signal with no waiters must not panic or block.
	lock.Acquire()
	cv.Signal()
	lock.Release()

	entered := k.NewSemaphore(0)
	done := k.NewSemaphore(0)
	const n = 3
	for i := 0; i < n; i++ {
		k.Create("waiter", PriDefault, func(arg interface{}) {
			lock.Acquire()
			entered.Up()
			cv.Wait(lock)
			lock.Release()
			done.Up()
		}, nil)
	}
	for i := 0; i < n; i++ {
		entered.Down()
	}

	lock.Acquire()
	cv.Broadcast()
	lock.Release()

	for i := 0; i < n; i++ {
		done.Down()
	}
}
