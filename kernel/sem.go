package kernel

import "github.com/gokernel/threads/internal/dll"

// Semaphore is a counting semaphore with a priority-ordered waiter list,
// mirroring threads/synch.c's struct semaphore: a non-negative value
// and a list of threads blocked in Down. The waiter list is kept sorted
// by effective priority so Up always wakes the highest-priority waiter:
// Down inserts in priority order, and Up re-sorts before popping, since
// a waiter's priority can change (via donation) while it sleeps.
type Semaphore struct {
	k       *Kernel
	value   int
	waiters dll.List
}

// NewSemaphore constructs a semaphore with the given initial value,
// mirroring sema_init.
func (k *Kernel) NewSemaphore(value int) *Semaphore {
	assert(value >= 0, "kernel: NewSemaphore(%d): negative initial value", value)
	s := &Semaphore{k: k, value: value}
	s.waiters.MakeEmpty()
	return s
}

// Down waits for the semaphore's value to become positive, then
// decrements it. Blocks the caller if necessary.
func (s *Semaphore) Down() {
	k := s.k
	k.mu.Lock()
	for s.value == 0 {
		cur := k.current
		assert(cur != k.idle, "kernel: idle thread must not wait on a semaphore")
		cur.qElem = dll.NewElem(cur)
		s.waiters.InsertOrdered(cur.qElem, readyLess)
		cur.status = Blocked
		k.schedule()
	}
	s.value--
	k.mu.Unlock()
}

// TryDown decrements the semaphore without blocking if its value is
// already positive, reporting whether it did so (sema_try_down).
func (s *Semaphore) TryDown() bool {
	k := s.k
	k.mu.Lock()
	defer k.mu.Unlock()
	if s.value > 0 {
		s.value--
		return true
	}
	return false
}

// Up increments the semaphore's value and, if any thread is waiting,
// wakes the highest-priority one. The waiter list is re-sorted
// immediately before picking a winner, since priorities may have moved
// since the waiters were enqueued (a donation interaction
// with semaphores).
func (s *Semaphore) Up() {
	k := s.k
	k.mu.Lock()
	s.resortWaiters()
	e := s.waiters.PopFront()
	if e != nil {
		t := e.Value.(*Thread)
		t.qElem = nil
		t.status = Ready
		t.qElem = dll.NewElem(t)
		k.ready.InsertOrdered(t.qElem, readyLess)
	}
	s.value++
	k.testPreemption()
	k.mu.Unlock()
}

// resortWaiters rebuilds the waiter list in current priority order.
// Requires s.k.mu held.
func (s *Semaphore) resortWaiters() {
	var all []*dll.Elem
	for e := s.waiters.Front(); e != nil; {
		next := s.waiters.Next(e)
		e.Remove()
		all = append(all, e)
		e = next
	}
	for _, e := range all {
		s.waiters.InsertOrdered(e, readyLess)
	}
}

// Value returns the semaphore's current value, for diagnostics and
// tests; it is not part of the synchronization protocol.
func (s *Semaphore) Value() int {
	k := s.k
	k.mu.Lock()
	defer k.mu.Unlock()
	return s.value
}
