package kernel

import "github.com/gokernel/threads/internal/dll"

// CondVar is a Mesa-style condition variable associated with a Lock,
// mirroring threads/synch.c's struct condition: Wait atomically
// releases the lock and blocks, Signal/Broadcast wake waiters but do
// not hand the lock to them, so a woken thread must re-check its
// predicate after reacquiring (Mesa semantics).
//
// Each waiter parks on its own private, single-use semaphore (one
// nested inside a small per-wait record) rather than the CondVar
// itself, exactly as cond_wait does by stack-allocating a
// semaphore_elem per call: this is what lets Signal wake a specific
// waiter by priority rather than in pure FIFO order.
type CondVar struct {
	k       *Kernel
	waiters dll.List // of *waitSlot, ordered by the waiting thread's priority
}

type waitSlot struct {
	thread *Thread
	sema   *Semaphore
}

// NewCondVar constructs a condition variable, mirroring cond_init.
func (k *Kernel) NewCondVar() *CondVar {
	cv := &CondVar{k: k}
	cv.waiters.MakeEmpty()
	return cv
}

func waitSlotLess(a, b interface{}) bool {
	return a.(*waitSlot).thread.effectivePriority > b.(*waitSlot).thread.effectivePriority
}

// Wait atomically releases l and blocks the calling thread until
// another thread calls Signal or Broadcast on cv, then reacquires l
// before returning. The caller must hold l, and must re-check whatever
// predicate it waited for, since Signal only wakes the waiter -- it
// does not guarantee the predicate still holds by the time this
// function returns (Mesa semantics).
func (cv *CondVar) Wait(l *Lock) {
	k := cv.k
	assert(l.HeldByCurrent(), "kernel: CondVar.Wait called without holding the associated lock")

	k.mu.Lock()
	slot := &waitSlot{thread: k.current, sema: k.NewSemaphore(0)}
	cv.waiters.InsertOrdered(dll.NewElem(slot), waitSlotLess)
	k.mu.Unlock()

	l.Release()
	slot.sema.Down()
	l.Acquire()
}

// Signal wakes the highest-priority thread waiting on cv, if any. The
// caller must hold the associated lock, mirroring cond_signal's
// documented requirement even though this implementation does not
// itself take a lock parameter to check it against.
func (cv *CondVar) Signal() {
	k := cv.k
	k.mu.Lock()
	cv.resortWaiters()
	e := cv.waiters.PopFront()
	k.mu.Unlock()
	if e == nil {
		return
	}
	e.Value.(*waitSlot).sema.Up()
}

// Broadcast wakes every thread waiting on cv, highest priority first,
// mirroring cond_broadcast's "while list is not empty, cond_signal"
// definition: each pop re-sorts against live (possibly donation-shifted)
// priorities rather than the order waiters originally called Wait in.
func (cv *CondVar) Broadcast() {
	for !cv.isEmpty() {
		cv.Signal()
	}
}

func (cv *CondVar) isEmpty() bool {
	k := cv.k
	k.mu.Lock()
	defer k.mu.Unlock()
	return cv.waiters.IsEmpty()
}

// resortWaiters rebuilds the waiter list in current priority order,
// same rationale as Semaphore.resortWaiters: a waiter's priority can
// change (via donation elsewhere) while it sleeps. Requires k.mu held.
func (cv *CondVar) resortWaiters() {
	var all []*dll.Elem
	for e := cv.waiters.Front(); e != nil; {
		next := cv.waiters.Next(e)
		e.Remove()
		all = append(all, e)
		e = next
	}
	for _, e := range all {
		cv.waiters.InsertOrdered(e, waitSlotLess)
	}
}
