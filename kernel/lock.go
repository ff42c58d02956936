package kernel

import "github.com/gokernel/threads/internal/dll"

// Lock is a recursive-unsafe mutex with priority donation, mirroring
// threads/synch.c's struct lock: a holder pointer plus a binary
// semaphore for blocking. Under the priority-scheduler (non-MLFQS)
// policy, a thread blocked acquiring a held Lock donates its effective
// priority to the holder, and transitively up any chain of locks the
// holder is itself waiting on, capped at donationChainCap hops
// Under MLFQS, donation is disabled entirely: priority
// is derived solely from recent_cpu and nice.
type Lock struct {
	k      *Kernel
	sema   *Semaphore
	holder *Thread
}

// NewLock constructs an unheld lock, mirroring lock_init.
func (k *Kernel) NewLock() *Lock {
	return &Lock{k: k, sema: k.NewSemaphore(1)}
}

// Acquire waits until l is free, then takes it. If l is currently held,
// the calling thread donates its effective priority to the chain of
// holders it transitively waits behind, so that a low-priority holder
// blocking a high-priority waiter runs at the waiter's priority until it
// releases (the priority-inversion fix donation exists for). Recursive
// acquisition by the current holder is a usage error, per lock_acquire's
// own ASSERT.
func (l *Lock) Acquire() {
	k := l.k
	k.mu.Lock()
	cur := k.current
	assert(l.holder != cur, "kernel: %s attempted to re-acquire a lock it already holds", cur)

	if l.holder != nil && !k.mlfqs {
		l.donate(cur)
	}
	k.mu.Unlock()

	l.sema.Down()

	k.mu.Lock()
	l.holder = cur
	cur.waitingOn = nil
	k.mu.Unlock()
}

// donate walks the chain of locks waiter is blocked behind. At each hop
// it adds the thread blocked on that lock (waiter on the first hop, the
// previous holder after that) as a donor of the lock's holder and
// recomputes that holder's effective priority, stopping after
// donationChainCap hops or once a
// holder is reached that is not itself waiting on another lock.
// Requires k.mu held.
func (l *Lock) donate(waiter *Thread) {
	waiter.waitingOn = l
	cur := l
	donor := waiter
	for i := 0; i < donationChainCap && cur != nil; i++ {
		holder := cur.holder
		if holder == nil {
			return
		}
		if donor.donorElem == nil || !holder.donors.IsInList(donor.donorElem) {
			donor.donorElem = dll.NewElem(donor)
			holder.donors.PushBack(donor.donorElem)
		}
		holder.recomputeEffectivePriority()
		l.k.reorderReady(holder)
		if holder.waitingOn == nil {
			return
		}
		cur = holder.waitingOn
		donor = holder
	}
}

// TryAcquire takes l without blocking if it is free, reporting whether
// it did so (lock_try_acquire). It never donates, since it never waits.
func (l *Lock) TryAcquire() bool {
	k := l.k
	if !l.sema.TryDown() {
		return false
	}
	k.mu.Lock()
	l.holder = k.current
	k.mu.Unlock()
	return true
}

// Release gives up l. The releasing thread sheds every donor that was
// donating specifically on account of this lock and recomputes its own
// effective priority before waking the next waiter, matching
// lock_release's "remove from donation list, recompute, then sema_up"
// ordering so the preemption test in Up sees the holder's post-release
// priority.
func (l *Lock) Release() {
	k := l.k
	k.mu.Lock()
	cur := k.current
	assert(l.holder == cur, "kernel: %s released a lock it does not hold", cur)

	for e := cur.donors.Front(); e != nil; {
		next := cur.donors.Next(e)
		d := e.Value.(*Thread)
		if d.waitingOn == l {
			e.Remove()
			d.donorElem = nil
		}
		e = next
	}
	cur.recomputeEffectivePriority()
	l.holder = nil
	k.mu.Unlock()

	l.sema.Up()
}

// HeldByCurrent reports whether the calling thread holds l, mirroring
// lock_held_by_current_thread, used only in assertions and tests.
func (l *Lock) HeldByCurrent() bool {
	k := l.k
	k.mu.Lock()
	defer k.mu.Unlock()
	return l.holder == k.current
}
