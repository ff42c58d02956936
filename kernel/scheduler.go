package kernel

import (
	"github.com/gokernel/threads/internal/dll"
	"github.com/gokernel/threads/klog"
)

// readyLess orders the ready queue by descending effective priority,
// preserving FIFO order among threads of equal priority.
func readyLess(a, b interface{}) bool {
	return a.(*Thread).effectivePriority > b.(*Thread).effectivePriority
}

// Create allocates a new thread, named name, at the given base priority,
// and makes it runnable. It returns the new thread. Unlike the tid-arena
// original this models, tid allocation here is an ever-growing int
// counter backed by Go's garbage-collected heap, so there is no
// practical out-of-memory or tid-exhaustion path to report; see
// DESIGN.md for why that part of the source contract is not carried
// forward.
func (k *Kernel) Create(name string, priority int, entry func(arg interface{}), arg interface{}) *Thread {
	assert(priority >= PriMin && priority <= PriMax, "kernel: Create(%q): priority %d out of range", name, priority)
	t := k.newThread(name, priority, entry, arg)
	go k.trampoline(t)
	k.Unblock(t)
	return t
}

// trampoline is the goroutine body launched by Create. It parks until
// first dispatched, runs the thread's entry function, and then exits.
func (k *Kernel) trampoline(t *Thread) {
	<-t.resume
	k.mu.Lock()
	k.mu.Unlock()
	if t.entry != nil {
		t.entry(t.arg)
	}
	k.Exit()
}

// Current returns the calling goroutine's thread. It requires that the
// calling goroutine is in fact the thread the kernel currently considers
// RUNNING (this is a library invariant the caller maintains by always
// operating from within its own thread's entry function), and
// re-validates the stack-overflow sentinel on every call, mirroring
// thread_current()'s ASSERT(is_thread(t)).
func (k *Kernel) Current() *Thread {
	k.mu.Lock()
	defer k.mu.Unlock()
	checkMagic(k.current)
	return k.current
}

// Block transitions the current thread to BLOCKED and switches to the
// next runnable thread. Callers are responsible for having already
// arranged for some other operation to Unblock it again (inserting it
// into a waiter list is the caller's job; Block just gives up the CPU).
// Requires interrupts disabled (i.e. this call manipulates k.mu itself);
// asserts if called from the idle thread, which block()ing unrelated to
// sleep is never expected to do.
func (k *Kernel) Block() {
	k.mu.Lock()
	cur := k.current
	assert(cur != k.idle, "kernel: idle thread must not block")
	cur.status = Blocked
	k.schedule()
	k.mu.Unlock()
}

// Unblock makes t runnable: inserts it into the ready queue in priority
// order and, if t now outranks the running thread, tests for
// preemption. Must not be called on a thread that is not BLOCKED.
func (k *Kernel) Unblock(t *Thread) {
	k.mu.Lock()
	assert(t.status == Blocked, "kernel: Unblock(%s): not blocked", t)
	t.status = Ready
	t.qElem = dll.NewElem(t)
	k.ready.InsertOrdered(t.qElem, readyLess)
	k.testPreemption()
	k.mu.Unlock()
}

// Yield gives up the CPU voluntarily: the current thread goes back to
// READY (not BLOCKED) and is requeued, then the scheduler dispatches the
// next runnable thread. It is also the mechanism CheckPreempt uses to
// act on an expired time slice.
func (k *Kernel) Yield() {
	k.mu.Lock()
	k.yieldLocked()
	k.mu.Unlock()
}

// yieldLocked is Yield's body, for callers that already hold k.mu
// (testPreemption, invoked from inside Unblock/SetPriority/Release/etc).
func (k *Kernel) yieldLocked() {
	cur := k.current
	if cur != k.idle {
		cur.status = Ready
		cur.qElem = dll.NewElem(cur)
		k.ready.InsertOrdered(cur.qElem, readyLess)
	} else {
		cur.status = Ready // idle never sits in the ready queue; see pickNext
	}
	k.schedule()
}

// Exit finishes the current thread. It never returns: the goroutine
// backing it ends inside schedule() via runtime.Goexit-equivalent
// control never coming back up this call stack.
func (k *Kernel) Exit() {
	k.mu.Lock()
	k.current.status = Dying
	klog.Infof("kernel: thread %s exiting", k.current)
	k.schedule() // does not return for a Dying thread
	panic("kernel: Exit returned") // unreachable
}

// SetPriority sets the calling thread's base priority. Under MLFQS this
// is a no-op. A rise in effective priority may trigger
// preemption.
func (k *Kernel) SetPriority(p int) {
	assert(p >= PriMin && p <= PriMax, "kernel: SetPriority(%d) out of range", p)
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.mlfqs {
		return
	}
	k.current.basePriority = p
	k.current.recomputeEffectivePriority()
	k.testPreemption()
}

// GetPriority returns the calling thread's current effective priority.
func (k *Kernel) GetPriority() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.current.effectivePriority
}

// CheckPreempt is a preemption point a running thread calls voluntarily
// from within a CPU-bound loop. Since Go cannot suspend an arbitrary
// running goroutine from outside, this is how the "yield-on-interrupt
// -return" flag Tick sets actually gets acted on; see doc.go and
// DESIGN.md. Threads that never call it (and never call any other
// blocking kernel API) are, as in any cooperative scheduler, never
// preempted mid-quantum.
func (k *Kernel) CheckPreempt() {
	k.mu.Lock()
	cur := k.current
	yield := cur.yieldPending
	cur.yieldPending = false
	k.mu.Unlock()
	if yield {
		k.Yield()
	}
}

// schedule picks the next runnable thread and switches to it. Requires
// k.mu held and k.current.status != Running. It is the only place that
// performs a "context switch": in this Go model, that means signalling
// the chosen thread's resume channel and, if the outgoing thread is not
// Dying, releasing k.mu and parking on the outgoing thread's own resume
// channel until it is redispatched.
func (k *Kernel) schedule() {
	prev := k.current
	assert(prev.status != Running, "kernel: schedule() called with current thread still RUNNING")

	next := k.pickNext()
	next.status = Running
	next.sliceTicks = 0
	k.current = next

	if prev.status == Dying {
		prev.qElem = nil
		prev.allElem.Remove()
		k.destroyList = append(k.destroyList, prev)
	}

	if next == prev {
		return
	}

	next.resume <- struct{}{}

	if prev.status == Dying {
		// The outgoing goroutine must never resume past this point. We
		// release the lock we were called with so the newly dispatched
		// thread can proceed, then park this goroutine for good.
		k.mu.Unlock()
		select {} // goroutine ends its useful life here, parked forever
	}

	k.mu.Unlock()
	<-prev.resume
	k.mu.Lock()
}

// pickNext pops the highest-priority ready thread, or the idle thread
// if the ready queue is empty. Requires k.mu held.
func (k *Kernel) pickNext() *Thread {
	e := k.ready.PopFront()
	if e == nil {
		assert(k.idle != nil, "kernel: ready queue empty and idle thread not yet started")
		return k.idle
	}
	t := e.Value.(*Thread)
	t.qElem = nil
	return t
}

// testPreemption yields the current thread immediately, in place, if
// some other runnable thread now outranks it. Requires k.mu held by the
// caller and must only be called from non-ISR contexts (Unblock,
// SetPriority, Lock.Release, Semaphore.Up, CondVar Signal/Broadcast).
// The running thread must actually be preempted before the call that
// made it losable returns, e.g. thread_create() running the
// newly-created higher-priority thread before it returns to its
// caller. Tick is an ISR and must use requestPreemption instead.
func (k *Kernel) testPreemption() {
	if k.preemptable() {
		k.yieldLocked()
	}
}

// requestPreemption is the ISR-safe counterpart to testPreemption: it
// never switches threads itself, only marks the current thread so a
// later CheckPreempt (or the next voluntary yield point) acts on it.
// Tick calls this, never testPreemption, since an interrupt handler must
// not block or switch threads.
func (k *Kernel) requestPreemption() {
	if k.preemptable() {
		k.current.yieldPending = true
	}
}

// reorderReady repositions t within the ready queue after its effective
// priority has changed out from under it -- the only case this arises
// is a lock holder that was itself preempted (so it sits in k.ready,
// not running) and then receives a donation. A thread that is Running,
// Blocked, or waiting in some other ordered list (a semaphore's
// waiters, which re-sort wholesale on Up) needs no such fixup. Requires
// k.mu held.
func (k *Kernel) reorderReady(t *Thread) {
	if t.status != Ready || t.qElem == nil {
		return
	}
	t.qElem.Remove()
	k.ready.InsertOrdered(t.qElem, readyLess)
}

// preemptable reports whether the head of the ready queue outranks the
// running thread. Requires k.mu held.
func (k *Kernel) preemptable() bool {
	e := k.ready.Front()
	if e == nil {
		return false
	}
	head := e.Value.(*Thread)
	return head.effectivePriority > k.current.effectivePriority
}

// idleLoop is the idle thread's body: block forever, re-dispatched only
// when the ready queue is otherwise empty between ticks. It closes
// idleReady when it first runs; Start learns the idle thread pointer
// through its own semaphore handshake, not through idleReady.
func (k *Kernel) idleLoop() {
	close(k.idleReady)
	for {
		k.mu.Lock()
		k.current.status = Blocked
		k.schedule()
		k.mu.Unlock()
	}
}
