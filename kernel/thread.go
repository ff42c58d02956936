package kernel

import (
	"fmt"

	"github.com/gokernel/threads/internal/dll"
	"github.com/gokernel/threads/internal/fixedpoint"
)

// Status is a thread's run state.
type Status int

const (
	Blocked Status = iota
	Ready
	Running
	Dying
)

func (s Status) String() string {
	switch s {
	case Blocked:
		return "blocked"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Dying:
		return "dying"
	default:
		return "unknown"
	}
}

// Priority bounds.
const (
	PriMin     = 0
	PriMax     = 63
	PriDefault = 31
)

// Thread is a kernel thread control block (TCB). One Thread backs one Go
// goroutine; create() launches the goroutine, which parks immediately
// until the scheduler dispatches it for the first time.
type Thread struct {
	k *Kernel

	tid    int
	name   string
	status Status

	basePriority      int
	effectivePriority int

	wakeupTick uint64 // absolute tick at which a sleeper wakes; 0 when not sleeping
	waitingOn  *Lock  // the lock this thread is blocked trying to acquire, if any

	donors dll.List // threads currently donating priority to this one

	nice      int
	recentCPU fixedpoint.T

	// qElem is this thread's membership in at most one of {ready queue,
	// sleep queue, a single semaphore/lock/condvar waiter list} at a
	// time.
	qElem *dll.Elem

	// donorElem is this thread's membership in some other thread's
	// donors set; distinct from qElem because a thread can simultaneously
	// be waiting on a lock (on qElem, in that lock's semaphore waiters)
	// and donating priority to the lock's holder (via donorElem, in the
	// holder's donors list).
	donorElem *dll.Elem

	allElem *dll.Elem // membership in the kernel's all-threads list

	entry func(arg interface{})
	arg   interface{}

	// resume is the low-level dispatch primitive: a goroutine blocks by
	// receiving from its own resume channel, and is dispatched by
	// having another goroutine (holding Kernel.mu) send to it. This is
	// an adaptation of a binary-semaphore pattern: the same "block until
	// exactly one token arrives" primitive, repurposed from mutex-wakeup
	// to thread-dispatch.
	resume chan struct{}

	sliceTicks   int  // ticks accumulated in the current TIME_SLICE window
	yieldPending bool // set by Tick when this thread's slice has expired

	idleTicks, kernelTicks uint64

	magic uint32
}

func (t *Thread) String() string {
	return fmt.Sprintf("Thread(tid=%d name=%q status=%s base=%d eff=%d)",
		t.tid, t.name, t.status, t.basePriority, t.effectivePriority)
}

// EffectivePriority returns the thread's current effective priority.
// Requires the kernel lock be held by the caller (all scheduler-state
// reads/writes do).
func (t *Thread) EffectivePriority() int { return t.effectivePriority }

// BasePriority returns the thread's own, undonated priority.
func (t *Thread) BasePriority() int { return t.basePriority }

// Tid returns the thread's small unique id.
func (t *Thread) Tid() int { return t.tid }

// Name returns the thread's display name.
func (t *Thread) Name() string { return t.name }

// Status returns the thread's current run state.
func (t *Thread) Status() Status { return t.status }

// recomputeEffectivePriority sets effectivePriority to
// max(basePriority, max over donors of donor.effectivePriority).
// Requires k.mu held.
func (t *Thread) recomputeEffectivePriority() {
	p := t.basePriority
	for e := t.donors.Front(); e != nil; e = t.donors.Next(e) {
		d := e.Value.(*Thread)
		if d.effectivePriority > p {
			p = d.effectivePriority
		}
	}
	t.effectivePriority = p
}
