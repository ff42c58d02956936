package kernel

import "github.com/gokernel/threads/internal/dll"

func sleepLess(a, b interface{}) bool {
	return a.(*Thread).wakeupTick < b.(*Thread).wakeupTick
}

// SleepUntil blocks the current thread until the kernel's tick counter
// reaches at least deadline, mirroring timer_sleep()'s wakeup-queue
// design: rather than busy-waiting, the caller is parked
// on a list ordered by wakeup tick and redispatched by wake, which Tick
// invokes once per tick. The idle thread must never sleep: it is the
// thread the scheduler falls back to when nothing else is runnable, and
// a sleeping idle thread would leave the system with no one to dispatch.
func (k *Kernel) SleepUntil(deadline uint64) {
	k.mu.Lock()
	cur := k.current
	assert(cur != k.idle, "kernel: idle thread must not sleep")

	if deadline <= k.tick {
		k.mu.Unlock()
		return
	}

	cur.wakeupTick = deadline
	cur.qElem = dll.NewElem(cur)
	k.sleepQ.InsertOrdered(cur.qElem, sleepLess)
	cur.status = Blocked
	k.schedule()
	k.mu.Unlock()
}

// wake unblocks every thread whose deadline has arrived, in ascending
// wakeup-tick order, stopping at the first thread whose deadline is
// still in the future. Since the sleep queue is kept sorted, this costs
// O(k) for k expiring sleepers rather than a full scan. Requires k.mu
// held; called only from Tick, so it must not itself
// cause a context switch -- it moves woken threads onto the ready list
// directly instead of calling Unblock (whose preemption test may switch
// threads), and leaves Tick to flag a preemption request afterwards.
func (k *Kernel) wake(now uint64) {
	for {
		e := k.sleepQ.Front()
		if e == nil {
			return
		}
		t := e.Value.(*Thread)
		if t.wakeupTick > now {
			return
		}
		e.Remove()
		t.qElem = nil
		t.wakeupTick = 0
		t.status = Ready
		t.qElem = dll.NewElem(t)
		k.ready.InsertOrdered(t.qElem, readyLess)
	}
}
