package kernel

import (
	"sync"

	"github.com/gokernel/threads/internal/dll"
	"github.com/gokernel/threads/internal/fixedpoint"
	"github.com/gokernel/threads/klog"
)

// TIMER_FREQ bounds.
const (
	TimerFreqMin     = 19
	TimerFreqMax     = 1000
	TimerFreqDefault = 100

	// TimeSlice is the number of ticks a thread may run before the
	// scheduler requests a yield on interrupt return.
	TimeSlice = 4

	// donationChainCap bounds the worst-case cost of walking a chain of
	// nested lock donations: correctness of final priorities is
	// restored on release,
	// since release always recomputes from the current donor set.
	donationChainCap = 8
)

// BootConfig configures a Kernel at Start time; it is the surface the
// CLI (cmd/kernel) and tests bind to.
type BootConfig struct {
	MLFQS     bool
	TimerFreq int
}

// Stats reports the per-thread-class tick accounting the timer device
// keeps. This kernel has no usermode/process concept, so only the
// idle/kernel split is meaningful.
type Stats struct {
	IdleTicks, KernelTicks uint64
}

// Kernel holds all scheduler-global state. The zero value is not usable;
// construct one with New.
type Kernel struct {
	mu sync.Mutex // the scheduler-state lock: models "interrupts disabled"

	ready      dll.List
	sleepQ     dll.List
	allThreads dll.List

	current *Thread
	idle    *Thread

	destroyList []*Thread

	tick      uint64
	timerFreq int

	loadAvg fixedpoint.T
	mlfqs   bool

	nextTid int
	tidMu   sync.Mutex // dedicated tid-allocation lock, separate from k.mu

	idleReady chan struct{}

	statIdle, statKernel uint64
}

// New constructs a Kernel and promotes the calling goroutine to the
// kernel's first thread ("main"): reserve a TCB for the currently
// executing stack, allocate a tid, set
// status RUNNING. Call Start afterward to create the idle thread.
func New() *Kernel {
	k := &Kernel{timerFreq: TimerFreqDefault}
	k.ready.MakeEmpty()
	k.sleepQ.MakeEmpty()
	k.allThreads.MakeEmpty()
	k.idleReady = make(chan struct{})

	main := k.newThread("main", PriDefault, nil, nil)
	main.status = Running
	k.current = main
	return k
}

// Start enables the scheduling policy described by cfg and creates the
// idle thread. The calling thread blocks on a kernel semaphore so the
// idle thread is dispatched once; the idle thread records itself as
// k.idle and ups the semaphore before entering its loop, so the idle
// pointer is set by the time Start returns.
func (k *Kernel) Start(cfg BootConfig) {
	k.mu.Lock()
	k.mlfqs = cfg.MLFQS
	if cfg.TimerFreq >= TimerFreqMin && cfg.TimerFreq <= TimerFreqMax {
		k.timerFreq = cfg.TimerFreq
	}
	k.mu.Unlock()

	started := k.NewSemaphore(0)
	k.Create("idle", PriMin, func(arg interface{}) {
		k.mu.Lock()
		k.idle = k.current
		k.mu.Unlock()
		started.Up()
		k.idleLoop()
	}, nil)
	started.Down()
	klog.Infof("kernel: started, mlfqs=%v timer_freq=%d", cfg.MLFQS, k.timerFreq)
}

// newThread allocates a TCB and links it into the all-threads list.
// Requires that tid allocation (k.tidMu) is used, not k.mu: tid
// allocation happens in non-critical contexts and gets its own
// lock so it need not wait for scheduler-state manipulation to finish.
func (k *Kernel) newThread(name string, priority int, entry func(arg interface{}), arg interface{}) *Thread {
	k.tidMu.Lock()
	tid := k.nextTid
	k.nextTid++
	k.tidMu.Unlock()

	t := &Thread{
		k:                 k,
		tid:               tid,
		name:              name,
		status:            Blocked,
		basePriority:      priority,
		effectivePriority: priority,
		resume:            make(chan struct{}, 1),
		magic:             stackMagic,
		entry:             entry,
		arg:               arg,
	}
	t.donors.MakeEmpty()

	k.mu.Lock()
	t.allElem = dll.NewElem(t)
	k.allThreads.PushBack(t.allElem)
	k.mu.Unlock()
	return t
}

// ForEachThread calls f for every live thread, in no particular order,
// mirroring thread_foreach() in threads/thread.c. f must not block or
// call back into the kernel, since k.mu is held for the whole walk
// (MLFQS recompute uses the same walk, forEachThreadLocked).
func (k *Kernel) ForEachThread(f func(t *Thread)) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.forEachThreadLocked(f)
}

func (k *Kernel) forEachThreadLocked(f func(t *Thread)) {
	for e := k.allThreads.Front(); e != nil; e = k.allThreads.Next(e) {
		f(e.Value.(*Thread))
	}
}

// Stats returns the accumulated idle/kernel tick counts.
func (k *Kernel) Stats() Stats {
	k.mu.Lock()
	defer k.mu.Unlock()
	return Stats{IdleTicks: k.statIdle, KernelTicks: k.statKernel}
}

// Ticks returns the current global tick count.
func (k *Kernel) Ticks() uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.tick
}
