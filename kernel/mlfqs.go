package kernel

import "github.com/gokernel/threads/internal/fixedpoint"

// MLFQS constants.
const (
	niceMin = -20
	niceMax = 20

	priorityRecomputePeriod = 4 // ticks between per-thread priority recomputes
)

// SetNice sets the calling thread's niceness and immediately recomputes
// its MLFQS priority, possibly yielding if it no longer has the highest
// priority (set_nice). Requires MLFQS be enabled; this kernel does not
// define nice's effect under the priority scheduler.
func (k *Kernel) SetNice(nice int) {
	assert(nice >= niceMin && nice <= niceMax, "kernel: SetNice(%d) out of range", nice)
	k.mu.Lock()
	defer k.mu.Unlock()
	k.current.nice = nice
	k.recomputePriorityLocked(k.current)
	k.testPreemption()
}

// GetNice returns the calling thread's niceness (get_nice).
func (k *Kernel) GetNice() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.current.nice
}

// GetLoadAvg returns 100 * load_avg, rounded to the nearest integer
// (get_load_avg's documented contract in devices/timer.c).
func (k *Kernel) GetLoadAvg() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return fixedpoint.ToIntRound(fixedpoint.MulInt(k.loadAvg, 100))
}

// GetRecentCPU returns 100 * the calling thread's recent_cpu, rounded to
// the nearest integer (get_recent_cpu).
func (k *Kernel) GetRecentCPU() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return fixedpoint.ToIntRound(fixedpoint.MulInt(k.current.recentCPU, 100))
}

// recomputePriorityLocked applies the MLFQS priority formula:
//
//	priority = PRI_MAX - (recent_cpu / 4) - (nice * 2)
//
// clamped to [PriMin, PriMax] -- the textbook formula can run outside
// the legal range and callers must not propagate that). Requires k.mu
// held; a no-op under the priority scheduler.
func (k *Kernel) recomputePriorityLocked(t *Thread) {
	if !k.mlfqs {
		return
	}
	p := PriMax - fixedpoint.ToIntTrunc(fixedpoint.DivInt(t.recentCPU, 4)) - t.nice*2
	if p < PriMin {
		p = PriMin
	}
	if p > PriMax {
		p = PriMax
	}
	t.basePriority = p
	t.effectivePriority = p
}

// mlfqsTick runs the per-tick MLFQS bookkeeping Tick delegates to when
// MLFQS is enabled: increment the running thread's recent_cpu by 1 every
// tick (unless it is the idle thread), recompute every thread's priority
// every priorityRecomputePeriod ticks, and recompute load_avg and every
// thread's recent_cpu once a second. Requires k.mu held;
// never yields directly, since it is invoked from Tick -- an ISR
// context -- and relies on requestPreemption instead.
func (k *Kernel) mlfqsTick(tick uint64) {
	if !k.mlfqs {
		return
	}

	if k.current != k.idle {
		k.current.recentCPU = fixedpoint.AddInt(k.current.recentCPU, 1)
	}

	if tick%uint64(k.timerFreq) == 0 {
		k.recomputeLoadAvgLocked()
		k.forEachThreadLocked(func(t *Thread) {
			k.recomputeRecentCPULocked(t)
		})
	}

	if tick%priorityRecomputePeriod == 0 {
		k.forEachThreadLocked(func(t *Thread) {
			k.recomputePriorityLocked(t)
		})
		k.requestPreemption()
	}
}

// readyThreadCount counts threads that are RUNNING or READY, not
// counting the idle thread, for the load_avg formula's "ready_threads"
// term. Requires k.mu held.
func (k *Kernel) readyThreadCount() int {
	n := k.ready.Len()
	if k.current != k.idle {
		n++
	}
	return n
}

// recomputeLoadAvgLocked applies:
//
//	load_avg = (59/60) * load_avg + (1/60) * ready_threads
//
// Requires k.mu held.
func (k *Kernel) recomputeLoadAvgLocked() {
	fiftyNineSixtieths := fixedpoint.Div(fixedpoint.FromInt(59), fixedpoint.FromInt(60))
	oneSixtieth := fixedpoint.Div(fixedpoint.FromInt(1), fixedpoint.FromInt(60))
	term1 := fixedpoint.Mul(fiftyNineSixtieths, k.loadAvg)
	term2 := fixedpoint.MulInt(oneSixtieth, k.readyThreadCount())
	k.loadAvg = fixedpoint.Add(term1, term2)
}

// recomputeRecentCPULocked applies:
//
//	recent_cpu = (2*load_avg)/(2*load_avg+1) * recent_cpu + nice
//
// Requires k.mu held.
func (k *Kernel) recomputeRecentCPULocked(t *Thread) {
	twoLoadAvg := fixedpoint.MulInt(k.loadAvg, 2)
	coeff := fixedpoint.Div(twoLoadAvg, fixedpoint.AddInt(twoLoadAvg, 1))
	t.recentCPU = fixedpoint.AddInt(fixedpoint.Mul(coeff, t.recentCPU), t.nice)
}
