package kernel

// Tick advances the kernel's notion of time by one tick. It is meant to
// be called from a dedicated timer-driver goroutine at TimerFreq Hz,
// modeling devices/timer.c's timer_interrupt handler: it is the one
// piece of this package that runs concurrently with whatever thread
// happens to be current, standing in for a real interrupt handler. Like
// a real ISR, it must never block or switch threads -- it only updates
// counters, wakes sleepers onto the ready list, and at most flags the
// running thread for a later voluntary yield via requestPreemption /
// CheckPreempt.
func (k *Kernel) Tick() {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.tick++

	switch {
	case k.current == k.idle:
		k.statIdle++
		k.current.idleTicks++
	default:
		k.statKernel++
		k.current.kernelTicks++
	}

	k.wake(k.tick)

	k.mlfqsTick(k.tick)

	if k.current != k.idle {
		k.current.sliceTicks++
		if k.current.sliceTicks >= TimeSlice {
			k.current.yieldPending = true
		}
	}

	k.requestPreemption()
}
