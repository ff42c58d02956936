package kernel

import (
	"github.com/gokernel/threads/klog"
)

// assert aborts the kernel (logs fatally) if cond is false. It backs the
// contract-violation failures: a lock released by its non-holder,
// double-acquisition of a held lock, the idle thread sleeping, and so
// on. Nothing records whether a call comes from Tick, so a blocking call
// made from Tick is not detected.
func assert(cond bool, format string, args ...interface{}) {
	if !cond {
		klog.Default.Fatalf(format, args...)
	}
}

const stackMagic uint32 = 0xcd6abf4b

// checkMagic re-validates a thread's stack-overflow sentinel, called on
// every Current(), mirroring a thread_current()'s ASSERT(is_thread(t)).
func checkMagic(t *Thread) {
	assert(t.magic == stackMagic, "kernel: thread %q stack overflow detected (magic corrupted)", t.name)
}
