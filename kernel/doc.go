// Copyright 2016 The Go Kernel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kernel implements the core of a small single-CPU, preemptive
// thread scheduler: a priority-ordered ready queue, priority donation
// across chains of locks, Mesa-style condition variables that honor
// thread priority, a tick-driven sleep queue, and an optional
// multi-level feedback queue (MLFQS) policy that recomputes priorities
// from recent CPU usage.
//
// Threads are goroutines. There is no real hardware interrupt in a Go
// process, so "interrupt disable" -- the single primitive mutual
// exclusion the design assumes protects all scheduler state -- is
// modeled as a plain mutex (Kernel.mu) that is held only while scheduler
// state (ready queue, sleep queue, waiter lists, donor sets,
// effective-priority fields, MLFQS globals) is being manipulated, never
// for the duration of a thread's ordinary execution (a spinlock guarding
// only waiter queues, not whole critical sections): run each thread as a
// goroutine gated by a global scheduler mutex, preserving the single-CPU
// run-to-block model.
//
// Because Go cannot forcibly suspend an arbitrary running goroutine from
// outside, the "yield on interrupt return" behavior of a real tick-driven
// preemptive kernel is modeled cooperatively: Tick sets a per-thread flag
// when a thread's slice has expired, and CheckPreempt -- called by a
// running thread at its own preemption points, the same way a CPU-bound
// test loop calls thread_yield() -- observes and acts on that flag. See
// DESIGN.md for the full rationale.
package kernel
