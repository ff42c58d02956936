// Copyright 2016 The Go Kernel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command kernel boots a single-CPU, preemptive thread scheduler and
// runs a short demonstration scenario: it creates a pair of threads
// exercising priority preemption and lock donation, drives a timer-tick
// loop for -run-ticks ticks, and logs the kernel-wide tick statistics
// (total, idle and kernel ticks).
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/gokernel/threads/cmd/pflagvar"
	"github.com/gokernel/threads/kernel"
	"github.com/gokernel/threads/klog"
)

type bootFlags struct {
	MLFQS     bool `flag:"mlfqs,false,enable the multi-level feedback queue scheduler"`
	TimerFreq int  `flag:"timer-freq,100,timer interrupt frequency in Hz"`
	RunTicks  int  `flag:"run-ticks,200,number of timer ticks to drive before exiting"`
}

func main() {
	var bf bootFlags
	if err := pflagvar.RegisterFlagsInStruct(pflag.CommandLine, "flag", &bf); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	var klf klog.Flags
	goFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.RegisterFlags(goFlags, &klf, "")
	pflag.CommandLine.AddGoFlagSet(goFlags)
	pflag.Parse()

	if err := klf.Apply(klog.Default); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer klog.Default.Flush()

	k := kernel.New()
	k.Start(kernel.BootConfig{MLFQS: bf.MLFQS, TimerFreq: bf.TimerFreq})

	runDemo(k)

	interval := time.Second / time.Duration(bf.TimerFreq)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for i := 0; i < bf.RunTicks; i++ {
		<-ticker.C
		k.Tick()
	}

	stats := k.Stats()
	klog.Infof("kernel: ran %d ticks, idle=%d kernel=%d", k.Ticks(), stats.IdleTicks, stats.KernelTicks)
}

// runDemo creates a small pair of threads that exercise preemption and
// lock donation: a low-priority thread takes the lock first, a
// higher-priority thread blocks on it and donates its priority, and the
// low-priority thread runs the donated priority until it releases.
func runDemo(k *kernel.Kernel) {
	lock := k.NewLock()
	acquired := k.NewSemaphore(0)
	done := k.NewSemaphore(0)

	k.Create("demo-low", kernel.PriDefault-10, func(arg interface{}) {
		lock.Acquire()
		klog.Infof("demo: %s acquired the lock", k.Current())
		acquired.Up()
		lock.Release()
		done.Up()
	}, nil)

	acquired.Down() // wait for demo-low to actually hold the lock

	k.Create("demo-high", kernel.PriDefault+10, func(arg interface{}) {
		lock.Acquire()
		klog.Infof("demo: high-priority thread acquired the lock after donation")
		lock.Release()
		done.Up()
	}, nil)

	done.Down()
	done.Down()
}
