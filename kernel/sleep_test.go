package kernel

import "testing"

// TestSleepWakesAtDeadline checks that a sleeping thread is not woken
// before its deadline tick and is made ready once Tick reaches it.
func TestSleepWakesAtDeadline(t *testing.T) {
	k := newTestKernel(t)
	started := k.NewSemaphore(0)
	done := k.NewSemaphore(0)

	const sleepTicks = 5
	var wokeAtTick uint64

	k.Create("sleeper", PriDefault, func(arg interface{}) {
		started.Up()
		deadline := k.Ticks() + sleepTicks
		k.SleepUntil(deadline)
		wokeAtTick = k.Ticks()
		done.Up()
	}, nil)

	started.Down()

	for i := 0; i < sleepTicks; i++ {
		k.Tick()
	}

	done.Down()

	if wokeAtTick < sleepTicks {
		t.Fatalf("sleeper woke at tick %d before its deadline %d", wokeAtTick, sleepTicks)
	}
}

// TestSleepUntilPastDeadlineReturnsImmediately checks that sleeping
// until a tick that has already passed does not block the caller.
func TestSleepUntilPastDeadlineReturnsImmediately(t *testing.T) {
	k := newTestKernel(t)
	k.Tick()
	k.Tick()
	k.SleepUntil(1) // tick is already 2; must return without blocking
}

// TestMultipleSleepersWakeInDeadlineOrder checks that several sleepers
// with different deadlines wake in deadline order as Tick advances,
// regardless of the order they called SleepUntil in.
func TestMultipleSleepersWakeInDeadlineOrder(t *testing.T) {
	k := newTestKernel(t)
	started := k.NewSemaphore(0)
	done := k.NewSemaphore(0)
	var order []string

	spawn := func(name string, sleepFor uint64) {
		k.Create(name, PriDefault, func(arg interface{}) {
			started.Up()
			k.SleepUntil(k.Ticks() + sleepFor)
			order = append(order, name)
			done.Up()
		}, nil)
		started.Down()
	}

	spawn("late", 6)
	spawn("early", 2)
	spawn("mid", 4)

	for i := 0; i < 6; i++ {
		k.Tick()
	}
	done.Down()
	done.Down()
	done.Down()

	want := []string{"early", "mid", "late"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i, w := range want {
		if order[i] != w {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
