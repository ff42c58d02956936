package klog

import "testing"

func TestConfigureIdempotence(t *testing.T) {
	l := New("test")
	if err := l.ConfigureLogger(LogToStderr(true)); err != nil {
		t.Fatalf("first configure: %v", err)
	}
	if err := l.ConfigureLogger(LogToStderr(false)); err != ErrConfigured {
		t.Fatalf("second configure without override: got %v, want ErrConfigured", err)
	}
	if err := l.ConfigureLogger(OverridePriorConfiguration(true), LogToStderr(false)); err != nil {
		t.Fatalf("override configure: %v", err)
	}
}

func TestVerbosityGate(t *testing.T) {
	l := New("test")
	if l.V(1) {
		t.Fatalf("V(1) should be false at default verbosity")
	}
	if err := l.ConfigureLogger(Level(2)); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if !l.V(1) {
		t.Fatalf("V(1) should be true once configured at level 2")
	}
}
