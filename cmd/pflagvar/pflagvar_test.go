// Copyright 2016 The Go Kernel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pflagvar_test

import (
	"testing"

	"github.com/spf13/pflag"

	"github.com/gokernel/threads/cmd/pflagvar"
)

// bootFlags mirrors the fields of kernel.BootConfig: the bool/int shape
// this package is actually wired to bind.
type bootFlags struct {
	MLFQS     bool `flag:"mlfqs,false,enable the multi-level feedback queue scheduler"`
	TimerFreq int  `flag:"timer-freq,100,timer interrupt frequency in Hz"`
}

func TestRegisterFlagsInStruct(t *testing.T) {
	var bf bootFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := pflagvar.RegisterFlagsInStruct(fs, "flag", &bf); err != nil {
		t.Fatalf("RegisterFlagsInStruct: %v", err)
	}
	if bf.MLFQS != false || bf.TimerFreq != 100 {
		t.Fatalf("defaults not applied: %+v", bf)
	}
	if err := fs.Parse([]string{"--mlfqs", "--timer-freq=19"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !bf.MLFQS {
		t.Fatalf("--mlfqs did not set bf.MLFQS")
	}
	if bf.TimerFreq != 19 {
		t.Fatalf("bf.TimerFreq = %d, want 19", bf.TimerFreq)
	}
}

func TestRegisterFlagsInStructPropagatesError(t *testing.T) {
	bad := struct {
		Name string `flag:"name,,a string flag"`
	}{}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := pflagvar.RegisterFlagsInStruct(fs, "flag", &bad); err == nil {
		t.Fatalf("expected an error for an unsupported (string) field type")
	}
}
