// Copyright 2016 The Go Kernel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flagvar_test

import (
	"flag"
	"testing"

	"github.com/gokernel/threads/cmd/flagvar"
)

// bootFlags mirrors the shape of kernel.BootConfig plus the cmd/kernel
// binary's own -run-ticks flag: the only struct this package needs to bind.
type bootFlags struct {
	MLFQS     bool `flag:"mlfqs,false,enable the multi-level feedback queue scheduler"`
	TimerFreq int  `flag:"timer-freq,100,timer interrupt frequency in Hz"`
	RunTicks  int  `flag:"run-ticks,200,number of timer ticks to drive before exiting"`
	unflagged string
}

func TestRegisterFlagsInStructDefaults(t *testing.T) {
	var bf bootFlags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if err := flagvar.RegisterFlagsInStruct(fs, "flag", &bf); err != nil {
		t.Fatalf("RegisterFlagsInStruct: %v", err)
	}
	if bf.MLFQS != false || bf.TimerFreq != 100 || bf.RunTicks != 200 {
		t.Fatalf("defaults not applied: %+v", bf)
	}
	if bf.unflagged != "" {
		t.Fatalf("untagged field should be left alone, got %q", bf.unflagged)
	}
}

func TestRegisterFlagsInStructParse(t *testing.T) {
	var bf bootFlags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if err := flagvar.RegisterFlagsInStruct(fs, "flag", &bf); err != nil {
		t.Fatalf("RegisterFlagsInStruct: %v", err)
	}
	if err := fs.Parse([]string{"-mlfqs", "-timer-freq=1000"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !bf.MLFQS {
		t.Fatalf("-mlfqs did not set bf.MLFQS")
	}
	if bf.TimerFreq != 1000 {
		t.Fatalf("bf.TimerFreq = %d, want 1000", bf.TimerFreq)
	}
}

func TestRegisterFlagsInStructRejectsUnsupportedType(t *testing.T) {
	bad := struct {
		Name string `flag:"name,,a string flag"`
	}{}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if err := flagvar.RegisterFlagsInStruct(fs, "flag", &bad); err == nil {
		t.Fatalf("expected an error for an unsupported (string) field type")
	}
}

func TestRegisterFlagsInStructRejectsDuplicateName(t *testing.T) {
	dup := struct {
		A bool `flag:"same,false,first"`
		B bool `flag:"same,false,second"`
	}{}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if err := flagvar.RegisterFlagsInStruct(fs, "flag", &dup); err == nil {
		t.Fatalf("expected an error for two fields tagged with the same flag name")
	}
}

func TestRegisterFlagsInStructRequiresPointerToStruct(t *testing.T) {
	var bf bootFlags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if err := flagvar.RegisterFlagsInStruct(fs, "flag", bf); err == nil {
		t.Fatalf("expected an error when passed a struct value instead of a pointer")
	}
}

func TestParseFlagTagRejectsMissingFields(t *testing.T) {
	if _, _, _, err := flagvar.ParseFlagTag("just-a-name"); err == nil {
		t.Fatalf("expected an error for a tag missing default/usage fields")
	}
	if _, _, _, err := flagvar.ParseFlagTag(",100,no name"); err == nil {
		t.Fatalf("expected an error for a tag with an empty name")
	}
	if _, _, _, err := flagvar.ParseFlagTag("name,100,"); err == nil {
		t.Fatalf("expected an error for a tag with empty usage")
	}
}
