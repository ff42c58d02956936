// Copyright 2016 The Go Kernel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pflagvar is flagvar.RegisterFlagsInStruct for a pflag.FlagSet,
// letting cmd/kernel's tagged boot-flags struct (which mirrors
// kernel.BootConfig) bind its bool/int fields onto the same
// pflag.FlagSet the kernel binary uses for its other command-line flags.
package pflagvar

import (
	"flag"

	"github.com/spf13/pflag"

	"github.com/gokernel/threads/cmd/flagvar"
)

// RegisterFlagsInStruct is the same flagvar.RegisterFlagsInStruct except
// that it operates on pflag.FlagSet.
func RegisterFlagsInStruct(pfs *pflag.FlagSet, tag string, structWithFlags interface{}) error {
	gfs := flag.NewFlagSet("", flag.ContinueOnError)
	if err := flagvar.RegisterFlagsInStruct(gfs, tag, structWithFlags); err != nil {
		return err
	}
	pfs.AddGoFlagSet(gfs)
	return nil
}
