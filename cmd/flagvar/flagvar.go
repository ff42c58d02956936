// Copyright 2016 The Go Kernel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flagvar binds flag.FlagSet variables from struct fields tagged
// `flag:"name,default,usage"`, so a tagged boot-config struct such as
// cmd/kernel's bootFlags can register its own command-line flags without
// a handwritten flag.BoolVar/flag.IntVar call per field.
//
// Only bool and int fields are supported: the kernel binary's boot flags
// (-mlfqs, -timer-freq, -run-ticks) are the only ones colocated this way.
package flagvar

import (
	"flag"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ParseFlagTag splits a `name,default,usage` struct tag into its three
// components. <default> may be empty, in which case the field's zero
// value is used, but <name> and <usage> must be supplied.
func ParseFlagTag(t string) (name, value, usage string, err error) {
	parts := strings.SplitN(t, ",", 3)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("flagvar: tag %q: want name,default,usage", t)
	}
	name, value, usage = parts[0], parts[1], parts[2]
	if len(name) == 0 {
		return "", "", "", fmt.Errorf("flagvar: tag %q: empty flag name", t)
	}
	if len(usage) == 0 {
		return "", "", "", fmt.Errorf("flagvar: tag %q: empty usage", t)
	}
	return name, value, usage, nil
}

// RegisterFlagsInStruct registers a flag.FlagSet variable for every bool
// or int field of structWithFlags tagged with the given struct tag.
// structWithFlags must be a pointer to a struct.
func RegisterFlagsInStruct(fs *flag.FlagSet, tag string, structWithFlags interface{}) error {
	typ := reflect.TypeOf(structWithFlags)
	if typ == nil || typ.Kind() != reflect.Ptr || typ.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("flagvar: %T is not a pointer to a struct", structWithFlags)
	}
	typ = typ.Elem()
	val := reflect.ValueOf(structWithFlags).Elem()

	for i := 0; i < typ.NumField(); i++ {
		fieldType := typ.Field(i)
		tagValue, ok := fieldType.Tag.Lookup(tag)
		if !ok {
			continue
		}
		name, def, usage, err := ParseFlagTag(tagValue)
		if err != nil {
			return err
		}
		if fs.Lookup(name) != nil {
			return fmt.Errorf("flagvar: flag %v already defined for this flag.FlagSet", name)
		}

		fieldValue := val.Field(i)
		switch fieldValue.Kind() {
		case reflect.Bool:
			dv := false
			if len(def) > 0 {
				if dv, err = strconv.ParseBool(def); err != nil {
					return fmt.Errorf("flagvar: field %v: %v", fieldType.Name, err)
				}
			}
			fs.BoolVar(fieldValue.Addr().Interface().(*bool), name, dv, usage)
		case reflect.Int:
			dv := 0
			if len(def) > 0 {
				parsed, err := strconv.ParseInt(def, 10, strconv.IntSize)
				if err != nil {
					return fmt.Errorf("flagvar: field %v: %v", fieldType.Name, err)
				}
				dv = int(parsed)
			}
			fs.IntVar(fieldValue.Addr().Interface().(*int), name, dv, usage)
		default:
			return fmt.Errorf("flagvar: field %v: unsupported flag type %v (only bool and int are supported)", fieldType.Name, fieldValue.Kind())
		}
	}
	return nil
}
