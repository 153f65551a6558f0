// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reflectx provides reflection helpers, including setting
// struct fields from `default:` tags.
package reflectx

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/vkhuman/human3d/base/errors"
)

// SetFromDefaultTags sets the fields of the struct pointed to by obj
// from their `default:` field tags, recursing into struct fields
// without a tag. Fields without a tag are otherwise left alone.
// Values are parsed as by [SetFromString].
func SetFromDefaultTags(obj any) error {
	if obj == nil {
		return nil
	}
	ov := reflect.ValueOf(obj)
	if ov.Kind() != reflect.Pointer {
		return fmt.Errorf("reflectx.SetFromDefaultTags: need a pointer, not %T", obj)
	}
	if ov.IsNil() {
		return nil
	}
	val := NonPointerValue(ov)
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("reflectx.SetFromDefaultTags: need a struct, not %T", obj)
	}
	typ := val.Type()
	var errs []error
	for i := range typ.NumField() {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := val.Field(i)
		def, ok := f.Tag.Lookup("default")
		if !ok {
			if NonPointerType(f.Type).Kind() == reflect.Struct {
				errs = append(errs, SetFromDefaultTags(PointerValue(fv).Interface()))
			}
			continue
		}
		if err := SetFromString(PointerValue(fv).Interface(), def); err != nil {
			errs = append(errs, fmt.Errorf("reflectx.SetFromDefaultTags: field %s of %s: %w", f.Name, typ.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// SetFromString sets the value pointed to by ptr from the given string.
// Types implementing [encoding.TextUnmarshaler] parse themselves;
// strings, bools and numbers are parsed with strconv; and arrays,
// slices, maps and structs are parsed as JSON.
func SetFromString(ptr any, s string) error {
	if tu, ok := ptr.(encoding.TextUnmarshaler); ok {
		return tu.UnmarshalText([]byte(s))
	}
	pv := reflect.ValueOf(ptr)
	if pv.Kind() != reflect.Pointer || pv.IsNil() {
		return fmt.Errorf("reflectx.SetFromString: need a non-nil pointer, not %T", ptr)
	}
	v := pv.Elem()
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 0, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(s, 0, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Array, reflect.Slice, reflect.Map, reflect.Struct:
		return json.Unmarshal([]byte(s), ptr)
	default:
		return fmt.Errorf("reflectx.SetFromString: unsupported kind %v of %T", v.Kind(), ptr)
	}
	return nil
}
