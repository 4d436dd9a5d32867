package github

import (
	"fmt"
	"reflect"
	"strings"
)

// Patch is the outcome of comparing a desired value against the observed one.
type Patch[H, W any] struct {
	// Target is the observed value with every set desired field applied.
	Target H
	// Delta is the desired value with fields equal to the observed value unset.
	Delta W
	// Fields lists the keys of the fields that differ, in declaration order.
	Fields []string
}

// Changed reports whether applying the desired value would modify anything.
func (p Patch[H, W]) Changed() bool {
	return len(p.Fields) > 0
}

// Merge returns a copy of have with every field that is set in want
// overwritten. Fields are matched by name; want fields that are not
// Optional, or that are tagged diff:"-", are ignored.
func Merge[H, W any](have H, want W) H {
	return Diff(have, want).Target
}

// Diff merges want into have and records which fields changed. Equality is
// reflect.DeepEqual per field.
func Diff[H, W any](have H, want W) Patch[H, W] {
	target := have
	delta := want

	tv := reflect.ValueOf(&target).Elem()
	dv := reflect.ValueOf(&delta).Elem()
	if tv.Kind() != reflect.Struct || dv.Kind() != reflect.Struct {
		panic(fmt.Sprintf("diff: %T and %T must both be structs", have, want))
	}

	var fields []string
	for i := 0; i < dv.NumField(); i++ {
		sf := dv.Type().Field(i)
		if !sf.IsExported() || sf.Tag.Get("diff") == "-" {
			continue
		}
		opt, ok := dv.Field(i).Interface().(optionalValue)
		if !ok {
			continue
		}
		if !opt.IsSet() {
			continue
		}

		hf := tv.FieldByName(sf.Name)
		if !hf.IsValid() {
			panic(fmt.Sprintf("diff: %T has no field %s", have, sf.Name))
		}
		value := reflect.ValueOf(opt.anyValue())
		if !value.Type().AssignableTo(hf.Type()) {
			if !value.Type().ConvertibleTo(hf.Type()) {
				panic(fmt.Sprintf("diff: cannot assign %s to %T.%s", value.Type(), have, sf.Name))
			}
			value = value.Convert(hf.Type())
		}

		if reflect.DeepEqual(hf.Interface(), value.Interface()) {
			dv.Field(i).Set(reflect.Zero(sf.Type))
			continue
		}
		hf.Set(value)
		fields = append(fields, fieldKey(sf))
	}

	return Patch[H, W]{Target: target, Delta: delta, Fields: fields}
}

// fieldKey is the yaml key of a field, falling back to its lowercased name.
func fieldKey(sf reflect.StructField) string {
	if tag := sf.Tag.Get("yaml"); tag != "" {
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(sf.Name)
}
