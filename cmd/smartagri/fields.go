package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/mark3labs/smartagri/internal/farm"
)

// registerFieldFlags adds one flag per wizard field, named like the request key.
func registerFieldFlags(fs *pflag.FlagSet) {
	for _, f := range farm.Fields() {
		spec, _ := farm.Spec(f)
		usage := spec.LabelKey
		if spec.Unit != "" {
			usage += " (" + spec.Unit + ")"
		}
		switch spec.Kind {
		case farm.KindNumber:
			def, _ := spec.Default.(float64)
			fs.Float64(string(f), def, fmt.Sprintf("%s, %g to %g", usage, spec.Min, spec.Max))
		case farm.KindEnum:
			def, _ := spec.Default.(string)
			fs.String(string(f), def, fmt.Sprintf("%s, one of %v", usage, spec.Options))
		default:
			fs.String(string(f), "", usage)
		}
	}
}

// applyFieldFlags writes the flags the user set into m. Unset flags leave m
// untouched.
func applyFieldFlags(fs *pflag.FlagSet, m *farm.Model) error {
	for _, f := range farm.Fields() {
		flag := fs.Lookup(string(f))
		if flag == nil || !flag.Changed {
			continue
		}
		spec, _ := farm.Spec(f)

		var value any
		if spec.Kind == farm.KindNumber {
			v, err := fs.GetFloat64(string(f))
			if err != nil {
				return err
			}
			value = v
		} else {
			value = flag.Value.String()
		}

		if err := m.Set(f, value); err != nil {
			return fmt.Errorf("--%s: %w", f, err)
		}
	}
	return nil
}
