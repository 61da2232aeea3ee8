// Package env fills config structs from environment variables.
//
// Fields opt in with a tag:
//
//	Port    int           `env:"SHOPLIST_HTTP_PORT"`
//	UserID  string        `env:"SHOPLIST_USER_ID,required"`
//	Timeout time.Duration `env:"SHOPLIST_REMOTE_TIMEOUT"`
//
// Supported kinds are string, bool, signed and unsigned integers,
// time.Duration (Go duration syntax) and []string (comma separated, blank
// entries dropped). Nested structs are walked recursively and validated
// through Validator once loaded. Unset variables leave the zero value in
// place; defaults belong to the consuming package.
package env

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Validator is implemented by config structs that need validation.
type Validator interface {
	Validate() error
}

// ErrInvalidValue is returned when an environment variable value cannot be parsed.
type ErrInvalidValue struct {
	Field  string
	EnvVar string
	Value  string
	Err    error
}

func (e ErrInvalidValue) Error() string {
	return fmt.Sprintf("invalid value for %s=%q (field: %s): %v", e.EnvVar, e.Value, e.Field, e.Err)
}

func (e ErrInvalidValue) Unwrap() error {
	return e.Err
}

// ErrNotStructPointer is returned when Load is called with a non-pointer or non-struct argument.
type ErrNotStructPointer struct {
	Type string
}

func (e ErrNotStructPointer) Error() string {
	return fmt.Sprintf("env.Load: argument must be a pointer to struct, got %s", e.Type)
}

// ErrUnsupportedType is returned when a tagged field has a kind Load cannot set.
type ErrUnsupportedType struct {
	Kind string
}

func (e ErrUnsupportedType) Error() string {
	return fmt.Sprintf("unsupported type: %s", e.Kind)
}

// ErrMissingValue is returned when a required variable is unset.
type ErrMissingValue struct {
	Field  string
	EnvVar string
}

func (e ErrMissingValue) Error() string {
	return fmt.Sprintf("%s is required (field: %s)", e.EnvVar, e.Field)
}

var (
	durationType = reflect.TypeFor[time.Duration]()
	timeType     = reflect.TypeFor[time.Time]()
)

// Load populates the struct v points to and runs Validate on every nested
// struct and finally on v itself.
func Load(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer{Type: fmt.Sprintf("%T", v)}
	}
	if err := load(rv.Elem()); err != nil {
		return err
	}
	return validate(rv)
}

type tag struct {
	name     string
	required bool
}

func parseTag(sf reflect.StructField) (tag, bool) {
	name, opts, _ := strings.Cut(sf.Tag.Get("env"), ",")
	if name == "" {
		return tag{}, false
	}
	t := tag{name: name}
	for opt := range strings.SplitSeq(opts, ",") {
		if strings.TrimSpace(opt) == "required" {
			t.required = true
		}
	}
	return t, true
}

func load(sv reflect.Value) error {
	st := sv.Type()
	for i := range st.NumField() {
		sf, fv := st.Field(i), sv.Field(i)
		if !fv.CanSet() {
			continue
		}

		if fv.Kind() == reflect.Struct && fv.Type() != timeType {
			if err := load(fv); err != nil {
				return err
			}
			if err := validate(fv.Addr()); err != nil {
				return err
			}
			continue
		}

		t, ok := parseTag(sf)
		if !ok {
			continue
		}
		raw, set := os.LookupEnv(t.name)
		if !set {
			if t.required {
				return ErrMissingValue{Field: sf.Name, EnvVar: t.name}
			}
			continue
		}
		if err := assign(fv, raw); err != nil {
			return ErrInvalidValue{Field: sf.Name, EnvVar: t.name, Value: raw, Err: err}
		}
	}
	return nil
}

func validate(ptr reflect.Value) error {
	if v, ok := ptr.Interface().(Validator); ok {
		return v.Validate()
	}
	return nil
}

func assign(fv reflect.Value, raw string) error {
	ft := fv.Type()
	switch {
	case ft == durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		fv.SetInt(int64(d))

	case fv.Kind() == reflect.String:
		fv.SetString(raw)

	case fv.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		fv.SetBool(b)

	case fv.CanInt():
		n, err := strconv.ParseInt(raw, 10, ft.Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)

	case fv.CanUint() && fv.Kind() != reflect.Uintptr:
		n, err := strconv.ParseUint(raw, 10, ft.Bits())
		if err != nil {
			return err
		}
		fv.SetUint(n)

	case fv.Kind() == reflect.Slice && ft.Elem().Kind() == reflect.String:
		parts := []string{}
		for p := range strings.SplitSeq(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		fv.Set(reflect.ValueOf(parts).Convert(ft))

	case fv.Kind() == reflect.Slice:
		return ErrUnsupportedType{Kind: "[]" + ft.Elem().Kind().String()}

	default:
		return ErrUnsupportedType{Kind: fv.Kind().String()}
	}
	return nil
}
