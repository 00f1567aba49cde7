/*
Copyright © 2024-2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package inputs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Input is a validated request body for one model variant.
type Input interface {
	Validate() error
}

// Payload is the serialized form of an Input, ready to be sent as a JSON body.
//
// Every field that has a value is included, defaults materialized. Optional
// fields that were never set (seed, webhook, reference images) are omitted.
type Payload map[string]any

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// check runs the struct-tag rules of in, then appends any group-level failures.
func check(in Input, extra ...*ValidationError) error {
	var errs ValidationErrors
	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating %T: %w", in, err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fromFieldError(fe))
		}
	}
	for _, e := range extra {
		if e != nil {
			errs = append(errs, e)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func fromFieldError(fe validator.FieldError) *ValidationError {
	constraint := fe.Tag()
	if fe.Param() != "" {
		constraint += "=" + fe.Param()
	}
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "gte":
		msg = fmt.Sprintf("must be greater than or equal to %s, got %v", fe.Param(), fe.Value())
	case "lte":
		msg = fmt.Sprintf("must be less than or equal to %s, got %v", fe.Param(), fe.Value())
	case "oneof":
		msg = fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "http_url":
		msg = fmt.Sprintf("must be an absolute http(s) URL, got %q", fmt.Sprint(fe.Value()))
	default:
		msg = fmt.Sprintf("failed %q constraint", constraint)
	}
	return &ValidationError{
		Field:      fe.Field(),
		Constraint: constraint,
		Value:      fe.Value(),
		Message:    msg,
	}
}

var fieldCache sync.Map // reflect.Type -> map[string]reflect.Type

// FieldTypes returns the JSON field names accepted by in, mapped to their Go
// types. Names are exact: "Prompt" is not "prompt".
func FieldTypes(in Input) map[string]reflect.Type {
	return maps.Clone(fieldTypes(in))
}

func fieldTypes(in Input) map[string]reflect.Type {
	t := reflect.TypeOf(in)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if m, ok := fieldCache.Load(t); ok {
		return m.(map[string]reflect.Type)
	}
	m := map[string]reflect.Type{}
	collectFields(t, m)
	fieldCache.Store(t, m)
	return m
}

// collectFields walks embedded groups the way encoding/json flattens them.
func collectFields(t reflect.Type, m map[string]reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectFields(ft, m)
				continue
			}
		}
		if !f.IsExported() || name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		m[name] = f.Type
	}
}

// Decode maps raw field values onto dst and validates the result. dst should
// already carry its defaults (see the New*Input constructors); fields absent
// from raw keep them. Keys must match a field name exactly; any other key,
// including a differently cased one, is ignored.
func Decode(raw map[string]any, dst Input) error {
	fields := fieldTypes(dst)
	known := make(map[string]any, len(raw))
	for k, v := range raw {
		if _, ok := fields[k]; ok {
			known[k] = v
		}
	}
	data, err := json.Marshal(known)
	if err != nil {
		return fmt.Errorf("encoding raw input: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if i := strings.LastIndexByte(field, '.'); i >= 0 {
				field = field[i+1:]
			}
			return ValidationErrors{{
				Field:      field,
				Constraint: "type",
				Value:      typeErr.Value,
				Message:    fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
				Cause:      err,
			}}
		}
		return fmt.Errorf("decoding %T: %w", dst, err)
	}
	return dst.Validate()
}

// Serialize validates in and returns its payload. Numbers are kept as
// json.Number so that large seeds survive a second Decode untouched.
func Serialize(in Input) (Payload, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encoding %T: %w", in, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding %T payload: %w", in, err)
	}
	return p, nil
}
