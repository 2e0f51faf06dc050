package node

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate checks numeric bounds and enums declared in `validate` tags.
// Field names in errors are the JSON names.
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonName)
}

// Apply overlays JSON-encoded field values onto n. Keys are JSON field
// names; fields not mentioned keep their current value. Unknown fields and
// type mismatches wrap ErrInvalidInput.
func Apply(n Node, args map[string]json.RawMessage) error {
	if len(args) == 0 {
		return nil
	}

	current, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode node: %w", err)
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(current, &fields); err != nil {
		return fmt.Errorf("failed to encode node: %w", err)
	}
	maps.Copy(fields, args)

	merged, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	dec := json.NewDecoder(bytes.NewReader(merged))
	dec.DisallowUnknownFields()
	if err := dec.Decode(n); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// ApplyJSON is Apply for a JSON object.
func ApplyJSON(n Node, data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	var args map[string]json.RawMessage
	if err := json.Unmarshal(data, &args); err != nil {
		return fmt.Errorf("%w: arguments must be a JSON object: %v", ErrInvalidInput, err)
	}
	return Apply(n, args)
}

// Validate checks n's fields against their declared bounds and reports
// missing required references.
func Validate(n Node) error {
	v := reflect.ValueOf(n)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("%w: node must be a struct, got %T", ErrInvalidInput, n)
	}

	var missing []string
	for _, f := range fields(v.Type()) {
		if f.required && v.FieldByIndex(f.index).IsZero() {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required input %s", ErrInvalidInput, strings.Join(missing, ", "))
	}

	if err := validate.Struct(v.Interface()); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describeFieldError(fe))
			}
			return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// Invoke validates n and runs it. A panic inside Process is returned as an
// error.
func Invoke(ctx context.Context, n Node, pc Context) (out any, err error) {
	if err := Validate(n); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("node %T panicked: %v", n, r)
		}
	}()
	return n.Process(ctx, pc)
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be <= %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be > %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
