package state

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/toyinlola/mjop/pkg/interfaces"
)

// Edit values arrive either as Go values or decoded from JSON, where every
// number is a float64 (or json.Number) and every list is []any.

func asString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("%w: expected string, got %T", ErrInvalidValue, v)
	}
}

func asBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: expected bool, got %T", ErrInvalidValue, v)
	}
	return b, nil
}

// asOptionalInt converts v to *int; nil clears the value.
func asOptionalInt(v any) (*int, error) {
	var n int
	switch t := v.(type) {
	case nil:
		return nil, nil
	case int:
		n = t
	case *int:
		if t == nil {
			return nil, nil
		}
		n = *t
	case int64:
		n = int(t)
	case float64:
		if t != math.Trunc(t) || math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("%w: expected whole number, got %v", ErrInvalidValue, t)
		}
		n = int(t)
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		n = int(i)
	default:
		return nil, fmt.Errorf("%w: expected integer, got %T", ErrInvalidValue, v)
	}
	return &n, nil
}

// asOptionalFloat converts v to *float64; nil clears the value.
func asOptionalFloat(v any) (*float64, error) {
	var f float64
	switch t := v.(type) {
	case nil:
		return nil, nil
	case float64:
		f = t
	case *float64:
		if t == nil {
			return nil, nil
		}
		f = *t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		f = parsed
	default:
		return nil, fmt.Errorf("%w: expected number, got %T", ErrInvalidValue, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v is not a finite number", ErrInvalidValue, f)
	}
	return &f, nil
}

func asInt(v any) (int, error) {
	n, err := asOptionalInt(v)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, nil
	}
	return *n, nil
}

func asFloat(v any) (float64, error) {
	f, err := asOptionalFloat(v)
	if err != nil {
		return 0, err
	}
	if f == nil {
		return 0, nil
	}
	return *f, nil
}

func asStrings(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: expected list of strings, got %T item", ErrInvalidValue, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected list of strings, got %T", ErrInvalidValue, v)
	}
}

// asOptionalDate converts v to *Date; nil or "" clears the value.
func asOptionalDate(v any) (*interfaces.Date, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case interfaces.Date:
		return &t, nil
	case *interfaces.Date:
		return t, nil
	case time.Time:
		d := interfaces.NewDate(t)
		return &d, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, nil
		}
		d, err := interfaces.ParseDate(t)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return &d, nil
	default:
		return nil, fmt.Errorf("%w: expected date, got %T", ErrInvalidValue, v)
	}
}

func asSeverity(v any) (interfaces.Severity, error) {
	var raw string
	switch t := v.(type) {
	case interfaces.Severity:
		raw = string(t)
	case string:
		raw = t
	default:
		return "", fmt.Errorf("%w: expected severity, got %T", ErrInvalidValue, v)
	}
	return parseSeverity(raw)
}

func parseSeverity(raw string) (interfaces.Severity, error) {
	sev := interfaces.ParseSeverity(raw)
	if !sev.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, raw)
	}
	return sev, nil
}
