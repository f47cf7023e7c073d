package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Harshitk-cp/frontdesk/internal/domain"
)

// Args holds tool arguments coerced to the declared parameter types:
// string, int or bool.
type Args map[string]any

func (a Args) str(name string) string {
	s, _ := a[name].(string)
	return s
}

func (a Args) integer(name string) int {
	n, _ := a[name].(int)
	return n
}

func (a Args) boolean(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// coerce validates raw model arguments against spec. Unknown arguments are
// dropped. A missing or blank required argument is an error.
func coerce(spec domain.ToolSpec, raw map[string]any) (Args, error) {
	args := make(Args, len(spec.Params))
	for _, p := range spec.Params {
		v, ok := raw[p.Name]
		if !ok || v == nil {
			if p.Required {
				return nil, fmt.Errorf("%w: %s is required", ErrInvalidArgs, p.Name)
			}
			continue
		}

		var (
			out any
			err error
		)
		switch p.Type {
		case domain.ParamString:
			out, err = toString(v)
			if err == nil && p.Required && strings.TrimSpace(out.(string)) == "" {
				err = fmt.Errorf("must not be empty")
			}
		case domain.ParamInteger:
			out, err = toInt(v)
		case domain.ParamBoolean:
			out, err = toBool(v)
		default:
			err = fmt.Errorf("unsupported type %q", p.Type)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArgs, p.Name, err)
		}
		args[p.Name] = out
	}
	return args, nil
}

func toString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), nil
	case float64:
		// PINs sometimes arrive as bare numbers.
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	case int:
		return strconv.Itoa(t), nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func toInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("expected integer, got %v", t)
		}
		return int(t), nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", t)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func toBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, fmt.Errorf("expected boolean, got %q", t)
		}
		return b, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}
