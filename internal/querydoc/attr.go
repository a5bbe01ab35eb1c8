package querydoc

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/roach88/fsq/pkg/flexsearch"
)

// attrPattern matches name, alias.name and alias.name[locale].
var attrPattern = regexp.MustCompile(`^(?:([A-Za-z_][A-Za-z0-9_]*)\.)?([A-Za-z_][A-Za-z0-9_]*)(?:\[([A-Za-z_][A-Za-z0-9_-]*)\])?$`)

// ParseAttr parses the attribute syntax into a column reference.
func ParseAttr(s string) (flexsearch.Column, error) {
	m := attrPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return nil, fmt.Errorf("invalid attribute %q: want name, alias.name or alias.name[locale]", s)
	}
	attr := flexsearch.Alias(m[1]).Attr(m[2])
	if m[3] != "" {
		return attr.Localized(m[3]), nil
	}
	return attr, nil
}

// term builds attr, optionally wrapped in DISTINCT.
func term(attr string, distinct bool) (flexsearch.Term, error) {
	col, err := ParseAttr(attr)
	if err != nil {
		return nil, err
	}
	if distinct {
		return flexsearch.Distinct(col), nil
	}
	return col, nil
}

// ref builds attr with an optional DISTINCT and function wrapper.
func ref(attr, fn string, distinct bool) (flexsearch.Ref, error) {
	t, err := term(attr, distinct)
	if err != nil {
		return nil, err
	}
	if fn == "" {
		return t, nil
	}
	wrap, ok := funcs[strings.ToLower(fn)]
	if !ok {
		return nil, fmt.Errorf("unknown function %q: must be one of count, upper, min, max, sum, avg", fn)
	}
	return wrap(t), nil
}

var funcs = map[string]func(flexsearch.Term) flexsearch.Func{
	"count": flexsearch.Count,
	"upper": flexsearch.Upper,
	"min":   flexsearch.Min,
	"max":   flexsearch.Max,
	"sum":   flexsearch.Sum,
	"avg":   flexsearch.Avg,
}

// typedField builds a select field carrying the Go type named by tag.
func typedField(r flexsearch.Ref, tag string) (flexsearch.Field, error) {
	switch strings.ToLower(tag) {
	case "":
		return flexsearch.F(r), nil
	case "string":
		return flexsearch.Typed[string](r), nil
	case "int":
		return flexsearch.Typed[int32](r), nil
	case "long":
		return flexsearch.Typed[int64](r), nil
	case "float":
		return flexsearch.Typed[float32](r), nil
	case "double":
		return flexsearch.Typed[float64](r), nil
	case "bool":
		return flexsearch.Typed[bool](r), nil
	case "time", "date":
		return flexsearch.Typed[time.Time](r), nil
	default:
		return flexsearch.Field{}, unknownTag(tag)
	}
}

// convert coerces a decoded document value to the Go type named by tag.
func convert(v any, tag string) (any, error) {
	tag = strings.ToLower(tag)
	if tag == "" {
		return v, nil
	}
	switch tag {
	case "string":
		return fmt.Sprint(v), nil
	case "int", "long":
		n, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		if tag == "int" {
			if n < math.MinInt32 || n > math.MaxInt32 {
				return nil, fmt.Errorf("value %v overflows int", v)
			}
			return int32(n), nil
		}
		return n, nil
	case "float", "double":
		f, err := toFloat64(v)
		if err != nil {
			return nil, err
		}
		if tag == "float" {
			if math.Abs(f) > math.MaxFloat32 {
				return nil, fmt.Errorf("value %v overflows float", v)
			}
			return float32(f), nil
		}
		return f, nil
	case "bool":
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("value %v is not a bool", v)
		}
		return b, nil
	case "time":
		return toTime(v, time.RFC3339)
	case "date":
		return toTime(v, time.DateOnly)
	default:
		return nil, unknownTag(tag)
	}
}

func unknownTag(tag string) error {
	return fmt.Errorf("unknown type tag %q: must be one of string, int, long, float, double, bool, time, date", tag)
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("value %v overflows long", v)
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("value %v is not an integer", v)
		}
		if n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, fmt.Errorf("value %v overflows long", v)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("value %v is not an integer", v)
	}
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("value %v is not a number", v)
	}
}

func toTime(v any, layout string) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		parsed, err := time.Parse(layout, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("value %q is not a %s: %w", t, layout, err)
		}
		return parsed, nil
	default:
		return time.Time{}, fmt.Errorf("value %v is not a time", v)
	}
}
