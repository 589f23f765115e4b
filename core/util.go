package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// NormalizeToken upper-cases `s` and strips every space, e.g. " a - " -> "A-".
func NormalizeToken(s string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), " ", "")
}

// NewID returns a short random identifier such as "task_1b9d6bcd4e2f".
func NewID(prefix string) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "_" + hex[:12]
}

// ParseFloat coerces user-entered numeric data into a float64.
// Absent, blank, NaN or otherwise unparseable values are reported with ok == false; it never fails.
func ParseFloat(v interface{}) (f float64, ok bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case *float64:
		if x == nil {
			return 0, false
		}
		f = *x
	case null.Float64:
		if !x.Valid {
			return 0, false
		}
		f = x.Float64
	case json.Number:
		var err error
		if f, err = x.Float64(); err != nil {
			return 0, false
		}
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		var err error
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FloatOr coerces `v` like ParseFloat and falls back to `def`.
func FloatOr(v interface{}, def float64) float64 {
	if f, ok := ParseFloat(v); ok {
		return f
	}
	return def
}

// NullFloat coerces `v` like ParseFloat into a null.Float64.
func NullFloat(v interface{}) null.Float64 {
	f, ok := ParseFloat(v)
	return null.NewFloat64(f, ok)
}

// Round rounds `x` half away from zero to `places` decimals.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// ParseBool coerces user-entered flags: booleans, numbers (non-zero is true) and strconv.ParseBool strings.
func ParseBool(v interface{}) (b bool, ok bool) {
	switch x := v.(type) {
	case nil:
		return false, false
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return b, err == nil
	default:
		f, ok := ParseFloat(x)
		return ok && f != 0, ok
	}
}

// BoolOr coerces `v` like ParseBool and falls back to `def`.
func BoolOr(v interface{}, def bool) bool {
	if b, ok := ParseBool(v); ok {
		return b
	}
	return def
}

// DecodeRows calls `decode` on every item of the JSON array `data` and returns how many items it rejected.
// Anything but an array has no items.
func DecodeRows(data []byte, decode func(item json.RawMessage) error) (rejected int) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return 0
	}
	for _, item := range items {
		if err := decode(item); err != nil {
			rejected++
		}
	}
	return rejected
}
