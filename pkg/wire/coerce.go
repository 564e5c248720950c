package wire

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Date layouts accepted on load, in order of preference. HAR producers emit
// ISO 8601 with or without fractional seconds and with either "Z" or a
// numeric offset.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseDate parses an ISO 8601 date-time string.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date-time %q", s)
}

const millisLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatDate renders t the way dumped documents carry dates. Whole seconds
// have no fraction and whole milliseconds keep three digits, the form browsers
// export; finer precision falls back to RFC 3339 with nanoseconds.
func FormatDate(t time.Time) string {
	switch ns := t.Nanosecond(); {
	case ns == 0:
		return t.Format(time.RFC3339)
	case ns%int(time.Millisecond) == 0:
		return t.Format(millisLayout)
	}
	return t.Format(time.RFC3339Nano)
}

func asString(raw any) (string, bool) {
	s, ok := raw.(string)
	return s, ok
}

func asBool(raw any) (bool, bool) {
	b, ok := raw.(bool)
	return b, ok
}

func asFloat(raw any) (float64, bool) {
	switch val := raw.(type) {
	case float64:
		return val, !math.IsNaN(val) && !math.IsInf(val, 0)
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// asInt accepts integral numbers only; 1.5 is a mismatch, 2.0 is 2.
func asInt(raw any) (int64, bool) {
	switch val := raw.(type) {
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, true
		}
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return integral(f)
	default:
		f, ok := asFloat(raw)
		if !ok {
			return 0, false
		}
		return integral(f)
	}
}

func integral(f float64) (int64, bool) {
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if math.Trunc(f) != f || f >= 1<<63 || f < -(1<<63) {
		return 0, false
	}
	return int64(f), true
}

func asDate(raw any) (time.Time, bool) {
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := ParseDate(s)
	return t, err == nil
}

func asObject(raw any) (map[string]any, bool) {
	m, ok := raw.(map[string]any)
	return m, ok
}

func asList(raw any) ([]any, bool) {
	l, ok := raw.([]any)
	return l, ok
}
