package grid

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// valueRule is one entry of the ordered formatting cascade. apply returns
// false to pass the value to the next rule; the first rule that both matches
// its field category and succeeds at coercion wins.
type valueRule struct {
	name  string
	apply func(f *Formatter, field string, value interface{}) (string, bool)
}

var valueRules = []valueRule{
	{
		name: "empty",
		apply: func(_ *Formatter, _ string, value interface{}) (string, bool) {
			if value == nil || value == "" {
				return "", true
			}
			return "", false
		},
	},
	{
		name: "timestamp",
		apply: func(f *Formatter, field string, value interface{}) (string, bool) {
			if !f.catalog.Timestamps.has(field) {
				return "", false
			}
			// Only bare numbers are epoch seconds; date strings pass through.
			sec, ok := toEpochSeconds(value)
			if !ok {
				return "", false
			}
			return time.Unix(sec, 0).In(f.loc).Format("2006-01-02 15:04:05"), true
		},
	},
	{
		name: "expiry",
		apply: func(f *Formatter, field string, value interface{}) (string, bool) {
			if !f.catalog.Expiries.has(field) {
				return "", false
			}
			s, ok := value.(string)
			if !ok {
				return "", false
			}
			return normalizeExpiry(s), true
		},
	},
	{
		name: "price",
		apply: func(f *Formatter, field string, value interface{}) (string, bool) {
			if !f.catalog.Prices.has(field) {
				return "", false
			}
			v, ok := toFloat(value)
			if !ok {
				return "", false
			}
			return strconv.FormatFloat(v, 'f', 2, 64), true
		},
	},
	{
		name: "currency",
		apply: func(f *Formatter, field string, value interface{}) (string, bool) {
			if !f.catalog.Currencies.has(field) {
				return "", false
			}
			v, ok := toFloat(value)
			if !ok {
				return "", false
			}
			s := strconv.FormatFloat(v, 'f', 2, 64)
			if math.Abs(v) >= 10000 {
				s = groupThousands(s)
			}
			return s, true
		},
	},
	{
		name: "quantity",
		apply: func(f *Formatter, field string, value interface{}) (string, bool) {
			if !f.catalog.Quantities.has(field) {
				return "", false
			}
			v, ok := toFloat(value)
			if !ok {
				return "", false
			}
			s := strconv.FormatInt(int64(v), 10)
			if math.Abs(v) >= 1000 {
				s = groupThousands(s)
			}
			return s, true
		},
	},
	{
		name: "percent",
		apply: func(f *Formatter, field string, value interface{}) (string, bool) {
			lower := strings.ToLower(field)
			if !strings.Contains(lower, "percent") &&
				!strings.HasSuffix(lower, "_pct") &&
				!f.catalog.Percentages.has(field) {
				return "", false
			}
			v, ok := toFloat(value)
			if !ok {
				return "", false
			}
			return strconv.FormatFloat(v, 'f', 2, 64) + "%", true
		},
	},
	{
		name: "greek",
		apply: func(f *Formatter, field string, value interface{}) (string, bool) {
			if !f.catalog.Greeks.has(field) {
				return "", false
			}
			v, ok := toFloat(value)
			if !ok {
				return "", false
			}
			return strconv.FormatFloat(v, 'f', 4, 64), true
		},
	},
	{
		name: "integer",
		apply: func(f *Formatter, field string, value interface{}) (string, bool) {
			if !f.catalog.Integers.has(field) {
				return "", false
			}
			v, ok := toFloat(value)
			if !ok {
				return "", false
			}
			return strconv.FormatInt(int64(v), 10), true
		},
	},
}

// FormatValue applies the formatting cascade to a single scalar. It never
// fails: values no rule claims are stringified as-is.
func (f *Formatter) FormatValue(field string, value interface{}) string {
	for _, rule := range valueRules {
		if s, ok := rule.apply(f, field, value); ok {
			return s
		}
	}
	return stringify(value)
}

// toFloat coerces JSON scalars, including numeric strings, to float64.
func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// toEpochSeconds coerces numeric values only; strings are not timestamps.
func toEpochSeconds(value interface{}) (int64, bool) {
	switch value.(type) {
	case string:
		return 0, false
	}
	v, ok := toFloat(value)
	if !ok || v <= 0 {
		return 0, false
	}
	return int64(v), true
}

// normalizeExpiry reformats YYYYMMDD expiry strings to YYYY-MM-DD and leaves
// everything else untouched.
func normalizeExpiry(s string) string {
	if len(s) == 10 && s[4] == '-' && s[7] == '-' {
		return s
	}
	if len(s) == 8 && isDigits(s) {
		return s[:4] + "-" + s[4:6] + "-" + s[6:]
	}
	return s
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// groupThousands inserts comma separators into the integer part of a
// formatted number, preserving sign and decimals.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String() + fracPart
}

// Stringify renders a raw JSON value the way the formatter's terminal rule
// does: no transformation beyond canonical number and bool spelling.
func Stringify(value interface{}) string {
	return stringify(value)
}

// EpochSeconds reports whether the value is a plausible epoch-seconds number
// and returns it as int64.
func EpochSeconds(value interface{}) (int64, bool) {
	return toEpochSeconds(value)
}

// stringify renders a raw JSON value with no transformation.
func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
