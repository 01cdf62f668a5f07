package redicalsearch

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// formatFloat renders a float the way the server's numeric parser expects:
// shortest representation, but integral values keep a trailing ".0" so that
// weights and scores stay visibly floating point (5 -> "5.0").
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// quote wraps a free-form string in single quotes so the server treats it as
// one token regardless of embedded whitespace.
func quote(s string) string {
	return "'" + quoteEscaper.Replace(s) + "'"
}

// quoteIfSpaced quotes only values that would otherwise split into multiple
// tokens.
func quoteIfSpaced(s string) string {
	if strings.Contains(s, " ") {
		return quote(s)
	}
	return s
}

// stringify renders an arbitrary document field value as a wire token.
// Booleans become 0/1 and timestamps become unix milliseconds so the values
// survive a round trip through NUMERIC fields.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return "0"
	case float64:
		return formatFloat(t)
	case float32:
		return formatFloat(float64(t))
	case time.Time:
		return strconv.FormatInt(t.UnixMilli(), 10)
	case fmt.Stringer:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	default:
		return fmt.Sprint(t)
	}
}
