package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// renderValue turns an attribute value into console text. With quoted set,
// values that would break key=value parsing are Go-quoted; the component
// prefix is written unquoted.
func renderValue(v slog.Value, quoted bool) string {
	var text string
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		text = v.String()
	case slog.KindBool:
		text = strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		text = strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		text = strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		text = strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		text = v.Duration().String()
	case slog.KindTime:
		text = v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			text = err.Error()
		} else {
			text = fmt.Sprint(v.Any())
		}
	default:
		text = v.String()
	}
	if quoted && needsQuotes(text) {
		return strconv.Quote(text)
	}
	return text
}

// needsQuotes reports whether s is empty or holds a space, control
// character, '=' or '"'. Catalogue paths with spaces hit this.
func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return true
		}
	}
	return false
}
