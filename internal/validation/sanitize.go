package validation

import "strings"

// Sanitize returns a copy of rec with surrounding whitespace trimmed from
// every string value.
func Sanitize(rec Record) Record {
	if rec == nil {
		return nil
	}
	out := make(Record, len(rec))
	for k, v := range rec {
		if s, ok := v.(string); ok {
			out[k] = strings.TrimSpace(s)
			continue
		}
		out[k] = v
	}
	return out
}
