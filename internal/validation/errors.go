package validation

import (
	"net/http"
	"strings"
)

// Kind separates structurally wrong input from well-typed values that fall
// outside the accepted range.
type Kind int

const (
	Malformed Kind = iota
	OutOfRange
)

func (k Kind) Status() int {
	if k == OutOfRange {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

type Issue struct {
	Field   string
	Code    string
	Message string
	Kind    Kind
}

// Errors is the ordered result of one validation pass. Empty means the
// record is acceptable.
type Errors []Issue

func (e Errors) Error() string {
	return strings.Join(e.Messages(), "; ")
}

func (e Errors) Messages() []string {
	out := make([]string, 0, len(e))
	for _, i := range e {
		out = append(out, i.Message)
	}
	return out
}

func (e Errors) HasMalformed() bool {
	for _, i := range e {
		if i.Kind == Malformed {
			return true
		}
	}
	return false
}

// Status is 400 if any issue is malformed, otherwise 422.
func (e Errors) Status() int {
	if e.HasMalformed() {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

// Primary returns the first issue of the kind that decides the status.
func (e Errors) Primary() (Issue, bool) {
	if len(e) == 0 {
		return Issue{}, false
	}
	want := OutOfRange
	if e.HasMalformed() {
		want = Malformed
	}
	for _, i := range e {
		if i.Kind == want {
			return i, true
		}
	}
	return e[0], true
}

// Fields lists the distinct field names in order of first appearance.
func (e Errors) Fields() []string {
	seen := make(map[string]struct{}, len(e))
	out := make([]string, 0, len(e))
	for _, i := range e {
		if _, ok := seen[i.Field]; ok {
			continue
		}
		seen[i.Field] = struct{}{}
		out = append(out, i.Field)
	}
	return out
}

// Invalid reports a structurally wrong value (400).
func Invalid(field, code, msg string) Issue {
	return malformed(field, code, msg)
}

func malformed(field, code, msg string) Issue {
	return Issue{Field: field, Code: code, Message: msg, Kind: Malformed}
}

func outOfRange(field, code, msg string) Issue {
	return Issue{Field: field, Code: code, Message: msg, Kind: OutOfRange}
}
