package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxNameLength  = 255
	MaxEmailLength = 320
	MaxPhoneLength = 20

	DateLayout = "2006-01-02"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
)

func Missing(field string) Issue {
	return malformed(field, "MISSING_REQUIRED_FIELD", field+" is required")
}

func upper(field string) string {
	return strings.ToUpper(field)
}

// Name checks a display name: a string that is non-empty after trimming and
// at most MaxNameLength characters.
func Name(rec Record, field string, required bool) Errors {
	f := rec.Field(field)
	if !f.Present {
		if required {
			return Errors{Missing(field)}
		}
		return nil
	}

	s, ok := f.String()
	if !ok {
		return Errors{malformed(field, "INVALID_"+upper(field)+"_TYPE", field+" must be a non-empty string")}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return Errors{malformed(field, "EMPTY_REQUIRED_FIELD", field+" cannot be empty or whitespace only")}
	}
	if utf8.RuneCountInString(s) > MaxNameLength {
		return Errors{outOfRange(field, upper(field)+"_TOO_LONG",
			fmt.Sprintf("%s cannot exceed %d characters", field, MaxNameLength))}
	}
	return nil
}

func Email(rec Record, field string, required bool) Errors {
	f := rec.Field(field)
	if !f.Present {
		if required {
			return Errors{Missing(field)}
		}
		return nil
	}

	s, ok := f.String()
	if !ok {
		return Errors{malformed(field, "INVALID_EMAIL_TYPE", field+" must be a non-empty string")}
	}
	if strings.TrimSpace(s) == "" {
		return Errors{malformed(field, "EMPTY_REQUIRED_FIELD", field+" cannot be empty")}
	}
	if utf8.RuneCountInString(s) > MaxEmailLength {
		return Errors{outOfRange(field, "EMAIL_TOO_LONG",
			fmt.Sprintf("%s cannot exceed %d characters", field, MaxEmailLength))}
	}
	if !emailPattern.MatchString(s) {
		return Errors{malformed(field, "INVALID_EMAIL_FORMAT", field+" format is invalid - must be a valid email address")}
	}
	return nil
}

// Phone accepts an E.164-like number once the separators " -()." are
// removed. When not required, null and empty values are skipped.
func Phone(rec Record, field string, required bool) Errors {
	f := rec.Field(field)
	if !f.Present {
		if required {
			return Errors{Missing(field)}
		}
		return nil
	}
	if f.IsNull() || f.Value == "" {
		if required {
			return Errors{malformed(field, "EMPTY_REQUIRED_FIELD", field+" cannot be empty")}
		}
		return nil
	}

	s, ok := f.String()
	if !ok {
		return Errors{malformed(field, "INVALID_PHONE_TYPE", field+" must be a string")}
	}
	if utf8.RuneCountInString(s) > MaxPhoneLength {
		return Errors{outOfRange(field, "PHONE_TOO_LONG",
			fmt.Sprintf("%s number cannot exceed %d characters", field, MaxPhoneLength))}
	}
	if !phonePattern.MatchString(phoneSeparators.Replace(s)) {
		return Errors{malformed(field, "INVALID_PHONE_FORMAT",
			field+" format is invalid - must be a valid phone number with optional country code")}
	}
	return nil
}

// Price must parse as a finite number greater than zero.
func Price(rec Record, field string, required bool) Errors {
	f := rec.Field(field)
	if !f.Present {
		if required {
			return Errors{Missing(field)}
		}
		return nil
	}

	p, ok := ParseNumber(f.Value)
	if !ok {
		return Errors{malformed(field, "INVALID_"+upper(field)+"_TYPE", field+" must be a valid number")}
	}
	if p <= 0 {
		return Errors{outOfRange(field, "INVALID_"+upper(field)+"_VALUE", field+" must be greater than 0")}
	}
	return nil
}

// Stock must parse as an integer that is zero or more.
func Stock(rec Record, field string, required bool) Errors {
	return integer(rec, field, required, 0, field+" cannot be negative")
}

// Quantity must parse as an integer of at least one.
func Quantity(rec Record, field string, required bool) Errors {
	return integer(rec, field, required, 1, field+" must be greater than 0")
}

func integer(rec Record, field string, required bool, minimum int64, rangeMsg string) Errors {
	f := rec.Field(field)
	if !f.Present {
		if required {
			return Errors{Missing(field)}
		}
		return nil
	}

	n, ok := ParseInt(f.Value)
	if !ok {
		return Errors{malformed(field, "INVALID_"+upper(field)+"_TYPE", field+" must be a valid integer")}
	}
	if n < minimum {
		return Errors{outOfRange(field, "INVALID_"+upper(field)+"_VALUE", rangeMsg)}
	}
	return nil
}

// NonEmptyString checks free text fields such as a product category.
func NonEmptyString(rec Record, field string, required bool) Errors {
	f := rec.Field(field)
	if !f.Present {
		if required {
			return Errors{Missing(field)}
		}
		return nil
	}

	s, ok := f.String()
	if !ok {
		return Errors{malformed(field, "INVALID_"+upper(field)+"_TYPE", field+" must be a string")}
	}
	if strings.TrimSpace(s) == "" {
		return Errors{malformed(field, "EMPTY_REQUIRED_FIELD", field+" cannot be empty")}
	}
	return nil
}

// OptionalString allows a string or null.
func OptionalString(rec Record, field string) Errors {
	f := rec.Field(field)
	if !f.Present || f.IsNull() {
		return nil
	}
	if _, ok := f.String(); !ok {
		return Errors{malformed(field, "INVALID_"+upper(field)+"_TYPE", field+" must be a string")}
	}
	return nil
}

// Enum checks membership of an optional field in a fixed set.
func Enum(rec Record, field, code string, allowed ...string) Errors {
	f := rec.Field(field)
	if !f.Present {
		return nil
	}
	s, _ := f.String()
	for _, a := range allowed {
		if s == a {
			return nil
		}
	}
	return Errors{malformed(field, code,
		fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))}
}

// ProductRef checks a product reference of the form PRD-<suffix>.
func ProductRef(rec Record, field string, required bool) Errors {
	f := rec.Field(field)
	if !f.Present {
		if required {
			return Errors{Missing(field)}
		}
		return nil
	}
	s, ok := f.String()
	if !ok || !IsPrefixedID(s, "PRD-") {
		return Errors{malformed(field, "INVALID_PRODUCT_ID_FORMAT", field+" must be a string starting with 'PRD-'")}
	}
	return nil
}

// AllowedFields rejects any key outside the allowed set.
func AllowedFields(rec Record, allowed ...string) Errors {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}

	var extra []string
	for k := range rec {
		if _, ok := set[k]; !ok {
			extra = append(extra, k)
		}
	}
	if len(extra) == 0 {
		return nil
	}
	sort.Strings(extra)
	return Errors{malformed(strings.Join(extra, ","), "UNEXPECTED_FIELDS",
		"unexpected fields: "+strings.Join(extra, ", "))}
}

// UUID parses an identifier in the canonical 8-4-4-4-12 form.
func UUID(raw, label string) (uuid.UUID, Errors) {
	if strings.TrimSpace(raw) == "" {
		return uuid.Nil, Errors{malformed("id", "INVALID_"+strings.ToUpper(strings.ReplaceAll(label, " ", "_")),
			label+" must be a non-empty string")}
	}
	id, err := uuid.Parse(raw)
	if err != nil || len(raw) != 36 {
		return uuid.Nil, Errors{malformed("id", "INVALID_"+strings.ToUpper(strings.ReplaceAll(label, " ", "_")),
			label+" must be a valid UUID format")}
	}
	return id, nil
}

// IsPrefixedID reports whether s is prefix followed by a non-empty suffix.
func IsPrefixedID(s, prefix string) bool {
	return strings.HasPrefix(s, prefix) && len(s) > len(prefix)
}

// ParseNumber accepts JSON numbers and numeric strings. Booleans, NaN and
// infinities are rejected.
func ParseNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case json.Number:
		p, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = p
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseInt accepts JSON integers, integral floats such as 3.0 and integer
// strings.
func ParseInt(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		return integral(t.String())
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		return integralFloat(t)
	case int:
		return int64(t), true
	case int64:
		return t, true
	}
	return 0, false
}

func integral(s string) (int64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return integralFloat(f)
}

func integralFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(raw string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
