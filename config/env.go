package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// envReader reads typed settings from the environment. A variable that is
// set but cannot be parsed is recorded as a problem and the fallback is used,
// so Load can report every bad value at once.
type envReader struct {
	lookup   func(string) (string, bool)
	problems []string
}

func newEnvReader() *envReader {
	return &envReader{lookup: os.LookupEnv}
}

func (r *envReader) str(key, fallback string) string {
	if v, ok := r.lookup(key); ok {
		return v
	}
	return fallback
}

func (r *envReader) int(key string, fallback int) int {
	return parsed(r, key, fallback, strconv.Atoi)
}

func (r *envReader) float(key string, fallback float64) float64 {
	return parsed(r, key, fallback, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

func (r *envReader) bool(key string, fallback bool) bool {
	return parsed(r, key, fallback, strconv.ParseBool)
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	return parsed(r, key, fallback, time.ParseDuration)
}

// flag treats any non-empty value as set, except the usual spellings of false.
func (r *envReader) flag(key string) bool {
	v, _ := r.lookup(key)
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}

func parsed[T any](r *envReader, key string, fallback T, parse func(string) (T, error)) T {
	raw, ok := r.lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	v, err := parse(strings.TrimSpace(raw))
	if err != nil {
		r.problems = append(r.problems, fmt.Sprintf("%s: cannot parse %q", key, raw))
		return fallback
	}
	return v
}
