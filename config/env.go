package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// envReader collects parse errors so Load can report every bad variable at once.
type envReader struct {
	errs []error
}

// lookup prefers KEY_FILE over KEY so secrets can be mounted as files.
func (r *envReader) lookup(key string) (string, bool) {
	if path := os.Getenv(key + "_FILE"); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			r.errs = append(r.errs, fmt.Errorf("%s_FILE: %w", key, err))
			return "", false
		}
		return strings.TrimSpace(string(content)), true
	}
	if v := os.Getenv(key); v != "" {
		return v, true
	}
	return "", false
}

func (r *envReader) required(key string) string {
	v, ok := r.lookup(key)
	if !ok {
		r.errs = append(r.errs, fmt.Errorf("required environment variable %s is not set", key))
	}
	return v
}

func (r *envReader) str(key, def string) string {
	if v, ok := r.lookup(key); ok {
		return v
	}
	return def
}

func (r *envReader) integer(key string, def int) int {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return def
	}
	return n
}

func (r *envReader) number(key string, def float64) float64 {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid number %q", key, v))
		return def
	}
	return f
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid duration %q", key, v))
		return def
	}
	return d
}

func (r *envReader) boolean(key string, def bool) bool {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid boolean %q", key, v))
		return def
	}
	return b
}

func (r *envReader) err() error {
	return errors.Join(r.errs...)
}
