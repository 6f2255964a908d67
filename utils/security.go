// Package utils provides validation for search queries and a final guard on
// rendered markup.
package utils

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SecurityConfig holds the constraints applied to incoming search queries.
type SecurityConfig struct {
	// MaxQueryLength is the maximum query length in bytes.
	MaxQueryLength int

	// NormalizeWhitespace collapses tabs, newlines and runs of spaces.
	NormalizeWhitespace bool
}

const (
	// DefaultMaxQueryLength is the default maximum query length
	DefaultMaxQueryLength = 1000
)

func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		MaxQueryLength:      DefaultMaxQueryLength,
		NormalizeWhitespace: true,
	}
}

// QuerySanitizer validates queries before they reach the search engine.
// Queries are never stripped of characters: whatever the user typed is what
// gets matched, and markup safety is handled at render time.
type QuerySanitizer struct {
	config *SecurityConfig
}

func NewQuerySanitizer(config *SecurityConfig) *QuerySanitizer {
	if config == nil {
		config = DefaultSecurityConfig()
	}
	return &QuerySanitizer{config: config}
}

// ValidateQuery rejects queries that are too long, are not valid UTF-8, or
// contain null bytes or control characters other than tab, newline and
// carriage return.
func (s *QuerySanitizer) ValidateQuery(ctx context.Context, query string) error {
	if len(query) > s.config.MaxQueryLength {
		return &SecurityError{
			Type:    "query_too_long",
			Message: "Query exceeds maximum length",
			Query:   query,
		}
	}

	if !utf8.ValidString(query) {
		return &SecurityError{
			Type:    "invalid_encoding",
			Message: "Query is not valid UTF-8",
			Query:   query,
		}
	}

	for _, r := range query {
		if r == 0 || (r < 32 && r != '\t' && r != '\n' && r != '\r') || r == 0x7f {
			return &SecurityError{
				Type:    "dangerous_character",
				Message: "Query contains null byte or control character",
				Query:   query,
			}
		}
	}

	return nil
}

// NormalizeQuery prepares a validated query for the search engine. Zero-width
// characters are removed and whitespace is collapsed when configured.
func (s *QuerySanitizer) NormalizeQuery(ctx context.Context, query string) string {
	query = removeZeroWidthChars(query)
	if s.config.NormalizeWhitespace {
		query = normalizeWhitespace(query)
	}
	return query
}

func normalizeWhitespace(input string) string {
	return strings.Join(strings.FieldsFunc(input, unicode.IsSpace), " ")
}

func removeZeroWidthChars(input string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\u200B', '\u200C', '\u200D', '\uFEFF', '\u200E', '\u200F':
			return -1
		}
		return r
	}, input)
}

// SecurityError represents a security-related error
type SecurityError struct {
	Type    string
	Message string
	Query   string
}

func (e *SecurityError) Error() string {
	return e.Message
}
