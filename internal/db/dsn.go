package db

import (
	"regexp"
	"strings"
)

var kvPairRegex = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// IsPostgresDSN reports whether raw points at a Postgres server, either
// in URL form or as a lib/pq key=value list. Anything else is treated as
// a sqlite file path.
func IsPostgresDSN(raw string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://") || kvPairRegex.MatchString(s)
}

// NormalizeDSN accepts either a URL style DSN (postgres://...), a lib/pq
// key=value list, or a sqlite file path. It trims quotes and whitespace
// and, if given key=value form, returns it cleaned with sslmode defaulted
// to disable.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return s
	}
	if !kvPairRegex.MatchString(s) {
		// sqlite file path; leave untouched
		return s
	}
	// Collapse multiple spaces
	fields := strings.Fields(s)
	cleaned := strings.Join(fields, " ")
	// Ensure sslmode present (default disable if missing)
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}
