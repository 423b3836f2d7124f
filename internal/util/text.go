package util

import "strings"

// SanitizePostgresText drops invalid UTF-8 and NUL bytes, which Postgres
// text columns reject.
func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}

// SanitizePostgresTextPtr is SanitizePostgresText for nullable columns.
func SanitizePostgresTextPtr(value *string) *string {
	if value == nil {
		return nil
	}
	s := SanitizePostgresText(*value)
	return &s
}
