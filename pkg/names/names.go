package names

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// YearPlaceholder is emitted for officers without a birth year.
const YearPlaceholder = "nan"

var titlePrefixPattern = regexp.MustCompile(`(?i)^(mr\.?|ms\.?|mrs\.?|dr\.?|prof\.?)\s+`)

// CleanName strips a leading honorific, trims whitespace and lower-cases.
func CleanName(name string) string {
	return strings.ToLower(strings.TrimSpace(titlePrefixPattern.ReplaceAllString(name, "")))
}

// CleanValue applies CleanName to strings and returns any other value
// unchanged.
func CleanValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	return CleanName(s)
}

// ExtractOfficerNames returns "name|yearBorn" for every record that is a
// mapping with a "name" key. Other entries are skipped.
func ExtractOfficerNames(records []any) []string {
	results := make([]string, 0, len(records))
	for _, r := range records {
		rec, ok := r.(map[string]any)
		if !ok {
			continue
		}
		name, ok := rec["name"]
		if !ok {
			continue
		}
		year, ok := rec["yearBorn"]
		if !ok {
			year = nil
		}
		results = append(results, fmt.Sprintf("%s|%s", formatValue(CleanValue(name)), formatYear(year)))
	}
	return results
}

// ExtractInstitutionNames returns the lower-cased, trimmed "Holder" of every
// mapping record.
func ExtractInstitutionNames(records []any) []string {
	return extractHolders(records, func(s string) string { return s })
}

// ExtractMutualFundNames is ExtractInstitutionNames with the fund alias rules
// of AfterFirstHyphen applied before lower-casing.
func ExtractMutualFundNames(records []any) []string {
	return extractHolders(records, AfterFirstHyphen)
}

func extractHolders(records []any, canonical func(string) string) []string {
	results := make([]string, 0, len(records))
	for _, r := range records {
		rec, ok := r.(map[string]any)
		if !ok {
			continue
		}
		holder, ok := rec["Holder"]
		if !ok {
			continue
		}
		name := canonical(strings.TrimSpace(formatValue(holder)))
		results = append(results, strings.ToLower(strings.TrimSpace(name)))
	}
	return results
}

func formatYear(v any) string {
	if v == nil {
		return YearPlaceholder
	}
	if f, ok := v.(float64); ok && f != f {
		return YearPlaceholder
	}
	return formatValue(v)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return "None"
	default:
		return fmt.Sprint(x)
	}
}
