package names

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var timestampCall = regexp.MustCompile(`Timestamp\(\s*(['"])(.*?)['"]\s*\)`)

// ParseList converts a cell holding a stringified list of mappings, as written
// by a dataframe export, into a list value. Timestamp('...') constructors are
// rewritten to plain strings, then single quotes and None/True/False are
// repaired to JSON.
//
// Returns nil when the cell cannot be parsed or is not a list.
func ParseList(cell string) []any {
	s := unwrap(strings.TrimSpace(cell))
	if s == "" {
		return nil
	}
	s = timestampCall.ReplaceAllString(s, "$1$2$1")

	repaired, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return nil
	}

	var out any
	if err := json.Unmarshal([]byte(repaired), &out); err != nil {
		return nil
	}
	list, ok := out.([]any)
	if !ok {
		return nil
	}
	return list
}

// unwrap strips one layer of redundant quoting, then one layer of redundant
// bracketing around the list.
func unwrap(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	if strings.HasPrefix(s, "[[") && strings.HasSuffix(s, "]]") {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
