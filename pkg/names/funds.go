package names

import (
	"regexp"
	"strings"
)

// fundAlias rewrites the part after the first hyphen of a fund holder name
// whose trust prefix matches exactly.
type fundAlias struct {
	prefix  string
	rewrite func(input, suffix string) string
}

var (
	fundFillerWords    = map[string]struct{}{"index": {}, "fund": {}, "funds": {}, "portfolio": {}, "shares": {}}
	ratingMarkerSuffix = regexp.MustCompile(`\s*\([^()]*\)\s*$`)
)

// First match wins.
var fundAliases = []fundAlias{
	{
		prefix: "Bridgeway Funds, Inc.",
		rewrite: func(_, suffix string) string {
			return "Bridgeway " + suffix
		},
	},
	{
		prefix: "Vanguard Index Funds",
		rewrite: func(_, suffix string) string {
			return stripFillerWords(suffix)
		},
	},
	{
		prefix: "Morningstar Funds Trust",
		rewrite: func(_, suffix string) string {
			return ratingMarkerSuffix.ReplaceAllString(suffix, "")
		},
	},
	{
		prefix: "iShares Trust",
		rewrite: func(input, _ string) string {
			return input
		},
	},
}

// AfterFirstHyphen canonicalizes a mutual fund holder name of the form
// "<trust>-<fund>". Known trusts are rewritten by the alias table, any other
// name yields the text after the first hyphen. Names without a hyphen are
// returned unchanged.
func AfterFirstHyphen(s string) string {
	prefix, suffix, found := strings.Cut(s, "-")
	if !found {
		return s
	}
	prefix = strings.TrimSpace(prefix)
	suffix = strings.TrimSpace(suffix)

	for _, alias := range fundAliases {
		if prefix == alias.prefix {
			return alias.rewrite(s, suffix)
		}
	}
	return suffix
}

func stripFillerWords(s string) string {
	words := strings.Fields(s)
	kept := words[:0]
	for _, w := range words {
		if _, filler := fundFillerWords[strings.ToLower(w)]; filler {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}
