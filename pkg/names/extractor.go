package names

import (
	"fmt"
	"sort"
)

// Extractor pulls entity names out of one parsed cell.
type Extractor func(records []any) []string

var extractors = map[string]Extractor{
	"officer":     ExtractOfficerNames,
	"institution": ExtractInstitutionNames,
	"fund":        ExtractMutualFundNames,
}

// ExtractorFor returns the extractor registered for kind.
func ExtractorFor(kind string) (Extractor, error) {
	fn, ok := extractors[kind]
	if !ok {
		return nil, fmt.Errorf("unknown name kind %q (expected one of %v)", kind, Kinds())
	}
	return fn, nil
}

// Kinds lists the supported extractor kinds in sorted order.
func Kinds() []string {
	kinds := make([]string, 0, len(extractors))
	for k := range extractors {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
