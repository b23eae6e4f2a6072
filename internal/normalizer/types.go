package normalizer

import (
	"regexp"
	"strings"
)

type typePattern struct {
	name    string
	pattern *regexp.Regexp
	// unless vetoes the match. RE2 has no lookahead, so guarded terms carry
	// their exclusion as a second pattern.
	unless *regexp.Regexp
}

// typePatterns is an ordered list: the first matching pattern wins, so the
// order is a tie-break policy and must not be reshuffled. "galaxy" marks
// Samsung handsets but must not claim the Galaxy Watch line, which belongs
// to the smartwatch rule further down.
var typePatterns = []typePattern{
	{name: "smartphone", pattern: regexp.MustCompile(`\b(?:smartphone|phone|iphone)\b`)},
	{name: "smartphone", pattern: regexp.MustCompile(`\bgalaxy\b`), unless: regexp.MustCompile(`\bwatch\b`)},
	{name: "laptop", pattern: regexp.MustCompile(`\blaptop|notebook|macbook|ideapad|thinkpad|inspiron\b`)},
	{name: "tablet", pattern: regexp.MustCompile(`\btablet|ipad|tab\b`)},
	{name: "tv", pattern: regexp.MustCompile(`\b(?:televis(?:ion)?|smart\s*tv|led\s*tv|uhd\s*tv)\b`)},
	{name: "earpods", pattern: regexp.MustCompile(`\b(?:earpods?|earbuds?|airpods?)\b`)},
	{name: "smartwatch", pattern: regexp.MustCompile(`\bwatch\b`)},
	{name: "remote", pattern: regexp.MustCompile(`\bremote\b`)},
	{name: "console", pattern: regexp.MustCompile(`\b(?:playstation|ps5|xbox|nintendo|switch)\b`)},
}

// ClassifyType maps a title to a product type using the first matching
// pattern, or nil when none match.
func ClassifyType(title *string) *string {
	if title == nil || *title == "" {
		return nil
	}

	low := strings.ToLower(*title)
	for _, tp := range typePatterns {
		if !tp.pattern.MatchString(low) {
			continue
		}
		if tp.unless != nil && tp.unless.MatchString(low) {
			continue
		}

		name := tp.name

		return &name
	}

	return nil
}
