package classify

import (
	"regexp"
	"slices"
	"strings"
)

const (
	maxLabelSegments   = 3
	maxLabelSegmentLen = 32
)

var (
	labelJunkRegex = regexp.MustCompile(`[^A-Za-z0-9\- _+]+`)
	spaceRunRegex  = regexp.MustCompile(`\s+`)
)

// Labels naming a language rather than a topic.
var languageLabels = map[string]bool{
	"ru":       true,
	"en":       true,
	"ua":       true,
	"de":       true,
	"lang":     true,
	"language": true,
}

// ResolveLabels returns the explicit labels when given, otherwise every
// label the rules mention. The result is sorted and unique.
func ResolveLabels(explicit []string, rules *Rules) []string {
	if len(explicit) > 0 {
		labels := slices.Clone(explicit)
		slices.Sort(labels)
		return slices.Compact(labels)
	}
	if rules == nil {
		return nil
	}
	return rules.Labels()
}

// SanitizeLabel cleans a label proposed by a model. It returns "" for
// language labels and for labels with nothing usable left. Hierarchical
// labels keep at most three segments.
func SanitizeLabel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || languageLabels[strings.ToLower(s)] {
		return ""
	}

	var parts []string
	for _, p := range strings.Split(s, "/") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > maxLabelSegments {
		parts = parts[:maxLabelSegments]
	}

	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		q := labelJunkRegex.ReplaceAllString(p, "")
		q = strings.TrimSpace(spaceRunRegex.ReplaceAllString(q, " "))
		if q == "" {
			continue
		}
		if len(q) > maxLabelSegmentLen {
			q = q[:maxLabelSegmentLen]
		}
		clean = append(clean, q)
	}

	return strings.Join(clean, "/")
}
