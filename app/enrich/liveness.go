package enrich

import "github.com/lysyi3m/bookmark-comb/app/bookmark"

const (
	LivenessUnknown   = "unknown"
	LivenessUnchecked = "unchecked"
)

// MarkLiveness records whether a bookmark could have been checked. No
// requests are made.
func MarkLiveness(items []*bookmark.Bookmark, networkEnabled bool) {
	status := LivenessUnknown
	if networkEnabled {
		status = LivenessUnchecked
	}
	for _, b := range items {
		b.Liveness = status
	}
}
