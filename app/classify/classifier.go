package classify

import (
	"context"
	"errors"
	"slices"

	"github.com/lysyi3m/bookmark-comb/app/bookmark"
)

// ErrProviderUnavailable means the configured backend cannot be used (no API
// key, unknown provider, embedder offline). Callers treat it as a no-op.
var ErrProviderUnavailable = errors.New("classification provider unavailable")

// Classifier assigns topical tags. Implementations never modify the
// bookmarks they are given; each result carries the complete tag set the
// caller should apply.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, items []*bookmark.Bookmark) ([]bookmark.TagResult, error)
}

var (
	_ Classifier = (*RuleClassifier)(nil)
	_ Classifier = (*LLMClassifier)(nil)
	_ Classifier = (*EmbeddingClassifier)(nil)
)

func mergeTags(existing, added []string) []string {
	tags := make([]string, 0, len(existing)+len(added))
	tags = append(tags, existing...)
	tags = append(tags, added...)
	slices.Sort(tags)
	return slices.Compact(tags)
}
