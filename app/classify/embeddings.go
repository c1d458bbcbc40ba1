package classify

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/lysyi3m/bookmark-comb/app/bookmark"
)

// Embedder turns text into a vector.
type Embedder interface {
	Available(ctx context.Context) bool
	Embed(ctx context.Context, text string) ([]float32, error)
}

type EmbeddingOptions struct {
	Labels         []string
	TopK           int
	ScoreThreshold float64
}

type EmbeddingClassifier struct {
	embedder Embedder
	opts     EmbeddingOptions
}

func NewEmbeddingClassifier(embedder Embedder, opts EmbeddingOptions) *EmbeddingClassifier {
	opts.TopK = max(1, opts.TopK)
	return &EmbeddingClassifier{embedder: embedder, opts: opts}
}

func (c *EmbeddingClassifier) Name() string {
	return "embeddings"
}

type labelScore struct {
	label string
	score float64
}

// Classify compares every bookmark against every label and adds the best
// TopK labels scoring at least ScoreThreshold. It does nothing when the
// embedder is unreachable or no labels are configured.
func (c *EmbeddingClassifier) Classify(ctx context.Context, items []*bookmark.Bookmark) ([]bookmark.TagResult, error) {
	if len(c.opts.Labels) == 0 {
		return nil, nil
	}
	if !c.embedder.Available(ctx) {
		slog.Warn("Embedder is not reachable, skipping embeddings classification")
		return nil, nil
	}

	labelVecs := make(map[string][]float32, len(c.opts.Labels))
	for _, label := range c.opts.Labels {
		vec, err := c.embedder.Embed(ctx, label)
		if err != nil {
			return nil, fmt.Errorf("failed to embed label %q: %w", label, err)
		}
		labelVecs[label] = vec
	}

	var results []bookmark.TagResult
	for _, b := range items {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		text := embeddingText(b)
		if text == "" {
			continue
		}

		vec, err := c.embedder.Embed(ctx, text)
		if err != nil {
			slog.Warn("Failed to embed bookmark", "id", b.ID, "error", err)
			continue
		}

		scores := make([]labelScore, 0, len(labelVecs))
		for _, label := range c.opts.Labels {
			if s := CosineSimilarity(vec, labelVecs[label]); s >= c.opts.ScoreThreshold {
				scores = append(scores, labelScore{label: label, score: s})
			}
		}
		if len(scores) == 0 {
			continue
		}

		slices.SortStableFunc(scores, func(a, b labelScore) int {
			switch {
			case a.score > b.score:
				return -1
			case a.score < b.score:
				return 1
			}
			return strings.Compare(a.label, b.label)
		})

		added := make([]string, 0, c.opts.TopK)
		for _, s := range scores[:min(len(scores), c.opts.TopK)] {
			added = append(added, s.label)
		}
		results = append(results, bookmark.TagResult{
			BookmarkID: b.ID,
			Tags:       mergeTags(b.Tags, added),
		})
	}

	return results, nil
}

func embeddingText(b *bookmark.Bookmark) string {
	var parts []string
	for _, s := range []string{b.Title, b.URL, b.ContentSnippet} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// CosineSimilarity returns 0 for vectors of different length or zero norm.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
