package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/lysyi3m/bookmark-comb/app/bookmark"
)

const llmSystemPrompt = "Classify bookmarks into provided labels."

var fencedJSONRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\}|\\[.*?\\])\\s*```")

type LLMOptions struct {
	Model                string
	Temperature          float64
	Labels               []string // allowed labels, already resolved
	BatchSize            int
	OnlyUncertain        bool // skip bookmarks that already have tags
	AllowNewLabels       bool
	MaxNewLabelsPerBatch int
}

type LLMClassifier struct {
	completer Completer
	opts      LLMOptions
}

func NewLLMClassifier(completer Completer, opts LLMOptions) *LLMClassifier {
	opts.BatchSize = max(1, opts.BatchSize)
	return &LLMClassifier{completer: completer, opts: opts}
}

func (c *LLMClassifier) Name() string {
	return "llm"
}

// Classify sends the candidates in batches. Labels the model invents join the
// allowed set for the following batches when new labels are allowed; only
// allowed labels are ever applied. A batch that fails is logged and skipped.
func (c *LLMClassifier) Classify(ctx context.Context, items []*bookmark.Bookmark) ([]bookmark.TagResult, error) {
	allowed := make(map[string]bool, len(c.opts.Labels))
	for _, label := range c.opts.Labels {
		allowed[label] = true
	}
	if len(allowed) == 0 && !c.opts.AllowNewLabels {
		return nil, nil
	}

	var candidates []*bookmark.Bookmark
	for _, b := range items {
		if c.opts.OnlyUncertain && len(b.Tags) > 0 {
			continue
		}
		candidates = append(candidates, b)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	var results []bookmark.TagResult
	for start := 0; start < len(candidates); start += c.opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		chunk := candidates[start:min(start+c.opts.BatchSize, len(candidates))]
		prompt := c.buildPrompt(chunk, slices.Sorted(maps.Keys(allowed)))

		content, err := c.completer.Complete(ctx, prompt, CompletionOpts{
			Model:       c.opts.Model,
			Temperature: c.opts.Temperature,
			System:      llmSystemPrompt,
		})
		if err != nil {
			slog.Warn("LLM batch failed", "offset", start, "size", len(chunk), "error", err)
			continue
		}

		assignments, newLabels, err := parseReply(content)
		if err != nil {
			slog.Warn("LLM reply is not valid JSON", "offset", start, "error", err)
			continue
		}

		if c.opts.AllowNewLabels {
			for _, label := range newLabels[:min(len(newLabels), max(0, c.opts.MaxNewLabelsPerBatch))] {
				if clean := SanitizeLabel(label); clean != "" {
					allowed[clean] = true
				}
			}
		}

		results = append(results, applyAssignments(chunk, assignments, allowed)...)
	}

	slog.Debug("LLM classification finished", "candidates", len(candidates), "tagged", len(results), "labels", len(allowed))

	return results, nil
}

func (c *LLMClassifier) buildPrompt(items []*bookmark.Bookmark, labels []string) string {
	lines := []string{
		"You are a bookmark classifier.",
		"Classify each bookmark (title + url) into 1–2 topical labels.",
		"Rules:",
		"- Prefer the allowed labels (exact strings) listed below.",
		"- Do NOT use language or country labels; categorize by topic.",
		"- If hierarchical labels are present (like 'Dev/Linux'), use them directly.",
		fmt.Sprintf("Allowed labels: [%s]", strings.Join(labels, ", ")),
	}
	if c.opts.AllowNewLabels {
		lines = append(lines,
			fmt.Sprintf("- You MAY invent up to %d NEW topical labels when none of the allowed labels fit.", c.opts.MaxNewLabelsPerBatch),
			"- New labels MUST be concise (1–3 words per segment), topical, and may be hierarchical using '/'.",
			"- Avoid generic buckets like 'Tools' or language labels like 'RU'.",
		)
	}
	lines = append(lines,
		"Output JSON only.",
		"Format:",
		"{",
		`  "assignments": [{index, labels}],`,
		`  "new_labels": [string, ...]`,
		"}",
		"Input:",
	)
	for i, b := range items {
		lines = append(lines, fmt.Sprintf("- [%d] %s | %s", i, b.Title, b.URL))
		if b.ContentSnippet != "" {
			lines = append(lines, "  Context: "+b.ContentSnippet)
		}
	}
	lines = append(lines, "Output as JSON object as specified above:")

	return strings.Join(lines, "\n")
}

// parseReply accepts {"assignments": [...], "new_labels": [...]} or a bare
// assignments list, optionally wrapped in a ```json fence.
func parseReply(content string) ([]any, []string, error) {
	var data any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		m := fencedJSONRegex.FindStringSubmatch(content)
		if m == nil {
			return nil, nil, err
		}
		if err := json.Unmarshal([]byte(m[1]), &data); err != nil {
			return nil, nil, err
		}
	}

	switch v := data.(type) {
	case []any:
		return v, nil, nil
	case map[string]any:
		assignments, _ := v["assignments"].([]any)
		raw, _ := v["new_labels"].([]any)
		newLabels := make([]string, 0, len(raw))
		for _, label := range raw {
			newLabels = append(newLabels, fmt.Sprint(label))
		}
		return assignments, newLabels, nil
	}
	return nil, nil, nil
}

func applyAssignments(chunk []*bookmark.Bookmark, assignments []any, allowed map[string]bool) []bookmark.TagResult {
	added := make(map[int][]string)

	for _, a := range assignments {
		obj, ok := a.(map[string]any)
		if !ok {
			continue
		}
		index, ok := obj["index"].(float64)
		if !ok || index != float64(int(index)) || index < 0 || int(index) >= len(chunk) {
			continue
		}
		labels, ok := obj["labels"].([]any)
		if !ok {
			continue
		}

		for _, label := range labels {
			if clean := SanitizeLabel(fmt.Sprint(label)); clean != "" && allowed[clean] {
				added[int(index)] = append(added[int(index)], clean)
			}
		}
	}

	var results []bookmark.TagResult
	for i, b := range chunk {
		if len(added[i]) == 0 {
			continue
		}
		results = append(results, bookmark.TagResult{
			BookmarkID: b.ID,
			Tags:       mergeTags(b.Tags, added[i]),
		})
	}
	return results
}
