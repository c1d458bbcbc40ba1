package classify

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/lysyi3m/bookmark-comb/app/bookmark"
	"gopkg.in/yaml.v3"
)

// Rules maps hosts and keyword patterns to tags.
type Rules struct {
	Domains  map[string][]string `yaml:"domains"`
	Keywords map[string][]string `yaml:"keywords"`
	Lang     map[string][]string `yaml:"lang"`
}

// LoadRules reads a rules file. A missing file yields empty rules.
func LoadRules(path string) (*Rules, error) {
	rules := &Rules{}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Rules file not found, using empty rules", "path", path)
		return rules, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}

	return rules, nil
}

// Labels returns every tag mentioned in any section, sorted and unique.
func (r *Rules) Labels() []string {
	var labels []string
	for _, section := range []map[string][]string{r.Domains, r.Keywords, r.Lang} {
		for _, tags := range section {
			labels = append(labels, tags...)
		}
	}
	slices.Sort(labels)
	return slices.Compact(labels)
}

type keywordRule struct {
	pattern string
	re      *regexp.Regexp // nil when pattern is not a valid expression
	tags    []string
}

func (k keywordRule) matches(s string) bool {
	if k.re != nil {
		return k.re.MatchString(s)
	}
	return strings.Contains(s, k.pattern)
}

type RuleClassifier struct {
	domains  map[string][]string
	keywords []keywordRule
}

func NewRuleClassifier(rules *Rules) *RuleClassifier {
	c := &RuleClassifier{domains: rules.Domains}

	patterns := make([]string, 0, len(rules.Keywords))
	for pattern := range rules.Keywords {
		patterns = append(patterns, pattern)
	}
	slices.Sort(patterns)

	for _, pattern := range patterns {
		rule := keywordRule{pattern: pattern, tags: rules.Keywords[pattern]}
		if re, err := regexp.Compile(pattern); err == nil {
			rule.re = re
		} else {
			slog.Debug("Keyword is not a valid expression, matching as text", "pattern", pattern, "error", err)
		}
		c.keywords = append(c.keywords, rule)
	}

	return c
}

func (c *RuleClassifier) Name() string {
	return "rules"
}

// Classify replaces the tags of every bookmark with the tags its host and
// keywords map to. Keywords are matched against the lowercased title and URL.
func (c *RuleClassifier) Classify(ctx context.Context, items []*bookmark.Bookmark) ([]bookmark.TagResult, error) {
	results := make([]bookmark.TagResult, 0, len(items))

	for _, b := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var tags []string
		if b.URL != "" {
			if domain := bookmark.DomainOf(b.URL); domain != "" {
				tags = append(tags, c.domains[domain]...)
			}

			title := strings.ToLower(b.Title)
			url := strings.ToLower(b.URL)
			for _, k := range c.keywords {
				if k.matches(title) || k.matches(url) {
					tags = append(tags, k.tags...)
				}
			}
		}

		results = append(results, bookmark.TagResult{
			BookmarkID: b.ID,
			Tags:       mergeTags(nil, tags),
		})
	}

	return results, nil
}
