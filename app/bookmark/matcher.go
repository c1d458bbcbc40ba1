package bookmark

import (
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Matcher scores how alike two titles are. Four measures are computed on a
// 0-100 scale and the best one wins, so a pair only has to look alike under
// one of them (reordered words, a truncated title, a title embedded in a
// longer one).
type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// Similarity returns a score in [0, 1]. Comparison is case-sensitive; both
// titles are NFC-normalized first.
func (m *Matcher) Similarity(a, b string) float64 {
	ra := []rune(norm.NFC.String(a))
	rb := []rune(norm.NFC.String(b))

	best := tokenSetRatio(ra, rb)
	best = max(best, partialTokenSetRatio(ra, rb))
	best = max(best, partialRatio(ra, rb))
	best = max(best, tokenSortRatio(ra, rb))

	return best / 100
}

// ratio is the normalized indel similarity: 2*LCS / (len(a)+len(b)).
func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 100 * float64(2*lcsLength(a, b)) / float64(total)
}

func lcsLength(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else {
				cur[j] = max(prev[j], cur[j-1])
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// partialRatio aligns the shorter string against every window of the longer
// one, including windows hanging off either end, and keeps the best ratio.
func partialRatio(a, b []rune) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 100
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	best := bestWindow(a, b)
	if len(a) == len(b) && best < 100 {
		best = max(best, bestWindow(b, a))
	}
	return best
}

func bestWindow(needle, hay []rune) float64 {
	m, n := len(needle), len(hay)
	best := 0.0

	for i := n - m; i >= 0; i-- {
		best = max(best, ratio(needle, hay[i:i+m]))
		if best == 100 {
			return best
		}
	}
	for i := 1; i < m; i++ {
		best = max(best, ratio(needle, hay[:i]))
	}
	for i := n - m + 1; i < n; i++ {
		best = max(best, ratio(needle, hay[i:]))
	}
	return best
}

func tokenSortRatio(a, b []rune) float64 {
	ta := strings.Fields(string(a))
	tb := strings.Fields(string(b))
	slices.Sort(ta)
	slices.Sort(tb)
	return ratio([]rune(strings.Join(ta, " ")), []rune(strings.Join(tb, " ")))
}

// tokenSetRatio compares the shared tokens with each side's shared tokens
// plus its remainder.
func tokenSetRatio(a, b []rune) float64 {
	sa, sb := tokenSet(a), tokenSet(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}

	common, onlyA, onlyB := splitSets(sa, sb)
	if len(common) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	sect := strings.Join(common, " ")
	withA := joinNonEmpty(sect, strings.Join(onlyA, " "))
	withB := joinNonEmpty(sect, strings.Join(onlyB, " "))

	best := ratio([]rune(withA), []rune(withB))
	if sect == "" {
		return best
	}
	best = max(best, ratio([]rune(sect), []rune(withA)))
	best = max(best, ratio([]rune(sect), []rune(withB)))
	return best
}

func partialTokenSetRatio(a, b []rune) float64 {
	sa, sb := tokenSet(a), tokenSet(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}

	common, onlyA, onlyB := splitSets(sa, sb)
	if len(common) > 0 {
		return 100
	}
	return partialRatio([]rune(strings.Join(onlyA, " ")), []rune(strings.Join(onlyB, " ")))
}

// tokenSet returns the sorted unique whitespace-separated tokens of s.
func tokenSet(s []rune) []string {
	tokens := strings.Fields(string(s))
	slices.Sort(tokens)
	return slices.Compact(tokens)
}

// splitSets partitions two sorted unique token lists.
func splitSets(a, b []string) (common, onlyA, onlyB []string) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			common = append(common, a[i])
			i++
			j++
		case a[i] < b[j]:
			onlyA = append(onlyA, a[i])
			i++
		default:
			onlyB = append(onlyB, b[j])
			j++
		}
	}
	onlyA = append(onlyA, a[i:]...)
	onlyB = append(onlyB, b[j:]...)
	return common, onlyA, onlyB
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}
