package bookmark

import (
	"net/url"
	"regexp"
	"strings"
)

var slashRunRegex = regexp.MustCompile(`/{2,}`)

type NormalizeOptions struct {
	StripParams    []string // exact names or "prefix*"
	StripFragments bool
	StripWWW       bool
}

type Normalizer struct {
	opts NormalizeOptions
}

func NewNormalizer(opts NormalizeOptions) *Normalizer {
	return &Normalizer{opts: opts}
}

// Run sets NormalizedURL on every bookmark that has a URL and returns how
// many were touched.
func (n *Normalizer) Run(items []*Bookmark) int {
	count := 0
	for _, b := range items {
		if b.URL == "" {
			continue
		}
		b.NormalizedURL = n.URL(b.URL)
		count++
	}
	return count
}

// URL returns the canonical form of raw. Input the URL parser rejects is
// returned unchanged.
func (n *Normalizer) URL(raw string) string {
	if _, err := url.Parse(raw); err != nil {
		return raw
	}

	parts := splitURL(raw)

	if n.opts.StripWWW {
		parts.netloc = stripWWW(parts.netloc)
	}

	parts.path = slashRunRegex.ReplaceAllString(parts.path, "/")
	if parts.path == "" {
		parts.path = "/"
	}

	parts.query = FilterQuery(parts.query, n.opts.StripParams)

	if n.opts.StripFragments {
		parts.fragment = ""
	}

	return parts.String()
}

// FilterQuery drops empty items and items whose key matches one of the
// patterns, keeping the order of the rest.
func FilterQuery(query string, patterns []string) string {
	if query == "" {
		return ""
	}

	kept := make([]string, 0, strings.Count(query, "&")+1)
	for _, item := range strings.Split(query, "&") {
		if item == "" {
			continue
		}
		key, _, _ := strings.Cut(item, "=")
		if matchesAny(key, patterns) {
			continue
		}
		kept = append(kept, item)
	}
	return strings.Join(kept, "&")
}

// DomainOf returns the lowercased authority of raw, or "" when it has none.
func DomainOf(raw string) string {
	return strings.ToLower(splitURL(raw).netloc)
}

func matchesAny(key string, patterns []string) bool {
	for _, pattern := range patterns {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			if strings.HasPrefix(key, prefix) {
				return true
			}
			continue
		}
		if key == pattern {
			return true
		}
	}
	return false
}

// stripWWW removes leading "www." labels. Repeated labels are all removed so
// that normalizing twice gives the same result; a bare "www." host is kept.
func stripWWW(host string) string {
	for len(host) > 4 && strings.EqualFold(host[:4], "www.") {
		host = host[4:]
	}
	return host
}

type urlParts struct {
	scheme    string
	netloc    string
	hasNetloc bool // "//" was present, even with an empty netloc as in file:///
	path      string
	query     string
	fragment  string
}

// splitURL cuts raw into its five components without decoding anything.
func splitURL(raw string) urlParts {
	var p urlParts
	rest := raw

	if i := strings.IndexByte(rest, ':'); i > 0 && isScheme(rest[:i]) {
		p.scheme = strings.ToLower(rest[:i])
		rest = rest[i+1:]
	}

	if strings.HasPrefix(rest, "//") {
		p.hasNetloc = true
		rest = rest[2:]
		end := strings.IndexAny(rest, "/?#")
		if end < 0 {
			end = len(rest)
		}
		p.netloc, rest = rest[:end], rest[end:]
	}

	rest, p.fragment, _ = strings.Cut(rest, "#")
	p.path, p.query, _ = strings.Cut(rest, "?")

	return p
}

func (p urlParts) String() string {
	var b strings.Builder

	if p.scheme != "" {
		b.WriteString(p.scheme)
		b.WriteByte(':')
	}
	if p.hasNetloc || p.netloc != "" {
		b.WriteString("//")
		b.WriteString(p.netloc)
		if p.path != "" && p.path[0] != '/' {
			b.WriteByte('/')
		}
	}
	b.WriteString(p.path)
	if p.query != "" {
		b.WriteByte('?')
		b.WriteString(p.query)
	}
	if p.fragment != "" {
		b.WriteByte('#')
		b.WriteString(p.fragment)
	}

	return b.String()
}

func isScheme(s string) bool {
	for i, c := range s {
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}
