package bookmark

import (
	"cmp"
	"errors"
	"fmt"
	"unicode/utf8"
)

var ErrInvalidBookmark = errors.New("invalid bookmark")

type Bookmark struct {
	ID             string
	Title          string
	URL            string // empty for folder-like or malformed entries
	ParentID       string
	FolderPath     string // slash-joined, e.g. "Bookmarks bar/Dev/Go"
	Profile        string
	NormalizedURL  string // set by Normalizer
	Tags           []string
	Liveness       string
	ContentSnippet string
}

// Key returns the exact-duplicate key: the normalized URL, or the raw URL
// when normalization has not run. Empty means the bookmark has no key.
func (b *Bookmark) Key() string {
	return cmp.Or(b.NormalizedURL, b.URL)
}

// Href is the address written to exports.
func (b *Bookmark) Href() string {
	return cmp.Or(b.NormalizedURL, b.URL)
}

type Action string

const (
	ActionTrash     Action = "move_to/_Trash"
	ActionUpdateURL Action = "update_url"
)

const (
	ReasonDuplicate  = "duplicate"
	ReasonNormalized = "normalized"
)

type PlanItem struct {
	Action     Action `json:"action"`
	Reason     string `json:"reason"`
	BookmarkID string `json:"bookmark_id"`
}

// TagResult is the outcome of classifying one bookmark. Tags is the full
// tag set the bookmark should carry afterwards.
type TagResult struct {
	BookmarkID string
	Tags       []string
}

// ApplyTags merges classification results into the collection and returns
// how many bookmarks were updated.
func ApplyTags(items []*Bookmark, results []TagResult) int {
	if len(results) == 0 {
		return 0
	}

	byID := make(map[string]*Bookmark, len(items))
	for _, b := range items {
		byID[b.ID] = b
	}

	applied := 0
	for _, r := range results {
		b, ok := byID[r.BookmarkID]
		if !ok {
			continue
		}
		b.Tags = append([]string(nil), r.Tags...)
		applied++
	}
	return applied
}

// Validate checks the records handed over by a reader: every bookmark needs
// a unique non-empty id and valid UTF-8 text fields.
func Validate(items []*Bookmark) error {
	seen := make(map[string]struct{}, len(items))
	for i, b := range items {
		if b == nil {
			return fmt.Errorf("%w: nil entry at index %d", ErrInvalidBookmark, i)
		}
		if b.ID == "" {
			return fmt.Errorf("%w: empty id at index %d", ErrInvalidBookmark, i)
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidBookmark, b.ID)
		}
		seen[b.ID] = struct{}{}

		if !utf8.ValidString(b.Title) {
			return fmt.Errorf("%w: title of %q is not valid UTF-8", ErrInvalidBookmark, b.ID)
		}
		if !utf8.ValidString(b.URL) || !utf8.ValidString(b.FolderPath) {
			return fmt.Errorf("%w: url or folder of %q is not valid UTF-8", ErrInvalidBookmark, b.ID)
		}
	}
	return nil
}
