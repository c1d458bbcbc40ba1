package reader

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/lysyi3m/bookmark-comb/app/bookmark"
)

// Chrome lists its roots in this order in the UI.
var chromeRootOrder = []string{"bookmark_bar", "other", "synced"}

type chromeFile struct {
	Roots map[string]json.RawMessage `json:"roots"`
}

type chromeNode struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	URL      string            `json:"url"`
	Children []json.RawMessage `json:"children"`
}

type ChromeReader struct {
	profile string
}

func NewChromeReader(profile string) *ChromeReader {
	return &ChromeReader{profile: profile}
}

// Run parses a Chrome "Bookmarks" file. Each root starts its own folder path
// named after the root; nodes that are not JSON objects are skipped.
func (r *ChromeReader) Run(data []byte) ([]*bookmark.Bookmark, error) {
	var file chromeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse bookmarks JSON: %w", err)
	}

	var items []*bookmark.Bookmark
	for _, key := range rootKeys(file.Roots) {
		var root chromeNode
		if err := json.Unmarshal(file.Roots[key], &root); err != nil {
			continue
		}

		path := root.Name
		if path == "" {
			path = key
		}
		items = r.walkChildren(root, path, items)
	}

	return items, nil
}

func (r *ChromeReader) walkChildren(parent chromeNode, path string, items []*bookmark.Bookmark) []*bookmark.Bookmark {
	for _, raw := range parent.Children {
		var node chromeNode
		if err := json.Unmarshal(raw, &node); err != nil {
			continue
		}

		switch node.Type {
		case "url":
			items = append(items, &bookmark.Bookmark{
				ID:         node.ID,
				Title:      node.Name,
				URL:        node.URL,
				ParentID:   parent.ID,
				FolderPath: path,
				Profile:    r.profile,
			})
		case "folder":
			sub := path
			if node.Name != "" {
				sub = path + "/" + node.Name
			}
			items = r.walkChildren(node, sub, items)
		}
	}
	return items
}

func rootKeys(roots map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(roots))
	for _, key := range chromeRootOrder {
		if _, ok := roots[key]; ok {
			keys = append(keys, key)
		}
	}

	var rest []string
	for key := range roots {
		if !slices.Contains(chromeRootOrder, key) {
			rest = append(rest, key)
		}
	}
	slices.Sort(rest)

	return append(keys, rest...)
}
