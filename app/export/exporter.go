package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lysyi3m/bookmark-comb/app/bookmark"
	"github.com/lysyi3m/bookmark-comb/app/config"
)

const (
	FileName = "bookmarks.cleaned.html"

	defaultFolder = "Bookmarks"
	uncategorized = "Uncategorized"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// HTMLExporter writes bookmarks as a Netscape bookmark file, grouped into
// folders by folder path or by tags.
type HTMLExporter struct {
	groupBy string
}

func NewHTMLExporter(groupBy string) *HTMLExporter {
	return &HTMLExporter{groupBy: groupBy}
}

// node is a folder of the exported tree.
type node struct {
	children map[string]*node
	items    []*bookmark.Bookmark
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

func (n *node) child(name string) *node {
	c, ok := n.children[name]
	if !ok {
		c = newNode()
		n.children[name] = c
	}
	return c
}

func (e *HTMLExporter) Run(items []*bookmark.Bookmark) []byte {
	var buf bytes.Buffer

	buf.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	buf.WriteString(`<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">` + "\n")
	buf.WriteString("<TITLE>Bookmarks</TITLE>\n<H1>Bookmarks</H1>\n<DL><p>\n")

	root := newNode()
	for _, b := range items {
		for _, key := range e.groupKeys(b) {
			n := root
			if e.groupBy == config.GroupByTagHier {
				for _, part := range splitPath(key) {
					n = n.child(part)
				}
			} else {
				n = n.child(key)
			}
			n.items = append(n.items, b)
		}
	}

	writeChildren(&buf, root)

	buf.WriteString("</DL><p>\n")

	return buf.Bytes()
}

// WriteFile renders items into dir/bookmarks.cleaned.html and returns the path.
func (e *HTMLExporter) WriteFile(dir string, items []*bookmark.Bookmark) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, e.Run(items), 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}

	return path, nil
}

func (e *HTMLExporter) groupKeys(b *bookmark.Bookmark) []string {
	switch e.groupBy {
	case config.GroupByTag:
		if len(b.Tags) > 0 {
			return b.Tags[:1]
		}
		return []string{uncategorized}
	case config.GroupByTagAll, config.GroupByTagHier:
		if len(b.Tags) > 0 {
			return b.Tags
		}
		return []string{uncategorized}
	default:
		if b.FolderPath == "" {
			return []string{defaultFolder}
		}
		return []string{b.FolderPath}
	}
}

func splitPath(key string) []string {
	var parts []string
	for _, p := range strings.Split(key, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return []string{uncategorized}
	}
	return parts
}

func writeChildren(buf *bytes.Buffer, n *node) {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		c := n.children[name]
		fmt.Fprintf(buf, "<DT><H3>%s</H3>\n<DL><p>\n", htmlEscaper.Replace(name))
		writeChildren(buf, c)
		for _, b := range c.items {
			if b.URL == "" {
				continue
			}
			fmt.Fprintf(buf, "<DT><A HREF=\"%s\">%s</A>\n", htmlEscaper.Replace(b.Href()), htmlEscaper.Replace(b.Title))
		}
		buf.WriteString("</DL><p>\n")
	}
}
