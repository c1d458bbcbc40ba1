package reader

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/lysyi3m/bookmark-comb/app/bookmark"
	"github.com/mmcdole/gofeed"
)

const feedFolder = "Feeds"

// FeedReader turns the entries of an RSS, Atom or JSON feed (a read-later
// or starred-items export, for instance) into bookmarks.
type FeedReader struct {
	gofeedParser *gofeed.Parser
}

func NewFeedReader() *FeedReader {
	return &FeedReader{
		gofeedParser: gofeed.NewParser(),
	}
}

func (r *FeedReader) Run(data []byte) ([]*bookmark.Bookmark, error) {
	feed, err := r.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	folder := feedFolder
	if title := strings.TrimSpace(feed.Title); title != "" {
		folder = feedFolder + "/" + strings.ReplaceAll(title, "/", "-")
	}

	items := make([]*bookmark.Bookmark, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}

		b := &bookmark.Bookmark{
			ID:         strconv.Itoa(len(items) + 1),
			Title:      strings.TrimSpace(item.Title),
			URL:        strings.TrimSpace(item.Link),
			FolderPath: folder,
		}
		if len(item.Categories) > 0 {
			tags := slices.Clone(item.Categories)
			slices.Sort(tags)
			b.Tags = slices.Compact(tags)
		}
		items = append(items, b)
	}

	return items, nil
}
