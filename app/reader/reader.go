package reader

import (
	"fmt"
	"os"

	"github.com/lysyi3m/bookmark-comb/app/bookmark"
)

// RootFolder is the folder assigned to entries of exports without a
// recognizable hierarchy.
const RootFolder = "Bookmarks"

type Reader interface {
	Run(data []byte) ([]*bookmark.Bookmark, error)
}

var (
	_ Reader = (*ChromeReader)(nil)
	_ Reader = (*HTMLReader)(nil)
	_ Reader = (*FeedReader)(nil)
)

// ReadFile reads path with r and validates the result.
func ReadFile(r Reader, path string) ([]*bookmark.Bookmark, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	items, err := r.Run(data)
	if err != nil {
		return nil, err
	}

	if err := bookmark.Validate(items); err != nil {
		return nil, fmt.Errorf("failed to validate %s: %w", path, err)
	}

	return items, nil
}
