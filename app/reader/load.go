package reader

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lysyi3m/bookmark-comb/app/bookmark"
	"github.com/lysyi3m/bookmark-comb/app/config"
	"github.com/lysyi3m/bookmark-comb/app/storage"
)

// Source describes where a collection was loaded from.
type Source struct {
	Kind       string // html, feed, json or none
	Path       string
	BackupPath string
}

const (
	SourceHTML = "html"
	SourceFeed = "feed"
	SourceJSON = "json"
	SourceNone = "none"
)

// Load picks the input: a Netscape export when configured and present, then
// a feed document, then the Chrome JSON file (backed up into backupDir
// first). When nothing is found the collection is empty.
func Load(in config.InputConfig, backupDir string, now time.Time) ([]*bookmark.Bookmark, Source, error) {
	if path := config.ExpandPath(strings.TrimSpace(in.ImportHTML)); path != "" && exists(path) {
		items, err := ReadFile(NewHTMLReader(), path)
		return items, Source{Kind: SourceHTML, Path: path}, err
	}

	if path := config.ExpandPath(strings.TrimSpace(in.ImportFeed)); path != "" && exists(path) {
		items, err := ReadFile(NewFeedReader(), path)
		return items, Source{Kind: SourceFeed, Path: path}, err
	}

	path := config.ExpandPath(in.BookmarksPath)
	if path == "" || !exists(path) {
		slog.Warn("No bookmarks input found", "path", path)
		return []*bookmark.Bookmark{}, Source{Kind: SourceNone, Path: path}, nil
	}

	src := Source{Kind: SourceJSON, Path: path}
	backup, err := storage.Backup(path, backupDir, now)
	if err != nil {
		return nil, src, err
	}
	src.BackupPath = backup
	slog.Debug("Input backed up", "path", path, "backup", backup)

	items, err := ReadFile(NewChromeReader(in.Profile), path)
	return items, src, err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
