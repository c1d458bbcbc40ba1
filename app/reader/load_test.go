package reader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lysyi3m/bookmark-comb/app/config"
)

const loadChromeJSON = `{"roots": {"bookmark_bar": {"name": "Bookmarks bar", "type": "folder", "children": [
	{"id": "1", "name": "Go", "type": "url", "url": "https://go.dev/"}
]}}}`

const loadHTML = `<DL><p>
<DT><A HREF="https://example.com/">Example</A>
<DT><A HREF="https://example.org/">Other</A>
</DL><p>`

func TestLoadPrefersHTML(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "export.html")
	jsonPath := filepath.Join(dir, "Bookmarks")
	os.WriteFile(htmlPath, []byte(loadHTML), 0o644)
	os.WriteFile(jsonPath, []byte(loadChromeJSON), 0o644)

	items, src, err := Load(config.InputConfig{ImportHTML: htmlPath, BookmarksPath: jsonPath}, filepath.Join(dir, "backups"), time.Now())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if src.Kind != SourceHTML || len(items) != 2 {
		t.Errorf("Expected 2 bookmarks from html, got %d from %s", len(items), src.Kind)
	}
	if _, err := os.Stat(filepath.Join(dir, "backups")); !os.IsNotExist(err) {
		t.Error("Expected no backup for HTML input")
	}
}

func TestLoadJSONWithBackup(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "Bookmarks")
	os.WriteFile(jsonPath, []byte(loadChromeJSON), 0o644)

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	items, src, err := Load(config.InputConfig{
		ImportHTML:    filepath.Join(dir, "absent.html"),
		BookmarksPath: jsonPath,
		Profile:       "Work",
	}, filepath.Join(dir, "backups"), now)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if src.Kind != SourceJSON || len(items) != 1 || items[0].Profile != "Work" {
		t.Errorf("Expected one JSON bookmark with profile Work, got %d from %s", len(items), src.Kind)
	}
	if filepath.Base(src.BackupPath) != "backup-20240102-030405-Bookmarks" {
		t.Errorf("Unexpected backup path %s", src.BackupPath)
	}
}

func TestLoadNothing(t *testing.T) {
	items, src, err := Load(config.InputConfig{BookmarksPath: filepath.Join(t.TempDir(), "none")}, t.TempDir(), time.Now())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if src.Kind != SourceNone || items == nil || len(items) != 0 {
		t.Errorf("Expected empty collection, got %v from %s", items, src.Kind)
	}
}
