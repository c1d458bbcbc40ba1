package bookmark

import (
	"testing"
)

func ids(items []*Bookmark) []string {
	out := make([]string, 0, len(items))
	for _, b := range items {
		out = append(out, b.ID)
	}
	return out
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDeduplicator_ExactDuplicate(t *testing.T) {
	items := []*Bookmark{
		{ID: "1", Title: "A", URL: "https://ex.com/?id=1", NormalizedURL: "https://ex.com/?id=1"},
		{ID: "2", Title: "A copy", URL: "https://ex.com/?id=1", NormalizedURL: "https://ex.com/?id=1"},
	}

	kept, discarded := NewDeduplicator(0.9, true).Run(items)

	if len(kept) != 1 || kept[0].ID != "1" {
		t.Errorf("Expected kept [1], got %v", ids(kept))
	}
	if len(discarded) != 1 || discarded[0].ID != "2" {
		t.Errorf("Expected discarded [2], got %v", ids(discarded))
	}
}

func TestDeduplicator_ExactDuplicateIgnoresTitle(t *testing.T) {
	items := []*Bookmark{
		{ID: "1", Title: "Completely", FolderPath: "A", NormalizedURL: "https://ex.com/", URL: "https://ex.com/"},
		{ID: "2", Title: "Different", FolderPath: "B", NormalizedURL: "https://ex.com/", URL: "https://ex.com/"},
	}

	kept, discarded := NewDeduplicator(1.0, false).Run(items)

	if len(kept) != 1 || len(discarded) != 1 {
		t.Errorf("Expected 1 kept and 1 discarded, got %d and %d", len(kept), len(discarded))
	}
}

func TestDeduplicator_FallsBackToRawURL(t *testing.T) {
	items := []*Bookmark{
		{ID: "1", Title: "One", URL: "https://ex.com/a"},
		{ID: "2", Title: "Two", URL: "https://ex.com/a"},
	}

	kept, discarded := NewDeduplicator(0.9, true).Run(items)

	if len(kept) != 1 || kept[0].ID != "1" {
		t.Errorf("Expected kept [1], got %v", ids(kept))
	}
	if len(discarded) != 1 || discarded[0].ID != "2" {
		t.Errorf("Expected discarded [2], got %v", ids(discarded))
	}
}

func TestDeduplicator_PrefersShorterURL(t *testing.T) {
	items := []*Bookmark{
		{ID: "long", Title: "X", URL: "https://a.io/xx", NormalizedURL: "https://a.io/x"},
		{ID: "short", Title: "X", URL: "https://a.io/x", NormalizedURL: "https://a.io/x"},
	}

	kept, discarded := NewDeduplicator(0.9, true).Run(items)

	if len(kept) != 1 || kept[0].ID != "short" {
		t.Errorf("Expected the shorter URL to be kept, got %v", ids(kept))
	}
	if len(discarded) != 1 || discarded[0].ID != "long" {
		t.Errorf("Expected the longer URL to be discarded, got %v", ids(discarded))
	}
}

func TestDeduplicator_KeepsFirstWhenPolicyDisabled(t *testing.T) {
	items := []*Bookmark{
		{ID: "long", Title: "X", URL: "https://a.io/xx", NormalizedURL: "https://a.io/x"},
		{ID: "short", Title: "X", URL: "https://a.io/x", NormalizedURL: "https://a.io/x"},
	}

	kept, _ := NewDeduplicator(0.9, false).Run(items)

	if len(kept) != 1 || kept[0].ID != "long" {
		t.Errorf("Expected the first bookmark to be kept, got %v", ids(kept))
	}
}

func TestDeduplicator_SoftDuplicateSameFolder(t *testing.T) {
	items := []*Bookmark{
		{ID: "1", Title: "Go Documentation Home", FolderPath: "Dev", URL: "https://go.dev/doc/home"},
		{ID: "2", Title: "Go Documentation", FolderPath: "Dev", URL: "https://go.dev/doc/"},
	}

	kept, discarded := NewDeduplicator(0.9, true).Run(items)

	if len(kept) != 1 || kept[0].ID != "2" {
		t.Errorf("Expected kept [2], got %v", ids(kept))
	}
	if len(discarded) != 1 || discarded[0].ID != "1" {
		t.Errorf("Expected discarded [1], got %v", ids(discarded))
	}
}

func TestDeduplicator_FolderScoping(t *testing.T) {
	items := []*Bookmark{
		{ID: "1", Title: "Python Docs", FolderPath: "Work", URL: "https://docs.python.org/3/"},
		{ID: "2", Title: "Python documentation", FolderPath: "Home", URL: "https://python.org/doc/"},
		{ID: "3", Title: "Python Docs", FolderPath: "Work/Archive", URL: "https://docs.python.org/2/"},
	}

	kept, discarded := NewDeduplicator(0.0, true).Run(items)

	if len(kept) != 3 {
		t.Errorf("Expected 3 kept bookmarks across different folders, got %v", ids(kept))
	}
	if len(discarded) != 0 {
		t.Errorf("Expected no discarded bookmarks, got %v", ids(discarded))
	}
}

func TestDeduplicator_SoftDuplicateNeedsURLs(t *testing.T) {
	items := []*Bookmark{
		{ID: "1", Title: "Reading list", FolderPath: "Bar"},
		{ID: "2", Title: "Reading list", FolderPath: "Bar", URL: "https://ex.com/list"},
	}

	kept, discarded := NewDeduplicator(0.5, true).Run(items)

	if len(kept) != 2 || len(discarded) != 0 {
		t.Errorf("Expected url-less bookmark to pass through, got kept %v discarded %v", ids(kept), ids(discarded))
	}
}

func TestDeduplicator_ClusterCollapsesToOneSurvivor(t *testing.T) {
	items := []*Bookmark{
		{ID: "a", Title: "Rust Book", FolderPath: "Dev", URL: "https://doc.rust-lang.org/book/index.html"},
		{ID: "b", Title: "Rust Book (2nd ed)", FolderPath: "Dev", URL: "https://rust-book.io"},
		{ID: "c", Title: "The Rust Book", FolderPath: "Dev", URL: "https://doc.rust-lang.org/book/"},
		{ID: "d", Title: "Unrelated", FolderPath: "Dev", URL: "https://example.org/"},
	}

	kept, discarded := NewDeduplicator(0.9, true).Run(items)

	if !sameIDs(ids(kept), []string{"b", "d"}) {
		t.Errorf("Expected kept [b d], got %v", ids(kept))
	}
	if !sameIDs(ids(discarded), []string{"a", "c"}) {
		t.Errorf("Expected discarded [a c], got %v", ids(discarded))
	}
}

func TestDeduplicator_NonTransitiveClusterRestartsScan(t *testing.T) {
	// "Apple pie" and "Banana split" share no token; "pie and split" shares
	// one with each and carries the shortest URL.
	items := []*Bookmark{
		{ID: "a", Title: "Apple pie", FolderPath: "Food", URL: "https://apple.example.com/pie"},
		{ID: "b", Title: "Banana split", FolderPath: "Food", URL: "https://banana.example.com/split"},
		{ID: "c", Title: "pie and split", FolderPath: "Food", URL: "https://c.io/"},
	}

	d := NewDeduplicator(0.8, true)
	if got := d.matcher.Similarity("Apple pie", "Banana split"); got >= 0.8 {
		t.Fatalf("Expected dissimilar titles in fixture, got %v", got)
	}

	kept, discarded := d.Run(items)

	if !sameIDs(ids(kept), []string{"c"}) {
		t.Errorf("Expected kept [c], got %v", ids(kept))
	}
	if !sameIDs(ids(discarded), []string{"a", "b"}) {
		t.Errorf("Expected discarded [a b], got %v", ids(discarded))
	}

	again, none := d.Run(kept)
	if !sameIDs(ids(again), ids(kept)) || len(none) != 0 {
		t.Errorf("Expected second run to be a no-op, got kept %v discarded %v", ids(again), ids(none))
	}
}

func TestDeduplicator_SoftDuplicateEqualLengthKeepsFirst(t *testing.T) {
	items := []*Bookmark{
		{ID: "a", Title: "Go docs", FolderPath: "Dev", URL: "https://www.go.dev/x", NormalizedURL: "https://go.dev/x"},
		{ID: "b", Title: "Go docs mirror", FolderPath: "Dev", URL: "https://go.dev/y", NormalizedURL: "https://go.dev/y"},
	}

	kept, discarded := NewDeduplicator(0.8, true).Run(items)

	if !sameIDs(ids(kept), []string{"a"}) {
		t.Errorf("Expected kept [a], got %v", ids(kept))
	}
	if !sameIDs(ids(discarded), []string{"b"}) {
		t.Errorf("Expected discarded [b], got %v", ids(discarded))
	}
}

func TestDeduplicator_PartitionAndIdempotence(t *testing.T) {
	items := []*Bookmark{
		{ID: "1", Title: "Go", FolderPath: "Dev", URL: "https://go.dev/", NormalizedURL: "https://go.dev/"},
		{ID: "2", Title: "Go site", FolderPath: "Dev", URL: "https://www.go.dev/?utm_source=x", NormalizedURL: "https://go.dev/"},
		{ID: "3", Title: "Go Playground", FolderPath: "Dev", URL: "https://go.dev/play/", NormalizedURL: "https://go.dev/play/"},
		{ID: "4", Title: "Go Playground", FolderPath: "Dev", URL: "https://play.golang.org/", NormalizedURL: "https://play.golang.org/"},
		{ID: "5", Title: "", FolderPath: "Dev"},
		{ID: "6", Title: "News", FolderPath: "Daily", URL: "https://news.ycombinator.com/", NormalizedURL: "https://news.ycombinator.com/"},
		{ID: "7", Title: "Weather", FolderPath: "Daily", URL: "https://weather.com/", NormalizedURL: "https://weather.com/"},
	}

	d := NewDeduplicator(0.9, true)
	kept, discarded := d.Run(items)

	if len(kept)+len(discarded) != len(items) {
		t.Fatalf("Expected partition of %d bookmarks, got %d kept and %d discarded", len(items), len(kept), len(discarded))
	}

	seen := make(map[*Bookmark]int)
	for _, b := range kept {
		seen[b]++
	}
	for _, b := range discarded {
		seen[b]++
	}
	for _, b := range items {
		if seen[b] != 1 {
			t.Errorf("Expected bookmark %s exactly once in the partition, got %d", b.ID, seen[b])
		}
	}

	again, none := d.Run(kept)
	if !sameIDs(ids(again), ids(kept)) {
		t.Errorf("Expected second run to keep %v, got %v", ids(kept), ids(again))
	}
	if len(none) != 0 {
		t.Errorf("Expected no further merges, got %v", ids(none))
	}
}

func TestDeduplicator_Deterministic(t *testing.T) {
	build := func() []*Bookmark {
		return []*Bookmark{
			{ID: "1", Title: "Alpha notes", FolderPath: "X", URL: "https://a.example/1"},
			{ID: "2", Title: "Alpha notes v2", FolderPath: "X", URL: "https://a.example/2"},
			{ID: "3", Title: "Beta", FolderPath: "X", URL: "https://b.example/"},
			{ID: "4", Title: "Alpha notes", FolderPath: "Y", URL: "https://a.example/1"},
		}
	}

	d := NewDeduplicator(0.85, true)
	k1, d1 := d.Run(build())
	k2, d2 := d.Run(build())

	if !sameIDs(ids(k1), ids(k2)) || !sameIDs(ids(d1), ids(d2)) {
		t.Errorf("Expected identical results across runs, got %v/%v and %v/%v", ids(k1), ids(d1), ids(k2), ids(d2))
	}
}

func TestDeduplicator_DoesNotMutate(t *testing.T) {
	b := &Bookmark{ID: "1", Title: "T", URL: "https://x.io/", NormalizedURL: "https://x.io/", Tags: []string{"a"}}
	before := *b

	NewDeduplicator(0.9, true).Run([]*Bookmark{b})

	if b.ID != before.ID || b.Title != before.Title || b.URL != before.URL || b.NormalizedURL != before.NormalizedURL || len(b.Tags) != 1 {
		t.Errorf("Expected bookmark to be unchanged, got %+v", *b)
	}
}
