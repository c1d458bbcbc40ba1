package bookmark

import (
	"testing"
)

func TestPlanner_Run(t *testing.T) {
	a := &Bookmark{ID: "1", Title: "Ex", URL: "https://www.ex.com/?utm_source=x", NormalizedURL: "https://ex.com/"}
	b := &Bookmark{ID: "2", Title: "Ex copy", URL: "https://www.ex.com/?utm_source=x", NormalizedURL: "https://ex.com/"}

	plan := NewPlanner().Run([]*Bookmark{a, b}, []*Bookmark{a}, []*Bookmark{b})

	if len(plan) != 2 {
		t.Fatalf("Expected 2 plan items, got %d", len(plan))
	}
	if plan[0].Action != ActionTrash || plan[0].Reason != ReasonDuplicate || plan[0].BookmarkID != "2" {
		t.Errorf("Expected trash item for bookmark 2 first, got %+v", plan[0])
	}
	if plan[1].Action != ActionUpdateURL || plan[1].Reason != ReasonNormalized || plan[1].BookmarkID != "1" {
		t.Errorf("Expected URL update for bookmark 1 second, got %+v", plan[1])
	}
}

func TestPlanner_SkipsUnchangedAndURLLess(t *testing.T) {
	kept := []*Bookmark{
		{ID: "1", URL: "https://ex.com/", NormalizedURL: "https://ex.com/"},
		{ID: "2", Title: "Folder-like"},
		{ID: "3", URL: "https://ex.com/raw"},
	}

	plan := NewPlanner().Run(kept, kept, nil)

	if len(plan) != 0 {
		t.Errorf("Expected empty plan, got %+v", plan)
	}
}

func TestPlanner_Order(t *testing.T) {
	kept := []*Bookmark{
		{ID: "k1", URL: "https://A.io//x", NormalizedURL: "https://A.io/x"},
		{ID: "k2", URL: "https://b.io", NormalizedURL: "https://b.io/"},
	}
	discarded := []*Bookmark{{ID: "d2"}, {ID: "d1"}}

	plan := NewPlanner().Run(nil, kept, discarded)

	expected := []string{"d2", "d1", "k1", "k2"}
	if len(plan) != len(expected) {
		t.Fatalf("Expected %d items, got %d", len(expected), len(plan))
	}
	for i, id := range expected {
		if plan[i].BookmarkID != id {
			t.Errorf("Expected item %d for %s, got %s", i, id, plan[i].BookmarkID)
		}
	}
}

func TestPlanner_LocalFileURLUnchanged(t *testing.T) {
	items := []*Bookmark{{ID: "1", Title: "Notes", URL: "file:///home/me/notes.html"}}
	defaultNormalizer().Run(items)

	plan := NewPlanner().Run(items, items, nil)

	if len(plan) != 0 {
		t.Errorf("Expected no plan items for a file URL, got %+v", plan)
	}
}
