package bookmark

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := []*Bookmark{{ID: "1", Title: "One"}, {ID: "2", Title: "Two"}}
	if err := Validate(valid); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	cases := map[string][]*Bookmark{
		"empty id":     {{ID: "", Title: "x"}},
		"duplicate id": {{ID: "1"}, {ID: "1"}},
		"nil entry":    {nil},
		"bad title":    {{ID: "1", Title: string([]byte{0xff, 0xfe})}},
	}
	for name, items := range cases {
		err := Validate(items)
		if !errors.Is(err, ErrInvalidBookmark) {
			t.Errorf("%s: expected ErrInvalidBookmark, got %v", name, err)
		}
	}
}

func TestApplyTags(t *testing.T) {
	items := []*Bookmark{{ID: "1", Tags: []string{"old"}}, {ID: "2"}}

	applied := ApplyTags(items, []TagResult{
		{BookmarkID: "1", Tags: []string{"Dev", "old"}},
		{BookmarkID: "missing", Tags: []string{"x"}},
	})

	if applied != 1 {
		t.Errorf("Expected 1 applied result, got %d", applied)
	}
	if len(items[0].Tags) != 2 || items[0].Tags[0] != "Dev" {
		t.Errorf("Expected tags [Dev old], got %v", items[0].Tags)
	}
	if len(items[1].Tags) != 0 {
		t.Errorf("Expected untouched bookmark, got %v", items[1].Tags)
	}
}

func TestBookmark_Key(t *testing.T) {
	b := &Bookmark{URL: "https://www.ex.com/"}
	if b.Key() != "https://www.ex.com/" {
		t.Errorf("Expected raw URL as key, got '%s'", b.Key())
	}

	b.NormalizedURL = "https://ex.com/"
	if b.Key() != "https://ex.com/" {
		t.Errorf("Expected normalized URL as key, got '%s'", b.Key())
	}
}
