package reader

import (
	"testing"
)

const netscapeSample = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><H3 ADD_DATE="1">Bar</H3>
    <DL><p>
        <DT><A HREF="https://go.dev/" ADD_DATE="1">Go</A>
        <DT><H3>Dev</H3>
        <DL><p>
            <DT><A HREF="https://www.rust-lang.org/">Rust &amp; Friends</A>
        </DL><p>
    </DL><p>
    <DT><A HREF="https://top.example/">Top level</A>
    <DT><A>No href</A>
</DL><p>
`

func TestHTMLReader_Run(t *testing.T) {
	items, err := NewHTMLReader().Run([]byte(netscapeSample))
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 3 {
		t.Fatalf("Expected 3 bookmarks, got %d", len(items))
	}

	expected := []struct {
		id, title, url, folder string
	}{
		{"1", "Go", "https://go.dev/", "Bookmarks/Bar"},
		{"2", "Rust & Friends", "https://www.rust-lang.org/", "Bookmarks/Bar/Dev"},
		{"3", "Top level", "https://top.example/", "Bookmarks"},
	}
	for i, e := range expected {
		b := items[i]
		if b.ID != e.id || b.Title != e.title || b.URL != e.url || b.FolderPath != e.folder {
			t.Errorf("Item %d: expected %+v, got id=%s title=%s url=%s folder=%s", i, e, b.ID, b.Title, b.URL, b.FolderPath)
		}
	}
}

func TestHTMLReader_FlatAnchors(t *testing.T) {
	items, err := NewHTMLReader().Run([]byte(`<html><body><A HREF="https://flat.example/">Flat</A></body></html>`))
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 1 {
		t.Fatalf("Expected 1 bookmark, got %d", len(items))
	}
	if items[0].URL != "https://flat.example/" || items[0].FolderPath != RootFolder {
		t.Errorf("Expected flat bookmark in root folder, got %+v", items[0])
	}
}

func TestHTMLReader_NestedListWithoutHeading(t *testing.T) {
	content := `<DL><p><DL><p><DT><A HREF="https://nested.example/">Nested</A></DL></DL>`

	items, err := NewHTMLReader().Run([]byte(content))
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 1 || items[0].FolderPath != RootFolder {
		t.Errorf("Expected 1 bookmark in root folder, got %+v", items)
	}
}

func TestHTMLReader_Empty(t *testing.T) {
	items, err := NewHTMLReader().Run([]byte(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("Expected no bookmarks, got %d", len(items))
	}
}
