package reader

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lysyi3m/bookmark-comb/app/bookmark"
)

// HTMLReader parses the Netscape bookmark file format every browser exports.
type HTMLReader struct{}

func NewHTMLReader() *HTMLReader {
	return &HTMLReader{}
}

func (r *HTMLReader) Run(data []byte) ([]*bookmark.Bookmark, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bookmarks HTML: %w", err)
	}

	w := &htmlWalker{}

	top := doc.Find("dl").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ParentsFiltered("dl").Length() == 0
	})
	if top.Length() == 0 {
		doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			w.addAnchor(a, []string{RootFolder})
		})
		return w.items, nil
	}

	top.Each(func(_ int, dl *goquery.Selection) {
		w.walk(dl, []string{RootFolder})
	})

	return w.items, nil
}

type htmlWalker struct {
	items []*bookmark.Bookmark
}

// walk visits the entries of one DL. A DT holding an H3 names the folder for
// the DL inside it or, depending on how the export was written, the DL right
// after it.
func (w *htmlWalker) walk(dl *goquery.Selection, folders []string) {
	children := dl.Children()
	for i := 0; i < children.Length(); i++ {
		child := children.Eq(i)

		switch goquery.NodeName(child) {
		case "dl":
			w.walk(child, folders)
		case "dt":
			h3 := child.ChildrenFiltered("h3").First()
			if h3.Length() == 0 {
				w.walkEntry(child, folders)
				continue
			}

			sub := folders
			if name := strings.TrimSpace(h3.Text()); name != "" {
				sub = append(slices.Clone(folders), name)
			}

			if nested := child.ChildrenFiltered("dl"); nested.Length() > 0 {
				nested.Each(func(_ int, s *goquery.Selection) { w.walk(s, sub) })
				continue
			}
			if i+1 < children.Length() && goquery.NodeName(children.Eq(i+1)) == "dl" {
				w.walk(children.Eq(i+1), sub)
				i++
			}
		}
	}
}

func (w *htmlWalker) walkEntry(dt *goquery.Selection, folders []string) {
	dt.ChildrenFiltered("a").Each(func(_ int, a *goquery.Selection) {
		w.addAnchor(a, folders)
	})
	dt.ChildrenFiltered("dl").Each(func(_ int, s *goquery.Selection) {
		w.walk(s, folders)
	})
}

func (w *htmlWalker) addAnchor(a *goquery.Selection, folders []string) {
	href, ok := a.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return
	}

	w.items = append(w.items, &bookmark.Bookmark{
		ID:         strconv.Itoa(len(w.items) + 1),
		Title:      strings.TrimSpace(a.Text()),
		URL:        href,
		FolderPath: strings.Join(folders, "/"),
	})
}
