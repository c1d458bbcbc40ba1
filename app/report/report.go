package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/lysyi3m/bookmark-comb/app/bookmark"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	FormatHTML     = "html"
	FormatMarkdown = "md"

	defaultFolder = "Bookmarks"
)

//go:embed templates/*
var templateFS embed.FS

// Count is one row of a per-folder or per-tag breakdown.
type Count struct {
	Name  string
	Count int
}

type Data struct {
	RunID       string
	GeneratedAt time.Time
	Total       int // bookmarks kept
	Duplicates  int
	ByFolder    []Count
	ByTag       []Count
	Plan        []bookmark.PlanItem
}

// NewData summarizes a finished run.
func NewData(kept, discarded []*bookmark.Bookmark, plan []bookmark.PlanItem) Data {
	folders := make(map[string]int)
	tags := make(map[string]int)
	for _, b := range kept {
		folder := b.FolderPath
		if folder == "" {
			folder = defaultFolder
		}
		folders[folder]++
		for _, tag := range b.Tags {
			tags[tag]++
		}
	}

	return Data{
		GeneratedAt: time.Now(),
		Total:       len(kept),
		Duplicates:  len(discarded),
		ByFolder:    sortedCounts(folders),
		ByTag:       sortedCounts(tags),
		Plan:        plan,
	}
}

func sortedCounts(m map[string]int) []Count {
	counts := make([]Count, 0, len(m))
	for name, n := range m {
		counts = append(counts, Count{Name: name, Count: n})
	}
	slices.SortFunc(counts, func(a, b Count) int {
		return strings.Compare(a.Name, b.Name)
	})
	return counts
}

type Renderer struct {
	html *htmltemplate.Template
	md   *texttemplate.Template
}

func NewRenderer() (*Renderer, error) {
	printer := message.NewPrinter(language.English)
	funcs := map[string]any{
		"num": func(n int) string {
			return printer.Sprintf("%d", n)
		},
		"date": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05 MST")
		},
	}

	html, err := htmltemplate.New("report.html.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/report.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML template: %w", err)
	}

	md, err := texttemplate.New("report.md.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/report.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse Markdown template: %w", err)
	}

	return &Renderer{html: html, md: md}, nil
}

func (r *Renderer) Render(w io.Writer, format string, d Data) error {
	switch format {
	case FormatHTML:
		return r.html.Execute(w, d)
	case FormatMarkdown:
		return r.md.Execute(w, d)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteFiles renders report.<format> for each format into dir and returns the
// written paths.
func (r *Renderer) WriteFiles(dir string, formats []string, d Data) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	var paths []string
	for _, format := range formats {
		var buf bytes.Buffer
		if err := r.Render(&buf, format, d); err != nil {
			return paths, fmt.Errorf("failed to render %s report: %w", format, err)
		}

		path := filepath.Join(dir, "report."+format)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s report: %w", format, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// WritePlan stores plan as indented JSON. An empty plan is written as [].
func WritePlan(path string, plan []bookmark.PlanItem) error {
	if plan == nil {
		plan = []bookmark.PlanItem{}
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create plan directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}

	return nil
}
