package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/lysyi3m/bookmark-comb/app/bookmark"
	"github.com/lysyi3m/bookmark-comb/app/classify"
	"github.com/lysyi3m/bookmark-comb/app/config"
	"github.com/lysyi3m/bookmark-comb/app/database"
	"github.com/lysyi3m/bookmark-comb/app/enrich"
	"github.com/lysyi3m/bookmark-comb/app/export"
	"github.com/lysyi3m/bookmark-comb/app/reader"
	"github.com/lysyi3m/bookmark-comb/app/report"
	"github.com/lysyi3m/bookmark-comb/app/storage"
)

type Result struct {
	RunID       string
	Source      reader.Source
	Loaded      int
	Kept        int
	Discarded   int
	Tagged      int
	Plan        []bookmark.PlanItem
	ExportPath  string // empty in dry-run mode
	PlanPath    string
	ReportPaths []string
	Uploaded    []string
}

// Artifacts lists every file the run wrote to the export directory.
func (r *Result) Artifacts() []string {
	var files []string
	if r.ExportPath != "" {
		files = append(files, r.ExportPath)
	}
	files = append(files, r.ReportPaths...)
	if r.PlanPath != "" {
		files = append(files, r.PlanPath)
	}
	return files
}

// Pipeline runs one cleanup: load, normalize, deduplicate, classify, plan,
// export and report. Runs and fetch results are persisted when the
// corresponding stores are set.
type Pipeline struct {
	cfg   *config.AppConfig
	runs  database.RunStore
	cache database.FetchCacheStore
	out   console
	now   func() time.Time
}

func New(cfg *config.AppConfig, runs database.RunStore, cache database.FetchCacheStore, out io.Writer) *Pipeline {
	return &Pipeline{
		cfg:   cfg,
		runs:  runs,
		cache: cache,
		out:   console{w: out},
		now:   time.Now,
	}
}

func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := p.now()
	res := &Result{}

	run := &database.Run{
		StartedAt:      start.UTC(),
		CategorizeMode: p.cfg.Categorize.Mode,
		ApplyMode:      p.cfg.Apply.Mode,
	}
	if p.runs != nil {
		if err := p.runs.CreateRun(run); err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
		res.RunID = run.ID
	}

	if err := p.process(ctx, run, res, start); err != nil {
		if p.runs != nil && run.ID != "" {
			if ferr := p.runs.FailRun(run.ID, err); ferr != nil {
				slog.Error("Failed to record run failure", "run_id", run.ID, "error", ferr)
			}
		}
		return nil, err
	}

	slog.Info("Process completed",
		"run_id", res.RunID,
		"duration", time.Since(start),
		"loaded", res.Loaded,
		"kept", res.Kept,
		"discarded", res.Discarded,
		"tagged", res.Tagged,
		"plan_items", len(res.Plan))

	return res, nil
}

func (p *Pipeline) process(ctx context.Context, run *database.Run, res *Result, start time.Time) error {
	exportDir := config.ExpandPath(p.cfg.Output.ExportDir)

	items, src, err := reader.Load(p.cfg.Input, filepath.Join(exportDir, storage.BackupDir), start)
	if err != nil {
		return fmt.Errorf("failed to load bookmarks: %w", err)
	}
	res.Source = src
	res.Loaded = len(items)
	p.out.count("Loaded", len(items), " bookmarks from "+src.Kind)

	bookmark.NewNormalizer(bookmark.NormalizeOptions{
		StripParams:    p.cfg.Normalize.StripQueryParams,
		StripFragments: p.cfg.Normalize.StripFragments,
		StripWWW:       p.cfg.Normalize.StripWWW,
	}).Run(items)

	kept, discarded := bookmark.NewDeduplicator(p.cfg.Dedup.TitleSimilarityThreshold, p.cfg.Dedup.PreferShorterURL).Run(items)
	res.Kept = len(kept)
	res.Discarded = len(discarded)
	p.out.count("Deduplicated to", len(kept), fmt.Sprintf(" items, duplicates: %d", len(discarded)))

	tagged, err := p.categorize(ctx, kept)
	if err != nil {
		return err
	}
	res.Tagged = tagged

	enrich.MarkLiveness(kept, p.cfg.Network.Enabled)

	res.Plan = bookmark.NewPlanner().Run(items, kept, discarded)

	if p.cfg.Apply.Mode == config.ApplyExportHTML {
		path, err := export.NewHTMLExporter(p.cfg.Apply.GroupBy).WriteFile(exportDir, kept)
		if err != nil {
			return err
		}
		res.ExportPath = path
		p.out.line("Exported HTML to", path)
	} else {
		p.out.warn("Dry-run: no export performed")
	}

	renderer, err := report.NewRenderer()
	if err != nil {
		return err
	}
	data := report.NewData(kept, discarded, res.Plan)
	data.RunID = res.RunID
	data.GeneratedAt = start
	res.ReportPaths, err = renderer.WriteFiles(exportDir, p.cfg.Output.ReportFormats, data)
	if err != nil {
		return err
	}

	res.PlanPath = filepath.Join(exportDir, p.cfg.Output.PlanFileName(start))
	if err := report.WritePlan(res.PlanPath, res.Plan); err != nil {
		return err
	}
	p.out.line("Reports written to", exportDir)

	if p.runs != nil {
		run.InputSource = src.Path
		run.TotalInput = res.Loaded
		run.Kept = res.Kept
		run.Discarded = res.Discarded
		run.PlanFile = filepath.Base(res.PlanPath)
		if err := p.runs.FinishRun(run, planItems(res.Plan)); err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
	}

	return p.publish(ctx, res)
}

func (p *Pipeline) categorize(ctx context.Context, kept []*bookmark.Bookmark) (int, error) {
	classifier, err := newClassifier(p.cfg)
	if err != nil {
		return 0, err
	}
	if classifier == nil {
		return 0, nil
	}

	if p.cfg.Categorize.Mode == config.ModeLLM && p.cfg.Network.FetchContent && p.cfg.Network.Enabled {
		enricher := enrich.NewEnricher(p.cache, enrich.Options{
			Concurrent:        p.cfg.Network.Concurrent,
			Retries:           p.cfg.Network.Retries,
			Timeout:           p.cfg.Network.GetTimeout(),
			UserAgent:         p.cfg.Network.UserAgent,
			MaxContentChars:   p.cfg.Network.MaxContentChars,
			RequestsPerSecond: p.cfg.Network.RequestsPerSecond,
		})
		if _, err := enricher.Run(ctx, kept); err != nil {
			return 0, fmt.Errorf("failed to enrich bookmarks: %w", err)
		}
	}

	start := time.Now()
	results, err := classifier.Classify(ctx, kept)
	if err != nil && !errors.Is(err, classify.ErrProviderUnavailable) {
		return 0, fmt.Errorf("failed to classify bookmarks: %w", err)
	}

	tagged := bookmark.ApplyTags(kept, results)
	slog.Info("Classification completed", "mode", classifier.Name(), "duration", time.Since(start), "tagged", tagged)

	return tagged, nil
}

func (p *Pipeline) publish(ctx context.Context, res *Result) error {
	if p.cfg.Output.S3.Bucket == "" {
		return nil
	}

	publisher, err := storage.NewS3Publisher(ctx, p.cfg.Output.S3)
	if err != nil {
		return err
	}

	runID := res.RunID
	if runID == "" {
		runID = p.now().UTC().Format("20060102-150405")
	}

	res.Uploaded, err = publisher.Publish(ctx, runID, res.Artifacts())
	if err != nil {
		return err
	}
	p.out.count("Uploaded", len(res.Uploaded), " files to s3://"+p.cfg.Output.S3.Bucket)

	return nil
}

func planItems(plan []bookmark.PlanItem) []database.RunPlanItem {
	items := make([]database.RunPlanItem, len(plan))
	for i, item := range plan {
		items[i] = database.RunPlanItem{
			Position:   i,
			Action:     string(item.Action),
			Reason:     item.Reason,
			BookmarkID: item.BookmarkID,
		}
	}
	return items
}
