package api

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/bookmark-comb/app/database"
	"github.com/lysyi3m/bookmark-comb/app/export"
	"github.com/lysyi3m/bookmark-comb/app/report"
)

var planFileRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*\.json$`)

// Files served from the export directory besides plan JSON files.
var artifactTypes = map[string]string{
	"report." + report.FormatHTML:     "text/html; charset=utf-8",
	"report." + report.FormatMarkdown: "text/markdown; charset=utf-8",
	export.FileName:                   "text/html; charset=utf-8",
}

func NewHandler(runs database.RunStore, exportDir string) *Handler {
	return &Handler{
		runs:      runs,
		exportDir: exportDir,
		metrics:   NewMetrics(runs),
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	run, err := h.runs.GetLatestRun()
	switch {
	case err == nil:
		health["last_run"] = run
	case errors.Is(err, database.ErrNotFound):
		health["last_run"] = nil
	default:
		slog.Error("Database error", "operation", "get_latest_run", "error", err)
		health["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	runs, err := h.runs.ListRuns(limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_runs", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []database.Run{}
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"count": len(runs),
	})
}

func (h *Handler) GetRun(c *gin.Context) {
	run, ok := h.lookupRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *Handler) GetRunPlan(c *gin.Context) {
	run, ok := h.lookupRun(c)
	if !ok {
		return
	}

	items, err := h.runs.GetPlanItems(run.ID)
	if err != nil {
		slog.Error("Database error", "operation", "get_plan_items", "run_id", run.ID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id": run.ID,
		"items":  items,
		"count":  len(items),
	})
}

// GetArtifact serves a generated report, the cleaned export or a plan file
func (h *Handler) GetArtifact(c *gin.Context) {
	name := c.Param("name")

	contentType, known := artifactTypes[name]
	if !known {
		if !planFileRegex.MatchString(name) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown artifact"})
			return
		}
		contentType = "application/json"
	}

	path := filepath.Join(h.exportDir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		c.JSON(http.StatusNotFound, gin.H{"error": "artifact not found"})
		return
	}
	if err != nil {
		slog.Error("Failed to read artifact", "path", path, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

func (h *Handler) lookupRun(c *gin.Context) (*database.Run, bool) {
	id := c.Param("id")

	run, err := h.runs.GetRun(id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return nil, false
	}
	if err != nil {
		slog.Error("Database error", "operation", "get_run", "run_id", id, "error", err)
		c.Status(http.StatusInternalServerError)
		return nil, false
	}

	return run, true
}
