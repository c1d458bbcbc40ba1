package database

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("record not found")

// Fetch cache statuses
const (
	FetchStatusOK    = "ok"
	FetchStatusError = "error"
)

type FetchCacheEntry struct {
	URL            string
	Status         string
	ContentSnippet string
	Error          string
	CheckedAt      time.Time
}

type Run struct {
	ID             string     `json:"id"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	InputSource    string     `json:"input_source"`
	CategorizeMode string     `json:"categorize_mode"`
	ApplyMode      string     `json:"apply_mode"`
	TotalInput     int        `json:"total_input"`
	Kept           int        `json:"kept"`
	Discarded      int        `json:"discarded"`
	PlanFile       string     `json:"plan_file"`
	Error          string     `json:"error,omitempty"`
}

type RunPlanItem struct {
	Position   int    `json:"position"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
	BookmarkID string `json:"bookmark_id"`
}
