package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// FetchCacheRepository stores the outcome of page fetches per URL
type FetchCacheRepository struct {
	db *DB
}

func NewFetchCacheRepository(db *DB) *FetchCacheRepository {
	return &FetchCacheRepository{db: db}
}

// Get returns the cached entry for url or ErrNotFound
func (r *FetchCacheRepository) Get(url string) (*FetchCacheEntry, error) {
	var e FetchCacheEntry
	err := r.db.QueryRow(`
		SELECT url, status, content_snippet, error, checked_at
		FROM fetch_cache
		WHERE url = ?
	`, url).Scan(&e.URL, &e.Status, &e.ContentSnippet, &e.Error, &e.CheckedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fetch cache entry: %w", err)
	}
	return &e, nil
}

func (r *FetchCacheRepository) Upsert(entry FetchCacheEntry) error {
	_, err := r.db.Exec(`
		INSERT INTO fetch_cache (url, status, content_snippet, error, checked_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			status = excluded.status,
			content_snippet = excluded.content_snippet,
			error = excluded.error,
			checked_at = excluded.checked_at
	`, entry.URL, entry.Status, entry.ContentSnippet, entry.Error, entry.CheckedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert fetch cache entry: %w", err)
	}
	return nil
}
