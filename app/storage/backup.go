package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const BackupDir = "backups"

// Backup copies src into dir as backup-YYYYmmdd-HHMMSS-<name> and returns the
// new path.
func Backup(src, dir string, now time.Time) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", src, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	dst := filepath.Join(dir, fmt.Sprintf("backup-%s-%s", now.Format("20060102-150405"), filepath.Base(src)))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	return dst, nil
}
