package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// GetTimeout returns the per-request network timeout
func (n *NetworkConfig) GetTimeout() time.Duration {
	if n.TimeoutSec <= 0 {
		return 8 * time.Second
	}
	return time.Duration(n.TimeoutSec) * time.Second
}

// PlanFileName returns the plan file name for a run started at ts
func (o *OutputConfig) PlanFileName(ts time.Time) string {
	name := strings.ReplaceAll(o.PlanName, "{timestamp}", ts.Format("20060102-150405"))
	return name + ".json"
}

// ExpandPath resolves a leading "~" to the user's home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
