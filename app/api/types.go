package api

import (
	"github.com/lysyi3m/bookmark-comb/app/database"
)

type Handler struct {
	runs      database.RunStore
	exportDir string
	metrics   *Metrics
}
