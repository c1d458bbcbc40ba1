package database

var (
	_ FetchCacheStore = (*FetchCacheRepository)(nil)
	_ RunStore        = (*RunRepository)(nil)
)

type FetchCacheStore interface {
	Get(url string) (*FetchCacheEntry, error)
	Upsert(entry FetchCacheEntry) error
}

type RunStore interface {
	CreateRun(run *Run) error
	FinishRun(run *Run, items []RunPlanItem) error
	FailRun(id string, cause error) error
	GetRun(id string) (*Run, error)
	ListRuns(limit int) ([]Run, error)
	GetPlanItems(runID string) ([]RunPlanItem, error)
	GetLatestRun() (*Run, error)
}
